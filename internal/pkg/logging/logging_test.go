package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		Input    string
		Expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" INFO ", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"-1", zapcore.DebugLevel},
		{"2", zapcore.ErrorLevel},
	}

	for _, aTestCase := range testCases {
		t.Run(aTestCase.Input, func(t *testing.T) {
			level, err := ParseLevel(aTestCase.Input)
			require.NoError(t, err)
			assert.Equal(t, aTestCase.Expected, level)
		})
	}
}

func TestParseLevel_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseLevel("verbose")
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Parallel()

	logger, err := New("")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = New("verbose")
	require.Error(t, err)
}
