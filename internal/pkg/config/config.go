package config

import (
	"errors"
	"fmt"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RichardKnop/minidb/internal/pkg/logging"
)

const (
	EnvPrefix = "MINIDB"

	KeyDB              = "db"
	KeyLogLevel        = "log-level"
	KeyMaxInternalKeys = "max-internal-keys"

	DefaultDB = "db"

	defaultConfigName = ".minidb"
)

type Config struct {
	DB              string
	LogLevel        string
	MaxInternalKeys uint32
}

// Load merges defaults, an optional config file, MINIDB_* environment
// variables and flags, later sources win. When configFile is empty
// a .minidb config in the home directory is used if present.
func Load(flags *pflag.FlagSet, configFile string) (Config, error) {
	v := viper.New()

	v.SetDefault(KeyDB, DefaultDB)
	v.SetDefault(KeyLogLevel, logging.DefaultLevel)
	v.SetDefault(KeyMaxInternalKeys, 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return Config{}, fmt.Errorf("expand config path: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		home, err := homedir.Dir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(defaultConfigName)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	dbPath, err := homedir.Expand(v.GetString(KeyDB))
	if err != nil {
		return Config{}, fmt.Errorf("expand db path: %w", err)
	}

	aConfig := Config{
		DB:              dbPath,
		LogLevel:        v.GetString(KeyLogLevel),
		MaxInternalKeys: v.GetUint32(KeyMaxInternalKeys),
	}
	if err := aConfig.Validate(); err != nil {
		return Config{}, err
	}

	return aConfig, nil
}

func (c Config) Validate() error {
	if c.DB == "" {
		return fmt.Errorf("db path cannot be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxInternalKeys == 1 {
		return fmt.Errorf("max internal keys must be at least 2")
	}
	return nil
}
