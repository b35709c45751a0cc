package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/RichardKnop/minidb/internal/core/database"
	"github.com/RichardKnop/minidb/internal/core/minidb"
	"github.com/RichardKnop/minidb/internal/core/parser"
	"github.com/RichardKnop/minidb/internal/pkg/config"
	"github.com/RichardKnop/minidb/internal/pkg/logging"
)

type app struct {
	cfgFile string
	config  config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := new(app)

	rootCmd := &cobra.Command{
		Use:          "minidb",
		Short:        "Single table database stored as a B-tree in one file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			// flushes buffer, if any
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			aDatabase, err := a.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			err = runREPL(cmd.Context(), aDatabase, cmd.InOrStdin(), cmd.OutOrStdout())
			return multierr.Append(err, aDatabase.Close(cmd.Context()))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.minidb.yaml)")
	flags.String(config.KeyDB, config.DefaultDB, "database file")
	flags.String(config.KeyLogLevel, logging.DefaultLevel, "log level (debug, info, warn, error)")
	flags.Uint32(config.KeyMaxInternalKeys, 0, "keys per internal node before it splits, 0 means as many as fit into a page")

	rootCmd.AddCommand(
		newInsertCmd(a),
		newSelectCmd(a),
		newBtreeCmd(a),
		newConstantsCmd(),
	)

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	aConfig, err := config.Load(cmd.Flags(), a.cfgFile)
	if err != nil {
		return err
	}
	a.config = aConfig

	logger, err := logging.New(aConfig.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	a.logger.Sugar().With(
		"db", aConfig.DB,
		"max_internal_keys", int(aConfig.MaxInternalKeys),
	).Debug("loaded config")

	return nil
}

func (a *app) openTable(ctx context.Context) (*minidb.Table, error) {
	var opts []minidb.TableOption
	if a.config.MaxInternalKeys > 0 {
		opts = append(opts, minidb.WithMaxInternalKeys(a.config.MaxInternalKeys))
	}
	return minidb.Open(ctx, a.logger, a.config.DB, opts...)
}

func (a *app) openDatabase(ctx context.Context) (*database.Database, error) {
	aTable, err := a.openTable(ctx)
	if err != nil {
		return nil, err
	}
	return database.New(a.logger, aTable, parser.New(a.logger)), nil
}
