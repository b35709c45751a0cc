package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/RichardKnop/minidb/internal/core/minidb"
	"github.com/RichardKnop/minidb/internal/pkg/util"
)

func newInsertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insert [id] [name] [email]",
		Short: "Insert a new row into the database",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			aRow, err := minidb.NewRow(id, args[1], args[2])
			if err != nil {
				return err
			}

			aTable, err := a.openTable(cmd.Context())
			if err != nil {
				return err
			}
			err = aTable.Insert(cmd.Context(), aRow)
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Executed.")
			}
			return multierr.Append(err, aTable.Close(cmd.Context()))
		},
	}
}

func newSelectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select",
		Short: "Select all rows ordered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			aTable, err := a.openTable(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := aTable.Select(cmd.Context())
			if err == nil {
				util.PrintRows(cmd.OutOrStdout(), rows)
			}
			return multierr.Append(err, aTable.Close(cmd.Context()))
		},
	}
}

func newBtreeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "btree",
		Short: "Print structure of the B-tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			aTable, err := a.openTable(cmd.Context())
			if err != nil {
				return err
			}
			err = aTable.PrintTree(cmd.Context(), cmd.OutOrStdout())
			return multierr.Append(err, aTable.Close(cmd.Context()))
		},
	}
}

func newConstantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "constants",
		Short: "Print sizes of the on-disk format",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			minidb.PrintConstants(cmd.OutOrStdout())
		},
	}
}
