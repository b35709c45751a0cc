package database

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/RichardKnop/minidb/internal/core/minidb"
)

var errUnrecognizedStatementKind = fmt.Errorf("unrecognised statement kind")

type Parser interface {
	Parse(context.Context, string) (minidb.Statement, error)
}

type Table interface {
	Insert(context.Context, minidb.Row) error
	Select(context.Context) ([]minidb.Row, error)
	PrintTree(context.Context, io.Writer) error
	Close(context.Context) error
}

// Database binds the statement parser to the single table stored in the database file.
type Database struct {
	parser Parser
	table  Table
	logger *zap.Logger
}

// New creates a new database
func New(logger *zap.Logger, aTable Table, aParser Parser) *Database {
	return &Database{
		parser: aParser,
		table:  aTable,
		logger: logger,
	}
}

// Close flushes all pages and closes the database file
func (d *Database) Close(ctx context.Context) error {
	d.logger.Debug("closing database")
	return d.table.Close(ctx)
}

// PrepareStatement parses a line of input into a Statement struct
func (d *Database) PrepareStatement(ctx context.Context, input string) (minidb.Statement, error) {
	stmt, err := d.parser.Parse(ctx, input)
	if err != nil {
		return minidb.Statement{}, err
	}
	return stmt, nil
}

// ExecuteStatement runs a prepared statement against the table
func (d *Database) ExecuteStatement(ctx context.Context, stmt minidb.Statement) (minidb.StatementResult, error) {
	switch stmt.Kind {
	case minidb.Insert:
		return d.executeInsert(ctx, stmt)
	case minidb.Select:
		return d.executeSelect(ctx, stmt)
	}
	return minidb.StatementResult{}, fmt.Errorf("%w: %s", errUnrecognizedStatementKind, stmt.Kind)
}

// PrintTree writes structure of the B-tree
func (d *Database) PrintTree(ctx context.Context, w io.Writer) error {
	return d.table.PrintTree(ctx, w)
}

func (d *Database) executeInsert(ctx context.Context, stmt minidb.Statement) (minidb.StatementResult, error) {
	d.logger.Sugar().With(
		"id", int(stmt.Row.ID),
	).Debug("executing insert")

	if err := d.table.Insert(ctx, stmt.Row); err != nil {
		return minidb.StatementResult{}, err
	}

	return minidb.StatementResult{
		Kind:         minidb.Insert,
		RowsAffected: 1,
	}, nil
}

func (d *Database) executeSelect(ctx context.Context, stmt minidb.Statement) (minidb.StatementResult, error) {
	rows, err := d.table.Select(ctx)
	if err != nil {
		return minidb.StatementResult{}, err
	}

	d.logger.Sugar().With(
		"rows", len(rows),
	).Debug("executed select")

	return minidb.StatementResult{
		Kind: minidb.Select,
		Rows: rows,
	}, nil
}
