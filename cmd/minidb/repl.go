package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/RichardKnop/minidb/internal/core/database"
	"github.com/RichardKnop/minidb/internal/core/minidb"
	"github.com/RichardKnop/minidb/internal/core/parser"
)

const prompt = "db > "

type metaCommand int

const (
	Unknown metaCommand = iota + 1
	Help
	Exit
	BTree
	Constants
)

func isMetaCommand(input string) bool {
	return len(input) > 0 && input[:1] == "."
}

func doMetaCommand(input string) metaCommand {
	switch input {
	case ".help":
		return Help
	case ".exit":
		return Exit
	case ".btree":
		return BTree
	case ".constants":
		return Constants
	default:
		return Unknown
	}
}

// runREPL reads statements line by line until EOF or .exit. Recoverable
// errors are printed and the loop continues, a fatal error ends the
// session and is returned.
func runREPL(ctx context.Context, aDatabase *database.Database, in io.Reader, out io.Writer) error {
	reader := bufio.NewScanner(in)
	fmt.Fprint(out, prompt)

	// REPL (Read-eval-print loop) start
	for reader.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		input := strings.TrimSpace(reader.Text())
		switch {
		case input == "":
		case isMetaCommand(input):
			switch doMetaCommand(input) {
			case Help:
				fmt.Fprintln(out, ".help       - Show available commands")
				fmt.Fprintln(out, ".exit       - Flush the database and exit")
				fmt.Fprintln(out, ".btree      - Print structure of the B-tree")
				fmt.Fprintln(out, ".constants  - Print sizes of the on-disk format")
			case Exit:
				return nil
			case BTree:
				fmt.Fprintln(out, "Tree:")
				if err := aDatabase.PrintTree(ctx, out); err != nil {
					return err
				}
			case Constants:
				fmt.Fprintln(out, "Constants:")
				minidb.PrintConstants(out)
			case Unknown:
				fmt.Fprintf(out, "Unrecognized command '%s'\n", input)
			}
		default:
			if err := execute(ctx, aDatabase, input, out); err != nil {
				return err
			}
		}
		fmt.Fprint(out, prompt)
	}
	// Print an additional line if we encountered an EOF character
	fmt.Fprintln(out)

	return reader.Err()
}

// execute prepares and runs a single statement. Fatal errors are returned
// unprinted, the command reports them once on exit.
func execute(ctx context.Context, aDatabase *database.Database, input string, out io.Writer) error {
	stmt, err := aDatabase.PrepareStatement(ctx, input)
	if err != nil {
		fmt.Fprintln(out, errorMessage(input, err))
		return nil
	}

	aResult, err := aDatabase.ExecuteStatement(ctx, stmt)
	if err != nil {
		if minidb.IsFatal(err) {
			return err
		}
		fmt.Fprintln(out, errorMessage(input, err))
		return nil
	}

	for _, aRow := range aResult.Rows {
		fmt.Fprintln(out, aRow)
	}
	fmt.Fprintln(out, "Executed.")

	return nil
}

func errorMessage(input string, err error) string {
	switch {
	case errors.Is(err, parser.ErrUnrecognizedStatement):
		return fmt.Sprintf("Unrecognized keyword at start of '%s'.", input)
	case errors.Is(err, minidb.ErrNegativeID):
		return "ID must be positive."
	case errors.Is(err, minidb.ErrIDTooLarge):
		return "ID is too large."
	case errors.Is(err, minidb.ErrNameTooLong), errors.Is(err, minidb.ErrEmailTooLong):
		return "String is too long."
	case errors.Is(err, parser.ErrSyntax), errors.Is(err, minidb.ErrInvalidString):
		return "Syntax error. Could not parse statement."
	case errors.Is(err, minidb.ErrDuplicateKey):
		return "Error: Duplicate key."
	case errors.Is(err, minidb.ErrTableFull):
		return "Error: Table full."
	default:
		return fmt.Sprintf("Error: %s", err)
	}
}
