package parser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/RichardKnop/minidb/internal/core/minidb"
)

var (
	ErrUnrecognizedStatement = fmt.Errorf("unrecognized statement")
	ErrSyntax                = fmt.Errorf("syntax error")
)

var (
	errEmptyStatement    = fmt.Errorf("%w: empty statement", ErrSyntax)
	errInsertExpectedID  = fmt.Errorf("%w: at INSERT: expected integer id", ErrSyntax)
	errInsertMissingArgs = fmt.Errorf("%w: at INSERT: expected id, name and email", ErrSyntax)
	errUnexpectedToken   = fmt.Errorf("%w: unexpected token after statement", ErrSyntax)
)

type step int

const (
	stepBeginning step = iota + 1
	stepInsertID
	stepInsertName
	stepInsertEmail
	stepStatementEnd
)

type parser struct {
	minidb.Statement
	i      int // where we are in the input
	input  string
	step   step
	id     int64
	name   string
	email  string
	logger *zap.Logger
}

func New(logger *zap.Logger) *parser {
	return &parser{logger: logger}
}

// Parse turns a single line of input into a statement. Insert values are
// validated against the row schema, validation failures are returned as
// *minidb.ValidationError.
func (p *parser) Parse(ctx context.Context, input string) (minidb.Statement, error) {
	p.reset()
	p.setInput(input)

	err := p.doParse()
	if err == nil {
		err = p.validate()
	}
	if err != nil {
		p.logError(err)
		return minidb.Statement{}, err
	}
	return p.Statement, nil
}

func (p *parser) setInput(input string) *parser {
	p.input = strings.TrimSpace(input)
	return p
}

func (p *parser) reset() {
	p.Statement = minidb.Statement{}
	p.input = ""
	p.step = stepBeginning
	p.i = 0
	p.id = 0
	p.name = ""
	p.email = ""
}

func (p *parser) doParse() error {
	for p.i < len(p.input) {
		switch p.step {
		case stepBeginning:
			switch strings.ToLower(p.peek()) {
			case "insert":
				p.Kind = minidb.Insert
				p.pop()
				p.step = stepInsertID
			case "select":
				p.Kind = minidb.Select
				p.pop()
				p.step = stepStatementEnd
			default:
				return ErrUnrecognizedStatement
			}
		case stepInsertID:
			id, ln := p.peekIntWithLength()
			if ln == 0 || ln != len(p.peek()) {
				return errInsertExpectedID
			}
			p.id = id
			p.pop()
			p.step = stepInsertName
		case stepInsertName:
			p.name = p.pop()
			p.step = stepInsertEmail
		case stepInsertEmail:
			p.email = p.pop()
			p.step = stepStatementEnd
		case stepStatementEnd:
			return errUnexpectedToken
		}
	}
	return nil
}

func (p *parser) validate() error {
	if p.Kind == 0 {
		return errEmptyStatement
	}
	if p.Kind == minidb.Select {
		return nil
	}
	if p.step != stepStatementEnd {
		return errInsertMissingArgs
	}

	aRow, err := minidb.NewRow(p.id, p.name, p.email)
	if err != nil {
		return err
	}
	p.Row = aRow
	return nil
}

func (p *parser) peek() string {
	peeked, _ := p.peekWithLength()
	return peeked
}

func (p *parser) pop() string {
	peeked, len := p.peekWithLength()
	p.i += len
	p.popWhitespace()
	return peeked
}

func (p *parser) popWhitespace() {
	for p.i < len(p.input) {
		r, size := utf8.DecodeRuneInString(p.input[p.i:])
		if !unicode.IsSpace(r) {
			return
		}
		p.i += size
	}
}

// peekWithLength returns the next whitespace delimited token.
func (p *parser) peekWithLength() (string, int) {
	if p.i >= len(p.input) {
		return "", 0
	}
	i := p.i
	for i < len(p.input) {
		r, size := utf8.DecodeRuneInString(p.input[i:])
		if unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return p.input[p.i:i], i - p.i
}

// peekIntWithLength reads an optionally signed integer, out of range
// values are clamped so validation can reject them.
func (p *parser) peekIntWithLength() (int64, int) {
	if p.i >= len(p.input) {
		return 0, 0
	}
	i := p.i
	if p.input[i] == '-' || p.input[i] == '+' {
		i++
	}
	digitsStart := i
	for ; i < len(p.input) && unicode.IsDigit(rune(p.input[i])); i++ {
	}
	if i == digitsStart {
		return 0, 0
	}
	intValue, err := strconv.ParseInt(p.input[p.i:i], 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, 0
	}
	return intValue, i - p.i
}

func (p *parser) logError(err error) {
	p.logger.Sugar().With(
		"input", p.input,
		"position", p.i,
	).Debugf("parse error: %s", err)
}
