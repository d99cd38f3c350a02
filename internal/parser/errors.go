package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abnfkit/abnfc/internal/types"
)

// Sentinel errors wrapped by ParseError. Match with errors.Is.
var (
	ErrUnexpectedToken          = errors.New("unexpected token")
	ErrUnexpectedEOF            = errors.New("unexpected end of input")
	ErrEmptyGrammar             = errors.New("grammar has no rules")
	ErrDuplicateRule            = errors.New("duplicate rule definition")
	ErrUndefinedIncrementalRule = errors.New("incremental alternative for undefined rule")
	ErrInvalidRepeat            = errors.New("invalid repeat count")
	ErrInvalidNumber            = errors.New("invalid number")
	ErrInvalidRange             = errors.New("invalid range")
	ErrTooDeep                  = errors.New("nesting too deep")
)

// ParseError is a fatal parse failure at Span.
type ParseError struct {
	Err      error
	Expected string // what the parser wanted, if known
	Found    string // text of the offending token, empty at end of input
	Span     types.Span
	Detail   string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Expected != "" {
		fmt.Fprintf(&b, ", expected %s", e.Expected)
	}
	if e.Found != "" {
		fmt.Fprintf(&b, ", found %q", e.Found)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
