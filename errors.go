package fluentfile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidID is wrapped by every id validation failure.
var ErrInvalidID = errors.New("invalid unit id")

// ErrMalformedLanguage is wrapped by File.SetLanguage when the tag
// does not parse as BCP 47.
var ErrMalformedLanguage = errors.New("malformed language tag")

// ParseError aggregates every grammar failure of one parse.
// No partial File is produced alongside it.
type ParseError struct {
	// Snippet is the offending text, shortened to the first line of
	// the first bad span.
	Snippet  string
	Problems []Problem
}

// Problem is one positioned diagnostic of a ParseError.
type Problem struct {
	Code   string
	Detail string
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Parsing error for fluent source: %s", e.Snippet)
	for _, p := range e.Problems {
		fmt.Fprintf(&b, "\n%s: %s (line %d, column %d)",
			p.Code, p.Detail, p.Line, p.Column)
	}
	return b.String()
}

// SourceError reports a unit whose mutated source no longer parses as
// a value of its unit type. Line and Column are 1-based positions in
// the unit source. It aborts the whole serialization.
type SourceError struct {
	UnitID string
	Detail string
	Line   int
	Column int
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("Error in source of FluentUnit %q:\n%s [line %d, column %d]",
		e.UnitID, e.Detail, e.Line, e.Column)
}
