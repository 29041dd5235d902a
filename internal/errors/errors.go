// Package errors formats ShapeScript diagnostics (lexer, parser, and
// evaluator) with source context: a caret under the offending column,
// keyed to spec.md §7's error taxonomy and token.Range positions.
package errors

import (
	"fmt"
	"strings"

	"github.com/shapescript-lang/shapescript/internal/source"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

// Kind is a runtime (evaluator) error kind from spec.md §7.
type Kind string

const (
	KindTypeMismatch       Kind = "typeMismatch"
	KindUnexpectedArgument Kind = "unexpectedArgument"
	KindMissingArgument    Kind = "missingArgument"
	KindUnknownSymbol      Kind = "unknownSymbol"
	KindUnknownMember      Kind = "unknownMember"
	KindInvalidIndex       Kind = "invalidIndex"
	KindFileNotFound       Kind = "fileNotFound"
	KindAssertionFailure   Kind = "assertionFailure"
	KindUnusedValue        Kind = "unusedValue" // warning, not fatal
	KindRedefinition       Kind = "redefinition"
	KindCyclicImport       Kind = "cyclicImport"
)

// Error is a single diagnostic: lexer, parser, or evaluator. Message
// is the one-line summary; Hint is an imperative fix suggestion or
// empty; Suggestion is a bare correction token (e.g. a misspelling
// fix) or empty.
type Error struct {
	Kind       Kind
	Message    string
	Hint       string
	Suggestion string
	Range      token.Range
	Warning    bool
}

func (e *Error) Error() string { return e.Message }

// New builds a runtime error of the given kind at rng with message.
func New(kind Kind, rng token.Range, message string) *Error {
	return &Error{Kind: kind, Range: rng, Message: message}
}

func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// TypeMismatch builds the `typeMismatch{for, index?, expected, got}`
// error spec.md §7 describes.
func TypeMismatch(rng token.Range, forWhat, expected, got string) *Error {
	msg := fmt.Sprintf("Expected %s for %s, got %s.", expected, forWhat, got)
	return New(KindTypeMismatch, rng, msg)
}

func UnexpectedArgument(rng token.Range, forWhat string, max int) *Error {
	msg := fmt.Sprintf("Too many arguments for %s (max %d).", forWhat, max)
	return New(KindUnexpectedArgument, rng, msg)
}

func MissingArgument(rng token.Range, forWhat, expected string) *Error {
	msg := fmt.Sprintf("Missing argument for %s, expected %s.", forWhat, expected)
	return New(KindMissingArgument, rng, msg)
}

func UnknownSymbol(rng token.Range, name string, options []string) *Error {
	e := New(KindUnknownSymbol, rng, fmt.Sprintf("Unknown symbol %q.", name))
	if s := closest(name, options); s != "" {
		e.Hint = fmt.Sprintf("Did you mean %q?", s)
		e.Suggestion = s
	}
	return e
}

func UnknownMember(rng token.Range, name, ofType string, options []string) *Error {
	e := New(KindUnknownMember, rng, fmt.Sprintf("%s has no member %q.", ofType, name))
	if s := closest(name, options); s != "" {
		e.Hint = fmt.Sprintf("Did you mean %q?", s)
		e.Suggestion = s
	}
	return e
}

func InvalidIndex(rng token.Range, index int, rangeDesc string) *Error {
	msg := fmt.Sprintf("Index %d is out of range (%s).", index, rangeDesc)
	return New(KindInvalidIndex, rng, msg)
}

func FileNotFound(rng token.Range, name, at string) *Error {
	msg := fmt.Sprintf("File %q not found.", name)
	if at != "" {
		msg = fmt.Sprintf("File %q not found at %s.", name, at)
	}
	return New(KindFileNotFound, rng, msg)
}

func AssertionFailure(rng token.Range, message string) *Error {
	return New(KindAssertionFailure, rng, message)
}

func UnusedValue(rng token.Range) *Error {
	e := New(KindUnusedValue, rng, "Value was not used.")
	e.Warning = true
	return e
}

func Redefinition(rng token.Range, name string) *Error {
	return New(KindRedefinition, rng, fmt.Sprintf("%q is already defined.", name))
}

func CyclicImport(rng token.Range, path string) *Error {
	return New(KindCyclicImport, rng, fmt.Sprintf("Cyclic import of %q.", path))
}

// closest returns the candidate with the smallest edit distance to
// name, provided that distance is at most 2, or "" if none is close
// enough. Deterministic: on a tie the earliest candidate given wins.
func closest(name string, candidates []string) string {
	best, bestDist := "", 3
	for _, c := range candidates {
		d := levenshtein(name, c)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// Format renders an error with a source-line/caret presentation,
// using the source package's line lookups instead of re-splitting
// the text by hand.
func Format(e *Error, file *source.File, color bool) string {
	var sb strings.Builder
	pos := e.Range.Start
	if file != nil {
		sb.WriteString(fmt.Sprintf("Error in %s:%d:%d\n", file.Name(), pos.Line, pos.Column))
		line := file.Line(pos.Offset)
		lineNumStr := fmt.Sprintf("%4d | ", pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString(fmt.Sprintf("Error at %d:%d\n", pos.Line, pos.Column))
	}
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	if e.Hint != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Hint)
	}
	return sb.String()
}
