package parser

import "github.com/shapescript-lang/shapescript/pkg/token"

// Error is a single parser-level error (spec.md §7): an unexpected
// token, optionally with a short noun-phrase describing what was
// expected and a spelling suggestion.
type Error struct {
	Got        token.Token
	Expected   string // short noun phrase, e.g. "Expected operand."
	Suggestion string // e.g. "Did you mean 'else'?"
	Rng        token.Range
}

func (e *Error) Error() string {
	if e.Expected != "" {
		return e.Expected
	}
	return "Unexpected token " + e.Got.String() + "."
}

// misspellings maps a commonly mistyped keyword to the keyword the
// parser thinks the author meant, used to build "Did you mean X?" hints.
var misspellings = map[string]string{
	"default": "else",
	"elseif":  "else if",
	"fi":      "if",
}

func suggestionFor(word string) string {
	if correct, ok := misspellings[word]; ok {
		return "Did you mean '" + correct + "'?"
	}
	return ""
}
