package errors

import (
	"strings"
	"testing"

	"github.com/shapescript-lang/shapescript/internal/source"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

func rng(line, col int) token.Range {
	pos := token.Position{Line: line, Column: col}
	return token.Range{Start: pos, End: pos}
}

func TestUnknownSymbolSuggestsCloseMatch(t *testing.T) {
	e := UnknownSymbol(rng(1, 1), "sphre", []string{"sphere", "cube", "cone"})
	if e.Suggestion != "sphere" {
		t.Errorf("suggestion = %q, want %q", e.Suggestion, "sphere")
	}
}

func TestUnknownSymbolNoSuggestionWhenFar(t *testing.T) {
	e := UnknownSymbol(rng(1, 1), "zzzzzzz", []string{"sphere", "cube"})
	if e.Suggestion != "" {
		t.Errorf("expected no suggestion, got %q", e.Suggestion)
	}
}

func TestUnusedValueIsAWarning(t *testing.T) {
	e := UnusedValue(rng(2, 3))
	if !e.Warning {
		t.Errorf("unusedValue should be marked as a warning")
	}
}

func TestFormatIncludesCaretUnderColumn(t *testing.T) {
	file := source.NewFile("test.shape", "cube\nsphere")
	pos := token.Position{Offset: 5, Line: 2, Column: 1}
	e := New(KindTypeMismatch, token.Range{Start: pos, End: pos}, "Expected number.")
	out := Format(e, file, false)
	for _, want := range []string{"test.shape:2:1", "sphere", "Expected number."} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
