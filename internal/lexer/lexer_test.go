package lexer

import (
	"testing"

	"github.com/shapescript-lang/shapescript/pkg/token"
)

func collectTokens(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(input)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

func TestUnexpectedTokenOnBadIdentifier(t *testing.T) {
	l := New("a123$4b")
	for {
		tok := l.Next()
		if tok.Type == token.EOF {
			break
		}
	}
	errs := l.Errors()
	if len(errs) == 0 {
		t.Fatalf("expected at least one lexer error")
	}
	if errs[0].Kind != ErrUnexpectedToken {
		t.Errorf("kind = %v, want ErrUnexpectedToken", errs[0].Kind)
	}
}

func TestInvalidEscapeSequenceOnDoubledQuote(t *testing.T) {
	l := New(`""foo""`)
	for {
		tok := l.Next()
		if tok.Type == token.EOF {
			break
		}
	}
	errs := l.Errors()
	if len(errs) == 0 {
		t.Fatalf("expected at least one lexer error")
	}
	found := false
	for _, e := range errs {
		if e.Kind == ErrInvalidEscapeSequence {
			found = true
			if e.Suggestion != `\"` {
				t.Errorf("suggestion = %q, want %q", e.Suggestion, `\"`)
			}
		}
	}
	if !found {
		t.Fatalf("expected an invalidEscapeSequence error, got %+v", errs)
	}
}

func TestBasicTokenKinds(t *testing.T) {
	toks := collectTokens(t, `cube 1 "hi" #f00 foo.bar and not`)
	want := []token.Type{
		token.IDENT, token.NUMBER, token.STRING, token.HEXCOLOR,
		token.IDENT, token.DOT, token.IDENT, token.INFIX, token.PREFIX, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d (%v)", len(toks), len(want), toks)
	}
	for i, tok := range toks {
		if tok.Type != want[i] {
			t.Errorf("token %d: got %s, want %s", i, tok.Type, want[i])
		}
	}
}

func TestLinebreakCollapsing(t *testing.T) {
	toks := collectTokens(t, "a\n\n\nb")
	want := []token.Type{token.IDENT, token.LINEBREAK, token.IDENT, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d (%v)", len(toks), len(want), toks)
	}
	for i, tok := range toks {
		if tok.Type != want[i] {
			t.Errorf("token %d: got %s, want %s", i, tok.Type, want[i])
		}
	}
}

func TestBlockCommentPreservesLineBreaks(t *testing.T) {
	toks := collectTokens(t, "a /* line1\nline2 */ b")
	var breaks int
	for _, tok := range toks {
		if tok.Type == token.LINEBREAK {
			breaks++
		}
	}
	if breaks != 1 {
		t.Errorf("got %d linebreak tokens, want 1 (a single collapsed run)", breaks)
	}
}

func TestNestableBlockComments(t *testing.T) {
	toks := collectTokens(t, "a /* outer /* inner */ still-comment */ b")
	want := []token.Type{token.IDENT, token.IDENT, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d (%v)", len(toks), len(want), toks)
	}
}

func TestPhantomParenthesesAfterPrefixOperator(t *testing.T) {
	toks := collectTokens(t, "-a (b)")
	want := []token.Type{
		token.PREFIX, token.LPAREN, token.IDENT, token.RPAREN,
		token.LPAREN, token.IDENT, token.RPAREN, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d (%v)", len(toks), len(want), toks)
	}
	for i, tok := range toks {
		if tok.Type != want[i] {
			t.Errorf("token %d: got %s, want %s", i, tok.Type, want[i])
		}
	}
}

func TestMemberDotRejectsSurroundingSpace(t *testing.T) {
	l := New("foo . bar")
	for {
		tok := l.Next()
		if tok.Type == token.EOF {
			break
		}
	}
	if len(l.Errors()) == 0 {
		t.Fatalf("expected an error for a spaced member dot")
	}
}

func TestNumberDotDigitVsDotIdent(t *testing.T) {
	t.Run("trailing dot then identifier is a separate member access", func(t *testing.T) {
		toks := collectTokens(t, "5.a")
		want := []token.Type{token.NUMBER, token.DOT, token.IDENT, token.EOF}
		if len(toks) != len(want) {
			t.Fatalf("got %d tokens, want %d (%v)", len(toks), len(want), toks)
		}
		for i, tok := range toks {
			if tok.Type != want[i] {
				t.Errorf("token %d: got %s, want %s", i, tok.Type, want[i])
			}
		}
	})

	t.Run("trailing dot then digit is a fraction", func(t *testing.T) {
		toks := collectTokens(t, "5.5")
		if len(toks) != 2 || toks[0].Type != token.NUMBER || toks[0].Literal != "5.5" {
			t.Fatalf("got %v, want a single NUMBER(5.5)", toks)
		}
	})

	t.Run("bare trailing dot is part of the literal", func(t *testing.T) {
		toks := collectTokens(t, "5. ")
		if len(toks) != 2 || toks[0].Type != token.NUMBER {
			t.Fatalf("got %v, want a single NUMBER", toks)
		}
	})
}

func TestOperatorMisspellingSuggestions(t *testing.T) {
	tests := []struct {
		input      string
		suggestion string
	}{
		{"a == b", "="},
		{"a != b", "<>"},
		{"a => b", ">="},
		{"a && b", "and"},
		{"a || b", "or"},
		{"!a", "not"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			for {
				tok := l.Next()
				if tok.Type == token.EOF {
					break
				}
			}
			errs := l.Errors()
			if len(errs) == 0 {
				t.Fatalf("expected an error for %q", tt.input)
			}
			if errs[0].Suggestion != tt.suggestion {
				t.Errorf("suggestion = %q, want %q", errs[0].Suggestion, tt.suggestion)
			}
		})
	}
}

func TestHexColorLengths(t *testing.T) {
	for _, input := range []string{"#f00", "#f00f", "#ff0000", "#ff0000ff"} {
		t.Run(input, func(t *testing.T) {
			l := New(input)
			tok := l.Next()
			if tok.Type != token.HEXCOLOR {
				t.Fatalf("got %s, want hexColor", tok.Type)
			}
			if len(l.Errors()) != 0 {
				t.Errorf("unexpected errors: %v", l.Errors())
			}
		})
	}

	l := New("#ff")
	l.Next()
	if len(l.Errors()) == 0 {
		t.Errorf("expected an invalidColor error for #ff")
	}
}

func TestSaveRestore(t *testing.T) {
	l := New("a b c")
	first := l.Next()
	if first.Literal != "a" {
		t.Fatalf("got %q, want %q", first.Literal, "a")
	}
	state := l.Save()
	second := l.Next()
	if second.Literal != "b" {
		t.Fatalf("got %q, want %q", second.Literal, "b")
	}
	l.Restore(state)
	again := l.Next()
	if again.Literal != "b" {
		t.Errorf("after restore got %q, want %q", again.Literal, "b")
	}
}
