package source

import "testing"

func TestPositionLineAndColumn(t *testing.T) {
	f := NewFile("test.shape", "cube\nsphere\n  cone")
	tests := []struct {
		offset       int
		line, column int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{5, 2, 1},
		{14, 3, 3},
	}
	for _, tt := range tests {
		line, col := f.Position(tt.offset)
		if line != tt.line || col != tt.column {
			t.Errorf("Position(%d) = (%d,%d), want (%d,%d)", tt.offset, line, col, tt.line, tt.column)
		}
	}
}

func TestLine(t *testing.T) {
	f := NewFile("test.shape", "cube\nsphere\ncone")
	if got := f.Line(5); got != "sphere" {
		t.Errorf("Line(5) = %q, want %q", got, "sphere")
	}
}

func TestLineNumbered(t *testing.T) {
	f := NewFile("test.shape", "cube\nsphere\ncone")
	if got := f.LineNumbered(5); got != 2 {
		t.Errorf("LineNumbered(5) = %d, want 2", got)
	}
}

func TestNormalizeCRLF(t *testing.T) {
	tests := []struct{ input, want string }{
		{"a\r\nb", "a\nb"},
		{"a\rb", "a\nb"},
		{"a\nb", "a\nb"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCRLF(tt.input); got != tt.want {
			t.Errorf("NormalizeCRLF(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
