// Package source maps byte offsets in program text to line/column
// positions and to the byte range of the enclosing line. Every
// error-carrying component (lexer, parser, evaluator) goes through this
// service rather than re-deriving line numbers itself.
package source

import "strings"

// File indexes the line breaks of a source string once so that later
// Position/LineRange lookups are O(log n) instead of O(n).
type File struct {
	name       string
	text       string
	lineStarts []int // byte offset of the first byte of each line
}

// NewFile builds a File from the given name and text. CRLF pairs are
// treated as a single line break, matching the lexer's CRLF-to-LF
// normalisation (spec.md §6).
func NewFile(name, text string) *File {
	f := &File{name: name, text: text, lineStarts: []int{0}}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

// Name returns the file's display name (often a URL or "<eval>").
func (f *File) Name() string { return f.name }

// Text returns the original source text.
func (f *File) Text() string { return f.text }

// Position converts a byte offset into a 1-based line/column. Columns
// count runes, not bytes, within the line (multi-byte UTF-8 sequences
// count as a single column).
func (f *File) Position(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.text) {
		offset = len(f.text)
	}
	line = f.lineIndex(offset) + 1
	lineStart := f.lineStarts[line-1]
	column = len([]rune(f.text[lineStart:offset])) + 1
	return line, column
}

// lineIndex returns the 0-based index of the line containing offset.
func (f *File) lineIndex(offset int) int {
	lo, hi := 0, len(f.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// LineRange returns the [start, end) byte range of the line containing
// offset, not including the trailing line break.
func (f *File) LineRange(offset int) (start, end int) {
	idx := f.lineIndex(offset)
	start = f.lineStarts[idx]
	if idx+1 < len(f.lineStarts) {
		end = f.lineStarts[idx+1] - 1
	} else {
		end = len(f.text)
	}
	if end > start && f.text[end-1] == '\r' {
		end--
	}
	return start, end
}

// Line returns the text of the line containing offset, without its
// trailing line break.
func (f *File) Line(offset int) string {
	start, end := f.LineRange(offset)
	if start < 0 || end > len(f.text) || start > end {
		return ""
	}
	return f.text[start:end]
}

// LineNumbered returns the 1-based line number of offset without
// computing its column, for callers that only need the line.
func (f *File) LineNumbered(offset int) int {
	return f.lineIndex(offset) + 1
}

// NormalizeCRLF normalises CRLF and lone CR sequences to LF, as
// spec.md §6 requires of the lexer's source ingestion.
func NormalizeCRLF(text string) string {
	if !strings.ContainsRune(text, '\r') {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
