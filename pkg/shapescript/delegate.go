package shapescript

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/shapescript-lang/shapescript/internal/values"
)

// FileDelegate is the default Delegate: imports resolve against the
// filesystem relative to the importing file's URL (falling back to
// Root for the entry source), and Log writes a space-joined line of
// each argument's String() to Output.
type FileDelegate struct {
	Root      string
	Output    io.Writer
	cancelled bool
}

// NewFileDelegate builds a FileDelegate rooted at root (the current
// directory if empty) logging to out (io.Discard if nil).
func NewFileDelegate(root string, out io.Writer) *FileDelegate {
	if out == nil {
		out = io.Discard
	}
	return &FileDelegate{Root: root, Output: out}
}

// ResolveImport loads path relative to fromURL's directory, or Root
// when fromURL is the synthetic entry URL ("<eval>" or empty).
func (d *FileDelegate) ResolveImport(fromURL, path string) ([]byte, string, error) {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return nil, "", &os.PathError{Op: "import", Path: path, Err: os.ErrInvalid}
	}

	base := d.Root
	if fromURL != "" && fromURL != "<eval>" {
		base = filepath.Dir(fromURL)
	}
	resolved := path
	if !filepath.IsAbs(path) {
		resolved = filepath.Join(base, path)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, "", err
	}
	return data, resolved, nil
}

// Log writes args space-joined (spec.md §6's "debug_log" channel).
func (d *FileDelegate) Log(args ...values.Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	io.WriteString(d.Output, strings.Join(parts, " ")+"\n")
}

// IsCancelled reports whether Cancel has been called on this
// delegate. Hosts that need upstream-context cancellation should
// supply their own Delegate built on context.Context instead.
func (d *FileDelegate) IsCancelled() bool { return d.cancelled }

// Cancel marks the delegate cancelled; the evaluator polls
// IsCancelled between geometry-building steps (spec.md §5).
func (d *FileDelegate) Cancel() { d.cancelled = true }
