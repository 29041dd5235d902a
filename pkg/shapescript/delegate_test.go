package shapescript

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/shapescript-lang/shapescript/internal/values"
)

func TestFileDelegateResolveImportRelative(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "part.shape"), []byte("cube\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	d := NewFileDelegate(dir, nil)
	data, resolved, err := d.ResolveImport("<eval>", "part.shape")
	if err != nil {
		t.Fatalf("ResolveImport: %v", err)
	}
	if string(data) != "cube\n" {
		t.Errorf("got data %q", data)
	}
	if resolved != filepath.Join(dir, "part.shape") {
		t.Errorf("resolved = %q", resolved)
	}
}

func TestFileDelegateResolveImportMissing(t *testing.T) {
	d := NewFileDelegate(t.TempDir(), nil)
	if _, _, err := d.ResolveImport("<eval>", "missing.shape"); err == nil {
		t.Fatal("expected an error for a missing import")
	}
}

func TestFileDelegateCancel(t *testing.T) {
	d := NewFileDelegate("", nil)
	if d.IsCancelled() {
		t.Fatal("expected not cancelled initially")
	}
	d.Cancel()
	if !d.IsCancelled() {
		t.Fatal("expected cancelled after Cancel")
	}
}

func TestFileDelegateLogWritesOutput(t *testing.T) {
	var buf bytes.Buffer
	d := NewFileDelegate("", &buf)
	d.Log(&values.StringValue{Value: "a"}, &values.StringValue{Value: "b"})
	if buf.String() != "a b\n" {
		t.Errorf("got %q", buf.String())
	}
}
