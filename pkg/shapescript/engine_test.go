package shapescript

import (
	"bytes"
	"testing"

	"github.com/shapescript-lang/shapescript/internal/errors"
	"github.com/shapescript-lang/shapescript/internal/values"
)

func TestEvalEmitsChildren(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := e.Eval("define foo 10\nfoo\n")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !result.Success {
		t.Fatal("expected Success")
	}
	if len(result.Children) != 1 {
		t.Fatalf("got %d children, want 1", len(result.Children))
	}
	n, ok := result.Children[0].(*values.NumberValue)
	if !ok || n.Value != 10 {
		t.Errorf("expected number 10, got %v", result.Children[0])
	}
	if result.RunID == "" {
		t.Error("expected a non-empty RunID")
	}
}

func TestEvalCapturesLog(t *testing.T) {
	var out bytes.Buffer
	e, err := New(WithOutput(&out))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := e.Eval(`print "hello"` + "\n")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if len(result.Log) != 1 || result.Log[0] != "hello" {
		t.Fatalf("expected one log line \"hello\", got %v", result.Log)
	}
	if out.String() != "hello\n" {
		t.Errorf("expected delegate output \"hello\\n\", got %q", out.String())
	}
}

func TestCompileThenRunTwice(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prog, err := e.Compile("1 + 2\n")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	first, err := e.Run(prog)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := e.Run(prog)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if first.RunID == second.RunID {
		t.Error("expected distinct RunIDs across independent Run calls")
	}
	if len(first.Children) != 1 || len(second.Children) != 1 {
		t.Fatalf("expected one child per run, got %d and %d", len(first.Children), len(second.Children))
	}
}

func TestEvalParseErrorFails(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = e.Eval("cube {\n")
	if err == nil {
		t.Fatal("expected a parse error for an unterminated block")
	}
}

func TestPrimitiveEmitsMesh(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := e.Eval("cube\n")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if len(result.Children) != 1 {
		t.Fatalf("got %d children, want 1", len(result.Children))
	}
	if _, ok := result.Children[0].(*values.MeshValue); !ok {
		t.Errorf("expected a mesh, got %T", result.Children[0])
	}
}

func TestBuilderAssertionUsesEnclosingRange(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = e.Eval("cube\nminkowski {\n  cube\n}\n")
	if err == nil {
		t.Fatal("expected an error for minkowski with too few child meshes")
	}
	se, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("error is %T, want *errors.Error", err)
	}
	if se.Range.Start.Line != 2 {
		t.Errorf("error range line = %d, want 2 (the minkowski command), got zero-value range %v", se.Range.Start.Line, se.Range)
	}
}
