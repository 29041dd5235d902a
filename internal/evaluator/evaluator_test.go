package evaluator

import (
	"context"
	"strings"
	"testing"

	evalctx "github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/lexer"
	"github.com/shapescript-lang/shapescript/internal/parser"
	"github.com/shapescript-lang/shapescript/internal/values"
)

type testDelegate struct{}

func (d *testDelegate) ResolveImport(fromURL, path string) ([]byte, string, error) {
	return nil, "", errNotFound
}
func (d *testDelegate) Log(args ...values.Value) {}
func (d *testDelegate) IsCancelled() bool         { return false }

type notFoundErr struct{}

func (notFoundErr) Error() string { return "not found" }

var errNotFound = notFoundErr{}

func run(t *testing.T, src string) (*evalctx.Context, error) {
	t.Helper()
	l := lexer.New(src)
	prog, errs := parser.ParseProgram(l, "<test>")
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	root := evalctx.New(context.Background(), &testDelegate{}, "<test>", nil, nil)
	err := EvalProgram(root, prog)
	return root, err
}

func TestDefineAndEmitConstant(t *testing.T) {
	root, err := run(t, "define foo 10\nfoo\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	children := root.Children()
	if len(children) != 1 {
		t.Fatalf("got %d children, want 1", len(children))
	}
	n, ok := children[0].(*values.NumberValue)
	if !ok || n.Value != 10 {
		t.Errorf("expected number 10, got %v", children[0])
	}
}

func TestIfElseBranches(t *testing.T) {
	root, err := run(t, "if 1 = 1 {\n  5\n} else {\n  6\n}\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children()) != 1 || root.Children()[0].(*values.NumberValue).Value != 5 {
		t.Fatalf("expected then-branch value 5, got %v", root.Children())
	}
}

func TestForLoopEmitsChildrenInOrder(t *testing.T) {
	root, err := run(t, "for i in 1 to 3 {\n  i\n}\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children()) != 3 {
		t.Fatalf("got %d children, want 3", len(root.Children()))
	}
	for i, c := range root.Children() {
		if c.(*values.NumberValue).Value != float64(i+1) {
			t.Errorf("child %d = %v, want %d", i, c, i+1)
		}
	}
}

func TestSwitchMatchesFirstCase(t *testing.T) {
	root, err := run(t, "switch 2 {\n  case 1\n    10\n  case 2\n    20\n  else\n    30\n}\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children()) != 1 || root.Children()[0].(*values.NumberValue).Value != 20 {
		t.Fatalf("expected 20, got %v", root.Children())
	}
}

func TestUserBlockOptionOverrideWinsOverDefault(t *testing.T) {
	root, err := run(t, "define box {\n  option size 1\n  size\n}\nbox { size 9 }\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children()) != 1 {
		t.Fatalf("got %d children, want 1", len(root.Children()))
	}
	if n, ok := root.Children()[0].(*values.NumberValue); !ok || n.Value != 9 {
		t.Errorf("expected call-site override 9 to win, got %v", root.Children()[0])
	}
}

func TestUserBlockOptionDefaultAppliesWithoutOverride(t *testing.T) {
	root, err := run(t, "define box {\n  option size 1\n  size\n}\nbox {}\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := root.Children()[0].(*values.NumberValue); !ok || n.Value != 1 {
		t.Errorf("expected default 1, got %v", root.Children()[0])
	}
}

func TestUnknownSymbolIsAnError(t *testing.T) {
	_, err := run(t, "bogus 1\n")
	if err == nil {
		t.Fatalf("expected an error for an undefined symbol")
	}
}

func TestUserFunctionCallReturnsExpression(t *testing.T) {
	root, err := run(t, "define double(n) {\n  n * 2\n}\ndouble(21)\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := root.Children()[0].(*values.NumberValue); !ok || n.Value != 42 {
		t.Errorf("expected 42, got %v", root.Children()[0])
	}
}

func TestSubscriptIndexesTuple(t *testing.T) {
	root, err := run(t, "define t (10 20 30)\nt[1]\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := root.Children()[0].(*values.NumberValue); !ok || n.Value != 20 {
		t.Errorf("expected 20, got %v", root.Children()[0])
	}
}

func TestRangeStepAppliesOnce(t *testing.T) {
	root, err := run(t, "define r 1 to 10 step 2\nr\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rv, ok := root.Children()[0].(*values.RangeValue)
	if !ok {
		t.Fatalf("expected a range, got %T", root.Children()[0])
	}
	if !rv.HasStep || rv.Step != 2 {
		t.Errorf("expected step 2, got HasStep=%v Step=%v", rv.HasStep, rv.Step)
	}
}

func TestOutOfRangeSubscriptOnTenPlusElementTuple(t *testing.T) {
	_, err := run(t, "define t (1 2 3 4 5 6 7 8 9 10 11 12)\nt[20]\n")
	if err == nil {
		t.Fatal("expected an out-of-range subscript error")
	}
	if !strings.Contains(err.Error(), "0..12") {
		t.Errorf("error message = %q, want it to contain %q", err.Error(), "0..12")
	}
}

func TestChainedStepIsRejectedAtParseTime(t *testing.T) {
	l := lexer.New("define r 1 to 10 step 2 step 3\n")
	_, errs := parser.ParseProgram(l, "<test>")
	if len(errs) == 0 {
		t.Fatalf("expected a parse error for a chained 'step' clause")
	}
}
