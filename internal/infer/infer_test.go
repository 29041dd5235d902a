package infer_test

import (
	"context"
	"testing"

	evalctx "github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/evaluator"
	"github.com/shapescript-lang/shapescript/internal/infer"
	"github.com/shapescript-lang/shapescript/internal/lexer"
	"github.com/shapescript-lang/shapescript/internal/parser"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/ast"
)

type testDelegate struct{}

func (d *testDelegate) ResolveImport(fromURL, path string) ([]byte, string, error) {
	return nil, "", notFoundErr{}
}
func (d *testDelegate) Log(args ...values.Value) {}
func (d *testDelegate) IsCancelled() bool         { return false }

type notFoundErr struct{}

func (notFoundErr) Error() string { return "not found" }

func run(t *testing.T, src string) *evalctx.Context {
	t.Helper()
	l := lexer.New(src)
	prog, errs := parser.ParseProgram(l, "<test>")
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	root := evalctx.New(context.Background(), &testDelegate{}, "<test>", nil, nil)
	if err := evaluator.EvalProgram(root, prog); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	return root
}

func TestFunctionParamInferredArithmetic(t *testing.T) {
	root := run(t, "define double(n) {\n  n * 2\n}\n")
	sym, ok := root.Lookup("double")
	if !ok {
		t.Fatal("expected symbol double")
	}
	if sym.FuncType == nil {
		t.Fatal("expected a memoized FuncType")
	}
	if len(sym.FuncType.ParameterTypes) != 1 {
		t.Fatalf("got %d parameter types, want 1", len(sym.FuncType.ParameterTypes))
	}
	got := sym.FuncType.ParameterTypes[0].String()
	want := values.NumberOrVector().String()
	if got != want {
		t.Errorf("param type = %s, want %s", got, want)
	}
	if sym.FuncType.ReturnType.String() != values.NumberOrVector().String() {
		t.Errorf("return type = %s, want %s", sym.FuncType.ReturnType.String(), values.NumberOrVector().String())
	}
}

func TestFunctionParamUnusedDefaultsToListAny(t *testing.T) {
	root := run(t, "define ignored(n) {\n  1\n}\n")
	sym, _ := root.Lookup("ignored")
	if sym.FuncType.ParameterTypes[0].String() != values.List(values.Any()).String() {
		t.Errorf("unused param type = %s, want list(any)", sym.FuncType.ParameterTypes[0].String())
	}
}

func TestFunctionParamConditionInfersBoolean(t *testing.T) {
	root := run(t, "define pick(flag) {\n  if flag {\n    1\n  } else {\n    2\n  }\n}\n")
	sym, _ := root.Lookup("pick")
	if sym.FuncType.ParameterTypes[0].String() != values.Boolean().String() {
		t.Errorf("condition param type = %s, want boolean", sym.FuncType.ParameterTypes[0].String())
	}
}

func TestFunctionParamSetterArgInfersColor(t *testing.T) {
	root := run(t, "define paint(c) {\n  color c\n}\n")
	sym, _ := root.Lookup("paint")
	if sym.FuncType.ParameterTypes[0].String() != values.Color().String() {
		t.Errorf("setter-arg param type = %s, want color", sym.FuncType.ParameterTypes[0].String())
	}
}

func TestBlockOptionTypeFromDefault(t *testing.T) {
	root := run(t, "define box {\n  option size 1\n  size\n}\n")
	sym, ok := root.Lookup("box")
	if !ok {
		t.Fatal("expected symbol box")
	}
	if sym.BlockTypeInfo == nil {
		t.Fatal("expected a memoized BlockType")
	}
	sizeType, ok := sym.BlockTypeInfo.Options["size"]
	if !ok {
		t.Fatal("expected an inferred option type for size")
	}
	if sizeType.String() != values.Number().String() {
		t.Errorf("size option type = %s, want number", sizeType.String())
	}
	if sym.BlockTypeInfo.ReturnType.String() != values.Number().String() {
		t.Errorf("block return type = %s, want number", sym.BlockTypeInfo.ReturnType.String())
	}
}

func TestMemberTypeVectorComponent(t *testing.T) {
	root := run(t, "define v (1 2 3)\n")

	l := lexer.New("v.x\n")
	prog, errs := parser.ParseProgram(l, "<test>")
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	stmt, ok := prog.Body.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected an expression statement, got %T", prog.Body.Statements[0])
	}
	got := infer.StaticType(root, stmt.Value)
	if got.String() != values.Number().String() {
		t.Errorf("v.x static type = %s, want number", got.String())
	}
}
