package context

import (
	"context"
	"testing"

	"github.com/shapescript-lang/shapescript/internal/cache"
	"github.com/shapescript-lang/shapescript/internal/geometry"
	"github.com/shapescript-lang/shapescript/internal/values"
)

func newRoot() *Context {
	return New(context.Background(), nil, "", nil, nil)
}

func TestChildScopeMutationDoesNotLeakToParent(t *testing.T) {
	root := newRoot()
	child := root.PushChildScope()
	child.SetMaterial(Material{Color: &values.ColorValue{R: 1}, Opacity: 1, Roughness: 1})

	if root.Material.Color != nil {
		t.Errorf("parent material was mutated by child SetMaterial")
	}
}

func TestDefineShadowsUserNameWithoutError(t *testing.T) {
	root := newRoot()
	if err := root.Define("x", &Symbol{Kind: SymConstant, Value: &values.NumberValue{Value: 1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := root.Define("x", &Symbol{Kind: SymConstant, Value: &values.NumberValue{Value: 2}}); err != nil {
		t.Fatalf("user redefinition should shadow, got error: %v", err)
	}
	sym, _ := root.Lookup("x")
	if sym.Value.(*values.NumberValue).Value != 2 {
		t.Errorf("expected the later define to win")
	}
}

func TestRedefinitionErrorForReservedNameInSameScope(t *testing.T) {
	root := newRoot()
	root.Define("cube", &Symbol{Kind: SymBlock, Reserved: true})
	err := root.Define("cube", &Symbol{Kind: SymConstant})
	if _, ok := err.(*RedefinitionError); !ok {
		t.Fatalf("expected RedefinitionError, got %v", err)
	}
}

func TestReservedNameMayBeShadowedFromChildScope(t *testing.T) {
	root := newRoot()
	root.Define("cube", &Symbol{Kind: SymBlock, Reserved: true})
	child := root.PushChildScope()
	if err := child.Define("cube", &Symbol{Kind: SymConstant}); err != nil {
		t.Fatalf("shadowing a reserved name from a child scope should be fine, got %v", err)
	}
}

func TestLookupWalksScopeChain(t *testing.T) {
	root := newRoot()
	root.Define("n", &Symbol{Kind: SymConstant, Value: &values.NumberValue{Value: 7}})
	child := root.PushChildScope()
	sym, ok := child.Lookup("n")
	if !ok || sym.Value.(*values.NumberValue).Value != 7 {
		t.Fatalf("expected lookup to find parent-scope symbol, got %v %v", sym, ok)
	}
}

func TestEmitChildAccumulatesOnlyInThatScope(t *testing.T) {
	root := newRoot()
	child := root.PushChildScope()
	child.EmitChild(&values.NumberValue{Value: 1})
	child.EmitChild(&values.NumberValue{Value: 2})
	if len(child.Children()) != 2 {
		t.Fatalf("got %d children, want 2", len(child.Children()))
	}
	if len(root.Children()) != 0 {
		t.Fatalf("parent scope should not see child's emitted values")
	}
}

func TestChildScopeInheritsKernelAndCache(t *testing.T) {
	k := geometry.NewSimpleKernel()
	c := cache.New()
	root := New(context.Background(), nil, "", k, c)
	child := root.PushChildScope()
	if child.Kernel != k {
		t.Errorf("child scope should inherit the root's kernel")
	}
	if child.Cache != c {
		t.Errorf("child scope should inherit the root's cache")
	}
}

func TestChildImportStackIsACopyNotAnAlias(t *testing.T) {
	root := newRoot()
	root.ImportStack = append(root.ImportStack, "a.shape")
	child := root.PushChildScope()
	child.ImportStack = append(child.ImportStack, "b.shape")
	if len(root.ImportStack) != 1 {
		t.Errorf("appending to a child's ImportStack must not mutate the parent's")
	}
}

func TestDefineOptionOnlyDefinesWhenAbsent(t *testing.T) {
	root := newRoot()
	root.DefineOption("x", nil, &values.NumberValue{Value: 10})
	sym, ok := root.Lookup("x")
	if !ok || sym.Value.(*values.NumberValue).Value != 10 {
		t.Fatalf("expected x to be defined with default 10")
	}

	root.Define("x", &Symbol{Kind: SymConstant, Value: &values.NumberValue{Value: 99}})
	root.DefineOption("x", nil, &values.NumberValue{Value: 10})
	sym, _ = root.Lookup("x")
	if sym.Value.(*values.NumberValue).Value != 99 {
		t.Errorf("DefineOption must not override a value already present in the current scope, got %v", sym.Value)
	}
}
