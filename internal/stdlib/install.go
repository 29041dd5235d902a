package stdlib

import "github.com/shapescript-lang/shapescript/internal/context"

// NewStandardLibrary builds a Registry carrying every built-in symbol
// spec.md §4.7 describes, ready to Install into a root context.
func NewStandardLibrary() *Registry {
	r := NewRegistry()
	RegisterPrimitives(r)
	RegisterPaths(r)
	RegisterBuilders(r)
	RegisterCSG(r)
	RegisterMaterial(r)
	RegisterMath(r)
	RegisterStrings(r)
	RegisterIO(r)
	return r
}

// InstallStandardLibrary is a convenience wrapper for the common case
// of building and installing the library in one step.
func InstallStandardLibrary(root *context.Context) *Registry {
	r := NewStandardLibrary()
	r.Install(root)
	return r
}
