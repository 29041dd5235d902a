// Package stdlib installs ShapeScript's built-in symbols — geometry
// primitives and builders, paths, constructive solid operations,
// material setters, math and string functions, and logging — into a
// root evaluation context (spec.md §4.7).
package stdlib

import (
	"sort"
	"strings"
	"sync"

	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/values"
)

// Category groups built-ins for introspection by functional area.
type Category string

const (
	CategoryPrimitive Category = "primitive"
	CategoryPath      Category = "path"
	CategoryBuilder   Category = "builder"
	CategoryCSG       Category = "csg"
	CategoryMaterial  Category = "material"
	CategoryMath      Category = "math"
	CategoryString    Category = "string"
	CategoryIO        Category = "io"
)

// entry pairs a named symbol with its catalog metadata.
type entry struct {
	Name        string
	Category    Category
	Description string
	Symbol      *context.Symbol
}

// Registry collects built-in symbols before they are installed into a
// root context.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	names   []string
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

func (r *Registry) register(name string, cat Category, desc string, sym *context.Symbol) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; !exists {
		r.names = append(r.names, name)
	}
	sym.Reserved = true
	r.entries[name] = &entry{Name: name, Category: cat, Description: desc, Symbol: sym}
}

// Function registers a plain native function (math, string, logging).
func (r *Registry) Function(name string, fn context.NativeFunc, cat Category, desc string) {
	r.register(name, cat, desc, &context.Symbol{Kind: context.SymFunction, Native: fn})
}

// Block registers a native geometry block (primitive, builder, CSG
// op) with its option contract and finishing step.
func (r *Registry) Block(name string, opts []context.NativeOption, finish context.NativeFinish, cat Category, desc string) {
	r.register(name, cat, desc, &context.Symbol{Kind: context.SymBlock, NativeOptions: opts, NativeFinish: finish})
}

// Property registers a root-scope getter/setter pair (material
// state, ambient detail/smoothing).
func (r *Registry) Property(name string, getter func(*context.Context) (values.Value, error), setter func(*context.Context, values.Value) error, cat Category, desc string) {
	r.register(name, cat, desc, &context.Symbol{Kind: context.SymProperty, Getter: getter, Setter: setter})
}

// Names lists every installed symbol name, sorted, for a `builtins`
// listing command.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]string(nil), r.names...)
	sort.Strings(out)
	return out
}

// Describe renders "name (category): description" lines sorted by
// category then name.
func (r *Registry) Describe() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	type row struct{ cat, name, desc string }
	var rows []row
	for _, e := range r.entries {
		rows = append(rows, row{string(e.Category), e.Name, e.Description})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].cat != rows[j].cat {
			return rows[i].cat < rows[j].cat
		}
		return rows[i].name < rows[j].name
	})
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(row.name)
		sb.WriteString(" (")
		sb.WriteString(row.cat)
		sb.WriteString("): ")
		sb.WriteString(row.desc)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Install defines every registered symbol into root.
func (r *Registry) Install(root *context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.names {
		root.Define(name, r.entries[name].Symbol)
	}
}
