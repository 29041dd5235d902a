// Package context implements the hierarchical evaluation context
// spec.md §4.3/§3.5 describes: scope chain, inherited material/
// transform/font/detail/smoothing state, and the accumulating
// children list a block or group's body writes into.
package context

import (
	"context"

	"github.com/shapescript-lang/shapescript/internal/cache"
	"github.com/shapescript-lang/shapescript/internal/geometry"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

// SymbolKind tags which of the five shapes (spec.md §3.5) a Symbol
// carries.
type SymbolKind int

const (
	SymConstant SymbolKind = iota
	SymOption
	SymFunction
	SymBlock
	SymProperty
)

// NativeFunc is a standard-library function implemented in Go rather
// than ShapeScript: it receives already-evaluated arguments and the
// invoking context (for read-only access to current material/
// transform/detail when a function's result depends on them, e.g.
// `length`).
type NativeFunc func(ctx *Context, args []values.Value, rng token.Range) (values.Value, error)

// NativeFinish is the "turn accumulated children/options into a
// result" half of a native block (spec.md §4.6's children-
// accumulation rule): it runs after the block's body (call-site
// override body, then any captured body) has executed against cs,
// and reads cs.Material/cs.Transform/cs.Detail/cs.Smoothing/
// cs.Children() to build the result.
type NativeFinish func(cs *Context) (values.Value, error)

// Symbol is an entry in the scope chain.
type Symbol struct {
	Kind SymbolKind

	// constant
	Value values.Value

	// option
	Default      values.Value
	DeclaredType *values.ValueType

	// function / block (user-defined: Body is an *ast.Body; native:
	// Body is nil and Native/NativeFinish is used instead)
	Params      []string
	Body        interface{} // *ast.Body — kept as interface{} to avoid an import cycle with the evaluator
	CapturedCtx *Context
	Native      NativeFunc
	NativeFinish NativeFinish

	// FuncType/BlockTypeInfo memoise the static inferencer's result for
	// a user-defined function/block symbol (spec.md §4.5: "their
	// parameter and return types are computed by the inferencer and
	// memoised on the symbol"). Nil until first computed; native
	// symbols never populate these.
	FuncType      *values.FunctionType
	BlockTypeInfo *values.BlockType

	// property
	Getter func(*Context) (values.Value, error)
	Setter func(*Context, values.Value) error

	// NativeOptions lists the options a native block (no captured
	// AST body) accepts, so invokeBlock can pre-declare their
	// defaults before the call-site override body runs — the same
	// role predeclareOptions plays for a captured body's `option`
	// statements.
	NativeOptions []NativeOption

	// Reserved marks built-in symbols that may not be shadowed by a
	// plain redefinition error; user names may always be shadowed in a
	// child scope.
	Reserved bool
}

// NativeOption is one entry of a native block's option contract
// (spec.md §4.7), e.g. cube's `size, position, orientation`; ambient
// settings such as detail, smoothing, and color are root-scope
// setters, not native options.
type NativeOption struct {
	Name    string
	Default values.Value
	Type    *values.ValueType
}

// Transform is the inherited translation/rotation/scale state.
type Transform struct {
	Translation values.VectorValue
	Rotation    values.RotationValue
	Scale       values.VectorValue
}

func IdentityTransform() Transform {
	return Transform{Scale: values.VectorValue{X: 1, Y: 1, Z: 1}}
}

// Delegate resolves imports and receives debug/log output, decoupling
// the evaluator from any particular host (CLI, embedder, test harness).
type Delegate interface {
	ResolveImport(fromURL, path string) (data []byte, resolvedURL string, err error)
	Log(args ...values.Value)
	IsCancelled() bool
}

// Context is one stack frame: a scope plus the inherited drawing
// state (spec.md §3.5).
type Context struct {
	parent *Context
	ctx    context.Context

	symbols map[string]*Symbol

	Material Material
	Transform Transform
	Font      string
	Detail    int
	Smoothing float64

	children []values.Value

	SourceURL string
	Delegate  Delegate
	Kernel    geometry.Kernel
	Cache     *cache.Cache

	// ImportStack names the chain of in-progress import URLs, used to
	// detect cyclicImport (spec.md §7).
	ImportStack []string
}

// Material mirrors the evaluation context's "current material" fields
// (spec.md §3.5): colour, texture, metallicity, roughness, glow,
// opacity.
type Material struct {
	Color       *values.ColorValue
	Texture     *values.TextureValue
	Metallicity float64
	Roughness   float64
	Glow        *values.ColorValue
	Opacity     float64
}

func DefaultMaterial() Material {
	return Material{Opacity: 1, Roughness: 1}
}

// New creates a root context with default drawing state.
func New(ctx context.Context, delegate Delegate, sourceURL string, kernel geometry.Kernel, geomCache *cache.Cache) *Context {
	return &Context{
		ctx:       ctx,
		symbols:   make(map[string]*Symbol),
		Material:  DefaultMaterial(),
		Transform: IdentityTransform(),
		Detail:    16,
		Smoothing: 0,
		SourceURL: sourceURL,
		Delegate:  delegate,
		Kernel:    kernel,
		Cache:     geomCache,
	}
}

// Done returns the root's cancellation channel, threaded to every
// child via the embedded context.Context so long builds can poll it
// (spec.md §5's cooperative cancellation).
func (c *Context) Done() <-chan struct{} { return c.ctx.Done() }

// GoContext exposes the underlying context.Context, threaded down to
// geometry.Kernel calls so a builder can observe cancellation between
// its own sub-steps (spec.md §5).
func (c *Context) GoContext() context.Context { return c.ctx }

func (c *Context) IsCancelled() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return c.Delegate != nil && c.Delegate.IsCancelled()
	}
}

// Lookup walks the scope chain outward from c.
func (c *Context) Lookup(name string) (*Symbol, bool) {
	for s := c; s != nil; s = s.parent {
		if sym, ok := s.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// RedefinitionError reports a name clash with a reserved (built-in)
// symbol already defined in the current scope.
type RedefinitionError struct{ Name string }

func (e *RedefinitionError) Error() string { return "redefinition: " + e.Name }

// Define installs a symbol in the current scope. Redefining a
// reserved name already present in THIS scope is an error; anything
// else — a user name, or a reserved name only visible from a parent
// scope — is a normal shadowing define (spec.md §4.3).
func (c *Context) Define(name string, sym *Symbol) error {
	if existing, ok := c.symbols[name]; ok && existing.Reserved {
		return &RedefinitionError{Name: name}
	}
	c.symbols[name] = sym
	return nil
}

// PushChildScope creates a new scope whose parent is c, inheriting
// drawing state by value (spec.md §4.3: "mutating a child does not
// affect the parent").
func (c *Context) PushChildScope() *Context {
	return &Context{
		parent:      c,
		ctx:         c.ctx,
		symbols:     make(map[string]*Symbol),
		Material:    c.Material,
		Transform:   c.Transform,
		Font:        c.Font,
		Detail:      c.Detail,
		Smoothing:   c.Smoothing,
		SourceURL:   c.SourceURL,
		Delegate:    c.Delegate,
		Kernel:      c.Kernel,
		Cache:       c.Cache,
		ImportStack: append([]string(nil), c.ImportStack...),
	}
}

// DefineOption installs an option symbol in the current scope only if
// no symbol of that name is already present there. A block's captured
// body runs after its call-site override body (spec.md §4.6), so when
// both declare the same option name, the call-site's value — defined
// first — wins and the captured body's `option` statement becomes a
// no-op default.
func (c *Context) DefineOption(name string, declaredType *values.ValueType, def values.Value) {
	if _, ok := c.symbols[name]; ok {
		return
	}
	c.symbols[name] = &Symbol{Kind: SymOption, Default: def, DeclaredType: declaredType, Value: def}
}

// EmitChild appends to this scope's children list; the evaluator
// decides what the accumulated children become (a group's geometry,
// a builder's subject paths).
func (c *Context) EmitChild(v values.Value) {
	c.children = append(c.children, v)
}

func (c *Context) Children() []values.Value { return c.children }

func (c *Context) SetTransform(t Transform) { c.Transform = t }
func (c *Context) SetMaterial(m Material)   { c.Material = m }
func (c *Context) SetFont(name string)      { c.Font = name }
func (c *Context) SetDetail(d int)          { c.Detail = d }
func (c *Context) SetSmoothing(s float64)   { c.Smoothing = s }
