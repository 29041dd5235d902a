// Package shapescript is the embeddable façade over the lexer,
// parser, and evaluator: construct an Engine, then Eval source
// directly or Compile once and Run many times (spec.md §6's external
// interface).
package shapescript

import (
	"context"
	"io"

	"github.com/google/uuid"
	evalctx "github.com/shapescript-lang/shapescript/internal/cache"
	ctxpkg "github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/evaluator"
	"github.com/shapescript-lang/shapescript/internal/geometry"
	"github.com/shapescript-lang/shapescript/internal/lexer"
	"github.com/shapescript-lang/shapescript/internal/parser"
	"github.com/shapescript-lang/shapescript/internal/stdlib"
	"github.com/shapescript-lang/shapescript/pkg/ast"
)

// Delegate is the host hook the evaluator calls into for imports,
// debug logging, and cancellation (spec.md §6). Hosts that don't
// supply one get NewFileDelegate's filesystem-backed default.
type Delegate = ctxpkg.Delegate

// Option configures an Engine.
type Option func(*Engine)

// WithDelegate supplies the host delegate (import resolution, debug
// log, cancellation polling). Overrides the default file delegate.
func WithDelegate(d Delegate) Option {
	return func(e *Engine) { e.delegate = d }
}

// WithImportRoot configures the default file delegate to resolve
// relative import/texture/font paths against root. Ignored if
// WithDelegate is also given.
func WithImportRoot(root string) Option {
	return func(e *Engine) { e.importRoot = root }
}

// WithOutput directs the default file delegate's debug_log output to
// w (e.g. os.Stdout for a CLI, a bytes.Buffer for tests). Ignored if
// WithDelegate is also given.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.output = w }
}

// WithKernel supplies the geometry kernel used for fill/extrude/hull/
// CSG and triangulation. Defaults to geometry.NewSimpleKernel().
func WithKernel(k geometry.Kernel) Option {
	return func(e *Engine) { e.kernel = k }
}

// WithCache supplies the content-addressed geometry cache (spec.md
// §4.8), letting a host share one cache across multiple Engines or
// runs. Defaults to a fresh, unshared cache per Engine.
func WithCache(c *evalctx.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithJSONAsObject sets the Engine's jsonAsObject flag. Nothing reads
// the flag: neither evaluation nor internal/infer consults it, and a
// `.json` import produces the same value with or without it.
func WithJSONAsObject() Option {
	return func(e *Engine) { e.jsonAsObject = true }
}

// Engine evaluates ShapeScript source against a configured standard
// library, kernel, cache, and delegate.
type Engine struct {
	registry     *stdlib.Registry
	kernel       geometry.Kernel
	cache        *evalctx.Cache
	delegate     Delegate
	importRoot   string
	output       io.Writer
	jsonAsObject bool
}

// New constructs an Engine, applying opts over sensible defaults: a
// dependency-free SimpleKernel, a fresh geometry cache, and (absent
// WithDelegate) a filesystem delegate rooted at the current directory
// logging to io.Discard.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		registry: stdlib.NewStandardLibrary(),
		kernel:   geometry.NewSimpleKernel(),
		cache:    evalctx.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.delegate == nil {
		e.delegate = NewFileDelegate(e.importRoot, e.output)
	}
	return e, nil
}

// Program is a parsed, not-yet-evaluated ShapeScript source file,
// reusable across multiple Run calls (each gets a fresh root context).
type Program struct {
	ast *ast.Program
	url string
}

func (p *Program) AST() *ast.Program { return p.ast }
func (p *Program) URL() string       { return p.url }

// Compile parses source without evaluating it.
func (e *Engine) Compile(source string) (*Program, error) {
	return e.compile(source, "<eval>")
}

// CompileFile parses source recorded under url, used in diagnostics
// and as the base for relative import/texture/font resolution.
func (e *Engine) CompileFile(source, url string) (*Program, error) {
	return e.compile(source, url)
}

func (e *Engine) compile(source, url string) (*Program, error) {
	l := lexer.New(source, lexer.WithFileName(url))
	prog, errs := parser.ParseProgram(l, url)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return &Program{ast: prog, url: url}, nil
}

// Eval parses and evaluates source in one step.
func (e *Engine) Eval(source string) (Result, error) {
	prog, err := e.Compile(source)
	if err != nil {
		return Result{Success: false}, err
	}
	return e.Run(prog)
}

// Run evaluates a compiled Program against a fresh root context, so
// the same Program can be Run repeatedly with independent output.
func (e *Engine) Run(prog *Program) (Result, error) {
	return e.runWith(context.Background(), prog)
}

// RunCancelable is Run with an explicit context for cooperative
// cancellation of long builds (spec.md §5).
func (e *Engine) RunCancelable(ctx context.Context, prog *Program) (Result, error) {
	return e.runWith(ctx, prog)
}

func (e *Engine) runWith(ctx context.Context, prog *Program) (Result, error) {
	collector := &logCollector{Delegate: e.delegate}
	root := ctxpkg.New(ctx, collector, prog.url, e.kernel, e.cache)
	e.registry.Install(root)

	runID := newRunID()
	if err := evaluator.EvalProgram(root, prog.ast); err != nil {
		return Result{RunID: runID, Success: false, Children: root.Children(), Log: collector.lines}, err
	}
	return Result{RunID: runID, Success: true, Children: root.Children(), Log: collector.lines}, nil
}

// newRunID mints a correlation id for a single Eval/Run call, useful
// for a host correlating log lines across concurrent runs sharing one
// Engine.
func newRunID() string { return uuid.NewString() }
