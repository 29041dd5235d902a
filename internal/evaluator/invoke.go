package evaluator

import (
	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/errors"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/ast"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

// tupleOrSingle turns an accumulated children slice into the value a
// block/function body returns to its caller: nothing becomes void, one
// value is returned bare, more than one becomes a tuple (spec.md
// §4.6's children-accumulation rule).
func tupleOrSingle(vals []values.Value) values.Value {
	switch len(vals) {
	case 0:
		return values.Void_
	case 1:
		return vals[0]
	default:
		return &values.TupleValue{Elements: vals}
	}
}

// invokeSymbol calls sym with a single already-parsed argument
// expression (nil if none was given), used uniformly by CommandStatement
// and CallExpr (spec.md §9: the parser never distinguishes the two at
// the symbol-table level).
func invokeSymbol(ctx *context.Context, sym *context.Symbol, name string, argExpr ast.Expression, rng token.Range) (values.Value, error) {
	switch sym.Kind {
	case context.SymFunction:
		if sym.Native != nil {
			args, err := evalArgsForNative(ctx, argExpr)
			if err != nil {
				return nil, err
			}
			return sym.Native(ctx, args, rng)
		}
		args, err := evalArgsForParams(ctx, argExpr)
		if err != nil {
			return nil, err
		}
		return invokeFunction(sym, args)
	case context.SymBlock:
		return invokeBlock(ctx, sym, nil, rng)
	case context.SymConstant:
		if sym.Value != nil {
			return sym.Value, nil
		}
		return values.Void_, nil
	case context.SymProperty:
		if sym.Getter != nil {
			return sym.Getter(ctx)
		}
		return values.Void_, nil
	default:
		return nil, errors.AssertionFailure(rng, "symbol "+name+" cannot be called")
	}
}

// evalBlockExpr handles `NAME { ... }` in expression position: a
// user-defined or native block invocation with a call-site body.
func evalBlockExpr(ctx *context.Context, e *ast.BlockExpr) (values.Value, error) {
	sym, ok := ctx.Lookup(e.Name)
	if !ok {
		return nil, errors.UnknownSymbol(e.Rng, e.Name, nil)
	}
	if sym.Kind != context.SymBlock {
		return nil, errors.TypeMismatch(e.Rng, e.Name, "block", "non-block symbol")
	}
	return invokeBlock(ctx, sym, e.Body, e.Rng)
}

// invokeBlock is the unified block-invocation algorithm: pre-declare
// every option the symbol names — sym.NativeOptions for a native
// block, the captured body's `option` statements for a user-defined
// one — so the call-site body can assign them before the captured
// body itself runs, run the call-site body, then the captured body,
// then hand off to NativeFinish or collect the accumulated children.
func invokeBlock(ctx *context.Context, sym *context.Symbol, callSiteBody *ast.Body, rng token.Range) (values.Value, error) {
	cs := ctx.PushChildScope()

	for _, opt := range sym.NativeOptions {
		cs.DefineOption(opt.Name, opt.Type, opt.Default)
	}

	var capturedBody *ast.Body
	if sym.Body != nil {
		capturedBody = sym.Body.(*ast.Body)
		if err := predeclareOptions(cs, capturedBody); err != nil {
			return nil, err
		}
	}

	if callSiteBody != nil {
		if err := EvalBody(cs, callSiteBody); err != nil {
			return nil, err
		}
	}

	if capturedBody != nil {
		if err := EvalBody(cs, capturedBody); err != nil {
			return nil, err
		}
	}

	if sym.NativeFinish != nil {
		v, err := sym.NativeFinish(cs)
		if err != nil {
			return nil, withFallbackRange(err, rng)
		}
		return v, nil
	}
	return tupleOrSingle(cs.Children()), nil
}

// withFallbackRange fills in a zero-value Range on err with rng — the
// nearest enclosing command's range (spec.md §7: "the nearest
// enclosing source range is used when a sub-error has no range of its
// own"). Stdlib builders that assert preconditions before a command's
// own range is threaded through them (e.g. `minkowski`'s child-count
// check) report a zero Range; without this the diagnostic would point
// at line 0 instead of the invoking command.
func withFallbackRange(err error, rng token.Range) error {
	if e, ok := err.(*errors.Error); ok && e.Range == (token.Range{}) {
		e.Range = rng
	}
	return err
}

// predeclareOptions scans a captured block body's top-level `option`
// statements and defines each default up front, so a call-site body
// evaluated before the captured body can already resolve and override
// the name (see invokeBlock).
func predeclareOptions(cs *context.Context, body *ast.Body) error {
	for _, stmt := range body.Statements {
		opt, ok := stmt.(*ast.OptionStatement)
		if !ok {
			continue
		}
		var def values.Value = values.Void_
		if opt.Default != nil {
			v, err := evalExpr(cs, opt.Default)
			if err != nil {
				return err
			}
			def = v
		}
		cs.DefineOption(opt.Name, nil, def)
	}
	return nil
}

func invokeFunction(sym *context.Symbol, args []values.Value) (values.Value, error) {
	cs := sym.CapturedCtx.PushChildScope()
	for i, p := range sym.Params {
		var v values.Value = values.Void_
		if i < len(args) {
			v = args[i]
		}
		cs.Define(p, &context.Symbol{Kind: context.SymConstant, Value: v})
	}
	body := sym.Body.(*ast.Body)
	if err := EvalBody(cs, body); err != nil {
		return nil, err
	}
	return tupleOrSingle(cs.Children()), nil
}

// evalArgsForNative splits a (possibly nil) argument expression into
// its top-level juxtaposed operands, unevaluated-tuple-wrapping
// preserved for each operand (so `sum (1 2) (3 4 5 6)` hands the
// native function two TupleValues to broadcast over, not six numbers).
func evalArgsForNative(ctx *context.Context, argExpr ast.Expression) ([]values.Value, error) {
	if argExpr == nil {
		return nil, nil
	}
	if tup, ok := argExpr.(*ast.TupleExpr); ok {
		args := make([]values.Value, len(tup.Elements))
		for i, el := range tup.Elements {
			v, err := evalExpr(ctx, el)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return args, nil
	}
	v, err := evalExpr(ctx, argExpr)
	if err != nil {
		return nil, err
	}
	return []values.Value{v}, nil
}

// evalArgsForParams evaluates a (possibly nil or tuple) argument
// expression into positional values, matching how a function call's
// juxtaposed tuple groups or single operand binds to its parameter
// list. A single parenthesized argument such as `double(21)` parses as
// a one-element tuple group (internal/parser's "ordinary grouping" case), so
// a one-element tuple always unwraps to its sole element rather than
// binding the whole tuple to the first parameter.
func evalArgsForParams(ctx *context.Context, argExpr ast.Expression) ([]values.Value, error) {
	if argExpr == nil {
		return nil, nil
	}
	val, err := evalExpr(ctx, argExpr)
	if err != nil {
		return nil, err
	}
	if tup, ok := val.(*values.TupleValue); ok {
		if len(tup.Elements) == 1 {
			return []values.Value{tup.Elements[0]}, nil
		}
		return tup.Elements, nil
	}
	return []values.Value{val}, nil
}
