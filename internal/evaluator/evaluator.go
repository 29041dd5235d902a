// Package evaluator tree-walks a parsed ShapeScript program (spec.md
// §4.6) against an internal/context.Context, dispatching each
// statement kind, accumulating emitted geometry into the enclosing
// scope's children, and surfacing the first runtime error it meets.
package evaluator

import (
	"fmt"

	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/errors"
	"github.com/shapescript-lang/shapescript/internal/infer"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/ast"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

// EvalProgram runs every top-level statement of prog against root,
// stopping at the first runtime error (spec.md §7: "a single runtime
// error aborts evaluation").
func EvalProgram(ctx *context.Context, prog *ast.Program) error {
	if prog.Body == nil {
		return nil
	}
	return EvalBody(ctx, prog.Body)
}

// EvalBody runs every statement of body against ctx in source order.
func EvalBody(ctx *context.Context, body *ast.Body) error {
	for _, stmt := range body.Statements {
		if ctx.IsCancelled() {
			return fmt.Errorf("shapescript: evaluation cancelled")
		}
		if err := evalStatement(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// runScoped runs body in a fresh child scope of ctx and forwards
// whatever that scope emitted back into ctx's own children list — used
// by for/if/switch, whose bodies get their own lexical scope but whose
// emitted geometry is not itself a value returned to a caller (spec.md
// §4.6's children-accumulation rule applies at the nearest block/group
// boundary, not at every control-flow body).
func runScoped(ctx *context.Context, body *ast.Body) error {
	inner := ctx.PushChildScope()
	if err := EvalBody(inner, body); err != nil {
		return err
	}
	for _, c := range inner.Children() {
		ctx.EmitChild(c)
	}
	return nil
}

func evalStatement(ctx *context.Context, stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.DefineStatement:
		return evalDefine(ctx, s)
	case *ast.OptionStatement:
		return evalOption(ctx, s)
	case *ast.CommandStatement:
		return evalCommand(ctx, s)
	case *ast.ExpressionStatement:
		val, err := evalExpr(ctx, s.Value)
		if err != nil {
			return err
		}
		if _, isVoid := val.(*values.VoidValue); !isVoid {
			ctx.EmitChild(val)
		}
		return nil
	case *ast.ForStatement:
		return evalFor(ctx, s)
	case *ast.IfStatement:
		return evalIf(ctx, s)
	case *ast.SwitchStatement:
		return evalSwitch(ctx, s)
	case *ast.ImportStatement:
		return evalImport(ctx, s)
	default:
		return fmt.Errorf("shapescript: unhandled statement %T", stmt)
	}
}

func evalDefine(ctx *context.Context, s *ast.DefineStatement) error {
	switch d := s.Definition.(type) {
	case *ast.ExpressionDef:
		val, err := evalExpr(ctx, d.Value)
		if err != nil {
			return err
		}
		return defineOrError(ctx, s.Name, &context.Symbol{Kind: context.SymConstant, Value: val}, s.Rng)
	case *ast.BlockDef:
		sym := &context.Symbol{Kind: context.SymBlock, Body: d.Body, CapturedCtx: ctx}
		if err := defineOrError(ctx, s.Name, sym, s.Rng); err != nil {
			return err
		}
		infer.InferBlock(ctx, sym, d.Body)
		return nil
	case *ast.FunctionDef:
		sym := &context.Symbol{Kind: context.SymFunction, Params: d.Params, Body: d.Body, CapturedCtx: ctx}
		if err := defineOrError(ctx, s.Name, sym, s.Rng); err != nil {
			return err
		}
		infer.InferFunction(ctx, sym, d.Params, d.Body)
		return nil
	default:
		return fmt.Errorf("shapescript: unhandled definition %T", d)
	}
}

func defineOrError(ctx *context.Context, name string, sym *context.Symbol, rng token.Range) error {
	if err := ctx.Define(name, sym); err != nil {
		return errors.Redefinition(rng, name)
	}
	return nil
}

// evalOption declares a block's named parameter. A block invocation
// pre-defines every option from its captured body before running the
// call-site override body (see invokeBlock), so by the time this
// statement runs for real inside the captured body, DefineOption is a
// no-op if the call site already supplied a value — and an ordinary
// first-time definition otherwise (e.g. when a block is entered
// directly, with no call-site body at all).
func evalOption(ctx *context.Context, s *ast.OptionStatement) error {
	var def values.Value = values.Void_
	if s.Default != nil {
		v, err := evalExpr(ctx, s.Default)
		if err != nil {
			return err
		}
		def = v
	}
	ctx.DefineOption(s.Name, nil, def)
	return nil
}

// evalCommand dispatches `NAME [ARG]` (spec.md §4.6): a local option
// already bound by this block invocation becomes an assignment, a
// property symbol's setter is invoked, and anything else (native
// function, user function/block, bare reference) is called and its
// result — if non-void — is appended to ctx's children like any other
// expression statement.
func evalCommand(ctx *context.Context, s *ast.CommandStatement) error {
	sym, ok := ctx.Lookup(s.Name)
	if !ok {
		return errors.UnknownSymbol(s.Rng, s.Name, nil)
	}

	if sym.Kind == context.SymOption {
		val, err := evalArgument(ctx, s.Argument)
		if err != nil {
			return err
		}
		if sym.DeclaredType != nil {
			conv, err := values.Convert(val, *sym.DeclaredType)
			if err != nil {
				return errors.TypeMismatch(s.Rng, s.Name, sym.DeclaredType.String(), val.Type().String())
			}
			val = conv
		}
		ctx.Define(s.Name, &context.Symbol{Kind: context.SymOption, Default: sym.Default, DeclaredType: sym.DeclaredType, Value: val})
		return nil
	}

	if sym.Kind == context.SymProperty {
		val, err := evalArgument(ctx, s.Argument)
		if err != nil {
			return err
		}
		if sym.Setter == nil {
			return fmt.Errorf("shapescript: property %q has no setter", s.Name)
		}
		return sym.Setter(ctx, val)
	}

	result, err := invokeSymbol(ctx, sym, s.Name, s.Argument, s.Rng)
	if err != nil {
		return err
	}
	if _, isVoid := result.(*values.VoidValue); !isVoid {
		ctx.EmitChild(result)
	}
	return nil
}

func evalArgument(ctx *context.Context, arg ast.Expression) (values.Value, error) {
	if arg == nil {
		return values.Void_, nil
	}
	return evalExpr(ctx, arg)
}

func evalFor(ctx *context.Context, s *ast.ForStatement) error {
	iterable, err := evalExpr(ctx, s.Iterable)
	if err != nil {
		return err
	}
	items, err := iterationValues(iterable)
	if err != nil {
		return err
	}
	for _, item := range items {
		iter := ctx.PushChildScope()
		if s.HasIndex {
			iter.Define(s.Index, &context.Symbol{Kind: context.SymConstant, Value: item})
		}
		if err := EvalBody(iter, s.Body); err != nil {
			return err
		}
		for _, c := range iter.Children() {
			ctx.EmitChild(c)
		}
	}
	return nil
}

// iterationValues enumerates a range's numbers or a tuple's elements
// (spec.md §4.6's `for` over an iterable).
func iterationValues(v values.Value) ([]values.Value, error) {
	switch vv := v.(type) {
	case *values.RangeValue:
		nums := vv.Values()
		out := make([]values.Value, len(nums))
		for i, n := range nums {
			out[i] = &values.NumberValue{Value: n}
		}
		return out, nil
	case *values.TupleValue:
		return vv.Elements, nil
	default:
		return []values.Value{vv}, nil
	}
}

func evalIf(ctx *context.Context, s *ast.IfStatement) error {
	cond, err := evalExpr(ctx, s.Condition)
	if err != nil {
		return err
	}
	b, err := values.Convert(cond, values.Boolean())
	if err != nil {
		return errors.TypeMismatch(s.Rng, "if condition", "boolean", cond.Type().String())
	}
	if b.(*values.BooleanValue).Value {
		return runScoped(ctx, s.Then)
	}
	if s.Else != nil {
		return runScoped(ctx, s.Else)
	}
	return nil
}

func evalSwitch(ctx *context.Context, s *ast.SwitchStatement) error {
	subject, err := evalExpr(ctx, s.Subject)
	if err != nil {
		return err
	}
	for _, c := range s.Cases {
		pattern, err := evalExpr(ctx, c.Pattern)
		if err != nil {
			return err
		}
		if valuesEqual(subject, pattern) {
			return runScoped(ctx, c.Body)
		}
	}
	if s.Default != nil {
		return runScoped(ctx, s.Default)
	}
	return nil
}

// valuesEqual implements switch-case matching with the implicit
// string<->number conversion spec.md §4.6 calls for.
func valuesEqual(a, b values.Value) bool {
	if a.Type().Kind == values.KindNumber || b.Type().Kind == values.KindNumber {
		an, err1 := values.Convert(a, values.Number())
		bn, err2 := values.Convert(b, values.Number())
		if err1 == nil && err2 == nil {
			return an.(*values.NumberValue).Value == bn.(*values.NumberValue).Value
		}
	}
	as, err1 := values.Convert(a, values.String())
	bs, err2 := values.Convert(b, values.String())
	if err1 == nil && err2 == nil {
		return as.(*values.StringValue).Value == bs.(*values.StringValue).Value
	}
	return false
}
