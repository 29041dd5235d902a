package infer

import (
	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/ast"
)

// maxFixedPointIterations bounds the forward-reference-as-`any`
// convergence loop spec.md §4.5 calls for: a recursive define sees
// `any` (or the previous iteration's guess) for its own call sites
// until the signature stabilises, so a few passes let self- and
// mutually-recursive definitions narrow past their first guess
// without risking non-termination.
const maxFixedPointIterations = 3

// InferFunction computes and memoizes sym's FunctionType: a
// constraint walk of body for the parameter types, then, for the
// return type, the static types of the values the body's top level
// (and its nested control-flow bodies) produces: void for none, that
// type for one, and a tuple of them for several. ctx is the function's
// captured defining scope.
func InferFunction(ctx *context.Context, sym *context.Symbol, params []string, body *ast.Body) *values.FunctionType {
	var ft *values.FunctionType
	for i := 0; i < maxFixedPointIterations; i++ {
		paramTypes := InferFunctionParams(ctx, params, body)
		bodyCtx := bindParamTypes(ctx, params, paramTypes)
		var parts []values.ValueType
		collectResultTypes(bodyCtx, body, &parts)
		ft = &values.FunctionType{ParameterTypes: paramTypes, ReturnType: resultType(parts)}
		sym.FuncType = ft
	}
	return ft
}

// InferBlock computes and memoizes sym's BlockType: each top-level
// `option`'s declared type (from its default expression's static
// type), the union of value types the body accumulates as children,
// and the return type handed to the block's caller.
func InferBlock(ctx *context.Context, sym *context.Symbol, body *ast.Body) *values.BlockType {
	options := make(map[string]values.ValueType)
	for _, st := range body.Statements {
		opt, ok := st.(*ast.OptionStatement)
		if !ok {
			continue
		}
		if opt.Default != nil {
			options[opt.Name] = StaticType(ctx, opt.Default)
		} else {
			options[opt.Name] = values.Any()
		}
	}

	bt := &values.BlockType{Options: options, ChildType: values.Any(), ReturnType: values.Void()}
	sym.BlockTypeInfo = bt

	bodyCtx := ctx.PushChildScope()
	for name, t := range options {
		declared := t
		bodyCtx.Define(name, &context.Symbol{Kind: context.SymOption, DeclaredType: &declared})
	}

	for i := 0; i < maxFixedPointIterations; i++ {
		var parts []values.ValueType
		collectResultTypes(bodyCtx, body, &parts)
		if len(parts) == 0 {
			bt.ChildType = values.Void()
		} else {
			bt.ChildType = values.Union(parts...)
		}
		bt.ReturnType = resultType(parts)
	}
	return bt
}

func resultType(parts []values.ValueType) values.ValueType {
	switch len(parts) {
	case 0:
		return values.Void()
	case 1:
		return parts[0]
	default:
		return values.Tuple(parts...)
	}
}

// bindParamTypes pushes a child scope off a function's captured
// defining context with each parameter bound as an option symbol
// carrying its inferred declared type, so static_type resolves
// identifier references to parameters inside the body.
func bindParamTypes(ctx *context.Context, params []string, types []values.ValueType) *context.Context {
	cs := ctx.PushChildScope()
	for i, p := range params {
		declared := types[i]
		cs.Define(p, &context.Symbol{Kind: context.SymOption, DeclaredType: &declared})
	}
	return cs
}

// collectResultTypes gathers the static types of every value a body
// contributes to its enclosing scope's children (spec.md §4.6's
// children-accumulation rule, applied statically): top-level
// expression statements and bare (argument-less) commands, plus the
// same recursively through for/if/
// switch bodies (their children flow into the same accumulating
// scope), but not through a nested `define`'s own captured body.
func collectResultTypes(ctx *context.Context, body *ast.Body, out *[]values.ValueType) {
	if body == nil {
		return
	}
	for _, st := range body.Statements {
		switch s := st.(type) {
		case *ast.ExpressionStatement:
			t := StaticType(ctx, s.Value)
			if t.Kind != values.KindVoid {
				*out = append(*out, t)
			}
		case *ast.CommandStatement:
			// A bare command (`size`, `cube`) contributes the value of
			// the symbol it names, typed as a bare reference to it.
			if s.Argument == nil {
				if t := identifierType(ctx, s.Name); t.Kind != values.KindVoid {
					*out = append(*out, t)
				}
			}
		case *ast.ForStatement:
			collectResultTypes(ctx, s.Body, out)
		case *ast.IfStatement:
			collectResultTypes(ctx, s.Then, out)
			collectResultTypes(ctx, s.Else, out)
		case *ast.SwitchStatement:
			for _, c := range s.Cases {
				collectResultTypes(ctx, c.Body, out)
			}
			collectResultTypes(ctx, s.Default, out)
		}
	}
}
