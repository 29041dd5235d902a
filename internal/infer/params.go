package infer

import (
	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/ast"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

// knownSetterTypes covers the material/ambient setters whose input
// type isn't recorded on a Symbol (they're SymProperty entries with a
// plain Go setter func, not a DeclaredType) — spec.md §4.5's "argument
// of a setter constrains to that setter's declared input type" needs
// somewhere to read that type from for these built-ins.
var knownSetterTypes = map[string]values.ValueType{
	"color":       values.Color(),
	"colour":      values.Color(),
	"texture":     values.Union(values.Texture(), values.String()),
	"opacity":     values.Number(),
	"metallicity": values.Number(),
	"roughness":   values.Number(),
	"glow":        values.Color(),
	"material":    values.Material(),
	"detail":      values.Number(),
	"smoothing":   values.Number(),
	"font":        values.String(),
}

// setterArgType resolves the declared input type of the setter named
// by a CommandStatement, used to constrain an identifier argument
// (spec.md §4.5's function-parameter-inference rules).
func setterArgType(ctx *context.Context, name string) (values.ValueType, bool) {
	if t, ok := knownSetterTypes[name]; ok {
		return t, true
	}
	sym, ok := ctx.Lookup(name)
	if !ok {
		return values.ValueType{}, false
	}
	if sym.Kind == context.SymOption && sym.DeclaredType != nil {
		return *sym.DeclaredType, true
	}
	return values.ValueType{}, false
}

// InferFunctionParams performs the constraint walk spec.md §4.5
// describes for `define NAME(p1 p2 …) BODY`: assume each parameter is
// `any`, record every usage-implied constraint, then narrow each
// parameter to the union (simplified) of its constraints — unused
// parameters default to `list(any)`.
func InferFunctionParams(ctx *context.Context, params []string, body *ast.Body) []values.ValueType {
	constraints := make(map[string][]values.ValueType, len(params))
	for _, p := range params {
		constraints[p] = nil
	}
	sink := func(name string, t values.ValueType) {
		if _, tracked := constraints[name]; tracked {
			constraints[name] = append(constraints[name], t)
		}
	}
	walkBody(body, sink, ctx)

	out := make([]values.ValueType, len(params))
	for i, p := range params {
		cs := constraints[p]
		if len(cs) == 0 {
			out[i] = values.List(values.Any())
			continue
		}
		out[i] = values.Union(cs...)
	}
	return out
}

// sink receives an identifier name together with the ValueType its
// syntactic position implies.
type sink func(name string, t values.ValueType)

func walkBody(body *ast.Body, sink sink, ctx *context.Context) {
	if body == nil {
		return
	}
	for _, st := range body.Statements {
		walkStatement(st, sink, ctx)
	}
}

func walkStatement(st ast.Statement, sink sink, ctx *context.Context) {
	switch s := st.(type) {
	case *ast.DefineStatement:
		switch d := s.Definition.(type) {
		case *ast.ExpressionDef:
			walkExpr(d.Value, sink, ctx)
		case *ast.BlockDef:
			walkBody(d.Body, sink, ctx)
		case *ast.FunctionDef:
			// A nested function's own parameters shadow the outer
			// scope's, and it's inferred independently when defined —
			// don't let its body's usages leak constraints outward.
		}
	case *ast.OptionStatement:
		if s.Default != nil {
			walkExpr(s.Default, sink, ctx)
		}
	case *ast.CommandStatement:
		if s.Argument != nil {
			if t, ok := setterArgType(ctx, s.Name); ok {
				markIdentifier(s.Argument, sink, t)
				if tup, isTuple := s.Argument.(*ast.TupleExpr); isTuple {
					for _, el := range tup.Elements {
						markIdentifier(el, sink, t)
					}
				}
			}
			walkExpr(s.Argument, sink, ctx)
		}
	case *ast.ForStatement:
		markIdentifier(s.Iterable, sink, values.Union(values.Range(), values.List(values.Any())))
		walkExpr(s.Iterable, sink, ctx)
		walkBody(s.Body, sink, ctx)
	case *ast.IfStatement:
		markIdentifier(s.Condition, sink, values.Boolean())
		walkExpr(s.Condition, sink, ctx)
		walkBody(s.Then, sink, ctx)
		walkBody(s.Else, sink, ctx)
	case *ast.SwitchStatement:
		walkExpr(s.Subject, sink, ctx)
		for _, c := range s.Cases {
			walkExpr(c.Pattern, sink, ctx)
			walkBody(c.Body, sink, ctx)
		}
		walkBody(s.Default, sink, ctx)
	case *ast.ImportStatement:
		walkExpr(s.Path, sink, ctx)
	case *ast.ExpressionStatement:
		walkExpr(s.Value, sink, ctx)
	}
}

// walkExpr recurses through an expression's sub-expressions, applying
// the operator-specific constraints (arithmetic, and/or, comparison-
// with-numeric-literal, to/step) along the way.
func walkExpr(e ast.Expression, sink sink, ctx *context.Context) {
	switch ex := e.(type) {
	case *ast.InfixExpr:
		walkInfix(ex, sink, ctx)
	case *ast.PrefixExpr:
		if ex.Op == token.OpNot {
			markIdentifier(ex.Right, sink, values.Boolean())
		}
		walkExpr(ex.Right, sink, ctx)
	case *ast.TupleExpr:
		for _, el := range ex.Elements {
			walkExpr(el, sink, ctx)
		}
	case *ast.MemberExpr:
		walkExpr(ex.Target, sink, ctx)
	case *ast.SubscriptExpr:
		walkExpr(ex.Target, sink, ctx)
		walkExpr(ex.Index, sink, ctx)
	case *ast.CallExpr:
		for _, a := range ex.Args {
			walkExpr(a, sink, ctx)
		}
	case *ast.BlockExpr:
		walkBody(ex.Body, sink, ctx)
	}
}

func walkInfix(ex *ast.InfixExpr, sink sink, ctx *context.Context) {
	switch ex.Op {
	case token.OpAdd, token.OpSub, token.OpMul, token.OpDiv:
		markIdentifier(ex.Left, sink, values.NumberOrVector())
		markIdentifier(ex.Right, sink, values.NumberOrVector())
	case token.OpAnd, token.OpOr:
		markIdentifier(ex.Left, sink, values.Boolean())
		markIdentifier(ex.Right, sink, values.Boolean())
	case token.OpEq, token.OpNotEq, token.OpLt, token.OpGt, token.OpLtEq, token.OpGtEq:
		if _, ok := ex.Right.(*ast.NumberLiteral); ok {
			markIdentifier(ex.Left, sink, values.Number())
		}
		if _, ok := ex.Left.(*ast.NumberLiteral); ok {
			markIdentifier(ex.Right, sink, values.Number())
		}
	case token.OpTo, token.OpStep:
		markIdentifier(ex.Left, sink, values.Number())
		markIdentifier(ex.Right, sink, values.Number())
	}
	walkExpr(ex.Left, sink, ctx)
	walkExpr(ex.Right, sink, ctx)
}

func markIdentifier(e ast.Expression, sink sink, t values.ValueType) {
	if id, ok := e.(*ast.Identifier); ok {
		sink(id.Name, t)
	}
}
