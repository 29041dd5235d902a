// Package infer implements the static type inferencer (spec.md §4.5):
// computing a ValueType for an expression without evaluating it, and
// computing the memoized FunctionType/BlockType of a `define`d symbol
// from a constraint walk of its body.
package infer

import (
	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/ast"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

// StaticType computes expr's ValueType against ctx without evaluating
// any side effect. It looks up existing symbols (including any
// previously memoized FunctionType/BlockType) but never invokes a
// Native function or NativeFinish.
func StaticType(ctx *context.Context, expr ast.Expression) values.ValueType {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return values.Number()
	case *ast.StringLiteral:
		return values.String()
	case *ast.HexColorLiteral:
		return values.Color()
	case *ast.Identifier:
		return identifierType(ctx, e.Name)
	case *ast.MemberExpr:
		return memberType(StaticType(ctx, e.Target), e.Name)
	case *ast.SubscriptExpr:
		return subscriptType(StaticType(ctx, e.Target))
	case *ast.TupleExpr:
		return tupleType(ctx, e)
	case *ast.BlockExpr:
		return blockExprType(ctx, e)
	case *ast.InfixExpr:
		return infixType(e.Op, StaticType(ctx, e.Left), StaticType(ctx, e.Right))
	case *ast.PrefixExpr:
		return prefixType(e.Op, StaticType(ctx, e.Right))
	case *ast.CallExpr:
		return callType(ctx, e)
	default:
		return values.Any()
	}
}

func identifierType(ctx *context.Context, name string) values.ValueType {
	sym, ok := ctx.Lookup(name)
	if !ok {
		return values.Any()
	}
	return symbolType(sym)
}

// symbolType reports the static type of referencing sym bare (the way
// an Identifier or a zero-argument CallExpr/CommandStatement does):
// constants and options report their stored/declared type, properties
// their declared type (falling back to the well-known material-setter
// table), and a function/block its memoized return type.
func symbolType(sym *context.Symbol) values.ValueType {
	switch sym.Kind {
	case context.SymConstant:
		if sym.Value != nil {
			return sym.Value.Type()
		}
		return values.Void()
	case context.SymOption:
		if sym.DeclaredType != nil {
			return *sym.DeclaredType
		}
		if sym.Value != nil {
			return sym.Value.Type()
		}
		return values.Any()
	case context.SymProperty:
		return values.Any()
	case context.SymFunction:
		if sym.FuncType != nil {
			return sym.FuncType.ReturnType
		}
		return values.Any()
	case context.SymBlock:
		if sym.BlockTypeInfo != nil {
			return sym.BlockTypeInfo.ReturnType
		}
		return values.Any()
	default:
		return values.Any()
	}
}

func blockExprType(ctx *context.Context, e *ast.BlockExpr) values.ValueType {
	sym, ok := ctx.Lookup(e.Name)
	if !ok {
		return values.Any()
	}
	return symbolType(sym)
}

func callType(ctx *context.Context, e *ast.CallExpr) values.ValueType {
	sym, ok := ctx.Lookup(e.Callee.Name)
	if !ok {
		return values.Any()
	}
	return symbolType(sym)
}

func subscriptType(target values.ValueType) values.ValueType {
	switch target.Kind {
	case values.KindList:
		return *target.Elem
	case values.KindTuple:
		return values.Union(target.Components...)
	default:
		return values.Any()
	}
}

// tupleType emits list(element_union) unless every element's static
// type is identical and the arity is fixed, in which case the literal
// Tuple shape is kept (spec.md §4.5) — this lets `(1 2 3)` keep
// ordinal/vector/size member access while `(1 "x")` degrades to a
// plain union list.
func tupleType(ctx *context.Context, e *ast.TupleExpr) values.ValueType {
	if len(e.Elements) == 0 {
		return values.List(values.Any())
	}
	comps := make([]values.ValueType, len(e.Elements))
	for i, el := range e.Elements {
		comps[i] = StaticType(ctx, el)
	}
	same := true
	for _, c := range comps[1:] {
		if c.String() != comps[0].String() {
			same = false
			break
		}
	}
	if same {
		return values.Tuple(comps...)
	}
	return values.List(values.Union(comps...))
}

// infixType is the small operator-typing table spec.md §4.5 names:
// arithmetic broadcasts number/vector element-wise, comparisons and
// and/or/not/in yield boolean, to/step yield a range.
func infixType(op token.Op, left, right values.ValueType) values.ValueType {
	switch op {
	case token.OpAdd, token.OpSub, token.OpMul, token.OpDiv:
		if left.Kind == values.KindList || right.Kind == values.KindList {
			return values.List(values.NumberOrVector())
		}
		return values.NumberOrVector()
	case token.OpEq, token.OpNotEq, token.OpLt, token.OpGt, token.OpLtEq, token.OpGtEq:
		return values.Boolean()
	case token.OpAnd, token.OpOr, token.OpIn:
		return values.Boolean()
	case token.OpTo, token.OpStep:
		return values.Range()
	default:
		return values.Any()
	}
}

func prefixType(op token.Op, right values.ValueType) values.ValueType {
	switch op {
	case token.OpNot:
		return values.Boolean()
	case token.OpAdd, token.OpSub:
		return right
	default:
		return values.Any()
	}
}

// memberType walks the known member map of lhs's static type (spec.md
// §4.5). Object member types are unknown until evaluation (the key
// set is dynamic), so they report `any`.
func memberType(lhs values.ValueType, name string) values.ValueType {
	switch lhs.Kind {
	case values.KindVector, values.KindSize:
		switch name {
		case "x", "y", "z":
			return values.Number()
		}
	case values.KindColor:
		switch name {
		case "red", "green", "blue", "alpha":
			return values.Number()
		}
	case values.KindPath:
		switch name {
		case "points":
			return values.List(values.Point())
		case "bounds":
			return values.Bounds()
		}
	case values.KindMesh:
		switch name {
		case "polygons":
			return values.List(values.Polygon())
		case "bounds":
			return values.Bounds()
		}
	case values.KindPolygon:
		switch name {
		case "points":
			return values.List(values.Point())
		case "center":
			return values.Vector()
		}
	case values.KindPoint:
		switch name {
		case "position":
			return values.Vector()
		case "color":
			return values.Optional(values.Color())
		case "isCurved":
			return values.Boolean()
		}
	case values.KindRange:
		switch name {
		case "start", "end", "step":
			return values.Number()
		}
	case values.KindObject, values.KindAnyObject:
		return values.Any()
	case values.KindString:
		switch name {
		case "characters", "words", "lines":
			return values.List(values.String())
		}
	case values.KindTuple:
		if t := tupleAccessorType(lhs, name); t != nil {
			return *t
		}
	}

	switch name {
	case "first", "last":
		return tupleOrListElement(lhs)
	case "count":
		return values.Number()
	case "allButFirst", "allButLast":
		return lhs
	}
	if ordinalMembers[name] {
		return tupleOrListElement(lhs)
	}
	return values.Any()
}

// tupleAccessorType implements spec.md §4.5's "tuple ... also exposes
// vector/color/size accessors when the arity matches": a 2-or-3
// element tuple gets x/y/z, a 3-or-4 element tuple gets
// red/green/blue/alpha.
func tupleAccessorType(t values.ValueType, name string) *values.ValueType {
	n := values.Number()
	switch len(t.Components) {
	case 2, 3:
		switch name {
		case "x", "y", "z":
			return &n
		}
	}
	switch len(t.Components) {
	case 3, 4:
		switch name {
		case "red", "green", "blue", "alpha":
			return &n
		}
	}
	return nil
}

func tupleOrListElement(t values.ValueType) values.ValueType {
	switch t.Kind {
	case values.KindList:
		return *t.Elem
	case values.KindTuple:
		return values.Union(t.Components...)
	default:
		return values.Any()
	}
}

// ordinalMembers names the tuple ordinal accessors the inferencer
// recognises: `first` through `tenth`, plus `last`; `eleventh` and
// later ordinals are not recognised. The map is used only to recognise
// the member name, not for any positional lookup (that happens at
// evaluation time against the concrete tuple).
var ordinalMembers = buildOrdinalMembers()

func buildOrdinalMembers() map[string]bool {
	names := []string{
		"first", "second", "third", "fourth", "fifth", "sixth", "seventh",
		"eighth", "ninth", "tenth", "last",
	}
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
