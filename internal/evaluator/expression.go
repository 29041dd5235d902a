package evaluator

import (
	"strconv"
	"strings"

	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/errors"
	"github.com/shapescript-lang/shapescript/internal/geometry"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/ast"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

func evalExpr(ctx *context.Context, expr ast.Expression) (values.Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return &values.NumberValue{Value: e.Value}, nil
	case *ast.StringLiteral:
		return &values.StringValue{Value: e.Value}, nil
	case *ast.HexColorLiteral:
		c, err := values.Convert(&values.StringValue{Value: "#" + e.Digits}, values.Color())
		if err != nil {
			return nil, errors.TypeMismatch(e.Rng, "color literal", "color", "invalid hex digits")
		}
		return c, nil
	case *ast.Identifier:
		sym, ok := ctx.Lookup(e.Name)
		if !ok {
			return nil, errors.UnknownSymbol(e.Rng, e.Name, nil)
		}
		return symbolValue(ctx, sym, e.Name, e.Rng)
	case *ast.MemberExpr:
		return evalMember(ctx, e)
	case *ast.SubscriptExpr:
		return evalSubscript(ctx, e)
	case *ast.TupleExpr:
		elems := make([]values.Value, len(e.Elements))
		for i, el := range e.Elements {
			v, err := evalExpr(ctx, el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &values.TupleValue{Elements: elems}, nil
	case *ast.BlockExpr:
		return evalBlockExpr(ctx, e)
	case *ast.InfixExpr:
		return evalInfix(ctx, e)
	case *ast.PrefixExpr:
		return evalPrefix(ctx, e)
	case *ast.CallExpr:
		return evalCall(ctx, e)
	default:
		return nil, errors.AssertionFailure(expr.Range(), "unhandled expression")
	}
}

// symbolValue resolves a bare identifier reference: options/constants
// read their stored Value, properties call their getter, and a
// function/block referenced with no argument is invoked with no
// children (e.g. `pi`, `cube` used as a bare command handles this via
// invokeSymbol instead — this path is for expression position only).
func symbolValue(ctx *context.Context, sym *context.Symbol, name string, rng token.Range) (values.Value, error) {
	switch sym.Kind {
	case context.SymConstant, context.SymOption:
		if sym.Value != nil {
			return sym.Value, nil
		}
		return values.Void_, nil
	case context.SymProperty:
		if sym.Getter == nil {
			return values.Void_, nil
		}
		return sym.Getter(ctx)
	default:
		return invokeSymbol(ctx, sym, name, nil, rng)
	}
}

func evalMember(ctx *context.Context, e *ast.MemberExpr) (values.Value, error) {
	target, err := evalExpr(ctx, e.Target)
	if err != nil {
		return nil, err
	}
	return memberOf(target, e.Name, e.Rng)
}

func evalSubscript(ctx *context.Context, e *ast.SubscriptExpr) (values.Value, error) {
	target, err := evalExpr(ctx, e.Target)
	if err != nil {
		return nil, err
	}
	idxVal, err := evalExpr(ctx, e.Index)
	if err != nil {
		return nil, err
	}
	n, err := values.Convert(idxVal, values.Number())
	if err != nil {
		return nil, errors.TypeMismatch(e.Index.Range(), "index", "number", idxVal.Type().String())
	}
	idx := int(n.(*values.NumberValue).Value)
	return subscriptOf(target, idx, e.Rng)
}

func subscriptOf(target values.Value, idx int, rng token.Range) (values.Value, error) {
	switch t := target.(type) {
	case *values.TupleValue:
		if idx < 0 || idx >= len(t.Elements) {
			return nil, errors.InvalidIndex(rng, idx, rangeDesc(len(t.Elements)))
		}
		return t.Elements[idx], nil
	case *values.ObjectValue:
		if idx != 0 {
			return nil, errors.InvalidIndex(rng, idx, "0..1")
		}
		entries := t.SortedEntries()
		if len(entries) == 0 {
			return nil, errors.InvalidIndex(rng, idx, "0..1")
		}
		return &values.TupleValue{Elements: []values.Value{&values.StringValue{Value: entries[0].Key}, entries[0].Value}}, nil
	default:
		lst, err := values.Convert(target, values.List(values.Any()))
		if err != nil {
			return nil, errors.TypeMismatch(rng, "subscript", "list", target.Type().String())
		}
		return subscriptOf(lst, idx, rng)
	}
}

func rangeDesc(n int) string {
	if n == 0 {
		return "0..0"
	}
	return "0.." + strconv.Itoa(n)
}

// memberOf implements the small set of `.name` members spec.md's
// stdlib section describes (string/object/geometry member access);
// falls back to treating `.first`/`.last`/`.count` uniformly across
// list-shaped values.
func memberOf(target values.Value, name string, rng token.Range) (values.Value, error) {
	switch t := target.(type) {
	case *values.StringValue:
		switch name {
		case "characters":
			rs := []rune(t.Value)
			out := make([]values.Value, len(rs))
			for i, r := range rs {
				out[i] = &values.StringValue{Value: string(r)}
			}
			return &values.TupleValue{Elements: out}, nil
		case "words":
			parts := strings.Fields(t.Value)
			out := make([]values.Value, len(parts))
			for i, p := range parts {
				out[i] = &values.StringValue{Value: p}
			}
			return &values.TupleValue{Elements: out}, nil
		case "lines":
			parts := strings.Split(t.Value, "\n")
			out := make([]values.Value, len(parts))
			for i, p := range parts {
				out[i] = &values.StringValue{Value: p}
			}
			return &values.TupleValue{Elements: out}, nil
		}
	case *values.ObjectValue:
		if v, ok := t.Fields[name]; ok {
			return v, nil
		}
	case *values.PointValue:
		switch name {
		case "position":
			return &t.Position, nil
		case "color":
			if t.Color == nil {
				return values.Void_, nil
			}
			return t.Color, nil
		}
	case *values.PathValue:
		switch name {
		case "points":
			return pointsOf(t.Path.Points), nil
		case "bounds":
			return values.FromGeometryBounds(t.Path.Bounds()), nil
		}
	case *values.PolygonValue:
		switch name {
		case "points":
			return pointsOf(t.Polygon.Points), nil
		case "center":
			c := t.Polygon.Center()
			return &values.VectorValue{X: c.X, Y: c.Y, Z: c.Z}, nil
		}
	case *values.MeshValue:
		switch name {
		case "polygons":
			out := make([]values.Value, len(t.Mesh.Polygons))
			for i, p := range t.Mesh.Polygons {
				out[i] = &values.PolygonValue{Polygon: p}
			}
			return &values.TupleValue{Elements: out}, nil
		case "bounds":
			return values.FromGeometryBounds(t.Mesh.Bounds()), nil
		}
	}

	lst, err := values.Convert(target, values.List(values.Any()))
	if err == nil {
		if tup, ok := lst.(*values.TupleValue); ok {
			switch name {
			case "first":
				if len(tup.Elements) == 0 {
					return nil, errors.InvalidIndex(rng, 0, "0..0")
				}
				return tup.Elements[0], nil
			case "last":
				if len(tup.Elements) == 0 {
					return nil, errors.InvalidIndex(rng, 0, "0..0")
				}
				return tup.Elements[len(tup.Elements)-1], nil
			case "count":
				return &values.NumberValue{Value: float64(len(tup.Elements))}, nil
			}
		}
	}

	return nil, errors.UnknownMember(rng, name, target.Type().String(), nil)
}

func pointsOf(pts []geometry.Point) values.Value {
	out := make([]values.Value, len(pts))
	for i, p := range pts {
		out[i] = &values.PointValue{
			Position: values.VectorValue{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z},
			Color:    colorOf(p.Color),
			IsCurved: p.IsCurved,
		}
	}
	return &values.TupleValue{Elements: out}
}

func colorOf(c *geometry.RGBA) *values.ColorValue {
	if c == nil {
		return nil
	}
	return &values.ColorValue{R: c.R, G: c.G, B: c.B, A: c.A}
}

func evalInfix(ctx *context.Context, e *ast.InfixExpr) (values.Value, error) {
	left, err := evalExpr(ctx, e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op == token.OpAnd || e.Op == token.OpOr {
		lb, err := values.Convert(left, values.Boolean())
		if err != nil {
			return nil, errors.TypeMismatch(e.Rng, "and/or", "boolean", left.Type().String())
		}
		lv := lb.(*values.BooleanValue).Value
		if (e.Op == token.OpAnd && !lv) || (e.Op == token.OpOr && lv) {
			return &values.BooleanValue{Value: lv}, nil
		}
		right, err := evalExpr(ctx, e.Right)
		if err != nil {
			return nil, err
		}
		rb, err := values.Convert(right, values.Boolean())
		if err != nil {
			return nil, errors.TypeMismatch(e.Rng, "and/or", "boolean", right.Type().String())
		}
		return rb, nil
	}

	right, err := evalExpr(ctx, e.Right)
	if err != nil {
		return nil, err
	}

	if e.Op == token.OpTo {
		from, err1 := values.Convert(left, values.Number())
		to, err2 := values.Convert(right, values.Number())
		if err1 != nil || err2 != nil {
			return nil, errors.TypeMismatch(e.Rng, "range", "number", left.Type().String())
		}
		return &values.RangeValue{From: from.(*values.NumberValue).Value, To: to.(*values.NumberValue).Value}, nil
	}
	if e.Op == token.OpStep {
		rv, ok := left.(*values.RangeValue)
		if !ok {
			return nil, errors.TypeMismatch(e.Rng, "step", "range", left.Type().String())
		}
		step, err := values.Convert(right, values.Number())
		if err != nil {
			return nil, errors.TypeMismatch(e.Rng, "step", "number", right.Type().String())
		}
		return &values.RangeValue{From: rv.From, To: rv.To, Step: step.(*values.NumberValue).Value, HasStep: true}, nil
	}

	switch e.Op {
	case token.OpEq:
		return &values.BooleanValue{Value: valuesEqual(left, right)}, nil
	case token.OpNotEq:
		return &values.BooleanValue{Value: !valuesEqual(left, right)}, nil
	}

	ln, err1 := values.Convert(left, values.Number())
	rn, err2 := values.Convert(right, values.Number())
	if err1 == nil && err2 == nil {
		a, b := ln.(*values.NumberValue).Value, rn.(*values.NumberValue).Value
		switch e.Op {
		case token.OpAdd:
			return &values.NumberValue{Value: a + b}, nil
		case token.OpSub:
			return &values.NumberValue{Value: a - b}, nil
		case token.OpMul:
			return &values.NumberValue{Value: a * b}, nil
		case token.OpDiv:
			return &values.NumberValue{Value: a / b}, nil
		case token.OpLt:
			return &values.BooleanValue{Value: a < b}, nil
		case token.OpGt:
			return &values.BooleanValue{Value: a > b}, nil
		case token.OpLtEq:
			return &values.BooleanValue{Value: a <= b}, nil
		case token.OpGtEq:
			return &values.BooleanValue{Value: a >= b}, nil
		}
	}

	if e.Op == token.OpAdd {
		if ls, err := values.Convert(left, values.String()); err == nil {
			if rs, err := values.Convert(right, values.String()); err == nil {
				return &values.StringValue{Value: ls.(*values.StringValue).Value + rs.(*values.StringValue).Value}, nil
			}
		}
		if lv, ok := left.(*values.VectorValue); ok {
			if rv, ok := right.(*values.VectorValue); ok {
				return &values.VectorValue{X: lv.X + rv.X, Y: lv.Y + rv.Y, Z: lv.Z + rv.Z}, nil
			}
		}
	}

	return nil, errors.TypeMismatch(e.Rng, string(e.Op), "number", left.Type().String())
}

func evalPrefix(ctx *context.Context, e *ast.PrefixExpr) (values.Value, error) {
	right, err := evalExpr(ctx, e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.OpNot:
		b, err := values.Convert(right, values.Boolean())
		if err != nil {
			return nil, errors.TypeMismatch(e.Rng, "not", "boolean", right.Type().String())
		}
		return &values.BooleanValue{Value: !b.(*values.BooleanValue).Value}, nil
	case token.OpSub:
		n, err := values.Convert(right, values.Number())
		if err != nil {
			return nil, errors.TypeMismatch(e.Rng, "-", "number", right.Type().String())
		}
		return &values.NumberValue{Value: -n.(*values.NumberValue).Value}, nil
	case token.OpAdd:
		return right, nil
	}
	return nil, errors.AssertionFailure(e.Rng, "unsupported prefix operator")
}

func evalCall(ctx *context.Context, e *ast.CallExpr) (values.Value, error) {
	sym, ok := ctx.Lookup(e.Callee.Name)
	if !ok {
		return nil, errors.UnknownSymbol(e.Rng, e.Callee.Name, nil)
	}
	var arg ast.Expression
	if len(e.Args) == 1 {
		arg = unwrapSingle(e.Args[0])
	} else if len(e.Args) > 1 {
		elems := make([]ast.Expression, len(e.Args))
		for i, a := range e.Args {
			elems[i] = a
		}
		arg = &ast.TupleExpr{Elements: elems, Rng: e.Rng}
	}
	return invokeSymbol(ctx, sym, e.Callee.Name, arg, e.Rng)
}

// unwrapSingle drops the wrapping single-element tuple so a call like
// `cos(pi)` passes `pi` itself, not a one-tuple of it, matching how a
// bare command argument is parsed.
func unwrapSingle(t *ast.TupleExpr) ast.Expression {
	if len(t.Elements) == 1 {
		return t.Elements[0]
	}
	return t
}
