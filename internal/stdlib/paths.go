package stdlib

import (
	"math"

	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/errors"
	"github.com/shapescript-lang/shapescript/internal/geometry"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

// RegisterPaths wires square, circle, polygon, and path (the closed-
// and open-form 2D shape builders), plus the point/curve/arc point
// emitters used inside their bodies (spec.md §4.7).
func RegisterPaths(r *Registry) {
	transformOpts := []context.NativeOption{
		{Name: "size", Default: &values.NumberValue{Value: 1}},
		{Name: "position", Default: &values.VectorValue{}},
		{Name: "orientation", Default: &values.RotationValue{}},
	}

	r.Block("square", transformOpts, regularPolygonFinish("square", 4, math.Pi/4), CategoryPath,
		"A closed 4-point path forming a unit square, scaled/positioned/oriented.")
	r.Block("circle", transformOpts, regularPolygonFinish("circle", 0, 0), CategoryPath,
		"A closed path approximating a unit circle at the ambient detail level.")
	r.Block("polygon", append(append([]context.NativeOption{}, transformOpts...), context.NativeOption{Name: "sides", Default: values.Void_}),
		polygonFinish, CategoryPath,
		"A regular N-gon path when given `sides`, or a planar polygon from `point` entries.")
	r.Block("path", []context.NativeOption{
		{Name: "position", Default: &values.VectorValue{}},
		{Name: "orientation", Default: &values.RotationValue{}},
	}, pathFinish, CategoryPath, "An open path built from point/curve/arc entries.")

	r.Function("point", pointFn(false), CategoryPath, "Emits a path/polygon point at the given position.")
	r.Function("curve", pointFn(true), CategoryPath, "Emits a curved path point at the given position.")
	r.Function("arc", arcFn, CategoryPath, "Emits a run of curved points along a circular arc.")
}

// regularPolygonFinish builds a NativeFinish producing a closed
// regular N-gon path; sides == 0 means "use the ambient detail level"
// (circle's approximation), otherwise a fixed side count (square).
func regularPolygonFinish(kind string, sides int, rotationOffset float64) context.NativeFinish {
	return func(cs *context.Context) (values.Value, error) {
		n := sides
		if n == 0 {
			n = detailSegments(cs.Detail)
		}
		size := vectorOf(lookupOrDefault(cs, "size", &values.NumberValue{Value: 1}))
		position := vectorOf(lookupOrDefault(cs, "position", &values.VectorValue{}))
		orientation := rotationOf(lookupOrDefault(cs, "orientation", &values.RotationValue{}))

		local := regularPolygonPoints(n, rotationOffset)
		path := geometry.TransformPath(geometry.Path{Points: local, Closed: true}, position, orientation, size)
		_ = kind
		return &values.PathValue{Path: path}, nil
	}
}

func regularPolygonPoints(n int, rotationOffset float64) []geometry.Point {
	pts := make([]geometry.Point, n)
	for i := 0; i < n; i++ {
		angle := 2*math.Pi*float64(i)/float64(n) + rotationOffset
		pts[i] = geometry.Point{Position: geometry.Vector3{X: 0.5 * math.Cos(angle), Y: 0.5 * math.Sin(angle)}}
	}
	return pts
}

// polygonFinish implements `polygon`'s two mutually exclusive modes
// (spec.md §4.7): `sides N` synthesizes a regular-polygon path; plain
// `point …` entries assemble a planar polygon from the emitted points.
func polygonFinish(cs *context.Context) (values.Value, error) {
	sidesVal := lookupOrDefault(cs, "sides", values.Void_)
	_, sidesGiven := sidesVal.(*values.VoidValue)
	sidesGiven = !sidesGiven

	pts := flattenPoints(cs.Children())

	if sidesGiven && len(pts) > 0 {
		return nil, errors.AssertionFailure(token.Range{}, "polygon cannot combine `sides` with explicit `point` entries")
	}
	if sidesGiven {
		n, err := numberOf(sidesVal)
		if err != nil || n < 3 {
			return nil, errors.AssertionFailure(token.Range{}, "polygon `sides` must be a number >= 3")
		}
		size := vectorOf(lookupOrDefault(cs, "size", &values.NumberValue{Value: 1}))
		position := vectorOf(lookupOrDefault(cs, "position", &values.VectorValue{}))
		orientation := rotationOf(lookupOrDefault(cs, "orientation", &values.RotationValue{}))
		local := regularPolygonPoints(int(n), 0)
		path := geometry.TransformPath(geometry.Path{Points: local, Closed: true}, position, orientation, size)
		return &values.PathValue{Path: path}, nil
	}
	if len(pts) == 0 {
		return nil, errors.AssertionFailure(token.Range{}, "polygon needs either `sides` or `point` entries")
	}
	return &values.PolygonValue{Polygon: geometry.Polygon{Points: pts}}, nil
}

// pathFinish assembles an open path from point/curve/arc entries,
// transformed by position/orientation (spec.md §4.7).
func pathFinish(cs *context.Context) (values.Value, error) {
	pts := flattenPoints(cs.Children())
	position := vectorOf(lookupOrDefault(cs, "position", &values.VectorValue{}))
	orientation := rotationOf(lookupOrDefault(cs, "orientation", &values.RotationValue{}))
	path := geometry.TransformPath(geometry.Path{Points: pts, Closed: false}, position, orientation, geometry.Vector3{X: 1, Y: 1, Z: 1})
	return &values.PathValue{Path: path}, nil
}

// flattenPoints walks a block's accumulated children, unwrapping any
// tuple (e.g. arc's run of points) into its constituent point values.
func flattenPoints(children []values.Value) []geometry.Point {
	var out []geometry.Point
	var walk func(values.Value)
	walk = func(v values.Value) {
		switch vv := v.(type) {
		case *values.PointValue:
			out = append(out, vv.ToGeometry())
		case *values.TupleValue:
			for _, e := range vv.Elements {
				walk(e)
			}
		}
	}
	for _, c := range children {
		walk(c)
	}
	return out
}

// pointFn builds the `point`/`curve` native function: both emit a
// single PointValue at the given position, tagged with the invoking
// scope's current material colour (spec.md §4.7: "per-point colour
// updates the current point colour"); curve additionally marks the
// point as the end of a curved run.
func pointFn(curved bool) context.NativeFunc {
	return func(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
		pos, err := vectorFromArgs(args)
		if err != nil {
			return nil, errors.TypeMismatch(rng, "point", "vector", "non-numeric argument")
		}
		return &values.PointValue{
			Position: values.VectorValue{X: pos.X, Y: pos.Y, Z: pos.Z},
			Color:    ctx.Material.Color,
			IsCurved: curved,
		}, nil
	}
}

// arcFn emits a run of curved points sampling a circular arc of the
// given radius from `from` to `to` (half-turns), at the ambient
// detail level.
func arcFn(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
	if len(args) < 3 {
		return nil, errors.MissingArgument(rng, "arc", "radius, from, to")
	}
	radius, err := numberOf(args[0])
	if err != nil {
		return nil, errors.TypeMismatch(rng, "arc radius", "number", args[0].Type().String())
	}
	from, err := numberOf(args[1])
	if err != nil {
		return nil, errors.TypeMismatch(rng, "arc from", "number", args[1].Type().String())
	}
	to, err := numberOf(args[2])
	if err != nil {
		return nil, errors.TypeMismatch(rng, "arc to", "number", args[2].Type().String())
	}
	segments := detailSegments(ctx.Detail)
	pts := make([]values.Value, segments+1)
	for i := 0; i <= segments; i++ {
		t := from + (to-from)*float64(i)/float64(segments)
		angle := t * math.Pi
		pts[i] = &values.PointValue{
			Position: values.VectorValue{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)},
			Color:    ctx.Material.Color,
			IsCurved: true,
		}
	}
	return &values.TupleValue{Elements: pts}, nil
}

// vectorFromArgs turns native-call positional arguments into a
// vector: a single vector/tuple argument, or two-or-three bare
// numbers (x y[, z]).
func vectorFromArgs(args []values.Value) (geometry.Vector3, error) {
	if len(args) == 1 {
		v, err := values.Convert(args[0], values.Vector())
		if err == nil {
			return v.(*values.VectorValue).ToGeometry(), nil
		}
		if t, ok := args[0].(*values.TupleValue); ok {
			return vectorFromArgs(t.Elements)
		}
		return geometry.Vector3{}, err
	}
	if len(args) < 2 {
		return geometry.Vector3{}, errors.New(errors.KindMissingArgument, token.Range{}, "expected at least 2 numbers")
	}
	x, err := numberOf(args[0])
	if err != nil {
		return geometry.Vector3{}, err
	}
	y, err := numberOf(args[1])
	if err != nil {
		return geometry.Vector3{}, err
	}
	z := 0.0
	if len(args) >= 3 {
		z, err = numberOf(args[2])
		if err != nil {
			return geometry.Vector3{}, err
		}
	}
	return geometry.Vector3{X: x, Y: y, Z: z}, nil
}
