package stdlib

import (
	"github.com/shapescript-lang/shapescript/internal/cache"
	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/errors"
	"github.com/shapescript-lang/shapescript/internal/geometry"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

// vectorOf reads a numberOrVector-shaped value (a uniform number or a
// vector/size triple) into a geometry.Vector3.
func vectorOf(v values.Value) geometry.Vector3 {
	switch vv := v.(type) {
	case *values.NumberValue:
		return geometry.Vector3{X: vv.Value, Y: vv.Value, Z: vv.Value}
	case *values.VectorValue:
		return vv.ToGeometry()
	case *values.SizeValue:
		return geometry.Vector3{X: vv.X, Y: vv.Y, Z: vv.Z}
	default:
		return geometry.Vector3{X: 1, Y: 1, Z: 1}
	}
}

// rotationOf reads a rotation-shaped value into a half-turns Vector3
// (roll, yaw, pitch), matching geometry.ApplyTRS's rotation argument.
func rotationOf(v values.Value) geometry.Vector3 {
	switch vv := v.(type) {
	case *values.RotationValue:
		return geometry.Vector3{X: vv.Roll, Y: vv.Yaw, Z: vv.Pitch}
	case *values.NumberValue:
		return geometry.Vector3{X: vv.Value}
	case *values.HalfturnsValue:
		return geometry.Vector3{X: vv.Value}
	default:
		return geometry.Vector3{}
	}
}

func numberOf(v values.Value) (float64, error) {
	n, err := values.Convert(v, values.Number())
	if err != nil {
		return 0, err
	}
	return n.(*values.NumberValue).Value, nil
}

// lookupOrDefault fetches name from cs — present because invokeBlock
// pre-declares every NativeOptions entry before running any body —
// falling back to def only if the symbol is somehow absent.
func lookupOrDefault(cs *context.Context, name string, def values.Value) values.Value {
	sym, ok := cs.Lookup(name)
	if !ok || sym.Value == nil {
		return def
	}
	return sym.Value
}

// materialSnapshot turns the current ambient material into the
// MaterialValue a geometry node freezes onto itself at emission time
// (spec.md §4.6's "material-bound geometry").
func materialSnapshot(m context.Material) *values.MaterialValue {
	return &values.MaterialValue{
		Color:       m.Color,
		Texture:     m.Texture,
		Metallicity: m.Metallicity,
		Roughness:   m.Roughness,
		Glow:        m.Glow,
		Opacity:     m.Opacity,
	}
}

// meshesOf collects every *values.MeshValue among cs's accumulated
// children, converting paths/polygons via fill/triangulation when a
// kernel is available, used by builders and CSG ops that operate on
// "child meshes" (spec.md §4.7).
func meshesOf(ctx *context.Context, cs *context.Context, rng token.Range) ([]geometry.Mesh, error) {
	var out []geometry.Mesh
	for _, c := range cs.Children() {
		switch v := c.(type) {
		case *values.MeshValue:
			out = append(out, v.Mesh)
		case *values.PolygonValue:
			if ctx.Kernel == nil {
				return nil, errors.AssertionFailure(rng, "no geometry kernel configured to triangulate a polygon")
			}
			m, err := ctx.Kernel.Triangulate(ctx.GoContext(), v.Polygon)
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		case *values.PathValue:
			if ctx.Kernel == nil {
				return nil, errors.AssertionFailure(rng, "no geometry kernel configured to fill a path")
			}
			m, err := ctx.Kernel.Fill(ctx.GoContext(), []geometry.Path{v.Path})
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		}
	}
	return out, nil
}

// pathsOf collects every *values.PathValue among cs's accumulated
// children (a polygon's boundary counts as a path), used by builders
// that consume "child paths" (fill, extrude, lathe).
func pathsOf(cs *context.Context) []geometry.Path {
	var out []geometry.Path
	for _, c := range cs.Children() {
		switch v := c.(type) {
		case *values.PathValue:
			out = append(out, v.Path)
		case *values.PolygonValue:
			out = append(out, geometry.Path{Points: v.Polygon.Points, Closed: true})
		}
	}
	return out
}

// buildCached runs build only if ctx.Cache has no entry for the
// fingerprint produced by fp, so repeated sub-shapes (spec.md §4.8)
// are built once and reused across call sites that differ only in
// material. A nil cache (no host-provided cache) just builds directly.
func buildCached(ctx *context.Context, fp cache.Fingerprint, build func() (geometry.Mesh, error)) (geometry.Mesh, error) {
	if ctx.Cache == nil {
		return build()
	}
	e, err := ctx.Cache.GetOrBuild(fp, func() (cache.Entry, error) {
		m, err := build()
		if err != nil {
			return cache.Entry{}, err
		}
		return cache.Entry{Mesh: m, HasVertexColors: m.HasVertexColors}, nil
	})
	if err != nil {
		return geometry.Mesh{}, err
	}
	return e.Mesh, nil
}
