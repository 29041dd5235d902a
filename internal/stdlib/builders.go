package stdlib

import (
	"github.com/shapescript-lang/shapescript/internal/cache"
	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/errors"
	"github.com/shapescript-lang/shapescript/internal/geometry"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

// RegisterBuilders wires fill, extrude, lathe, hull, and minkowski:
// the blocks that turn accumulated child paths (or meshes, for hull/
// minkowski) into a single built mesh via ctx.Kernel (spec.md §4.7).
func RegisterBuilders(r *Registry) {
	r.Block("fill", nil, buildFinish("fill", func(ctx *context.Context, paths []geometry.Path, _ []geometry.Mesh, cs *context.Context) (geometry.Mesh, error) {
		return ctx.Kernel.Fill(ctx.GoContext(), paths)
	}), CategoryBuilder, "Triangulates its child paths into a flat mesh.")

	r.Block("extrude", []context.NativeOption{
		{Name: "along", Default: values.Void_},
		{Name: "twist", Default: &values.NumberValue{}},
	}, buildFinish("extrude", func(ctx *context.Context, paths []geometry.Path, _ []geometry.Mesh, cs *context.Context) (geometry.Mesh, error) {
		twist, err := numberOf(lookupOrDefault(cs, "twist", &values.NumberValue{}))
		if err != nil {
			return geometry.Mesh{}, err
		}
		var along *geometry.Path
		if av := lookupOrDefault(cs, "along", values.Void_); !isVoid(av) {
			if pv, ok := av.(*values.PathValue); ok {
				along = &pv.Path
			}
		}
		return ctx.Kernel.Extrude(ctx.GoContext(), paths, along, twist)
	}), CategoryBuilder, "Sweeps its child paths along Z (or `along` a path), with optional `twist`.")

	r.Block("lathe", nil, buildFinish("lathe", func(ctx *context.Context, paths []geometry.Path, _ []geometry.Mesh, cs *context.Context) (geometry.Mesh, error) {
		return ctx.Kernel.Lathe(ctx.GoContext(), paths)
	}), CategoryBuilder, "Revolves its child paths around the Y axis.")

	r.Block("hull", nil, buildFinish("hull", func(ctx *context.Context, _ []geometry.Path, meshes []geometry.Mesh, cs *context.Context) (geometry.Mesh, error) {
		return ctx.Kernel.Hull(ctx.GoContext(), meshes)
	}), CategoryBuilder, "Wraps a convex hull around its child meshes.")

	r.Block("minkowski", nil, buildFinish("minkowski", func(ctx *context.Context, _ []geometry.Path, meshes []geometry.Mesh, cs *context.Context) (geometry.Mesh, error) {
		if len(meshes) != 2 {
			return geometry.Mesh{}, errors.AssertionFailure(token.Range{}, "minkowski requires exactly two child meshes")
		}
		return ctx.Kernel.Minkowski(ctx.GoContext(), meshes[0], meshes[1])
	}), CategoryBuilder, "Computes the Minkowski sum of exactly two child meshes.")
}

func isVoid(v values.Value) bool {
	_, ok := v.(*values.VoidValue)
	return ok
}

// buildFinish wraps a builder's kernel call with the shared "collect
// inputs, fingerprint, cache, freeze material" flow every builder
// shares with the primitives (spec.md §4.6, §4.8).
func buildFinish(kind string, build func(ctx *context.Context, paths []geometry.Path, meshes []geometry.Mesh, cs *context.Context) (geometry.Mesh, error)) context.NativeFinish {
	return func(cs *context.Context) (values.Value, error) {
		if cs.Kernel == nil {
			return nil, errors.AssertionFailure(token.Range{}, kind+" requires a geometry kernel")
		}
		paths := pathsOf(cs)
		meshes, err := meshesOf(cs, cs, token.Range{})
		if err != nil {
			return nil, err
		}

		b := cache.NewBuilder(kind)
		for _, p := range paths {
			b = b.Points(p.Points).Bool(p.Closed)
		}
		for _, m := range meshes {
			b = b.Child(fingerprintOfMesh(kind, m))
		}
		fp := b.Finish()

		mesh, err := buildCached(cs, fp, func() (geometry.Mesh, error) {
			return build(cs, paths, meshes, cs)
		})
		if err != nil {
			return nil, err
		}
		return &values.MeshValue{Mesh: mesh, Material: materialSnapshot(cs.Material)}, nil
	}
}

// fingerprintOfMesh derives a stable per-mesh fingerprint for use as
// a cache.Builder child component when a built mesh (not a symbol's
// own fresh build) feeds a parent builder, e.g. hull over two cubes.
func fingerprintOfMesh(kind string, m geometry.Mesh) cache.Fingerprint {
	b := cache.NewBuilder(kind + ".mesh")
	for _, poly := range m.Polygons {
		b = b.Points(poly.Points)
	}
	return b.Finish()
}
