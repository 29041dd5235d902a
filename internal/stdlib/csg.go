package stdlib

import (
	"github.com/shapescript-lang/shapescript/internal/cache"
	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/errors"
	"github.com/shapescript-lang/shapescript/internal/geometry"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

// RegisterCSG wires union, difference, intersection, and stencil: the
// constructive-solid blocks that combine their child meshes via
// ctx.Kernel (spec.md §4.7).
func RegisterCSG(r *Registry) {
	r.Block("union", nil, csgFinish("union", func(ctx *context.Context, meshes []geometry.Mesh) (geometry.Mesh, error) {
		return ctx.Kernel.Union(ctx.GoContext(), meshes)
	}), CategoryCSG, "Combines its child meshes into one union.")

	r.Block("difference", nil, csgFinish("difference", func(ctx *context.Context, meshes []geometry.Mesh) (geometry.Mesh, error) {
		return ctx.Kernel.Difference(ctx.GoContext(), meshes)
	}), CategoryCSG, "Subtracts every child mesh after the first from the first.")

	r.Block("intersection", nil, csgFinish("intersection", func(ctx *context.Context, meshes []geometry.Mesh) (geometry.Mesh, error) {
		return ctx.Kernel.Intersection(ctx.GoContext(), meshes)
	}), CategoryCSG, "Keeps only the volume shared by all child meshes.")

	r.Block("stencil", nil, csgFinish("stencil", func(ctx *context.Context, meshes []geometry.Mesh) (geometry.Mesh, error) {
		return ctx.Kernel.Stencil(ctx.GoContext(), meshes)
	}), CategoryCSG, "Projects later child meshes as surface decals onto the first.")
}

func csgFinish(kind string, combine func(ctx *context.Context, meshes []geometry.Mesh) (geometry.Mesh, error)) context.NativeFinish {
	return func(cs *context.Context) (values.Value, error) {
		if cs.Kernel == nil {
			return nil, errors.AssertionFailure(token.Range{}, kind+" requires a geometry kernel")
		}
		meshes, err := meshesOf(cs, cs, token.Range{})
		if err != nil {
			return nil, err
		}
		if len(meshes) == 0 {
			return nil, errors.AssertionFailure(token.Range{}, kind+" needs at least one child mesh")
		}

		b := cache.NewBuilder(kind)
		for _, m := range meshes {
			b = b.Child(fingerprintOfMesh(kind, m))
		}
		fp := b.Finish()

		mesh, err := buildCached(cs, fp, func() (geometry.Mesh, error) {
			return combine(cs, meshes)
		})
		if err != nil {
			return nil, err
		}
		return &values.MeshValue{Mesh: mesh, Material: materialSnapshot(cs.Material)}, nil
	}
}
