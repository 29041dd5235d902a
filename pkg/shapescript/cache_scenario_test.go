package shapescript

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	evalcache "github.com/shapescript-lang/shapescript/internal/cache"
	"github.com/shapescript-lang/shapescript/internal/values"
)

// Recolouring a shared sub-tree must not rebuild its geometry: two
// invocations of the same block differing only in `color` share every
// cache entry below the colour setter, and the two produced meshes
// are structurally equal.
func TestCacheSharedAcrossRecolour(t *testing.T) {
	cache := evalcache.New()
	e, err := New(WithCache(cache))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const src = `
define t {
  hull {
    extrude {
      square { size 0.1 }
      along circle
    }
  }
}
t { color red }
t { color blue }
`
	result, err := e.Eval(src)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if len(result.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(result.Children))
	}

	first, ok := result.Children[0].(*values.MeshValue)
	if !ok {
		t.Fatalf("child 0 is %T, want *values.MeshValue", result.Children[0])
	}
	second, ok := result.Children[1].(*values.MeshValue)
	if !ok {
		t.Fatalf("child 1 is %T, want *values.MeshValue", result.Children[1])
	}

	if len(first.Mesh.Polygons) != len(second.Mesh.Polygons) {
		t.Fatalf("polygon counts differ: %d vs %d", len(first.Mesh.Polygons), len(second.Mesh.Polygons))
	}
	if first.Mesh.HasVertexColors || second.Mesh.HasVertexColors {
		t.Error("a uniform colour setter must not mark the mesh vertex-coloured")
	}

	snaps.MatchSnapshot(t, "shared_cache_entries", cache.Len())
	snaps.MatchSnapshot(t, "shared_mesh_polygon_count", len(first.Mesh.Polygons))
}
