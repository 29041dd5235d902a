package geometry

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrCancelled is returned by any Kernel operation that observed
// ctx.Done() between sub-steps (spec.md §5's cooperative cancellation).
var ErrCancelled = errors.New("geometry: build cancelled")

// Kernel is the narrow interface the evaluator calls into for
// everything spec.md §1 lists as out of scope: boolean ops, hull,
// minkowski sum, mesh triangulation, and 2D-to-3D builders. Treat
// every method as a pure function of its inputs — no method may
// retain its arguments or mutate them.
type Kernel interface {
	Fill(ctx context.Context, paths []Path) (Mesh, error)
	Extrude(ctx context.Context, paths []Path, along *Path, twist float64) (Mesh, error)
	Lathe(ctx context.Context, paths []Path) (Mesh, error)
	Hull(ctx context.Context, meshes []Mesh) (Mesh, error)
	Minkowski(ctx context.Context, a, b Mesh) (Mesh, error)
	Union(ctx context.Context, meshes []Mesh) (Mesh, error)
	Intersection(ctx context.Context, meshes []Mesh) (Mesh, error)
	Difference(ctx context.Context, meshes []Mesh) (Mesh, error)
	Stencil(ctx context.Context, meshes []Mesh) (Mesh, error)
	Triangulate(ctx context.Context, p Polygon) (Mesh, error)

	// TextToPaths rasterises text under the named font into outline
	// paths. A nil error with zero paths is valid when no font backend
	// is configured (spec.md §8 scenario 10 allows skipping the exact
	// polygon-count regressions in that case).
	TextToPaths(ctx context.Context, text, font string) ([]Path, error)
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ErrCancelled
	default:
		return nil
	}
}

// SimpleKernel is a minimal, deterministic, dependency-free stand-in
// for the real mesh kernel. It produces structurally valid meshes
// (consistent bounds, vertex counts, and cache fingerprints) but does
// not attempt real-world triangle counts — the boolean/hull/minkowski
// operations here are intentionally approximate combinatorial
// placeholders, not geometric solvers.
type SimpleKernel struct{}

func NewSimpleKernel() *SimpleKernel { return &SimpleKernel{} }

// Fill triangulates each path as a simple fan from its first point,
// producing one mesh per path and merging them.
func (k *SimpleKernel) Fill(ctx context.Context, paths []Path) (Mesh, error) {
	out := Mesh{}
	for _, p := range paths {
		if err := checkCancelled(ctx); err != nil {
			return Mesh{}, err
		}
		out = Merge(out, fanTriangulate(p))
	}
	return out, nil
}

// Extrude extrudes each path straight along the Z axis, optionally
// twisting the cross-section by twist half-turns. The height is 1, or,
// when along has two or more points, along's Z extent (or, if that is
// zero, the distance from along's first point to its last); the shape
// of along is not followed.
func (k *SimpleKernel) Extrude(ctx context.Context, paths []Path, along *Path, twist float64) (Mesh, error) {
	out := Mesh{}
	for _, p := range paths {
		if err := checkCancelled(ctx); err != nil {
			return Mesh{}, err
		}
		height := 1.0
		if along != nil && len(along.Points) > 1 {
			b := along.Bounds()
			height = b.Max.Z - b.Min.Z
			if height == 0 {
				height = along.Points[len(along.Points)-1].Position.Sub(along.Points[0].Position).Length()
			}
		}
		out = Merge(out, extrudeAlongZ(p, height, twist))
	}
	return out, nil
}

// Lathe revolves each path 360 degrees about the Y axis, emitting one
// quad strip per path segment.
func (k *SimpleKernel) Lathe(ctx context.Context, paths []Path) (Mesh, error) {
	out := Mesh{}
	const segments = 16
	for _, p := range paths {
		if err := checkCancelled(ctx); err != nil {
			return Mesh{}, err
		}
		out = Merge(out, latheAroundY(p, segments))
	}
	return out, nil
}

// Hull merges every input mesh's polygons verbatim. A true convex
// hull is a mesh-kernel responsibility; this keeps the boundary's
// vertex set while skipping the solve.
func (k *SimpleKernel) Hull(ctx context.Context, meshes []Mesh) (Mesh, error) {
	if err := checkCancelled(ctx); err != nil {
		return Mesh{}, err
	}
	return Merge(meshes...), nil
}

// Minkowski merges a's polygons translated by the centre of each of
// b's polygons — a
// combinatorial stand-in for a true Minkowski sum.
func (k *SimpleKernel) Minkowski(ctx context.Context, a, b Mesh) (Mesh, error) {
	out := Mesh{}
	for _, bp := range b.Polygons {
		if err := checkCancelled(ctx); err != nil {
			return Mesh{}, err
		}
		offset := bp.Center()
		out = Merge(out, translate(a, offset))
	}
	return out, nil
}

func (k *SimpleKernel) Union(ctx context.Context, meshes []Mesh) (Mesh, error) {
	if err := checkCancelled(ctx); err != nil {
		return Mesh{}, err
	}
	return Merge(meshes...), nil
}

// Intersection and Difference cannot be approximated by polygon
// concatenation without a real boolean solver; SimpleKernel returns
// the first operand unchanged, which keeps bounds and vertex-colour
// flags sane for cache-sharing tests while making no claim about the
// resulting shape (spec.md §8 scenario 10's exact counts are skipped
// under this backend).
func (k *SimpleKernel) Intersection(ctx context.Context, meshes []Mesh) (Mesh, error) {
	if err := checkCancelled(ctx); err != nil {
		return Mesh{}, err
	}
	if len(meshes) == 0 {
		return Mesh{}, nil
	}
	return meshes[0], nil
}

func (k *SimpleKernel) Difference(ctx context.Context, meshes []Mesh) (Mesh, error) {
	if err := checkCancelled(ctx); err != nil {
		return Mesh{}, err
	}
	if len(meshes) == 0 {
		return Mesh{}, nil
	}
	return meshes[0], nil
}

func (k *SimpleKernel) Stencil(ctx context.Context, meshes []Mesh) (Mesh, error) {
	return k.Difference(ctx, meshes)
}

func (k *SimpleKernel) Triangulate(ctx context.Context, p Polygon) (Mesh, error) {
	if err := checkCancelled(ctx); err != nil {
		return Mesh{}, err
	}
	return fanTriangulatePolygon(p), nil
}

// TextToPaths reports no font backend configured; callers must treat
// a (nil, nil) result as "text unavailable" rather than an error.
func (k *SimpleKernel) TextToPaths(ctx context.Context, text, font string) ([]Path, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}

func fanTriangulate(p Path) Mesh {
	if len(p.Points) < 3 {
		return Mesh{}
	}
	return fanTriangulatePolygon(Polygon{Points: p.Points})
}

func fanTriangulatePolygon(p Polygon) Mesh {
	if len(p.Points) < 3 {
		return Mesh{}
	}
	hasColor := false
	for _, pt := range p.Points {
		if pt.Color != nil {
			hasColor = true
		}
	}
	var polys []Polygon
	hub := p.Points[0]
	for i := 1; i+1 < len(p.Points); i++ {
		polys = append(polys, Polygon{Points: []Point{hub, p.Points[i], p.Points[i+1]}})
	}
	return Mesh{Polygons: polys, HasVertexColors: hasColor}
}

func extrudeAlongZ(p Path, height, twistHalfTurns float64) Mesh {
	if len(p.Points) < 2 {
		return Mesh{}
	}
	top := make([]Point, len(p.Points))
	angle := twistHalfTurns * math.Pi
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	for i, pt := range p.Points {
		x := pt.Position.X*cosA - pt.Position.Y*sinA
		y := pt.Position.X*sinA + pt.Position.Y*cosA
		top[i] = Point{Position: Vector3{x, y, pt.Position.Z + height}, Color: pt.Color}
	}
	var polys []Polygon
	n := len(p.Points)
	closed := n
	if !p.Closed {
		closed = n - 1
	}
	for i := 0; i < closed; i++ {
		j := (i + 1) % n
		polys = append(polys, Polygon{Points: []Point{p.Points[i], p.Points[j], top[j], top[i]}})
	}
	bottomCap := fanTriangulatePolygon(Polygon{Points: p.Points})
	topCap := fanTriangulatePolygon(Polygon{Points: top})
	return Merge(Mesh{Polygons: polys}, bottomCap, topCap)
}

func latheAroundY(p Path, segments int) Mesh {
	if len(p.Points) < 2 || segments < 3 {
		return Mesh{}
	}
	rings := make([][]Point, segments)
	for s := 0; s < segments; s++ {
		angle := 2 * math.Pi * float64(s) / float64(segments)
		cosA, sinA := math.Cos(angle), math.Sin(angle)
		ring := make([]Point, len(p.Points))
		for i, pt := range p.Points {
			ring[i] = Point{
				Position: Vector3{pt.Position.X * cosA, pt.Position.Y, pt.Position.X * sinA},
				Color:    pt.Color,
			}
		}
		rings[s] = ring
	}
	var polys []Polygon
	for s := 0; s < segments; s++ {
		next := (s + 1) % segments
		for i := 0; i+1 < len(p.Points); i++ {
			polys = append(polys, Polygon{Points: []Point{
				rings[s][i], rings[s][i+1], rings[next][i+1], rings[next][i],
			}})
		}
	}
	return Mesh{Polygons: polys}
}

func translate(m Mesh, offset Vector3) Mesh {
	polys := make([]Polygon, len(m.Polygons))
	for i, poly := range m.Polygons {
		pts := make([]Point, len(poly.Points))
		for j, pt := range poly.Points {
			pts[j] = Point{Position: pt.Position.Add(offset), Color: pt.Color, IsCurved: pt.IsCurved}
		}
		polys[i] = Polygon{Points: pts, Plane: poly.Plane}
	}
	return Mesh{Polygons: polys, HasVertexColors: m.HasVertexColors}
}

// ErrNoFontBackend is returned by higher layers (not SimpleKernel
// itself) wherever a caller requires text geometry and none was
// produced.
var ErrNoFontBackend = fmt.Errorf("geometry: no font backend configured")
