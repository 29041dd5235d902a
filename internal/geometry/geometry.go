// Package geometry holds the geometric data types (vectors, paths,
// polygons, meshes) and the narrow Kernel interface that stands in for
// the triangle/mesh kernel spec.md §1 calls out as an external
// collaborator: boolean ops, hull, minkowski sum, mesh triangulation,
// and 2D-to-3D builders are treated as pure functions the evaluator
// calls into, never reimplemented here with real-world fidelity.
package geometry

import "math"

// Vector3 is a point or direction in 3-space.
type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Scale(f float64) Vector3 {
	return Vector3{v.X * f, v.Y * f, v.Z * f}
}

func (v Vector3) Dot(o Vector3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vector3) Normalized() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

func (v Vector3) Min(o Vector3) Vector3 {
	return Vector3{math.Min(v.X, o.X), math.Min(v.Y, o.Y), math.Min(v.Z, o.Z)}
}

func (v Vector3) Max(o Vector3) Vector3 {
	return Vector3{math.Max(v.X, o.X), math.Max(v.Y, o.Y), math.Max(v.Z, o.Z)}
}

// RGBA is a material/vertex colour.
type RGBA struct {
	R, G, B, A float64
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max Vector3
	Empty    bool
}

// Union returns the smallest bounds enclosing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	if b.Empty {
		return o
	}
	if o.Empty {
		return b
	}
	return Bounds{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Transformed returns the bounds translated by t and scaled by s about
// the origin, which is an approximation of the exact sampled-mesh
// bounds spec.md §4.7 calls for on transformed primitives — exact
// fidelity depends on the mesh kernel this package stands in for.
func (b Bounds) Transformed(t, s Vector3) Bounds {
	if b.Empty {
		return b
	}
	return Bounds{
		Min: Vector3{b.Min.X*s.X + t.X, b.Min.Y*s.Y + t.Y, b.Min.Z*s.Z + t.Z},
		Max: Vector3{b.Max.X*s.X + t.X, b.Max.Y*s.Y + t.Y, b.Max.Z*s.Z + t.Z},
	}
}

// Point is a vertex on a path or polygon, with an optional per-point
// colour override and a flag marking it as the end of a curved run.
type Point struct {
	Position Vector3
	Color    *RGBA
	IsCurved bool
}

// Path is an ordered, optionally-closed sequence of points (spec.md
// §3.3's `path(…)`).
type Path struct {
	Points []Point
	Closed bool
}

func (p Path) Bounds() Bounds {
	if len(p.Points) == 0 {
		return Bounds{Empty: true}
	}
	b := Bounds{Min: p.Points[0].Position, Max: p.Points[0].Position}
	for _, pt := range p.Points[1:] {
		b.Min = b.Min.Min(pt.Position)
		b.Max = b.Max.Max(pt.Position)
	}
	return b
}

// Plane is the supporting plane of a (assumed-planar) Polygon.
type Plane struct {
	Normal Vector3
	W      float64
}

// Polygon is a planar, ordered point loop (spec.md §3.3's
// `polygon(…)`).
type Polygon struct {
	Points []Point
	Plane  Plane
}

func (p Polygon) Center() Vector3 {
	if len(p.Points) == 0 {
		return Vector3{}
	}
	var sum Vector3
	for _, pt := range p.Points {
		sum = sum.Add(pt.Position)
	}
	return sum.Scale(1 / float64(len(p.Points)))
}

func (p Polygon) Bounds() Bounds {
	if len(p.Points) == 0 {
		return Bounds{Empty: true}
	}
	b := Bounds{Min: p.Points[0].Position, Max: p.Points[0].Position}
	for _, pt := range p.Points[1:] {
		b.Min = b.Min.Min(pt.Position)
		b.Max = b.Max.Max(pt.Position)
	}
	return b
}

// Mesh is a closed or open collection of polygons (spec.md §3.3's
// `mesh(…)`). HasVertexColors is true once any non-uniform (per-point)
// colour has been baked in, per §4.8's cache-fingerprint rule.
type Mesh struct {
	Polygons        []Polygon
	HasVertexColors bool
}

func (m Mesh) Bounds() Bounds {
	b := Bounds{Empty: true}
	for _, p := range m.Polygons {
		b = b.Union(p.Bounds())
	}
	return b
}

func (m Mesh) PolygonCount() int { return len(m.Polygons) }

// Merge concatenates polygons from both meshes, marking the result
// vertex-coloured if either input is.
func Merge(meshes ...Mesh) Mesh {
	out := Mesh{}
	for _, m := range meshes {
		out.Polygons = append(out.Polygons, m.Polygons...)
		if m.HasVertexColors {
			out.HasVertexColors = true
		}
	}
	return out
}
