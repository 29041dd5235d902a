package geometry

import "math"

// ApplyTRS bakes a translate/rotate/scale into a mesh's vertex
// positions (spec.md §4.6's "material-bound geometry": a geometry
// node freezes a snapshot of the current transform onto itself).
// Scale is applied first about the origin, then rotation (roll/yaw/
// pitch, each in half-turns, applied in that order), then translation.
func ApplyTRS(m Mesh, translate Vector3, rotHalfTurns Vector3, scale Vector3) Mesh {
	if translate == (Vector3{}) && rotHalfTurns == (Vector3{}) && scale == (Vector3{1, 1, 1}) {
		return m
	}
	polys := make([]Polygon, len(m.Polygons))
	for i, poly := range m.Polygons {
		pts := make([]Point, len(poly.Points))
		for j, pt := range poly.Points {
			pts[j] = Point{
				Position: transformPoint(pt.Position, translate, rotHalfTurns, scale),
				Color:    pt.Color,
				IsCurved: pt.IsCurved,
			}
		}
		polys[i] = Polygon{Points: pts, Plane: poly.Plane}
	}
	return Mesh{Polygons: polys, HasVertexColors: m.HasVertexColors}
}

func transformPoint(p, translate, rotHalfTurns, scale Vector3) Vector3 {
	p = Vector3{p.X * scale.X, p.Y * scale.Y, p.Z * scale.Z}
	p = rotateX(p, rotHalfTurns.X*math.Pi)
	p = rotateY(p, rotHalfTurns.Y*math.Pi)
	p = rotateZ(p, rotHalfTurns.Z*math.Pi)
	return p.Add(translate)
}

func rotateX(p Vector3, rad float64) Vector3 {
	c, s := math.Cos(rad), math.Sin(rad)
	return Vector3{p.X, p.Y*c - p.Z*s, p.Y*s + p.Z*c}
}

func rotateY(p Vector3, rad float64) Vector3 {
	c, s := math.Cos(rad), math.Sin(rad)
	return Vector3{p.X*c + p.Z*s, p.Y, -p.X*s + p.Z*c}
}

func rotateZ(p Vector3, rad float64) Vector3 {
	c, s := math.Cos(rad), math.Sin(rad)
	return Vector3{p.X*c - p.Y*s, p.X*s + p.Y*c, p.Z}
}

// TransformPath bakes the same translate/rotate/scale into a path's
// points, used when a path is emitted directly as geometry (not
// consumed by a builder first).
func TransformPath(p Path, translate Vector3, rotHalfTurns Vector3, scale Vector3) Path {
	pts := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = Point{
			Position: transformPoint(pt.Position, translate, rotHalfTurns, scale),
			Color:    pt.Color,
			IsCurved: pt.IsCurved,
		}
	}
	return Path{Points: pts, Closed: p.Closed}
}
