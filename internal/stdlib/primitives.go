package stdlib

import (
	"math"

	"github.com/shapescript-lang/shapescript/internal/cache"
	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/geometry"
	"github.com/shapescript-lang/shapescript/internal/values"
)

// RegisterPrimitives wires cube, sphere, cylinder, and cone: native
// blocks that build a canonical unit shape, transform it by the
// block's size/position/orientation options, and freeze the current
// ambient material onto the result (spec.md §4.7).
func RegisterPrimitives(r *Registry) {
	sizeOpt := context.NativeOption{Name: "size", Default: &values.NumberValue{Value: 1}}
	positionOpt := context.NativeOption{Name: "position", Default: &values.VectorValue{}}
	orientationOpt := context.NativeOption{Name: "orientation", Default: &values.RotationValue{}}
	opts := []context.NativeOption{sizeOpt, positionOpt, orientationOpt}

	r.Block("cube", opts, primitiveFinish("cube", cubeLocal), CategoryPrimitive,
		"A unit cube scaled, rotated, and translated by size/orientation/position.")
	r.Block("sphere", opts, primitiveFinish("sphere", sphereLocal), CategoryPrimitive,
		"A unit sphere sampled at the ambient detail level.")
	r.Block("cylinder", opts, primitiveFinish("cylinder", cylinderLocal), CategoryPrimitive,
		"A unit cylinder sampled at the ambient detail level.")
	r.Block("cone", opts, primitiveFinish("cone", coneLocal), CategoryPrimitive,
		"A unit cone sampled at the ambient detail level.")
}

// primitiveFinish builds a NativeFinish for a primitive whose
// canonical unit-space mesh is produced by localBuild(segments).
func primitiveFinish(kind string, localBuild func(segments int) geometry.Mesh) context.NativeFinish {
	return func(cs *context.Context) (values.Value, error) {
		size := vectorOf(lookupOrDefault(cs, "size", &values.NumberValue{Value: 1}))
		position := vectorOf(lookupOrDefault(cs, "position", &values.VectorValue{}))
		orientation := rotationOf(lookupOrDefault(cs, "orientation", &values.RotationValue{}))
		segments := detailSegments(cs.Detail)

		fp := cache.NewBuilder(kind).
			Float(size.X).Float(size.Y).Float(size.Z).
			Float(position.X).Float(position.Y).Float(position.Z).
			Float(orientation.X).Float(orientation.Y).Float(orientation.Z).
			Int(segments).Float(cs.Smoothing).Finish()

		mesh, err := buildCached(cs, fp, func() (geometry.Mesh, error) {
			local := localBuild(segments)
			return geometry.ApplyTRS(local, position, orientation, size), nil
		})
		if err != nil {
			return nil, err
		}
		return &values.MeshValue{Mesh: mesh, Material: materialSnapshot(cs.Material)}, nil
	}
}

// detailSegments clamps the ambient detail level to a sane polygon
// budget for circular sampling (sphere/cylinder/cone), matching
// spec.md §4.7's "low-detail primitives have bounds computed
// analytically" by keeping a sensible floor.
func detailSegments(detail int) int {
	if detail < 3 {
		return 3
	}
	return detail
}

func cubeLocal(_ int) geometry.Mesh {
	const h = 0.5
	v := func(x, y, z float64) geometry.Point { return geometry.Point{Position: geometry.Vector3{X: x, Y: y, Z: z}} }
	faces := [][4]geometry.Point{
		{v(-h, -h, h), v(h, -h, h), v(h, h, h), v(-h, h, h)},    // front
		{v(h, -h, -h), v(-h, -h, -h), v(-h, h, -h), v(h, h, -h)}, // back
		{v(-h, -h, -h), v(-h, -h, h), v(-h, h, h), v(-h, h, -h)}, // left
		{v(h, -h, h), v(h, -h, -h), v(h, h, -h), v(h, h, h)},     // right
		{v(-h, h, h), v(h, h, h), v(h, h, -h), v(-h, h, -h)},     // top
		{v(-h, -h, -h), v(h, -h, -h), v(h, -h, h), v(-h, -h, h)}, // bottom
	}
	polys := make([]geometry.Polygon, len(faces))
	for i, f := range faces {
		polys[i] = geometry.Polygon{Points: f[:]}
	}
	return geometry.Mesh{Polygons: polys}
}

func sphereLocal(segments int) geometry.Mesh {
	const r = 0.5
	rings := segments
	var polys []geometry.Polygon
	ring := func(lat int) []geometry.Point {
		theta := math.Pi * float64(lat) / float64(rings)
		y := r * math.Cos(theta)
		ringR := r * math.Sin(theta)
		pts := make([]geometry.Point, segments)
		for i := 0; i < segments; i++ {
			phi := 2 * math.Pi * float64(i) / float64(segments)
			pts[i] = geometry.Point{Position: geometry.Vector3{
				X: ringR * math.Cos(phi), Y: y, Z: ringR * math.Sin(phi),
			}}
		}
		return pts
	}
	rows := make([][]geometry.Point, rings+1)
	for lat := 0; lat <= rings; lat++ {
		rows[lat] = ring(lat)
	}
	for lat := 0; lat < rings; lat++ {
		for i := 0; i < segments; i++ {
			j := (i + 1) % segments
			polys = append(polys, geometry.Polygon{Points: []geometry.Point{
				rows[lat][i], rows[lat][j], rows[lat+1][j], rows[lat+1][i],
			}})
		}
	}
	return geometry.Mesh{Polygons: polys}
}

func cylinderLocal(segments int) geometry.Mesh {
	const r, h = 0.5, 0.5
	top := make([]geometry.Point, segments)
	bottom := make([]geometry.Point, segments)
	for i := 0; i < segments; i++ {
		phi := 2 * math.Pi * float64(i) / float64(segments)
		x, z := r*math.Cos(phi), r*math.Sin(phi)
		top[i] = geometry.Point{Position: geometry.Vector3{X: x, Y: h, Z: z}}
		bottom[i] = geometry.Point{Position: geometry.Vector3{X: x, Y: -h, Z: z}}
	}
	var polys []geometry.Polygon
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		polys = append(polys, geometry.Polygon{Points: []geometry.Point{bottom[i], bottom[j], top[j], top[i]}})
	}
	polys = append(polys, fanPolygons(top)...)
	reversed := make([]geometry.Point, len(bottom))
	for i, p := range bottom {
		reversed[len(bottom)-1-i] = p
	}
	polys = append(polys, fanPolygons(reversed)...)
	return geometry.Mesh{Polygons: polys}
}

func coneLocal(segments int) geometry.Mesh {
	const r, h = 0.5, 0.5
	apex := geometry.Point{Position: geometry.Vector3{X: 0, Y: h, Z: 0}}
	base := make([]geometry.Point, segments)
	for i := 0; i < segments; i++ {
		phi := 2 * math.Pi * float64(i) / float64(segments)
		base[i] = geometry.Point{Position: geometry.Vector3{X: r * math.Cos(phi), Y: -h, Z: r * math.Sin(phi)}}
	}
	var polys []geometry.Polygon
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		polys = append(polys, geometry.Polygon{Points: []geometry.Point{base[i], base[j], apex}})
	}
	reversed := make([]geometry.Point, len(base))
	for i, p := range base {
		reversed[len(base)-1-i] = p
	}
	polys = append(polys, fanPolygons(reversed)...)
	return geometry.Mesh{Polygons: polys}
}

// fanPolygons triangulates a planar point loop as a fan from its
// first vertex, used for cylinder/cone end caps.
func fanPolygons(pts []geometry.Point) []geometry.Polygon {
	if len(pts) < 3 {
		return nil
	}
	var polys []geometry.Polygon
	hub := pts[0]
	for i := 1; i+1 < len(pts); i++ {
		polys = append(polys, geometry.Polygon{Points: []geometry.Point{hub, pts[i], pts[i+1]}})
	}
	return polys
}
