package values

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shapescript-lang/shapescript/internal/geometry"
)

// Value is a runtime value (spec.md §3.3). Every variant is a pointer
// type implementing Type/String, following the same shape for each
// variant rather than a tagged union.
type Value interface {
	Type() ValueType
	String() string
}

type NumberValue struct{ Value float64 }

func (v *NumberValue) Type() ValueType { return Number() }
func (v *NumberValue) String() string  { return strconv.FormatFloat(v.Value, 'g', -1, 64) }

type StringValue struct{ Value string }

func (v *StringValue) Type() ValueType { return String() }
func (v *StringValue) String() string  { return v.Value }

type BooleanValue struct{ Value bool }

func (v *BooleanValue) Type() ValueType { return Boolean() }
func (v *BooleanValue) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}

type VectorValue struct{ X, Y, Z float64 }

func (v *VectorValue) Type() ValueType { return Vector() }
func (v *VectorValue) String() string {
	return fmt.Sprintf("%s %s %s", trimNum(v.X), trimNum(v.Y), trimNum(v.Z))
}
func (v *VectorValue) ToGeometry() geometry.Vector3 { return geometry.Vector3{X: v.X, Y: v.Y, Z: v.Z} }

type SizeValue struct{ X, Y, Z float64 }

func (v *SizeValue) Type() ValueType { return Size() }
func (v *SizeValue) String() string {
	return fmt.Sprintf("%s %s %s", trimNum(v.X), trimNum(v.Y), trimNum(v.Z))
}

type ColorValue struct{ R, G, B, A float64 }

func (v *ColorValue) Type() ValueType { return Color() }
func (v *ColorValue) String() string {
	return fmt.Sprintf("%s %s %s %s", trimNum(v.R), trimNum(v.G), trimNum(v.B), trimNum(v.A))
}
func (v *ColorValue) ToGeometry() geometry.RGBA {
	return geometry.RGBA{R: v.R, G: v.G, B: v.B, A: v.A}
}

// RotationValue holds roll/yaw/pitch in half-turns (spec.md §3.3).
type RotationValue struct{ Roll, Yaw, Pitch float64 }

func (v *RotationValue) Type() ValueType { return Rotation() }
func (v *RotationValue) String() string {
	return fmt.Sprintf("%s %s %s", trimNum(v.Roll), trimNum(v.Yaw), trimNum(v.Pitch))
}

type RadiansValue struct{ Value float64 }

func (v *RadiansValue) Type() ValueType { return Radians() }
func (v *RadiansValue) String() string  { return trimNum(v.Value) + "rad" }

type HalfturnsValue struct{ Value float64 }

func (v *HalfturnsValue) Type() ValueType { return Halfturns() }
func (v *HalfturnsValue) String() string  { return trimNum(v.Value) }

type RangeValue struct {
	From, To float64
	Step     float64
	HasStep  bool
}

func (v *RangeValue) Type() ValueType { return Range() }
func (v *RangeValue) String() string {
	if v.HasStep {
		return fmt.Sprintf("%s to %s step %s", trimNum(v.From), trimNum(v.To), trimNum(v.Step))
	}
	return fmt.Sprintf("%s to %s", trimNum(v.From), trimNum(v.To))
}

// Values enumerates the whole range into a slice, stepping by 1 (or
// -1 for a descending range) when no explicit step was given, per
// spec.md's range-over-numbers iteration.
func (v *RangeValue) Values() []float64 {
	step := v.Step
	if !v.HasStep {
		if v.To >= v.From {
			step = 1
		} else {
			step = -1
		}
	}
	if step == 0 {
		return nil
	}
	var out []float64
	if step > 0 {
		for x := v.From; x <= v.To+1e-9; x += step {
			out = append(out, x)
		}
	} else {
		for x := v.From; x >= v.To-1e-9; x += step {
			out = append(out, x)
		}
	}
	return out
}

type TupleValue struct{ Elements []Value }

func (v *TupleValue) Type() ValueType {
	comps := make([]ValueType, len(v.Elements))
	for i, e := range v.Elements {
		comps[i] = e.Type()
	}
	return Tuple(comps...)
}
func (v *TupleValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

// ObjectValue preserves insertion order but iterates sorted by key
// (spec.md §3.3) once converted to a list.
type ObjectValue struct {
	Keys   []string
	Fields map[string]Value
}

func NewObjectValue() *ObjectValue {
	return &ObjectValue{Fields: make(map[string]Value)}
}

func (v *ObjectValue) Set(key string, val Value) {
	if _, ok := v.Fields[key]; !ok {
		v.Keys = append(v.Keys, key)
	}
	v.Fields[key] = val
}

func (v *ObjectValue) Type() ValueType {
	var elem ValueType = Any()
	var types []ValueType
	for _, k := range v.Keys {
		types = append(types, v.Fields[k].Type())
	}
	if len(types) > 0 {
		elem = Union(types...)
	}
	return Object(elem)
}

func (v *ObjectValue) String() string {
	keys := append([]string(nil), v.Keys...)
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + v.Fields[k].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// SortedEntries returns (key, value) pairs sorted by key, matching
// the object→list(tuple([string,T])) conversion rule.
func (v *ObjectValue) SortedEntries() []struct {
	Key   string
	Value Value
} {
	keys := append([]string(nil), v.Keys...)
	sort.Strings(keys)
	out := make([]struct {
		Key   string
		Value Value
	}, len(keys))
	for i, k := range keys {
		out[i] = struct {
			Key   string
			Value Value
		}{k, v.Fields[k]}
	}
	return out
}

type PathValue struct{ Path geometry.Path }

func (v *PathValue) Type() ValueType { return Path() }
func (v *PathValue) String() string  { return fmt.Sprintf("path(%d points)", len(v.Path.Points)) }

type PolygonValue struct{ Polygon geometry.Polygon }

func (v *PolygonValue) Type() ValueType { return Polygon() }
func (v *PolygonValue) String() string {
	return fmt.Sprintf("polygon(%d points)", len(v.Polygon.Points))
}

type PointValue struct {
	Position VectorValue
	Color    *ColorValue
	IsCurved bool
}

func (v *PointValue) Type() ValueType { return Point() }
func (v *PointValue) String() string  { return "point(" + v.Position.String() + ")" }

func (v *PointValue) ToGeometry() geometry.Point {
	p := geometry.Point{Position: v.Position.ToGeometry(), IsCurved: v.IsCurved}
	if v.Color != nil {
		c := v.Color.ToGeometry()
		p.Color = &c
	}
	return p
}

// MeshValue is a geometry node: a built mesh plus the material
// snapshot frozen onto it at emission time (spec.md §4.6's
// "material-bound geometry"). Transform is not stored separately —
// it is baked into Mesh's vertex positions via geometry.ApplyTRS
// before the node is emitted.
type MeshValue struct {
	Mesh     geometry.Mesh
	Material *MaterialValue
}

func (v *MeshValue) Type() ValueType { return Mesh() }
func (v *MeshValue) String() string  { return fmt.Sprintf("mesh(%d polygons)", len(v.Mesh.Polygons)) }

// TextureValue wraps a file path or inline data plus a blend
// intensity (spec.md §3.3).
type TextureValue struct {
	File      string
	Data      []byte
	Intensity float64
}

func (v *TextureValue) Type() ValueType { return Texture() }
func (v *TextureValue) String() string {
	if v.File != "" {
		return v.File
	}
	return fmt.Sprintf("texture(%d bytes)", len(v.Data))
}

// MaterialValue mirrors the evaluation context's "current material"
// fields (spec.md §3.5): colour, texture, metallicity, roughness,
// glow, opacity.
type MaterialValue struct {
	Color        *ColorValue
	Texture      *TextureValue
	Metallicity  float64
	Roughness    float64
	Glow         *ColorValue
	Opacity      float64
	NormalsTexture *TextureValue
}

func (v *MaterialValue) Type() ValueType { return Material() }
func (v *MaterialValue) String() string  { return "material(...)" }

type FontValue struct{ Name string }

func (v *FontValue) Type() ValueType { return Font() }
func (v *FontValue) String() string  { return v.Name }

type BoundsValue struct{ Min, Max VectorValue }

func (v *BoundsValue) Type() ValueType { return Bounds() }
func (v *BoundsValue) String() string {
	return "bounds(" + v.Min.String() + ", " + v.Max.String() + ")"
}

func (v *BoundsValue) ToGeometry() geometry.Bounds {
	return geometry.Bounds{Min: v.Min.ToGeometry(), Max: v.Max.ToGeometry()}
}

func FromGeometryBounds(b geometry.Bounds) *BoundsValue {
	if b.Empty {
		return &BoundsValue{}
	}
	return &BoundsValue{
		Min: VectorValue{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		Max: VectorValue{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

type VoidValue struct{}

func (v *VoidValue) Type() ValueType { return Void() }
func (v *VoidValue) String() string  { return "" }

var Void_ = &VoidValue{}

func trimNum(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
