package values

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shapescript-lang/shapescript/internal/geometry"
)

// ConversionError reports a failed Convert call. Kind distinguishes
// the two evaluator-level error kinds spec.md §4.4/§7 ask for:
// typeMismatch (shape incompatible) and unexpectedArgument (shape
// compatible but out of range, e.g. a 5-number tuple to color).
type ConversionError struct {
	Kind     string // "typeMismatch" | "unexpectedArgument"
	Expected ValueType
	Got      ValueType
	Detail   string
}

func (e *ConversionError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s(expected:%s, got:%s)", e.Kind, e.Expected, e.Got)
}

func typeMismatch(expected, got ValueType) error {
	return &ConversionError{Kind: "typeMismatch", Expected: expected, Got: got}
}

// CanConvert reports whether Convert(v, to) would succeed, without
// performing the conversion.
func CanConvert(v Value, to ValueType) bool {
	_, err := Convert(v, to)
	return err == nil
}

// Convert implements spec.md §4.4's conversion table. Unmatched
// conversions whose shapes agree already return unchanged by the
// is_subtype fast path below.
func Convert(v Value, to ValueType) (Value, error) {
	if v.Type().IsSubtype(to) {
		return v, nil
	}
	if to.Kind == KindUnion {
		for _, m := range to.Members {
			if res, err := Convert(v, m); err == nil {
				return res, nil
			}
		}
		return nil, typeMismatch(to, v.Type())
	}

	switch to.Kind {
	case KindList:
		return convertToList(v, *to.Elem)
	case KindTuple:
		return convertToTuple(v, to)
	case KindColor:
		return convertToColor(v)
	case KindString:
		return &StringValue{Value: debugString(v)}, nil
	case KindMesh:
		return convertToMesh(v)
	case KindPath:
		return convertToPath(v)
	case KindVector:
		if sz, ok := v.(*SizeValue); ok {
			return &VectorValue{X: sz.X, Y: sz.Y, Z: sz.Z}, nil
		}
	case KindSize:
		if vec, ok := v.(*VectorValue); ok {
			return &SizeValue{X: vec.X, Y: vec.Y, Z: vec.Z}, nil
		}
	case KindRadians:
		if n, ok := v.(*NumberValue); ok {
			return &RadiansValue{Value: n.Value}, nil
		}
	case KindHalfturns:
		if n, ok := v.(*NumberValue); ok {
			return &HalfturnsValue{Value: n.Value}, nil
		}
	case KindNumber:
		if r, ok := v.(*RadiansValue); ok {
			return &NumberValue{Value: r.Value}, nil
		}
		if h, ok := v.(*HalfturnsValue); ok {
			return &NumberValue{Value: h.Value}, nil
		}
		if s, ok := v.(*StringValue); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s.Value), 64); err == nil {
				return &NumberValue{Value: f}, nil
			}
		}
		if t, ok := v.(*TupleValue); ok && len(t.Elements) == 1 {
			return Convert(t.Elements[0], Number())
		}
	case KindRotation:
		return convertToRotation(v)
	case KindMaterial:
		return convertToMaterial(v)
	case KindAnyObject:
		if o, ok := v.(*ObjectValue); ok {
			return o, nil
		}
	case KindAny:
		return v, nil
	}

	if t, ok := v.(*TupleValue); ok && len(t.Elements) == 1 {
		return Convert(t.Elements[0], to)
	}
	if n, ok := v.(*NumberValue); ok {
		return convertNumberTo(n, to)
	}

	return nil, typeMismatch(to, v.Type())
}

func convertNumberTo(n *NumberValue, to ValueType) (Value, error) {
	switch to.Kind {
	case KindList:
		return &TupleValue{Elements: []Value{n}}, nil
	case KindTuple:
		if len(to.Components) == 1 {
			return &TupleValue{Elements: []Value{n}}, nil
		}
	}
	return nil, typeMismatch(to, n.Type())
}

func convertToList(v Value, elem ValueType) (Value, error) {
	switch vv := v.(type) {
	case *NumberValue:
		return &TupleValue{Elements: []Value{vv}}, nil
	case *ColorValue:
		return &TupleValue{Elements: []Value{
			&NumberValue{Value: vv.R}, &NumberValue{Value: vv.G},
			&NumberValue{Value: vv.B}, &NumberValue{Value: vv.A},
		}}, nil
	case *TupleValue:
		return vv, nil
	case *ObjectValue:
		entries := vv.SortedEntries()
		out := make([]Value, len(entries))
		for i, e := range entries {
			out[i] = &TupleValue{Elements: []Value{&StringValue{Value: e.Key}, e.Value}}
		}
		return &TupleValue{Elements: out}, nil
	}
	return nil, typeMismatch(List(elem), v.Type())
}

func convertToTuple(v Value, to ValueType) (Value, error) {
	if t, ok := v.(*TupleValue); ok {
		return t, nil
	}
	converted, err := convertToList(v, Any())
	if err != nil {
		return nil, typeMismatch(to, v.Type())
	}
	return converted, nil
}

func convertToColor(v Value) (Value, error) {
	switch vv := v.(type) {
	case *ColorValue:
		return vv, nil
	case *NumberValue:
		return &ColorValue{R: vv.Value, G: vv.Value, B: vv.Value, A: 1}, nil
	case *StringValue:
		if c, ok := parseHexColor(vv.Value); ok {
			return c, nil
		}
		return nil, typeMismatch(Color(), vv.Type())
	case *TupleValue:
		return tupleToColor(vv.Elements)
	}
	return nil, typeMismatch(Color(), v.Type())
}

func tupleToColor(elems []Value) (Value, error) {
	switch len(elems) {
	case 0:
		return nil, &ConversionError{Kind: "typeMismatch", Detail: "typeMismatch(expected:color, got:empty tuple)"}
	case 1:
		return convertToColor(elems[0])
	case 2:
		if c, ok := elems[0].(*ColorValue); ok {
			if a, ok := elems[1].(*NumberValue); ok {
				return &ColorValue{R: c.R, G: c.G, B: c.B, A: a.Value}, nil
			}
		}
		g, err1 := Convert(elems[0], Number())
		a, err2 := Convert(elems[1], Number())
		if err1 == nil && err2 == nil {
			gv, av := g.(*NumberValue).Value, a.(*NumberValue).Value
			return &ColorValue{R: gv, G: gv, B: gv, A: av}, nil
		}
		return nil, typeMismatch(Color(), Tuple())
	case 3:
		nums, err := allNumbers(elems)
		if err != nil {
			return nil, err
		}
		return &ColorValue{R: nums[0], G: nums[1], B: nums[2], A: 1}, nil
	case 4:
		nums, err := allNumbers(elems)
		if err != nil {
			return nil, err
		}
		return &ColorValue{R: nums[0], G: nums[1], B: nums[2], A: nums[3]}, nil
	default:
		return nil, &ConversionError{Kind: "unexpectedArgument", Detail: "unexpectedArgument(max:4)"}
	}
}

func allNumbers(elems []Value) ([]float64, error) {
	out := make([]float64, len(elems))
	for i, e := range elems {
		n, ok := e.(*NumberValue)
		if !ok {
			return nil, typeMismatch(Number(), e.Type())
		}
		out[i] = n.Value
	}
	return out, nil
}

func parseHexColor(s string) (*ColorValue, bool) {
	s = strings.TrimPrefix(s, "#")
	expand := func(c byte) (float64, bool) {
		v, err := strconv.ParseUint(string(c)+string(c), 16, 8)
		if err != nil {
			return 0, false
		}
		return float64(v) / 255, true
	}
	hex2 := func(a, b byte) (float64, bool) {
		v, err := strconv.ParseUint(string(a)+string(b), 16, 8)
		if err != nil {
			return 0, false
		}
		return float64(v) / 255, true
	}
	switch len(s) {
	case 3, 4:
		r, ok1 := expand(s[0])
		g, ok2 := expand(s[1])
		b, ok3 := expand(s[2])
		a := 1.0
		ok4 := true
		if len(s) == 4 {
			a, ok4 = expand(s[3])
		}
		if ok1 && ok2 && ok3 && ok4 {
			return &ColorValue{R: r, G: g, B: b, A: a}, true
		}
	case 6, 8:
		r, ok1 := hex2(s[0], s[1])
		g, ok2 := hex2(s[2], s[3])
		b, ok3 := hex2(s[4], s[5])
		a := 1.0
		ok4 := true
		if len(s) == 8 {
			a, ok4 = hex2(s[6], s[7])
		}
		if ok1 && ok2 && ok3 && ok4 {
			return &ColorValue{R: r, G: g, B: b, A: a}, true
		}
	}
	return nil, false
}

func convertToRotation(v Value) (Value, error) {
	switch vv := v.(type) {
	case *RotationValue:
		return vv, nil
	case *NumberValue:
		return &RotationValue{Roll: vv.Value}, nil
	case *HalfturnsValue:
		return &RotationValue{Roll: vv.Value}, nil
	case *RadiansValue:
		return nil, typeMismatch(Rotation(), Radians())
	case *TupleValue:
		if len(vv.Elements) == 3 {
			nums, err := allNumbers(vv.Elements)
			if err != nil {
				return nil, err
			}
			return &RotationValue{Roll: nums[0], Yaw: nums[1], Pitch: nums[2]}, nil
		}
	}
	return nil, typeMismatch(Rotation(), v.Type())
}

var materialFields = map[string]bool{
	"opacity": true, "color": true, "texture": true,
	"normals": true, "metallicity": true, "roughness": true, "glow": true,
}

func convertToMaterial(v Value) (Value, error) {
	o, ok := v.(*ObjectValue)
	if !ok {
		return nil, typeMismatch(Material(), v.Type())
	}
	m := &MaterialValue{Opacity: 1, Roughness: 1}
	for _, k := range o.Keys {
		if !materialFields[k] {
			return nil, &ConversionError{Kind: "unexpectedArgument", Detail: fmt.Sprintf("unexpectedArgument(unknown material field %q)", k)}
		}
		field := o.Fields[k]
		switch k {
		case "opacity":
			n, err := Convert(field, Number())
			if err != nil {
				return nil, err
			}
			m.Opacity = n.(*NumberValue).Value
		case "color", "texture":
			c, err := Convert(field, Color())
			if err == nil {
				m.Color = c.(*ColorValue)
			} else if t, ok := field.(*TextureValue); ok {
				m.Texture = t
			}
		case "metallicity":
			n, err := Convert(field, Number())
			if err != nil {
				return nil, err
			}
			m.Metallicity = n.(*NumberValue).Value
		case "roughness":
			n, err := Convert(field, Number())
			if err != nil {
				return nil, err
			}
			m.Roughness = n.(*NumberValue).Value
		case "glow":
			c, err := Convert(field, Color())
			if err != nil {
				return nil, err
			}
			m.Glow = c.(*ColorValue)
		case "normals":
			if t, ok := field.(*TextureValue); ok {
				m.NormalsTexture = t
			}
		}
	}
	return m, nil
}

func convertToMesh(v Value) (Value, error) {
	// Real fill/triangulation is the mesh kernel's job (geometry.Kernel);
	// this conversion exists only to satisfy type checking for contexts
	// that do not have a kernel handle. Callers that need real geometry
	// call the kernel directly instead of going through Convert.
	switch v.(type) {
	case *PathValue, *PolygonValue, *MeshValue:
		return nil, &ConversionError{Kind: "typeMismatch", Detail: "path/polygon to mesh conversion requires a geometry kernel"}
	}
	return nil, typeMismatch(Mesh(), v.Type())
}

func convertToPath(v Value) (Value, error) {
	p, ok := v.(*PolygonValue)
	if !ok {
		return nil, typeMismatch(Path(), v.Type())
	}
	pts := append([]geometry.Point(nil), p.Polygon.Points...)
	return &PathValue{Path: geometry.Path{Points: pts, Closed: true}}, nil
}

// debugString implements the any→string conversion (spec.md §4.4):
// tuple elements are rendered recursively and joined with single
// spaces, a texture renders as its file, and a font as its name.
func debugString(v Value) string {
	switch vv := v.(type) {
	case *TupleValue:
		parts := make([]string, len(vv.Elements))
		for i, e := range vv.Elements {
			parts[i] = debugString(e)
		}
		return strings.Join(parts, " ")
	case *TextureValue:
		return vv.File
	case *FontValue:
		return vv.Name
	default:
		return v.String()
	}
}
