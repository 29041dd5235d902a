package stdlib

import (
	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/values"
)

// RegisterMaterial wires the ambient setters every block body can
// invoke to mutate its own child scope's current material/detail/
// smoothing (spec.md §3.5, §4.7): colour, texture, opacity,
// metallicity, roughness, glow, material, detail, smoothing. It also
// defines the named colour constants ("red", "white", …) that colour
// setters are commonly called with.
func RegisterMaterial(r *Registry) {
	r.Property("color", getColor, setColor, CategoryMaterial, "Sets the current colour.")
	r.Property("colour", getColor, setColor, CategoryMaterial, "Alias for color.")
	r.Property("texture", getTexture, setTexture, CategoryMaterial, "Sets the current texture.")
	r.Property("opacity", getOpacity, setOpacity, CategoryMaterial, "Sets the current opacity (0-1).")
	r.Property("metallicity", getMetallicity, setMetallicity, CategoryMaterial, "Sets the current metallicity (0-1).")
	r.Property("roughness", getRoughness, setRoughness, CategoryMaterial, "Sets the current roughness (0-1).")
	r.Property("glow", getGlow, setGlow, CategoryMaterial, "Sets the current glow colour.")
	r.Property("material", getMaterialProp, setMaterialProp, CategoryMaterial, "Sets every material field at once from an object.")
	r.Property("detail", getDetail, setDetail, CategoryMaterial, "Sets the ambient polygon-detail level.")
	r.Property("smoothing", getSmoothing, setSmoothing, CategoryMaterial, "Sets the ambient smoothing threshold.")
	r.Property("font", getFont, setFont, CategoryMaterial, "Sets the current text font.")

	registerNamedColors(r)
}

func getColor(ctx *context.Context) (values.Value, error) {
	if ctx.Material.Color == nil {
		return &values.ColorValue{A: 1}, nil
	}
	return ctx.Material.Color, nil
}

func setColor(ctx *context.Context, v values.Value) error {
	c, err := values.Convert(v, values.Color())
	if err != nil {
		return err
	}
	col := c.(*values.ColorValue)
	m := ctx.Material
	m.Color = col
	ctx.SetMaterial(m)
	return nil
}

func getTexture(ctx *context.Context) (values.Value, error) {
	if ctx.Material.Texture == nil {
		return values.Void_, nil
	}
	return ctx.Material.Texture, nil
}

// setTexture accepts either a texture value directly or a string
// naming its file path (spec.md §4.4 only defines the reverse
// texture→string conversion, so the string case is built here).
func setTexture(ctx *context.Context, v values.Value) error {
	m := ctx.Material
	switch t := v.(type) {
	case *values.VoidValue:
		m.Texture = nil
	case *values.TextureValue:
		m.Texture = t
	default:
		s, err := values.Convert(v, values.String())
		if err != nil {
			return err
		}
		m.Texture = &values.TextureValue{File: s.(*values.StringValue).Value, Intensity: 1}
	}
	ctx.SetMaterial(m)
	return nil
}

func getOpacity(ctx *context.Context) (values.Value, error) {
	return &values.NumberValue{Value: ctx.Material.Opacity}, nil
}

func setOpacity(ctx *context.Context, v values.Value) error {
	n, err := numberOf(v)
	if err != nil {
		return err
	}
	m := ctx.Material
	m.Opacity = clamp01(n)
	ctx.SetMaterial(m)
	return nil
}

func getMetallicity(ctx *context.Context) (values.Value, error) {
	return &values.NumberValue{Value: ctx.Material.Metallicity}, nil
}

func setMetallicity(ctx *context.Context, v values.Value) error {
	n, err := numberOf(v)
	if err != nil {
		return err
	}
	m := ctx.Material
	m.Metallicity = clamp01(n)
	ctx.SetMaterial(m)
	return nil
}

func getRoughness(ctx *context.Context) (values.Value, error) {
	return &values.NumberValue{Value: ctx.Material.Roughness}, nil
}

func setRoughness(ctx *context.Context, v values.Value) error {
	n, err := numberOf(v)
	if err != nil {
		return err
	}
	m := ctx.Material
	m.Roughness = clamp01(n)
	ctx.SetMaterial(m)
	return nil
}

func getGlow(ctx *context.Context) (values.Value, error) {
	if ctx.Material.Glow == nil {
		return &values.ColorValue{}, nil
	}
	return ctx.Material.Glow, nil
}

func setGlow(ctx *context.Context, v values.Value) error {
	c, err := values.Convert(v, values.Color())
	if err != nil {
		return err
	}
	m := ctx.Material
	col := c.(*values.ColorValue)
	m.Glow = col
	ctx.SetMaterial(m)
	return nil
}

// getMaterialProp exposes the whole material bundle as an object, and
// setMaterialProp accepts the same whitelist spec.md §4.4's object→
// material conversion accepts (opacity, color, texture, normals,
// metallicity, roughness, glow), applying only the fields present.
func getMaterialProp(ctx *context.Context) (values.Value, error) {
	return materialSnapshot(ctx.Material), nil
}

func setMaterialProp(ctx *context.Context, v values.Value) error {
	mv, err := values.Convert(v, values.Material())
	if err != nil {
		return err
	}
	mat := mv.(*values.MaterialValue)
	m := ctx.Material
	if mat.Color != nil {
		m.Color = mat.Color
	}
	if mat.Texture != nil {
		m.Texture = mat.Texture
	}
	if mat.Glow != nil {
		m.Glow = mat.Glow
	}
	o, isObj := v.(*values.ObjectValue)
	for k, f := range map[string][2]*float64{
		"metallicity": {&m.Metallicity, &mat.Metallicity},
		"roughness":   {&m.Roughness, &mat.Roughness},
		"opacity":     {&m.Opacity, &mat.Opacity},
	} {
		if !isObj || o.Fields[k] != nil {
			*f[0] = *f[1]
		}
	}
	ctx.SetMaterial(m)
	return nil
}

func getDetail(ctx *context.Context) (values.Value, error) {
	return &values.NumberValue{Value: float64(ctx.Detail)}, nil
}

func setDetail(ctx *context.Context, v values.Value) error {
	n, err := numberOf(v)
	if err != nil {
		return err
	}
	ctx.SetDetail(detailSegments(int(n)))
	return nil
}

func getSmoothing(ctx *context.Context) (values.Value, error) {
	return &values.NumberValue{Value: ctx.Smoothing}, nil
}

func setSmoothing(ctx *context.Context, v values.Value) error {
	n, err := numberOf(v)
	if err != nil {
		return err
	}
	ctx.SetSmoothing(n)
	return nil
}

func getFont(ctx *context.Context) (values.Value, error) {
	return &values.StringValue{Value: ctx.Font}, nil
}

func setFont(ctx *context.Context, v values.Value) error {
	s, err := values.Convert(v, values.String())
	if err != nil {
		return err
	}
	ctx.SetFont(s.(*values.StringValue).Value)
	return nil
}

func clamp01(n float64) float64 {
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// registerNamedColors defines the CSS-style colour names ShapeScript
// source commonly uses as colour setter arguments ("color red"),
// as plain constants resolved like any other identifier.
func registerNamedColors(r *Registry) {
	named := map[string]values.ColorValue{
		"black":   {A: 1},
		"white":   {R: 1, G: 1, B: 1, A: 1},
		"gray":    {R: 0.5, G: 0.5, B: 0.5, A: 1},
		"grey":    {R: 0.5, G: 0.5, B: 0.5, A: 1},
		"red":     {R: 1, A: 1},
		"green":   {G: 1, A: 1},
		"blue":    {B: 1, A: 1},
		"yellow":  {R: 1, G: 1, A: 1},
		"cyan":    {G: 1, B: 1, A: 1},
		"magenta": {R: 1, B: 1, A: 1},
		"orange":  {R: 1, G: 0.5, A: 1},
		"purple":  {R: 0.5, B: 0.5, A: 1},
		"brown":   {R: 0.6, G: 0.4, B: 0.2, A: 1},
		"clear":   {},
	}
	for name, col := range named {
		col := col
		r.register(name, CategoryMaterial, "Named colour constant.", &context.Symbol{
			Kind:  context.SymConstant,
			Value: &col,
		})
	}
}
