package values

import "testing"

func num(f float64) *NumberValue { return &NumberValue{Value: f} }

func TestConvertNumberToColorIsGrayscale(t *testing.T) {
	res, err := Convert(num(0.5), Color())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := res.(*ColorValue)
	if c.R != 0.5 || c.G != 0.5 || c.B != 0.5 || c.A != 1 {
		t.Errorf("got %+v, want grayscale opaque 0.5", c)
	}
}

func TestConvertThreeTupleToColorIsOpaqueRGB(t *testing.T) {
	tup := &TupleValue{Elements: []Value{num(1), num(0), num(0)}}
	res, err := Convert(tup, Color())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := res.(*ColorValue)
	if c.R != 1 || c.G != 0 || c.B != 0 || c.A != 1 {
		t.Errorf("got %+v, want opaque red", c)
	}
}

func TestConvertFiveTupleToColorIsUnexpectedArgument(t *testing.T) {
	tup := &TupleValue{Elements: []Value{num(1), num(1), num(1), num(1), num(1)}}
	_, err := Convert(tup, Color())
	ce, ok := err.(*ConversionError)
	if !ok || ce.Kind != "unexpectedArgument" {
		t.Fatalf("got %v, want an unexpectedArgument error", err)
	}
}

func TestConvertEmptyTupleToColorIsTypeMismatch(t *testing.T) {
	tup := &TupleValue{}
	_, err := Convert(tup, Color())
	ce, ok := err.(*ConversionError)
	if !ok || ce.Kind != "typeMismatch" {
		t.Fatalf("got %v, want a typeMismatch error", err)
	}
}

func TestConvertHexStringToColor(t *testing.T) {
	res, err := Convert(&StringValue{Value: "#f00"}, Color())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := res.(*ColorValue)
	if c.R != 1 || c.G != 0 || c.B != 0 {
		t.Errorf("got %+v, want red", c)
	}
}

func TestConvertRadiansToRotationIsAnError(t *testing.T) {
	_, err := Convert(&RadiansValue{Value: 1}, Rotation())
	if err == nil {
		t.Fatalf("expected radians->rotation to be an error")
	}
}

func TestConvertHalfturnsToRotationIsRoll(t *testing.T) {
	res, err := Convert(&HalfturnsValue{Value: 0.5}, Rotation())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.(*RotationValue).Roll != 0.5 {
		t.Errorf("got %+v", res)
	}
}

func TestConvertSingleElementTupleUnwraps(t *testing.T) {
	tup := &TupleValue{Elements: []Value{num(42)}}
	res, err := Convert(tup, Number())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.(*NumberValue).Value != 42 {
		t.Errorf("got %+v", res)
	}
}

func TestConvertObjectToMaterialRejectsUnknownField(t *testing.T) {
	o := NewObjectValue()
	o.Set("bogus", num(1))
	_, err := Convert(o, Material())
	if err == nil {
		t.Fatalf("expected unknown material field to error")
	}
}

func TestConvertObjectToMaterialWhitelist(t *testing.T) {
	o := NewObjectValue()
	o.Set("opacity", num(0.5))
	o.Set("metallicity", num(1))
	res, err := Convert(o, Material())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := res.(*MaterialValue)
	if m.Opacity != 0.5 || m.Metallicity != 1 {
		t.Errorf("got %+v", m)
	}
}

func TestConvertStringNumericContentToNumber(t *testing.T) {
	res, err := Convert(&StringValue{Value: " 3.5 "}, Number())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.(*NumberValue).Value != 3.5 {
		t.Errorf("got %+v", res)
	}
}

func TestConvertVectorSizeStructuralCopy(t *testing.T) {
	res, err := Convert(&VectorValue{X: 1, Y: 2, Z: 3}, Size())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := res.(*SizeValue)
	if s.X != 1 || s.Y != 2 || s.Z != 3 {
		t.Errorf("got %+v", s)
	}
}
