package values

import "github.com/shapescript-lang/shapescript/internal/jsonvalue"

// FromJSON turns a parsed JSON document into the runtime representation
// a `.json` import produces (spec.md §4.6's import dispatch table).
// Arrays become tuples, objects become ObjectValue (insertion order
// preserved, exactly as `jsonvalue.Value` keeps it); whether the
// caller statically treats the result as object(T) or anyObject is a
// host policy decision made at the type-checking layer, not here.
func FromJSON(v *jsonvalue.Value) Value {
	switch v.Kind() {
	case jsonvalue.KindNull, jsonvalue.KindUndefined:
		return Void_
	case jsonvalue.KindBoolean:
		return &BooleanValue{Value: v.BoolValue()}
	case jsonvalue.KindNumber:
		return &NumberValue{Value: v.NumberValue()}
	case jsonvalue.KindInt64:
		return &NumberValue{Value: float64(v.Int64Value())}
	case jsonvalue.KindString:
		return &StringValue{Value: v.StringValue()}
	case jsonvalue.KindArray:
		elems := v.ArrayElements()
		out := make([]Value, len(elems))
		for i, e := range elems {
			out[i] = FromJSON(e)
		}
		return &TupleValue{Elements: out}
	case jsonvalue.KindObject:
		obj := NewObjectValue()
		for _, k := range v.ObjectKeys() {
			obj.Set(k, FromJSON(v.ObjectGet(k)))
		}
		return obj
	default:
		return Void_
	}
}
