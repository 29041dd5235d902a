package jsonvalue

import "github.com/tidwall/gjson"

// Parse decodes text into a jsonvalue.Value tree using gjson rather
// than encoding/json, so object key order is read straight off the
// source text (gjson.Result.Map iteration still loses order, so we
// walk ForEach instead to preserve insertion order for KindObject).
func Parse(text string) (*Value, bool) {
	if !gjson.Valid(text) {
		return nil, false
	}
	return fromResult(gjson.Parse(text)), true
}

func fromResult(r gjson.Result) *Value {
	switch r.Type {
	case gjson.Null:
		return NewNull()
	case gjson.False:
		return NewBoolean(false)
	case gjson.True:
		return NewBoolean(true)
	case gjson.Number:
		return NewNumber(r.Num)
	case gjson.String:
		return NewString(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			out := NewArray()
			r.ForEach(func(_, val gjson.Result) bool {
				out.ArrayAppend(fromResult(val))
				return true
			})
			return out
		}
		out := NewObject()
		r.ForEach(func(key, val gjson.Result) bool {
			out.ObjectSet(key.String(), fromResult(val))
			return true
		})
		return out
	default:
		return NewUndefined()
	}
}
