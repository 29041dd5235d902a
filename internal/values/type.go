// Package values holds the runtime value taxonomy (one struct per
// variant, implementing a shared Value interface) and the structural
// ValueType lattice used by the static inferencer and the evaluator's
// conversion rules.
package values

import (
	"sort"
	"strings"
)

// Kind names a leaf or composite shape in the ValueType lattice.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBoolean
	KindVector
	KindSize
	KindColor
	KindRotation
	KindRadians
	KindHalfturns
	KindRange
	KindPath
	KindPolygon
	KindPoint
	KindMesh
	KindTexture
	KindMaterial
	KindFont
	KindBounds
	KindVoid
	KindTuple
	KindList
	KindObject
	KindAnyObject
	KindUnion
	KindAny
)

var kindNames = map[Kind]string{
	KindNumber: "number", KindString: "string", KindBoolean: "boolean",
	KindVector: "vector", KindSize: "size", KindColor: "color",
	KindRotation: "rotation", KindRadians: "radians", KindHalfturns: "halfturns",
	KindRange: "range", KindPath: "path", KindPolygon: "polygon", KindPoint: "point",
	KindMesh: "mesh", KindTexture: "texture", KindMaterial: "material", KindFont: "font",
	KindBounds: "bounds", KindVoid: "void", KindTuple: "tuple", KindList: "list",
	KindObject: "object", KindAnyObject: "anyObject", KindUnion: "union", KindAny: "any",
}

// ValueType is a node in the structural type lattice (spec.md §3.4).
// Only the fields relevant to Kind are meaningful: Elem for list/
// optional-as-union, Components for tuple, ObjectValue for object,
// Members for union.
type ValueType struct {
	Kind        Kind
	Elem        *ValueType
	Components  []ValueType
	ObjectValue *ValueType
	Members     []ValueType
}

func leaf(k Kind) ValueType { return ValueType{Kind: k} }

func Number() ValueType    { return leaf(KindNumber) }
func String() ValueType    { return leaf(KindString) }
func Boolean() ValueType   { return leaf(KindBoolean) }
func Vector() ValueType    { return leaf(KindVector) }
func Size() ValueType      { return leaf(KindSize) }
func Color() ValueType     { return leaf(KindColor) }
func Rotation() ValueType  { return leaf(KindRotation) }
func Radians() ValueType   { return leaf(KindRadians) }
func Halfturns() ValueType { return leaf(KindHalfturns) }
func Range() ValueType     { return leaf(KindRange) }
func Path() ValueType      { return leaf(KindPath) }
func Polygon() ValueType   { return leaf(KindPolygon) }
func Point() ValueType     { return leaf(KindPoint) }
func Mesh() ValueType      { return leaf(KindMesh) }
func Texture() ValueType   { return leaf(KindTexture) }
func Material() ValueType  { return leaf(KindMaterial) }
func Font() ValueType      { return leaf(KindFont) }
func Bounds() ValueType    { return leaf(KindBounds) }
func Void() ValueType      { return leaf(KindVoid) }
func Any() ValueType       { return leaf(KindAny) }
func AnyObject() ValueType { return leaf(KindAnyObject) }

// NumberOrVector is the alias spec.md §3.4 names as used pervasively
// by arithmetic and geometry parameters.
func NumberOrVector() ValueType { return Union(Number(), Vector()) }

func List(elem ValueType) ValueType {
	e := elem
	return ValueType{Kind: KindList, Elem: &e}
}

func Tuple(components ...ValueType) ValueType {
	return ValueType{Kind: KindTuple, Components: components}
}

func Object(value ValueType) ValueType {
	v := value
	return ValueType{Kind: KindObject, ObjectValue: &v}
}

// Optional is sugar for union([T, void]) (spec.md §3.4).
func Optional(t ValueType) ValueType {
	return Union(t, Void())
}

// Union builds a flattened, simplified union of the given members.
func Union(members ...ValueType) ValueType {
	return ValueType{Kind: KindUnion, Members: members}.Simplified()
}

// Simplified applies spec.md §3.4's lattice invariants: unions
// flatten, a member that is a supertype of another absorbs it, a
// union containing `any` collapses to `any`, and list, tuple, and
// object types simplify their element types component-wise.
func (t ValueType) Simplified() ValueType {
	switch t.Kind {
	case KindList:
		elem := t.Elem.Simplified()
		return List(elem)
	case KindTuple:
		comps := make([]ValueType, len(t.Components))
		for i, c := range t.Components {
			comps[i] = c.Simplified()
		}
		return Tuple(comps...)
	case KindObject:
		v := t.ObjectValue.Simplified()
		return Object(v)
	case KindUnion:
		var flat []ValueType
		flatten(t.Members, &flat)
		for _, m := range flat {
			if m.Kind == KindAny {
				return Any()
			}
		}
		deduped := dedupeBySubtype(flat)
		if len(deduped) == 1 {
			return deduped[0]
		}
		return ValueType{Kind: KindUnion, Members: deduped}
	default:
		return t
	}
}

func flatten(members []ValueType, out *[]ValueType) {
	for _, m := range members {
		ms := m.Simplified()
		if ms.Kind == KindUnion {
			flatten(ms.Members, out)
		} else {
			*out = append(*out, ms)
		}
	}
}

// dedupeBySubtype drops any member that is a subtype of another
// member already kept (so union([number, any]) => [any], and
// union([b, union([n,s])]) flattens+dedupes to [b, n, s] in some
// stable order).
func dedupeBySubtype(members []ValueType) []ValueType {
	var kept []ValueType
	for _, m := range members {
		absorbed := false
		for _, k := range kept {
			if m.IsSubtype(k) {
				absorbed = true
				break
			}
		}
		if absorbed {
			continue
		}
		filtered := kept[:0]
		for _, k := range kept {
			if !k.IsSubtype(m) {
				filtered = append(filtered, k)
			}
		}
		kept = append(filtered, m)
	}
	return kept
}

// IsSubtype reports whether t <: other under spec.md §3.4's rules:
// reflexive, any is top, optional(T) ≡ union([T,void]), list/tuple
// are covariant in their element types.
func (t ValueType) IsSubtype(other ValueType) bool {
	if other.Kind == KindAny {
		return true
	}
	if other.Kind == KindUnion {
		for _, m := range other.Members {
			if t.IsSubtype(m) {
				return true
			}
		}
		return false
	}
	if t.Kind == KindUnion {
		for _, m := range t.Members {
			if !m.IsSubtype(other) {
				return false
			}
		}
		return len(t.Members) > 0
	}
	switch t.Kind {
	case KindList:
		return other.Kind == KindList && t.Elem.IsSubtype(*other.Elem)
	case KindTuple:
		if other.Kind == KindList {
			for _, c := range t.Components {
				if !c.IsSubtype(*other.Elem) {
					return false
				}
			}
			return true
		}
		if other.Kind != KindTuple || len(t.Components) != len(other.Components) {
			return false
		}
		for i, c := range t.Components {
			if !c.IsSubtype(other.Components[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if other.Kind == KindAnyObject {
			return true
		}
		return other.Kind == KindObject && t.ObjectValue.IsSubtype(*other.ObjectValue)
	case KindAnyObject:
		return other.Kind == KindAnyObject
	default:
		return t.Kind == other.Kind
	}
}

// FunctionType is the memoized signature of a user-defined function
// (spec.md §4.5): one ValueType per positional parameter, computed by
// a constraint walk of the function body, plus the return type
// inferred from the values its body produces.
type FunctionType struct {
	ParameterTypes []ValueType
	ReturnType     ValueType
}

func (f *FunctionType) String() string {
	parts := make([]string, len(f.ParameterTypes))
	for i, p := range f.ParameterTypes {
		parts[i] = p.String()
	}
	return "function((" + strings.Join(parts, ", ") + ") -> " + f.ReturnType.String() + ")"
}

// BlockType is the memoized signature of a user-defined block: the
// declared type of each of its options, the inferred element type of
// the values it accumulates as children, and its return type.
type BlockType struct {
	ChildType  ValueType
	Options    map[string]ValueType
	ReturnType ValueType
}

func (b *BlockType) String() string {
	return "block(children: " + b.ChildType.String() + " -> " + b.ReturnType.String() + ")"
}

// String renders the type the way error messages quote it, e.g.
// "union([number, vector])", "list(path)", "tuple([number, color])".
func (t ValueType) String() string {
	switch t.Kind {
	case KindList:
		return "list(" + t.Elem.String() + ")"
	case KindTuple:
		parts := make([]string, len(t.Components))
		for i, c := range t.Components {
			parts[i] = c.String()
		}
		return "tuple([" + strings.Join(parts, ", ") + "])"
	case KindObject:
		return "object(map<string," + t.ObjectValue.String() + ">)"
	case KindUnion:
		names := make([]string, len(t.Members))
		for i, m := range t.Members {
			names[i] = m.String()
		}
		sort.Strings(names)
		return "union([" + strings.Join(names, ", ") + "])"
	default:
		return kindNames[t.Kind]
	}
}
