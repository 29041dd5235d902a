package values

import "testing"

func TestUnionCollapsesToSupertype(t *testing.T) {
	u := Union(Number(), Any())
	if u.Kind != KindAny {
		t.Errorf("union(number, any) = %s, want any", u)
	}
}

func TestNestedUnionFlattens(t *testing.T) {
	u := Union(Boolean(), Union(Number(), String()))
	if u.Kind != KindUnion || len(u.Members) != 3 {
		t.Fatalf("got %s, want a flat 3-member union", u)
	}
}

func TestListOfUnionWithAnyIsListOfAny(t *testing.T) {
	l := List(Union(Number(), Any()))
	if l.Elem.Kind != KindAny {
		t.Errorf("got %s, want list(any)", l)
	}
}

func TestOptionalAbsorbsVoid(t *testing.T) {
	o := Optional(Number())
	if o.Kind != KindNumber && o.Kind != KindUnion {
		t.Fatalf("unexpected kind for optional(number): %s", o)
	}
	if !Void().IsSubtype(o) {
		t.Errorf("void should be a subtype of optional(number)")
	}
	if !Number().IsSubtype(o) {
		t.Errorf("number should be a subtype of optional(number)")
	}
}

func TestTupleIsSubtypeOfHomogeneousList(t *testing.T) {
	tup := Tuple(Number(), Number())
	if !tup.IsSubtype(List(Number())) {
		t.Errorf("tuple([number,number]) should be a subtype of list(number)")
	}
	mixed := Tuple(Number(), String())
	if mixed.IsSubtype(List(Number())) {
		t.Errorf("tuple([number,string]) should not be a subtype of list(number)")
	}
}

func TestIsSubtypeReflexive(t *testing.T) {
	if !Color().IsSubtype(Color()) {
		t.Errorf("color should be a subtype of itself")
	}
}
