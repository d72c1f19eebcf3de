package ctypes

import (
	"math/rand/v2"
	"testing"
)

func newRand() *rand.Rand { return rand.New(rand.NewPCG(3, 4)) }

func TestHasChainingBit(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"scalar", &Scalar{Content: []byte{0}}, false},
		{"enum", &Enum{}, true},
		{"function_pointer", FunctionPointer{}, true},
		{"opaque_pointer", OpaquePointer{}, true},
		{"array", &Array{}, true},
		{"pointer", &Pointer{}, true},
		{"struct", &Struct{}, true},
		{"union", &Union{}, true},
		{"typedef_of_scalar", &Typedef{Inner: &Scalar{}}, false},
		{"typedef_of_enum", &Typedef{Inner: &Enum{}}, true},
		{"typedef_of_typedef_of_scalar", &Typedef{Inner: &Typedef{Inner: &Scalar{}}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.v.HasChainingBit(); got != tc.want {
				t.Errorf("HasChainingBit() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScalarMutateEmptyIsNoOp(t *testing.T) {
	s := &Scalar{}
	s.Mutate(nil, newRand())
	if len(s.Content) != 0 {
		t.Fatal("mutating an empty scalar grew its content")
	}
}

func TestEnumMutateRedrawsVariant(t *testing.T) {
	e := &Enum{Variant: 0}
	r := newRand()
	changed := false
	for i := 0; i < 50 && !changed; i++ {
		e.Mutate(nil, r)
		if e.Variant != 0 {
			changed = true
		}
	}
	if !changed {
		t.Fatal("enum variant never changed across 50 mutations")
	}
}

func TestArrayMutateNeverGrows(t *testing.T) {
	a := &Array{Elements: []Value{&Scalar{Content: []byte{1}}, &Scalar{Content: []byte{2}}}}
	r := newRand()
	for i := 0; i < 20; i++ {
		a.Mutate(map[string]Value{}, r)
	}
	if len(a.Elements) != 2 {
		t.Errorf("Array grew from 2 to %d elements", len(a.Elements))
	}
}

func TestPointerMaterializesOnFirstTouch(t *testing.T) {
	types := map[string]Value{"int": &Scalar{Content: []byte{0, 0, 0, 0}}}
	p := &Pointer{TargetTypeID: "int"}
	p.Mutate(types, newRand())
	if len(p.Elements) == 0 {
		t.Fatal("pointer did not materialize a target element")
	}
	if _, ok := p.Elements[0].(*Scalar); !ok {
		t.Errorf("materialized element has wrong type: %T", p.Elements[0])
	}
}

func TestPointerCanGrowAfterMaterialization(t *testing.T) {
	types := map[string]Value{"int": &Scalar{Content: []byte{0, 0, 0, 0}}}
	p := &Pointer{TargetTypeID: "int"}
	r := newRand()
	grew := false
	for i := 0; i < 200 && !grew; i++ {
		p.Mutate(types, r)
		if len(p.Elements) > 1 {
			grew = true
		}
	}
	if !grew {
		t.Fatal("pointer never grew past its materialized element across 200 mutations")
	}
}

func TestUnionMutateStaysWithinFieldCount(t *testing.T) {
	u := &Union{Fields: []Value{&Scalar{Content: []byte{1}}, &Enum{}, &Scalar{Content: []byte{2, 2}}}}
	r := newRand()
	for i := 0; i < 50; i++ {
		u.Mutate(map[string]Value{}, r)
		if u.Variant < 0 || u.Variant >= len(u.Fields) {
			t.Fatalf("union variant %d out of range for %d fields", u.Variant, len(u.Fields))
		}
	}
}

func TestStructMutateNeverReorders(t *testing.T) {
	s := &Struct{Fields: []Value{&Scalar{Content: []byte{1}}, &Enum{Variant: 99}}}
	orig := []Value{s.Fields[0].Clone(), s.Fields[1].Clone()}
	r := newRand()
	for i := 0; i < 20; i++ {
		s.Mutate(map[string]Value{}, r)
	}
	if len(s.Fields) != len(orig) {
		t.Fatalf("struct field count changed: %d vs %d", len(s.Fields), len(orig))
	}
	_, firstIsScalar := s.Fields[0].(*Scalar)
	_, secondIsEnum := s.Fields[1].(*Enum)
	if !firstIsScalar || !secondIsEnum {
		t.Errorf("struct fields reordered: got %T, %T, want *Scalar, *Enum", s.Fields[0], s.Fields[1])
	}
}

func TestTypedefDelegatesMutate(t *testing.T) {
	td := &Typedef{Inner: &Enum{Variant: 1}}
	r := newRand()
	changed := false
	for i := 0; i < 50 && !changed; i++ {
		td.Mutate(map[string]Value{}, r)
		if td.Inner.(*Enum).Variant != 1 {
			changed = true
		}
	}
	if !changed {
		t.Fatal("typedef mutation never reached inner value")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := &Struct{Fields: []Value{&Scalar{Content: []byte{1, 2, 3}}}}
	clone := orig.Clone().(*Struct)
	clone.Fields[0].(*Scalar).Content[0] = 99
	if orig.Fields[0].(*Scalar).Content[0] == 99 {
		t.Fatal("mutating clone affected original")
	}
}
