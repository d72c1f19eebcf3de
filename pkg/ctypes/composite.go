package ctypes

import "math/rand/v2"

// addElement appends a clone of a uniformly chosen existing element. It is
// a no-op on an empty slice.
func addElement(elems *[]Value, r *rand.Rand) {
	if len(*elems) == 0 {
		return
	}
	pick := (*elems)[r.IntN(len(*elems))]
	*elems = append(*elems, pick.Clone())
}

// swapElements exchanges two uniformly chosen (possibly identical) indices.
// It is a no-op on an empty slice.
func swapElements(elems []Value, r *rand.Rand) {
	if len(elems) == 0 {
		return
	}
	i, j := r.IntN(len(elems)), r.IntN(len(elems))
	elems[i], elems[j] = elems[j], elems[i]
}

// mutateElement mutates one uniformly chosen element in place. It is a
// no-op on an empty slice.
func mutateElement(elems []Value, types map[string]Value, r *rand.Rand) {
	if len(elems) == 0 {
		return
	}
	elems[r.IntN(len(elems))].Mutate(types, r)
}

// Array is a homogeneous fixed-shape run of element values. Unlike Pointer,
// its element count never grows under mutation: only reordering and
// in-place element mutation are offered.
type Array struct {
	Elements []Value
}

func (*Array) isValue()            {}
func (*Array) HasChainingBit() bool { return true }

func (a *Array) Clone() Value {
	out := &Array{Elements: make([]Value, len(a.Elements))}
	for i, e := range a.Elements {
		out.Elements[i] = e.Clone()
	}
	return out
}

func (a *Array) Mutate(types map[string]Value, r *rand.Rand) {
	switch r.IntN(2) {
	case 0:
		swapElements(a.Elements, r)
	default:
		mutateElement(a.Elements, types, r)
	}
}

// Pointer targets a single element, materialized lazily: until first
// mutation it carries only TargetTypeID and an empty Elements slice. The
// first Mutate call instantiates one element by cloning the named type out
// of the resolved type table, after which growth, reordering, and in-place
// mutation are all available, mirroring a pointer that can be treated as an
// array by further mutation.
type Pointer struct {
	TargetTypeID string
	Elements     []Value
}

func (*Pointer) isValue()            {}
func (*Pointer) HasChainingBit() bool { return true }

func (p *Pointer) Clone() Value {
	out := &Pointer{TargetTypeID: p.TargetTypeID, Elements: make([]Value, len(p.Elements))}
	for i, e := range p.Elements {
		out.Elements[i] = e.Clone()
	}
	return out
}

func (p *Pointer) Mutate(types map[string]Value, r *rand.Rand) {
	if len(p.Elements) == 0 {
		p.Elements = append(p.Elements, types[p.TargetTypeID].Clone())
	}
	switch r.IntN(3) {
	case 0:
		addElement(&p.Elements, r)
	case 1:
		swapElements(p.Elements, r)
	default:
		mutateElement(p.Elements, types, r)
	}
}

// Struct is an ordered, fixed-length tuple of field values. Fields are
// never added, removed, or reordered; only in-place field mutation is
// offered.
type Struct struct {
	Fields []Value
}

func (*Struct) isValue()            {}
func (*Struct) HasChainingBit() bool { return true }

func (s *Struct) Clone() Value {
	out := &Struct{Fields: make([]Value, len(s.Fields))}
	for i, f := range s.Fields {
		out.Fields[i] = f.Clone()
	}
	return out
}

func (s *Struct) Mutate(types map[string]Value, r *rand.Rand) {
	mutateElement(s.Fields, types, r)
}

// Union holds exactly one active field at a time, selected by Variant; the
// inactive fields are preserved across mutation so that a later variant
// switch can revisit them unchanged.
type Union struct {
	Variant int
	Fields  []Value
}

func (*Union) isValue()            {}
func (*Union) HasChainingBit() bool { return true }

func (u *Union) Clone() Value {
	out := &Union{Variant: u.Variant, Fields: make([]Value, len(u.Fields))}
	for i, f := range u.Fields {
		out.Fields[i] = f.Clone()
	}
	return out
}

func (u *Union) Mutate(types map[string]Value, r *rand.Rand) {
	switch r.IntN(2) {
	case 0:
		u.Variant = r.IntN(len(u.Fields))
	default:
		u.Fields[u.Variant].Mutate(types, r)
	}
}

// Typedef is a transparent alias: every operation delegates to Inner.
type Typedef struct {
	Inner Value
}

func (*Typedef) isValue()            {}
func (t *Typedef) HasChainingBit() bool { return t.Inner.HasChainingBit() }

func (t *Typedef) Clone() Value { return &Typedef{Inner: t.Inner.Clone()} }

func (t *Typedef) Mutate(types map[string]Value, r *rand.Rand) {
	t.Inner.Mutate(types, r)
}
