// Package ctypes models the typed C value tree that a fuzz-run argument or
// return value is built from, and knows how to mutate any node in that tree
// in place.
package ctypes

import (
	"math/rand/v2"

	"github.com/blockberries/autodrive/pkg/bytemutate"
)

// Value is a node in the typed value tree. Every concrete type in this
// package implements it; the interface is sealed so that callers outside
// the package can only hold and forward values, never invent new variants.
type Value interface {
	isValue()

	// HasChainingBit reports whether the wire codec spends a chain-source
	// bit on values of this shape. Raw scalars never do; a typedef defers
	// to whatever it ultimately resolves to.
	HasChainingBit() bool

	// Mutate applies one structural or leaf edit to the value in place.
	// types is the resolved type table, needed to materialize an
	// unresolved pointer target on first touch.
	Mutate(types map[string]Value, r *rand.Rand)

	// Clone returns a deep copy, safe to mutate independently of the
	// receiver.
	Clone() Value
}

// Scalar is a fixed-size run of raw bytes: an int, a float, a char, any
// built-in type whose mutation bottoms out directly in bytemutate.
type Scalar struct {
	Content []byte
}

func (*Scalar) isValue() {}

func (s *Scalar) HasChainingBit() bool { return false }

func (s *Scalar) Clone() Value {
	return &Scalar{Content: append([]byte(nil), s.Content...)}
}

// Mutate dispatches to the primitive byte-level mutators in bytemutate. It
// is a no-op when Content is empty, matching a zero-width built-in type
// like void.
func (s *Scalar) Mutate(types map[string]Value, r *rand.Rand) {
	bytemutate.Mutate(s.Content, r)
}

// Enum carries a single 32-bit variant tag and nothing else.
type Enum struct {
	Variant uint32
}

func (*Enum) isValue() {}

func (*Enum) HasChainingBit() bool { return true }

func (e *Enum) Clone() Value { return &Enum{Variant: e.Variant} }

// Mutate redraws the variant uniformly across the full uint32 range; the
// schema does not constrain enums to their declared member set, matching
// how the source treats an enum as an opaque 32-bit tag.
func (e *Enum) Mutate(types map[string]Value, r *rand.Rand) {
	e.Variant = r.Uint32()
}

// FunctionPointer is a sentinel: the codec never reads or writes payload
// bytes for it. It does carry a chaining bit, so a parameter of this shape
// is either FuzzInput or Chained.
type FunctionPointer struct{}

func (FunctionPointer) isValue()                           {}
func (FunctionPointer) HasChainingBit() bool               { return true }
func (FunctionPointer) Mutate(map[string]Value, *rand.Rand) {}
func (FunctionPointer) Clone() Value                        { return FunctionPointer{} }

// OpaquePointer represents a pointer to a type the schema never describes.
// The codec never materializes bytes for it; a call argument of this shape
// is always PermanentlyChained rather than ever appearing as FuzzInput.
type OpaquePointer struct{}

func (OpaquePointer) isValue()                           {}
func (OpaquePointer) HasChainingBit() bool                { return true }
func (OpaquePointer) Mutate(map[string]Value, *rand.Rand) {}
func (OpaquePointer) Clone() Value                        { return OpaquePointer{} }
