// Package fuzzrun models a decoded fuzz run — the ordered list of function
// calls a harness iteration will execute — and implements the bit-exact
// wire codec and structural mutator that operate on it.
package fuzzrun

import (
	"github.com/blockberries/autodrive/pkg/ctypes"
	"github.com/blockberries/autodrive/pkg/schema"
)

// ChainReturn is the tri-state chaining decision for a call's return value:
// functions whose return type carries no chaining bit (scalars, typedefs
// of scalars) or is a function pointer, and so spends no chain-return
// decision bit, are NotApplicable; everything else is explicitly Store or
// Discard.
type ChainReturn int

const (
	NotApplicable ChainReturn = iota
	Store
	Discard
)

// Argument is one call's materialized parameter. The four concrete types
// below are the only implementations; the interface is sealed so callers
// can only inspect and forward an Argument, never invent a fifth kind.
type Argument interface {
	isArgument()
}

// Basic carries inline fuzz bytes for a scalar parameter.
type Basic struct {
	Scalar *ctypes.Scalar
}

func (Basic) isArgument() {}

// FuzzInput carries a full typed value materialized from the fuzz-input
// payload for a non-scalar, non-chained parameter.
type FuzzInput struct {
	Value ctypes.Value
}

func (FuzzInput) isArgument() {}

// Chained means the harness pulls this argument from a chaining slot at
// run time rather than from the fuzz-input payload.
type Chained struct{}

func (Chained) isArgument() {}

// PermanentlyChained is the opaque-pointer case: this parameter is always
// sourced from the chain and never carries a FuzzInput alternative.
type PermanentlyChained struct{}

func (PermanentlyChained) isArgument() {}

// FunctionCall is one harness-iteration invocation: a reference to the
// function being called, the return-chaining decision, and one Argument
// per declared parameter in order.
type FunctionCall struct {
	Function        *schema.Function
	ChainReturnType ChainReturn
	Arguments       []Argument
}

// Clone returns a deep copy of the call, safe to mutate independently of
// the receiver. The Function pointer itself is shared: it names a stable
// entry in the immutable function table, never mutated in place.
func (c *FunctionCall) Clone() *FunctionCall {
	out := &FunctionCall{
		Function:        c.Function,
		ChainReturnType: c.ChainReturnType,
		Arguments:       make([]Argument, len(c.Arguments)),
	}
	for i, a := range c.Arguments {
		out.Arguments[i] = cloneArgument(a)
	}
	return out
}

func cloneArgument(a Argument) Argument {
	switch v := a.(type) {
	case Basic:
		return Basic{Scalar: v.Scalar.Clone().(*ctypes.Scalar)}
	case FuzzInput:
		return FuzzInput{Value: v.Value.Clone()}
	case Chained:
		return Chained{}
	case PermanentlyChained:
		return PermanentlyChained{}
	default:
		panic("fuzzrun: unknown argument variant")
	}
}
