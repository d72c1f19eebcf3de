package fuzzrun

import (
	"math/rand/v2"

	"github.com/blockberries/autodrive/pkg/ctypes"
	"github.com/blockberries/autodrive/pkg/schema"
)

// Mutate applies one structural edit to calls, chosen with equal
// probability between adding a call, removing a call, and mutating an
// existing call (spec §4.5). It returns the possibly-reallocated slice;
// callers must use the returned value.
func Mutate(tables *schema.Tables, calls []*FunctionCall, r *rand.Rand) []*FunctionCall {
	switch r.IntN(3) {
	case 0:
		return addCall(tables, calls, r)
	case 1:
		return removeCall(calls, r)
	default:
		mutateCall(tables, calls, r)
		return calls
	}
}

// addCall picks a function uniformly from the schema and appends a freshly
// built call for it: Basic for scalar parameters, PermanentlyChained for
// opaque ones, FuzzInput(clone) for everything else.
func addCall(tables *schema.Tables, calls []*FunctionCall, r *rand.Rand) []*FunctionCall {
	if len(tables.Functions) == 0 {
		return calls
	}
	fn := &tables.Functions[r.IntN(len(tables.Functions))]

	arguments := make([]Argument, len(fn.ParameterType))
	for i, param := range fn.ParameterType {
		switch {
		case isOpaque(param):
			arguments[i] = PermanentlyChained{}
		case param.HasChainingBit():
			arguments[i] = FuzzInput{Value: param.Clone()}
		default:
			arguments[i] = Basic{Scalar: param.Clone().(*ctypes.Scalar)}
		}
	}

	chainReturn := NotApplicable
	if _, isFn := fn.ReturnType.(ctypes.FunctionPointer); fn.ReturnType.HasChainingBit() && !isFn {
		chainReturn = Discard
	}

	return append(calls, &FunctionCall{
		Function:        fn,
		ChainReturnType: chainReturn,
		Arguments:       arguments,
	})
}

// removeCall deletes one uniformly chosen call. It is a no-op on an empty
// list.
func removeCall(calls []*FunctionCall, r *rand.Rand) []*FunctionCall {
	if len(calls) == 0 {
		return calls
	}
	i := r.IntN(len(calls))
	return append(calls[:i], calls[i+1:]...)
}

// mutateCall picks one call uniformly, always re-randomizes its
// return-chaining decision when the return type has one, and always picks
// one argument to edit; only the choice between changing the argument's
// source and mutating it in place is the coin flip. It is a no-op on an
// empty list.
func mutateCall(tables *schema.Tables, calls []*FunctionCall, r *rand.Rand) {
	if len(calls) == 0 {
		return
	}
	call := calls[r.IntN(len(calls))]

	if call.ChainReturnType != NotApplicable {
		if r.IntN(2) == 0 {
			call.ChainReturnType = Store
		} else {
			call.ChainReturnType = Discard
		}
	}

	if len(call.Arguments) == 0 {
		return
	}
	i := r.IntN(len(call.Arguments))
	switch r.IntN(2) {
	case 0:
		call.Arguments[i] = changeArgumentSource(call.Arguments[i])
	default:
		mutateArgumentInPlace(call.Arguments[i], tables.Types, r)
	}
}

// changeArgumentSource converts a FuzzInput argument whose type is an
// Array, Pointer, or FunctionPointer into Chained. Every other argument
// is left untouched: this is a one-way transition, documented in spec §4.5
// as a deliberate asymmetry carried over from the source implementation.
func changeArgumentSource(a Argument) Argument {
	fi, ok := a.(FuzzInput)
	if !ok {
		return a
	}
	switch fi.Value.(type) {
	case *ctypes.Array, *ctypes.Pointer, ctypes.FunctionPointer:
		return Chained{}
	default:
		return a
	}
}

// mutateArgumentInPlace dispatches Basic to the scalar byte-mutator and
// FuzzInput to the typed-value mutator; Chained and PermanentlyChained
// have nothing to mutate.
func mutateArgumentInPlace(a Argument, types map[string]ctypes.Value, r *rand.Rand) {
	switch v := a.(type) {
	case Basic:
		v.Scalar.Mutate(types, r)
	case FuzzInput:
		v.Value.Mutate(types, r)
	case Chained, PermanentlyChained:
		// no-op
	}
}
