package fuzzrun

import (
	"fmt"

	"github.com/blockberries/autodrive/internal/wire"
	"github.com/blockberries/autodrive/pkg/ctypes"
	"github.com/blockberries/autodrive/pkg/schema"
)

// BootstrapSize is the length of the canonical zero-iteration encoding:
// a zero iteration count plus the chaining region, and nothing else.
func BootstrapSize(tables *schema.Tables) int {
	return wire.Fixed16Size + tables.ChainingVariablesSize
}

// Bootstrap returns the canonical zero-iteration encoding used whenever
// the host hands the mutator a buffer too small to plausibly hold a real
// run (spec §4.4 "Empty-buffer bootstrap").
func Bootstrap(tables *schema.Tables) []byte {
	out := make([]byte, 0, BootstrapSize(tables))
	out = wire.AppendFixed16(out, 0)
	out = append(out, make([]byte, tables.ChainingVariablesSize)...)
	return out
}

// Encode serializes calls into the wire layout described in spec §4.4:
// iteration count, decision bitfield, zeroed chaining region, then the
// concatenated fuzz-input payload. assertDecisionBits, when true, checks
// that the emitted decision-bit count matches the schema's declared
// per-iteration width exactly and panics via EncodingAssertionViolation
// if not — the debug-build-only check from spec §7.
func Encode(tables *schema.Tables, calls []*FunctionCall, assertDecisionBits bool) ([]byte, error) {
	iterationCount := len(calls)
	if iterationCount > 0xFFFF {
		return nil, fmt.Errorf("fuzzrun: %d iterations exceeds the 16-bit iteration count field", iterationCount)
	}

	var decisions []bool
	for _, call := range calls {
		bits, err := encodeDecisionBits(tables, call)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, bits...)
	}

	want := iterationCount * tables.DecisionBitsPerIteration
	if assertDecisionBits && len(decisions) != want {
		panic(&EncodingAssertionViolation{
			Op:      "Encode",
			Message: fmt.Sprintf("produced %d decision bits, want %d", len(decisions), want),
		})
	}

	out := GetScratch(wire.Fixed16Size + wire.DecisionBytes(len(decisions)) + tables.ChainingVariablesSize)
	out = wire.AppendFixed16(out, uint16(iterationCount))
	out = append(out, wire.PackDecisionBits(decisions)...)
	out = append(out, make([]byte, tables.ChainingVariablesSize)...)

	for _, call := range calls {
		for _, arg := range call.Arguments {
			switch a := arg.(type) {
			case Basic:
				out = append(out, a.Scalar.Content...)
			case FuzzInput:
				out = encodeValue(out, a.Value)
			case Chained, PermanentlyChained:
				// no payload bytes
			}
		}
	}
	return out, nil
}

// encodeDecisionBits produces the fixed-width run of decision bits one
// schema function contributes for this iteration: whether call matches it
// (is-active), its return-chaining bit if applicable, and one chain-source
// bit per chaining-eligible parameter.
func encodeDecisionBits(tables *schema.Tables, call *FunctionCall) ([]bool, error) {
	var bits []bool
	for _, fn := range tables.Functions {
		matches := call.Function.Name == fn.Name
		bits = append(bits, matches)

		if fn.ReturnType.HasChainingBit() {
			if _, isFn := fn.ReturnType.(ctypes.FunctionPointer); !isFn {
				bits = append(bits, matches && call.ChainReturnType == Store)
			}
		}

		for i, param := range fn.ParameterType {
			if _, opaque := param.(ctypes.OpaquePointer); opaque {
				continue
			}
			if !param.HasChainingBit() {
				continue
			}
			if !matches {
				bits = append(bits, false)
				continue
			}
			switch call.Arguments[i].(type) {
			case FuzzInput:
				bits = append(bits, false)
			case Chained:
				bits = append(bits, true)
			default:
				return nil, fmt.Errorf("fuzzrun: argument %d of %q has a chaining bit but is neither FuzzInput nor Chained", i, fn.Name)
			}
		}
	}
	return bits, nil
}

// encodeValue appends t's payload bytes to buf per the per-Type encoding
// table in spec §4.4.
func encodeValue(buf []byte, t ctypes.Value) []byte {
	switch v := t.(type) {
	case *ctypes.Scalar:
		return append(buf, v.Content...)
	case *ctypes.Enum:
		return wire.AppendFixed32(buf, v.Variant)
	case *ctypes.Array:
		for _, e := range v.Elements {
			buf = encodeValue(buf, e)
		}
		return buf
	case *ctypes.Pointer:
		buf = wire.AppendFixed16(buf, uint16(len(v.Elements)))
		for _, e := range v.Elements {
			buf = encodeValue(buf, e)
		}
		return buf
	case *ctypes.Struct:
		for _, f := range v.Fields {
			buf = encodeValue(buf, f)
		}
		return buf
	case *ctypes.Union:
		width := wire.VariantWidth(len(v.Fields))
		buf = wire.AppendVariant(buf, uint64(v.Variant), width)
		return encodeValue(buf, v.Fields[v.Variant])
	case *ctypes.Typedef:
		return encodeValue(buf, v.Inner)
	case ctypes.FunctionPointer, ctypes.OpaquePointer:
		return buf
	default:
		panic(fmt.Sprintf("fuzzrun: encodeValue: unknown value variant %T", t))
	}
}

// Decode parses buf into a call list per spec §4.4. tables.Types supplies
// the element shape for a pointer whose template is an unresolved shell:
// each of the pointer's encoded elements is decoded against the named
// target type. A pointer whose encoded length is zero decodes to an empty
// element list, as an unresolved shell.
func Decode(tables *schema.Tables, buf []byte) ([]*FunctionCall, error) {
	d := &decoder{data: buf}

	iterationCount, err := d.fixed16()
	if err != nil {
		return nil, fmt.Errorf("fuzzrun: decode iteration count: %w", err)
	}

	decisionBitsTotal := int(iterationCount) * tables.DecisionBitsPerIteration
	decisionBytes := wire.DecisionBytes(decisionBitsTotal)
	rawDecisions, err := d.take(decisionBytes)
	if err != nil {
		return nil, fmt.Errorf("fuzzrun: decode decision bitfield: %w", err)
	}
	decisions := wire.UnpackDecisionBits(rawDecisions, decisionBitsTotal)

	if _, err := d.take(tables.ChainingVariablesSize); err != nil {
		return nil, fmt.Errorf("fuzzrun: decode chaining region: %w", err)
	}

	calls := make([]*FunctionCall, 0, iterationCount)
	bitPos := 0
	for iter := 0; iter < int(iterationCount); iter++ {
		call, err := decodeIteration(tables, decisions, &bitPos, d)
		if err != nil {
			return nil, err
		}
		if call != nil {
			calls = append(calls, call)
		}
	}
	return calls, nil
}

func decodeIteration(tables *schema.Tables, decisions []bool, bitPos *int, d *decoder) (*FunctionCall, error) {
	nextBit := func() bool {
		b := decisions[*bitPos]
		*bitPos++
		return b
	}

	var matched *schema.Function
	var chainReturn ChainReturn
	var arguments []Argument

	for i := range tables.Functions {
		fn := &tables.Functions[i]
		active := nextBit()

		chainReturnBit := false
		hasChainReturnBit := false
		if fn.ReturnType.HasChainingBit() {
			if _, isFn := fn.ReturnType.(ctypes.FunctionPointer); !isFn {
				chainReturnBit = nextBit()
				hasChainReturnBit = true
			}
		}

		args := make([]Argument, 0, len(fn.ParameterType))
		for pi, param := range fn.ParameterType {
			switch {
			case isOpaque(param):
				args = append(args, PermanentlyChained{})

			case !param.HasChainingBit():
				if active {
					s, err := decodeValue(param, tables.Types, d)
					if err != nil {
						return nil, fmt.Errorf("fuzzrun: decode %q param %d: %w", fn.Name, pi, err)
					}
					scalar, ok := s.(*ctypes.Scalar)
					if !ok {
						return nil, fmt.Errorf("fuzzrun: %q param %d has no chaining bit but is not a scalar", fn.Name, pi)
					}
					args = append(args, Basic{Scalar: scalar})
				}

			default:
				chainingActive := nextBit()
				if active {
					if chainingActive {
						args = append(args, Chained{})
					} else {
						v, err := decodeValue(param, tables.Types, d)
						if err != nil {
							return nil, fmt.Errorf("fuzzrun: decode %q param %d: %w", fn.Name, pi, err)
						}
						args = append(args, FuzzInput{Value: v})
					}
				}
			}
		}

		if active {
			matched = fn
			arguments = args
			if hasChainReturnBit {
				if chainReturnBit {
					chainReturn = Store
				} else {
					chainReturn = Discard
				}
			} else {
				chainReturn = NotApplicable
			}
		}
	}

	if matched == nil {
		return nil, nil
	}
	return &FunctionCall{Function: matched, ChainReturnType: chainReturn, Arguments: arguments}, nil
}

func isOpaque(v ctypes.Value) bool {
	_, ok := v.(ctypes.OpaquePointer)
	return ok
}

// decodeValue decodes a value shaped like template, consuming bytes from
// d. template supplies the structural shape (field count, array length,
// candidate union fields, pointer target id) the decoder walks; the
// decoded value is a fresh tree, never an alias of template.
func decodeValue(template ctypes.Value, types map[string]ctypes.Value, d *decoder) (ctypes.Value, error) {
	switch t := template.(type) {
	case *ctypes.Scalar:
		content, err := d.take(len(t.Content))
		if err != nil {
			return nil, err
		}
		return &ctypes.Scalar{Content: append([]byte(nil), content...)}, nil

	case *ctypes.Enum:
		v, err := d.fixed32()
		if err != nil {
			return nil, err
		}
		return &ctypes.Enum{Variant: v}, nil

	case *ctypes.Array:
		out := &ctypes.Array{Elements: make([]ctypes.Value, len(t.Elements))}
		for i, elemTemplate := range t.Elements {
			v, err := decodeValue(elemTemplate, types, d)
			if err != nil {
				return nil, err
			}
			out.Elements[i] = v
		}
		return out, nil

	case *ctypes.Pointer:
		length, err := d.fixed16()
		if err != nil {
			return nil, err
		}
		elemTemplate := t.Elements
		var single ctypes.Value
		if len(elemTemplate) > 0 {
			single = elemTemplate[0]
		} else {
			single = types[t.TargetTypeID]
		}
		out := &ctypes.Pointer{TargetTypeID: t.TargetTypeID, Elements: make([]ctypes.Value, length)}
		for i := 0; i < int(length); i++ {
			v, err := decodeValue(single, types, d)
			if err != nil {
				return nil, err
			}
			out.Elements[i] = v
		}
		return out, nil

	case *ctypes.Struct:
		out := &ctypes.Struct{Fields: make([]ctypes.Value, len(t.Fields))}
		for i, fieldTemplate := range t.Fields {
			v, err := decodeValue(fieldTemplate, types, d)
			if err != nil {
				return nil, err
			}
			out.Fields[i] = v
		}
		return out, nil

	case *ctypes.Union:
		width := wire.VariantWidth(len(t.Fields))
		variant, err := d.variant(width)
		if err != nil {
			return nil, err
		}
		if int(variant) >= len(t.Fields) {
			return nil, fmt.Errorf("union variant %d out of range for %d fields", variant, len(t.Fields))
		}
		out := &ctypes.Union{Variant: int(variant), Fields: make([]ctypes.Value, len(t.Fields))}
		for i, f := range t.Fields {
			out.Fields[i] = f.Clone()
		}
		v, err := decodeValue(t.Fields[variant], types, d)
		if err != nil {
			return nil, err
		}
		out.Fields[variant] = v
		return out, nil

	case *ctypes.Typedef:
		inner, err := decodeValue(t.Inner, types, d)
		if err != nil {
			return nil, err
		}
		return &ctypes.Typedef{Inner: inner}, nil

	case ctypes.FunctionPointer:
		return ctypes.FunctionPointer{}, nil

	case ctypes.OpaquePointer:
		return ctypes.OpaquePointer{}, nil

	default:
		return nil, fmt.Errorf("fuzzrun: decodeValue: unknown template variant %T", template)
	}
}

// decoder walks a byte slice front to back, tracking position.
type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) take(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if d.pos+n > len(d.data) {
		return nil, wire.ErrTruncated
	}
	out := d.data[d.pos : d.pos+n]
	d.pos += n
	return out, nil
}

func (d *decoder) fixed16() (uint16, error) {
	b, err := d.take(wire.Fixed16Size)
	if err != nil {
		return 0, err
	}
	return wire.DecodeFixed16(b)
}

func (d *decoder) fixed32() (uint32, error) {
	b, err := d.take(wire.Fixed32Size)
	if err != nil {
		return 0, err
	}
	return wire.DecodeFixed32(b)
}

func (d *decoder) variant(width int) (uint64, error) {
	b, err := d.take(width)
	if err != nil {
		return 0, err
	}
	return wire.DecodeVariant(b, width)
}
