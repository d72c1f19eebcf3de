package fuzzrun

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/blockberries/autodrive/pkg/ctypes"
	"github.com/blockberries/autodrive/pkg/schema"
)

func intType() ctypes.Value { return &ctypes.Scalar{Content: make([]byte, 4)} }

// singleIntParamTables builds the S1 scenario: one function `void f(int)`,
// decision_bits_per_iteration = 1, no chaining region.
func singleIntParamTables() *schema.Tables {
	return &schema.Tables{
		Types: map[string]ctypes.Value{"int": intType(), "void": &ctypes.Scalar{}},
		Functions: []schema.Function{
			{Name: "f", ReturnType: &ctypes.Scalar{}, ParameterType: []ctypes.Value{intType()}},
		},
		DecisionBitsPerIteration: 1,
		ChainingVariablesSize:    0,
	}
}

func TestRoundTripEmptyRun(t *testing.T) {
	tables := singleIntParamTables()
	buf, err := Encode(tables, nil, true)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(buf) != 2 {
		t.Fatalf("encoded empty run has length %d, want 2", len(buf))
	}
	calls, err := Decode(tables, buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("decoded %d calls, want 0", len(calls))
	}
}

func TestRoundTripSingleScalarArgument(t *testing.T) {
	tables := singleIntParamTables()
	original := []*FunctionCall{
		{
			Function:        &tables.Functions[0],
			ChainReturnType: NotApplicable,
			Arguments:       []Argument{Basic{Scalar: &ctypes.Scalar{Content: []byte{1, 2, 3, 4}}}},
		},
	}
	buf, err := Encode(tables, original, true)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(tables, buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := diffCalls(original, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// S2: a function g(int*) with a resolved pointer pointee; verify the
// pointer length field round-trips across growth.
func TestRoundTripPointerGrowth(t *testing.T) {
	tables := &schema.Tables{
		Types: map[string]ctypes.Value{"int": intType()},
		Functions: []schema.Function{
			{
				Name:       "g",
				ReturnType: &ctypes.Scalar{},
				ParameterType: []ctypes.Value{
					&ctypes.Pointer{TargetTypeID: "int", Elements: []ctypes.Value{intType(), intType(), intType()}},
				},
			},
		},
		DecisionBitsPerIteration: 2, // 1 active bit + 1 chain-source bit
		ChainingVariablesSize:    0,
	}
	ptr := &ctypes.Pointer{TargetTypeID: "int", Elements: []ctypes.Value{
		&ctypes.Scalar{Content: []byte{9, 9, 9, 9}},
		&ctypes.Scalar{Content: []byte{1, 1, 1, 1}},
		&ctypes.Scalar{Content: []byte{2, 2, 2, 2}},
	}}
	original := []*FunctionCall{
		{Function: &tables.Functions[0], ChainReturnType: NotApplicable, Arguments: []Argument{FuzzInput{Value: ptr}}},
	}
	buf, err := Encode(tables, original, true)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(tables, buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := decoded[0].Arguments[0].(FuzzInput).Value.(*ctypes.Pointer)
	if len(got.Elements) != 3 {
		t.Fatalf("decoded pointer has %d elements, want 3", len(got.Elements))
	}
	if diff := diffCalls(original, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// S3: a nested struct containing a union of {char, int, double}; verify
// the variant byte width is 1 and variant transitions round-trip.
func TestRoundTripNestedUnion(t *testing.T) {
	newUnion := func(variant int) *ctypes.Union {
		return &ctypes.Union{Variant: variant, Fields: []ctypes.Value{
			&ctypes.Scalar{Content: []byte{0}},
			&ctypes.Scalar{Content: []byte{0, 0, 0, 0}},
			&ctypes.Scalar{Content: []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		}}
	}
	structType := func() ctypes.Value {
		return &ctypes.Struct{Fields: []ctypes.Value{newUnion(0)}}
	}
	tables := &schema.Tables{
		Types: map[string]ctypes.Value{},
		Functions: []schema.Function{
			{Name: "h", ReturnType: &ctypes.Scalar{}, ParameterType: []ctypes.Value{structType()}},
		},
		DecisionBitsPerIteration: 2,
		ChainingVariablesSize:    0,
	}
	for variant := 0; variant < 3; variant++ {
		s := &ctypes.Struct{Fields: []ctypes.Value{newUnion(variant)}}
		s.Fields[0].(*ctypes.Union).Fields[variant] = &ctypes.Scalar{Content: make([]byte, len(newUnion(variant).Fields[variant].(*ctypes.Scalar).Content))}
		original := []*FunctionCall{
			{Function: &tables.Functions[0], ChainReturnType: NotApplicable, Arguments: []Argument{FuzzInput{Value: s}}},
		}
		buf, err := Encode(tables, original, true)
		if err != nil {
			t.Fatalf("variant %d: Encode: %v", variant, err)
		}
		// 2-byte count, 1 decision byte, 1 variant byte, then the live field.
		liveLen := len(s.Fields[0].(*ctypes.Union).Fields[variant].(*ctypes.Scalar).Content)
		if want := 2 + 1 + 1 + liveLen; len(buf) != want {
			t.Errorf("variant %d: encoded length %d, want %d (1-byte variant index)", variant, len(buf), want)
		}
		decoded, err := Decode(tables, buf)
		if err != nil {
			t.Fatalf("variant %d: Decode: %v", variant, err)
		}
		got := decoded[0].Arguments[0].(FuzzInput).Value.(*ctypes.Struct).Fields[0].(*ctypes.Union)
		if got.Variant != variant {
			t.Errorf("decoded variant = %d, want %d", got.Variant, variant)
		}
	}
}

func TestDecodeBootstrapForShortBuffer(t *testing.T) {
	tables := &schema.Tables{ChainingVariablesSize: 4, DecisionBitsPerIteration: 1}
	boot := Bootstrap(tables)
	if len(boot) != BootstrapSize(tables) {
		t.Fatalf("Bootstrap length %d, want %d", len(boot), BootstrapSize(tables))
	}
	calls, err := Decode(tables, boot)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("decoded %d calls from bootstrap, want 0", len(calls))
	}
}

func diffCalls(a, b []*FunctionCall) string {
	return cmp.Diff(a, b)
}

// FuzzDecodeNeverPanics feeds arbitrary byte buffers to Decode against a
// fixed non-trivial schema. A malformed or truncated buffer must surface as
// an error, never a panic; a buffer Decode accepts must also survive an
// Encode/Decode round trip without panicking.
func FuzzDecodeNeverPanics(f *testing.F) {
	tables := &schema.Tables{
		Types: map[string]ctypes.Value{"int": intType()},
		Functions: []schema.Function{
			{Name: "f", ReturnType: &ctypes.Scalar{}, ParameterType: []ctypes.Value{intType()}},
			{Name: "g", ReturnType: &ctypes.Scalar{}, ParameterType: []ctypes.Value{
				&ctypes.Pointer{TargetTypeID: "int"},
			}},
		},
		DecisionBitsPerIteration: 3,
		ChainingVariablesSize:    2,
	}

	f.Add([]byte{})
	f.Add([]byte{0x00, 0x00})
	f.Add([]byte{0x01, 0x00, 0x00, 0x00, 0x00, 1, 2, 3, 4})
	f.Add([]byte{0xFF, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		calls, err := Decode(tables, data)
		if err != nil {
			return
		}
		reencoded, err := Encode(tables, calls, false)
		if err != nil {
			t.Fatalf("re-encoding a successfully decoded buffer failed: %v", err)
		}
		if _, err := Decode(tables, reencoded); err != nil {
			t.Fatalf("decoding a freshly re-encoded buffer failed: %v", err)
		}
	})
}
