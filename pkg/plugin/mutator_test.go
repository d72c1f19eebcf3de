package plugin

import (
	"bytes"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/blockberries/autodrive/pkg/ctypes"
	"github.com/blockberries/autodrive/pkg/fuzzrun"
	"github.com/blockberries/autodrive/pkg/schema"
)

func testTables() *schema.Tables {
	return &schema.Tables{
		Types: map[string]ctypes.Value{"int": &ctypes.Scalar{Content: make([]byte, 4)}},
		Functions: []schema.Function{
			{Name: "f", ReturnType: &ctypes.Scalar{}, ParameterType: []ctypes.Value{&ctypes.Scalar{Content: make([]byte, 4)}}},
		},
		DecisionBitsPerIteration: 1,
		ChainingVariablesSize:    0,
	}
}

func newTestMutator(opts Options) *Mutator {
	return &Mutator{
		tables: testTables(),
		rng:    rand.New(rand.NewPCG(1, 1)),
		opts:   opts,
		out:    fuzzrun.GetScratch(256),
	}
}

func TestFuzzOnShortBufferReturnsBootstrap(t *testing.T) {
	m := newTestMutator(DefaultOptions())
	out, err := m.Fuzz([]byte{0x01}, nil, 1<<16)
	if err != nil {
		t.Fatalf("Fuzz: %v", err)
	}
	// A short buffer short-circuits: the output must be exactly the
	// canonical zero-iteration encoding, with no mutation applied.
	want := fuzzrun.Bootstrap(m.tables)
	if !bytes.Equal(out, want) {
		t.Fatalf("Fuzz on a short buffer returned %v, want the bootstrap encoding %v", out, want)
	}
}

func TestFuzzRespectsMaxSize(t *testing.T) {
	m := newTestMutator(DefaultOptions())
	boot := fuzzrun.Bootstrap(m.tables)
	out, err := m.Fuzz(boot, nil, 0)
	if err != nil {
		t.Fatalf("Fuzz: %v", err)
	}
	if out != nil {
		t.Errorf("got %v, want nil when every possible output exceeds max_size", out)
	}
}

func TestFuzzReturnsTheHandlesReusedBuffer(t *testing.T) {
	m := newTestMutator(DefaultOptions())
	boot := fuzzrun.Bootstrap(m.tables)
	first, err := m.Fuzz(boot, nil, 1<<16)
	if err != nil {
		t.Fatalf("Fuzz: %v", err)
	}
	if len(first) == 0 || &m.out[0] != &first[0] {
		t.Error("Fuzz's returned slice must be backed by the handle's reused buffer")
	}
}

func TestDeinitReleasesBuffer(t *testing.T) {
	m := newTestMutator(DefaultOptions())
	m.Deinit()
	if m.out != nil {
		t.Error("Deinit should clear the handle's output buffer")
	}
}

func TestAssertStableRoundTripAcceptsConsistentCalls(t *testing.T) {
	m := newTestMutator(DefaultOptions())
	calls := []*fuzzrun.FunctionCall{
		{
			Function:        &m.tables.Functions[0],
			ChainReturnType: fuzzrun.NotApplicable,
			Arguments:       []fuzzrun.Argument{fuzzrun.Basic{Scalar: &ctypes.Scalar{Content: []byte{1, 2, 3, 4}}}},
		},
	}
	// Must not panic.
	m.assertStableRoundTrip(calls)
}

func TestDebugDumpPathEmptyIsNoop(t *testing.T) {
	if err := dumpBuffer("", []byte{1, 2, 3}); err != nil {
		t.Errorf("dumpBuffer with empty path: %v", err)
	}
}

func TestDebugDumpWritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mutation_output")
	want := []byte{1, 2, 3, 4}
	if err := dumpBuffer(path, want); err != nil {
		t.Fatalf("dumpBuffer: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("dumped content = %v, want %v", got, want)
	}
}
