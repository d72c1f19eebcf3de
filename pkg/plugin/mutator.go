// Package plugin adapts the fuzz-run codec and mutator to the AFL-style
// custom-mutator host contract: Init, Fuzz, Deinit (§4.6).
package plugin

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/blockberries/autodrive/internal/wire"
	"github.com/blockberries/autodrive/pkg/fuzzrun"
	"github.com/blockberries/autodrive/pkg/schema"
)

// Mutator is one handle the host fuzzer drives serially; it is never
// shared across goroutines (§5).
type Mutator struct {
	tables *schema.Tables
	rng    *rand.Rand
	opts   Options

	// out is the single long-lived output buffer reused across Fuzz calls,
	// per §4.6 ("owns an internal output buffer reused across calls") and
	// §10.1 (obtained from the pool once at Init).
	out []byte
}

// Init loads the schema named by AUTO_DRIVER_FUNCTION_API_PATH, seeds a
// deterministic RNG from seed (decision D2), and installs logging. Schema
// or I/O errors are fatal: the host is expected to abort the process on a
// non-nil error, per §7.
func Init(seed uint64, opts Options) (*Mutator, error) {
	SetupLogging(opts.LogLevel)

	tables, err := schema.LoadFromEnv()
	if err != nil {
		slog.Error("schema load failed", "error", err)
		return nil, fmt.Errorf("plugin: init: %w", err)
	}

	m := &Mutator{
		tables: tables,
		rng:    rand.New(rand.NewPCG(seed, seed)),
		opts:   opts,
		out:    fuzzrun.GetScratch(4096),
	}
	slog.Debug("mutator initialized", "functions", len(tables.Functions), "decision_bits", tables.DecisionBitsPerIteration)
	return m, nil
}

// Fuzz runs decode → mutate → encode on in and returns the new buffer, or
// (nil, nil) when the result would exceed maxSize or a positive
// Options.MaxOutputSize, whichever is smaller (§4.6/§7 SkipMutation).
// crossBuffer is accepted for contract compatibility and unused.
func (m *Mutator) Fuzz(in []byte, crossBuffer []byte, maxSize int) ([]byte, error) {
	_ = crossBuffer
	if m.opts.MaxOutputSize > 0 && m.opts.MaxOutputSize < maxSize {
		maxSize = m.opts.MaxOutputSize
	}

	if err := dumpBuffer(m.opts.DebugDumpPath, in); err != nil {
		slog.Warn("debug dump (pre-mutation) failed", "error", err)
	}

	// A buffer too small to plausibly hold a real run short-circuits to
	// the canonical zero-iteration encoding: no decode, no mutation, no
	// re-encode. The next iteration receives this bootstrap buffer back
	// and mutates from there.
	if len(in) < wire.Fixed16Size+m.tables.ChainingVariablesSize {
		boot := fuzzrun.Bootstrap(m.tables)
		if len(boot) > maxSize {
			slog.Debug("mutation skipped: exceeds max_size", "size", len(boot), "max_size", maxSize)
			return nil, nil
		}
		m.out = append(m.out[:0], boot...)
		if err := dumpBuffer(m.opts.DebugDumpPath, m.out); err != nil {
			slog.Warn("debug dump (post-mutation) failed", "error", err)
		}
		return m.out, nil
	}

	calls, err := fuzzrun.Decode(m.tables, in)
	if err != nil {
		return nil, fmt.Errorf("plugin: fuzz: decode: %w", err)
	}

	if m.opts.DebugAssertions {
		m.assertStableRoundTrip(calls)
	}

	mutated := fuzzrun.Mutate(m.tables, calls, m.rng)

	out, err := fuzzrun.Encode(m.tables, mutated, m.opts.DebugAssertions)
	if err != nil {
		return nil, fmt.Errorf("plugin: fuzz: encode: %w", err)
	}

	if len(out) > maxSize {
		slog.Debug("mutation skipped: exceeds max_size", "size", len(out), "max_size", maxSize)
		fuzzrun.PutScratch(out)
		return nil, nil
	}

	m.out = append(m.out[:0], out...)
	fuzzrun.PutScratch(out)

	if err := dumpBuffer(m.opts.DebugDumpPath, m.out); err != nil {
		slog.Warn("debug dump (post-mutation) failed", "error", err)
	}

	return m.out, nil
}

// assertStableRoundTrip implements the pre-mutation debug check from §11:
// re-encoding the just-decoded call list and decoding that again must
// reproduce the same call list, i.e. decoding is stable under an extra
// encode/decode cycle. A violation panics via EncodingAssertionViolation,
// matching the source's debug-build assertion.
func (m *Mutator) assertStableRoundTrip(calls []*fuzzrun.FunctionCall) {
	reencoded, err := fuzzrun.Encode(m.tables, calls, true)
	if err != nil {
		panic(&fuzzrun.EncodingAssertionViolation{
			Op:      "Fuzz",
			Message: fmt.Sprintf("re-encoding the decoded call list failed: %v", err),
		})
	}

	redecoded, err := fuzzrun.Decode(m.tables, reencoded)
	if err != nil {
		panic(&fuzzrun.EncodingAssertionViolation{
			Op:      "Fuzz",
			Message: fmt.Sprintf("decoding the re-encoded buffer failed: %v", err),
		})
	}

	rereencoded, err := fuzzrun.Encode(m.tables, redecoded, true)
	if err != nil {
		panic(&fuzzrun.EncodingAssertionViolation{
			Op:      "Fuzz",
			Message: fmt.Sprintf("re-encoding the re-decoded call list failed: %v", err),
		})
	}

	if string(reencoded) != string(rereencoded) {
		panic(&fuzzrun.EncodingAssertionViolation{
			Op:      "Fuzz",
			Message: "decode is not stable under an extra encode/decode cycle",
		})
	}
	fuzzrun.PutScratch(reencoded)
	fuzzrun.PutScratch(rereencoded)
}

// Deinit releases the handle's resources.
func (m *Mutator) Deinit() {
	fuzzrun.PutScratch(m.out)
	m.out = nil
}
