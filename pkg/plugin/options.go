package plugin

import "log/slog"

// Options configures a Mutator instance. It mirrors the preset-constructor
// pattern the rest of this organization's Go tools use for runtime
// configuration: a plain struct plus a handful of named constructors for
// the common profiles, rather than functional options.
type Options struct {
	// LogLevel is the minimum slog level emitted once logging is set up.
	LogLevel slog.Level

	// DebugAssertions enables the debug-build-only checks from §7/§11:
	// decision-bit accounting and the pre-mutation double round-trip.
	// A violation panics via EncodingAssertionViolation.
	DebugAssertions bool

	// DebugDumpPath, when non-empty, is where Fuzz atomically writes the
	// latest buffer both before and after mutation, for offline inspection.
	DebugDumpPath string

	// MaxOutputSize bounds the buffer Fuzz is allowed to return; larger
	// encodings are silently skipped per §7 (SkipMutation).
	MaxOutputSize int
}

// DefaultOptions are the options used when a host does not configure the
// mutator explicitly: debug assertions on, dump path set, a generous size
// ceiling.
func DefaultOptions() Options {
	return Options{
		LogLevel:        slog.LevelDebug,
		DebugAssertions: true,
		DebugDumpPath:   "/tmp/mutation_output",
		MaxOutputSize:   1 << 20,
	}
}

// StrictOptions keeps debug assertions on and shrinks MaxOutputSize, for
// running the fleet of end-to-end scenario tests under CI where a runaway
// mutation should fail loudly and fast rather than produce a multi-megabyte
// buffer.
func StrictOptions() Options {
	opts := DefaultOptions()
	opts.MaxOutputSize = 1 << 16
	return opts
}

// ReleaseOptions turns off debug assertions and the buffer dump, for a
// production fuzzing campaign where neither check's cost is worth paying.
func ReleaseOptions() Options {
	return Options{
		LogLevel:        slog.LevelWarn,
		DebugAssertions: false,
		DebugDumpPath:   "",
		MaxOutputSize:   1 << 20,
	}
}
