package fuzzrun

import "fmt"

// EncodingAssertionViolation reports a debug-build-only internal
// consistency failure: the decision-bit accounting the encoder produced
// didn't match the schema's declared per-iteration width, or a decode of
// an encoded buffer didn't reproduce the call list it was built from.
// Per spec §7 this class of error is fatal in debug builds and never
// constructed at all when assertions are off.
type EncodingAssertionViolation struct {
	Op      string
	Message string
}

func (e *EncodingAssertionViolation) Error() string {
	return fmt.Sprintf("fuzzrun: %s: encoding assertion violated: %s", e.Op, e.Message)
}
