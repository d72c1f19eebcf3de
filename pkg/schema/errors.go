package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors identifying the class of problem behind a SchemaError
// entry. Use errors.Is against these, not string matching.
var (
	ErrMissingAPIPathEnv        = errors.New("schema: AUTO_DRIVER_FUNCTION_API_PATH is not set")
	ErrUnknownTypeDiscriminator = errors.New("schema: type declaration has an unrecognized \"type\" discriminator")
	ErrUndeclaredType           = errors.New("schema: reference to a type name that was never declared")
	ErrUnresolvableSchema       = errors.New("schema: one or more declared types could not be resolved (likely a reference cycle)")
)

// SchemaError accumulates every problem found while loading and resolving a
// schema document, rather than stopping at the first one. A caller who only
// cares whether loading succeeded can still treat it as a plain error via
// Error(); a caller who wants the full list can range over Errors.
type SchemaError struct {
	Errors []error
}

func (e *SchemaError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("schema: %d errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *SchemaError) Unwrap() []error { return e.Errors }

// Add records one problem. It is a no-op if err is nil.
func (e *SchemaError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// OrNil returns e if any errors were recorded, otherwise nil, so callers
// can build up a SchemaError unconditionally and return the zero value
// cleanly on success.
func (e *SchemaError) OrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}
