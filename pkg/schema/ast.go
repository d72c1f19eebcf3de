// Package schema parses the external function-API schema that describes
// the fuzz target's callable surface, and resolves it into the typed value
// table ctypes.Value trees are built from.
package schema

import (
	"encoding/json"
	"fmt"
)

// Root is the top-level shape of a function-API schema document.
type Root struct {
	DecisionBitsPerIteration int        `json:"decision_bits_per_iteration"`
	Types                    []TypeDecl `json:"types"`
	Functions                []FuncDecl `json:"functions"`
	MinimalInitChainingVariablesSize int `json:"minimal_init_chaining_variables_size"`
}

// TypeDecl declares one named type. Kind selects which of the remaining
// fields are populated: "struct"/"union" use Fields, "typedef" uses
// Underlying, "enum" and "function_pointer" use neither.
type TypeDecl struct {
	Name       string    `json:"name"`
	Kind       string    `json:"type"`
	Fields     []TypeRef `json:"fields"`
	Underlying *TypeRef  `json:"underlying"`
}

// FuncDecl declares one callable function.
type FuncDecl struct {
	Name       string         `json:"name"`
	ReturnType TypedField     `json:"return_type"`
	Parameters []ParamDecl    `json:"parameter_types"`
}

// ParamDecl declares one function parameter. Opaque marks a pointer to a
// type the schema never describes further; such a parameter is always
// treated as an opaque pointer regardless of what Type names.
type ParamDecl struct {
	Opaque bool    `json:"opaque"`
	Type   TypeRef `json:"type"`
}

// TypedField wraps a TypeRef under a "type" key, the shape a function's
// return type uses to name its type.
type TypedField struct {
	Type TypeRef `json:"type"`
}

// TypeRef is either a bare type name ("int", "my_struct") or an inline
// array/pointer shape ({"array_element": ..., "length": N} or
// {"pointee": ...}). Exactly one of Name, ArrayElement, or Pointee is set
// after unmarshaling.
type TypeRef struct {
	Name string

	ArrayElement *TypeRef
	Length       int

	Pointee *TypeRef
}

// UnmarshalJSON accepts either a JSON string (a plain type name) or an
// object with an "array_element" or "pointee" key.
func (t *TypeRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		t.Name = name
		return nil
	}

	var shape struct {
		ArrayElement *TypeRef `json:"array_element"`
		Length       int      `json:"length"`
		Pointee      *TypeRef `json:"pointee"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return fmt.Errorf("schema: invalid type reference: %w", err)
	}
	switch {
	case shape.ArrayElement != nil:
		t.ArrayElement = shape.ArrayElement
		t.Length = shape.Length
	case shape.Pointee != nil:
		t.Pointee = shape.Pointee
	default:
		return fmt.Errorf("%w: type reference has neither a name, array_element, nor pointee", ErrUnknownTypeDiscriminator)
	}
	return nil
}

// IsArray reports whether t is an inline array shape.
func (t *TypeRef) IsArray() bool { return t.ArrayElement != nil }

// IsPointer reports whether t is an inline pointer shape.
func (t *TypeRef) IsPointer() bool { return t.Pointee != nil && t.ArrayElement == nil }

// IsName reports whether t is a bare named reference.
func (t *TypeRef) IsName() bool { return t.ArrayElement == nil && t.Pointee == nil }
