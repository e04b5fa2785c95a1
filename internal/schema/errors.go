// Package schema decodes and validates entity schemas. Decoding failures and
// validation failures are distinct error classes: a [DecodeError] means the
// input is not well-formed, a [ValidationError] means it is well-formed but
// semantically invalid.
package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for schema operations.
var (
	// ErrDecode indicates the input could not be decoded into a schema.
	ErrDecode = errors.New("schema: decode failed")

	// ErrInvalidSchema indicates a decoded schema violates an invariant.
	ErrInvalidSchema = errors.New("schema: invalid schema")

	// ErrSourceUnavailable indicates a schema source could not be read.
	ErrSourceUnavailable = errors.New("schema: source unavailable")
)

// DecodeError reports malformed input.
type DecodeError struct {
	Format string // "json", "yaml" or "openapi"
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("schema: invalid %s input: %v", e.Format, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports ErrDecode as a match.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// ValidationKind identifies which invariant a schema violated.
type ValidationKind string

const (
	KindEmptySchema       ValidationKind = "empty_schema"
	KindEmptyFields       ValidationKind = "empty_fields"
	KindMissingIDField    ValidationKind = "missing_id_field"
	KindEmptyEntityName   ValidationKind = "empty_entity_name"
	KindEmptyEntityFields ValidationKind = "empty_entity_fields"
	KindEmptyFieldName    ValidationKind = "empty_field_name"
	KindEmptyFieldType    ValidationKind = "empty_field_type"
)

// ValidationError describes the first invariant violation found in a schema.
// Entity and Field are set when the violation is attributable to them.
type ValidationError struct {
	Kind   ValidationKind
	Entity string
	Field  string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindEmptySchema:
		return "schema must contain at least one entity"
	case KindEmptyFields:
		return fmt.Sprintf("entity %q must contain at least one field", e.Entity)
	case KindMissingIDField:
		return fmt.Sprintf("first field of entity %q must be named \"id\"", e.Entity)
	case KindEmptyEntityName:
		return fmt.Sprintf("entity name cannot be empty (entity %s)", e.Entity)
	case KindEmptyEntityFields:
		return fmt.Sprintf("entity %q must contain at least one field", e.Entity)
	case KindEmptyFieldName:
		return fmt.Sprintf("field name cannot be empty in entity %q", e.Entity)
	case KindEmptyFieldType:
		return fmt.Sprintf("field type cannot be empty for field %q in entity %q", e.Field, e.Entity)
	}
	return fmt.Sprintf("schema validation failed: %s", e.Kind)
}

// Is reports ErrInvalidSchema as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidSchema
}
