package schema

import (
	"fmt"
	"strings"

	"github.com/modu-ai/apigen/pkg/models"
)

// IDFieldName is the name the first field must carry when
// Policy.RequireIDFirst is set.
const IDFieldName = "id"

// Policy holds the configurable validation rules.
type Policy struct {
	// RequireIDFirst demands that the first entity's first field is "id".
	RequireIDFirst bool
}

// DefaultPolicy enables every rule.
func DefaultPolicy() Policy {
	return Policy{RequireIDFirst: true}
}

// Validator checks schemas against a fixed Policy.
type Validator struct {
	policy Policy
}

// NewValidator creates a Validator for the given policy.
func NewValidator(policy Policy) *Validator {
	return &Validator{policy: policy}
}

// Validate checks s against the validator's policy.
func (v *Validator) Validate(s *models.Schema) error {
	return Validate(s, v.policy)
}

// @MX:ANCHOR: [AUTO] Validate is the single gate between untrusted input and generation.
// @MX:REASON: [AUTO] check order is part of the contract; diagnostics must be reproducible
// Validate checks s in a fixed priority order and returns the first
// violation as a *ValidationError:
//
//  1. the schema has at least one entity
//  2. the first entity has at least one field
//  3. the first entity's first field is "id" (policy)
//  4. every entity, in order, has a name and fields, and every field,
//     in order, has a name and a type
func Validate(s *models.Schema, policy Policy) error {
	if s == nil || len(s.Entities) == 0 {
		return &ValidationError{Kind: KindEmptySchema}
	}

	first := s.Entities[0]
	if len(first.Fields) == 0 {
		return &ValidationError{Kind: KindEmptyFields, Entity: first.Name}
	}

	if policy.RequireIDFirst && strings.TrimSpace(first.Fields[0].Name) != IDFieldName {
		return &ValidationError{Kind: KindMissingIDField, Entity: first.Name}
	}

	for i, entity := range s.Entities {
		if strings.TrimSpace(entity.Name) == "" {
			return &ValidationError{Kind: KindEmptyEntityName, Entity: fmt.Sprintf("#%d", i+1)}
		}
		if len(entity.Fields) == 0 {
			return &ValidationError{Kind: KindEmptyEntityFields, Entity: entity.Name}
		}
		for _, field := range entity.Fields {
			if strings.TrimSpace(field.Name) == "" {
				return &ValidationError{Kind: KindEmptyFieldName, Entity: entity.Name}
			}
			if strings.TrimSpace(field.FieldType) == "" {
				return &ValidationError{Kind: KindEmptyFieldType, Entity: entity.Name, Field: field.Name}
			}
		}
	}

	return nil
}
