package schema

import (
	"context"
	"errors"
	"slices"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/modu-ai/apigen/pkg/models"
)

// Semantic field-type tokens produced by FromOpenAPI. They are the keys of
// the template type filters.
const (
	TypeInteger         = "integer"
	TypeBigInteger      = "big-integer"
	TypeOptionalInteger = "optional-integer"
	TypeText            = "text"
	TypeOptionalText    = "optional-text"
	TypeBoolean         = "boolean"
	TypeFloat           = "float"
	TypeTimestamp       = "timestamp"
	TypeUUID            = "uuid"
	TypeTextList        = "text-list"
	TypeIntegerList     = "integer-list"
	TypeJSON            = "json"
)

// FromOpenAPI converts the object schemas under components.schemas of an
// OpenAPI 3 document into an entity schema. Entities are ordered by
// component name and fields by property name, with "id" moved to the front,
// so the result is stable for a given document.
func FromOpenAPI(ctx context.Context, data []byte) (*models.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, &DecodeError{Format: FormatOpenAPI, Err: err}
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, &DecodeError{Format: FormatOpenAPI, Err: errors.New("document has no components.schemas")}
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	s := &models.Schema{}
	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil || !isObject(ref.Value) {
			continue
		}
		s.Entities = append(s.Entities, entityFromSchema(name, ref.Value))
	}

	return s, nil
}

func isObject(s *openapi3.Schema) bool {
	if s.Type != nil && s.Type.Is(openapi3.TypeObject) {
		return true
	}
	return s.Type == nil && len(s.Properties) > 0
}

func entityFromSchema(name string, s *openapi3.Schema) models.Entity {
	props := make([]string, 0, len(s.Properties))
	for prop := range s.Properties {
		props = append(props, prop)
	}
	sort.Strings(props)
	if i := slices.Index(props, IDFieldName); i > 0 {
		props = append([]string{IDFieldName}, slices.Delete(props, i, i+1)...)
	}

	entity := models.Entity{Name: name, Fields: make([]models.Field, 0, len(props))}
	for _, prop := range props {
		required := prop == IDFieldName || slices.Contains(s.Required, prop)
		entity.Fields = append(entity.Fields, models.Field{
			Name:      prop,
			FieldType: fieldTypeOf(s.Properties[prop], required),
		})
	}
	return entity
}

// fieldTypeOf maps an OpenAPI property to a semantic type token.
func fieldTypeOf(ref *openapi3.SchemaRef, required bool) string {
	if ref == nil || ref.Value == nil {
		return TypeJSON
	}
	p := ref.Value
	optional := !required || p.Nullable

	switch {
	case p.Type.Is(openapi3.TypeInteger):
		if p.Format == "int64" {
			return TypeBigInteger
		}
		if optional {
			return TypeOptionalInteger
		}
		return TypeInteger
	case p.Type.Is(openapi3.TypeNumber):
		return TypeFloat
	case p.Type.Is(openapi3.TypeBoolean):
		return TypeBoolean
	case p.Type.Is(openapi3.TypeString):
		switch p.Format {
		case "date-time":
			return TypeTimestamp
		case "uuid":
			return TypeUUID
		}
		if optional {
			return TypeOptionalText
		}
		return TypeText
	case p.Type.Is(openapi3.TypeArray):
		if p.Items != nil && p.Items.Value != nil {
			switch {
			case p.Items.Value.Type.Is(openapi3.TypeString):
				return TypeTextList
			case p.Items.Value.Type.Is(openapi3.TypeInteger):
				return TypeIntegerList
			}
		}
		return TypeJSON
	}
	return TypeJSON
}
