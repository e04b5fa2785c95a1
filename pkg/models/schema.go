// @MX:NOTE: [AUTO] Entity schema decoded from JSON/YAML input. Field order and entity order are part of the output contract.
package models

// Field is a single typed attribute of an entity.
// FieldType is an opaque token interpreted only by template filters.
type Field struct {
	Name      string `yaml:"name" json:"name"`
	FieldType string `yaml:"field_type" json:"field_type"`
}

// Entity is a named, ordered list of fields.
type Entity struct {
	Name   string  `yaml:"name" json:"name"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Schema is the root of the generator input.
type Schema struct {
	Entities []Entity `yaml:"entities" json:"entities"`
}

// EntityNames returns the entity names in schema order.
func (s *Schema) EntityNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.Entities))
	for i, e := range s.Entities {
		names[i] = e.Name
	}
	return names
}

// FieldCount returns the total number of fields across all entities.
func (s *Schema) FieldCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, e := range s.Entities {
		n += len(e.Fields)
	}
	return n
}
