package template

import "github.com/modu-ai/apigen/pkg/models"

// Context keys visible to templates. Entity and field maps use the same
// keys as the schema wire format.
const (
	KeyEntities  = "entities"
	KeyEntity    = "entity"
	KeyProject   = "project"
	KeyName      = "name"
	KeyFields    = "fields"
	KeyFieldType = "field_type"
)

// ProjectInfo describes the generated project to templates as "project".
type ProjectInfo struct {
	ID        string
	Name      string
	Backend   string
	Framework string
}

func (p ProjectInfo) toMap() map[string]any {
	return map[string]any{
		"id":        p.ID,
		"name":      p.Name,
		"backend":   p.Backend,
		"framework": p.Framework,
	}
}

// Templates see plain maps rather than Go structs so that a reference to a
// key the schema does not have fails under missingkey=error.
func entityMap(e models.Entity) map[string]any {
	fields := make([]any, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = map[string]any{
			KeyName:      f.Name,
			KeyFieldType: f.FieldType,
		}
	}
	return map[string]any{
		KeyName:   e.Name,
		KeyFields: fields,
	}
}

// globalContext exposes every entity, in schema order, as "entities".
func globalContext(s *models.Schema, project ProjectInfo) map[string]any {
	entities := make([]any, len(s.Entities))
	for i, e := range s.Entities {
		entities[i] = entityMap(e)
	}
	return map[string]any{
		KeyEntities: entities,
		KeyProject:  project.toMap(),
	}
}

// entityContext exposes a single entity as "entity".
func entityContext(e models.Entity, project ProjectInfo) map[string]any {
	return map[string]any{
		KeyEntity:  entityMap(e),
		KeyProject: project.toMap(),
	}
}
