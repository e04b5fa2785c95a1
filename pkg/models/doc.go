// Package models provides the shared data models used across apigen.
//
// The package holds the entity schema that drives generation and the
// technology selection that picks a template set.
//
// # Schema
//
// A [Schema] is an ordered list of [Entity] values, each an ordered list of
// [Field] values. Order is significant: it determines the order in which
// entity files are emitted and the iteration order seen by templates.
//
//	s := &models.Schema{Entities: []models.Entity{{
//	    Name:   "user",
//	    Fields: []models.Field{{Name: "id", FieldType: "integer"}},
//	}}}
//	fmt.Println(s.FieldCount()) // 1
//
// # Technology Selection
//
// A [TechSelection] names a storage backend and a web framework. Values are
// compared case-insensitively; use [TechSelection.Normalize] before lookups.
package models
