package models

import "strings"

// TechSelection identifies a storage backend and web framework pair.
type TechSelection struct {
	Backend   string `yaml:"backend" json:"backend"`
	Framework string `yaml:"framework" json:"framework"`
}

// Normalize returns a copy with both identifiers trimmed and lower-cased.
func (t TechSelection) Normalize() TechSelection {
	return TechSelection{
		Backend:   strings.ToLower(strings.TrimSpace(t.Backend)),
		Framework: strings.ToLower(strings.TrimSpace(t.Framework)),
	}
}

// String renders the selection as "backend/framework".
func (t TechSelection) String() string {
	return t.Backend + "/" + t.Framework
}
