package assets

import "embed"

//go:embed templates
var bundle embed.FS

// Embedded returns the Repository over the template bundle compiled into
// the binary. Paths are relative to the bundle's templates directory, e.g.
// "postgres/axum/main.rs.tmpl".
func Embedded() Repository {
	return &fsRepository{fsys: bundle, prefix: "templates"}
}
