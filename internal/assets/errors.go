// Package assets provides read-only access to template sources by path.
// The generator never reads templates from disk directly; it always goes
// through a Repository so the bundled set and a user override directory are
// interchangeable.
package assets

import "errors"

// Sentinel errors returned by Repository.Get.
var (
	// ErrNotFound indicates no asset exists at the requested path.
	ErrNotFound = errors.New("assets: asset not found")

	// ErrNotUTF8 indicates the asset exists but is not valid UTF-8 text.
	ErrNotUTF8 = errors.New("assets: asset is not valid UTF-8")
)
