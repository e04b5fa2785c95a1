// Package template renders a resolved slot set against a schema. Each run
// owns an Engine with its own filter registry and parsed templates; there
// is no process-wide template state.
package template

import (
	"errors"
	"fmt"
)

// Sentinel errors for the template package.
var (
	// ErrAssetLoad indicates a slot's template source could not be fetched or parsed.
	ErrAssetLoad = errors.New("template: asset load failed")

	// ErrRender indicates a template failed during execution.
	ErrRender = errors.New("template: render failed")

	// ErrNotLoaded indicates Render was called before a successful Load.
	ErrNotLoaded = errors.New("template: engine has no loaded slots")
)

// AssetLoadError reports the slot whose asset could not be loaded.
type AssetLoadError struct {
	Slot  string
	Asset string
	Err   error
}

// Error implements the error interface.
func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load slot %q from %s: %v", e.Slot, e.Asset, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AssetLoadError) Unwrap() error { return e.Err }

// Is reports ErrAssetLoad as a match.
func (e *AssetLoadError) Is(target error) bool { return target == ErrAssetLoad }

// RenderError reports the slot, and for entity slots the entity, whose
// rendering failed.
type RenderError struct {
	Slot   string
	Entity string
	Err    error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("render slot %q for entity %q: %v", e.Slot, e.Entity, e.Err)
	}
	return fmt.Sprintf("render slot %q: %v", e.Slot, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RenderError) Unwrap() error { return e.Err }

// Is reports ErrRender as a match.
func (e *RenderError) Is(target error) bool { return target == ErrRender }

// ErrPathConflict indicates two rendered files resolved to the same output path.
var ErrPathConflict = errors.New("template: output path conflict")

// ErrInvalidPathSegment indicates an entity name cannot be used as an output path segment.
var ErrInvalidPathSegment = errors.New("template: invalid entity path segment")

// PathConflictError names both renders that claimed Path.
type PathConflictError struct {
	Path        string
	Slot        string
	Entity      string
	OtherSlot   string
	OtherEntity string
}

// Error implements the error interface.
func (e *PathConflictError) Error() string {
	return fmt.Sprintf("output %s: slot %q %s collides with slot %q %s",
		e.Path, e.Slot, describeEntity(e.Entity), e.OtherSlot, describeEntity(e.OtherEntity))
}

// Is reports ErrPathConflict as a match.
func (e *PathConflictError) Is(target error) bool { return target == ErrPathConflict }

// PathSegmentError reports an entity whose name would escape its slot's directory.
type PathSegmentError struct {
	Slot    string
	Entity  string
	Segment string
}

// Error implements the error interface.
func (e *PathSegmentError) Error() string {
	return fmt.Sprintf("slot %q: entity %q maps to unusable path segment %q", e.Slot, e.Entity, e.Segment)
}

// Is reports ErrInvalidPathSegment as a match.
func (e *PathSegmentError) Is(target error) bool { return target == ErrInvalidPathSegment }

func describeEntity(name string) string {
	if name == "" {
		return "(global)"
	}
	return fmt.Sprintf("for entity %q", name)
}
