// Package stack resolves a requested backend/framework pair to the ordered
// set of template slots that make up a generated project. The set of
// supported pairs is a data table, never inferred from the filesystem.
package stack

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for technology resolution.
var (
	// ErrUnsupportedTechnology indicates the requested pair is not in the table.
	ErrUnsupportedTechnology = errors.New("stack: unsupported technology")

	// ErrInvalidTable indicates a capability table failed to parse or validate.
	ErrInvalidTable = errors.New("stack: invalid capability table")
)

// UnsupportedTechnologyError reports a selection outside the capability
// table together with everything the table does support.
type UnsupportedTechnologyError struct {
	Backend             string
	Framework           string
	SupportedBackends   []string
	SupportedFrameworks []string
}

// Error implements the error interface.
func (e *UnsupportedTechnologyError) Error() string {
	return fmt.Sprintf("unsupported configuration: backend %q, framework %q (supported backends: %s; supported frameworks: %s)",
		e.Backend, e.Framework,
		strings.Join(e.SupportedBackends, ", "),
		strings.Join(e.SupportedFrameworks, ", "))
}

// Is reports ErrUnsupportedTechnology as a match.
func (e *UnsupportedTechnologyError) Is(target error) bool {
	return target == ErrUnsupportedTechnology
}
