// Package project turns a validated schema into a generated backend project
// on disk. It implements the core of the "apigen generate" command: technology
// resolution, template rendering and the project-scoped file writer.
package project

import (
	"errors"
	"fmt"
)

// Sentinel errors for the project package.
var (
	// ErrInvalidProjectID indicates the project identifier cannot name a directory.
	ErrInvalidProjectID = errors.New("invalid project id")

	// ErrPathTraversal indicates an output path escapes the project root.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrDirectoryCreate indicates the output directory tree could not be created.
	ErrDirectoryCreate = errors.New("directory creation failed")

	// ErrFileWrite indicates a generated file could not be written.
	ErrFileWrite = errors.New("file write failed")
)

// DirectoryCreateError reports the directory that could not be created.
// No file has been written when it is returned.
type DirectoryCreateError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *DirectoryCreateError) Error() string {
	return fmt.Sprintf("create directory %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DirectoryCreateError) Unwrap() error { return e.Err }

// Is reports ErrDirectoryCreate as a match.
func (e *DirectoryCreateError) Is(target error) bool { return target == ErrDirectoryCreate }

// FileWriteError reports the file that could not be written. Files written
// earlier in the same run remain on disk.
type FileWriteError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FileWriteError) Error() string {
	return fmt.Sprintf("write file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FileWriteError) Unwrap() error { return e.Err }

// Is reports ErrFileWrite as a match.
func (e *FileWriteError) Is(target error) bool { return target == ErrFileWrite }
