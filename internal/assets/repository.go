package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"unicode/utf8"
)

// Repository returns template source text by slash-separated relative path.
// Implementations must be safe for concurrent use.
type Repository interface {
	Get(name string) (string, error)
}

type fsRepository struct {
	fsys   fs.FS
	prefix string
}

// NewFSRepository creates a Repository over any fs.FS.
// In production the fs.FS comes from go:embed; in tests use testing/fstest.MapFS.
func NewFSRepository(fsys fs.FS) Repository {
	return &fsRepository{fsys: fsys}
}

// NewDirRepository creates a Repository rooted at a directory on disk.
func NewDirRepository(dir string) (Repository, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("assets: template directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets: template directory %s: not a directory", dir)
	}
	return NewFSRepository(os.DirFS(filepath.Clean(dir))), nil
}

// Get returns the asset at name as text.
func (r *fsRepository) Get(name string) (string, error) {
	clean := path.Clean(filepath.ToSlash(name))
	if !fs.ValidPath(clean) || clean == "." {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	data, err := fs.ReadFile(r.fsys, path.Join(r.prefix, clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, clean)
		}
		return "", fmt.Errorf("assets: read %s: %w", clean, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotUTF8, clean)
	}
	return string(data), nil
}
