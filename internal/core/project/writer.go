package project

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/modu-ai/apigen/internal/defs"
	"github.com/modu-ai/apigen/internal/template"
)

// ProgressFunc is called after each file is written.
type ProgressFunc func(done, total int, relPath string)

// WriteResult summarizes a completed write.
type WriteResult struct {
	Root         string   // Project directory, joined onto the output root.
	CreatedDirs  []string // Directories ensured, relative to Root, slash-separated.
	CreatedFiles []string // Files written, relative to Root, slash-separated.
}

// FolderName returns the project directory name for projectID.
func FolderName(projectID string) string {
	return defs.ProjectDirPrefix + projectID
}

// Writer writes rendered files under a project-scoped directory. A Writer
// holds no per-run state and may be shared by concurrent runs as long as
// their project ids differ.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a Writer. A nil logger discards output.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Writer{logger: logger}
}

// @MX:NOTE: [AUTO] All paths are checked and every directory is created before the first file write.
// Write creates <outputRoot>/project_<id>/ and writes files into it in
// order, overwriting existing files. Output is not atomic: on a
// *FileWriteError the files written before the failing one stay on disk.
func (w *Writer) Write(ctx context.Context, outputRoot, projectID string, files []template.RenderedFile, onFile ProgressFunc) (*WriteResult, error) {
	if err := validateProjectID(projectID); err != nil {
		return nil, err
	}
	root := filepath.Join(outputRoot, FolderName(projectID))

	rels := make([]string, len(files))
	owner := make(map[string]int, len(files))
	for i, f := range files {
		rel, err := validateOutputPath(f.Path)
		if err != nil {
			return nil, err
		}
		if j, dup := owner[rel]; dup {
			return nil, &template.PathConflictError{
				Path: rel, Slot: f.Slot, Entity: f.Entity,
				OtherSlot: files[j].Slot, OtherEntity: files[j].Entity,
			}
		}
		owner[rel] = i
		rels[i] = rel
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &WriteResult{Root: root}

	if err := os.MkdirAll(root, defs.DirPerm); err != nil {
		return nil, &DirectoryCreateError{Path: root, Err: err}
	}
	seen := make(map[string]bool)
	for _, rel := range rels {
		dir := path.Dir(rel)
		if dir == "." || seen[dir] {
			continue
		}
		seen[dir] = true
		dirPath := filepath.Join(root, filepath.FromSlash(dir))
		if err := os.MkdirAll(dirPath, defs.DirPerm); err != nil {
			return nil, &DirectoryCreateError{Path: dirPath, Err: err}
		}
		result.CreatedDirs = append(result.CreatedDirs, dir)
	}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		dest := filepath.Join(root, filepath.FromSlash(rels[i]))
		if err := os.WriteFile(dest, f.Content, defs.FilePerm); err != nil {
			return result, &FileWriteError{Path: dest, Err: err}
		}
		result.CreatedFiles = append(result.CreatedFiles, rels[i])
		w.logger.Debug("file written", "path", rels[i], "bytes", len(f.Content))
		if onFile != nil {
			onFile(i+1, len(files), rels[i])
		}
	}

	return result, nil
}

// validateProjectID rejects ids that are empty or would not name exactly one
// directory level below the output root.
func validateProjectID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return fmt.Errorf("%w: empty", ErrInvalidProjectID)
	case strings.ContainsAny(id, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidProjectID, id)
	case id == "." || id == "..":
		return fmt.Errorf("%w: %q", ErrInvalidProjectID, id)
	}
	return nil
}

// validateOutputPath returns the cleaned slash-separated form of p, which
// must name a file strictly inside the project root.
func validateOutputPath(p string) (string, error) {
	slashed := filepath.ToSlash(p)
	if slashed == "" {
		return "", fmt.Errorf("%w: empty output path", ErrPathTraversal)
	}
	if path.IsAbs(slashed) || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return "", fmt.Errorf("%w: absolute path %q", ErrPathTraversal, p)
	}

	cleaned := path.Clean(slashed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q escapes project root", ErrPathTraversal, p)
	}
	return cleaned, nil
}
