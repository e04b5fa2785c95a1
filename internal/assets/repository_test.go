package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/modu-ai/apigen/internal/stack"
)

func TestFSRepositoryGet(t *testing.T) {
	t.Parallel()

	repo := NewFSRepository(fstest.MapFS{
		"postgres/axum/main.rs.tmpl": &fstest.MapFile{Data: []byte("fn main() {}\n")},
		"postgres/binary.tmpl":       &fstest.MapFile{Data: []byte{0xff, 0xfe, 0x00}},
		"postgres/unicode.tmpl":      &fstest.MapFile{Data: []byte("// Ångström\n")},
	})

	t.Run("existing_asset", func(t *testing.T) {
		got, err := repo.Get("postgres/axum/main.rs.tmpl")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if got != "fn main() {}\n" {
			t.Errorf("Get = %q", got)
		}
	})

	t.Run("unicode_text", func(t *testing.T) {
		got, err := repo.Get("postgres/unicode.tmpl")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if got != "// Ångström\n" {
			t.Errorf("Get = %q", got)
		}
	})

	t.Run("uncleaned_path", func(t *testing.T) {
		if _, err := repo.Get("postgres/./axum/main.rs.tmpl"); err != nil {
			t.Errorf("Get with redundant segments error: %v", err)
		}
	})

	t.Run("missing_asset", func(t *testing.T) {
		_, err := repo.Get("postgres/axum/missing.tmpl")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("not_utf8", func(t *testing.T) {
		_, err := repo.Get("postgres/binary.tmpl")
		if !errors.Is(err, ErrNotUTF8) {
			t.Errorf("expected ErrNotUTF8, got %v", err)
		}
	})

	t.Run("invalid_paths", func(t *testing.T) {
		for _, name := range []string{"", ".", "../secret", "/etc/passwd"} {
			if _, err := repo.Get(name); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(%q) expected ErrNotFound, got %v", name, err)
			}
		}
	})
}

func TestNewDirRepository(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "postgres"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "postgres", "main.rs.tmpl"), []byte("override"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo, err := NewDirRepository(dir)
	if err != nil {
		t.Fatalf("NewDirRepository error: %v", err)
	}
	got, err := repo.Get("postgres/main.rs.tmpl")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != "override" {
		t.Errorf("Get = %q, want override", got)
	}

	if _, err := NewDirRepository(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
	if _, err := NewDirRepository(filepath.Join(dir, "postgres", "main.rs.tmpl")); err == nil {
		t.Error("expected error for a file path")
	}
}

func TestEmbeddedCoversCapabilityTable(t *testing.T) {
	t.Parallel()

	table, err := stack.Default()
	if err != nil {
		t.Fatalf("stack.Default() error: %v", err)
	}
	repo := Embedded()

	for _, backend := range table.Backends() {
		for _, framework := range table.Frameworks(backend) {
			slots, err := table.Resolve(backend, framework)
			if err != nil {
				t.Fatalf("Resolve(%s, %s) error: %v", backend, framework, err)
			}
			for _, slot := range slots.Slots {
				if _, err := repo.Get(slot.Asset); err != nil {
					t.Errorf("%s/%s slot %q: %v", backend, framework, slot.Name, err)
				}
			}
		}
	}
}
