package template

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"text/template"

	"github.com/modu-ai/apigen/internal/assets"
	"github.com/modu-ai/apigen/internal/stack"
	"github.com/modu-ai/apigen/pkg/models"
)

// RenderedFile is one output file produced by a run.
type RenderedFile struct {
	Slot    string // Slot name from the capability table.
	Entity  string // Entity name for entity-scoped slots, empty otherwise.
	Path    string // Slash-separated path relative to the project root.
	Content []byte
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithFuncs adds template functions on top of the built-in filters. A
// function with a built-in filter's name replaces it for this engine only.
func WithFuncs(funcs template.FuncMap) EngineOption {
	return func(e *Engine) {
		for name, fn := range funcs {
			e.funcs[name] = fn
		}
	}
}

type loadedSlot struct {
	slot stack.Slot
	tmpl *template.Template
}

// Engine renders one slot set. It is not safe for concurrent use; create
// one Engine per generation run.
type Engine struct {
	filters *filterSet
	funcs   template.FuncMap
	logger  *slog.Logger
	loaded  []loadedSlot
}

// NewEngine creates an Engine with the built-in filters registered.
func NewEngine(opts ...EngineOption) *Engine {
	filters := newFilterSet()
	e := &Engine{
		filters: filters,
		funcs:   filters.funcMap(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// Load fetches and parses the template of every slot. Any failure aborts
// before a single template is rendered and leaves the engine unloaded.
func (e *Engine) Load(slots *stack.SlotMap, repo assets.Repository) error {
	loaded := make([]loadedSlot, 0, len(slots.Slots))
	for _, slot := range slots.Slots {
		src, err := repo.Get(slot.Asset)
		if err != nil {
			return &AssetLoadError{Slot: slot.Name, Asset: slot.Asset, Err: err}
		}

		tmpl, err := template.New(slot.Name).
			Funcs(e.funcs).
			Option("missingkey=error").
			Parse(src)
		if err != nil {
			return &AssetLoadError{Slot: slot.Name, Asset: slot.Asset, Err: err}
		}
		loaded = append(loaded, loadedSlot{slot: slot, tmpl: tmpl})
		e.logger.Debug("template loaded", "slot", slot.Name, "asset", slot.Asset)
	}

	e.loaded = loaded
	return nil
}

// @MX:ANCHOR: [AUTO] Render produces the complete, ordered file set of a run.
// @MX:REASON: [AUTO] output order here is the order files are written and reported
// Render executes the loaded slots against s. Global slots render once,
// entity slots once per entity in schema order. The first failure aborts
// the remaining renders and no partial result is returned. Every output
// path must be distinct after cleaning; a repeat is a *PathConflictError.
func (e *Engine) Render(ctx context.Context, s *models.Schema, project ProjectInfo) ([]RenderedFile, error) {
	if len(e.loaded) == 0 {
		return nil, ErrNotLoaded
	}

	var files []RenderedFile
	global := globalContext(s, project)
	claimed := make(map[string]RenderedFile)
	claim := func(f RenderedFile) error {
		key := path.Clean(f.Path)
		if prev, ok := claimed[key]; ok {
			return &PathConflictError{
				Path: key, Slot: f.Slot, Entity: f.Entity,
				OtherSlot: prev.Slot, OtherEntity: prev.Entity,
			}
		}
		claimed[key] = f
		files = append(files, f)
		return nil
	}

	for _, ls := range e.loaded {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if ls.slot.Scope != stack.ScopeEntity {
			content, err := execute(ls.tmpl, global)
			if err != nil {
				return nil, &RenderError{Slot: ls.slot.Name, Err: err}
			}
			if err := claim(RenderedFile{
				Slot:    ls.slot.Name,
				Path:    ls.slot.Output,
				Content: content,
			}); err != nil {
				return nil, err
			}
			continue
		}

		for _, entity := range s.Entities {
			segment := e.PathSegment(entity.Name)
			if !validSegment(segment) {
				return nil, &PathSegmentError{Slot: ls.slot.Name, Entity: entity.Name, Segment: segment}
			}
			content, err := execute(ls.tmpl, entityContext(entity, project))
			if err != nil {
				return nil, &RenderError{Slot: ls.slot.Name, Entity: entity.Name, Err: err}
			}
			if err := claim(RenderedFile{
				Slot:    ls.slot.Name,
				Entity:  entity.Name,
				Path:    ls.slot.OutputFor(segment),
				Content: content,
			}); err != nil {
				return nil, err
			}
		}
	}

	e.logger.Debug("templates rendered", "slots", len(e.loaded), "files", len(files))
	return files, nil
}

// PathSegment returns the path segment substituted for the {entity}
// placeholder: the entity name trimmed, lower-cased and NFC-normalized.
func (e *Engine) PathSegment(entityName string) string {
	return e.filters.lowerName(entityName)
}

// validSegment rejects segments that would leave the slot's directory.
func validSegment(segment string) bool {
	switch segment {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(segment, `/\`)
}

func execute(tmpl *template.Template, data map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}
