package stack

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/modu-ai/apigen/internal/defs"
	"github.com/modu-ai/apigen/pkg/models"
)

//go:embed capabilities.yaml
var capabilitiesYAML []byte

// Scope tells whether a slot renders once per run or once per entity.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeEntity Scope = "entity"
)

// Slot is a named template unit.
type Slot struct {
	Name   string `yaml:"name"`
	Scope  Scope  `yaml:"scope"`
	Asset  string `yaml:"asset"`
	Output string `yaml:"output"`
}

// OutputFor returns the slot's output path for the given path segment.
// Global slots ignore the segment.
func (s Slot) OutputFor(segment string) string {
	if s.Scope != ScopeEntity {
		return s.Output
	}
	return strings.ReplaceAll(s.Output, defs.EntityPlaceholder, segment)
}

// SlotMap is the resolved, ordered slot set for one technology selection.
type SlotMap struct {
	Selection models.TechSelection
	Slots     []Slot
}

// Names returns the slot names in declaration order.
func (m *SlotMap) Names() []string {
	names := make([]string, len(m.Slots))
	for i, s := range m.Slots {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the slot with the given name.
func (m *SlotMap) Lookup(name string) (Slot, bool) {
	for _, s := range m.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return Slot{}, false
}

// FileCount returns how many files the slot set emits for n entities.
func (m *SlotMap) FileCount(entities int) int {
	total := 0
	for _, s := range m.Slots {
		if s.Scope == ScopeEntity {
			total += entities
		} else {
			total++
		}
	}
	return total
}

type frameworkSpec struct {
	Slots []Slot `yaml:"slots"`
}

type backendSpec struct {
	DefaultFramework string                   `yaml:"default_framework"`
	Frameworks       map[string]frameworkSpec `yaml:"frameworks"`
}

type tableFile struct {
	DefaultBackend string                 `yaml:"default_backend"`
	Backends       map[string]backendSpec `yaml:"backends"`
}

// Table is an immutable capability table. It is safe for concurrent use.
type Table struct {
	defaultBackend string
	backends       map[string]backendSpec
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return LoadTable(capabilitiesYAML)
})

// Default returns the capability table shipped with the binary. It is
// parsed once per process.
func Default() (*Table, error) {
	return defaultTable()
}

// LoadTable parses and validates a YAML capability table.
func LoadTable(data []byte) (*Table, error) {
	var raw tableFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}

	t := Table{defaultBackend: strings.ToLower(strings.TrimSpace(raw.DefaultBackend))}
	normalized := make(map[string]backendSpec, len(raw.Backends))
	for name, b := range raw.Backends {
		frameworks := make(map[string]frameworkSpec, len(b.Frameworks))
		for fw, spec := range b.Frameworks {
			frameworks[strings.ToLower(strings.TrimSpace(fw))] = spec
		}
		b.Frameworks = frameworks
		b.DefaultFramework = strings.ToLower(strings.TrimSpace(b.DefaultFramework))
		normalized[strings.ToLower(strings.TrimSpace(name))] = b
	}
	t.backends = normalized

	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) validate() error {
	if len(t.backends) == 0 {
		return fmt.Errorf("%w: no backends defined", ErrInvalidTable)
	}
	if _, ok := t.backends[t.defaultBackend]; !ok {
		return fmt.Errorf("%w: default backend %q is not defined", ErrInvalidTable, t.defaultBackend)
	}

	for _, backend := range sortedKeys(t.backends) {
		b := t.backends[backend]
		if len(b.Frameworks) == 0 {
			return fmt.Errorf("%w: backend %q has no frameworks", ErrInvalidTable, backend)
		}
		if _, ok := b.Frameworks[b.DefaultFramework]; !ok {
			return fmt.Errorf("%w: backend %q: default framework %q is not defined", ErrInvalidTable, backend, b.DefaultFramework)
		}
		for _, fw := range sortedKeys(b.Frameworks) {
			if err := validateSlots(b.Frameworks[fw].Slots); err != nil {
				return fmt.Errorf("%w: %s/%s: %v", ErrInvalidTable, backend, fw, err)
			}
		}
	}
	return nil
}

func validateSlots(slots []Slot) error {
	if len(slots) == 0 {
		return fmt.Errorf("no slots defined")
	}
	seen := make(map[string]bool, len(slots))
	for i, s := range slots {
		switch {
		case strings.TrimSpace(s.Name) == "":
			return fmt.Errorf("slot #%d has no name", i+1)
		case seen[s.Name]:
			return fmt.Errorf("duplicate slot %q", s.Name)
		case strings.TrimSpace(s.Asset) == "":
			return fmt.Errorf("slot %q has no asset", s.Name)
		case strings.TrimSpace(s.Output) == "":
			return fmt.Errorf("slot %q has no output path", s.Name)
		}
		switch s.Scope {
		case ScopeGlobal:
		case ScopeEntity:
			if !strings.Contains(s.Output, defs.EntityPlaceholder) {
				return fmt.Errorf("entity slot %q output %q lacks %s", s.Name, s.Output, defs.EntityPlaceholder)
			}
		default:
			return fmt.Errorf("slot %q has invalid scope %q", s.Name, s.Scope)
		}
		seen[s.Name] = true
	}
	return nil
}

// Backends returns the supported backends, sorted.
func (t *Table) Backends() []string {
	return sortedKeys(t.backends)
}

// DefaultBackend returns the backend used when a selection leaves it empty.
func (t *Table) DefaultBackend() string {
	return t.defaultBackend
}

// DefaultFramework returns the default framework of backend, or "" when the
// backend is unknown.
func (t *Table) DefaultFramework(backend string) string {
	return t.backends[strings.ToLower(strings.TrimSpace(backend))].DefaultFramework
}

// Frameworks returns the frameworks supported by backend, sorted. An unknown
// backend yields nil.
func (t *Table) Frameworks(backend string) []string {
	b, ok := t.backends[strings.ToLower(strings.TrimSpace(backend))]
	if !ok {
		return nil
	}
	return sortedKeys(b.Frameworks)
}

// AllFrameworks returns every framework supported by any backend, sorted.
func (t *Table) AllFrameworks() []string {
	var all []string
	for _, b := range t.backends {
		for fw := range b.Frameworks {
			if !slices.Contains(all, fw) {
				all = append(all, fw)
			}
		}
	}
	sort.Strings(all)
	return all
}

// @MX:ANCHOR: [AUTO] Resolve maps a user selection to the slot set every later stage consumes.
// @MX:REASON: [AUTO] sole entry point from the generator and the CLI into the capability table
// Resolve normalizes the selection, substitutes defaults for empty values
// and returns a fresh SlotMap. The returned map is owned by the caller.
func (t *Table) Resolve(backend, framework string) (*SlotMap, error) {
	sel := models.TechSelection{Backend: backend, Framework: framework}.Normalize()
	if sel.Backend == "" {
		sel.Backend = t.defaultBackend
	}

	b, ok := t.backends[sel.Backend]
	if !ok {
		return nil, t.unsupported(sel)
	}
	if sel.Framework == "" {
		sel.Framework = b.DefaultFramework
	}
	fw, ok := b.Frameworks[sel.Framework]
	if !ok {
		return nil, t.unsupported(sel)
	}

	return &SlotMap{
		Selection: sel,
		Slots:     slices.Clone(fw.Slots),
	}, nil
}

// unsupported lists the frameworks of sel.Backend when it is known and
// every framework otherwise.
func (t *Table) unsupported(sel models.TechSelection) error {
	frameworks := t.Frameworks(sel.Backend)
	if frameworks == nil {
		frameworks = t.AllFrameworks()
	}
	return &UnsupportedTechnologyError{
		Backend:             sel.Backend,
		Framework:           sel.Framework,
		SupportedBackends:   t.Backends(),
		SupportedFrameworks: frameworks,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
