package template

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/modu-ai/apigen/internal/assets"
	"github.com/modu-ai/apigen/internal/stack"
	"github.com/modu-ai/apigen/pkg/models"
)

func threeEntitySchema() *models.Schema {
	return &models.Schema{Entities: []models.Entity{
		{Name: "User", Fields: []models.Field{{Name: "id", FieldType: "integer"}, {Name: "name", FieldType: "text"}}},
		{Name: "Product", Fields: []models.Field{{Name: "id", FieldType: "integer"}, {Name: "price", FieldType: "float"}}},
		{Name: "Order", Fields: []models.Field{{Name: "id", FieldType: "integer"}, {Name: "quantity", FieldType: "integer"}}},
	}}
}

func twoSlotMap() *stack.SlotMap {
	return &stack.SlotMap{Slots: []stack.Slot{
		{Name: "mod", Scope: stack.ScopeGlobal, Asset: "mod.tmpl", Output: "src/api/mod.rs"},
		{Name: "entity", Scope: stack.ScopeEntity, Asset: "entity.tmpl", Output: "src/api/{entity}.rs"},
	}}
}

func testRepo(files map[string]string) assets.Repository {
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return assets.NewFSRepository(fsys)
}

func TestEngineRender_FanOut(t *testing.T) {
	t.Parallel()

	repo := testRepo(map[string]string{
		"mod.tmpl":    "{{ range .entities }}pub mod {{ .name | lower }};\n{{ end }}",
		"entity.tmpl": "struct {{ .entity.name | capitalize_first }} in {{ .project.name }} ({{ len .entity.fields }} fields)",
	})

	e := NewEngine()
	if err := e.Load(twoSlotMap(), repo); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	files, err := e.Render(context.Background(), threeEntitySchema(), ProjectInfo{Name: "shop"})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	type summary struct{ Slot, Entity, Path, Content string }
	var got []summary
	for _, f := range files {
		got = append(got, summary{f.Slot, f.Entity, f.Path, string(f.Content)})
	}
	want := []summary{
		{"mod", "", "src/api/mod.rs", "pub mod user;\npub mod product;\npub mod order;\n"},
		{"entity", "User", "src/api/user.rs", "struct User in shop (2 fields)"},
		{"entity", "Product", "src/api/product.rs", "struct Product in shop (2 fields)"},
		{"entity", "Order", "src/api/order.rs", "struct Order in shop (2 fields)"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered files mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		repo     assets.Repository
		wantSlot string
		wantErr  error
	}{
		{
			name:     "missing_asset",
			repo:     testRepo(map[string]string{"mod.tmpl": "ok"}),
			wantSlot: "entity",
			wantErr:  assets.ErrNotFound,
		},
		{
			name: "not_utf8",
			repo: assets.NewFSRepository(fstest.MapFS{
				"mod.tmpl":    &fstest.MapFile{Data: []byte{0xc3, 0x28}},
				"entity.tmpl": &fstest.MapFile{Data: []byte("ok")},
			}),
			wantSlot: "mod",
			wantErr:  assets.ErrNotUTF8,
		},
		{
			name:     "parse_failure",
			repo:     testRepo(map[string]string{"mod.tmpl": "{{ range .entities }}", "entity.tmpl": "ok"}),
			wantSlot: "mod",
		},
		{
			name:     "unknown_filter",
			repo:     testRepo(map[string]string{"mod.tmpl": "ok", "entity.tmpl": "{{ .entity.name | shout }}"}),
			wantSlot: "entity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewEngine()
			err := e.Load(twoSlotMap(), tt.repo)
			if !errors.Is(err, ErrAssetLoad) {
				t.Fatalf("expected ErrAssetLoad, got %v", err)
			}
			var ale *AssetLoadError
			if !errors.As(err, &ale) {
				t.Fatalf("expected *AssetLoadError, got %T", err)
			}
			if ale.Slot != tt.wantSlot {
				t.Errorf("Slot = %q, want %q", ale.Slot, tt.wantSlot)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v in chain, got %v", tt.wantErr, err)
			}

			if _, err := e.Render(context.Background(), threeEntitySchema(), ProjectInfo{}); !errors.Is(err, ErrNotLoaded) {
				t.Errorf("Render after failed Load: expected ErrNotLoaded, got %v", err)
			}
		})
	}
}

func TestEngineRender_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing_key_in_entity_slot", func(t *testing.T) {
		t.Parallel()

		repo := testRepo(map[string]string{
			"mod.tmpl":    "mod",
			"entity.tmpl": "{{ .entity.name }} {{ .entity.table }}",
		})
		e := NewEngine()
		if err := e.Load(twoSlotMap(), repo); err != nil {
			t.Fatalf("Load error: %v", err)
		}

		files, err := e.Render(context.Background(), threeEntitySchema(), ProjectInfo{})
		if files != nil {
			t.Error("no files should be returned on failure")
		}
		var re *RenderError
		if !errors.As(err, &re) {
			t.Fatalf("expected *RenderError, got %v", err)
		}
		if re.Slot != "entity" || re.Entity != "User" {
			t.Errorf("RenderError = {%q, %q}, want {entity, User}", re.Slot, re.Entity)
		}
		if !errors.Is(err, ErrRender) {
			t.Error("error should match ErrRender")
		}
		if !strings.Contains(err.Error(), `"User"`) {
			t.Errorf("message should name the entity: %q", err.Error())
		}
	})

	t.Run("missing_key_in_global_slot", func(t *testing.T) {
		t.Parallel()

		repo := testRepo(map[string]string{
			"mod.tmpl":    "{{ .project.version }}",
			"entity.tmpl": "ok",
		})
		e := NewEngine()
		if err := e.Load(twoSlotMap(), repo); err != nil {
			t.Fatalf("Load error: %v", err)
		}

		_, err := e.Render(context.Background(), threeEntitySchema(), ProjectInfo{})
		var re *RenderError
		if !errors.As(err, &re) {
			t.Fatalf("expected *RenderError, got %v", err)
		}
		if re.Slot != "mod" || re.Entity != "" {
			t.Errorf("RenderError = {%q, %q}, want {mod, \"\"}", re.Slot, re.Entity)
		}
	})

	t.Run("filter_misuse", func(t *testing.T) {
		t.Parallel()

		repo := testRepo(map[string]string{
			"mod.tmpl":    "{{ .entities | pluralize }}",
			"entity.tmpl": "ok",
		})
		e := NewEngine()
		if err := e.Load(twoSlotMap(), repo); err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if _, err := e.Render(context.Background(), threeEntitySchema(), ProjectInfo{}); !errors.Is(err, ErrRender) {
			t.Errorf("expected ErrRender, got %v", err)
		}
	})

	t.Run("cancelled_context", func(t *testing.T) {
		t.Parallel()

		repo := testRepo(map[string]string{"mod.tmpl": "mod", "entity.tmpl": "ok"})
		e := NewEngine()
		if err := e.Load(twoSlotMap(), repo); err != nil {
			t.Fatalf("Load error: %v", err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := e.Render(ctx, threeEntitySchema(), ProjectInfo{}); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestEngineRender_OutputPaths(t *testing.T) {
	t.Parallel()

	repo := testRepo(map[string]string{"mod.tmpl": "mod", "entity.tmpl": "{{ .entity.name }}"})
	entities := func(names ...string) *models.Schema {
		s := &models.Schema{}
		for _, n := range names {
			s.Entities = append(s.Entities, models.Entity{Name: n, Fields: []models.Field{{Name: "id", FieldType: "integer"}}})
		}
		return s
	}

	t.Run("trimmed_segment", func(t *testing.T) {
		t.Parallel()

		e := NewEngine()
		if err := e.Load(twoSlotMap(), repo); err != nil {
			t.Fatalf("Load error: %v", err)
		}
		files, err := e.Render(context.Background(), entities(" User "), ProjectInfo{})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if got := files[1].Path; got != "src/api/user.rs" {
			t.Errorf("Path = %q, want src/api/user.rs", got)
		}
	})

	conflicts := []struct {
		name   string
		schema *models.Schema
		want   PathConflictError
	}{
		{
			name:   "case_only_difference",
			schema: entities("User", "user", "USER"),
			want: PathConflictError{
				Path: "src/api/user.rs", Slot: "entity", Entity: "user",
				OtherSlot: "entity", OtherEntity: "User",
			},
		},
		{
			name:   "entity_shadows_global_slot",
			schema: entities("User", "Mod"),
			want: PathConflictError{
				Path: "src/api/mod.rs", Slot: "entity", Entity: "Mod",
				OtherSlot: "mod", OtherEntity: "",
			},
		},
	}
	for _, tt := range conflicts {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewEngine()
			if err := e.Load(twoSlotMap(), repo); err != nil {
				t.Fatalf("Load error: %v", err)
			}
			files, err := e.Render(context.Background(), tt.schema, ProjectInfo{})
			if files != nil {
				t.Error("no files should be returned on conflict")
			}
			if !errors.Is(err, ErrPathConflict) {
				t.Fatalf("expected ErrPathConflict, got %v", err)
			}
			var pce *PathConflictError
			if !errors.As(err, &pce) {
				t.Fatalf("expected *PathConflictError, got %T", err)
			}
			if diff := cmp.Diff(tt.want, *pce); diff != "" {
				t.Errorf("conflict mismatch (-want +got):\n%s", diff)
			}
		})
	}

	segments := []struct {
		name   string
		entity string
	}{
		{"parent_traversal", "../api/mod"},
		{"slash", "a/b"},
		{"backslash", `api\mod`},
		{"dot_dot", ".."},
		{"blank", "   "},
	}
	for _, tt := range segments {
		t.Run("rejects_"+tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewEngine()
			if err := e.Load(twoSlotMap(), repo); err != nil {
				t.Fatalf("Load error: %v", err)
			}
			_, err := e.Render(context.Background(), entities("User", tt.entity), ProjectInfo{})
			if !errors.Is(err, ErrInvalidPathSegment) {
				t.Fatalf("expected ErrInvalidPathSegment, got %v", err)
			}
			var pse *PathSegmentError
			if !errors.As(err, &pse) || pse.Entity != tt.entity || pse.Slot != "entity" {
				t.Errorf("PathSegmentError = %+v, want slot entity and entity %q", pse, tt.entity)
			}
		})
	}
}

func TestEngine_FuncsArePerEngine(t *testing.T) {
	t.Parallel()

	repo := testRepo(map[string]string{"mod.tmpl": "{{ \"user\" | pluralize }}", "entity.tmpl": "ok"})
	schema := threeEntitySchema()

	custom := NewEngine(WithFuncs(map[string]any{
		FilterPluralize: func(s string) string { return s + "en" },
	}))
	plain := NewEngine()

	for _, e := range []*Engine{custom, plain} {
		if err := e.Load(twoSlotMap(), repo); err != nil {
			t.Fatalf("Load error: %v", err)
		}
	}

	got, err := custom.Render(context.Background(), schema, ProjectInfo{})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if string(got[0].Content) != "useren" {
		t.Errorf("custom engine rendered %q, want useren", got[0].Content)
	}

	got, err = plain.Render(context.Background(), schema, ProjectInfo{})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if string(got[0].Content) != "users" {
		t.Errorf("plain engine rendered %q, want users", got[0].Content)
	}
}

func TestEngine_EmbeddedTemplates(t *testing.T) {
	t.Parallel()

	table, err := stack.Default()
	if err != nil {
		t.Fatalf("stack.Default() error: %v", err)
	}

	schema := &models.Schema{Entities: []models.Entity{
		{Name: "user", Fields: []models.Field{
			{Name: "id", FieldType: "integer"},
			{Name: "email", FieldType: "text"},
			{Name: "nickname", FieldType: "optional-text"},
			{Name: "tags", FieldType: "Vec<String>"},
		}},
		{Name: "OrderItem", Fields: []models.Field{
			{Name: "id", FieldType: "big-integer"},
			{Name: "placed_at", FieldType: "timestamp"},
		}},
	}}

	for _, framework := range table.Frameworks("postgres") {
		t.Run(framework, func(t *testing.T) {
			t.Parallel()

			slots, err := table.Resolve("postgres", framework)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			e := NewEngine()
			if err := e.Load(slots, assets.Embedded()); err != nil {
				t.Fatalf("Load error: %v", err)
			}
			files, err := e.Render(context.Background(), schema, ProjectInfo{ID: "ab12cd34", Name: "project_ab12cd34", Backend: "postgres", Framework: framework})
			if err != nil {
				t.Fatalf("Render error: %v", err)
			}
			if len(files) != slots.FileCount(len(schema.Entities)) {
				t.Fatalf("rendered %d files, want %d", len(files), slots.FileCount(len(schema.Entities)))
			}

			byPath := make(map[string]string, len(files))
			for _, f := range files {
				byPath[f.Path] = string(f.Content)
			}

			checks := map[string][]string{
				"src/schema.rs":        {"users (id) {", "email -> Text,", "nickname -> Nullable<Text>,", "tags -> Array<Text>,", "order_items (id) {", "id -> BigInt,"},
				"src/api/user.rs":      {"pub struct User {", "pub nickname: Option<String>,", "pub tags: Vec<String>,", "/users"},
				"src/api/orderitem.rs": {"pub struct OrderItem {", "pub placed_at: chrono::NaiveDateTime,"},
				"src/api/mod.rs":       {"pub mod user;", "pub mod orderitem;"},
				"src/main.rs":          {"mod api;", "api::orderitem::"},
				"Cargo.toml":           {`name = "project_ab12cd34"`, "diesel"},
				".gitignore":           {"/target"},
				"Dockerfile":           {"target/release/project_ab12cd34"},
				".env":                 {"DATABASE_URL=postgres://"},
			}
			for path, needles := range checks {
				content, ok := byPath[path]
				if !ok {
					t.Errorf("missing output %s", path)
					continue
				}
				for _, needle := range needles {
					if !strings.Contains(content, needle) {
						t.Errorf("%s does not contain %q:\n%s", path, needle, content)
					}
				}
			}
		})
	}
}
