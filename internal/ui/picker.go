package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled indicates the user aborted an interactive selection.
var ErrCancelled = errors.New("ui: selection cancelled")

// Picker asks the user to choose one value from a list.
type Picker struct {
	theme    *Theme
	headless *HeadlessManager
}

// NewPicker creates a Picker.
func NewPicker(theme *Theme, hm *HeadlessManager) *Picker {
	return &Picker{theme: theme, headless: hm}
}

// Select returns the chosen option. In headless mode, or when there is only
// one option, it returns def (or the first option when def is not listed)
// without prompting.
func (p *Picker) Select(ctx context.Context, title string, options []string, def string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("ui: no options for %q", title)
	}
	if !slices.Contains(options, def) {
		def = options[0]
	}
	if p.headless.IsHeadless() || len(options) == 1 {
		return def, nil
	}

	selected := def
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		label := o
		if o == def {
			label = o + " (default)"
		}
		opts[i] = huh.NewOption(label, o)
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(title).
			Options(opts...).
			Value(&selected),
	)).WithTheme(newPickerTheme(p.theme))

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("ui: select %s: %w", title, err)
	}
	return selected, nil
}

// newPickerTheme maps the CLI palette onto a huh theme.
func newPickerTheme(theme *Theme) *huh.Theme {
	t := huh.ThemeBase()
	if theme.NoColor {
		return t
	}

	primary := lipgloss.Color(theme.Colors.Primary)
	green := lipgloss.Color(theme.Colors.Success)
	muted := lipgloss.Color(theme.Colors.Muted)

	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(primary).SetString("▸ ")
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(green)
	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	return t
}
