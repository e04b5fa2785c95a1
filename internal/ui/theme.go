package ui

import "github.com/charmbracelet/lipgloss"

// Palette holds the hex colours of a Theme.
type Palette struct {
	Primary   string
	Secondary string
	Success   string
	Error     string
	Muted     string
}

// Theme renders styled CLI output. With NoColor set every style is a no-op.
type Theme struct {
	NoColor bool
	Colors  Palette
}

// NewTheme returns the default apigen theme.
func NewTheme(noColor bool) *Theme {
	return &Theme{
		NoColor: noColor,
		Colors: Palette{
			Primary:   "#DA7756",
			Secondary: "#7C3AED",
			Success:   "#10B981",
			Error:     "#EF4444",
			Muted:     "#6B7280",
		},
	}
}

func (t *Theme) style(color string, bold bool) lipgloss.Style {
	s := lipgloss.NewStyle()
	if t.NoColor {
		return s
	}
	return s.Foreground(lipgloss.Color(color)).Bold(bold)
}

// Title styles a heading.
func (t *Theme) Title(s string) string { return t.style(t.Colors.Primary, true).Render(s) }

// Success styles a success message.
func (t *Theme) Success(s string) string { return t.style(t.Colors.Success, true).Render(s) }

// Error styles an error message.
func (t *Theme) Error(s string) string { return t.style(t.Colors.Error, true).Render(s) }

// Muted styles secondary detail such as paths.
func (t *Theme) Muted(s string) string { return t.style(t.Colors.Muted, false).Render(s) }

// Key styles a label in a key/value listing.
func (t *Theme) Key(s string) string { return t.style(t.Colors.Secondary, true).Render(s) }
