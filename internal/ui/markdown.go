package ui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Markdown renders Markdown for the terminal. Plain mode returns the source
// unchanged so output stays pipeable.
type Markdown struct {
	plain bool
	style string
	width int
}

// NewMarkdown creates a Markdown renderer. Set plain when output is not a
// terminal or colour is disabled.
func NewMarkdown(plain, noColor bool) *Markdown {
	style := "dark"
	if noColor {
		style = "notty"
	}
	return &Markdown{plain: plain, style: style, width: 80}
}

// Render returns md formatted for the terminal.
func (m *Markdown) Render(md string) (string, error) {
	if m.plain {
		return md, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(m.width),
	)
	if err != nil {
		return "", fmt.Errorf("ui: markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("ui: render markdown: %w", err)
	}
	return out, nil
}
