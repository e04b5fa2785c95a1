package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar reports determinate progress, one step per written file.
type ProgressBar interface {
	// Advance sets the completed count and the label of the last step.
	Advance(done int, label string)
	// Done completes the bar and releases the terminal.
	Done()
}

// Spinner reports indeterminate progress.
type Spinner interface {
	Stop()
}

// Progress creates progress indicators that fall back to plain log lines
// when headless or colourless.
type Progress struct {
	theme    *Theme
	headless *HeadlessManager
	writer   io.Writer
}

// NewProgress creates a Progress writing to w.
func NewProgress(theme *Theme, hm *HeadlessManager, w io.Writer) *Progress {
	return &Progress{theme: theme, headless: hm, writer: w}
}

func (p *Progress) plain() bool {
	return p.headless.IsHeadless() || p.theme.NoColor || !IsTerminal(p.writer)
}

// Start creates a progress bar for total steps.
func (p *Progress) Start(title string, total int) ProgressBar {
	if p.plain() {
		return &headlessProgressBar{total: total, writer: p.writer}
	}
	return newInteractiveProgressBar(p.theme, title, total, p.writer)
}

// Spinner shows title until Stop is called.
func (p *Progress) Spinner(title string) Spinner {
	if p.plain() {
		_, _ = fmt.Fprintln(p.writer, title)
		return headlessSpinner{}
	}
	return newInteractiveSpinner(p.theme, title, p.writer)
}

// --- interactive progress bar ---

type progressStepMsg struct {
	done  int
	label string
}

type progressDoneMsg struct{}

// progressModel is the bubbletea Model for the file progress bar.
type progressModel struct {
	bar     progress.Model
	theme   *Theme
	title   string
	label   string
	current int
	total   int
	done    bool
}

func newProgressModel(theme *Theme, title string, total int) progressModel {
	bar := progress.New(
		progress.WithGradient(theme.Colors.Primary, theme.Colors.Secondary),
		progress.WithWidth(40),
	)
	return progressModel{bar: bar, theme: theme, title: title, total: total}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressStepMsg:
		m.current = min(msg.done, m.total)
		m.label = msg.label
		return m, nil
	case progressDoneMsg:
		m.current = m.total
		m.done = true
		return m, tea.Quit
	case progress.FrameMsg:
		pm, cmd := m.bar.Update(msg)
		m.bar = pm.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.current) / float64(m.total)
	}
	return fmt.Sprintf("%s %s [%d/%d] %s\n", m.title, m.bar.ViewAs(pct), m.current, m.total, m.theme.Muted(m.label))
}

type interactiveProgressBar struct {
	program *tea.Program
	once    sync.Once
}

// @MX:WARN: [AUTO] the program runs in its own goroutine; Done must be called to release the terminal
// @MX:REASON: [AUTO] the goroutine lives as long as the tea program
func newInteractiveProgressBar(theme *Theme, title string, total int, w io.Writer) *interactiveProgressBar {
	p := tea.NewProgram(newProgressModel(theme, title, total), tea.WithOutput(w), tea.WithInput(nil))
	go func() {
		_, _ = p.Run()
	}()
	return &interactiveProgressBar{program: p}
}

func (b *interactiveProgressBar) Advance(done int, label string) {
	b.program.Send(progressStepMsg{done: done, label: label})
}

func (b *interactiveProgressBar) Done() {
	b.once.Do(func() {
		b.program.Send(progressDoneMsg{})
		b.program.Wait()
	})
}

// --- headless progress bar ---

// headlessProgressBar writes one "[i/n] label" line per step.
type headlessProgressBar struct {
	total   int
	current int
	writer  io.Writer
}

func (b *headlessProgressBar) Advance(done int, label string) {
	b.current = min(done, b.total)
	_, _ = fmt.Fprintf(b.writer, "[%d/%d] %s\n", b.current, b.total, label)
}

func (b *headlessProgressBar) Done() {}

// --- spinner ---

type spinnerStopMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	title   string
	done    bool
}

func newSpinnerModel(theme *Theme, title string) spinnerModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Colors.Primary))
	return spinnerModel{spinner: s, title: title}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerStopMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}

type interactiveSpinner struct {
	program *tea.Program
	once    sync.Once
}

func newInteractiveSpinner(theme *Theme, title string, w io.Writer) *interactiveSpinner {
	p := tea.NewProgram(newSpinnerModel(theme, title), tea.WithOutput(w), tea.WithInput(nil))
	go func() {
		_, _ = p.Run()
	}()
	return &interactiveSpinner{program: p}
}

func (s *interactiveSpinner) Stop() {
	s.once.Do(func() {
		s.program.Send(spinnerStopMsg{})
		s.program.Wait()
	})
}

type headlessSpinner struct{}

func (headlessSpinner) Stop() {}
