package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stackvity/devconv/internal/cli/hooks" // Import hooks for message types
	"github.com/stackvity/devconv/pkg/converter"
	"github.com/stackvity/devconv/pkg/converter/codec"
)

// --- Constants ---

const (
	chromeHeight   = 3 // header, rule between panes, footer
	minInputHeight = 3
)

// --- Collaborators ---

// Converter is the part of *converter.Converter the UI drives.
type Converter interface {
	Process(input string, flags *converter.FeatureFlags) converter.PipelineOutput
	FormatOutput(out converter.PipelineOutput) string
}

// RunTracker tags the stats a conversion reports with its edit number.
// *hooks.CLIHooks implements it.
type RunTracker interface {
	BeginRun(seq int) (end func())
}

// Config carries the options the UI needs from converter.Options.
type Config struct {
	Features converter.FeatureFlags
	Debounce time.Duration
	Version  string
	Runs     RunTracker // optional; without it the footer never updates
}

// --- Messages ---

// debounceMsg fires after the debounce interval for a given edit.
type debounceMsg struct{ seq int }

// ConvertedMsg carries the pipeline result for the edit numbered Seq.
type ConvertedMsg struct {
	Seq    int
	Output converter.PipelineOutput
	Text   string
}

// --- Model Struct ---

// Model is the interactive converter: an input pane on top, the rendered
// conversions below. Every edit bumps seq; only the tick and result carrying
// the latest seq are applied, so a burst of keystrokes triggers one run.
type Model struct {
	input  textarea.Model
	output viewport.Model
	conv   Converter
	cfg    Config

	width       int
	height      int
	initialized bool
	quitting    bool

	seq       int
	lastInput string
	stats     hooks.StatsMsg
	hasStats  bool
}

// NewModel creates the initial model for the TUI.
func NewModel(conv Converter, cfg Config) Model {
	if cfg.Debounce <= 0 {
		cfg.Debounce = converter.DefaultDebounceInterval
	}

	ta := textarea.New()
	ta.Placeholder = "Paste a color, JSON, JWT, timestamp, URL, Base64 string or number..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Focus()

	return Model{
		input:  ta,
		output: viewport.New(0, 0),
		conv:   conv,
		cfg:    cfg,
	}
}

// --- Bubble Tea Interface Implementations ---

// Init starts the cursor blink.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles key presses, resizes, debounce ticks and conversion results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.quitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.output, cmd = m.output.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		if value := m.input.Value(); value != m.lastInput {
			m.lastInput = value
			cmds = append(cmds, m.scheduleConversion())
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		cmds = append(cmds, cmd)

	case debounceMsg:
		if msg.seq != m.seq {
			return m, nil // superseded by a later edit
		}
		input := m.input.Value()
		if codec.TrimWhitespace(input) == "" {
			m.output.SetContent("")
			m.stats, m.hasStats = hooks.StatsMsg{}, false
			return m, nil
		}
		return m, m.convert(msg.seq, input)

	case ConvertedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.output.SetContent(msg.Text)
		m.output.GotoTop()

	case hooks.StatsMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.stats = msg
		m.hasStats = true

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the current state of the TUI model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.initialized {
		return "Initializing..."
	}

	header := HeaderStyle.Width(m.width).Render("devconv " + m.cfg.Version)
	rule := RuleStyle.Render(strings.Repeat("─", m.width))
	footer := FooterStyle.Width(m.width).Render(m.statusLine() + "  |  esc: quit  pgup/pgdn: scroll")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.input.View(),
		rule,
		m.output.View(),
		footer,
	)
}

// --- Helper Methods ---

// resize splits the terminal between the panes: a third for input (at
// least minInputHeight lines) and the rest for output.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	inputHeight := max(minInputHeight, (height-chromeHeight)/3)
	m.input.SetWidth(width)
	m.input.SetHeight(inputHeight)

	m.output.Width = width
	m.output.Height = max(1, height-chromeHeight-inputHeight)
	m.initialized = true
}

// scheduleConversion starts the debounce timer for the current edit.
func (m *Model) scheduleConversion() tea.Cmd {
	m.seq++
	seq := m.seq
	return tea.Tick(m.cfg.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

// convert runs the pipeline off the update loop.
func (m *Model) convert(seq int, input string) tea.Cmd {
	conv := m.conv
	flags := m.cfg.Features
	runs := m.cfg.Runs
	return func() tea.Msg {
		if codec.TrimWhitespace(input) == "" {
			return ConvertedMsg{Seq: seq}
		}
		if runs != nil {
			defer runs.BeginRun(seq)()
		}
		out := conv.Process(input, &flags)
		return ConvertedMsg{Seq: seq, Output: out, Text: renderOutput(conv.FormatOutput(out))}
	}
}

func (m *Model) statusLine() string {
	switch {
	case !m.hasStats:
		return "Type or paste text to convert"
	case m.stats.InputTooLong:
		return StatusStyleFailed.Render("Input too long")
	case m.stats.Errors > 0:
		return fmt.Sprintf("%d results · %s · %s", m.stats.Results,
			StatusStyleFailed.Render(fmt.Sprintf("%d failed", m.stats.Errors)), formatDuration(m.stats.Elapsed))
	}
	return fmt.Sprintf("%d results · %s", m.stats.Results, formatDuration(m.stats.Elapsed))
}

// renderOutput styles the label, summary and error lines of FormatOutput text.
func renderOutput(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "【"):
			lines[i] = LabelStyle.Render(line)
		case strings.HasPrefix(line, "⚠"), strings.HasPrefix(line, "❌"):
			lines[i] = StatusStyleFailed.Render(line)
		case strings.HasPrefix(line, "• "):
			lines[i] = ErrorItemStyle.Render(line)
		case strings.HasPrefix(line, "─"):
			lines[i] = RuleStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// formatDuration formats duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		if d == 0 {
			return "0µs"
		}
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// --- Styles ---

const (
	ColorHeaderFg = lipgloss.Color("252") // Light Gray
	ColorHeaderBg = lipgloss.Color("62")  // Purple

	ColorFooterFg = lipgloss.Color("252")
	ColorFooterBg = lipgloss.Color("56") // Dark Pink/Purple

	ColorLabel     = lipgloss.Color("39")  // Blue
	ColorRule      = lipgloss.Color("240") // Dim gray
	ColorFailed    = lipgloss.Color("196") // Red
	ColorErrorItem = lipgloss.Color("214") // Orange/Yellow
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeaderFg).
			Background(ColorHeaderBg).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorFooterFg).
			Background(ColorFooterBg).
			Padding(0, 1)

	LabelStyle        = lipgloss.NewStyle().Bold(true).Foreground(ColorLabel)
	RuleStyle         = lipgloss.NewStyle().Foreground(ColorRule)
	StatusStyleFailed = lipgloss.NewStyle().Foreground(ColorFailed)
	ErrorItemStyle    = lipgloss.NewStyle().Foreground(ColorErrorItem)
)
