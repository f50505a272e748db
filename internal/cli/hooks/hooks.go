package hooks

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stackvity/devconv/pkg/converter"
)

// --- TUI Message Structs ---

// StatsMsg summarizes a finished Process call for the interactive UI footer.
// Seq is the edit number passed to BeginRun, zero outside a tagged run.
type StatsMsg struct {
	Seq          int
	Results      int
	Errors       int
	InputTooLong bool
	Elapsed      time.Duration
}

// --- Hook Implementation ---

// CLIHooks implements the converter.Hooks interface, bridging library events
// to the CLI's UI layer (TUI or logger).
type CLIHooks struct {
	logger         *slog.Logger
	tuiEnabled     bool
	verboseEnabled bool
	mu             sync.RWMutex // Protects tuiProgram and seq
	tuiProgram     TUIProgram
	seq            int
	runMu          sync.Mutex // Held for the duration of a tagged run
}

// TUIProgram defines the interface needed to interact with the Bubble Tea program.
type TUIProgram interface {
	Send(msg tea.Msg)
}

// NoOpTUIProgram provides a default null implementation.
type NoOpTUIProgram struct{}

// Send implements TUIProgram.
func (n *NoOpTUIProgram) Send(msg tea.Msg) {}

// NewCLIHooks creates a new CLIHooks instance. Pass nil for tuiProg when the
// program does not exist yet; attach it later with AttachProgram.
func NewCLIHooks(logger *slog.Logger, tuiEnabled, verboseEnabled bool, tuiProg TUIProgram) *CLIHooks {
	if tuiProg == nil {
		tuiProg = &NoOpTUIProgram{}
	}
	return &CLIHooks{
		logger:         logger,
		tuiEnabled:     tuiEnabled,
		verboseEnabled: verboseEnabled,
		tuiProgram:     tuiProg,
	}
}

// AttachProgram sets the program that receives TUI messages. The converter
// needs its hooks before the program that renders it can be built.
func (h *CLIHooks) AttachProgram(p TUIProgram) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p == nil {
		p = &NoOpTUIProgram{}
	}
	h.tuiProgram = p
}

// BeginRun tags the StatsMsg of the next Process call with seq. Tagged runs
// are serialized; call the returned func when Process has returned.
func (h *CLIHooks) BeginRun(seq int) (end func()) {
	h.runMu.Lock()
	h.mu.Lock()
	h.seq = seq
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		h.seq = 0
		h.mu.Unlock()
		h.runMu.Unlock()
	}
}

func (h *CLIHooks) program() (TUIProgram, int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tuiProgram, h.seq
}

// --- Interface Method Implementations ---

// OnResult logs each result in verbose mode. The TUI renders results from
// the pipeline output directly.
func (h *CLIHooks) OnResult(result converter.ConversionResult) error {
	if h.tuiEnabled || !h.verboseEnabled {
		return nil
	}
	h.logger.Debug("Conversion result",
		slog.String("category", string(result.Category)),
		slog.String("label", result.Label),
		slog.Int("length", len(result.Content)),
	)
	return nil
}

// OnError logs converter failures in verbose mode and always warns about
// rejected input outside the TUI.
func (h *CLIHooks) OnError(category converter.Category, err error) error {
	if h.tuiEnabled {
		return nil
	}
	if errors.Is(err, converter.ErrInputTooLong) {
		h.logger.Warn("Input rejected", slog.String("error", err.Error()))
		return nil
	}
	if h.verboseEnabled {
		h.logger.Debug("Conversion failed",
			slog.String("category", string(category)),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// OnComplete sends a StatsMsg to the TUI or logs a summary in verbose mode.
func (h *CLIHooks) OnComplete(output converter.PipelineOutput, elapsed time.Duration) error {
	if h.tuiEnabled {
		program, seq := h.program()
		program.Send(StatsMsg{
			Seq:          seq,
			Results:      len(output.Results),
			Errors:       len(output.Errors),
			InputTooLong: output.InputTooLong,
			Elapsed:      elapsed,
		})
		return nil
	}
	if h.verboseEnabled {
		h.logger.Debug("Conversion complete",
			slog.Int("results", len(output.Results)),
			slog.Int("errors", len(output.Errors)),
			slog.Int("inputLength", output.InputLength),
			slog.Duration("elapsed", elapsed),
		)
	}
	return nil
}
