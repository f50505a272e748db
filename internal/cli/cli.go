package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	clihooks "github.com/stackvity/devconv/internal/cli/hooks"
	"github.com/stackvity/devconv/internal/cli/ui"
	"github.com/stackvity/devconv/pkg/converter"
	"github.com/stackvity/devconv/pkg/converter/encoding"
)

// ErrNoInput is returned when there is nothing to convert and the
// interactive UI is not available.
var ErrNoInput = errors.New("no input provided: pass text as arguments, use --file, or pipe to stdin")

// Streams are the process streams Run reads from and writes to.
type Streams struct {
	Stdin           io.Reader
	Stdout          io.Writer
	StdinIsTerminal bool
}

// Run orchestrates one invocation after configuration loading. Input comes
// from the positional args, --file or stdin, in that order; with none of them
// and a terminal on stdin it opens the interactive UI instead.
func Run(ctx context.Context, opts converter.Options, logger *slog.Logger, args []string, streams Streams) error {
	if len(args) > 0 && opts.InputFile != "" {
		return fmt.Errorf("%w: positional input cannot be combined with --file", converter.ErrConfigValidation)
	}

	noInput := len(args) == 0 && opts.InputFile == "" && streams.StdinIsTerminal
	interactive := noInput && opts.Interactive

	hooks := clihooks.NewCLIHooks(logger, interactive, opts.Verbose, nil)
	opts.EventHooks = hooks

	conv, err := converter.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize converter: %w", err)
	}

	if interactive {
		return runInteractive(ctx, conv, opts, hooks, streams)
	}
	if noInput {
		return ErrNoInput
	}

	input, err := readInput(args, opts, logger, streams.Stdin)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	out := conv.Process(input, &opts.Features)
	report := converter.NewReport(input, out)
	if err := conv.Render(streams.Stdout, report, opts.OutputFormat, opts.Template, opts.TemplateExecutor); err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}

	if out.InputTooLong {
		return fmt.Errorf("%w: %d characters", converter.ErrInputTooLong, out.InputLength)
	}
	return nil
}

// runInteractive starts the TUI and blocks until the user quits or ctx is done.
func runInteractive(ctx context.Context, conv *converter.Converter, opts converter.Options, hooks *clihooks.CLIHooks, streams Streams) error {
	model := ui.NewModel(conv, ui.Config{
		Features: opts.Features,
		Debounce: opts.Debounce,
		Version:  opts.AppVersion,
		Runs:     hooks,
	})

	p := tea.NewProgram(&model,
		tea.WithContext(ctx),
		tea.WithInput(streams.Stdin),
		tea.WithOutput(streams.Stdout),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	hooks.AttachProgram(p)
	defer hooks.AttachProgram(nil)

	if _, err := p.Run(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("interactive UI failed: %w", err)
	}
	return nil
}

// readInput returns the text to convert. File and stdin content is checked
// for binary data and converted to UTF-8; one trailing newline is dropped.
func readInput(args []string, opts converter.Options, logger *slog.Logger, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	var (
		raw    []byte
		err    error
		source = "stdin"
	)
	if opts.InputFile != "" {
		source = opts.InputFile
		raw, err = os.ReadFile(opts.InputFile)
	} else {
		raw, err = io.ReadAll(stdin)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input from %s: %w", source, err)
	}

	handler := opts.EncodingHandler
	if handler == nil {
		handler = encoding.NewGoCharsetEncodingHandler(opts.DefaultEncoding)
	}
	if handler.IsBinary(raw) {
		return "", fmt.Errorf("%w: %s", converter.ErrBinaryInput, source)
	}

	decoded, enc, certain, err := handler.DetectAndDecode(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode input from %s: %w", source, err)
	}
	if enc != "utf-8" || !certain {
		logger.Debug("Decoded input", slog.String("source", source), slog.String("encoding", enc), slog.Bool("certain", certain))
	}

	text := string(decoded)
	if trimmed, ok := strings.CutSuffix(text, "\n"); ok {
		text = strings.TrimSuffix(trimmed, "\r")
	}
	return text, nil
}
