package converter

import (
	"log/slog"
	"text/template"
	"time"

	"github.com/stackvity/devconv/pkg/converter/datetime"
	"github.com/stackvity/devconv/pkg/converter/encoding"
	"github.com/stackvity/devconv/pkg/converter/i18n"
	tpl "github.com/stackvity/devconv/pkg/converter/template"
)

// Hooks defines callbacks for observing a Process call.
// Implementations MUST be safe for concurrent use; one Converter may serve
// several goroutines. Errors returned by hooks are logged and otherwise ignored.
type Hooks interface {
	// OnResult is called once per emitted result, in display order.
	OnResult(result ConversionResult) error
	// OnError is called once per converter failure with the wrapped sentinel
	// error (ErrJSONParse, ErrJWTDecode, ...). It is also called for
	// ErrInputTooLong, with an empty category.
	OnError(category Category, err error) error
	// OnComplete is called when Process returns.
	OnComplete(output PipelineOutput, elapsed time.Duration) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks interface.
type NoOpHooks struct{}

// OnResult implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnResult(result ConversionResult) error { return nil }

// OnError implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnError(category Category, err error) error { return nil }

// OnComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnComplete(output PipelineOutput, elapsed time.Duration) error { return nil }

// Options holds all configuration for a Converter and the CLI around it.
type Options struct {
	// --- Application Info ---
	AppVersion     string `mapstructure:"-"` // Application version, populated by the caller
	ConfigFilePath string `mapstructure:"-"` // Path to the loaded config file (for reporting)
	ProfileName    string `mapstructure:"-"` // Name of the profile used (for reporting)

	// --- Conversion ---
	Features FeatureFlags `mapstructure:"features"` // Per-category toggles
	Locale   string       `mapstructure:"locale"`   // BCP 47 tag for labels ("en", "zh-CN")
	Timezone string       `mapstructure:"timezone"` // IANA zone for dates ("Local", "UTC", "Asia/Shanghai")

	// --- Input ---
	InputFile       string `mapstructure:"-"`               // Read input from this file (set by --file)
	DefaultEncoding string `mapstructure:"defaultEncoding"` // Fallback charset for undetectable input

	// --- Output & Formatting ---
	OutputFormat OutputFormat       `mapstructure:"outputFormat"` // ("text", "json", "yaml", "toml", "markdown")
	TemplatePath string             `mapstructure:"templateFile"` // Path to custom template file
	Template     *template.Template `mapstructure:"-"`            // Parsed custom template (nil for none)

	// --- Interactive Mode ---
	Interactive    bool          `mapstructure:"interactive"` // Open the TUI when stdin is a terminal and no input is given
	DebounceString string        `mapstructure:"debounce"`    // Debounce for re-processing while typing
	Debounce       time.Duration `mapstructure:"-"`           // Derived from DebounceString

	// --- Behavior & Control ---
	Verbose bool `mapstructure:"verbose"` // Enable debug logging

	// --- Injected Dependencies ---
	EventHooks       Hooks                    `mapstructure:"-"` // Required: Callback interface
	Logger           slog.Handler             `mapstructure:"-"` // Required: Logging backend
	Translator       i18n.Translator          `mapstructure:"-"` // Optional: derived from Locale when nil
	DateTime         datetime.Collaborator    `mapstructure:"-"` // Optional: derived from Timezone when nil
	EncodingHandler  encoding.EncodingHandler `mapstructure:"-"` // Optional: input charset handling for the CLI
	TemplateExecutor tpl.TemplateExecutor     `mapstructure:"-"` // Optional: renders markdown/custom output
}

// DefaultOptions returns Options populated with the package defaults and
// no-op collaborators, suitable for library use without a config file.
func DefaultOptions() Options {
	return Options{
		Features:        DefaultFeatureFlags(),
		Locale:          DefaultLocale,
		Timezone:        DefaultTimezone,
		DefaultEncoding: DefaultEncoding,
		OutputFormat:    DefaultOutputFormat,
		Interactive:     DefaultInteractive,
		DebounceString:  DefaultDebounceString,
		Debounce:        DefaultDebounceInterval,
		Verbose:         DefaultVerbose,
		EventHooks:      &NoOpHooks{},
		Logger:          slog.DiscardHandler,
	}
}
