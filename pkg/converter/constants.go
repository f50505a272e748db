package converter

import "time"

// Limits and defaults applied by the pipeline and used when setting up
// Viper defaults in the configuration loading process.
const (
	// DefaultMaxInputLength is the largest input, in characters, the pipeline accepts.
	DefaultMaxInputLength = 100000
	// DefaultMaxOutputLength is the length, in characters, at which FormatOutput truncates.
	DefaultMaxOutputLength = 50000
	// DefaultDebounceString is the default debounce for interactive re-processing.
	DefaultDebounceString = "300ms"
	// DefaultDebounceInterval is the parsed form of DefaultDebounceString.
	DefaultDebounceInterval = 300 * time.Millisecond
	// DefaultLocale selects the built-in English labels.
	DefaultLocale = "en"
	// DefaultTimezone formats dates in the host's local zone.
	DefaultTimezone = "Local"
	// DefaultOutputFormat is the format used for non-interactive output.
	DefaultOutputFormat = OutputFormatText
	// DefaultInteractive controls whether a TTY without input opens the TUI.
	DefaultInteractive = true
	// DefaultEncoding is the fallback charset for file and stdin input whose
	// encoding cannot be determined.
	DefaultEncoding = "utf-8"
	// DefaultVerbose is the default state for verbose logging.
	DefaultVerbose = false
)

// Formatting constants shared by FormatOutput and its tests.
const (
	// RuleWidth is the number of box-drawing characters in a separator rule.
	RuleWidth = 40
	// ReportSchemaVersion tags structured (json/yaml/toml) report output.
	ReportSchemaVersion = "1.0"
)

// Timestamp bounds for numeric input. Values outside ±8.64e15 ms cannot be
// represented as a calendar date and are skipped silently.
const (
	maxTimestampMillis = 8_640_000_000_000_000
)

// Config exposes the pipeline tunables to callers that pre-validate input or
// schedule re-processing.
type Config struct {
	MaxInputLength   int           `json:"maxInputLength"`
	MaxOutputLength  int           `json:"maxOutputLength"`
	DebounceInterval time.Duration `json:"debounceInterval"`
}

// GetConfig returns the fixed pipeline configuration.
func GetConfig() Config {
	return Config{
		MaxInputLength:   DefaultMaxInputLength,
		MaxOutputLength:  DefaultMaxOutputLength,
		DebounceInterval: DefaultDebounceInterval,
	}
}
