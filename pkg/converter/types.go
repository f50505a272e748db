package converter

// Category identifies the family of formats a result or error belongs to.
type Category string

// Constants representing the supported format categories, in pipeline order.
const (
	CategoryColor     Category = "Color"
	CategoryJSON      Category = "JSON"
	CategoryJWT       Category = "JWT"
	CategoryTimestamp Category = "Timestamp"
	CategoryURL       Category = "URL"
	CategoryBase64    Category = "Base64"
	CategoryNumber    Category = "Number"
)

// Categories returns every Category in the order the pipeline evaluates them.
func Categories() []Category {
	return []Category{
		CategoryColor, CategoryJSON, CategoryJWT, CategoryTimestamp,
		CategoryURL, CategoryBase64, CategoryNumber,
	}
}

// ConversionResult is one labeled alternate representation of the input.
// Results are display-ordered by insertion and never sorted.
type ConversionResult struct {
	Category       Category `json:"category" yaml:"category" toml:"category"`
	Label          string   `json:"label" yaml:"label" toml:"label"`
	Content        string   `json:"content" yaml:"content" toml:"content"`
	NeedsHighlight bool     `json:"needsHighlight" yaml:"needsHighlight" toml:"needsHighlight"`
}

// ConversionError records a category whose detector fired but whose
// converter could not produce a result.
type ConversionError struct {
	Category Category `json:"category" yaml:"category" toml:"category"`
	Message  string   `json:"message" yaml:"message" toml:"message"`
}

// FeatureFlags toggles each category. The zero value disables everything;
// use DefaultFeatureFlags or pass a nil pointer to Process for all-on.
type FeatureFlags struct {
	EnableColor     bool `mapstructure:"color"`
	EnableJSON      bool `mapstructure:"json"`
	EnableJWT       bool `mapstructure:"jwt"`
	EnableTimestamp bool `mapstructure:"timestamp"`
	EnableURL       bool `mapstructure:"url"`
	EnableBase64    bool `mapstructure:"base64"`
	EnableNumber    bool `mapstructure:"number"`
}

// DefaultFeatureFlags returns a bundle with every category enabled.
func DefaultFeatureFlags() FeatureFlags {
	return FeatureFlags{
		EnableColor:     true,
		EnableJSON:      true,
		EnableJWT:       true,
		EnableTimestamp: true,
		EnableURL:       true,
		EnableBase64:    true,
		EnableNumber:    true,
	}
}

// Enabled reports whether category c is switched on. Unknown categories are off.
func (f FeatureFlags) Enabled(c Category) bool {
	switch c {
	case CategoryColor:
		return f.EnableColor
	case CategoryJSON:
		return f.EnableJSON
	case CategoryJWT:
		return f.EnableJWT
	case CategoryTimestamp:
		return f.EnableTimestamp
	case CategoryURL:
		return f.EnableURL
	case CategoryBase64:
		return f.EnableBase64
	case CategoryNumber:
		return f.EnableNumber
	}
	return false
}

// PipelineOutput is the structured result of a single Process call.
// It is freshly allocated per call and owned by the caller.
type PipelineOutput struct {
	Results []ConversionResult `json:"results" yaml:"results" toml:"results"`
	Errors  []ConversionError  `json:"errors" yaml:"errors" toml:"errors"`
	// Truncated is set when the input was rejected for length.
	Truncated bool `json:"truncated" yaml:"truncated" toml:"truncated"`
	// InputTooLong is set when the length guard short-circuited the pipeline.
	InputTooLong bool `json:"inputTooLong" yaml:"inputTooLong" toml:"inputTooLong"`
	// InputLength is the raw input length in characters.
	InputLength int `json:"inputLength" yaml:"inputLength" toml:"inputLength"`
	// InputError carries the localized input-too-long message.
	InputError string `json:"inputError,omitempty" yaml:"inputError,omitempty" toml:"inputError,omitempty"`
}

// OutputFormat selects how the CLI renders a PipelineOutput.
type OutputFormat string

// Constants representing the defined output formats.
const (
	OutputFormatText     OutputFormat = "text"
	OutputFormatJSON     OutputFormat = "json"
	OutputFormatYAML     OutputFormat = "yaml"
	OutputFormatTOML     OutputFormat = "toml"
	OutputFormatMarkdown OutputFormat = "markdown"
)

// OutputFormats lists every supported OutputFormat.
func OutputFormats() []OutputFormat {
	return []OutputFormat{OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatTOML, OutputFormatMarkdown}
}

// Valid reports whether f is a known output format.
func (f OutputFormat) Valid() bool {
	for _, known := range OutputFormats() {
		if f == known {
			return true
		}
	}
	return false
}
