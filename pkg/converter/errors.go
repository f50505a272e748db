package converter

import "errors"

// --- Exported Error Variables ---
// Converter failures never escape Process; they are logged, reported to
// Hooks.OnError and rendered as ConversionError entries. Library users can
// check the values passed to hooks, and errors returned by New and the CLI
// helpers, against these using errors.Is.

var (
	// ErrInputTooLong indicates the raw input exceeded Config.MaxInputLength.
	// The pipeline short-circuits and reports it through PipelineOutput.InputError.
	ErrInputTooLong = errors.New("input too long")

	// ErrJSONParse indicates text that passed the JSON prefix gate was not valid JSON.
	ErrJSONParse = errors.New("json parse failed")

	// ErrJWTDecode indicates a JWT-shaped string whose header or payload segment
	// could not be base64url-decoded or parsed as JSON. Segment-level causes are
	// wrapped but collapse to one user-facing message.
	ErrJWTDecode = errors.New("jwt decode failed")

	// ErrURLDecode indicates a malformed percent-escape sequence.
	ErrURLDecode = errors.New("url decode failed")

	// ErrBase64Decode indicates text matching the Base64 shape heuristic could
	// not be decoded.
	ErrBase64Decode = errors.New("base64 decode failed")

	// ErrNumberRange indicates a numeric literal whose magnitude exceeds the
	// safe-integer ceiling (2^53-1).
	ErrNumberRange = errors.New("value exceeds safe integer range")

	// ErrTimestampParse indicates a timestamp or date that could not be turned
	// into an instant. It is logged at debug level and never reported as a
	// ConversionError.
	ErrTimestampParse = errors.New("timestamp parse failed")

	// ErrConfigValidation indicates that the provided Options failed validation.
	// This is returned directly by New and by the CLI configuration loader.
	ErrConfigValidation = errors.New("invalid configuration options provided")

	// ErrUnsupportedFormat indicates an unknown OutputFormat was requested.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrBinaryInput indicates file or stdin content that looks like binary data.
	ErrBinaryInput = errors.New("binary input encountered")

	// ErrTemplateExecution indicates an error occurred while executing a
	// custom or default report template.
	ErrTemplateExecution = errors.New("template execution failed")

	// ErrConverterPanic indicates a converter panicked; the panic was recovered
	// and the remaining categories still ran.
	ErrConverterPanic = errors.New("converter panicked")
)
