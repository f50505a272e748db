// Package detect provides the cheap shape checks that decide which
// conversions are worth attempting for a piece of input text.
package detect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stackvity/devconv/pkg/converter/codec"
)

// Detector reports whether text plausibly belongs to a format.
//
// Implementations MUST be pure: no side effects, no dependence on other
// detectors, safe for concurrent use. Callers pass text that has already
// been trimmed, except where a detector documents otherwise.
type Detector interface {
	// Name identifies the detector in logs and tests.
	Name() string
	// Matches reports whether text passes the detector's shape heuristic.
	Matches(text string) bool
}

// Func adapts a plain predicate to the Detector interface.
type Func struct {
	name string
	fn   func(string) bool
}

// NewFunc wraps fn as a named Detector.
func NewFunc(name string, fn func(string) bool) Detector {
	return Func{name: name, fn: fn}
}

// Name implements Detector.
func (f Func) Name() string { return f.name }

// Matches implements Detector.
func (f Func) Matches(text string) bool { return f.fn(text) }

var (
	hexColorPattern  = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)
	rgbPattern       = regexp.MustCompile(`(?i)^rgba?\s*\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})(?:\s*,\s*([\d.]+))?\s*\)$`)
	hslPattern       = regexp.MustCompile(`(?i)^hsla?\s*\(\s*(\d{1,3})\s*,\s*(\d{1,3})%?\s*,\s*(\d{1,3})%?(?:\s*,\s*([\d.]+))?\s*\)$`)
	base64Pattern    = regexp.MustCompile(`^[A-Za-z0-9+/]+=*$`)
	base64URLPattern = regexp.MustCompile(`^[A-Za-z0-9\-_]+=*$`)
	numberPattern    = regexp.MustCompile(`(?i)^-?(0x[0-9a-f]+|0b[01]+|0o[0-7]+|\d+)$`)
	digitsPattern    = regexp.MustCompile(`^\d+$`)
	base64Signal     = regexp.MustCompile(`[0-9+/]`)
)

// Predefined detectors, one per shape heuristic.
var (
	HexColor         = NewFunc("hexColor", IsHexColor)
	RGBColor         = NewFunc("rgbColor", IsRGBColor)
	HSLColor         = NewFunc("hslColor", IsHSLColor)
	JSON             = NewFunc("json", IsJSONCandidate)
	JWT              = NewFunc("jwt", IsJWT)
	NumericTimestamp = NewFunc("numericTimestamp", IsNumericTimestamp)
	DateString       = NewFunc("dateString", IsDateString)
	URLDecode        = NewFunc("urlDecode", IsURLDecodeCandidate)
	URLEncode        = NewFunc("urlEncode", NeedsURLEncoding)
	Base64           = NewFunc("base64", IsBase64)
	Base64URL        = NewFunc("base64url", IsBase64URL)
	Number           = NewFunc("number", IsNumber)
)

// All returns every predefined detector in pipeline order.
func All() []Detector {
	return []Detector{
		HexColor, RGBColor, HSLColor, JSON, JWT, NumericTimestamp,
		DateString, URLDecode, Base64, Base64URL, URLEncode, Number,
	}
}

// IsHexColor matches '#' followed by 3, 6 or 8 hex digits.
func IsHexColor(text string) bool {
	return hexColorPattern.MatchString(text)
}

// IsRGBColor matches rgb(r, g, b) or rgba(r, g, b, a) with every channel <= 255.
// Alpha is any unsigned decimal and is not range checked.
func IsRGBColor(text string) bool {
	_, ok := ParseRGB(text)
	return ok
}

// IsHSLColor matches hsl(h, s%, l%) or hsla(h, s%, l%, a) with h <= 360 and
// s, l <= 100. The '%' signs are optional.
func IsHSLColor(text string) bool {
	_, _, ok := ParseHSL(text)
	return ok
}

// ParseRGB extracts channels from an rgb()/rgba() expression. Alpha is 1
// when absent and NaN when present but not numeric.
func ParseRGB(text string) (codec.RGBA, bool) {
	m := rgbPattern.FindStringSubmatch(text)
	if m == nil {
		return codec.RGBA{}, false
	}
	r, g, b := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if r > 255 || g > 255 || b > 255 {
		return codec.RGBA{}, false
	}
	return codec.RGBA{R: r, G: g, B: b, A: alpha(m[4])}, true
}

// ParseHSL extracts hue, saturation, lightness and alpha from an
// hsl()/hsla() expression.
func ParseHSL(text string) (codec.HSL, float64, bool) {
	m := hslPattern.FindStringSubmatch(text)
	if m == nil {
		return codec.HSL{}, 0, false
	}
	h, s, l := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if h > 360 || s > 100 || l > 100 {
		return codec.HSL{}, 0, false
	}
	return codec.HSL{H: h, S: s, L: l}, alpha(m[4]), true
}

func alpha(group string) float64 {
	if group == "" {
		return 1
	}
	return codec.ParseLeadingFloat(group)
}

// atoi parses at most three ASCII digits already validated by a pattern.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// IsJSONCandidate is a prefix gate: text starting with '{' or '['.
func IsJSONCandidate(text string) bool {
	return strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[")
}

// IsJWT matches exactly three non-empty dot-separated segments.
func IsJWT(text string) bool {
	parts := strings.Split(text, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// IsDigits reports whether text is one or more ASCII digits.
func IsDigits(text string) bool {
	return digitsPattern.MatchString(text)
}

// IsNumericTimestamp matches an all-digit string whose length selects a
// seconds or milliseconds interpretation.
func IsNumericTimestamp(text string) bool {
	_, ok := TimestampUnitOf(text)
	return ok
}

// IsDateString matches text containing at least one of '-', '/', ':', 'T'
// or whitespace that is not purely numeric. It only gates the attempt; the
// actual parse may still fail.
func IsDateString(text string) bool {
	if IsDigits(text) {
		return false
	}
	return strings.ContainsFunc(text, func(r rune) bool {
		return r == '-' || r == '/' || r == ':' || r == 'T' || codec.IsWhitespace(r)
	})
}

// IsURLDecodeCandidate matches text containing a literal '%'.
func IsURLDecodeCandidate(text string) bool {
	return strings.Contains(text, "%")
}

// NeedsURLEncoding matches text containing any character outside
// [A-Za-z0-9_.~-]. It is evaluated on the raw, untrimmed input.
func NeedsURLEncoding(text string) bool {
	return strings.ContainsFunc(text, func(r rune) bool {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return false
		case r == '_', r == '.', r == '~', r == '-':
			return false
		}
		return true
	})
}

// IsBase64 matches the standard alphabet with trailing padding, a length
// that is a multiple of four and at least eight, and some evidence that the
// text is not an ordinary word: a digit, '+' or '/', or mixed case when the
// text is sixteen characters or longer.
func IsBase64(text string) bool {
	if !base64Pattern.MatchString(text) {
		return false
	}
	if len(text)%4 != 0 || len(text) < 8 {
		return false
	}
	if base64Signal.MatchString(text) {
		return true
	}
	mixedCase := strings.ContainsFunc(text, isLower) && strings.ContainsFunc(text, isUpper)
	return mixedCase && len(text) >= 16
}

// IsBase64URL matches the URL-safe alphabet with optional trailing padding
// and a length of at least eight.
func IsBase64URL(text string) bool {
	return base64URLPattern.MatchString(text) && len(text) >= 8
}

// IsNumber matches an optionally negative 0x/0b/0o-prefixed or plain decimal
// integer literal. Prefixes are case-insensitive.
func IsNumber(text string) bool {
	return numberPattern.MatchString(text)
}

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
