package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/stackvity/devconv/pkg/converter/codec"
	"github.com/stackvity/devconv/pkg/converter/detect"
	"github.com/stackvity/devconv/pkg/converter/i18n"
)

// jsonIndent matches the four-space indentation of the display format.
const jsonIndent = "    "

// step is one converter in the fixed pipeline order.
type step struct {
	name     string
	category Category
	run      func(p *pass)
}

// pipeline lists the converters in evaluation order. Both timestamp steps
// and both URL steps share a category toggle.
var pipeline = []step{
	{name: "color", category: CategoryColor, run: convertColor},
	{name: "json", category: CategoryJSON, run: convertJSON},
	{name: "jwt", category: CategoryJWT, run: convertJWT},
	{name: "timestamp", category: CategoryTimestamp, run: convertTimestamp},
	{name: "date", category: CategoryTimestamp, run: convertDate},
	{name: "urlDecode", category: CategoryURL, run: convertURLDecode},
	{name: "base64", category: CategoryBase64, run: convertBase64},
	{name: "urlEncode", category: CategoryURL, run: convertURLEncode},
	{name: "number", category: CategoryNumber, run: convertNumber},
}

// pass carries the state of one Process call through the converters.
type pass struct {
	c    *Converter
	raw  string // untrimmed input
	text string // input with surrounding whitespace removed
	out  *PipelineOutput
}

// run executes s, converting a panic into a ConversionError so later
// converters still run.
func (p *pass) run(s step) {
	defer func() {
		if r := recover(); r != nil {
			p.c.logger.Error("Panic recovered in converter", slog.String("converter", s.name), "panicValue", r)
			err := fmt.Errorf("%w: %s: %v", ErrConverterPanic, s.name, r)
			p.fail(s.category, fmt.Sprintf("%s: %v", p.c.tr.Translate(i18n.KeyError), r), err)
		}
	}()
	s.run(p)
}

// emit appends a result with a translated label.
func (p *pass) emit(category Category, labelKey, content string, highlight bool) {
	result := ConversionResult{
		Category:       category,
		Label:          p.c.tr.Translate(labelKey),
		Content:        content,
		NeedsHighlight: highlight,
	}
	p.out.Results = append(p.out.Results, result)
	if err := p.c.hooks.OnResult(result); err != nil {
		p.c.logger.Warn("Error reported by OnResult hook", slog.String("hookError", err.Error()))
	}
}

// fail appends a ConversionError carrying the user-facing message; err is
// the wrapped sentinel handed to logs and hooks.
func (p *pass) fail(category Category, message string, err error) {
	p.out.Errors = append(p.out.Errors, ConversionError{Category: category, Message: message})
	p.c.logger.Debug("Conversion failed", slog.String("category", string(category)), slog.String("error", err.Error()))
	p.c.notifyError(category, err)
}

// skip logs a failure that is intentionally not reported to the user.
func (p *pass) skip(category Category, err error) {
	p.c.logger.Debug("Conversion skipped", slog.String("category", string(category)), slog.String("error", err.Error()))
}

func (p *pass) tr(key string) string { return p.c.tr.Translate(key) }

// --- Color ---

func convertColor(p *pass) {
	switch {
	case detect.IsHexColor(p.text):
		rgb, err := codec.HexToRGB(p.text)
		if err != nil {
			p.skip(CategoryColor, err)
			return
		}
		hsl := codec.RGBToHSL(rgb.R, rgb.G, rgb.B)
		p.emit(CategoryColor, i18n.KeyHexToRGB, formatRGB(rgb.R, rgb.G, rgb.B, rgb.A), false)
		p.emit(CategoryColor, i18n.KeyHexToHSL, formatHSL(hsl, rgb.A), false)

	case detect.IsRGBColor(p.text):
		rgb, _ := detect.ParseRGB(p.text)
		p.emit(CategoryColor, i18n.KeyRGBToHex, codec.RGBToHex(rgb.R, rgb.G, rgb.B, rgb.A), false)
		p.emit(CategoryColor, i18n.KeyRGBToHSL, formatHSL(codec.RGBToHSL(rgb.R, rgb.G, rgb.B), rgb.A), false)

	case detect.IsHSLColor(p.text):
		hsl, alpha, _ := detect.ParseHSL(p.text)
		rgb := codec.HSLToRGB(hsl.H, hsl.S, hsl.L)
		p.emit(CategoryColor, i18n.KeyHSLToHex, codec.RGBToHex(rgb.R, rgb.G, rgb.B, alpha), false)
		p.emit(CategoryColor, i18n.KeyHSLToRGB, formatRGB(rgb.R, rgb.G, rgb.B, alpha), false)
	}
}

// formatRGB renders rgb(...) plus an rgba(...) line when alpha < 1.
func formatRGB(r, g, b int, alpha float64) string {
	s := fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
	if alpha < 1 {
		s += fmt.Sprintf("\nrgba(%d, %d, %d, %s)", r, g, b, codec.FormatFixed(alpha, 2))
	}
	return s
}

// formatHSL renders hsl(...) plus an hsla(...) line when alpha < 1.
func formatHSL(c codec.HSL, alpha float64) string {
	s := fmt.Sprintf("hsl(%d, %d%%, %d%%)", c.H, c.S, c.L)
	if alpha < 1 {
		s += fmt.Sprintf("\nhsla(%d, %d%%, %d%%, %s)", c.H, c.S, c.L, codec.FormatFixed(alpha, 2))
	}
	return s
}

// --- JSON ---

func convertJSON(p *pass) {
	if !detect.IsJSONCandidate(p.text) {
		return
	}
	value, err := parseJSON([]byte(p.text))
	if err != nil {
		p.fail(CategoryJSON, p.tr(i18n.KeyJSONParseFailed)+": "+err.Error(), fmt.Errorf("%w: %w", ErrJSONParse, err))
		return
	}

	pretty := marshalJSON(value, jsonIndent)
	if pretty != p.text {
		p.emit(CategoryJSON, i18n.KeyJSONFormat, pretty, true)
	}
	if minified := marshalJSON(value, ""); minified != p.text && minified != pretty {
		p.emit(CategoryJSON, i18n.KeyJSONMinify, minified, false)
	}
}

// --- JWT ---

func convertJWT(p *pass) {
	if !detect.IsJWT(p.text) {
		return
	}
	segments := strings.Split(p.text, ".")
	header, err := decodeJWTSegment(segments[0])
	if err != nil {
		p.fail(CategoryJWT, p.tr(i18n.KeyJWTParseFailed), fmt.Errorf("%w: header: %w", ErrJWTDecode, err))
		return
	}
	payload, err := decodeJWTSegment(segments[1])
	if err != nil {
		p.fail(CategoryJWT, p.tr(i18n.KeyJWTParseFailed), fmt.Errorf("%w: payload: %w", ErrJWTDecode, err))
		return
	}

	content := "=== " + p.tr(i18n.KeyHeader) + " ===\n" + header +
		"\n\n=== " + p.tr(i18n.KeyPayload) + " ===\n" + payload
	p.emit(CategoryJWT, i18n.KeyJWTDecode, content, true)
}

// decodeJWTSegment base64url-decodes a segment and pretty-prints its JSON.
func decodeJWTSegment(segment string) (string, error) {
	raw, err := codec.DecodeBase64URL(segment)
	if err != nil {
		return "", err
	}
	value, err := parseJSON(raw)
	if err != nil {
		return "", err
	}
	return marshalJSON(value, jsonIndent), nil
}

// --- Timestamp ---

func convertTimestamp(p *pass) {
	unit, ok := detect.TimestampUnitOf(p.text)
	if !ok {
		return
	}
	n, err := strconv.ParseInt(p.text, 10, 64)
	if err != nil {
		p.skip(CategoryTimestamp, fmt.Errorf("%w: %w", ErrTimestampParse, err))
		return
	}

	millis, label := n, i18n.KeyTimestampMsToDate
	if unit == detect.UnitSeconds {
		millis, label = n*1000, i18n.KeyTimestampSecToDate
	}
	if millis > maxTimestampMillis {
		p.skip(CategoryTimestamp, fmt.Errorf("%w: %d ms is out of range", ErrTimestampParse, millis))
		return
	}
	p.emit(CategoryTimestamp, label, p.c.dt.FormatInstant(time.UnixMilli(millis)), false)
}

func convertDate(p *pass) {
	if !detect.IsDateString(p.text) {
		return
	}
	t, err := p.c.dt.ParseFreeform(p.text)
	if err != nil {
		p.skip(CategoryTimestamp, fmt.Errorf("%w: %w", ErrTimestampParse, err))
		return
	}
	millis := t.UnixMilli()
	p.emit(CategoryTimestamp, i18n.KeyDateToTimestampSec, strconv.FormatInt(floorDiv(millis, 1000), 10), false)
	p.emit(CategoryTimestamp, i18n.KeyDateToTimestampMs, strconv.FormatInt(millis, 10), false)
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// --- URL ---

func convertURLDecode(p *pass) {
	if !detect.IsURLDecodeCandidate(p.text) {
		return
	}
	decoded, err := codec.DecodeURIComponent(p.text)
	if err != nil {
		p.fail(CategoryURL, p.tr(i18n.KeyURLDecodeFailed), fmt.Errorf("%w: %w", ErrURLDecode, err))
		return
	}
	if decoded != p.text {
		p.emit(CategoryURL, i18n.KeyURLDecode, decoded, false)
	}
}

func convertURLEncode(p *pass) {
	if !detect.NeedsURLEncoding(p.raw) {
		return
	}
	if encoded := codec.EncodeURIComponent(p.raw); encoded != p.raw {
		p.emit(CategoryURL, i18n.KeyURLEncode, encoded, false)
	}
}

// --- Base64 ---

// convertBase64 decodes when the shape heuristic fires and the result is
// printable text; otherwise it encodes the untrimmed input.
func convertBase64(p *pass) {
	if detect.IsBase64(p.text) {
		decoded, err := codec.DecodeBase64(p.text)
		switch {
		case err != nil:
			p.fail(CategoryBase64, p.tr(i18n.KeyBase64DecodeFailed), fmt.Errorf("%w: %w", ErrBase64Decode, err))
		case codec.IsPrintableText(decoded):
			p.emit(CategoryBase64, i18n.KeyBase64Decode, string(decoded), false)
			return
		}
	}
	if encoded := codec.EncodeBase64(p.raw); encoded != p.raw {
		p.emit(CategoryBase64, i18n.KeyBase64Encode, encoded, false)
	}
}

// --- Number ---

var radixLabels = []struct {
	base  codec.Base
	label string
}{
	{codec.Binary, i18n.KeyBinary},
	{codec.Octal, i18n.KeyOctal},
	{codec.Decimal, i18n.KeyDecimal},
	{codec.Hexadecimal, i18n.KeyHexadecimal},
}

func convertNumber(p *pass) {
	if !detect.IsNumber(p.text) {
		return
	}
	n, detected, err := codec.ParseInteger(p.text)
	if err != nil {
		if errors.Is(err, codec.ErrUnsafeInteger) {
			p.fail(CategoryNumber, p.tr(i18n.KeyValueExceedsRange), fmt.Errorf("%w: %w", ErrNumberRange, err))
			return
		}
		p.skip(CategoryNumber, err)
		return
	}
	for _, r := range radixLabels {
		if r.base != detected {
			p.emit(CategoryNumber, r.label, codec.FormatInteger(n, r.base), false)
		}
	}
}
