// Package i18n localizes the labels and messages produced by the conversion
// pipeline. Keys are the English display strings; a Translator that knows
// nothing about a key returns it unchanged.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys used by the converter and the output formatter.
const (
	KeyHexToRGB = "HEX to RGB"
	KeyHexToHSL = "HEX to HSL"
	KeyRGBToHex = "RGB to HEX"
	KeyRGBToHSL = "RGB to HSL"
	KeyHSLToHex = "HSL to HEX"
	KeyHSLToRGB = "HSL to RGB"

	KeyJSONFormat      = "JSON Format"
	KeyJSONMinify      = "JSON Minify"
	KeyJSONParseFailed = "JSON parse failed"

	KeyHeader         = "Header"
	KeyPayload        = "Payload"
	KeyJWTDecode      = "JWT Decode"
	KeyJWTParseFailed = "JWT parse failed"

	KeyTimestampSecToDate = "Timestamp (sec) to Date"
	KeyTimestampMsToDate  = "Timestamp (ms) to Date"
	KeyDateToTimestampSec = "Date to Timestamp (sec)"
	KeyDateToTimestampMs  = "Date to Timestamp (ms)"

	KeyURLDecode       = "URL Decode"
	KeyURLDecodeFailed = "URL decode failed"
	KeyURLEncode       = "URL Encode"

	KeyBase64Decode       = "Base64 Decode"
	KeyBase64DecodeFailed = "Base64 decode failed"
	KeyBase64Encode       = "Base64 Encode"

	KeyBinary            = "Binary"
	KeyOctal             = "Octal"
	KeyDecimal           = "Decimal"
	KeyHexadecimal       = "Hexadecimal"
	KeyValueExceedsRange = "Value exceeds safe integer range"

	KeyInputTooLong          = "Input too long"
	KeyChars                 = "chars"
	KeyMax                   = "Max"
	KeyError                 = "Error"
	KeyNoResults             = "No results"
	KeySomeConversionsFailed = "Some conversions failed"
	KeyOutputTruncated       = "Output truncated"
)

// Translator maps a message key to its display string.
// Implementations MUST return the key itself when no translation exists.
type Translator interface {
	Translate(key string) string
}

// NopTranslator returns every key unchanged.
type NopTranslator struct{}

// Translate implements Translator.
func (NopTranslator) Translate(key string) string { return key }

// simplifiedChinese is the built-in zh-Hans catalog.
var simplifiedChinese = map[string]string{
	KeyHexToRGB:              "HEX 转 RGB",
	KeyHexToHSL:              "HEX 转 HSL",
	KeyRGBToHex:              "RGB 转 HEX",
	KeyRGBToHSL:              "RGB 转 HSL",
	KeyHSLToHex:              "HSL 转 HEX",
	KeyHSLToRGB:              "HSL 转 RGB",
	KeyJSONFormat:            "JSON 格式化",
	KeyJSONMinify:            "JSON 压缩",
	KeyJSONParseFailed:       "JSON 解析失败",
	KeyHeader:                "头部",
	KeyPayload:               "载荷",
	KeyJWTDecode:             "JWT 解码",
	KeyJWTParseFailed:        "JWT 解析失败",
	KeyTimestampSecToDate:    "时间戳(秒)转日期",
	KeyTimestampMsToDate:     "时间戳(毫秒)转日期",
	KeyDateToTimestampSec:    "日期转时间戳(秒)",
	KeyDateToTimestampMs:     "日期转时间戳(毫秒)",
	KeyURLDecode:             "URL 解码",
	KeyURLDecodeFailed:       "URL 解码失败",
	KeyURLEncode:             "URL 编码",
	KeyBase64Decode:          "Base64 解码",
	KeyBase64DecodeFailed:    "Base64 解码失败",
	KeyBase64Encode:          "Base64 编码",
	KeyBinary:                "二进制",
	KeyOctal:                 "八进制",
	KeyDecimal:               "十进制",
	KeyHexadecimal:           "十六进制",
	KeyValueExceedsRange:     "数值超出安全整数范围",
	KeyInputTooLong:          "输入过长",
	KeyChars:                 "字符",
	KeyMax:                   "最大",
	KeyError:                 "错误",
	KeyNoResults:             "无结果",
	KeySomeConversionsFailed: "部分转换失败",
	KeyOutputTruncated:       "输出已截断",
}

// supported lists the locales with a catalog, English first as the fallback.
var supported = []language.Tag{language.English, language.SimplifiedChinese}

var matcher = language.NewMatcher(supported)

// CatalogTranslator resolves keys through an x/text message catalog.
type CatalogTranslator struct {
	tag     language.Tag
	printer *message.Printer
}

// NewCatalogTranslator returns a Translator for the supported locale that
// best matches tag. Unsupported locales fall back to English.
func NewCatalogTranslator(tag language.Tag) *CatalogTranslator {
	_, index, _ := matcher.Match(tag)
	resolved := supported[index]

	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range simplifiedChinese {
		// SetString only fails for malformed tags; both are constants.
		_ = builder.SetString(language.SimplifiedChinese, key, text)
	}

	return &CatalogTranslator{
		tag:     resolved,
		printer: message.NewPrinter(resolved, message.Catalog(builder)),
	}
}

// Tag reports the locale the translator resolved to.
func (t *CatalogTranslator) Tag() language.Tag { return t.tag }

// Translate implements Translator. Keys outside the catalog are returned
// verbatim so that a stray '%' is never read as a formatting verb.
func (t *CatalogTranslator) Translate(key string) string {
	if _, known := simplifiedChinese[key]; !known {
		return key
	}
	return t.printer.Sprintf(key)
}

// ParseLocale parses a BCP 47 locale name such as "en", "zh-CN" or "zh_Hans".
// An empty name selects English.
func ParseLocale(name string) (language.Tag, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "_", "-"))
	if name == "" {
		return language.English, nil
	}
	tag, err := language.Parse(name)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", name, err)
	}
	return tag, nil
}

// New returns a Translator for the named locale.
func New(locale string) (Translator, error) {
	tag, err := ParseLocale(locale)
	if err != nil {
		return nil, err
	}
	return NewCatalogTranslator(tag), nil
}
