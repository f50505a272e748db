package codec

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
)

// segmentParser decodes URL-safe Base64 segments, accepting both padded and
// unpadded input.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// toURLAlphabet maps the standard alphabet onto the URL-safe one so segments
// mixing both alphabets still decode.
var toURLAlphabet = strings.NewReplacer("+", "-", "/", "_")

// EncodeBase64 encodes the UTF-8 bytes of s with the standard padded
// alphabet.
func EncodeBase64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// DecodeBase64 pads s with '=' to a multiple of four and decodes it with the
// standard alphabet.
func DecodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(padBase64(s))
}

// DecodeBase64URL decodes a Base64url segment such as a JWT header or
// payload. Missing padding is tolerated and '+'/'/' are accepted in place of
// '-'/'_'.
func DecodeBase64URL(s string) ([]byte, error) {
	return segmentParser.DecodeSegment(toURLAlphabet.Replace(s))
}

func padBase64(s string) string {
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	return s
}

// IsPrintableText reports whether decoded bytes look like text: non-empty,
// valid UTF-8, and every rune either printable ASCII, whitespace, or in the
// U+0800 and above range (which covers the CJK blocks). Runes outside the
// Basic Multilingual Plane are accepted as well.
//
// The test is coarse: it misclassifies some binary payloads as
// text and rejects Latin-1 supplement letters.
func IsPrintableText(b []byte) bool {
	if len(b) == 0 || !utf8.Valid(b) {
		return false
	}
	for _, r := range string(b) {
		switch {
		case r >= 0x20 && r <= 0x7E:
		case r >= 0x0800:
		case IsWhitespace(r):
		default:
			return false
		}
	}
	return true
}

// IsWhitespace reports whether r is a whitespace or line-terminator code
// point: ASCII tab/newline/vertical-tab/form-feed/carriage-return/space,
// NBSP, the BOM, and the Unicode space separators.
func IsWhitespace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}

// TrimWhitespace strips leading and trailing runes matched by IsWhitespace.
func TrimWhitespace(s string) string {
	return strings.TrimFunc(s, IsWhitespace)
}
