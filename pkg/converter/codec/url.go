package codec

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// ErrMalformedEscape is returned by DecodeURIComponent for a bad '%' escape
// or an escape sequence that does not decode to valid UTF-8.
var ErrMalformedEscape = errors.New("malformed percent-escape")

const upperHex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes every UTF-8 byte of s except the
// unreserved marks A-Z a-z 0-9 - _ . ! ~ * ' ( ). Escapes use uppercase hex.
func EncodeURIComponent(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedMark(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperHex[c>>4])
		sb.WriteByte(upperHex[c&0x0F])
	}
	return sb.String()
}

func isUnreservedMark(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// DecodeURIComponent reverses EncodeURIComponent. Every %XX escape is
// decoded (including reserved characters); '+' is left untouched.
func DecodeURIComponent(s string) (string, error) {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedEscape, err)
	}
	if !utf8.ValidString(decoded) {
		return "", fmt.Errorf("%w: escapes do not form valid UTF-8", ErrMalformedEscape)
	}
	return decoded, nil
}
