// Package encoding normalizes file and stdin input to UTF-8 before it reaches
// the conversion pipeline, and rejects content that looks like binary data.
package encoding

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

const (
	// sniffLen is the number of bytes http.DetectContentType looks at.
	sniffLen = 512
	// nullCheckLen bounds the prefix scanned for NUL bytes.
	nullCheckLen = 1024
	// nullThreshold is the NUL-byte ratio above which content is binary.
	nullThreshold = 0.15
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// textMIMETypes are sniffed types that still count as text.
var textMIMETypes = map[string]bool{
	"application/json":         true,
	"application/xml":          true,
	"application/javascript":   true,
	"application/octet-stream": true, // undecided; the NUL check settles it
}

// EncodingHandler detects the character encoding of raw input, converts it to
// UTF-8 and flags binary content.
type EncodingHandler interface {
	// DetectAndDecode converts content to UTF-8. It returns the converted
	// bytes with any byte order mark removed, the IANA name of the source
	// encoding and whether the detection was certain.
	DetectAndDecode(content []byte) (utf8Content []byte, detectedEncoding string, certain bool, err error)

	// IsBinary reports whether content is likely binary, based on MIME
	// sniffing of the first 512 bytes and the NUL-byte ratio of the first 1024.
	IsBinary(content []byte) bool
}

// charsetHandler implements EncodingHandler with golang.org/x/net/html/charset.
type charsetHandler struct {
	fallback string
}

// NewGoCharsetEncodingHandler returns an EncodingHandler that falls back to
// defaultEncoding when content is neither valid UTF-8 nor BOM-marked.
func NewGoCharsetEncodingHandler(defaultEncoding string) EncodingHandler {
	return &charsetHandler{fallback: defaultEncoding}
}

// DetectAndDecode implements the EncodingHandler interface.
func (h *charsetHandler) DetectAndDecode(content []byte) ([]byte, string, bool, error) {
	if bytes.HasPrefix(content, utf8BOM) {
		return content[len(utf8BOM):], "utf-8", true, nil
	}

	enc, name, certain := charset.DetermineEncoding(content, "text/plain")
	if !certain && utf8.Valid(content) {
		return content, "utf-8", true, nil
	}
	if !certain && h.fallback != "" {
		if fallback, fallbackName := charset.Lookup(h.fallback); fallback != nil {
			enc, name, certain = fallback, fallbackName, true
		}
	}
	if enc == nil {
		return content, "utf-8", certain, nil
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), content)
	if err != nil {
		return content, name, certain, fmt.Errorf("failed to convert from %q: %w", name, err)
	}
	return bytes.TrimPrefix(decoded, utf8BOM), name, certain, nil
}

// IsBinary implements the EncodingHandler interface.
func (h *charsetHandler) IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	if !isTextMIME(http.DetectContentType(content[:min(len(content), sniffLen)])) {
		return true
	}
	head := content[:min(len(content), nullCheckLen)]
	return float64(bytes.Count(head, []byte{0}))/float64(len(head)) > nullThreshold
}

func isTextMIME(contentType string) bool {
	mimeType, _, _ := strings.Cut(contentType, ";")
	mimeType = strings.TrimSpace(mimeType)
	if strings.HasPrefix(mimeType, "text/") || textMIMETypes[mimeType] {
		return true
	}
	return strings.HasSuffix(mimeType, "+xml") || strings.HasSuffix(mimeType, "+json")
}
