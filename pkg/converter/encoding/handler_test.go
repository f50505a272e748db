package encoding_test

import (
	"bytes"
	"testing"

	"github.com/stackvity/devconv/pkg/converter/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func encodeBytes(t *testing.T, text string, enc transform.Transformer) []byte {
	t.Helper()
	encoded, _, err := transform.Bytes(enc, []byte(text))
	require.NoError(t, err)
	return encoded
}

func TestDetectAndDecode_UTF8(t *testing.T) {
	handler := encoding.NewGoCharsetEncodingHandler("")
	input := []byte("#FF0000 你好")

	out, name, certain, err := handler.DetectAndDecode(input)
	require.NoError(t, err)
	assert.Equal(t, "utf-8", name)
	assert.True(t, certain)
	assert.Equal(t, input, out)
}

func TestDetectAndDecode_UTF8BOMStripped(t *testing.T) {
	handler := encoding.NewGoCharsetEncodingHandler("")
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("aGVsbG8gd29ybGQ=")...)

	out, name, certain, err := handler.DetectAndDecode(input)
	require.NoError(t, err)
	assert.Equal(t, "utf-8", name)
	assert.True(t, certain)
	assert.Equal(t, "aGVsbG8gd29ybGQ=", string(out))
}

func TestDetectAndDecode_UTF16LEWithBOM(t *testing.T) {
	handler := encoding.NewGoCharsetEncodingHandler("")
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	input := encodeBytes(t, `{"a":1}`, encoder)

	out, name, certain, err := handler.DetectAndDecode(input)
	require.NoError(t, err)
	assert.Contains(t, name, "utf-16")
	assert.True(t, certain)
	assert.Equal(t, `{"a":1}`, string(out))
}

func TestDetectAndDecode_FallbackEncoding(t *testing.T) {
	handler := encoding.NewGoCharsetEncodingHandler("windows-1252")
	input := encodeBytes(t, "café", charmap.Windows1252.NewEncoder())
	require.False(t, bytes.Equal([]byte("café"), input), "precondition: input is not UTF-8")

	out, name, certain, err := handler.DetectAndDecode(input)
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", name)
	assert.True(t, certain)
	assert.Equal(t, "café", string(out))
}

func TestIsBinary(t *testing.T) {
	handler := encoding.NewGoCharsetEncodingHandler("")
	testCases := []struct {
		name     string
		content  []byte
		expected bool
	}{
		{name: "Empty", content: nil, expected: false},
		{name: "Plain Text", content: []byte("1700000000"), expected: false},
		{name: "JSON", content: []byte(`{"a": [1, 2, 3]}`), expected: false},
		{name: "PNG Header", content: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), expected: true},
		{name: "Mostly NUL", content: bytes.Repeat([]byte{0, 0, 'a'}, 100), expected: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, handler.IsBinary(tc.content))
		})
	}
}
