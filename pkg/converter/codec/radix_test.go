package codec_test

import (
	"testing"

	"github.com/stackvity/devconv/pkg/converter/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInteger(t *testing.T) {
	testCases := []struct {
		input        string
		expected     int64
		expectedBase codec.Base
	}{
		{"255", 255, codec.Decimal},
		{"007", 7, codec.Decimal},
		{"0x1A", 26, codec.Hexadecimal},
		{"0XfF", 255, codec.Hexadecimal},
		{"0b101", 5, codec.Binary},
		{"0B11", 3, codec.Binary},
		{"0o17", 15, codec.Octal},
		{"-0x1A", -26, codec.Hexadecimal},
		{"-42", -42, codec.Decimal},
		{"0", 0, codec.Decimal},
		{"9007199254740991", codec.MaxSafeInteger, codec.Decimal},
		{"-9007199254740991", -codec.MaxSafeInteger, codec.Decimal},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			n, base, err := codec.ParseInteger(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, n)
			assert.Equal(t, tc.expectedBase, base)
		})
	}
}

func TestParseInteger_Unsafe(t *testing.T) {
	inputs := []string{
		"9007199254740992",
		"-9007199254740992",
		"0x20000000000000",
		"99999999999999999999999999",
	}
	for _, in := range inputs {
		_, _, err := codec.ParseInteger(in)
		assert.ErrorIs(t, err, codec.ErrUnsafeInteger, "input %q", in)
	}
}

func TestParseInteger_Invalid(t *testing.T) {
	for _, in := range []string{"", "-", "0x", "0b2", "12a", "+5", "--1"} {
		_, _, err := codec.ParseInteger(in)
		assert.ErrorIs(t, err, codec.ErrInvalidInteger, "input %q", in)
	}
}

func TestFormatInteger(t *testing.T) {
	assert.Equal(t, "0b11111111", codec.FormatInteger(255, codec.Binary))
	assert.Equal(t, "0o377", codec.FormatInteger(255, codec.Octal))
	assert.Equal(t, "255", codec.FormatInteger(255, codec.Decimal))
	assert.Equal(t, "0xFF", codec.FormatInteger(255, codec.Hexadecimal))
	assert.Equal(t, "-0x1A", codec.FormatInteger(-26, codec.Hexadecimal))
	assert.Equal(t, "-0b11010", codec.FormatInteger(-26, codec.Binary))
	assert.Equal(t, "0x0", codec.FormatInteger(0, codec.Hexadecimal))
}

func TestIntegerRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 7, 255, -4096, 1 << 31, 1700000000, codec.MaxSafeInteger, -codec.MaxSafeInteger}
	bases := []codec.Base{codec.Binary, codec.Octal, codec.Decimal, codec.Hexadecimal}
	for _, v := range values {
		for _, b := range bases {
			text := codec.FormatInteger(v, b)
			got, gotBase, err := codec.ParseInteger(text)
			require.NoError(t, err, "parsing %q", text)
			assert.Equal(t, v, got, "value through %q", text)
			assert.Equal(t, b, gotBase)
		}
	}
}
