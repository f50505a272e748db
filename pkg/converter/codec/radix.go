package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxSafeInteger is the largest integer a float64 represents exactly (2^53-1).
const MaxSafeInteger = 1<<53 - 1

var (
	// ErrInvalidInteger is returned for text that is not a radix literal.
	ErrInvalidInteger = errors.New("invalid integer literal")
	// ErrUnsafeInteger is returned when a literal's magnitude exceeds MaxSafeInteger.
	ErrUnsafeInteger = errors.New("integer exceeds safe range")
)

// Base is an integer radix supported by the number converter.
type Base int

const (
	Binary      Base = 2
	Octal       Base = 8
	Decimal     Base = 10
	Hexadecimal Base = 16
)

// Prefix returns the literal prefix for b ("0b", "0o", "0x", or "" for decimal).
func (b Base) Prefix() string {
	switch b {
	case Binary:
		return "0b"
	case Octal:
		return "0o"
	case Hexadecimal:
		return "0x"
	}
	return ""
}

// ParseInteger parses an optionally negative literal in one of the forms
// 0x<hex>, 0b<bin>, 0o<oct> or <dec>. Prefixes are case-insensitive.
//
// The magnitude is checked against MaxSafeInteger before the sign is
// applied, so -(2^53) is rejected even though its negation would fit.
func ParseInteger(s string) (int64, Base, error) {
	negative := strings.HasPrefix(s, "-")
	abs := strings.TrimPrefix(s, "-")

	base := Decimal
	digits := abs
	if len(abs) > 2 && abs[0] == '0' {
		switch abs[1] {
		case 'x', 'X':
			base, digits = Hexadecimal, abs[2:]
		case 'b', 'B':
			base, digits = Binary, abs[2:]
		case 'o', 'O':
			base, digits = Octal, abs[2:]
		}
	}
	if digits == "" {
		return 0, base, fmt.Errorf("%w: %q", ErrInvalidInteger, s)
	}

	magnitude, err := strconv.ParseUint(digits, int(base), 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, base, fmt.Errorf("%w: %q", ErrUnsafeInteger, s)
		}
		return 0, base, fmt.Errorf("%w: %q", ErrInvalidInteger, s)
	}
	if magnitude > MaxSafeInteger {
		return 0, base, fmt.Errorf("%w: %q", ErrUnsafeInteger, s)
	}

	n := int64(magnitude)
	if negative {
		n = -n
	}
	return n, base, nil
}

// FormatInteger renders n in base b with the base prefix. The sign, if any,
// comes before the prefix ("-0x1A"); hex digits are uppercase.
func FormatInteger(n int64, b Base) string {
	sign := ""
	magnitude := n
	if n < 0 {
		sign = "-"
		magnitude = -n
	}
	digits := strconv.FormatInt(magnitude, int(b))
	if b == Hexadecimal {
		digits = strings.ToUpper(digits)
	}
	return sign + b.Prefix() + digits
}
