// Package codec holds the primitive, I/O-free conversions the pipeline is
// built on: color-space math, Base64, URL percent-encoding and integer radix
// formatting.
package codec

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ErrInvalidHexColor is returned when a hex color string is not 3, 6 or 8
// hex digits (after an optional leading '#').
var ErrInvalidHexColor = errors.New("invalid hex color")

// RGBA is an 8-bit RGB triple with a fractional alpha in [0,1].
// A is 1 when the source carried no alpha channel.
type RGBA struct {
	R, G, B int
	A       float64
}

// HSL holds hue in degrees and saturation/lightness in percent, all rounded.
type HSL struct {
	H, S, L int
}

// HexToRGB parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (the '#' is optional).
// Three-digit shorthand is expanded before parsing and an eight-digit value
// carries alpha as byte/255.
func HexToRGB(hex string) (RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHexColor, hex)
	}

	channels := make([]int, 0, 4)
	for i := 0; i < len(hex); i += 2 {
		v, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHexColor, hex)
		}
		channels = append(channels, int(v))
	}

	c := RGBA{R: channels[0], G: channels[1], B: channels[2], A: 1}
	if len(channels) == 4 {
		c.A = float64(channels[3]) / 255
	}
	return c, nil
}

// RGBToHex renders uppercase "#RRGGBB", appending an alpha byte only when
// a < 1.
func RGBToHex(r, g, b int, a float64) string {
	var sb strings.Builder
	sb.WriteByte('#')
	sb.WriteString(hexByte(r))
	sb.WriteString(hexByte(g))
	sb.WriteString(hexByte(b))
	if a < 1 {
		sb.WriteString(hexByte(int(round(a * 255))))
	}
	return strings.ToUpper(sb.String())
}

// hexByte renders the low two hex digits of v, zero padded.
func hexByte(v int) string {
	s := "0" + strconv.FormatInt(int64(v), 16)
	return s[len(s)-2:]
}

// RGBToHSL converts 8-bit channels to rounded HSL.
func RGBToHSL(r, g, b int) HSL {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	maxC := math.Max(rf, math.Max(gf, bf))
	minC := math.Min(rf, math.Min(gf, bf))
	l := (maxC + minC) / 2

	var h, s float64
	if maxC != minC {
		d := maxC - minC
		if l > 0.5 {
			s = d / (2 - maxC - minC)
		} else {
			s = d / (maxC + minC)
		}
		switch maxC {
		case rf:
			h = (gf - bf) / d
			if gf < bf {
				h += 6
			}
		case gf:
			h = (bf-rf)/d + 2
		default:
			h = (rf-gf)/d + 4
		}
		h /= 6
	}

	return HSL{
		H: int(round(h * 360)),
		S: int(round(s * 100)),
		L: int(round(l * 100)),
	}
}

// HSLToRGB converts hue in degrees and saturation/lightness in percent to
// rounded 8-bit channels. Alpha is left at 1.
func HSLToRGB(h, s, l int) RGBA {
	hf, sf, lf := float64(h)/360, float64(s)/100, float64(l)/100

	var r, g, b float64
	if sf == 0 {
		r, g, b = lf, lf, lf
	} else {
		var q float64
		if lf < 0.5 {
			q = lf * (1 + sf)
		} else {
			q = lf + sf - lf*sf
		}
		p := 2*lf - q
		r = hueToRGB(p, q, hf+1.0/3)
		g = hueToRGB(p, q, hf)
		b = hueToRGB(p, q, hf-1.0/3)
	}

	return RGBA{
		R: int(round(r * 255)),
		G: int(round(g * 255)),
		B: int(round(b * 255)),
		A: 1,
	}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

// round rounds half up, so 0.5 becomes 1 and -0.5 becomes 0.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// FormatFixed renders x with exactly digits decimals, rounding exact ties
// away from zero. NaN and infinities render as "NaN", "Infinity" and
// "-Infinity".
func FormatFixed(x float64, digits int) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}
	return new(big.Rat).SetFloat64(x).FloatString(digits)
}

// ParseLeadingFloat parses the longest leading decimal number of s
// ("1.5.2" parses as 1.5). It returns NaN when s has no numeric prefix.
func ParseLeadingFloat(s string) float64 {
	end, seenDot, seenDigit := 0, false, false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			seenDigit = true
		} else if c == '.' && !seenDot {
			seenDot = true
		} else {
			break
		}
		end++
	}
	if !seenDigit {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
