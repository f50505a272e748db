package converter

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// jsonMember is one key/value pair of a decoded object.
type jsonMember struct {
	key   string
	value any
}

// jsonObject keeps members in first-seen key order. A repeated key keeps its
// first position and takes the last value.
type jsonObject []jsonMember

func (o jsonObject) set(key string, value any) jsonObject {
	for i := range o {
		if o[i].key == key {
			o[i].value = value
			return o
		}
	}
	return append(o, jsonMember{key: key, value: value})
}

// parseJSON validates raw and decodes it into jsonObject, []any, string,
// json.Number, bool or nil values.
func parseJSON(raw []byte) (any, error) {
	if err := validateJSON(raw); err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

// validateJSON reports the decoder's error for malformed JSON.
func validateJSON(raw []byte) error {
	if json.Valid(raw) {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return errors.New("invalid JSON")
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := jsonObject{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj = obj.set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

// marshalJSON serializes v like a browser's JSON.stringify: numbers in their
// shortest form, array-index keys first in ascending order, non-ASCII text
// left unescaped. An empty indent gives the compact form.
func marshalJSON(v any, indent string) string {
	var b strings.Builder
	writeJSONValue(&b, v, indent, 0)
	return b.String()
}

func writeJSONValue(b *strings.Builder, v any, indent string, depth int) {
	switch v := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case json.Number:
		b.WriteString(formatJSONNumber(v))
	case string:
		writeJSONString(b, v)
	case []any:
		if len(v) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONNewline(b, indent, depth+1)
			writeJSONValue(b, item, indent, depth+1)
		}
		writeJSONNewline(b, indent, depth)
		b.WriteByte(']')
	case jsonObject:
		if len(v) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteByte('{')
		for i, m := range orderJSONMembers(v) {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONNewline(b, indent, depth+1)
			writeJSONString(b, m.key)
			b.WriteByte(':')
			if indent != "" {
				b.WriteByte(' ')
			}
			writeJSONValue(b, m.value, indent, depth+1)
		}
		writeJSONNewline(b, indent, depth)
		b.WriteByte('}')
	}
}

func writeJSONNewline(b *strings.Builder, indent string, depth int) {
	if indent == "" {
		return
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(indent, depth))
}

// orderJSONMembers moves array-index keys ("0", "1", ... below 2^32-1) to the
// front in numeric order; the other keys keep insertion order.
func orderJSONMembers(obj jsonObject) jsonObject {
	var indexed, named jsonObject
	for _, m := range obj {
		if _, ok := arrayIndex(m.key); ok {
			indexed = append(indexed, m)
		} else {
			named = append(named, m)
		}
	}
	if len(indexed) == 0 {
		return obj
	}
	slices.SortStableFunc(indexed, func(a, b jsonMember) int {
		x, _ := arrayIndex(a.key)
		y, _ := arrayIndex(b.key)
		return cmp.Compare(x, y)
	})
	return append(indexed, named...)
}

func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	return n, true
}

// formatJSONNumber prints a number the way JSON.stringify does: plain
// notation for magnitudes in [1e-6, 1e21), exponent notation outside it, and
// null for values that overflow a float64.
func formatJSONNumber(n json.Number) string {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil && !math.IsInf(f, 0) {
		return string(n)
	}
	switch {
	case math.IsInf(f, 0):
		return "null"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

func writeJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
