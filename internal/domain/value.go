package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind identifies the JSON shape a Value holds
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value represents an arbitrary JSON value (test-case input parameter,
// expected output, or parsed program output). Object keys keep their
// original order so argument construction can follow the declared
// parameter order, while equality ignores it.
type Value struct {
	kind    ValueKind
	boolVal bool
	numVal  float64
	strVal  string
	items   []Value
	keys    []string
	fields  map[string]Value
}

// Null returns the JSON null value
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a JSON boolean value
func Bool(b bool) Value {
	return Value{kind: KindBool, boolVal: b}
}

// Number returns a JSON number value
func Number(n float64) Value {
	return Value{kind: KindNumber, numVal: n}
}

// String returns a JSON string value
func String(s string) Value {
	return Value{kind: KindString, strVal: s}
}

// Array returns a JSON array value
func Array(items ...Value) Value {
	return Value{kind: KindArray, items: items}
}

// Object returns a JSON object value with the given key order
func Object(keys []string, fields map[string]Value) Value {
	return Value{kind: KindObject, keys: keys, fields: fields}
}

func (v Value) Kind() ValueKind { return v.kind }

// BoolValue returns the boolean payload; only meaningful for KindBool
func (v Value) BoolValue() bool { return v.boolVal }

// NumberValue returns the numeric payload; only meaningful for KindNumber
func (v Value) NumberValue() float64 { return v.numVal }

// StringValue returns the string payload; only meaningful for KindString
func (v Value) StringValue() string { return v.strVal }

// Items returns the array elements; only meaningful for KindArray
func (v Value) Items() []Value { return v.items }

// Keys returns the object keys in their original order
func (v Value) Keys() []string { return v.keys }

// Field returns the value stored under key
func (v Value) Field(key string) (Value, bool) {
	val, ok := v.fields[key]
	return val, ok
}

// ParseValue parses JSON text into a Value, preserving object key order.
// Leading and trailing whitespace is ignored; trailing non-whitespace
// after the value is an error so truncated program output is rejected.
func ParseValue(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	val, err := decodeValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("failed to parse value: %w", err)
	}

	// Reject garbage after the value
	if dec.More() {
		return Value{}, fmt.Errorf("unexpected trailing data after value")
	}

	return val, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			items := make([]Value, 0)
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return Array(items...), nil
		case '{':
			keys := make([]string, 0)
			fields := make(map[string]Value)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				if _, seen := fields[key]; !seen {
					keys = append(keys, key)
				}
				fields[key] = val
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return Object(keys, fields), nil
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

// Equal reports deep structural equality between two values. Numbers
// compare by numeric value so 3 equals 3.0, arrays compare elementwise
// in order, objects compare by key set regardless of key order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == other.boolVal
	case KindNumber:
		return v.numVal == other.numVal
	case KindString:
		return v.strVal == other.strVal
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.fields) != len(other.fields) {
			return false
		}
		for key, val := range v.fields {
			otherVal, ok := other.fields[key]
			if !ok || !val.Equal(otherVal) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsFinite reports whether every number reachable from the value is a
// finite float; NaN and infinities have no JSON literal form and cannot
// be embedded in a generated harness.
func (v Value) IsFinite() bool {
	switch v.kind {
	case KindNumber:
		return !math.IsNaN(v.numVal) && !math.IsInf(v.numVal, 0)
	case KindArray:
		for _, item := range v.items {
			if !item.IsFinite() {
				return false
			}
		}
		return true
	case KindObject:
		for _, val := range v.fields {
			if !val.IsFinite() {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders the value as canonical JSON text with object keys in
// their original order.
func (v Value) String() string {
	var sb strings.Builder
	v.render(&sb)
	return sb.String()
}

func (v Value) render(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.boolVal))
	case KindNumber:
		sb.WriteString(formatNumber(v.numVal))
	case KindString:
		data, _ := json.Marshal(v.strVal)
		sb.Write(data)
	case KindArray:
		sb.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.render(sb)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			data, _ := json.Marshal(key)
			sb.Write(data)
			sb.WriteByte(':')
			v.fields[key].render(sb)
		}
		sb.WriteByte('}')
	}
}

// formatNumber writes integral floats without a fractional part so
// generated literals stay valid in every target language
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
