package settings

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind discriminates the permitted value types of a setting.
type Kind string

// Value kinds.
const (
	KindBool   Kind = "bool"
	KindNumber Kind = "number"
	KindString Kind = "string"
)

// Value is a tagged variant over the permitted setting value kinds.
// Settings historically carried an untyped blob; the closed sum keeps the
// store's invariants checkable while still marshalling to a plain JSON
// scalar on the wire.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Text   string
}

// BoolValue constructs a boolean Value.
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// NumberValue constructs a numeric Value.
func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Number: n}
}

// StringValue constructs a string Value.
func StringValue(s string) Value {
	return Value{Kind: KindString, Text: s}
}

// MarshalJSON emits the bare scalar (true, 42, "text"), not the tagged form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(v.Bool)
	case KindNumber:
		return json.Marshal(v.Number)
	case KindString:
		return json.Marshal(v.Text)
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrInvalidValue, v.Kind)
	}
}

// UnmarshalJSON infers the kind from the JSON scalar type.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	switch val := raw.(type) {
	case bool:
		*v = BoolValue(val)
	case float64:
		*v = NumberValue(val)
	case string:
		*v = StringValue(val)
	default:
		return fmt.Errorf("%w: value must be a boolean, number, or string", ErrInvalidValue)
	}
	return nil
}

// encode serialises the value payload for storage.
func (v Value) encode() (kind, text string, err error) {
	switch v.Kind {
	case KindBool:
		return string(KindBool), strconv.FormatBool(v.Bool), nil
	case KindNumber:
		return string(KindNumber), strconv.FormatFloat(v.Number, 'g', -1, 64), nil
	case KindString:
		return string(KindString), v.Text, nil
	default:
		return "", "", fmt.Errorf("%w: kind %q", ErrInvalidValue, v.Kind)
	}
}

// decodeValue reconstructs a Value from its stored kind and text.
func decodeValue(kind, text string) (Value, error) {
	switch Kind(kind) {
	case KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, fmt.Errorf("%w: stored bool %q: %w", ErrInvalidValue, text, err)
		}
		return BoolValue(b), nil
	case KindNumber:
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: stored number %q: %w", ErrInvalidValue, text, err)
		}
		return NumberValue(n), nil
	case KindString:
		return StringValue(text), nil
	default:
		return Value{}, fmt.Errorf("%w: stored kind %q", ErrInvalidValue, kind)
	}
}
