package timeline

import (
	"encoding/json"
	"strconv"
)

// Identifier is a resolved resource or event key. Only strings and numbers
// are valid identifiers; the string "1" and the number 1 remain distinct
// keys. The zero value is not a valid identifier.
type Identifier struct {
	text    string
	number  float64
	numeric bool
	valid   bool
}

// IdentifierOf coerces a resolved accessor value into an Identifier. It
// reports false for nil and for any non-string, non-numeric value.
func IdentifierOf(v any) (Identifier, bool) {
	switch n := v.(type) {
	case string:
		return Identifier{text: n, valid: true}, true
	case int:
		return numericIdentifier(float64(n)), true
	case int8:
		return numericIdentifier(float64(n)), true
	case int16:
		return numericIdentifier(float64(n)), true
	case int32:
		return numericIdentifier(float64(n)), true
	case int64:
		return numericIdentifier(float64(n)), true
	case uint:
		return numericIdentifier(float64(n)), true
	case uint8:
		return numericIdentifier(float64(n)), true
	case uint16:
		return numericIdentifier(float64(n)), true
	case uint32:
		return numericIdentifier(float64(n)), true
	case uint64:
		return numericIdentifier(float64(n)), true
	case float32:
		return numericIdentifier(float64(n)), true
	case float64:
		return numericIdentifier(n), true
	default:
		return Identifier{}, false
	}
}

func numericIdentifier(n float64) Identifier {
	return Identifier{number: n, numeric: true, valid: true}
}

// Valid reports whether the identifier was resolved from a string or number.
func (id Identifier) Valid() bool {
	return id.valid
}

// String renders the identifier for use as a stable list key.
func (id Identifier) String() string {
	if id.numeric {
		return strconv.FormatFloat(id.number, 'f', -1, 64)
	}
	return id.text
}

// MarshalJSON emits the underlying string or number value.
func (id Identifier) MarshalJSON() ([]byte, error) {
	if !id.valid {
		return []byte("null"), nil
	}
	if id.numeric {
		return json.Marshal(id.number)
	}
	return json.Marshal(id.text)
}
