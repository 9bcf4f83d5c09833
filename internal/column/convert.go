package column

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cast"
)

// binaryKey is the single key of the object form of a binary value,
// e.g. {"binary": "AAEC"}.
const binaryKey = "binary"

// FromAny converts a Go value into a Value.
//
// Supported inputs: Value, []byte, string, signed and unsigned integers,
// float32/float64, json.Number and map[string]any{"binary": <base64>}.
// nil is rejected: there is no null variant.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is not a column value")
	case Value:
		return val, nil
	case []byte:
		return BinaryValue(bytes.Clone(val)), nil
	case string:
		return StringValue(val), nil
	case int:
		return IntegerValue(val), nil
	case int8:
		return IntegerValue(val), nil
	case int16:
		return IntegerValue(val), nil
	case int32:
		return IntegerValue(val), nil
	case int64:
		return IntegerValue(val), nil
	case uint8:
		return IntegerValue(val), nil
	case uint16:
		return IntegerValue(val), nil
	case uint32:
		return IntegerValue(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}
		return IntegerValue(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}
		return IntegerValue(val), nil
	case float32:
		return FloatValue(val), nil
	case float64:
		return FloatValue(val), nil
	case json.Number:
		return numberValue(string(val))
	case map[string]any:
		return binaryFromObject(val)
	default:
		return nil, fmt.Errorf("unsupported type for column value: %T", v)
	}
}

// FromAnySlice converts every element with FromAny.
func FromAnySlice(vals []any) ([]Value, error) {
	out := make([]Value, len(vals))
	for i, v := range vals {
		converted, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("value[%d]: %w", i, err)
		}
		out[i] = converted
	}
	return out, nil
}

// Convert coerces a backend cell into a Value of the given type.
//
// Lossless conversions only: a non-integral float is not an integer and a
// non-numeric string is not a number. nil (SQL NULL) is rejected.
func Convert(cell any, t Type) (Value, error) {
	if cell == nil {
		return nil, fmt.Errorf("NULL cannot be read as %s", t)
	}

	switch t {
	case Binary:
		switch val := cell.(type) {
		case []byte:
			return BinaryValue(bytes.Clone(val)), nil
		case string:
			return BinaryValue(val), nil
		default:
			return nil, fmt.Errorf("cannot read %T as binary", cell)
		}

	case Float:
		f, err := cast.ToFloat64E(textual(cell))
		if err != nil {
			return nil, fmt.Errorf("cannot read %T as float: %w", cell, err)
		}
		return FloatValue(f), nil

	case Integer:
		switch val := cell.(type) {
		case int64:
			return IntegerValue(val), nil
		case float64:
			// float64(math.MaxInt64) rounds up to 2^63, which is out of range.
			if val != math.Trunc(val) || val >= math.MaxInt64 || val < math.MinInt64 {
				return nil, fmt.Errorf("float %v is not an integer", val)
			}
			return IntegerValue(int64(val)), nil
		case uint64:
			if val > math.MaxInt64 {
				return nil, fmt.Errorf("unsigned %d overflows integer", val)
			}
			return IntegerValue(int64(val)), nil
		case []byte, string:
			n, err := strconv.ParseInt(cast.ToString(val), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot read %q as integer: %w", cast.ToString(val), err)
			}
			return IntegerValue(n), nil
		}
		n, err := cast.ToInt64E(cell)
		if err != nil {
			return nil, fmt.Errorf("cannot read %T as integer: %w", cell, err)
		}
		return IntegerValue(n), nil

	case String:
		s, err := cast.ToStringE(cell)
		if err != nil {
			return nil, fmt.Errorf("cannot read %T as string: %w", cell, err)
		}
		return StringValue(s), nil

	default:
		return nil, fmt.Errorf("unknown column type %s", t)
	}
}

// TypeOf infers the column type of a backend cell from its dynamic Go type.
// Used when the backend reports no declared type for a result column.
func TypeOf(cell any) (Type, error) {
	switch cell.(type) {
	case []byte:
		return Binary, nil
	case float32, float64:
		return Float, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Integer, nil
	case string:
		return String, nil
	case nil:
		return 0, fmt.Errorf("NULL has no column type")
	default:
		return 0, fmt.Errorf("unsupported cell type %T", cell)
	}
}

// textual turns byte slices into strings so numeric parsing can see them.
func textual(cell any) any {
	if b, ok := cell.([]byte); ok {
		return string(b)
	}
	return cell
}

// numberValue classifies a JSON number literal. Literals with a fraction or
// exponent are floats, everything else is an integer.
func numberValue(lit string) (Value, error) {
	if isFloatLiteral(lit) {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %s: %w", lit, err)
		}
		return FloatValue(f), nil
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("number out of int64 range: %s", lit)
	}
	return IntegerValue(n), nil
}

func isFloatLiteral(lit string) bool {
	for i := 0; i < len(lit); i++ {
		switch lit[i] {
		case '.', 'e', 'E':
			return true
		}
	}
	return false
}

func binaryFromObject(obj map[string]any) (Value, error) {
	raw, ok := obj[binaryKey]
	if !ok || len(obj) != 1 {
		return nil, fmt.Errorf("object values must have the form {%q: <base64>}", binaryKey)
	}
	encoded, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%q must be a base64 string, got %T", binaryKey, raw)
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", binaryKey, err)
	}
	return BinaryValue(decoded), nil
}
