package column

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ParseJSON decodes a single JSON literal into a Value.
//
// Numbers with a fraction or exponent decode as FloatValue, other numbers
// as IntegerValue. Strings decode as StringValue and {"binary": "<base64>"}
// as BinaryValue. null, booleans and arrays are rejected.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse value: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse value: trailing data after JSON literal")
	}
	return fromJSON(raw)
}

// ParseJSONRow decodes a JSON array into a sequence of Values.
func ParseJSONRow(data []byte) ([]Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse row: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse row: trailing data after JSON array")
	}

	row := make([]Value, len(raw))
	for i, elem := range raw {
		v, err := fromJSON(elem)
		if err != nil {
			return nil, fmt.Errorf("row[%d]: %w", i, err)
		}
		row[i] = v
	}
	return row, nil
}

func fromJSON(raw any) (Value, error) {
	switch val := raw.(type) {
	case json.Number, string, map[string]any, nil:
		return FromAny(val)
	default:
		return nil, fmt.Errorf("unsupported JSON value %T", raw)
	}
}

// MarshalJSON encodes v in the form accepted by ParseJSON.
// Floats always carry a fraction or exponent so they decode back as floats.
func MarshalJSON(v Value) ([]byte, error) {
	enc := &jsonEncoder{}
	if v == nil {
		return nil, fmt.Errorf("cannot encode nil value")
	}
	if err := v.Accept(enc); err != nil {
		return nil, err
	}
	return enc.out, nil
}

type jsonEncoder struct {
	out []byte
}

func (e *jsonEncoder) VisitBinary(b []byte) error {
	encoded, err := json.Marshal(map[string]string{binaryKey: base64.StdEncoding.EncodeToString(b)})
	if err != nil {
		return err
	}
	e.out = encoded
	return nil
}

func (e *jsonEncoder) VisitFloat(f float64) error {
	lit, err := formatFloat(f)
	if err != nil {
		return err
	}
	e.out = []byte(lit)
	return nil
}

func (e *jsonEncoder) VisitInteger(i int64) error {
	e.out = strconv.AppendInt(nil, i, 10)
	return nil
}

func (e *jsonEncoder) VisitString(s string) error {
	encoded, err := marshalCanonicalString(s)
	if err != nil {
		return err
	}
	e.out = encoded
	return nil
}

// formatFloat renders f as a JSON number that reads back as a float.
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("float %v has no JSON representation", f)
	}
	lit := strconv.FormatFloat(f, 'g', -1, 64)
	if !isFloatLiteral(lit) {
		lit += ".0"
	}
	return lit, nil
}
