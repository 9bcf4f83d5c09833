package column

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected Value
	}{
		{"value passthrough", FloatValue(1.5), FloatValue(1.5)},
		{"bytes", []byte{1, 2}, BinaryValue{1, 2}},
		{"string", "hello", StringValue("hello")},
		{"int", 42, IntegerValue(42)},
		{"int32", int32(-7), IntegerValue(-7)},
		{"uint8", uint8(255), IntegerValue(255)},
		{"uint64", uint64(10), IntegerValue(10)},
		{"float32", float32(0.5), FloatValue(0.5)},
		{"float64", 42.0, FloatValue(42)},
		{"json integer", json.Number("69"), IntegerValue(69)},
		{"json float", json.Number("42.0"), FloatValue(42)},
		{"json exponent", json.Number("1e3"), FloatValue(1000)},
		{"binary object", map[string]any{"binary": "AAEC"}, BinaryValue{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := FromAny(tt.input)
			require.NoError(t, err)
			assert.True(t, Equal(tt.expected, v), "got %#v", v)
		})
	}
}

func TestFromAnyErrors(t *testing.T) {
	tests := []struct {
		name  string
		input any
		msg   string
	}{
		{"nil", nil, "null"},
		{"bool", true, "unsupported type"},
		{"uint64 overflow", uint64(math.MaxUint64), "overflows"},
		{"json integer overflow", json.Number("99999999999999999999"), "out of int64 range"},
		{"object without binary key", map[string]any{"text": "x"}, "must have the form"},
		{"object with extra key", map[string]any{"binary": "AA==", "x": 1}, "must have the form"},
		{"binary not a string", map[string]any{"binary": 1}, "base64 string"},
		{"bad base64", map[string]any{"binary": "!!"}, "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromAny(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestFromAnySlice(t *testing.T) {
	values, err := FromAnySlice([]any{42.0, 69})
	require.NoError(t, err)
	assert.True(t, EqualAll([]Value{FloatValue(42), IntegerValue(69)}, values))

	_, err = FromAnySlice([]any{1, nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value[1]")
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		cell     any
		kind     Type
		expected Value
	}{
		{"bytes as binary", []byte{0xde, 0xad}, Binary, BinaryValue{0xde, 0xad}},
		{"string as binary", "ab", Binary, BinaryValue("ab")},
		{"float as float", 42.0, Float, FloatValue(42)},
		{"int as float", int64(3), Float, FloatValue(3)},
		{"text as float", []byte("2.5"), Float, FloatValue(2.5)},
		{"int as integer", int64(69), Integer, IntegerValue(69)},
		{"integral float as integer", 70.0, Integer, IntegerValue(70)},
		{"text as integer", []byte("-12"), Integer, IntegerValue(-12)},
		{"int32 as integer", int32(5), Integer, IntegerValue(5)},
		{"min int64 float as integer", -9223372036854775808.0, Integer, IntegerValue(math.MinInt64)},
		{"large integral float as integer", 9223372036854774784.0, Integer, IntegerValue(9223372036854774784)},
		{"uint64 as integer", uint64(math.MaxInt64), Integer, IntegerValue(math.MaxInt64)},
		{"string as string", "hello", String, StringValue("hello")},
		{"bytes as string", []byte("hello"), String, StringValue("hello")},
		{"int as string", int64(7), String, StringValue("7")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Convert(tt.cell, tt.kind)
			require.NoError(t, err)
			assert.True(t, Equal(tt.expected, v), "got %#v", v)
		})
	}
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name string
		cell any
		kind Type
		msg  string
	}{
		{"null", nil, Integer, "NULL"},
		{"int as binary", int64(1), Binary, "as binary"},
		{"fractional float as integer", 42.5, Integer, "not an integer"},
		{"2^63 float as integer", 9223372036854775808.0, Integer, "not an integer"},
		{"below min int64 float as integer", -9223372036854777856.0, Integer, "not an integer"},
		{"uint64 overflow as integer", uint64(math.MaxInt64) + 1, Integer, "overflows integer"},
		{"text as integer", "abc", Integer, "as integer"},
		{"text as float", "abc", Float, "as float"},
		{"unknown type", int64(1), Type(9), "unknown column type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(tt.cell, tt.kind)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestConvertCopiesBytes(t *testing.T) {
	cell := []byte{1, 2, 3}
	v, err := Convert(cell, Binary)
	require.NoError(t, err)

	cell[0] = 9
	assert.Equal(t, BinaryValue{1, 2, 3}, v)
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		cell     any
		expected Type
	}{
		{[]byte("x"), Binary},
		{1.5, Float},
		{int64(1), Integer},
		{"x", String},
	}

	for _, tt := range tests {
		kind, err := TypeOf(tt.cell)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, kind)
	}

	_, err := TypeOf(nil)
	assert.Error(t, err)
	_, err = TypeOf(true)
	assert.Error(t, err)
}
