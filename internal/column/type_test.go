package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		kind     Type
		expected string
	}{
		{Binary, "binary"},
		{Float, "float"},
		{Integer, "integer"},
		{String, "string"},
		{Type(42), "Type(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestParseType(t *testing.T) {
	for _, kind := range Types {
		parsed, err := ParseType(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	parsed, err := ParseType("  INTEGER ")
	require.NoError(t, err)
	assert.Equal(t, Integer, parsed)

	_, err = ParseType("boolean")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown column type")
}

func TestTypeValid(t *testing.T) {
	for _, kind := range Types {
		assert.True(t, kind.Valid(), kind.String())
	}
	assert.False(t, Type(-1).Valid())
	assert.False(t, Type(4).Valid())
}

func TestTypeTextRoundTrip(t *testing.T) {
	text, err := Float.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "float", string(text))

	var kind Type
	require.NoError(t, kind.UnmarshalText([]byte("binary")))
	assert.Equal(t, Binary, kind)

	_, err = Type(9).MarshalText()
	assert.Error(t, err)
	assert.Error(t, kind.UnmarshalText([]byte("blob")))
}

func TestColumnNames(t *testing.T) {
	columns := []Column{New("bar", Float), New("baz", Integer)}
	assert.Equal(t, []string{"bar", "baz"}, Names(columns))
	assert.Empty(t, Names(nil))
}
