package column

import (
	"fmt"
	"strings"
)

// Type declares the storage representation expected for a column.
type Type int

const (
	// Binary is raw bytes.
	Binary Type = iota
	// Float is a 64-bit floating-point number.
	Float
	// Integer is a 64-bit signed integer.
	Integer
	// String is UTF-8 text.
	String
)

// Types lists every column type in declaration order.
var Types = []Type{Binary, Float, Integer, String}

// String returns the lowercase name of the type.
func (t Type) String() string {
	switch t {
	case Binary:
		return "binary"
	case Float:
		return "float"
	case Integer:
		return "integer"
	case String:
		return "string"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Valid reports whether t is one of the declared variants.
func (t Type) Valid() bool {
	return t >= Binary && t <= String
}

// ParseType parses a type name as produced by Type.String.
// Matching is case-insensitive.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "binary":
		return Binary, nil
	case "float":
		return Float, nil
	case "integer":
		return Integer, nil
	case "string":
		return String, nil
	default:
		return 0, fmt.Errorf("unknown column type %q: must be one of binary, float, integer, string", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid column type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Column names a column and declares its type.
type Column struct {
	Name string `json:"name" yaml:"name"`
	Kind Type   `json:"type" yaml:"type"`
}

// New creates a Column.
func New(name string, kind Type) Column {
	return Column{Name: name, Kind: kind}
}

// Names returns the column names in order.
func Names(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}
