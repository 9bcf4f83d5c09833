package statement

import (
	"fmt"

	"github.com/roach88/tabula/internal/column"
)

// ColumnDefinition is one `name KEYWORD` entry of a CREATE TABLE.
type ColumnDefinition struct {
	name *string
	kind *column.Type
}

// Column starts a column definition.
func Column() *ColumnDefinition {
	return &ColumnDefinition{}
}

// Name sets the column name.
func (c *ColumnDefinition) Name(name string) *ColumnDefinition {
	c.name = &name
	return c
}

// Kind sets the column type.
func (c *ColumnDefinition) Kind(kind column.Type) *ColumnDefinition {
	c.kind = &kind
	return c
}

// Compile renders "`name` KEYWORD".
func (c *ColumnDefinition) Compile() (string, error) {
	name, err := take("column", "name", &c.name)
	if err != nil {
		return "", err
	}
	kind, err := take("column", "kind", &c.kind)
	if err != nil {
		return "", err
	}
	kw, err := keyword(kind)
	if err != nil {
		return "", err
	}
	return quote(name) + " " + kw, nil
}

// keyword maps a column type to the backend type keyword.
func keyword(kind column.Type) (string, error) {
	switch kind {
	case column.Binary:
		return "BLOB", nil
	case column.Float:
		return "REAL", nil
	case column.Integer:
		return "INTEGER", nil
	case column.String:
		return "TEXT", nil
	default:
		return "", &InvalidFieldError{
			Statement: "column",
			Field:     "kind",
			Message:   fmt.Sprintf("unknown column type %s", kind),
		}
	}
}
