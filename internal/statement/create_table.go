package statement

import (
	"fmt"

	"github.com/roach88/tabula/internal/column"
)

// CreateTableBuilder accumulates a CREATE TABLE statement.
type CreateTableBuilder struct {
	name        *string
	ifNotExists *bool
	columns     []*ColumnDefinition
}

// CreateTable starts a CREATE TABLE statement.
func CreateTable() *CreateTableBuilder {
	return &CreateTableBuilder{}
}

// Name sets the table name.
func (b *CreateTableBuilder) Name(name string) *CreateTableBuilder {
	b.name = &name
	return b
}

// IfNotExists makes the statement a no-op when the table exists.
func (b *CreateTableBuilder) IfNotExists() *CreateTableBuilder {
	yes := true
	b.ifNotExists = &yes
	return b
}

// Column appends a column definition.
func (b *CreateTableBuilder) Column(def *ColumnDefinition) *CreateTableBuilder {
	b.columns = append(b.columns, def)
	return b
}

// Columns appends a definition for each column, in order.
func (b *CreateTableBuilder) Columns(columns ...column.Column) *CreateTableBuilder {
	for _, c := range columns {
		b.columns = append(b.columns, Column().Name(c.Name).Kind(c.Kind))
	}
	return b
}

// Compile renders
//
//	CREATE TABLE [IF NOT EXISTS] `name` (`col` KEYWORD, ...)
//
// Columns keep insertion order. A table without columns renders "()".
func (b *CreateTableBuilder) Compile() (string, error) {
	name, err := take("create_table", "name", &b.name)
	if err != nil {
		return "", err
	}
	ifNotExists, _ := takeOptional(&b.ifNotExists)
	defs := b.columns
	b.columns = nil

	columns := make([]string, len(defs))
	for i, def := range defs {
		if def == nil {
			return "", &FieldNotSetError{Statement: "create_table", Field: fmt.Sprintf("columns[%d]", i)}
		}
		compiled, err := def.Compile()
		if err != nil {
			return "", err
		}
		columns[i] = compiled
	}

	var buf buffer
	buf.push("CREATE TABLE")
	if ifNotExists {
		buf.push("IF NOT EXISTS")
	}
	buf.push(quote(name)).push(group(columns))
	return buf.String(), nil
}
