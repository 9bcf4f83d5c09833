package statement

import (
	"fmt"
	"strings"
)

// InsertIntoBuilder accumulates an INSERT statement.
type InsertIntoBuilder struct {
	table     *string
	columns   []string
	multiplex *int
}

// InsertInto starts an INSERT statement.
func InsertInto() *InsertIntoBuilder {
	return &InsertIntoBuilder{}
}

// Table sets the target table.
func (b *InsertIntoBuilder) Table(name string) *InsertIntoBuilder {
	b.table = &name
	return b
}

// Column appends a target column.
func (b *InsertIntoBuilder) Column(name string) *InsertIntoBuilder {
	b.columns = append(b.columns, name)
	return b
}

// Columns appends target columns in order.
func (b *InsertIntoBuilder) Columns(names ...string) *InsertIntoBuilder {
	b.columns = append(b.columns, names...)
	return b
}

// Multiplex sets how many rows one execution inserts. Defaults to 1.
func (b *InsertIntoBuilder) Multiplex(rows int) *InsertIntoBuilder {
	b.multiplex = &rows
	return b
}

// Compile renders
//
//	INSERT INTO `table` (`a`, `b`) VALUES (?, ?), (?, ?)
//
// with one placeholder group per multiplexed row.
func (b *InsertIntoBuilder) Compile() (string, error) {
	table, err := take("insert_into", "table", &b.table)
	if err != nil {
		return "", err
	}
	columns := b.columns
	b.columns = nil
	if len(columns) == 0 {
		return "", &FieldNotSetError{Statement: "insert_into", Field: "columns"}
	}
	multiplex, ok := takeOptional(&b.multiplex)
	if !ok {
		multiplex = 1
	}
	if multiplex < 1 {
		return "", &InvalidFieldError{
			Statement: "insert_into",
			Field:     "multiplex",
			Message:   fmt.Sprintf("must be at least 1, got %d", multiplex),
		}
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	row := group(placeholders)
	rows := strings.Repeat(row+", ", multiplex-1) + row

	var buf buffer
	buf.push("INSERT INTO").
		push(quote(table)).
		push(group(quoteAll(columns))).
		push("VALUES").
		push(rows)
	return buf.String(), nil
}
