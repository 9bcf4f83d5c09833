package statement

import "strconv"

// SelectBuilder accumulates a SELECT statement.
type SelectBuilder struct {
	table   *string
	columns []string
	limit   *uint64
}

// Select starts a SELECT statement.
func Select() *SelectBuilder {
	return &SelectBuilder{}
}

// Table sets the source table.
func (b *SelectBuilder) Table(name string) *SelectBuilder {
	b.table = &name
	return b
}

// Column appends a result column. Without any, all columns are selected.
func (b *SelectBuilder) Column(name string) *SelectBuilder {
	b.columns = append(b.columns, name)
	return b
}

// Columns appends result columns in order.
func (b *SelectBuilder) Columns(names ...string) *SelectBuilder {
	b.columns = append(b.columns, names...)
	return b
}

// Limit caps the number of rows returned.
func (b *SelectBuilder) Limit(n uint64) *SelectBuilder {
	b.limit = &n
	return b
}

// Compile renders
//
//	SELECT * | `a`, `b` FROM `table` [LIMIT n]
func (b *SelectBuilder) Compile() (string, error) {
	table, err := take("select", "table", &b.table)
	if err != nil {
		return "", err
	}
	columns := b.columns
	b.columns = nil
	limit, hasLimit := takeOptional(&b.limit)

	var buf buffer
	buf.push("SELECT")
	if len(columns) == 0 {
		buf.push("*")
	} else {
		buf.push(list(quoteAll(columns)))
	}
	buf.push("FROM").push(quote(table))
	if hasLimit {
		buf.push("LIMIT").push(strconv.FormatUint(limit, 10))
	}
	return buf.String(), nil
}
