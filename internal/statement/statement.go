package statement

// Statement is anything that compiles to query text.
type Statement interface {
	// Compile renders the statement or returns an error. It never returns
	// partial text.
	Compile() (string, error)
}

// Raw is literal query text passed through unchanged, for statements the
// builders do not cover (DROP TABLE, SELECT COUNT(*), ...).
type Raw string

// Compile implements Statement.
func (r Raw) Compile() (string, error) {
	if r == "" {
		return "", &FieldNotSetError{Statement: "raw", Field: "text"}
	}
	return string(r), nil
}

var (
	_ Statement = Raw("")
	_ Statement = (*CreateTableBuilder)(nil)
	_ Statement = (*ColumnDefinition)(nil)
	_ Statement = (*InsertIntoBuilder)(nil)
	_ Statement = (*SelectBuilder)(nil)
)
