// Package schema loads table definitions from CUE.
//
// A definition file declares tables under the top-level "table" field:
//
//	table: foo: columns: [
//		{name: "bar", type: "float"},
//		{name: "baz", type: "integer"},
//	]
//
// Tables and columns keep declaration order. Apply creates the tables with
// CREATE TABLE IF NOT EXISTS; nothing is altered or dropped.
package schema

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tabula/internal/column"
	"github.com/roach88/tabula/internal/database"
)

// Definition is one declared table.
type Definition struct {
	Name    string          `json:"name"`
	Columns []column.Column `json:"columns"`
}

// LoadError is a definition problem, with the CUE position when known.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadFile compiles a single CUE file.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Field: "file", Message: fmt.Sprintf("read %s: %v", path, err)}
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	return Compile(v)
}

// LoadDir loads every CUE file of the package in dir.
func LoadDir(dir string) ([]Definition, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Field: "dir", Message: fmt.Sprintf("definitions directory not found: %s", dir)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Field: "dir", Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil || len(files) == 0 {
		return nil, &LoadError{Field: "dir", Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Field: "dir", Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}

	ctx := cuecontext.New()
	return Compile(ctx.BuildInstance(inst))
}

// Load dispatches to LoadFile or LoadDir depending on what path is.
func Load(path string) ([]Definition, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Field: "path", Message: fmt.Sprintf("not found: %s", path)}
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// Compile extracts the table definitions from a built CUE value.
func Compile(v cue.Value) ([]Definition, error) {
	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	tables := v.LookupPath(cue.ParsePath("table"))
	if !tables.Exists() {
		return nil, &LoadError{Field: "table", Message: "no tables defined", Pos: v.Pos()}
	}

	iter, err := tables.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []Definition
	for iter.Next() {
		def, err := compileTable(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	if len(defs) == 0 {
		return nil, &LoadError{Field: "table", Message: "no tables defined", Pos: tables.Pos()}
	}
	return defs, nil
}

func compileTable(name string, v cue.Value) (Definition, error) {
	field := "table." + name
	def := Definition{Name: name}

	columnsVal := v.LookupPath(cue.ParsePath("columns"))
	if !columnsVal.Exists() {
		return def, &LoadError{Field: field + ".columns", Message: "columns is required", Pos: v.Pos()}
	}

	list, err := columnsVal.List()
	if err != nil {
		return def, &LoadError{Field: field + ".columns", Message: "columns must be a list", Pos: columnsVal.Pos()}
	}

	seen := make(map[string]bool)
	for i := 0; list.Next(); i++ {
		colField := fmt.Sprintf("%s.columns[%d]", field, i)
		col, err := compileColumn(colField, list.Value())
		if err != nil {
			return def, err
		}
		if seen[col.Name] {
			return def, &LoadError{Field: colField + ".name", Message: fmt.Sprintf("duplicate column %q", col.Name), Pos: list.Value().Pos()}
		}
		seen[col.Name] = true
		def.Columns = append(def.Columns, col)
	}

	return def, nil
}

func compileColumn(field string, v cue.Value) (column.Column, error) {
	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return column.Column{}, &LoadError{Field: field + ".name", Message: "name is required", Pos: v.Pos()}
	}
	name, err := nameVal.String()
	if err != nil {
		return column.Column{}, &LoadError{Field: field + ".name", Message: "name must be a string", Pos: nameVal.Pos()}
	}
	if name == "" {
		return column.Column{}, &LoadError{Field: field + ".name", Message: "name must not be empty", Pos: nameVal.Pos()}
	}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return column.Column{}, &LoadError{Field: field + ".type", Message: "type is required", Pos: v.Pos()}
	}
	typeName, err := typeVal.String()
	if err != nil {
		return column.Column{}, &LoadError{Field: field + ".type", Message: "type must be a string", Pos: typeVal.Pos()}
	}
	kind, err := column.ParseType(typeName)
	if err != nil {
		return column.Column{}, &LoadError{Field: field + ".type", Message: err.Error(), Pos: typeVal.Pos()}
	}

	return column.New(name, kind), nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Field: "cue", Message: err.Error()}
	}

	first := errs[0]
	loadErr := &LoadError{Field: "cue", Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}

// Apply creates every defined table on db.
func Apply(ctx context.Context, db *database.Database, defs []Definition) error {
	for _, def := range defs {
		table, err := database.NewTable(ctx, db, def.Name, def.Columns)
		if err != nil {
			return fmt.Errorf("create table %s: %w", def.Name, err)
		}
		if err := table.Close(); err != nil {
			return err
		}
	}
	return nil
}
