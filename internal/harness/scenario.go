package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tabula/internal/column"
	"github.com/roach88/tabula/internal/driver/sqlite"
	"github.com/roach88/tabula/internal/schema"
)

// Scenario defines a sequence of statements run against one database.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Driver is the registered driver name. Defaults to sqlite.
	Driver string `yaml:"driver,omitempty"`

	// Location is passed to the driver. Defaults to an in-memory database.
	Location string `yaml:"location,omitempty"`

	// Schema is a CUE file or directory of table definitions.
	// A relative path is resolved against the scenario file.
	Schema string `yaml:"schema,omitempty"`

	// Tables are created before the first step, after Schema.
	Tables []TableDef `yaml:"tables,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`
}

// TableDef declares a table inline.
type TableDef struct {
	Name    string      `yaml:"name"`
	Columns []ColumnDef `yaml:"columns"`
}

// ColumnDef is a column name and a type name accepted by column.ParseType.
type ColumnDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Step is one statement. Exactly one of Exec, Insert and Select is set.
type Step struct {
	// Exec is raw statement text run without parameters.
	Exec string `yaml:"exec,omitempty"`

	// Insert writes rows through a prepared INSERT.
	Insert *InsertStep `yaml:"insert,omitempty"`

	// Select reads rows and optionally checks them.
	Select *SelectStep `yaml:"select,omitempty"`

	// Error is the error kind the step must fail with.
	Error string `yaml:"error,omitempty"`
}

// InsertStep writes Rows into a declared table.
type InsertStep struct {
	Table string `yaml:"table"`

	// Columns defaults to every declared column of the table.
	Columns []string `yaml:"columns,omitempty"`

	Rows [][]any `yaml:"rows"`
}

// SelectStep reads from a table.
type SelectStep struct {
	Table   string   `yaml:"table"`
	Columns []string `yaml:"columns,omitempty"`
	Limit   *uint64  `yaml:"limit,omitempty"`

	// Expect, when present, must equal the rows read, in order.
	Expect [][]any `yaml:"expect,omitempty"`
}

// Step kinds as they appear in the trace.
const (
	KindCreateTable = "create_table"
	KindExec        = "exec"
	KindInsert      = "insert"
	KindSelect      = "select"
)

// Kind returns the step kind, or "" when the step is malformed.
func (s Step) Kind() string {
	switch {
	case s.Exec != "" && s.Insert == nil && s.Select == nil:
		return KindExec
	case s.Exec == "" && s.Insert != nil && s.Select == nil:
		return KindInsert
	case s.Exec == "" && s.Insert == nil && s.Select != nil:
		return KindSelect
	default:
		return ""
	}
}

// DriverName returns the scenario driver, defaulting to sqlite.
func (s *Scenario) DriverName() string {
	if s.Driver == "" {
		return sqlite.Name
	}
	return s.Driver
}

// DriverLocation returns the scenario location, defaulting to memory.
func (s *Scenario) DriverLocation() string {
	if s.Location == "" {
		return sqlite.Memory
	}
	return s.Location
}

// Definitions returns the tables to create: Schema first, then Tables.
func (s *Scenario) Definitions() ([]schema.Definition, error) {
	var defs []schema.Definition
	if s.Schema != "" {
		loaded, err := schema.Load(s.Schema)
		if err != nil {
			return nil, fmt.Errorf("load schema: %w", err)
		}
		defs = append(defs, loaded...)
	}
	for _, table := range s.Tables {
		columns := make([]column.Column, len(table.Columns))
		for i, c := range table.Columns {
			kind, err := column.ParseType(c.Type)
			if err != nil {
				return nil, fmt.Errorf("table %s: column %s: %w", table.Name, c.Name, err)
			}
			columns[i] = column.New(c.Name, kind)
		}
		defs = append(defs, schema.Definition{Name: table.Name, Columns: columns})
	}
	return defs, nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) {
		scenario.Schema = filepath.Join(filepath.Dir(path), scenario.Schema)
	}
	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks required fields and step shapes.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}

	seen := make(map[string]bool, len(s.Tables))
	for i, table := range s.Tables {
		if table.Name == "" {
			return fmt.Errorf("tables[%d]: name is required", i)
		}
		if seen[table.Name] {
			return fmt.Errorf("tables[%d]: duplicate table %q", i, table.Name)
		}
		seen[table.Name] = true
		for j, c := range table.Columns {
			if c.Name == "" {
				return fmt.Errorf("tables[%d].columns[%d]: name is required", i, j)
			}
			if _, err := column.ParseType(c.Type); err != nil {
				return fmt.Errorf("tables[%d].columns[%d]: %w", i, j, err)
			}
		}
	}

	for i, step := range s.Steps {
		switch step.Kind() {
		case KindInsert:
			if step.Insert.Table == "" {
				return fmt.Errorf("steps[%d]: insert.table is required", i)
			}
			if len(step.Insert.Rows) == 0 {
				return fmt.Errorf("steps[%d]: insert.rows is required", i)
			}
		case KindSelect:
			if step.Select.Table == "" {
				return fmt.Errorf("steps[%d]: select.table is required", i)
			}
		case KindExec:
		default:
			return fmt.Errorf("steps[%d]: exactly one of exec, insert or select is required", i)
		}
		if step.Error != "" && !knownErrorKinds[step.Error] {
			return fmt.Errorf("steps[%d]: unknown error kind %q", i, step.Error)
		}
	}
	return nil
}
