// Package harness runs YAML scenarios against a database and records a
// deterministic trace of every statement it executed.
//
// # Scenario Format
//
//	name: workflow
//	description: "Create a table, insert rows, read them back"
//	driver: sqlite          # optional, defaults to sqlite
//	location: ":memory:"    # optional, defaults to :memory:
//	schema: tables.cue      # optional CUE definitions, relative to the file
//	tables:
//	  - name: foo
//	    columns:
//	      - {name: bar, type: float}
//	      - {name: baz, type: integer}
//	steps:
//	  - insert:
//	      table: foo
//	      rows:
//	        - [42.0, 69]
//	  - select:
//	      table: foo
//	      columns: [baz]
//	      limit: 1
//	      expect:
//	        - [69]
//	  - exec: "DELETE FROM `foo`"
//	  - select: {table: missing}
//	    error: PREPARE
//
// Each step holds exactly one of exec, insert or select. Row values follow
// column.FromAny: integers, floats, strings and {binary: <base64>}.
//
// A step with an error field must fail with that kind: FIELD_NOT_SET,
// INVALID_FIELD, RETRY_EXHAUSTED or a driver kind (CONNECT, PREPARE, BIND,
// EXEC, READ). Any other failure stops the scenario and fails the result.
//
// # Determinism
//
// Every scenario runs on a fresh database with a discard logger. Trace
// events are stamped by testutil.DeterministicClock, so the canonical trace
// of a scenario is stable across runs and can be compared with a golden file:
//
//	go test ./internal/harness -update
package harness
