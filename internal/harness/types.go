package harness

import (
	"errors"

	"github.com/roach88/tabula/internal/column"
	"github.com/roach88/tabula/internal/database"
	"github.com/roach88/tabula/internal/driver"
	"github.com/roach88/tabula/internal/statement"
)

// TraceEvent records one executed statement.
type TraceEvent struct {
	Seq   int64  `json:"seq"`
	Kind  string `json:"kind"`
	Query string `json:"query,omitempty"`

	// Rows holds the rows read by a select.
	Rows []driver.Record `json:"-"`

	// Count is the number of rows written by an insert.
	Count int `json:"count,omitempty"`

	// Error is the kind of the expected failure, when the step failed.
	Error string `json:"error,omitempty"`
}

// toCanonical converts the event for column.MarshalCanonical, which
// rejects nil, so absent fields are left out.
func (e TraceEvent) toCanonical() map[string]any {
	out := map[string]any{
		"seq":  e.Seq,
		"kind": e.Kind,
	}
	if e.Query != "" {
		out["query"] = e.Query
	}
	if e.Kind == KindSelect && e.Error == "" {
		rows := make([]any, len(e.Rows))
		for i, row := range e.Rows {
			rows[i] = []column.Value(row)
		}
		out["rows"] = rows
	}
	if e.Kind == KindInsert && e.Error == "" {
		out["count"] = e.Count
	}
	if e.Error != "" {
		out["error"] = e.Error
	}
	return out
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step behaved as declared.
	Pass bool `json:"pass"`

	// Trace contains one event per executed statement, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event to the trace.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}

// Error kinds a step may declare.
const (
	ErrorFieldNotSet    = "FIELD_NOT_SET"
	ErrorInvalidField   = "INVALID_FIELD"
	ErrorRetryExhausted = "RETRY_EXHAUSTED"
	ErrorOther          = "ERROR"
)

var knownErrorKinds = map[string]bool{
	ErrorFieldNotSet:           true,
	ErrorInvalidField:          true,
	ErrorRetryExhausted:        true,
	ErrorOther:                 true,
	string(driver.KindConnect): true,
	string(driver.KindPrepare): true,
	string(driver.KindBind):    true,
	string(driver.KindExec):    true,
	string(driver.KindRead):    true,
}

// ErrorKind classifies err for comparison with Step.Error.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, database.ErrRetryExhausted):
		return ErrorRetryExhausted
	case statement.IsFieldNotSet(err):
		return ErrorFieldNotSet
	case statement.IsInvalidField(err):
		return ErrorInvalidField
	}
	if kind := driver.KindOf(err); kind != "" {
		return string(kind)
	}
	return ErrorOther
}
