package driver

import (
	"errors"
	"fmt"
)

// Kind categorizes driver failures.
type Kind string

const (
	// KindConnect indicates the store could not be opened or created.
	KindConnect Kind = "CONNECT"

	// KindPrepare indicates the backend rejected the query text.
	KindPrepare Kind = "PREPARE"

	// KindBind indicates a value/placeholder count or type mismatch.
	KindBind Kind = "BIND"

	// KindExec indicates the backend failed to execute the statement.
	KindExec Kind = "EXEC"

	// KindRead indicates a failure while reading a result row.
	KindRead Kind = "READ"
)

// Error is a driver failure with its category and the query involved.
type Error struct {
	Kind  Kind
	Query string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("%s: %v (query=%q)", e.Kind, e.Err, e.Query)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the backend error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error. A nil err is replaced by a generic message.
func NewError(kind Kind, query string, err error) *Error {
	if err == nil {
		err = errors.New("unknown failure")
	}
	return &Error{Kind: kind, Query: query, Err: err}
}

// Errorf creates an Error with a formatted message.
func Errorf(kind Kind, query, format string, args ...any) *Error {
	return &Error{Kind: kind, Query: query, Err: fmt.Errorf(format, args...)}
}

// IsKind returns true if err is a driver Error of the given kind.
// Uses errors.As to handle wrapped errors.
func IsKind(err error, kind Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// KindOf returns the kind of a driver Error, or "" for any other error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
