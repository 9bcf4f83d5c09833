package statement

import (
	"errors"
	"fmt"
)

// ErrFieldNotSet matches every FieldNotSetError via errors.Is.
var ErrFieldNotSet = errors.New("field not set")

// ErrInvalidField matches every InvalidFieldError via errors.Is.
var ErrInvalidField = errors.New("invalid field")

// FieldNotSetError reports a required builder field that was unset at
// compile time, or already taken by an earlier Compile.
type FieldNotSetError struct {
	Statement string // "create_table", "column", "insert_into", "select", "raw"
	Field     string
}

func (e *FieldNotSetError) Error() string {
	return fmt.Sprintf("expected `%s` to be set", e.Field)
}

// Is reports whether target is ErrFieldNotSet.
func (e *FieldNotSetError) Is(target error) bool {
	return target == ErrFieldNotSet
}

// InvalidFieldError reports a builder field whose value cannot be compiled.
type InvalidFieldError struct {
	Statement string
	Field     string
	Message   string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid `%s`: %s", e.Field, e.Message)
}

// Is reports whether target is ErrInvalidField.
func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// IsFieldNotSet returns true if err is a FieldNotSetError.
func IsFieldNotSet(err error) bool {
	var fe *FieldNotSetError
	return errors.As(err, &fe)
}

// IsInvalidField returns true if err is an InvalidFieldError.
func IsInvalidField(err error) bool {
	var ie *InvalidFieldError
	return errors.As(err, &ie)
}

// take moves a required field out of its slot.
func take[T any](statement, field string, slot **T) (T, error) {
	if *slot == nil {
		var zero T
		return zero, &FieldNotSetError{Statement: statement, Field: field}
	}
	v := **slot
	*slot = nil
	return v, nil
}

// takeOptional moves an optional field out of its slot.
func takeOptional[T any](slot **T) (T, bool) {
	if *slot == nil {
		var zero T
		return zero, false
	}
	v := **slot
	*slot = nil
	return v, true
}
