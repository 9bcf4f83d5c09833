package column

import (
	"bytes"
	"fmt"
)

// Value is a sealed interface representing a runtime column value.
// Only BinaryValue, FloatValue, IntegerValue and StringValue implement it.
type Value interface {
	// Type reports the column type the value carries.
	Type() Type

	// Accept dispatches to the Visitor method matching the variant.
	Accept(v Visitor) error

	value() // Sealed - only these types implement it
}

// Visitor handles each Value variant. Code that must treat every variant
// implements Visitor rather than a type switch, so adding a variant is a
// compile error everywhere it matters.
type Visitor interface {
	VisitBinary(b []byte) error
	VisitFloat(f float64) error
	VisitInteger(i int64) error
	VisitString(s string) error
}

// BinaryValue holds raw bytes.
type BinaryValue []byte

func (BinaryValue) value() {}

// Type implements Value.
func (BinaryValue) Type() Type { return Binary }

// Accept implements Value.
func (b BinaryValue) Accept(v Visitor) error { return v.VisitBinary(b) }

// FloatValue holds a 64-bit float.
type FloatValue float64

func (FloatValue) value() {}

// Type implements Value.
func (FloatValue) Type() Type { return Float }

// Accept implements Value.
func (f FloatValue) Accept(v Visitor) error { return v.VisitFloat(float64(f)) }

// IntegerValue holds a 64-bit signed integer.
type IntegerValue int64

func (IntegerValue) value() {}

// Type implements Value.
func (IntegerValue) Type() Type { return Integer }

// Accept implements Value.
func (i IntegerValue) Accept(v Visitor) error { return v.VisitInteger(int64(i)) }

// StringValue holds text.
type StringValue string

func (StringValue) value() {}

// Type implements Value.
func (StringValue) Type() Type { return String }

// Accept implements Value.
func (s StringValue) Accept(v Visitor) error { return v.VisitString(string(s)) }

// Equal reports whether a and b are the same variant with the same payload.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	e := equalTo{other: b}
	_ = a.Accept(&e)
	return e.equal
}

// equalTo compares the visited value with other.
type equalTo struct {
	other Value
	equal bool
}

func (e *equalTo) VisitBinary(b []byte) error {
	y, ok := e.other.(BinaryValue)
	e.equal = ok && bytes.Equal(b, y)
	return nil
}

func (e *equalTo) VisitFloat(f float64) error {
	y, ok := e.other.(FloatValue)
	e.equal = ok && f == float64(y)
	return nil
}

func (e *equalTo) VisitInteger(i int64) error {
	y, ok := e.other.(IntegerValue)
	e.equal = ok && i == int64(y)
	return nil
}

func (e *equalTo) VisitString(s string) error {
	y, ok := e.other.(StringValue)
	e.equal = ok && s == string(y)
	return nil
}

// EqualAll reports whether two value sequences are pairwise Equal.
func EqualAll(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Clone returns a copy of v that shares no memory with it.
func Clone(v Value) Value {
	if b, ok := v.(BinaryValue); ok {
		return BinaryValue(bytes.Clone(b))
	}
	return v
}

// Format renders v for human-readable output.
func Format(v Value) string {
	if v == nil {
		return "<nil>"
	}
	var f formatter
	_ = v.Accept(&f)
	return f.out
}

type formatter struct {
	out string
}

func (f *formatter) VisitBinary(b []byte) error {
	f.out = fmt.Sprintf("x'%X'", b)
	return nil
}

func (f *formatter) VisitFloat(v float64) error {
	f.out = fmt.Sprintf("%g", v)
	return nil
}

func (f *formatter) VisitInteger(i int64) error {
	f.out = fmt.Sprintf("%d", i)
	return nil
}

func (f *formatter) VisitString(s string) error {
	f.out = s
	return nil
}

var (
	_ Visitor = (*equalTo)(nil)
	_ Visitor = (*formatter)(nil)
)
