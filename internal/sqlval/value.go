// Package sqlval provides a tagged SQL value union and a multi-statement
// executor for the wallet's recovery-critical schema migrations and
// transaction scripts, generalizing ad-hoc single-statement
// db.Exec/QueryRow calls into one scripted, named-parameter executor.
package sqlval

import "fmt"

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindText
	KindBlob
)

// Value is a tagged union over the SQL-bindable kinds: null, bool,
// integer, float, text, blob. The executor dispatches on Kind rather than
// via a driver.Valuer interface, keeping the binding logic structural
// rather than interface-dispatched.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	blob []byte
}

// Null returns a SQL NULL value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Integer wraps a signed 64-bit integer value.
func Integer(v int64) Value { return Value{kind: KindInteger, i: v} }

// Float wraps a 64-bit floating point value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text wraps a string value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Blob wraps a byte-slice value.
func Blob(v []byte) Value { return Value{kind: KindBlob, blob: v} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Arg returns v in the shape expected by database/sql's parameter
// binding (the driver.Valuer-compatible Go value for this variant).
func (v Value) Arg() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBlob:
		return v.blob
	default:
		panic(fmt.Sprintf("sqlval: unknown kind %d", v.kind))
	}
}

// String renders v for diagnostics (used when an executor error includes
// the expanded SQL).
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInteger:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindText:
		return fmt.Sprintf("%q", v.s)
	case KindBlob:
		return fmt.Sprintf("x'%x'", v.blob)
	default:
		return "?"
	}
}
