// File: themekit/value.go
package themekit

import "fmt"

// Value is a possibly-absent setting value. Absence is distinct from nil,
// false, zero, and the empty string: a stored empty string is a defined value,
// while a key that was never written resolves to Undefined.
type Value struct {
	v       any
	present bool
}

// Undefined is the absent Value. It is the zero value of the type.
var Undefined = Value{}

// Some wraps v in a defined Value.
func Some(v any) Value {
	return Value{v: v, present: true}
}

// Defined reports whether the value is present.
func (v Value) Defined() bool {
	return v.present
}

// Interface returns the wrapped value, or nil if undefined.
func (v Value) Interface() any {
	return v.v
}

// Or returns the wrapped value if defined, otherwise fallback.
func (v Value) Or(fallback any) any {
	if v.present {
		return v.v
	}
	return fallback
}

// String implements fmt.Stringer for diagnostics.
func (v Value) String() string {
	if !v.present {
		return "<undefined>"
	}
	return fmt.Sprintf("%v", v.v)
}
