// Package values defines the tagged value universe manipulated by the
// compiler and machine: immediate atoms, reference-counted containers,
// functions, generators, classes, modules and native handles, per
// spec.md §3. It is grounded on the teacher's lang/types package, adapted
// from nenuphar's Starlark-flavored value set to the smaller universe this
// language needs.
package values

import "fmt"

// Value is the interface implemented by every value the machine can hold
// on its operand stack, in a local slot, or inside a cell.
type Value interface {
	// String returns the value's display representation.
	String() string
	// Type names the value's dynamic type, e.g. "nil", "number", "list".
	Type() string
	// Truth reports the value's boolean coercion, used by if/while/and/or.
	Truth() bool
}

// Invalid is the uninitialized-slot sentinel (spec.md §9): reading one is
// always a runtime error naming the variable, never an implicit nil.
type Invalid struct{}

func (Invalid) String() string { return "<invalid>" }
func (Invalid) Type() string   { return "invalid" }
func (Invalid) Truth() bool    { return false }

// TheInvalid is the single shared Invalid instance; locals are initialized
// to it so a fresh frame never needs to allocate one per slot.
var TheInvalid Value = Invalid{}

// Nil is the language's absence-of-value atom.
type Nil struct{}

func (Nil) String() string { return "nil" }
func (Nil) Type() string   { return "nil" }
func (Nil) Truth() bool    { return false }

// TheNil is the single shared Nil instance.
var TheNil Value = Nil{}

// Bool is the language's boolean atom.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string  { return "bool" }
func (b Bool) Truth() bool { return bool(b) }

// Number is the language's sole numeric type, an IEEE-754 double.
type Number float64

func (n Number) String() string { return formatNumber(float64(n)) }
func (Number) Type() string     { return "number" }
func (n Number) Truth() bool    { return n != 0 }

func formatNumber(f float64) string {
	return fmt.Sprintf("%g", f)
}

// String is an immutable, shared string value.
type String string

func (s String) String() string { return string(s) }
func (String) Type() string     { return "string" }
func (s String) Truth() bool    { return len(s) > 0 }

// Truthy reports v's truth value, the single place the "truth" coercion is
// computed so callers never need a type switch.
func Truthy(v Value) bool { return v.Truth() }
