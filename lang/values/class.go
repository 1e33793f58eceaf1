package values

import "fmt"

// Class is immutable after construction and shared by all instances, per
// spec.md §3: a name, its instance method map, its static member map, and
// an optional base class for attribute fallback.
//
// The language has no dedicated "instance" value variant in spec.md §3's
// Value list; user-defined instances are represented as a *Handle whose
// Class is the instantiated Class and whose underlying value is a fresh
// *Map holding the instance's fields, reusing Handle's "opaque value
// pinned to a class" shape rather than introducing a parallel type. This
// is a deliberate resolution of the open question spec.md §9 leaves
// unspecified (dynamic dispatch on class-attribute lookup).
type Class struct {
	Name    string
	Methods map[string]*Function
	Statics map[string]Value
	Base    *Class

	// FieldOrder and FieldDefaults record the non-static field declarations
	// of the class statement: FieldOrder fixes a deterministic population
	// order (Go map iteration is not ordered) and FieldDefaults holds each
	// field's default value, computed once when the class statement ran.
	FieldOrder    []string
	FieldDefaults map[string]Value
}

func (c *Class) String() string { return fmt.Sprintf("<class %s>", c.Name) }
func (c *Class) Type() string   { return "class" }
func (c *Class) Truth() bool    { return true }

// New constructs a fresh instance: a Handle wrapping a field Map seeded
// with c's field defaults, pinned to c.
func (c *Class) New() *Handle {
	h := &Handle{class: c, value: NewMap(len(c.FieldOrder) + 1), typeID: "instance:" + c.Name}
	m, _ := h.Fields()
	for _, name := range c.FieldOrder {
		if err := m.SetKey(String(name), c.FieldDefaults[name]); err != nil {
			panic(err)
		}
	}
	return h
}

// LookupMethod finds name in c's instance method map, walking Base chains.
func (c *Class) LookupMethod(name string) (*Function, bool) {
	for cls := c; cls != nil; cls = cls.Base {
		if fn, ok := cls.Methods[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// LookupStatic finds name in c's static member map, walking Base chains.
func (c *Class) LookupStatic(name string) (Value, bool) {
	for cls := c; cls != nil; cls = cls.Base {
		if v, ok := cls.Statics[name]; ok {
			return v, true
		}
	}
	return nil, false
}
