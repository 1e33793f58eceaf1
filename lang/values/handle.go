package values

import "fmt"

// Handle is an opaque reference-counted wrapper around an arbitrary value
// with a pinned Class and a recorded type identity, per spec.md §3. It
// serves both roles spec.md needs: a host-value wrapper for native
// handles (the type identity is the host Go type's name, registered via
// lang/runtime's handle-class registry) and a user-defined class
// instance's field storage (see Class.New).
type Handle struct {
	class  *Class
	value  Value
	typeID string
}

// NewHandle wraps value, pinned to class and recorded under typeID.
func NewHandle(class *Class, value Value, typeID string) *Handle {
	return &Handle{class: class, value: value, typeID: typeID}
}

func (h *Handle) String() string { return fmt.Sprintf("<%s>", h.class.Name) }
func (h *Handle) Type() string   { return h.class.Name }
func (h *Handle) Truth() bool    { return true }

// Class returns the handle's pinned class.
func (h *Handle) Class() *Class { return h.class }

// TypeID returns the recorded host type identity.
func (h *Handle) TypeID() string { return h.typeID }

// Unwrap returns the handle's underlying value (for a user-defined class
// instance, its field *Map; for a native handle, the wrapped host value
// exposed through native functions that know the concrete type).
func (h *Handle) Unwrap() Value { return h.value }

// Fields returns the handle's underlying field Map, for class instances
// (Handle.Unwrap() is always a *Map for values produced by Class.New).
func (h *Handle) Fields() (*Map, bool) {
	m, ok := h.value.(*Map)
	return m, ok
}
