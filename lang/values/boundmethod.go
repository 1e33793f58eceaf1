package values

import "fmt"

// BoundMethod is the value produced by reading a Function-valued attribute
// off a Handle (an instance): the instance bound as the implicit first
// argument of a later call, per spec.md §9's open question on attribute
// resolution. A fused method-call expression (receiver.name(args)) never
// produces one -- it resolves and calls in a single opcode -- this type
// exists only for the case of an attribute read that is called later, or
// passed around as a value (`m = obj.method; m()`).
type BoundMethod struct {
	Receiver Value
	Fn       *Function
}

func (b *BoundMethod) String() string {
	return fmt.Sprintf("<bound method %s of %s>", b.Fn.Name, b.Receiver.Type())
}
func (b *BoundMethod) Type() string { return "bound_method" }
func (b *BoundMethod) Truth() bool  { return true }
