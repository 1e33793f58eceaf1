package runtime

import "github.com/mna/wisp/lang/values"

// TrampolineFunc is a host callback stashed on Globals by a native
// function that needs to drive the host event loop while the VM is
// paused, per spec.md §9's trampoline hook.
type TrampolineFunc func(*Globals) error

// RequestTrampoline stashes fn on g and returns a TrampolineRequest error;
// a native function returns this error to hand control back to the
// outermost driver without the VM treating it as a real failure.
func (g *Globals) RequestTrampoline(fn TrampolineFunc) *values.Error {
	g.trampoline = fn
	return values.Newf(values.TrampolineRequestKind, "trampoline requested")
}

// HandleTrampoline is the outermost driver's hook, per spec.md §7 ("the VM
// catches only TrampolineRequest at the top-level driver"): if err is a
// TrampolineRequest, it consumes the stashed closure and invokes it,
// reporting handled=true regardless of whether the closure itself
// errored. Any other error is left untouched for the caller to handle.
func (g *Globals) HandleTrampoline(err error) (handled bool, callErr error) {
	if _, ok := values.AsError(err, values.TrampolineRequestKind); !ok {
		return false, nil
	}
	fn := g.trampoline
	g.trampoline = nil
	if fn == nil {
		return true, nil
	}
	return true, fn(g)
}
