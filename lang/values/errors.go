package values

import (
	"fmt"
	"strings"

	"github.com/mna/wisp/lang/token"
)

// Kind is the closed vocabulary of error kinds a core operation may raise,
// per spec.md §7. It is a named string (not a sentinel error value) so that
// callers can switch on it while still treating *Error as a plain error.
type Kind string

const (
	RuntimeErrorKind     Kind = "RuntimeError"
	IOErrorKind          Kind = "IOError"
	ImportErrorKind      Kind = "ImportError"
	TypeErrorKind        Kind = "TypeError"
	ValueErrorKind       Kind = "ValueError"
	NameErrorKind        Kind = "NameError"
	ArgumentErrorKind    Kind = "ArgumentError"
	TrampolineRequestKind Kind = "TrampolineRequest"
)

// Error is the core error type: a kind, a message, and a trace of source
// marks ordered outer-caller-first, per spec.md §7.
type Error struct {
	Kind    Kind
	Message string
	Trace   []token.Mark
}

func (e *Error) Error() string {
	if len(e.Trace) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	var b strings.Builder
	for _, m := range e.Trace {
		fmt.Fprintf(&b, "  at %s\n", m)
	}
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	return b.String()
}

// Newf constructs an *Error of the given kind with a formatted message and
// no trace; callers append trace marks as the error unwinds.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithMark returns a copy of e with m prepended to its trace, used by a
// frame to record its own call site as an error unwinds through it.
func (e *Error) WithMark(m token.Mark) *Error {
	trace := make([]token.Mark, 0, len(e.Trace)+1)
	trace = append(trace, m)
	trace = append(trace, e.Trace...)
	return &Error{Kind: e.Kind, Message: e.Message, Trace: trace}
}

// AsError reports whether err is a *Error of the given kind.
func AsError(err error, kind Kind) (*Error, bool) {
	e, ok := err.(*Error)
	if !ok || e.Kind != kind {
		return nil, false
	}
	return e, true
}
