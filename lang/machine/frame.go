// Package machine implements the stack-based virtual machine of spec.md
// §4.3/§4.4: the per-invocation Frame, the single step/run_frame/
// resume_frame trampoline, and the three entry modes (function, module,
// REPL) that apply a Code's argument spec and run it to completion or
// suspension.
//
// The teacher's lang/machine drives an explicit call stack of *Frame
// values inside one Thread, threading locals and the operand stack
// through a shared backing array per call. This implementation instead
// lets a call recurse through Go's own call stack (runFrame calling
// itself, indirectly, through callValue for every nested invocation):
// the language has no explicit continuation or tail-call requirement, so
// the simpler recursive-interpreter shape is a faithful, idiomatic
// simplification of the teacher's explicit frame stack.
package machine

import (
	"github.com/mna/wisp/lang/token"
	"github.com/mna/wisp/lang/values"
)

// Frame is the per-invocation runtime state of spec.md §4.3: an operand
// stack, a locals array initialized to Invalid, an upvals array of cells
// (received free cells followed by freshly allocated owned cells), and a
// program counter.
type Frame struct {
	code     *values.Code
	locals   []values.Value
	upvals   []*values.Cell
	stack    []values.Value
	pc       int
	started  bool
	importer Importer
}

// newFrame constructs a Frame for code, with freeCells supplying the first
// code.NFree upval slots (the rest are freshly allocated owned cells), per
// spec.md §4.3's "(nlocals, cells_in, nowned)" constructor.
func newFrame(code *values.Code, freeCells []*values.Cell, importer Importer) *Frame {
	locals := make([]values.Value, code.NLocals)
	for i := range locals {
		locals[i] = values.TheInvalid
	}
	upvals := make([]*values.Cell, code.NFree+code.NOwned)
	copy(upvals, freeCells)
	for i := len(freeCells); i < len(upvals); i++ {
		upvals[i] = values.NewCell(values.TheInvalid)
	}
	return &Frame{code: code, locals: locals, upvals: upvals, importer: importer}
}

func (f *Frame) push(v values.Value) { f.stack = append(f.stack, v) }

func (f *Frame) pop() values.Value {
	n := len(f.stack) - 1
	v := f.stack[n]
	f.stack = f.stack[:n]
	return v
}

func (f *Frame) peek() values.Value { return f.stack[len(f.stack)-1] }

// popN returns the top n stack values in the order they were pushed
// (index 0 is the oldest of the n), removing them from the stack.
func (f *Frame) popN(n int) []values.Value {
	if n == 0 {
		return nil
	}
	start := len(f.stack) - n
	out := append([]values.Value(nil), f.stack[start:]...)
	f.stack = f.stack[:start]
	return out
}

// setArgs bulk-writes an already-applied flat argument vector into the
// frame's locals or upval cells, per code.ParamSlots.
func setArgs(f *Frame, flat []values.Value) {
	for i, slot := range f.code.ParamSlots {
		switch slot.Kind {
		case values.SlotLocal:
			f.locals[slot.Index] = flat[i]
		case values.SlotUpval:
			f.upvals[slot.Index].Set(flat[i])
		}
	}
}

func markToToken(source string, m values.Mark) token.Mark {
	return token.Mark{Source: source, Pos: token.MakePos(m.Line, m.Col)}
}

// borrowUpvals marks every cell f holds as borrowed for the duration of
// one resume segment, per spec.md §3/§5's checked-borrow discipline. Only
// generator resumes take this borrow; a plain function or module frame run
// by runFrame reads and writes its cells without it. It fails, releasing
// any cell already marked,
// the moment one of them turns out to be borrowed already -- the mark an
// unfinished outer resume of the same or another frame sharing the cell
// left behind.
func (f *Frame) borrowUpvals() error {
	for i, c := range f.upvals {
		if err := c.Borrow(); err != nil {
			for _, done := range f.upvals[:i] {
				done.Release()
			}
			return err
		}
	}
	return nil
}

// releaseUpvals clears the borrow borrowUpvals set, once the current
// resume segment yields or returns.
func (f *Frame) releaseUpvals() {
	for _, c := range f.upvals {
		c.Release()
	}
}
