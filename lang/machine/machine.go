package machine

import (
	"strings"

	"github.com/mna/wisp/lang/token"
	"github.com/mna/wisp/lang/values"
)

// stepOutcome reports what happened on one call to Frame.step.
type stepOutcome uint8

const (
	stepOk stepOutcome = iota
	stepYield
	stepReturn
)

// step executes exactly one opcode at f.pc, per spec.md §4.3's step. Any
// error it returns -- whether raised directly by this opcode or bubbled up
// from a nested call -- is wrapped with this opcode's own source mark
// before returning, so that by the time an error reaches the outermost
// apply_for_* caller its Trace reads outer-caller-first (each ancestor
// frame's step prepends one more mark as the error unwinds through it).
func (f *Frame) step() (outcome stepOutcome, val values.Value, err error) {
	op := f.code.Ops[f.pc]
	m := f.code.Marks[f.pc]
	f.pc++

	defer func() {
		if err != nil {
			if e, ok := err.(*values.Error); ok {
				err = e.WithMark(markToToken(f.code.Name, m))
			}
		}
	}()

	switch op.Kind {
	case values.OpPushNil:
		f.push(values.TheNil)
	case values.OpPushTrue:
		f.push(values.Bool(true))
	case values.OpPushFalse:
		f.push(values.Bool(false))
	case values.OpPushNumber, values.OpPushString:
		f.push(f.code.Consts[op.B])
	case values.OpPushList:
		elems := f.popN(int(op.A))
		f.push(values.NewList(elems))
	case values.OpPushMap:
		flat := f.popN(int(op.A) * 2)
		mp := values.NewMap(int(op.A))
		for i := 0; i < len(flat); i += 2 {
			if err := mp.SetKey(flat[i], flat[i+1]); err != nil {
				return stepOk, nil, err
			}
		}
		f.push(mp)

	case values.OpGetLocal:
		v := f.locals[op.A]
		if _, invalid := v.(values.Invalid); invalid {
			return stepOk, nil, values.Newf(values.RuntimeErrorKind, "%s used before being set", op.Str)
		}
		f.push(v)
	case values.OpSetLocal:
		f.locals[op.A] = f.pop()
	case values.OpGetUpval, values.OpGetFree:
		v := f.upvals[op.A].Get()
		if _, invalid := v.(values.Invalid); invalid {
			return stepOk, nil, values.Newf(values.RuntimeErrorKind, "%s used before being set", op.Str)
		}
		f.push(v)
	case values.OpSetUpval:
		f.upvals[op.A].Set(f.pop())

	case values.OpDup:
		f.push(f.peek())
	case values.OpPop:
		f.pop()
	case values.OpSwap:
		a := f.pop()
		b := f.pop()
		f.push(a)
		f.push(b)

	case values.OpBinary:
		y := f.pop()
		x := f.pop()
		v, err := binary(token.Token(op.A), x, y)
		if err != nil {
			return stepOk, nil, err
		}
		f.push(v)
	case values.OpUnary:
		x := f.pop()
		v, err := unary(token.Token(op.A), x)
		if err != nil {
			return stepOk, nil, err
		}
		f.push(v)

	case values.OpAnd:
		if !values.Truthy(f.peek()) {
			f.pc = int(op.A)
		} else {
			f.pop()
		}
	case values.OpOr:
		if values.Truthy(f.peek()) {
			f.pc = int(op.A)
		} else {
			f.pop()
		}

	case values.OpMakeFunction:
		proto := f.code.Nested[op.B]
		cells := make([]*values.Cell, len(proto.Captures))
		for i, c := range proto.Captures {
			cells[i] = f.upvals[c.Slot]
		}
		f.push(&values.Function{
			Code:        proto.Code,
			Free:        cells,
			Name:        proto.Code.Name,
			IsGenerator: proto.IsGenerator,
		})

	case values.OpMakeClass:
		proto := f.code.Classes[op.B]
		methods := make(map[string]*values.Function, len(proto.MethodNames))
		for i := len(proto.MethodNames) - 1; i >= 0; i-- {
			fn, ok := f.pop().(*values.Function)
			if !ok {
				return stepOk, nil, values.Newf(values.RuntimeErrorKind, "class method value is not a function")
			}
			methods[proto.MethodNames[i]] = fn
		}
		statics := make(map[string]values.Value, len(proto.StaticNames))
		for i := len(proto.StaticNames) - 1; i >= 0; i-- {
			statics[proto.StaticNames[i]] = f.pop()
		}
		fieldDefaults := make(map[string]values.Value, len(proto.FieldNames))
		for i := len(proto.FieldNames) - 1; i >= 0; i-- {
			fieldDefaults[proto.FieldNames[i]] = f.pop()
		}
		var base *values.Class
		if proto.HasBase {
			b, ok := f.pop().(*values.Class)
			if !ok {
				return stepOk, nil, values.Newf(values.TypeErrorKind, "base of a class statement must be a class")
			}
			base = b
		}
		f.push(&values.Class{
			Name:          proto.Name,
			Methods:       methods,
			Statics:       statics,
			Base:          base,
			FieldOrder:    proto.FieldNames,
			FieldDefaults: fieldDefaults,
		})

	case values.OpCall:
		kwNames := splitNonEmpty(op.Str)
		kwVals := f.popN(int(op.B))
		args := f.popN(int(op.A))
		fn := f.pop()
		var kwargs map[string]values.Value
		if len(kwNames) > 0 {
			kwargs = make(map[string]values.Value, len(kwNames))
			for i, n := range kwNames {
				kwargs[n] = kwVals[i]
			}
		}
		v, err := callValue(fn, args, kwargs, f.importer)
		if err != nil {
			return stepOk, nil, err
		}
		f.push(v)

	case values.OpMethodCall:
		kwVals := f.popN(int(op.B))
		args := f.popN(int(op.A))
		receiver := f.pop()
		methodName, kwNames := splitMethodCall(op.Str)
		var kwargs map[string]values.Value
		if len(kwNames) > 0 {
			kwargs = make(map[string]values.Value, len(kwNames))
			for i, n := range kwNames {
				kwargs[n] = kwVals[i]
			}
		}
		callee, err := attrGet(receiver, methodName)
		if err != nil {
			return stepOk, nil, err
		}
		v, err := callValue(callee, args, kwargs, f.importer)
		if err != nil {
			return stepOk, nil, err
		}
		f.push(v)

	case values.OpReturn:
		return stepReturn, f.pop(), nil
	case values.OpYield:
		return stepYield, f.pop(), nil

	case values.OpJump:
		f.pc = int(op.A)
	case values.OpJumpIfFalse:
		if !values.Truthy(f.pop()) {
			f.pc = int(op.A)
		}
	case values.OpJumpIfTrue:
		if values.Truthy(f.pop()) {
			f.pc = int(op.A)
		}

	case values.OpAttrGet:
		base := f.pop()
		v, err := attrGet(base, op.Str)
		if err != nil {
			return stepOk, nil, err
		}
		f.push(v)
	case values.OpAttrSet:
		base := f.pop()
		v := f.pop()
		if err := attrSet(base, op.Str, v); err != nil {
			return stepOk, nil, err
		}

	case values.OpIndexGet:
		idx := f.pop()
		base := f.pop()
		v, err := indexGet(base, idx)
		if err != nil {
			return stepOk, nil, err
		}
		f.push(v)
	case values.OpIndexSet:
		idx := f.pop()
		base := f.pop()
		v := f.pop()
		if err := indexSet(base, idx, v); err != nil {
			return stepOk, nil, err
		}

	case values.OpIterStart:
		v := f.pop()
		it, err := newIterator(v)
		if err != nil {
			return stepOk, nil, err
		}
		f.push(it)
	case values.OpIterNextOrJump:
		it, ok := f.peek().(*vmIterator)
		if !ok {
			return stepOk, nil, values.Newf(values.RuntimeErrorKind, "for loop iterator slot corrupted")
		}
		vals, ok, err := it.nextValues(int(op.B))
		if err != nil {
			return stepOk, nil, err
		}
		if !ok {
			it.done()
			f.pc = int(op.A)
			break
		}
		for _, v := range vals {
			f.push(v)
		}

	case values.OpRaise:
		v := f.pop()
		msg := valueMessage(v)
		return stepOk, nil, values.Newf(values.RuntimeErrorKind, "%s", msg)

	case values.OpImport:
		if f.importer == nil {
			return stepOk, nil, values.Newf(values.ImportErrorKind, "imports not supported in this context")
		}
		mod, err := f.importer.Import(op.Str)
		if err != nil {
			return stepOk, nil, err
		}
		f.push(mod)

	default:
		return stepOk, nil, values.Newf(values.RuntimeErrorKind, "unhandled opcode %d", op.Kind)
	}
	return stepOk, nil, nil
}

// valueMessage extracts a raise statement's error message: a raw string
// value is used verbatim, anything else is rendered via String().
func valueMessage(v values.Value) string {
	if s, ok := v.(values.String); ok {
		return string(s)
	}
	return v.String()
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\x00")
}

// splitMethodCall splits an OpMethodCall's Str operand (method name, then
// a NUL, then NUL-joined keyword names) into its two parts.
func splitMethodCall(s string) (name string, kwNames []string) {
	i := strings.IndexByte(s, 0)
	if i < 0 {
		return s, nil
	}
	name = s[:i]
	rest := s[i+1:]
	return name, splitNonEmpty(rest)
}

// runFrame drives f to completion, per spec.md §4.3's run_frame: yield is
// not a valid outcome in this context (only resume_frame may observe one).
func runFrame(f *Frame) (values.Value, error) {
	for {
		outcome, val, err := f.step()
		if err != nil {
			return nil, err
		}
		switch outcome {
		case stepReturn:
			return val, nil
		case stepYield:
			return nil, values.Newf(values.RuntimeErrorKind, "yield outside of a generator")
		}
	}
}

// Resume implements values.GeneratorFrame: it advances f from its current
// pc, pushing resumeArg onto the operand stack first if the frame has
// already begun (a fresh frame at pc 0 has nothing expecting a pushed
// value yet).
func (f *Frame) Resume(resumeArg values.Value) (values.Value, bool, error) {
	if err := f.borrowUpvals(); err != nil {
		return nil, false, err
	}
	defer f.releaseUpvals()

	if f.started {
		f.push(resumeArg)
	}
	f.started = true
	for {
		outcome, val, err := f.step()
		if err != nil {
			return nil, false, err
		}
		switch outcome {
		case stepReturn:
			return val, true, nil
		case stepYield:
			return val, false, nil
		}
	}
}
