package machine

import "github.com/mna/wisp/lang/values"

// applyArgs applies spec to the caller's positional and keyword arguments,
// producing a flat vector of length spec.NParams() (plus one more if
// spec.HasVariadic()), per spec.md §4.4's five ordered rules. It is shared
// by user Functions and NativeFunctions.
func applyArgs(spec values.ArgSpec, args []values.Value, kwargs map[string]values.Value) ([]values.Value, error) {
	nparams := spec.NParams()
	result := make([]values.Value, nparams)
	filled := make([]bool, nparams)
	pos := args

	if len(kwargs) > 0 {
		remaining := make(map[string]values.Value, len(kwargs))
		for k, v := range kwargs {
			remaining[k] = v
		}
		for i, p := range spec.Params {
			if v, ok := remaining[p.Name]; ok {
				result[i] = v
				filled[i] = true
				delete(remaining, p.Name)
			}
		}
		for name := range remaining {
			return nil, values.Newf(values.ArgumentErrorKind, "unexpected keyword argument %q", name)
		}
		pi := 0
		for i := range spec.Params {
			if filled[i] {
				continue
			}
			if pi >= len(pos) {
				break
			}
			result[i] = pos[pi]
			filled[i] = true
			pi++
		}
		pos = pos[pi:]
	} else {
		n := nparams
		if n > len(pos) {
			n = len(pos)
		}
		for i := 0; i < n; i++ {
			result[i] = pos[i]
			filled[i] = true
		}
		pos = pos[n:]
	}

	for i, p := range spec.Params {
		if !filled[i] && p.Default != nil {
			result[i] = p.Default
			filled[i] = true
		}
	}

	if spec.HasVariadic() {
		rest := append([]values.Value(nil), pos...)
		result = append(result, values.NewList(rest))
	} else if len(pos) > 0 {
		return nil, values.Newf(values.ArgumentErrorKind, "too many arguments")
	}

	for i, p := range spec.Params {
		if !filled[i] {
			return nil, values.Newf(values.ArgumentErrorKind, "missing argument for %s", p.Name)
		}
	}
	return result, nil
}

// Call dispatches a call to any callable value (a *values.Function,
// *values.NativeFunction, *values.Class or *values.BoundMethod), applying
// args/kwargs per spec.md §4.4. Exported so that lang/stdlib and
// lang/runtime can invoke an arbitrary callable value (e.g. a generator
// function, or a comparison key function passed to `sorted`) without
// reimplementing the dispatch rules OpCall already embodies.
func Call(callee values.Value, args []values.Value, kwargs map[string]values.Value, importer Importer) (values.Value, error) {
	return callValue(callee, args, kwargs, importer)
}

// callValue dispatches a call to any callable value, per spec.md §4.4's
// argument application plus the class-instantiation and bound-method
// conventions this implementation layers on top of it (DESIGN.md's Open
// Questions section).
func callValue(callee values.Value, args []values.Value, kwargs map[string]values.Value, importer Importer) (values.Value, error) {
	switch fn := callee.(type) {
	case *values.BoundMethod:
		bound := make([]values.Value, 0, len(args)+1)
		bound = append(bound, fn.Receiver)
		bound = append(bound, args...)
		return callValue(fn.Fn, bound, kwargs, importer)
	case *values.Function:
		if fn.IsGenerator {
			return makeGeneratorCall(fn, args, kwargs, importer)
		}
		return ApplyForFunction(fn, args, kwargs, importer)
	case *values.NativeFunction:
		flat, err := applyArgs(fn.Spec, args, kwargs)
		if err != nil {
			return nil, err
		}
		return fn.Fn(flat)
	case *values.Class:
		return instantiateClass(fn, args, kwargs, importer)
	default:
		return nil, values.Newf(values.TypeErrorKind, "value of type %s is not callable", callee.Type())
	}
}

// instantiateClass builds a fresh instance and, if the class declares an
// "init" method, calls it bound to the instance with the constructor's
// arguments; a class without "init" accepts no arguments.
func instantiateClass(c *values.Class, args []values.Value, kwargs map[string]values.Value, importer Importer) (values.Value, error) {
	inst := c.New()
	init, ok := c.LookupMethod("init")
	if !ok {
		if len(args) > 0 || len(kwargs) > 0 {
			return nil, values.Newf(values.ArgumentErrorKind, "too many arguments")
		}
		return inst, nil
	}
	ctorArgs := make([]values.Value, 0, len(args)+1)
	ctorArgs = append(ctorArgs, inst)
	ctorArgs = append(ctorArgs, args...)
	if _, err := ApplyForFunction(init, ctorArgs, kwargs, importer); err != nil {
		return nil, err
	}
	return inst, nil
}

// ApplyForFunction is the `apply_for_function` entry mode of spec.md
// §4.4: build a frame from fn's captured cells, apply args, run to
// completion.
func ApplyForFunction(fn *values.Function, args []values.Value, kwargs map[string]values.Value, importer Importer) (values.Value, error) {
	flat, err := applyArgs(fn.Code.Params, args, kwargs)
	if err != nil {
		return nil, err
	}
	frame := newFrame(fn.Code, fn.Free, importer)
	setArgs(frame, flat)
	return runFrame(frame)
}

// makeGeneratorCall implements the generator-call half of spec.md §4.4's
// generator lifecycle: applying args and building the frame, but never
// running it -- the returned Generator's first resume(nil) begins
// execution.
func makeGeneratorCall(fn *values.Function, args []values.Value, kwargs map[string]values.Value, importer Importer) (*values.Generator, error) {
	flat, err := applyArgs(fn.Code.Params, args, kwargs)
	if err != nil {
		return nil, err
	}
	frame := newFrame(fn.Code, fn.Free, importer)
	setArgs(frame, flat)
	return &values.Generator{Name: fn.Name, Frame: frame}, nil
}

// ApplyForModule is the `apply_for_module` entry mode of spec.md §4.5:
// resolve code's free names against builtins, publish its owned cells
// under a fresh Module, register that module (so self-imports observe a
// partially-constructed module before the body runs), then run the frame.
func ApplyForModule(code *values.Code, name, file string, builtins map[string]values.Value, register func(*values.Module) error, importer Importer) (*values.Module, error) {
	if code.Params.NParams() != 0 || code.Params.HasVariadic() {
		return nil, values.Newf(values.RuntimeErrorKind, "module code must take no parameters")
	}
	freeCells := make([]*values.Cell, len(code.FreeNames))
	for i, n := range code.FreeNames {
		v, ok := builtins[n]
		if !ok {
			return nil, values.Newf(values.NameErrorKind, "name not found: %s", n).
				WithMark(markToToken(name, code.FreeMarks[i]))
		}
		freeCells[i] = values.NewCell(v)
	}
	frame := newFrame(code, freeCells, importer)

	mod := values.NewModule(name, file)
	for i, n := range code.OwnedNames {
		mod.Cells[n] = frame.upvals[len(code.FreeNames)+i]
	}
	if register != nil {
		if err := register(mod); err != nil {
			return nil, err
		}
	}

	if _, err := runFrame(frame); err != nil {
		return nil, err
	}
	return mod, nil
}

// ApplyForRepl is the `apply_for_repl` entry mode of spec.md §4.5: like
// ApplyForModule, but free names resolve against a persistent,
// cross-submission cell scope, and each owned name either reuses an
// existing cell in that scope (so later submissions see earlier writes)
// or publishes its fresh cell into it. Returns the chunk's last expression
// value (see lang/compiler.CompileREPL).
func ApplyForRepl(code *values.Code, scope map[string]*values.Cell, importer Importer) (values.Value, error) {
	if code.Params.NParams() != 0 || code.Params.HasVariadic() {
		return nil, values.Newf(values.RuntimeErrorKind, "repl code must take no parameters")
	}
	freeCells := make([]*values.Cell, len(code.FreeNames))
	for i, n := range code.FreeNames {
		c, ok := scope[n]
		if !ok {
			return nil, values.Newf(values.NameErrorKind, "name not found: %s", n).
				WithMark(markToToken(code.Name, code.FreeMarks[i]))
		}
		freeCells[i] = c
	}
	frame := newFrame(code, freeCells, importer)
	for i, n := range code.OwnedNames {
		idx := len(code.FreeNames) + i
		if existing, ok := scope[n]; ok {
			frame.upvals[idx] = existing
		} else {
			scope[n] = frame.upvals[idx]
		}
	}
	return runFrame(frame)
}
