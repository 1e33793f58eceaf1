// Package stdlib defines the built-in bindings every wisp program and
// module sees without an explicit import, per SPEC_FULL.md §6. It mirrors
// the teacher's lang/machine.Universe convention: a fixed name set whose
// values Globals hands to lang/machine.ApplyForModule/ApplyForRepl as the
// builtins map, which is where a module's free names actually resolve
// (lang/machine/apply.go) -- unlike the teacher, this language has no
// separate resolve-time predeclared-name check, so there is no
// IsUniverse-style predicate for that check to consult.
package stdlib

import (
	"sort"

	"github.com/mna/wisp/lang/runtime"
	"github.com/mna/wisp/lang/values"
)

// Universe is the full built-in binding set: numeric (abs, min, max),
// string (len, str, upper, lower, split, join), collection (list, set,
// map, append, keys, values, sorted), I/O (print) and type introspection
// (type, repr). It must not be mutated; a program wanting additional
// bindings uses Globals.AddNativeModule instead.
var Universe = buildUniverse()

func buildUniverse() map[string]values.Value {
	fns := []*values.NativeFunction{
		absFunc,
		minFunc,
		maxFunc,
		lenFunc,
		strFunc,
		upperFunc,
		lowerFunc,
		splitFunc,
		joinFunc,
		listFunc,
		setFunc,
		mapFunc,
		appendFunc,
		keysFunc,
		valuesFunc,
		sortedFunc,
		printFunc,
		typeFunc,
		reprFunc,
	}
	u := make(map[string]values.Value, len(fns))
	for _, fn := range fns {
		u[fn.Name] = fn
	}
	return u
}

// NativeModule returns the builder that registers every Universe name as
// an explicitly importable "builtins" module, alongside Universe's role as
// the builtins map that free names resolve against at load time: code that
// shadows a builtin name locally can still reach it via `import "builtins"`.
func NativeModule() *runtime.NativeModuleBuilder {
	names := make([]string, 0, len(Universe))
	for name := range Universe {
		names = append(names, name)
	}
	sort.Strings(names)
	return &runtime.NativeModuleBuilder{
		Name:       "builtins",
		FieldNames: names,
		Init: func(mod *values.Module) error {
			for _, name := range names {
				mod.Cells[name].Set(Universe[name])
			}
			return nil
		},
	}
}

// required builds an ArgSpec of len(names) required parameters.
func required(names ...string) values.ArgSpec {
	params := make([]values.Param, len(names))
	for i, n := range names {
		params[i] = values.Param{Name: n}
	}
	return values.ArgSpec{Params: params}
}
