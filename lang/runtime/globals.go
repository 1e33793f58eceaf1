// Package runtime implements spec.md §4.5's Globals: the process-wide
// owner of modules, native modules, source roots, the handle-class
// registry and the REPL's persistent top-level cell map.
//
// The teacher has no direct analogue of this layer (its `Thread` owns a
// call stack and I/O but not a module registry or cache); this package is
// grounded instead on the teacher's `lang/machine/thread.go` shape
// (per-run configuration plus a `Load` hook) generalized to the
// cache/registry responsibilities spec.md §4.5 names.
package runtime

import (
	"github.com/mna/wisp/lang/values"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// NativeModuleBuilder registers a native module under its declared name.
// Each builder is consumed exactly once, on first import: FieldNames
// declares the module's published cell names up front (so the Module
// skeleton can be registered, and self-imports can see it, before Init
// runs), and Init populates those cells.
type NativeModuleBuilder struct {
	Name       string
	FieldNames []string
	Init       func(*values.Module) error
}

// Globals owns the process's modules, native module builders, source
// roots, handle-class registry and the REPL's persistent cell scope, per
// spec.md §4.5. It is not safe for concurrent use: per spec.md §5, the
// core assumes a single-owner embedder.
type Globals struct {
	sourceRoots    []string
	nativeBuilders map[string]*NativeModuleBuilder
	modules        map[string]*values.Module
	handleClasses  map[string]*values.Class
	builtins       map[string]values.Value
	constants      map[string]values.Value
	replScope      map[string]*values.Cell

	mainName   string
	argv       *values.List
	trampoline TrampolineFunc

	logger zerolog.Logger
}

// NewGlobals constructs an empty Globals. builtins is the standard-library
// binding set (spec.md §6's "standard builtins") made available to every
// module's free set, alongside the per-module `__name`/`__file` strings
// Exec adds. The REPL's persistent scope starts out seeded with the same
// builtins, each wrapped in its own cell, so a first REPL submission can
// already reach e.g. `print` before any module has ever been loaded.
func NewGlobals(builtins map[string]values.Value, logger zerolog.Logger) *Globals {
	replScope := make(map[string]*values.Cell, len(builtins))
	for name, v := range builtins {
		replScope[name] = values.NewCell(v)
	}
	return &Globals{
		nativeBuilders: map[string]*NativeModuleBuilder{},
		modules:        map[string]*values.Module{},
		handleClasses:  map[string]*values.Class{},
		builtins:       builtins,
		constants:      map[string]values.Value{},
		replScope:      replScope,
		argv:           values.NewList(nil),
		logger:         logger,
	}
}

// AddConstant registers a predeclared constant under name, made available
// to every module's free set and to the REPL's persistent scope alongside
// the standard builtins. Per SPEC_FULL.md §4.5, this is how an optional
// project manifest's declared constants reach running code.
func (g *Globals) AddConstant(name string, v values.Value) {
	g.constants[name] = v
	if _, ok := g.replScope[name]; !ok {
		g.replScope[name] = values.NewCell(v)
	} else {
		g.replScope[name].Set(v)
	}
}

// AddSourceRoot appends path to the source search roots; earlier roots
// shadow later ones, per spec.md §6.
func (g *Globals) AddSourceRoot(path string) {
	g.sourceRoots = append(g.sourceRoots, path)
}

// AddNativeModule registers b under its declared name. Registering the
// same name twice, whether as a native module or a previously loaded
// module, is an error per spec.md §5's "module registration is
// single-writer" rule.
func (g *Globals) AddNativeModule(b *NativeModuleBuilder) error {
	if _, dup := g.nativeBuilders[b.Name]; dup {
		return values.Newf(values.ImportErrorKind, "native module already registered: %s", b.Name)
	}
	if _, dup := g.modules[b.Name]; dup {
		return values.Newf(values.ImportErrorKind, "module already registered: %s", b.Name)
	}
	g.nativeBuilders[b.Name] = b
	return nil
}

// SetMain records name as the module the CLI runs as the program's entry
// point, read back by builtins that want to distinguish `__main` from an
// imported module.
func (g *Globals) SetMain(name string) { g.mainName = name }

// MainName returns the name set by SetMain, or "" if never set.
func (g *Globals) MainName() string { return g.mainName }

// SetArgv records the host-provided script arguments, exposed to wisp code
// as a list builtin.
func (g *Globals) SetArgv(args []string) {
	elems := make([]values.Value, len(args))
	for i, a := range args {
		elems[i] = values.String(a)
	}
	g.argv = values.NewList(elems)
}

// Argv returns the list set by SetArgv (empty if never set).
func (g *Globals) Argv() *values.List { return g.argv }

// ModuleNames returns the names of every module currently cached, sorted
// for deterministic listing (e.g. the CLI's `-d` command error messages).
func (g *Globals) ModuleNames() []string {
	names := make([]string, 0, len(g.modules))
	for name := range g.modules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RegisterHandleClass pins class as the Class used by NewHandle for
// values recorded under typeID, per spec.md §6's `new_handle<T>`
// precondition.
func (g *Globals) RegisterHandleClass(typeID string, class *values.Class) {
	g.handleClasses[typeID] = class
}

// NewHandle wraps v in a *values.Handle pinned to the Class registered
// for typeID, failing if none was registered.
func (g *Globals) NewHandle(typeID string, v values.Value) (*values.Handle, error) {
	class, ok := g.handleClasses[typeID]
	if !ok {
		return nil, values.Newf(values.RuntimeErrorKind, "no class registered for handle type %q", typeID)
	}
	return values.NewHandle(class, v, typeID), nil
}
