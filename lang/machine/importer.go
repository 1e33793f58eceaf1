package machine

import "github.com/mna/wisp/lang/values"

// Importer resolves an OpImport opcode's dotted module path to a Module,
// per spec.md §4.5's load(name). lang/runtime's Globals implements it; the
// machine package depends only on this narrow interface so that it does
// not need to import lang/runtime (which itself imports lang/machine to
// drive apply_for_module/apply_for_repl/apply_for_function).
type Importer interface {
	Import(path string) (*values.Module, error)
}
