package values

import "fmt"

// Module is a name plus a map from variable name to the owned cell
// published by the module's top-level Code after it runs, per spec.md §3.
// Its cell map is shared with every importer that reads it, so writes a
// module makes to its own top-level bindings after load are observed by
// importers (the "module top-level is cell-visible" scenario of §8).
type Module struct {
	Name  string
	File  string // source path, if any
	Cells map[string]*Cell
	Doc   string // leading docstring, if any, surfaced by `-d`
}

// NewModule returns an empty module named name.
func NewModule(name, file string) *Module {
	return &Module{Name: name, File: file, Cells: map[string]*Cell{}}
}

func (m *Module) String() string { return fmt.Sprintf("<module %s>", m.Name) }
func (m *Module) Type() string   { return "module" }
func (m *Module) Truth() bool    { return true }

// Attr reads the current value of name from the module's published cells.
func (m *Module) Attr(name string) (Value, bool) {
	c, ok := m.Cells[name]
	if !ok {
		return nil, false
	}
	return c.Get(), true
}
