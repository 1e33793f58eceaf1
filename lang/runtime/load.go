package runtime

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mna/wisp/lang/ast"
	"github.com/mna/wisp/lang/compiler"
	"github.com/mna/wisp/lang/machine"
	"github.com/mna/wisp/lang/parser"
	"github.com/mna/wisp/lang/resolver"
	"github.com/mna/wisp/lang/values"
)

// Source is a unit of module text ready to compile: its dotted name, an
// optional disk path (for `__file` and diagnostics), and its raw bytes.
type Source struct {
	Name string
	File string
	Data []byte
}

// Load resolves name to a Module, consulting the cache first and falling
// back to load_uncached, per spec.md §4.5. Per invariant 5 (spec.md §8),
// calling Load twice with the same name returns the identical Module.
func (g *Globals) Load(name string) (*values.Module, error) {
	if mod, ok := g.modules[name]; ok {
		g.logger.Debug().Str("module", name).Msg("module cache hit")
		return mod, nil
	}
	return g.loadUncached(name)
}

// Import satisfies machine.Importer, so Globals can drive a frame's
// OpImport opcode directly.
func (g *Globals) Import(path string) (*values.Module, error) {
	return g.Load(path)
}

// loadUncached implements spec.md §4.5's load_uncached: a registered
// native module wins first, then source found on disk, then failure.
func (g *Globals) loadUncached(name string) (*values.Module, error) {
	if b, ok := g.nativeBuilders[name]; ok {
		delete(g.nativeBuilders, name)
		g.logger.Debug().Str("module", name).Msg("loading native module")

		mod := values.NewModule(name, "")
		for _, field := range b.FieldNames {
			mod.Cells[field] = values.NewCell(values.TheInvalid)
		}
		g.modules[name] = mod
		if err := b.Init(mod); err != nil {
			delete(g.modules, name)
			return nil, err
		}
		return mod, nil
	}

	src, err := g.findSource(name)
	if err != nil {
		return nil, err
	}
	return g.Exec(src)
}

// findSource searches the registered source roots for name, trying
// `<root>/<dotted/path>/__init.u` then `<root>/<dotted/path>.u` in each
// root in order; earlier roots shadow later ones.
func (g *Globals) findSource(name string) (*Source, error) {
	rel := strings.ReplaceAll(name, ".", string(filepath.Separator))
	for _, root := range g.sourceRoots {
		for _, candidate := range [...]string{
			filepath.Join(root, rel, "__init.u"),
			filepath.Join(root, rel+".u"),
		} {
			data, err := os.ReadFile(candidate)
			if err == nil {
				return &Source{Name: name, File: candidate, Data: data}, nil
			}
		}
	}
	return nil, values.Newf(values.ImportErrorKind, "module not found: %s", name)
}

// Exec parses, annotates, compiles and runs src as a module, per spec.md
// §4.5's exec(source): builtins map is the standard builtins plus `__name`
// and `__file`.
func (g *Globals) Exec(src *Source) (*values.Module, error) {
	chunk, err := parser.ParseChunk(src.Name, src.Data)
	if err != nil {
		return nil, values.Newf(values.RuntimeErrorKind, "%s", err)
	}
	resolver.Resolve(chunk)
	code := compiler.Compile(chunk, src.Name)

	builtins := make(map[string]values.Value, len(g.builtins)+len(g.constants)+2)
	for k, v := range g.builtins {
		builtins[k] = v
	}
	for k, v := range g.constants {
		builtins[k] = v
	}
	builtins["__name"] = values.String(src.Name)
	if src.File != "" {
		builtins["__file"] = values.String(src.File)
	}

	register := func(mod *values.Module) error {
		if _, dup := g.modules[src.Name]; dup {
			return values.Newf(values.ImportErrorKind, "module already registered: %s", src.Name)
		}
		mod.Doc = leadingDocString(chunk)
		g.modules[src.Name] = mod
		g.logger.Debug().Str("module", src.Name).Msg("module registered")
		return nil
	}

	mod, err := machine.ApplyForModule(code, src.Name, src.File, builtins, register, g)
	if err != nil {
		delete(g.modules, src.Name)
		return nil, err
	}
	return mod, nil
}

// leadingDocString extracts a module's docstring, per SPEC_FULL.md's
// supplemented `-d` feature: a bare string-literal expression statement as
// the first statement of the module's top-level block.
func leadingDocString(chunk *ast.Chunk) string {
	if len(chunk.Block.Stmts) == 0 {
		return ""
	}
	es, ok := chunk.Block.Stmts[0].(*ast.ExprStmt)
	if !ok {
		return ""
	}
	lit, ok := es.X.(*ast.LiteralExpr)
	if !ok || lit.Kind != ast.StringLit {
		return ""
	}
	return lit.String
}
