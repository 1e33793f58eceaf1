package maincmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/mainer"
	"github.com/mna/wisp/lang/runtime"
)

// runModule loads name through the configured source roots and runs it as
// the program's main module, per SPEC_FULL.md §6's `-m`.
func runModule(g *runtime.Globals, stdio mainer.Stdio, name string) error {
	g.SetMain(name)
	_, err := g.Load(name)
	return err
}

// runPath runs the bare positional argument: a directory is added as a
// source root and its "__main" module is loaded; a file is compiled and
// run directly under the module name "__main". argv becomes the script's
// own argument vector.
func runPath(g *runtime.Globals, stdio mainer.Stdio, path string, argv []string) error {
	g.SetArgv(argv)
	g.SetMain("__main")

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if info.IsDir() {
		g.AddSourceRoot(path)
		_, err := g.Load("__main")
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	g.AddSourceRoot(filepath.Dir(path))
	_, err = g.Exec(&runtime.Source{Name: "__main", File: path, Data: data})
	return err
}

// printDoc loads name and prints its doc comment (empty if it has none),
// per SPEC_FULL.md §6's `-d`.
func printDoc(g *runtime.Globals, stdio mainer.Stdio, name string) error {
	mod, err := g.Load(name)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdio.Stdout, mod.Doc)
	return nil
}
