// Package maincmd wires the command-line surface of SPEC_FULL.md §6 onto
// lang/runtime.Globals: flag parsing and process exit codes via
// github.com/mna/mainer, exactly as the teacher's cmd/nenuphar does, but
// dispatching to run/doc/REPL modes instead of the teacher's
// parse/resolve/tokenize debug commands.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/wisp/lang/runtime"
	"github.com/mna/wisp/lang/stdlib"
	"github.com/rs/zerolog"
)

const binName = "wisp"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<path>] [-- <arg>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<path>] [-- <arg>...]
       %[1]s -h|--help
       %[1]s -v|--version

Compiler, runtime and REPL for the %[1]s scripting language.

With no option, <path> is run as the program's main module: a directory
is added as a source root and its "__main" module is loaded; a file is
compiled and run directly under the module name "__main". Anything after
a literal "--" is left untouched as the program's own argv.

Valid options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       -m --module <name>        Run <name> as a module, resolved through
                                 the configured source roots, instead of
                                 a file or directory argument.
       -d --doc <name>           Print <name>'s module doc comment (its
                                 leading string-literal statement) and
                                 exit, instead of running it.
       -r --repl                 Start the interactive REPL, ignoring any
                                 <path> argument.
       --debug                   Log module loads and native-module
                                 registrations at debug verbosity.

More information on the %[1]s repository:
       https://github.com/mna/wisp
`, binName)
)

// Cmd is the process entry point's flag/argument sink, populated by
// mainer.Parser.Parse via its `flag:"..."` struct tags.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool   `flag:"h,help"`
	Version bool   `flag:"v,version"`
	Debug   bool   `flag:"debug"`
	Module  string `flag:"m,module"`
	Doc     string `flag:"d,doc"`
	Repl    bool   `flag:"r,repl"`

	args  []string
	flags map[string]bool
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

// Validate checks that exactly one run mode was selected and that its
// required argument (a module name, a path) is present.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	modes := 0
	if c.Module != "" {
		modes++
	}
	if c.Doc != "" {
		modes++
	}
	if c.Repl {
		modes++
	}
	hasPath := !c.Repl && c.Module == "" && c.Doc == "" && len(c.args) > 0
	if hasPath {
		modes++
	}

	switch {
	case modes > 1:
		return errors.New("only one of -m, -d, -r or a path argument may be given")
	case modes == 0:
		return errors.New("no module, path or -r given; run with --help for usage")
	}
	return nil
}

// Main parses args, dispatches to the selected run mode and returns the
// process exit code, per SPEC_FULL.md §6's "exit 0 success, exit 1
// uncaught error" rule.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	level := zerolog.InfoLevel
	if c.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(stdio.Stderr).Level(level).With().Timestamp().Logger()

	g := runtime.NewGlobals(stdlib.Universe, logger)
	if err := g.AddNativeModule(stdlib.NativeModule()); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.Failure
	}

	cfg, err := loadProjectConfig(".wisprc.yaml")
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.Failure
	}
	cfg.apply(g)

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	var runErr error
	switch {
	case c.Repl:
		runErr = runREPL(ctx, g, stdio)
	case c.Doc != "":
		runErr = printDoc(g, stdio, c.Doc)
	case c.Module != "":
		g.SetArgv(c.args)
		runErr = runModule(g, stdio, c.Module)
	default:
		runErr = runPath(g, stdio, c.args[0], c.args[1:])
	}

	if handled, callErr := g.HandleTrampoline(runErr); handled {
		runErr = callErr
	}

	if runErr != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", runErr)
		return mainer.Failure
	}
	return mainer.Success
}
