package runtime

import (
	"github.com/mna/wisp/lang/compiler"
	"github.com/mna/wisp/lang/machine"
	"github.com/mna/wisp/lang/parser"
	"github.com/mna/wisp/lang/resolver"
	"github.com/mna/wisp/lang/scanner"
	"github.com/mna/wisp/lang/token"
	"github.com/mna/wisp/lang/values"
)

// ExecREPL compiles and runs a single REPL submission against the
// persistent top-level scope, per spec.md §4.5's exec_repl: the value
// returned is the submission's last expression, per spec.md §4.4.
func (g *Globals) ExecREPL(data string) (values.Value, error) {
	chunk, err := parser.ParseChunk("<repl>", []byte(data))
	if err != nil {
		return nil, values.Newf(values.RuntimeErrorKind, "%s", err)
	}
	resolver.Resolve(chunk)
	code := compiler.CompileREPL(chunk, "<repl>")
	return machine.ApplyForRepl(code, g.replScope, g)
}

// ReplReady implements spec.md §6's repl_ready cooperative I/O hook: the
// embedder's line editor calls this after every line the user submits to
// decide whether to keep accumulating input or try to compile what has
// been typed so far. It scans data (ignoring any resulting scan error,
// which the real parse in ExecREPL will surface properly) and reports
// readiness once every bracket/paren/brace opened has been closed.
func (g *Globals) ReplReady(data string) bool {
	sc := scanner.New("<repl>", []byte(data))
	toks, err := sc.Scan()
	if err != nil {
		return true
	}
	depth := 0
	for _, t := range toks {
		switch t.Kind {
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			depth--
		}
	}
	return depth <= 0
}
