package resolver

import (
	"testing"

	"github.com/mna/wisp/lang/ast"
	"github.com/mna/wisp/lang/parser"
	"github.com/stretchr/testify/require"
)

func names(bs []ast.Binding) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Name
	}
	return out
}

func parseResolve(t *testing.T, src string) *ast.Chunk {
	t.Helper()
	chunk, err := parser.ParseChunk("test", []byte(src))
	require.NoError(t, err)
	Resolve(chunk)
	return chunk
}

func assertDisjoint(t *testing.T, spec ast.VarSpec) {
	t.Helper()
	seen := map[string]string{}
	for _, b := range spec.Local {
		require.NotContains(t, seen, b.Name)
		seen[b.Name] = "local"
	}
	for _, b := range spec.Free {
		require.NotContains(t, seen, b.Name)
		seen[b.Name] = "free"
	}
	for _, b := range spec.Owned {
		require.NotContains(t, seen, b.Name)
		seen[b.Name] = "owned"
	}
}

func TestClosureCaptureVarSpec(t *testing.T) {
	src := `def mk() {
  x = 10
  def inc() {
    x = x + 1
    return x
  }
  inc()
  inc()
  x
}
mk()`
	chunk := parseResolve(t, src)
	assertDisjoint(t, chunk.VarSpec)

	mk := chunk.Block.Stmts[0].(*ast.FuncStmt)
	assertDisjoint(t, mk.Func.VarSpec)
	require.Equal(t, []string{"x"}, names(mk.Func.VarSpec.Owned))
	require.Equal(t, []string{"inc"}, names(mk.Func.VarSpec.Local))

	inc := mk.Func.Body.Stmts[1].(*ast.FuncStmt)
	assertDisjoint(t, inc.Func.VarSpec)
	require.Equal(t, []string{"x"}, names(inc.Func.VarSpec.Free))
}

func TestNonlocalForcesFree(t *testing.T) {
	src := `def outer() {
  n = 0
  def bump() {
    nonlocal n
    n = n + 1
  }
  bump()
  n
}`
	chunk := parseResolve(t, src)
	outer := chunk.Block.Stmts[0].(*ast.FuncStmt)
	bump := outer.Func.Body.Stmts[1].(*ast.FuncStmt)
	assertDisjoint(t, bump.Func.VarSpec)
	require.Equal(t, []string{"n"}, names(bump.Func.VarSpec.Free))
	require.Empty(t, bump.Func.VarSpec.Owned)
	require.Empty(t, bump.Func.VarSpec.Local)
}

func TestModuleScopeForcesOwned(t *testing.T) {
	src := `counter = 0
def bump() {
  counter = counter + 1
}`
	chunk := parseResolve(t, src)
	assertDisjoint(t, chunk.VarSpec)
	require.Contains(t, names(chunk.VarSpec.Owned), "counter")
	require.Contains(t, names(chunk.VarSpec.Owned), "bump")
}

func TestUseBeforeSetStillLocal(t *testing.T) {
	// y is read before it is written in program order, but the resolver
	// classifies by write-vs-capture, not execution order: y has no nested
	// capture, so it lands in local; the "used before being set" failure is
	// a machine-time Invalid-read error (spec.md §8), not a resolver error.
	src := `def f() {
  y = x
  x = 1
  y
}`
	chunk := parseResolve(t, src)
	f := chunk.Block.Stmts[0].(*ast.FuncStmt)
	assertDisjoint(t, f.Func.VarSpec)
	require.Contains(t, names(f.Func.VarSpec.Local), "y")
	require.Contains(t, names(f.Func.VarSpec.Local), "x")
}

func TestEveryScopeNameAccountedFor(t *testing.T) {
	src := `def f(a, b) {
  c = a + b
  def g() {
    return a + c
  }
  g()
}`
	chunk := parseResolve(t, src)
	f := chunk.Block.Stmts[0].(*ast.FuncStmt)
	spec := f.Func.VarSpec
	assertDisjoint(t, spec)
	all := append(append(append([]string{}, names(spec.Local)...), names(spec.Free)...), names(spec.Owned)...)
	require.Contains(t, all, "a")
	require.Contains(t, all, "b")
	require.Contains(t, all, "c")
	require.Contains(t, all, "g")
}
