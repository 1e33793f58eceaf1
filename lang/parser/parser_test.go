package parser

import (
	"testing"

	"github.com/mna/wisp/lang/ast"
	"github.com/stretchr/testify/require"
)

func TestParseClosureExample(t *testing.T) {
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
	chunk, err := ParseChunk("test", []byte(src))
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 2)

	fs, ok := chunk.Block.Stmts[0].(*ast.FuncStmt)
	require.True(t, ok)
	require.Equal(t, "mk", fs.Name.Name)
	require.False(t, fs.Func.IsGenerator)
	require.Len(t, fs.Func.Body.Stmts, 5)

	inner, ok := fs.Func.Body.Stmts[1].(*ast.FuncStmt)
	require.True(t, ok)
	require.Equal(t, "inc", inner.Name.Name)
	require.Len(t, inner.Func.Body.Stmts, 2)
	assign, ok := inner.Func.Body.Stmts[0].(*ast.AssignStmt)
	require.True(t, ok)
	require.Len(t, assign.Targets, 1)

	_, ok = chunk.Block.Stmts[1].(*ast.ExprStmt)
	require.True(t, ok)
}

func TestParseGeneratorAndControlFlow(t *testing.T) {
	src := `def* gen(n) {
  i = 0
  while i < n {
    yield i
    i = i + 1
  }
}
for v in gen(3) {
  if v == 1 {
    continue
  } elif v == 2 {
    break
  }
}`
	chunk, err := ParseChunk("test", []byte(src))
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 2)

	fs := chunk.Block.Stmts[0].(*ast.FuncStmt)
	require.True(t, fs.Func.IsGenerator)

	forStmt := chunk.Block.Stmts[1].(*ast.ForInStmt)
	require.Equal(t, "v", forStmt.Vars[0].Name)
	ifStmt := forStmt.Body.Stmts[0].(*ast.IfStmt)
	require.NotNil(t, ifStmt.Else)
}

func TestParseClassAndImport(t *testing.T) {
	src := `import "math" as math

class Point(Base) {
  static origin = 0
  def dist(self) {
    return self.x
  }
}`
	chunk, err := ParseChunk("test", []byte(src))
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 2)

	imp := chunk.Block.Stmts[0].(*ast.ImportStmt)
	require.Equal(t, "math", imp.Path)
	require.Equal(t, "math", imp.Alias.Name)

	cls := chunk.Block.Stmts[1].(*ast.ClassStmt)
	require.Equal(t, "Point", cls.Name.Name)
	require.NotNil(t, cls.Inherits)
	require.Len(t, cls.Fields, 1)
	require.True(t, cls.Fields[0].IsStatic)
	require.Len(t, cls.Methods, 1)
	require.Equal(t, "dist", cls.Methods[0].Name.Name)
}

func TestParseCallWithKeywordArgs(t *testing.T) {
	src := `f(1, 2, name=3, other=4)`
	chunk, err := ParseChunk("test", []byte(src))
	require.NoError(t, err)
	es := chunk.Block.Stmts[0].(*ast.ExprStmt)
	call := es.X.(*ast.CallExpr)
	require.Len(t, call.Args, 2)
	require.Equal(t, []string{"name", "other"}, call.KwNames)
}

func TestParseMethodCallAndRaise(t *testing.T) {
	src := `obj.method(1, 2)
raise "boom"`
	chunk, err := ParseChunk("test", []byte(src))
	require.NoError(t, err)
	es := chunk.Block.Stmts[0].(*ast.ExprStmt)
	mc := es.X.(*ast.MethodCallExpr)
	require.Equal(t, "method", mc.Name)
	require.Len(t, mc.Args, 2)

	raise := chunk.Block.Stmts[1].(*ast.RaiseStmt)
	lit := raise.X.(*ast.LiteralExpr)
	require.Equal(t, "boom", lit.String)
}

func TestParseErrorRecovery(t *testing.T) {
	_, err := ParseChunk("test", []byte(`x = `))
	require.Error(t, err)
}
