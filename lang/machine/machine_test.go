package machine

import (
	"testing"

	"github.com/mna/wisp/lang/ast"
	"github.com/mna/wisp/lang/compiler"
	"github.com/mna/wisp/lang/parser"
	"github.com/mna/wisp/lang/resolver"
	"github.com/mna/wisp/lang/values"
	"github.com/stretchr/testify/require"
)

func compileFunc(t *testing.T, src string) *values.Code {
	t.Helper()
	chunk, err := parser.ParseChunk("test", []byte(src))
	require.NoError(t, err)
	resolver.Resolve(chunk)
	return compiler.Compile(chunk, "test")
}

// run treats src as a module body with no free names (no builtins needed)
// and returns the resulting Module.
func run(t *testing.T, src string) *values.Module {
	t.Helper()
	code := compileFunc(t, src)
	mod, err := ApplyForModule(code, "test", "", nil, nil, nil)
	require.NoError(t, err)
	return mod
}

func TestClosureCaptureEndToEnd(t *testing.T) {
	mod := run(t, `
def mk() {
  count = 0
  def inc() {
    count = count + 1
    return count
  }
  return inc
}
f = mk()
f()
f()
last = f()
`)
	v, ok := mod.Attr("last")
	require.True(t, ok)
	require.Equal(t, values.Number(3), v)
}

func TestClosureCellIdentity(t *testing.T) {
	mod := run(t, `
def mk() {
  count = 0
  def get() { return count }
  def inc() { count = count + 1 }
  return [get, inc]
}
pair = mk()
get = pair[0]
inc = pair[1]
inc()
inc()
result = get()
`)
	v, ok := mod.Attr("result")
	require.True(t, ok)
	require.Equal(t, values.Number(2), v)
}

func TestGeneratorSequenceEndToEnd(t *testing.T) {
	mod := run(t, `
def* counter(n) {
  i = 0
  while i < n {
    yield i
    i = i + 1
  }
}
gen = counter(3)
`)
	_ = mod
	genVal, ok := mod.Attr("gen")
	require.True(t, ok)
	gen, ok := genVal.(*values.Generator)
	require.True(t, ok)

	v1, done1, err := gen.Resume(values.TheNil)
	require.NoError(t, err)
	require.False(t, done1)
	require.Equal(t, values.Number(0), v1)

	v2, done2, err := gen.Resume(values.TheNil)
	require.NoError(t, err)
	require.False(t, done2)
	require.Equal(t, values.Number(1), v2)

	v3, done3, err := gen.Resume(values.TheNil)
	require.NoError(t, err)
	require.False(t, done3)
	require.Equal(t, values.Number(2), v3)

	_, done4, err := gen.Resume(values.TheNil)
	require.NoError(t, err)
	require.True(t, done4)
}

func TestUseBeforeSetErrors(t *testing.T) {
	code := compileFunc(t, `
x = y
y = 1
`)
	_, err := ApplyForModule(code, "test", "", nil, nil, nil)
	require.Error(t, err)
	verr, ok := values.AsError(err, values.RuntimeErrorKind)
	require.True(t, ok)
	require.Contains(t, verr.Message, "used before being set")
}

func TestArityErrorNamesMissingParameter(t *testing.T) {
	mod := run(t, `
def need(a, b) { return a + b }
`)
	fnVal, ok := mod.Attr("need")
	require.True(t, ok)
	fn := fnVal.(*values.Function)
	_, err := ApplyForFunction(fn, []values.Value{values.Number(1)}, nil, nil)
	require.Error(t, err)
	verr, ok := values.AsError(err, values.ArgumentErrorKind)
	require.True(t, ok)
	require.Contains(t, verr.Message, "b")
}

func TestTooManyArgumentsErrors(t *testing.T) {
	mod := run(t, `
def need(a) { return a }
`)
	fnVal, _ := mod.Attr("need")
	fn := fnVal.(*values.Function)
	_, err := ApplyForFunction(fn, []values.Value{values.Number(1), values.Number(2)}, nil, nil)
	require.Error(t, err)
	_, ok := values.AsError(err, values.ArgumentErrorKind)
	require.True(t, ok)
}

func TestDefaultAndVariadicParams(t *testing.T) {
	mod := run(t, `
def f(a, b=10, *rest) {
  total = a + b
  for x in rest {
    total = total + x
  }
  return total
}
r1 = f(1)
r2 = f(1, 2, 3, 4)
`)
	r1, _ := mod.Attr("r1")
	require.Equal(t, values.Number(11), r1)
	r2, _ := mod.Attr("r2")
	require.Equal(t, values.Number(10), r2)
}

func TestClassInstantiationAndMethodCall(t *testing.T) {
	mod := run(t, `
class Counter {
  value = 0
  def init(self, start) {
    self.value = start
  }
  def bump(self) {
    self.value = self.value + 1
    return self.value
  }
}
c = Counter(5)
a = c.bump()
b = c.bump()
`)
	a, _ := mod.Attr("a")
	require.Equal(t, values.Number(6), a)
	b, _ := mod.Attr("b")
	require.Equal(t, values.Number(7), b)
}

func TestBoundMethodValueCalledLater(t *testing.T) {
	mod := run(t, `
class Box {
  value = 0
  def init(self, v) { self.value = v }
  def get(self) { return self.value }
}
b = Box(9)
m = b.get
r = m()
`)
	r, _ := mod.Attr("r")
	require.Equal(t, values.Number(9), r)
}

func TestForInOverMapTwoVars(t *testing.T) {
	mod := run(t, `
total = 0
m = {"a": 1, "b": 2, "c": 3}
for k, v in m {
  total = total + v
}
`)
	total, _ := mod.Attr("total")
	require.Equal(t, values.Number(6), total)
}

func TestApplyForModuleResolvesFreeNamesAgainstBuiltins(t *testing.T) {
	code := compileFunc(t, `
r = double(21)
`)
	builtins := map[string]values.Value{
		"double": &values.NativeFunction{
			Name: "double",
			Spec: values.ArgSpec{Params: []values.Param{{Name: "x"}}},
			Fn: func(args []values.Value) (values.Value, error) {
				return args[0].(values.Number) * 2, nil
			},
		},
	}
	mod, err := ApplyForModule(code, "test", "", builtins, nil, nil)
	require.NoError(t, err)
	r, ok := mod.Attr("r")
	require.True(t, ok)
	require.Equal(t, values.Number(42), r)
}

func TestApplyForModuleMissingBuiltinIsNameError(t *testing.T) {
	code := compileFunc(t, `
r = missing()
`)
	_, err := ApplyForModule(code, "test", "", nil, nil, nil)
	require.Error(t, err)
	_, ok := values.AsError(err, values.NameErrorKind)
	require.True(t, ok)
}

func TestApplyForReplPersistsOwnedCellsAcrossSubmissions(t *testing.T) {
	scope := map[string]*values.Cell{}

	code1 := compiler.CompileREPL(parseChunk(t, `x = 10`), "repl")
	v1, err := ApplyForRepl(code1, scope, nil)
	require.NoError(t, err)
	require.Equal(t, values.TheNil, v1)

	code2 := compiler.CompileREPL(parseChunk(t, `x = x + 5
x`), "repl")
	v2, err := ApplyForRepl(code2, scope, nil)
	require.NoError(t, err)
	require.Equal(t, values.Number(15), v2)
}

func parseChunk(t *testing.T, src string) *ast.Chunk {
	t.Helper()
	chunk, err := parser.ParseChunk("repl", []byte(src))
	require.NoError(t, err)
	resolver.Resolve(chunk)
	return chunk
}
