package runtime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/wisp/lang/machine"
	"github.com/mna/wisp/lang/stdlib"
	"github.com/mna/wisp/lang/values"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestGlobals(t *testing.T, root string) *Globals {
	t.Helper()
	g := NewGlobals(map[string]values.Value{}, zerolog.Nop())
	if root != "" {
		g.AddSourceRoot(root)
	}
	return g
}

func writeModule(t *testing.T, root, name, src string) {
	t.Helper()
	path := filepath.Join(root, name+".u")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
}

func TestModuleTopLevelIsCellVisibleAcrossImports(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "a", `
counter = 0
def bump() {
  counter = counter + 1
}
`)
	writeModule(t, root, "b", `
import "a" as a
a.bump()
a.bump()
result = a.counter
`)
	g := newTestGlobals(t, root)
	mod, err := g.Load("b")
	require.NoError(t, err)
	v, ok := mod.Attr("result")
	require.True(t, ok)
	require.Equal(t, values.Number(2), v)
}

func TestLoadIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "a", `x = 1`)
	g := newTestGlobals(t, root)
	m1, err := g.Load("a")
	require.NoError(t, err)
	m2, err := g.Load("a")
	require.NoError(t, err)
	require.Same(t, m1, m2)
}

func TestLoadMissingModuleIsImportError(t *testing.T) {
	g := newTestGlobals(t, t.TempDir())
	_, err := g.Load("nope")
	require.Error(t, err)
	_, ok := values.AsError(err, values.ImportErrorKind)
	require.True(t, ok)
}

func TestReplPersistsBindingsAcrossSubmissions(t *testing.T) {
	g := newTestGlobals(t, "")
	_, err := g.ExecREPL("x = 5")
	require.NoError(t, err)
	v, err := g.ExecREPL("x + 2")
	require.NoError(t, err)
	require.Equal(t, values.Number(7), v)
}

func TestReplReadyTracksOpenBrackets(t *testing.T) {
	g := newTestGlobals(t, "")
	require.False(t, g.ReplReady("def f() {"))
	require.True(t, g.ReplReady("def f() { return 1 }"))
}

func TestReplScopeSeededWithBuiltins(t *testing.T) {
	g := NewGlobals(map[string]values.Value{"answer": values.Number(42)}, zerolog.Nop())
	v, err := g.ExecREPL("answer")
	require.NoError(t, err)
	require.Equal(t, values.Number(42), v)
}

func TestAddConstantReachesModulesAndRepl(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "a", `result = VERSION`)
	g := newTestGlobals(t, root)
	g.AddConstant("VERSION", values.String("1.0"))

	mod, err := g.Load("a")
	require.NoError(t, err)
	v, ok := mod.Attr("result")
	require.True(t, ok)
	require.Equal(t, values.String("1.0"), v)

	replV, err := g.ExecREPL("VERSION")
	require.NoError(t, err)
	require.Equal(t, values.String("1.0"), replV)
}

func TestNativeModuleBuilderConsumedOnce(t *testing.T) {
	g := newTestGlobals(t, "")
	calls := 0
	err := g.AddNativeModule(&NativeModuleBuilder{
		Name:       "sys",
		FieldNames: []string{"value"},
		Init: func(mod *values.Module) error {
			calls++
			mod.Cells["value"].Set(values.Number(42))
			return nil
		},
	})
	require.NoError(t, err)

	m1, err := g.Load("sys")
	require.NoError(t, err)
	v, ok := m1.Attr("value")
	require.True(t, ok)
	require.Equal(t, values.Number(42), v)

	m2, err := g.Load("sys")
	require.NoError(t, err)
	require.Same(t, m1, m2)
	require.Equal(t, 1, calls)
}

func TestAddNativeModuleDuplicateNameErrors(t *testing.T) {
	g := newTestGlobals(t, "")
	b := &NativeModuleBuilder{Name: "sys", Init: func(*values.Module) error { return nil }}
	require.NoError(t, g.AddNativeModule(b))
	err := g.AddNativeModule(b)
	require.Error(t, err)
	_, ok := values.AsError(err, values.ImportErrorKind)
	require.True(t, ok)
}

func TestTrampolineRequestIsHandledNotFatal(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "a", `pause()`)

	g := NewGlobals(map[string]values.Value{}, zerolog.Nop())
	g.AddConstant("pause", &values.NativeFunction{
		Name: "pause",
		Fn: func(args []values.Value) (values.Value, error) {
			return values.TheNil, g.RequestTrampoline(func(g *Globals) error {
				g.AddConstant("resumed", values.Bool(true))
				return nil
			})
		},
	})
	g.AddSourceRoot(root)

	_, loadErr := g.Load("a")
	require.Error(t, loadErr)
	_, ok := values.AsError(loadErr, values.TrampolineRequestKind)
	require.True(t, ok)

	handled, callErr := g.HandleTrampoline(loadErr)
	require.True(t, handled)
	require.NoError(t, callErr)

	v, err := g.ExecREPL("resumed")
	require.NoError(t, err)
	require.Equal(t, values.Bool(true), v)
}

func TestGeneratorReentrantResumeViaCapturedSelfIsRuntimeError(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "a", `
selfref = nil
def* g() {
  yield 1
  if selfref != nil {
    list(selfref)
  }
  yield 2
}
selfref = g()
first = list(selfref)
`)
	g := NewGlobals(stdlib.Universe, zerolog.Nop())
	g.AddSourceRoot(root)

	_, err := g.Load("a")
	require.Error(t, err)
	e, ok := values.AsError(err, values.RuntimeErrorKind)
	require.True(t, ok)
	require.Contains(t, e.Message, "mutably borrowed")
}

func TestGeneratorResumeSequenceIsDeterministic(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "gen", `
def* g() {
  yield 1
  yield 2
  yield 3
}
`)
	g := newTestGlobals(t, root)
	mod, err := g.Load("gen")
	require.NoError(t, err)
	fnVal, ok := mod.Attr("g")
	require.True(t, ok)
	fn := fnVal.(*values.Function)

	drain := func() []values.Value {
		genVal, err := machine.Call(fn, nil, nil, g)
		require.NoError(t, err)
		gen := genVal.(*values.Generator)
		var out []values.Value
		for {
			v, done, err := gen.Resume(values.TheNil)
			require.NoError(t, err)
			if done {
				break
			}
			out = append(out, v)
		}
		return out
	}

	first := drain()
	second := drain()
	require.Equal(t, first, second)
	require.Equal(t, []values.Value{values.Number(1), values.Number(2), values.Number(3)}, first)
}
