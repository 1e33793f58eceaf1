package compiler

import (
	"testing"

	"github.com/mna/wisp/lang/ast"
	"github.com/mna/wisp/lang/parser"
	"github.com/mna/wisp/lang/resolver"
	"github.com/mna/wisp/lang/values"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) *values.Code {
	t.Helper()
	chunk, err := parser.ParseChunk("test", []byte(src))
	require.NoError(t, err)
	resolver.Resolve(chunk)
	return Compile(chunk, "test")
}

// assertMarksParity walks a Code and every Code reachable through its
// Nested/Classes tables, checking spec.md §3's invariant that a Code's
// Marks vector has exactly one entry per Op.
func assertMarksParity(t *testing.T, code *values.Code) {
	t.Helper()
	require.Len(t, code.Marks, len(code.Ops))
	for _, p := range code.Nested {
		assertMarksParity(t, p.Code)
	}
}

func TestMarksLengthParityAcrossNestedScopes(t *testing.T) {
	src := `def outer(a, b=2, *rest) {
  total = a + b
  if total > 0 {
    while total > 0 {
      total = total - 1
    }
  } elif total < 0 {
    total = 0 - total
  } else {
    total = 1
  }
  for x in rest {
    total = total + x
  }
  def* gen() {
    yield total
  }
  class Box(outer) {
    static make = def(v) { return v }
    value = total
    def get(self) { return self.value }
  }
  return total
}
outer(1, 2, 3)`
	code := compile(t, src)
	assertMarksParity(t, code)
}

func TestLocalSlotAssignment(t *testing.T) {
	src := `def f(a, b) {
  c = a + b
  return c
}
f(1, 2)`
	chunk, err := parser.ParseChunk("test", []byte(src))
	require.NoError(t, err)
	resolver.Resolve(chunk)
	code := Compile(chunk, "test")
	require.Len(t, code.Nested, 1)

	f := code.Nested[0].Code
	require.Equal(t, 3, f.NLocals) // a, b, c
	require.Equal(t, 0, f.NFree)
	require.Equal(t, 0, f.NOwned)

	var gotA, gotB, setC bool
	for _, op := range f.Ops {
		switch op.Kind {
		case values.OpGetLocal:
			if op.Str == "a" {
				require.EqualValues(t, 0, op.A)
				gotA = true
			}
			if op.Str == "b" {
				require.EqualValues(t, 1, op.A)
				gotB = true
			}
		case values.OpSetLocal:
			if op.Str == "c" {
				require.EqualValues(t, 2, op.A)
				setC = true
			}
		}
	}
	require.True(t, gotA)
	require.True(t, gotB)
	require.True(t, setC)
}

func TestClosureCaptureSlotsMatchUpvalOrder(t *testing.T) {
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
	chunk, err := parser.ParseChunk("test", []byte(src))
	require.NoError(t, err)
	resolver.Resolve(chunk)
	code := Compile(chunk, "test")
	require.Len(t, code.Nested, 1)

	mk := code.Nested[0].Code
	require.Equal(t, 1, mk.NOwned) // x
	require.Equal(t, 1, mk.NLocals) // inc
	require.Len(t, mk.Nested, 1)

	inc := mk.Nested[0]
	require.Equal(t, 1, inc.Code.NFree)
	require.Len(t, inc.Captures, 1)
	// x is mk's sole Owned name, living at upval slot 0 (Free is empty).
	require.EqualValues(t, 0, inc.Captures[0].Slot)
}

func TestNonlocalAssignUsesUpvalOpcode(t *testing.T) {
	src := `def outer() {
  n = 0
  def bump() {
    nonlocal n
    n = n + 1
  }
  bump()
  n
}`
	chunk, err := parser.ParseChunk("test", []byte(src))
	require.NoError(t, err)
	resolver.Resolve(chunk)
	code := Compile(chunk, "test")
	outer := code.Nested[0].Code
	bump := outer.Nested[0].Code

	var sawSetUpval bool
	for _, op := range bump.Ops {
		if op.Kind == values.OpSetUpval && op.Str == "n" {
			sawSetUpval = true
		}
		require.NotEqual(t, values.OpSetLocal, op.Kind, "nonlocal name must never compile to a local slot")
	}
	require.True(t, sawSetUpval)
}

func TestIfElifElseBranchesAreMutuallyExclusiveJumps(t *testing.T) {
	src := `def f(x) {
  if x > 0 {
    return 1
  } elif x < 0 {
    return -1
  } else {
    return 0
  }
}
f(1)`
	code := compile(t, src)
	f := code.Nested[0].Code
	var jumps, jumpIfFalse int
	for _, op := range f.Ops {
		if op.Kind == values.OpJump {
			jumps++
		}
		if op.Kind == values.OpJumpIfFalse {
			jumpIfFalse++
		}
	}
	require.Equal(t, 2, jumpIfFalse) // one per condition (if, elif)
	require.Equal(t, 2, jumps)       // one per non-final branch skipping past the rest
}

func TestBreakAndContinueTargetLoopBounds(t *testing.T) {
	src := `def f() {
  while true {
    if true {
      break
    }
    continue
  }
}
f()`
	code := compile(t, src)
	f := code.Nested[0].Code

	var jumpTargets []int32
	for _, op := range f.Ops {
		if op.Kind == values.OpJump {
			jumpTargets = append(jumpTargets, op.A)
		}
	}
	require.Len(t, jumpTargets, 3) // break, continue, loop back-edge

	counts := map[int32]int{}
	for _, target := range jumpTargets {
		counts[target]++
	}
	// continue and the back-edge both target the loop condition re-check;
	// break targets the distinct instruction just past the loop.
	require.Len(t, counts, 2)
	var sawPair, sawSingle bool
	for _, n := range counts {
		switch n {
		case 2:
			sawPair = true
		case 1:
			sawSingle = true
		}
	}
	require.True(t, sawPair, "continue and back-edge should share a jump target")
	require.True(t, sawSingle, "break should target a distinct offset")
}

func TestCallEncodesKeywordNames(t *testing.T) {
	src := `def f(a, b) { return a }
f(1, b=2)`
	code := compile(t, src)
	var found bool
	for _, op := range code.Ops {
		if op.Kind == values.OpCall {
			require.EqualValues(t, 1, op.A)
			require.EqualValues(t, 1, op.B)
			require.Equal(t, "b", op.Str)
			found = true
		}
	}
	require.True(t, found)
}

func TestClassProtoFieldAndMethodOrder(t *testing.T) {
	src := `class Point {
  x = 0
  y = 0
  static origin = 1
  def sum(self) { return self.x }
}`
	code := compile(t, src)
	require.Len(t, code.Classes, 1)
	proto := code.Classes[0]
	require.Equal(t, "Point", proto.Name)
	require.False(t, proto.HasBase)
	require.Equal(t, []string{"x", "y"}, proto.FieldNames)
	require.Equal(t, []string{"origin"}, proto.StaticNames)
	require.Equal(t, []string{"sum"}, proto.MethodNames)
}

func TestDefaultParamLoweredAsConstValue(t *testing.T) {
	src := `def f(a, b=5) { return b }
f(1)`
	code := compile(t, src)
	f := code.Nested[0].Code
	require.Len(t, f.Params.Params, 2)
	require.Equal(t, "a", f.Params.Params[0].Name)
	require.Nil(t, f.Params.Params[0].Default)
	require.Equal(t, "b", f.Params.Params[1].Name)
	require.Equal(t, values.Number(5), f.Params.Params[1].Default)
}

func TestVariadicParamRecorded(t *testing.T) {
	src := `def f(a, *rest) { return a }
f(1, 2, 3)`
	code := compile(t, src)
	f := code.Nested[0].Code
	require.Equal(t, "rest", f.Params.Variadic)
	require.True(t, f.Params.HasVariadic())
}

func TestConstantPoolInterning(t *testing.T) {
	src := `x = "hi"
y = "hi"
z = 1
w = 1`
	chunk, err := parser.ParseChunk("test", []byte(src))
	require.NoError(t, err)
	resolver.Resolve(chunk)
	code := Compile(chunk, "test")
	// "hi" and 1 should each be interned once despite two uses.
	var strCount, numCount int
	for _, c := range code.Consts {
		switch c.(type) {
		case values.String:
			strCount++
		case values.Number:
			numCount++
		}
	}
	require.Equal(t, 1, strCount)
	require.Equal(t, 1, numCount)
}
