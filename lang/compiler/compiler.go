// Package compiler lowers an annotated AST (produced by lang/resolver)
// into lang/values.Code objects: a flat opcode vector, the scope's
// ArgSpec, and a per-opcode source-mark vector, per spec.md §4.2.
//
// The teacher's lang/compiler builds a CFG of basic blocks with
// jump-threading and a separate linearization pass. spec.md only requires
// "a flat opcode vector" with backpatched jump targets, so this compiler
// instead emits directly into a flat []values.Op, remembering the offsets
// of not-yet-resolved jumps and patching them once the target is known: a
// single-pass emit-with-backpatch compiler, the simpler shape spec.md's
// wording calls for.
package compiler

import (
	"fmt"

	"github.com/mna/wisp/lang/ast"
	"github.com/mna/wisp/lang/token"
	"github.com/mna/wisp/lang/values"
)

// Compile lowers chunk (already annotated by lang/resolver.Resolve) into
// the module-scope Code, named name for diagnostics.
func Compile(chunk *ast.Chunk, name string) *values.Code {
	fc := newFuncCompiler(name, chunk.VarSpec)
	fc.block(chunk.Block)
	fc.emit(values.Op{Kind: values.OpPushNil}, chunk.Pos)
	fc.emit(values.Op{Kind: values.OpReturn}, chunk.Pos)
	return fc.finish(values.ArgSpec{})
}

// CompileREPL lowers a single REPL submission the same way Compile does,
// except that if the chunk's final statement is a bare expression, its
// value is returned rather than discarded, per spec.md §4.4's
// apply_for_repl ("execution returns the last expression value").
func CompileREPL(chunk *ast.Chunk, name string) *values.Code {
	fc := newFuncCompiler(name, chunk.VarSpec)
	stmts := chunk.Block.Stmts
	for i, s := range stmts {
		if i == len(stmts)-1 {
			if es, ok := s.(*ast.ExprStmt); ok {
				fc.expr(es.X)
				fc.emit(values.Op{Kind: values.OpReturn}, es.Pos)
				return fc.finish(values.ArgSpec{})
			}
		}
		fc.stmt(s)
	}
	fc.emit(values.Op{Kind: values.OpPushNil}, chunk.Pos)
	fc.emit(values.Op{Kind: values.OpReturn}, chunk.Pos)
	return fc.finish(values.ArgSpec{})
}

// funcCompiler compiles one scope (module or function body) into a Code.
// A new funcCompiler is created for every nested function or class
// method; it never holds a reference to its enclosing funcCompiler, since
// the only cross-scope information it needs (which of the enclosing
// scope's upvalue slots a nested function captures) is resolved once, in
// the enclosing compiler, at the OpMakeFunction emission site.
type funcCompiler struct {
	name string
	spec ast.VarSpec

	// localOf/upvalOf map a name to its slot in the frame's Locals or
	// Upvals array, per spec.md §4.2's name-lowering rule: Local slots come
	// from VarSpec.Local in order; Upval slots come from VarSpec.Free then
	// VarSpec.Owned, in that concatenated order. Owned cells are allocated
	// fresh by the machine at frame start; Free cells are received from the
	// closure's captured Function.Free.
	localOf map[string]int32
	upvalOf map[string]int32

	ops   []values.Op
	marks []values.Mark

	consts  []values.Value
	nested  []*values.FuncProto
	classes []*values.ClassProto

	// loopBreaks/loopContinues hold, per enclosing loop (innermost last),
	// the offsets of jump instructions still awaiting their target.
	loopBreaks    [][]int
	loopContinues [][]int
}

func newFuncCompiler(name string, spec ast.VarSpec) *funcCompiler {
	fc := &funcCompiler{
		name:    name,
		spec:    spec,
		localOf: map[string]int32{},
		upvalOf: map[string]int32{},
	}
	for i, b := range spec.Local {
		fc.localOf[b.Name] = int32(i)
	}
	var i int32
	for _, b := range spec.Free {
		fc.upvalOf[b.Name] = i
		i++
	}
	for _, b := range spec.Owned {
		fc.upvalOf[b.Name] = i
		i++
	}
	return fc
}

func mark(pos token.Pos) values.Mark {
	l, c := pos.LineCol()
	return values.Mark{Line: l, Col: c}
}

func (fc *funcCompiler) emit(op values.Op, pos token.Pos) int {
	fc.ops = append(fc.ops, op)
	fc.marks = append(fc.marks, mark(pos))
	return len(fc.ops) - 1
}

func (fc *funcCompiler) here() int { return len(fc.ops) }

func (fc *funcCompiler) patchJump(offset, target int) {
	fc.ops[offset].A = int32(target)
}

func (fc *funcCompiler) finish(argspec values.ArgSpec) *values.Code {
	freeNames := make([]string, len(fc.spec.Free))
	freeMarks := make([]values.Mark, len(fc.spec.Free))
	for i, b := range fc.spec.Free {
		freeNames[i] = b.Name
		freeMarks[i] = mark(b.Pos)
	}
	ownedNames := make([]string, len(fc.spec.Owned))
	for i, b := range fc.spec.Owned {
		ownedNames[i] = b.Name
	}

	slots := make([]values.VarSlot, 0, len(argspec.Params)+1)
	for _, p := range argspec.Params {
		slots = append(slots, fc.slotFor(p.Name))
	}
	if argspec.HasVariadic() {
		slots = append(slots, fc.slotFor(argspec.Variadic))
	}

	return &values.Code{
		Name:       fc.name,
		Ops:        fc.ops,
		Marks:      fc.marks,
		Params:     argspec,
		NLocals:    len(fc.spec.Local),
		NFree:      len(fc.spec.Free),
		NOwned:     len(fc.spec.Owned),
		Consts:     fc.consts,
		Nested:     fc.nested,
		Classes:    fc.classes,
		ParamSlots: slots,
		FreeNames:  freeNames,
		FreeMarks:  freeMarks,
		OwnedNames: ownedNames,
	}
}

// slotFor reports where name lives in this scope's frame: a Local slot if
// the annotator left it uncaptured, otherwise its Owned upval slot (a
// parameter captured by a nested closure is never Local, by the same rule
// that governs ordinary writes; see makeFunction).
func (fc *funcCompiler) slotFor(name string) values.VarSlot {
	if i, ok := fc.localOf[name]; ok {
		return values.VarSlot{Kind: values.SlotLocal, Index: i}
	}
	return values.VarSlot{Kind: values.SlotUpval, Index: fc.upvalOf[name]}
}

// constIndex interns v into the constant pool, returning its index.
func (fc *funcCompiler) constIndex(v values.Value) int32 {
	for i, c := range fc.consts {
		if c == v {
			return int32(i)
		}
	}
	fc.consts = append(fc.consts, v)
	return int32(len(fc.consts) - 1)
}

func (fc *funcCompiler) block(b *ast.Block) {
	for _, s := range b.Stmts {
		fc.stmt(s)
	}
}

func (fc *funcCompiler) stmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.AssignStmt:
		fc.assign(st)
	case *ast.NonlocalStmt:
		// No code: purely a resolver-time declaration.
	case *ast.ExprStmt:
		fc.expr(st.X)
		fc.emit(values.Op{Kind: values.OpPop}, st.Pos)
	case *ast.IfStmt:
		fc.ifStmt(st)
	case *ast.WhileStmt:
		fc.whileStmt(st)
	case *ast.ForInStmt:
		fc.forInStmt(st)
	case *ast.BreakStmt:
		n := len(fc.loopBreaks) - 1
		off := fc.emit(values.Op{Kind: values.OpJump}, st.Pos)
		fc.loopBreaks[n] = append(fc.loopBreaks[n], off)
	case *ast.ContinueStmt:
		n := len(fc.loopContinues) - 1
		off := fc.emit(values.Op{Kind: values.OpJump}, st.Pos)
		fc.loopContinues[n] = append(fc.loopContinues[n], off)
	case *ast.FuncStmt:
		fc.makeFunction(st.Func, st.Name.Name)
		fc.setName(st.Name.Name, st.Pos)
	case *ast.ReturnStmt:
		if st.X != nil {
			fc.expr(st.X)
		} else {
			fc.emit(values.Op{Kind: values.OpPushNil}, st.Pos)
		}
		fc.emit(values.Op{Kind: values.OpReturn}, st.Pos)
	case *ast.RaiseStmt:
		fc.expr(st.X)
		fc.emit(values.Op{Kind: values.OpRaise}, st.Pos)
	case *ast.ClassStmt:
		fc.classStmt(st)
	case *ast.ImportStmt:
		fc.emit(values.Op{Kind: values.OpImport, Str: st.Path}, st.Pos)
		fc.setName(st.Alias.Name, st.Pos)
	default:
		panic(fmt.Sprintf("compiler: unhandled statement %T", s))
	}
}

// assign evaluates every right-hand value (left to right, kept on the
// stack), then assigns them to targets back to front: assignTarget always
// starts with exactly one value on top of the stack (the one meant for
// its target) and consumes it completely, leaving the stack as it found
// it otherwise, so targets can be popped off in reverse push order.
func (fc *funcCompiler) assign(st *ast.AssignStmt) {
	for _, v := range st.Values {
		fc.expr(v)
	}
	for i := len(st.Targets) - 1; i >= 0; i-- {
		fc.assignTarget(st.Targets[i], st.Pos)
	}
}

func (fc *funcCompiler) assignTarget(e ast.Expr, pos token.Pos) {
	switch t := ast.Unwrap(e).(type) {
	case *ast.Ident:
		fc.setName(t.Name, pos)
	case *ast.AttrExpr:
		fc.expr(t.X)
		fc.emit(values.Op{Kind: values.OpAttrSet, Str: t.Name}, pos)
	case *ast.IndexExpr:
		fc.expr(t.X)
		fc.expr(t.Index)
		fc.emit(values.Op{Kind: values.OpIndexSet}, pos)
	default:
		panic("compiler: invalid assignment target")
	}
}

func (fc *funcCompiler) setName(name string, pos token.Pos) {
	if slot, ok := fc.localOf[name]; ok {
		fc.emit(values.Op{Kind: values.OpSetLocal, A: slot, Str: name}, pos)
		return
	}
	fc.emit(values.Op{Kind: values.OpSetUpval, A: fc.upvalOf[name], Str: name}, pos)
}

func (fc *funcCompiler) getName(name string, pos token.Pos) {
	if slot, ok := fc.localOf[name]; ok {
		fc.emit(values.Op{Kind: values.OpGetLocal, A: slot, Str: name}, pos)
		return
	}
	fc.emit(values.Op{Kind: values.OpGetUpval, A: fc.upvalOf[name], Str: name}, pos)
}

func (fc *funcCompiler) ifStmt(st *ast.IfStmt) {
	fc.expr(st.Cond)
	jf := fc.emit(values.Op{Kind: values.OpJumpIfFalse}, st.Pos)
	fc.block(st.Then)
	if st.Else != nil {
		jend := fc.emit(values.Op{Kind: values.OpJump}, st.Pos)
		fc.patchJump(jf, fc.here())
		fc.block(st.Else)
		fc.patchJump(jend, fc.here())
	} else {
		fc.patchJump(jf, fc.here())
	}
}

func (fc *funcCompiler) pushLoop() {
	fc.loopBreaks = append(fc.loopBreaks, nil)
	fc.loopContinues = append(fc.loopContinues, nil)
}

func (fc *funcCompiler) popLoop(breakTarget, continueTarget int) {
	n := len(fc.loopBreaks) - 1
	for _, off := range fc.loopBreaks[n] {
		fc.patchJump(off, breakTarget)
	}
	for _, off := range fc.loopContinues[n] {
		fc.patchJump(off, continueTarget)
	}
	fc.loopBreaks = fc.loopBreaks[:n]
	fc.loopContinues = fc.loopContinues[:n]
}

func (fc *funcCompiler) whileStmt(st *ast.WhileStmt) {
	fc.pushLoop()
	top := fc.here()
	fc.expr(st.Cond)
	jend := fc.emit(values.Op{Kind: values.OpJumpIfFalse}, st.Pos)
	fc.block(st.Body)
	fc.emit(values.Op{Kind: values.OpJump, A: int32(top)}, st.Pos)
	end := fc.here()
	fc.patchJump(jend, end)
	fc.popLoop(end, top)
}

// forInStmt compiles `for vars... in iter { body }`. OpIterStart converts
// the top-of-stack iterable into an iterator value; OpIterNextOrJump
// advances it, pushing B values (one per loop variable, in declaration
// order, so the last one is on top) or jumping to A on exhaustion. The
// iterator itself stays beneath those values until the loop ends, when it
// is popped.
func (fc *funcCompiler) forInStmt(st *ast.ForInStmt) {
	fc.expr(st.Iter)
	fc.emit(values.Op{Kind: values.OpIterStart}, st.Pos)
	fc.pushLoop()
	top := fc.here()
	jend := fc.emit(values.Op{Kind: values.OpIterNextOrJump, B: int32(len(st.Vars))}, st.Pos)
	for i := len(st.Vars) - 1; i >= 0; i-- {
		fc.setName(st.Vars[i].Name, st.Pos)
	}
	fc.block(st.Body)
	fc.emit(values.Op{Kind: values.OpJump, A: int32(top)}, st.Pos)
	end := fc.here()
	fc.patchJump(jend, end)
	fc.emit(values.Op{Kind: values.OpPop}, st.Pos) // discard the iterator
	fc.popLoop(end, top)
}

func (fc *funcCompiler) expr(e ast.Expr) {
	switch x := e.(type) {
	case *ast.LiteralExpr:
		fc.literal(x)
	case *ast.Ident:
		fc.getName(x.Name, x.Pos)
	case *ast.ListExpr:
		for _, el := range x.Elems {
			fc.expr(el)
		}
		fc.emit(values.Op{Kind: values.OpPushList, A: int32(len(x.Elems))}, x.Pos)
	case *ast.MapExpr:
		for i := range x.Keys {
			fc.expr(x.Keys[i])
			fc.expr(x.Values[i])
		}
		fc.emit(values.Op{Kind: values.OpPushMap, A: int32(len(x.Keys))}, x.Pos)
	case *ast.UnaryExpr:
		fc.expr(x.X)
		fc.emit(values.Op{Kind: values.OpUnary, A: int32(x.Op)}, x.Pos)
	case *ast.BinaryExpr:
		fc.expr(x.X)
		fc.expr(x.Y)
		fc.emit(values.Op{Kind: values.OpBinary, A: int32(x.Op)}, x.Pos)
	case *ast.LogicalExpr:
		fc.logical(x)
	case *ast.CallExpr:
		fc.expr(x.Fn)
		for _, a := range x.Args {
			fc.expr(a)
		}
		for _, v := range x.KwValues {
			fc.expr(v)
		}
		fc.emit(values.Op{Kind: values.OpCall, A: int32(len(x.Args)), B: int32(len(x.KwNames)), Str: joinNames(x.KwNames)}, x.Pos)
	case *ast.MethodCallExpr:
		fc.expr(x.Receiver)
		for _, a := range x.Args {
			fc.expr(a)
		}
		for _, v := range x.KwValues {
			fc.expr(v)
		}
		fc.emit(values.Op{Kind: values.OpMethodCall, A: int32(len(x.Args)), B: int32(len(x.KwNames)), Str: x.Name + "\x00" + joinNames(x.KwNames)}, x.Pos)
	case *ast.AttrExpr:
		fc.expr(x.X)
		fc.emit(values.Op{Kind: values.OpAttrGet, Str: x.Name}, x.Pos)
	case *ast.IndexExpr:
		fc.expr(x.X)
		fc.expr(x.Index)
		fc.emit(values.Op{Kind: values.OpIndexGet}, x.Pos)
	case *ast.FuncExpr:
		fc.makeFunction(x, "<anonymous>")
	case *ast.YieldExpr:
		if x.X != nil {
			fc.expr(x.X)
		} else {
			fc.emit(values.Op{Kind: values.OpPushNil}, x.Pos)
		}
		fc.emit(values.Op{Kind: values.OpYield}, x.Pos)
	case *ast.ParenExpr:
		fc.expr(x.X)
	default:
		panic(fmt.Sprintf("compiler: unhandled expression %T", e))
	}
}

// joinNames encodes a keyword-argument name list into an opcode's Str
// operand, NUL-joined (argument names cannot themselves contain NUL).
func joinNames(names []string) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += "\x00"
		}
		s += n
	}
	return s
}

func (fc *funcCompiler) literal(x *ast.LiteralExpr) {
	switch x.Kind {
	case ast.NilLit:
		fc.emit(values.Op{Kind: values.OpPushNil}, x.Pos)
	case ast.TrueLit:
		fc.emit(values.Op{Kind: values.OpPushTrue}, x.Pos)
	case ast.FalseLit:
		fc.emit(values.Op{Kind: values.OpPushFalse}, x.Pos)
	case ast.NumberLit:
		idx := fc.constIndex(values.Number(x.Number))
		fc.emit(values.Op{Kind: values.OpPushNumber, B: idx}, x.Pos)
	case ast.StringLit:
		idx := fc.constIndex(values.String(x.String))
		fc.emit(values.Op{Kind: values.OpPushString, B: idx}, x.Pos)
	}
}

// logical compiles a short-circuiting and/or. OpAnd/OpOr peek the value
// just pushed by X: if it already decides the result (falsy for "and",
// truthy for "or"), the machine jumps to A leaving that value as the
// expression's result; otherwise it pops it and falls through to the Y
// code that follows.
func (fc *funcCompiler) logical(x *ast.LogicalExpr) {
	fc.expr(x.X)
	op := values.OpAnd
	if x.Op == token.OR {
		op = values.OpOr
	}
	j := fc.emit(values.Op{Kind: op}, x.Pos)
	fc.expr(x.Y)
	fc.patchJump(j, fc.here())
}

// makeFunction compiles fe into its own Code, computes which of this
// (enclosing) scope's upvalue cells it captures per fe.VarSpec.Free (per
// spec.md §4.1, a nested scope's free names always resolve, in the
// enclosing scope, to either its own Free or Owned list, never Local:
// Local names are by construction never captured by a nested scope), and
// emits OpMakeFunction to build the closure at runtime.
func (fc *funcCompiler) makeFunction(fe *ast.FuncExpr, name string) {
	child := newFuncCompiler(name, fe.VarSpec)
	child.block(fe.Body)
	child.emit(values.Op{Kind: values.OpPushNil}, fe.Pos)
	child.emit(values.Op{Kind: values.OpReturn}, fe.Pos)
	code := child.finish(lowerArgSpec(fe.Params))

	captures := make([]values.Capture, len(fe.VarSpec.Free))
	for i, b := range fe.VarSpec.Free {
		captures[i] = values.Capture{Slot: fc.upvalOf[b.Name]}
	}
	proto := &values.FuncProto{Code: code, Captures: captures, IsGenerator: fe.IsGenerator}
	idx := int32(len(fc.nested))
	fc.nested = append(fc.nested, proto)
	fc.emit(values.Op{Kind: values.OpMakeFunction, B: idx}, fe.Pos)
}

func lowerArgSpec(params []*ast.Param) values.ArgSpec {
	var spec values.ArgSpec
	for _, p := range params {
		if p.Variadic {
			spec.Variadic = p.Name.Name
			continue
		}
		var def values.Value
		if p.Default != nil {
			def = constLiteralValue(p.Default)
		}
		spec.Params = append(spec.Params, values.Param{Name: p.Name.Name, Default: def})
	}
	return spec
}

func constLiteralValue(l *ast.LiteralExpr) values.Value {
	switch l.Kind {
	case ast.TrueLit:
		return values.Bool(true)
	case ast.FalseLit:
		return values.Bool(false)
	case ast.NumberLit:
		return values.Number(l.Number)
	case ast.StringLit:
		return values.String(l.String)
	default:
		return values.TheNil
	}
}

// classStmt emits, in order, the base class value (if any), every
// non-static field's default-value expression, every static field's value
// expression (a static method's "value" is its FuncExpr, compiled like any
// other nested function), and every method as a freshly made closure;
// OpMakeClass then pops all of that to assemble the *values.Class.
func (fc *funcCompiler) classStmt(st *ast.ClassStmt) {
	proto := &values.ClassProto{Name: st.Name.Name, HasBase: st.Inherits != nil}
	if st.Inherits != nil {
		fc.expr(st.Inherits)
	}
	for _, f := range st.Fields {
		if f.IsStatic {
			continue
		}
		fc.expr(f.Value)
		proto.FieldNames = append(proto.FieldNames, f.Name.Name)
	}
	for _, f := range st.Fields {
		if !f.IsStatic {
			continue
		}
		fc.expr(f.Value)
		proto.StaticNames = append(proto.StaticNames, f.Name.Name)
	}
	for _, m := range st.Methods {
		fc.makeFunction(m.Func, m.Name.Name)
		proto.MethodNames = append(proto.MethodNames, m.Name.Name)
	}

	idx := int32(len(fc.classes))
	fc.classes = append(fc.classes, proto)
	fc.emit(values.Op{Kind: values.OpMakeClass, B: idx}, st.Pos)
	fc.setName(st.Name.Name, st.Pos)
}
