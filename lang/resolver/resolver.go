// Package resolver implements the variable-resolution annotator of
// spec.md §4.1: it walks an AST and, for every module and function scope,
// classifies each name the scope's body touches into three disjoint,
// ordered lists (local, free, owned) recorded on the scope's ast.VarSpec.
//
// Unlike the teacher's lang/resolver (a one-pass Starlark-derived
// Local-to-Cell promotion walk), this is a two-phase algorithm: phase one
// accumulates per-scope read/write/nonlocal/nested-free name sets without
// deciding anything; phase two, run when a scope closes, resolves those
// sets into the three final lists per the exact rule order spec.md §4.1
// gives. The teacher's algorithm cannot express spec.md's "owned" category
// (a name both written locally and captured by a nested scope) without
// this two-phase shape, because whether a local is captured is only known
// once every nested function in the scope has been visited.
package resolver

import (
	"github.com/mna/wisp/lang/ast"
	"github.com/mna/wisp/lang/token"
)

type scopeKind uint8

const (
	scopeModule scopeKind = iota
	scopeFunction
)

// scope accumulates the four name->mark maps of spec.md §4.1 for one
// module or function body.
type scope struct {
	kind       scopeKind
	read       map[string]token.Pos
	readOrder  []string
	write      map[string]token.Pos
	writeOrder []string
	nonlocal   map[string]token.Pos
	nlOrder    []string
	nestedFree map[string]token.Pos
	nfOrder    []string
}

func newScope(kind scopeKind) *scope {
	return &scope{
		kind:       kind,
		read:       map[string]token.Pos{},
		write:      map[string]token.Pos{},
		nonlocal:   map[string]token.Pos{},
		nestedFree: map[string]token.Pos{},
	}
}

func (s *scope) addRead(name string, pos token.Pos) {
	if _, ok := s.read[name]; !ok {
		s.read[name] = pos
		s.readOrder = append(s.readOrder, name)
	}
}

func (s *scope) addWrite(name string, pos token.Pos) {
	if _, ok := s.write[name]; !ok {
		s.write[name] = pos
		s.writeOrder = append(s.writeOrder, name)
	}
}

func (s *scope) addNonlocal(name string, pos token.Pos) {
	if _, ok := s.nonlocal[name]; !ok {
		s.nonlocal[name] = pos
		s.nlOrder = append(s.nlOrder, name)
	}
}

func (s *scope) addNestedFree(name string, pos token.Pos) {
	if _, ok := s.nestedFree[name]; !ok {
		s.nestedFree[name] = pos
		s.nfOrder = append(s.nfOrder, name)
	}
}

// resolve applies spec.md §4.1's three-step resolution rule, returning the
// scope's VarSpec and its own free set (used by the enclosing scope to
// populate nested_free).
func (s *scope) resolve() ast.VarSpec {
	var spec ast.VarSpec

	// Step 1: every nonlocal name is removed from read/write/nested_free and
	// emitted as free.
	for _, name := range s.nlOrder {
		pos := s.nonlocal[name]
		spec.Free = append(spec.Free, ast.Binding{Name: name, Pos: pos})
		delete(s.read, name)
		delete(s.write, name)
		delete(s.nestedFree, name)
	}

	// Step 2: every remaining write name: if also in nested_free, emit as
	// owned; else local (function) or owned (module).
	accounted := map[string]bool{}
	for _, name := range s.writeOrder {
		if _, isNonlocal := indexOf(s.nlOrder, name); isNonlocal {
			continue
		}
		pos := s.write[name]
		if _, captured := s.nestedFree[name]; captured {
			spec.Owned = append(spec.Owned, ast.Binding{Name: name, Pos: pos})
		} else if s.kind == scopeModule {
			spec.Owned = append(spec.Owned, ast.Binding{Name: name, Pos: pos})
		} else {
			spec.Local = append(spec.Local, ast.Binding{Name: name, Pos: pos})
		}
		accounted[name] = true
		delete(s.nestedFree, name)
	}

	// Step 3: every remaining read name is emitted as free; then any
	// nested_free names not otherwise accounted for are appended as free.
	for _, name := range s.readOrder {
		if accounted[name] {
			continue
		}
		if _, isNonlocal := indexOf(s.nlOrder, name); isNonlocal {
			continue
		}
		pos := s.read[name]
		spec.Free = append(spec.Free, ast.Binding{Name: name, Pos: pos})
		accounted[name] = true
		delete(s.nestedFree, name)
	}
	for _, name := range s.nfOrder {
		if accounted[name] {
			continue
		}
		if _, isNonlocal := indexOf(s.nlOrder, name); isNonlocal {
			continue
		}
		pos, ok := s.nestedFree[name]
		if !ok {
			continue
		}
		spec.Free = append(spec.Free, ast.Binding{Name: name, Pos: pos})
		accounted[name] = true
	}

	return spec
}

func indexOf(names []string, name string) (int, bool) {
	for i, n := range names {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// freeNames returns the scope's own free-set names in VarSpec order, used
// by the parent scope to seed its nested_free map; spec is the scope's
// already-resolved VarSpec.
func freeNames(spec ast.VarSpec) []ast.Binding { return spec.Free }

// r walks an AST accumulating scope name sets.
type r struct {
	scopes []*scope
}

func (res *r) top() *scope { return res.scopes[len(res.scopes)-1] }

func (res *r) push(kind scopeKind) {
	res.scopes = append(res.scopes, newScope(kind))
}

func (res *r) pop() ast.VarSpec {
	s := res.top()
	res.scopes = res.scopes[:len(res.scopes)-1]
	spec := s.resolve()
	if len(res.scopes) > 0 {
		parent := res.top()
		for _, b := range freeNames(spec) {
			parent.addNestedFree(b.Name, b.Pos)
		}
	}
	return spec
}

// Resolve annotates chunk's module scope and every nested function scope
// with their VarSpec, per spec.md §4.1.
func Resolve(chunk *ast.Chunk) {
	res := &r{}
	res.push(scopeModule)
	res.block(chunk.Block)
	chunk.VarSpec = res.pop()
}

func (res *r) block(b *ast.Block) {
	for _, st := range b.Stmts {
		res.stmt(st)
	}
}

func (res *r) stmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.AssignStmt:
		for _, v := range st.Values {
			res.expr(v)
		}
		for _, t := range st.Targets {
			res.assignTarget(t)
		}
	case *ast.NonlocalStmt:
		for _, id := range st.Names {
			res.top().addNonlocal(id.Name, id.Pos)
		}
	case *ast.ExprStmt:
		res.expr(st.X)
	case *ast.IfStmt:
		res.expr(st.Cond)
		res.block(st.Then)
		if st.Else != nil {
			res.block(st.Else)
		}
	case *ast.WhileStmt:
		res.expr(st.Cond)
		res.block(st.Body)
	case *ast.ForInStmt:
		res.expr(st.Iter)
		for _, v := range st.Vars {
			res.top().addWrite(v.Name, v.Pos)
		}
		res.block(st.Body)
	case *ast.BreakStmt, *ast.ContinueStmt:
		// no names
	case *ast.FuncStmt:
		res.top().addWrite(st.Name.Name, st.Name.Pos)
		res.funcExpr(st.Func)
	case *ast.ReturnStmt:
		if st.X != nil {
			res.expr(st.X)
		}
	case *ast.RaiseStmt:
		res.expr(st.X)
	case *ast.ClassStmt:
		res.top().addWrite(st.Name.Name, st.Name.Pos)
		if st.Inherits != nil {
			res.expr(st.Inherits)
		}
		for _, f := range st.Fields {
			res.expr(f.Value)
		}
		for _, m := range st.Methods {
			res.funcExpr(m.Func)
		}
	case *ast.ImportStmt:
		res.top().addWrite(st.Alias.Name, st.Alias.Pos)
	default:
		panic("resolver: unhandled statement type")
	}
}

// assignTarget records the write (for an Ident target) or walks the
// sub-expressions of an attribute/index target, whose base and index are
// reads.
func (res *r) assignTarget(e ast.Expr) {
	switch t := ast.Unwrap(e).(type) {
	case *ast.Ident:
		res.top().addWrite(t.Name, t.Pos)
	case *ast.AttrExpr:
		res.expr(t.X)
	case *ast.IndexExpr:
		res.expr(t.X)
		res.expr(t.Index)
	}
}

func (res *r) funcExpr(fe *ast.FuncExpr) {
	res.push(scopeFunction)
	params := make(map[string]bool, len(fe.Params))
	for _, p := range fe.Params {
		res.top().addWrite(p.Name.Name, p.Name.Pos)
		params[p.Name.Name] = true
	}
	res.block(fe.Body)
	// A non-parameter name written here that an enclosing scope also writes
	// refers to that enclosing binding, exactly as if declared nonlocal.
	s := res.top()
	for _, name := range s.writeOrder {
		for _, outer := range res.scopes[:len(res.scopes)-1] {
			if _, ok := outer.write[name]; ok && !params[name] {
				s.addNonlocal(name, s.write[name])
				break
			}
		}
	}
	fe.VarSpec = res.pop()
}

func (res *r) expr(e ast.Expr) {
	switch x := e.(type) {
	case *ast.LiteralExpr:
	case *ast.Ident:
		res.top().addRead(x.Name, x.Pos)
	case *ast.ListExpr:
		for _, el := range x.Elems {
			res.expr(el)
		}
	case *ast.MapExpr:
		for i := range x.Keys {
			res.expr(x.Keys[i])
			res.expr(x.Values[i])
		}
	case *ast.UnaryExpr:
		res.expr(x.X)
	case *ast.BinaryExpr:
		res.expr(x.X)
		res.expr(x.Y)
	case *ast.LogicalExpr:
		res.expr(x.X)
		res.expr(x.Y)
	case *ast.CallExpr:
		res.expr(x.Fn)
		for _, a := range x.Args {
			res.expr(a)
		}
		for _, v := range x.KwValues {
			res.expr(v)
		}
	case *ast.MethodCallExpr:
		res.expr(x.Receiver)
		for _, a := range x.Args {
			res.expr(a)
		}
		for _, v := range x.KwValues {
			res.expr(v)
		}
	case *ast.AttrExpr:
		res.expr(x.X)
	case *ast.IndexExpr:
		res.expr(x.X)
		res.expr(x.Index)
	case *ast.FuncExpr:
		res.funcExpr(x)
	case *ast.YieldExpr:
		if x.X != nil {
			res.expr(x.X)
		}
	case *ast.ParenExpr:
		res.expr(x.X)
	default:
		panic("resolver: unhandled expression type")
	}
}
