package ast

import "github.com/mna/wisp/lang/token"

// AssignStmt assigns the results of evaluating Values (right-to-left source
// order preserved) to Targets. A Target is an *Ident (a write, possibly a
// fresh binding), an *AttrExpr (attribute set) or an *IndexExpr (index set).
type AssignStmt struct {
	Pos     token.Pos
	Targets []Expr
	Values  []Expr
}

func (s *AssignStmt) Position() token.Pos { return s.Pos }
func (s *AssignStmt) stmtNode()           {}

// NonlocalStmt declares that the named variables refer to an enclosing
// function's binding rather than introducing a new local one, per spec.md
// §4.1 resolution rule 1.
type NonlocalStmt struct {
	Pos   token.Pos
	Names []*Ident
}

func (s *NonlocalStmt) Position() token.Pos { return s.Pos }
func (s *NonlocalStmt) stmtNode()           {}

// ExprStmt evaluates an expression and discards its value.
type ExprStmt struct {
	Pos token.Pos
	X   Expr
}

func (s *ExprStmt) Position() token.Pos { return s.Pos }
func (s *ExprStmt) stmtNode()           {}

// IfStmt is `if Cond { Then } else { Else }`. An `elif` is represented as a
// single-statement Else block containing another IfStmt.
type IfStmt struct {
	Pos  token.Pos
	Cond Expr
	Then *Block
	Else *Block // nil if there is no else/elif clause
}

func (s *IfStmt) Position() token.Pos { return s.Pos }
func (s *IfStmt) stmtNode()           {}

// WhileStmt is `while Cond { Body }`.
type WhileStmt struct {
	Pos  token.Pos
	Cond Expr
	Body *Block
}

func (s *WhileStmt) Position() token.Pos { return s.Pos }
func (s *WhileStmt) stmtNode()           {}

// ForInStmt is `for Vars... in Iter { Body }`.
type ForInStmt struct {
	Pos  token.Pos
	Vars []*Ident
	Iter Expr
	Body *Block
}

func (s *ForInStmt) Position() token.Pos { return s.Pos }
func (s *ForInStmt) stmtNode()           {}

// BreakStmt and ContinueStmt are the usual loop-control statements.
type BreakStmt struct{ Pos token.Pos }

func (s *BreakStmt) Position() token.Pos { return s.Pos }
func (s *BreakStmt) stmtNode()           {}

type ContinueStmt struct{ Pos token.Pos }

func (s *ContinueStmt) Position() token.Pos { return s.Pos }
func (s *ContinueStmt) stmtNode()           {}

// FuncStmt is `def name(params) { body }` or `def* name(params) { body }`
// for a generator; it both declares Name (a write in the enclosing scope)
// and defines Func.
type FuncStmt struct {
	Pos  token.Pos
	Name *Ident
	Func *FuncExpr
}

func (s *FuncStmt) Position() token.Pos { return s.Pos }
func (s *FuncStmt) stmtNode()           {}

// ReturnStmt is `return` or `return X`.
type ReturnStmt struct {
	Pos token.Pos
	X   Expr // nil means return nil
}

func (s *ReturnStmt) Position() token.Pos { return s.Pos }
func (s *ReturnStmt) stmtNode()           {}

// RaiseStmt is `raise X`, constructing a runtime error from X (typically a
// string message) and unwinding the current frame.
type RaiseStmt struct {
	Pos token.Pos
	X   Expr
}

func (s *RaiseStmt) Position() token.Pos { return s.Pos }
func (s *RaiseStmt) stmtNode()           {}

// FieldDecl is one field declaration inside a class body: `[static] name =
// value`.
type FieldDecl struct {
	Pos      token.Pos
	Name     *Ident
	Value    Expr
	IsStatic bool
}

// ClassStmt is `class Name [(Inherits)] { fields and methods }`.
type ClassStmt struct {
	Pos      token.Pos
	Name     *Ident
	Inherits Expr // nil if no base class
	Fields   []*FieldDecl
	Methods  []*FuncStmt
}

func (s *ClassStmt) Position() token.Pos { return s.Pos }
func (s *ClassStmt) stmtNode()           {}

// ImportStmt is `import "dotted.module.path" as alias`; Alias is a write in
// the enclosing scope bound to the imported Module value.
type ImportStmt struct {
	Pos   token.Pos
	Path  string
	Alias *Ident
}

func (s *ImportStmt) Position() token.Pos { return s.Pos }
func (s *ImportStmt) stmtNode()           {}
