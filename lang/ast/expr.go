package ast

import "github.com/mna/wisp/lang/token"

// LiteralKind distinguishes the immediate-atom literals from each other;
// Number and String additionally carry a Value.
type LiteralKind uint8

const (
	NilLit LiteralKind = iota
	TrueLit
	FalseLit
	NumberLit
	StringLit
)

// LiteralExpr is a nil/bool/number/string literal.
type LiteralExpr struct {
	Pos    token.Pos
	Kind   LiteralKind
	Number float64
	String string
}

func (e *LiteralExpr) Position() token.Pos { return e.Pos }
func (e *LiteralExpr) exprNode()           {}

// ListExpr is a list literal: [e1, e2, ...].
type ListExpr struct {
	Pos   token.Pos
	Elems []Expr
}

func (e *ListExpr) Position() token.Pos { return e.Pos }
func (e *ListExpr) exprNode()           {}

// MapExpr is a map literal: {k1: v1, k2: v2, ...}.
type MapExpr struct {
	Pos    token.Pos
	Keys   []Expr
	Values []Expr
}

func (e *MapExpr) Position() token.Pos { return e.Pos }
func (e *MapExpr) exprNode()           {}

// UnaryExpr is a unary operator application: -x, not x.
type UnaryExpr struct {
	Pos token.Pos
	Op  token.Token
	X   Expr
}

func (e *UnaryExpr) Position() token.Pos { return e.Pos }
func (e *UnaryExpr) exprNode()           {}

// BinaryExpr is a binary arithmetic or comparison operator application.
// Logical "and"/"or" are represented separately (LogicalExpr) because they
// short-circuit and so compile to branches rather than a single opcode.
type BinaryExpr struct {
	Pos  token.Pos
	Op   token.Token
	X, Y Expr
}

func (e *BinaryExpr) Position() token.Pos { return e.Pos }
func (e *BinaryExpr) exprNode()           {}

// LogicalExpr is a short-circuiting "and"/"or" expression.
type LogicalExpr struct {
	Pos  token.Pos
	Op   token.Token // AND or OR
	X, Y Expr
}

func (e *LogicalExpr) Position() token.Pos { return e.Pos }
func (e *LogicalExpr) exprNode()           {}

// CallExpr is a function call, with optional trailing keyword arguments.
type CallExpr struct {
	Pos      token.Pos
	Fn       Expr
	Args     []Expr
	KwNames  []string
	KwValues []Expr
}

func (e *CallExpr) Position() token.Pos { return e.Pos }
func (e *CallExpr) exprNode()           {}

// MethodCallExpr is receiver.name(args): a fused attr-lookup-and-call,
// compiled to the dedicated method-call opcode per spec.md §4.2.
type MethodCallExpr struct {
	Pos      token.Pos
	Receiver Expr
	Name     string
	Args     []Expr
	KwNames  []string
	KwValues []Expr
}

func (e *MethodCallExpr) Position() token.Pos { return e.Pos }
func (e *MethodCallExpr) exprNode()           {}

// AttrExpr is a dotted attribute read: x.name.
type AttrExpr struct {
	Pos  token.Pos
	X    Expr
	Name string
}

func (e *AttrExpr) Position() token.Pos { return e.Pos }
func (e *AttrExpr) exprNode()           {}

// IndexExpr is a subscript read: x[index].
type IndexExpr struct {
	Pos   token.Pos
	X     Expr
	Index Expr
}

func (e *IndexExpr) Position() token.Pos { return e.Pos }
func (e *IndexExpr) exprNode()           {}

// Param is one parameter of a FuncExpr: a name, an optional compile-time
// constant default (nil if required), and whether it is the variadic
// tail parameter (at most one per parameter list, and it must be last).
type Param struct {
	Name      *Ident
	Default   *LiteralExpr
	Variadic  bool
}

// FuncExpr is a function literal, used both for `def` statements (wrapped
// by FuncStmt) and anonymous function expressions.
type FuncExpr struct {
	Pos         token.Pos
	Params      []*Param
	IsGenerator bool
	Body        *Block

	// VarSpec is populated by the resolver.
	VarSpec VarSpec
}

func (e *FuncExpr) Position() token.Pos { return e.Pos }
func (e *FuncExpr) exprNode()           {}

// YieldExpr suspends the enclosing generator, per spec.md §4.2/§4.4.
type YieldExpr struct {
	Pos token.Pos
	X   Expr // nil means yield nil
}

func (e *YieldExpr) Position() token.Pos { return e.Pos }
func (e *YieldExpr) exprNode()           {}

// ParenExpr is a parenthesized expression, kept only to preserve source
// marks for diagnostics; it compiles as its inner expression.
type ParenExpr struct {
	Pos token.Pos
	X   Expr
}

func (e *ParenExpr) Position() token.Pos { return e.Pos }
func (e *ParenExpr) exprNode()           {}

// Unwrap strips any ParenExpr wrapping, following the teacher's
// ast.Unwrap helper (lang/ast/exprs.go in the teacher repository).
func Unwrap(e Expr) Expr {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}
