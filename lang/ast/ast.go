// Package ast defines the abstract syntax tree produced by the parser and
// consumed by the resolver and compiler. Node positions are recorded as
// token.Pos values; the file/source name they belong to is tracked
// separately by the caller (there is exactly one source per parse).
package ast

import "github.com/mna/wisp/lang/token"

// A Node is any node of the abstract syntax tree.
type Node interface {
	Position() token.Pos
}

// A Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// An Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// A Block is a sequence of statements. Unlike the teacher grammar, a block
// does not by itself introduce a new lexical scope: the language has
// function-level scoping only (module top-level and function bodies), so an
// if/while/for body shares its enclosing function's scope.
type Block struct {
	Stmts []Stmt
}

// Chunk is the root of a parsed module or REPL submission.
type Chunk struct {
	Pos   token.Pos
	Block *Block

	// VarSpec is populated by the resolver: the module scope's classification
	// of every name read, written or declared nonlocal at its top level.
	VarSpec VarSpec
}

func (c *Chunk) Position() token.Pos { return c.Pos }

// Binding is one entry of a VarSpec: a name together with the source
// position of the declaration or first reference that produced it.
type Binding struct {
	Name string
	Pos  token.Pos
}

// VarSpec is the resolver's per-scope classification of every name it saw,
// into three disjoint, ordered groups, per spec.md §3/§4.1.
type VarSpec struct {
	Local []Binding // written in this scope, never captured by a nested scope
	Free  []Binding // referenced here, bound by an enclosing scope or (at module scope) a builtin
	Owned []Binding // written in this scope AND captured by a nested scope (or any module-scope write)
}

// Ident is a bare identifier, either a binding occurrence (assignment
// target, parameter, nonlocal declaration, function/class name) or a use
// occurrence (a read). The language has no block scope, so the compiler
// resolves an Ident purely by name against the enclosing function or
// module's VarSpec; no resolver-time link is needed on the node itself.
type Ident struct {
	Pos  token.Pos
	Name string
}

func (i *Ident) Position() token.Pos { return i.Pos }
func (i *Ident) exprNode()           {}
