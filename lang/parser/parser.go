// Package parser implements a recursive-descent parser producing the AST
// consumed by the resolver and compiler. Per spec.md §1 the concrete
// surface grammar is treated as a mechanical external collaborator; this
// implementation is deliberately small, covering exactly the constructs
// named in spec.md (closures, generators, classes, modules, nonlocal,
// control flow, imports) rather than attempting a general-purpose language
// design.
package parser

import (
	"github.com/mna/wisp/lang/ast"
	"github.com/mna/wisp/lang/scanner"
	"github.com/mna/wisp/lang/token"
)

// ParseChunk scans and parses source (identified as name in diagnostics)
// into a Chunk ready for the resolver. The returned error, if non-nil, is a
// scanner.ErrorList-backed aggregate error.
func ParseChunk(name string, source []byte) (*ast.Chunk, error) {
	sc := scanner.New(name, source)
	toks, err := sc.Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{source: name, toks: toks}
	block := p.parseStmtsUntil(token.EOF)
	if len(p.errors) > 0 {
		return nil, p.errors.Err()
	}
	return &ast.Chunk{Pos: pos0(toks), Block: block}, nil
}

func pos0(toks []scanner.Token) token.Pos {
	if len(toks) == 0 {
		return 0
	}
	return toks[0].Pos
}

type parser struct {
	source string
	toks   []scanner.Token
	i      int
	errors scanner.ErrorList
}

func (p *parser) errorf(pos token.Pos, format string, args ...interface{}) {
	p.errors.Add(p.source, pos, format, args...)
}

func (p *parser) cur() scanner.Token  { return p.toks[p.i] }
func (p *parser) kind() token.Token   { return p.toks[p.i].Kind }
func (p *parser) pos() token.Pos      { return p.toks[p.i].Pos }
func (p *parser) advance() scanner.Token {
	t := p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return t
}

func (p *parser) at(k token.Token) bool { return p.kind() == k }

func (p *parser) expect(k token.Token) scanner.Token {
	if !p.at(k) {
		p.errorf(p.pos(), "expected %s, got %s", k.GoString(), p.kind().GoString())
		return p.cur()
	}
	return p.advance()
}

func (p *parser) skipSemis() {
	for p.at(token.SEMI) {
		p.advance()
	}
}

// parseStmtsUntil parses statements until the current token is `until` (not
// consumed) or EOF.
func (p *parser) parseStmtsUntil(until token.Token) *ast.Block {
	b := &ast.Block{}
	p.skipSemis()
	for !p.at(until) && !p.at(token.EOF) {
		s := p.parseStmt()
		if s != nil {
			b.Stmts = append(b.Stmts, s)
		}
		p.skipSemis()
	}
	return b
}

func (p *parser) parseBlock() *ast.Block {
	p.expect(token.LBRACE)
	b := p.parseStmtsUntil(token.RBRACE)
	p.expect(token.RBRACE)
	return b
}

func (p *parser) parseStmt() ast.Stmt {
	switch p.kind() {
	case token.NONLOCAL:
		return p.parseNonlocal()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseForIn()
	case token.BREAK:
		pos := p.pos()
		p.advance()
		return &ast.BreakStmt{Pos: pos}
	case token.CONTINUE:
		pos := p.pos()
		p.advance()
		return &ast.ContinueStmt{Pos: pos}
	case token.DEF:
		return p.parseFuncStmt()
	case token.RETURN:
		return p.parseReturn()
	case token.CLASS:
		return p.parseClass()
	case token.IMPORT:
		return p.parseImport()
	case token.RAISE:
		return p.parseRaise()
	default:
		return p.parseSimpleStmt()
	}
}

func (p *parser) parseRaise() ast.Stmt {
	pos := p.pos()
	p.advance() // raise
	x := p.parseExpr()
	return &ast.RaiseStmt{Pos: pos, X: x}
}

func (p *parser) parseNonlocal() ast.Stmt {
	pos := p.pos()
	p.advance()
	names := []*ast.Ident{p.parseIdent()}
	for p.at(token.COMMA) {
		p.advance()
		names = append(names, p.parseIdent())
	}
	return &ast.NonlocalStmt{Pos: pos, Names: names}
}

func (p *parser) parseIdent() *ast.Ident {
	pos := p.pos()
	tk := p.expect(token.IDENT)
	return &ast.Ident{Pos: pos, Name: tk.Lit}
}

func (p *parser) parseIf() ast.Stmt {
	pos := p.pos()
	p.advance() // if
	cond := p.parseExpr()
	then := p.parseBlock()
	st := &ast.IfStmt{Pos: pos, Cond: cond, Then: then}
	if p.at(token.ELIF) {
		elifPos := p.pos()
		elif := p.parseIfAsElif(elifPos)
		st.Else = &ast.Block{Stmts: []ast.Stmt{elif}}
	} else if p.at(token.ELSE) {
		p.advance()
		st.Else = p.parseBlock()
	}
	return st
}

// parseIfAsElif parses `elif cond { } ...` as a nested IfStmt, consuming
// the leading ELIF token itself (which has the same shape as IF).
func (p *parser) parseIfAsElif(pos token.Pos) ast.Stmt {
	p.advance() // elif
	cond := p.parseExpr()
	then := p.parseBlock()
	st := &ast.IfStmt{Pos: pos, Cond: cond, Then: then}
	if p.at(token.ELIF) {
		elif := p.parseIfAsElif(p.pos())
		st.Else = &ast.Block{Stmts: []ast.Stmt{elif}}
	} else if p.at(token.ELSE) {
		p.advance()
		st.Else = p.parseBlock()
	}
	return st
}

func (p *parser) parseWhile() ast.Stmt {
	pos := p.pos()
	p.advance()
	cond := p.parseExpr()
	body := p.parseBlock()
	return &ast.WhileStmt{Pos: pos, Cond: cond, Body: body}
}

func (p *parser) parseForIn() ast.Stmt {
	pos := p.pos()
	p.advance()
	vars := []*ast.Ident{p.parseIdent()}
	for p.at(token.COMMA) {
		p.advance()
		vars = append(vars, p.parseIdent())
	}
	p.expect(token.IN)
	iter := p.parseExpr()
	body := p.parseBlock()
	return &ast.ForInStmt{Pos: pos, Vars: vars, Iter: iter, Body: body}
}

func (p *parser) parseFuncStmt() *ast.FuncStmt {
	pos := p.pos()
	p.advance() // def
	isGen := false
	if p.at(token.STAR) {
		isGen = true
		p.advance()
	}
	name := p.parseIdent()
	fn := p.parseFuncTail(pos, isGen)
	return &ast.FuncStmt{Pos: pos, Name: name, Func: fn}
}

// parseFuncTail parses the parameter list and `{ stmts }` body shared by
// `def` statements and anonymous function expressions. Parameters are
// `name`, `name=literal` (a compile-time constant default) or `*name` (the
// variadic tail, which must be last).
func (p *parser) parseFuncTail(pos token.Pos, isGen bool) *ast.FuncExpr {
	p.expect(token.LPAREN)
	var params []*ast.Param
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		if p.at(token.STAR) {
			p.advance()
			name := p.parseIdent()
			params = append(params, &ast.Param{Name: name, Variadic: true})
			break
		}
		name := p.parseIdent()
		param := &ast.Param{Name: name}
		if p.at(token.EQ) {
			p.advance()
			param.Default = p.parseConstLiteral()
		}
		params = append(params, param)
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.FuncExpr{Pos: pos, Params: params, IsGenerator: isGen, Body: body}
}

// parseConstLiteral parses a parameter default, restricted to a literal
// (spec.md §4.4 names these "compile-time constant defaults").
func (p *parser) parseConstLiteral() *ast.LiteralExpr {
	e := p.parsePrimary()
	lit, ok := e.(*ast.LiteralExpr)
	if !ok {
		p.errorf(e.Position(), "parameter default must be a literal")
		return &ast.LiteralExpr{Pos: e.Position(), Kind: ast.NilLit}
	}
	return lit
}

func (p *parser) parseReturn() ast.Stmt {
	pos := p.pos()
	p.advance()
	if p.at(token.SEMI) || p.at(token.RBRACE) || p.at(token.EOF) {
		return &ast.ReturnStmt{Pos: pos}
	}
	x := p.parseExpr()
	return &ast.ReturnStmt{Pos: pos, X: x}
}

func (p *parser) parseClass() ast.Stmt {
	pos := p.pos()
	p.advance() // class
	name := p.parseIdent()

	st := &ast.ClassStmt{Pos: pos, Name: name}
	if p.at(token.LPAREN) {
		p.advance()
		st.Inherits = p.parseExpr()
		p.expect(token.RPAREN)
	}

	p.expect(token.LBRACE)
	p.skipSemis()
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		isStatic := false
		if p.at(token.STATIC) {
			isStatic = true
			p.advance()
		}
		if p.at(token.DEF) {
			m := p.parseFuncStmt()
			if isStatic {
				// A static method is represented as a field holding a function
				// value, since the static member map (spec.md §3) holds values,
				// not a separate method table.
				st.Fields = append(st.Fields, &ast.FieldDecl{Pos: m.Pos, Name: m.Name, Value: m.Func, IsStatic: true})
			} else {
				st.Methods = append(st.Methods, m)
			}
		} else {
			fname := p.parseIdent()
			p.expect(token.EQ)
			val := p.parseExpr()
			st.Fields = append(st.Fields, &ast.FieldDecl{Pos: fname.Pos, Name: fname, Value: val, IsStatic: isStatic})
		}
		p.skipSemis()
	}
	p.expect(token.RBRACE)
	return st
}

func (p *parser) parseImport() ast.Stmt {
	pos := p.pos()
	p.advance() // import
	pathTok := p.expect(token.STRING)
	p.expect(token.AS)
	alias := p.parseIdent()
	return &ast.ImportStmt{Pos: pos, Path: pathTok.Lit, Alias: alias}
}

// parseSimpleStmt parses an assignment or a bare expression statement.
func (p *parser) parseSimpleStmt() ast.Stmt {
	pos := p.pos()
	first := p.parseExpr()
	if !p.at(token.COMMA) && !p.at(token.EQ) {
		return &ast.ExprStmt{Pos: pos, X: first}
	}

	targets := []ast.Expr{first}
	for p.at(token.COMMA) {
		p.advance()
		targets = append(targets, p.parseExpr())
	}
	p.expect(token.EQ)
	values := []ast.Expr{p.parseExpr()}
	for p.at(token.COMMA) {
		p.advance()
		values = append(values, p.parseExpr())
	}
	for _, t := range targets {
		if !isAssignable(t) {
			p.errorf(t.Position(), "invalid assignment target")
		}
	}
	return &ast.AssignStmt{Pos: pos, Targets: targets, Values: values}
}

func isAssignable(e ast.Expr) bool {
	switch ast.Unwrap(e).(type) {
	case *ast.Ident, *ast.AttrExpr, *ast.IndexExpr:
		return true
	default:
		return false
	}
}

func unexpected(p *parser) ast.Expr {
	p.errorf(p.pos(), "unexpected token %s", p.kind().GoString())
	p.advance()
	return &ast.LiteralExpr{Kind: ast.NilLit}
}
