package parser

import (
	"strconv"

	"github.com/mna/wisp/lang/ast"
	"github.com/mna/wisp/lang/token"
)

// parseExpr parses a full expression at the lowest precedence (logical or).
func (p *parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *parser) parseOr() ast.Expr {
	x := p.parseAnd()
	for p.at(token.OR) {
		pos := p.pos()
		p.advance()
		y := p.parseAnd()
		x = &ast.LogicalExpr{Pos: pos, Op: token.OR, X: x, Y: y}
	}
	return x
}

func (p *parser) parseAnd() ast.Expr {
	x := p.parseNot()
	for p.at(token.AND) {
		pos := p.pos()
		p.advance()
		y := p.parseNot()
		x = &ast.LogicalExpr{Pos: pos, Op: token.AND, X: x, Y: y}
	}
	return x
}

func (p *parser) parseNot() ast.Expr {
	if p.at(token.NOT) {
		pos := p.pos()
		p.advance()
		x := p.parseNot()
		return &ast.UnaryExpr{Pos: pos, Op: token.NOT, X: x}
	}
	return p.parseComparison()
}

var comparisonOps = map[token.Token]bool{
	token.LT: true, token.GT: true, token.GE: true, token.LE: true,
	token.EQL: true, token.NEQ: true,
}

func (p *parser) parseComparison() ast.Expr {
	x := p.parseAdditive()
	for comparisonOps[p.kind()] {
		op := p.kind()
		pos := p.pos()
		p.advance()
		y := p.parseAdditive()
		x = &ast.BinaryExpr{Pos: pos, Op: op, X: x, Y: y}
	}
	return x
}

func (p *parser) parseAdditive() ast.Expr {
	x := p.parseMultiplicative()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := p.kind()
		pos := p.pos()
		p.advance()
		y := p.parseMultiplicative()
		x = &ast.BinaryExpr{Pos: pos, Op: op, X: x, Y: y}
	}
	return x
}

func (p *parser) parseMultiplicative() ast.Expr {
	x := p.parseUnary()
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		op := p.kind()
		pos := p.pos()
		p.advance()
		y := p.parseUnary()
		x = &ast.BinaryExpr{Pos: pos, Op: op, X: x, Y: y}
	}
	return x
}

func (p *parser) parseUnary() ast.Expr {
	if p.at(token.MINUS) {
		pos := p.pos()
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Pos: pos, Op: token.MINUS, X: x}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.kind() {
		case token.DOT:
			pos := p.pos()
			p.advance()
			name := p.expect(token.IDENT)
			if p.at(token.LPAREN) {
				args, kwNames, kwValues := p.parseArgs()
				x = &ast.MethodCallExpr{Pos: pos, Receiver: x, Name: name.Lit, Args: args, KwNames: kwNames, KwValues: kwValues}
			} else {
				x = &ast.AttrExpr{Pos: pos, X: x, Name: name.Lit}
			}
		case token.LBRACK:
			pos := p.pos()
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBRACK)
			x = &ast.IndexExpr{Pos: pos, X: x, Index: idx}
		case token.LPAREN:
			pos := p.pos()
			args, kwNames, kwValues := p.parseArgs()
			x = &ast.CallExpr{Pos: pos, Fn: x, Args: args, KwNames: kwNames, KwValues: kwValues}
		default:
			return x
		}
	}
}

// parseArgs parses `(arg, arg, name=arg, ...)`, consuming the leading
// LPAREN already confirmed present by the caller. Keyword arguments must
// follow all positional arguments, mirroring call-site ordering rules
// shared across the pack's interpreters (e.g. starlark's call syntax).
func (p *parser) parseArgs() (args []ast.Expr, kwNames []string, kwValues []ast.Expr) {
	p.expect(token.LPAREN)
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		if p.at(token.IDENT) && p.toks[p.i+1].Kind == token.EQ {
			name := p.advance()
			p.advance() // =
			val := p.parseExpr()
			kwNames = append(kwNames, name.Lit)
			kwValues = append(kwValues, val)
		} else {
			if len(kwNames) > 0 {
				p.errorf(p.pos(), "positional argument follows keyword argument")
			}
			args = append(args, p.parseExpr())
		}
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return args, kwNames, kwValues
}

func (p *parser) parsePrimary() ast.Expr {
	pos := p.pos()
	switch p.kind() {
	case token.NIL:
		p.advance()
		return &ast.LiteralExpr{Pos: pos, Kind: ast.NilLit}
	case token.TRUE:
		p.advance()
		return &ast.LiteralExpr{Pos: pos, Kind: ast.TrueLit}
	case token.FALSE:
		p.advance()
		return &ast.LiteralExpr{Pos: pos, Kind: ast.FalseLit}
	case token.FLOAT:
		tk := p.advance()
		v, _ := strconv.ParseFloat(tk.Lit, 64)
		return &ast.LiteralExpr{Pos: pos, Kind: ast.NumberLit, Number: v}
	case token.STRING:
		tk := p.advance()
		return &ast.LiteralExpr{Pos: pos, Kind: ast.StringLit, String: tk.Lit}
	case token.IDENT:
		return p.parseIdent()
	case token.LPAREN:
		p.advance()
		x := p.parseExpr()
		p.expect(token.RPAREN)
		return &ast.ParenExpr{Pos: pos, X: x}
	case token.LBRACK:
		return p.parseListExpr()
	case token.LBRACE:
		return p.parseMapExpr()
	case token.DEF:
		return p.parseFuncExpr()
	case token.YIELD:
		p.advance()
		if p.canStartExpr() {
			x := p.parseExpr()
			return &ast.YieldExpr{Pos: pos, X: x}
		}
		return &ast.YieldExpr{Pos: pos}
	default:
		return unexpected(p)
	}
}

// canStartExpr reports whether the current token can begin an expression,
// used to distinguish a bare `yield` from `yield <expr>`.
func (p *parser) canStartExpr() bool {
	switch p.kind() {
	case token.SEMI, token.RBRACE, token.RPAREN, token.RBRACK, token.COMMA, token.EOF:
		return false
	default:
		return true
	}
}

func (p *parser) parseListExpr() ast.Expr {
	pos := p.pos()
	p.advance() // [
	l := &ast.ListExpr{Pos: pos}
	for !p.at(token.RBRACK) && !p.at(token.EOF) {
		l.Elems = append(l.Elems, p.parseExpr())
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACK)
	return l
}

func (p *parser) parseMapExpr() ast.Expr {
	pos := p.pos()
	p.advance() // {
	m := &ast.MapExpr{Pos: pos}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		k := p.parseExpr()
		p.expect(token.COLON)
		v := p.parseExpr()
		m.Keys = append(m.Keys, k)
		m.Values = append(m.Values, v)
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	return m
}

func (p *parser) parseFuncExpr() ast.Expr {
	pos := p.pos()
	p.advance() // def
	isGen := false
	if p.at(token.STAR) {
		isGen = true
		p.advance()
	}
	return p.parseFuncTail(pos, isGen)
}
