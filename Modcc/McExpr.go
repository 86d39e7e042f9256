/*
** Copyright (C) 2025 Rochus Keller (me@rochus-keller.ch)
**
** This file is part of the modcc-go project.
**
**
** GNU Lesser General Public License Usage
** This file may be used under the terms of the GNU Lesser
** General Public License version 2.1 or version 3 as published by the Free
** Software Foundation and appearing in the file LICENSE.LGPLv21 and
** LICENSE.LGPLv3 included in the packaging of this file. Please review the
** following information to ensure the GNU Lesser General Public License
** requirements will be met: https://www.gnu.org/licenses/lgpl.html and
** http://www.gnu.org/licenses/old-licenses/lgpl-2.1.html.
*/

package Modcc

import (
	"fmt"
	"strconv"
)

type opInfo struct {
	prec  int
	right bool
}

// binaryOps is the precedence table of the expression engine, loosest first.
var binaryOps = map[TokenType]opInfo{
	TokOr:    {1, false},
	TokAnd:   {2, false},
	TokEqEq:  {3, false},
	TokNeq:   {3, false},
	TokLt:    {4, false},
	TokLeq:   {4, false},
	TokGt:    {4, false},
	TokGeq:   {4, false},
	TokPlus:  {5, false},
	TokMinus: {5, false},
	TokStar:  {6, false},
	TokSlash: {6, false},
	TokHat:   {7, true},
}

func firstExpression(tt TokenType) bool {
	switch tt {
	case TokIdent, TokInteger, TokReal, TokLpar, TokPlus, TokMinus, TokNot, TokMIN, TokMAX:
		return true
	}
	return TokenTypeIsIntrinsic(tt)
}

func (p *Parser) ParseExpression() (Expr, error) {
	mark := p.nfail
	n := p.expression(0)
	return result(p, n, mark)
}

func (p *Parser) ParseUnaryOp() (Expr, error) {
	mark := p.nfail
	n := p.unaryop()
	return result(p, n, mark)
}

func (p *Parser) ParseParenthesisExpression() (Expr, error) {
	mark := p.nfail
	n := p.parenthesis()
	return result(p, n, mark)
}

// ParseLineExpression reads an assignment `name = expr` or a procedure call
// standing on its own.
func (p *Parser) ParseLineExpression() (Expr, error) {
	mark := p.nfail
	n := p.lineExpression()
	return result(p, n, mark)
}

// expression implements precedence climbing: operands are unary
// expressions, operators of at least minPrec are folded into lhs.
func (p *Parser) expression(minPrec int) Expr {
	lhs := p.unaryop()
	if lhs == nil {
		return nil
	}
	for {
		op, ok := binaryOps[p.la.Type]
		if !ok || op.prec < minPrec {
			break
		}
		opTok := p.la
		p.next()
		nextMin := op.prec + 1
		if op.right {
			nextMin = op.prec
		}
		rhs := p.expression(nextMin)
		if rhs == nil {
			return nil
		}
		lhs = &BinaryExpr{node: node{opTok.ToRowCol()}, Op: opTok.Type, Lhs: lhs, Rhs: rhs}
	}
	if p.la.Type == TokEq {
		p.errorTok(p.la, "assignment is not allowed inside an expression")
		return nil
	}
	return lhs
}

func (p *Parser) unaryop() Expr {
	switch tt := p.la.Type; {
	case tt == TokPlus || tt == TokMinus || tt == TokNot:
		pos := p.la.ToRowCol()
		p.next()
		e := p.unaryop()
		if e == nil {
			return nil
		}
		return &UnaryExpr{node: node{pos}, Op: tt, Operand: e}
	case TokenTypeIsIntrinsic(tt):
		pos := p.la.ToRowCol()
		where := TokenTypeString(tt)
		p.next()
		if !p.expect(TokLpar, where) {
			return nil
		}
		e := p.expression(0)
		if e == nil || !p.expect(TokRpar, where) {
			return nil
		}
		return &UnaryExpr{node: node{pos}, Op: tt, Operand: e}
	}
	return p.primary()
}

func (p *Parser) primary() Expr {
	t := p.la
	switch t.Type {
	case TokInteger:
		p.next()
		v, err := strconv.ParseInt(t.Text(), 10, 64)
		if err != nil {
			p.error(LexicalError, fmt.Sprintf("invalid integer literal '%s'", t.Text()), t.ToRowCol())
			return nil
		}
		return &IntegerExpr{node: node{t.ToRowCol()}, Value: v}
	case TokReal:
		p.next()
		v, err := strconv.ParseFloat(t.Text(), 64)
		if err != nil {
			p.error(LexicalError, fmt.Sprintf("invalid real literal '%s'", t.Text()), t.ToRowCol())
			return nil
		}
		return &RealExpr{node: node{t.ToRowCol()}, Value: v}
	case TokIdent:
		p.next()
		if p.la.Type == TokLpar {
			if c := p.call(t); c != nil {
				return c
			}
			return nil
		}
		return &IdentifierExpr{node: node{t.ToRowCol()}, Name: t.Text()}
	case TokLpar:
		return p.parenthesis()
	case TokMIN, TokMAX:
		p.next()
		where := TokenTypeString(t.Type)
		if !p.expect(TokLpar, where) {
			return nil
		}
		lhs := p.expression(0)
		if lhs == nil || !p.expect(TokComma, where) {
			return nil
		}
		rhs := p.expression(0)
		if rhs == nil || !p.expect(TokRpar, where) {
			return nil
		}
		return &BinaryExpr{node: node{t.ToRowCol()}, Op: t.Type, Lhs: lhs, Rhs: rhs}
	}
	p.unexpected("expression")
	return nil
}

func (p *Parser) parenthesis() Expr {
	if !p.expect(TokLpar, "parenthesis expression") {
		return nil
	}
	e := p.expression(0)
	if e == nil || !p.expect(TokRpar, "parenthesis expression") {
		return nil
	}
	return e
}

// call reads the argument list of callee, the current token.
func (p *Parser) call(callee Token) *CallExpr {
	if !p.expect(TokLpar, "call") {
		return nil
	}
	c := &CallExpr{node: node{callee.ToRowCol()}, Callee: callee.Text()}
	if p.la.Type == TokRpar {
		p.next()
		return c
	}
	for {
		a := p.expression(0)
		if a == nil {
			return nil
		}
		c.Args = append(c.Args, a)
		if p.la.Type != TokComma {
			break
		}
		p.next()
	}
	if !p.expect(TokRpar, "call") {
		return nil
	}
	return c
}

func (p *Parser) lineExpression() Expr {
	if !p.expect(TokIdent, "line expression") {
		return nil
	}
	id := p.cur
	if p.la.Type == TokLpar {
		c := p.call(id)
		if c == nil {
			return nil
		}
		if p.la.LineNr == p.cur.LineNr && p.la.Type != TokRbrace && p.la.Type != TokEof {
			p.unexpected("procedure call")
			return nil
		}
		return c
	}
	if !p.expect(TokEq, "line expression") {
		return nil
	}
	pos := p.cur.ToRowCol()
	rhs := p.expression(0)
	if rhs == nil {
		return nil
	}
	lhs := &IdentifierExpr{node: node{id.ToRowCol()}, Name: id.Text()}
	return &AssignmentExpr{node: node{pos}, Lhs: lhs, Rhs: rhs}
}
