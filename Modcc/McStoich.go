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

func firstStoichTerm(tt TokenType) bool {
	return tt == TokMinus || tt == TokInteger || tt == TokReal || tt == TokIdent
}

func (p *Parser) ParseStoichTerm() (*StoichTermExpr, error) {
	mark := p.nfail
	n := p.stoichTerm()
	return result(p, n, mark)
}

func (p *Parser) ParseStoichExpression() (*StoichExpr, error) {
	mark := p.nfail
	n := p.stoichExpression()
	return result(p, n, mark)
}

func (p *Parser) ParseReaction() (*ReactionExpr, error) {
	mark := p.nfail
	n := p.reaction()
	return result(p, n, mark)
}

func (p *Parser) ParseConserve() (*ConserveExpr, error) {
	mark := p.nfail
	n := p.conserve()
	return result(p, n, mark)
}

// stoichTerm reads `[-] [integer] species`. A missing coefficient is 1.
func (p *Parser) stoichTerm() *StoichTermExpr {
	t := &StoichTermExpr{node: node{p.la.ToRowCol()}, Coeff: 1}
	if p.la.Type == TokMinus {
		t.Negative = true
		p.next()
	}
	switch p.la.Type {
	case TokInteger:
		p.next()
		v, err := strconv.ParseInt(p.cur.Text(), 10, 64)
		if err != nil {
			p.error(LexicalError, fmt.Sprintf("invalid integer literal '%s'", p.cur.Text()), p.cur.ToRowCol())
			return nil
		}
		t.Coeff = v
	case TokReal:
		p.errorTok(p.la, "stoichiometric coefficient must be an integer")
		return nil
	}
	if !p.expect(TokIdent, "stoichiometric term") {
		return nil
	}
	t.Species = &IdentifierExpr{node: node{p.cur.ToRowCol()}, Name: p.cur.Text()}
	return t
}

// stoichExpression reads terms joined by + or -; a minus is the sign of the
// following term. No term at all is a valid, empty expression.
func (p *Parser) stoichExpression() *StoichExpr {
	e := &StoichExpr{node: node{p.la.ToRowCol()}}
	if !firstStoichTerm(p.la.Type) {
		return e
	}
	for {
		t := p.stoichTerm()
		if t == nil {
			return nil
		}
		e.Terms = append(e.Terms, t)
		if p.la.Type == TokPlus {
			p.next()
		} else if p.la.Type != TokMinus {
			break
		}
	}
	return e
}

// reaction reads `~ lhs <-> rhs ( fwd , rev )`.
func (p *Parser) reaction() *ReactionExpr {
	pos := p.la.ToRowCol()
	if !p.expect(TokTilde, "reaction") {
		return nil
	}
	lhs := p.stoichExpression()
	if lhs == nil || !p.positiveSide(lhs) || !p.expect(TokArrow, "reaction") {
		return nil
	}
	rhs := p.stoichExpression()
	if rhs == nil || !p.positiveSide(rhs) || !p.expect(TokLpar, "reaction") {
		return nil
	}
	fwd := p.expression(0)
	if fwd == nil || !p.expect(TokComma, "reaction") {
		return nil
	}
	rev := p.expression(0)
	if rev == nil {
		return nil
	}
	if p.la.Type == TokComma {
		p.errorTok(p.la, "a reaction takes exactly two rate expressions")
		return nil
	}
	if !p.expect(TokRpar, "reaction") {
		return nil
	}
	return &ReactionExpr{node: node{pos}, Lhs: lhs, Rhs: rhs, Fwd: fwd, Rev: rev}
}

func (p *Parser) positiveSide(e *StoichExpr) bool {
	for _, t := range e.Terms {
		if t.Negative {
			p.error(SyntaxError, "negative stoichiometric coefficient in reaction", t.Pos())
			return false
		}
	}
	return true
}

// conserve reads `CONSERVE stoich = expr`.
func (p *Parser) conserve() *ConserveExpr {
	pos := p.la.ToRowCol()
	if !p.expect(TokCONSERVE, "CONSERVE") {
		return nil
	}
	lhs := p.stoichExpression()
	if lhs == nil || !p.expect(TokEq, "CONSERVE") {
		return nil
	}
	rhs := p.expression(0)
	if rhs == nil {
		return nil
	}
	return &ConserveExpr{node: node{pos}, Lhs: lhs, Rhs: rhs}
}
