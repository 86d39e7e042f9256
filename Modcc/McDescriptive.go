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
	"strings"
)

func (p *Parser) ParseTitle() error {
	mark := p.nfail
	p.title()
	return p.blockResult(mark)
}

func (p *Parser) ParseNeuronBlock() error {
	mark := p.nfail
	p.neuronBlock()
	return p.blockResult(mark)
}

func (p *Parser) ParseUnitsBlock() error {
	mark := p.nfail
	p.unitsBlock()
	return p.blockResult(mark)
}

func (p *Parser) ParseStateBlock() error {
	mark := p.nfail
	p.variableBlock(TokSTATE, SymState)
	return p.blockResult(mark)
}

func (p *Parser) ParseParameterBlock() error {
	mark := p.nfail
	p.variableBlock(TokPARAMETER, SymParameter)
	return p.blockResult(mark)
}

func (p *Parser) ParseAssignedBlock() error {
	mark := p.nfail
	p.variableBlock(TokASSIGNED, SymAssigned)
	return p.blockResult(mark)
}

func (p *Parser) blockResult(mark int) error {
	if p.nfail > mark {
		return p.errors[mark]
	}
	return nil
}

func (p *Parser) title() {
	if p.expect(TokTITLE, "TITLE") {
		p.module.Title = p.cur.Text()
	}
}

// variableBlock reads a STATE, PARAMETER or ASSIGNED block into the symbol
// table. A unit applies to the names before it on the same line which have
// no unit of their own yet.
func (p *Parser) variableBlock(kw TokenType, kind SymbolKind) {
	where := TokenTypeString(kw)
	if !p.expect(kw, where) || !p.expect(TokLbrace, where) {
		return
	}
	var run []*Symbol
	var last *Symbol
	var line uint32
	for p.la.Type != TokRbrace && p.la.Type != TokEof {
		if p.la.LineNr != line {
			run = run[:0]
			line = p.la.LineNr
		}
		switch p.la.Type {
		case TokIdent:
			p.next()
			s := &Symbol{Name: p.cur.Text(), Kind: kind, Pos: p.cur.ToRowCol()}
			if !p.module.AddSymbol(s) {
				p.error(NameCollisionError, fmt.Sprintf("a declaration with the name '%s' already exists", s.Name), s.Pos)
				return
			}
			run = append(run, s)
			last = s
		case TokLpar:
			if len(run) == 0 {
				p.errorTok(p.la, "unit description without a variable in "+where)
				return
			}
			u, ok := p.unitDescription()
			if !ok {
				return
			}
			for _, s := range run {
				s.Unit = u
			}
			run = run[:0]
		case TokEq:
			if last == nil {
				p.unexpected(where)
				return
			}
			p.next()
			v, ok := p.signedNumber(where)
			if !ok {
				return
			}
			last.Value = v
		case TokFROM:
			if last == nil {
				p.unexpected(where)
				return
			}
			p.next()
			lo, ok := p.signedNumber(where)
			if !ok || !p.expect(TokTO, where) {
				return
			}
			hi, ok := p.signedNumber(where)
			if !ok {
				return
			}
			last.Range, last.HasRange = [2]string{lo, hi}, true
		case TokLt:
			if last == nil || kind != SymParameter {
				p.unexpected(where)
				return
			}
			p.next()
			lo, ok := p.signedNumber(where)
			if !ok || !p.expect(TokComma, where) {
				return
			}
			hi, ok := p.signedNumber(where)
			if !ok || !p.expect(TokGt, where) {
				return
			}
			last.Range, last.HasRange = [2]string{lo, hi}, true
		default:
			p.unexpected(where)
			return
		}
	}
	p.expect(TokRbrace, where)
}

func (p *Parser) signedNumber(where string) (string, bool) {
	sign := ""
	if p.la.Type == TokMinus || p.la.Type == TokPlus {
		if p.la.Type == TokMinus {
			sign = "-"
		}
		p.next()
	}
	if p.la.Type != TokInteger && p.la.Type != TokReal {
		p.errorTok(p.la, "number expected in "+where)
		return "", false
	}
	p.next()
	return sign + p.cur.Text(), true
}

func isUnitAtom(tt TokenType) bool {
	return tt == TokIdent || tt == TokInteger || tt == TokReal
}

// unitDescription reads a parenthesized unit like (mA/cm2) or (1/ms) and
// returns its text without the outer parentheses.
func (p *Parser) unitDescription() (string, bool) {
	if !p.expect(TokLpar, "unit description") {
		return "", false
	}
	var b strings.Builder
	depth := 1
	prevAtom := false
	for {
		tt := p.la.Type
		switch {
		case tt == TokRpar:
			depth--
			if depth == 0 {
				p.next()
				if b.Len() == 0 {
					p.errorTok(p.cur, "empty unit description")
					return "", false
				}
				return b.String(), true
			}
		case tt == TokLpar:
			depth++
		case isUnitAtom(tt):
			if prevAtom {
				b.WriteByte(' ')
			}
		case tt == TokSlash || tt == TokStar || tt == TokHat || tt == TokMinus || tt == TokPlus:
		default:
			p.errorTok(p.la, fmt.Sprintf("malformed unit description, unexpected '%s'", p.la.Spelling()))
			return "", false
		}
		b.WriteString(p.la.Spelling())
		prevAtom = isUnitAtom(tt)
		p.next()
	}
}

// unitsBlock reads UNITS { (a) = (b) ... NAME = [value] (unit) [(unit)] }.
func (p *Parser) unitsBlock() {
	if !p.expect(TokUNITS, "UNITS") || !p.expect(TokLbrace, "UNITS") {
		return
	}
	for p.la.Type != TokRbrace && p.la.Type != TokEof {
		def := UnitDef{Pos: p.la.ToRowCol()}
		switch p.la.Type {
		case TokLpar:
			from, ok := p.unitDescription()
			if !ok || !p.expect(TokEq, "UNITS") {
				return
			}
			to, ok := p.unitDescription()
			if !ok {
				return
			}
			def.From, def.To = from, to
		case TokIdent:
			p.next()
			def.Name = p.cur.Text()
			if !p.expect(TokEq, "UNITS") {
				return
			}
			if p.la.Type != TokLpar {
				v, ok := p.signedNumber("UNITS")
				if !ok {
					return
				}
				def.Value = v
			}
			from, ok := p.unitDescription()
			if !ok {
				return
			}
			def.From = from
			if p.la.Type == TokLpar {
				if def.To, ok = p.unitDescription(); !ok {
					return
				}
			}
		default:
			p.unexpected("UNITS")
			return
		}
		p.module.Units = append(p.module.Units, def)
	}
	p.expect(TokRbrace, "UNITS")
}

// neuronBlock reads the interface declarations of the mechanism.
func (p *Parser) neuronBlock() {
	if !p.expect(TokNEURON, "NEURON") || !p.expect(TokLbrace, "NEURON") {
		return
	}
	nb := &p.module.Neuron
	for p.la.Type != TokRbrace && p.la.Type != TokEof {
		switch p.la.Type {
		case TokSUFFIX, TokPOINT_PROCESS:
			nb.Kind = MechDensity
			if p.la.Type == TokPOINT_PROCESS {
				nb.Kind = MechPoint
			}
			p.next()
			if !p.expect(TokIdent, "NEURON") {
				return
			}
			nb.Name = p.cur.Text()
		case TokUSEION:
			dep, ok := p.useIon()
			if !ok {
				return
			}
			nb.Ions = append(nb.Ions, dep)
		case TokNONSPECIFIC_CURRENT:
			p.next()
			if !p.expect(TokIdent, "NEURON") {
				return
			}
			nb.NonspecificCurrent = p.cur.Text()
		case TokRANGE, TokGLOBAL:
			tt := p.la.Type
			p.next()
			names, ok := p.identifierList("NEURON")
			if !ok {
				return
			}
			if tt == TokRANGE {
				nb.Ranges = append(nb.Ranges, names...)
			} else {
				nb.Globals = append(nb.Globals, names...)
			}
		case TokTHREADSAFE:
			p.next()
			nb.Threadsafe = true
		default:
			p.unexpected("NEURON")
			return
		}
	}
	p.expect(TokRbrace, "NEURON")
}

func (p *Parser) useIon() (IonDep, bool) {
	var dep IonDep
	if !p.expect(TokUSEION, "USEION") || !p.expect(TokIdent, "USEION") {
		return dep, false
	}
	dep.Name = p.cur.Text()
	dep.Kind = IonKindFromString(dep.Name)
	for {
		switch p.la.Type {
		case TokREAD, TokWRITE:
			tt := p.la.Type
			p.next()
			names, ok := p.identifierList("USEION")
			if !ok {
				return dep, false
			}
			if tt == TokREAD {
				dep.Read = append(dep.Read, names...)
			} else {
				dep.Write = append(dep.Write, names...)
			}
		case TokVALENCE:
			p.next()
			neg := false
			if p.la.Type == TokMinus {
				neg = true
				p.next()
			}
			if !p.expect(TokInteger, "VALENCE") {
				return dep, false
			}
			v, err := strconv.ParseInt(p.cur.Text(), 10, 64)
			if err != nil {
				p.error(LexicalError, fmt.Sprintf("invalid integer literal '%s'", p.cur.Text()), p.cur.ToRowCol())
				return dep, false
			}
			if neg {
				v = -v
			}
			dep.Valence, dep.HasValence = v, true
		default:
			return dep, true
		}
	}
}

// identifierList reads `name {, name}`.
func (p *Parser) identifierList(where string) ([]string, bool) {
	var names []string
	for {
		if !p.expect(TokIdent, where) {
			return nil, false
		}
		names = append(names, p.cur.Text())
		if p.la.Type != TokComma {
			return names, true
		}
		p.next()
	}
}

// independentBlock skips INDEPENDENT { ... } by brace matching.
func (p *Parser) independentBlock() {
	if !p.expect(TokINDEPENDENT, "INDEPENDENT") || !p.expect(TokLbrace, "INDEPENDENT") {
		return
	}
	depth := 1
	for p.la.Type != TokEof {
		p.next()
		depth += braceDelta(p.cur.Type)
		if depth == 0 {
			return
		}
	}
	p.errorTok(p.la, "'}' expected in INDEPENDENT")
}
