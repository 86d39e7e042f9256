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
	"strings"
)

type ErrorKind int

const (
	LexicalError ErrorKind = iota
	SyntaxError
	NameCollisionError
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalError:
		return "lexical error"
	case NameCollisionError:
		return "name collision"
	default:
		return "syntax error"
	}
}

// ParseError represents a parser error with message and location info.
type ParseError struct {
	Kind ErrorKind
	Msg  string
	Pos  RowCol
	Path string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s:%s: %s: %s", e.Path, e.Pos, e.Kind, e.Msg)
}

// Parser is a recursive descent parser with one token of lookahead. It fills
// the symbol table of its Module. A Parser is not safe for concurrent use;
// parse different files with different parsers.
type Parser struct {
	module           *Module
	scanner          Scanner
	cur              Token
	la               Token
	errors           []*ParseError
	pending          []*ParseError
	nfail            int
	status           Status
	stopOnFirstError bool
	maxErrors        int
	inKinetic        bool
	inNetReceive     bool
}

// NewParser creates a parser reading the source of m.
func NewParser(m *Module) *Parser {
	p := &Parser{
		module:  m,
		scanner: NewLexerFromBytes(m.source, m.path),
	}
	p.next()
	return p
}

// NewParserFromString creates a parser over text with a fresh Module; used
// to parse single rules.
func NewParserFromString(text string) *Parser {
	return NewParser(NewModule([]byte(text), ""))
}

func (p *Parser) SetStopOnFirstError(on bool) {
	p.stopOnFirstError = on
}

// SetMaxErrors limits the number of diagnostics collected by Parse; n <= 0
// means no limit.
func (p *Parser) SetMaxErrors(n int) {
	p.maxErrors = n
}

func (p *Parser) Module() *Module {
	return p.module
}

func (p *Parser) Status() Status {
	return p.status
}

// Errors returns the diagnostics in the order they were found, including
// lexical errors in front of the lookahead token.
func (p *Parser) Errors() []*ParseError {
	errs := p.errors
	if len(p.pending) > 0 {
		errs = append(errs[:len(errs):len(errs)], p.pending...)
	}
	if p.maxErrors > 0 && len(errs) > p.maxErrors {
		return errs[:p.maxErrors]
	}
	return errs
}

func (p *Parser) ErrorCount() int {
	return len(p.Errors())
}

func (p *Parser) HasErrors() bool {
	return len(p.errors)+len(p.pending) > 0
}

// ErrorMessage joins all diagnostics, one per line.
func (p *Parser) ErrorMessage() string {
	errs := p.Errors()
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

func (p *Parser) error(kind ErrorKind, msg string, pos RowCol) {
	if len(p.pending) > 0 && !pos.Before(p.pending[0].Pos) {
		p.flushPending()
	}
	p.errors = append(p.errors, &ParseError{
		Kind: kind,
		Msg:  msg,
		Pos:  pos,
		Path: p.scanner.Source(),
	})
	p.nfail++
	p.status = StatusError
}

// flushPending records the lexical errors of the invalid tokens skipped in
// front of la. They only count against a rule once it consumes la.
func (p *Parser) flushPending() {
	p.errors = append(p.errors, p.pending...)
	p.nfail += len(p.pending)
	p.pending = p.pending[:0]
}

func (p *Parser) errorTok(t Token, msg string) {
	p.error(SyntaxError, msg, t.ToRowCol())
}

func (p *Parser) next() {
	p.flushPending()
	p.cur = p.la
	p.la = p.scanner.Next()
	for p.la.Type == TokInvalid {
		p.pending = append(p.pending, &ParseError{
			Kind: LexicalError,
			Msg:  string(p.la.Val),
			Pos:  p.la.ToRowCol(),
			Path: p.scanner.Source(),
		})
		p.status = StatusError
		p.la = p.scanner.Next()
	}
}

func (p *Parser) expect(tt TokenType, where string) bool {
	if p.la.Type == tt {
		p.next()
		return true
	}
	p.errorTok(p.la, fmt.Sprintf("'%s' expected in %s", TokenTypeString(tt), where))
	return false
}

func (p *Parser) unexpected(where string) {
	p.errorTok(p.la, fmt.Sprintf("unexpected '%s' in %s", p.la.Spelling(), where))
}

// result turns the outcome of an internal rule started when nfail was mark
// into the exported form: either the node or the first error, never both.
func result[T Expr](p *Parser, n T, mark int) (T, error) {
	if p.nfail > mark {
		var zero T
		return zero, p.errors[mark]
	}
	return n, nil
}

func firstStatement(tt TokenType) bool {
	switch tt {
	case TokIdent, TokLOCAL, TokIF, TokSOLVE, TokCONDUCTANCE, TokTilde, TokCONSERVE, TokINITIAL:
		return true
	}
	return false
}

func firstDefinition(tt TokenType) bool {
	switch tt {
	case TokPROCEDURE, TokFUNCTION, TokINITIAL, TokBREAKPOINT, TokDERIVATIVE, TokKINETIC, TokNET_RECEIVE:
		return true
	}
	return false
}

func firstTopLevel(tt TokenType) bool {
	switch tt {
	case TokTITLE, TokNEURON, TokUNITS, TokPARAMETER, TokASSIGNED, TokSTATE, TokINDEPENDENT:
		return true
	}
	return firstDefinition(tt)
}

// Parse reads the whole module, registering declarations and definitions in
// the symbol table in source order. It returns true if no error was found.
func (p *Parser) Parse() bool {
	for p.la.Type != TokEof {
		if p.maxErrors > 0 && len(p.errors) >= p.maxErrors {
			break
		}
		p.flushPending()
		mark := p.nfail
		start := p.la.ToRowCol()
		switch p.la.Type {
		case TokTITLE:
			p.title()
		case TokNEURON:
			p.neuronBlock()
		case TokUNITS:
			p.unitsBlock()
		case TokSTATE:
			p.variableBlock(TokSTATE, SymState)
		case TokPARAMETER:
			p.variableBlock(TokPARAMETER, SymParameter)
		case TokASSIGNED:
			p.variableBlock(TokASSIGNED, SymAssigned)
		case TokINDEPENDENT:
			p.independentBlock()
		case TokFUNCTION:
			if f := p.function(); f != nil {
				p.addDefinition(f.Name, SymFunction, f)
			}
		case TokNET_RECEIVE:
			if nr := p.netReceive(); nr != nil {
				p.addDefinition("net_receive", SymNetReceive, nr)
			}
		case TokPROCEDURE, TokINITIAL, TokBREAKPOINT, TokDERIVATIVE, TokKINETIC:
			if pr := p.procedure(); pr != nil {
				p.addDefinition(pr.Name, SymProcedure, pr)
			}
		default:
			p.unexpected("module")
		}
		if p.nfail > mark {
			if p.stopOnFirstError {
				break
			}
			p.skipToTopLevel(p.la.ToRowCol() != start)
		}
	}
	p.flushPending()
	return p.status == StatusHappy
}

// skipToTopLevel drops tokens up to the next top level keyword which is the
// first token on its line and not nested in braces opened after the failure.
// If the failed block moved past its first token and la already is such a
// keyword, nothing is dropped.
func (p *Parser) skipToTopLevel(moved bool) {
	if moved && firstTopLevel(p.la.Type) && p.la.LineNr > p.cur.LineNr {
		return
	}
	depth := 0
	if p.la.Type != TokEof {
		p.next()
		depth = braceDelta(p.cur.Type)
	}
	for p.la.Type != TokEof {
		if depth <= 0 && firstTopLevel(p.la.Type) && p.la.LineNr > p.cur.LineNr {
			return
		}
		p.next()
		depth += braceDelta(p.cur.Type)
	}
}

func braceDelta(tt TokenType) int {
	switch tt {
	case TokLbrace:
		return 1
	case TokRbrace:
		return -1
	}
	return 0
}

func (p *Parser) addDefinition(name string, kind SymbolKind, def Expr) {
	if !p.module.AddSymbol(&Symbol{Name: name, Kind: kind, Pos: def.Pos(), Def: def}) {
		p.error(NameCollisionError, fmt.Sprintf("a definition with the name '%s' already exists", name), def.Pos())
	}
}

func (p *Parser) ParseStatement() (Expr, error) {
	mark := p.nfail
	n := p.statement()
	return result(p, n, mark)
}

func (p *Parser) ParseBlock() (*BlockExpr, error) {
	mark := p.nfail
	n := p.block("block")
	return result(p, n, mark)
}

func (p *Parser) ParseLocal() (*LocalDeclaration, error) {
	mark := p.nfail
	n := p.local()
	return result(p, n, mark)
}

func (p *Parser) ParseSolve() (*SolveExpr, error) {
	mark := p.nfail
	n := p.solve()
	return result(p, n, mark)
}

func (p *Parser) ParseConductance() (*ConductanceExpr, error) {
	mark := p.nfail
	n := p.conductance()
	return result(p, n, mark)
}

func (p *Parser) ParseIf() (*IfExpr, error) {
	mark := p.nfail
	n := p.ifStatement()
	return result(p, n, mark)
}

// ParseProcedure reads a PROCEDURE, INITIAL, BREAKPOINT, DERIVATIVE, KINETIC
// or NET_RECEIVE definition. The result is a *ProcedureDef or a *NetReceiveDef.
func (p *Parser) ParseProcedure() (Expr, error) {
	mark := p.nfail
	var n Expr
	if p.la.Type == TokNET_RECEIVE {
		if nr := p.netReceive(); nr != nil {
			n = nr
		}
	} else if pr := p.procedure(); pr != nil {
		n = pr
	}
	return result(p, n, mark)
}

func (p *Parser) ParseFunction() (*FunctionDef, error) {
	mark := p.nfail
	n := p.function()
	return result(p, n, mark)
}

func (p *Parser) statement() Expr {
	switch p.la.Type {
	case TokIdent:
		return p.lineExpression()
	case TokLOCAL:
		if d := p.local(); d != nil {
			return d
		}
	case TokIF:
		if e := p.ifStatement(); e != nil {
			return e
		}
	case TokSOLVE:
		if e := p.solve(); e != nil {
			return e
		}
	case TokCONDUCTANCE:
		if e := p.conductance(); e != nil {
			return e
		}
	case TokTilde:
		if !p.inKinetic {
			p.errorTok(p.la, "reactions are only allowed in KINETIC blocks")
			return nil
		}
		if e := p.reaction(); e != nil {
			return e
		}
	case TokCONSERVE:
		if !p.inKinetic {
			p.errorTok(p.la, "CONSERVE is only allowed in KINETIC blocks")
			return nil
		}
		if e := p.conserve(); e != nil {
			return e
		}
	case TokINITIAL:
		if !p.inNetReceive {
			p.errorTok(p.la, "INITIAL blocks can only be nested in NET_RECEIVE")
			return nil
		}
		pos := p.la.ToRowCol()
		p.next()
		if body := p.block("INITIAL"); body != nil {
			return &InitialBlockExpr{node: node{pos}, Body: body}
		}
	default:
		p.unexpected("statement")
	}
	return nil
}

func (p *Parser) block(where string) *BlockExpr {
	pos := p.la.ToRowCol()
	if !p.expect(TokLbrace, where) {
		return nil
	}
	b := &BlockExpr{node: node{pos}}
	for p.la.Type != TokRbrace && p.la.Type != TokEof {
		s := p.statement()
		if s == nil {
			return nil
		}
		b.Body = append(b.Body, s)
	}
	if !p.expect(TokRbrace, where) {
		return nil
	}
	return b
}

func (p *Parser) local() *LocalDeclaration {
	pos := p.la.ToRowCol()
	if !p.expect(TokLOCAL, "LOCAL") {
		return nil
	}
	d := newLocalDeclaration(pos)
	for {
		if !p.expect(TokIdent, "LOCAL") {
			return nil
		}
		if !d.add(p.cur.Text(), p.cur.ToRowCol()) {
			p.error(NameCollisionError, fmt.Sprintf("duplicate variable name '%s' in LOCAL", p.cur.Text()), p.cur.ToRowCol())
			return nil
		}
		if p.la.Type != TokComma {
			break
		}
		p.next()
	}
	return d
}

func (p *Parser) solve() *SolveExpr {
	pos := p.la.ToRowCol()
	if !p.expect(TokSOLVE, "SOLVE") || !p.expect(TokIdent, "SOLVE") {
		return nil
	}
	s := &SolveExpr{node: node{pos}, Name: p.cur.Text()}
	switch p.la.Type {
	case TokMETHOD:
		p.next()
	case TokSTEADYSTATE:
		p.next()
		s.Variant = SolveSteadystate
	default:
		return s
	}
	if !p.expect(TokIdent, "SOLVE") {
		return nil
	}
	m, ok := solverMethodFromString(p.cur.Text())
	if !ok {
		p.errorTok(p.cur, fmt.Sprintf("unknown solver method '%s'", p.cur.Text()))
		return nil
	}
	s.Method = m
	return s
}

func (p *Parser) conductance() *ConductanceExpr {
	pos := p.la.ToRowCol()
	if !p.expect(TokCONDUCTANCE, "CONDUCTANCE") || !p.expect(TokIdent, "CONDUCTANCE") {
		return nil
	}
	c := &ConductanceExpr{node: node{pos}, Name: p.cur.Text()}
	if p.la.Type == TokUSEION {
		p.next()
		if !p.expect(TokIdent, "CONDUCTANCE") {
			return nil
		}
		c.IonName = p.cur.Text()
		c.Ion = IonKindFromString(c.IonName)
	}
	return c
}

func (p *Parser) ifStatement() *IfExpr {
	pos := p.la.ToRowCol()
	if !p.expect(TokIF, "IF") || !p.expect(TokLpar, "IF") {
		return nil
	}
	cond := p.expression(0)
	if cond == nil || !p.expect(TokRpar, "IF") {
		return nil
	}
	tb := p.block("IF")
	if tb == nil {
		return nil
	}
	e := &IfExpr{node: node{pos}, Cond: cond, True: tb}
	if p.la.Type != TokELSE {
		return e
	}
	p.next()
	if p.la.Type == TokIF {
		f := p.ifStatement()
		if f == nil {
			return nil
		}
		e.False = f
		return e
	}
	fb := p.block("ELSE")
	if fb == nil {
		return nil
	}
	e.False = fb
	return e
}

// params reads `( [name [(unit)] {, name [(unit)]}] )`.
func (p *Parser) params(where string) ([]Param, bool) {
	if !p.expect(TokLpar, where) {
		return nil, false
	}
	var res []Param
	if p.la.Type == TokRpar {
		p.next()
		return res, true
	}
	for {
		if !p.expect(TokIdent, where) {
			return nil, false
		}
		prm := Param{Name: p.cur.Text(), Pos: p.cur.ToRowCol()}
		for _, q := range res {
			if q.Name == prm.Name {
				p.error(NameCollisionError, fmt.Sprintf("duplicate parameter name '%s'", prm.Name), prm.Pos)
				return nil, false
			}
		}
		if p.la.Type == TokLpar {
			u, ok := p.unitDescription()
			if !ok {
				return nil, false
			}
			prm.Unit = u
		}
		res = append(res, prm)
		if p.la.Type != TokComma {
			break
		}
		p.next()
	}
	if !p.expect(TokRpar, where) {
		return nil, false
	}
	return res, true
}

func (p *Parser) procedure() *ProcedureDef {
	pos := p.la.ToRowCol()
	def := &ProcedureDef{node: node{pos}}
	where := TokenTypeString(p.la.Type)
	switch p.la.Type {
	case TokPROCEDURE:
		p.next()
		if !p.expect(TokIdent, where) {
			return nil
		}
		def.Name = p.cur.Text()
		prms, ok := p.params(where)
		if !ok {
			return nil
		}
		def.Params = prms
		if p.la.Type == TokLpar {
			if _, ok := p.unitDescription(); !ok {
				return nil
			}
		}
	case TokINITIAL, TokBREAKPOINT:
		def.Kind = ProcAPI
		def.Name = strings.ToLower(where)
		p.next()
	case TokDERIVATIVE, TokKINETIC:
		def.Kind = ProcDerivative
		if p.la.Type == TokKINETIC {
			def.Kind = ProcKinetic
		}
		p.next()
		if !p.expect(TokIdent, where) {
			return nil
		}
		def.Name = p.cur.Text()
	default:
		p.unexpected("procedure definition")
		return nil
	}
	p.inKinetic = def.Kind == ProcKinetic
	body := p.block(where)
	p.inKinetic = false
	if body == nil {
		return nil
	}
	def.Body = body
	return def
}

func (p *Parser) function() *FunctionDef {
	pos := p.la.ToRowCol()
	if !p.expect(TokFUNCTION, "FUNCTION") || !p.expect(TokIdent, "FUNCTION") {
		return nil
	}
	def := &FunctionDef{node: node{pos}, Name: p.cur.Text()}
	prms, ok := p.params("FUNCTION")
	if !ok {
		return nil
	}
	def.Params = prms
	if p.la.Type == TokLpar {
		u, ok := p.unitDescription()
		if !ok {
			return nil
		}
		def.Unit = u
	}
	if def.Body = p.block("FUNCTION"); def.Body == nil {
		return nil
	}
	return def
}

func (p *Parser) netReceive() *NetReceiveDef {
	pos := p.la.ToRowCol()
	if !p.expect(TokNET_RECEIVE, "NET_RECEIVE") {
		return nil
	}
	prms, ok := p.params("NET_RECEIVE")
	if !ok {
		return nil
	}
	p.inNetReceive = true
	body := p.block("NET_RECEIVE")
	p.inNetReceive = false
	if body == nil {
		return nil
	}
	return &NetReceiveDef{node: node{pos}, Params: prms, Body: body}
}
