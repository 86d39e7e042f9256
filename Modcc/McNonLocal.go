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
	"io"
	"sort"
	"strings"
)

// NonLocalRef is a name used in a definition which is neither a parameter
// nor a LOCAL in scope at the point of use.
type NonLocalRef struct {
	Name string
	Pos  RowCol
	// Symbol is the module symbol the name resolves to, nil for names like v
	// or celsius which are provided by the simulator.
	Symbol *Symbol
}

func (r NonLocalRef) String() string {
	if r.Symbol == nil {
		return r.Name + " (external)"
	}
	return r.Name + " (" + r.Symbol.Kind.String() + ")"
}

// NonLocalInfo collects the non-local accesses of one definition.
type NonLocalInfo struct {
	Def    *Symbol
	Reads  []NonLocalRef
	Writes []NonLocalRef
	Calls  []NonLocalRef
}

// NonLocalAnalyzer finds, for every procedure, function and NET_RECEIVE
// definition of a module, the state it shares with the rest of the module.
type NonLocalAnalyzer struct {
	module  *Module
	results []NonLocalInfo
	scopes  []map[string]bool
	reads   map[string]NonLocalRef
	writes  map[string]NonLocalRef
	calls   map[string]NonLocalRef
}

func NewNonLocalAnalyzer(m *Module) *NonLocalAnalyzer {
	return &NonLocalAnalyzer{module: m}
}

// Analyze walks all definitions in declaration order and returns those with
// at least one non-local access.
func (a *NonLocalAnalyzer) Analyze() []NonLocalInfo {
	a.results = a.results[:0]
	for _, s := range a.module.Symbols() {
		if s.Def == nil {
			continue
		}
		info := a.analyzeDefinition(s)
		if len(info.Reads)+len(info.Writes)+len(info.Calls) > 0 {
			a.results = append(a.results, info)
		}
	}
	return a.results
}

func (a *NonLocalAnalyzer) Results() []NonLocalInfo { return a.results }

func (a *NonLocalAnalyzer) analyzeDefinition(s *Symbol) NonLocalInfo {
	a.reads = make(map[string]NonLocalRef)
	a.writes = make(map[string]NonLocalRef)
	a.calls = make(map[string]NonLocalRef)
	a.scopes = a.scopes[:0]

	var params []Param
	var body *BlockExpr
	switch d := s.Def.(type) {
	case *ProcedureDef:
		params, body = d.Params, d.Body
	case *FunctionDef:
		params, body = d.Params, d.Body
		// assigning the function name sets the return value
		a.openScope()
		a.declare(d.Name)
	case *NetReceiveDef:
		params, body = d.Params, d.Body
	}
	a.openScope()
	for _, p := range params {
		a.declare(p.Name)
	}
	a.walkBlock(body)

	return NonLocalInfo{
		Def:    s,
		Reads:  sortedRefs(a.reads),
		Writes: sortedRefs(a.writes),
		Calls:  sortedRefs(a.calls),
	}
}

func (a *NonLocalAnalyzer) openScope() {
	a.scopes = append(a.scopes, make(map[string]bool))
}

func (a *NonLocalAnalyzer) closeScope() {
	a.scopes = a.scopes[:len(a.scopes)-1]
}

func (a *NonLocalAnalyzer) declare(name string) {
	a.scopes[len(a.scopes)-1][name] = true
}

func (a *NonLocalAnalyzer) isLocal(name string) bool {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if a.scopes[i][name] {
			return true
		}
	}
	return false
}

func (a *NonLocalAnalyzer) note(acc map[string]NonLocalRef, name string, pos RowCol) {
	if a.isLocal(name) {
		return
	}
	if _, ok := acc[name]; ok {
		return
	}
	acc[name] = NonLocalRef{Name: name, Pos: pos, Symbol: a.module.Symbol(name)}
}

func (a *NonLocalAnalyzer) walkBlock(b *BlockExpr) {
	if b == nil {
		return
	}
	a.openScope()
	for _, s := range b.Body {
		a.walkStmt(s)
	}
	a.closeScope()
}

func (a *NonLocalAnalyzer) walkStmt(s Expr) {
	switch n := s.(type) {
	case *LocalDeclaration:
		for _, name := range n.Names() {
			a.declare(name)
		}
	case *AssignmentExpr:
		a.walkExpr(n.Rhs)
		a.note(a.writes, strings.TrimRight(n.Lhs.Name, "'"), n.Lhs.Pos())
	case *IfExpr:
		a.walkExpr(n.Cond)
		a.walkBlock(n.True)
		if n.False != nil {
			a.walkStmt(n.False)
		}
	case *BlockExpr:
		a.walkBlock(n)
	case *InitialBlockExpr:
		a.walkBlock(n.Body)
	case *SolveExpr:
		a.note(a.calls, n.Name, n.Pos())
	case *ConductanceExpr:
		a.note(a.reads, n.Name, n.Pos())
	case *ReactionExpr:
		a.walkSpecies(n.Lhs)
		a.walkSpecies(n.Rhs)
		a.walkExpr(n.Fwd)
		a.walkExpr(n.Rev)
	case *ConserveExpr:
		a.walkSpecies(n.Lhs)
		a.walkExpr(n.Rhs)
	default:
		a.walkExpr(s)
	}
}

func (a *NonLocalAnalyzer) walkSpecies(e *StoichExpr) {
	for _, t := range e.Terms {
		a.note(a.writes, t.Species.Name, t.Species.Pos())
	}
}

func (a *NonLocalAnalyzer) walkExpr(e Expr) {
	Walk(e, func(n Expr) bool {
		switch x := n.(type) {
		case *IdentifierExpr:
			a.note(a.reads, x.Name, x.Pos())
		case *CallExpr:
			a.note(a.calls, x.Callee, x.Pos())
		}
		return true
	})
}

func sortedRefs(acc map[string]NonLocalRef) []NonLocalRef {
	out := make([]NonLocalRef, 0, len(acc))
	for _, r := range acc {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PrintResults writes a report of the last Analyze run.
func (a *NonLocalAnalyzer) PrintResults(w io.Writer) {
	if len(a.results) == 0 {
		return
	}
	name := a.module.Neuron.Name
	if name == "" {
		name = a.module.Path()
	}
	fmt.Fprintf(w, "Mechanism %s has %d definitions with non-local accesses:\n\n", name, len(a.results))
	for i, info := range a.results {
		fmt.Fprintf(w, "%d. %s: %s\n", i+1, info.Def.Kind, info.Def.Name)
		printRefs(w, "Reads", info.Reads)
		printRefs(w, "Writes", info.Writes)
		printRefs(w, "Calls", info.Calls)
		fmt.Fprintln(w)
	}
}

func printRefs(w io.Writer, title string, refs []NonLocalRef) {
	if len(refs) == 0 {
		return
	}
	fmt.Fprintf(w, "   %s:\n", title)
	for j, r := range refs {
		fmt.Fprintf(w, "     %d) %s at %s\n", j+1, r, r.Pos)
	}
}
