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
	"os"
)

type SymbolKind int

const (
	SymState SymbolKind = iota
	SymParameter
	SymAssigned
	SymProcedure
	SymFunction
	SymNetReceive
)

func (k SymbolKind) String() string {
	switch k {
	case SymState:
		return "state"
	case SymParameter:
		return "parameter"
	case SymAssigned:
		return "assigned"
	case SymProcedure:
		return "procedure"
	case SymFunction:
		return "function"
	case SymNetReceive:
		return "net_receive"
	}
	return "?"
}

// IsVariable is true for names declared in STATE, PARAMETER or ASSIGNED.
func (k SymbolKind) IsVariable() bool {
	return k == SymState || k == SymParameter || k == SymAssigned
}

// Symbol is one module level name. Variables carry declaration metadata,
// definitions carry their AST in Def.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Pos      RowCol
	Unit     string
	Value    string
	Range    [2]string
	HasRange bool
	Def      Expr
}

type MechanismKind int

const (
	MechDensity MechanismKind = iota
	MechPoint
)

func (k MechanismKind) String() string {
	if k == MechPoint {
		return "point"
	}
	return "density"
}

type IonDep struct {
	Name    string
	Kind    IonKind
	Read    []string
	Write   []string
	Valence int64
	// HasValence is false when no VALENCE clause was given.
	HasValence bool
}

type NeuronBlock struct {
	Kind               MechanismKind
	Name               string
	Ions               []IonDep
	Ranges             []string
	Globals            []string
	NonspecificCurrent string
	Threadsafe         bool
}

// UnitDef is one line of a UNITS block: either an alias `(a) = (b)` or a
// named constant `NAME = [value] (unit)`.
type UnitDef struct {
	Name  string
	Value string
	From  string
	To    string
	Pos   RowCol
}

// Module owns the source text of one mechanism and everything the parser
// recognized in it.
type Module struct {
	source  []byte
	path    string
	Title   string
	Neuron  NeuronBlock
	Units   []UnitDef
	symbols []*Symbol
	index   map[string]*Symbol
}

func NewModule(source []byte, path string) *Module {
	return &Module{
		source: source,
		path:   path,
		index:  make(map[string]*Symbol),
	}
}

// NewModuleFromFile reads path into a new Module.
func NewModuleFromFile(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewModule(data, path), nil
}

func (m *Module) Source() []byte {
	return m.source
}

func (m *Module) Path() string {
	return m.path
}

// AddSymbol appends s; it returns false and leaves the table unchanged if the
// name is already taken.
func (m *Module) AddSymbol(s *Symbol) bool {
	if _, ok := m.index[s.Name]; ok {
		return false
	}
	m.index[s.Name] = s
	m.symbols = append(m.symbols, s)
	return true
}

// Symbol looks up a name, nil if there is none.
func (m *Module) Symbol(name string) *Symbol {
	return m.index[name]
}

// Symbols returns the symbols in the order they were added.
func (m *Module) Symbols() []*Symbol {
	return append([]*Symbol(nil), m.symbols...)
}

// SymbolsOfKind returns the symbols of one kind in declaration order.
func (m *Module) SymbolsOfKind(kind SymbolKind) []*Symbol {
	var res []*Symbol
	for _, s := range m.symbols {
		if s.Kind == kind {
			res = append(res, s)
		}
	}
	return res
}

// Definitions returns the AST of every procedure, function and net receive
// block in declaration order.
func (m *Module) Definitions() []Expr {
	var res []Expr
	for _, s := range m.symbols {
		if s.Def != nil {
			res = append(res, s.Def)
		}
	}
	return res
}
