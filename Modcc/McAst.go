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

// Expr is the closed set of AST nodes. Only types in this package implement it;
// consumers switch over the concrete types.
type Expr interface {
	Pos() RowCol
	String() string
	exprNode()
}

type node struct {
	pos RowCol
}

func (n node) Pos() RowCol { return n.pos }
func (node) exprNode()     {}

type IonKind int

const (
	IonNonspecific IonKind = iota
	IonCa
	IonNa
	IonK
)

func (k IonKind) String() string {
	switch k {
	case IonCa:
		return "ca"
	case IonNa:
		return "na"
	case IonK:
		return "k"
	default:
		return "nonspecific"
	}
}

// IonKindFromString maps an ion name to its kind; unknown names are nonspecific.
func IonKindFromString(name string) IonKind {
	switch name {
	case "ca":
		return IonCa
	case "na":
		return IonNa
	case "k":
		return IonK
	}
	return IonNonspecific
}

type SolverMethod int

const (
	MethodNone SolverMethod = iota
	MethodCnexp
	MethodSparse
	MethodStochastic
)

func (m SolverMethod) String() string {
	switch m {
	case MethodCnexp:
		return "cnexp"
	case MethodSparse:
		return "sparse"
	case MethodStochastic:
		return "stochastic"
	default:
		return "none"
	}
}

func solverMethodFromString(name string) (SolverMethod, bool) {
	switch name {
	case "cnexp":
		return MethodCnexp, true
	case "sparse":
		return MethodSparse, true
	case "stochastic":
		return MethodStochastic, true
	}
	return MethodNone, false
}

type SolveVariant int

const (
	SolveRegular SolveVariant = iota
	SolveSteadystate
)

type ProcedureKind int

const (
	ProcNormal ProcedureKind = iota
	ProcAPI
	ProcDerivative
	ProcKinetic
)

func (k ProcedureKind) String() string {
	switch k {
	case ProcAPI:
		return "api"
	case ProcDerivative:
		return "derivative"
	case ProcKinetic:
		return "kinetic"
	default:
		return "normal"
	}
}

type IntegerExpr struct {
	node
	Value int64
}

type RealExpr struct {
	node
	Value float64
}

type IdentifierExpr struct {
	node
	Name string
}

// UnaryExpr is a sign, a logical not or a math intrinsic applied to Operand.
type UnaryExpr struct {
	node
	Op      TokenType
	Operand Expr
}

// BinaryExpr covers arithmetic, comparison and logical operators as well as
// the two argument forms min and max.
type BinaryExpr struct {
	node
	Op  TokenType
	Lhs Expr
	Rhs Expr
}

type CallExpr struct {
	node
	Callee string
	Args   []Expr
}

type BlockExpr struct {
	node
	Body []Expr
}

// LocalDeclaration holds the distinct names of one LOCAL statement in
// declaration order.
type LocalDeclaration struct {
	node
	names []string
	index map[string]RowCol
}

func newLocalDeclaration(pos RowCol) *LocalDeclaration {
	return &LocalDeclaration{node: node{pos}, index: make(map[string]RowCol)}
}

// add returns false if name was already declared.
func (d *LocalDeclaration) add(name string, pos RowCol) bool {
	if _, ok := d.index[name]; ok {
		return false
	}
	d.index[name] = pos
	d.names = append(d.names, name)
	return true
}

func (d *LocalDeclaration) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

func (d *LocalDeclaration) Names() []string {
	return append([]string(nil), d.names...)
}

func (d *LocalDeclaration) Len() int {
	return len(d.names)
}

type AssignmentExpr struct {
	node
	Lhs *IdentifierExpr
	Rhs Expr
}

// IfExpr.False is nil, a *BlockExpr or an *IfExpr.
type IfExpr struct {
	node
	Cond  Expr
	True  *BlockExpr
	False Expr
}

type SolveExpr struct {
	node
	Name    string
	Method  SolverMethod
	Variant SolveVariant
}

type ConductanceExpr struct {
	node
	Name    string
	Ion     IonKind
	IonName string
}

// StoichTermExpr is a species with a non-negative coefficient magnitude and a sign.
type StoichTermExpr struct {
	node
	Negative bool
	Coeff    int64
	Species  *IdentifierExpr
}

func (t *StoichTermExpr) SignedCoeff() int64 {
	if t.Negative {
		return -t.Coeff
	}
	return t.Coeff
}

type StoichExpr struct {
	node
	Terms []*StoichTermExpr
}

type ReactionExpr struct {
	node
	Lhs *StoichExpr
	Rhs *StoichExpr
	Fwd Expr
	Rev Expr
}

type ConserveExpr struct {
	node
	Lhs *StoichExpr
	Rhs Expr
}

// InitialBlockExpr is the INITIAL block nested in a NET_RECEIVE body.
type InitialBlockExpr struct {
	node
	Body *BlockExpr
}

type Param struct {
	Name string
	Unit string
	Pos  RowCol
}

type ProcedureDef struct {
	node
	Name   string
	Kind   ProcedureKind
	Params []Param
	Body   *BlockExpr
}

type FunctionDef struct {
	node
	Name   string
	Params []Param
	Unit   string
	Body   *BlockExpr
}

type NetReceiveDef struct {
	node
	Params []Param
	Body   *BlockExpr
}

func (e *IntegerExpr) String() string { return strconv.FormatInt(e.Value, 10) }

func (e *RealExpr) String() string { return strconv.FormatFloat(e.Value, 'g', -1, 64) }

func (e *IdentifierExpr) String() string { return e.Name }

func (e *UnaryExpr) String() string {
	if TokenTypeIsIntrinsic(e.Op) {
		return TokenTypeString(e.Op) + "(" + e.Operand.String() + ")"
	}
	return "(" + TokenTypeString(e.Op) + e.Operand.String() + ")"
}

func (e *BinaryExpr) String() string {
	if e.Op == TokMIN || e.Op == TokMAX {
		return TokenTypeString(e.Op) + "(" + e.Lhs.String() + ", " + e.Rhs.String() + ")"
	}
	return "(" + e.Lhs.String() + " " + TokenTypeString(e.Op) + " " + e.Rhs.String() + ")"
}

func (e *CallExpr) String() string {
	return e.Callee + "(" + joinExprs(e.Args, ", ") + ")"
}

func (e *BlockExpr) String() string {
	if len(e.Body) == 0 {
		return "{}"
	}
	return "{ " + joinExprs(e.Body, "; ") + " }"
}

func (d *LocalDeclaration) String() string {
	return "LOCAL " + strings.Join(d.names, ", ")
}

func (e *AssignmentExpr) String() string {
	return e.Lhs.String() + " = " + e.Rhs.String()
}

func (e *IfExpr) String() string {
	s := "if (" + e.Cond.String() + ") " + e.True.String()
	if e.False != nil {
		s += " else " + e.False.String()
	}
	return s
}

func (e *SolveExpr) String() string {
	s := "SOLVE " + e.Name
	if e.Variant == SolveSteadystate {
		return s + " STEADYSTATE " + e.Method.String()
	}
	if e.Method != MethodNone {
		s += " METHOD " + e.Method.String()
	}
	return s
}

func (e *ConductanceExpr) String() string {
	if e.IonName == "" {
		return "CONDUCTANCE " + e.Name
	}
	return "CONDUCTANCE " + e.Name + " USEION " + e.IonName
}

func (t *StoichTermExpr) String() string {
	var b strings.Builder
	if t.Negative {
		b.WriteByte('-')
	}
	if t.Coeff != 1 {
		b.WriteString(strconv.FormatInt(t.Coeff, 10))
	}
	b.WriteString(t.Species.Name)
	return b.String()
}

func (e *StoichExpr) String() string {
	var b strings.Builder
	for i, t := range e.Terms {
		if i > 0 {
			if t.Negative {
				b.WriteString(" - ")
				abs := *t
				abs.Negative = false
				b.WriteString(abs.String())
				continue
			}
			b.WriteString(" + ")
		}
		b.WriteString(t.String())
	}
	return b.String()
}

func (e *ReactionExpr) String() string {
	return fmt.Sprintf("~ %s <-> %s (%s, %s)", e.Lhs, e.Rhs, e.Fwd, e.Rev)
}

func (e *ConserveExpr) String() string {
	return fmt.Sprintf("CONSERVE %s = %s", e.Lhs, e.Rhs)
}

func (e *InitialBlockExpr) String() string {
	return "INITIAL " + e.Body.String()
}

func (e *ProcedureDef) String() string {
	switch e.Kind {
	case ProcDerivative:
		return "DERIVATIVE " + e.Name + " " + e.Body.String()
	case ProcKinetic:
		return "KINETIC " + e.Name + " " + e.Body.String()
	case ProcAPI:
		return strings.ToUpper(e.Name) + " " + e.Body.String()
	}
	return "PROCEDURE " + e.Name + "(" + joinParams(e.Params) + ") " + e.Body.String()
}

func (e *FunctionDef) String() string {
	s := "FUNCTION " + e.Name + "(" + joinParams(e.Params) + ")"
	if e.Unit != "" {
		s += " (" + e.Unit + ")"
	}
	return s + " " + e.Body.String()
}

func (e *NetReceiveDef) String() string {
	return "NET_RECEIVE (" + joinParams(e.Params) + ") " + e.Body.String()
}

func joinExprs(list []Expr, sep string) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}

func joinParams(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name
		if p.Unit != "" {
			parts[i] += " (" + p.Unit + ")"
		}
	}
	return strings.Join(parts, ", ")
}

// Walk visits e and its descendants in pre-order. Children of a node are
// skipped when visit returns false. A nil e is ignored.
func Walk(e Expr, visit func(Expr) bool) {
	if e == nil || !visit(e) {
		return
	}
	switch n := e.(type) {
	case *IntegerExpr, *RealExpr, *IdentifierExpr, *LocalDeclaration,
		*SolveExpr, *ConductanceExpr:
	case *UnaryExpr:
		Walk(n.Operand, visit)
	case *BinaryExpr:
		Walk(n.Lhs, visit)
		Walk(n.Rhs, visit)
	case *CallExpr:
		for _, a := range n.Args {
			Walk(a, visit)
		}
	case *BlockExpr:
		for _, s := range n.Body {
			Walk(s, visit)
		}
	case *AssignmentExpr:
		Walk(n.Lhs, visit)
		Walk(n.Rhs, visit)
	case *IfExpr:
		Walk(n.Cond, visit)
		Walk(n.True, visit)
		if n.False != nil {
			Walk(n.False, visit)
		}
	case *StoichTermExpr:
		Walk(n.Species, visit)
	case *StoichExpr:
		for _, t := range n.Terms {
			Walk(t, visit)
		}
	case *ReactionExpr:
		Walk(n.Lhs, visit)
		Walk(n.Rhs, visit)
		Walk(n.Fwd, visit)
		Walk(n.Rev, visit)
	case *ConserveExpr:
		Walk(n.Lhs, visit)
		Walk(n.Rhs, visit)
	case *InitialBlockExpr:
		Walk(n.Body, visit)
	case *ProcedureDef:
		Walk(n.Body, visit)
	case *FunctionDef:
		Walk(n.Body, visit)
	case *NetReceiveDef:
		Walk(n.Body, visit)
	default:
		panic(fmt.Sprintf("Walk: unexpected node %T", e))
	}
}
