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

import "math"

// Evaluate computes the value of a constant expression tree. Nodes which have
// no constant value, identifiers and calls among them, yield NaN.
func Evaluate(e Expr) float64 {
	switch n := e.(type) {
	case *IntegerExpr:
		return float64(n.Value)
	case *RealExpr:
		return n.Value
	case *UnaryExpr:
		v := Evaluate(n.Operand)
		switch n.Op {
		case TokPlus:
			return v
		case TokMinus:
			return -v
		case TokEXP:
			return math.Exp(v)
		case TokSIN:
			return math.Sin(v)
		case TokCOS:
			return math.Cos(v)
		case TokLOG:
			return math.Log(v)
		case TokABS:
			return math.Abs(v)
		case TokEXPRELR:
			if 1.0+v == 1.0 {
				return 1.0
			}
			return v / math.Expm1(v)
		case TokSAFEINV:
			if 1.0+v == 1.0 {
				return 0.0
			}
			return 1.0 / v
		}
	case *BinaryExpr:
		l, r := Evaluate(n.Lhs), Evaluate(n.Rhs)
		switch n.Op {
		case TokPlus:
			return l + r
		case TokMinus:
			return l - r
		case TokStar:
			return l * r
		case TokSlash:
			return l / r
		case TokHat:
			return math.Pow(l, r)
		case TokMIN:
			return math.Min(l, r)
		case TokMAX:
			return math.Max(l, r)
		}
	}
	return math.NaN()
}
