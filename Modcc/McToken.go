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

type TokenType int

const (
	TokInvalid TokenType = iota

	// Literals
	TTLiterals
	TokLpar
	TokRpar
	TokLbrace
	TokRbrace
	TokComma
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokHat
	TokEq
	TokEqEq
	TokNeq
	TokLt
	TokLeq
	TokGt
	TokGeq
	TokArrow
	TokTilde
	TokAnd
	TokOr
	TokNot

	// Keywords
	TTKeywords
	TokTITLE
	TokNEURON
	TokUNITS
	TokPARAMETER
	TokASSIGNED
	TokSTATE
	TokINDEPENDENT
	TokBREAKPOINT
	TokINITIAL
	TokDERIVATIVE
	TokKINETIC
	TokNET_RECEIVE
	TokPROCEDURE
	TokFUNCTION
	TokLOCAL
	TokIF
	TokELSE
	TokSOLVE
	TokMETHOD
	TokSTEADYSTATE
	TokCONDUCTANCE
	TokCONSERVE
	TokUSEION
	TokREAD
	TokWRITE
	TokVALENCE
	TokNONSPECIFIC_CURRENT
	TokSUFFIX
	TokPOINT_PROCESS
	TokRANGE
	TokGLOBAL
	TokTHREADSAFE
	TokFROM
	TokTO
	TokMIN
	TokMAX
	TokEXP
	TokSIN
	TokCOS
	TokLOG
	TokABS
	TokEXPRELR
	TokSAFEINV

	// Specials
	TTSpecials
	TokIdent
	TokInteger
	TokReal
	TokEof

	TTMax
)

var tokenStrings = [...]string{
	TokInvalid:             "<invalid>",
	TokLpar:                "(",
	TokRpar:                ")",
	TokLbrace:              "{",
	TokRbrace:              "}",
	TokComma:               ",",
	TokPlus:                "+",
	TokMinus:               "-",
	TokStar:                "*",
	TokSlash:               "/",
	TokHat:                 "^",
	TokEq:                  "=",
	TokEqEq:                "==",
	TokNeq:                 "!=",
	TokLt:                  "<",
	TokLeq:                 "<=",
	TokGt:                  ">",
	TokGeq:                 ">=",
	TokArrow:               "<->",
	TokTilde:               "~",
	TokAnd:                 "&&",
	TokOr:                  "||",
	TokNot:                 "!",
	TokTITLE:               "TITLE",
	TokNEURON:              "NEURON",
	TokUNITS:               "UNITS",
	TokPARAMETER:           "PARAMETER",
	TokASSIGNED:            "ASSIGNED",
	TokSTATE:               "STATE",
	TokINDEPENDENT:         "INDEPENDENT",
	TokBREAKPOINT:          "BREAKPOINT",
	TokINITIAL:             "INITIAL",
	TokDERIVATIVE:          "DERIVATIVE",
	TokKINETIC:             "KINETIC",
	TokNET_RECEIVE:         "NET_RECEIVE",
	TokPROCEDURE:           "PROCEDURE",
	TokFUNCTION:            "FUNCTION",
	TokLOCAL:               "LOCAL",
	TokIF:                  "if",
	TokELSE:                "else",
	TokSOLVE:               "SOLVE",
	TokMETHOD:              "METHOD",
	TokSTEADYSTATE:         "STEADYSTATE",
	TokCONDUCTANCE:         "CONDUCTANCE",
	TokCONSERVE:            "CONSERVE",
	TokUSEION:              "USEION",
	TokREAD:                "READ",
	TokWRITE:               "WRITE",
	TokVALENCE:             "VALENCE",
	TokNONSPECIFIC_CURRENT: "NONSPECIFIC_CURRENT",
	TokSUFFIX:              "SUFFIX",
	TokPOINT_PROCESS:       "POINT_PROCESS",
	TokRANGE:               "RANGE",
	TokGLOBAL:              "GLOBAL",
	TokTHREADSAFE:          "THREADSAFE",
	TokFROM:                "FROM",
	TokTO:                  "TO",
	TokMIN:                 "min",
	TokMAX:                 "max",
	TokEXP:                 "exp",
	TokSIN:                 "sin",
	TokCOS:                 "cos",
	TokLOG:                 "log",
	TokABS:                 "abs",
	TokEXPRELR:             "exprelr",
	TokSAFEINV:             "safeinv",
	TokIdent:               "<identifier>",
	TokInteger:             "<integer>",
	TokReal:                "<real>",
	TokEof:                 "<eof>",
}

// TokenTypeString returns the source spelling of a token type
func TokenTypeString(t TokenType) string {
	if t >= 0 && int(t) < len(tokenStrings) {
		return tokenStrings[t]
	}
	return ""
}

// TokenTypeName returns the name of a token type
func TokenTypeName(t TokenType) string {
	switch {
	case t == TokInvalid:
		return "TokInvalid"
	case TokenTypeIsKeyword(t):
		return "Tok" + strings.ToUpper(tokenStrings[t])
	}
	switch t {
	case TokLpar:
		return "TokLpar"
	case TokRpar:
		return "TokRpar"
	case TokLbrace:
		return "TokLbrace"
	case TokRbrace:
		return "TokRbrace"
	case TokComma:
		return "TokComma"
	case TokPlus:
		return "TokPlus"
	case TokMinus:
		return "TokMinus"
	case TokStar:
		return "TokStar"
	case TokSlash:
		return "TokSlash"
	case TokHat:
		return "TokHat"
	case TokEq:
		return "TokEq"
	case TokEqEq:
		return "TokEqEq"
	case TokNeq:
		return "TokNeq"
	case TokLt:
		return "TokLt"
	case TokLeq:
		return "TokLeq"
	case TokGt:
		return "TokGt"
	case TokGeq:
		return "TokGeq"
	case TokArrow:
		return "TokArrow"
	case TokTilde:
		return "TokTilde"
	case TokAnd:
		return "TokAnd"
	case TokOr:
		return "TokOr"
	case TokNot:
		return "TokNot"
	case TokIdent:
		return "TokIdent"
	case TokInteger:
		return "TokInteger"
	case TokReal:
		return "TokReal"
	case TokEof:
		return "TokEof"
	default:
		return "TokUnknown"
	}
}

// TokenTypeIsLiteral checks if token is a literal
func TokenTypeIsLiteral(t TokenType) bool {
	return t > TTLiterals && t < TTKeywords
}

// TokenTypeIsKeyword checks if token is a keyword
func TokenTypeIsKeyword(t TokenType) bool {
	return t > TTKeywords && t < TTSpecials
}

// TokenTypeIsSpecial checks if token is special
func TokenTypeIsSpecial(t TokenType) bool {
	return t > TTSpecials && t < TTMax
}

// TokenTypeIsIntrinsic reports the math functions parsed as unary operators.
func TokenTypeIsIntrinsic(t TokenType) bool {
	switch t {
	case TokEXP, TokSIN, TokCOS, TokLOG, TokABS, TokEXPRELR, TokSAFEINV:
		return true
	}
	return false
}

// keywords is read-only after package initialization.
var keywords = func() map[string]TokenType {
	m := make(map[string]TokenType, int(TTSpecials-TTKeywords))
	for t := TTKeywords + 1; t < TTSpecials; t++ {
		m[tokenStrings[t]] = t
	}
	// both spellings are in use in the wild
	m["IF"] = TokIF
	m["ELSE"] = TokELSE
	return m
}()

// KeywordFromString returns the keyword token for an exact identifier match.
func KeywordFromString(str []byte) (TokenType, bool) {
	t, ok := keywords[string(str)]
	return t, ok
}

// RowCol represents position in source code
type RowCol struct {
	Row uint32
	Col uint32
}

// NewRowCol creates a new RowCol
func NewRowCol(row, col uint32) RowCol {
	return RowCol{Row: row, Col: col}
}

// Before reports whether rc comes earlier in the source than other.
func (rc RowCol) Before(other RowCol) bool {
	return rc.Row < other.Row || (rc.Row == other.Row && rc.Col < other.Col)
}

func (rc RowCol) String() string {
	return fmt.Sprintf("%d:%d", rc.Row, rc.Col)
}

// Token represents a lexical token
type Token struct {
	Type       TokenType
	Len        uint16
	LineNr     uint32
	ColNr      uint32
	Val        []byte
	SourcePath string
}

// NewToken creates a new token
func NewToken(tokenType TokenType, line, col, length uint32, val []byte) Token {
	return Token{
		Type:   tokenType,
		Len:    uint16(length),
		LineNr: line,
		ColNr:  col,
		Val:    val,
	}
}

// IsEof checks if token is EOF
func (t Token) IsEof() bool {
	return t.Type == TokEof
}

// Text returns the lexeme.
func (t Token) Text() string {
	return string(t.Val)
}

// Spelling is the lexeme if there is one, the token type spelling otherwise.
// Used in diagnostics.
func (t Token) Spelling() string {
	if t.Type == TokEof {
		return "end of input"
	}
	if len(t.Val) > 0 {
		return string(t.Val)
	}
	return TokenTypeString(t.Type)
}

// ToRowCol converts token position to RowCol
func (t Token) ToRowCol() RowCol {
	return NewRowCol(t.LineNr, t.ColNr)
}

// TokenTypeFromString reads an operator or punctuation symbol at the start of
// str and returns its type and the number of bytes consumed.
func TokenTypeFromString(str []byte) (TokenType, int) {
	at := func(i int) byte {
		if i < len(str) {
			return str[i]
		}
		return 0
	}
	var res TokenType = TokInvalid
	i := 0

	switch at(0) {
	case '(':
		res = TokLpar
		i = 1
	case ')':
		res = TokRpar
		i = 1
	case '{':
		res = TokLbrace
		i = 1
	case '}':
		res = TokRbrace
		i = 1
	case ',':
		res = TokComma
		i = 1
	case '+':
		res = TokPlus
		i = 1
	case '-':
		res = TokMinus
		i = 1
	case '*':
		res = TokStar
		i = 1
	case '/':
		res = TokSlash
		i = 1
	case '^':
		res = TokHat
		i = 1
	case '~':
		res = TokTilde
		i = 1
	case '=':
		if at(1) == '=' {
			res = TokEqEq
			i = 2
		} else {
			res = TokEq
			i = 1
		}
	case '!':
		if at(1) == '=' {
			res = TokNeq
			i = 2
		} else {
			res = TokNot
			i = 1
		}
	case '<':
		if at(1) == '-' && at(2) == '>' {
			res = TokArrow
			i = 3
		} else if at(1) == '=' {
			res = TokLeq
			i = 2
		} else {
			res = TokLt
			i = 1
		}
	case '>':
		if at(1) == '=' {
			res = TokGeq
			i = 2
		} else {
			res = TokGt
			i = 1
		}
	case '&':
		if at(1) == '&' {
			res = TokAnd
			i = 2
		}
	case '|':
		if at(1) == '|' {
			res = TokOr
			i = 2
		}
	}

	if res == TokInvalid {
		return TokInvalid, 0
	}
	return res, i
}
