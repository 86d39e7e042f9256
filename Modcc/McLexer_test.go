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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(toks []Token) []TokenType {
	res := make([]TokenType, len(toks))
	for i, t := range toks {
		res[i] = t.Type
	}
	return res
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		in    string
		types []TokenType
		texts []string
	}{
		{"42", []TokenType{TokInteger}, []string{"42"}},
		{"4.2", []TokenType{TokReal}, []string{"4.2"}},
		{"3.", []TokenType{TokReal}, []string{"3."}},
		{".5", []TokenType{TokReal}, []string{".5"}},
		{"3e2", []TokenType{TokReal}, []string{"3e2"}},
		{"1.23e-2", []TokenType{TokReal}, []string{"1.23e-2"}},
		{"7E+2", []TokenType{TokReal}, []string{"7E+2"}},
		{"4E", []TokenType{TokInteger, TokIdent}, []string{"4", "E"}},
		{"7E+F", []TokenType{TokInteger, TokIdent, TokPlus, TokIdent}, []string{"7", "E", "+", "F"}},
		{"3B3", []TokenType{TokInteger, TokIdent}, []string{"3", "B3"}},
		{"0.2A", []TokenType{TokReal, TokIdent}, []string{"0.2", "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			toks := NewLexer().Tokens(tt.in)
			require.Equal(t, tt.types, tokenTypes(toks))
			for i, tok := range toks {
				assert.Equal(t, tt.texts[i], tok.Text())
			}
		})
	}
}

func TestLexerOperators(t *testing.T) {
	toks := NewLexer().Tokens("( ) { } , + - * / ^ = == != < <= > >= <-> ~ && || !")
	assert.Equal(t, []TokenType{
		TokLpar, TokRpar, TokLbrace, TokRbrace, TokComma, TokPlus, TokMinus, TokStar,
		TokSlash, TokHat, TokEq, TokEqEq, TokNeq, TokLt, TokLeq, TokGt, TokGeq,
		TokArrow, TokTilde, TokAnd, TokOr, TokNot,
	}, tokenTypes(toks))

	assert.Equal(t, []TokenType{TokIdent, TokLt, TokMinus, TokIdent}, tokenTypes(NewLexer().Tokens("A <- B")))
	assert.Equal(t, []TokenType{TokIdent, TokMinus, TokGt, TokIdent}, tokenTypes(NewLexer().Tokens("A -> B")))
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	toks := NewLexer().Tokens("PROCEDURE if IF else ELSE exp min foo_1 m' LOCALS")
	assert.Equal(t, []TokenType{
		TokPROCEDURE, TokIF, TokIF, TokELSE, TokELSE, TokEXP, TokMIN, TokIdent, TokIdent, TokIdent,
	}, tokenTypes(toks))
	assert.Equal(t, "m'", toks[8].Text())
	assert.Equal(t, "LOCALS", toks[9].Text())
}

func TestLexerLocations(t *testing.T) {
	toks := NewLexer().Tokens("x = 2\n  y")
	require.Len(t, toks, 4)
	assert.Equal(t, RowCol{1, 1}, toks[0].ToRowCol())
	assert.Equal(t, RowCol{1, 3}, toks[1].ToRowCol())
	assert.Equal(t, RowCol{1, 5}, toks[2].ToRowCol())
	assert.Equal(t, RowCol{2, 3}, toks[3].ToRowCol())
	assert.Equal(t, "2:3", toks[3].ToRowCol().String())
}

func TestLexerComments(t *testing.T) {
	l := NewLexer()
	toks := l.Tokens("x : a comment\n? another one\ny ENDCOMMENT")
	assert.Equal(t, []TokenType{TokIdent, TokIdent, TokIdent}, tokenTypes(toks))

	toks = l.Tokens("a COMMENT\n stuff = 3 ! $\nENDCOMMENT b")
	require.Equal(t, []TokenType{TokIdent, TokIdent}, tokenTypes(toks))
	assert.Equal(t, "b", toks[1].Text())
	assert.Equal(t, uint32(3), toks[1].LineNr)
	assert.Equal(t, StatusHappy, l.Status())
}

func TestLexerUnterminatedComment(t *testing.T) {
	l := NewLexer()
	toks := l.Tokens("a COMMENT\n stuff\n")
	require.Equal(t, []TokenType{TokIdent, TokInvalid}, tokenTypes(toks))
	assert.Equal(t, StatusError, l.Status())
}

func TestLexerTitle(t *testing.T) {
	toks := NewLexer().Tokens("TITLE  Sodium channel : hh\nNEURON")
	require.Equal(t, []TokenType{TokTITLE, TokNEURON}, tokenTypes(toks))
	assert.Equal(t, "Sodium channel", toks[0].Text())
}

func TestLexerInvalidCharacter(t *testing.T) {
	l := NewLexer()
	toks := l.Tokens("x $ y")
	require.Equal(t, []TokenType{TokIdent, TokInvalid, TokIdent}, tokenTypes(toks))
	assert.Contains(t, toks[1].Text(), "unexpected character")
	assert.Equal(t, StatusError, l.Status())

	toks = l.Tokens("a \u00b5 b")
	require.Equal(t, []TokenType{TokIdent, TokInvalid, TokIdent}, tokenTypes(toks))
	assert.Equal(t, "unexpected character '\u00b5' (U+00B5)", toks[1].Text())
	assert.Equal(t, uint16(2), toks[1].Len)
	assert.Equal(t, uint32(6), toks[2].ColNr)

	// a new stream resets the status
	l.Tokens("x")
	assert.Equal(t, StatusHappy, l.Status())
}

func TestLexerSloc(t *testing.T) {
	l := NewLexer()
	l.Tokens("a b\n\n: only a comment\nc\r\n")
	assert.Equal(t, uint32(2), l.Sloc())
}

func TestLexerPeek(t *testing.T) {
	l := NewLexerFromBytes([]byte("a + b"), "x.mod")
	assert.Equal(t, TokPlus, l.Peek(2).Type)
	assert.Equal(t, TokIdent, l.Next().Type)
	assert.Equal(t, TokPlus, l.Next().Type)
	b := l.Next()
	assert.Equal(t, "b", b.Text())
	assert.Equal(t, "x.mod", b.SourcePath)
	assert.True(t, l.Next().IsEof())
	assert.True(t, l.Next().IsEof())
}

func TestLexerPeekCurrentAfterLookahead(t *testing.T) {
	l := NewLexerFromBytes([]byte("a + b"), "")
	assert.Equal(t, TokInvalid, l.Peek(0).Type)
	assert.Equal(t, "a", l.Next().Text())
	assert.Equal(t, "b", l.Peek(2).Text())
	assert.Equal(t, "a", l.Peek(0).Text())
	assert.Equal(t, TokPlus, l.Next().Type)
	assert.Equal(t, TokPlus, l.Peek(0).Type)
}

func TestTokenTypeTables(t *testing.T) {
	for tt := TokInvalid; tt < TTMax; tt++ {
		if tt == TTLiterals || tt == TTKeywords || tt == TTSpecials {
			continue
		}
		assert.NotEmpty(t, TokenTypeString(tt), "type %d", tt)
		assert.NotEqual(t, "TokUnknown", TokenTypeName(tt), "type %d", tt)
	}
	assert.Equal(t, "TokNET_RECEIVE", TokenTypeName(TokNET_RECEIVE))
	assert.True(t, TokenTypeIsKeyword(TokCONSERVE))
	assert.True(t, TokenTypeIsLiteral(TokArrow))
	assert.True(t, TokenTypeIsSpecial(TokReal))
}
