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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// Status is the healthy/error state of one lexer or parser instance.
// Once it has flipped to StatusError it stays there.
type Status int

const (
	StatusHappy Status = iota
	StatusError
)

func (s Status) String() string {
	if s == StatusHappy {
		return "happy"
	}
	return "error"
}

// Scanner is the token source the parser pulls from.
type Scanner interface {
	Next() Token
	Peek(offset int) Token
	Source() string
}

// Lexer implements Scanner over a line buffered reader.
type Lexer struct {
	sloc        uint32
	lineNr      uint32
	colNr       uint32
	sourcePath  string
	line        []byte
	buffer      []Token
	current     Token
	lineCounted bool
	eof         bool
	status      Status
	reader      *bufio.Reader
}

func NewLexer() *Lexer {
	return &Lexer{}
}

// NewLexerFromBytes creates a lexer reading code; path is only used in locations.
func NewLexerFromBytes(code []byte, path string) *Lexer {
	l := NewLexer()
	l.SetStream(bytes.NewReader(code), path)
	return l
}

// SetStream sets the input stream and source path and resets all state.
func (l *Lexer) SetStream(input io.Reader, sourcePath string) {
	l.reader = bufio.NewReader(input)
	l.lineNr = 0
	l.colNr = 0
	l.line = nil
	l.sourcePath = sourcePath
	l.current = NewToken(TokInvalid, 0, 0, 0, nil)
	l.sloc = 0
	l.lineCounted = false
	l.eof = false
	l.status = StatusHappy
	l.buffer = l.buffer[:0]
}

// SetStreamFromFile opens a file and sets it as input
func (l *Lexer) SetStreamFromFile(sourcePath string) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return err
	}
	l.SetStream(bytes.NewReader(data), sourcePath)
	return nil
}

func (l *Lexer) Next() Token {
	if len(l.buffer) > 0 {
		l.current = l.buffer[0]
		l.buffer = l.buffer[1:]
	} else {
		l.current = l.nextTokenImp()
	}
	return l.current
}

// Peek returns the token offset positions ahead without consuming it;
// Peek(0) is the token most recently returned by Next.
func (l *Lexer) Peek(offset int) Token {
	if offset <= 0 {
		return l.current
	}
	for len(l.buffer) < offset {
		l.buffer = append(l.buffer, l.nextTokenImp())
	}
	return l.buffer[offset-1]
}

func (l *Lexer) Source() string {
	return l.sourcePath
}

// Status reports whether an invalid character or literal has been seen.
func (l *Lexer) Status() Status {
	return l.status
}

// Sloc returns the number of source lines carrying at least one token.
func (l *Lexer) Sloc() uint32 {
	return l.sloc
}

// Tokens tokenizes code and returns all tokens up to, not including, Eof.
// Invalid tokens are included.
func (l *Lexer) Tokens(code string) []Token {
	return l.TokensFromBytes([]byte(code), "")
}

func (l *Lexer) TokensFromBytes(code []byte, path string) []Token {
	l.SetStream(bytes.NewReader(code), path)
	var tokens []Token
	for {
		t := l.Next()
		if t.IsEof() {
			break
		}
		tokens = append(tokens, t)
	}
	return tokens
}

func (l *Lexer) nextTokenImp() Token {
	if l.reader == nil {
		return l.makeToken(TokEof, 0, nil)
	}
	for {
		l.skipWhiteSpace()
		for l.colNr >= uint32(len(l.line)) {
			if l.isAtEnd() {
				return l.makeToken(TokEof, 0, nil)
			}
			l.nextLine()
			l.skipWhiteSpace()
		}

		ch := l.line[l.colNr]
		switch {
		case ch == ':' || ch == '?':
			// comment to end of line
			l.colNr = uint32(len(l.line))
			continue
		case isAlpha(ch) || ch == '_':
			t, skipped := l.parseIdent()
			if skipped {
				continue
			}
			return t
		case isDigit(ch) || (ch == '.' && isDigit(l.lookAhead(1))):
			return l.parseNumber()
		}

		tokenType, consumed := TokenTypeFromString(l.line[l.colNr:])
		if tokenType == TokInvalid {
			l.status = StatusError
			r, size := utf8.DecodeRune(l.line[l.colNr:])
			return l.makeToken(TokInvalid, size, []byte(fmt.Sprintf("unexpected character '%c' (%U)", r, r)))
		}
		return l.makeToken(tokenType, consumed, l.line[l.colNr:l.colNr+uint32(consumed)])
	}
}

func (l *Lexer) skipWhiteSpace() {
	for l.colNr < uint32(len(l.line)) && isSpace(l.line[l.colNr]) {
		l.colNr++
	}
}

func (l *Lexer) nextLine() {
	l.colNr = 0
	l.lineNr++
	l.lineCounted = false

	line, err := l.reader.ReadBytes('\n')
	if err != nil {
		l.eof = true
		if err != io.EOF {
			l.line = nil
			return
		}
	}
	l.line = bytes.TrimRight(line, "\r\n")
}

func (l *Lexer) isAtEnd() bool {
	if l.eof || l.reader == nil {
		return true
	}
	_, err := l.reader.Peek(1)
	return err != nil
}

func (l *Lexer) lookAhead(off int) byte {
	pos := int(l.colNr) + off
	if pos < len(l.line) {
		return l.line[pos]
	}
	return 0
}

func (l *Lexer) countLine() {
	if !l.lineCounted {
		l.lineCounted = true
		l.sloc++
	}
}

func (l *Lexer) makeToken(tokenType TokenType, length int, val []byte) Token {
	if tokenType != TokInvalid && tokenType != TokEof {
		l.countLine()
	}
	var tokenVal []byte
	if len(val) > 0 {
		tokenVal = make([]byte, len(val))
		copy(tokenVal, val)
	}
	t := NewToken(tokenType, l.lineNr, l.colNr+1, uint32(length), tokenVal)
	t.SourcePath = l.sourcePath
	l.colNr += uint32(length)
	return t
}

// parseIdent reads an identifier or keyword. skipped is true when the word
// opened a COMMENT block which has been consumed.
func (l *Lexer) parseIdent() (Token, bool) {
	start := l.colNr
	pos := start + 1
	for pos < uint32(len(l.line)) && (isAlnum(l.line[pos]) || l.line[pos] == '_') {
		pos++
	}
	for pos < uint32(len(l.line)) && l.line[pos] == '\'' {
		pos++
	}
	str := l.line[start:pos]

	switch string(str) {
	case "COMMENT":
		return l.skipBlock(len(str), "ENDCOMMENT")
	case "VERBATIM":
		return l.skipBlock(len(str), "ENDVERBATIM")
	}

	if tokenType, ok := KeywordFromString(str); ok {
		if tokenType == TokTITLE {
			return l.parseTitle(), false
		}
		return l.makeToken(tokenType, len(str), str), false
	}
	return l.makeToken(TokIdent, len(str), str), false
}

// skipBlock consumes everything up to and including the end marker, which
// may be on a later line.
func (l *Lexer) skipBlock(begin int, end string) (Token, bool) {
	startLine, startCol := l.lineNr, l.colNr
	marker := []byte(end)
	l.colNr += uint32(begin)
	for {
		if i := bytes.Index(l.line[l.colNr:], marker); i >= 0 {
			l.colNr += uint32(i + len(marker))
			return Token{}, true
		}
		if l.isAtEnd() {
			l.colNr = uint32(len(l.line))
			l.status = StatusError
			t := NewToken(TokInvalid, startLine, startCol+1, uint32(len(end)), []byte("unterminated block, "+end+" expected"))
			t.SourcePath = l.sourcePath
			return t, false
		}
		l.nextLine()
	}
}

// parseTitle makes a TITLE token whose value is the rest of the line.
func (l *Lexer) parseTitle() Token {
	rest := l.line[l.colNr+uint32(len("TITLE")):]
	if i := bytes.IndexByte(rest, ':'); i >= 0 {
		rest = rest[:i]
	}
	t := l.makeToken(TokTITLE, len("TITLE"), bytes.TrimSpace(rest))
	l.colNr = uint32(len(l.line))
	return t
}

// parseNumber reads digits, an optional fraction and an optional exponent.
// The exponent marker belongs to the number only if digits follow it.
func (l *Lexer) parseNumber() Token {
	start := l.colNr
	pos := start
	isReal := false
	for pos < uint32(len(l.line)) && isDigit(l.line[pos]) {
		pos++
	}
	if pos < uint32(len(l.line)) && l.line[pos] == '.' {
		isReal = true
		pos++
		for pos < uint32(len(l.line)) && isDigit(l.line[pos]) {
			pos++
		}
	}
	if pos < uint32(len(l.line)) && (l.line[pos] == 'e' || l.line[pos] == 'E') {
		exp := pos + 1
		if exp < uint32(len(l.line)) && (l.line[exp] == '+' || l.line[exp] == '-') {
			exp++
		}
		if exp < uint32(len(l.line)) && isDigit(l.line[exp]) {
			isReal = true
			pos = exp
			for pos < uint32(len(l.line)) && isDigit(l.line[pos]) {
				pos++
			}
		}
	}
	str := l.line[start:pos]
	if isReal {
		return l.makeToken(TokReal, len(str), str)
	}
	return l.makeToken(TokInteger, len(str), str)
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlnum(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v'
}
