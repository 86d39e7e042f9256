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

func TestParseStoichTerm(t *testing.T) {
	positive := []struct {
		in      string
		coeff   int64
		species string
	}{
		{"B", 1, "B"},
		{"B3", 1, "B3"},
		{"3B3", 3, "B3"},
		{"0A", 0, "A"},
		{"12A", 12, "A"},
		{"4E", 4, "E"},
	}
	for _, tt := range positive {
		s, err := NewParserFromString(tt.in).ParseStoichTerm()
		require.NoError(t, err, tt.in)
		assert.False(t, s.Negative, tt.in)
		assert.Equal(t, tt.coeff, s.Coeff, tt.in)
		assert.Equal(t, tt.species, s.Species.Name, tt.in)
	}

	negative := []struct {
		in    string
		coeff int64
	}{
		{"-3B3", 3},
		{"-A", 1},
		{"-12A", 12},
	}
	for _, tt := range negative {
		s, err := NewParserFromString(tt.in).ParseStoichTerm()
		require.NoError(t, err, tt.in)
		assert.True(t, s.Negative, tt.in)
		assert.Equal(t, tt.coeff, s.Coeff, tt.in)
		assert.Equal(t, -tt.coeff, s.SignedCoeff(), tt.in)
	}

	for _, in := range []string{"0.2A", "5", "3e2"} {
		p := NewParserFromString(in)
		s, err := p.ParseStoichTerm()
		assert.Error(t, err, in)
		assert.Nil(t, s, in)
		assert.Equal(t, StatusError, p.Status(), in)
	}
}

func TestParseStoichExpression(t *testing.T) {
	for _, in := range []string{"B", "B3", "3xy"} {
		s, err := NewParserFromString(in).ParseStoichExpression()
		require.NoError(t, err, in)
		assert.Len(t, s.Terms, 1, in)
	}
	for _, in := range []string{"B+A", "a1 + 2bn", "4c+d"} {
		s, err := NewParserFromString(in).ParseStoichExpression()
		require.NoError(t, err, in)
		assert.Len(t, s.Terms, 2, in)
	}
	for _, in := range []string{"", "a+b+c", "1a-2b+3c+4d"} {
		_, err := NewParserFromString(in).ParseStoichExpression()
		assert.NoError(t, err, in)
	}

	s, err := NewParserFromString("-3a+2b-c+d").ParseStoichExpression()
	require.NoError(t, err)
	require.Len(t, s.Terms, 4)
	var coeffs []int64
	for _, term := range s.Terms {
		coeffs = append(coeffs, term.SignedCoeff())
	}
	assert.Equal(t, []int64{-3, 2, -1, 1}, coeffs)
	assert.Equal(t, "-3a + 2b - c + d", s.String())

	for _, in := range []string{"A+B+", "A+5+B"} {
		_, err := NewParserFromString(in).ParseStoichExpression()
		assert.Error(t, err, in)
	}
}

func TestParseReaction(t *testing.T) {
	good := []string{
		"~ A + B <-> C + D (k1, k2)",
		"~ 2B <-> C + D + E (k1(3,v), k2)",
		"~ <-> C + D + 7 E (k1, f(a,b)-2)",
		"~ <-> C + D + 7E+F (k1, f(a,b)-2)",
		"~ <-> (f,g)",
		"~ A + 3B + C<-> (f,g)",
	}
	for _, in := range good {
		r, err := NewParserFromString(in).ParseReaction()
		require.NoError(t, err, in)
		assert.NotNil(t, r.Fwd, in)
		assert.NotNil(t, r.Rev, in)
	}

	bad := []string{
		"~ A + B <-> C + D (k1, k2, k3)",
		"~ A + B <-> C + D (k1)",
		"~ A + B <-> C + (k1, k2)",
		"~ 2.3B <-> C + D + E (k1(3,v), k2)",
		"~ <-> C + D + 7E",
		"~ <-> C + D + 7E+2F (k1, f(a,b)-2)",
		"~ <-> (,g)",
		"~ A - 3B + C<-> (f,g)",
		"  A <-> B (k1, k2)",
		"~ A <- B (k1)",
		"~ A -> B (k2)",
	}
	for _, in := range bad {
		p := NewParserFromString(in)
		r, err := p.ParseReaction()
		assert.Error(t, err, in)
		assert.Nil(t, r, in)
		assert.Equal(t, StatusError, p.Status(), in)
	}
}

func TestReactionShape(t *testing.T) {
	r, err := NewParserFromString("~ 2B <-> C + D + E (k1(3,v), k2)").ParseReaction()
	require.NoError(t, err)
	require.Len(t, r.Lhs.Terms, 1)
	assert.Equal(t, int64(2), r.Lhs.Terms[0].Coeff)
	assert.Len(t, r.Rhs.Terms, 3)
	call, ok := r.Fwd.(*CallExpr)
	require.True(t, ok)
	assert.Equal(t, "k1", call.Callee)

	r, err = NewParserFromString("~ <-> (f,g)").ParseReaction()
	require.NoError(t, err)
	assert.Empty(t, r.Lhs.Terms)
	assert.Empty(t, r.Rhs.Terms)
}

func TestParseConserve(t *testing.T) {
	c, err := NewParserFromString("CONSERVE a + b = 1").ParseConserve()
	require.NoError(t, err)
	assert.Len(t, c.Lhs.Terms, 2)
	assert.IsType(t, &IntegerExpr{}, c.Rhs)

	c, err = NewParserFromString("CONSERVE a = 1.23e-2").ParseConserve()
	require.NoError(t, err)
	assert.Len(t, c.Lhs.Terms, 1)
	assert.IsType(t, &RealExpr{}, c.Rhs)

	c, err = NewParserFromString("CONSERVE = 0").ParseConserve()
	require.NoError(t, err)
	assert.Empty(t, c.Lhs.Terms)
	assert.IsType(t, &IntegerExpr{}, c.Rhs)

	c, err = NewParserFromString("CONSERVE -2a + b -c = foo*2.3-bar").ParseConserve()
	require.NoError(t, err)
	require.Len(t, c.Lhs.Terms, 3)
	var coeffs []int64
	for _, term := range c.Lhs.Terms {
		coeffs = append(coeffs, term.SignedCoeff())
	}
	assert.Equal(t, []int64{-2, 1, -1}, coeffs)
	assert.IsType(t, &BinaryExpr{}, c.Rhs)

	bad := []string{
		"CONSERVE a + 3*b -c = 1",
		"CONSERVE a + 3b -c = ",
		"a+b+c = 2",
		"CONSERVE a + 3b +c",
	}
	for _, in := range bad {
		p := NewParserFromString(in)
		c, err := p.ParseConserve()
		assert.Error(t, err, in)
		assert.Nil(t, c, in)
	}
}
