// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sevseg

import "strconv"

const (
	// NumDigits is the number of digit positions on the display.
	NumDigits = 4
	// NumSegments is the number of segment lines per digit, including the
	// decimal point.
	NumSegments = 8
)

// Segment line indexes. SegA to SegG follow the conventional layout: A at
// the top, then clockwise, G in the middle.
const (
	SegA = iota
	SegB
	SegC
	SegD
	SegE
	SegF
	SegG
	SegDP
)

// Kind is the variant of a Glyph.
type Kind uint8

const (
	KindDigit Kind = iota
	KindBlank
	KindMinus
	KindError
)

// Glyph is what a single digit position shows.
type Glyph struct {
	kind  Kind
	digit uint8
}

var (
	// Blank turns every segment off.
	Blank = Glyph{kind: KindBlank}
	// Minus lights the middle segment only. Four of them mean out of range.
	Minus = Glyph{kind: KindMinus}
	// ErrorGlyph is shown for values that cannot be represented.
	ErrorGlyph = Glyph{kind: KindError}
)

// Legacy integer codes.
const (
	CodeBlank = 20
	CodeMinus = 21
	CodeError = 22
)

// Digit returns the glyph for n. Values outside 0-9 give ErrorGlyph.
func Digit(n int) Glyph {
	if n < 0 || n > 9 {
		return ErrorGlyph
	}
	return Glyph{kind: KindDigit, digit: uint8(n)}
}

// GlyphFromCode maps the integer digit codes: 0-9, 20 for blank and 21 for
// minus. Any other code is ErrorGlyph.
func GlyphFromCode(c int) Glyph {
	switch {
	case c >= 0 && c <= 9:
		return Digit(c)
	case c == CodeBlank:
		return Blank
	case c == CodeMinus:
		return Minus
	default:
		return ErrorGlyph
	}
}

// Kind returns the variant of g.
func (g Glyph) Kind() Kind {
	return g.kind
}

// Value returns the digit value and true if g is a digit.
func (g Glyph) Value() (int, bool) {
	return int(g.digit), g.kind == KindDigit
}

// Code returns the integer digit code of g.
func (g Glyph) Code() int {
	switch g.kind {
	case KindDigit:
		return int(g.digit)
	case KindBlank:
		return CodeBlank
	case KindMinus:
		return CodeMinus
	default:
		return CodeError
	}
}

func (g Glyph) String() string {
	switch g.kind {
	case KindDigit:
		return strconv.Itoa(int(g.digit))
	case KindBlank:
		return " "
	case KindMinus:
		return "-"
	default:
		return "E"
	}
}

//	   AAA
//	  F   B
//	   GGG
//	  E   C
//	   DDD
var digitPatterns = [10][7]bool{
	//  A      B      C      D      E      F      G
	{true, true, true, true, true, true, false},     // 0
	{false, true, true, false, false, false, false}, // 1
	{true, true, false, true, true, false, true},    // 2
	{true, true, true, true, false, false, true},     // 3
	{false, true, true, false, false, true, true},   // 4
	{true, false, true, true, false, true, true},    // 5
	{true, false, true, true, true, true, true},     // 6
	{true, true, true, false, false, false, false},  // 7
	{true, true, true, true, true, true, true},      // 8
	{true, true, true, true, false, true, true},     // 9
}

// Pattern returns the A-G segments lit for g.
func Pattern(g Glyph) [7]bool {
	switch g.kind {
	case KindDigit:
		if g.digit <= 9 {
			return digitPatterns[g.digit]
		}
	case KindBlank:
		return [7]bool{}
	case KindMinus:
		return [7]bool{SegG: true}
	}
	// A lower case "o": C, D, E and G.
	return [7]bool{SegC: true, SegD: true, SegE: true, SegG: true}
}

// Frame is one full picture of the display: Frame[digit][segment] is true
// when that segment is lit. Digit 0 is the leftmost position.
type Frame [NumDigits][NumSegments]bool

// Decompose splits v into the glyphs shown for it.
//
// A negative value reserves the leftmost position for a minus sign. Values
// that do not fit (above 9999, or below -999) show four dashes; NaN shows
// four error glyphs. The magnitude is truncated to an integer.
// decimalPlace only controls leading-zero suppression here: zeros are
// blanked from the left while their distance from the right is greater than
// decimalPlace, and the units position is always kept.
func Decompose(v float32, decimalPlace int) [NumDigits]Glyph {
	var g [NumDigits]Glyph
	if v != v {
		for i := range g {
			g[i] = ErrorGlyph
		}
		return g
	}
	neg := v < 0
	if neg {
		v = -v
	}
	if (!neg && v > 9999) || (neg && v > 999) {
		for i := range g {
			g[i] = Minus
		}
		return g
	}

	m := int(v)
	first := 0
	if neg {
		g[0] = Minus
		first = 1
	} else {
		g[0] = Digit(m / 1000)
	}
	g[1] = Digit(m / 100 % 10)
	g[2] = Digit(m / 10 % 10)
	g[3] = Digit(m % 10)

	for i := first; i < NumDigits-1; i++ {
		if NumDigits-1-i <= decimalPlace || g[i] != Digit(0) {
			break
		}
		g[i] = Blank
	}
	return g
}

// Encode builds the frame for glyphs. The decimal point is lit on the digit
// whose distance from the right equals decimalPlace.
func Encode(glyphs [NumDigits]Glyph, decimalPlace int) Frame {
	var f Frame
	for d, g := range glyphs {
		p := Pattern(g)
		copy(f[d][:SegDP], p[:])
		f[d][SegDP] = NumDigits-1-d == decimalPlace
	}
	return f
}

// Render is Decompose followed by Encode.
func Render(v float32, decimalPlace int) Frame {
	return Encode(Decompose(v, decimalPlace), decimalPlace)
}
