// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sevseg

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	b = Blank
	m = Minus
	e = ErrorGlyph
)

func d(n int) Glyph { return Digit(n) }

func TestDecompose(t *testing.T) {
	for _, tc := range []struct {
		name string
		v    float32
		dp   int
		want [NumDigits]Glyph
	}{
		{"zero", 0, 2, [4]Glyph{b, d(0), d(0), d(0)}},
		{"seven", 7, 2, [4]Glyph{b, d(0), d(0), d(7)}},
		{"forty five", 45, 2, [4]Glyph{b, d(0), d(4), d(5)}},
		{"fraction truncated", 45.99, 2, [4]Glyph{b, d(0), d(4), d(5)}},
		{"four digits", 1234, 2, [4]Glyph{d(1), d(2), d(3), d(4)}},
		{"inner zeros", 1005, 0, [4]Glyph{d(1), d(0), d(0), d(5)}},
		{"max", 9999, 2, [4]Glyph{d(9), d(9), d(9), d(9)}},
		{"overflow", 12345, 2, [4]Glyph{m, m, m, m}},
		{"just above max", 9999.5, 2, [4]Glyph{m, m, m, m}},
		{"dp 0 zero", 0, 0, [4]Glyph{b, b, b, d(0)}},
		{"dp 0 seven", 7, 0, [4]Glyph{b, b, b, d(7)}},
		{"dp 0 seventy", 70, 0, [4]Glyph{b, b, d(7), d(0)}},
		{"dp 1", 7, 1, [4]Glyph{b, b, d(0), d(7)}},
		{"dp 3", 7, 3, [4]Glyph{d(0), d(0), d(0), d(7)}},
		{"negative", -5, 0, [4]Glyph{m, b, b, d(5)}},
		{"negative dp 2", -5, 2, [4]Glyph{m, d(0), d(0), d(5)}},
		{"negative dp 1", -5, 1, [4]Glyph{m, b, d(0), d(5)}},
		{"negative max", -999, 2, [4]Glyph{m, d(9), d(9), d(9)}},
		{"negative overflow", -1000, 2, [4]Glyph{m, m, m, m}},
		{"inf", float32(math.Inf(1)), 2, [4]Glyph{m, m, m, m}},
		{"negative inf", float32(math.Inf(-1)), 2, [4]Glyph{m, m, m, m}},
		{"nan", float32(math.NaN()), 2, [4]Glyph{e, e, e, e}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Decompose(tc.v, tc.dp)
			if diff := cmp.Diff(glyphStrings(got), glyphStrings(tc.want)); diff != "" {
				t.Errorf("Decompose(%g, %d) difference (-got +want):\n%s", tc.v, tc.dp, diff)
			}
		})
	}
}

func glyphStrings(g [NumDigits]Glyph) []string {
	s := make([]string, len(g))
	for i := range g {
		s[i] = g[i].String()
	}
	return s
}

func TestDecomposeReassemble(t *testing.T) {
	for dp := 0; dp < NumDigits; dp++ {
		for want := 0; want <= 9999; want++ {
			got := 0
			for _, g := range Decompose(float32(want), dp) {
				n, ok := g.Value()
				if !ok && g != Blank {
					t.Fatalf("Decompose(%d, %d) returned %v", want, dp, g)
				}
				got = got*10 + n
			}
			if got != want {
				t.Fatalf("Decompose(%d, %d) reassembles to %d", want, dp, got)
			}
		}
	}
}

func TestUnitsNeverBlank(t *testing.T) {
	for dp := 0; dp < NumDigits; dp++ {
		for _, v := range []float32{0, 1, 10, -1, -10, 0.5} {
			if g := Decompose(v, dp)[NumDigits-1]; g == Blank {
				t.Errorf("Decompose(%g, %d) blanked the units", v, dp)
			}
		}
	}
}

func TestPatterns(t *testing.T) {
	seen := map[[7]bool]string{}
	glyphs := []Glyph{Blank, Minus, ErrorGlyph}
	for n := 0; n < 10; n++ {
		glyphs = append(glyphs, Digit(n))
	}
	for _, g := range glyphs {
		p := Pattern(g)
		if other, ok := seen[p]; ok {
			t.Errorf("glyph %q has the same pattern as %q", g, other)
		}
		seen[p] = g.String()
	}
	if diff := cmp.Diff(Pattern(Digit(8)), [7]bool{true, true, true, true, true, true, true}); diff != "" {
		t.Errorf("Pattern(8) difference (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(Pattern(Digit(1)), [7]bool{SegB: true, SegC: true}); diff != "" {
		t.Errorf("Pattern(1) difference (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(Pattern(Minus), [7]bool{SegG: true}); diff != "" {
		t.Errorf("Pattern(-) difference (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(Pattern(Blank), [7]bool{}); diff != "" {
		t.Errorf("Pattern(blank) difference (-got +want):\n%s", diff)
	}
}

func TestGlyphCodes(t *testing.T) {
	for c := -5; c < 40; c++ {
		g := GlyphFromCode(c)
		want := ErrorGlyph
		switch {
		case c >= 0 && c <= 9:
			want = Digit(c)
		case c == 20:
			want = Blank
		case c == 21:
			want = Minus
		}
		if g != want {
			t.Errorf("GlyphFromCode(%d) = %v, want %v", c, g, want)
		}
		if g != ErrorGlyph && g.Code() != c {
			t.Errorf("GlyphFromCode(%d).Code() = %d", c, g.Code())
		}
		if g == ErrorGlyph && Pattern(g) != Pattern(ErrorGlyph) {
			t.Errorf("code %d does not use the error pattern", c)
		}
	}
	if g := Digit(10); g != ErrorGlyph {
		t.Errorf("Digit(10) = %v", g)
	}
	if k := Minus.Kind(); k != KindMinus {
		t.Errorf("Minus.Kind() = %d", k)
	}
}

func TestEncodeDecimalPoint(t *testing.T) {
	for dp := 0; dp < NumDigits; dp++ {
		f := Encode(Decompose(1234, dp), dp)
		for i := range f {
			if want := i == NumDigits-1-dp; f[i][SegDP] != want {
				t.Errorf("dp %d: digit %d decimal point = %t", dp, i, f[i][SegDP])
			}
		}
	}
	f := Encode(Decompose(1234, 2), 7)
	for i := range f {
		if f[i][SegDP] {
			t.Errorf("decimal point lit on digit %d for an out of range place", i)
		}
	}
}

func TestRenderSpeed(t *testing.T) {
	f := Render(45, 2)
	var want Frame
	copy(want[1][:SegDP], digitPatterns[0][:])
	copy(want[2][:SegDP], digitPatterns[4][:])
	copy(want[3][:SegDP], digitPatterns[5][:])
	want[1][SegDP] = true
	if diff := cmp.Diff(f, want); diff != "" {
		t.Errorf("Render(45, 2) difference (-got +want):\n%s", diff)
	}
}
