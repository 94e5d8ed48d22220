// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package segimage draws a 7 segment display frame as an image, for
// snapshots of what the display shows.
package segimage

import (
	"image"
	"image/color"
	"io"

	"github.com/GermanBionicSystems/speedo/sevseg"
	"github.com/fogleman/gg"
)

// Opts controls the look of the picture.
type Opts struct {
	// Scale is the size in pixels of one layout unit. A digit is 6 units
	// wide and 10 high.
	Scale      float64
	On, Off    color.Color
	Background color.Color
}

// DefaultOpts draws red segments on black.
var DefaultOpts = Opts{
	Scale:      8,
	On:         color.NRGBA{R: 255, A: 255},
	Off:        color.NRGBA{R: 48, G: 16, B: 16, A: 255},
	Background: color.Black,
}

const (
	margin = 1.
	pitch  = 8.
	height = 10.
)

type rect struct{ x, y, w, h float64 }

// segRects are the A to G bars, relative to the top left of a digit.
var segRects = [7]rect{
	{1, 0, 4, 1},   // A
	{5, 1, 1, 4},   // B
	{5, 5, 1, 4},   // C
	{1, 9, 4, 1},   // D
	{0, 5, 1, 4},   // E
	{0, 1, 1, 4},   // F
	{1, 4.5, 4, 1}, // G
}

// Decimal point center and radius.
const dpX, dpY, dpR = 6.75, 9.5, 0.5

// Size returns the picture size for opts.
func Size(opts *Opts) image.Point {
	return image.Pt(
		int((margin+pitch*sevseg.NumDigits)*opts.Scale),
		int((2*margin+height)*opts.Scale),
	)
}

// Draw returns a picture of f.
func Draw(f *sevseg.Frame, opts *Opts) image.Image {
	if opts == nil {
		opts = &DefaultOpts
	}
	sz := Size(opts)
	dc := gg.NewContext(sz.X, sz.Y)
	dc.SetColor(opts.Background)
	dc.Clear()
	s := opts.Scale
	for i := range f {
		ox := margin + pitch*float64(i)
		for seg, r := range segRects {
			dc.SetColor(pick(f[i][seg], opts))
			dc.DrawRectangle((ox+r.x)*s, (margin+r.y)*s, r.w*s, r.h*s)
			dc.Fill()
		}
		dc.SetColor(pick(f[i][sevseg.SegDP], opts))
		dc.DrawCircle((ox+dpX)*s, (margin+dpY)*s, dpR*s)
		dc.Fill()
	}
	return dc.Image()
}

func pick(lit bool, opts *Opts) color.Color {
	if lit {
		return opts.On
	}
	return opts.Off
}

// WritePNG encodes a picture of f as PNG to w.
func WritePNG(w io.Writer, f *sevseg.Frame, opts *Opts) error {
	return gg.NewContextForImage(Draw(f, opts)).EncodePNG(w)
}
