// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen7 emulates a multiplexed 4 digit, 8 segment LED display on
// the terminal using ANSI color codes.
//
// The digit and segment lines are virtual gpio.PinOut, so the real scan code
// in package sevseg drives them unchanged. A segment is seen lit when its
// segment line and its digit line are on at the same moment, which is what
// the eye integrates on the real display. The picture is redrawn each time
// the decimal point line, the last one scanned, turns off.
//
// Useful while the LED display is still on its way by mail.
package screen7

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"sync"

	"github.com/GermanBionicSystems/speedo/sevseg"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// rows is the height of a digit on the terminal.
const rows = 5

var (
	colorOn  = color.NRGBA{R: 255, A: 255}
	colorOff = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
)

// Opts represents the options available for this display.
type Opts struct {
	// W defaults to stdout.
	W       io.Writer
	Palette *ansi256.Palette
	// Polarity is the wiring the scan code drives.
	Polarity sevseg.Polarity
	// On and Off are the colors of lit and dark segments.
	On, Off color.Color

	_ struct{}
}

// Dev is a 7 segment display emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	pol     sevseg.Polarity
	on, off string

	mu       sync.Mutex
	digitOn  [sevseg.NumDigits]bool
	segOn    [sevseg.NumSegments]bool
	lit      sevseg.Frame
	last     sevseg.Frame
	frames   int
	buf      bytes.Buffer
	digits   [sevseg.NumDigits]gpio.PinOut
	segments [sevseg.NumSegments]gpio.PinOut
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	on, off := opts.On, opts.Off
	if on == nil {
		on = colorOn
	}
	if off == nil {
		off = colorOff
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	d := &Dev{
		w:   w,
		pol: opts.Polarity,
		on:  p.Block(color.NRGBAModel.Convert(on).(color.NRGBA)),
		off: p.Block(color.NRGBAModel.Convert(off).(color.NRGBA)),
	}
	for i := range d.digits {
		d.digits[i] = &line{dev: d, n: i, digit: true}
	}
	for i := range d.segments {
		d.segments[i] = &line{dev: d, n: i}
	}
	return d
}

// Digits returns the virtual digit lines, leftmost first.
func (d *Dev) Digits() [sevseg.NumDigits]gpio.PinOut {
	return d.digits
}

// Segments returns the virtual segment lines, A first and the decimal point
// last.
func (d *Dev) Segments() [sevseg.NumSegments]gpio.PinOut {
	return d.segments
}

// Frame returns the last picture drawn.
func (d *Dev) Frame() sevseg.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// Frames returns how many pictures have been drawn.
func (d *Dev) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

func (d *Dev) String() string {
	return "Screen7"
}

// Halt implements conn.Resource.
//
// It resets the colors so the terminal is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

func (d *Dev) set(digit bool, n int, l gpio.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if digit {
		on := l == d.pol.DigitOn()
		d.digitOn[n] = on
		if on {
			for s, segOn := range d.segOn {
				if segOn {
					d.lit[n][s] = true
				}
			}
		}
		return nil
	}
	was := d.segOn[n]
	on := l == d.pol.SegmentOn()
	d.segOn[n] = on
	if on {
		for i, digitOn := range d.digitOn {
			if digitOn {
				d.lit[i][n] = true
			}
		}
	}
	if was && !on && n == sevseg.NumSegments-1 {
		d.last = d.lit
		d.lit = sevseg.Frame{}
		d.frames++
		return d.refresh()
	}
	return nil
}

// cells maps the rows x 3 grid of a digit to the segments that light each
// cell.
var cells = [rows][3][]int{
	{{sevseg.SegA, sevseg.SegF}, {sevseg.SegA}, {sevseg.SegA, sevseg.SegB}},
	{{sevseg.SegF}, nil, {sevseg.SegB}},
	{{sevseg.SegE, sevseg.SegF, sevseg.SegG}, {sevseg.SegG}, {sevseg.SegB, sevseg.SegC, sevseg.SegG}},
	{{sevseg.SegE}, nil, {sevseg.SegC}},
	{{sevseg.SegD, sevseg.SegE}, {sevseg.SegD}, {sevseg.SegC, sevseg.SegD}},
}

func (d *Dev) block(lit bool) string {
	if lit {
		return d.on
	}
	return d.off
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	if d.frames > 1 {
		_, _ = fmt.Fprintf(&d.buf, "\033[%dA", rows)
	}
	for r := 0; r < rows; r++ {
		_, _ = d.buf.WriteString("\r\033[0m")
		for i := range d.last {
			for _, segs := range cells[r] {
				lit := false
				for _, s := range segs {
					lit = lit || d.last[i][s]
				}
				_, _ = d.buf.WriteString(d.block(lit))
			}
			_, _ = d.buf.WriteString(d.block(r == rows-1 && d.last[i][sevseg.SegDP]))
			_, _ = d.buf.WriteString("\033[0m ")
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

// line is one virtual display line.
type line struct {
	dev   *Dev
	n     int
	digit bool
}

func (l *line) Halt() error {
	return nil
}

func (l *line) Name() string {
	if l.digit {
		return fmt.Sprintf("Screen7_D%d", l.n)
	}
	return fmt.Sprintf("Screen7_S%c", "ABCDEFGP"[l.n])
}

func (l *line) Number() int {
	return l.n
}

// Deprecated: returns "Out"
func (l *line) Function() string {
	return "Out"
}

func (l *line) Out(level gpio.Level) error {
	return l.dev.set(l.digit, l.n, level)
}

func (l *line) PWM(duty gpio.Duty, f physic.Frequency) error {
	return fmt.Errorf("screen7: %s: PWM not supported", l)
}

func (l *line) String() string {
	return l.Name()
}

var _ conn.Resource = &Dev{}
var _ gpio.PinOut = &line{}
