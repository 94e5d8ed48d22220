// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sevseg drives a 4 digit, 8 segment LED display wired for
// multiplexing: each segment line is shared by the four digits and each
// digit has a common line.
//
// Only one segment line is asserted at a time, against the common lines of
// every digit that lights it. Scanning the eight segment lines quickly and
// continuously lets persistence of vision show a stable four digit number.
// The hold time per segment line is the only brightness control; too short
// dims the display and too long makes it flicker.
//
// Decompose, Encode and Render turn a speed into a Frame without touching any
// pin, so the formatting can be used on its own.
package sevseg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Polarity is how the display is wired.
type Polarity uint8

const (
	// CommonCathode displays light a segment when its segment line is High
	// and its digit line is Low.
	CommonCathode Polarity = iota
	// CommonAnode displays light a segment when its segment line is Low and
	// its digit line is High.
	CommonAnode
)

func (p Polarity) String() string {
	if p == CommonAnode {
		return "CommonAnode"
	}
	return "CommonCathode"
}

// DigitOn returns the level that enables a digit's common line.
func (p Polarity) DigitOn() gpio.Level {
	return p == CommonAnode
}

// SegmentOn returns the level that drives a segment line.
func (p Polarity) SegmentOn() gpio.Level {
	return p == CommonCathode
}

// ErrInvalidOpts is returned by New when an option is out of range.
var ErrInvalidOpts = errors.New("sevseg: invalid options")

// Opts is the display configuration. It is fixed for the lifetime of a Dev.
type Opts struct {
	Polarity Polarity
	// Hold is how long each segment line stays asserted during a scan.
	Hold time.Duration
	// DecimalPlace is the position, counted from the right, that carries the
	// decimal point.
	DecimalPlace int
}

// DefaultOpts is a common cathode display showing hundredths.
var DefaultOpts = Opts{
	Polarity:     CommonCathode,
	Hold:         4 * time.Millisecond,
	DecimalPlace: 2,
}

// Source provides the value to display. *reedspeed.Timer implements it.
type Source interface {
	Speed() float32
}

// Dev is a multiplexed 7 segment display.
type Dev struct {
	digits   [NumDigits]gpio.PinOut
	segments [NumSegments]gpio.PinOut
	opts     Opts

	digitOn, digitOff gpio.Level
	segOn, segOff     gpio.Level

	delay func(time.Duration)
}

// New returns a Dev driving the digit and segment lines.
//
// digits are the common lines from left to right. segments are the A to G
// lines followed by the decimal point. Every line is driven off before New
// returns.
func New(digits [NumDigits]gpio.PinOut, segments [NumSegments]gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	if opts.Hold < 0 {
		return nil, fmt.Errorf("%w: hold %s", ErrInvalidOpts, opts.Hold)
	}
	if opts.DecimalPlace < 0 || opts.DecimalPlace >= NumDigits {
		return nil, fmt.Errorf("%w: decimal place %d", ErrInvalidOpts, opts.DecimalPlace)
	}
	for i, p := range digits {
		if p == nil {
			return nil, fmt.Errorf("%w: digit line %d missing", ErrInvalidOpts, i)
		}
	}
	for i, p := range segments {
		if p == nil {
			return nil, fmt.Errorf("%w: segment line %d missing", ErrInvalidOpts, i)
		}
	}
	d := &Dev{
		digits:   digits,
		segments: segments,
		opts:     *opts,
		digitOn:  opts.Polarity.DigitOn(),
		digitOff: !opts.Polarity.DigitOn(),
		segOn:    opts.Polarity.SegmentOn(),
		segOff:   !opts.Polarity.SegmentOn(),
		delay:    spin,
	}
	if err := d.Halt(); err != nil {
		return nil, err
	}
	return d, nil
}

// spin busy-waits for d. The hold must not yield to the scheduler.
func spin(d time.Duration) {
	for start := time.Now(); time.Since(start) < d; {
	}
}

func (d *Dev) out(p gpio.PinOut, l gpio.Level) error {
	if err := p.Out(l); err != nil {
		return fmt.Errorf("sevseg: %s: %w", p, err)
	}
	return nil
}

// Scan shows f once: every segment line is asserted in turn, for Hold,
// against the digits that light it.
func (d *Dev) Scan(f *Frame) error {
	for s, seg := range d.segments {
		if err := d.out(seg, d.segOn); err != nil {
			return err
		}
		for i, dig := range d.digits {
			if f[i][s] {
				if err := d.out(dig, d.digitOn); err != nil {
					return err
				}
			}
		}
		d.delay(d.opts.Hold)
		for _, dig := range d.digits {
			if err := d.out(dig, d.digitOff); err != nil {
				return err
			}
		}
		if err := d.out(seg, d.segOff); err != nil {
			return err
		}
	}
	return nil
}

// Pass reads src once and scans the resulting frame.
func (d *Dev) Pass(src Source) error {
	f := Render(src.Speed(), d.opts.DecimalPlace)
	return d.Scan(&f)
}

// Run repeats Pass until ctx is done or a line fails to be driven.
//
// There is no idle time between passes; ctx is only polled between them.
func (d *Dev) Run(ctx context.Context, src Source) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Pass(src); err != nil {
			return err
		}
	}
}

// Halt implements conn.Resource.
//
// It turns every line off.
func (d *Dev) Halt() error {
	for _, p := range d.digits {
		if err := d.out(p, d.digitOff); err != nil {
			return err
		}
	}
	for _, p := range d.segments {
		if err := d.out(p, d.segOff); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("sevseg{%s, hold: %s}", d.opts.Polarity, d.opts.Hold)
}

var _ conn.Resource = &Dev{}
