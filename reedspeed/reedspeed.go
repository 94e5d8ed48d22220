// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package reedspeed

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// ErrInvalidOpts is returned by New when an option is out of range.
var ErrInvalidOpts = errors.New("reedspeed: invalid options")

// Opts describes the tick rate, the debounce and staleness windows and the
// calibration of the wheel.
//
// MaxDebounce and StaleTicks are expressed in ticks of Rate. Calibration
// folds the inch to km conversion together with the tick period: with a
// 1 kHz tick, 1 inch per tick is 91.44 km/h. It has to be re-derived when
// Rate changes.
type Opts struct {
	// Rate is the tick frequency used by Run.
	Rate physic.Frequency
	// MaxDebounce is the number of ticks after an edge during which further
	// closures are ignored.
	MaxDebounce int
	// StaleTicks is the number of ticks without an edge after which the speed
	// is forced to zero.
	StaleTicks int
	// Calibration converts inches per tick to km/h.
	Calibration float32
	// Circumference of the wheel.
	Circumference physic.Distance
	// Closed is the level read when the switch is closed. The switch is
	// usually pulled up externally and shorts the line to ground.
	Closed gpio.Level
}

// DefaultOpts is a 9 inch radius wheel sampled at 1 kHz.
var DefaultOpts = Opts{
	Rate:          physic.KiloHertz,
	MaxDebounce:   50,
	StaleTicks:    2000,
	Calibration:   91.44,
	Circumference: physic.Inch * 5652 / 100,
	Closed:        gpio.Low,
}

// Timer is the debounce and speed state machine for one reed switch.
type Timer struct {
	pin       gpio.PinIn
	opts      Opts
	numerator float32

	// Owned by the tick context.
	elapsed  int
	debounce int

	cell Cell

	haltOnce sync.Once
	halt     chan struct{}
}

// New returns a Timer sampling p.
//
// The pin is configured as a floating input. The timer starts cooling down,
// so closures during the first MaxDebounce ticks after power-up are ignored.
func New(p gpio.PinIn, opts *Opts) (*Timer, error) {
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := p.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("reedspeed: configuring %s: %w", p, err)
	}
	inches := float64(opts.Circumference) / float64(physic.Inch)
	t := &Timer{
		pin:       p,
		opts:      *opts,
		numerator: opts.Calibration * float32(inches),
		debounce:  opts.MaxDebounce,
		halt:      make(chan struct{}),
	}
	return t, nil
}

func (o *Opts) validate() error {
	switch {
	case o.Rate <= 0:
		return fmt.Errorf("%w: rate %s", ErrInvalidOpts, o.Rate)
	case o.MaxDebounce < 0:
		return fmt.Errorf("%w: debounce %d", ErrInvalidOpts, o.MaxDebounce)
	case o.StaleTicks <= 0:
		return fmt.Errorf("%w: stale ticks %d", ErrInvalidOpts, o.StaleTicks)
	case o.Calibration <= 0:
		return fmt.Errorf("%w: calibration %g", ErrInvalidOpts, o.Calibration)
	case o.Circumference <= 0:
		return fmt.Errorf("%w: circumference %s", ErrInvalidOpts, o.Circumference)
	}
	return nil
}

// Tick advances the state machine by one timer period.
//
// It must be called from a single context, once per period: the timer
// interrupt on a microcontroller, or Run on a host.
func (t *Timer) Tick() {
	closed := t.pin.Read() == t.opts.Closed

	if closed && t.debounce == 0 && t.elapsed > 0 {
		t.cell.store(t.numerator / float32(t.elapsed))
		t.cell.revolution()
		t.elapsed = 0
		t.debounce = t.opts.MaxDebounce
	} else if t.debounce > 0 {
		t.debounce--
	}

	if t.elapsed > t.opts.StaleTicks {
		t.cell.store(0)
	} else {
		t.elapsed++
	}
}

// Speed returns the last computed speed in km/h. Zero means the wheel is
// stopped or no revolution completed within StaleTicks.
func (t *Timer) Speed() float32 {
	return t.cell.Speed()
}

// Velocity returns Speed as a physic.Speed.
func (t *Timer) Velocity() physic.Speed {
	return physic.Speed(float64(t.cell.Speed()) * float64(physic.KilometrePerHour))
}

// Revolutions returns the number of revolutions counted since New.
func (t *Timer) Revolutions() uint32 {
	return t.cell.Revolutions()
}

// Cell returns the shared measurement written by Tick.
func (t *Timer) Cell() *Cell {
	return &t.cell
}

// Run calls Tick once per period of Opts.Rate until stop is closed or Halt
// is called.
func (t *Timer) Run(stop <-chan struct{}) {
	tk := time.NewTicker(t.opts.Rate.Period())
	defer tk.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.halt:
			return
		case <-tk.C:
			t.Tick()
		}
	}
}

// Halt implements conn.Resource.
//
// It stops Run. The last speed stays readable.
func (t *Timer) Halt() error {
	t.haltOnce.Do(func() { close(t.halt) })
	return nil
}

func (t *Timer) String() string {
	return fmt.Sprintf("reedspeed{%s}", t.pin)
}

var _ conn.Resource = &Timer{}
