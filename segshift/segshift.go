// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package segshift drives the eight segment lines of a multiplexed display
// through a 74HC595 serial to parallel shift register, so the display only
// needs the four digit lines plus an SPI port.
//
// Output QA of the register is wired to segment A, QB to B and so on, with
// QH on the decimal point. The latch is tied to chip select.
//
// # Datasheet
//
// https://www.nexperia.com/product/74HC595D
package segshift

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const numLines = 8

// ErrNotImplemented is returned by line operations the register cannot do.
var ErrNotImplemented = errors.New("segshift: not implemented")

// Dev is a 74HC595 holding the segment line levels.
type Dev struct {
	mu    sync.Mutex
	conn  spi.Conn
	value byte
	// dirty forces the next write even when value is unchanged.
	dirty bool
	lines [numLines]gpio.PinOut
}

// NewSPI connects to the register on p.
func NewSPI(p spi.Port) (*Dev, error) {
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("segshift: %w", err)
	}
	return New(c)
}

// New returns a Dev writing to conn.
func New(conn spi.Conn) (*Dev, error) {
	if conn == nil {
		return nil, errors.New("segshift: nil connection")
	}
	d := &Dev{conn: conn, dirty: true}
	for i := range d.lines {
		d.lines[i] = &line{dev: d, n: i}
	}
	return d, nil
}

// Lines returns the register outputs as segment lines, A first.
func (d *Dev) Lines() [numLines]gpio.PinOut {
	return d.lines
}

// set updates one bit and latches the register if the byte changed.
func (d *Dev) set(n int, l gpio.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return errors.New("segshift: halted")
	}
	v := d.value &^ (1 << n)
	if l {
		v |= 1 << n
	}
	if v == d.value && !d.dirty {
		return nil
	}
	if err := d.conn.Tx([]byte{v}, nil); err != nil {
		return fmt.Errorf("segshift: %w", err)
	}
	d.value = v
	d.dirty = false
	return nil
}

// Halt implements conn.Resource. The lines cannot be used afterwards.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conn = nil
	return nil
}

func (d *Dev) String() string {
	return "74HC595"
}

// line is one output of the register.
type line struct {
	dev *Dev
	n   int
}

// Halt implements conn.Resource.
func (l *line) Halt() error {
	return nil
}

// Name returns the name of the output, QA to QH.
func (l *line) Name() string {
	return fmt.Sprintf("%s_Q%c", l.dev, 'A'+l.n)
}

// Number returns the output index.
func (l *line) Number() int {
	return l.n
}

// Deprecated: returns "Out"
func (l *line) Function() string {
	return "Out"
}

// Out latches level on this output.
func (l *line) Out(level gpio.Level) error {
	return l.dev.set(l.n, level)
}

// PWM is not supported by a shift register.
func (l *line) PWM(duty gpio.Duty, f physic.Frequency) error {
	return ErrNotImplemented
}

func (l *line) String() string {
	return l.Name()
}

var _ gpio.PinOut = &line{}
