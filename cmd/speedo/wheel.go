// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

// wheel emulates a reed switch on a wheel turning at a constant speed. The
// switch is pulled up and closes to ground while the magnet passes.
type wheel struct {
	pin *gpiotest.Pin
	// period of one revolution; zero when the wheel is stopped.
	period time.Duration
	closed time.Duration
}

func newWheel(circumference physic.Distance, kmh float64) *wheel {
	w := &wheel{
		pin:    &gpiotest.Pin{N: "wheel", Num: -1, L: gpio.High},
		closed: 5 * time.Millisecond,
	}
	if kmh > 0 {
		metres := float64(circumference) / float64(physic.Metre)
		w.period = time.Duration(metres / (kmh / 3.6) * float64(time.Second))
	}
	if w.closed > w.period/2 {
		w.closed = w.period / 2
	}
	return w
}

func (w *wheel) set(l gpio.Level) {
	w.pin.Lock()
	w.pin.L = l
	w.pin.Unlock()
}

func (w *wheel) run(stop <-chan struct{}) {
	if w.period == 0 {
		return
	}
	for {
		w.set(gpio.Low)
		time.Sleep(w.closed)
		w.set(gpio.High)
		select {
		case <-stop:
			return
		case <-time.After(w.period - w.closed):
		}
	}
}
