// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package reedspeed

import (
	"math"
	"sync/atomic"
)

// Cell holds the measurement shared between the tick context and the display
// loop.
//
// Only Timer.Tick stores into a Cell. Readers may load from any goroutine or
// from the foreground loop while a tick is in progress; the float is kept as
// its IEEE-754 bits in a single word so a load never observes half an update.
type Cell struct {
	speed atomic.Uint32
	revs  atomic.Uint32
}

// Speed returns the last stored speed in km/h.
func (c *Cell) Speed() float32 {
	return math.Float32frombits(c.speed.Load())
}

// Revolutions returns the number of validated revolution edges.
func (c *Cell) Revolutions() uint32 {
	return c.revs.Load()
}

func (c *Cell) store(v float32) {
	c.speed.Store(math.Float32bits(v))
}

func (c *Cell) revolution() {
	c.revs.Add(1)
}
