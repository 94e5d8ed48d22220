// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package reedspeed measures the speed of a wheel from a reed switch that
// closes once per revolution as a magnet passes.
//
// The switch is sampled once per tick of a fixed-period timer. A closure seen
// while the timer is armed is a revolution edge: the speed is recomputed from
// the number of ticks since the previous edge and the timer cools down for
// MaxDebounce ticks, so the several closed samples of a single magnet pass
// count once. When no edge arrives for StaleTicks ticks the speed drops to
// zero.
//
// On a host, Run drives Tick from a time.Ticker. On a microcontroller, call
// Tick from the timer interrupt handler instead; it never blocks and never
// allocates.
//
// The latest speed lives in a Cell that is only written by Tick and may be
// read from any goroutine without tearing.
package reedspeed
