// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package speedo is a container for the pieces of a reed switch speedometer
// with a multiplexed 7 segment LED display.
//
// See reedspeed for the measurement, sevseg for the display and cmd/speedo
// for the program wiring them together.
package speedo
