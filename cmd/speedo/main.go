// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// speedo shows the speed of a wheel, measured with a reed switch, on a
// multiplexed 4 digit 7 segment LED display.
//
// With -sim, the wheel and the display are emulated and the display is drawn
// on the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/GermanBionicSystems/speedo/reedspeed"
	"github.com/GermanBionicSystems/speedo/screen7"
	"github.com/GermanBionicSystems/speedo/segimage"
	"github.com/GermanBionicSystems/speedo/segshift"
	"github.com/GermanBionicSystems/speedo/sevseg"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func main() {
	if err := mainImpl(); err != nil {
		log.Fatalf("speedo: %v", err)
	}
}

func mainImpl() error {
	reedName := flag.String("reed", "GPIO17", "reed switch input pin")
	digitNames := flag.String("digits", "GPIO2,GPIO3,GPIO4,GPIO5", "digit common lines, leftmost first")
	segmentNames := flag.String("segments", "GPIO6,GPIO7,GPIO8,GPIO9,GPIO10,GPIO11,GPIO12,GPIO13", "segment lines A to G then the decimal point")
	spiName := flag.String("spi", "", "drive the segment lines through a 74HC595 on this SPI port instead of -segments")
	anode := flag.Bool("anode", false, "the display is common anode")
	hold := flag.Duration("hold", sevseg.DefaultOpts.Hold, "time each segment line stays on; controls brightness")
	dp := flag.Int("dp", sevseg.DefaultOpts.DecimalPlace, "decimal point position counted from the right")
	rate := reedspeed.DefaultOpts.Rate
	flag.Var(&rate, "rate", "reed switch sampling rate; the calibration assumes 1kHz")
	sim := flag.Bool("sim", false, "emulate the wheel and draw the display on the terminal")
	kmh := flag.Float64("kmh", 20, "speed of the emulated wheel, with -sim")
	snapshot := flag.String("snapshot", "", "write a PNG of the display to this file on exit")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	dispOpts := sevseg.Opts{Hold: *hold, DecimalPlace: *dp}
	if *anode {
		dispOpts.Polarity = sevseg.CommonAnode
	}
	reedOpts := reedspeed.DefaultOpts
	reedOpts.Rate = rate

	var reed gpio.PinIn
	var digits [sevseg.NumDigits]gpio.PinOut
	var segments [sevseg.NumSegments]gpio.PinOut
	stop := make(chan struct{})
	defer close(stop)

	if *sim {
		w := newWheel(reedOpts.Circumference, *kmh)
		go w.run(stop)
		reed = w.pin
		scr := screen7.New(&screen7.Opts{Polarity: dispOpts.Polarity})
		defer scr.Halt()
		digits, segments = scr.Digits(), scr.Segments()
	} else {
		if _, err := host.Init(); err != nil {
			return err
		}
		if reed = gpioreg.ByName(*reedName); reed == nil {
			return fmt.Errorf("no reed switch pin %q", *reedName)
		}
		if err := outputs(digits[:], *digitNames); err != nil {
			return err
		}
		if *spiName != "" {
			port, err := spireg.Open(*spiName)
			if err != nil {
				return err
			}
			defer port.Close()
			sh, err := segshift.NewSPI(port)
			if err != nil {
				return err
			}
			segments = sh.Lines()
		} else if err := outputs(segments[:], *segmentNames); err != nil {
			return err
		}
	}

	tm, err := reedspeed.New(reed, &reedOpts)
	if err != nil {
		return err
	}
	defer tm.Halt()
	go tm.Run(stop)

	disp, err := sevseg.New(digits, segments, &dispOpts)
	if err != nil {
		return err
	}
	defer disp.Halt()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	log.Printf("%s sampling %s at %s, display %s", tm, reed, rate, disp)
	err = disp.Run(ctx, tm)
	log.Printf("%d revolutions, last speed %.2f km/h", tm.Revolutions(), tm.Speed())

	if *snapshot != "" {
		if err := writeSnapshot(*snapshot, tm.Speed(), dispOpts.DecimalPlace); err != nil {
			return err
		}
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// outputs resolves a comma separated list of pin names into dst.
func outputs(dst []gpio.PinOut, names string) error {
	list := strings.Split(names, ",")
	if len(list) != len(dst) {
		return fmt.Errorf("need %d pins, got %q", len(dst), names)
	}
	for i, n := range list {
		p := gpioreg.ByName(strings.TrimSpace(n))
		if p == nil {
			return fmt.Errorf("no pin %q", n)
		}
		dst[i] = p
	}
	return nil
}

func writeSnapshot(path string, v float32, dp int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	frame := sevseg.Render(v, dp)
	if err := segimage.WritePNG(f, &frame, nil); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
