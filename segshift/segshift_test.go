// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package segshift

import (
	"errors"
	"testing"

	"github.com/GermanBionicSystems/speedo/sevseg"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

func written(ops []conntest.IO) []byte {
	var b []byte
	for _, op := range ops {
		b = append(b, op.W...)
	}
	return b
}

func TestLatchOnChange(t *testing.T) {
	record := &spitest.Record{}
	defer record.Close()
	dev, err := NewSPI(record)
	if err != nil {
		t.Fatal(err)
	}
	lines := dev.Lines()

	// The first write always goes out, even when it does not change the
	// byte.
	for _, step := range []struct {
		n int
		l gpio.Level
	}{
		{0, gpio.Low},
		{0, gpio.Low},
		{0, gpio.High},
		{7, gpio.High},
		{7, gpio.High},
		{0, gpio.Low},
		{7, gpio.Low},
	} {
		if err := lines[step.n].Out(step.l); err != nil {
			t.Fatal(err)
		}
	}
	want := []byte{0x00, 0x01, 0x81, 0x80, 0x00}
	if diff := cmp.Diff(written(record.Ops), want); diff != "" {
		t.Errorf("written difference (-got +want):\n%s", diff)
	}
}

func newRecordDev(t *testing.T) *Dev {
	t.Helper()
	c, err := (&spitest.Record{}).Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		t.Fatal(err)
	}
	dev, err := New(c)
	if err != nil {
		t.Fatal(err)
	}
	return dev
}

func TestLineNames(t *testing.T) {
	dev := newRecordDev(t)
	lines := dev.Lines()
	if n := lines[0].Name(); n != "74HC595_QA" {
		t.Errorf("Name() = %q", n)
	}
	if n := lines[7].String(); n != "74HC595_QH" {
		t.Errorf("String() = %q", n)
	}
	if n := lines[3].Number(); n != 3 {
		t.Errorf("Number() = %d", n)
	}
	if err := lines[1].PWM(gpio.DutyHalf, 0); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("PWM() error = %v", err)
	}
}

func TestHalt(t *testing.T) {
	dev := newRecordDev(t)
	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
	if err := dev.Lines()[0].Out(gpio.High); err == nil {
		t.Error("Out() after Halt succeeded")
	}
	if _, err := New(nil); err == nil {
		t.Error("New(nil) succeeded")
	}
}

// The register stands in for the segment lines of a common cathode display.
// After a scan every segment line is low again.
func TestDisplayScan(t *testing.T) {
	record := &spitest.Record{}
	dev, err := NewSPI(record)
	if err != nil {
		t.Fatal(err)
	}
	var digits [sevseg.NumDigits]gpio.PinOut
	for i := range digits {
		digits[i] = &gpiotest.Pin{N: "D"}
	}
	disp, err := sevseg.New(digits, dev.Lines(), &sevseg.Opts{Polarity: sevseg.CommonCathode, DecimalPlace: 2})
	if err != nil {
		t.Fatal(err)
	}
	record.Ops = nil
	f := sevseg.Render(8888, 2)
	if err := disp.Scan(&f); err != nil {
		t.Fatal(err)
	}
	// One segment line high at a time, in order.
	var want []byte
	for s := 0; s < sevseg.NumSegments; s++ {
		want = append(want, 1<<s, 0)
	}
	if diff := cmp.Diff(written(record.Ops), want); diff != "" {
		t.Errorf("written difference (-got +want):\n%s", diff)
	}
}
