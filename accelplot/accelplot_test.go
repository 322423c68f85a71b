// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package accelplot

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/GermanBionicSystems/accel/iio"
)

func TestChart(t *testing.T) {
	c, err := New(&Opts{W: 400, H: 100, FullScale: 100})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Image(); err == nil {
		t.Error("expected an error on an empty chart")
	}
	for i := 0; i < 10; i++ {
		if err := c.Add(iio.Record{Samples: []int16{int16(10 * i), -51}, Timestamp: int64(i) * 1e7}); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Add(iio.Record{Samples: []int16{1}}); err == nil {
		t.Error("expected an error on a short record")
	}
	if c.Len() != 10 {
		t.Errorf("Len()=%d", c.Len())
	}
	img, err := c.Image()
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 100 {
		t.Errorf("bounds %v", b)
	}
	// The constant channel is a horizontal line centered on y=75.5.
	r, g, b, _ := img.At(100, 75).RGBA()
	if want := palette[1]; byte(r>>8) != want.R || byte(g>>8) != want.G || byte(b>>8) != want.B {
		t.Errorf("pixel %v, expected %v", color.RGBA{byte(r >> 8), byte(g >> 8), byte(b >> 8), 0xFF}, want)
	}

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatal(err)
	}
}

func TestNewInvalidSize(t *testing.T) {
	if _, err := New(&Opts{}); err == nil {
		t.Error("expected an error")
	}
}
