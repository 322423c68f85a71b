// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package accelbar

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/maruel/ansi256"

	"github.com/GermanBionicSystems/accel/iio"
)

func expected(cells ...color.NRGBA) string {
	s := "\r\033[0m"
	for _, c := range cells {
		s += ansi256.Default.Block(c)
	}
	return s + "\033[0m "
}

func repeat(c color.NRGBA, n int) []color.NRGBA {
	out := make([]color.NRGBA, n)
	for i := range out {
		out[i] = c
	}
	return out
}

func TestShow(t *testing.T) {
	var buf bytes.Buffer
	d := New(&Opts{Channels: 2, Width: 4, FullScale: 100, W: &buf})
	if s := d.String(); s != "AccelBar{2x4}" {
		t.Errorf("String()=%q", s)
	}
	if err := d.Show(iio.Record{Samples: []int16{50, -1000}}); err != nil {
		t.Fatal(err)
	}
	var cells []color.NRGBA
	cells = append(cells, repeat(positive, 2)...)
	cells = append(cells, repeat(empty, 3)...)
	cells = append(cells, repeat(negative, 4)...)
	cells = append(cells, empty)
	if got, want := buf.String(), expected(cells...); got != want {
		t.Errorf("got %q\nexpected %q", got, want)
	}
	if err := d.Show(iio.Record{Samples: []int16{1}}); err == nil {
		t.Error("expected an error")
	}
}

func TestWriteAndDraw(t *testing.T) {
	var buf bytes.Buffer
	d := New(&Opts{Channels: 1, Width: 1, W: &buf})
	if r := d.Bounds(); r != image.Rect(0, 0, 2, 1) {
		t.Errorf("Bounds()=%v", r)
	}
	if _, err := d.Write([]byte{1, 2}); err == nil {
		t.Error("expected an error")
	}
	if n, err := d.Write([]byte{255, 0, 0, 0, 0, 255}); err != nil || n != 6 {
		t.Fatalf("Write()=%d, %v", n, err)
	}
	want := expected(color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 0, 255, 255})
	if got := buf.String(); got != want {
		t.Errorf("got %q\nexpected %q", got, want)
	}
	buf.Reset()
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.NRGBA{0, 255, 0, 255})
	if err := d.Draw(image.Rect(1, 0, 2, 1), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	want = expected(color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 255, 0, 255})
	if got := buf.String(); got != want {
		t.Errorf("got %q\nexpected %q", got, want)
	}
	buf.Reset()
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "\033[0m") {
		t.Errorf("Halt() wrote %q", buf.String())
	}
}
