// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package accelbar shows accelerometer records as colored bars on a terminal
// (stdout) using ANSI color codes.
//
// Each channel of a record gets its own bar, green for a positive sample and
// red for a negative one, its length proportional to the magnitude.
package accelbar

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/accel/iio"
)

// Opts represents the options available for this display.
type Opts struct {
	// Channels is the number of samples per record. Defaults to 3.
	Channels int
	// Width is the number of cells of one bar. Defaults to 16.
	Width int
	// FullScale is the raw magnitude of a full bar. Defaults to 512, which is
	// 2g at full resolution.
	FullScale int
	Palette   *ansi256.Palette
	// W defaults to stdout.
	W io.Writer

	_ struct{}
}

var (
	positive = color.NRGBA{0, 255, 0, 255}
	negative = color.NRGBA{255, 0, 0, 255}
	empty    = color.NRGBA{0, 0, 0, 255}
)

// Dev is a set of bars that outputs to the console.
type Dev struct {
	w         io.Writer
	channels  int
	width     int
	fullScale int
	palette   ansi256.Palette

	pixels []byte
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	o := *opts
	if o.Channels <= 0 {
		o.Channels = 3
	}
	if o.Width <= 0 {
		o.Width = 16
	}
	if o.FullScale <= 0 {
		o.FullScale = 512
	}
	if o.Palette == nil {
		o.Palette = ansi256.Default
	}
	if o.W == nil {
		o.W = colorable.NewColorableStdout()
	}
	return &Dev{
		w:         o.W,
		channels:  o.Channels,
		width:     o.Width,
		fullScale: o.FullScale,
		palette:   *o.Palette,
		pixels:    make([]byte, 3*o.Channels*(o.Width+1)),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("AccelBar{%dx%d}", d.channels, d.width)
}

// Halt implements conn.Resource.
//
// It clears the display so it is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Show draws one bar per sample of r.
func (d *Dev) Show(r iio.Record) error {
	if len(r.Samples) != d.channels {
		return fmt.Errorf("accelbar: %d samples for %d bars", len(r.Samples), d.channels)
	}
	for i, s := range r.Samples {
		v, c := int(s), positive
		if v < 0 {
			v, c = -v, negative
		}
		n := (v*d.width + d.fullScale/2) / d.fullScale
		if n > d.width {
			n = d.width
		}
		base := i * (d.width + 1)
		for x := 0; x < d.width; x++ {
			if x < n {
				d.set(base+x, c)
			} else {
				d.set(base+x, empty)
			}
		}
		d.set(base+d.width, empty)
	}
	_, err := d.refresh()
	return err
}

// Write accepts a stream of raw RGB pixels and writes it to the console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels)%3 != 0 {
		return 0, errors.New("accelbar: invalid RGB stream length")
	}
	copy(d.pixels, pixels)
	return d.refresh()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rectangle{Max: image.Point{X: len(d.pixels) / 3, Y: 1}}
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	srcR := src.Bounds()
	srcR.Min = srcR.Min.Add(sp)
	if dX := r.Dx(); dX < srcR.Dx() {
		srcR.Max.X = srcR.Min.X + dX
	}
	for sX := srcR.Min.X; sX < srcR.Max.X; sX++ {
		r16, g16, b16, _ := src.At(sX, srcR.Min.Y).RGBA()
		d.set(sX-srcR.Min.X+r.Min.X, color.NRGBA{byte(r16 >> 8), byte(g16 >> 8), byte(b16 >> 8), 255})
	}
	_, err := d.refresh()
	return err
}

func (d *Dev) set(x int, c color.NRGBA) {
	d.pixels[3*x] = c.R
	d.pixels[3*x+1] = c.G
	d.pixels[3*x+2] = c.B
}

func (d *Dev) refresh() (int, error) {
	// One write per frame; buf is reused between calls.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i := 0; i < len(d.pixels)/3; i++ {
		c := color.NRGBA{d.pixels[3*i], d.pixels[3*i+1], d.pixels[3*i+2], 255}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = d.buf.WriteString("\033[0m ")
	_, err := d.buf.WriteTo(d.w)
	return len(d.pixels), err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
