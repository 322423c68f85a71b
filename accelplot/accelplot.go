// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package accelplot renders captured accelerometer records as a strip chart.
package accelplot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/GermanBionicSystems/accel/iio"
)

// Opts represents the options available for a chart.
type Opts struct {
	W, H int
	// FullScale is the raw magnitude at the top and bottom edges. Defaults to
	// 512.
	FullScale int
	// Labels names the channels in legend order.
	Labels []string
	// FontSize in points. Defaults to 12.
	FontSize float64
}

// DefaultOpts is a 800x300 chart of three axes.
var DefaultOpts = Opts{
	W:         800,
	H:         300,
	FullScale: 512,
	Labels:    []string{"x", "y", "z"},
	FontSize:  12,
}

// palette is the line color of each channel, cycled.
var palette = []color.NRGBA{
	{0xE6, 0x19, 0x4B, 0xFF},
	{0x3C, 0xB4, 0x4B, 0xFF},
	{0x43, 0x63, 0xD8, 0xFF},
	{0xF5, 0x82, 0x31, 0xFF},
}

// Chart accumulates records and draws them.
type Chart struct {
	opts    Opts
	face    font.Face
	records []iio.Record
}

// New returns an empty chart.
func New(opts *Opts) (*Chart, error) {
	o := *opts
	if o.W <= 0 || o.H <= 0 {
		return nil, fmt.Errorf("accelplot: invalid size %dx%d", o.W, o.H)
	}
	if o.FullScale <= 0 {
		o.FullScale = DefaultOpts.FullScale
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultOpts.FontSize
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return &Chart{opts: o, face: truetype.NewFace(f, &truetype.Options{Size: o.FontSize})}, nil
}

// Add appends a record. Every record must have the same number of samples.
func (c *Chart) Add(r iio.Record) error {
	if len(c.records) != 0 && len(r.Samples) != len(c.records[0].Samples) {
		return fmt.Errorf("accelplot: %d samples, expected %d", len(r.Samples), len(c.records[0].Samples))
	}
	c.records = append(c.records, r)
	return nil
}

// Len returns the number of records added.
func (c *Chart) Len() int {
	return len(c.records)
}

// Image draws the chart: one polyline per channel over the record index,
// zero in the middle.
func (c *Chart) Image() (image.Image, error) {
	dc, err := c.draw()
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// EncodePNG writes the chart as PNG.
func (c *Chart) EncodePNG(w io.Writer) error {
	dc, err := c.draw()
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// SavePNG writes the chart to a PNG file.
func (c *Chart) SavePNG(path string) error {
	dc, err := c.draw()
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

func (c *Chart) draw() (*gg.Context, error) {
	if len(c.records) == 0 {
		return nil, errors.New("accelplot: no record")
	}
	w, h := float64(c.opts.W), float64(c.opts.H)
	dc := gg.NewContext(c.opts.W, c.opts.H)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Zero line.
	dc.SetRGB(0.8, 0.8, 0.8)
	dc.SetLineWidth(1)
	dc.DrawLine(0, h/2, w, h/2)
	dc.Stroke()

	n := len(c.records)
	step := w
	if n > 1 {
		step = w / float64(n-1)
	}
	y := func(v int16) float64 {
		return h/2 - float64(v)*(h/2)/float64(c.opts.FullScale)
	}
	dc.SetLineWidth(1.5)
	for ch := range c.records[0].Samples {
		dc.SetColor(palette[ch%len(palette)])
		for i, r := range c.records {
			if i == 0 {
				dc.MoveTo(0, y(r.Samples[ch]))
			} else {
				dc.LineTo(float64(i)*step, y(r.Samples[ch]))
			}
		}
		dc.Stroke()
	}

	// Legend.
	dc.SetFontFace(c.face)
	x := 8.0
	for ch := range c.records[0].Samples {
		label := fmt.Sprintf("ch%d", ch)
		if ch < len(c.opts.Labels) {
			label = c.opts.Labels[ch]
		}
		dc.SetColor(palette[ch%len(palette)])
		dc.DrawString(label, x, 8+c.opts.FontSize)
		tw, _ := dc.MeasureString(label)
		x += tw + 12
	}
	span := float64(c.records[n-1].Timestamp-c.records[0].Timestamp) / 1e9
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.DrawStringAnchored(fmt.Sprintf("%d records, %.3fs", n, span), w-8, h-8, 1, 0)
	return dc, nil
}
