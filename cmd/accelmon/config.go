// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/accel/adxl345"
	"github.com/GermanBionicSystems/accel/iio"
)

// config is the accelmon configuration, loaded from YAML then overridden by
// flags.
type config struct {
	// Bus is "i2c" or "spi".
	Bus string
	// Port is the i2creg or spireg name; empty selects the first one.
	Port string
	Addr uint16
	// IRQ is the gpioreg name of the pin wired to INT1.
	IRQ  string `yaml:"irq"`
	Name string

	Sensitivity    string
	FullResolution bool   `yaml:"fullResolution"`
	TapThreshold   int    `yaml:"tapThreshold"`
	TapDuration    int    `yaml:"tapDuration"`
	TapAxes        string `yaml:"tapAxes"`
	// Rate is the output data rate, one of the nominal rates, e.g. "100Hz".
	Rate string
	// Trigger is the sampling frequency of the buffer, e.g. "50Hz".
	Trigger string
	// Axes are the buffered axes, e.g. "xz".
	Axes string

	Duration time.Duration
	Bars     bool
	PNG      string `yaml:"png"`
}

func defaultConfig() config {
	o := adxl345.DefaultOpts
	return config{
		Bus:            "i2c",
		Addr:           adxl345.DefaultAddress,
		IRQ:            "GPIO17",
		Name:           o.Name,
		Sensitivity:    o.Sensitivity.String(),
		FullResolution: o.FullResolution,
		TapThreshold:   int(o.TapThreshold),
		TapDuration:    int(o.TapDuration),
		TapAxes:        "z",
		Rate:           "100Hz",
		Trigger:        "50Hz",
		Axes:           "xyz",
		Duration:       10 * time.Second,
	}
}

// load overlays the YAML document at path on c. Unknown keys are errors.
func (c *config) load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// opts converts c to driver options.
func (c *config) opts() (adxl345.Opts, error) {
	o := adxl345.DefaultOpts
	o.Name = c.Name
	o.FullResolution = c.FullResolution
	s, err := parseSensitivity(c.Sensitivity)
	if err != nil {
		return o, err
	}
	o.Sensitivity = s
	if c.TapThreshold < 0 || c.TapThreshold > 255 || c.TapDuration < 0 || c.TapDuration > 255 {
		return o, fmt.Errorf("tap threshold %d and duration %d must be within 0..255", c.TapThreshold, c.TapDuration)
	}
	o.TapThreshold = byte(c.TapThreshold)
	o.TapDuration = byte(c.TapDuration)
	if o.TapAxes, err = parseAxes(c.TapAxes); err != nil {
		return o, err
	}
	var f physic.Frequency
	if err := f.Set(c.Rate); err != nil {
		return o, fmt.Errorf("rate: %w", err)
	}
	r, ok := adxl345.RateFor(f)
	if !ok {
		return o, fmt.Errorf("rate %s is not supported by the device", f)
	}
	o.Rate = r
	return o, nil
}

// triggerFrequency returns the buffer sampling frequency.
func (c *config) triggerFrequency() (physic.Frequency, error) {
	var f physic.Frequency
	if err := f.Set(c.Trigger); err != nil {
		return 0, fmt.Errorf("trigger: %w", err)
	}
	if f <= 0 {
		return 0, errors.New("trigger frequency must be positive")
	}
	return f, nil
}

// scanMask returns the buffered axes.
func (c *config) scanMask() (iio.ScanMask, error) {
	a, err := parseAxes(c.Axes)
	if err != nil {
		return 0, err
	}
	var m iio.ScanMask
	if a&adxl345.AxisX != 0 {
		m |= iio.ScanMaskOf(adxl345.ScanX)
	}
	if a&adxl345.AxisY != 0 {
		m |= iio.ScanMaskOf(adxl345.ScanY)
	}
	if a&adxl345.AxisZ != 0 {
		m |= iio.ScanMaskOf(adxl345.ScanZ)
	}
	if m == 0 {
		return 0, errors.New("no axis to buffer")
	}
	return m, nil
}

func parseSensitivity(s string) (adxl345.Sensitivity, error) {
	for _, v := range []adxl345.Sensitivity{adxl345.S2G, adxl345.S4G, adxl345.S8G, adxl345.S16G} {
		if strings.EqualFold(s, v.String()) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown sensitivity %q; use 2g, 4g, 8g or 16g", s)
}

// parseAxes parses a set of axes like "xz". "none" and "" are empty.
func parseAxes(s string) (adxl345.Axes, error) {
	var a adxl345.Axes
	if strings.EqualFold(s, "none") {
		return 0, nil
	}
	for _, r := range strings.ToLower(s) {
		switch r {
		case 'x':
			a |= adxl345.AxisX
		case 'y':
			a |= adxl345.AxisY
		case 'z':
			a |= adxl345.AxisZ
		default:
			return 0, fmt.Errorf("unknown axis %q in %q", r, s)
		}
	}
	return a, nil
}
