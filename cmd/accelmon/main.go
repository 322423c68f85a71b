// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// accelmon streams ADXL345 samples and prints tap events.
//
// The configuration is read from an optional YAML file; flags set on the
// command line take precedence.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/accel/accelbar"
	"github.com/GermanBionicSystems/accel/accelplot"
	"github.com/GermanBionicSystems/accel/adxl345"
	"github.com/GermanBionicSystems/accel/iio"
)

// parseFlags loads the configuration file named by -config and applies the
// flags that were explicitly set.
func parseFlags(fs *flag.FlagSet, args []string) (config, error) {
	cfg := defaultConfig()
	d := defaultConfig()
	path := fs.String("config", "", "YAML configuration file")
	bus := fs.String("bus", d.Bus, "bus type: i2c or spi")
	port := fs.String("port", d.Port, "I²C bus or SPI port to use")
	addr := fs.Uint("addr", uint(d.Addr), "I²C address")
	irq := fs.String("irq", d.IRQ, "gpio connected to INT1")
	name := fs.String("name", d.Name, "device name")
	sens := fs.String("sensitivity", d.Sensitivity, "range: 2g, 4g, 8g or 16g")
	fullRes := fs.Bool("fullres", d.FullResolution, "full resolution")
	thresh := fs.Int("tap-threshold", d.TapThreshold, "tap threshold, 62.5mg/LSB")
	dur := fs.Int("tap-duration", d.TapDuration, "tap duration, 625µs/LSB")
	tapAxes := fs.String("tap-axes", d.TapAxes, "axes detecting taps, e.g. xyz or none")
	rate := fs.String("rate", d.Rate, "output data rate")
	trig := fs.String("trigger", d.Trigger, "buffer sampling frequency")
	axes := fs.String("axes", d.Axes, "buffered axes")
	duration := fs.Duration("duration", d.Duration, "run duration; 0 runs until interrupted")
	bars := fs.Bool("bars", d.Bars, "show ANSI bars instead of printing samples")
	png := fs.String("png", d.PNG, "write a chart of the samples to this PNG file")
	verbose := fs.Bool("v", false, "verbose mode")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() != 0 {
		return cfg, errors.New("unexpected argument, try -help")
	}
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if *path != "" {
		if err := cfg.load(*path); err != nil {
			return cfg, err
		}
	}
	set := map[string]func(){
		"bus":           func() { cfg.Bus = *bus },
		"port":          func() { cfg.Port = *port },
		"addr":          func() { cfg.Addr = uint16(*addr) },
		"irq":           func() { cfg.IRQ = *irq },
		"name":          func() { cfg.Name = *name },
		"sensitivity":   func() { cfg.Sensitivity = *sens },
		"fullres":       func() { cfg.FullResolution = *fullRes },
		"tap-threshold": func() { cfg.TapThreshold = *thresh },
		"tap-duration":  func() { cfg.TapDuration = *dur },
		"tap-axes":      func() { cfg.TapAxes = *tapAxes },
		"rate":          func() { cfg.Rate = *rate },
		"trigger":       func() { cfg.Trigger = *trig },
		"axes":          func() { cfg.Axes = *axes },
		"duration":      func() { cfg.Duration = *duration },
		"bars":          func() { cfg.Bars = *bars },
		"png":           func() { cfg.PNG = *png },
	}
	fs.Visit(func(f *flag.Flag) {
		if s, ok := set[f.Name]; ok {
			s()
		}
	})
	return cfg, nil
}

// open returns the device and the bus it is on.
func open(cfg *config, opts *adxl345.Opts) (*adxl345.Dev, io.Closer, error) {
	pin := gpioreg.ByName(cfg.IRQ)
	if pin == nil {
		return nil, nil, fmt.Errorf("no gpio named %q", cfg.IRQ)
	}
	switch cfg.Bus {
	case "i2c":
		b, err := i2creg.Open(cfg.Port)
		if err != nil {
			return nil, nil, err
		}
		d, err := adxl345.NewI2C(b, cfg.Addr, pin, opts)
		if err != nil {
			b.Close()
			return nil, nil, err
		}
		return d, b, nil
	case "spi":
		p, err := spireg.Open(cfg.Port)
		if err != nil {
			return nil, nil, err
		}
		d, err := adxl345.NewSPI(p, pin, opts)
		if err != nil {
			p.Close()
			return nil, nil, err
		}
		return d, p, nil
	default:
		return nil, nil, fmt.Errorf("unknown bus %q", cfg.Bus)
	}
}

// sink consumes the records of the buffer.
type sink interface {
	Show(r iio.Record) error
}

type printer struct {
	w io.Writer
}

func (p *printer) Show(r iio.Record) error {
	_, err := fmt.Fprintf(p.w, "%12.6f %v\n", float64(r.Timestamp)/1e9, r.Samples)
	return err
}

// run streams until stop is closed or the duration elapses.
func run(dev *iio.Device, trig *iio.TickerTrigger, out sink, chart *accelplot.Chart, duration time.Duration, stop <-chan os.Signal) error {
	if err := dev.EnableBuffer(); err != nil {
		return err
	}
	defer dev.DisableBuffer()
	if err := trig.Start(); err != nil {
		return err
	}
	defer trig.Halt()
	var timeout <-chan time.Time
	if duration > 0 {
		timeout = time.After(duration)
	}
	for {
		select {
		case <-stop:
			return nil
		case <-timeout:
			return nil
		case e := <-dev.Events():
			fmt.Printf("\n%12.6f tap %s\n", float64(e.Timestamp)/1e9, e.Code)
		case r := <-dev.Records():
			if err := out.Show(r); err != nil {
				return err
			}
			if chart != nil {
				if err := chart.Add(r); err != nil {
					return err
				}
			}
		}
	}
}

func mainImpl() error {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}
	opts, err := cfg.opts()
	if err != nil {
		return err
	}
	mask, err := cfg.scanMask()
	if err != nil {
		return err
	}
	freq, err := cfg.triggerFrequency()
	if err != nil {
		return err
	}
	if _, err := host.Init(); err != nil {
		return err
	}
	d, bus, err := open(&cfg, &opts)
	if err != nil {
		return err
	}
	defer bus.Close()
	defer d.Halt()
	log.Printf("%s at %s", d, d.Rate())

	dev := d.IIO()
	trig, err := iio.NewTickerTrigger(cfg.Name+"-trigger", freq)
	if err != nil {
		return err
	}
	if err := dev.SetActiveScanMask(mask); err != nil {
		return err
	}
	if err := dev.SetTrigger(trig); err != nil {
		return err
	}

	var out sink = &printer{w: os.Stdout}
	if cfg.Bars {
		b := accelbar.New(&accelbar.Opts{Channels: mask.Count()})
		defer b.Halt()
		out = b
	}
	var chart *accelplot.Chart
	if cfg.PNG != "" {
		o := accelplot.DefaultOpts
		o.Labels = nil
		for _, i := range mask.Indices() {
			o.Labels = append(o.Labels, dev.Channels[i].String())
		}
		if chart, err = accelplot.New(&o); err != nil {
			return err
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	defer signal.Stop(stop)
	if err := run(dev, trig, out, chart, cfg.Duration, stop); err != nil {
		return err
	}
	if chart != nil && chart.Len() != 0 {
		if err := chart.SavePNG(cfg.PNG); err != nil {
			return err
		}
	}
	log.Printf("dropped %d records, %d events", dev.DroppedRecords(), dev.DroppedEvents())
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "accelmon: %s.\n", err)
		os.Exit(1)
	}
}
