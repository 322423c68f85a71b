// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345_test

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/accel/adxl345"
	"github.com/GermanBionicSystems/accel/iio"
)

// ExampleNewI2C uses an adxl345 device connected by I²C with INT1 wired to
// GPIO17. It prints the tap events for 30 seconds.
// You can use `i2cdetect` to find the I²C bus number
// e.g : sudo apt-get install i2c-tools
//
//	sudo i2cdetect -y 1
func ExampleNewI2C() {
	mustInitHost()

	// Use i2creg to find the first available I²C bus.
	// Generally I2C1 on raspberry pi.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	o := adxl345.DefaultOpts
	o.TapAxes = adxl345.AllAxes
	d, err := adxl345.NewI2C(b, adxl345.DefaultAddress, gpioreg.ByName("GPIO17"), &o)
	if err != nil {
		log.Fatal(err)
	}
	defer d.Halt()

	stop := time.After(30 * time.Second)
	for {
		select {
		case <-stop:
			return
		case e := <-d.IIO().Events():
			fmt.Println(e)
		}
	}
}

// ExampleNewSPI uses an adxl345 device connected by SPI. It streams X and Z
// at 100Hz for 3 seconds.
func ExampleNewSPI() {
	mustInitHost()

	// Use spireg SPI port registry to find the first available SPI bus.
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	d, err := adxl345.NewSPI(p, gpioreg.ByName("GPIO17"), &adxl345.DefaultOpts)
	if err != nil {
		log.Fatal(err)
	}
	defer d.Halt()

	dev := d.IIO()
	x := dev.Channel(iio.Accel, iio.ModX)
	if err := dev.WriteRaw(x, iio.Int(100), iio.InfoSampFreq); err != nil {
		log.Fatal(err)
	}
	trig, err := iio.NewTickerTrigger("adxl345-100hz", 100*physic.Hertz)
	if err != nil {
		log.Fatal(err)
	}
	defer trig.Halt()
	if err := dev.SetActiveScanMask(iio.ScanMaskOf(adxl345.ScanX, adxl345.ScanZ)); err != nil {
		log.Fatal(err)
	}
	if err := dev.SetTrigger(trig); err != nil {
		log.Fatal(err)
	}
	if err := dev.EnableBuffer(); err != nil {
		log.Fatal(err)
	}
	defer dev.DisableBuffer()
	if err := trig.Start(); err != nil {
		log.Fatal(err)
	}

	stop := time.After(3 * time.Second)
	for {
		select {
		case <-stop:
			return
		case r := <-dev.Records():
			fmt.Println(r.Timestamp, r.Samples)
		}
	}
}

// mustInitHost Make sure host is initialized.
func mustInitHost() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
}
