// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/accel/iio"
	"github.com/GermanBionicSystems/accel/irq"
)

var (
	// ErrNoInterrupt is returned by New when no interrupt pin is supplied.
	ErrNoInterrupt = errors.New("adxl345: no interrupt pin")
	// ErrWrongDevice is returned by New when DEVID does not match
	// Opts.ExpectedDeviceID.
	ErrWrongDevice = errors.New("adxl345: wrong device connected")
)

// Opts holds the configuration written to the device by New.
type Opts struct {
	// Name of the device in the iio registry.
	Name string
	// ExpectedDeviceID is compared against DEVID before configuring the
	// device. 0 skips the check.
	ExpectedDeviceID byte
	Sensitivity      Sensitivity
	// FullResolution keeps 3.9mg/LSB at every range instead of 10 bits.
	FullResolution bool
	// TapThreshold is the tap threshold in 62.5mg/LSB.
	TapThreshold byte
	// TapDuration is the maximum tap duration in 625µs/LSB.
	TapDuration byte
	// TapAxes participate in tap detection. No axis disables the tap
	// interrupt.
	TapAxes  Axes
	Rate     Rate
	FIFOMode FIFOMode
	// Logf receives errors raised in interrupt and trigger context. Defaults
	// to log.Printf.
	Logf func(format string, v ...interface{})
	// Clock is the device clock in nanoseconds, see iio.Device.Clock.
	Clock func() int64
}

// DefaultOpts is full resolution at 2g, a single Z axis tap at 50 and 3, the
// lowest rate and the FIFO bypassed.
var DefaultOpts = Opts{
	Name:             "adxl345",
	ExpectedDeviceID: 0xE5,
	Sensitivity:      S2G,
	FullResolution:   true,
	TapThreshold:     50,
	TapDuration:      3,
	TapAxes:          AxisZ,
	Rate:             Rate0_10Hz,
	FIFOMode:         FIFOBypass,
}

// Dev is a driver for the ADXL345 accelerometer.
//
// It serves tap events from the INT1 pin and fills a triggered buffer with
// the axis data. All register sequences are serialized on one mutex, whether
// they come from a caller, the interrupt handler or a trigger.
type Dev struct {
	name   string
	regs   Registers
	irqPin gpio.PinIn
	line   *irq.Line
	indio  *iio.Device
	logf   func(format string, v ...interface{})

	mu             sync.Mutex
	dataRange      byte
	clickThreshold byte
	clickDuration  byte
	clickAxes      Axes
	rateCode       Rate
	fifoMode       FIFOMode
	intMask        byte
	scale          iio.Value
	timestamp      int64

	halt sync.Once
}

// NewI2C returns a device on an I²C bus. irqPin is the gpio connected to
// INT1.
func NewI2C(b i2c.Bus, addr uint16, irqPin gpio.PinIn, opts *Opts) (*Dev, error) {
	switch addr {
	case DefaultAddress, AltAddress:
	default:
		return nil, fmt.Errorf("adxl345: given address not supported by device: %#x", addr)
	}
	return New(newI2CRegisters(b, addr), irqPin, opts)
}

// NewSPI returns a device on a SPI port. irqPin is the gpio connected to
// INT1.
func NewSPI(p spi.Port, irqPin gpio.PinIn, opts *Opts) (*Dev, error) {
	regs, err := newSPIRegisters(p)
	if err != nil {
		return nil, err
	}
	return New(regs, irqPin, opts)
}

// New configures the device behind regs and starts serving it.
//
// On any failure the device is put in standby before the error is returned,
// and everything acquired so far is released.
func New(regs Registers, irqPin gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{
		name:   opts.Name,
		regs:   regs,
		irqPin: irqPin,
		logf:   opts.Logf,
	}
	if d.name == "" {
		d.name = DefaultOpts.Name
	}
	if d.logf == nil {
		d.logf = log.Printf
	}
	if err := d.configure(opts); err != nil {
		d.standby()
		return nil, err
	}
	if err := d.bind(opts); err != nil {
		d.standby()
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ADXL345{%s}", d.name)
}

// IIO returns the framework side of the device: channels, event queue and
// triggered buffer.
func (d *Dev) IIO() *iio.Device {
	return d.indio
}

// Rate returns the current output data rate.
func (d *Dev) Rate() Rate {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rateCode
}

// Halt stops serving the device and puts it in standby.
//
// The standby write is issued once; its error is returned but never retried.
func (d *Dev) Halt() error {
	var err error
	d.halt.Do(func() {
		err = d.teardown()
	})
	return err
}

// Update reads the acceleration values of the three axes.
// This is a simple synchronous implementation.
func (d *Dev) Update() (Acceleration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var v [numAxes]int16
	for i := range v {
		r, err := d.regs.ReadUint16(DataX0 + uint8(2*i))
		if err != nil {
			return Acceleration{}, err
		}
		v[i] = int16(r)
	}
	return Acceleration{X: v[0], Y: v[1], Z: v[2]}, nil
}

// Acceleration represents the acceleration on the three axes
type Acceleration struct {
	X int16
	Y int16
	Z int16
}

// String returns a string representation of the Acceleration
func (a Acceleration) String() string {
	return fmt.Sprintf("X:%d Y:%d Z:%d", a.X, a.Y, a.Z)
}

// configure writes the whole register configuration and enters measurement
// mode.
func (d *Dev) configure(opts *Opts) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.irqPin == nil {
		return ErrNoInterrupt
	}
	if opts.Sensitivity > S16G || opts.Rate > Rate3200Hz || opts.FIFOMode > FIFOTrigger || opts.TapAxes&^AllAxes != 0 {
		return fmt.Errorf("adxl345: invalid options (sensitivity %d, rate %d, fifo %d, axes %#x): %w", opts.Sensitivity, opts.Rate, opts.FIFOMode, byte(opts.TapAxes), iio.ErrInvalidArgument)
	}
	d.dataRange = byte(opts.Sensitivity) & rangeMask
	if opts.FullResolution {
		d.dataRange |= fullResolution
	}
	d.clickThreshold = opts.TapThreshold
	d.clickDuration = opts.TapDuration
	d.clickAxes = opts.TapAxes
	d.rateCode = opts.Rate
	d.fifoMode = opts.FIFOMode
	d.scale = scaleFor(d.dataRange)

	if opts.ExpectedDeviceID != 0 {
		id, err := d.regs.ReadUint8(DeviceID)
		if err != nil {
			return err
		}
		if id != opts.ExpectedDeviceID {
			return fmt.Errorf("%w: expected %#x, got %#x", ErrWrongDevice, opts.ExpectedDeviceID, id)
		}
	}
	writes := [...]struct {
		reg uint8
		v   byte
	}{
		{DataFormat, d.dataRange},
		{ThreshTap, d.clickThreshold},
		{Dur, d.clickDuration},
		{TapAxes, byte(d.clickAxes)},
		{BwRate, d.rateCode.bits()},
		{FifoCtl, byte(d.fifoMode) << fifoModeShift},
		{IntMap, intMapAllToInt1},
	}
	for _, w := range writes {
		if err := d.regs.WriteUint8(w.reg, w.v); err != nil {
			return err
		}
	}
	if d.clickAxes != 0 {
		d.intMask = intSingleTap
	}
	if err := d.regs.WriteUint8(IntEnable, d.intMask); err != nil {
		return err
	}
	return d.regs.WriteUint8(PowerCtl, powerMeasure)
}

// bind requests the interrupt line, sets up the triggered buffer and
// publishes the device. It runs without d.mu: the interrupt handler takes it.
func (d *Dev) bind(opts *Opts) error {
	channels, masks := channelSpecs()
	d.indio = iio.NewDevice(d.name, d, channels, masks)
	d.indio.Clock = opts.Clock
	line, err := irq.Request(d.irqPin, gpio.RisingEdge, d.name, d.handleInterrupt)
	if err != nil {
		d.indio = nil
		return err
	}
	d.line = line
	if err = d.indio.SetupTriggeredBuffer(d.triggerHandler); err == nil {
		err = iio.Register(d.indio)
	}
	if err != nil {
		if err := d.line.Free(); err != nil {
			d.logf("adxl345: %s: %v", d.name, err)
		}
		d.line = nil
		d.indio = nil
		return err
	}
	return nil
}

func (d *Dev) teardown() error {
	if err := iio.Unregister(d.indio); err != nil {
		d.logf("adxl345: %s: %v", d.name, err)
	}
	if err := d.indio.DisableBuffer(); err != nil {
		d.logf("adxl345: %s: %v", d.name, err)
	}
	if err := d.line.Free(); err != nil {
		d.logf("adxl345: %s: %v", d.name, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.regs.WriteUint8(PowerCtl, powerStandby)
	if err != nil {
		d.logf("adxl345: %s: standby: %v", d.name, err)
	}
	return err
}

// standby is the recovery of a failed New. Its own failure is only logged.
func (d *Dev) standby() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.regs.WriteUint8(PowerCtl, powerStandby); err != nil {
		d.logf("adxl345: %s: standby: %v", d.name, err)
	}
}

// scaleFor returns m/s² per LSB. Full resolution is 3.9mg/LSB at any range,
// otherwise the 10 bit LSB doubles with each range step.
func scaleFor(dataRange byte) iio.Value {
	const microPerLSB = 38245
	if dataRange&fullResolution != 0 {
		return iio.Micro(microPerLSB)
	}
	return iio.Micro(microPerLSB << (dataRange & rangeMask))
}

var _ conn.Resource = &Dev{}
var _ iio.Info = &Dev{}
