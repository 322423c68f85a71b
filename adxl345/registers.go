// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import "periph.io/x/conn/v3/physic"

const (
	DeviceID = 0x00 // Device ID, expected to be 0xE5 when using ADXL345

	ThreshTap    = 0x1D // Tap threshold
	OfsX         = 0x1E // X-axis offset
	OfsY         = 0x1F // Y-axis offset
	OfsZ         = 0x20 // Z-axis offset
	Dur          = 0x21 // Tap duration
	Latent       = 0x22 // Tap latency
	Window       = 0x23 // Tap window
	ThreshAct    = 0x24 // Activity threshold
	ThreshInact  = 0x25 // Inactivity threshold
	TimeInact    = 0x26 // Inactivity time
	ActInactCtl  = 0x27 // Axis control for activity/inactivity detection
	ThreshFf     = 0x28 // Free-fall threshold
	TimeFf       = 0x29 // Free-fall time
	TapAxes      = 0x2A // Axis control for single tap/double tap
	ActTapStatus = 0x2B // Source of single tap/double tap and activity

	// Control registers

	BwRate     = 0x2C // Data rate and power mode control
	PowerCtl   = 0x2D // Power saving features control
	IntEnable  = 0x2E // Interrupt enable control
	IntMap     = 0x2F // Interrupt mapping control
	IntSource  = 0x30 // Source of interrupts, reading it clears them
	DataFormat = 0x31 // Data format control

	// Data registers
	DataX0 = 0x32 // X-Axis Data 0
	DataX1 = 0x33 // X-Axis Data 1
	DataY0 = 0x34 // Y-Axis Data 0
	DataY1 = 0x35 // Y-Axis Data 1
	DataZ0 = 0x36 // Z-Axis Data 0
	DataZ1 = 0x37 // Z-Axis Data 1

	// FIFO control
	FifoCtl    = 0x38 // FIFO control
	FifoStatus = 0x39 // FIFO status
)

const (
	// POWER_CTL
	powerStandby byte = 0x00
	powerMeasure byte = 0x08

	// DATA_FORMAT
	fullResolution byte = 0x08
	rangeMask      byte = 0x03

	// INT_ENABLE, INT_MAP and INT_SOURCE share the same layout.
	intDataReady byte = 1 << 7
	intSingleTap byte = 1 << 6
	intDoubleTap byte = 1 << 5

	// INT_MAP value routing every source to the INT1 pin.
	intMapAllToInt1 byte = 0x00

	// BW_RATE: the rate code sits in the low nibble.
	rateShift = 0
	rateMask  byte = 0x0F

	// FIFO_CTL: the mode sits in the two high bits.
	fifoModeShift = 6

	// Number of axes, which is also the number of data channels.
	numAxes = 3
)

// Sensitivity is the full scale range written to DATA_FORMAT.
type Sensitivity byte

const (
	S2G  Sensitivity = 0x00 // Sensitivity at 2g
	S4G  Sensitivity = 0x01 // Sensitivity at 4g
	S8G  Sensitivity = 0x02 // Sensitivity at 8g
	S16G Sensitivity = 0x03 // Sensitivity at 16g
)

func (s Sensitivity) String() string {
	switch s {
	case S2G:
		return "2g"
	case S4G:
		return "4g"
	case S8G:
		return "8g"
	case S16G:
		return "16g"
	default:
		return "invalid"
	}
}

// Axes is a set of axes in the TAP_AXES / ACT_TAP_STATUS bit layout.
type Axes byte

const (
	AxisZ Axes = 1 << 0
	AxisY Axes = 1 << 1
	AxisX Axes = 1 << 2

	AllAxes = AxisX | AxisY | AxisZ
)

func (a Axes) String() string {
	s := ""
	if a&AxisX != 0 {
		s += "X"
	}
	if a&AxisY != 0 {
		s += "Y"
	}
	if a&AxisZ != 0 {
		s += "Z"
	}
	if s == "" {
		return "none"
	}
	return s
}

// FIFOMode is the mode written to FIFO_CTL.
type FIFOMode byte

const (
	FIFOBypass  FIFOMode = 0
	FIFOHold    FIFOMode = 1 // "FIFO" mode in the datasheet: stops when full.
	FIFOStream  FIFOMode = 2
	FIFOTrigger FIFOMode = 3
)

// Rate is the output data rate code written to BW_RATE.
//
// The output data rate is 3200Hz / 2^(15-code).
type Rate byte

const (
	Rate0_10Hz Rate = iota
	Rate0_20Hz
	Rate0_39Hz
	Rate0_78Hz
	Rate1_56Hz
	Rate3_13Hz
	Rate6_25Hz
	Rate12_5Hz
	Rate25Hz
	Rate50Hz
	Rate100Hz
	Rate200Hz
	Rate400Hz
	Rate800Hz
	Rate1600Hz
	Rate3200Hz
)

// rateFrequencies are the nominal rates of the datasheet table 7.
var rateFrequencies = [...]physic.Frequency{
	100 * physic.MilliHertz,
	200 * physic.MilliHertz,
	390 * physic.MilliHertz,
	780 * physic.MilliHertz,
	1560 * physic.MilliHertz,
	3130 * physic.MilliHertz,
	6250 * physic.MilliHertz,
	12500 * physic.MilliHertz,
	25 * physic.Hertz,
	50 * physic.Hertz,
	100 * physic.Hertz,
	200 * physic.Hertz,
	400 * physic.Hertz,
	800 * physic.Hertz,
	1600 * physic.Hertz,
	3200 * physic.Hertz,
}

// Frequency returns the nominal output data rate.
func (r Rate) Frequency() physic.Frequency {
	return rateFrequencies[r&Rate(rateMask)]
}

func (r Rate) String() string {
	return r.Frequency().String()
}

// RateFor returns the code of the nominal output data rate f.
func RateFor(f physic.Frequency) (Rate, bool) {
	for i, v := range rateFrequencies {
		if v == f {
			return Rate(i), true
		}
	}
	return 0, false
}

// bits returns the BW_RATE register value; low power mode is never set.
func (r Rate) bits() byte {
	return (byte(r) << rateShift) & rateMask
}
