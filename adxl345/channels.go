// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"fmt"

	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/accel/iio"
)

// Scan indexes of the buffered channels.
const (
	ScanX = iota
	ScanY
	ScanZ
	ScanTimestamp
)

func accelChannel(mod iio.Modifier, addr uint8, scan int) iio.Channel {
	return iio.Channel{
		Type:      iio.Accel,
		Modified:  true,
		Modifier:  mod,
		Address:   addr,
		ScanIndex: scan,
		ScanType: iio.ScanType{
			Sign:        's',
			RealBits:    16,
			StorageBits: 16,
			Endianness:  iio.LittleEndian,
		},
		InfoSeparate:     []iio.ChanInfo{iio.InfoRaw},
		InfoSharedByType: []iio.ChanInfo{iio.InfoScale, iio.InfoSampFreq},
		Events: []iio.EventSpec{{
			Type:     iio.EventThresh,
			Dir:      iio.DirEither,
			Separate: []iio.EventInfo{iio.EventValue, iio.EventPeriod},
		}},
	}
}

// channelSpecs returns a fresh copy of the channel table and the axis
// combinations that may be buffered together.
func channelSpecs() ([]iio.Channel, []iio.ScanMask) {
	return []iio.Channel{
			accelChannel(iio.ModX, DataX0, ScanX),
			accelChannel(iio.ModY, DataY0, ScanY),
			accelChannel(iio.ModZ, DataZ0, ScanZ),
			iio.SoftTimestamp(ScanTimestamp),
		}, []iio.ScanMask{
			iio.ScanMaskOf(ScanX, ScanY, ScanZ),
		}
}

// ReadRaw implements iio.Info.
//
// InfoRaw reads the axis data register pair, InfoScale returns the m/s² per
// LSB of the configured range without touching the bus.
func (d *Dev) ReadRaw(ch *iio.Channel, info iio.ChanInfo) (iio.Value, error) {
	if ch == nil || ch.Type != iio.Accel {
		return iio.Value{}, iio.ErrInvalidArgument
	}
	switch info {
	case iio.InfoRaw:
		d.mu.Lock()
		defer d.mu.Unlock()
		v, err := d.regs.ReadUint16(ch.Address)
		if err != nil {
			return iio.Value{}, err
		}
		return iio.Int(int(int16(v))), nil
	case iio.InfoScale:
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.scale, nil
	default:
		return iio.Value{}, fmt.Errorf("adxl345: %s: read %s: %w", ch, info, iio.ErrInvalidArgument)
	}
}

// WriteRaw implements iio.Info. Only InfoSampFreq is writable, in Hz, and
// must be one of the nominal rates.
func (d *Dev) WriteRaw(ch *iio.Channel, v iio.Value, info iio.ChanInfo) error {
	if ch == nil || ch.Type != iio.Accel {
		return iio.ErrInvalidArgument
	}
	switch info {
	case iio.InfoSampFreq:
		r, ok := RateFor(physic.Frequency(v.Micros()) * physic.MicroHertz)
		if !ok {
			return fmt.Errorf("adxl345: %s: no rate at %sHz: %w", ch, v, iio.ErrInvalidArgument)
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		if err := d.regs.WriteUint8(BwRate, r.bits()); err != nil {
			return err
		}
		d.rateCode = r
		return nil
	default:
		return fmt.Errorf("adxl345: %s: write %s: %w", ch, info, iio.ErrInvalidArgument)
	}
}

// ReadEventValue implements iio.Info. EventValue is the tap threshold and
// EventPeriod the tap duration.
func (d *Dev) ReadEventValue(ch *iio.Channel, info iio.EventInfo) (iio.Value, error) {
	if ch == nil || ch.Type != iio.Accel {
		return iio.Value{}, iio.ErrInvalidArgument
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	switch info {
	case iio.EventValue:
		return iio.Int(int(d.clickThreshold)), nil
	case iio.EventPeriod:
		return iio.Int(int(d.clickDuration)), nil
	default:
		return iio.Value{}, fmt.Errorf("adxl345: %s: read event %s: %w", ch, info, iio.ErrInvalidArgument)
	}
}

// WriteEventValue implements iio.Info. The register is written before the
// call returns; the cached value only changes when the write succeeds.
func (d *Dev) WriteEventValue(ch *iio.Channel, info iio.EventInfo, v iio.Value) error {
	if ch == nil || ch.Type != iio.Accel {
		return iio.ErrInvalidArgument
	}
	var reg uint8
	var field *byte
	switch info {
	case iio.EventValue:
		reg, field = ThreshTap, &d.clickThreshold
	case iio.EventPeriod:
		reg, field = Dur, &d.clickDuration
	default:
		return fmt.Errorf("adxl345: %s: write event %s: %w", ch, info, iio.ErrInvalidArgument)
	}
	if v.Type != iio.ValInt || v.Val < 0 || v.Val > 0xFF {
		return fmt.Errorf("adxl345: %s: event %s %s out of range: %w", ch, info, v, iio.ErrInvalidArgument)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.regs.WriteUint8(reg, byte(v.Val)); err != nil {
		return err
	}
	*field = byte(v.Val)
	return nil
}
