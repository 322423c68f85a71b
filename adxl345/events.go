// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"github.com/GermanBionicSystems/accel/iio"
	"github.com/GermanBionicSystems/accel/irq"
)

// tapOrder is the emission order of tap events.
var tapOrder = [numAxes]struct {
	axis Axes
	mod  iio.Modifier
}{
	{AxisX, iio.ModX},
	{AxisY, iio.ModY},
	{AxisZ, iio.ModZ},
}

// handleInterrupt runs on the interrupt line worker for each INT1 edge.
//
// ACT_TAP_STATUS must be read before INT_SOURCE, which clears it.
func (d *Dev) handleInterrupt() irq.Return {
	ts := d.indio.Time()
	status, source, axes, ok := d.readInterrupt(ts)
	if !ok || source&intSingleTap == 0 {
		return irq.Handled
	}
	for _, t := range tapOrder {
		if Axes(status)&axes&t.axis == 0 {
			continue
		}
		code := iio.ModEventCode(iio.Accel, 0, t.mod, iio.EventThresh, iio.DirEither)
		if err := d.indio.PushEvent(code, ts); err != nil {
			d.logf("adxl345: %s: %s: %v", d.name, code, err)
		}
	}
	return irq.Handled
}

func (d *Dev) readInterrupt(ts int64) (status, source byte, axes Axes, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timestamp = ts
	axes = d.clickAxes
	var err error
	if axes != 0 {
		if status, err = d.regs.ReadUint8(ActTapStatus); err != nil {
			d.logf("adxl345: %s: reading tap status: %v", d.name, err)
			return 0, 0, 0, false
		}
	}
	if source, err = d.regs.ReadUint8(IntSource); err != nil {
		d.logf("adxl345: %s: reading interrupt source: %v", d.name, err)
		return 0, 0, 0, false
	}
	return status, source, axes, true
}
