// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"github.com/GermanBionicSystems/accel/iio"
)

// triggerHandler samples the active axes once per trigger firing.
//
// A failed read drops the whole pass. The trigger is always notified.
func (d *Dev) triggerHandler(pf *iio.PollFunc) {
	defer pf.NotifyDone()
	var buf [numAxes]int16
	n, ok := d.sample(d.indio.ActiveScanMask(), pf.Timestamp, &buf)
	if !ok {
		return
	}
	if err := d.indio.PushToBuffersWithTimestamp(buf[:n], pf.Timestamp); err != nil {
		d.logf("adxl345: %s: %v", d.name, err)
	}
}

func (d *Dev) sample(mask iio.ScanMask, ts int64, buf *[numAxes]int16) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for i := 0; i < numAxes; i++ {
		if !mask.Has(i) {
			continue
		}
		v, err := d.regs.ReadUint16(DataX0 + uint8(2*i))
		if err != nil {
			d.logf("adxl345: %s: reading axis %d: %v", d.name, i, err)
			return 0, false
		}
		buf[n] = int16(v)
		n++
	}
	d.timestamp = ts
	return n, true
}
