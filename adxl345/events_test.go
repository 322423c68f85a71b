// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/accel/iio"
)

func tapCode(mod iio.Modifier) iio.EventCode {
	return iio.ModEventCode(iio.Accel, 0, mod, iio.EventThresh, iio.DirEither)
}

// readEvents waits for n events, then makes sure no other one follows.
func readEvents(t *testing.T, dev *iio.Device, n int) []iio.Event {
	t.Helper()
	var got []iio.Event
	for len(got) < n {
		select {
		case e := <-dev.Events():
			got = append(got, e)
		case <-time.After(2 * time.Second):
			t.Fatalf("got %d events, expected %d", len(got), n)
		}
	}
	select {
	case e := <-dev.Events():
		t.Fatalf("unexpected event %s", e)
	case <-time.After(20 * time.Millisecond):
	}
	return got
}

func TestTapEventsOrder(t *testing.T) {
	regs := newFakeRegs()
	o := testOpts(t, "taps")
	o.TapAxes = AllAxes
	d, pin := newTestDev(t, regs, o)
	regs.set(ActTapStatus, byte(AxisX|AxisZ))
	regs.set(IntSource, intSingleTap|intDataReady)

	pin.EdgesChan <- gpio.High
	got := readEvents(t, d.IIO(), 2)
	// The clock was read once, at the start of the handler.
	want := []iio.Event{
		{Code: tapCode(iio.ModX), Timestamp: 1},
		{Code: tapCode(iio.ModZ), Timestamp: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	wantAccess := []access{{Reg: ActTapStatus}, {Reg: IntSource}}
	if diff := cmp.Diff(wantAccess, regs.accesses()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if s := got[0].Code.String(); s != "in_accel_x_thresh_either" {
		t.Errorf("unexpected code %q", s)
	}
}

func TestTapEventsOnlyEnabledAxes(t *testing.T) {
	regs := newFakeRegs()
	d, pin := newTestDev(t, regs, testOpts(t, "tapz"))
	regs.set(ActTapStatus, byte(AllAxes))
	regs.set(IntSource, intSingleTap)

	pin.EdgesChan <- gpio.High
	got := readEvents(t, d.IIO(), 1)
	if got[0].Code != tapCode(iio.ModZ) {
		t.Errorf("unexpected event %s", got[0])
	}
}

func TestNoEventWithoutSingleTap(t *testing.T) {
	regs := newFakeRegs()
	d, pin := newTestDev(t, regs, testOpts(t, "notap"))
	regs.set(ActTapStatus, byte(AxisZ))
	regs.set(IntSource, intDataReady|intDoubleTap)

	pin.EdgesChan <- gpio.High
	waitFor(t, func() bool { return d.line.Count() == 1 })
	readEvents(t, d.IIO(), 0)
}

func TestNoTapAxesSkipsStatus(t *testing.T) {
	regs := newFakeRegs()
	o := testOpts(t, "noaxes")
	o.TapAxes = 0
	d, pin := newTestDev(t, regs, o)
	regs.set(ActTapStatus, byte(AllAxes))
	regs.set(IntSource, intSingleTap)

	pin.EdgesChan <- gpio.High
	waitFor(t, func() bool { return d.line.Count() == 1 })
	readEvents(t, d.IIO(), 0)
	if diff := cmp.Diff([]access{{Reg: IntSource}}, regs.accesses()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestTapStatusErrorStillHandled(t *testing.T) {
	regs := newFakeRegs()
	d, pin := newTestDev(t, regs, testOpts(t, "statuserr"))
	regs.set(ActTapStatus, byte(AxisZ))
	regs.set(IntSource, intSingleTap)
	regs.setFailRead(ActTapStatus, errBus)

	pin.EdgesChan <- gpio.High
	// INT1 stays asserted: the handler runs again without a new edge.
	waitFor(t, func() bool { return regs.count(access{Reg: ActTapStatus}) >= 2 })
	readEvents(t, d.IIO(), 0)
	// INT_SOURCE is left alone when the status could not be read.
	if n := regs.count(access{Reg: IntSource}); n != 0 {
		t.Errorf("INT_SOURCE read %d times", n)
	}
	if pin.Read() != gpio.High {
		t.Error("INT1 released")
	}

	// Once the bus recovers the pending tap is delivered, still without a
	// new edge.
	regs.setFailRead(ActTapStatus, nil)
	got := readEvents(t, d.IIO(), 1)
	if got[0].Code != tapCode(iio.ModZ) {
		t.Errorf("unexpected event %s", got[0])
	}
	waitFor(t, func() bool { return pin.Read() == gpio.Low })
}

func TestSourceErrorStillHandled(t *testing.T) {
	regs := newFakeRegs()
	d, pin := newTestDev(t, regs, testOpts(t, "sourceerr"))
	regs.set(ActTapStatus, byte(AxisZ))
	regs.set(IntSource, intSingleTap)
	regs.setFailRead(IntSource, errBus)

	pin.EdgesChan <- gpio.High
	waitFor(t, func() bool { return regs.count(access{Reg: IntSource}) >= 2 })
	readEvents(t, d.IIO(), 0)
	if d.line.Unhandled() != 0 {
		t.Error("interrupt reported as not handled")
	}

	regs.setFailRead(IntSource, nil)
	readEvents(t, d.IIO(), 1)
	waitFor(t, func() bool { return pin.Read() == gpio.Low })
	n := d.line.Count()
	time.Sleep(20 * time.Millisecond)
	if m := d.line.Count(); m != n {
		t.Errorf("handler kept running after INT1 was released: %d then %d", n, m)
	}
}

func TestTapLatchedBeforeNew(t *testing.T) {
	regs := newFakeRegs()
	regs.set(ActTapStatus, byte(AxisZ))
	regs.set(IntSource, intSingleTap)
	pin := newEdgePin("INT1")
	pin.L = gpio.High
	regs.connect(pin.Pin)
	o := testOpts(t, "latched")
	d, err := New(regs, pin, &o)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Halt()

	got := readEvents(t, d.IIO(), 1)
	if diff := cmp.Diff([]iio.Event{{Code: tapCode(iio.ModZ), Timestamp: 1}}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if pin.Read() != gpio.Low {
		t.Error("INT1 still asserted")
	}
}

func TestEventQueueOverflow(t *testing.T) {
	regs := newFakeRegs()
	d, pin := newTestDev(t, regs, testOpts(t, "overflow"))
	regs.set(ActTapStatus, byte(AxisZ))
	regs.set(IntSource, intSingleTap)

	for i := 0; i < iio.EventQueueLength+2; i++ {
		pin.EdgesChan <- gpio.High
		want := uint64(i + 1)
		waitFor(t, func() bool { return d.line.Count() == want })
	}
	if n := d.IIO().DroppedEvents(); n != 2 {
		t.Errorf("%d dropped events, expected 2", n)
	}
	readEvents(t, d.IIO(), iio.EventQueueLength)
}
