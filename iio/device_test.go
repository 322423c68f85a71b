// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package iio

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// echoInfo serves a single raw value and records the last write.
type echoInfo struct {
	raw     Value
	written Value
	event   Value
}

func (e *echoInfo) ReadRaw(ch *Channel, info ChanInfo) (Value, error) {
	if info != InfoRaw {
		return Value{}, ErrInvalidArgument
	}
	return e.raw, nil
}

func (e *echoInfo) WriteRaw(ch *Channel, v Value, info ChanInfo) error {
	e.written = v
	return nil
}

func (e *echoInfo) ReadEventValue(ch *Channel, info EventInfo) (Value, error) {
	return e.event, nil
}

func (e *echoInfo) WriteEventValue(ch *Channel, info EventInfo, v Value) error {
	e.event = v
	return nil
}

func testChannels() []Channel {
	st := ScanType{Sign: 's', RealBits: 16, StorageBits: 16}
	return []Channel{
		{Type: Accel, Modified: true, Modifier: ModX, ScanIndex: 0, ScanType: st, InfoSeparate: []ChanInfo{InfoRaw}},
		{Type: Accel, Modified: true, Modifier: ModY, ScanIndex: 1, ScanType: st, InfoSeparate: []ChanInfo{InfoRaw}},
		{Type: Accel, Modified: true, Modifier: ModZ, ScanIndex: 2, ScanType: st, InfoSeparate: []ChanInfo{InfoRaw},
			Events: []EventSpec{{Type: EventThresh, Dir: DirEither, Separate: []EventInfo{EventValue}}}},
		SoftTimestamp(3),
	}
}

func TestDeviceChannels(t *testing.T) {
	d := NewDevice("dev", &echoInfo{}, testChannels(), nil)
	if s := d.String(); s != "iio:dev" {
		t.Errorf("String()=%q", s)
	}
	z := d.Channel(Accel, ModZ)
	if z == nil || z.String() != "accel_z" {
		t.Fatalf("Channel() returned %v", z)
	}
	if !z.Supports(InfoRaw) || z.Supports(InfoScale) {
		t.Error("Supports() is wrong")
	}
	if !z.SupportsEvent(EventValue) || z.SupportsEvent(EventPeriod) {
		t.Error("SupportsEvent() is wrong")
	}
	if d.Channel(Accel, NoModifier) != nil {
		t.Error("unexpected channel")
	}
	if m := d.ScanMask(); m != ScanMaskOf(0, 1, 2) {
		t.Errorf("ScanMask()=%s", m)
	}
	if s := d.Channel(Timestamp, NoModifier).ScanType.String(); s != "le:s64/64>>0" {
		t.Errorf("timestamp scan type %q", s)
	}
}

func TestDeviceInfoDelegation(t *testing.T) {
	e := &echoInfo{raw: Int(-5)}
	d := NewDevice("dev", e, testChannels(), nil)
	x := d.Channel(Accel, ModX)
	v, err := d.ReadRaw(x, InfoRaw)
	if err != nil {
		t.Fatal(err)
	}
	if v != Int(-5) {
		t.Errorf("ReadRaw()=%s", v)
	}
	if err := d.WriteRaw(x, Int(100), InfoSampFreq); err != nil {
		t.Fatal(err)
	}
	if e.written != Int(100) {
		t.Errorf("written %s", e.written)
	}
	if err := d.WriteEventValue(x, EventValue, Int(7)); err != nil {
		t.Fatal(err)
	}
	if v, _ := d.ReadEventValue(x, EventValue); v != Int(7) {
		t.Errorf("ReadEventValue()=%s", v)
	}
	if _, err := d.ReadRaw(nil, InfoRaw); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	noInfo := NewDevice("noinfo", nil, testChannels(), nil)
	if err := noInfo.WriteRaw(x, Int(1), InfoRaw); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDeviceTime(t *testing.T) {
	d := NewDevice("dev", nil, nil, nil)
	a := d.Time()
	b := d.Time()
	if b < a {
		t.Errorf("clock went backward: %d then %d", a, b)
	}
	d.Clock = func() int64 { return 42 }
	if n := d.Time(); n != 42 {
		t.Errorf("Time()=%d", n)
	}
}

func TestPushEventOverflow(t *testing.T) {
	d := NewDevice("dev", nil, testChannels(), nil)
	code := ModEventCode(Accel, 0, ModZ, EventThresh, DirEither)
	for i := 0; i < EventQueueLength; i++ {
		if err := d.PushEvent(code, int64(i)); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.PushEvent(code, 99); !errors.Is(err, ErrEventQueueFull) {
		t.Fatalf("expected ErrEventQueueFull, got %v", err)
	}
	if n := d.DroppedEvents(); n != 1 {
		t.Errorf("DroppedEvents()=%d", n)
	}
	// The oldest events are kept.
	e := <-d.Events()
	if diff := cmp.Diff(Event{Code: code, Timestamp: 0}, e); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if s := e.String(); s != "in_accel_z_thresh_either@0" {
		t.Errorf("String()=%q", s)
	}
}

func TestSetActiveScanMask(t *testing.T) {
	d := NewDevice("dev", nil, testChannels(), []ScanMask{ScanMaskOf(0, 1), ScanMaskOf(2)})
	data := []struct {
		m  ScanMask
		ok bool
	}{
		{ScanMaskOf(0), true},
		{ScanMaskOf(0, 1), true},
		{ScanMaskOf(2), true},
		{ScanMaskOf(0, 2), false},
		{ScanMaskOf(3), false},
		{0, false},
	}
	for _, line := range data {
		err := d.SetActiveScanMask(line.m)
		if line.ok != (err == nil) {
			t.Errorf("%s: unexpected %v", line.m, err)
		}
		if err != nil && !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", line.m, err)
		}
	}
	if m := d.ActiveScanMask(); m != ScanMaskOf(2) {
		t.Errorf("ActiveScanMask()=%s", m)
	}
}
