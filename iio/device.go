// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package iio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// epoch anchors Device.Time to the monotonic clock.
var epoch = time.Now()

// Device is the framework side of a driver instance.
type Device struct {
	Name string
	// Channels must not be modified once the device is registered.
	Channels []Channel
	// AvailableScanMasks lists the combinations of scan indexes that can be
	// active together. Any subset of one of them is accepted. An empty list
	// accepts any combination of bufferable channels.
	AvailableScanMasks []ScanMask
	Info               Info
	// Clock returns the time in nanoseconds; the process monotonic clock is
	// used when nil.
	Clock func() int64

	events        chan Event
	droppedEvents atomic.Uint64

	mu             sync.Mutex
	activeScanMask ScanMask
	pf             *PollFunc
	trig           Trigger
	enabled        bool
	records        chan Record
	droppedRecords atomic.Uint64
}

// NewDevice returns a Device with its event queue and buffer allocated.
func NewDevice(name string, info Info, channels []Channel, available []ScanMask) *Device {
	return &Device{
		Name:               name,
		Channels:           channels,
		AvailableScanMasks: available,
		Info:               info,
		events:             make(chan Event, EventQueueLength),
		records:            make(chan Record, BufferLength),
	}
}

func (d *Device) String() string {
	return fmt.Sprintf("iio:%s", d.Name)
}

// Time returns the device clock in nanoseconds.
func (d *Device) Time() int64 {
	if d.Clock != nil {
		return d.Clock()
	}
	return int64(time.Since(epoch))
}

// Channel returns the channel of type t and modifier m, or nil.
func (d *Device) Channel(t ChanType, m Modifier) *Channel {
	for i := range d.Channels {
		if d.Channels[i].Type == t && d.Channels[i].Modifier == m {
			return &d.Channels[i]
		}
	}
	return nil
}

// ReadRaw reads a channel attribute through the driver.
func (d *Device) ReadRaw(ch *Channel, info ChanInfo) (Value, error) {
	if d.Info == nil || ch == nil {
		return Value{}, ErrInvalidArgument
	}
	return d.Info.ReadRaw(ch, info)
}

// WriteRaw writes a channel attribute through the driver.
func (d *Device) WriteRaw(ch *Channel, v Value, info ChanInfo) error {
	if d.Info == nil || ch == nil {
		return ErrInvalidArgument
	}
	return d.Info.WriteRaw(ch, v, info)
}

// ReadEventValue reads an event attribute through the driver.
func (d *Device) ReadEventValue(ch *Channel, info EventInfo) (Value, error) {
	if d.Info == nil || ch == nil {
		return Value{}, ErrInvalidArgument
	}
	return d.Info.ReadEventValue(ch, info)
}

// WriteEventValue writes an event attribute through the driver.
func (d *Device) WriteEventValue(ch *Channel, info EventInfo, v Value) error {
	if d.Info == nil || ch == nil {
		return ErrInvalidArgument
	}
	return d.Info.WriteEventValue(ch, info, v)
}

// PushEvent queues an event for the consumer. It never blocks; when the
// queue is full the event is dropped and ErrEventQueueFull returned.
func (d *Device) PushEvent(code EventCode, timestamp int64) error {
	select {
	case d.events <- Event{Code: code, Timestamp: timestamp}:
		return nil
	default:
		d.droppedEvents.Add(1)
		return ErrEventQueueFull
	}
}

// Events returns the event queue.
func (d *Device) Events() <-chan Event {
	return d.events
}

// DroppedEvents returns how many events were lost to a full queue.
func (d *Device) DroppedEvents() uint64 {
	return d.droppedEvents.Load()
}

// ScanMask returns the mask of every bufferable channel, timestamp excluded.
func (d *Device) ScanMask() ScanMask {
	var m ScanMask
	for i := range d.Channels {
		if c := &d.Channels[i]; c.ScanIndex >= 0 && c.Type != Timestamp {
			m |= ScanMaskOf(c.ScanIndex)
		}
	}
	return m
}

// SetActiveScanMask selects the channels sampled on each trigger. It fails
// with ErrBusy while the buffer is enabled.
func (d *Device) SetActiveScanMask(m ScanMask) error {
	if m == 0 || !m.SubsetOf(d.ScanMask()) {
		return fmt.Errorf("iio: %s: scan mask %s: %w", d.Name, m, ErrInvalidArgument)
	}
	if len(d.AvailableScanMasks) != 0 {
		ok := false
		for _, a := range d.AvailableScanMasks {
			if m.SubsetOf(a) {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("iio: %s: scan mask %s not available: %w", d.Name, m, ErrInvalidArgument)
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.enabled {
		return ErrBusy
	}
	d.activeScanMask = m
	return nil
}

// ActiveScanMask returns the channels sampled on each trigger.
func (d *Device) ActiveScanMask() ScanMask {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.activeScanMask
}
