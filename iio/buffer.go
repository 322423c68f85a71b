// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package iio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// BufferLength is the number of records a Device holds before new records
// are dropped.
const BufferLength = 128

var (
	// ErrBufferFull is returned by PushToBuffersWithTimestamp when the
	// consumer is not draining Device.Records.
	ErrBufferFull = errors.New("iio: buffer full")
	// ErrNoTriggeredBuffer is returned when the buffer is used before
	// SetupTriggeredBuffer.
	ErrNoTriggeredBuffer = errors.New("iio: no triggered buffer")
	// ErrNoTrigger is returned by EnableBuffer without a trigger.
	ErrNoTrigger = errors.New("iio: no trigger")
)

// Record is one buffer entry: the active scan elements in ascending scan
// index order followed by the timestamp of the trigger.
type Record struct {
	Samples   []int16
	Timestamp int64
}

// Bytes returns the record as laid out in a Linux IIO buffer: little endian
// 16 bit samples, zero padding up to 8 byte alignment, then the little
// endian 64 bit timestamp.
func (r Record) Bytes() []byte {
	n := 2 * len(r.Samples)
	pad := (8 - n%8) % 8
	b := make([]byte, n+pad+8)
	for i, s := range r.Samples {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(s))
	}
	binary.LittleEndian.PutUint64(b[n+pad:], uint64(r.Timestamp))
	return b
}

// PollFunc is the consumer side of a trigger for one device.
//
// Timestamp is captured by the trigger when it fires, before the handler is
// scheduled. The handler must call NotifyDone exactly once per invocation,
// whether or not it pushed a record.
type PollFunc struct {
	// Timestamp of the firing currently being serviced.
	Timestamp int64

	dev      *Device
	handler  func(pf *PollFunc)
	busy     atomic.Bool
	serviced atomic.Uint64
	wake     chan int64
	stop     chan struct{}
	wg       sync.WaitGroup
}

// Device returns the device the poll function belongs to.
func (pf *PollFunc) Device() *Device {
	return pf.dev
}

// NotifyDone tells the trigger that this firing was serviced and that the
// poll function can be fired again.
func (pf *PollFunc) NotifyDone() {
	pf.serviced.Add(1)
	pf.busy.Store(false)
}

// Serviced returns the number of firings that were notified done.
func (pf *PollFunc) Serviced() uint64 {
	return pf.serviced.Load()
}

// fire schedules the handler with the current device time. It returns false
// if the previous firing has not been notified done yet.
func (pf *PollFunc) fire() bool {
	if !pf.busy.CompareAndSwap(false, true) {
		return false
	}
	select {
	case pf.wake <- pf.dev.Time():
		return true
	default:
		pf.busy.Store(false)
		return false
	}
}

func (pf *PollFunc) start() {
	pf.wake = make(chan int64, 1)
	pf.stop = make(chan struct{})
	pf.busy.Store(false)
	pf.wg.Add(1)
	go pf.run(pf.wake, pf.stop)
}

func (pf *PollFunc) run(wake <-chan int64, stop <-chan struct{}) {
	defer pf.wg.Done()
	for {
		select {
		case <-stop:
			return
		case ts := <-wake:
			pf.Timestamp = ts
			pf.handler(pf)
		}
	}
}

func (pf *PollFunc) halt() {
	close(pf.stop)
	pf.wg.Wait()
	pf.busy.Store(false)
}

// SetupTriggeredBuffer binds handler as the bottom half run on every trigger
// firing. The top half stores the trigger timestamp in PollFunc.Timestamp.
func (d *Device) SetupTriggeredBuffer(handler func(pf *PollFunc)) error {
	if handler == nil {
		return ErrInvalidArgument
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pf != nil {
		return fmt.Errorf("iio: %s: triggered buffer already set up: %w", d.Name, ErrBusy)
	}
	d.pf = &PollFunc{dev: d, handler: handler}
	return nil
}

// PollFunc returns the poll function set up by SetupTriggeredBuffer, or nil.
func (d *Device) PollFunc() *PollFunc {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pf
}

// SetTrigger selects the trigger driving the buffer. It fails with ErrBusy
// while the buffer is enabled.
func (d *Device) SetTrigger(t Trigger) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.enabled {
		return ErrBusy
	}
	d.trig = t
	return nil
}

// EnableBuffer attaches the poll function to the trigger. The active scan
// mask must be set.
func (d *Device) EnableBuffer() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.pf == nil:
		return ErrNoTriggeredBuffer
	case d.trig == nil:
		return ErrNoTrigger
	case d.activeScanMask == 0:
		return fmt.Errorf("iio: %s: empty scan mask: %w", d.Name, ErrInvalidArgument)
	case d.enabled:
		return ErrBusy
	}
	d.pf.start()
	d.trig.attach(d.pf)
	d.enabled = true
	return nil
}

// DisableBuffer detaches the poll function from its trigger and waits for a
// running handler to return. It is a no-op when the buffer is not enabled.
func (d *Device) DisableBuffer() error {
	d.mu.Lock()
	if !d.enabled {
		d.mu.Unlock()
		return nil
	}
	d.enabled = false
	pf, t := d.pf, d.trig
	d.mu.Unlock()
	// The handler may call ActiveScanMask, so wait without holding d.mu.
	t.detach(pf)
	pf.halt()
	return nil
}

// BufferEnabled returns true between EnableBuffer and DisableBuffer.
func (d *Device) BufferEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

// PushToBuffersWithTimestamp appends one record. samples is copied. It never
// blocks; when the buffer is full the record is dropped and ErrBufferFull
// returned.
func (d *Device) PushToBuffersWithTimestamp(samples []int16, timestamp int64) error {
	if want := d.ActiveScanMask().Count(); len(samples) != want {
		return fmt.Errorf("iio: %s: %d samples for %d active channels: %w", d.Name, len(samples), want, ErrInvalidArgument)
	}
	r := Record{Samples: append([]int16(nil), samples...), Timestamp: timestamp}
	select {
	case d.records <- r:
		return nil
	default:
		d.droppedRecords.Add(1)
		return ErrBufferFull
	}
}

// Records returns the buffer.
func (d *Device) Records() <-chan Record {
	return d.records
}

// DroppedRecords returns how many records were lost to a full buffer.
func (d *Device) DroppedRecords() uint64 {
	return d.droppedRecords.Load()
}
