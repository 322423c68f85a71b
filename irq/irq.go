// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package irq runs a threaded interrupt handler on edges of a GPIO input.
//
// One goroutine waits for edges on the pin and only posts a wake-up; a
// second goroutine runs the handler, which may block on a bus. Edges that
// arrive while the handler runs are coalesced into a single pending run, so
// the handler is never re-entered, like a oneshot threaded IRQ.
//
// For a rising or falling edge the line is also level sensitive: it is
// serviced when the pin is already active at Request, and serviced again
// after each run for as long as the pin stays active. A device that holds
// its interrupt output until acknowledged is never left without a handler.
package irq

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Return is the result of a Handler.
type Return int

const (
	// None means the interrupt was not raised by this device.
	None Return = iota
	// Handled means the interrupt was serviced.
	Handled
)

// Handler services one interrupt.
type Handler func() Return

// ErrNoPin is returned by Request when the platform supplied no pin.
var ErrNoPin = errors.New("irq: no interrupt pin")

// pollInterval bounds how long Free waits for the edge watcher.
const pollInterval = 100 * time.Millisecond

// levelRetry paces the runs of a handler that leaves the line active.
const levelRetry = time.Millisecond

// Line is an interrupt line bound to a handler.
type Line struct {
	pin     gpio.PinIn
	name    string
	handler Handler
	// active is the asserted level; hasLevel is false for BothEdges.
	active   gpio.Level
	hasLevel bool

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once

	handled   atomic.Uint64
	unhandled atomic.Uint64
}

// Request enables edge detection on pin and starts servicing it with h.
func Request(pin gpio.PinIn, edge gpio.Edge, name string, h Handler) (*Line, error) {
	if pin == nil {
		return nil, ErrNoPin
	}
	if h == nil {
		return nil, errors.New("irq: nil handler")
	}
	if err := pin.In(gpio.PullNoChange, edge); err != nil {
		return nil, fmt.Errorf("irq: %s on %s: %w", name, pin, err)
	}
	l := &Line{
		pin:     pin,
		name:    name,
		handler: h,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	switch edge {
	case gpio.RisingEdge:
		l.active, l.hasLevel = gpio.High, true
	case gpio.FallingEdge:
		l.active, l.hasLevel = gpio.Low, true
	}
	if l.asserted() {
		l.wake <- struct{}{}
	}
	l.wg.Add(2)
	go l.watch()
	go l.thread()
	return l, nil
}

func (l *Line) String() string {
	return fmt.Sprintf("irq(%s on %s)", l.name, l.pin)
}

// Count returns how many invocations returned Handled.
func (l *Line) Count() uint64 {
	return l.handled.Load()
}

// Unhandled returns how many invocations returned None.
func (l *Line) Unhandled() uint64 {
	return l.unhandled.Load()
}

// Free stops servicing the line, waits for a running handler to return and
// disables edge detection. It is safe to call more than once.
func (l *Line) Free() error {
	var err error
	l.once.Do(func() {
		close(l.stop)
		l.wg.Wait()
		err = l.pin.In(gpio.PullNoChange, gpio.NoEdge)
	})
	return err
}

// watch never blocks on anything but the pin.
func (l *Line) watch() {
	defer l.wg.Done()
	for {
		select {
		case <-l.stop:
			return
		default:
		}
		if l.pin.WaitForEdge(pollInterval) {
			l.post()
		}
	}
}

func (l *Line) thread() {
	defer l.wg.Done()
	for {
		select {
		case <-l.stop:
			return
		case <-l.wake:
			if l.handler() == Handled {
				l.handled.Add(1)
			} else {
				l.unhandled.Add(1)
			}
			if !l.asserted() {
				continue
			}
			select {
			case <-l.stop:
				return
			case <-time.After(levelRetry):
			}
			if l.asserted() {
				l.post()
			}
		}
	}
}

// asserted reports whether the pin is at its active level.
func (l *Line) asserted() bool {
	return l.hasLevel && l.pin.Read() == l.active
}

func (l *Line) post() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
