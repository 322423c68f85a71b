// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package iio

import (
	"errors"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
)

// Trigger fires the poll functions of the devices using it.
//
// Implementations embed a *Consumers provided by this package.
type Trigger interface {
	Name() string
	attach(pf *PollFunc)
	detach(pf *PollFunc)
}

// Consumers is the set of poll functions attached to a trigger.
type Consumers struct {
	name string
	mu   sync.Mutex
	pfs  []*PollFunc
}

// Name returns the trigger name.
func (c *Consumers) Name() string {
	return c.name
}

// Fire schedules every attached poll function that is not still busy with a
// previous firing. It never blocks and returns the number scheduled.
func (c *Consumers) Fire() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, pf := range c.pfs {
		if pf.fire() {
			n++
		}
	}
	return n
}

// Len returns the number of attached poll functions.
func (c *Consumers) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pfs)
}

func (c *Consumers) attach(pf *PollFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pfs = append(c.pfs, pf)
}

func (c *Consumers) detach(pf *PollFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, p := range c.pfs {
		if p == pf {
			c.pfs = append(c.pfs[:i], c.pfs[i+1:]...)
			return
		}
	}
}

// SoftwareTrigger fires when Fire is called, like the Linux sysfs trigger.
type SoftwareTrigger struct {
	*Consumers
}

// NewSoftwareTrigger returns a trigger fired manually.
func NewSoftwareTrigger(name string) *SoftwareTrigger {
	return &SoftwareTrigger{Consumers: &Consumers{name: name}}
}

func (t *SoftwareTrigger) String() string {
	return "sysfs:" + t.name
}

// TickerTrigger fires periodically, like the Linux hrtimer trigger.
type TickerTrigger struct {
	*Consumers

	// ctl serializes Start, Halt and SetFrequency.
	ctl  sync.Mutex
	mu   sync.Mutex
	freq physic.Frequency
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewTickerTrigger returns a stopped periodic trigger.
func NewTickerTrigger(name string, f physic.Frequency) (*TickerTrigger, error) {
	if f <= 0 {
		return nil, errors.New("iio: trigger frequency must be positive")
	}
	return &TickerTrigger{Consumers: &Consumers{name: name}, freq: f}, nil
}

func (t *TickerTrigger) String() string {
	return "hrtimer:" + t.name + "@" + t.Frequency().String()
}

// Frequency returns the firing frequency.
func (t *TickerTrigger) Frequency() physic.Frequency {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freq
}

// SetFrequency changes the firing frequency, restarting the ticker if it is
// running.
func (t *TickerTrigger) SetFrequency(f physic.Frequency) error {
	if f <= 0 {
		return errors.New("iio: trigger frequency must be positive")
	}
	t.ctl.Lock()
	defer t.ctl.Unlock()
	running := t.halt()
	t.mu.Lock()
	t.freq = f
	t.mu.Unlock()
	if running {
		t.start()
	}
	return nil
}

// Start begins firing. It is a no-op if already started.
func (t *TickerTrigger) Start() error {
	t.ctl.Lock()
	defer t.ctl.Unlock()
	t.start()
	return nil
}

// Halt stops firing. Implements conn.Resource.
func (t *TickerTrigger) Halt() error {
	t.ctl.Lock()
	defer t.ctl.Unlock()
	t.halt()
	return nil
}

func (t *TickerTrigger) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	t.stop = make(chan struct{})
	t.wg.Add(1)
	go t.run(t.freq.Period(), t.stop)
}

// halt returns true if the ticker was running.
func (t *TickerTrigger) halt() bool {
	t.mu.Lock()
	stop := t.stop
	t.stop = nil
	t.mu.Unlock()
	if stop == nil {
		return false
	}
	close(stop)
	t.wg.Wait()
	return true
}

// Running reports whether the ticker is firing.
func (t *TickerTrigger) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *TickerTrigger) run(period time.Duration, stop <-chan struct{}) {
	defer t.wg.Done()
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.Fire()
		}
	}
}

var _ Trigger = &SoftwareTrigger{}
var _ Trigger = &TickerTrigger{}
var _ conn.Resource = &TickerTrigger{}
