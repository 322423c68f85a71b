// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package iio

import (
	"errors"
	"fmt"
)

// EventQueueLength is the number of events a Device holds before new events
// are dropped.
const EventQueueLength = 16

// ErrEventQueueFull is returned by PushEvent when the consumer is not
// draining Device.Events.
var ErrEventQueueFull = errors.New("iio: event queue full")

// EventType is the kind of condition that generated an event.
type EventType int

const (
	EventThresh EventType = iota
	EventMag
	EventROC
)

func (e EventType) String() string {
	switch e {
	case EventThresh:
		return "thresh"
	case EventMag:
		return "mag"
	case EventROC:
		return "roc"
	default:
		return fmt.Sprintf("EventType(%d)", int(e))
	}
}

// EventDirection is the direction of the crossing that generated an event.
type EventDirection int

const (
	DirEither EventDirection = iota
	DirRising
	DirFalling
)

func (d EventDirection) String() string {
	switch d {
	case DirEither:
		return "either"
	case DirRising:
		return "rising"
	case DirFalling:
		return "falling"
	default:
		return fmt.Sprintf("EventDirection(%d)", int(d))
	}
}

// EventCode identifies the channel and condition of an event.
type EventCode struct {
	ChanType ChanType
	Channel  int
	Modifier Modifier
	Type     EventType
	Dir      EventDirection
}

// ModEventCode returns the code of an event on a modified channel.
func ModEventCode(chanType ChanType, channel int, mod Modifier, typ EventType, dir EventDirection) EventCode {
	return EventCode{ChanType: chanType, Channel: channel, Modifier: mod, Type: typ, Dir: dir}
}

// String returns the code as "in_accel_x_thresh_either".
func (c EventCode) String() string {
	s := "in_" + c.ChanType.String()
	if c.Modifier != NoModifier {
		s += "_" + c.Modifier.String()
	}
	return s + "_" + c.Type.String() + "_" + c.Dir.String()
}

// Event is one event notification.
type Event struct {
	Code EventCode
	// Timestamp in nanoseconds of the device clock.
	Timestamp int64
}

func (e Event) String() string {
	return fmt.Sprintf("%s@%d", e.Code, e.Timestamp)
}
