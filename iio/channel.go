// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package iio

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for an unsupported channel, info kind or
	// value. No hardware access happens before it is returned.
	ErrInvalidArgument = errors.New("iio: invalid argument")
	// ErrBusy is returned when the buffer configuration is changed while the
	// buffer is enabled.
	ErrBusy = errors.New("iio: device busy")
)

// ChanType is the physical quantity measured by a channel.
type ChanType int

const (
	Accel ChanType = iota
	Timestamp
)

func (c ChanType) String() string {
	switch c {
	case Accel:
		return "accel"
	case Timestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("ChanType(%d)", int(c))
	}
}

// Modifier qualifies a modified channel, typically with its axis.
type Modifier int

const (
	NoModifier Modifier = iota
	ModX
	ModY
	ModZ
)

func (m Modifier) String() string {
	switch m {
	case NoModifier:
		return ""
	case ModX:
		return "x"
	case ModY:
		return "y"
	case ModZ:
		return "z"
	default:
		return fmt.Sprintf("Modifier(%d)", int(m))
	}
}

// ChanInfo is the attribute of a channel being read or written.
//
// The set is closed: drivers switch over it and reject anything else with
// ErrInvalidArgument.
type ChanInfo int

const (
	InfoRaw ChanInfo = iota
	InfoScale
	InfoSampFreq
)

func (i ChanInfo) String() string {
	switch i {
	case InfoRaw:
		return "raw"
	case InfoScale:
		return "scale"
	case InfoSampFreq:
		return "sampling_frequency"
	default:
		return fmt.Sprintf("ChanInfo(%d)", int(i))
	}
}

// EventInfo is the attribute of an event being read or written.
type EventInfo int

const (
	// EventValue is the threshold of the event.
	EventValue EventInfo = iota
	// EventPeriod is the time window of the event.
	EventPeriod
)

func (e EventInfo) String() string {
	switch e {
	case EventValue:
		return "value"
	case EventPeriod:
		return "period"
	default:
		return fmt.Sprintf("EventInfo(%d)", int(e))
	}
}

// Endianness is the byte order of a scan element in the buffer.
type Endianness int

const (
	LittleEndian Endianness = iota
	BigEndian
)

// ScanType describes how a channel is stored in a buffer record.
type ScanType struct {
	Sign        byte // 's' or 'u'
	RealBits    int
	StorageBits int
	Shift       int
	Endianness  Endianness
}

// String returns the format used by the Linux scan_elements type attribute,
// e.g. "le:s16/16>>0".
func (s ScanType) String() string {
	e := "le"
	if s.Endianness == BigEndian {
		e = "be"
	}
	return fmt.Sprintf("%s:%c%d/%d>>%d", e, s.Sign, s.RealBits, s.StorageBits, s.Shift)
}

// EventSpec describes an event a channel can generate.
type EventSpec struct {
	Type     EventType
	Dir      EventDirection
	Separate []EventInfo
}

// Channel describes one channel of a device.
type Channel struct {
	Type     ChanType
	Modified bool
	Modifier Modifier
	// Address is driver private, usually the first data register.
	Address uint8
	// ScanIndex is the bit of the channel in a ScanMask; -1 if the channel
	// cannot be buffered.
	ScanIndex        int
	ScanType         ScanType
	InfoSeparate     []ChanInfo
	InfoSharedByType []ChanInfo
	Events           []EventSpec
}

// SoftTimestamp returns the software timestamp channel, appended last to
// every buffer record.
func SoftTimestamp(scanIndex int) Channel {
	return Channel{
		Type:      Timestamp,
		ScanIndex: scanIndex,
		ScanType:  ScanType{Sign: 's', RealBits: 64, StorageBits: 64, Endianness: LittleEndian},
	}
}

// Supports returns true if info is an attribute of the channel.
func (c *Channel) Supports(info ChanInfo) bool {
	for _, i := range c.InfoSeparate {
		if i == info {
			return true
		}
	}
	for _, i := range c.InfoSharedByType {
		if i == info {
			return true
		}
	}
	return false
}

// SupportsEvent returns true if info is an attribute of one of the channel
// events.
func (c *Channel) SupportsEvent(info EventInfo) bool {
	for _, e := range c.Events {
		for _, i := range e.Separate {
			if i == info {
				return true
			}
		}
	}
	return false
}

// String returns the channel name as it would appear in sysfs, e.g. "accel_x".
func (c *Channel) String() string {
	if c.Modified {
		return c.Type.String() + "_" + c.Modifier.String()
	}
	return c.Type.String()
}

// Info is implemented by drivers to serve on-demand channel and event
// attribute access. Calls happen synchronously in the caller's goroutine and
// may block on the bus.
type Info interface {
	ReadRaw(ch *Channel, info ChanInfo) (Value, error)
	WriteRaw(ch *Channel, v Value, info ChanInfo) error
	ReadEventValue(ch *Channel, info EventInfo) (Value, error)
	WriteEventValue(ch *Channel, info EventInfo, v Value) error
}
