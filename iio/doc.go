// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package iio is a small industrial I/O framework for sensor drivers.
//
// A driver describes its channels with Channel descriptors, implements Info
// for on-demand reads and writes, pushes threshold events with
// Device.PushEvent and fills a triggered buffer from a PollFunc handler.
// Consumers find published devices with Lookup, read events from
// Device.Events and sample records from Device.Records.
//
// The model follows the Linux IIO subsystem: a trigger fires, the poll
// function captures a timestamp, the driver's handler reads the active scan
// elements and pushes one Record, then tells the trigger it is done. A
// trigger never re-fires a poll function that has not been notified done.
//
// # Reference
//
// https://www.kernel.org/doc/html/latest/driver-api/iio/index.html
package iio
