// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package accel is a container for an ADXL345 tap and streaming driver and
// the small industrial I/O framework it plugs into.
//
// See adxl345 for the driver, iio for channels, events and triggered
// buffers, and cmd/accelmon for a command line monitor.
package accel
