// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package adxl345 controls an ADXL345 3-axis accelerometer over I²C or SPI.
//
// The device is exposed as an iio.Device: three acceleration channels with
// raw, scale and sampling frequency attributes, single tap events on the
// INT1 pin and a triggered buffer of the axes selected by the consumer.
//
// # Datasheet
//
// http://www.analog.com/media/en/technical-documentation/data-sheets/ADXL345.pdf
package adxl345
