// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"encoding/binary"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/mmr"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Registers is the register map of the device: 8 bit addresses, 8 bit
// registers, little endian 16 bit pairs.
//
// *mmr.Dev8 with binary.LittleEndian satisfies it. Implementations are
// expected to report bus failures as errors and nothing else; the driver
// serializes its own register sequences.
type Registers interface {
	ReadUint8(reg uint8) (uint8, error)
	ReadUint16(reg uint8) (uint16, error)
	WriteUint8(reg uint8, v uint8) error
}

const (
	// DefaultAddress is the I²C address with ALT ADDRESS low.
	DefaultAddress uint16 = 0x53
	// AltAddress is the I²C address with ALT ADDRESS high.
	AltAddress uint16 = 0x1D

	// SPI address byte flags.
	spiRead      byte = 0x80
	spiMultiByte byte = 0x40
)

var (
	SpiFrequency = physic.MegaHertz * 2
	SpiMode      = spi.Mode3 // Defines the base clock signal, along with the polarity and phase of the data signal.
	SpiBits      = 8
)

// newI2CRegisters returns the register map of a device at addr on b.
func newI2CRegisters(b i2c.Bus, addr uint16) *mmr.Dev8 {
	return &mmr.Dev8{Conn: &i2c.Dev{Bus: b, Addr: addr}, Order: binary.LittleEndian}
}

// spiRegisters is the register map over a 4-wire SPI connection.
type spiRegisters struct {
	c spi.Conn
}

func newSPIRegisters(p spi.Port) (*spiRegisters, error) {
	// Convert the spi.Port into a spi.Conn so it can be used for communication.
	c, err := p.Connect(SpiFrequency, SpiMode, SpiBits)
	if err != nil {
		return nil, err
	}
	return &spiRegisters{c: c}, nil
}

func (s *spiRegisters) String() string {
	return s.c.String()
}

// ReadUint8 reads one register. The first byte sent carries the address with
// the read bit set, the second is a "don't care" clocking out the value.
func (s *spiRegisters) ReadUint8(reg uint8) (uint8, error) {
	tx := [2]byte{reg | spiRead, 0x00}
	var rx [2]byte
	if err := s.c.Tx(tx[:], rx[:]); err != nil {
		return 0, err
	}
	return rx[1], nil
}

// ReadUint16 reads reg and reg+1 in one multi-byte transaction.
func (s *spiRegisters) ReadUint16(reg uint8) (uint16, error) {
	tx := [3]byte{reg | spiRead | spiMultiByte}
	var rx [3]byte
	if err := s.c.Tx(tx[:], rx[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(rx[1:]), nil
}

// WriteUint8 writes a 1 byte value to the specified register address.
func (s *spiRegisters) WriteUint8(reg uint8, v uint8) error {
	tx := [2]byte{reg, v}
	var rx [2]byte
	return s.c.Tx(tx[:], rx[:])
}

var _ Registers = &mmr.Dev8{}
var _ Registers = &spiRegisters{}
