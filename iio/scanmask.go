// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package iio

import (
	"math/bits"
	"strconv"
	"strings"
)

// ScanMask is a set of channel scan indexes.
type ScanMask uint32

// ScanMaskOf returns the mask with the given scan indexes set.
func ScanMaskOf(indexes ...int) ScanMask {
	var m ScanMask
	for _, i := range indexes {
		m |= 1 << uint(i)
	}
	return m
}

// Has returns true if scan index i is set.
func (m ScanMask) Has(i int) bool {
	return i >= 0 && i < 32 && m&(1<<uint(i)) != 0
}

// Count returns the number of indexes set.
func (m ScanMask) Count() int {
	return bits.OnesCount32(uint32(m))
}

// SubsetOf returns true if every index of m is also set in o.
func (m ScanMask) SubsetOf(o ScanMask) bool {
	return m&^o == 0
}

// Indices returns the set indexes in ascending order.
func (m ScanMask) Indices() []int {
	out := make([]int, 0, m.Count())
	for v := uint32(m); v != 0; v &= v - 1 {
		out = append(out, bits.TrailingZeros32(v))
	}
	return out
}

func (m ScanMask) String() string {
	idx := m.Indices()
	s := make([]string, len(idx))
	for i, v := range idx {
		s[i] = strconv.Itoa(v)
	}
	return "{" + strings.Join(s, ",") + "}"
}
