// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package iio

import (
	"fmt"
	"strconv"
	"strings"
)

// ValType tells how Value.Val and Value.Val2 combine.
type ValType int

const (
	// ValInt is a plain integer in Val.
	ValInt ValType = iota
	// ValIntPlusMicro is Val + Val2/1e6.
	ValIntPlusMicro
)

// Value is an attribute value exchanged with a driver.
type Value struct {
	Type ValType
	Val  int
	Val2 int
}

// Int returns an integer Value.
func Int(v int) Value {
	return Value{Type: ValInt, Val: v}
}

// IntPlusMicro returns a fixed point Value of v + v2/1e6.
func IntPlusMicro(v, v2 int) Value {
	return Value{Type: ValIntPlusMicro, Val: v, Val2: v2}
}

// Micro returns the fixed point Value of micro/1e6.
func Micro(micro int64) Value {
	return IntPlusMicro(int(micro/1000000), int(micro%1000000))
}

// Micros returns the value in millionths.
func (v Value) Micros() int64 {
	if v.Type == ValInt {
		return int64(v.Val) * 1000000
	}
	return int64(v.Val)*1000000 + int64(v.Val2)
}

// String formats the value the way sysfs attributes do, e.g. "0.038245".
func (v Value) String() string {
	switch v.Type {
	case ValInt:
		return strconv.Itoa(v.Val)
	case ValIntPlusMicro:
		m := v.Micros()
		sign := ""
		if m < 0 {
			sign = "-"
			m = -m
		}
		return fmt.Sprintf("%s%d.%06d", sign, m/1000000, m%1000000)
	default:
		return fmt.Sprintf("Value{%d, %d, %d}", v.Type, v.Val, v.Val2)
	}
}

// ParseValue parses a decimal string with up to six fractional digits.
//
// Integers parse to ValInt, anything with a decimal point to
// ValIntPlusMicro.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if !hasFrac {
		i, err := strconv.Atoi(intPart)
		if err != nil || !isDigits(strings.TrimPrefix(intPart, "-")) {
			return Value{}, fmt.Errorf("iio: parsing %q: %w", s, ErrInvalidArgument)
		}
		return Int(i), nil
	}
	neg := strings.HasPrefix(intPart, "-")
	digits := strings.TrimPrefix(intPart, "-")
	if !isDigits(digits) || !isDigits(frac) || digits+frac == "" {
		return Value{}, fmt.Errorf("iio: parsing %q: %w", s, ErrInvalidArgument)
	}
	if len(frac) > 6 {
		frac = frac[:6]
	}
	i := 0
	var err error
	if digits != "" {
		if i, err = strconv.Atoi(digits); err != nil {
			return Value{}, fmt.Errorf("iio: parsing %q: %w", s, ErrInvalidArgument)
		}
	}
	f := 0
	if frac != "" {
		if f, err = strconv.Atoi(frac + strings.Repeat("0", 6-len(frac))); err != nil {
			return Value{}, fmt.Errorf("iio: parsing %q: %w", s, ErrInvalidArgument)
		}
	}
	m := int64(i)*1000000 + int64(f)
	if neg {
		m = -m
	}
	return Micro(m), nil
}

// isDigits reports whether s only holds ASCII digits. Signs are rejected.
func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
