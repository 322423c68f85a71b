// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package iio

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrExists is returned by Register when the name is already taken.
	ErrExists = errors.New("iio: device already registered")
	// ErrNotRegistered is returned by Unregister for an unknown device.
	ErrNotRegistered = errors.New("iio: device not registered")
)

var (
	mu     sync.Mutex
	byName = map[string]*Device{}
)

// Register publishes a device so consumers can find it with Lookup.
func Register(d *Device) error {
	if d == nil || d.Name == "" {
		return ErrInvalidArgument
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := byName[d.Name]; ok {
		return fmt.Errorf("iio: %s: %w", d.Name, ErrExists)
	}
	byName[d.Name] = d
	return nil
}

// Unregister removes a device published with Register.
func Unregister(d *Device) error {
	mu.Lock()
	defer mu.Unlock()
	if d == nil || byName[d.Name] != d {
		return ErrNotRegistered
	}
	delete(byName, d.Name)
	return nil
}

// Lookup returns the device registered under name, or nil.
func Lookup(name string) *Device {
	mu.Lock()
	defer mu.Unlock()
	return byName[name]
}

// All returns every registered device sorted by name.
func All() []*Device {
	mu.Lock()
	defer mu.Unlock()
	out := make([]*Device, 0, len(byName))
	for _, d := range byName {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
