// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpioreg implements the process-global GPIO ownership registry: a
// (pin -> owner name, mode) map where re-registering an already-owned pin
// fails, and shutdown releases pins in reverse registration order.
//
// This is the ownership-tracking sibling of a plain pin-name resolver: it
// additionally needs to know who owns a pin and in what mode, and to
// refuse double registration.
package gpioreg

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
)

// Mode describes how a registered pin is being used.
type Mode int

const (
	ModeOut Mode = iota
	ModeIn
	ModePWM
)

func (m Mode) String() string {
	switch m {
	case ModeOut:
		return "out"
	case ModeIn:
		return "in"
	case ModePWM:
		return "pwm"
	default:
		return "unknown"
	}
}

type entry struct {
	pin   gpio.PinIO
	owner string
	mode  Mode
}

// Registry is the process-global GPIO ownership table.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []string // registration order, for reverse-order release
}

// New returns an empty Registry. A single instance should be constructed at
// startup and passed by reference to every component that owns GPIO pins,
// rather than resolved through a package-level singleton.
func New() *Registry {
	return &Registry{entries: map[string]*entry{}}
}

// Register claims pin for owner in the given mode. It fails if the pin name
// is already registered to anyone, including the same owner.
func (r *Registry) Register(pin gpio.PinIO, owner string, mode Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := pin.Name()
	if e, ok := r.entries[name]; ok {
		return fmt.Errorf("gpioreg: pin %q already owned by %q (%s)", name, e.owner, e.mode)
	}
	r.entries[name] = &entry{pin: pin, owner: owner, mode: mode}
	r.order = append(r.order, name)
	return nil
}

// Owner returns the owner name and mode of a registered pin, if any.
func (r *Registry) Owner(pinName string) (owner string, mode Mode, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[pinName]
	if !ok {
		return "", 0, false
	}
	return e.owner, e.mode, true
}

// ReleaseAll releases every registered pin in reverse registration order,
// and as best-effort drives each to a safe (Low output) state before
// release. The first error encountered is returned after attempting every
// release.
func (r *Registry) ReleaseAll() error {
	r.mu.Lock()
	order := append([]string(nil), r.order...)
	entries := r.entries
	r.entries = map[string]*entry{}
	r.order = nil
	r.mu.Unlock()

	var firstErr error
	for i := len(order) - 1; i >= 0; i-- {
		e, ok := entries[order[i]]
		if !ok {
			continue
		}
		if out, ok := e.pin.(gpio.PinOut); ok {
			if err := out.Out(gpio.Low); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("gpioreg: release %q: %w", order[i], err)
			}
		}
	}
	return firstErr
}

// Registered returns the number of pins currently owned, for diagnostics.
func (r *Registry) Registered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
