// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package animation implements the animation runtime: per-zone lazy frame
// sources with live parameter mutation and cooperative stop.
//
// The stop/cancel shape (context.CancelFunc + grace-period join) is grounded
// on the reference detector's goroutine lifecycle, generalized from
// "detector" to "animation producer"; parameters are re-read every
// iteration rather than cached, so a live adjustment takes effect without
// restarting the animation.
package animation

import (
	"math"
	"sync"
)

// ParamType is the scalar type of a declared animation parameter.
type ParamType int

const (
	ParamPercent ParamType = iota
	ParamInt
	ParamAngle
	ParamFloat
)

// ParamID names a parameter within an animation's schema, e.g. "SPEED".
type ParamID string

// ParamDef declares one parameter's schema, as loaded from
// animations.yaml/parameters.yaml.
type ParamDef struct {
	ID      ParamID
	Type    ParamType
	Min     float64
	Max     float64
	Step    float64
	Wraps   bool
	Default float64
}

// clampOrWrap applies the boundary rule: wraps=true wraps modulo the
// [min,max) range, else saturates at min/max.
func (d ParamDef) clampOrWrap(v float64) float64 {
	if d.Wraps {
		span := d.Max - d.Min
		if span <= 0 {
			return d.Min
		}
		v = math.Mod(v-d.Min, span)
		if v < 0 {
			v += span
		}
		return v + d.Min
	}
	if v < d.Min {
		return d.Min
	}
	if v > d.Max {
		return d.Max
	}
	return v
}

// ParamSet is the live, mutable parameter state of one running animation
// instance. It must never be copied; always pass by pointer so live updates
// are visible to the running generator.
type ParamSet struct {
	mu     sync.RWMutex
	defs   map[ParamID]ParamDef
	values map[ParamID]float64
}

// NewParamSet seeds a ParamSet with each declared parameter's default.
func NewParamSet(defs []ParamDef) *ParamSet {
	ps := &ParamSet{defs: map[ParamID]ParamDef{}, values: map[ParamID]float64{}}
	for _, d := range defs {
		ps.defs[d.ID] = d
		ps.values[d.ID] = d.Default
	}
	return ps
}

// Get reads the current value of id. Generators call this every iteration
// rather than caching the result, so live updates take effect without
// restart.
func (ps *ParamSet) Get(id ParamID) float64 {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.values[id]
}

// Set updates id's value, applying the clamp/wrap rule of its ParamDef. It
// returns false if id is not part of this animation's schema.
func (ps *ParamSet) Set(id ParamID, v float64) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	d, ok := ps.defs[id]
	if !ok {
		return false
	}
	ps.values[id] = d.clampOrWrap(v)
	return true
}

// Snapshot returns a copy of the current values, for persistence/API
// responses.
func (ps *ParamSet) Snapshot() map[ParamID]float64 {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	out := make(map[ParamID]float64, len(ps.values))
	for k, v := range ps.values {
		out[k] = v
	}
	return out
}

// Def returns the schema for id.
func (ps *ParamSet) Def(id ParamID) (ParamDef, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	d, ok := ps.defs[id]
	return d, ok
}
