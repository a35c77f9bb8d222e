// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package controllers implements routing only: translating encoder/button/
// keyboard events into state mutations and engine commands. No rendering
// or persistence logic lives here.
package controllers

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/eventbus"
	"github.com/ledgrid/ledctl/internal/frame"
	"github.com/ledgrid/ledctl/internal/zonemap"
	"github.com/ledgrid/ledctl/internal/zonestate"
	"go.uber.org/zap"
)

// Submitter is the subset of internal/framemgr.Manager controllers need to
// overlay a brightness pulse on top of the selected zone's base color.
type Submitter interface {
	Submit(frame.Frame)
}

const pulsePeriod = 1200 * time.Millisecond // <= 1 Hz brightness pulse

// StaticController routes the selector encoder to zone selection and the
// modulator encoder to adjustments of the selected zone's current edit
// target (hue, preset, or brightness).
type StaticController struct {
	store     *zonestate.Store
	submitter Submitter
	bus       *eventbus.Bus
	resolver  colorx.PresetResolver
	log       *zap.SugaredLogger

	mu      sync.Mutex
	cancel  context.CancelFunc
}

// NewStaticController builds a StaticController and starts its pulse
// goroutine against ctx.
func NewStaticController(ctx context.Context, store *zonestate.Store, submitter Submitter, bus *eventbus.Bus, resolver colorx.PresetResolver, log *zap.SugaredLogger) *StaticController {
	c := &StaticController{store: store, submitter: submitter, bus: bus, resolver: resolver, log: log}
	pulseCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go c.pulseLoop(pulseCtx)
	return c
}

// Close stops the pulse goroutine.
func (c *StaticController) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *StaticController) selectedZone() (zonemap.ZoneID, bool) {
	app := c.store.Application()
	zones := c.store.AllZones()
	if app.SelectedZoneIndex < 0 || app.SelectedZoneIndex >= len(zones) {
		return "", false
	}
	return zones[app.SelectedZoneIndex].Config.ID, true
}

// OnSelectorRotate moves the selected-zone index by delta, wrapping within
// the configured zone count.
func (c *StaticController) OnSelectorRotate(delta int) {
	zones := c.store.AllZones()
	if len(zones) == 0 {
		return
	}
	c.store.MutateApplication(func(a *zonestate.ApplicationState) {
		n := len(zones)
		a.SelectedZoneIndex = ((a.SelectedZoneIndex+delta)%n + n) % n
	})
	if c.bus != nil {
		c.bus.Publish(eventbus.Event{Type: eventbus.EncoderRotate, Payload: struct {
			Source string
			Delta  int
		}{"selector", delta}})
	}
}

// OnModulatorRotate adjusts the selected zone's current edit target
// (COLOR_HUE, COLOR_PRESET, or BRIGHTNESS) by delta.
func (c *StaticController) OnModulatorRotate(delta int) {
	id, ok := c.selectedZone()
	if !ok {
		return
	}
	app := c.store.Application()
	c.store.MutateZone(id, func(zs *zonestate.ZoneState) {
		switch app.SelectedZoneEditTarget {
		case zonestate.EditBrightness:
			b := zs.Brightness + delta
			if b < 0 {
				b = 0
			}
			if b > 100 {
				b = 100
			}
			zs.Brightness = b
		case zonestate.EditColorPreset:
			order := presetOrder(c.resolver)
			if len(order) == 0 {
				return
			}
			cur := indexOfPreset(order, zs.Color)
			next := 0
			if cur >= 0 {
				next = ((cur+delta)%len(order) + len(order)) % len(order)
			}
			zs.Color = colorx.NewPreset(order[next])
		default: // EditColorHue
			hue := 0.0
			if zs.Color.Mode == colorx.ModeHue {
				hue = zs.Color.Hue
			}
			zs.Color = colorx.NewHue(hue + float64(delta))
		}
	})
	if c.bus != nil {
		c.bus.Publish(eventbus.Event{Type: eventbus.ZoneStateChanged, Payload: id})
	}
}

// SetEditTarget switches which property the modulator encoder adjusts.
func (c *StaticController) SetEditTarget(t zonestate.EditTarget) {
	c.store.MutateApplication(func(a *zonestate.ApplicationState) { a.SelectedZoneEditTarget = t })
}

// pulseLoop overlays a <= 1 Hz sinusoidal brightness pulse on the selected
// zone's base color while that zone is in STATIC mode. Frames are submitted
// at PULSE priority, which ranks above ANIMATION and below TRANSITION, so a
// running transition still takes precedence over the pulse.
func (c *StaticController) pulseLoop(ctx context.Context) {
	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()
	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			id, ok := c.selectedZone()
			if !ok {
				continue
			}
			zc, ok := c.store.Zone(id)
			if !ok || zc.State.Mode != zonestate.ModeStatic {
				continue
			}
			phase := 2 * math.Pi * float64(time.Since(start)) / float64(pulsePeriod)
			scale := 0.6 + 0.4*math.Sin(phase)
			rgb := zc.State.Color.WithBrightness(int(float64(zc.State.Brightness)*scale), c.resolver)
			c.submitter.Submit(frame.NewZoneFrame(map[zonemap.ZoneID]colorx.Rgb{id: rgb}, frame.PriorityPulse, "static_controller", 200*time.Millisecond))
		}
	}
}

func presetOrder(resolver colorx.PresetResolver) []string {
	if pt, ok := resolver.(interface{ Order() []string }); ok {
		return pt.Order()
	}
	return nil
}

func indexOfPreset(order []string, c colorx.Color) int {
	if c.Mode != colorx.ModePreset {
		return -1
	}
	for i, name := range order {
		if name == c.Preset {
			return i
		}
	}
	return -1
}
