// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package controllers

import (
	"context"
	"sync"
	"time"

	"github.com/ledgrid/ledctl/internal/animation"
	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/eventbus"
	"github.com/ledgrid/ledctl/internal/transition"
	"github.com/ledgrid/ledctl/internal/zonemap"
	"github.com/ledgrid/ledctl/internal/zonestate"
	"go.uber.org/zap"
)

// LampWhitePreset is the preset name locked in by lamp-white quick-mode.
const LampWhitePreset = "warm_white"

// LightingController arbitrates installation-wide transitions that span
// multiple zones: power toggle, lamp-white quick-mode, and per-zone
// STATIC/ANIMATION mode switches.
type LightingController struct {
	store   *zonestate.Store
	trans   *transition.Service
	runtime *animation.Runtime
	pixels  PixelCounter
	resolver colorx.PresetResolver
	bus     *eventbus.Bus
	log     *zap.SugaredLogger

	mu             sync.Mutex
	prevBrightness map[zonemap.ZoneID]int
	lockedWhite    map[zonemap.ZoneID]bool
}

// NewLightingController builds a LightingController.
func NewLightingController(store *zonestate.Store, trans *transition.Service, runtime *animation.Runtime, pixels PixelCounter, resolver colorx.PresetResolver, bus *eventbus.Bus, log *zap.SugaredLogger) *LightingController {
	return &LightingController{
		store: store, trans: trans, runtime: runtime, pixels: pixels, resolver: resolver, bus: bus, log: log,
		prevBrightness: map[zonemap.ZoneID]int{},
		lockedWhite:    map[zonemap.ZoneID]bool{},
	}
}

// ExcludedZones returns the set of zones currently locked to lamp-white,
// which animation Start/Switch callers should pass as excludedZones.
func (lc *LightingController) ExcludedZones() map[zonemap.ZoneID]bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	out := make(map[zonemap.ZoneID]bool, len(lc.lockedWhite))
	for z := range lc.lockedWhite {
		out[z] = true
	}
	return out
}

func (lc *LightingController) composite() transition.PixelState {
	state := transition.PixelState{}
	for _, zc := range lc.store.AllZones() {
		n := 1
		if lc.pixels != nil {
			if pc := lc.pixels.PixelCountOf(zc.Config.ID); pc > 0 {
				n = pc
			}
		}
		rgb := colorx.Rgb{}
		if zc.State.Power {
			rgb = zc.State.Color.WithBrightness(zc.State.Brightness, lc.resolver)
		}
		px := make([]colorx.Rgb, n)
		for i := range px {
			px[i] = rgb
		}
		state[zc.Config.ID] = px
	}
	return state
}

// PowerOff fades every zone to black, persists each zone's brightness so
// PowerOn can restore it, and clears is_on.
func (lc *LightingController) PowerOff(ctx context.Context) error {
	from := lc.composite()
	if err := lc.trans.FadeOut(ctx, from, time.Duration(transition.PresetShutdown.DurationMs)*time.Millisecond); err != nil {
		return err
	}
	lc.mu.Lock()
	for _, zc := range lc.store.AllZones() {
		lc.prevBrightness[zc.Config.ID] = zc.State.Brightness
	}
	lc.mu.Unlock()
	for _, zc := range lc.store.AllZones() {
		id := zc.Config.ID
		lc.store.MutateZone(id, func(zs *zonestate.ZoneState) { zs.Power = false })
	}
	return nil
}

// PowerOn restores every zone's previous brightness and fades in from
// black.
func (lc *LightingController) PowerOn(ctx context.Context) error {
	for _, zc := range lc.store.AllZones() {
		id := zc.Config.ID
		lc.mu.Lock()
		b, ok := lc.prevBrightness[id]
		lc.mu.Unlock()
		lc.store.MutateZone(id, func(zs *zonestate.ZoneState) {
			zs.Power = true
			if ok {
				zs.Brightness = b
			}
		})
	}
	to := lc.composite()
	black := transition.PixelState{}
	for z, px := range to {
		black[z] = make([]colorx.Rgb, len(px))
	}
	return lc.trans.Crossfade(ctx, black, to, transition.PresetStartup)
}

// LampWhiteQuickMode stops any animation on zone, locks it to the warm-white
// preset in STATIC mode and records the lock, which ExcludedZones reports
// until ReleaseLampWhite. Animation starts do not consult the lock, so a
// later Start or Switch can still include the zone.
func (lc *LightingController) LampWhiteQuickMode(zone zonemap.ZoneID) {
	if inst, ok := lc.runtime.RunningOn(zone); ok {
		lc.runtime.Stop(inst)
	}
	lc.store.MutateZone(zone, func(zs *zonestate.ZoneState) {
		zs.Mode = zonestate.ModeStatic
		zs.Color = colorx.NewPreset(LampWhitePreset)
		zs.Animation = nil
	})
	lc.mu.Lock()
	lc.lockedWhite[zone] = true
	lc.mu.Unlock()
	if lc.bus != nil {
		lc.bus.Publish(eventbus.Event{Type: eventbus.ZoneRenderModeChanged, Payload: zone})
	}
}

// ReleaseLampWhite removes zone's lamp-white lock, allowing animations to
// target it again.
func (lc *LightingController) ReleaseLampWhite(zone zonemap.ZoneID) {
	lc.mu.Lock()
	delete(lc.lockedWhite, zone)
	lc.mu.Unlock()
}

// SwitchMode transitions zone between STATIC and ANIMATION, stopping or
// leaving its animation task as appropriate.
func (lc *LightingController) SwitchMode(zone zonemap.ZoneID, mode zonestate.RenderMode) {
	if mode == zonestate.ModeStatic {
		if inst, ok := lc.runtime.RunningOn(zone); ok {
			lc.runtime.Stop(inst)
		}
	}
	lc.store.MutateZone(zone, func(zs *zonestate.ZoneState) { zs.Mode = mode })
	if lc.bus != nil {
		lc.bus.Publish(eventbus.Event{Type: eventbus.ZoneRenderModeChanged, Payload: zone})
	}
}
