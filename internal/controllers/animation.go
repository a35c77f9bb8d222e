// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package controllers

import (
	"context"

	"github.com/ledgrid/ledctl/internal/animation"
	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/errs"
	"github.com/ledgrid/ledctl/internal/eventbus"
	"github.com/ledgrid/ledctl/internal/transition"
	"github.com/ledgrid/ledctl/internal/zonemap"
	"github.com/ledgrid/ledctl/internal/zonestate"
	"go.uber.org/zap"
)

// PixelCounter supplies each zone's logical pixel count, needed by
// generators that traverse individual pixels (SNAKE, COLOR_SNAKE).
type PixelCounter interface {
	PixelCountOf(zone zonemap.ZoneID) int
}

// AnimationController routes the selector encoder to animation selection
// and the modulator encoder to live adjustment of the currently selected
// animation parameter, for whichever zone is in ANIMATION mode.
type AnimationController struct {
	store    *zonestate.Store
	runtime  *animation.Runtime
	catalog  []animation.Definition
	pixels   PixelCounter
	resolver colorx.PresetResolver
	bus      *eventbus.Bus
	log      *zap.SugaredLogger
}

// NewAnimationController builds an AnimationController over catalog (the
// built-ins plus any YAML-declared animations).
func NewAnimationController(store *zonestate.Store, runtime *animation.Runtime, catalog []animation.Definition, pixels PixelCounter, resolver colorx.PresetResolver, bus *eventbus.Bus, log *zap.SugaredLogger) *AnimationController {
	return &AnimationController{store: store, runtime: runtime, catalog: catalog, pixels: pixels, resolver: resolver, bus: bus, log: log}
}

func (c *AnimationController) definitionByID(id string) (animation.Definition, bool) {
	for _, d := range c.catalog {
		if d.ID == id {
			return d, true
		}
	}
	return animation.Definition{}, false
}

// currentComposite captures zone's present rendered color as a
// single-pixel transition.PixelState, used as the crossfade "from" state.
func (c *AnimationController) currentComposite(id zonemap.ZoneID) transition.PixelState {
	zc, ok := c.store.Zone(id)
	if !ok {
		return transition.PixelState{}
	}
	n := 1
	if c.pixels != nil {
		if pc := c.pixels.PixelCountOf(id); pc > 0 {
			n = pc
		}
	}
	rgb := zc.State.Color.WithBrightness(zc.State.Brightness, c.resolver)
	px := make([]colorx.Rgb, n)
	for i := range px {
		px[i] = rgb
	}
	return transition.PixelState{id: px}
}

func (c *AnimationController) pixelCounts(id zonemap.ZoneID) map[zonemap.ZoneID]int {
	n := 1
	if c.pixels != nil {
		if pc := c.pixels.PixelCountOf(id); pc > 0 {
			n = pc
		}
	}
	return map[zonemap.ZoneID]int{id: n}
}

// baseColors resolves zone's current ZoneState.color to RGB, for generators
// (BREATHE) that track a zone's own configured color rather than an
// independent parameter.
func (c *AnimationController) baseColors(id zonemap.ZoneID) map[zonemap.ZoneID]colorx.Rgb {
	zc, ok := c.store.Zone(id)
	if !ok {
		return map[zonemap.ZoneID]colorx.Rgb{id: {}}
	}
	return map[zonemap.ZoneID]colorx.Rgb{id: zc.State.Color.ToRGB(c.resolver)}
}

// Start begins animationID on zone, crossfading from its current state.
func (c *AnimationController) Start(ctx context.Context, zone zonemap.ZoneID, animationID string) error {
	def, ok := c.definitionByID(animationID)
	if !ok {
		return errs.NotFound("unknown animation " + animationID)
	}
	old := c.currentComposite(zone)
	_, err := c.runtime.Start(ctx, def, []zonemap.ZoneID{zone}, nil, c.pixelCounts(zone), c.baseColors(zone), old, transition.PresetAnimationSwitch)
	if err != nil {
		return err
	}
	c.store.MutateZone(zone, func(zs *zonestate.ZoneState) {
		zs.Mode = zonestate.ModeAnimation
		zs.Animation = &zonestate.AnimationState{ID: def.ID, Parameters: map[string]float64{}}
	})
	if c.bus != nil {
		c.bus.Publish(eventbus.Event{Type: eventbus.AnimationStarted, Payload: struct {
			Zone      zonemap.ZoneID
			Animation string
		}{zone, def.ID}})
	}
	return nil
}

// Switch stops whatever is running on zone and starts animationID in its
// place.
func (c *AnimationController) Switch(ctx context.Context, zone zonemap.ZoneID, animationID string) error {
	def, ok := c.definitionByID(animationID)
	if !ok {
		return errs.NotFound("unknown animation " + animationID)
	}
	old := c.currentComposite(zone)
	_, err := c.runtime.Switch(ctx, def, []zonemap.ZoneID{zone}, nil, c.pixelCounts(zone), c.baseColors(zone), old, transition.PresetAnimationSwitch)
	if err != nil {
		return err
	}
	c.store.MutateZone(zone, func(zs *zonestate.ZoneState) {
		zs.Animation = &zonestate.AnimationState{ID: def.ID, Parameters: map[string]float64{}}
	})
	return nil
}

// Stop halts the animation running on zone, if any.
func (c *AnimationController) Stop(zone zonemap.ZoneID) {
	if inst, ok := c.runtime.RunningOn(zone); ok {
		c.runtime.Stop(inst)
	}
	c.store.MutateZone(zone, func(zs *zonestate.ZoneState) { zs.Animation = nil })
	if c.bus != nil {
		c.bus.Publish(eventbus.Event{Type: eventbus.AnimationStopped, Payload: zone})
	}
}

// AdjustParam mutates paramID on the animation currently running on zone
// by delta, live.
func (c *AnimationController) AdjustParam(zone zonemap.ZoneID, paramID string, delta float64) bool {
	inst, ok := c.runtime.RunningOn(zone)
	if !ok {
		return false
	}
	ps := inst.Params()
	cur := ps.Get(animation.ParamID(paramID))
	if !ps.Set(animation.ParamID(paramID), cur+delta) {
		return false
	}
	c.store.MutateZone(zone, func(zs *zonestate.ZoneState) {
		if zs.Animation != nil {
			zs.Animation.Parameters[paramID] = ps.Get(animation.ParamID(paramID))
		}
	})
	if c.bus != nil {
		c.bus.Publish(eventbus.Event{Type: eventbus.AnimationParamChanged, Payload: struct {
			Zone  zonemap.ZoneID
			Param string
		}{zone, paramID}})
	}
	return true
}
