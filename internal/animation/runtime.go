// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package animation

import (
	"context"
	"sync"
	"time"

	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/frame"
	"github.com/ledgrid/ledctl/internal/transition"
	"github.com/ledgrid/ledctl/internal/zonemap"
	"go.uber.org/zap"
)

// Generator is a running animation's body. It must call yield at least once
// per logical frame and sleep (or otherwise suspend) between yields,
// re-reading params each iteration; it returns when ctx is cancelled.
// pixelCounts gives each zone's logical pixel count, for generators (SNAKE,
// COLOR_SNAKE) that traverse individual pixels within a zone. baseColors
// gives each zone's live ZoneState.color (resolved to RGB at Start time),
// for generators (BREATHE) whose output tracks the zone's own color rather
// than an independent parameter.
type Generator func(ctx context.Context, zones []zonemap.ZoneID, excluded map[zonemap.ZoneID]bool, pixelCounts map[zonemap.ZoneID]int, baseColors map[zonemap.ZoneID]colorx.Rgb, params *ParamSet, yield func(Yield))

// Definition is the immutable, catalog-level description of one animation:
// id, display metadata, and accepted parameter schema.
type Definition struct {
	ID          string
	DisplayName string
	Description string
	Params      []ParamDef
	Gen         Generator
}

// Submitter is the subset of internal/framemgr.Manager the runtime needs.
type Submitter interface {
	Submit(frame.Frame)
}

// Instance is one running animation bound to a set of zones.
type Instance struct {
	def      Definition
	zones    []zonemap.ZoneID
	excluded map[zonemap.ZoneID]bool
	params   *ParamSet

	pixelCounts map[zonemap.ZoneID]int
	baseColors  map[zonemap.ZoneID]colorx.Rgb

	cancel context.CancelFunc
	done   chan struct{}
}

// Params returns the live parameter set, for controllers adjusting SPEED
// etc. while the animation runs.
func (in *Instance) Params() *ParamSet { return in.params }

// Definition returns the immutable schema this instance was started from.
func (in *Instance) Definition() Definition { return in.def }

// Runtime manages one running Instance per zone-scope, coordinated with the
// transition service so switching animations crossfades rather than cuts.
type Runtime struct {
	mu        sync.Mutex
	submitter Submitter
	trans     *transition.Service
	log       *zap.SugaredLogger

	running map[zonemap.ZoneID]*Instance // zone -> owning instance (zone-scope keyed)
}

// NewRuntime builds a Runtime.
func NewRuntime(submitter Submitter, trans *transition.Service, log *zap.SugaredLogger) *Runtime {
	return &Runtime{submitter: submitter, trans: trans, log: log, running: map[zonemap.ZoneID]*Instance{}}
}

// frameTTLFactor widens TTL beyond the expected inter-yield delay.
const frameTTLFactor = 1.5

// CurrentComposite snapshots the per-zone colors to use as the transition's
// "old" state; callers (controllers) supply this from live ZoneState.
type CurrentComposite func() transition.PixelState

// Start begins def on zones (excluding excludedZones), crossfading from
// oldState (captured by the caller) via the transition service. baseColors
// supplies each zone's live ZoneState.color for generators that track it
// (BREATHE); callers with no such generator may pass nil.
func (r *Runtime) Start(ctx context.Context, def Definition, zones []zonemap.ZoneID, excludedZones map[zonemap.ZoneID]bool, pixelCounts map[zonemap.ZoneID]int, baseColors map[zonemap.ZoneID]colorx.Rgb, oldState transition.PixelState, cfg transition.Config) (*Instance, error) {
	params := NewParamSet(def.Params)
	inst := &Instance{def: def, zones: zones, excluded: excludedZones, pixelCounts: pixelCounts, baseColors: baseColors, params: params, done: make(chan struct{})}

	// Compute the first animation frame synchronously so the transition has
	// a concrete "new" target.
	firstFrame := make(transition.PixelState)
	var firstMu sync.Mutex
	captureFirst := func(y Yield) {
		firstMu.Lock()
		defer firstMu.Unlock()
		switch y.Kind {
		case YieldFullStrip:
			for _, z := range zones {
				if excludedZones[z] {
					continue
				}
				firstFrame[z] = []colorx.Rgb{y.Color}
			}
		case YieldZone:
			firstFrame[y.Zone] = []colorx.Rgb{y.Color}
		case YieldPixel:
			px := firstFrame[y.Zone]
			for len(px) <= y.Pixel {
				px = append(px, colorx.Rgb{})
			}
			px[y.Pixel] = y.Color
			firstFrame[y.Zone] = px
		}
	}
	previewCtx, previewCancel := context.WithCancel(ctx)
	go func() {
		def.Gen(previewCtx, zones, excludedZones, pixelCounts, baseColors, params, captureFirst)
	}()
	time.Sleep(5 * time.Millisecond) // let the generator emit its first yield
	previewCancel()

	if r.trans != nil && oldState != nil {
		if err := r.trans.Crossfade(ctx, oldState, firstFrame, cfg); err != nil {
			return nil, err
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	inst.cancel = cancel

	r.mu.Lock()
	for _, z := range zones {
		r.running[z] = inst
	}
	r.mu.Unlock()

	go r.run(runCtx, inst)
	return inst, nil
}

// run drives the generator, converting each Yield to a Frame submitted at
// ANIMATION priority.
func (r *Runtime) run(ctx context.Context, inst *Instance) {
	defer close(inst.done)
	yield := func(y Yield) {
		f := toFrame(y, inst.zones, inst.excluded)
		r.submitter.Submit(f)
	}
	inst.def.Gen(ctx, inst.zones, inst.excluded, inst.pixelCounts, inst.baseColors, inst.params, yield)
}

func toFrame(y Yield, zones []zonemap.ZoneID, excluded map[zonemap.ZoneID]bool) frame.Frame {
	ttl := time.Duration(float64(33*time.Millisecond) * frameTTLFactor)
	switch y.Kind {
	case YieldZone:
		return frame.NewZoneFrame(map[zonemap.ZoneID]colorx.Rgb{y.Zone: y.Color}, frame.PriorityAnimation, "animation", ttl)
	case YieldPixel:
		return frame.NewPixelFrame(map[zonemap.ZoneID][]colorx.Rgb{y.Zone: {y.Color}}, false, frame.PriorityAnimation, "animation", ttl)
	default:
		colors := map[zonemap.ZoneID]colorx.Rgb{}
		for _, z := range zones {
			if excluded[z] {
				continue
			}
			colors[z] = y.Color
		}
		return frame.NewZoneFrame(colors, frame.PriorityAnimation, "animation", ttl)
	}
}

// stopGrace is the cooperative-stop grace period (<= 50ms typical).
const stopGrace = 50 * time.Millisecond

// Stop cooperatively stops inst: signals cancellation and waits up to
// stopGrace for the generator goroutine to exit. If it does not, the
// context cancellation itself (already delivered) is relied on as the
// forced-cancel path; this is an expected signal, not an error.
func (r *Runtime) Stop(inst *Instance) {
	if inst == nil {
		return
	}
	if inst.cancel != nil {
		inst.cancel()
	}
	select {
	case <-inst.done:
	case <-time.After(stopGrace):
	}
	r.mu.Lock()
	for _, z := range inst.zones {
		if r.running[z] == inst {
			delete(r.running, z)
		}
	}
	r.mu.Unlock()
}

// RunningOn returns the instance currently animating zone, if any.
func (r *Runtime) RunningOn(zone zonemap.ZoneID) (*Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.running[zone]
	return inst, ok
}

// Switch stops any instance currently running on zones and starts def in
// its place.
func (r *Runtime) Switch(ctx context.Context, def Definition, zones []zonemap.ZoneID, excludedZones map[zonemap.ZoneID]bool, pixelCounts map[zonemap.ZoneID]int, baseColors map[zonemap.ZoneID]colorx.Rgb, oldState transition.PixelState, cfg transition.Config) (*Instance, error) {
	for _, z := range zones {
		if inst, ok := r.RunningOn(z); ok {
			r.Stop(inst)
		}
	}
	return r.Start(ctx, def, zones, excludedZones, pixelCounts, baseColors, oldState, cfg)
}

// TaskInfo is a point-in-time view of one running animation instance, for
// the system/tasks API and WebSocket task broadcasts.
type TaskInfo struct {
	Zones       []zonemap.ZoneID
	AnimationID string
	Parameters  map[ParamID]float64
}

// Tasks returns one TaskInfo per distinct running instance (an instance
// bound to several zones is reported once, with all of its zones listed).
func (r *Runtime) Tasks() []TaskInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[*Instance]bool{}
	out := make([]TaskInfo, 0, len(r.running))
	for _, inst := range r.running {
		if seen[inst] {
			continue
		}
		seen[inst] = true
		out = append(out, TaskInfo{Zones: append([]zonemap.ZoneID(nil), inst.zones...), AnimationID: inst.def.ID, Parameters: inst.params.Snapshot()})
	}
	return out
}
