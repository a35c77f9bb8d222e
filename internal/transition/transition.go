// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package transition

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/frame"
	"github.com/ledgrid/ledctl/internal/zonemap"
	"go.uber.org/zap"
)

// Kind is one of the four transition types.
type Kind string

const (
	KindFade      Kind = "FADE"
	KindCrossfade Kind = "CROSSFADE"
	KindCut       Kind = "CUT"
	KindNone      Kind = "NONE"
)

// Config describes how a crossfade should run: its type, duration, step
// count, and easing curve.
type Config struct {
	Type       Kind
	DurationMs int
	Steps      int
	Easing     Easing
}

// Presets bundle typical values for each well-known transition moment.
var (
	PresetStartup         = Config{Type: KindCrossfade, DurationMs: 1200, Steps: 30, Easing: EaseInOutQuad}
	PresetShutdown        = Config{Type: KindFade, DurationMs: 550, Steps: 20, Easing: EaseOutQuad}
	PresetModeSwitch      = Config{Type: KindCrossfade, DurationMs: 400, Steps: 15, Easing: EaseInOutQuad}
	PresetAnimationSwitch = Config{Type: KindCrossfade, DurationMs: 350, Steps: 14, Easing: EaseInOutQuad}
	PresetPowerToggle     = Config{Type: KindCrossfade, DurationMs: 500, Steps: 18, Easing: EaseInOutQuad}
	PresetZoneChange      = Config{Type: KindNone}
)

// Submitter is the subset of internal/framemgr.Manager the transition
// service needs, abstracted to avoid a direct dependency cycle.
type Submitter interface {
	Submit(frame.Frame)
}

// PixelState is a flat per-pixel RGB snapshot of one chain, the unit the
// crossfade interpolates between.
type PixelState map[zonemap.ZoneID][]colorx.Rgb

// Service runs eased crossfades, serialized via an exclusive lock so only
// one transition runs at a time.
type Service struct {
	mu        sync.Mutex
	submitter Submitter
	minFrame  time.Duration
	log       *zap.SugaredLogger
}

// New constructs a Service. minFrame is the slowest chain's min_frame_time,
// used as the step-delay floor.
func New(submitter Submitter, minFrame time.Duration, log *zap.SugaredLogger) *Service {
	return &Service{submitter: submitter, minFrame: minFrame, log: log}
}

// WaitForIdle blocks until no transition is in flight, then returns. Because
// the Service is a simple mutex, acquiring and releasing it suffices.
func (s *Service) WaitForIdle() {
	s.mu.Lock()
	s.mu.Unlock()
}

// Crossfade runs the stepped interpolation algorithm between from and to,
// submitting each step as a PixelFrame at TRANSITION priority.
//
// Cancellation during a transition is not permitted mid-step: the ctx is
// only observed between steps.
func (s *Service) Crossfade(ctx context.Context, from, to PixelState, cfg Config) error {
	if cfg.Type == KindNone {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	steps := cfg.Steps
	if steps < 1 {
		steps = 1
	}
	duration := time.Duration(cfg.DurationMs) * time.Millisecond
	stepDelay := duration / time.Duration(steps)
	if s.minFrame > 0 && stepDelay < s.minFrame {
		// Enforce the step-delay floor: reduce steps so
		// duration/steps >= min_frame_time, floor at 1 step.
		newSteps := int(duration / s.minFrame)
		if newSteps < 1 {
			newSteps = 1
		}
		if s.log != nil {
			s.log.Warnw("transition duration too short for step count; reducing steps",
				"requested_steps", steps, "reduced_steps", newSteps, "min_frame_time", s.minFrame)
		}
		steps = newSteps
		stepDelay = duration / time.Duration(steps)
		if stepDelay < s.minFrame {
			stepDelay = s.minFrame
		}
	}

	ttl := time.Duration(float64(stepDelay) * 1.5)
	easing := cfg.Easing
	if easing == "" {
		easing = EaseLinear
	}

	for k := 1; k <= steps; k++ {
		t := easing.apply(float64(k) / float64(steps))
		px := interpolate(from, to, t)
		s.submitter.Submit(frame.NewPixelFrame(px, false, frame.PriorityTransition, "transition", ttl))
		select {
		case <-ctx.Done():
			// In-flight step completes (already submitted above); observe
			// cancellation only between steps.
			return ctx.Err()
		case <-time.After(stepDelay):
		}
	}
	return nil
}

// FadeOut crossfades the current state (from) to black over duration.
func (s *Service) FadeOut(ctx context.Context, from PixelState, duration time.Duration) error {
	black := blackLike(from)
	cfg := Config{Type: KindCrossfade, DurationMs: int(duration / time.Millisecond), Steps: PresetShutdown.Steps, Easing: EaseOutQuad}
	return s.Crossfade(ctx, from, black, cfg)
}

// FadeIn crossfades from black to `to` over duration.
func (s *Service) FadeIn(ctx context.Context, to PixelState, duration time.Duration) error {
	black := blackLike(to)
	cfg := Config{Type: KindCrossfade, DurationMs: int(duration / time.Millisecond), Steps: PresetStartup.Steps, Easing: EaseInOutQuad}
	return s.Crossfade(ctx, black, to, cfg)
}

func blackLike(p PixelState) PixelState {
	out := make(PixelState, len(p))
	for z, px := range p {
		out[z] = make([]colorx.Rgb, len(px))
	}
	return out
}

func interpolate(from, to PixelState, t float64) map[zonemap.ZoneID][]colorx.Rgb {
	out := map[zonemap.ZoneID][]colorx.Rgb{}
	for z, toPx := range to {
		fromPx := from[z]
		n := len(toPx)
		res := make([]colorx.Rgb, n)
		for i := 0; i < n; i++ {
			var f colorx.Rgb
			if i < len(fromPx) {
				f = fromPx[i]
			}
			res[i] = colorx.Rgb{
				R: lerpByte(f.R, toPx[i].R, t),
				G: lerpByte(f.G, toPx[i].G, t),
				B: lerpByte(f.B, toPx[i].B, t),
			}
		}
		out[z] = res
	}
	return out
}

// String implements fmt.Stringer for Config, useful in log lines.
func (c Config) String() string {
	return fmt.Sprintf("%s(%dms,%dsteps,%s)", c.Type, c.DurationMs, c.Steps, c.Easing)
}
