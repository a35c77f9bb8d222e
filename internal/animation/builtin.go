// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package animation

import (
	"context"
	"math"
	"time"

	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/zonemap"
)

const tickInterval = 33 * time.Millisecond

// speedToPeriod maps a 1..100 SPEED parameter to a period in the given
// [min,max] range, where 100 is fastest (shortest period) and 1 is slowest.
func speedToPeriod(speed float64, min, max time.Duration) time.Duration {
	if speed < 1 {
		speed = 1
	}
	if speed > 100 {
		speed = 100
	}
	frac := (100 - speed) / 99.0
	span := float64(max - min)
	return min + time.Duration(frac*span)
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return true
	case <-time.After(d):
		return false
	}
}

// breatheEnvelope returns the 15%..100% sinusoidal brightness scale at
// elapsed into a cycle of period.
func breatheEnvelope(elapsed time.Duration, period time.Duration) float64 {
	phase := 2 * math.Pi * float64(elapsed) / float64(period)
	return 0.575 + 0.425*math.Sin(phase) // midpoint 57.5%, swing to 15%..100%
}

// Breathe applies a sinusoidal brightness envelope between 15% and 100% to
// each zone's own configured color (ZoneState.color, supplied via
// baseColors), cycling with a period that SPEED maps between 0.8s (fastest)
// and 8s (slowest).
func Breathe(ctx context.Context, zones []zonemap.ZoneID, excluded map[zonemap.ZoneID]bool, pixelCounts map[zonemap.ZoneID]int, baseColors map[zonemap.ZoneID]colorx.Rgb, params *ParamSet, yield func(Yield)) {
	start := time.Now()
	for {
		speed := params.Get("SPEED")
		period := speedToPeriod(speed, 800*time.Millisecond, 8*time.Second)
		scale := breatheEnvelope(time.Since(start), period)
		for _, z := range zones {
			if excluded[z] {
				continue
			}
			base := baseColors[z]
			c := colorx.Rgb{
				R: scaleChannel(base.R, scale),
				G: scaleChannel(base.G, scale),
				B: scaleChannel(base.B, scale),
			}
			yield(Zone(z, c))
		}
		if sleepOrDone(ctx, tickInterval) {
			return
		}
	}
}

func scaleChannel(v uint8, scale float64) uint8 {
	return uint8(math.Round(float64(v) * scale))
}

// ColorFade steps a single shared hue forward every frame, cycling once per
// period as SPEED maps between 2s (fastest) and 30s (slowest) per the
// animation's declared range.
func ColorFade(ctx context.Context, zones []zonemap.ZoneID, excluded map[zonemap.ZoneID]bool, pixelCounts map[zonemap.ZoneID]int, baseColors map[zonemap.ZoneID]colorx.Rgb, params *ParamSet, yield func(Yield)) {
	hue := 0.0
	for {
		speed := params.Get("SPEED")
		period := speedToPeriod(speed, 2*time.Second, 30*time.Second)
		degPerTick := 360.0 * float64(tickInterval) / float64(period)
		hue += degPerTick
		if hue >= 360 {
			hue -= 360
		}
		c := colorx.NewHue(hue).ToRGB(nil)
		for _, z := range zones {
			if excluded[z] {
				continue
			}
			yield(Zone(z, c))
		}
		if sleepOrDone(ctx, tickInterval) {
			return
		}
	}
}

// Snake lights a single pixel that traverses each active zone in turn,
// leaving the rest of the zone dark. SPEED maps the traversal rate between
// 5 and 60 pixels/sec, but each step lasts at least tickInterval (33ms), so
// the rate tops out at about 30 pixels/sec (reached near SPEED 46).
func Snake(ctx context.Context, zones []zonemap.ZoneID, excluded map[zonemap.ZoneID]bool, pixelCounts map[zonemap.ZoneID]int, baseColors map[zonemap.ZoneID]colorx.Rgb, params *ParamSet, yield func(Yield)) {
	active := activeZones(zones, excluded)
	if len(active) == 0 {
		return
	}
	pos := 0
	for {
		speed := params.Get("SPEED")
		hue := params.Get("HUE")
		pixelsPerSec := 5 + (speed/100.0)*55
		stepDelay := time.Duration(float64(time.Second) / pixelsPerSec)
		if stepDelay < tickInterval {
			stepDelay = tickInterval
		}

		c := colorx.NewHue(hue).ToRGB(nil)
		for _, z := range active {
			n := pixelCounts[z]
			if n <= 0 {
				continue
			}
			lit := pos % n
			px := make([]colorx.Rgb, n)
			px[lit] = c
			yield(Yield{Kind: YieldPixel, Zone: z, Pixel: lit, Color: c})
			for i := range px {
				if i != lit {
					yield(Yield{Kind: YieldPixel, Zone: z, Pixel: i, Color: colorx.Rgb{}})
				}
			}
		}
		pos++
		if sleepOrDone(ctx, stepDelay) {
			return
		}
	}
}

// ColorSnake traces a rainbow tail of LENGTH pixels (3..15) around each
// active zone, with the tail's hue origin drifting slowly over time.
func ColorSnake(ctx context.Context, zones []zonemap.ZoneID, excluded map[zonemap.ZoneID]bool, pixelCounts map[zonemap.ZoneID]int, baseColors map[zonemap.ZoneID]colorx.Rgb, params *ParamSet, yield func(Yield)) {
	active := activeZones(zones, excluded)
	if len(active) == 0 {
		return
	}
	pos := 0
	driftHue := 0.0
	for {
		speed := params.Get("SPEED")
		length := int(params.Get("LENGTH"))
		if length < 3 {
			length = 3
		}
		if length > 15 {
			length = 15
		}
		pixelsPerSec := 5 + (speed/100.0)*55
		stepDelay := time.Duration(float64(time.Second) / pixelsPerSec)
		if stepDelay < tickInterval {
			stepDelay = tickInterval
		}

		for _, z := range active {
			n := pixelCounts[z]
			if n <= 0 {
				continue
			}
			for i := 0; i < n; i++ {
				dist := (pos - i + n*length) % n
				if dist < length {
					hue := driftHue + 360.0*float64(dist)/float64(length)
					c := colorx.NewHue(hue).ToRGB(nil)
					yield(Yield{Kind: YieldPixel, Zone: z, Pixel: i, Color: c})
				} else {
					yield(Yield{Kind: YieldPixel, Zone: z, Pixel: i, Color: colorx.Rgb{}})
				}
			}
		}
		pos++
		driftHue += 1.5 // slow hue-origin drift, independent of traversal speed
		if driftHue >= 360 {
			driftHue -= 360
		}
		if sleepOrDone(ctx, stepDelay) {
			return
		}
	}
}

func activeZones(zones []zonemap.ZoneID, excluded map[zonemap.ZoneID]bool) []zonemap.ZoneID {
	out := make([]zonemap.ZoneID, 0, len(zones))
	for _, z := range zones {
		if !excluded[z] {
			out = append(out, z)
		}
	}
	return out
}

// Builtins returns the four built-in animation definitions, ready to
// register with a catalog alongside any YAML-declared animations.
func Builtins() []Definition {
	return []Definition{
		{
			ID: "BREATHE", DisplayName: "Breathe", Description: "Sinusoidal brightness envelope on the zone's own color",
			Params: []ParamDef{
				{ID: "SPEED", Type: ParamPercent, Min: 1, Max: 100, Step: 1, Default: 50},
			},
			Gen: Breathe,
		},
		{
			ID: "COLOR_FADE", DisplayName: "Color Fade", Description: "Shared hue stepping smoothly through the wheel",
			Params: []ParamDef{
				{ID: "SPEED", Type: ParamPercent, Min: 1, Max: 100, Step: 1, Default: 50},
			},
			Gen: ColorFade,
		},
		{
			ID: "SNAKE", DisplayName: "Snake", Description: "Single lit pixel traversing each active zone",
			Params: []ParamDef{
				{ID: "SPEED", Type: ParamPercent, Min: 1, Max: 100, Step: 1, Default: 50},
				{ID: "HUE", Type: ParamAngle, Min: 0, Max: 360, Step: 1, Wraps: true, Default: 120},
			},
			Gen: Snake,
		},
		{
			ID: "COLOR_SNAKE", DisplayName: "Color Snake", Description: "Rainbow tail traversing each active zone",
			Params: []ParamDef{
				{ID: "SPEED", Type: ParamPercent, Min: 1, Max: 100, Step: 1, Default: 50},
				{ID: "LENGTH", Type: ParamInt, Min: 3, Max: 15, Step: 1, Default: 6},
			},
			Gen: ColorSnake,
		},
	}
}
