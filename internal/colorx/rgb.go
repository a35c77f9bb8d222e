// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package colorx implements the Color data model: a tagged variant over
// Hue/Preset/Rgb/HSV/Kelvin representations, all total-function
// convertible to an Rgb triple.
//
// The Kelvin conversion reuses github.com/maruel/temperature.ToRGB, the same
// package periph.io's devices/apa102 driver imports for its own
// temperature-corrected lookup table.
package colorx

import (
	"fmt"
	"math"

	"github.com/maruel/temperature"
)

// Rgb is a canonical 8-bit-per-channel color triple.
type Rgb struct {
	R, G, B uint8
}

// Mode tags which representation a Color currently holds.
type Mode int

const (
	ModeRGB Mode = iota
	ModeHue
	ModePreset
	ModeHSV
	ModeKelvin
)

func (m Mode) String() string {
	switch m {
	case ModeHue:
		return "HUE"
	case ModePreset:
		return "PRESET"
	case ModeHSV:
		return "HSV"
	case ModeKelvin:
		return "KELVIN"
	default:
		return "RGB"
	}
}

// PresetResolver looks up the RGB value for a named preset, as loaded from
// colors.yaml. It is injected so colorx has no dependency on config loading.
type PresetResolver interface {
	ResolvePreset(name string) (Rgb, bool)
}

// Color is a tagged, immutable color value. Exactly one of the fields
// matching Mode is meaningful.
type Color struct {
	Mode Mode

	Hue float64 // degrees, 0..360, ModeHue
	H   float64 // degrees, 0..360, ModeHSV
	S   float64 // 0..1, ModeHSV
	V   float64 // 0..1, ModeHSV
	Rgb Rgb     // ModeRGB
	Preset string // ModePreset
	Kelvin uint16 // degrees Kelvin, ModeKelvin
}

// NewHue returns a fully-saturated Color at the given hue, wrapped modulo
// 360.
func NewHue(deg float64) Color {
	return Color{Mode: ModeHue, Hue: wrapDegrees(deg)}
}

// NewPreset returns a named-preset Color. Resolution happens in ToRGB via
// the supplied resolver.
func NewPreset(name string) Color {
	return Color{Mode: ModePreset, Preset: name}
}

// NewRGB returns a literal RGB Color.
func NewRGB(r, g, b uint8) Color {
	return Color{Mode: ModeRGB, Rgb: Rgb{r, g, b}}
}

// NewHSV returns an HSV Color; h is wrapped modulo 360, s/v are clamped to
// [0,1].
func NewHSV(h, s, v float64) Color {
	return Color{Mode: ModeHSV, H: wrapDegrees(h), S: clamp01(s), V: clamp01(v)}
}

// NewKelvin returns a color-temperature Color.
func NewKelvin(k uint16) Color {
	return Color{Mode: ModeKelvin, Kelvin: k}
}

func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ToRGB is a total conversion function: same inputs always produce the same
// RGB triple.
func (c Color) ToRGB(resolver PresetResolver) Rgb {
	switch c.Mode {
	case ModeHue:
		return hsvToRGB(c.Hue, 1, 1)
	case ModeHSV:
		return hsvToRGB(c.H, c.S, c.V)
	case ModePreset:
		if resolver != nil {
			if rgb, ok := resolver.ResolvePreset(c.Preset); ok {
				return rgb
			}
		}
		return Rgb{}
	case ModeKelvin:
		r, g, b := temperature.ToRGB(c.Kelvin)
		return Rgb{r, g, b}
	default:
		return c.Rgb
	}
}

// WithBrightness returns c's RGB value scaled linearly by brightness/100,
// as an Rgb; it does not return a Color, and c is left unchanged.
// Brightness is clamped to [0,100] first.
func (c Color) WithBrightness(brightness int, resolver PresetResolver) Rgb {
	if brightness < 0 {
		brightness = 0
	}
	if brightness > 100 {
		brightness = 100
	}
	rgb := c.ToRGB(resolver)
	scale := func(v uint8) uint8 {
		return uint8((uint32(v)*uint32(brightness) + 50) / 100)
	}
	return Rgb{scale(rgb.R), scale(rgb.G), scale(rgb.B)}
}

func (c Color) String() string {
	switch c.Mode {
	case ModeHue:
		return fmt.Sprintf("Hue(%.1f)", c.Hue)
	case ModeHSV:
		return fmt.Sprintf("HSV(%.1f,%.2f,%.2f)", c.H, c.S, c.V)
	case ModePreset:
		return fmt.Sprintf("Preset(%s)", c.Preset)
	case ModeKelvin:
		return fmt.Sprintf("Kelvin(%d)", c.Kelvin)
	default:
		return fmt.Sprintf("Rgb(%d,%d,%d)", c.Rgb.R, c.Rgb.G, c.Rgb.B)
	}
}

// hsvToRGB converts HSV (h in degrees 0..360, s/v in 0..1) to an Rgb triple.
func hsvToRGB(h, s, v float64) Rgb {
	h = wrapDegrees(h)
	s = clamp01(s)
	v = clamp01(v)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return Rgb{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
	}
}
