// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package colorx

import (
	"encoding/json"
	"fmt"
)

// dto is the tagged-dict wire shape: {"mode":"HUE","hue":n},
// {"mode":"PRESET","preset_name":s}, {"mode":"RGB","rgb":[r,g,b]}.
type dto struct {
	Mode       string `json:"mode"`
	Hue        *float64 `json:"hue,omitempty"`
	PresetName *string  `json:"preset_name,omitempty"`
	Rgb        []int    `json:"rgb,omitempty"`
	H          *float64 `json:"h,omitempty"`
	S          *float64 `json:"s,omitempty"`
	V          *float64 `json:"v,omitempty"`
	Kelvin     *int     `json:"kelvin,omitempty"`
}

// MarshalJSON implements the tagged-dict encoding state.json and the HTTP
// API both use.
func (c Color) MarshalJSON() ([]byte, error) {
	d := dto{Mode: c.Mode.String()}
	switch c.Mode {
	case ModeHue:
		d.Hue = &c.Hue
	case ModePreset:
		d.PresetName = &c.Preset
	case ModeHSV:
		d.H, d.S, d.V = &c.H, &c.S, &c.V
	case ModeKelvin:
		k := int(c.Kelvin)
		d.Kelvin = &k
	default:
		d.Rgb = []int{int(c.Rgb.R), int(c.Rgb.G), int(c.Rgb.B)}
	}
	return json.Marshal(d)
}

// UnmarshalJSON decodes the tagged-dict wire shape. Unknown fields are
// ignored. An unrecognized mode, or an RGB/missing mode without a
// three-element rgb field, decodes to black RGB; a HUE, PRESET, HSV or
// KELVIN color that lacks its own field is an error.
func (c *Color) UnmarshalJSON(b []byte) error {
	var d dto
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	switch d.Mode {
	case "HUE":
		if d.Hue == nil {
			return fmt.Errorf("colorx: HUE color missing hue field")
		}
		*c = NewHue(*d.Hue)
	case "PRESET":
		if d.PresetName == nil {
			return fmt.Errorf("colorx: PRESET color missing preset_name field")
		}
		*c = NewPreset(*d.PresetName)
	case "HSV":
		if d.H == nil || d.S == nil || d.V == nil {
			return fmt.Errorf("colorx: HSV color missing h/s/v field")
		}
		*c = NewHSV(*d.H, *d.S, *d.V)
	case "KELVIN":
		if d.Kelvin == nil {
			return fmt.Errorf("colorx: KELVIN color missing kelvin field")
		}
		*c = NewKelvin(uint16(*d.Kelvin))
	case "RGB", "":
		if len(d.Rgb) != 3 {
			*c = NewRGB(0, 0, 0)
			return nil
		}
		*c = NewRGB(uint8(d.Rgb[0]), uint8(d.Rgb[1]), uint8(d.Rgb[2]))
	default:
		*c = NewRGB(0, 0, 0)
	}
	return nil
}

// PresetTable is a simple in-memory PresetResolver backed by colors.yaml's
// `presets: name -> rgb` map.
type PresetTable struct {
	byName map[string]Rgb
	order  []string
	white  map[string]bool
}

// NewPresetTable builds a PresetTable from the given name->rgb map plus the
// declared preset_order and white_presets sets.
func NewPresetTable(byName map[string]Rgb, order []string, white []string) *PresetTable {
	w := make(map[string]bool, len(white))
	for _, n := range white {
		w[n] = true
	}
	return &PresetTable{byName: byName, order: order, white: w}
}

// ResolvePreset implements PresetResolver.
func (t *PresetTable) ResolvePreset(name string) (Rgb, bool) {
	if t == nil {
		return Rgb{}, false
	}
	rgb, ok := t.byName[name]
	return rgb, ok
}

// IsWhite reports whether name is declared in colors.yaml's white_presets
// set; used by the lighting controller's lamp-white quick-mode.
func (t *PresetTable) IsWhite(name string) bool {
	return t != nil && t.white[name]
}

// Order returns the declared preset_order.
func (t *PresetTable) Order() []string {
	if t == nil {
		return nil
	}
	return t.order
}
