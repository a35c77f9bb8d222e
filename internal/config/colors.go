// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import "github.com/ledgrid/ledctl/internal/colorx"

// ColorsFile is the decoded colors.yaml document.
type ColorsFile struct {
	Presets      map[string][3]int `yaml:"presets"`
	PresetOrder  []string          `yaml:"preset_order"`
	WhitePresets []string          `yaml:"white_presets"`
}

// BuildPresetTable converts the decoded document into the colorx.PresetTable
// the rest of the process resolves PRESET-mode colors against.
func (c ColorsFile) BuildPresetTable() *colorx.PresetTable {
	byName := make(map[string]colorx.Rgb, len(c.Presets))
	for name, rgb := range c.Presets {
		byName[name] = colorx.Rgb{R: uint8(rgb[0]), G: uint8(rgb[1]), B: uint8(rgb[2])}
	}
	return colorx.NewPresetTable(byName, c.PresetOrder, c.WhitePresets)
}
