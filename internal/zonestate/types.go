// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package zonestate implements the zone and application state aggregate:
// the mutable per-zone color/brightness/mode/animation state, combined
// with its immutable ZoneConfig, persisted through a debounced repository.
package zonestate

import (
	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/zonemap"
)

// RenderMode is a zone's current rendering mode.
type RenderMode string

const (
	ModeStatic    RenderMode = "STATIC"
	ModeAnimation RenderMode = "ANIMATION"
)

// EditTarget names which property of the selected zone the modulator
// encoder currently adjusts.
type EditTarget string

const (
	EditColorHue    EditTarget = "COLOR_HUE"
	EditColorPreset EditTarget = "COLOR_PRESET"
	EditBrightness  EditTarget = "BRIGHTNESS"
)

// AnimationState is the mutable per-zone running-animation record.
type AnimationState struct {
	ID         string
	Parameters map[string]float64
}

// ZoneState is the mutable per-zone state.
type ZoneState struct {
	Color      colorx.Color
	Brightness int // 0..100
	Power      bool
	Mode       RenderMode
	Animation  *AnimationState
}

// ZoneCombined pairs a zone's immutable config with its mutable state.
type ZoneCombined struct {
	Config zonemap.ZoneConfig
	State  ZoneState
}

// ApplicationState is the global UI/edit-session aggregate.
type ApplicationState struct {
	EditMode                 bool
	SelectedZoneIndex        int
	SelectedZoneEditTarget   EditTarget
	SelectedAnimationParamID string
	FrameByFrameMode         bool
	SaveOnChange             bool
}
