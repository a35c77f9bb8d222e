// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package zonestate

import (
	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/zonemap"
)

// AnimationSnapshot is the wire shape of a running animation's state
// within state.json.
type AnimationSnapshot struct {
	ID         string             `json:"id"`
	Parameters map[string]float64 `json:"parameters"`
}

// ZoneSnapshot is the wire shape of one zone's mutable state within
// state.json.
type ZoneSnapshot struct {
	Color      colorx.Color       `json:"color"`
	Brightness int                `json:"brightness"`
	IsOn       bool               `json:"is_on"`
	Mode       RenderMode         `json:"mode"`
	Animation  *AnimationSnapshot `json:"animation"`
}

// ApplicationSnapshot is the wire shape of ApplicationState within
// state.json.
type ApplicationSnapshot struct {
	EditMode                 bool       `json:"edit_mode"`
	SelectedZoneIndex        int        `json:"selected_zone_index"`
	SelectedZoneEditTarget   EditTarget `json:"selected_zone_edit_target"`
	SelectedAnimationParamID string     `json:"selected_animation_param_id"`
	FrameByFrameMode         bool       `json:"frame_by_frame_mode"`
	SaveOnChange             bool       `json:"save_on_change"`
}

// Snapshot is the top-level state.json document: {"zones": {...},
// "application": {...}}.
type Snapshot struct {
	Zones       map[zonemap.ZoneID]ZoneSnapshot `json:"zones"`
	Application ApplicationSnapshot              `json:"application"`
}

func toSnapshot(zones map[zonemap.ZoneID]*ZoneCombined, app ApplicationState) Snapshot {
	out := Snapshot{Zones: make(map[zonemap.ZoneID]ZoneSnapshot, len(zones))}
	for id, zc := range zones {
		var anim *AnimationSnapshot
		if zc.State.Animation != nil {
			anim = &AnimationSnapshot{ID: zc.State.Animation.ID, Parameters: zc.State.Animation.Parameters}
		}
		out.Zones[id] = ZoneSnapshot{
			Color:      zc.State.Color,
			Brightness: zc.State.Brightness,
			IsOn:       zc.State.Power,
			Mode:       zc.State.Mode,
			Animation:  anim,
		}
	}
	out.Application = ApplicationSnapshot{
		EditMode:                 app.EditMode,
		SelectedZoneIndex:        app.SelectedZoneIndex,
		SelectedZoneEditTarget:   app.SelectedZoneEditTarget,
		SelectedAnimationParamID: app.SelectedAnimationParamID,
		FrameByFrameMode:         app.FrameByFrameMode,
		SaveOnChange:             app.SaveOnChange,
	}
	return out
}
