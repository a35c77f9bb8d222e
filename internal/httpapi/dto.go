// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package httpapi

import (
	"github.com/ledgrid/ledctl/internal/animation"
	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/zonestate"
)

// zoneDTO is the JSON shape of one zone, mirroring state.json's per-zone
// object with display metadata layered on from zones.yaml.
type zoneDTO struct {
	ID          string                 `json:"id"`
	DisplayName string                 `json:"display_name"`
	Color       colorx.Color           `json:"color"`
	Brightness  int                    `json:"brightness"`
	IsOn        bool                   `json:"is_on"`
	Mode        zonestate.RenderMode   `json:"mode"`
	Animation   *animationStateDTO     `json:"animation"`
}

type animationStateDTO struct {
	ID         string             `json:"id"`
	Parameters map[string]float64 `json:"parameters"`
}

func toZoneDTO(zc zonestate.ZoneCombined) zoneDTO {
	var anim *animationStateDTO
	if zc.State.Animation != nil {
		anim = &animationStateDTO{ID: zc.State.Animation.ID, Parameters: zc.State.Animation.Parameters}
	}
	return zoneDTO{
		ID:          string(zc.Config.ID),
		DisplayName: zc.Config.DisplayName,
		Color:       zc.State.Color,
		Brightness:  zc.State.Brightness,
		IsOn:        zc.State.Power,
		Mode:        zc.State.Mode,
		Animation:   anim,
	}
}

// animationDTO is the JSON shape of one catalog entry.
type animationDTO struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	Description string      `json:"description"`
	Params      []paramDTO  `json:"params"`
}

type paramDTO struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Wraps   bool    `json:"wraps"`
	Default float64 `json:"default"`
}

func paramTypeName(t animation.ParamType) string {
	switch t {
	case animation.ParamPercent:
		return "percent"
	case animation.ParamInt:
		return "int"
	case animation.ParamAngle:
		return "angle"
	default:
		return "float"
	}
}

func toAnimationDTO(def animation.Definition) animationDTO {
	params := make([]paramDTO, 0, len(def.Params))
	for _, p := range def.Params {
		params = append(params, paramDTO{
			ID: string(p.ID), Type: paramTypeName(p.Type),
			Min: p.Min, Max: p.Max, Step: p.Step, Wraps: p.Wraps, Default: p.Default,
		})
	}
	return animationDTO{ID: def.ID, DisplayName: def.DisplayName, Description: def.Description, Params: params}
}

// taskDTO is the JSON shape of one running animation task.
type taskDTO struct {
	Zones       []string           `json:"zones"`
	AnimationID string             `json:"animation_id"`
	Parameters  map[string]float64 `json:"parameters"`
}

func toTaskDTO(t animation.TaskInfo) taskDTO {
	zones := make([]string, len(t.Zones))
	for i, z := range t.Zones {
		zones[i] = string(z)
	}
	params := make(map[string]float64, len(t.Parameters))
	for k, v := range t.Parameters {
		params[string(k)] = v
	}
	return taskDTO{Zones: zones, AnimationID: t.AnimationID, Parameters: params}
}
