// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/errs"
	"github.com/ledgrid/ledctl/internal/zonemap"
	"github.com/ledgrid/ledctl/internal/zonestate"
)

func (s *Server) zone(c *gin.Context) (zonestate.ZoneCombined, bool) {
	id := zonemap.ZoneID(c.Param("id"))
	zc, ok := s.store.Zone(id)
	if !ok {
		writeError(c, errs.NotFound("unknown zone "+string(id)))
		return zonestate.ZoneCombined{}, false
	}
	return zc, true
}

func (s *Server) handleListZones(c *gin.Context) {
	zones := s.store.AllZones()
	out := make([]zoneDTO, len(zones))
	for i, zc := range zones {
		out[i] = toZoneDTO(zc)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetZone(c *gin.Context) {
	zc, ok := s.zone(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toZoneDTO(zc))
}

func (s *Server) handleSetColor(c *gin.Context) {
	zc, ok := s.zone(c)
	if !ok {
		return
	}
	var color colorx.Color
	if err := c.ShouldBindJSON(&color); err != nil {
		badRequest(c, "invalid color: "+err.Error())
		return
	}
	s.store.MutateZone(zc.Config.ID, func(zs *zonestate.ZoneState) { zs.Color = color })
	c.JSON(http.StatusOK, s.zoneDTOOf(zc.Config.ID))
}

func (s *Server) handleSetBrightness(c *gin.Context) {
	zc, ok := s.zone(c)
	if !ok {
		return
	}
	var body struct {
		Brightness int `json:"brightness"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	if body.Brightness < 0 || body.Brightness > 100 {
		badRequest(c, "brightness must be within 0..100")
		return
	}
	s.store.MutateZone(zc.Config.ID, func(zs *zonestate.ZoneState) { zs.Brightness = body.Brightness })
	c.JSON(http.StatusOK, s.zoneDTOOf(zc.Config.ID))
}

func (s *Server) handleSetIsOn(c *gin.Context) {
	zc, ok := s.zone(c)
	if !ok {
		return
	}
	var body struct {
		IsOn bool `json:"is_on"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	s.store.MutateZone(zc.Config.ID, func(zs *zonestate.ZoneState) { zs.Power = body.IsOn })
	c.JSON(http.StatusOK, s.zoneDTOOf(zc.Config.ID))
}

func (s *Server) handleSetRenderMode(c *gin.Context) {
	zc, ok := s.zone(c)
	if !ok {
		return
	}
	var body struct {
		Mode string `json:"mode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	mode := zonestate.RenderMode(body.Mode)
	if mode != zonestate.ModeStatic && mode != zonestate.ModeAnimation {
		badRequest(c, "mode must be STATIC or ANIMATION")
		return
	}
	s.light.SwitchMode(zc.Config.ID, mode)
	c.JSON(http.StatusOK, s.zoneDTOOf(zc.Config.ID))
}

func (s *Server) handleSetAnimation(c *gin.Context) {
	zc, ok := s.zone(c)
	if !ok {
		return
	}
	var body struct {
		AnimationID string `json:"animation_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	var err error
	if _, running := s.runtime.RunningOn(zc.Config.ID); running {
		err = s.anim.Switch(context.Background(), zc.Config.ID, body.AnimationID)
	} else {
		err = s.anim.Start(context.Background(), zc.Config.ID, body.AnimationID)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.zoneDTOOf(zc.Config.ID))
}

func (s *Server) handleSetAnimationParam(c *gin.Context) {
	zc, ok := s.zone(c)
	if !ok {
		return
	}
	var body struct {
		ParamID string  `json:"param_id"`
		Delta   float64 `json:"delta"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	if !s.anim.AdjustParam(zc.Config.ID, body.ParamID, body.Delta) {
		writeError(c, errs.Conflict("no running animation accepts parameter "+body.ParamID))
		return
	}
	c.JSON(http.StatusOK, s.zoneDTOOf(zc.Config.ID))
}

func (s *Server) zoneDTOOf(id zonemap.ZoneID) zoneDTO {
	zc, _ := s.store.Zone(id)
	return toZoneDTO(zc)
}
