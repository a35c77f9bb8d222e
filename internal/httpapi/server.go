// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package httpapi implements the REST and WebSocket surface: JSON over
// HTTP via gin-gonic/gin, following the same router/handler shape the
// pack's own WS2812 control-panel web app uses, plus a gorilla/websocket
// push hub modeled on the pack's LED state-broadcast hub.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgrid/ledctl/internal/animation"
	"github.com/ledgrid/ledctl/internal/controllers"
	"github.com/ledgrid/ledctl/internal/eventbus"
	"github.com/ledgrid/ledctl/internal/zonestate"
	"go.uber.org/zap"
)

// Server bundles the gin engine and the handle dependencies it routes to.
type Server struct {
	engine  *gin.Engine
	store   *zonestate.Store
	catalog []animation.Definition
	runtime *animation.Runtime
	anim    *controllers.AnimationController
	light   *controllers.LightingController
	bus     *eventbus.Bus
	log     *zap.SugaredLogger
	hub     *hub
}

// New builds a Server with routes registered, ready for http.Server to
// drive. CORS is permissive by default per the external interface contract.
func New(store *zonestate.Store, catalog []animation.Definition, runtime *animation.Runtime, anim *controllers.AnimationController, light *controllers.LightingController, bus *eventbus.Bus, log *zap.SugaredLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(gin.Recovery())
	e.Use(permissiveCORS)

	s := &Server{engine: e, store: store, catalog: catalog, runtime: runtime, anim: anim, light: light, bus: bus, log: log}
	s.hub = newHub(log)
	if bus != nil {
		bus.Subscribe(eventbus.ZoneSnapshotUpdated, s.onZoneSnapshotUpdated, 0, nil)
	}
	s.routes()
	return s
}

// Handler returns the http.Handler this server drives, for http.Server.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.handleHealth)

	api.GET("/zones", s.handleListZones)
	api.GET("/zones/:id", s.handleGetZone)
	api.PUT("/zones/:id/color", s.handleSetColor)
	api.PUT("/zones/:id/brightness", s.handleSetBrightness)
	api.PUT("/zones/:id/is-on", s.handleSetIsOn)
	api.PUT("/zones/:id/render-mode", s.handleSetRenderMode)
	api.PUT("/zones/:id/animation", s.handleSetAnimation)
	api.PUT("/zones/:id/animation/parameters", s.handleSetAnimationParam)

	api.GET("/animations", s.handleListAnimations)
	api.GET("/animations/:id", s.handleGetAnimation)

	api.GET("/system/tasks", s.handleListTasks)
	api.GET("/system/tasks/active", s.handleActiveTasks)

	s.engine.GET("/ws", s.handleWebSocket)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// permissiveCORS implements the external interface contract's "CORS
// permissive by default": every origin, the methods/headers this API
// actually uses, and a short-circuit for preflight OPTIONS requests.
func permissiveCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, PUT, POST, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
