// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgrid/ledctl/internal/errs"
)

func (s *Server) handleListAnimations(c *gin.Context) {
	out := make([]animationDTO, len(s.catalog))
	for i, def := range s.catalog {
		out[i] = toAnimationDTO(def)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetAnimation(c *gin.Context) {
	id := c.Param("id")
	for _, def := range s.catalog {
		if def.ID == id {
			c.JSON(http.StatusOK, toAnimationDTO(def))
			return
		}
	}
	writeError(c, errs.NotFound("unknown animation "+id))
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks := s.runtime.Tasks()
	out := make([]taskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskDTO(t)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleActiveTasks(c *gin.Context) {
	s.handleListTasks(c)
}
