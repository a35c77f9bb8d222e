// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgrid/ledctl/internal/errs"
)

// errorBody is the wire shape of every non-2xx response.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func statusForKind(k errs.Kind) int {
	switch k {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError translates err into the error envelope and status code, tagging
// every response with a fresh request id so a client can correlate server
// logs.
func writeError(c *gin.Context, err error) {
	k := errs.KindOf(err)
	status := statusForKind(k)
	var body errorBody
	body.Error.Code = k.String()
	body.Error.Message = err.Error()
	body.RequestID = uuid.NewString()
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	writeError(c, errs.Validation(msg))
}
