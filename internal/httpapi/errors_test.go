// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ledgrid/ledctl/internal/errs"
)

func TestStatusForKind(t *testing.T) {
	cases := []struct {
		kind errs.Kind
		want int
	}{
		{errs.KindValidation, http.StatusBadRequest},
		{errs.KindNotFound, http.StatusNotFound},
		{errs.KindConflict, http.StatusConflict},
		{errs.KindHardware, http.StatusInternalServerError},
		{errs.KindInternal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := statusForKind(c.kind); got != c.want {
			t.Errorf("statusForKind(%v) = %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestWriteError_BodyShape(t *testing.T) {
	s, _ := newTestServer(nil)
	rec := doJSON(t, s, http.MethodGet, "/api/zones/nope", nil)
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != errs.KindNotFound.String() {
		t.Fatalf("unexpected error code: %+v", body)
	}
	if body.RequestID == "" {
		t.Fatal("expected a non-empty request id")
	}
}
