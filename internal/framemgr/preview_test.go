// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framemgr

import (
	"testing"
	"time"

	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/frame"
)

func TestPreview_MirrorModeFallback(t *testing.T) {
	sink := &fakeSink{id: "a", n: 4}
	chain := singleZoneChain(t, sink)
	m := New(60, map[string]*Chain{"a": chain}, nil, nil)

	m.SetPreviewSources(
		func() [8]colorx.Rgb { return [8]colorx.Rgb{0: {R: 11}} },
		func() [8]colorx.Rgb { return [8]colorx.Rgb{0: {G: 22}} },
	)
	m.tickPreview(time.Now())

	got := m.LatestPreview()
	if got[0].R != 11 {
		t.Fatalf("expected mirror source by default, got %+v", got[0])
	}
}

func TestPreview_ParameterBarsMode(t *testing.T) {
	sink := &fakeSink{id: "a", n: 4}
	chain := singleZoneChain(t, sink)
	m := New(60, map[string]*Chain{"a": chain}, nil, nil)

	m.SetPreviewSources(
		func() [8]colorx.Rgb { return [8]colorx.Rgb{0: {R: 11}} },
		func() [8]colorx.Rgb { return [8]colorx.Rgb{0: {G: 22}} },
	)
	m.SetPreviewMode(PreviewParameterBars)
	m.tickPreview(time.Now())

	got := m.LatestPreview()
	if got[0].G != 22 {
		t.Fatalf("expected parameter-bars source once selected, got %+v", got[0])
	}
}

func TestPreview_ExplicitPreviewFrameWins(t *testing.T) {
	sink := &fakeSink{id: "a", n: 4}
	chain := singleZoneChain(t, sink)
	m := New(60, map[string]*Chain{"a": chain}, nil, nil)
	m.SetPreviewSources(
		func() [8]colorx.Rgb { return [8]colorx.Rgb{0: {R: 11}} },
		nil,
	)

	pixels := make([]colorx.Rgb, 8)
	pixels[3] = colorx.Rgb{B: 99}
	if err := m.SubmitPreview(pixels, frame.PriorityDebug, "debug", time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.drainSubmissions()
	m.tickPreview(time.Now())

	got := m.LatestPreview()
	if got[3].B != 99 {
		t.Fatalf("expected explicit preview frame to override fallback sources, got %+v", got)
	}
}

func TestPreview_WrongPixelCountErrors(t *testing.T) {
	sink := &fakeSink{id: "a", n: 4}
	chain := singleZoneChain(t, sink)
	m := New(60, map[string]*Chain{"a": chain}, nil, nil)

	if err := m.SubmitPreview(make([]colorx.Rgb, 3), frame.PriorityDebug, "debug", time.Second); err == nil {
		t.Fatal("expected an error for a preview frame with fewer than 8 pixels")
	}
}
