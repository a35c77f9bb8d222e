// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framemgr

import (
	"sync"
	"time"

	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/frame"
)

// PreviewMode selects how the preview surface is composed when no explicit
// PreviewFrame was submitted this tick. Both "mirror selected zone" and
// "parameter bar" modes are supported, and the controller chooses between
// them via SetPreviewMode based on ApplicationState.selected_zone_edit_target.
type PreviewMode int

const (
	PreviewMirrorZone PreviewMode = iota
	PreviewParameterBars
)

// previewState holds the independently-selected preview composition.
type previewState struct {
	mu      sync.Mutex
	mode    PreviewMode
	mirror  func() [8]colorx.Rgb
	bars    func() [8]colorx.Rgb
	latest  [8]colorx.Rgb
}

// SetPreviewMode switches between mirror and parameter-bar preview
// composition; called by the controller, not the user directly.
func (m *Manager) SetPreviewMode(mode PreviewMode) {
	m.preview.mu.Lock()
	m.preview.mode = mode
	m.preview.mu.Unlock()
}

// SetPreviewSources installs the two composition callbacks the preview
// domain falls back to when no explicit PreviewFrame is selected.
func (m *Manager) SetPreviewSources(mirror, bars func() [8]colorx.Rgb) {
	m.preview.mu.Lock()
	m.preview.mirror, m.preview.bars = mirror, bars
	m.preview.mu.Unlock()
}

// LatestPreview returns the most recently composited preview pixels, for
// the WS broadcaster / REST preview endpoint.
func (m *Manager) LatestPreview() [8]colorx.Rgb {
	m.preview.mu.Lock()
	defer m.preview.mu.Unlock()
	return m.preview.latest
}

// tickPreview composes the preview domain independently of the main
// domain's selection.
func (m *Manager) tickPreview(now time.Time) {
	selected, ok := m.previewQ.selectHighest(now)
	var pixels [8]colorx.Rgb
	if ok && selected.Preview != nil {
		pixels = selected.Preview.Pixels
	} else {
		m.preview.mu.Lock()
		mode, mirror, bars := m.preview.mode, m.preview.mirror, m.preview.bars
		m.preview.mu.Unlock()
		switch mode {
		case PreviewParameterBars:
			if bars != nil {
				pixels = bars()
			}
		default:
			if mirror != nil {
				pixels = mirror()
			}
		}
	}
	m.preview.mu.Lock()
	m.preview.latest = pixels
	m.preview.mu.Unlock()
}

// SubmitPreview is a convenience wrapper around Submit for preview-domain
// frames built with frame.NewPreviewFrame.
func (m *Manager) SubmitPreview(pixels []colorx.Rgb, priority frame.Priority, source string, ttl time.Duration) error {
	f, err := frame.NewPreviewFrame(pixels, priority, source, ttl)
	if err != nil {
		return err
	}
	m.Submit(f)
	return nil
}
