// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package frame implements the frame model: typed, cheap-to-construct
// value types carrying priority, source, timestamp and TTL, moved by value
// into the frame manager's queues and consumed at most once.
package frame

import (
	"time"

	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/zonemap"
)

// Priority is a total order: higher wins.
type Priority int

const (
	PriorityIdle       Priority = 0
	PriorityManual     Priority = 10
	PriorityAnimation  Priority = 20
	PriorityPulse      Priority = 30
	PriorityTransition Priority = 40
	PriorityDebug      Priority = 50
)

func (p Priority) String() string {
	switch p {
	case PriorityIdle:
		return "IDLE"
	case PriorityManual:
		return "MANUAL"
	case PriorityAnimation:
		return "ANIMATION"
	case PriorityPulse:
		return "PULSE"
	case PriorityTransition:
		return "TRANSITION"
	case PriorityDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// DefaultTTL is the default frame time-to-live.
const DefaultTTL = 100 * time.Millisecond

// Domain selects which render target a frame is destined for: the main
// strip(s) or the preview surface, independently selected each tick.
type Domain int

const (
	DomainMain Domain = iota
	DomainPreview
)

// Meta is the common envelope every frame variant carries.
type Meta struct {
	Priority  Priority
	Source    string
	Timestamp time.Time
	TTL       time.Duration
}

// IsExpired reports whether now - timestamp > ttl.
func (m Meta) IsExpired(now time.Time) bool {
	ttl := m.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return now.Sub(m.Timestamp) > ttl
}

// Frame is the sum type of the four frame variants. Exactly one of the
// Full/Zone/Pixel/Preview fields is non-nil, in place of a duck-typed
// tuple yield.
type Frame struct {
	Meta
	Full    *FullStripFrame
	Zone    *ZoneFrame
	Pixel   *PixelFrame
	Preview *PreviewFrame
}

// FullStripFrame sets every zone to the same color.
type FullStripFrame struct {
	Color colorx.Rgb
}

// NewFullStrip constructs a FullStripFrame envelope.
func NewFullStrip(color colorx.Rgb, priority Priority, source string, ttl time.Duration) Frame {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Frame{
		Meta: Meta{Priority: priority, Source: source, Timestamp: time.Now(), TTL: ttl},
		Full: &FullStripFrame{Color: color},
	}
}

// ZoneFrame overwrites the listed zones with per-zone colors.
type ZoneFrame struct {
	ZoneColors map[zonemap.ZoneID]colorx.Rgb
}

// NewZoneFrame constructs a ZoneFrame envelope.
func NewZoneFrame(colors map[zonemap.ZoneID]colorx.Rgb, priority Priority, source string, ttl time.Duration) Frame {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Frame{
		Meta: Meta{Priority: priority, Source: source, Timestamp: time.Now(), TTL: ttl},
		Zone: &ZoneFrame{ZoneColors: colors},
	}
}

// PixelFrame overwrites per-pixel spans within zones. If ClearOtherZones is
// set, zones absent from ZonePixels are zeroed before compositing, except
// that zones currently in STATIC mode are re-merged afterwards (see
// DESIGN.md).
type PixelFrame struct {
	ZonePixels       map[zonemap.ZoneID][]colorx.Rgb
	ClearOtherZones  bool
}

// NewPixelFrame constructs a PixelFrame envelope.
func NewPixelFrame(pixels map[zonemap.ZoneID][]colorx.Rgb, clearOthers bool, priority Priority, source string, ttl time.Duration) Frame {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Frame{
		Meta:  Meta{Priority: priority, Source: source, Timestamp: time.Now(), TTL: ttl},
		Pixel: &PixelFrame{ZonePixels: pixels, ClearOtherZones: clearOthers},
	}
}

// PreviewFrame carries exactly 8 pixels for the low-resolution preview
// surface.
type PreviewFrame struct {
	Pixels [8]colorx.Rgb
}

// NewPreviewFrame constructs a PreviewFrame envelope. It rejects pixel
// slices of length != 8.
func NewPreviewFrame(pixels []colorx.Rgb, priority Priority, source string, ttl time.Duration) (Frame, error) {
	if len(pixels) != 8 {
		return Frame{}, errPreviewLength
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	var arr [8]colorx.Rgb
	copy(arr[:], pixels)
	return Frame{
		Meta:    Meta{Priority: priority, Source: source, Timestamp: time.Now(), TTL: ttl},
		Preview: &PreviewFrame{Pixels: arr},
	}, nil
}

// errPreviewLength is returned by NewPreviewFrame for malformed input.
var errPreviewLength = previewLenErr{}

type previewLenErr struct{}

func (previewLenErr) Error() string { return "frame: PreviewFrame requires exactly 8 pixels" }

// Domain reports which render domain (main or preview) this frame targets.
func (f Frame) Domain() Domain {
	if f.Preview != nil {
		return DomainPreview
	}
	return DomainMain
}
