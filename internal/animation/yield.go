// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package animation

import (
	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/zonemap"
)

// YieldKind tags which of the three shapes a Yield carries: a sum type in
// place of duck-typed tuples, so callers switch on Kind instead of
// inspecting which fields are set.
type YieldKind int

const (
	YieldFullStrip YieldKind = iota
	YieldZone
	YieldPixel
)

// Yield is one emitted frame description from a running animation
// generator.
type Yield struct {
	Kind  YieldKind
	Color colorx.Rgb
	Zone  zonemap.ZoneID
	Pixel int // logical pixel index within Zone, YieldPixel only
}

// FullStrip constructs a full-strip yield.
func FullStrip(c colorx.Rgb) Yield { return Yield{Kind: YieldFullStrip, Color: c} }

// Zone constructs a per-zone yield.
func Zone(z zonemap.ZoneID, c colorx.Rgb) Yield { return Yield{Kind: YieldZone, Zone: z, Color: c} }

// Pixel constructs a per-pixel yield.
func Pixel(z zonemap.ZoneID, px int, c colorx.Rgb) Yield {
	return Yield{Kind: YieldPixel, Zone: z, Pixel: px, Color: c}
}
