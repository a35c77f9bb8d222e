// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package strip

import "github.com/ledgrid/ledctl/internal/colorx"

// ColorOrder is the physical wire order of a chain's color channels, as
// declared in hardware.yaml.
type ColorOrder string

const (
	OrderRGB ColorOrder = "RGB"
	OrderRBG ColorOrder = "RBG"
	OrderGRB ColorOrder = "GRB"
	OrderGBR ColorOrder = "GBR"
	OrderBRG ColorOrder = "BRG"
	OrderBGR ColorOrder = "BGR"
)

// remap reorders an Rgb triple's bytes into the wire order, so that callers
// of Strip.ApplyFrame always supply canonical RGB.
func (o ColorOrder) remap(c colorx.Rgb) [3]byte {
	switch o {
	case OrderRBG:
		return [3]byte{c.R, c.B, c.G}
	case OrderGRB:
		return [3]byte{c.G, c.R, c.B}
	case OrderGBR:
		return [3]byte{c.G, c.B, c.R}
	case OrderBRG:
		return [3]byte{c.B, c.R, c.G}
	case OrderBGR:
		return [3]byte{c.B, c.G, c.R}
	default:
		return [3]byte{c.R, c.G, c.B}
	}
}
