// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package strip

import (
	"testing"

	"github.com/ledgrid/ledctl/internal/colorx"
)

func TestColorOrder_Remap(t *testing.T) {
	c := colorx.Rgb{R: 1, G: 2, B: 3}
	cases := map[ColorOrder][3]byte{
		OrderRGB: {1, 2, 3},
		OrderRBG: {1, 3, 2},
		OrderGRB: {2, 1, 3},
		OrderGBR: {2, 3, 1},
		OrderBRG: {3, 1, 2},
		OrderBGR: {3, 2, 1},
	}
	for order, want := range cases {
		if got := order.remap(c); got != want {
			t.Errorf("%s.remap(%+v) = %v, want %v", order, c, got, want)
		}
	}
}

func TestColorOrder_UnknownDefaultsToRGB(t *testing.T) {
	c := colorx.Rgb{R: 9, G: 8, B: 7}
	if got := ColorOrder("bogus").remap(c); got != [3]byte{9, 8, 7} {
		t.Fatalf("got %v, want passthrough RGB", got)
	}
}
