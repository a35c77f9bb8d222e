// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/ledgrid/ledctl/internal/strip"
)

func TestChainFile_ToStripOpts(t *testing.T) {
	c := ChainFile{ID: "main", GPIO: "GPIO18", ColorOrder: "GRB", Count: 60, DMAChannel: 10}
	opts, err := c.ToStripOpts()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.ColorOrder != strip.OrderGRB {
		t.Fatalf("got color order %v", opts.ColorOrder)
	}
	if opts.FreqHz != 800000 {
		t.Fatalf("expected default frequency 800000, got %d", opts.FreqHz)
	}
	if opts.PixelCount != 60 {
		t.Fatalf("got pixel count %d", opts.PixelCount)
	}
}

func TestChainFile_ToStripOpts_InvalidColorOrder(t *testing.T) {
	c := ChainFile{ID: "main", ColorOrder: "XYZ", Count: 10}
	if _, err := c.ToStripOpts(); err == nil {
		t.Fatal("expected error for invalid color order")
	}
}

func TestChainFile_ToStripOpts_NonPositiveCountFails(t *testing.T) {
	c := ChainFile{ID: "main", ColorOrder: "RGB", Count: 0}
	if _, err := c.ToStripOpts(); err == nil {
		t.Fatal("expected error for non-positive count")
	}
}

func TestChainFile_ToStripOpts_KeepsExplicitFrequency(t *testing.T) {
	c := ChainFile{ID: "main", ColorOrder: "RGB", Count: 10, FrequencyHz: 400000}
	opts, err := c.ToStripOpts()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.FreqHz != 400000 {
		t.Fatalf("got %d", opts.FreqHz)
	}
}
