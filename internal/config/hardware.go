// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"fmt"

	"github.com/ledgrid/ledctl/internal/errs"
	"github.com/ledgrid/ledctl/internal/strip"
)

// ChainType is the declared hardware family of a chain; only ws281x is
// wired to a driver today.
type ChainType string

// ChainTypeWS281x is the only ChainType internal/strip currently drives.
const ChainTypeWS281x ChainType = "ws281x"

// ChainFile is one hardware.yaml LED chain entry.
type ChainFile struct {
	ID          string    `yaml:"id"`
	GPIO        string    `yaml:"gpio"`
	Type        ChainType `yaml:"type"`
	ColorOrder  string    `yaml:"color_order"`
	Count       int       `yaml:"count"`
	VoltageV    float64   `yaml:"voltage"`
	FrequencyHz int       `yaml:"frequency_hz"`
	Enabled     bool      `yaml:"enabled"`
	DMAChannel  int       `yaml:"dma_channel"`
}

// EncoderFile is one hardware.yaml rotary encoder entry.
type EncoderFile struct {
	ID  string `yaml:"id"`
	CLK string `yaml:"clk"`
	DT  string `yaml:"dt"`
	SW  string `yaml:"sw"`
}

// ButtonFile is one hardware.yaml button entry.
type ButtonFile struct {
	ID   string `yaml:"id"`
	GPIO string `yaml:"gpio"`
}

// Hardware is the decoded hardware.yaml document.
type Hardware struct {
	Chains   []ChainFile   `yaml:"chains"`
	Encoders []EncoderFile `yaml:"encoders"`
	Buttons  []ButtonFile  `yaml:"buttons"`
}

var validColorOrders = map[string]strip.ColorOrder{
	"RGB": strip.OrderRGB, "RBG": strip.OrderRBG, "GRB": strip.OrderGRB,
	"GBR": strip.OrderGBR, "BRG": strip.OrderBRG, "BGR": strip.OrderBGR,
}

// ToStripOpts converts a validated ChainFile into the internal/strip.Opts
// the driver constructor expects.
func (c ChainFile) ToStripOpts() (strip.Opts, error) {
	order, ok := validColorOrders[c.ColorOrder]
	if !ok {
		return strip.Opts{}, errs.Config(fmt.Sprintf("hardware.yaml: chain %q: invalid color_order %q", c.ID, c.ColorOrder), nil)
	}
	if c.Count <= 0 {
		return strip.Opts{}, errs.Config(fmt.Sprintf("hardware.yaml: chain %q: count must be positive", c.ID), nil)
	}
	freq := c.FrequencyHz
	if freq <= 0 {
		freq = 800000
	}
	return strip.Opts{
		ID:         c.ID,
		GPIO:       c.GPIO,
		PixelCount: c.Count,
		ColorOrder: order,
		FreqHz:     freq,
		DMAChannel: c.DMAChannel,
	}, nil
}
