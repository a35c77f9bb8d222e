// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the six declarative YAML files that describe an
// installation (hardware.yaml, zones.yaml, zone_mapping.yaml, colors.yaml,
// animations.yaml, parameters.yaml) into the typed values the rest of the
// process wires together at startup.
//
// Decoding follows periph.io's own preference for erroring loudly on
// malformed declarative input (see host/sysfs's strict line-parsing of
// /proc files): every document is decoded with yaml.Decoder.KnownFields(true)
// so a typo'd key is a startup failure, not a silently ignored field.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledgrid/ledctl/internal/errs"
	"gopkg.in/yaml.v3"
)

// DefaultDir is used when CLEDCTL_CONFIG_DIR is unset.
const DefaultDir = "./config"

// EnvConfigDir is the environment variable that overrides the config
// directory.
const EnvConfigDir = "CLEDCTL_CONFIG_DIR"

// Dir resolves the configuration directory: EnvConfigDir if set, else
// DefaultDir.
func Dir() string {
	if d := os.Getenv(EnvConfigDir); d != "" {
		return d
	}
	return DefaultDir
}

// Config is every declarative file loaded and validated at startup.
type Config struct {
	Hardware   Hardware
	Zones      []ZoneFile
	ZoneMap    map[string][]string // hardware chain id -> zone ids, in declared order
	Colors     ColorsFile
	Animations []AnimationFile
	Parameters map[string]ParamTypeFile
}

// Load reads and validates every file under dir. Any error is a startup
// failure per the config-load-error-is-fatal rule; callers should refuse to
// start the process rather than proceed with partial configuration.
func Load(dir string) (*Config, error) {
	cfg := &Config{}

	if err := decodeStrict(filepath.Join(dir, "hardware.yaml"), &cfg.Hardware); err != nil {
		return nil, err
	}
	var zf zonesFile
	if err := decodeStrict(filepath.Join(dir, "zones.yaml"), &zf); err != nil {
		return nil, err
	}
	cfg.Zones = zf.Zones
	var zm zoneMappingFile
	if err := decodeStrict(filepath.Join(dir, "zone_mapping.yaml"), &zm); err != nil {
		return nil, err
	}
	cfg.ZoneMap = zm.Mapping
	if err := decodeStrict(filepath.Join(dir, "colors.yaml"), &cfg.Colors); err != nil {
		return nil, err
	}
	var af animationsFile
	if err := decodeStrict(filepath.Join(dir, "animations.yaml"), &af); err != nil {
		return nil, err
	}
	cfg.Animations = af.Animations
	var pf parametersFile
	if err := decodeStrict(filepath.Join(dir, "parameters.yaml"), &pf); err != nil {
		return nil, err
	}
	cfg.Parameters = pf.Parameters

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeStrict(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return errs.Config(fmt.Sprintf("open %s", path), err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return errs.Config(fmt.Sprintf("parse %s", path), err)
	}
	return nil
}

// validate enforces the cross-file invariants: every enabled zone appears
// exactly once across zone_mapping.yaml, and hardware ids referenced there
// exist in hardware.yaml.
func (c *Config) validate() error {
	chainByID := map[string]bool{}
	for _, ch := range c.Hardware.Chains {
		chainByID[ch.ID] = true
	}
	zoneByID := map[string]ZoneFile{}
	for _, z := range c.Zones {
		zoneByID[z.ID] = z
	}

	seen := map[string]bool{}
	for chainID, zoneIDs := range c.ZoneMap {
		if !chainByID[chainID] {
			return errs.Config(fmt.Sprintf("zone_mapping.yaml: unknown hardware id %q", chainID), nil)
		}
		for _, zid := range zoneIDs {
			z, ok := zoneByID[zid]
			if !ok {
				return errs.Config(fmt.Sprintf("zone_mapping.yaml: unknown zone id %q", zid), nil)
			}
			if !z.Enabled {
				continue
			}
			if seen[zid] {
				return errs.Config(fmt.Sprintf("zone_mapping.yaml: zone %q mapped more than once", zid), nil)
			}
			seen[zid] = true
		}
	}
	for _, z := range c.Zones {
		if z.Enabled && !seen[z.ID] {
			return errs.Config(fmt.Sprintf("zone_mapping.yaml: enabled zone %q not mapped to any chain", z.ID), nil)
		}
	}
	return nil
}
