// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"sort"

	"github.com/ledgrid/ledctl/internal/zonemap"
	"gopkg.in/yaml.v3"
)

// ZoneFile is one zones.yaml entry. StartIndex is not part of the file; it
// is derived by BuildZoneConfigs.
type ZoneFile struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	PixelCount  int    `yaml:"pixel_count"`
	Enabled     bool   `yaml:"enabled"`
	Reversed    bool   `yaml:"reversed"`
	Order       int    `yaml:"order"`
}

type zonesFile struct {
	Zones []ZoneFile `yaml:"zones"`
}

type zoneMappingFile struct {
	Mapping map[string][]string `yaml:",inline"`
}

// UnmarshalYAML decodes zone_mapping.yaml's top-level hardware_id -> [zone_id]
// map directly, since the whole document *is* the mapping (no wrapper key).
func (z *zoneMappingFile) UnmarshalYAML(value *yaml.Node) error {
	return value.Decode(&z.Mapping)
}

// BuildZoneConfigs groups zones.yaml entries by the chain that owns them
// (per zone_mapping.yaml), sorts each chain's zones by their declared Order,
// and derives StartIndex by summing prior enabled zones' pixel counts.
func (c *Config) BuildZoneConfigs() map[string][]zonemap.ZoneConfig {
	byID := map[string]ZoneFile{}
	for _, z := range c.Zones {
		byID[z.ID] = z
	}

	out := map[string][]zonemap.ZoneConfig{}
	for chainID, zoneIDs := range c.ZoneMap {
		zones := make([]ZoneFile, 0, len(zoneIDs))
		for _, zid := range zoneIDs {
			if z, ok := byID[zid]; ok {
				zones = append(zones, z)
			}
		}
		sort.SliceStable(zones, func(i, j int) bool { return zones[i].Order < zones[j].Order })

		cursor := 0
		configs := make([]zonemap.ZoneConfig, 0, len(zones))
		for _, z := range zones {
			start := 0
			if z.Enabled {
				start = cursor
			}
			configs = append(configs, zonemap.ZoneConfig{
				ID:          zonemap.ZoneID(z.ID),
				DisplayName: z.DisplayName,
				PixelCount:  z.PixelCount,
				Enabled:     z.Enabled,
				Reversed:    z.Reversed,
				Order:       z.Order,
				GPIO:        "",
				StartIndex:  start,
			})
			if z.Enabled {
				cursor += z.PixelCount
			}
		}
		out[chainID] = configs
	}
	return out
}
