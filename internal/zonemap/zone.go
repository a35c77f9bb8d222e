// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package zonemap implements the ZoneConfig data model and the zone-pixel
// mapper: translating logical zones, with optional reverse, into absolute
// pixel indices within a chain.
//
// The index arithmetic follows the same "walk a flat buffer computing
// per-element offsets" idiom as periph.io's devices/apa102 raster() and
// experimental/devices/nrzled rasterBits(), lifted from a single contiguous
// buffer to zone-partitioned buffers.
package zonemap

import "fmt"

// ZoneID identifies a zone, stable across config reloads.
type ZoneID string

// ZoneConfig is the immutable zone description loaded from zones.yaml.
type ZoneConfig struct {
	ID          ZoneID
	DisplayName string
	PixelCount  int
	Enabled     bool
	Reversed    bool
	Order       int
	GPIO        string
	// StartIndex is derived at load time by summing the pixel counts of
	// prior zones within the same chain.
	StartIndex int
}

// Mapper computes, for an ordered set of ZoneConfigs sharing one chain, the
// absolute pixel index list for each zone.
type Mapper struct {
	chainPixelCount int
	indices         map[ZoneID][]int
	order           []ZoneID
}

// NewMapper builds a Mapper from zones belonging to a single chain, ordered
// by Order ascending. It validates the contiguous-partition invariant:
// zone index sets must partition [0, chainPixelCount) exactly.
func NewMapper(zones []ZoneConfig, chainPixelCount int) (*Mapper, error) {
	m := &Mapper{chainPixelCount: chainPixelCount, indices: map[ZoneID][]int{}}
	cursor := 0
	for _, z := range zones {
		if !z.Enabled {
			continue
		}
		if z.StartIndex != cursor {
			return nil, fmt.Errorf("zonemap: zone %q starts at %d, expected %d (non-contiguous partition)", z.ID, z.StartIndex, cursor)
		}
		idx := make([]int, z.PixelCount)
		if z.Reversed {
			// Reversed zones are emitted in decreasing absolute index so that
			// logical pixel 0 maps to the last physical pixel.
			for i := 0; i < z.PixelCount; i++ {
				idx[i] = cursor + z.PixelCount - 1 - i
			}
		} else {
			for i := 0; i < z.PixelCount; i++ {
				idx[i] = cursor + i
			}
		}
		m.indices[z.ID] = idx
		m.order = append(m.order, z.ID)
		cursor += z.PixelCount
	}
	if cursor != chainPixelCount {
		return nil, fmt.Errorf("zonemap: zones cover %d of %d chain pixels", cursor, chainPixelCount)
	}
	return m, nil
}

// Indices returns the absolute pixel indices for zone, in logical-pixel
// order (index 0 is logical pixel 0 of the zone).
func (m *Mapper) Indices(zone ZoneID) []int {
	return m.indices[zone]
}

// AllZoneIDs returns every zone id known to this mapper, in declared order.
func (m *Mapper) AllZoneIDs() []ZoneID {
	out := make([]ZoneID, len(m.order))
	copy(out, m.order)
	return out
}

// ChainPixelCount returns the total pixel count of the chain this mapper
// covers.
func (m *Mapper) ChainPixelCount() int {
	return m.chainPixelCount
}

// PixelCountOf implements internal/controllers.PixelCounter: it returns the
// logical pixel count of zone, or 0 if zone is unknown to this mapper.
func (m *Mapper) PixelCountOf(zone ZoneID) int {
	return len(m.indices[zone])
}

// MultiMapper aggregates the per-chain Mappers of an installation with more
// than one hardware chain, so callers that only know a ZoneID (not which
// chain it lives on) can still resolve pixel counts.
type MultiMapper struct {
	byZone map[ZoneID]*Mapper
}

// NewMultiMapper indexes mappers by every zone they know about.
func NewMultiMapper(mappers []*Mapper) *MultiMapper {
	mm := &MultiMapper{byZone: map[ZoneID]*Mapper{}}
	for _, m := range mappers {
		for _, id := range m.AllZoneIDs() {
			mm.byZone[id] = m
		}
	}
	return mm
}

// PixelCountOf implements internal/controllers.PixelCounter across all
// chains.
func (mm *MultiMapper) PixelCountOf(zone ZoneID) int {
	m, ok := mm.byZone[zone]
	if !ok {
		return 0
	}
	return m.PixelCountOf(zone)
}
