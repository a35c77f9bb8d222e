// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package controllers

import (
	"context"
	"sync"
	"testing"

	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/frame"
	"github.com/ledgrid/ledctl/internal/zonemap"
	"github.com/ledgrid/ledctl/internal/zonestate"
)

type fakeRepo struct{}

func (fakeRepo) Load() (zonestate.Snapshot, error) { return zonestate.Snapshot{}, nil }
func (fakeRepo) Save(zonestate.Snapshot) error      { return nil }

type fakeSubmitter struct {
	mu     sync.Mutex
	frames []frame.Frame
}

func (s *fakeSubmitter) Submit(f frame.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, f)
}

func (s *fakeSubmitter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func testConfigs() []zonemap.ZoneConfig {
	return []zonemap.ZoneConfig{
		{ID: "sofa", DisplayName: "Sofa", PixelCount: 10, Enabled: true},
		{ID: "shelf", DisplayName: "Shelf", PixelCount: 5, Enabled: true},
	}
}

func TestStaticController_OnSelectorRotateWraps(t *testing.T) {
	store := zonestate.NewStore(testConfigs(), fakeRepo{}, nil, nil, nil)
	c := NewStaticController(context.Background(), store, &fakeSubmitter{}, nil, nil, nil)
	defer c.Close()

	c.OnSelectorRotate(-1)
	app := store.Application()
	if app.SelectedZoneIndex != 1 {
		t.Fatalf("expected wrap to the last zone, got %d", app.SelectedZoneIndex)
	}
}

func TestStaticController_OnModulatorRotate_Brightness(t *testing.T) {
	store := zonestate.NewStore(testConfigs(), fakeRepo{}, nil, nil, nil)
	c := NewStaticController(context.Background(), store, &fakeSubmitter{}, nil, nil, nil)
	defer c.Close()

	c.SetEditTarget(zonestate.EditBrightness)
	c.OnModulatorRotate(-5)
	zc, _ := store.Zone("sofa")
	if zc.State.Brightness != 95 {
		t.Fatalf("expected brightness adjusted to 95, got %d", zc.State.Brightness)
	}
}

func TestStaticController_OnModulatorRotate_BrightnessClamps(t *testing.T) {
	store := zonestate.NewStore(testConfigs(), fakeRepo{}, nil, nil, nil)
	c := NewStaticController(context.Background(), store, &fakeSubmitter{}, nil, nil, nil)
	defer c.Close()

	c.SetEditTarget(zonestate.EditBrightness)
	c.OnModulatorRotate(-1000)
	zc, _ := store.Zone("sofa")
	if zc.State.Brightness != 0 {
		t.Fatalf("expected brightness clamped to 0, got %d", zc.State.Brightness)
	}
}

func TestStaticController_OnModulatorRotate_Hue(t *testing.T) {
	store := zonestate.NewStore(testConfigs(), fakeRepo{}, nil, nil, nil)
	c := NewStaticController(context.Background(), store, &fakeSubmitter{}, nil, nil, nil)
	defer c.Close()

	c.SetEditTarget(zonestate.EditColorHue)
	c.OnModulatorRotate(10)
	zc, _ := store.Zone("sofa")
	if zc.State.Color.Mode != colorx.ModeHue || zc.State.Color.Hue != 10 {
		t.Fatalf("unexpected color after hue adjust: %+v", zc.State.Color)
	}
}

func TestStaticController_OnModulatorRotate_PresetCyclesOrder(t *testing.T) {
	store := zonestate.NewStore(testConfigs(), fakeRepo{}, nil, nil, nil)
	c := NewStaticController(context.Background(), store, &fakeSubmitter{}, nil, fakeOrderedResolver{"warm", "cool"}, nil)
	defer c.Close()

	c.SetEditTarget(zonestate.EditColorPreset)
	c.OnModulatorRotate(1)
	zc, _ := store.Zone("sofa")
	if zc.State.Color.Mode != colorx.ModePreset || zc.State.Color.Preset != "warm" {
		t.Fatalf("expected first preset to be selected, got %+v", zc.State.Color)
	}
	c.OnModulatorRotate(1)
	zc, _ = store.Zone("sofa")
	if zc.State.Color.Preset != "cool" {
		t.Fatalf("expected preset cycling to advance, got %+v", zc.State.Color)
	}
}

type fakeOrderedResolver struct {
	a, b string
}

func (r fakeOrderedResolver) ResolvePreset(name string) (colorx.Rgb, bool) { return colorx.Rgb{}, true }
func (r fakeOrderedResolver) IsWhite(name string) bool                    { return false }
func (r fakeOrderedResolver) Order() []string                             { return []string{r.a, r.b} }
