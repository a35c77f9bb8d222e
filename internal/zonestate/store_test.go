// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package zonestate

import (
	"sync"
	"testing"
	"time"

	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/eventbus"
	"github.com/ledgrid/ledctl/internal/zonemap"
)

type fakeRepo struct {
	mu    sync.Mutex
	saved []Snapshot
	load  Snapshot
	err   error
}

func (r *fakeRepo) Load() (Snapshot, error) { return r.load, r.err }

func (r *fakeRepo) Save(s Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, s)
	return nil
}

func (r *fakeRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func testConfigs() []zonemap.ZoneConfig {
	return []zonemap.ZoneConfig{
		{ID: "sofa", DisplayName: "Sofa", PixelCount: 10, Enabled: true},
		{ID: "shelf", DisplayName: "Shelf", PixelCount: 5, Enabled: true},
	}
}

func TestNewStore_SeedsFactoryDefaults(t *testing.T) {
	s := NewStore(testConfigs(), &fakeRepo{}, nil, nil, nil)
	zc, ok := s.Zone("sofa")
	if !ok {
		t.Fatal("expected sofa zone to exist")
	}
	if zc.State.Brightness != 100 || !zc.State.Power || zc.State.Mode != ModeStatic {
		t.Fatalf("unexpected factory defaults: %+v", zc.State)
	}
}

func TestNewStore_RestoresFromSnapshot(t *testing.T) {
	repo := &fakeRepo{load: Snapshot{
		Zones: map[zonemap.ZoneID]ZoneSnapshot{
			"sofa": {Color: colorx.NewRGB(1, 2, 3), Brightness: 42, IsOn: false, Mode: ModeAnimation},
		},
	}}
	s := NewStore(testConfigs(), repo, nil, nil, nil)
	zc, _ := s.Zone("sofa")
	if zc.State.Brightness != 42 || zc.State.Power || zc.State.Mode != ModeAnimation {
		t.Fatalf("expected restored state, got %+v", zc.State)
	}
}

func TestMutateZone_UnknownZoneReturnsFalse(t *testing.T) {
	s := NewStore(testConfigs(), &fakeRepo{}, nil, nil, nil)
	if s.MutateZone("nope", func(*ZoneState) {}) {
		t.Fatal("expected mutating an unknown zone to return false")
	}
}

func TestMutateZone_PublishesSnapshotEvent(t *testing.T) {
	bus := eventbus.New(0, nil)
	received := make(chan eventbus.Event, 1)
	bus.Subscribe(eventbus.ZoneSnapshotUpdated, func(ev eventbus.Event) error {
		received <- ev
		return nil
	}, 0, nil)

	s := NewStore(testConfigs(), &fakeRepo{}, bus, nil, nil)
	ok := s.MutateZone("sofa", func(zs *ZoneState) { zs.Brightness = 10 })
	if !ok {
		t.Fatal("expected known zone mutation to succeed")
	}
	select {
	case ev := <-received:
		zc, ok := ev.Payload.(ZoneCombined)
		if !ok || zc.State.Brightness != 10 {
			t.Fatalf("unexpected payload: %+v", ev.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("expected ZoneSnapshotUpdated to be published")
	}
}

func TestStaticColor(t *testing.T) {
	s := NewStore(testConfigs(), &fakeRepo{}, nil, nil, nil)
	s.MutateZone("sofa", func(zs *ZoneState) {
		zs.Color = colorx.NewRGB(100, 100, 100)
		zs.Brightness = 50
		zs.Power = true
		zs.Mode = ModeStatic
	})
	rgb, ok := s.StaticColor("sofa")
	if !ok || rgb != (colorx.Rgb{R: 50, G: 50, B: 50}) {
		t.Fatalf("got %v, %v", rgb, ok)
	}

	s.MutateZone("sofa", func(zs *ZoneState) { zs.Power = false })
	if _, ok := s.StaticColor("sofa"); ok {
		t.Fatal("expected powered-off zone to report no static color")
	}

	s.MutateZone("sofa", func(zs *ZoneState) { zs.Power = true; zs.Mode = ModeAnimation })
	if _, ok := s.StaticColor("sofa"); ok {
		t.Fatal("expected animation-mode zone to report no static color")
	}
}

func TestFlush_SavesOnlyWhenDirty(t *testing.T) {
	repo := &fakeRepo{}
	s := NewStore(testConfigs(), repo, nil, nil, nil)
	if err := s.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.saveCount() != 0 {
		t.Fatalf("expected no save for a clean store, got %d", repo.saveCount())
	}

	s.MutateZone("sofa", func(zs *ZoneState) { zs.Brightness = 1 })
	if err := s.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.saveCount() != 1 {
		t.Fatalf("expected exactly one save after a dirty mutation, got %d", repo.saveCount())
	}

	if err := s.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.saveCount() != 1 {
		t.Fatalf("expected second flush to be a no-op, got %d saves", repo.saveCount())
	}
}

func TestAllZones_PreservesDeclaredOrder(t *testing.T) {
	s := NewStore(testConfigs(), &fakeRepo{}, nil, nil, nil)
	zones := s.AllZones()
	if len(zones) != 2 || zones[0].Config.ID != "sofa" || zones[1].Config.ID != "shelf" {
		t.Fatalf("unexpected order: %+v", zones)
	}
}
