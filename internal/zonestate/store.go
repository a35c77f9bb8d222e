// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package zonestate

import (
	"sync"
	"time"

	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/eventbus"
	"github.com/ledgrid/ledctl/internal/zonemap"
	"go.uber.org/zap"
)

// SaveDebounce is the coalescing window: the first mutation after a save
// schedules a flush after this delay; further mutations within the window
// do not schedule an additional one.
const SaveDebounce = 500 * time.Millisecond

// Repository is the persistence boundary this package depends on, kept
// abstract so zonestate has no direct dependency on the statestore
// package (statestore implements this against state.json).
type Repository interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// Store is the single in-memory aggregate of zone and application state.
// It is the only component other than Repository that touches persisted
// state: all mutation flows through MutateZone/MutateApplication.
type Store struct {
	mu       sync.Mutex
	zones    map[zonemap.ZoneID]*ZoneCombined
	order    []zonemap.ZoneID
	app      ApplicationState
	repo     Repository
	bus      *eventbus.Bus
	resolver colorx.PresetResolver
	log      *zap.SugaredLogger

	dirty      bool
	saveTimer  *time.Timer
	saveCancel chan struct{}
}

// NewStore seeds a Store from configs, restoring each zone's persisted state
// via repo if available. Of the application state only the selected edit
// target is restored; the other application fields start from defaults. A
// Load error falls back to factory defaults for every zone (persistence
// errors must never block startup).
func NewStore(configs []zonemap.ZoneConfig, repo Repository, bus *eventbus.Bus, resolver colorx.PresetResolver, log *zap.SugaredLogger) *Store {
	s := &Store{
		zones:    map[zonemap.ZoneID]*ZoneCombined{},
		repo:     repo,
		bus:      bus,
		resolver: resolver,
		log:      log,
	}
	snapshot, err := repo.Load()
	if err != nil && log != nil {
		log.Warnw("state load failed, falling back to factory defaults", "err", err)
	}
	for _, cfg := range configs {
		zs := ZoneState{Color: colorx.NewRGB(255, 255, 255), Brightness: 100, Power: true, Mode: ModeStatic}
		if zsnap, ok := snapshot.Zones[cfg.ID]; ok {
			zs.Color = zsnap.Color
			zs.Brightness = zsnap.Brightness
			zs.Power = zsnap.IsOn
			zs.Mode = zsnap.Mode
			if zsnap.Animation != nil {
				zs.Animation = &AnimationState{ID: zsnap.Animation.ID, Parameters: zsnap.Animation.Parameters}
			}
		}
		s.zones[cfg.ID] = &ZoneCombined{Config: cfg, State: zs}
		s.order = append(s.order, cfg.ID)
	}
	s.app = ApplicationState{
		SelectedZoneEditTarget: snapshot.Application.SelectedZoneEditTarget,
		SaveOnChange:           true,
	}
	if s.app.SelectedZoneEditTarget == "" {
		s.app.SelectedZoneEditTarget = EditColorHue
	}
	return s
}

// Zone returns a copy of the combined zone state for id.
func (s *Store) Zone(id zonemap.ZoneID) (ZoneCombined, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	zc, ok := s.zones[id]
	if !ok {
		return ZoneCombined{}, false
	}
	return *zc, true
}

// AllZones returns a copy of every zone's combined state, in declared
// order.
func (s *Store) AllZones() []ZoneCombined {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ZoneCombined, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.zones[id])
	}
	return out
}

// Application returns a copy of the current application state.
func (s *Store) Application() ApplicationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app
}

// MutateZone applies fn to zone id's state, then publishes
// ZONE_SNAPSHOT_UPDATED and schedules a debounced save. Returns false if id
// is unknown.
func (s *Store) MutateZone(id zonemap.ZoneID, fn func(*ZoneState)) bool {
	s.mu.Lock()
	zc, ok := s.zones[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	fn(&zc.State)
	snap := *zc
	s.scheduleSaveLocked()
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Type: eventbus.ZoneSnapshotUpdated, Payload: snap})
	}
	return true
}

// MutateApplication applies fn to the application state and schedules a
// debounced save.
func (s *Store) MutateApplication(fn func(*ApplicationState)) {
	s.mu.Lock()
	fn(&s.app)
	s.scheduleSaveLocked()
	s.mu.Unlock()
}

// StaticColor implements internal/framemgr.ZoneStateProvider: it returns
// the rendered color for zone id if it is powered on and in STATIC mode.
func (s *Store) StaticColor(id zonemap.ZoneID) (colorx.Rgb, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	zc, ok := s.zones[id]
	if !ok || zc.State.Mode != ModeStatic || !zc.State.Power {
		return colorx.Rgb{}, false
	}
	return zc.State.Color.WithBrightness(zc.State.Brightness, s.resolver), true
}

// scheduleSaveLocked must be called with s.mu held. The first mutation
// after an idle period arms a timer for SaveDebounce; further mutations
// before it fires are coalesced into the same pending save.
func (s *Store) scheduleSaveLocked() {
	s.dirty = true
	if s.saveTimer != nil {
		return
	}
	s.saveTimer = time.AfterFunc(SaveDebounce, s.flushTimer)
}

func (s *Store) flushTimer() {
	s.mu.Lock()
	s.saveTimer = nil
	dirty := s.dirty
	s.dirty = false
	snapshot := toSnapshot(s.zones, s.app)
	s.mu.Unlock()

	if !dirty {
		return
	}
	if err := s.repo.Save(snapshot); err != nil && s.log != nil {
		s.log.Warnw("state save failed, will retry on next mutation", "err", err)
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
	}
}

// Flush forces an immediate save if a mutation is pending, bypassing the
// debounce window. Called on graceful shutdown.
func (s *Store) Flush() error {
	s.mu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	dirty := s.dirty
	s.dirty = false
	snapshot := toSnapshot(s.zones, s.app)
	s.mu.Unlock()

	if !dirty {
		return nil
	}
	return s.repo.Save(snapshot)
}
