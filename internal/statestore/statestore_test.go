// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package statestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/zonemap"
	"github.com/ledgrid/ledctl/internal/zonestate"
)

func TestLoad_MissingFileReturnsZeroSnapshot(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "state.json"))
	snap, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Zones) != 0 {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := New(path)
	want := zonestate.Snapshot{
		Zones: map[zonemap.ZoneID]zonestate.ZoneSnapshot{
			"sofa": {Color: colorx.NewRGB(10, 20, 30), Brightness: 80, IsOn: true, Mode: zonestate.ModeStatic},
		},
		Application: zonestate.ApplicationSnapshot{SelectedZoneIndex: 2},
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Zones["sofa"].Brightness != 80 || !got.Zones["sofa"].IsOn {
		t.Fatalf("got %+v", got.Zones["sofa"])
	}
	if got.Application.SelectedZoneIndex != 2 {
		t.Fatalf("got application %+v", got.Application)
	}
}

func TestSave_NoLeftoverTempFile(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "state.json"))
	if err := s.Save(zonestate.Snapshot{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "state.json" {
		t.Fatalf("expected only state.json to remain, got %v", entries)
	}
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := New(path)
	if _, err := s.Load(); err == nil {
		t.Fatal("expected decode error for malformed state file")
	}
}
