// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package statestore implements internal/zonestate.Repository against a
// single human-editable state.json file: atomic write (temp file + rename)
// so a crash mid-save never corrupts the previous good state, and a
// missing/malformed file falls back to factory defaults rather than
// blocking startup, per the state-load-error failure rule.
package statestore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ledgrid/ledctl/internal/errs"
	"github.com/ledgrid/ledctl/internal/zonestate"
)

// Store persists zonestate.Snapshot documents to a single JSON file.
type Store struct {
	path string
}

// New builds a Store writing to path (typically state.json under the config
// directory).
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads and decodes the state file. A missing file is not an error: it
// returns a zero Snapshot so the caller seeds factory defaults. A malformed
// file is reported so the caller can log and fall back.
func (s *Store) Load() (zonestate.Snapshot, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return zonestate.Snapshot{}, nil
	}
	if err != nil {
		return zonestate.Snapshot{}, errs.Persistence("read state file", err)
	}
	var snap zonestate.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return zonestate.Snapshot{}, errs.Persistence("decode state file", err)
	}
	return snap, nil
}

// Save writes snap atomically: marshal, write to a sibling temp file, then
// rename over the target. A concurrent reader therefore never observes a
// partially written document.
func (s *Store) Save(snap zonestate.Snapshot) error {
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errs.Persistence("encode state file", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Persistence("create state directory", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.json.tmp")
	if err != nil {
		return errs.Persistence("create temp state file", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errs.Persistence("write temp state file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errs.Persistence("close temp state file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errs.Persistence("rename temp state file", err)
	}
	return nil
}
