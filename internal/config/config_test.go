// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

const (
	hardwareYAML = `
chains:
  - id: main
    gpio: GPIO18
    type: ws281x
    color_order: GRB
    count: 4
    voltage: 5
    frequency_hz: 800000
    enabled: true
    dma_channel: 10
encoders: []
buttons: []
`
	zonesYAML = `
zones:
  - id: sofa
    display_name: Sofa
    pixel_count: 2
    enabled: true
    reversed: false
    order: 0
  - id: shelf
    display_name: Shelf
    pixel_count: 2
    enabled: true
    reversed: true
    order: 1
`
	zoneMappingYAML = `
main: [sofa, shelf]
`
	colorsYAML = `
presets:
  warm_white: [255, 230, 200]
preset_order: [warm_white]
white_presets: [warm_white]
`
	animationsYAML = `
animations:
  - id: breathe
    generator: BREATHE
    display_name: Breathe
    description: slow fade
    params:
      - id: SPEED
        type_ref: percent_speed
`
	parametersYAML = `
parameters:
  percent_speed:
    type: percent
    min: 1
    max: 100
    step: 1
    wraps: false
    default: 50
`
)

func writeValidConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"hardware.yaml":     hardwareYAML,
		"zones.yaml":        zonesYAML,
		"zone_mapping.yaml": zoneMappingYAML,
		"colors.yaml":       colorsYAML,
		"animations.yaml":   animationsYAML,
		"parameters.yaml":   parametersYAML,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoad_Valid(t *testing.T) {
	dir := writeValidConfigDir(t)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Hardware.Chains) != 1 || cfg.Hardware.Chains[0].ID != "main" {
		t.Fatalf("unexpected chains: %+v", cfg.Hardware.Chains)
	}
	if len(cfg.Zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(cfg.Zones))
	}
	if len(cfg.ZoneMap["main"]) != 2 {
		t.Fatalf("expected zone_mapping to list 2 zones under main, got %v", cfg.ZoneMap)
	}
}

func TestLoad_UnknownKeyIsFatal(t *testing.T) {
	dir := writeValidConfigDir(t)
	bad := hardwareYAML + "\nbogus_field: true\n"
	if err := os.WriteFile(filepath.Join(dir, "hardware.yaml"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected unknown-key decode to fail")
	}
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	dir := writeValidConfigDir(t)
	if err := os.Remove(filepath.Join(dir, "colors.yaml")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected missing file to fail")
	}
}

func TestValidate_UnmappedEnabledZoneFails(t *testing.T) {
	dir := writeValidConfigDir(t)
	mapping := "main: [sofa]\n" // shelf is enabled but unmapped
	if err := os.WriteFile(filepath.Join(dir, "zone_mapping.yaml"), []byte(mapping), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected unmapped enabled zone to fail validation")
	}
}

func TestValidate_DuplicateMappingFails(t *testing.T) {
	dir := writeValidConfigDir(t)
	mapping := "main: [sofa, shelf, sofa]\n"
	if err := os.WriteFile(filepath.Join(dir, "zone_mapping.yaml"), []byte(mapping), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected duplicate zone mapping to fail validation")
	}
}

func TestValidate_UnknownChainIDFails(t *testing.T) {
	dir := writeValidConfigDir(t)
	mapping := "ghost: [sofa, shelf]\n"
	if err := os.WriteFile(filepath.Join(dir, "zone_mapping.yaml"), []byte(mapping), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected unknown hardware id to fail validation")
	}
}

func TestDir_DefaultsAndRespectsEnv(t *testing.T) {
	os.Unsetenv(EnvConfigDir)
	if got := Dir(); got != DefaultDir {
		t.Fatalf("got %q, want %q", got, DefaultDir)
	}
	t.Setenv(EnvConfigDir, "/custom/path")
	if got := Dir(); got != "/custom/path" {
		t.Fatalf("got %q", got)
	}
}
