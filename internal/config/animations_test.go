// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/ledgrid/ledctl/internal/animation"
)

func TestBuildCatalog(t *testing.T) {
	builtins := animation.Builtins()
	cfg := &Config{
		Parameters: map[string]ParamTypeFile{
			"percent_speed": {Type: "percent", Min: 1, Max: 100, Step: 1, Default: 50},
		},
		Animations: []AnimationFile{
			{ID: "breathe", Generator: "BREATHE", DisplayName: "Breathe", Description: "slow fade",
				Params: []AnimationParamRef{{ID: "SPEED", TypeRef: "percent_speed"}}},
		},
	}
	catalog, err := cfg.BuildCatalog(builtins)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(catalog) != 1 {
		t.Fatalf("expected 1 catalog entry, got %d", len(catalog))
	}
	def := catalog[0]
	if def.ID != "breathe" || def.DisplayName != "Breathe" {
		t.Fatalf("unexpected definition: %+v", def)
	}
	if len(def.Params) != 1 || def.Params[0].ID != "SPEED" {
		t.Fatalf("unexpected params: %+v", def.Params)
	}
	if def.Gen == nil {
		t.Fatal("expected generator to be bound from the matching builtin")
	}
}

func TestBuildCatalog_UnknownGeneratorFails(t *testing.T) {
	cfg := &Config{
		Animations: []AnimationFile{{ID: "x", Generator: "NOT_REAL"}},
	}
	if _, err := cfg.BuildCatalog(animation.Builtins()); err == nil {
		t.Fatal("expected error for unknown generator")
	}
}

func TestBuildCatalog_UnknownParamTypeRefFails(t *testing.T) {
	cfg := &Config{
		Animations: []AnimationFile{
			{ID: "breathe", Generator: "BREATHE", Params: []AnimationParamRef{{ID: "SPEED", TypeRef: "missing"}}},
		},
	}
	if _, err := cfg.BuildCatalog(animation.Builtins()); err == nil {
		t.Fatal("expected error for unknown parameter type_ref")
	}
}
