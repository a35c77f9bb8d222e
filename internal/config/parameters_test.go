// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/ledgrid/ledctl/internal/animation"
)

func TestParamTypeFile_ToParamDef(t *testing.T) {
	p := ParamTypeFile{Type: "percent", Min: 1, Max: 100, Step: 1, Default: 50}
	def, err := p.ToParamDef("SPEED")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := animation.ParamDef{ID: "SPEED", Type: animation.ParamPercent, Min: 1, Max: 100, Step: 1, Default: 50}
	if def != want {
		t.Fatalf("got %+v, want %+v", def, want)
	}
}

func TestParamTypeFile_ToParamDef_UnknownTypeFails(t *testing.T) {
	p := ParamTypeFile{Type: "bogus"}
	if _, err := p.ToParamDef("X"); err == nil {
		t.Fatal("expected error for unknown parameter type")
	}
}

func TestParamTypeOf(t *testing.T) {
	cases := map[string]animation.ParamType{
		"percent": animation.ParamPercent,
		"int":     animation.ParamInt,
		"angle":   animation.ParamAngle,
		"float":   animation.ParamFloat,
	}
	for name, want := range cases {
		got, err := paramTypeOf(name)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", name, err)
		}
		if got != want {
			t.Errorf("paramTypeOf(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := paramTypeOf("nope"); err == nil {
		t.Fatal("expected error for unknown type name")
	}
}
