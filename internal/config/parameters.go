// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"fmt"

	"github.com/ledgrid/ledctl/internal/animation"
	"github.com/ledgrid/ledctl/internal/errs"
)

// ParamTypeFile is one reusable parameter type declared in parameters.yaml,
// referenced by id from animations.yaml's per-animation param list.
type ParamTypeFile struct {
	Type    string  `yaml:"type"` // percent | int | angle | float
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Step    float64 `yaml:"step"`
	Wraps   bool    `yaml:"wraps"`
	Default float64 `yaml:"default"`
}

type parametersFile struct {
	Parameters map[string]ParamTypeFile `yaml:"parameters"`
}

func paramTypeOf(t string) (animation.ParamType, error) {
	switch t {
	case "percent":
		return animation.ParamPercent, nil
	case "int":
		return animation.ParamInt, nil
	case "angle":
		return animation.ParamAngle, nil
	case "float":
		return animation.ParamFloat, nil
	default:
		return 0, errs.Config(fmt.Sprintf("parameters.yaml: unknown type %q", t), nil)
	}
}

// ToParamDef converts a declared parameter type into the runtime ParamDef
// for parameter id.
func (p ParamTypeFile) ToParamDef(id string) (animation.ParamDef, error) {
	t, err := paramTypeOf(p.Type)
	if err != nil {
		return animation.ParamDef{}, err
	}
	return animation.ParamDef{
		ID: animation.ParamID(id), Type: t,
		Min: p.Min, Max: p.Max, Step: p.Step, Wraps: p.Wraps, Default: p.Default,
	}, nil
}
