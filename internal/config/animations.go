// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"fmt"

	"github.com/ledgrid/ledctl/internal/animation"
	"github.com/ledgrid/ledctl/internal/errs"
)

// AnimationParamRef is one entry in an animations.yaml animation's param
// list: the declared id plus which parameters.yaml type it draws its
// schema from.
type AnimationParamRef struct {
	ID      string `yaml:"id"`
	TypeRef string `yaml:"type_ref"`
}

// AnimationFile is one animations.yaml entry. Generator names the built-in
// Go generator this animation's id is bound to (BREATHE, COLOR_FADE, SNAKE,
// COLOR_SNAKE); the YAML document only supplies display metadata and the
// parameter schema, never the pixel-producing logic itself.
type AnimationFile struct {
	ID          string              `yaml:"id"`
	Generator   string              `yaml:"generator"`
	DisplayName string              `yaml:"display_name"`
	Description string              `yaml:"description"`
	Params      []AnimationParamRef `yaml:"params"`
}

type animationsFile struct {
	Animations []AnimationFile `yaml:"animations"`
}

// BuildCatalog merges animations.yaml metadata and parameter schemas onto
// the built-in generators, producing the final animation.Definition catalog
// the runtime and controllers operate on. An animations.yaml entry whose
// generator does not match a built-in is a configuration error: there is no
// path for YAML to supply pixel-producing logic.
func (c *Config) BuildCatalog(builtins []animation.Definition) ([]animation.Definition, error) {
	genByName := make(map[string]animation.Generator, len(builtins))
	for _, d := range builtins {
		genByName[d.ID] = d.Gen
	}

	out := make([]animation.Definition, 0, len(c.Animations))
	for _, af := range c.Animations {
		gen, ok := genByName[af.Generator]
		if !ok {
			return nil, errs.Config(fmt.Sprintf("animations.yaml: animation %q: unknown generator %q", af.ID, af.Generator), nil)
		}
		params := make([]animation.ParamDef, 0, len(af.Params))
		for _, ref := range af.Params {
			pt, ok := c.Parameters[ref.TypeRef]
			if !ok {
				return nil, errs.Config(fmt.Sprintf("animations.yaml: animation %q: unknown parameter type_ref %q", af.ID, ref.TypeRef), nil)
			}
			def, err := pt.ToParamDef(ref.ID)
			if err != nil {
				return nil, err
			}
			params = append(params, def)
		}
		out = append(out, animation.Definition{
			ID:          af.ID,
			DisplayName: af.DisplayName,
			Description: af.Description,
			Params:      params,
			Gen:         gen,
		})
	}
	return out, nil
}
