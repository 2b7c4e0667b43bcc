// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/richardwilkes/toolbox/errs"
	"gopkg.in/yaml.v3"
)

// script describes a set of tracks and the edits to replay against them.
type script struct {
	Dir    string      `yaml:"-"`
	Tracks []trackSpec `yaml:"tracks"`
	Steps  []step      `yaml:"steps"`
}

type trackSpec struct {
	Name       string       `yaml:"name"`
	Parent     string       `yaml:"parent"`
	Fill       string       `yaml:"fill"`
	Descriptor string       `yaml:"descriptor"`
	Regions    []regionSpec `yaml:"regions"`
	Markers    []markerSpec `yaml:"markers"`
	Audio      []audioSpec  `yaml:"audio"`
}

type regionSpec struct {
	Name  string `yaml:"name"`
	Start int64  `yaml:"start"`
	Stop  int64  `yaml:"stop"`
}

type markerSpec struct {
	Name string `yaml:"name"`
	Pos  int64  `yaml:"pos"`
}

type audioSpec struct {
	At     int64 `yaml:"at"`
	Frames int64 `yaml:"frames"`
}

type step struct {
	Op     string `yaml:"op"`
	Track  string `yaml:"track"`
	Mode   string `yaml:"mode"`
	Source string `yaml:"source"`
	Name   string `yaml:"name"`
	Into   string `yaml:"into"`
	Start  int64  `yaml:"start"`
	Stop   int64  `yaml:"stop"`
	Shift  int64  `yaml:"shift"`
}

func loadScript(path string) (*script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("unable to close script", "path", path, "error", closeErr)
		}
	}()
	sc, err := parseScript(f)
	if err != nil {
		return nil, errs.NewWithCause("unable to load script "+path, err)
	}
	sc.Dir = filepath.Dir(path)
	return sc, nil
}

func parseScript(r io.Reader) (*script, error) {
	var sc script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, errs.Wrap(err)
	}
	if len(sc.Tracks) == 0 {
		return nil, errs.New("script defines no tracks")
	}
	return &sc, nil
}
