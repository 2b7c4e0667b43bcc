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
	"log"
	"log/slog"
	"os"

	"github.com/richardwilkes/toolbox/cmdline"
	"github.com/richardwilkes/toolbox/errs"
	"github.com/richardwilkes/toolbox/fatal"
	"github.com/richardwilkes/toolbox/log/tracelog"
)

func main() {
	cmdline.AppName = "Trail"
	cmdline.AppCmdName = "trail"
	cmdline.License = "Mozilla Public License, version 2.0"
	cmdline.CopyrightStartYear = "2017"
	cmdline.CopyrightHolder = "Richard A. Wilkes"
	cmdline.AppIdentifier = "com.trollworks.trail"

	configPath := "trail.toml"
	var sampleRate int
	var debug bool

	var logLevel slog.LevelVar
	slog.SetDefault(slog.New(tracelog.New(&tracelog.Config{
		Level: &logLevel,
		Sink:  log.Default().Writer(),
	})))

	cl := cmdline.New(true)
	cl.NewGeneralOption(&configPath).SetName("config").SetSingle('c').SetUsage("Configuration file to load")
	cl.NewGeneralOption(&sampleRate).SetName("rate").SetSingle('r').SetUsage("Sample rate in frames/second, overriding the configuration")
	cl.NewGeneralOption(&debug).SetName("debug").SetUsage("Enable debug logging")

	scripts := cl.Parse(os.Args[1:])
	if len(scripts) == 0 {
		fatal.WithErr(errs.New("No script specified"))
	}

	if debug {
		logLevel.Set(slog.LevelDebug)
	}

	cfg, err := loadConfig(configPath)
	fatal.IfErr(err)
	if sampleRate != 0 {
		cfg.SampleRate = float64(sampleRate)
		fatal.IfErr(cfg.validate())
	}

	for _, path := range scripts {
		fatal.IfErr(replay(cfg, path))
	}
}

func replay(cfg *config, path string) error {
	sc, err := loadScript(path)
	if err != nil {
		return err
	}
	var s *session
	if s, err = newSession(cfg, slog.Default().With("script", path)); err != nil {
		return err
	}
	if err = s.load(sc); err == nil {
		err = s.run(sc.Steps)
	}
	s.report(os.Stdout)
	if closeErr := s.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
