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
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/richardwilkes/toolbox/errs"
	"github.com/richardwilkes/trail/audiofile"
	"github.com/richardwilkes/trail/undo"
)

// config holds the defaults used when replaying a script.
type config struct {
	ScratchDir string  `toml:"scratch_dir"`
	BlockSize  string  `toml:"block_size"`
	SampleRate float64 `toml:"sample_rate"`
	UndoLimit  int     `toml:"undo_limit"`
	Channels   int     `toml:"channels"`
	SampleBits int     `toml:"sample_bits"`
}

func defaultConfig() *config {
	return &config{
		BlockSize:  humanize.IBytes(audiofile.DefaultBlockSize),
		SampleRate: 48000,
		UndoLimit:  undo.DefaultLimit,
		Channels:   1,
		SampleBits: 16,
	}
}

// loadConfig reads a TOML configuration file over the defaults. A missing file
// is not an error.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("config file not found", "path", path)
			return cfg, nil
		}
		return nil, errs.Wrap(err)
	}
	metadata, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errs.NewWithCause("unable to parse config file "+path, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		slog.Warn("unrecognized config keys", "path", path, "keys", undecoded)
	}
	return cfg, cfg.validate()
}

func (c *config) validate() error {
	var err error
	if c.SampleRate <= 0 {
		err = errs.Append(err, errs.Newf("sample_rate must be positive, got %v", c.SampleRate))
	}
	if c.UndoLimit < 1 {
		err = errs.Append(err, errs.Newf("undo_limit must be at least 1, got %d", c.UndoLimit))
	}
	if _, parseErr := c.blockSize(); parseErr != nil {
		err = errs.Append(err, parseErr)
	}
	if c.SampleBits%8 != 0 || c.SampleBits < 8 || c.SampleBits > 64 {
		err = errs.Append(err, errs.Newf("sample_bits must be a multiple of 8 from 8 to 64, got %d", c.SampleBits))
	}
	return err
}

func (c *config) blockSize() (int, error) {
	size, err := humanize.ParseBytes(c.BlockSize)
	if err != nil {
		return 0, errs.NewWithCause("invalid block_size "+c.BlockSize, err)
	}
	if size < 1 || size > 1<<30 {
		return 0, errs.Newf("block_size out of range: %s", c.BlockSize)
	}
	return int(size), nil
}

func (c *config) format() audiofile.Format {
	return audiofile.Format{
		SampleRate:     c.SampleRate,
		Channels:       c.Channels,
		BytesPerSample: c.SampleBits / 8,
	}
}
