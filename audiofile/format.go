// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

// Package audiofile provides file-backed audio stakes for trails: a scratch
// block store for recorded material, read-only PCM sources, and a descriptor
// format for bundles of sources.
package audiofile

import (
	"fmt"

	"github.com/richardwilkes/toolbox/errs"
)

// Format describes interleaved PCM frames.
type Format struct {
	SampleRate     float64
	Channels       int
	BytesPerSample int
}

// FrameSize returns the number of bytes in one frame.
func (f Format) FrameSize() int64 {
	return int64(f.Channels) * int64(f.BytesPerSample)
}

// Validate returns an error if the format cannot describe audio data.
func (f Format) Validate() error {
	switch {
	case f.SampleRate <= 0:
		return errs.Newf("invalid sample rate: %v", f.SampleRate)
	case f.Channels < 1:
		return errs.Newf("invalid channel count: %d", f.Channels)
	case f.BytesPerSample < 1 || f.BytesPerSample > 8:
		return errs.Newf("invalid bytes per sample: %d", f.BytesPerSample)
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%vHz %dch %d-bit", f.SampleRate, f.Channels, f.BytesPerSample*8)
}
