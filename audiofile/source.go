// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package audiofile

import (
	"log/slog"
	"os"

	"github.com/richardwilkes/toolbox/errs"
	"github.com/richardwilkes/toolbox/xio"
	"github.com/richardwilkes/trail/span"
)

// Source is a read-only file of raw interleaved PCM frames. The file stays
// open until the source and every stake taken from it have been released.
type Source struct {
	extent *extent
	logger *slog.Logger
	path   string
	format Format
	frames int64
	closed bool
}

// OpenSource opens a raw PCM file in the given format.
func OpenSource(path string, format Format, logger *slog.Logger) (*Source, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	fi, err := f.Stat()
	if err != nil {
		xio.CloseIgnoringErrors(f)
		return nil, errs.Wrap(err)
	}
	frameSize := format.FrameSize()
	if fi.Size()%frameSize != 0 {
		xio.CloseIgnoringErrors(f)
		return nil, errs.Newf("%s: size %d is not a multiple of the frame size %d", path, fi.Size(), frameSize)
	}
	logger = logger.With("source", path)
	src := &Source{
		logger: logger,
		path:   path,
		format: format,
		frames: fi.Size() / frameSize,
	}
	src.extent = newExtent(f, 0, fi.Size(), func() {
		if closeErr := f.Close(); closeErr != nil {
			logger.Warn("unable to close source", "error", closeErr)
		}
	})
	return src, nil
}

// Path returns the path of the file.
func (src *Source) Path() string {
	return src.path
}

// Format returns the format of the frames.
func (src *Source) Format() Format {
	return src.format
}

// Frames returns the number of frames in the file.
func (src *Source) Frames() int64 {
	return src.frames
}

// Stake returns a stake covering the whole file, placed at the given position
// on the timeline.
func (src *Source) Stake(at int64) *Stake {
	src.extent.retain()
	return newStake(src.extent, src.format, span.Span{Start: at, Stop: at + src.frames}, 0, src.logger)
}

// Close releases the source's own reference to the file. The file closes
// once every stake taken from it has been disposed. May be called more than
// once.
func (src *Source) Close() {
	if !src.closed {
		src.closed = true
		src.extent.release()
	}
}
