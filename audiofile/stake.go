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
	"io"
	"log/slog"

	"github.com/richardwilkes/trail"
	"github.com/richardwilkes/trail/span"
)

var _ trail.Stake = &Stake{}

// Stake is a trail stake whose frames come from a file-backed extent. The
// stake's span may extend past the frames available, in which case the
// excess reads as silence.
type Stake struct {
	trail.Ownership
	extent   *extent
	logger   *slog.Logger
	format   Format
	span     span.Span
	offset   int64 // frame within the extent that corresponds to span.Start
	disposed bool
}

func newStake(e *extent, format Format, s span.Span, offset int64, logger *slog.Logger) *Stake {
	return &Stake{extent: e, format: format, span: s, offset: offset, logger: logger}
}

// Format returns the format of the frames.
func (s *Stake) Format() Format {
	return s.format
}

// Span implements trail.Stake.
func (s *Stake) Span() span.Span {
	return s.span
}

// Offset returns the frame within the backing extent that corresponds to the
// start of the stake.
func (s *Stake) Offset() int64 {
	return s.offset
}

// Available returns the number of frames of the stake backed by data.
func (s *Stake) Available() int64 {
	if s.offset < 0 {
		return 0
	}
	frames := s.extent.length/s.format.FrameSize() - s.offset
	return max(min(frames, s.span.Length()), 0)
}

// Reader returns a reader over the backed frames of the stake.
func (s *Stake) Reader() *io.SectionReader {
	size := s.format.FrameSize()
	return io.NewSectionReader(s.extent.r, s.extent.offset+s.offset*size, s.Available()*size)
}

func (s *Stake) derive(sp span.Span, offset int64) *Stake {
	s.extent.retain()
	return newStake(s.extent, s.format, sp, offset, s.logger)
}

// Duplicate implements trail.Stake.
func (s *Stake) Duplicate() trail.Stake {
	return s.derive(s.span, s.offset)
}

// ReplaceStart implements trail.Stake. The frames at the new start are those
// that were already at that position.
func (s *Stake) ReplaceStart(start int64) trail.Stake {
	return s.derive(span.Span{Start: start, Stop: s.span.Stop}, s.offset+start-s.span.Start)
}

// ReplaceStop implements trail.Stake.
func (s *Stake) ReplaceStop(stop int64) trail.Stake {
	return s.derive(span.Span{Start: s.span.Start, Stop: stop}, s.offset)
}

// Shift implements trail.Stake.
func (s *Stake) Shift(delta int64) trail.Stake {
	return s.derive(s.span.Shift(delta), s.offset)
}

// Dispose implements trail.Stake. May be called more than once.
func (s *Stake) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.extent.release()
	s.logger.Debug("stake disposed", "span", s.span.String())
}
