// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

// Package span provides the half-open time interval used throughout trails.
package span

import "fmt"

// Span holds a half-open range [Start, Stop) on the sample frame axis.
type Span struct {
	Start int64
	Stop  int64
}

// New creates a new span. If stop is less than start, the two are swapped.
func New(start, stop int64) Span {
	if stop < start {
		start, stop = stop, start
	}
	return Span{Start: start, Stop: stop}
}

// At returns a zero-length span positioned at pos.
func At(pos int64) Span {
	return Span{Start: pos, Stop: pos}
}

// Length returns the number of frames covered by the span.
func (s Span) Length() int64 {
	return s.Stop - s.Start
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Stop <= s.Start
}

// Contains returns true if pos lies within [Start, Stop).
func (s Span) Contains(pos int64) bool {
	return pos >= s.Start && pos < s.Stop
}

// Overlaps returns true if the two spans share at least one frame.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.Stop && other.Start < s.Stop
}

// Touches returns true if the two spans overlap or abut. Zero-length spans
// touch anything that contains or abuts their position.
func (s Span) Touches(other Span) bool {
	return s.Stop >= other.Start && s.Start <= other.Stop
}

// Union returns the smallest span covering both spans.
func (s Span) Union(other Span) Span {
	return Span{Start: min(s.Start, other.Start), Stop: max(s.Stop, other.Stop)}
}

// Intersection returns the overlapping portion of the two spans. The second
// return value is false if the spans do not touch.
func (s Span) Intersection(other Span) (Span, bool) {
	if !s.Touches(other) {
		return Span{}, false
	}
	return Span{Start: max(s.Start, other.Start), Stop: min(s.Stop, other.Stop)}, true
}

// Shift returns the span translated by delta.
func (s Span) Shift(delta int64) Span {
	return Span{Start: s.Start + delta, Stop: s.Stop + delta}
}

// Clip returns the span limited to the range covered by bounds. The result
// is empty and positioned at the nearest bound if the two do not touch.
func (s Span) Clip(bounds Span) Span {
	start := min(max(s.Start, bounds.Start), bounds.Stop)
	stop := max(min(s.Stop, bounds.Stop), start)
	return Span{Start: start, Stop: stop}
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.Stop)
}

// Accumulator collects the union of a series of spans.
type Accumulator struct {
	span  Span
	valid bool
}

// Add a span to the union.
func (a *Accumulator) Add(s Span) {
	if a.valid {
		a.span = a.span.Union(s)
	} else {
		a.span = s
		a.valid = true
	}
}

// AddAll adds each span to the union.
func (a *Accumulator) AddAll(spans ...Span) {
	for _, s := range spans {
		a.Add(s)
	}
}

// Span returns the union collected so far. The second return value is false
// if nothing has been added.
func (a *Accumulator) Span() (Span, bool) {
	return a.span, a.valid
}

// Valid returns true if at least one span has been added.
func (a *Accumulator) Valid() bool {
	return a.valid
}

// Reset the accumulator to its empty state.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}
