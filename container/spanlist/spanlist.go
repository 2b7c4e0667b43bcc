// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

// Package spanlist provides a sorted list of merged, non-overlapping spans.
package spanlist

import "github.com/richardwilkes/trail/span"

// SpanList holds a sorted list of non-overlapping, non-abutting spans.
type SpanList struct {
	Spans []span.Span
}

// Insert a span into the list, merging it with any spans it overlaps or abuts.
// Returns true if the span overlapped an existing span within the list. Empty
// spans are ignored.
func (sl *SpanList) Insert(s span.Span) bool {
	if s.IsEmpty() {
		return false
	}
	for i, one := range sl.Spans {
		// Before
		if s.Stop < one.Start {
			sl.Spans = append(sl.Spans, span.Span{})
			copy(sl.Spans[i+1:], sl.Spans[i:])
			sl.Spans[i] = s
			return false
		}
		// Overlap or abut
		if s.Start <= one.Stop {
			hadOverlap := s.Overlaps(one)
			sl.Spans[i] = one.Union(s)
			j := i + 1
			for j < len(sl.Spans) && sl.Spans[j].Start <= sl.Spans[i].Stop {
				hadOverlap = hadOverlap || s.Overlaps(sl.Spans[j])
				sl.Spans[i] = sl.Spans[i].Union(sl.Spans[j])
				j++
			}
			sl.Spans = append(sl.Spans[:i+1], sl.Spans[j:]...)
			return hadOverlap
		}
	}
	sl.Spans = append(sl.Spans, s)
	return false
}

// Covers returns true if the list completely covers the span.
func (sl *SpanList) Covers(s span.Span) bool {
	for _, one := range sl.Spans {
		if one.Start <= s.Start && one.Stop >= s.Stop {
			return true
		}
		if one.Start > s.Start {
			break
		}
	}
	return false
}

// Gaps returns the portions of within that are not covered by the list.
func (sl *SpanList) Gaps(within span.Span) []span.Span {
	var gaps []span.Span
	pos := within.Start
	for _, one := range sl.Spans {
		if one.Stop <= pos {
			continue
		}
		if one.Start >= within.Stop {
			break
		}
		if one.Start > pos {
			gaps = append(gaps, span.Span{Start: pos, Stop: one.Start})
		}
		pos = one.Stop
	}
	if pos < within.Stop {
		gaps = append(gaps, span.Span{Start: pos, Stop: within.Stop})
	}
	return gaps
}

// Total returns the number of frames covered by the list.
func (sl *SpanList) Total() int64 {
	var total int64
	for _, one := range sl.Spans {
		total += one.Length()
	}
	return total
}
