// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package trail

import (
	"cmp"
	"slices"
	"sort"

	"github.com/richardwilkes/trail/span"
)

// index holds the stakes of a trail in two orderings: by start and by stop.
// Ties keep insertion order.
type index struct {
	byStart []Stake
	byStop  []Stake
}

func newIndex() *index {
	return &index{}
}

func (ix *index) clone() *index {
	return &index{
		byStart: slices.Clone(ix.byStart),
		byStop:  slices.Clone(ix.byStop),
	}
}

func (ix *index) len() int {
	return len(ix.byStart)
}

func (ix *index) list(byStart bool) []Stake {
	if byStart {
		return ix.byStart
	}
	return ix.byStop
}

func startOf(s span.Span) int64 { return s.Start }

func stopOf(s span.Span) int64 { return s.Stop }

func keyOf(byStart bool) func(span.Span) int64 {
	if byStart {
		return startOf
	}
	return stopOf
}

func (ix *index) add(st Stake) {
	sp := st.Span()
	i := sort.Search(len(ix.byStart), func(i int) bool { return ix.byStart[i].Span().Start > sp.Start })
	ix.byStart = slices.Insert(ix.byStart, i, st)
	i = sort.Search(len(ix.byStop), func(i int) bool { return ix.byStop[i].Span().Stop > sp.Stop })
	ix.byStop = slices.Insert(ix.byStop, i, st)
}

func (ix *index) remove(st Stake) bool {
	i := ix.find(st, true)
	if i < 0 {
		return false
	}
	j := ix.find(st, false)
	ix.byStart = slices.Delete(ix.byStart, i, i+1)
	ix.byStop = slices.Delete(ix.byStop, j, j+1)
	return true
}

func (ix *index) contains(st Stake) bool {
	return ix.find(st, true) >= 0
}

// find returns the position of the stake in the requested ordering, or -1.
func (ix *index) find(st Stake, byStart bool) int {
	list := ix.list(byStart)
	key := keyOf(byStart)
	want := key(st.Span())
	i := sort.Search(len(list), func(i int) bool { return key(list[i].Span()) >= want })
	for ; i < len(list) && key(list[i].Span()) == want; i++ {
		if list[i] == st {
			return i
		}
	}
	return -1
}

// total returns the span from the earliest start to the latest stop. An empty
// index reports [0,0).
func (ix *index) total() span.Span {
	if len(ix.byStart) == 0 {
		return span.Span{}
	}
	return span.Span{Start: ix.byStart[0].Span().Start, Stop: ix.byStop[len(ix.byStop)-1].Span().Stop}
}

// rangeQuery returns every stake that touches s, that is, whose stop is at or
// after s.Start and whose start is at or before s.Stop. Stakes ending exactly
// at s.Start and stakes beginning exactly at s.Stop are included. The result
// is ordered by start if byStart is true, otherwise by stop, and is owned by
// the caller.
func (ix *index) rangeQuery(s span.Span, byStart bool) []Stake {
	if byStart {
		i := sort.Search(len(ix.byStop), func(i int) bool { return ix.byStop[i].Span().Stop >= s.Start })
		candidates := slices.Clone(ix.byStop[i:])
		slices.SortStableFunc(candidates, func(a, b Stake) int { return cmp.Compare(a.Span().Start, b.Span().Start) })
		n := sort.Search(len(candidates), func(i int) bool { return candidates[i].Span().Start > s.Stop })
		return candidates[:n]
	}
	i := sort.Search(len(ix.byStart), func(i int) bool { return ix.byStart[i].Span().Start > s.Stop })
	candidates := slices.Clone(ix.byStart[:i])
	slices.SortStableFunc(candidates, func(a, b Stake) int { return cmp.Compare(a.Span().Stop, b.Span().Stop) })
	n := sort.Search(len(candidates), func(i int) bool { return candidates[i].Span().Stop >= s.Start })
	return candidates[n:]
}

// stakes returns every stake held, in start order, without duplicates.
func (ix *index) stakes() []Stake {
	return slices.Clone(ix.byStart)
}
