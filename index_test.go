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
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/richardwilkes/trail/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireCoherent(t *testing.T, ix *index) {
	t.Helper()
	require.Len(t, ix.byStop, len(ix.byStart))
	for i := 1; i < len(ix.byStart); i++ {
		require.LessOrEqual(t, ix.byStart[i-1].Span().Start, ix.byStart[i].Span().Start)
		require.LessOrEqual(t, ix.byStop[i-1].Span().Stop, ix.byStop[i].Span().Stop)
	}
	counts := make(map[Stake]int)
	for _, st := range ix.byStart {
		counts[st]++
	}
	for _, st := range ix.byStop {
		counts[st]--
	}
	for _, n := range counts {
		require.Zero(t, n)
	}
}

func bruteRange(ix *index, s span.Span) map[Stake]bool {
	m := make(map[Stake]bool)
	for _, st := range ix.byStart {
		sp := st.Span()
		if sp.Stop >= s.Start && sp.Start <= s.Stop {
			m[st] = true
		}
	}
	return m
}

func randomSpan(rnd *rand.Rand, limit int64) span.Span {
	start := rnd.Int64N(limit)
	return span.Span{Start: start, Stop: start + rnd.Int64N(limit/4+1)}
}

func TestIndexAddRemove(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	ix := newIndex()
	var held []Stake
	for range 500 {
		if len(held) > 0 && rnd.IntN(3) == 0 {
			i := rnd.IntN(len(held))
			require.True(t, ix.remove(held[i]))
			require.False(t, ix.contains(held[i]))
			held = slices.Delete(held, i, i+1)
		} else {
			st := NewRegion(randomSpan(rnd, 1000), "r")
			ix.add(st)
			held = append(held, st)
		}
		requireCoherent(t, ix)
	}
	assert.False(t, ix.remove(NewRegion(span.Span{Start: 1, Stop: 2}, "missing")))
}

func TestIndexTiesKeepInsertionOrder(t *testing.T) {
	ix := newIndex()
	a := NewRegion(span.Span{Start: 10, Stop: 20}, "a")
	b := NewRegion(span.Span{Start: 10, Stop: 20}, "b")
	c := NewRegion(span.Span{Start: 10, Stop: 20}, "c")
	ix.add(a)
	ix.add(b)
	ix.add(c)
	assert.Equal(t, []Stake{a, b, c}, ix.byStart)
	assert.Equal(t, []Stake{a, b, c}, ix.byStop)
	assert.Equal(t, 1, ix.find(b, true))
	assert.Equal(t, 2, ix.find(c, false))
}

func TestRangeQueryMatchesBruteForce(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 11))
	ix := newIndex()
	for range 200 {
		ix.add(NewRegion(randomSpan(rnd, 2000), "r"))
	}
	for range 20 {
		ix.add(NewMarker(rnd.Int64N(2000), "m"))
	}
	for range 300 {
		s := randomSpan(rnd, 2200)
		want := bruteRange(ix, s)
		for _, byStart := range []bool{true, false} {
			got := ix.rangeQuery(s, byStart)
			require.Len(t, got, len(want), "span %s byStart %v", s, byStart)
			for i, st := range got {
				require.True(t, want[st])
				if i > 0 {
					if byStart {
						require.LessOrEqual(t, got[i-1].Span().Start, st.Span().Start)
					} else {
						require.LessOrEqual(t, got[i-1].Span().Stop, st.Span().Stop)
					}
				}
			}
		}
	}
}

func TestIndexCloneIsIndependent(t *testing.T) {
	ix := newIndex()
	a := NewRegion(span.Span{Start: 0, Stop: 10}, "a")
	ix.add(a)
	c := ix.clone()
	c.add(NewRegion(span.Span{Start: 5, Stop: 15}, "b"))
	assert.Equal(t, 1, ix.len())
	assert.Equal(t, 2, c.len())
	assert.Equal(t, span.Span{Start: 0, Stop: 15}, c.total())
	assert.Equal(t, span.Span{}, newIndex().total())
}

func TestEditsKeepIndexCoherent(t *testing.T) {
	rnd := rand.New(rand.NewPCG(3, 5))
	tr, err := New(44100, FillWith(RegionFiller("fill")))
	require.NoError(t, err)
	require.NoError(t, tr.Insert(nil, span.Span{Start: 0, Stop: 1000}, TouchSplit, nil))
	for i := range 20 {
		require.NoError(t, tr.AddAll(nil, []Stake{NewMarker(int64(i)*50, "m")}, nil))
	}
	for range 300 {
		s := randomSpan(rnd, tr.TotalSpan(nil).Stop+10)
		mode := TouchMode(rnd.IntN(3))
		switch rnd.IntN(3) {
		case 0:
			require.NoError(t, tr.Insert("op", s, mode, nil))
		case 1:
			require.NoError(t, tr.Remove("op", s, mode, nil))
		default:
			require.NoError(t, tr.Clear("op", s, mode, nil))
		}
		requireCoherent(t, tr.live)
	}
}
