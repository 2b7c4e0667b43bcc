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
	"weak"

	"github.com/richardwilkes/trail/span"
)

// Stake is a record stored in a trail. Its span never changes; the transform
// methods return new stakes and leave the receiver untouched. A stake that is
// replaced by a transform is no longer needed by the caller and must be
// disposed. Implementations must be pointer types, since trails identify
// stakes by identity.
type Stake interface {
	// Span returns the time span covered by the stake.
	Span() span.Span
	// Duplicate returns an independent copy covering the same span.
	Duplicate() Stake
	// ReplaceStart returns a new stake starting at start with the same stop.
	ReplaceStart(start int64) Stake
	// ReplaceStop returns a new stake stopping at stop with the same start.
	ReplaceStop(stop int64) Stake
	// Shift returns a new stake translated by delta.
	Shift(delta int64) Stake
	// Dispose releases any resources held by the stake. May be called more
	// than once.
	Dispose()
}

// Owned is implemented by stakes that track the trail currently holding them.
type Owned interface {
	Owner() *Trail
	SetOwner(t *Trail)
}

// Ownership provides a non-owning back-reference from a stake to the trail
// that holds it. Embed it in a stake implementation to satisfy Owned.
type Ownership struct {
	owner weak.Pointer[Trail]
}

// Owner returns the trail holding the stake, or nil.
func (o *Ownership) Owner() *Trail {
	return o.owner.Value()
}

// SetOwner records the trail holding the stake. Pass nil to clear it.
func (o *Ownership) SetOwner(t *Trail) {
	if t == nil {
		o.owner = weak.Pointer[Trail]{}
	} else {
		o.owner = weak.Make(t)
	}
}

// derive returns a new stake covering [start, stop) in the original stake's
// coordinates, translated by delta. Intermediate stakes are disposed.
func derive(st Stake, start, stop, delta int64) Stake {
	sp := st.Span()
	cur := st
	replace := func(next Stake) {
		if cur != st {
			cur.Dispose()
		}
		cur = next
	}
	if start != sp.Start {
		replace(cur.ReplaceStart(start))
	}
	if stop != sp.Stop {
		replace(cur.ReplaceStop(stop))
	}
	if delta != 0 {
		replace(cur.Shift(delta))
	}
	if cur == st {
		cur = st.Duplicate()
	}
	return cur
}

// spanOf returns the union of the spans of the stakes.
func spanOf(stakes []Stake) (span.Span, bool) {
	var acc span.Accumulator
	for _, st := range stakes {
		acc.Add(st.Span())
	}
	return acc.Span()
}
