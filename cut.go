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
	"github.com/richardwilkes/trail/span"
)

// CutRange returns new stakes derived from those touching s, translated by
// shift, ordered by start if byStart is true and by stop otherwise. The trail
// is not modified and the caller owns the result. With TouchNone, stakes
// starting within s are copied whole. With TouchSplit, stakes are clipped to
// s. With TouchResize, stakes starting within s are copied with their stop
// clipped to s.Stop.
func (t *Trail) CutRange(s span.Span, mode TouchMode, shift int64, byStart bool, txn *Transaction) ([]Stake, error) {
	if !mode.IsValid() {
		return nil, ErrInvalidTouchMode
	}
	ix, err := t.view(txn)
	if err != nil {
		return nil, err
	}
	var result []Stake
	for _, st := range ix.rangeQuery(s, byStart) {
		sp := st.Span()
		startsInside := sp.Start >= s.Start && sp.Start < s.Stop
		switch mode {
		case TouchNone:
			if startsInside {
				result = append(result, derive(st, sp.Start, sp.Stop, shift))
			}
		case TouchSplit:
			if sp.IsEmpty() {
				if startsInside {
					result = append(result, derive(st, sp.Start, sp.Stop, shift))
				}
			} else if clipped := sp.Clip(s); !clipped.IsEmpty() {
				result = append(result, derive(st, clipped.Start, clipped.Stop, shift))
			}
		case TouchResize:
			if startsInside {
				result = append(result, derive(st, sp.Start, min(sp.Stop, s.Stop), shift))
			}
		}
	}
	return result, nil
}

// CutTrail returns a new, independent trail at the same sample rate holding
// the stakes CutRange would produce.
func (t *Trail) CutTrail(s span.Span, mode TouchMode, shift int64, txn *Transaction) (*Trail, error) {
	stakes, err := t.CutRange(s, mode, shift, true, txn)
	if err != nil {
		return nil, err
	}
	cut, err := New(t.sampleRate, Named(t.name+" cut"))
	if err != nil {
		for _, st := range stakes {
			t.disposeStake(st)
		}
		return nil, err
	}
	cut.addRaw(stakes)
	return cut, nil
}
