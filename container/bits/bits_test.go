// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package bits

import (
	"testing"

	"github.com/richardwilkes/toolbox/check"
)

func TestBits(t *testing.T) {
	bm := New(8)
	check.Equal(t, 1, len(bm.data))
	bm.Set(7)
	check.True(t, bm.IsSet(7))
	check.False(t, bm.IsSet(6))
	check.False(t, bm.IsSet(100))
	check.Equal(t, uint64(128), bm.data[0])
	bm.Set(0)
	check.Equal(t, uint64(129), bm.data[0])
	bm = New(130)
	check.Equal(t, 3, len(bm.data))
	bm.Set(130)
	bm.Set(-1)
	for _, w := range bm.data {
		check.Equal(t, uint64(0), w)
	}
	check.Equal(t, -1, bm.NextSet(0))
	bm.Set(129)
	check.Equal(t, 129, bm.NextSet(0))
	bm.Set(4)
	check.Equal(t, 4, bm.NextSet(0))
	bm.Set(70)
	check.Equal(t, 4, bm.NextSet(0))
	bm.Unset(4)
	check.Equal(t, 70, bm.NextSet(0))
	check.Equal(t, 129, bm.NextSet(71))
	check.Equal(t, 0, bm.NextUnset(0))
	check.Equal(t, 71, bm.NextUnset(70))
	check.Equal(t, -1, bm.NextUnset(129))
	check.Equal(t, 2, bm.Count())
}

func TestRuns(t *testing.T) {
	bm := New(20)
	bm.SetRange(0, 3)
	bm.SetRange(5, 10)
	check.Equal(t, 13, bm.Count())
	check.Equal(t, 3, bm.FirstUnsetRun(2))
	check.Equal(t, 15, bm.FirstUnsetRun(3))
	check.Equal(t, -1, bm.FirstUnsetRun(6))
	bm.UnsetRange(5, 10)
	check.Equal(t, 3, bm.FirstUnsetRun(6))
	bm.SetRange(0, 20)
	check.Equal(t, -1, bm.FirstUnsetRun(1))
	bm.Grow(70)
	check.Equal(t, 70, bm.Length())
	check.Equal(t, 20, bm.FirstUnsetRun(50))
	check.False(t, bm.IsSet(69))
}
