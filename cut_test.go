// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package trail_test

import (
	"testing"

	"github.com/richardwilkes/trail"
	"github.com/richardwilkes/trail/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCutRange(t *testing.T) {
	for _, tc := range []struct {
		mode trail.TouchMode
		want []span.Span
	}{
		{trail.TouchNone, []span.Span{span.At(1100), sp(1150, 1300)}},
		{trail.TouchSplit, []span.Span{sp(1000, 1050), span.At(1100), sp(1150, 1200)}},
		{trail.TouchResize, []span.Span{span.At(1100), sp(1150, 1200)}},
	} {
		t.Run(tc.mode.String(), func(t *testing.T) {
			tr := newTrail(t)
			withRegions(t, tr, sp(0, 150), sp(250, 400), sp(450, 600))
			require.NoError(t, tr.AddAll(nil, []trail.Stake{trail.NewMarker(200, "m")}, nil))
			cut, err := tr.CutRange(sp(100, 300), tc.mode, 900, true, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, spansOf(cut))
			assert.Equal(t, []span.Span{sp(0, 150), span.At(200), sp(250, 400), sp(450, 600)}, spansOf(tr.GetAll(true, nil)))
		})
	}
}

func TestCutTrail(t *testing.T) {
	tr := newTrail(t, trail.Named("voice"))
	original := withRegions(t, tr, sp(0, 500), sp(500, 1000))
	txn := trail.NewTransaction("cut")
	require.NoError(t, tr.EditBegin(txn))
	require.NoError(t, tr.Remove("src", sp(0, 100), trail.TouchSplit, txn))
	cut, err := tr.CutTrail(sp(300, 700), trail.TouchSplit, -300, txn)
	require.NoError(t, err)
	require.NoError(t, tr.EditEnd(txn))

	assert.Equal(t, "voice cut", cut.Name())
	assert.Equal(t, tr.SampleRate(), cut.SampleRate())
	assert.Equal(t, []span.Span{sp(0, 100), sp(100, 400)}, spansOf(cut.GetAll(true, nil)))
	for _, st := range cut.GetAll(true, nil) {
		assert.NotContains(t, original, st)
		r, ok := st.(*trail.Region)
		require.True(t, ok)
		assert.Same(t, cut, r.Owner())
	}
}
