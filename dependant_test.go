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

func TestDependantsFollowStructuralEdits(t *testing.T) {
	m := newManager(t)
	audio := newTrail(t, trail.Named("audio"), trail.UndoTo(m))
	markers := newTrail(t, trail.Named("markers"))
	require.NoError(t, audio.AddDependant(markers))
	assert.Equal(t, []*trail.Trail{markers}, audio.Dependants())

	withRegions(t, audio, sp(0, 1000))
	require.NoError(t, markers.AddAll(nil, []trail.Stake{trail.NewMarker(200, "a"), trail.NewMarker(800, "b")}, nil))

	require.NoError(t, audio.Insert("src", sp(500, 600), trail.TouchSplit, nil))
	assert.Equal(t, []span.Span{span.At(200), span.At(900)}, spansOf(markers.GetAll(true, nil)))

	require.NoError(t, audio.Remove("src", sp(100, 300), trail.TouchSplit, nil))
	assert.Equal(t, []span.Span{span.At(700)}, spansOf(markers.GetAll(true, nil)))

	require.NoError(t, m.Undo())
	assert.Equal(t, []span.Span{span.At(200), span.At(900)}, spansOf(markers.GetAll(true, nil)))
	require.NoError(t, m.Undo())
	assert.Equal(t, []span.Span{span.At(200), span.At(800)}, spansOf(markers.GetAll(true, nil)))

	assert.True(t, audio.RemoveDependant(markers))
	assert.False(t, audio.RemoveDependant(markers))
	require.NoError(t, audio.Insert("src", sp(0, 100), trail.TouchSplit, nil))
	assert.Equal(t, []span.Span{span.At(200), span.At(800)}, spansOf(markers.GetAll(true, nil)))
}

func TestDependantsShareTransaction(t *testing.T) {
	audio := newTrail(t)
	markers := newTrail(t)
	require.NoError(t, audio.AddDependant(markers))
	withRegions(t, audio, sp(0, 1000))
	require.NoError(t, markers.AddAll(nil, []trail.Stake{trail.NewMarker(600, "m")}, nil))
	rec := &recorder{}
	markers.AddListener(rec)

	txn := trail.NewTransaction("Shift")
	require.NoError(t, audio.EditBegin(txn))
	assert.Same(t, txn, markers.Transaction())
	require.NoError(t, audio.Insert("src", sp(0, 100), trail.TouchSplit, txn))
	assert.Equal(t, []span.Span{span.At(600)}, spansOf(markers.GetAll(true, nil)))
	assert.Equal(t, []span.Span{span.At(700)}, spansOf(markers.GetAll(true, txn)))
	assert.ErrorIs(t, markers.EditEnd(txn), trail.ErrTransactionMismatch)
	assert.ErrorIs(t, markers.Insert("src", sp(0, 1), trail.TouchNone, nil), trail.ErrTransactionPending)
	require.NoError(t, audio.EditEnd(txn))

	assert.Nil(t, markers.Transaction())
	assert.Equal(t, []span.Span{span.At(700)}, spansOf(markers.GetAll(true, nil)))
	require.Len(t, rec.events, 1)
	assert.Same(t, markers, rec.events[0].trail)
}

func TestDependantRegistrationRules(t *testing.T) {
	a := newTrail(t)
	b := newTrail(t)
	c := newTrail(t)
	assert.ErrorIs(t, a.AddDependant(a), trail.ErrSelfDependant)
	assert.Error(t, a.AddDependant(nil))
	require.NoError(t, a.AddDependant(b))
	require.NoError(t, a.AddDependant(b))
	assert.Len(t, a.Dependants(), 1)
	require.NoError(t, b.AddDependant(c))
	assert.ErrorIs(t, c.AddDependant(a), trail.ErrCyclicDependant)
	assert.ErrorIs(t, b.AddDependant(a), trail.ErrCyclicDependant)

	txn := trail.NewTransaction("busy")
	require.NoError(t, c.EditBegin(txn))
	assert.ErrorIs(t, a.EditBegin(trail.NewTransaction("outer")), trail.ErrTransactionActive)
	assert.ErrorIs(t, c.AddDependant(newTrail(t)), trail.ErrTransactionPending)
	require.NoError(t, c.EditEnd(txn))
}

func TestSharedDependantEditedOnce(t *testing.T) {
	root := newTrail(t)
	left := newTrail(t)
	right := newTrail(t)
	shared := newTrail(t)
	require.NoError(t, root.AddDependant(left))
	require.NoError(t, root.AddDependant(right))
	require.NoError(t, left.AddDependant(shared))
	require.NoError(t, right.AddDependant(shared))
	withRegions(t, root, sp(0, 100))
	require.NoError(t, shared.AddAll(nil, []trail.Stake{trail.NewMarker(50, "m")}, nil))
	require.NoError(t, root.Insert("src", sp(0, 10), trail.TouchNone, nil))
	assert.Equal(t, []span.Span{span.At(60)}, spansOf(shared.GetAll(true, nil)))
}

func TestBulkHooksReachDependants(t *testing.T) {
	type call struct {
		trail    *trail.Trail
		source   any
		count    int
		modified span.Span
	}
	var calls []call
	hook := func(tr *trail.Trail, source any, stakes []trail.Stake, modified span.Span, _ *trail.Transaction) {
		calls = append(calls, call{trail: tr, source: source, count: len(stakes), modified: modified})
	}
	parent := newTrail(t)
	child := newTrail(t, trail.OnBulkAdd(hook), trail.OnBulkRemove(hook))
	grandchild := newTrail(t, trail.OnBulkAdd(hook))
	require.NoError(t, parent.AddDependant(child))
	require.NoError(t, child.AddDependant(grandchild))

	stakes := withRegions(t, parent, sp(0, 100), sp(200, 300))
	require.Len(t, calls, 2)
	assert.Equal(t, call{trail: child, count: 2, modified: sp(0, 300)}, calls[0])
	assert.Same(t, grandchild, calls[1].trail)
	assert.True(t, child.IsEmpty(nil))

	require.NoError(t, parent.RemoveAll("src", stakes[:1], nil))
	require.Len(t, calls, 3)
	assert.Equal(t, call{trail: child, source: "src", count: 1, modified: sp(0, 100)}, calls[2])
}

func TestDisposeFreesDependantsFirst(t *testing.T) {
	var disposed []string
	parent := newTrail(t)
	child := newTrail(t)
	require.NoError(t, parent.AddDependant(child))
	require.NoError(t, parent.AddAll(nil, []trail.Stake{&trackedStake{name: "parent", span: sp(0, 10), log: &disposed}}, nil))
	require.NoError(t, child.AddAll(nil, []trail.Stake{&trackedStake{name: "child", span: sp(0, 10), log: &disposed}}, nil))
	parent.Dispose()
	assert.Equal(t, []string{"child", "parent"}, disposed)
	assert.Empty(t, parent.Dependants())
}

func TestParentEditsWaitForDependantTransaction(t *testing.T) {
	parent := newTrail(t)
	child := newTrail(t)
	require.NoError(t, parent.AddDependant(child))
	withRegions(t, parent, sp(0, 1000))
	withRegions(t, child, sp(0, 1000))

	txn := trail.NewTransaction("child")
	require.NoError(t, child.EditBegin(txn))
	assert.ErrorIs(t, parent.Remove("src", sp(200, 400), trail.TouchSplit, nil), trail.ErrTransactionPending)
	assert.ErrorIs(t, parent.Clear("src", sp(0, 100), trail.TouchNone, nil), trail.ErrTransactionPending)
	assert.ErrorIs(t, parent.AddAll(nil, []trail.Stake{trail.NewMarker(50, "m")}, nil), trail.ErrTransactionPending)
	assert.ErrorIs(t, parent.RemoveAll(nil, parent.GetAll(true, nil), nil), trail.ErrTransactionPending)
	require.NoError(t, child.EditAbort(txn))

	assert.Equal(t, []span.Span{sp(0, 1000)}, spansOf(parent.GetAll(true, nil)))
	assert.Equal(t, []span.Span{sp(0, 1000)}, spansOf(child.GetAll(true, nil)))

	require.NoError(t, parent.Remove("src", sp(200, 400), trail.TouchSplit, nil))
	assert.Equal(t, []span.Span{sp(0, 200), sp(200, 800)}, spansOf(parent.GetAll(true, nil)))
	assert.Equal(t, []span.Span{sp(0, 200), sp(200, 800)}, spansOf(child.GetAll(true, nil)))
}
