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

func TestTransactionIsolatesChanges(t *testing.T) {
	m := newManager(t)
	tr := newTrail(t, trail.UndoTo(m))
	withRegions(t, tr, sp(0, 1000))
	rec := &recorder{}
	tr.AddListener(rec)

	txn := trail.NewTransaction("Trim")
	require.NoError(t, tr.EditBegin(txn))
	assert.Same(t, txn, tr.Transaction())
	require.NoError(t, tr.Insert("src", sp(500, 600), trail.TouchSplit, txn))
	require.NoError(t, tr.Remove("src", sp(0, 100), trail.TouchSplit, txn))

	assert.Equal(t, []span.Span{sp(0, 1000)}, spansOf(tr.GetAll(true, nil)))
	assert.Equal(t, []span.Span{sp(0, 400), sp(500, 1000)}, spansOf(tr.GetAll(true, txn)))
	assert.True(t, tr.Status().Modified)
	assert.Empty(t, rec.events)

	require.NoError(t, tr.EditEnd(txn))
	assert.True(t, txn.Closed())
	assert.Nil(t, tr.Transaction())
	assert.Equal(t, []span.Span{sp(0, 400), sp(500, 1000)}, spansOf(tr.GetAll(true, nil)))
	require.Len(t, rec.events, 1)
	assert.Equal(t, "src", rec.events[0].source)
	assert.Equal(t, sp(0, 1100), rec.events[0].span)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, "Trim", m.UndoPresentationName())

	require.NoError(t, m.Undo())
	assert.Equal(t, []span.Span{sp(0, 1000)}, spansOf(tr.GetAll(true, nil)))
	assert.Len(t, rec.events, 2)
	require.NoError(t, m.Redo())
	assert.Equal(t, []span.Span{sp(0, 400), sp(500, 1000)}, spansOf(tr.GetAll(true, nil)))
}

func TestTransactionReadsLiveUntilMutated(t *testing.T) {
	tr := newTrail(t)
	withRegions(t, tr, sp(0, 100))
	txn := trail.NewTransaction("")
	assert.Equal(t, "Edit", txn.Name())
	require.NoError(t, tr.EditBegin(txn))
	assert.Equal(t, spansOf(tr.GetAll(true, nil)), spansOf(tr.GetAll(true, txn)))
	assert.False(t, tr.Status().Modified)
	require.NoError(t, tr.EditEnd(txn))
	assert.Equal(t, []span.Span{sp(0, 100)}, spansOf(tr.GetAll(true, nil)))
}

func TestTransactionMisuse(t *testing.T) {
	tr := newTrail(t)
	withRegions(t, tr, sp(0, 100))
	txn := trail.NewTransaction("one")
	other := trail.NewTransaction("two")

	assert.ErrorIs(t, tr.EditEnd(txn), trail.ErrNoTransaction)
	assert.ErrorIs(t, tr.EditAbort(txn), trail.ErrNoTransaction)
	assert.ErrorIs(t, tr.Insert("src", sp(0, 10), trail.TouchSplit, txn), trail.ErrNoTransaction)
	assert.ErrorIs(t, tr.EditBegin(nil), trail.ErrNoTransaction)

	require.NoError(t, tr.EditBegin(txn))
	assert.ErrorIs(t, tr.EditBegin(other), trail.ErrTransactionActive)
	assert.ErrorIs(t, tr.EditBegin(txn), trail.ErrTransactionActive)
	assert.ErrorIs(t, tr.Insert("src", sp(0, 10), trail.TouchSplit, nil), trail.ErrTransactionPending)
	assert.ErrorIs(t, tr.AddAll("src", nil, nil), trail.ErrTransactionPending)
	assert.ErrorIs(t, tr.Clear("src", sp(0, 10), trail.TouchSplit, other), trail.ErrTransactionMismatch)
	assert.ErrorIs(t, tr.EditEnd(other), trail.ErrTransactionMismatch)
	assert.PanicsWithError(t, trail.ErrTransactionMismatch.Error(), func() { tr.GetAll(true, other) })
	_, err := tr.CutRange(sp(0, 100), trail.TouchSplit, 0, true, other)
	assert.ErrorIs(t, err, trail.ErrTransactionMismatch)
	require.NoError(t, tr.EditEnd(txn))

	assert.PanicsWithError(t, trail.ErrNoTransaction.Error(), func() { tr.NumStakes(txn) })
	assert.ErrorIs(t, tr.Insert("src", sp(0, 10), trail.TouchSplit, txn), trail.ErrTransactionClosed)
	assert.ErrorIs(t, tr.EditBegin(txn), trail.ErrTransactionClosed)
}

func TestEditAbortDiscardsChanges(t *testing.T) {
	m := newManager(t)
	var disposed []string
	tr := newTrail(t, trail.UndoTo(m))
	kept := &trackedStake{name: "kept", span: sp(0, 100), log: &disposed}
	require.NoError(t, tr.AddAll(nil, []trail.Stake{kept}, nil))
	rec := &recorder{}
	tr.AddListener(rec)

	txn := trail.NewTransaction("Abandon")
	require.NoError(t, tr.EditBegin(txn))
	added := &trackedStake{name: "added", span: sp(200, 300), log: &disposed}
	require.NoError(t, tr.AddAll("src", []trail.Stake{added}, txn))
	require.NoError(t, tr.RemoveAll("src", []trail.Stake{kept}, txn))
	assert.Equal(t, []span.Span{sp(200, 300)}, spansOf(tr.GetAll(true, txn)))
	require.NoError(t, tr.EditAbort(txn))

	assert.Nil(t, tr.Transaction())
	assert.True(t, txn.Closed())
	assert.Equal(t, []span.Span{sp(0, 100)}, spansOf(tr.GetAll(true, nil)))
	assert.True(t, tr.Contains(kept, nil))
	assert.Equal(t, []string{"added"}, disposed)
	assert.Empty(t, rec.events)
	assert.Equal(t, 1, m.Len())
	require.NoError(t, tr.Insert("src", sp(0, 10), trail.TouchSplit, nil))
}

func TestEmptyTransactionLeavesNoHistory(t *testing.T) {
	m := newManager(t)
	tr := newTrail(t, trail.UndoTo(m))
	txn := trail.NewTransaction("Nothing")
	require.NoError(t, tr.EditBegin(txn))
	require.NoError(t, tr.EditEnd(txn))
	assert.Zero(t, m.Len())
}

func TestUndoWaitsForOpenTransaction(t *testing.T) {
	m := newManager(t)
	tr := newTrail(t, trail.UndoTo(m))
	withRegions(t, tr, sp(0, 1000))
	require.NoError(t, tr.Remove("src", sp(200, 400), trail.TouchSplit, nil))

	txn := trail.NewTransaction("Clear")
	require.NoError(t, tr.EditBegin(txn))
	require.NoError(t, tr.Clear("src", sp(0, 100), trail.TouchSplit, txn))
	assert.ErrorIs(t, m.Undo(), trail.ErrTransactionPending)
	require.NoError(t, tr.EditAbort(txn))

	assert.Equal(t, []span.Span{sp(0, 200), sp(200, 800)}, spansOf(tr.GetAll(true, nil)))
	assert.False(t, m.CanRedo())
	require.NoError(t, m.Undo())
	assert.Equal(t, []span.Span{sp(0, 1000)}, spansOf(tr.GetAll(true, nil)))

	txn = trail.NewTransaction("Idle")
	require.NoError(t, tr.EditBegin(txn))
	assert.ErrorIs(t, m.Redo(), trail.ErrTransactionPending)
	require.NoError(t, tr.EditEnd(txn))
	require.NoError(t, m.Redo())
	assert.Equal(t, []span.Span{sp(0, 200), sp(200, 800)}, spansOf(tr.GetAll(true, nil)))
}

func TestUndoWaitsForDependantTransaction(t *testing.T) {
	m := newManager(t)
	parent := newTrail(t, trail.UndoTo(m))
	child := newTrail(t)
	require.NoError(t, parent.AddDependant(child))
	withRegions(t, parent, sp(0, 1000))
	require.NoError(t, parent.Insert("src", sp(0, 100), trail.TouchSplit, nil))

	txn := trail.NewTransaction("child")
	require.NoError(t, child.EditBegin(txn))
	assert.ErrorIs(t, m.Undo(), trail.ErrTransactionPending)
	require.NoError(t, child.EditEnd(txn))
	require.NoError(t, m.Undo())
	assert.Equal(t, []span.Span{sp(0, 1000)}, spansOf(parent.GetAll(true, nil)))
}
