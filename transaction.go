// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package trail

import "github.com/richardwilkes/trail/span"

// Transaction is a token identifying a pending set of changes to a trail and
// its dependants. Mutations made with the token go to a private copy of each
// trail and become visible to readers without the token only once the owner
// ends the transaction. A token may be used for a single transaction.
type Transaction struct {
	owner  *Trail
	batch  *batch
	name   string
	closed bool
}

// NewTransaction creates a new transaction token. The name is used as the
// presentation name of the resulting undoable edit.
func NewTransaction(name string) *Transaction {
	if name == "" {
		name = "Edit"
	}
	return &Transaction{name: name}
}

// Name returns the name of the transaction.
func (txn *Transaction) Name() string {
	return txn.name
}

// Owner returns the trail the transaction was begun on, or nil.
func (txn *Transaction) Owner() *Trail {
	return txn.owner
}

// Closed returns true once the transaction has been ended or aborted.
func (txn *Transaction) Closed() bool {
	return txn.closed
}

// EditBegin starts a transaction on the trail and, recursively, on its
// dependants.
func (t *Trail) EditBegin(txn *Transaction) error {
	if txn == nil {
		return ErrNoTransaction
	}
	if t.busy() {
		return ErrTransactionActive
	}
	if txn.closed || txn.owner != nil {
		return ErrTransactionClosed
	}
	txn.owner = t
	txn.batch = newBatch(txn.name, t, txn)
	t.begin(txn)
	t.logger.Debug("transaction begun", "name", txn.name)
	return nil
}

// busy returns true if the trail or any of its dependants has an active
// transaction.
func (t *Trail) busy() bool {
	if t.txn != nil {
		return true
	}
	for _, dep := range t.Dependants() {
		if dep.busy() {
			return true
		}
	}
	return false
}

func (t *Trail) begin(txn *Transaction) {
	t.txn = txn
	t.shadow = nil
	t.pending.Reset()
	t.pendingSource = nil
	for _, dep := range t.Dependants() {
		dep.begin(txn)
	}
}

// checkEnd verifies that txn may be ended or aborted on this trail.
func (t *Trail) checkEnd(txn *Transaction) error {
	if t.txn == nil {
		return ErrNoTransaction
	}
	if txn != t.txn || txn.owner != t {
		return ErrTransactionMismatch
	}
	return nil
}

// EditEnd commits the transaction: every trail's private copy becomes its
// committed state, and each trail modified with a non-nil source sends one
// notification covering everything the transaction changed in it. The
// resulting edit goes to the undo sink, if any.
func (t *Trail) EditEnd(txn *Transaction) error {
	if err := t.checkEnd(txn); err != nil {
		return err
	}
	b := txn.batch
	b.begin()
	t.end(b)
	b.end()
	txn.closed = true
	t.logger.Debug("transaction ended", "name", txn.name, "edits", b.Len())
	t.commit(b)
	return nil
}

func (t *Trail) end(b *batch) {
	if t.shadow != nil {
		t.live = t.shadow
		t.shadow = nil
	}
	t.txn = nil
	if s, ok := t.pending.Span(); ok && t.pendingSource != nil {
		b.use(t.dispatcher)
		b.AddPerform(newTrailEdit(t, EditDispatch, t.pendingSource, nil, s))
	}
	t.pending.Reset()
	t.pendingSource = nil
	for _, dep := range t.Dependants() {
		dep.end(b)
	}
}

// EditAbort discards the transaction, reverting every change made with it.
// No notifications are sent and nothing reaches the undo sink.
func (t *Trail) EditAbort(txn *Transaction) error {
	if err := t.checkEnd(txn); err != nil {
		return err
	}
	b := txn.batch
	if err := b.Revert(); err != nil {
		t.logger.Error("transaction revert failed", "name", txn.name, "error", err)
	}
	b.End()
	b.Die()
	t.abort()
	txn.closed = true
	t.logger.Debug("transaction aborted", "name", txn.name)
	return nil
}

func (t *Trail) abort() {
	t.txn = nil
	t.shadow = nil
	t.pending.Reset()
	t.pendingSource = nil
	for _, dep := range t.Dependants() {
		dep.abort()
	}
}

// checkMutation verifies that a mutation with txn is allowed. Without a
// transaction, the trail and all of its dependants must be idle, since the
// change would otherwise land in a dependant's private copy.
func (t *Trail) checkMutation(txn *Transaction) error {
	switch {
	case txn == nil && t.busy():
		return ErrTransactionPending
	case txn != nil && t.txn == nil:
		if txn.closed {
			return ErrTransactionClosed
		}
		return ErrNoTransaction
	case txn != t.txn:
		return ErrTransactionMismatch
	}
	return nil
}

// sink returns the batch that collects the edits of an operation: the
// transaction's for a transactional operation, otherwise a new batch with
// notifications held back until commit.
func (t *Trail) sink(op string, source any, txn *Transaction) *batch {
	if txn != nil {
		return txn.batch
	}
	b := newBatch(op, t, source)
	b.use(t.dispatcher)
	b.begin()
	return b
}

// finish completes the batch of a non-transactional operation.
func (t *Trail) finish(b *batch, txn *Transaction) {
	if txn != nil {
		return
	}
	b.end()
	t.commit(b)
}

// commit hands an ended batch to the undo sink, or kills it if there is no
// sink or nothing changed.
func (t *Trail) commit(b *batch) {
	b.End()
	if b.IsEmpty() || t.undoSink == nil || !t.undoSink.AddEdit(b) {
		b.Die()
	}
}

// modified records a change to the span from source. Outside a transaction a
// dispatch edit is added to the batch; inside one the span accumulates until
// the transaction ends.
func (t *Trail) modified(source any, s span.Span, txn *Transaction, b *batch) {
	if source == nil {
		return
	}
	if txn != nil {
		t.pending.Add(s)
		if t.pendingSource == nil {
			t.pendingSource = source
		}
		return
	}
	b.use(t.dispatcher)
	b.AddPerform(newTrailEdit(t, EditDispatch, source, nil, s))
}
