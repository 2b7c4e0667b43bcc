// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

// Package trail provides a container of time-spanned stakes kept in two
// orderings, with touch-mode structural edits, copy-on-write transactions,
// dependant propagation, undoable edits and coalesced change notification.
package trail

import (
	"log/slog"
	"sync"

	"github.com/richardwilkes/toolbox/errs"
	"github.com/richardwilkes/trail/container/spanlist"
	"github.com/richardwilkes/trail/dispatcher"
	"github.com/richardwilkes/trail/span"
)

// Trail holds stakes along a timeline measured in frames. Trails are not safe
// for concurrent mutation; only the dependant set is guarded.
type Trail struct {
	logger        *slog.Logger
	dispatcher    *dispatcher.Dispatcher
	undoSink      UndoSink
	filler        func(span.Span) Stake
	onBulkAdd     BulkHook
	onBulkRemove  BulkHook
	live          *index
	shadow        *index // non-nil once the active transaction has mutated the trail
	txn           *Transaction
	pendingSource any
	listeners     map[Listener]*listenerAdapter
	name          string
	dependants    []*Trail // protected by depLock
	pending       span.Accumulator
	sampleRate    float64
	depLock       sync.Mutex
	disposed      bool
}

// New creates a new, empty trail at the given sample rate.
func New(sampleRate float64, options ...func(*Trail) error) (*Trail, error) {
	if sampleRate <= 0 {
		return nil, errs.Newf("sample rate must be positive, got %v", sampleRate)
	}
	t := &Trail{
		sampleRate: sampleRate,
		name:       "trail",
		live:       newIndex(),
	}
	var err error
	for _, option := range options {
		if optionErr := option(t); optionErr != nil {
			err = errs.Append(err, optionErr)
		}
	}
	if err != nil {
		return nil, err
	}
	if t.logger == nil {
		t.logger = slog.New(slog.DiscardHandler)
	}
	t.logger = t.logger.With("trail", t.name)
	if t.dispatcher == nil {
		if t.dispatcher, err = dispatcher.NewDispatcher(dispatcher.LogTo(t.logger)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Name returns the name of the trail.
func (t *Trail) Name() string {
	return t.name
}

// SampleRate returns the number of frames per second.
func (t *Trail) SampleRate() float64 {
	return t.sampleRate
}

// Logger returns the logger in use.
func (t *Trail) Logger() *slog.Logger {
	return t.logger
}

// Dispatcher returns the dispatcher used for change notifications.
func (t *Trail) Dispatcher() *dispatcher.Dispatcher {
	return t.dispatcher
}

// Transaction returns the active transaction, or nil.
func (t *Trail) Transaction() *Transaction {
	return t.txn
}

// view returns the index visible to txn, or an error if txn is not usable
// for reading.
func (t *Trail) view(txn *Transaction) (*index, error) {
	if txn == nil {
		return t.live, nil
	}
	if t.txn == nil {
		return nil, ErrNoTransaction
	}
	if txn != t.txn {
		return nil, ErrTransactionMismatch
	}
	if t.shadow != nil {
		return t.shadow, nil
	}
	return t.live, nil
}

// mustView is view for queries, which treat a bad transaction as a
// programming error.
func (t *Trail) mustView(txn *Transaction) *index {
	ix, err := t.view(txn)
	if err != nil {
		panic(err)
	}
	return ix
}

// target returns the index mutations apply to, creating the transaction's
// private copy on first use.
func (t *Trail) target() *index {
	if t.txn == nil {
		return t.live
	}
	if t.shadow == nil {
		t.shadow = t.live.clone()
	}
	return t.shadow
}

// GetRange returns the stakes touching s, ordered by start if byStart is true
// and by stop otherwise. A stake ending exactly at s.Start or beginning
// exactly at s.Stop is included. Pass the active transaction to see its
// uncommitted changes; pass nil to see the committed state.
func (t *Trail) GetRange(s span.Span, byStart bool, txn *Transaction) []Stake {
	return t.mustView(txn).rangeQuery(s, byStart)
}

// GetAll returns every stake, ordered by start if byStart is true and by stop
// otherwise.
func (t *Trail) GetAll(byStart bool, txn *Transaction) []Stake {
	ix := t.mustView(txn)
	if byStart {
		return ix.stakes()
	}
	list := make([]Stake, len(ix.byStop))
	copy(list, ix.byStop)
	return list
}

// IndexOf returns the position of the stake in the requested ordering, or -1
// if the trail does not hold it.
func (t *Trail) IndexOf(st Stake, byStart bool, txn *Transaction) int {
	return t.mustView(txn).find(st, byStart)
}

// Get returns the stake at the position in the requested ordering, or nil if
// out of range.
func (t *Trail) Get(i int, byStart bool, txn *Transaction) Stake {
	list := t.mustView(txn).list(byStart)
	if i < 0 || i >= len(list) {
		return nil
	}
	return list[i]
}

// Contains returns true if the trail holds the stake.
func (t *Trail) Contains(st Stake, txn *Transaction) bool {
	return t.mustView(txn).contains(st)
}

// NumStakes returns the number of stakes held.
func (t *Trail) NumStakes(txn *Transaction) int {
	return t.mustView(txn).len()
}

// IsEmpty returns true if the trail holds no stakes.
func (t *Trail) IsEmpty(txn *Transaction) bool {
	return t.mustView(txn).len() == 0
}

// TotalSpan returns the span from the earliest start to the latest stop. An
// empty trail reports [0,0).
func (t *Trail) TotalSpan(txn *Transaction) span.Span {
	return t.mustView(txn).total()
}

// Coverage returns the merged spans covered by at least one stake.
func (t *Trail) Coverage(txn *Transaction) *spanlist.SpanList {
	var sl spanlist.SpanList
	for _, st := range t.mustView(txn).byStart {
		sl.Insert(st.Span())
	}
	return &sl
}

// Gaps returns the portions of within not covered by any stake.
func (t *Trail) Gaps(within span.Span, txn *Transaction) []span.Span {
	var sl spanlist.SpanList
	for _, st := range t.mustView(txn).rangeQuery(within, true) {
		sl.Insert(st.Span())
	}
	return sl.Gaps(within)
}

// Status returns a snapshot of the trail's state.
func (t *Trail) Status() *Status {
	ix := t.live
	if t.shadow != nil {
		ix = t.shadow
	}
	var sl spanlist.SpanList
	for _, st := range ix.byStart {
		sl.Insert(st.Span())
	}
	return &Status{
		Name:          t.name,
		Total:         ix.total(),
		SampleRate:    t.sampleRate,
		Stakes:        ix.len(),
		Covered:       sl.Total(),
		Dependants:    len(t.Dependants()),
		InTransaction: t.txn != nil,
		Modified:      t.shadow != nil,
	}
}

// Dispose disposes the dependants, then every stake held, leaving the trail
// empty. Failures while disposing individual stakes are logged and do not
// stop the remaining disposals. Calling Dispose more than once does nothing.
func (t *Trail) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	t.depLock.Lock()
	deps := t.dependants
	t.dependants = nil
	t.depLock.Unlock()
	for _, dep := range deps {
		dep.Dispose()
	}
	seen := make(map[Stake]struct{})
	for _, ix := range []*index{t.shadow, t.live} {
		if ix == nil {
			continue
		}
		for _, st := range ix.byStart {
			if _, exists := seen[st]; !exists {
				seen[st] = struct{}{}
				t.disposeStake(st)
			}
		}
	}
	t.live = newIndex()
	t.shadow = nil
	t.txn = nil
	t.pending.Reset()
	t.pendingSource = nil
	t.logger.Debug("disposed", "stakes", len(seen))
}

func (t *Trail) disposeStakes(stakes []Stake) {
	for _, st := range stakes {
		t.disposeStake(st)
	}
}

func (t *Trail) disposeStake(st Stake) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("stake disposal failed", "span", st.Span().String(), "error", errs.Newf("%v", r))
		}
	}()
	st.Dispose()
}

// addRaw adds the stakes to the target index without recording an edit.
func (t *Trail) addRaw(stakes []Stake) {
	ix := t.target()
	for _, st := range stakes {
		ix.add(st)
		if o, ok := st.(Owned); ok {
			o.SetOwner(t)
		}
	}
}

// removeRaw removes the stakes from the target index without recording an
// edit.
func (t *Trail) removeRaw(stakes []Stake) {
	ix := t.target()
	for _, st := range stakes {
		if ix.remove(st) {
			if o, ok := st.(Owned); ok && o.Owner() == t {
				o.SetOwner(nil)
			}
		}
	}
}

// post sends a change notification through the dispatcher. Nothing is sent
// for a nil source.
func (t *Trail) post(source any, s span.Span) {
	if source == nil {
		return
	}
	t.dispatcher.Post(dispatcher.Event{Origin: t, Source: source, Span: s})
}
