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

// operation carries the state shared by a structural edit as it propagates
// through the dependants.
type operation struct {
	source  any
	txn     *Transaction
	batch   *batch
	visited map[*Trail]struct{}
}

// visit returns false if the trail has already received the operation.
func (op *operation) visit(t *Trail) bool {
	if _, exists := op.visited[t]; exists {
		return false
	}
	op.visited[t] = struct{}{}
	return true
}

func (t *Trail) run(name string, source any, mode TouchMode, txn *Transaction, fn func(op *operation)) error {
	if !mode.IsValid() {
		return ErrInvalidTouchMode
	}
	if err := t.checkMutation(txn); err != nil {
		return err
	}
	op := &operation{
		source:  source,
		txn:     txn,
		batch:   t.sink(name, source, txn),
		visited: make(map[*Trail]struct{}),
	}
	op.visit(t)
	fn(op)
	t.finish(op.batch, txn)
	return nil
}

// propagate invokes fn on each dependant that has not yet received the
// operation.
func (t *Trail) propagate(op *operation, fn func(dep *Trail)) {
	for _, dep := range t.Dependants() {
		if op.visit(dep) {
			fn(dep)
		}
	}
}

// apply records the removal and addition of stakes as edits in the operation's
// batch and reports the modified span.
func (t *Trail) apply(op *operation, toRemove, toAdd []Stake) (span.Span, bool) {
	removed, hasRemoved := spanOf(toRemove)
	added, hasAdded := spanOf(toAdd)
	if hasRemoved {
		op.batch.AddPerform(newTrailEdit(t, EditRemove, op.source, toRemove, removed))
	}
	if hasAdded {
		op.batch.AddPerform(newTrailEdit(t, EditAdd, op.source, toAdd, added))
	}
	var s span.Span
	switch {
	case hasRemoved && hasAdded:
		s = removed.Union(added)
	case hasRemoved:
		s = removed
	case hasAdded:
		s = added
	default:
		return s, false
	}
	t.modified(op.source, s, op.txn, op.batch)
	return s, true
}

// Insert opens up the span's length of time at s.Start. Stakes at or after
// s.Start move later by that length; the mode determines what happens to
// stakes straddling s.Start. If a filler is set, a stake is created for the
// inserted time. Inserting beyond the end of the trail does nothing. The
// change propagates to every dependant.
func (t *Trail) Insert(source any, s span.Span, mode TouchMode, txn *Transaction) error {
	return t.run("Insert", source, mode, txn, func(op *operation) { t.insert(op, s, mode) })
}

func (t *Trail) insert(op *operation, s span.Span, mode TouchMode) {
	ix := t.target()
	total := ix.total()
	if !s.IsEmpty() && s.Start <= total.Stop {
		delta := s.Length()
		var toRemove, toAdd []Stake
		for _, st := range ix.rangeQuery(span.Span{Start: s.Start, Stop: total.Stop}, true) {
			sp := st.Span()
			switch {
			case sp.Start >= s.Start:
				toRemove = append(toRemove, st)
				toAdd = append(toAdd, derive(st, sp.Start, sp.Stop, delta))
			case sp.Stop <= s.Start:
			case mode == TouchSplit:
				toRemove = append(toRemove, st)
				toAdd = append(toAdd, derive(st, sp.Start, s.Start, 0), derive(st, s.Start, sp.Stop, delta))
			case mode == TouchResize:
				toRemove = append(toRemove, st)
				toAdd = append(toAdd, derive(st, sp.Start, sp.Stop+delta, 0))
			}
		}
		if t.filler != nil {
			if fill := t.filler(s); fill != nil {
				toAdd = append(toAdd, fill)
			}
		}
		t.apply(op, toRemove, toAdd)
		t.logger.Debug("insert", "span", s.String(), "mode", mode.String(), "removed", len(toRemove),
			"added", len(toAdd))
	}
	t.propagate(op, func(dep *Trail) { dep.insert(op, s, mode) })
}

// Remove deletes the span's time from the trail. Stakes starting at or after
// s.Stop move earlier by the span's length; the mode determines what happens
// to stakes overlapping the span. The change propagates to every dependant.
func (t *Trail) Remove(source any, s span.Span, mode TouchMode, txn *Transaction) error {
	return t.run("Remove", source, mode, txn, func(op *operation) { t.remove(op, s, mode) })
}

func (t *Trail) remove(op *operation, s span.Span, mode TouchMode) {
	ix := t.target()
	total := ix.total()
	if !s.IsEmpty() && ix.len() != 0 && s.Start <= total.Stop {
		delta := -s.Length()
		var toRemove, toAdd []Stake
		for _, st := range ix.rangeQuery(span.Span{Start: s.Start, Stop: total.Stop}, true) {
			sp := st.Span()
			switch {
			case sp.Start >= s.Stop:
				toRemove = append(toRemove, st)
				toAdd = append(toAdd, derive(st, sp.Start, sp.Stop, delta))
			case sp.Start >= s.Start:
				toRemove = append(toRemove, st)
				if mode != TouchNone && sp.Stop > s.Stop {
					toAdd = append(toAdd, derive(st, s.Stop, sp.Stop, delta))
				}
			case sp.Stop <= s.Start:
			case mode == TouchSplit:
				toRemove = append(toRemove, st)
				toAdd = append(toAdd, derive(st, sp.Start, s.Start, 0))
				if sp.Stop > s.Stop {
					toAdd = append(toAdd, derive(st, s.Stop, sp.Stop, delta))
				}
			case mode == TouchResize:
				toRemove = append(toRemove, st)
				toAdd = append(toAdd, derive(st, sp.Start, sp.Stop-(min(sp.Stop, s.Stop)-s.Start), 0))
			}
		}
		t.apply(op, toRemove, toAdd)
		t.logger.Debug("remove", "span", s.String(), "mode", mode.String(), "removed", len(toRemove),
			"added", len(toAdd))
	}
	t.propagate(op, func(dep *Trail) { dep.remove(op, s, mode) })
}

// Clear empties the span without changing the timing of anything outside it.
// The mode determines what happens to stakes overlapping the span. With
// TouchSplit and a filler set, a stake is created for the cleared time that
// lies within the trail. The change propagates to every dependant.
func (t *Trail) Clear(source any, s span.Span, mode TouchMode, txn *Transaction) error {
	return t.run("Clear", source, mode, txn, func(op *operation) { t.clear(op, s, mode) })
}

func (t *Trail) clear(op *operation, s span.Span, mode TouchMode) {
	ix := t.target()
	if !s.IsEmpty() && ix.len() != 0 {
		total := ix.total()
		var toRemove, toAdd []Stake
		for _, st := range ix.rangeQuery(s, true) {
			sp := st.Span()
			switch {
			case sp.Start >= s.Stop, sp.Stop <= s.Start && sp.Start < s.Start:
			case sp.Start >= s.Start:
				switch mode {
				case TouchNone:
					toRemove = append(toRemove, st)
				case TouchSplit:
					toRemove = append(toRemove, st)
					if sp.Stop > s.Stop {
						toAdd = append(toAdd, derive(st, s.Stop, sp.Stop, 0))
					}
				case TouchResize:
					if sp.Stop <= s.Stop {
						toRemove = append(toRemove, st)
					}
				}
			case mode == TouchSplit:
				toRemove = append(toRemove, st)
				toAdd = append(toAdd, derive(st, sp.Start, s.Start, 0))
				if sp.Stop > s.Stop {
					toAdd = append(toAdd, derive(st, s.Stop, sp.Stop, 0))
				}
			case mode == TouchResize:
				if sp.Stop <= s.Stop {
					toRemove = append(toRemove, st)
					toAdd = append(toAdd, derive(st, sp.Start, s.Start, 0))
				}
			}
		}
		if mode == TouchSplit && t.filler != nil {
			if within := s.Clip(total); !within.IsEmpty() {
				if fill := t.filler(within); fill != nil {
					toAdd = append(toAdd, fill)
				}
			}
		}
		t.apply(op, toRemove, toAdd)
		t.logger.Debug("clear", "span", s.String(), "mode", mode.String(), "removed", len(toRemove),
			"added", len(toAdd))
	}
	t.propagate(op, func(dep *Trail) { dep.clear(op, s, mode) })
}

// AddAll adds the stakes to the trail, which takes ownership of them. Stakes
// the trail already holds are ignored. Each dependant's OnBulkAdd hook, if
// any, is then called with the stakes added and the modified span.
func (t *Trail) AddAll(source any, stakes []Stake, txn *Transaction) error {
	return t.run("Add Stakes", source, TouchNone, txn, func(op *operation) {
		ix := t.target()
		var toAdd []Stake
		seen := make(map[Stake]struct{}, len(stakes))
		for _, st := range stakes {
			if st == nil {
				continue
			}
			if _, exists := seen[st]; exists || ix.contains(st) {
				continue
			}
			seen[st] = struct{}{}
			toAdd = append(toAdd, st)
		}
		if s, ok := t.apply(op, nil, toAdd); ok {
			t.logger.Debug("add", "span", s.String(), "added", len(toAdd))
			t.bulk(op, toAdd, s, func(dep *Trail) BulkHook { return dep.onBulkAdd })
		}
	})
}

// RemoveAll removes the stakes from the trail. Stakes the trail does not hold
// are ignored. Each dependant's OnBulkRemove hook, if any, is then called with
// the stakes removed and the modified span.
func (t *Trail) RemoveAll(source any, stakes []Stake, txn *Transaction) error {
	return t.run("Remove Stakes", source, TouchNone, txn, func(op *operation) {
		ix := t.target()
		var toRemove []Stake
		seen := make(map[Stake]struct{}, len(stakes))
		for _, st := range stakes {
			if st == nil {
				continue
			}
			if _, exists := seen[st]; exists || !ix.contains(st) {
				continue
			}
			seen[st] = struct{}{}
			toRemove = append(toRemove, st)
		}
		if s, ok := t.apply(op, toRemove, nil); ok {
			t.logger.Debug("remove stakes", "span", s.String(), "removed", len(toRemove))
			t.bulk(op, toRemove, s, func(dep *Trail) BulkHook { return dep.onBulkRemove })
		}
	})
}

func (t *Trail) bulk(op *operation, stakes []Stake, modified span.Span, hookOf func(dep *Trail) BulkHook) {
	t.propagate(op, func(dep *Trail) {
		if hook := hookOf(dep); hook != nil {
			hook(dep, op.source, stakes, modified, op.txn)
		}
		dep.bulk(op, stakes, modified, hookOf)
	})
}
