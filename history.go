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
	"slices"

	"github.com/richardwilkes/trail/dispatcher"
	"github.com/richardwilkes/trail/span"
	"github.com/richardwilkes/trail/undo"
)

// Possible edit kinds.
const (
	EditAdd EditKind = iota
	EditRemove
	EditDispatch
)

// EditKind identifies what a TrailEdit does to its trail.
type EditKind int

func (k EditKind) String() string {
	switch k {
	case EditAdd:
		return "Add Stakes"
	case EditRemove:
		return "Remove Stakes"
	case EditDispatch:
		return "Update"
	default:
		return "Unknown"
	}
}

var _ undo.Edit = &TrailEdit{}

// TrailEdit is an undoable change to a single trail: adding stakes, removing
// stakes, or notifying listeners of a modified span.
type TrailEdit struct {
	undo.Basic
	trail  *Trail
	source any
	stakes []Stake
	span   span.Span
	kind   EditKind
}

func newTrailEdit(t *Trail, kind EditKind, source any, stakes []Stake, s span.Span) *TrailEdit {
	return &TrailEdit{trail: t, kind: kind, source: source, stakes: stakes, span: s}
}

// Kind returns the kind of edit.
func (e *TrailEdit) Kind() EditKind {
	return e.kind
}

// Trail returns the trail the edit applies to.
func (e *TrailEdit) Trail() *Trail {
	return e.trail
}

// Source returns the source that caused the edit.
func (e *TrailEdit) Source() any {
	return e.source
}

// Stakes returns the stakes added or removed by the edit.
func (e *TrailEdit) Stakes() []Stake {
	return e.stakes
}

// Span returns the span affected by the edit.
func (e *TrailEdit) Span() span.Span {
	return e.span
}

// Perform implements undo.Edit.
func (e *TrailEdit) Perform() undo.Edit {
	e.apply()
	e.MarkDone()
	return e
}

// Undo implements undo.Edit.
func (e *TrailEdit) Undo() error {
	if err := e.Basic.Undo(); err != nil {
		return err
	}
	e.revert()
	return nil
}

// Redo implements undo.Edit.
func (e *TrailEdit) Redo() error {
	if err := e.Basic.Redo(); err != nil {
		return err
	}
	e.apply()
	return nil
}

func (e *TrailEdit) apply() {
	switch e.kind {
	case EditAdd:
		e.trail.addRaw(e.stakes)
	case EditRemove:
		e.trail.removeRaw(e.stakes)
	case EditDispatch:
		e.trail.post(e.source, e.span)
	}
}

func (e *TrailEdit) revert() {
	switch e.kind {
	case EditAdd:
		e.trail.removeRaw(e.stakes)
	case EditRemove:
		e.trail.addRaw(e.stakes)
	case EditDispatch:
		e.trail.post(e.source, e.span)
	}
}

// Die implements undo.Edit. Stakes no longer reachable from either the trail
// or the edit are disposed: those added by an edit that is not applied, and
// those removed by an edit that is.
func (e *TrailEdit) Die() {
	if e.IsDead() {
		return
	}
	switch e.kind {
	case EditAdd:
		if !e.IsDone() {
			e.trail.disposeStakes(e.stakes)
		}
	case EditRemove:
		if e.IsDone() {
			e.trail.disposeStakes(e.stakes)
		}
	}
	e.stakes = nil
	e.Basic.Die()
}

// AddEdit implements undo.Edit. A following applied edit of the same kind on
// the same trail is absorbed.
func (e *TrailEdit) AddEdit(other undo.Edit) bool {
	o, ok := other.(*TrailEdit)
	if !ok || !e.canMerge(o) {
		return false
	}
	e.stakes = append(e.stakes, o.stakes...)
	e.span = e.span.Union(o.span)
	o.stakes = nil
	o.Basic.Die()
	return true
}

// ReplaceEdit implements undo.Edit. A preceding applied edit of the same kind
// on the same trail is absorbed.
func (e *TrailEdit) ReplaceEdit(other undo.Edit) bool {
	o, ok := other.(*TrailEdit)
	if !ok || !e.canMerge(o) {
		return false
	}
	e.stakes = append(slices.Clone(o.stakes), e.stakes...)
	e.span = o.span.Union(e.span)
	if e.source == nil {
		e.source = o.source
	}
	o.stakes = nil
	o.Basic.Die()
	return true
}

func (e *TrailEdit) canMerge(o *TrailEdit) bool {
	return e != o && o.kind == e.kind && o.trail == e.trail && e.CanUndo() && o.CanUndo()
}

// PresentationName implements undo.Edit.
func (e *TrailEdit) PresentationName() string {
	return e.kind.String()
}

// batchKey identifies batches that may be coalesced into one undoable unit.
type batchKey struct {
	trail  *Trail
	source any
	op     string
}

func (k batchKey) matches(other batchKey) bool {
	return k.op == other.op && k.trail == other.trail && k.source != nil && other.source != nil &&
		sameSource(k.source, other.source)
}

// sameSource compares two sources, treating values that cannot be compared as
// different. A comparable type may still hold an incomparable value in an
// interface field, so the comparison itself is guarded.
func sameSource(a, b any) (equal bool) {
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()
	return a == b
}

var _ undo.Edit = &batch{}

// batch groups the trail edits produced by one top-level operation, or by one
// transaction, into a single undoable unit. Undoing and redoing it holds back
// notifications until every edit in it has been applied.
type batch struct {
	*undo.Compound
	key         batchKey
	dispatchers []*dispatcher.Dispatcher
	open        int
}

func newBatch(op string, t *Trail, source any) *batch {
	return &batch{
		Compound: undo.NewCompound(op),
		key:      batchKey{op: op, trail: t, source: source},
	}
}

// use adds a dispatcher to those held back while the batch is applied.
func (b *batch) use(d *dispatcher.Dispatcher) {
	if slices.Contains(b.dispatchers, d) {
		return
	}
	b.dispatchers = append(b.dispatchers, d)
	if b.open > 0 {
		d.Begin()
	}
}

func (b *batch) begin() {
	b.open++
	for _, d := range b.dispatchers {
		d.Begin()
	}
}

func (b *batch) end() {
	for _, d := range b.dispatchers {
		d.End()
	}
	b.open--
}

// Perform implements undo.Edit.
func (b *batch) Perform() undo.Edit {
	return b
}

// Undo implements undo.Edit. Fails with ErrTransactionPending while the trail
// or one of its dependants has an active transaction.
func (b *batch) Undo() error {
	if b.key.trail.busy() {
		return ErrTransactionPending
	}
	b.begin()
	defer b.end()
	return b.Compound.Undo()
}

// Redo implements undo.Edit. Fails with ErrTransactionPending while the trail
// or one of its dependants has an active transaction.
func (b *batch) Redo() error {
	if b.key.trail.busy() {
		return ErrTransactionPending
	}
	b.begin()
	defer b.end()
	return b.Compound.Redo()
}

// AddEdit implements undo.Edit. Once ended, a batch absorbs a following batch
// for the same operation on the same trail from the same non-nil source.
func (b *batch) AddEdit(other undo.Edit) bool {
	o, ok := other.(*batch)
	if !ok || b.InProgress() || !b.CanUndo() || !o.CanUndo() || !b.key.matches(o.key) {
		return false
	}
	dispatchers := o.dispatchers
	if !b.Compound.Absorb(o.Compound) {
		return false
	}
	for _, d := range dispatchers {
		b.use(d)
	}
	return true
}

// ReplaceEdit implements undo.Edit.
func (b *batch) ReplaceEdit(_ undo.Edit) bool {
	return false
}
