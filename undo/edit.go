// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

// Package undo provides undoable edits, compound edits and an undo history
// manager.
package undo

import "github.com/richardwilkes/toolbox/errs"

var (
	// ErrCannotUndo indicates that an edit is not in a state that permits undo.
	ErrCannotUndo = errs.New("cannot undo")
	// ErrCannotRedo indicates that an edit is not in a state that permits redo.
	ErrCannotRedo = errs.New("cannot redo")
)

// Edit defines the contract for an undoable edit.
type Edit interface {
	// Perform applies the edit for the first time and returns the edit itself.
	Perform() Edit
	// Undo reverts the edit.
	Undo() error
	// Redo re-applies a previously undone edit.
	Redo() error
	// CanUndo returns true if Undo may be called.
	CanUndo() bool
	// CanRedo returns true if Redo may be called.
	CanRedo() bool
	// Die releases any resources the edit is solely responsible for. Once
	// dead, an edit may no longer be undone or redone.
	Die()
	// AddEdit gives this edit the opportunity to absorb the edit that follows
	// it. Returns true if other was absorbed, in which case other is dead.
	AddEdit(other Edit) bool
	// ReplaceEdit gives this edit the opportunity to absorb the edit that
	// precedes it. Returns true if other was absorbed, in which case other is
	// dead and should be dropped from any history that held it.
	ReplaceEdit(other Edit) bool
	// PresentationName returns a human-readable name for the edit.
	PresentationName() string
}

// Basic tracks the done/dead state of an edit. Embed it in edit
// implementations.
type Basic struct {
	done bool
	dead bool
}

// MarkDone records that the edit has been applied.
func (b *Basic) MarkDone() {
	b.done = true
}

// IsDone returns true if the edit is currently applied.
func (b *Basic) IsDone() bool {
	return b.done
}

// IsDead returns true if Die has been called.
func (b *Basic) IsDead() bool {
	return b.dead
}

// CanUndo implements Edit.
func (b *Basic) CanUndo() bool {
	return !b.dead && b.done
}

// CanRedo implements Edit.
func (b *Basic) CanRedo() bool {
	return !b.dead && !b.done
}

// Undo implements Edit. Embedders call it first and revert their changes only
// if it returns nil.
func (b *Basic) Undo() error {
	if !b.CanUndo() {
		return ErrCannotUndo
	}
	b.done = false
	return nil
}

// Redo implements Edit. Embedders call it first and re-apply their changes
// only if it returns nil.
func (b *Basic) Redo() error {
	if !b.CanRedo() {
		return ErrCannotRedo
	}
	b.done = true
	return nil
}

// Die implements Edit.
func (b *Basic) Die() {
	b.dead = true
}
