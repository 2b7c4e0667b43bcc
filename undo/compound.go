// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package undo

// Compound collects a sequence of edits so they can be undone and redone as a
// single unit. While in progress it accepts further edits; once ended it
// behaves like any other edit.
type Compound struct {
	name       string
	edits      []Edit
	done       bool
	dead       bool
	inProgress bool
}

// NewCompound creates a new, in-progress compound edit.
func NewCompound(name string) *Compound {
	return &Compound{name: name, inProgress: true}
}

// AddPerform performs the edit and adds it to the compound.
func (c *Compound) AddPerform(edit Edit) {
	c.AddEdit(edit.Perform())
}

// AddEdit appends the edit while the compound is in progress, first offering
// it to the most recent edit for coalescing. Returns false once the compound
// has ended.
func (c *Compound) AddEdit(other Edit) bool {
	if !c.inProgress || c.dead {
		return false
	}
	if n := len(c.edits); n > 0 {
		last := c.edits[n-1]
		if last.AddEdit(other) {
			return true
		}
		if other.ReplaceEdit(last) {
			c.edits[n-1] = other
			return true
		}
	}
	c.edits = append(c.edits, other)
	return true
}

// ReplaceEdit implements Edit.
func (c *Compound) ReplaceEdit(_ Edit) bool {
	return false
}

// End stops the compound from accepting further edits.
func (c *Compound) End() {
	c.inProgress = false
	c.done = true
}

// InProgress returns true if the compound still accepts edits.
func (c *Compound) InProgress() bool {
	return c.inProgress
}

// IsEmpty returns true if the compound holds no edits.
func (c *Compound) IsEmpty() bool {
	return len(c.edits) == 0
}

// Len returns the number of edits held.
func (c *Compound) Len() int {
	return len(c.edits)
}

// Edits returns the edits held, in the order they were performed.
func (c *Compound) Edits() []Edit {
	return c.edits
}

// Take removes and returns the edits held, leaving the compound empty.
func (c *Compound) Take() []Edit {
	edits := c.edits
	c.edits = nil
	return edits
}

// Absorb moves the edits of other, which must have ended and been applied, to
// the end of this compound and kills other. Returns false if either compound
// is unable to take part.
func (c *Compound) Absorb(other *Compound) bool {
	if c == other || c.dead || other.dead || other.inProgress || !other.done {
		return false
	}
	c.edits = append(c.edits, other.Take()...)
	other.Die()
	return true
}

// Perform implements Edit. The edits of a compound are performed as they are
// added, so this only returns the compound.
func (c *Compound) Perform() Edit {
	return c
}

// CanUndo implements Edit.
func (c *Compound) CanUndo() bool {
	return !c.inProgress && !c.dead && c.done
}

// CanRedo implements Edit.
func (c *Compound) CanRedo() bool {
	return !c.inProgress && !c.dead && !c.done
}

// Undo implements Edit. The edits are undone in reverse order.
func (c *Compound) Undo() error {
	if !c.CanUndo() {
		return ErrCannotUndo
	}
	if err := c.Revert(); err != nil {
		return err
	}
	c.done = false
	return nil
}

// Revert undoes the edits held without regard to the compound's own state.
// Used to roll back a compound that is still in progress.
func (c *Compound) Revert() error {
	for i := len(c.edits) - 1; i >= 0; i-- {
		if err := c.edits[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}

// Redo implements Edit.
func (c *Compound) Redo() error {
	if !c.CanRedo() {
		return ErrCannotRedo
	}
	for _, edit := range c.edits {
		if err := edit.Redo(); err != nil {
			return err
		}
	}
	c.done = true
	return nil
}

// Die implements Edit. The edits are killed in reverse order.
func (c *Compound) Die() {
	if c.dead {
		return
	}
	for i := len(c.edits) - 1; i >= 0; i-- {
		c.edits[i].Die()
	}
	c.dead = true
}

// PresentationName implements Edit.
func (c *Compound) PresentationName() string {
	return c.name
}
