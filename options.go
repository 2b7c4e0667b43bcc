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
	"log/slog"

	"github.com/richardwilkes/toolbox/errs"
	"github.com/richardwilkes/trail/dispatcher"
	"github.com/richardwilkes/trail/span"
	"github.com/richardwilkes/trail/undo"
)

// UndoSink receives the edits produced by top-level trail operations. An
// undo.Manager satisfies it.
type UndoSink interface {
	AddEdit(edit undo.Edit) bool
}

var _ UndoSink = &undo.Manager{}

// BulkHook is called on a dependant after the same stakes were added to, or
// removed from, its parent. modified is the span affected in the parent.
type BulkHook func(t *Trail, source any, stakes []Stake, modified span.Span, txn *Transaction)

// Named sets the name of the trail, used in logs and status.
func Named(name string) func(*Trail) error {
	return func(t *Trail) error {
		if name == "" {
			return errs.New("Named requires a non-empty name")
		}
		t.name = name
		return nil
	}
}

// LogTo sets the logger to use.
func LogTo(logger *slog.Logger) func(*Trail) error {
	return func(t *Trail) error {
		if logger == nil {
			return errs.New("LogTo requires a logger")
		}
		t.logger = logger
		return nil
	}
}

// UndoTo sets the destination for the edits produced by top-level operations
// and committed transactions. Without one, edits are discarded once applied.
func UndoTo(sink UndoSink) func(*Trail) error {
	return func(t *Trail) error {
		if sink == nil {
			return errs.New("UndoTo requires a sink")
		}
		t.undoSink = sink
		return nil
	}
}

// DispatchTo sets the dispatcher used to deliver change notifications. Trails
// may share a dispatcher. Without one, each trail gets its own.
func DispatchTo(d *dispatcher.Dispatcher) func(*Trail) error {
	return func(t *Trail) error {
		if d == nil {
			return errs.New("DispatchTo requires a dispatcher")
		}
		t.dispatcher = d
		return nil
	}
}

// FillWith sets a function that creates the stake covering time inserted into
// the trail, as well as time cleared within it using TouchSplit. The function
// may return nil to leave the span empty.
func FillWith(filler func(s span.Span) Stake) func(*Trail) error {
	return func(t *Trail) error {
		if filler == nil {
			return errs.New("FillWith requires a filler")
		}
		t.filler = filler
		return nil
	}
}

// OnBulkAdd sets the hook called when AddAll propagates to this trail as a
// dependant. Without one, the stakes are not added to the dependant.
func OnBulkAdd(hook BulkHook) func(*Trail) error {
	return func(t *Trail) error {
		t.onBulkAdd = hook
		return nil
	}
}

// OnBulkRemove sets the hook called when RemoveAll propagates to this trail
// as a dependant.
func OnBulkRemove(hook BulkHook) func(*Trail) error {
	return func(t *Trail) error {
		t.onBulkRemove = hook
		return nil
	}
}
