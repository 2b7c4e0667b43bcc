// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package undo

import (
	"log/slog"
	"sync"

	"github.com/richardwilkes/toolbox/errs"
)

// DefaultLimit is the default maximum number of edits a Manager retains.
const DefaultLimit = 100

// Manager maintains the undo/redo history.
type Manager struct {
	logger *slog.Logger
	edits  []Edit
	index  int // index of the next edit to redo
	limit  int
	lock   sync.Mutex
}

// Limit sets the maximum number of edits retained. Default is 100.
func Limit(limit int) func(*Manager) error {
	return func(m *Manager) error {
		if limit < 1 {
			return errs.New("Limit must be at least 1")
		}
		m.limit = limit
		return nil
	}
}

// LogTo sets the logger the manager should use. Default discards logs.
func LogTo(logger *slog.Logger) func(*Manager) error {
	return func(m *Manager) error {
		if logger == nil {
			return errs.New("logger may not be nil")
		}
		m.logger = logger
		return nil
	}
}

// NewManager creates a new undo manager.
func NewManager(options ...func(*Manager) error) (*Manager, error) {
	m := &Manager{
		logger: slog.New(slog.DiscardHandler),
		limit:  DefaultLimit,
	}
	for _, option := range options {
		if err := option(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddEdit records an edit that has already been performed. Any redoable edits
// are discarded first. If the most recent edit can absorb the new one, the
// history does not grow. Always returns true.
func (m *Manager) AddEdit(edit Edit) bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	for i := len(m.edits) - 1; i >= m.index; i-- {
		m.edits[i].Die()
	}
	m.edits = m.edits[:m.index]
	if n := len(m.edits); n > 0 {
		last := m.edits[n-1]
		if last.AddEdit(edit) {
			m.logger.Debug("coalesced edit", "name", last.PresentationName())
			return true
		}
		if edit.ReplaceEdit(last) {
			m.edits = m.edits[:n-1]
		}
	}
	m.edits = append(m.edits, edit)
	if len(m.edits) > m.limit {
		excess := len(m.edits) - m.limit
		for _, one := range m.edits[:excess] {
			one.Die()
		}
		m.edits = append(m.edits[:0], m.edits[excess:]...)
	}
	m.index = len(m.edits)
	m.logger.Debug("recorded edit", "name", edit.PresentationName(), "count", len(m.edits))
	return true
}

// CanUndo returns true if there is an edit to undo.
func (m *Manager) CanUndo() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.index > 0 && m.edits[m.index-1].CanUndo()
}

// CanRedo returns true if there is an edit to redo.
func (m *Manager) CanRedo() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.index < len(m.edits) && m.edits[m.index].CanRedo()
}

// Undo reverts the most recent edit.
func (m *Manager) Undo() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.index == 0 {
		return ErrCannotUndo
	}
	edit := m.edits[m.index-1]
	if err := edit.Undo(); err != nil {
		return err
	}
	m.index--
	m.logger.Debug("undo", "name", edit.PresentationName())
	return nil
}

// Redo re-applies the most recently undone edit.
func (m *Manager) Redo() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.index >= len(m.edits) {
		return ErrCannotRedo
	}
	edit := m.edits[m.index]
	if err := edit.Redo(); err != nil {
		return err
	}
	m.index++
	m.logger.Debug("redo", "name", edit.PresentationName())
	return nil
}

// UndoPresentationName returns the name of the edit Undo would revert, or an
// empty string.
func (m *Manager) UndoPresentationName() string {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.index == 0 {
		return ""
	}
	return m.edits[m.index-1].PresentationName()
}

// RedoPresentationName returns the name of the edit Redo would re-apply, or an
// empty string.
func (m *Manager) RedoPresentationName() string {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.index >= len(m.edits) {
		return ""
	}
	return m.edits[m.index].PresentationName()
}

// Len returns the number of edits in the history.
func (m *Manager) Len() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.edits)
}

// Discard kills every edit in the history and empties it.
func (m *Manager) Discard() {
	m.lock.Lock()
	defer m.lock.Unlock()
	for i := len(m.edits) - 1; i >= 0; i-- {
		m.edits[i].Die()
	}
	m.edits = nil
	m.index = 0
}
