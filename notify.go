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
	"github.com/richardwilkes/trail/dispatcher"
	"github.com/richardwilkes/trail/span"
)

// Listener receives change notifications from a trail. Listeners are compared
// by identity, so implementations should be pointer types.
type Listener interface {
	// TrailModified is called once per top-level operation or committed
	// transaction that modified the trail, with the source that caused it and
	// the union of the affected spans.
	TrailModified(t *Trail, source any, modified span.Span)
}

// ListenerFunc adapts a function to the Listener interface. Since functions
// cannot be compared, register a pointer to a ListenerFunc.
type ListenerFunc func(t *Trail, source any, modified span.Span)

// TrailModified implements Listener.
func (f *ListenerFunc) TrailModified(t *Trail, source any, modified span.Span) {
	(*f)(t, source, modified)
}

type listenerAdapter struct {
	listener Listener
}

func (a *listenerAdapter) HandleEvent(event dispatcher.Event) {
	if t, ok := event.Origin.(*Trail); ok {
		a.listener.TrailModified(t, event.Source, event.Span)
	}
}

// AddListener registers a listener for changes to this trail. Adding the same
// listener twice has no further effect.
func (t *Trail) AddListener(listener Listener) {
	if listener == nil {
		return
	}
	if t.listeners == nil {
		t.listeners = make(map[Listener]*listenerAdapter)
	}
	if _, exists := t.listeners[listener]; exists {
		return
	}
	adapter := &listenerAdapter{listener: listener}
	t.listeners[listener] = adapter
	t.dispatcher.Register(t, adapter)
}

// RemoveListener removes a listener previously added with AddListener.
func (t *Trail) RemoveListener(listener Listener) {
	if adapter, exists := t.listeners[listener]; exists {
		delete(t.listeners, listener)
		t.dispatcher.Deregister(t, adapter)
	}
}
