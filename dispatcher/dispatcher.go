// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

// Package dispatcher delivers modification events to registered handlers,
// coalescing events that arrive while a batch is open.
package dispatcher

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/richardwilkes/trail/span"
)

// Event describes a modification of an origin (typically a trail) caused by
// a source.
type Event struct {
	Origin any
	Source any
	Span   span.Span
}

// Handler defines the interface for receiving events. Handlers are compared
// by identity, so implementations should be pointer types.
type Handler interface {
	HandleEvent(event Event)
}

// Dispatcher holds a registry of event handlers.
type Dispatcher struct {
	logger      *slog.Logger
	routerLock  sync.RWMutex
	handlers    map[any][]Handler // a nil key receives events from every origin
	pendingLock sync.Mutex
	pending     []Event
	depth       int
}

// NewDispatcher creates a new dispatcher.
func NewDispatcher(options ...func(*Dispatcher) error) (*Dispatcher, error) {
	d := &Dispatcher{
		logger:   slog.New(slog.DiscardHandler),
		handlers: make(map[any][]Handler),
	}
	for _, option := range options {
		if err := option(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Logger returns the logger being used by this dispatcher.
func (d *Dispatcher) Logger() *slog.Logger {
	return d.logger
}

// Register a handler for events from origin. A nil origin registers the
// handler for events from every origin.
func (d *Dispatcher) Register(origin any, handler Handler) {
	if !isComparable(origin) {
		d.logger.Warn("ignoring registration for incomparable origin", "origin", fmt.Sprintf("%T", origin))
		return
	}
	d.routerLock.Lock()
	d.handlers[origin] = append(d.handlers[origin], handler)
	d.routerLock.Unlock()
}

// Deregister a handler previously registered for origin.
func (d *Dispatcher) Deregister(origin any, handler Handler) {
	if !isComparable(origin) {
		return
	}
	d.routerLock.Lock()
	defer d.routerLock.Unlock()
	list := d.handlers[origin]
	for i, one := range list {
		if one == handler {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(d.handlers, origin)
	} else {
		d.handlers[origin] = list
	}
}

// Begin opens a batch. Events posted until the matching End are coalesced
// and delivered when the outermost batch closes. Batches nest.
func (d *Dispatcher) Begin() {
	d.pendingLock.Lock()
	d.depth++
	d.pendingLock.Unlock()
}

// End closes a batch, delivering pending events if it was the outermost one.
func (d *Dispatcher) End() {
	d.pendingLock.Lock()
	if d.depth > 0 {
		d.depth--
	}
	var events []Event
	if d.depth == 0 {
		events = d.pending
		d.pending = nil
	}
	d.pendingLock.Unlock()
	d.deliver(events)
}

// Post an event. Outside of a batch the event is delivered immediately.
// Inside a batch, an event with the same origin and source as a pending one
// is merged into it by unioning their spans.
func (d *Dispatcher) Post(event Event) {
	d.pendingLock.Lock()
	if d.depth == 0 {
		d.pendingLock.Unlock()
		d.deliver([]Event{event})
		return
	}
	for i := range d.pending {
		if same(d.pending[i].Origin, event.Origin) && same(d.pending[i].Source, event.Source) {
			d.pending[i].Span = d.pending[i].Span.Union(event.Span)
			d.pendingLock.Unlock()
			return
		}
	}
	d.pending = append(d.pending, event)
	d.pendingLock.Unlock()
}

// Pending returns the number of events waiting for the current batch to close.
func (d *Dispatcher) Pending() int {
	d.pendingLock.Lock()
	defer d.pendingLock.Unlock()
	return len(d.pending)
}

func (d *Dispatcher) deliver(events []Event) {
	for _, event := range events {
		var handlers []Handler
		d.routerLock.RLock()
		if event.Origin != nil && isComparable(event.Origin) {
			handlers = append(handlers, d.handlers[event.Origin]...)
		}
		handlers = append(handlers, d.handlers[nil]...)
		d.routerLock.RUnlock()
		d.logger.Debug("dispatch", "span", event.Span.String(), "handlers", len(handlers))
		for _, handler := range handlers {
			handler.HandleEvent(event)
		}
	}
}

// isComparable returns true if v can be used as a map key. A comparable type
// may still hold an incomparable value in an interface field, so hashing is
// tried as well.
func isComparable(v any) (ok bool) {
	if v == nil {
		return true
	}
	if !reflect.TypeOf(v).Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	keys := make(map[any]struct{}, 1)
	keys[v] = struct{}{}
	return len(keys) == 1
}

// same compares two opaque tokens without panicking on incomparable types.
func same(a, b any) bool {
	if !isComparable(a) || !isComparable(b) {
		return false
	}
	return a == b
}
