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
	"fmt"

	"github.com/richardwilkes/trail/span"
)

var _ Stake = &Marker{}

// Marker is a named, zero-length stake marking a position in time.
type Marker struct {
	Ownership
	Pos  int64
	Name string
}

// NewMarker creates a new marker.
func NewMarker(pos int64, name string) *Marker {
	return &Marker{Pos: pos, Name: name}
}

// Span implements Stake.
func (m *Marker) Span() span.Span {
	return span.At(m.Pos)
}

// Duplicate implements Stake.
func (m *Marker) Duplicate() Stake {
	return NewMarker(m.Pos, m.Name)
}

// ReplaceStart implements Stake. The marker moves to start.
func (m *Marker) ReplaceStart(start int64) Stake {
	return NewMarker(start, m.Name)
}

// ReplaceStop implements Stake. The marker moves to stop.
func (m *Marker) ReplaceStop(stop int64) Stake {
	return NewMarker(stop, m.Name)
}

// Shift implements Stake.
func (m *Marker) Shift(delta int64) Stake {
	return NewMarker(m.Pos+delta, m.Name)
}

// Dispose implements Stake. Markers hold no resources.
func (m *Marker) Dispose() {
}

func (m *Marker) String() string {
	return fmt.Sprintf("%s @%d", m.Name, m.Pos)
}
