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

var _ Stake = &Region{}

// Region is a named stake covering a span of time.
type Region struct {
	Ownership
	span span.Span
	Name string
}

// NewRegion creates a new region.
func NewRegion(s span.Span, name string) *Region {
	return &Region{span: span.New(s.Start, s.Stop), Name: name}
}

// Span implements Stake.
func (r *Region) Span() span.Span {
	return r.span
}

// Duplicate implements Stake.
func (r *Region) Duplicate() Stake {
	return NewRegion(r.span, r.Name)
}

// ReplaceStart implements Stake.
func (r *Region) ReplaceStart(start int64) Stake {
	return NewRegion(span.Span{Start: start, Stop: r.span.Stop}, r.Name)
}

// ReplaceStop implements Stake.
func (r *Region) ReplaceStop(stop int64) Stake {
	return NewRegion(span.Span{Start: r.span.Start, Stop: stop}, r.Name)
}

// Shift implements Stake.
func (r *Region) Shift(delta int64) Stake {
	return NewRegion(r.span.Shift(delta), r.Name)
}

// Dispose implements Stake. Regions hold no resources.
func (r *Region) Dispose() {
}

func (r *Region) String() string {
	return fmt.Sprintf("%s %s", r.Name, r.span)
}

// RegionFiller returns a filler that creates a region with the given name for
// each span of inserted time. Use it with FillWith.
func RegionFiller(name string) func(span.Span) Stake {
	return func(s span.Span) Stake {
		return NewRegion(s, name)
	}
}
