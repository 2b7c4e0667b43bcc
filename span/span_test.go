// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package span_test

import (
	"testing"

	"github.com/richardwilkes/trail/span"
	"github.com/stretchr/testify/assert"
)

func TestSpanBasics(t *testing.T) {
	s := span.New(300, 100)
	assert.Equal(t, span.Span{Start: 100, Stop: 300}, s)
	assert.Equal(t, int64(200), s.Length())
	assert.False(t, s.IsEmpty())
	assert.True(t, span.At(5).IsEmpty())
	assert.True(t, s.Contains(100))
	assert.False(t, s.Contains(300))
	assert.Equal(t, span.Span{Start: 150, Stop: 350}, s.Shift(50))
	assert.Equal(t, "[100,300)", s.String())
}

func TestSpanRelations(t *testing.T) {
	a := span.Span{Start: 0, Stop: 100}
	b := span.Span{Start: 100, Stop: 200}
	c := span.Span{Start: 50, Stop: 150}

	assert.False(t, a.Overlaps(b))
	assert.True(t, a.Touches(b))
	assert.True(t, a.Overlaps(c))
	assert.True(t, span.At(100).Touches(a))
	assert.True(t, span.At(100).Touches(b))
	assert.False(t, span.At(201).Touches(b))

	assert.Equal(t, span.Span{Start: 0, Stop: 200}, a.Union(b))
	inter, ok := a.Intersection(c)
	assert.True(t, ok)
	assert.Equal(t, span.Span{Start: 50, Stop: 100}, inter)
	_, ok = a.Intersection(span.Span{Start: 101, Stop: 110})
	assert.False(t, ok)

	assert.Equal(t, span.Span{Start: 50, Stop: 100}, c.Clip(a))
	assert.Equal(t, span.At(100), span.Span{Start: 120, Stop: 130}.Clip(a))
}

func TestAccumulator(t *testing.T) {
	var acc span.Accumulator
	_, ok := acc.Span()
	assert.False(t, ok)
	acc.AddAll(span.Span{Start: 200, Stop: 300}, span.Span{Start: 10, Stop: 20})
	s, ok := acc.Span()
	assert.True(t, ok)
	assert.Equal(t, span.Span{Start: 10, Stop: 300}, s)
	acc.Reset()
	assert.False(t, acc.Valid())
}
