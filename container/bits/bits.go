// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

// Package bits provides a fixed-size bitmap suited to tracking block allocation.
package bits

import mbits "math/bits"

const wordSize = 64

// Bits holds a fixed-size collection of bits.
type Bits struct {
	data []uint64
	size int
}

// New creates a new set of bits, all unset.
func New(numberOfBits int) *Bits {
	if numberOfBits < 0 {
		numberOfBits = 0
	}
	return &Bits{
		data: make([]uint64, (numberOfBits+wordSize-1)/wordSize),
		size: numberOfBits,
	}
}

// Length returns the number of bits contained.
func (b *Bits) Length() int {
	return b.size
}

// Grow extends the bitmap so that it holds at least numberOfBits bits. New
// bits are unset.
func (b *Bits) Grow(numberOfBits int) {
	if numberOfBits <= b.size {
		return
	}
	if words := (numberOfBits + wordSize - 1) / wordSize; words > len(b.data) {
		data := make([]uint64, words)
		copy(data, b.data)
		b.data = data
	}
	b.size = numberOfBits
}

// Count returns the number of set bits.
func (b *Bits) Count() int {
	count := 0
	for _, w := range b.data {
		count += mbits.OnesCount64(w)
	}
	return count
}

// IsSet returns true if the specified index is set.
func (b *Bits) IsSet(index int) bool {
	if index < 0 || index >= b.size {
		return false
	}
	return b.data[index/wordSize]&(1<<uint(index%wordSize)) != 0
}

// Set the specified index.
func (b *Bits) Set(index int) {
	if index >= 0 && index < b.size {
		b.data[index/wordSize] |= 1 << uint(index%wordSize)
	}
}

// Unset the specified index.
func (b *Bits) Unset(index int) {
	if index >= 0 && index < b.size {
		b.data[index/wordSize] &^= 1 << uint(index%wordSize)
	}
}

// SetRange sets count bits starting at from. Indexes outside the bitmap are
// ignored.
func (b *Bits) SetRange(from, count int) {
	for i := max(from, 0); i < from+count && i < b.size; i++ {
		b.Set(i)
	}
}

// UnsetRange unsets count bits starting at from. Indexes outside the bitmap
// are ignored.
func (b *Bits) UnsetRange(from, count int) {
	for i := max(from, 0); i < from+count && i < b.size; i++ {
		b.Unset(i)
	}
}

// NextSet returns the index of the next set bit, starting at 'from'. Returns
// -1 if no bits are set from 'from' through the end of the bits.
func (b *Bits) NextSet(from int) int {
	return b.next(from, 0)
}

// NextUnset returns the index of the next unset bit, starting at 'from'.
// Returns -1 if no bits are unset from 'from' through the end of the bits.
func (b *Bits) NextUnset(from int) int {
	return b.next(from, ^uint64(0))
}

func (b *Bits) next(from int, invert uint64) int {
	if from < 0 || from >= b.size {
		return -1
	}
	i := from / wordSize
	w := (b.data[i] ^ invert) &^ (1<<uint(from%wordSize) - 1)
	for {
		if w != 0 {
			if index := i*wordSize + mbits.TrailingZeros64(w); index < b.size {
				return index
			}
			return -1
		}
		i++
		if i >= len(b.data) {
			return -1
		}
		w = b.data[i] ^ invert
	}
}

// FirstUnsetRun returns the index of the first run of count consecutive unset
// bits, or -1 if no such run exists.
func (b *Bits) FirstUnsetRun(count int) int {
	if count < 1 {
		return -1
	}
	start := b.NextUnset(0)
	for start != -1 {
		end := b.NextSet(start)
		if end == -1 {
			end = b.size
		}
		if end-start >= count {
			return start
		}
		if end >= b.size {
			return -1
		}
		start = b.NextUnset(end)
	}
	return -1
}
