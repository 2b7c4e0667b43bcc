// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package trail

// Possible touch modes.
const (
	// TouchNone leaves stakes that merely overlap the edit point alone. Stakes
	// starting inside the edited span are dropped (remove, clear) and stakes
	// at or after the edit point are shifted. Suited to markers.
	TouchNone TouchMode = iota
	// TouchSplit cuts stakes at the edit boundaries. The portions outside the
	// edited span survive as independent fragments. Suited to audio regions.
	TouchSplit
	// TouchResize keeps the start of overlapping stakes and moves their stop
	// to absorb the edited length. Suited to marker regions.
	TouchResize
)

// DefaultTouchMode is the touch mode used by region-like trails.
const DefaultTouchMode = TouchSplit

// TouchMode determines how stakes overlapping an edited span are treated.
type TouchMode int

// IsValid returns true if the touch mode is recognized.
func (m TouchMode) IsValid() bool {
	return m >= TouchNone && m <= TouchResize
}

func (m TouchMode) String() string {
	switch m {
	case TouchNone:
		return "none"
	case TouchSplit:
		return "split"
	case TouchResize:
		return "resize"
	default:
		return "invalid"
	}
}

// ParseTouchMode converts a name produced by TouchMode.String back into a
// touch mode.
func ParseTouchMode(name string) (TouchMode, error) {
	for m := TouchNone; m <= TouchResize; m++ {
		if m.String() == name {
			return m, nil
		}
	}
	return TouchNone, ErrInvalidTouchMode
}
