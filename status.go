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

// Status holds a snapshot of a trail's state.
type Status struct {
	Name          string
	Total         span.Span
	SampleRate    float64
	Stakes        int
	Covered       int64
	Dependants    int
	InTransaction bool
	Modified      bool
}

// PercentCovered returns the share of the total span covered by stakes.
func (s *Status) PercentCovered() float64 {
	if s.Total.IsEmpty() {
		return 0
	}
	return float64(s.Covered) * 100 / float64(s.Total.Length())
}

func (s *Status) String() string {
	if s.Stakes == 0 {
		return fmt.Sprintf("%s: empty", s.Name)
	}
	str := fmt.Sprintf("%s: %d stakes - %s to %s - %.1f%% covered - %d dependants",
		s.Name,
		s.Stakes,
		FormatFrames(s.Total.Start, s.SampleRate),
		FormatFrames(s.Total.Stop, s.SampleRate),
		s.PercentCovered(),
		s.Dependants)
	if s.InTransaction {
		if s.Modified {
			str += " - transaction pending (modified)"
		} else {
			str += " - transaction pending"
		}
	}
	return str
}
