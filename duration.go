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
	"time"
)

// FramesToDuration converts a frame count at the given sample rate into a
// duration.
func FramesToDuration(frames int64, sampleRate float64) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(frames) / sampleRate * float64(time.Second))
}

// DurationToFrames converts a duration into a frame count at the given sample
// rate, rounding down.
func DurationToFrames(d time.Duration, sampleRate float64) int64 {
	return int64(d.Seconds() * sampleRate)
}

// FormatFrames formats a frame count as h:mm:ss.mmm at the given sample rate.
func FormatFrames(frames int64, sampleRate float64) string {
	return formatDuration(FramesToDuration(frames, sampleRate), true)
}

func formatDuration(duration time.Duration, includeMillis bool) string {
	if duration < 0 {
		duration = 0
	}
	hours := duration / time.Hour
	duration -= hours * time.Hour
	minutes := duration / time.Minute
	duration -= minutes * time.Minute
	seconds := duration / time.Second
	duration -= seconds * time.Second
	if includeMillis {
		return fmt.Sprintf("%d:%02d:%02d.%03d", hours, minutes, seconds, duration/time.Millisecond)
	}
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}
