// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package dispatcher

import (
	"log/slog"

	"github.com/richardwilkes/toolbox/errs"
)

// LogTo sets the logger the dispatcher should use. Default discards logs.
func LogTo(logger *slog.Logger) func(*Dispatcher) error {
	return func(d *Dispatcher) error {
		if logger == nil {
			return errs.New("logger may not be nil")
		}
		d.logger = logger
		return nil
	}
}
