// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package audiofile

import (
	"log/slog"

	"github.com/richardwilkes/toolbox/errs"
)

// BlockSize sets the allocation unit of a store, in bytes.
func BlockSize(size int) func(*Store) error {
	return func(s *Store) error {
		if size < 1 {
			return errs.New("BlockSize must be at least 1")
		}
		s.blockSize = int64(size)
		return nil
	}
}

// InDir sets the directory the scratch file is created in. Defaults to the
// system temporary directory.
func InDir(dir string) func(*Store) error {
	return func(s *Store) error {
		s.dir = dir
		return nil
	}
}

// LogTo sets the logger to use.
func LogTo(logger *slog.Logger) func(*Store) error {
	return func(s *Store) error {
		if logger == nil {
			return errs.New("LogTo requires a logger")
		}
		s.logger = logger
		return nil
	}
}
