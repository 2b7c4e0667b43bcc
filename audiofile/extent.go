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
	"io"
	"sync"
)

// extent is a reference counted byte range of a backing file. The release
// function runs once the last reference is dropped.
type extent struct {
	r         io.ReaderAt
	onRelease func()
	offset    int64
	length    int64
	refs      int // protected by lock
	lock      sync.Mutex
}

func newExtent(r io.ReaderAt, offset, length int64, onRelease func()) *extent {
	return &extent{r: r, offset: offset, length: length, refs: 1, onRelease: onRelease}
}

func (e *extent) retain() {
	e.lock.Lock()
	e.refs++
	e.lock.Unlock()
}

func (e *extent) release() {
	e.lock.Lock()
	e.refs--
	last := e.refs == 0
	e.lock.Unlock()
	if last && e.onRelease != nil {
		e.onRelease()
	}
}

func (e *extent) references() int {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.refs
}
