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
	"slices"

	"github.com/richardwilkes/toolbox/errs"
)

// AddDependant registers a trail that receives the same structural edits as
// this one. Adding an existing dependant has no further effect. Dependants may
// not be changed while either trail has an active transaction.
func (t *Trail) AddDependant(dep *Trail) error {
	if dep == nil {
		return errs.New("dependant may not be nil")
	}
	if dep == t {
		return ErrSelfDependant
	}
	if t.txn != nil || dep.txn != nil {
		return ErrTransactionPending
	}
	if dep.reaches(t) {
		return ErrCyclicDependant
	}
	t.depLock.Lock()
	defer t.depLock.Unlock()
	if !slices.Contains(t.dependants, dep) {
		t.dependants = append(t.dependants, dep)
	}
	return nil
}

// RemoveDependant unregisters a dependant. Returns false if it was not
// registered.
func (t *Trail) RemoveDependant(dep *Trail) bool {
	t.depLock.Lock()
	defer t.depLock.Unlock()
	i := slices.Index(t.dependants, dep)
	if i < 0 {
		return false
	}
	t.dependants = slices.Delete(t.dependants, i, i+1)
	return true
}

// Dependants returns a snapshot of the registered dependants.
func (t *Trail) Dependants() []*Trail {
	t.depLock.Lock()
	defer t.depLock.Unlock()
	return slices.Clone(t.dependants)
}

// reaches returns true if target is this trail or one of its dependants,
// directly or indirectly.
func (t *Trail) reaches(target *Trail) bool {
	if t == target {
		return true
	}
	for _, dep := range t.Dependants() {
		if dep.reaches(target) {
			return true
		}
	}
	return false
}
