// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package trail

import "github.com/richardwilkes/toolbox/errs"

// Transaction errors
var (
	// ErrTransactionActive indicates that a transaction is already active on
	// the trail or one of its dependants.
	ErrTransactionActive = errs.New("a transaction is already active")

	// ErrTransactionMismatch indicates that the supplied transaction is not
	// the one currently active on the trail.
	ErrTransactionMismatch = errs.New("transaction is not the active transaction")

	// ErrNoTransaction indicates that a transaction was supplied but none is
	// active on the trail.
	ErrNoTransaction = errs.New("no active transaction")

	// ErrTransactionPending indicates that an operation was attempted without
	// the active transaction while one is pending.
	ErrTransactionPending = errs.New("operation not allowed while a transaction is pending")

	// ErrTransactionClosed indicates that a transaction token has already been
	// used and ended.
	ErrTransactionClosed = errs.New("transaction has already been used")
)

// Edit errors
var (
	// ErrInvalidTouchMode indicates that a touch mode value is not recognized.
	ErrInvalidTouchMode = errs.New("invalid touch mode")
)

// Dependant errors
var (
	// ErrSelfDependant indicates an attempt to make a trail depend on itself.
	ErrSelfDependant = errs.New("a trail cannot be its own dependant")

	// ErrCyclicDependant indicates that adding the dependant would create a
	// cycle in the dependant graph.
	ErrCyclicDependant = errs.New("dependant would create a cycle")
)
