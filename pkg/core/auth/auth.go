// Copyright (c) 2024-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package auth exports the expected interfaces for the verification of
// user credentials. For the corresponding implementations, check the
// pkg/adapter/hash packages.
//
// Users are authenticated by a plain lookup of their username and then
// a comparison of the presented password against the stored one. How
// a password is stored and compared is decided by a Verifier, so the
// plain-text legacy scheme may be replaced by a salted hash scheme
// (such as SCRAM-SHA-256) without touching the REST API contract.
package auth

// Verifier represents a password storage scheme.
type Verifier interface {
	// Scheme returns the configuration name of this storage scheme,
	// such as "plain" or "scram-sha-256".
	Scheme() string

	// Hash converts the pass plain-text password into the string
	// which should be stored in the users collection. The pass must
	// be non-empty. Implementations must detect an already converted
	// string and return it unchanged, so a document which is read and
	// written back is not converted twice.
	Hash(pass string) (string, error)

	// Verify reports if pass matches with the stored string, as
	// produced by the Hash method. A false result with a nil error
	// means a mismatch, while errors indicate a malformed stored
	// string or an internal failure.
	Verify(stored, pass string) (bool, error)
}
