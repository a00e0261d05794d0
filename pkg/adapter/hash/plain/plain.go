// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package plain provides the legacy password storage scheme which
// keeps passwords as they are given. It exists for compatibility with
// users collections which were filled before a hashed scheme could be
// configured. Prefer the scram package for new deployments.
package plain

import (
	"crypto/subtle"
	"errors"
)

// Verifier implements the auth.Verifier interface without any hashing.
type Verifier struct{}

// New returns a plain-text Verifier.
func New() Verifier {
	return Verifier{}
}

// Scheme returns "plain".
func (Verifier) Scheme() string {
	return "plain"
}

// Hash returns pass itself, rejecting an empty password.
func (Verifier) Hash(pass string) (string, error) {
	if pass == "" {
		return "", errors.New("password must be non-empty")
	}
	return pass, nil
}

// Verify compares stored and pass in constant time.
func (Verifier) Verify(stored, pass string) (bool, error) {
	if stored == "" || pass == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(pass)) == 1, nil
}
