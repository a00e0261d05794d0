// Copyright (c) 2024-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram presents an implementation of SCRAM-SHA-256 and
// SCRAM-SHA-1 mechanisms. See the SHA256 and SHA1 functions for their
// instantiation logic. When a mechanism for a specific underlying hash
// function is instantiated, it can be used for generation of hash
// strings in the SCRAM standard format and verification of passwords
// against them.
// This format is also known as the scram encrypted password format,
// however, it may not be reversed (so no encryption/decryption is
// taking place).
package scram

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xdg-go/scram"
)

// DefaultIterations is the iterations count which is used by the Hash
// method unless another count is configured by WithIterations.
// The RFC 7677 recommends to use 15000 or more.
const DefaultIterations = 15000

// ErrMalformedHash indicates that a stored string does not follow the
// SCRAM hash format of the mechanism which is verifying it.
var ErrMalformedHash = errors.New("malformed scram hash")

// Mechanism provides a Salted Challenge Response Authentication
// Mechanism (SCRAM) having a fixed underlying hash algorithm.
//
// It implements the github.com/momeni/cpweb/pkg/core/auth.Verifier
// interface, so it may be used in the use cases layer without any
// dependency on the actual implementation. This package relies on
// the github.com/xdg-go/scram module for the SCRAM implementation.
type Mechanism struct {
	hashGenerator scram.HashGeneratorFcn
	outLen        int // bytes
	name          string
	iters         int
}

// SHA1 returns a new Mechanism instance using the SHA1 as its
// underlying hash algorithm.
func SHA1() *Mechanism {
	return &Mechanism{
		hashGenerator: scram.SHA1,
		outLen:        160 / 8,
		name:          "SCRAM-SHA-1",
		iters:         DefaultIterations,
	}
}

// SHA256 returns a new Mechanism instance using the SHA256 as its
// underlying hash algorithm.
func SHA256() *Mechanism {
	return &Mechanism{
		hashGenerator: scram.SHA256,
		outLen:        256 / 8,
		name:          "SCRAM-SHA-256",
		iters:         DefaultIterations,
	}
}

// WithIterations returns a copy of m which uses iters iterations for
// hashing new passwords. The iters must be at least equal to 4096.
// Verification uses the iterations count which is kept in each stored
// hash string, so changing it does not invalidate the stored hashes.
func (m *Mechanism) WithIterations(iters int) (*Mechanism, error) {
	if iters < 4096 {
		return nil, fmt.Errorf("iters (%d) is less than 4096", iters)
	}
	mm := *m
	mm.iters = iters
	return &mm, nil
}

// Scheme returns the lower-cased mechanism name, e.g., scram-sha-256.
func (m *Mechanism) Scheme() string {
	return strings.ToLower(m.name)
}

// Hash computes a hash string for pass with a random salt and the
// configured iterations count. If pass is already a hash string of
// this mechanism, it is returned unchanged.
func (m *Mechanism) Hash(pass string) (string, error) {
	if strings.HasPrefix(pass, m.name+"$") {
		if _, _, _, err := m.parse(pass); err == nil {
			return pass, nil
		}
	}
	return m.Derive(pass, "", m.iters)
}

// Derive computes a hash string following the standard scram hash
// format, so it can be stored and used later for authentication.
//
// The pass argument must be non-empty. The user and authzID params
// are not asked because they are not used in the hash output. The
// given password will be normalized accoriding to the SASLprep
// profile (defined by RFC 4013) of the stringprep algorithm (which
// is defined by RFC 3454) and any failure in that normalization
// returns an error.
//
// The salt must contain a base64 encoding of the desired salt
// bytes, otherwise, if an empty value is passed, a random salt will
// be generated and used instead.
// The iters must be at least equal to 4096.
//
// In absence of errors, a hashed string will be returned which
// conforms to the following format.
//
//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
func (m *Mechanism) Derive(pass, salt string, iters int) (string, error) {
	switch {
	case pass == "":
		return "", errors.New("password must be non-empty")
	case iters < 4096:
		return "", fmt.Errorf("iters (%d) is less than 4096", iters)
	}
	if salt == "" {
		saltBytes := make([]byte, m.outLen)
		if _, err := rand.Read(saltBytes); err != nil {
			return "", fmt.Errorf("creating random salt: %w", err)
		}
		salt = base64.StdEncoding.EncodeToString(saltBytes)
	}
	sc, err := m.storedCredentials(pass, salt, iters)
	if err != nil {
		return "", fmt.Errorf("obtaining stored credentials: %w", err)
	}
	h := fmt.Sprintf(
		"%s$%d:%s$%s:%s",
		m.name,
		iters, salt,
		base64.StdEncoding.EncodeToString(sc.StoredKey),
		base64.StdEncoding.EncodeToString(sc.ServerKey),
	)
	return h, nil
}

// Verify recomputes the stored key of pass using the salt and
// iterations count of the stored hash string and compares them in
// constant time. An empty pass never matches.
func (m *Mechanism) Verify(stored, pass string) (bool, error) {
	iters, salt, storedKey, err := m.parse(stored)
	if err != nil {
		return false, err
	}
	if pass == "" {
		return false, nil
	}
	sc, err := m.storedCredentials(pass, salt, iters)
	if err != nil {
		return false, fmt.Errorf("obtaining stored credentials: %w", err)
	}
	return subtle.ConstantTimeCompare(sc.StoredKey, storedKey) == 1, nil
}

// parse splits a hash string into its iterations count, base64 salt,
// and decoded stored key.
func (m *Mechanism) parse(stored string) (
	iters int, salt string, storedKey []byte, err error,
) {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 || parts[0] != m.name {
		return 0, "", nil, ErrMalformedHash
	}
	itersSalt := strings.SplitN(parts[1], ":", 2)
	keys := strings.SplitN(parts[2], ":", 2)
	if len(itersSalt) != 2 || len(keys) != 2 {
		return 0, "", nil, ErrMalformedHash
	}
	iters, err = strconv.Atoi(itersSalt[0])
	if err != nil || iters < 4096 {
		return 0, "", nil, ErrMalformedHash
	}
	storedKey, err = base64.StdEncoding.DecodeString(keys[0])
	if err != nil || len(storedKey) != m.outLen {
		return 0, "", nil, ErrMalformedHash
	}
	return iters, itersSalt[1], storedKey, nil
}

func (m *Mechanism) storedCredentials(
	pass, salt string, iters int,
) (*scram.StoredCredentials, error) {
	c, err := m.hashGenerator.NewClient("username", pass, "authzID")
	if err != nil {
		return nil, fmt.Errorf("creating SCRAM client: %w", err)
	}
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 salt: %w", err)
	}
	sc := c.GetStoredCredentials(scram.KeyFactors{
		Salt:  string(saltBytes),
		Iters: iters,
	})
	return &sc, nil
}
