// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scram_test

import (
	"strings"
	"testing"

	"github.com/momeni/cpweb/pkg/adapter/hash/scram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveIsDeterministicForSalt(t *testing.T) {
	m := scram.SHA256()
	const salt = "c2FsdHNhbHRzYWx0c2FsdA=="
	h1, err := m.Derive("secret", salt, 4096)
	require.NoError(t, err)
	h2, err := m.Derive("secret", salt, 4096)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.True(t, strings.HasPrefix(h1, "SCRAM-SHA-256$4096:"+salt+"$"))

	h3, err := m.Derive("other", salt, 4096)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestHashAndVerify(t *testing.T) {
	for _, m := range []*scram.Mechanism{scram.SHA1(), scram.SHA256()} {
		t.Run(m.Scheme(), func(t *testing.T) {
			m, err := m.WithIterations(4096)
			require.NoError(t, err)
			h, err := m.Hash("pw")
			require.NoError(t, err)
			assert.NotEqual(t, "pw", h)

			ok, err := m.Verify(h, "pw")
			require.NoError(t, err)
			assert.True(t, ok, "correct password is rejected")

			ok, err = m.Verify(h, "pw2")
			require.NoError(t, err)
			assert.False(t, ok, "wrong password is accepted")

			ok, err = m.Verify(h, "")
			require.NoError(t, err)
			assert.False(t, ok, "empty password is accepted")

			again, err := m.Hash(h)
			require.NoError(t, err)
			assert.Equal(t, h, again, "hashed password is hashed again")
		})
	}
}

func TestRandomSalt(t *testing.T) {
	m, err := scram.SHA256().WithIterations(4096)
	require.NoError(t, err)
	h1, err := m.Hash("pw")
	require.NoError(t, err)
	h2, err := m.Hash("pw")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyMalformed(t *testing.T) {
	m := scram.SHA256()
	for _, stored := range []string{
		"",
		"pw",
		"SCRAM-SHA-1$4096:c2FsdA==$a2V5:a2V5",
		"SCRAM-SHA-256$100:c2FsdA==$a2V5:a2V5",
		"SCRAM-SHA-256$4096:c2FsdA==$a2V5",
		"SCRAM-SHA-256$4096:c2FsdA==$a2V5:a2V5",
	} {
		_, err := m.Verify(stored, "pw")
		assert.ErrorIs(t, err, scram.ErrMalformedHash, "stored: %q", stored)
	}
}

func TestInvalidIterations(t *testing.T) {
	_, err := scram.SHA256().WithIterations(4095)
	assert.Error(t, err)
	_, err = scram.SHA1().Derive("pw", "", 10)
	assert.Error(t, err)
	_, err = scram.SHA1().Derive("", "", 4096)
	assert.Error(t, err)
}

func TestScheme(t *testing.T) {
	assert.Equal(t, "scram-sha-1", scram.SHA1().Scheme())
	assert.Equal(t, "scram-sha-256", scram.SHA256().Scheme())
}
