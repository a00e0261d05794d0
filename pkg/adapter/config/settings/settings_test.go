// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/momeni/cpweb/pkg/adapter/config/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationMarshal(t *testing.T) {
	for _, tc := range []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{90 * time.Second, "1m30s"},
		{2 * time.Minute, "2m"},
		{3 * time.Hour, "3h"},
		{time.Hour + time.Minute, "1h1m"},
	} {
		d := settings.Duration(tc.d)
		assert.Equal(t, tc.want, *d.Marshal())
	}
	var nilDuration *settings.Duration
	assert.Nil(t, nilDuration.Marshal())
	assert.Equal(t, "nil-duration", nilDuration.LogValue().String())
}

func TestDurationUnmarshal(t *testing.T) {
	d := settings.Duration(time.Second)
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Std())
	assert.Error(t, d.UnmarshalText([]byte("soon")))
	assert.Equal(t, 90*time.Second, d.Std(), "changed by a failure")
}

func TestNilHelpers(t *testing.T) {
	var b *bool
	settings.Nil2Default(&b, true)
	require.NotNil(t, b)
	assert.True(t, *b)
	settings.Nil2Default(&b, false)
	assert.True(t, *b, "non-nil pointer is overwritten")
}

func TestOverwriteFromEnv(t *testing.T) {
	env := func(key string) (string, bool) {
		switch key {
		case "N":
			return "7", true
		case "BAD":
			return "x", true
		case "EMPTY":
			return "", true
		}
		return "", false
	}
	n := 1
	require.NoError(t, settings.OverwriteFromEnv(env, "N", &n, strconv.Atoi))
	assert.Equal(t, 7, n)
	require.NoError(t, settings.OverwriteFromEnv(env, "EMPTY", &n, strconv.Atoi))
	require.NoError(t, settings.OverwriteFromEnv(env, "UNSET", &n, strconv.Atoi))
	assert.Equal(t, 7, n)

	err := settings.OverwriteFromEnv(env, "BAD", &n, strconv.Atoi)
	var ee *settings.EnvError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "BAD", ee.Key)
	assert.Equal(t, 7, n)
}
