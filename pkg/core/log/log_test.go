// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/momeni/cpweb/pkg/core/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, nil)))
	defer slog.SetDefault(prev)

	ctx := log.With(context.Background(), slog.String("request_id", "r1"))
	ctx = log.With(ctx, slog.Int("attempt", 2))
	log.Debug(ctx, "hidden")
	log.Warn(ctx, "failed", log.Err("error", errors.New("boom")))

	rec := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), buf.String())
	assert.Equal(t, "failed", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "r1", rec["request_id"])
	assert.Equal(t, float64(2), rec["attempt"])
	assert.Equal(t, "boom", rec["error"])
}

func TestErrNil(t *testing.T) {
	assert.Equal(t, "no-error", log.Err("error", nil).Value.String())
}
