// Copyright (c) 2024-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"log/slog"
	"strings"
	"time"
)

// Duration is a time.Duration which is read from and written into
// configuration files in its human-readable form, e.g., 1m30s.
type Duration time.Duration

// UnmarshalText parses data in the time.ParseDuration format.
// The `d` receiver is updated only if data could be parsed.
func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

// Std returns `d` as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Marshal returns a string representation of the `d` time duration,
// or nil if d is nil, so optional settings stay absent when they are
// written out (see the cfg1.Config.Marshal method).
// Zero trailing units are dropped, so 2m is written instead of 2m0s
// and 1h instead of 1h0m0s.
func (d *Duration) Marshal() *string {
	if d == nil {
		return nil
	}
	s := d.Std().String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return &s
}

// LogValue implements slog.LogValuer, so durations are logged as
// slog.DurationValue, and a nil Duration as "nil-duration".
func (d *Duration) LogValue() slog.Value {
	if d == nil {
		return slog.StringValue("nil-duration")
	}
	return slog.DurationValue(d.Std())
}
