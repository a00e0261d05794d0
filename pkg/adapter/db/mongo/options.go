// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mongo

import (
	"fmt"
	"time"
)

// Option is a functional option for the NewGateway function.
type Option func(g *Gateway) error

// WithConnectTimeout bounds the connection establishment, server
// selection, and each readiness probe by d.
func WithConnectTimeout(d time.Duration) Option {
	return func(g *Gateway) error {
		if d <= 0 {
			return fmt.Errorf("connect timeout (%v) is not positive", d)
		}
		g.connectTimeout = d
		return nil
	}
}

// WithProbeInterval sets the maximum delay between two probes of a
// document store which has not been reached yet. Delays start from one
// second (or d if it is shorter) and double after each failed probe.
// A zero d probes the store whenever its readiness is queried.
func WithProbeInterval(d time.Duration) Option {
	return func(g *Gateway) error {
		if d < 0 {
			return fmt.Errorf("probe interval (%v) is negative", d)
		}
		g.probeInterval = d
		return nil
	}
}
