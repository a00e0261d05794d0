// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Prober reports if the document store has been reached successfully.
// A false result means that all operations are going to fail and the
// requests should be rejected early.
type Prober interface {
	Ready(ctx context.Context) bool
}
