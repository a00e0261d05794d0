// Copyright (c) 2024-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import (
	"fmt"

	"github.com/momeni/cpweb/pkg/core/model"
)

// VersionError indicates that a configuration file (or any other
// versioned artifact) has a version which may not be handled by the
// running binary. Supported is the latest known version with the same
// major version and Actual is the version which was found.
type VersionError struct {
	Supported model.SemVer
	Actual    model.SemVer
}

// Error returns a string representation of `ve` error instance.
func (ve *VersionError) Error() string {
	return fmt.Sprintf(
		"v%s is not compatible with v%s",
		ve.Actual.String(), ve.Supported.String(),
	)
}
