// Copyright (c) 2024-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SemVer represents a released semantic version with its major, minor,
// and patch components. It versions the configuration file format, so
// a binary can tell whether it understands a given file.
// Pre-release versions are not supported.
type SemVer [3]uint

// UnmarshalText parses text as one to three dot-separated non-negative
// numbers, so "1" and "1.0" are read as 1.0.0 too. In case of errors,
// sv is left unchanged.
func (sv *SemVer) UnmarshalText(text []byte) error {
	p := strings.Split(string(text), ".")
	if len(p) > 3 {
		return fmt.Errorf("the %q has more than three components", text)
	}
	var v SemVer
	for i, s := range p {
		n, err := strconv.ParseUint(s, 10, 0)
		if err != nil {
			return fmt.Errorf("the %q component is not a number", s)
		}
		v[i] = uint(n)
	}
	*sv = v
	return nil
}

// Marshal returns the string representation of sv which is used when
// it is written into YAML files.
func (sv *SemVer) Marshal() string {
	return sv.String()
}

// MarshalText implements the encoding.TextMarshaler interface.
func (sv *SemVer) MarshalText() ([]byte, error) {
	return []byte(sv.String()), nil
}

// String returns sv as major.minor.patch string.
func (sv SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", sv[0], sv[1], sv[2])
}

// CompatibleWith reports if an artifact having the sv version can be
// read by a binary which knows about the supported version. Major
// versions must be equal and sv may not be newer in its minor version.
// Patch versions do not affect the format.
func (sv SemVer) CompatibleWith(supported SemVer) bool {
	return sv[0] == supported[0] && sv[1] <= supported[1]
}
