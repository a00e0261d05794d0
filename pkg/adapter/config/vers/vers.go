// Copyright (c) 2024-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vers contains the common versions parsing which is required
// by all config versions. The idea is that the version should be known
// before trying to obtain and parse the actual data, so the actual
// data format can be known and verified when loading them. Although
// the format of keeping versions may change too, but it is less likely
// to change over time.
//
// Documents of the store are schemaless, so only the configuration
// file format is versioned.
package vers

import (
	"github.com/momeni/cpweb/pkg/core/cerr"
	"github.com/momeni/cpweb/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// Config contains the versions of those system components which have
// a versioned format. It may be embedded with inline format in the
// released config struct versions in order to indicate their versions.
type Config struct {
	Versions Versions `yaml:"versions"`
}

// Versions contains the configuration file version which is used for
// detecting its format.
type Versions struct {
	Config model.SemVer `yaml:"config"`
}

// Marshalled is an alternative form of Config struct which replaces
// its model.SemVer inner fields by their string representation.
// The Marshalled is used during the YAML serialization operation
// instead of the main Config struct.
type Marshalled struct {
	Versions struct {
		Config string
	}
}

// Marshal creates and returns a Marshalled instance representing the vc
// Config instance. It may be serialized instead of vc to YAML format.
func (vc *Config) Marshal() *Marshalled {
	m := &Marshalled{}
	m.Versions.Config = vc.Versions.Config.Marshal()
	return m
}

// Load deserializes the data byte slice into a new instance of Config
// struct. Of course, data may contain extra fields which will be
// ignored. The deserialized version fields (in the returned Config)
// can be used to detect the format of other settings in the data and
// complete deserialization of the remaining fields.
func Load(data []byte) (*Config, error) {
	vc := &Config{}
	if err := yaml.Unmarshal(data, vc); err != nil {
		return nil, err
	}
	return vc, nil
}

// Validate returns an error if the configuration settings version which
// is stored in the `vc` Config instance is not supported by the given
// supported version. That is, stored major version must match with the
// supported major version and the stored minor version must be at most
// equal with the supported minor version (not newer than it).
// The returned error is a *cerr.VersionError.
func (vc *Config) Validate(supported model.SemVer) error {
	v := vc.Versions.Config
	if !v.CompatibleWith(supported) {
		return &cerr.VersionError{Supported: supported, Actual: v}
	}
	return nil
}
