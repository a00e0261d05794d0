// Copyright (c) 2023-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the cpweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// These settings may be versioned and maintained by sub-packages.
// However, the parsed and validated configurations should be passed
// to their ultimate components as a series of individual params (for
// the mandatory items) and a series of functional options (for
// the optional items), so they may be accumulated and validated
// in the relevant end-component such as a Gateway instance.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/momeni/cpweb/pkg/adapter/config/cfg1"
	"github.com/momeni/cpweb/pkg/adapter/config/settings"
	"github.com/momeni/cpweb/pkg/adapter/config/vers"
)

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
// Given path must belong to a configuration file which conforms with
// the latest known major version of the configuration settings format.
// An empty path, or a path which does not exist while optional is true,
// yields the default settings. In all cases, the process environment
// variables may override the loaded settings (see cfg1.Load).
func Load(path string, optional bool) (*cfg1.Config, error) {
	return load(path, optional, settings.OSEnv)
}

func load(path string, optional bool, env settings.Env) (*cfg1.Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		switch {
		case err == nil:
		case optional && errors.Is(err, fs.ErrNotExist):
			data = nil
		default:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	if len(data) > 0 {
		v, err := vers.Load(data)
		if err != nil {
			return nil, fmt.Errorf("loading versions: %w", err)
		}
		if err := v.Validate(cfg1.Version); err != nil {
			return nil, fmt.Errorf("unexpected config version: %w", err)
		}
	}
	c, err := cfg1.Load(data, env)
	if err != nil {
		return nil, fmt.Errorf("loading cfg1.Config: %w", err)
	}
	return c, nil
}
