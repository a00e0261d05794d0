// Copyright (c) 2024-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the generic helpers which are used by the
// configuration structs for filling their missing (nil) settings and
// the setting types which need a custom (de)serialization format.
package settings

import "os"

// Nil2Default overwrites the (*t) pointer, which should be nil, in
// order to point to a newly allocated T instance which is initialized
// with the def default value.
// If the (*t) pointer was not nil, Nil2Default will perform no action.
func Nil2Default[T any](t **T, def T) {
	if (*t) != nil {
		return
	}
	(*t) = &def
}

// Env is the signature of os.LookupEnv, so environment variables may
// be replaced by a map in the test cases.
type Env func(key string) (string, bool)

// OSEnv looks up the process environment variables.
var OSEnv Env = os.LookupEnv

// OverwriteFromEnv replaces (*dst) with the value of the key
// environment variable, if that variable is set to a non-empty value.
// The parse function converts the variable string to a T value and its
// errors are returned after wrapping with the variable name.
func OverwriteFromEnv[T any](
	env Env, key string, dst *T, parse func(string) (T, error),
) error {
	s, ok := env(key)
	if !ok || s == "" {
		return nil
	}
	v, err := parse(s)
	if err != nil {
		return &EnvError{Key: key, Err: err}
	}
	*dst = v
	return nil
}

// String is a parse function for OverwriteFromEnv which accepts any
// string as it is.
func String(s string) (string, error) {
	return s, nil
}

// EnvError indicates that an environment variable could not be parsed.
type EnvError struct {
	Key string
	Err error
}

func (e *EnvError) Error() string {
	return "environment variable " + e.Key + ": " + e.Err.Error()
}

func (e *EnvError) Unwrap() error {
	return e.Err
}
