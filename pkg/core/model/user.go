// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "errors"

// These errors are returned by the User.Validate method.
var (
	ErrUsernameMissing = errors.New("username is required")
	ErrPasswordMissing = errors.New("password is required")
)

// User models a person who may reserve parkings and pay for them.
// The Password field keeps whatever the configured password scheme
// produces. With the plain scheme, it is the password itself.
type User struct {
	Identity `bson:",inline"`

	Username  string `json:"username,omitempty" bson:"username,omitempty"`
	Password  string `json:"password,omitempty" bson:"password,omitempty"`
	Email     string `json:"email,omitempty" bson:"email,omitempty" binding:"omitempty,email"`
	FirstName string `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// Validate ensures that both of username and password are present.
func (u *User) Validate() error {
	switch {
	case u.Username == "":
		return ErrUsernameMissing
	case u.Password == "":
		return ErrPasswordMissing
	}
	return nil
}
