// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"time"
)

// These errors are returned by the Reservation.Validate method.
var (
	ErrReservationParkingMissing = errors.New("parkingId is required")
	ErrReservationUserMissing    = errors.New("userId is required")
	ErrReservationEndsEarly      = errors.New("endsAt must be after startsAt")
)

// Reservation models the reservation of a parking by a user. Both of
// the ParkingID and UserID are kept as opaque references and are not
// checked against the parkings and users collections.
type Reservation struct {
	Identity `bson:",inline"`

	ParkingID string     `json:"parkingId,omitempty" bson:"parkingId,omitempty"`
	UserID    string     `json:"userId,omitempty" bson:"userId,omitempty"`
	StartsAt  *time.Time `json:"startsAt,omitempty" bson:"startsAt,omitempty"`
	EndsAt    *time.Time `json:"endsAt,omitempty" bson:"endsAt,omitempty"`
	Status    string     `json:"status,omitempty" bson:"status,omitempty" binding:"omitempty,oneof=pending confirmed cancelled completed"`
}

// Validate ensures that the parking and user references are present
// and the reservation interval (if given) is not empty.
func (r *Reservation) Validate() error {
	switch {
	case r.ParkingID == "":
		return ErrReservationParkingMissing
	case r.UserID == "":
		return ErrReservationUserMissing
	}
	return r.ValidateUpdate()
}

// ValidateUpdate ensures that the reservation interval is not empty if
// both of its ends are given. An update which changes only one end is
// not compared with the stored other end.
func (r *Reservation) ValidateUpdate() error {
	if r.StartsAt != nil && r.EndsAt != nil && !r.EndsAt.After(*r.StartsAt) {
		return ErrReservationEndsEarly
	}
	return nil
}
