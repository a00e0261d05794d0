// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "errors"

// ErrParkingNameMissing indicates that a parking is being created
// without a name.
var ErrParkingNameMissing = errors.New("parking name is required")

// Parking models a parking lot which may be reserved by users.
type Parking struct {
	Identity `bson:",inline"`

	Name         string      `json:"name,omitempty" bson:"name,omitempty"`
	Address      string      `json:"address,omitempty" bson:"address,omitempty"`
	Location     *Coordinate `json:"location,omitempty" bson:"location,omitempty"`
	Capacity     *int        `json:"capacity,omitempty" bson:"capacity,omitempty" binding:"omitempty,min=0"`
	PricePerHour *float64    `json:"pricePerHour,omitempty" bson:"pricePerHour,omitempty" binding:"omitempty,min=0"`
}

// Validate returns ErrParkingNameMissing if the parking has no name.
func (p *Parking) Validate() error {
	if p.Name == "" {
		return ErrParkingNameMissing
	}
	return nil
}
