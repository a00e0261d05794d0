// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Coordinate represents a geographical location with a latitude and
// longitude. It is embedded as a nested document in the Parking.
type Coordinate struct {
	Lat float64 `json:"lat" bson:"lat" binding:"min=-90,max=90"`
	Lon float64 `json:"lon" bson:"lon" binding:"min=-180,max=180"`
}
