// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "errors"

// ErrPaymentAmountMissing indicates that a payment is being created
// without a positive amount.
var ErrPaymentAmountMissing = errors.New("amount must be positive")

// Payment models a payment which is recorded for a reservation.
// No payment gateway is involved, so Status is managed by clients.
type Payment struct {
	Identity `bson:",inline"`

	ReservationID string   `json:"reservationId,omitempty" bson:"reservationId,omitempty"`
	UserID        string   `json:"userId,omitempty" bson:"userId,omitempty"`
	Amount        *float64 `json:"amount,omitempty" bson:"amount,omitempty" binding:"omitempty,min=0"`
	Currency      string   `json:"currency,omitempty" bson:"currency,omitempty" binding:"omitempty,len=3,alpha"`
	Method        string   `json:"method,omitempty" bson:"method,omitempty"`
	Status        string   `json:"status,omitempty" bson:"status,omitempty" binding:"omitempty,oneof=pending paid failed refunded"`
}

// Validate returns ErrPaymentAmountMissing unless Amount is positive.
func (p *Payment) Validate() error {
	if p.Amount == nil {
		return ErrPaymentAmountMissing
	}
	return p.ValidateUpdate()
}

// ValidateUpdate returns ErrPaymentAmountMissing if Amount is given
// but it is not positive.
func (p *Payment) ValidateUpdate() error {
	if p.Amount != nil && *p.Amount <= 0 {
		return ErrPaymentAmountMissing
	}
	return nil
}
