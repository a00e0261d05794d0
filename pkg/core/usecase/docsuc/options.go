// Copyright (c) 2023-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package docsuc

import (
	"context"
	"errors"

	"github.com/momeni/cpweb/pkg/core/model"
)

// Preparer adjusts a document right before it is inserted or merged
// into the store. For example, the users use case hashes passwords.
// Returned errors abort the operation and are reported as they are.
type Preparer[E any] func(ctx context.Context, e *E) error

// Option is a functional option for the documents use case.
type Option[E any, P model.Entity[E]] func(uc *UseCase[E, P]) error

// WithPreparer option appends the p preparer to the list of preparers
// which are called (in the same order as they were given) for each
// Create or Update use case. This option may be passed to the New()
// function multiple times.
func WithPreparer[E any, P model.Entity[E]](p Preparer[E]) Option[E, P] {
	return func(uc *UseCase[E, P]) error {
		if p == nil {
			return errors.New("nil preparer")
		}
		uc.preparers = append(uc.preparers, p)
		return nil
	}
}
