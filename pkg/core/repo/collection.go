// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo specifies the expected interfaces from the repositories
// which are implemented by the adapters layer. The use cases layer
// depends on these interfaces and so stays independent of the actual
// document store and its driver.
package repo

import (
	"context"
	"errors"
)

// ErrNotFound indicates that no document matched with the requested
// identifier or filter. Repositories return it wrapped by a
// cerr.NotFound error, so it is reported as a 404 status, unless
// the caller decides to translate it otherwise.
var ErrNotFound = errors.New("document not found")

// Collection of E represents a named collection of E documents in the
// document store. Each method performs exactly one round trip to the
// store. The E type is an entity struct (such as model.Parking) which
// embeds model.Identity, so the returned documents carry their
// store-generated identifiers.
type Collection[E any] interface {
	// Insert stores e as a new document and returns it with its
	// generated identifier.
	Insert(ctx context.Context, e *E) (*E, error)

	// FindAll returns all documents in the store natural order.
	FindAll(ctx context.Context) ([]E, error)

	// FindByID returns the document which is identified by id.
	FindByID(ctx context.Context, id string) (*E, error)

	// FindOne returns one document whose field is equal to value.
	FindOne(ctx context.Context, field string, value any) (*E, error)

	// UpdateByID merges the non-empty fields of e into the document
	// which is identified by id and returns the updated document.
	UpdateByID(ctx context.Context, id string, e *E) (*E, error)

	// DeleteByID removes the document which is identified by id.
	DeleteByID(ctx context.Context, id string) error
}
