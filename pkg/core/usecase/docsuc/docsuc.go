// Copyright (c) 2023-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package docsuc contains the generic documents UseCase which supports
// the create, list, get, update, and delete use cases for one kind of
// entity. It is instantiated once per entity type (parkings, users,
// reservations, and payments) since their use cases only differ in the
// entity shape and the collection which keeps them.
package docsuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/cpweb/pkg/core/cerr"
	"github.com/momeni/cpweb/pkg/core/model"
	"github.com/momeni/cpweb/pkg/core/repo"
)

// UseCase represents the use cases of E documents. It holds the
// collection repository which keeps E documents and the preparers
// which should be applied on documents before they are stored.
// The P type parameter is the *E pointer type, giving access to the
// model.Identity and Validate methods.
type UseCase[E any, P model.Entity[E]] struct {
	docs repo.Collection[E]

	preparers []Preparer[E]
}

// New instantiates a documents use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New[E any, P model.Entity[E]](
	docs repo.Collection[E], opts ...Option[E, P],
) (*UseCase[E, P], error) {
	if docs == nil {
		return nil, errors.New("nil collection")
	}
	uc := &UseCase[E, P]{docs: docs}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return uc, nil
}

// Create use case validates the e document and stores it as a new
// document. Any client provided identifier is ignored because the
// store generates a fresh one. The stored document is returned.
func (uc *UseCase[E, P]) Create(ctx context.Context, e *E) (*E, error) {
	p := P(e)
	p.SetIdentifier("")
	if err := p.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	if err := uc.prepare(ctx, e); err != nil {
		return nil, err
	}
	return uc.docs.Insert(ctx, e)
}

// List use case returns all stored documents. An empty collection is
// reported as an empty (non-nil) slice.
func (uc *UseCase[E, P]) List(ctx context.Context) ([]E, error) {
	docs, err := uc.docs.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []E{}
	}
	return docs, nil
}

// Get use case returns the id document.
func (uc *UseCase[E, P]) Get(ctx context.Context, id string) (*E, error) {
	return uc.docs.FindByID(ctx, id)
}

// Update use case merges the non-empty fields of e into the id
// document and returns the updated document. Mandatory fields are not
// required since missing fields are kept unchanged.
func (uc *UseCase[E, P]) Update(
	ctx context.Context, id string, e *E,
) (*E, error) {
	P(e).SetIdentifier("")
	if v, ok := any(P(e)).(model.UpdateValidator); ok {
		if err := v.ValidateUpdate(); err != nil {
			return nil, cerr.BadRequest(err)
		}
	}
	if err := uc.prepare(ctx, e); err != nil {
		return nil, err
	}
	return uc.docs.UpdateByID(ctx, id, e)
}

// Delete use case removes the id document.
func (uc *UseCase[E, P]) Delete(ctx context.Context, id string) error {
	return uc.docs.DeleteByID(ctx, id)
}

// Collection returns the collection repository of this use case, so other
// use cases which extend it may run their own queries.
func (uc *UseCase[E, P]) Collection() repo.Collection[E] {
	return uc.docs
}

func (uc *UseCase[E, P]) prepare(ctx context.Context, e *E) error {
	for _, p := range uc.preparers {
		if err := p(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
