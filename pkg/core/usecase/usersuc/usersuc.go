// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersuc contains the users UseCase which extends the generic
// documents use cases (see docsuc) for the users collection with:
//  1. Converting passwords before they are stored,
//  2. Authenticating a user by its username and password.
//
// The password storage scheme is provided by an auth.Verifier, so the
// legacy plain-text scheme and hashed schemes are interchangeable.
package usersuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/cpweb/pkg/core/auth"
	"github.com/momeni/cpweb/pkg/core/cerr"
	"github.com/momeni/cpweb/pkg/core/log"
	"github.com/momeni/cpweb/pkg/core/model"
	"github.com/momeni/cpweb/pkg/core/repo"
	"github.com/momeni/cpweb/pkg/core/usecase/docsuc"
)

// ErrInvalidCredentials is reported (as an authentication error) when
// the username is unknown or the password does not match. These two
// cases are not distinguished in order to avoid usernames enumeration.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Docs is the generic documents use case for users.
type Docs = docsuc.UseCase[model.User, *model.User]

// UseCase represents the users use case. It embeds the users documents
// use case, so all CRUD use cases are available on it directly.
type UseCase struct {
	*Docs

	verifier auth.Verifier
}

// New instantiates a users use case which stores users in the users
// collection and converts their passwords using the v verifier.
func New(users repo.Collection[model.User], v auth.Verifier) (
	*UseCase, error,
) {
	if v == nil {
		return nil, errors.New("nil verifier")
	}
	uc := &UseCase{verifier: v}
	docs, err := docsuc.New(
		users,
		docsuc.WithPreparer[model.User, *model.User](uc.hashPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("docsuc.New: %w", err)
	}
	uc.Docs = docs
	return uc, nil
}

func (uc *UseCase) hashPassword(_ context.Context, u *model.User) error {
	if u.Password == "" {
		return nil // nothing to store or merge
	}
	h, err := uc.verifier.Hash(u.Password)
	if err != nil {
		return cerr.BadRequest(fmt.Errorf("password: %w", err))
	}
	u.Password = h
	return nil
}

// Authenticate use case looks up the username user and checks that
// its stored password matches with the given password. The matched
// user is returned. An unknown username or a wrong password cause an
// authentication error wrapping ErrInvalidCredentials.
func (uc *UseCase) Authenticate(
	ctx context.Context, username, password string,
) (*model.User, error) {
	u, err := uc.Collection().FindOne(ctx, "username", username)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil, cerr.Authentication(ErrInvalidCredentials)
	case err != nil:
		return nil, fmt.Errorf("finding user: %w", err)
	}
	ok, err := uc.verifier.Verify(u.Password, password)
	if err != nil {
		log.Warn(
			ctx, "stored password could not be verified",
			log.Err("error", err),
		)
		return nil, cerr.Authentication(ErrInvalidCredentials)
	}
	if !ok {
		return nil, cerr.Authentication(ErrInvalidCredentials)
	}
	return u, nil
}

// Scheme returns the name of the configured password storage scheme.
func (uc *UseCase) Scheme() string {
	return uc.verifier.Scheme()
}
