// Copyright (c) 2023-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all use case and resource packages
// based on the given repositories and credentials verifier.
package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	ginadapter "github.com/momeni/cpweb/pkg/adapter/restful/gin"
	"github.com/momeni/cpweb/pkg/adapter/restful/gin/docsrs"
	"github.com/momeni/cpweb/pkg/adapter/restful/gin/usersrs"
	"github.com/momeni/cpweb/pkg/core/auth"
	"github.com/momeni/cpweb/pkg/core/model"
	"github.com/momeni/cpweb/pkg/core/repo"
	"github.com/momeni/cpweb/pkg/core/usecase/docsuc"
	"github.com/momeni/cpweb/pkg/core/usecase/usersuc"
)

// Repos holds one collection repository per entity type. The routes
// package does not care which adapter implements them, so tests may
// pass in-memory collections.
type Repos struct {
	Parkings     repo.Collection[model.Parking]
	Users        repo.Collection[model.User]
	Reservations repo.Collection[model.Reservation]
	Payments     repo.Collection[model.Payment]
}

// Register instantiates the documents use cases for all entity types
// and the users use case (which employs the v verifier for passwords).
// It registers their resources on the e engine behind a readiness
// guard which consults the p prober, and registers the /healthz route
// which reports the same readiness without the guard.
// Possible errors will be returned after possible wrapping.
func Register(e *gin.Engine, p repo.Prober, r Repos, v auth.Verifier) error {
	parkings, err := docsuc.New(r.Parkings)
	if err != nil {
		return fmt.Errorf("creating parkings use case: %w", err)
	}
	reservations, err := docsuc.New(r.Reservations)
	if err != nil {
		return fmt.Errorf("creating reservations use case: %w", err)
	}
	payments, err := docsuc.New(r.Payments)
	if err != nil {
		return fmt.Errorf("creating payments use case: %w", err)
	}
	users, err := usersuc.New(r.Users, v)
	if err != nil {
		return fmt.Errorf("creating users use case: %w", err)
	}
	e.GET("/healthz", ginadapter.Health(p))
	g := e.Group("/", ginadapter.RequireReady(p))
	docsrs.Register(g, "parking", parkings)
	usersrs.Register(g, users)
	docsrs.Register(g, "reservation", reservations)
	docsrs.Register(g, "payment", payments)
	return nil
}
