// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package mongo is the persistence gateway adapter. It holds the one
// shared connection to a MongoDB document store which is created at
// startup and is passed to all repositories (see the docrp package).
//
// A store which may not be reached at startup does not prevent the
// web server from starting. Instead, the Gateway is reported as not
// ready, so requests may be rejected with a service unavailable status,
// and the store is probed again lazily. Delays between probes grow
// exponentially up to the configured probe interval.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jpillora/backoff"
	"github.com/momeni/cpweb/pkg/core/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/singleflight"
)

// These are the names of collections which keep the entities.
const (
	ParkingsCollection     = "parkings"
	UsersCollection        = "users"
	ReservationsCollection = "reservations"
	PaymentsCollection     = "payments"
)

// Gateway wraps a mongo.Client and one of its databases.
// It is safe for concurrent use.
type Gateway struct {
	client *mongo.Client
	db     *mongo.Database

	connectTimeout time.Duration
	probeInterval  time.Duration

	ready     atomic.Bool
	mu        sync.Mutex
	lastProbe time.Time
	delay     time.Duration // after lastProbe, before the next probe
	retry     backoff.Backoff
	probes    singleflight.Group
}

// NewGateway creates a client for the uri connection string and
// selects the dbName database. Then, it probes the server once.
// The returned error is non-nil only if the uri or options are invalid.
// A failed probe is logged and the Gateway is returned as not ready.
func NewGateway(
	ctx context.Context, uri, dbName string, opts ...Option,
) (*Gateway, error) {
	if dbName == "" {
		return nil, errors.New("database name is empty")
	}
	g := &Gateway{
		connectTimeout: 10 * time.Second,
		probeInterval:  30 * time.Second,
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if g.probeInterval > 0 {
		g.retry = backoff.Backoff{
			Min:    min(time.Second, g.probeInterval),
			Max:    g.probeInterval,
			Factor: 2,
		}
	}
	co := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(g.connectTimeout).
		SetServerSelectionTimeout(g.connectTimeout)
	client, err := mongo.Connect(ctx, co)
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}
	g.client = client
	g.db = client.Database(dbName)
	if err := g.probe(ctx); err != nil {
		log.Warn(
			ctx, "document store is not reachable, starting anyway",
			log.Err("error", err),
		)
	}
	return g, nil
}

// Ready reports if the document store has been reached. While it has
// not been reached, a new probe is started if the last failed probe is
// older than the current delay. Concurrent callers share the same probe.
// The shared probe is detached from the cancellation of ctx, so one
// caller going away does not fail the probe for the others; it is
// still bounded by the connect timeout.
func (g *Gateway) Ready(ctx context.Context) bool {
	if g.ready.Load() {
		return true
	}
	g.mu.Lock()
	due := time.Since(g.lastProbe) >= g.delay
	g.mu.Unlock()
	if !due {
		return false
	}
	pctx := context.WithoutCancel(ctx)
	_, _, _ = g.probes.Do("probe", func() (any, error) {
		err := g.probe(pctx)
		if err == nil {
			log.Info(ctx, "document store is reachable now")
		}
		return nil, err
	})
	return g.ready.Load()
}

// Probe pings the primary server and updates the readiness flag.
func (g *Gateway) Probe(ctx context.Context) error {
	return g.probe(ctx)
}

func (g *Gateway) probe(ctx context.Context) error {
	g.mu.Lock()
	g.lastProbe = time.Now()
	g.mu.Unlock()
	ctx, cancel := context.WithTimeout(ctx, g.connectTimeout)
	defer cancel()
	if err := g.client.Ping(ctx, readpref.Primary()); err != nil {
		g.mu.Lock()
		if g.probeInterval > 0 {
			g.delay = g.retry.Duration()
		}
		g.mu.Unlock()
		return fmt.Errorf("ping: %w", err)
	}
	g.ready.Store(true)
	return nil
}

// Collection returns a handle of the name collection.
// No round trip is performed.
func (g *Gateway) Collection(name string) *mongo.Collection {
	return g.db.Collection(name)
}

// EnsureIndexes creates the indexes which are relied upon by the
// repositories, namely, a unique index on the username of users.
// Creating an existing index is a no-op.
func (g *Gateway) EnsureIndexes(ctx context.Context) error {
	_, err := g.Collection(UsersCollection).Indexes().CreateOne(
		ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_unique"),
		},
	)
	if err != nil {
		return fmt.Errorf("creating users index: %w", err)
	}
	return nil
}

// Close disconnects the client. The Gateway may not be used anymore.
func (g *Gateway) Close(ctx context.Context) error {
	return g.client.Disconnect(ctx)
}
