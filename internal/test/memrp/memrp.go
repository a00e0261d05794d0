// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memrp provides an in-memory realization of the documents
// repository and a controllable readiness prober, so use cases and
// resources may be tested without a running document store.
//
// Documents are kept as their JSON objects, so stored and returned
// entities never share memory and merging updates behave like a $set
// of the non-empty fields.
package memrp

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/momeni/cpweb/pkg/core/cerr"
	"github.com/momeni/cpweb/pkg/core/model"
	"github.com/momeni/cpweb/pkg/core/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type document = map[string]json.RawMessage

// Collection implements repo.Collection[E] in memory. Documents are
// listed in their insertion order.
type Collection[E any, P model.Entity[E]] struct {
	mu     sync.Mutex
	ids    []string
	docs   map[string]document
	unique []string

	roundTrips atomic.Int64
}

var _ repo.Collection[model.User] = (*Collection[model.User, *model.User])(nil)

// New instantiates an empty collection. The unique fields are checked
// upon insertions and updates, similar to unique indexes, and a duplicate value
// causes a conflict error.
func New[E any, P model.Entity[E]](unique ...string) *Collection[E, P] {
	return &Collection[E, P]{
		docs:   make(map[string]document),
		unique: unique,
	}
}

// RoundTrips returns the number of repository calls which were made.
func (c *Collection[E, P]) RoundTrips() int64 {
	return c.roundTrips.Load()
}

func (c *Collection[E, P]) Insert(_ context.Context, e *E) (*E, error) {
	c.roundTrips.Add(1)
	d, err := toDocument(e)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err = c.conflict(d, ""); err != nil {
		return nil, err
	}
	id := primitive.NewObjectID().Hex()
	c.ids = append(c.ids, id)
	c.docs[id] = d
	return fromDocument[E, P](id, d)
}

func (c *Collection[E, P]) FindAll(_ context.Context) ([]E, error) {
	c.roundTrips.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	all := make([]E, 0, len(c.ids))
	for _, id := range c.ids {
		e, err := fromDocument[E, P](id, c.docs[id])
		if err != nil {
			return nil, err
		}
		all = append(all, *e)
	}
	return all, nil
}

func (c *Collection[E, P]) FindByID(_ context.Context, id string) (*E, error) {
	c.roundTrips.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.docs[id]
	if !ok {
		return nil, cerr.NotFound(repo.ErrNotFound)
	}
	return fromDocument[E, P](id, d)
}

func (c *Collection[E, P]) FindOne(
	_ context.Context, field string, value any,
) (*E, error) {
	c.roundTrips.Add(1)
	v, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshalling %s value: %w", field, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.ids {
		d := c.docs[id]
		if string(d[field]) == string(v) {
			return fromDocument[E, P](id, d)
		}
	}
	return nil, cerr.NotFound(repo.ErrNotFound)
}

func (c *Collection[E, P]) UpdateByID(
	_ context.Context, id string, e *E,
) (*E, error) {
	c.roundTrips.Add(1)
	fields, err := toDocument(e)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.docs[id]
	if !ok {
		return nil, cerr.NotFound(repo.ErrNotFound)
	}
	if err = c.conflict(fields, id); err != nil {
		return nil, err
	}
	for k, v := range fields {
		d[k] = v
	}
	return fromDocument[E, P](id, d)
}

func (c *Collection[E, P]) DeleteByID(_ context.Context, id string) error {
	c.roundTrips.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return cerr.NotFound(repo.ErrNotFound)
	}
	delete(c.docs, id)
	for i, x := range c.ids {
		if x == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}
	return nil
}

// conflict checks the unique fields of d against all stored documents
// except the one whose identifier is except. Caller must hold c.mu.
func (c *Collection[E, P]) conflict(d document, except string) error {
	for _, f := range c.unique {
		v, ok := d[f]
		if !ok {
			continue
		}
		for _, id := range c.ids {
			if id != except && string(c.docs[id][f]) == string(v) {
				return cerr.Conflict(fmt.Errorf(
					"duplicate %s: %s", f, v,
				))
			}
		}
	}
	return nil
}

func toDocument[E any](e *E) (document, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshalling document: %w", err)
	}
	d := make(document)
	if err = json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshalling document: %w", err)
	}
	delete(d, "_id")
	return d, nil
}

func fromDocument[E any, P model.Entity[E]](
	id string, d document,
) (*E, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshalling document: %w", err)
	}
	e := new(E)
	if err = json.Unmarshal(data, e); err != nil {
		return nil, fmt.Errorf("unmarshalling document: %w", err)
	}
	P(e).SetIdentifier(id)
	return e, nil
}

// Prober is a repo.Prober whose readiness is controlled by tests.
// A zero Prober is not ready.
type Prober struct {
	ready atomic.Bool
}

// NewProber returns a Prober which reports the ready readiness.
func NewProber(ready bool) *Prober {
	p := &Prober{}
	p.ready.Store(ready)
	return p
}

// SetReady changes the reported readiness.
func (p *Prober) SetReady(ready bool) {
	p.ready.Store(ready)
}

func (p *Prober) Ready(context.Context) bool {
	return p.ready.Load()
}
