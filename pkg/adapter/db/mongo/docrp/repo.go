// Copyright (c) 2023-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package docrp realizes the generic documents repository on top of
// the MongoDB persistence gateway. One Repo is instantiated for each
// entity type, keeping its documents in one named collection.
package docrp

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/cpweb/pkg/adapter/db/mongo"
	"github.com/momeni/cpweb/pkg/core/cerr"
	"github.com/momeni/cpweb/pkg/core/model"
	"github.com/momeni/cpweb/pkg/core/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repo implements repo.Collection[E] for a MongoDB collection.
type Repo[E any, P model.Entity[E]] struct {
	coll *mongodrv.Collection
}

var _ repo.Collection[model.Parking] = (*Repo[model.Parking, *model.Parking])(nil)

// New instantiates a repository for the name collection of the g
// gateway.
func New[E any, P model.Entity[E]](g *mongo.Gateway, name string) *Repo[E, P] {
	return &Repo[E, P]{coll: g.Collection(name)}
}

// Insert stores e and returns it after setting its generated _id.
func (r *Repo[E, P]) Insert(ctx context.Context, e *E) (*E, error) {
	res, err := r.coll.InsertOne(ctx, e)
	if err != nil {
		if mongodrv.IsDuplicateKeyError(err) {
			return nil, cerr.Conflict(errors.New("duplicate document"))
		}
		return nil, fmt.Errorf("inserting document: %w", err)
	}
	P(e).SetIdentifier(idString(res.InsertedID))
	return e, nil
}

// FindAll returns all documents of the collection in natural order.
func (r *Repo[E, P]) FindAll(ctx context.Context) ([]E, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("finding documents: %w", err)
	}
	defer cur.Close(ctx)
	docs := []E{}
	for cur.Next(ctx) {
		e, err := decode[E, P](cur.Current)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *e)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// FindByID returns the id document. Malformed identifiers can not
// belong to any document and are reported as not found too.
func (r *Repo[E, P]) FindByID(ctx context.Context, id string) (*E, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, cerr.NotFound(repo.ErrNotFound)
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

// FindOne returns one document having value in its field.
func (r *Repo[E, P]) FindOne(
	ctx context.Context, field string, value any,
) (*E, error) {
	return r.findOne(ctx, bson.D{{Key: field, Value: value}})
}

func (r *Repo[E, P]) findOne(ctx context.Context, filter bson.D) (*E, error) {
	raw, err := r.coll.FindOne(ctx, filter).Raw()
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return nil, cerr.NotFound(repo.ErrNotFound)
		}
		return nil, fmt.Errorf("finding document: %w", err)
	}
	return decode[E, P](raw)
}

// UpdateByID sets the non-empty fields of e in the id document and
// returns the document after the update. If e has no non-empty field,
// the id document is returned unchanged.
func (r *Repo[E, P]) UpdateByID(
	ctx context.Context, id string, e *E,
) (*E, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, cerr.NotFound(repo.ErrNotFound)
	}
	filter := bson.D{{Key: "_id", Value: oid}}
	fields, err := bson.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	if elems, err := bson.Raw(fields).Elements(); err != nil {
		return nil, fmt.Errorf("inspecting document: %w", err)
	} else if len(elems) == 0 {
		return r.findOne(ctx, filter)
	}
	update := bson.D{{Key: "$set", Value: bson.Raw(fields)}}
	raw, err := r.coll.FindOneAndUpdate(
		ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Raw()
	switch {
	case errors.Is(err, mongodrv.ErrNoDocuments):
		return nil, cerr.NotFound(repo.ErrNotFound)
	case mongodrv.IsDuplicateKeyError(err):
		return nil, cerr.Conflict(errors.New("duplicate document"))
	case err != nil:
		return nil, fmt.Errorf("updating document: %w", err)
	}
	return decode[E, P](raw)
}

// DeleteByID removes the id document.
func (r *Repo[E, P]) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return cerr.NotFound(repo.ErrNotFound)
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if res.DeletedCount == 0 {
		return cerr.NotFound(repo.ErrNotFound)
	}
	return nil
}
