// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package docrp

import (
	"fmt"

	"github.com/momeni/cpweb/pkg/core/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// decode unmarshals raw into a new E instance. The _id field is not
// mapped by the bson tags of entities, so it is looked up separately.
func decode[E any, P model.Entity[E]](raw bson.Raw) (*E, error) {
	e := new(E)
	if err := bson.Unmarshal(raw, e); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	v, err := raw.LookupErr("_id")
	if err != nil {
		return nil, fmt.Errorf("document has no _id: %w", err)
	}
	P(e).SetIdentifier(rawIDString(v))
	return e, nil
}

func rawIDString(v bson.RawValue) string {
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := v.StringValueOK(); ok {
		return s
	}
	return v.String()
}

func idString(id any) string {
	switch id := id.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
