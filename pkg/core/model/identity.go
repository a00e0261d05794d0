// Copyright (c) 2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., json for the REST API, bson
// for the document store, and binding for the request validation)
// since adding more tags does not complicate definition of a struct,
// but can prevent unnecessary structs duplication.
//
// All entities are flat documents which embed the Identity struct.
// Their fields are omitted when they are empty, so a partial document
// can be used for merging some fields into a stored document.
package model

// Identity holds the store-generated identifier of a document. It is
// serialized as the "_id" field in JSON, but is excluded from the bson
// encoding because the document store manages the _id field itself and
// the repository adapters fill it after each read operation.
type Identity struct {
	ID string `json:"_id,omitempty" bson:"-"`
}

// Identifier returns the document identifier, or an empty string if
// the document has not been stored yet.
func (i *Identity) Identifier() string {
	return i.ID
}

// SetIdentifier updates the document identifier. It is called by the
// repositories after reading a document, and by the use cases in order
// to discard client provided identifiers.
func (i *Identity) SetIdentifier(id string) {
	i.ID = id
}

// Entity describes the expectations from a pointer to an entity struct
// such as *Parking. The E type parameter is the entity struct itself,
// so generic use cases and repositories can allocate new E instances
// and still call the Identity and Validate methods on them.
type Entity[E any] interface {
	*E

	// Identifier returns the store-generated document identifier.
	Identifier() string

	// SetIdentifier replaces the document identifier.
	SetIdentifier(id string)

	// Validate checks that fields which are mandatory at the creation
	// time are present and that fields are consistent with each other.
	// Format of individual fields is validated by the binding tags.
	Validate() error
}

// UpdateValidator is implemented by entities whose partial updates
// must be checked too. ValidateUpdate may only inspect the given
// fields since the stored document is not loaded for an update.
type UpdateValidator interface {
	ValidateUpdate() error
}
