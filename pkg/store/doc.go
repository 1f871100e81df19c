// Package store persists resource documents.
//
// Collection[T] is the persistence collaborator of the resource handlers.
// Two implementations share its contract:
//
//   - Mongo[T] over go.mongodb.org/mongo-driver/v2, the production store
//   - Memory[T], an in-process store used by tests and STORAGE_DRIVER=memory
//
// Ids are 24-hex strings produced by bson.NewObjectID, so the ObjectID field
// check of the validation gate accepts exactly the ids the store hands out.
// Lookups with a malformed id fail with ErrInvalidID, missing documents with
// ErrNotFound and unique violations with ErrConflict.
package store
