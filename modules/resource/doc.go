// Package resource holds the CRUD handlers the shop's resource modules share.
//
// A Resource[T] wraps a store.Collection[T] with handler.Wrap handlers for
// create, get, list, update and delete. Create and Update only accept the
// body fields named in Creatable and Writable, usually the Fields of the
// route's rule sets, so a caller can never set an owner, a role or a status
// through a generic endpoint. Access guards per-document reads and writes.
package resource
