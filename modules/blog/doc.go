// Package blog publishes shop articles. Posts get a slug derived from their
// title and can be fetched by id or slug.
package blog
