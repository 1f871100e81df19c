// Package binder fills request structs from the parts of an HTTP request.
//
// Each binder handles one source and one struct tag:
//
//   - JSON(): the request body, via `json:` tags
//   - Query(): the URL query string, via `query:` tags
//   - Path(): chi URL parameters, via `path:` tags
//
// Binders are composed with handler.WithBinders and run in order, so later
// binders overwrite fields populated by earlier ones:
//
//	type updateRequest struct {
//	    ID   string         `path:"id" json:"-"`
//	    Body map[string]any `json:"-"`
//	}
//
//	r.Put("/{id}", handler.Wrap(update,
//	    handler.WithBinders[handler.Context, updateRequest](binder.JSON(), binder.Path()),
//	))
//
// JSON accepts unknown fields. Payload shape is the validation gate's concern;
// the binder only decodes.
//
// All failures wrap one of the package errors and are answered with 400 by
// handler.WriteError.
package binder
