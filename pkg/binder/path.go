package binder

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Path creates a binder for chi URL parameters.
//
// Supported struct tags:
//   - `path:"name"` - binds to the route parameter {name}
//   - `path:"-"`    - skips the field
//
// Only parameters matched by the current route are visible.
func Path() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		rctx := chi.RouteContext(r.Context())
		if rctx == nil {
			return ErrBinderNotApplicable
		}

		values := make(map[string][]string, len(rctx.URLParams.Keys))
		for i, key := range rctx.URLParams.Keys {
			if i < len(rctx.URLParams.Values) && rctx.URLParams.Values[i] != "" {
				values[key] = []string{rctx.URLParams.Values[i]}
			}
		}
		return bindToStruct(v, "path", values, ErrFailedToParsePath)
	}
}
