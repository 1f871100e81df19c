package binder

import "net/http"

// Query creates a query parameter binder.
//
// Supported struct tags:
//   - `query:"name"` - binds to query parameter "name"
//   - `query:"-"`    - skips the field
//
// Fields without a tag bind to the lowercased field name. Slices accept both
// repeated parameters and comma separated values.
//
//	type listRequest struct {
//		Page  int    `query:"page"`
//		Limit int    `query:"limit"`
//		Sort  string `query:"sort"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}
