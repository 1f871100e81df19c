// Package requestid tags every request with an id that follows it through
// logs and back to the client in the X-Request-ID header.
//
// A client-supplied id is kept when it is at most 128 characters of
// letters, digits, underscores and dashes; anything else is replaced with a
// fresh UUID.
//
//	r.Use(requestid.Middleware)
//	...
//	id := requestid.FromContext(r.Context())
package requestid
