// Package handler holds the HTTP pipeline pieces shared by every resource:
// the response envelope, the validation gate, the terminal failure handler
// and typed handlers.
//
// # Envelope
//
// Every response body is an Envelope. Failures look like
//
//	{"success": false, "message": "Tổng tiền phải lớn hơn 0"}
//
// and, on routes that opt in with WithFieldErrors, also carry
// "errors": [{"field": ..., "message": ...}]. Successes carry "data" and an
// optional "meta" object.
//
// # Validation gate
//
// Validate(rs) checks the JSON body, URL parameters and query string against a
// validator.RuleSet. A failing request is answered with 400 and the first
// error's message and never reaches the handler. A passing request reaches the
// handler with its body unchanged.
//
// # Errors
//
// WriteError maps errors to statuses:
//
//   - HTTPError: its own code and message
//   - validator.ValidationErrors: 400 with the first message
//   - rbac.ErrUnauthenticated / rbac.ErrForbidden: 401 / 403
//   - store.ErrNotFound: 404, store.ErrConflict: 409
//   - binder errors and store.ErrInvalidID: 400
//   - anything else: 500 with the error's message
//
// Recoverer is the single terminal handler. It turns panics and errors passed
// to Fail into a failure envelope, honouring a status pre-set with SetStatus.
// NotFound answers unmatched routes with "Route not found: <path>".
//
// # Typed handlers
//
// HandlerFunc[C, R] receives a bound request value and returns a Response:
//
//	type getRequest struct {
//		ID string `path:"id"`
//	}
//
//	r.Get("/{id}", handler.Wrap(
//		func(ctx handler.Context, req getRequest) handler.Response {
//			p, err := products.Get(ctx, req.ID)
//			if err != nil {
//				return handler.Error(err)
//			}
//			return handler.JSON(p)
//		},
//		handler.WithBinders[handler.Context, getRequest](binder.Path()),
//	))
package handler
