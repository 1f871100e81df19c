// Package route composes the per-route handler chains of the API.
//
// A resource module declares its endpoints as a Group of Route values. The
// Composer builds each chain in one fixed order:
//
//	authorization gates (authenticated, then admin)
//	validation gate (when the route has Rules)
//	route handler
//
// There is no way to declare a validation gate ahead of the authorization
// gates. Mount registers the groups on a chi router and installs the 404 and
// 405 catch-alls.
//
//	c := route.New(route.WithGateOptions(rbac.WithErrorWriter(handler.WriteError)))
//	c.Mount(r, product.Routes(deps), order.Routes(deps))
package route
