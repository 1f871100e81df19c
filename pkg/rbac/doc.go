// Package rbac provides the tiered authorization gates of the shop API.
//
// Every route declares one of three tiers:
//
//   - Public: no identity required.
//   - Authenticated: a verified identity must be present in the context.
//   - Admin: Authenticated, and the identity's role must equal RoleAdmin.
//
// The tiers form a strict, ordered chain with no backtracking. Each gate either
// terminates the request (401 for a missing or invalid identity, 403 for a
// role mismatch) or passes control onward. Tier.Gates returns the middleware in
// the order they must run:
//
//	for _, gate := range rbac.Admin.Gates(rbac.WithErrorWriter(handler.WriteError)) {
//	    r.Use(gate)
//	}
//
// The package never decodes tokens. An upstream identity provider (see pkg/jwt)
// stores the decoded Identity with WithIdentity, or records the decoding
// failure with WithAuthError so the Authenticated gate can report it.
package rbac
