// Package jwt is the identity provider of the API: it issues HS256 access
// tokens with github.com/golang-jwt/jwt/v5 and decodes them on every request.
//
// Tokens carry sub (user id), role, jti, iat, exp and iss. Identify is a
// global middleware that never rejects a request by itself:
//
//	r.Use(jwt.Identify(tokens, jwt.WithDenylist(denylist)))
//
// It stores the decoded rbac.Identity for the authorization gates, or records
// why the presented token was refused. The gates decide the response.
//
// Logout revokes a token by its jti through a Denylist. RedisDenylist keeps
// entries as Redis keys expiring with the token; MemoryDenylist serves tests
// and single-instance deployments.
package jwt
