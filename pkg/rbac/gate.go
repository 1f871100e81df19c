package rbac

import (
	"errors"
	"fmt"
	"net/http"
)

// Roles known to the shop.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Tier is the access level a route declares.
type Tier int

const (
	Public Tier = iota
	Authenticated
	Admin
)

func (t Tier) String() string {
	switch t {
	case Public:
		return "public"
	case Authenticated:
		return "auth"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Gates returns the middleware enforcing the tier, in execution order.
// Public returns no gates.
func (t Tier) Gates(opts ...Option) []func(http.Handler) http.Handler {
	switch t {
	case Authenticated:
		return []func(http.Handler) http.Handler{RequireAuth(opts...)}
	case Admin:
		return []func(http.Handler) http.Handler{RequireAuth(opts...), RequireAdmin(opts...)}
	default:
		return nil
	}
}

// ErrorWriter renders a gate rejection.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Option configures a gate.
type Option func(*gateConfig)

type gateConfig struct {
	writeError ErrorWriter
}

// WithErrorWriter routes rejections through a custom writer, typically the
// API's uniform error envelope.
func WithErrorWriter(fn ErrorWriter) Option {
	return func(c *gateConfig) {
		if fn != nil {
			c.writeError = fn
		}
	}
}

func newGateConfig(opts []Option) *gateConfig {
	cfg := &gateConfig{writeError: defaultErrorWriter}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func defaultErrorWriter(w http.ResponseWriter, _ *http.Request, err error) {
	http.Error(w, err.Error(), StatusOf(err))
}

// StatusOf maps a gate rejection to its HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// RequireAuth terminates requests without a verified identity with 401.
func RequireAuth(opts ...Option) func(http.Handler) http.Handler {
	cfg := newGateConfig(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				cfg.writeError(w, r, unauthenticated(r))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole terminates requests whose identity lacks role with 403.
// A missing identity is still a 401: this gate never substitutes for RequireAuth.
func RequireRole(role string, opts ...Option) func(http.Handler) http.Handler {
	cfg := newGateConfig(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok {
				cfg.writeError(w, r, unauthenticated(r))
				return
			}
			if !id.HasRole(role) {
				cfg.writeError(w, r, fmt.Errorf("%w: %s role required", ErrForbidden, role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is RequireRole(RoleAdmin).
func RequireAdmin(opts ...Option) func(http.Handler) http.Handler {
	return RequireRole(RoleAdmin, opts...)
}

func unauthenticated(r *http.Request) error {
	if err := AuthError(r.Context()); err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return ErrUnauthenticated
}
