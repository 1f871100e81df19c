package route

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// Route declares one endpoint. Rules, when set, are checked by the
// validation gate after the tier gates have passed. Throttled routes pass
// the composer's throttle before anything else.
type Route struct {
	Method      string
	Path        string
	Tier        rbac.Tier
	Rules       *validator.RuleSet
	FieldErrors bool
	Throttled   bool
	Handler     http.Handler
}

// Group is the set of routes a resource module mounts under Prefix.
type Group struct {
	Prefix string
	Routes []Route
}

// Composer turns route declarations into handler chains.
type Composer struct {
	gateOpts         []rbac.Option
	validateOpts     []handler.ValidateOption
	throttle         func(http.Handler) http.Handler
	notFound         http.Handler
	methodNotAllowed http.Handler
}

// Option configures a Composer.
type Option func(*Composer)

// WithGateOptions configures every authorization gate, typically with
// rbac.WithErrorWriter.
func WithGateOptions(opts ...rbac.Option) Option {
	return func(c *Composer) {
		c.gateOpts = append(c.gateOpts, opts...)
	}
}

// WithValidateOptions configures every validation gate.
func WithValidateOptions(opts ...handler.ValidateOption) Option {
	return func(c *Composer) {
		c.validateOpts = append(c.validateOpts, opts...)
	}
}

// WithThrottle sets the middleware run ahead of the tier gates on routes
// marked Throttled. Without it Throttled has no effect.
func WithThrottle(mw func(http.Handler) http.Handler) Option {
	return func(c *Composer) { c.throttle = mw }
}

// WithNotFound replaces handler.NotFound as the catch-all.
func WithNotFound(h http.Handler) Option {
	return func(c *Composer) {
		if h != nil {
			c.notFound = h
		}
	}
}

// WithMethodNotAllowed replaces handler.MethodNotAllowed.
func WithMethodNotAllowed(h http.Handler) Option {
	return func(c *Composer) {
		if h != nil {
			c.methodNotAllowed = h
		}
	}
}

// New creates a Composer.
func New(opts ...Option) *Composer {
	c := &Composer{
		notFound:         handler.NotFound(),
		methodNotAllowed: handler.MethodNotAllowed(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handler builds the chain for rt: the throttle when the route asks for it,
// the tier gates in order, then the validation gate, then the route handler.
func (c *Composer) Handler(rt Route) http.Handler {
	h := rt.Handler
	if rt.Rules != nil {
		opts := c.validateOpts
		if rt.FieldErrors {
			opts = append(opts[:len(opts):len(opts)], handler.WithFieldErrors())
		}
		h = handler.Validate(*rt.Rules, opts...)(h)
	}

	gates := rt.Tier.Gates(c.gateOpts...)
	for i := len(gates) - 1; i >= 0; i-- {
		h = gates[i](h)
	}
	if rt.Throttled && c.throttle != nil {
		h = c.throttle(h)
	}
	return h
}

// Mount registers every group on r and installs the catch-all handlers.
// It panics on a route without a handler, like chi does on a bad pattern.
func (c *Composer) Mount(r chi.Router, groups ...Group) {
	r.NotFound(c.notFound.ServeHTTP)
	r.MethodNotAllowed(c.methodNotAllowed.ServeHTTP)

	for _, g := range groups {
		for _, rt := range g.Routes {
			if rt.Handler == nil {
				panic(fmt.Sprintf("route: %s %s has no handler", rt.Method, Pattern(g.Prefix, rt.Path)))
			}
			r.Method(rt.Method, Pattern(g.Prefix, rt.Path), c.Handler(rt))
		}
	}
}

// Pattern joins a group prefix and a route path into a chi pattern.
// A route path of "/" addresses the prefix itself.
func Pattern(prefix, path string) string {
	prefix = strings.TrimRight(prefix, "/")
	path = strings.TrimLeft(path, "/")
	switch {
	case path == "" && prefix == "":
		return "/"
	case path == "":
		return prefix
	default:
		return prefix + "/" + path
	}
}

// Describe lists every route as "METHOD /pattern [tier]" in mount order.
func Describe(groups ...Group) []string {
	var out []string
	for _, g := range groups {
		for _, rt := range g.Routes {
			line := fmt.Sprintf("%s %s [%s]", rt.Method, Pattern(g.Prefix, rt.Path), rt.Tier)
			if rt.Rules != nil {
				line += " validate:" + rt.Rules.Name()
			}
			if rt.Throttled {
				line += " throttled"
			}
			out = append(out, line)
		}
	}
	return out
}
