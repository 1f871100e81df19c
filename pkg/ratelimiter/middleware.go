package ratelimiter

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/clientip"
)

const maxKeyLength = 64

// KeyFunc derives the bucket key of a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ByIP keys on the client address.
func ByIP(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.GetIP(r)
}

// ByRoute keys on the method and matched route pattern.
func ByRoute(r *http.Request) string {
	pattern := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		pattern = rctx.RoutePattern()
	}
	return r.Method + " " + pattern
}

// Composite joins the non-empty keys of fns. Keys longer than 64 bytes are
// replaced by their FNV-1a hash.
func Composite(fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		combined := strings.Join(parts, ":")
		if len(combined) <= maxKeyLength {
			return combined
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(combined))
		return strconv.FormatUint(h.Sum64(), 36)
	}
}

// ErrorWriter renders a denied or failed request. err is ErrLimited for a
// denial.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	key        KeyFunc
	writeError ErrorWriter
	failOpen   bool
}

// WithKey replaces the default Composite(ByIP, ByRoute) key.
func WithKey(fn KeyFunc) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.key = fn
		}
	}
}

// WithErrorWriter renders rejections, typically with the API envelope.
func WithErrorWriter(fn ErrorWriter) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.writeError = fn
		}
	}
}

// WithFailOpen lets requests through when the store fails.
func WithFailOpen() MiddlewareOption {
	return func(c *middlewareConfig) { c.failOpen = true }
}

// Middleware takes one token per request and answers 429 with Retry-After
// when the bucket is empty. Every limited response carries X-RateLimit-*
// headers.
func Middleware(b *Bucket, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		key: Composite(ByIP, ByRoute),
		writeError: func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), StatusOf(err))
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cfg.key(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := b.Allow(r.Context(), key)
			if err != nil {
				if cfg.failOpen {
					next.ServeHTTP(w, r)
					return
				}
				cfg.writeError(w, r, err)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				retry := max(int(math.Ceil(result.RetryAfter().Seconds())), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				cfg.writeError(w, r, ErrLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
