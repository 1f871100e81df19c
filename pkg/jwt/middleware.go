package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/logger"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
)

// TokenExtractorFunc extracts a token from an HTTP request. It returns
// ErrMissingToken when the request carries none.
type TokenExtractorFunc func(r *http.Request) (string, error)

// IdentifyOption configures Identify.
type IdentifyOption func(*identifyConfig)

type identifyConfig struct {
	extractors []TokenExtractorFunc
	denylist   Denylist
}

// WithExtractors sets the token sources, tried in order.
func WithExtractors(extractors ...TokenExtractorFunc) IdentifyOption {
	return func(c *identifyConfig) {
		c.extractors = extractors
	}
}

// WithDenylist rejects tokens whose id has been revoked.
func WithDenylist(d Denylist) IdentifyOption {
	return func(c *identifyConfig) {
		c.denylist = d
	}
}

// Identify decodes the caller identity from the request token.
//
// It never writes a response. A request without a token continues
// anonymously. A valid token stores its claims and the rbac.Identity in the
// context. An invalid, expired or revoked token is recorded with
// rbac.WithAuthError so the authenticated gate can report it; public routes
// still serve the request.
func Identify(service *Service, opts ...IdentifyOption) func(http.Handler) http.Handler {
	cfg := &identifyConfig{extractors: []TokenExtractorFunc{BearerTokenExtractor}}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := cfg.extract(r)
			if err != nil {
				if !errors.Is(err, ErrMissingToken) {
					r = r.WithContext(rbac.WithAuthError(r.Context(), err))
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := service.Parse(token)
			if err == nil && cfg.denylist != nil {
				var revoked bool
				revoked, err = cfg.denylist.IsRevoked(r.Context(), claims.ID)
				if err == nil && revoked {
					err = ErrRevokedToken
				}
			}
			if err != nil {
				logger.FromContext(r.Context()).DebugContext(r.Context(), "token rejected",
					logger.Error(err),
					logger.Component("jwt"),
				)
				next.ServeHTTP(w, r.WithContext(rbac.WithAuthError(r.Context(), err)))
				return
			}

			ctx := SetToken(r.Context(), token)
			ctx = SetClaims(ctx, claims)
			ctx = rbac.WithIdentity(ctx, claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (c *identifyConfig) extract(r *http.Request) (string, error) {
	for _, extract := range c.extractors {
		token, err := extract(r)
		if errors.Is(err, ErrMissingToken) {
			continue
		}
		return token, err
	}
	return "", ErrMissingToken
}

// BearerTokenExtractor extracts tokens from "Authorization: Bearer <token>" headers.
func BearerTokenExtractor(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: malformed authorization header", ErrInvalidToken)
	}
	return strings.TrimSpace(token), nil
}

// CookieTokenExtractor creates a token extractor for cookie-based transport.
func CookieTokenExtractor(cookieName string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		cookie, err := r.Cookie(cookieName)
		if err != nil || cookie.Value == "" {
			return "", ErrMissingToken
		}
		return cookie.Value, nil
	}
}

// QueryTokenExtractor creates a token extractor for URL query parameters.
func QueryTokenExtractor(paramName string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		token := r.URL.Query().Get(paramName)
		if token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}
}
