package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
)

// DefaultTTL is the lifetime of issued tokens when none is configured.
const DefaultTTL = 24 * time.Hour

// Claims are the claims of an access token: the registered claims plus the
// caller's role.
type Claims struct {
	Role string `json:"role"`
	gojwt.RegisteredClaims
}

// Identity converts the claims to the identity read by the authorization gates.
func (c Claims) Identity() rbac.Identity {
	return rbac.Identity{SubjectID: c.Subject, Role: c.Role}
}

// ExpiresTime returns the expiry time, or the zero time when unset.
func (c Claims) ExpiresTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Service issues and verifies HS256 access tokens.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithIssuer sets the iss claim written and required on parse.
func WithIssuer(issuer string) Option {
	return func(s *Service) { s.issuer = issuer }
}

// WithTTL sets the token lifetime. Non-positive values keep DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service signing with secret.
func New(secret string, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSigningKey
	}

	s := &Service{
		signingKey: []byte(secret),
		ttl:        DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for the given subject and role.
func (s *Service) Issue(subject, role string) (string, Claims, error) {
	if subject == "" {
		return "", Claims{}, ErrMissingSubject
	}

	now := s.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", Claims{}, fmt.Errorf("jwt: sign token: %w", err)
	}
	return token, claims, nil
}

// Parse verifies the signature, algorithm, issuer and expiry of token and
// returns its claims.
func (s *Service) Parse(token string) (Claims, error) {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}

	var claims Claims
	_, err := gojwt.ParseWithClaims(token, &claims, func(*gojwt.Token) (any, error) {
		return s.signingKey, nil
	}, opts...)
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return Claims{}, ErrExpiredToken
	case err != nil:
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	case claims.Subject == "":
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, ErrMissingSubject)
	}
	return claims, nil
}
