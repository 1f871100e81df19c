package rbac_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
)

func chain(h http.Handler, gates ...func(http.Handler) http.Handler) http.Handler {
	for i := len(gates) - 1; i >= 0; i-- {
		h = gates[i](h)
	}
	return h
}

func request(id *rbac.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/product", nil)
	if id != nil {
		req = req.WithContext(rbac.WithIdentity(req.Context(), *id))
	}
	return req
}

func TestTierGates(t *testing.T) {
	t.Parallel()

	user := &rbac.Identity{SubjectID: "64b7f0c2a1b2c3d4e5f60718", Role: rbac.RoleUser}
	admin := &rbac.Identity{SubjectID: "64b7f0c2a1b2c3d4e5f60719", Role: rbac.RoleAdmin}

	tests := []struct {
		name   string
		tier   rbac.Tier
		id     *rbac.Identity
		status int
		called bool
	}{
		{"public anonymous", rbac.Public, nil, http.StatusOK, true},
		{"auth anonymous", rbac.Authenticated, nil, http.StatusUnauthorized, false},
		{"auth user", rbac.Authenticated, user, http.StatusOK, true},
		{"admin anonymous", rbac.Admin, nil, http.StatusUnauthorized, false},
		{"admin with user role", rbac.Admin, user, http.StatusForbidden, false},
		{"admin with admin role", rbac.Admin, admin, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			chain(next, tt.tier.Gates()...).ServeHTTP(rec, request(tt.id))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.called, called)
		})
	}
}

func TestRequireAuth_ReportsRecordedTokenError(t *testing.T) {
	t.Parallel()

	var got error
	gate := rbac.RequireAuth(rbac.WithErrorWriter(func(w http.ResponseWriter, r *http.Request, err error) {
		got = err
		w.WriteHeader(rbac.StatusOf(err))
	}))

	tokenErr := errors.New("jwt: token is expired")
	req := httptest.NewRequest(http.MethodGet, "/api/order/me", nil)
	req = req.WithContext(rbac.WithAuthError(req.Context(), tokenErr))

	rec := httptest.NewRecorder()
	gate(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Error(t, got)
	assert.ErrorIs(t, got, rbac.ErrUnauthenticated)
	assert.ErrorIs(t, got, tokenErr)
}

func TestRequireRole_NeverRunsBeforeAuthentication(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rbac.RequireRole("staff")(http.NotFoundHandler()).ServeHTTP(rec, request(nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	_, ok := rbac.FromContext(context.Background())
	assert.False(t, ok)

	ctx := rbac.WithIdentity(context.Background(), rbac.Identity{})
	_, ok = rbac.FromContext(ctx)
	assert.False(t, ok, "empty subject is not an identity")

	ctx = rbac.WithIdentity(context.Background(), rbac.Identity{SubjectID: "u1", Role: rbac.RoleUser})
	id, ok := rbac.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", id.SubjectID)
	assert.False(t, id.IsAdmin())

	assert.True(t, rbac.IsOwnerOrAdmin(ctx, "u1"))
	assert.False(t, rbac.IsOwnerOrAdmin(ctx, "u2"))
	assert.False(t, rbac.IsOwnerOrAdmin(context.Background(), "u1"))

	adminCtx := rbac.WithIdentity(context.Background(), rbac.Identity{SubjectID: "a1", Role: rbac.RoleAdmin})
	assert.True(t, rbac.IsOwnerOrAdmin(adminCtx, "u2"))
}

func TestTierString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "public", rbac.Public.String())
	assert.Equal(t, "auth", rbac.Authenticated.String())
	assert.Equal(t, "admin", rbac.Admin.String())
	assert.Equal(t, "tier(7)", rbac.Tier(7).String())
}
