// Package resourcetest drives resource module routes in tests.
package resourcetest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/route"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
)

// Fixed identities for tests.
var (
	User  = &rbac.Identity{SubjectID: "64b7f0c2a1b2c3d4e5f60718", Role: rbac.RoleUser}
	Other = &rbac.Identity{SubjectID: "64b7f0c2a1b2c3d4e5f6071a", Role: rbac.RoleUser}
	Admin = &rbac.Identity{SubjectID: "64b7f0c2a1b2c3d4e5f60719", Role: rbac.RoleAdmin}
)

// Router mounts groups the way the application does, with field errors
// rendered by the shared error writer.
func Router(groups ...route.Group) http.Handler {
	r := chi.NewRouter()
	route.New(route.WithGateOptions(rbac.WithErrorWriter(handler.WriteError))).Mount(r, groups...)
	return r
}

// Do serves one request as id. A nil id is anonymous; an empty body sends none.
func Do(h http.Handler, method, path, body string, id *rbac.Identity) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if id != nil {
		req = req.WithContext(rbac.WithIdentity(req.Context(), *id))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Envelope is the decoded response body.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Decode parses the envelope and, when data is non-nil, its data member.
func Decode(t *testing.T, rec *httptest.ResponseRecorder, data any) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NotEmpty(t, env.Data, rec.Body.String())
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// Seed inserts docs and returns the stored copies.
func Seed[T any](t *testing.T, c store.Collection[T], docs ...T) []T {
	t.Helper()
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		saved, err := c.Insert(t.Context(), doc)
		require.NoError(t, err)
		out = append(out, saved)
	}
	return out
}
