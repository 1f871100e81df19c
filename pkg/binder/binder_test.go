package binder_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/binder"
)

type product struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Tags  []string `json:"tags"`
}

func jsonRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/product", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return req
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes and trims strings", func(t *testing.T) {
		t.Parallel()

		var p product
		err := binder.JSON()(jsonRequest(`{"name":"  Cơ Mit  ","price":1200000,"tags":[" pool "]}`), &p)
		require.NoError(t, err)
		assert.Equal(t, "Cơ Mit", p.Name)
		assert.Equal(t, 1200000.0, p.Price)
		assert.Equal(t, []string{"pool"}, p.Tags)
	})

	t.Run("accepts unknown fields", func(t *testing.T) {
		t.Parallel()

		var p product
		require.NoError(t, binder.JSON()(jsonRequest(`{"name":"cue","brand":"Mit"}`), &p))
		assert.Equal(t, "cue", p.Name)
	})

	t.Run("restores the body", func(t *testing.T) {
		t.Parallel()

		req := jsonRequest(`{"name":"cue"}`)
		var p product
		require.NoError(t, binder.JSON()(req, &p))

		rest, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"cue"}`, string(rest))
	})

	t.Run("missing content type is json", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"cue"}`))
		var p product
		require.NoError(t, binder.JSON()(req, &p))
		assert.Equal(t, "cue", p.Name)
	})

	t.Run("wrong media type", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`name=cue`))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		var p product
		err := binder.JSON()(req, &p)
		assert.ErrorIs(t, err, binder.ErrUnsupportedMediaType)
		assert.True(t, binder.IsBindingError(err))
	})

	t.Run("empty body is not applicable", func(t *testing.T) {
		t.Parallel()

		var p product
		assert.ErrorIs(t, binder.JSON()(jsonRequest("  "), &p), binder.ErrBinderNotApplicable)

		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		assert.ErrorIs(t, binder.JSON()(req, &p), binder.ErrBinderNotApplicable)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		var p product
		assert.ErrorIs(t, binder.JSON()(jsonRequest(`{"name":`), &p), binder.ErrFailedToParseJSON)
		assert.ErrorIs(t, binder.JSON()(jsonRequest(`{"price":"free"}`), &p), binder.ErrFailedToParseJSON)
		assert.ErrorIs(t, binder.JSON()(jsonRequest(`{} {}`), &p), binder.ErrFailedToParseJSON)
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()

		body := `{"name":"` + strings.Repeat("a", binder.DefaultMaxJSONSize) + `"}`
		var p product
		assert.ErrorIs(t, binder.JSON()(jsonRequest(body), &p), binder.ErrFailedToParseJSON)
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()

	type listRequest struct {
		Page   int      `query:"page"`
		Limit  int      `query:"limit"`
		Sort   string   `query:"sort"`
		Brands []string `query:"brand"`
		Active *bool    `query:"active"`
		Secret string   `query:"-"`
	}

	t.Run("binds", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/?page=2&limit=20&sort=-price&brand=mit,fury&brand=rhino&active=yes&Secret=x", nil)
		var lr listRequest
		require.NoError(t, binder.Query()(req, &lr))

		assert.Equal(t, 2, lr.Page)
		assert.Equal(t, 20, lr.Limit)
		assert.Equal(t, "-price", lr.Sort)
		assert.Equal(t, []string{"mit", "fury", "rhino"}, lr.Brands)
		require.NotNil(t, lr.Active)
		assert.True(t, *lr.Active)
		assert.Empty(t, lr.Secret)
	})

	t.Run("keeps defaults", func(t *testing.T) {
		t.Parallel()

		lr := listRequest{Page: 1, Limit: 10}
		require.NoError(t, binder.Query()(httptest.NewRequest(http.MethodGet, "/", nil), &lr))
		assert.Equal(t, 1, lr.Page)
		assert.Equal(t, 10, lr.Limit)
	})

	t.Run("invalid number", func(t *testing.T) {
		t.Parallel()

		var lr listRequest
		err := binder.Query()(httptest.NewRequest(http.MethodGet, "/?page=abc", nil), &lr)
		assert.ErrorIs(t, err, binder.ErrFailedToParseQuery)
	})

	t.Run("invalid target", func(t *testing.T) {
		t.Parallel()

		var n int
		err := binder.Query()(httptest.NewRequest(http.MethodGet, "/", nil), &n)
		assert.ErrorIs(t, err, binder.ErrInvalidTarget)
	})
}

func TestPath(t *testing.T) {
	t.Parallel()

	type itemRequest struct {
		ID      string `path:"id"`
		Product string `path:"product"`
	}

	t.Run("binds chi params", func(t *testing.T) {
		t.Parallel()

		var got itemRequest
		r := chi.NewRouter()
		r.Get("/api/order/{id}/items/{product}", func(w http.ResponseWriter, req *http.Request) {
			require.NoError(t, binder.Path()(req, &got))
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/order/abc/items/def", nil))
		assert.Equal(t, "abc", got.ID)
		assert.Equal(t, "def", got.Product)
	})

	t.Run("outside chi", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())
		var got itemRequest
		assert.ErrorIs(t, binder.Path()(req, &got), binder.ErrBinderNotApplicable)
	})
}
