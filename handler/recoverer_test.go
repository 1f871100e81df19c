package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
)

func serveRecovered(h http.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.Recoverer(nil)(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/order", nil))
	return rec
}

func TestRecoverer(t *testing.T) {
	t.Parallel()

	t.Run("panic becomes 500 with its message", func(t *testing.T) {
		t.Parallel()

		rec := serveRecovered(func(http.ResponseWriter, *http.Request) {
			panic(errors.New("mongo: client is disconnected"))
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"mongo: client is disconnected"}`, rec.Body.String())
	})

	t.Run("pre-set status is honoured", func(t *testing.T) {
		t.Parallel()

		rec := serveRecovered(func(w http.ResponseWriter, r *http.Request) {
			handler.SetStatus(r, http.StatusBadRequest)
			panic("Sản phẩm không tồn tại")
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"Sản phẩm không tồn tại"}`, rec.Body.String())
	})

	t.Run("status 200 pre-set falls back to 500", func(t *testing.T) {
		t.Parallel()

		rec := serveRecovered(func(w http.ResponseWriter, r *http.Request) {
			handler.SetStatus(r, http.StatusOK)
			handler.Fail(w, r, errors.New("boom"))
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("fail without panic", func(t *testing.T) {
		t.Parallel()

		rec := serveRecovered(func(w http.ResponseWriter, r *http.Request) {
			handler.SetStatus(r, http.StatusConflict)
			handler.Fail(w, r, errors.New("Mã giảm giá đã tồn tại"))
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "Mã giảm giá đã tồn tại")
	})

	t.Run("does not write after headers are sent", func(t *testing.T) {
		t.Parallel()

		rec := serveRecovered(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("partial"))
			panic("late failure")
		})

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "partial", rec.Body.String())
	})

	t.Run("non-panicking request untouched", func(t *testing.T) {
		t.Parallel()

		rec := serveRecovered(func(w http.ResponseWriter, r *http.Request) {
			handler.SetStatus(r, http.StatusBadRequest)
			w.WriteHeader(http.StatusNoContent)
		})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("abort handler is swallowed", func(t *testing.T) {
		t.Parallel()

		assert.NotPanics(t, func() {
			rec := serveRecovered(func(http.ResponseWriter, *http.Request) {
				panic(http.ErrAbortHandler)
			})
			assert.Empty(t, rec.Body.String())
		})
	})
}

func TestWrap_ErrorHonoursPresetStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		preset  int
		err     error
		status  int
		message string
	}{
		{"unclassified takes preset", http.StatusBadRequest, errors.New("Sản phẩm không tồn tại"), http.StatusBadRequest, "Sản phẩm không tồn tại"},
		{"preset 200 falls back to 500", http.StatusOK, errors.New("boom"), http.StatusInternalServerError, "boom"},
		{"classified status wins", http.StatusBadRequest, handler.ErrForbidden, http.StatusForbidden, "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response {
				handler.SetStatus(ctx.Request(), tt.preset)
				return handler.Error(tt.err)
			})
			rec := serveRecovered(h)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}

func TestFail_OutsideRecoverer(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	handler.Fail(rec, httptest.NewRequest(http.MethodGet, "/", nil), handler.ErrForbidden)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	handler.NotFound().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/does-not-exist", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Route not found: /api/does-not-exist"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.MethodNotAllowed().ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/product", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "PATCH")
}
