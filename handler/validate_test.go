package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

func orderRules() validator.RuleSet {
	return validator.NewRuleSet("create order",
		validator.Field("products").Required("Đơn hàng phải có ít nhất một sản phẩm").Array(1, "Đơn hàng phải có ít nhất một sản phẩm"),
		validator.Field("products.*.count").Int(1, "Số lượng phải lớn hơn 0"),
		validator.Field("address").Required("Địa chỉ là bắt buộc"),
		validator.Field("totalPrice").Required("Tổng tiền là bắt buộc").Float(0, "Tổng tiền phải lớn hơn 0"),
	)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) handler.Envelope {
	t.Helper()
	var env handler.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

type spy struct {
	called bool
	body   string
}

func (p *spy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.called = true
	b, _ := io.ReadAll(r.Body)
	p.body = string(b)
	w.WriteHeader(http.StatusCreated)
}

func post(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/order", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("passes valid request with body unchanged", func(t *testing.T) {
		t.Parallel()

		body := `{"products":[{"product":"a","count":2}],"address":"12 Lê Lợi","totalPrice":150000}`
		next := &spy{}
		rec := httptest.NewRecorder()
		handler.Validate(orderRules())(next).ServeHTTP(rec, post(body))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, next.called)
		assert.Equal(t, body, next.body)
	})

	t.Run("rejects with first error and never calls next", func(t *testing.T) {
		t.Parallel()

		next := &spy{}
		rec := httptest.NewRecorder()
		handler.Validate(orderRules())(next).ServeHTTP(rec, post(`{"products":[],"totalPrice":0}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, next.called)

		env := decode(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "Đơn hàng phải có ít nhất một sản phẩm", env.Message)
		assert.Empty(t, env.Errors)
	})

	t.Run("field errors on request", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		handler.Validate(orderRules(), handler.WithFieldErrors())(&spy{}).
			ServeHTTP(rec, post(`{"products":[{"product":"a","count":1}],"address":"x","totalPrice":-5}`))

		env := decode(t, rec)
		assert.Equal(t, "Tổng tiền phải lớn hơn 0", env.Message)
		require.Len(t, env.Errors, 1)
		assert.Equal(t, "totalPrice", env.Errors[0].Field)
	})

	t.Run("full list keeps declaration order", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		handler.Validate(orderRules(), handler.WithFieldErrors())(&spy{}).ServeHTTP(rec, post(`{}`))

		env := decode(t, rec)
		require.Len(t, env.Errors, 3)
		assert.Equal(t, "products", env.Errors[0].Field)
		assert.Equal(t, "address", env.Errors[1].Field)
		assert.Equal(t, "totalPrice", env.Errors[2].Field)
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()

		next := &spy{}
		rec := httptest.NewRecorder()
		handler.Validate(orderRules())(next).ServeHTTP(rec, post(`{"products":`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, next.called)
		assert.Equal(t, "invalid JSON body", decode(t, rec).Message)
	})

	t.Run("body too large", func(t *testing.T) {
		t.Parallel()

		next := &spy{}
		rec := httptest.NewRecorder()
		handler.Validate(orderRules(), handler.WithMaxBodyBytes(16))(next).
			ServeHTTP(rec, post(`{"address":"`+strings.Repeat("x", 64)+`"}`))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.False(t, next.called)
	})

	t.Run("reject hook", func(t *testing.T) {
		t.Parallel()

		var got int
		hook := handler.WithRejectHook(func(_ *http.Request, status int) { got = status })
		handler.Validate(orderRules(), hook)(&spy{}).ServeHTTP(httptest.NewRecorder(), post(`{}`))
		assert.Equal(t, http.StatusBadRequest, got)
	})

	t.Run("reads url params", func(t *testing.T) {
		t.Parallel()

		rules := validator.NewRuleSet("order id",
			validator.Field("id").ObjectID("Mã đơn hàng không hợp lệ"),
		)

		r := chi.NewRouter()
		r.Method(http.MethodGet, "/api/order/{id}", handler.Validate(rules)(&spy{}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/order/not-an-id", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Mã đơn hàng không hợp lệ", decode(t, rec).Message)

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/order/64b7f0c2a1b2c3d4e5f60718", nil))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("body cannot mask url params", func(t *testing.T) {
		t.Parallel()

		rules := validator.NewRuleSet("cart item",
			validator.Field("product").Required("Mã sản phẩm là bắt buộc").ObjectID("Mã sản phẩm không hợp lệ"),
			validator.Field("count").Int(1, "Số lượng phải lớn hơn 0"),
		)

		r := chi.NewRouter()
		next := &spy{}
		r.Method(http.MethodPut, "/api/cart/{product}", handler.Validate(rules)(next))

		req := httptest.NewRequest(http.MethodPut, "/api/cart/not-an-id",
			strings.NewReader(`{"count":1,"product":"0123456789abcdef01234567"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Mã sản phẩm không hợp lệ", decode(t, rec).Message)
		assert.False(t, next.called)
	})

	t.Run("numeric strings in body are rejected", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		next := &spy{}
		handler.Validate(orderRules())(next).
			ServeHTTP(rec, post(`{"products":[{"product":"a","count":"2"}],"address":"x","totalPrice":"Infinity"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Số lượng phải lớn hơn 0", decode(t, rec).Message)
		assert.False(t, next.called)
	})
}
