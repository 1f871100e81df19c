package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// DefaultMaxBodyBytes bounds the body read by the validation gate.
const DefaultMaxBodyBytes int64 = 1 << 20

// ValidateOption configures the validation gate.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	maxBodyBytes int64
	fieldErrors  bool
	onReject     func(r *http.Request, status int)
}

// WithMaxBodyBytes limits the request body. Non-positive values keep the default.
func WithMaxBodyBytes(n int64) ValidateOption {
	return func(c *validateConfig) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// WithFieldErrors includes the full field error list in failure envelopes.
func WithFieldErrors() ValidateOption {
	return func(c *validateConfig) {
		c.fieldErrors = true
	}
}

// WithRejectHook calls fn for every request the gate terminates.
func WithRejectHook(fn func(r *http.Request, status int)) ValidateOption {
	return func(c *validateConfig) {
		c.onReject = fn
	}
}

// Validate returns the validation gate for rs.
//
// The gate builds a validator.Document from the JSON body, the chi URL
// parameters and the query string, then runs every field rule of rs. When any
// rule fails it answers 400 with the first error's message and never calls
// next. Otherwise the body is restored unchanged and next runs.
func Validate(rs validator.RuleSet, opts ...ValidateOption) func(http.Handler) http.Handler {
	cfg := &validateConfig{maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := readBody(w, r, cfg.maxBodyBytes)
			if err != nil {
				cfg.reject(w, r, err)
				return
			}

			doc, err := validator.NewDocument(body, urlParams(r), r.URL.Query())
			if err != nil {
				cfg.reject(w, r, err)
				return
			}

			if outcome := rs.Check(doc); !outcome.Valid() {
				cfg.reject(w, r, outcome.Err())
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

func (c *validateConfig) reject(w http.ResponseWriter, r *http.Request, err error) {
	info := Classify(err)
	logError(r, err, info)

	env := Failure(info.Message)
	if c.fieldErrors {
		env.Errors = info.Errors
	}
	if c.onReject != nil {
		c.onReject(r, info.StatusCode)
	}
	_ = WriteJSON(w, info.StatusCode, env)
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, err
		}
		return nil, ErrBadRequest
	}
	return body, nil
}

func urlParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if i < len(rctx.URLParams.Values) {
			params[key] = rctx.URLParams.Values[i]
		}
	}
	return params
}
