package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/logger"
)

type failureCtxKey struct{}

// failure is the request-scoped record of a status pre-set by a handler and
// of an error it reported to the terminal handler.
type failure struct {
	mu     sync.Mutex
	status int
	err    error
}

func failureFrom(r *http.Request) *failure {
	f, _ := r.Context().Value(failureCtxKey{}).(*failure)
	return f
}

// SetStatus pre-sets the status the terminal handler uses if the request
// later fails. It has no effect outside Recoverer.
func SetStatus(r *http.Request, code int) {
	if f := failureFrom(r); f != nil {
		f.mu.Lock()
		f.status = code
		f.mu.Unlock()
	}
}

func presetStatus(r *http.Request) int {
	f := failureFrom(r)
	if f == nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Fail hands err to the terminal handler. The handler must return without
// writing a response afterwards. Outside Recoverer, err is written directly.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	f := failureFrom(r)
	if f == nil {
		WriteError(w, r, err)
		return
	}
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// Recoverer is the terminal failure handler of the pipeline.
//
// A panic, or an error reported with Fail, becomes a failure envelope carrying
// the error's message. The status is the one pre-set with SetStatus when that
// is a non-200 code, otherwise 500. Nothing is written when the response has
// already started. Recoverer never panics itself.
func Recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f := &failure{}
			r = r.WithContext(context.WithValue(r.Context(), failureCtxKey{}, f))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						return
					}
					f.mu.Lock()
					f.err = panicError(rec)
					f.mu.Unlock()
					log.ErrorContext(r.Context(), "panic recovered",
						logger.Error(f.err),
						logger.Path(r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)
				}
				terminate(ww, r, f, log)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func terminate(w middleware.WrapResponseWriter, r *http.Request, f *failure, log *slog.Logger) {
	f.mu.Lock()
	err, status := f.err, f.status
	f.mu.Unlock()

	if err == nil {
		return
	}
	if w.Status() != 0 {
		log.WarnContext(r.Context(), "response already started, failure not rendered",
			logger.Error(err),
			logger.Status(w.Status()),
		)
		return
	}
	if status == 0 || status == http.StatusOK {
		status = http.StatusInternalServerError
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.ErrorContext(r.Context(), "terminal handler failed", slog.Any("panic", rec))
		}
	}()

	log.LogAttrs(r.Context(), determineLogLevel(status), "request failed",
		logger.Error(err),
		logger.Status(status),
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
	)
	_ = WriteJSON(w, status, Failure(err.Error()))
}

func panicError(rec any) error {
	switch v := rec.(type) {
	case error:
		return v
	case string:
		return errors.New(v)
	default:
		return fmt.Errorf("%v", v)
	}
}
