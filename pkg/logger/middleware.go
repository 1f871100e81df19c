package logger

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/clientip"
)

// Middleware stores log in the request context and writes one record per
// request once the handler chain returns. Status 5xx is logged at ERROR,
// 4xx at WARN and everything else at INFO.
func Middleware(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			r = r.WithContext(WithLogger(r.Context(), log))

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				level := slog.LevelInfo
				switch {
				case status >= http.StatusInternalServerError:
					level = slog.LevelError
				case status >= http.StatusBadRequest:
					level = slog.LevelWarn
				}

				attrs := []slog.Attr{
					Method(r.Method),
					Path(r.URL.Path),
					Route(RoutePattern(r)),
					Status(status),
					slog.Int("bytes", ww.BytesWritten()),
					Duration(time.Since(start)),
				}
				if ip := clientip.FromContext(r.Context()); ip != "" {
					attrs = append(attrs, ClientIP(ip))
				}
				log.LogAttrs(r.Context(), level, "http request", attrs...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// RoutePattern returns the chi route pattern matched for r, or "unmatched".
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
