package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// Header carries the request id in both directions.
const Header = "X-Request-ID"

const maxLength = 128

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Middleware adopts a well-formed incoming X-Request-ID or generates a UUID,
// echoes it on the response and stores it in the request context. The id is
// also published under chi's request id key so chi middleware sees it.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !Valid(id) {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := WithContext(r.Context(), id)
		ctx = contextWithChiID(ctx, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Valid reports whether id is an acceptable client-supplied request id.
func Valid(id string) bool {
	return id != "" && len(id) <= maxLength && validID.MatchString(id)
}

