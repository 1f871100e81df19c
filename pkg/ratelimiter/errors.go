package ratelimiter

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidConfig     = errors.New("ratelimiter: invalid configuration")
	ErrInvalidTokenCount = errors.New("ratelimiter: invalid token count")
	ErrStoreUnavailable  = errors.New("ratelimiter: store unavailable")

	// ErrLimited is reported to the ErrorWriter for a denied request.
	ErrLimited = errors.New("too many requests")
)

// StatusOf maps middleware errors to HTTP statuses.
func StatusOf(err error) int {
	if errors.Is(err, ErrLimited) {
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
