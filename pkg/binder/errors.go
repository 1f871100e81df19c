package binder

import "errors"

// Common binding errors
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrFailedToParseQuery   = errors.New("failed to parse query parameters")
	ErrFailedToParsePath    = errors.New("failed to parse path parameters")
	ErrInvalidTarget        = errors.New("binding target must be a non-nil pointer to struct")

	// ErrBinderNotApplicable is returned when a binder has nothing to read,
	// for example JSON() on a request without a body. Callers skip it.
	ErrBinderNotApplicable = errors.New("binder not applicable")
)

// IsBindingError reports whether err originates from a binder.
func IsBindingError(err error) bool {
	return errors.Is(err, ErrUnsupportedMediaType) ||
		errors.Is(err, ErrFailedToParseJSON) ||
		errors.Is(err, ErrFailedToParseQuery) ||
		errors.Is(err, ErrFailedToParsePath) ||
		errors.Is(err, ErrInvalidTarget)
}
