package rbac

import "errors"

// Gate rejections.
var (
	// ErrUnauthenticated is returned when no verified identity is present.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when the identity lacks the required role.
	ErrForbidden = errors.New("insufficient role")
)
