package rbac

import "context"

type (
	identityCtxKey  struct{}
	authErrorCtxKey struct{}
)

// Identity is the decoded caller identity supplied by the identity provider.
type Identity struct {
	SubjectID string `json:"sub"`
	Role      string `json:"role"`
}

// HasRole reports whether the identity carries the given role.
func (i Identity) HasRole(role string) bool {
	return i.Role == role
}

// IsAdmin reports whether the identity carries RoleAdmin.
func (i Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}

// WithIdentity stores the caller identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// FromContext retrieves the caller identity from the context.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	if !ok || id.SubjectID == "" {
		return Identity{}, false
	}
	return id, true
}

// WithAuthError records why the upstream identity provider rejected the
// presented credentials.
func WithAuthError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, authErrorCtxKey{}, err)
}

// AuthError returns the recorded credential error, if any.
func AuthError(ctx context.Context) error {
	err, _ := ctx.Value(authErrorCtxKey{}).(error)
	return err
}

// IsOwnerOrAdmin reports whether the caller owns the resource or is an admin.
func IsOwnerOrAdmin(ctx context.Context, ownerID string) bool {
	id, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return id.IsAdmin() || (ownerID != "" && id.SubjectID == ownerID)
}
