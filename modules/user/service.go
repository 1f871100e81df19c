package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/binder"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/jwt"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/logger"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/route"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/sanitizer"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
)

// Roles a user may hold.
var Roles = []string{rbac.RoleUser, rbac.RoleAdmin}

// Service serves the account routes.
type Service struct {
	users      store.Collection[User]
	tokens     *jwt.Service
	denylist   jwt.Denylist
	bcryptCost int
	log        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost sets the bcrypt cost for password hashing.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

// WithDenylist revokes tokens on logout.
func WithDenylist(d jwt.Denylist) Option {
	return func(s *Service) {
		s.denylist = d
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates the user service. Emails must be unique in users.
func New(users store.Collection[User], tokens *jwt.Service, opts ...Option) *Service {
	s := &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("user"))
	return s
}

// Routes returns the /api/user group.
func (s *Service) Routes() route.Group {
	return route.Group{
		Prefix: "/api/user",
		Routes: []route.Route{
			{Method: http.MethodPost, Path: "/register", Tier: rbac.Public, Rules: &RegisterRules, FieldErrors: true, Throttled: true,
				Handler: handler.Wrap(s.register, handler.WithBinders[handler.Context, RegisterRequest](binder.JSON()))},
			{Method: http.MethodPost, Path: "/login", Tier: rbac.Public, Rules: &LoginRules, Throttled: true,
				Handler: handler.Wrap(s.login, handler.WithBinders[handler.Context, LoginRequest](binder.JSON()))},
			{Method: http.MethodPost, Path: "/logout", Tier: rbac.Authenticated,
				Handler: handler.Wrap(s.logout)},
			{Method: http.MethodGet, Path: "/me", Tier: rbac.Authenticated,
				Handler: handler.Wrap(s.me)},
			{Method: http.MethodPut, Path: "/me", Tier: rbac.Authenticated, Rules: &ProfileRules, FieldErrors: true,
				Handler: handler.Wrap(s.updateMe, handler.WithBinders[handler.Context, ProfileRequest](binder.JSON()))},
			{Method: http.MethodGet, Path: "/", Tier: rbac.Admin,
				Handler: handler.Wrap(s.list, handler.WithBinders[handler.Context, store.Page](binder.Query()))},
			{Method: http.MethodPut, Path: "/{id}/role", Tier: rbac.Admin, Rules: &RoleRules,
				Handler: handler.Wrap(s.setRole, handler.WithBinders[handler.Context, RoleRequest](binder.JSON(), binder.Path()))},
			{Method: http.MethodDelete, Path: "/{id}", Tier: rbac.Admin,
				Handler: handler.Wrap(s.delete, handler.WithBinders[handler.Context, IDRequest](binder.Path()))},
		},
	}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (s *Service) register(ctx handler.Context, req RegisterRequest) handler.Response {
	u, err := s.Register(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	resp, err := s.issue(u)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Created(resp, handler.WithJSONMessage("Đăng ký thành công"))
}

// Register creates an account with the user role.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, error) {
	return s.create(ctx, User{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  rbac.RoleUser,
	}, req.Password)
}

func (s *Service) create(ctx context.Context, u User, password string) (User, error) {
	u.Email = normalizeEmail(u.Email)

	_, err := s.users.FindOne(ctx, store.Filter{"email": u.Email})
	if err == nil {
		return User{}, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return User{}, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	saved, err := s.users.Insert(ctx, u)
	if errors.Is(err, store.ErrConflict) {
		return User{}, ErrEmailTaken
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", logger.UserID(saved.ID), logger.Role(saved.Role))
	return saved, nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) login(ctx handler.Context, req LoginRequest) handler.Response {
	u, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return handler.Error(err)
	}
	resp, err := s.issue(u)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(resp, handler.WithJSONMessage("Đăng nhập thành công"))
}

// Authenticate verifies email and password. Any failure is reported as
// ErrInvalidCredentials so callers cannot discover which emails exist.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.users.FindOne(ctx, store.Filter{"email": normalizeEmail(email)})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return User{}, err
		}
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) issue(u User) (AuthResponse, error) {
	token, claims, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return AuthResponse{User: u.Public(), Token: token, ExpiresAt: claims.ExpiresTime()}, nil
}

func (s *Service) logout(ctx handler.Context, _ struct{}) handler.Response {
	claims, ok := jwt.GetClaims(ctx)
	if ok && s.denylist != nil {
		if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresTime()); err != nil {
			return handler.Error(fmt.Errorf("failed to revoke token: %w", err))
		}
	}
	return handler.JSON(nil, handler.WithJSONMessage("Đăng xuất thành công"))
}

func (s *Service) me(ctx handler.Context, _ struct{}) handler.Response {
	id, _ := ctx.Identity()
	u, err := s.get(ctx, id.SubjectID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(u.Public())
}

// ProfileRequest is a partial profile update; nil fields are left unchanged.
type ProfileRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`
	Password *string `json:"password"`
}

func (s *Service) updateMe(ctx handler.Context, req ProfileRequest) handler.Response {
	id, _ := ctx.Identity()

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Phone != nil {
		patch["phone"] = *req.Phone
	}
	if req.Avatar != nil {
		patch["avatar"] = *req.Avatar
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return handler.Error(fmt.Errorf("failed to hash password: %w", err))
		}
		patch["passwordHash"] = string(hash)
	}

	if len(patch) == 0 {
		return s.me(ctx, struct{}{})
	}
	u, err := s.users.Update(ctx, id.SubjectID, patch)
	if err != nil {
		return handler.Error(mapNotFound(err))
	}
	return handler.JSON(u.Public(), handler.WithJSONMessage("Cập nhật thông tin thành công"))
}

func (s *Service) list(ctx handler.Context, page store.Page) handler.Response {
	res, err := s.users.Find(ctx, nil, page)
	if err != nil {
		return handler.Error(err)
	}
	users := make([]User, 0, len(res.Items))
	for _, u := range res.Items {
		users = append(users, u.Public())
	}
	return handler.JSON(users, handler.WithJSONMeta(res.Meta()))
}

type RoleRequest struct {
	ID   string `path:"id" json:"-"`
	Role string `json:"role"`
}

func (s *Service) setRole(ctx handler.Context, req RoleRequest) handler.Response {
	if self, _ := ctx.Identity(); self.SubjectID == req.ID {
		return handler.Error(ErrSelfModification)
	}
	u, err := s.users.Update(ctx, req.ID, map[string]any{"role": req.Role})
	if err != nil {
		return handler.Error(mapNotFound(err))
	}
	s.log.InfoContext(ctx, "user role changed", logger.UserID(u.ID), logger.Role(u.Role))
	return handler.JSON(u.Public(), handler.WithJSONMessage("Cập nhật vai trò thành công"))
}

type IDRequest struct {
	ID string `path:"id"`
}

func (s *Service) delete(ctx handler.Context, req IDRequest) handler.Response {
	if self, _ := ctx.Identity(); self.SubjectID == req.ID {
		return handler.Error(ErrSelfModification)
	}
	if err := s.users.Delete(ctx, req.ID); err != nil {
		return handler.Error(mapNotFound(err))
	}
	return handler.JSON(nil, handler.WithJSONMessage("Đã xóa người dùng"))
}

// EnsureAdmin creates an admin account for email unless one exists.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	existing, err := s.users.FindOne(ctx, store.Filter{"email": email})
	switch {
	case err == nil && existing.Role == rbac.RoleAdmin:
		return nil
	case err == nil:
		_, err = s.users.Update(ctx, existing.ID, map[string]any{"role": rbac.RoleAdmin})
		return err
	case !errors.Is(err, store.ErrNotFound):
		return err
	}
	_, err = s.create(ctx, User{Name: "Administrator", Email: email, Role: rbac.RoleAdmin}, password)
	return err
}

func (s *Service) get(ctx context.Context, id string) (User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return User{}, mapNotFound(err)
	}
	return u, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func normalizeEmail(email string) string {
	return sanitizer.Email(email)
}
