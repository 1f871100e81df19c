package notification

import (
	"context"
	"net/http"
	"time"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/resource"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/binder"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/route"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// Notification types.
const (
	TypeOrder     = "order"
	TypePromotion = "promotion"
	TypeSystem    = "system"
)

// Notification is a message addressed to one user.
type Notification struct {
	ID        string    `json:"_id" bson:"_id"`
	User      string    `json:"user" bson:"user"`
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	Type      string    `json:"type" bson:"type"`
	Link      string    `json:"link,omitempty" bson:"link,omitempty"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Rules validate notifications sent by admins.
var Rules = resource.NewRules(validator.NewRuleSet("notification",
	validator.Field("user").
		Required("Người nhận là bắt buộc").
		ObjectID("Người nhận không hợp lệ"),
	validator.Field("title").
		Required("Tiêu đề là bắt buộc").
		String("Tiêu đề phải là chuỗi").
		Length(1, 200, "Tiêu đề tối đa 200 ký tự"),
	validator.Field("message").
		Required("Nội dung là bắt buộc").
		String("Nội dung phải là chuỗi"),
	validator.Field("type").
		Optional().
		OneOf([]string{TypeOrder, TypePromotion, TypeSystem}, "Loại thông báo không hợp lệ"),
	validator.Field("link").
		Optional().
		String("Liên kết phải là chuỗi"),
))

// MsgNotFound is the 404 message for unknown notifications.
const MsgNotFound = "Không tìm thấy thông báo"

// Module serves /api/notification and delivers notifications for other modules.
type Module struct {
	notifications store.Collection[Notification]
	res           *resource.Resource[Notification]
}

// New creates the notification module.
func New(notifications store.Collection[Notification]) *Module {
	m := &Module{notifications: notifications}
	m.res = &resource.Resource[Notification]{
		Store:        notifications,
		Creatable:    Rules.Create.Fields(),
		Prepare:      prepare,
		Access:       resource.OwnerOrAdmin(func(n Notification) string { return n.User }),
		OwnerKey:     "user",
		QueryFilters: []string{"type"},
		NotFound:     MsgNotFound,
	}
	return m
}

// Routes returns the /api/notification group.
func (m *Module) Routes() route.Group {
	return route.Group{
		Prefix: "/api/notification",
		Routes: []route.Route{
			{Method: http.MethodGet, Path: "/me", Tier: rbac.Authenticated, Handler: m.res.Mine()},
			{
				Method: http.MethodPut, Path: "/{id}/read", Tier: rbac.Authenticated,
				Handler: handler.Wrap(m.markRead, handler.WithBinders[handler.Context, resource.IDRequest](binder.Path())),
			},
			{Method: http.MethodPost, Path: "/", Tier: rbac.Admin, Rules: &Rules.Create, Handler: m.res.Create()},
			{Method: http.MethodDelete, Path: "/{id}", Tier: rbac.Admin, Handler: m.res.Delete()},
		},
	}
}

// Notify stores a notification for user.
func (m *Module) Notify(ctx context.Context, user, kind, title, message string) error {
	_, err := m.notifications.Insert(ctx, Notification{
		User:    user,
		Title:   title,
		Message: message,
		Type:    kind,
	})
	return err
}

func (m *Module) markRead(ctx handler.Context, req resource.IDRequest) handler.Response {
	n, err := m.res.Fetch(ctx, req.ID)
	if err != nil {
		return handler.Error(err)
	}
	if id, _ := ctx.Identity(); id.SubjectID != n.User {
		return handler.Error(handler.NewHTTPError(http.StatusForbidden, resource.MsgForbidden))
	}
	if n.Read {
		return handler.JSON(n)
	}
	n, err = m.notifications.Update(ctx, n.ID, map[string]any{"read": true})
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(n)
}

func prepare(_ handler.Context, n *Notification) error {
	if n.Type == "" {
		n.Type = TypeSystem
	}
	return nil
}
