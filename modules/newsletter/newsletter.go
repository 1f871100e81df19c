package newsletter

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/resource"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/binder"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/route"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/sanitizer"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// Subscriber is a newsletter subscription. Token authorizes unsubscribing
// without an account.
type Subscriber struct {
	ID        string    `json:"_id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	Token     string    `json:"token" bson:"token"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Validation rules.
var (
	SubscribeRules = validator.NewRuleSet("newsletter subscribe",
		validator.Field("email").
			Required("Email là bắt buộc").
			Email("Email không hợp lệ"),
	)
	UnsubscribeRules = validator.NewRuleSet("newsletter unsubscribe",
		validator.Field("token").
			Required("Mã hủy đăng ký là bắt buộc").
			Must(func(v validator.Value) bool {
				return uuid.Validate(v.String()) == nil
			}, "Mã hủy đăng ký không hợp lệ"),
	)
)

// Messages.
const (
	MsgSubscribed   = "Đăng ký nhận tin thành công"
	MsgAlready      = "Email đã đăng ký nhận tin"
	MsgUnsubscribed = "Hủy đăng ký nhận tin thành công"
	MsgUnknownToken = "Không tìm thấy đăng ký"
)

// Module serves /api/newsletter.
type Module struct {
	subscribers store.Collection[Subscriber]
	list        *resource.Resource[Subscriber]
}

// New creates the newsletter module. subscribers should be unique on "email".
func New(subscribers store.Collection[Subscriber]) *Module {
	return &Module{
		subscribers: subscribers,
		list:        &resource.Resource[Subscriber]{Store: subscribers, QueryFilters: []string{"email"}},
	}
}

type subscribeRequest struct {
	Email string `json:"email"`
}

type unsubscribeRequest struct {
	Token string `json:"token"`
}

// Routes returns the /api/newsletter group.
func (m *Module) Routes() route.Group {
	return route.Group{
		Prefix: "/api/newsletter",
		Routes: []route.Route{
			{
				Method: http.MethodPost, Path: "/subscribe", Tier: rbac.Public, Rules: &SubscribeRules, Throttled: true,
				Handler: handler.Wrap(m.subscribe, handler.WithBinders[handler.Context, subscribeRequest](binder.JSON())),
			},
			{
				Method: http.MethodPost, Path: "/unsubscribe", Tier: rbac.Public, Rules: &UnsubscribeRules,
				Handler: handler.Wrap(m.unsubscribe, handler.WithBinders[handler.Context, unsubscribeRequest](binder.JSON())),
			},
			{Method: http.MethodGet, Path: "/", Tier: rbac.Admin, Handler: m.list.List()},
		},
	}
}

// subscribe creates a subscription or reactivates a cancelled one with a
// fresh token.
func (m *Module) subscribe(ctx handler.Context, req subscribeRequest) handler.Response {
	email := sanitizer.Email(req.Email)
	existing, err := m.subscribers.FindOne(ctx, store.Filter{"email": email})
	switch {
	case err == nil && existing.Active:
		return handler.Error(handler.NewHTTPError(http.StatusConflict, MsgAlready))
	case err == nil:
		s, err := m.subscribers.Update(ctx, existing.ID, map[string]any{"active": true, "token": uuid.NewString()})
		if err != nil {
			return handler.Error(err)
		}
		return handler.JSON(s, handler.WithJSONMessage(MsgSubscribed))
	case !errors.Is(err, store.ErrNotFound):
		return handler.Error(err)
	}

	s, err := m.subscribers.Insert(ctx, Subscriber{Email: email, Token: uuid.NewString(), Active: true})
	if errors.Is(err, store.ErrConflict) {
		return handler.Error(handler.NewHTTPError(http.StatusConflict, MsgAlready))
	}
	if err != nil {
		return handler.Error(err)
	}
	return handler.Created(s, handler.WithJSONMessage(MsgSubscribed))
}

func (m *Module) unsubscribe(ctx handler.Context, req unsubscribeRequest) handler.Response {
	s, err := m.subscribers.FindOne(ctx, store.Filter{"token": req.Token})
	if errors.Is(err, store.ErrNotFound) {
		return handler.Error(handler.NewHTTPError(http.StatusNotFound, MsgUnknownToken))
	}
	if err != nil {
		return handler.Error(err)
	}
	if s.Active {
		if _, err := m.subscribers.Update(ctx, s.ID, map[string]any{"active": false}); err != nil {
			return handler.Error(err)
		}
	}
	return handler.JSON(nil, handler.WithJSONMessage(MsgUnsubscribed))
}
