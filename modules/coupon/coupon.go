package coupon

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/resource"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/route"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// Coupon is a percentage discount code.
type Coupon struct {
	ID        string    `json:"_id" bson:"_id"`
	Code      string    `json:"code" bson:"code"`
	Discount  float64   `json:"discount" bson:"discount"`
	MinOrder  float64   `json:"minOrder" bson:"minOrder"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Expired reports whether the coupon can no longer be used at now.
func (c Coupon) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

var codeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// Rules validate coupon writes.
var Rules = resource.NewRules(validator.NewRuleSet("coupon",
	validator.Field("code").
		Required("Mã giảm giá là bắt buộc").
		Pattern(codeRegex, "Mã giảm giá gồm 3 đến 20 ký tự chữ, số, - hoặc _"),
	validator.Field("discount").
		Required("Mức giảm là bắt buộc").
		Range(1, 100, "Mức giảm phải từ 1 đến 100 phần trăm"),
	validator.Field("minOrder").
		Optional().
		Range(0, 1e12, "Giá trị đơn tối thiểu không hợp lệ"),
	validator.Field("expiresAt").
		Required("Ngày hết hạn là bắt buộc").
		Must(future, "Ngày hết hạn phải là thời điểm trong tương lai (RFC 3339)"),
))

func future(v validator.Value) bool {
	t, err := time.Parse(time.RFC3339, v.String())
	return err == nil && t.After(time.Now())
}

// Messages.
const (
	MsgNotFound  = "Không tìm thấy mã giảm giá"
	MsgDuplicate = "Mã giảm giá đã tồn tại"
	MsgExpired   = "Mã giảm giá đã hết hạn"
)

// ErrExpired is returned by Redeem for expired coupons.
var ErrExpired = handler.NewHTTPError(http.StatusBadRequest, MsgExpired)

// Module serves /api/coupon.
type Module struct {
	coupons store.Collection[Coupon]
	res     *resource.Resource[Coupon]
	now     func() time.Time
}

// New creates the coupon module. coupons should be unique on "code".
func New(coupons store.Collection[Coupon]) *Module {
	m := &Module{coupons: coupons, now: time.Now}
	m.res = &resource.Resource[Coupon]{
		Store:     coupons,
		Creatable: Rules.Create.Fields(),
		Writable:  Rules.Update.Fields(),
		Prepare: func(_ handler.Context, c *Coupon) error {
			c.Code = strings.ToUpper(c.Code)
			return nil
		},
		BeforeUpdate: func(_ handler.Context, c *Coupon, keys []string) ([]string, error) {
			if slices.Contains(keys, "code") {
				c.Code = strings.ToUpper(c.Code)
			}
			return keys, nil
		},
		QueryFilters: []string{"code"},
		NotFound:     MsgNotFound,
		Conflict:     MsgDuplicate,
	}
	return m
}

// Routes returns the /api/coupon group.
func (m *Module) Routes() route.Group {
	return route.Group{
		Prefix: "/api/coupon",
		Routes: []route.Route{
			{Method: http.MethodGet, Path: "/", Tier: rbac.Public, Handler: m.res.List()},
			{Method: http.MethodPost, Path: "/", Tier: rbac.Admin, Rules: &Rules.Create, FieldErrors: true, Handler: m.res.Create()},
			{Method: http.MethodPut, Path: "/{id}", Tier: rbac.Admin, Rules: &Rules.Update, FieldErrors: true, Handler: m.res.Update()},
			{Method: http.MethodDelete, Path: "/{id}", Tier: rbac.Admin, Handler: m.res.Delete()},
		},
	}
}

// Redeem returns the coupon with id when it can be applied to an order of
// the given total.
func (m *Module) Redeem(ctx context.Context, id string, total float64) (Coupon, error) {
	c, err := m.coupons.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
		return c, handler.NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	if err != nil {
		return c, err
	}
	if c.Expired(m.now()) {
		return c, ErrExpired
	}
	if err := validator.Apply(validator.WithMessage(
		validator.MinNum("totalPrice", total, c.MinOrder),
		"Đơn hàng chưa đạt giá trị tối thiểu để dùng mã giảm giá",
	)); err != nil {
		return c, err
	}
	return c, nil
}
