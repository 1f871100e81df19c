package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/coupon"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/product"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/resource"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/logger"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/route"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/statemachine"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
)

// MsgNotFound is the 404 message for unknown orders.
const MsgNotFound = "Không tìm thấy đơn hàng"

// Module serves /api/order.
type Module struct {
	orders   store.Collection[Order]
	products store.Collection[product.Product]
	res      *resource.Resource[Order]
	status   *resource.Resource[Order]
	notifier Notifier
	coupons  CouponRedeemer
	log      *slog.Logger

	lifecycle *statemachine.Machine[string]
}

// CouponRedeemer checks a coupon against an order total.
type CouponRedeemer interface {
	Redeem(ctx context.Context, id string, total float64) (coupon.Coupon, error)
}

// Notifier tells a user about their order.
type Notifier interface {
	Notify(ctx context.Context, user, kind, title, message string) error
}

// Option configures the module.
type Option func(*Module)

// WithLogger sets the module logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Module) {
		if log != nil {
			m.log = log
		}
	}
}

// WithNotifier sends status changes to the order owner.
func WithNotifier(n Notifier) Option {
	return func(m *Module) {
		m.notifier = n
	}
}

// WithCoupons enables coupons on orders.
func WithCoupons(c CouponRedeemer) Option {
	return func(m *Module) {
		m.coupons = c
	}
}

// New creates the order module. Placing an order reserves stock from products.
func New(orders store.Collection[Order], products store.Collection[product.Product], opts ...Option) *Module {
	m := &Module{
		orders:   orders,
		products: products,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("order"))
	m.lifecycle = newLifecycle(m.restock)

	owner := func(o Order) string { return o.User }
	m.res = &resource.Resource[Order]{
		Store:        orders,
		Creatable:    Rules.Create.Fields(),
		Prepare:      m.place,
		Access:       resource.OwnerOrAdmin(owner),
		OwnerKey:     "user",
		QueryFilters: []string{"status", "user", "paymentMethod"},
		NotFound:     MsgNotFound,
	}
	m.status = &resource.Resource[Order]{
		Store:        orders,
		Writable:     StatusRules.Fields(),
		BeforeUpdate: m.transition,
		OnChange:     m.notify,
		NotFound:     MsgNotFound,
	}
	return m
}

// Routes returns the /api/order group.
func (m *Module) Routes() route.Group {
	return route.Group{
		Prefix: "/api/order",
		Routes: []route.Route{
			{Method: http.MethodPost, Path: "/", Tier: rbac.Authenticated, Rules: &Rules.Create, FieldErrors: true, Handler: m.res.Create()},
			{Method: http.MethodGet, Path: "/me", Tier: rbac.Authenticated, Handler: m.res.Mine()},
			{Method: http.MethodGet, Path: "/{id}", Tier: rbac.Authenticated, Handler: m.res.Get()},
			{Method: http.MethodGet, Path: "/", Tier: rbac.Admin, Handler: m.res.List()},
			{Method: http.MethodPut, Path: "/{id}/status", Tier: rbac.Admin, Rules: &StatusRules, Handler: m.status.Update()},
			{Method: http.MethodDelete, Path: "/{id}", Tier: rbac.Admin, Handler: m.res.Delete()},
		},
	}
}

// place stamps the owner, prices every line from the catalog and reserves
// stock. A reservation that fails midway is rolled back.
func (m *Module) place(ctx handler.Context, o *Order) error {
	id, ok := ctx.Identity()
	if !ok {
		return handler.ErrUnauthorized
	}
	o.User = id.SubjectID
	o.Status = StatusPending
	o.Discount = 0

	if o.Coupon != "" {
		if m.coupons == nil {
			return handler.NewHTTPError(http.StatusBadRequest, coupon.MsgNotFound)
		}
		c, err := m.coupons.Redeem(ctx, o.Coupon, o.TotalPrice)
		if err != nil {
			return err
		}
		o.Discount = c.Discount
	}

	reserved := make([]Item, 0, len(o.Products))
	for i, item := range o.Products {
		p, err := m.products.Get(ctx, item.Product)
		if errors.Is(err, store.ErrNotFound) {
			m.restock(ctx, reserved)
			return handler.NewHTTPError(http.StatusNotFound, product.MsgNotFound)
		}
		if err != nil {
			m.restock(ctx, reserved)
			return err
		}
		if p.Stock < item.Count {
			m.restock(ctx, reserved)
			return handler.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("Sản phẩm %s chỉ còn %d trong kho", p.Title, p.Stock))
		}
		if _, err := m.products.Update(ctx, p.ID, map[string]any{
			"stock": p.Stock - item.Count,
			"sold":  p.Sold + item.Count,
		}); err != nil {
			m.restock(ctx, reserved)
			return err
		}
		o.Products[i].Price = p.Price
		reserved = append(reserved, o.Products[i])
	}
	return nil
}

// transition checks the status change against the lifecycle. Setting the
// current status again writes nothing.
func (m *Module) transition(ctx handler.Context, o *Order, keys []string) ([]string, error) {
	prev, err := m.orders.Get(ctx, o.ID)
	if err != nil {
		return keys, err
	}
	if prev.Status == o.Status {
		return nil, nil
	}
	if err := m.lifecycle.Fire(ctx, prev.Status, o.Status, o); err != nil {
		return keys, lifecycleError(prev.Status, o.Status, err)
	}
	return keys, nil
}

func (m *Module) notify(ctx context.Context, o Order) {
	if m.notifier == nil {
		return
	}
	msg := fmt.Sprintf("Đơn hàng %s đã chuyển sang trạng thái %s", o.ID, o.Status)
	if err := m.notifier.Notify(ctx, o.User, "order", "Cập nhật đơn hàng", msg); err != nil {
		m.log.WarnContext(ctx, "order notification failed", slog.String("order", o.ID), logger.Error(err))
	}
}

func (m *Module) restock(ctx context.Context, items []Item) {
	for _, item := range items {
		p, err := m.products.Get(ctx, item.Product)
		if err != nil {
			m.log.WarnContext(ctx, "restock skipped", slog.String("product", item.Product), logger.Error(err))
			continue
		}
		if _, err := m.products.Update(ctx, p.ID, map[string]any{
			"stock": p.Stock + item.Count,
			"sold":  max(p.Sold-item.Count, 0),
		}); err != nil {
			m.log.ErrorContext(ctx, "restock failed", slog.String("product", item.Product), logger.Error(err))
		}
	}
}
