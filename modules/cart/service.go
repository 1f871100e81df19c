package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/product"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/binder"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/route"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// MsgItemNotFound is the 404 message for a product missing from the cart.
const MsgItemNotFound = "Sản phẩm không có trong giỏ hàng"

// Module serves /api/cart.
type Module struct {
	carts    store.Collection[Cart]
	products store.Collection[product.Product]
}

// New creates the cart module. carts should be unique on "user".
func New(carts store.Collection[Cart], products store.Collection[product.Product]) *Module {
	return &Module{carts: carts, products: products}
}

type addRequest struct {
	Product string `json:"product"`
	Count   int    `json:"count"`
}

type quantityRequest struct {
	Product string `json:"-" path:"product"`
	Count   int    `json:"count"`
}

type productRequest struct {
	Product string `path:"product"`
}

// Routes returns the /api/cart group.
func (m *Module) Routes() route.Group {
	return route.Group{
		Prefix: "/api/cart",
		Routes: []route.Route{
			{Method: http.MethodGet, Path: "/", Tier: rbac.Authenticated, Handler: handler.Wrap(m.get)},
			{
				Method: http.MethodPost, Path: "/", Tier: rbac.Authenticated, Rules: &AddRules,
				Handler: handler.Wrap(m.add, handler.WithBinders[handler.Context, addRequest](binder.JSON())),
			},
			{
				Method: http.MethodPut, Path: "/{product}", Tier: rbac.Authenticated, Rules: &QuantityRules,
				Handler: handler.Wrap(m.setQuantity, handler.WithBinders[handler.Context, quantityRequest](binder.JSON(), binder.Path())),
			},
			{
				Method: http.MethodDelete, Path: "/{product}", Tier: rbac.Authenticated,
				Handler: handler.Wrap(m.remove, handler.WithBinders[handler.Context, productRequest](binder.Path())),
			},
		},
	}
}

func (m *Module) get(ctx handler.Context, _ struct{}) handler.Response {
	c, err := m.load(ctx)
	if err != nil {
		return handler.Error(err)
	}
	return m.render(ctx, c)
}

func (m *Module) add(ctx handler.Context, req addRequest) handler.Response {
	c, err := m.load(ctx)
	if err != nil {
		return handler.Error(err)
	}
	count := req.Count
	if i := index(c.Items, req.Product); i >= 0 {
		count += c.Items[i].Count
	}
	if err := m.checkStock(ctx, req.Product, count); err != nil {
		return handler.Error(err)
	}
	c.Items = upsert(c.Items, Item{Product: req.Product, Count: count})
	if c, err = m.save(ctx, c); err != nil {
		return handler.Error(err)
	}
	return m.render(ctx, c)
}

func (m *Module) setQuantity(ctx handler.Context, req quantityRequest) handler.Response {
	c, err := m.load(ctx)
	if err != nil {
		return handler.Error(err)
	}
	if index(c.Items, req.Product) < 0 {
		return handler.Error(handler.NewHTTPError(http.StatusNotFound, MsgItemNotFound))
	}
	if err := m.checkStock(ctx, req.Product, req.Count); err != nil {
		return handler.Error(err)
	}
	c.Items = upsert(c.Items, Item{Product: req.Product, Count: req.Count})
	if c, err = m.save(ctx, c); err != nil {
		return handler.Error(err)
	}
	return m.render(ctx, c)
}

func (m *Module) remove(ctx handler.Context, req productRequest) handler.Response {
	c, err := m.load(ctx)
	if err != nil {
		return handler.Error(err)
	}
	i := index(c.Items, req.Product)
	if i < 0 {
		return handler.Error(handler.NewHTTPError(http.StatusNotFound, MsgItemNotFound))
	}
	c.Items = slices.Delete(c.Items, i, i+1)
	if c, err = m.save(ctx, c); err != nil {
		return handler.Error(err)
	}
	return m.render(ctx, c)
}

// load returns the caller's cart, or an unsaved empty one.
func (m *Module) load(ctx handler.Context) (Cart, error) {
	id, ok := ctx.Identity()
	if !ok {
		return Cart{}, handler.ErrUnauthorized
	}
	c, err := m.carts.FindOne(ctx, store.Filter{"user": id.SubjectID})
	if errors.Is(err, store.ErrNotFound) {
		return Cart{User: id.SubjectID, Items: []Item{}}, nil
	}
	return c, err
}

func (m *Module) save(ctx context.Context, c Cart) (Cart, error) {
	if c.ID == "" {
		return m.carts.Insert(ctx, c)
	}
	return m.carts.Update(ctx, c.ID, map[string]any{"items": c.Items})
}

// checkStock fails when the catalog cannot cover count units of the product.
func (m *Module) checkStock(ctx context.Context, productID string, count int) error {
	p, err := m.products.Get(ctx, productID)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
		return handler.NewHTTPError(http.StatusNotFound, product.MsgNotFound)
	}
	if err != nil {
		return err
	}
	return validator.Apply(
		validator.WithMessage(validator.MaxNum("count", count, p.Stock),
			fmt.Sprintf("Sản phẩm %s chỉ còn %d trong kho", p.Title, p.Stock)),
	)
}

// render prices the cart. Lines whose product left the catalog are dropped.
func (m *Module) render(ctx context.Context, c Cart) handler.Response {
	view := View{Items: make([]Line, 0, len(c.Items))}
	for _, item := range c.Items {
		p, err := m.products.Get(ctx, item.Product)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return handler.Error(err)
		}
		line := Line{
			Product:  p.ID,
			Title:    p.Title,
			Price:    p.Price,
			Count:    item.Count,
			Stock:    p.Stock,
			Subtotal: p.Price * float64(item.Count),
		}
		view.Items = append(view.Items, line)
		view.Count += line.Count
		view.Total += line.Subtotal
	}
	return handler.JSON(view)
}

func index(items []Item, productID string) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.Product == productID })
}

func upsert(items []Item, item Item) []Item {
	if i := index(items, item.Product); i >= 0 {
		items[i] = item
		return items
	}
	return append(items, item)
}
