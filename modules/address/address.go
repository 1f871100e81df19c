package address

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/resource"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/route"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// Address is a saved shipping address.
type Address struct {
	ID        string    `json:"_id" bson:"_id"`
	User      string    `json:"user" bson:"user"`
	FullName  string    `json:"fullName" bson:"fullName"`
	Phone     string    `json:"phone" bson:"phone"`
	Street    string    `json:"street" bson:"street"`
	Ward      string    `json:"ward,omitempty" bson:"ward,omitempty"`
	District  string    `json:"district" bson:"district"`
	City      string    `json:"city" bson:"city"`
	IsDefault bool      `json:"isDefault" bson:"isDefault"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Rules validate address writes.
var Rules = resource.NewRules(validator.NewRuleSet("address",
	validator.Field("fullName").
		Required("Họ tên người nhận là bắt buộc").
		String("Họ tên phải là chuỗi").
		Length(2, 100, "Họ tên phải từ 2 đến 100 ký tự"),
	validator.Field("phone").
		Required("Số điện thoại là bắt buộc").
		Phone("Số điện thoại không hợp lệ"),
	validator.Field("street").
		Required("Địa chỉ là bắt buộc").
		String("Địa chỉ phải là chuỗi"),
	validator.Field("ward").
		Optional().
		String("Phường/Xã phải là chuỗi"),
	validator.Field("district").
		Required("Quận/Huyện là bắt buộc").
		String("Quận/Huyện phải là chuỗi"),
	validator.Field("city").
		Required("Tỉnh/Thành phố là bắt buộc").
		String("Tỉnh/Thành phố phải là chuỗi"),
	validator.Field("isDefault").
		Optional().
		Bool("isDefault phải là true hoặc false"),
))

// MsgNotFound is the 404 message for unknown addresses.
const MsgNotFound = "Không tìm thấy địa chỉ"

// Module serves /api/address. Every route is scoped to the caller.
type Module struct {
	addresses store.Collection[Address]
	res       *resource.Resource[Address]
}

// New creates the address module.
func New(addresses store.Collection[Address]) *Module {
	m := &Module{addresses: addresses}
	m.res = &resource.Resource[Address]{
		Store:        addresses,
		Creatable:    Rules.Create.Fields(),
		Writable:     Rules.Update.Fields(),
		Prepare:      m.prepare,
		BeforeUpdate: m.beforeUpdate,
		Access:       resource.OwnerOnly(func(a Address) string { return a.User }),
		OwnerKey:     "user",
		NotFound:     MsgNotFound,
	}
	return m
}

// Routes returns the /api/address group.
func (m *Module) Routes() route.Group {
	return route.Group{
		Prefix: "/api/address",
		Routes: []route.Route{
			{Method: http.MethodGet, Path: "/", Tier: rbac.Authenticated, Handler: m.res.Mine()},
			{Method: http.MethodPost, Path: "/", Tier: rbac.Authenticated, Rules: &Rules.Create, FieldErrors: true, Handler: m.res.Create()},
			{Method: http.MethodPut, Path: "/{id}", Tier: rbac.Authenticated, Rules: &Rules.Update, FieldErrors: true, Handler: m.res.Update()},
			{Method: http.MethodDelete, Path: "/{id}", Tier: rbac.Authenticated, Handler: m.res.Delete()},
		},
	}
}

// prepare stamps the owner. The first address becomes the default.
func (m *Module) prepare(ctx handler.Context, a *Address) error {
	id, ok := ctx.Identity()
	if !ok {
		return handler.ErrUnauthorized
	}
	a.User = id.SubjectID

	existing, err := m.addresses.Find(ctx, store.Filter{"user": a.User}, store.Page{Limit: 1})
	if err != nil {
		return err
	}
	if existing.Total == 0 {
		a.IsDefault = true
	}
	if a.IsDefault {
		return m.clearDefault(ctx, a.User, "")
	}
	return nil
}

func (m *Module) beforeUpdate(ctx handler.Context, a *Address, keys []string) ([]string, error) {
	if a.IsDefault && slices.Contains(keys, "isDefault") {
		return keys, m.clearDefault(ctx, a.User, a.ID)
	}
	return keys, nil
}

// clearDefault unsets the default flag on the user's addresses except keep.
func (m *Module) clearDefault(ctx context.Context, user, keep string) error {
	res, err := m.addresses.Find(ctx, store.Filter{"user": user, "isDefault": true}, store.Page{Limit: store.MaxLimit})
	if err != nil {
		return err
	}
	for _, a := range res.Items {
		if a.ID == keep {
			continue
		}
		if _, err := m.addresses.Update(ctx, a.ID, map[string]any{"isDefault": false}); err != nil {
			return err
		}
	}
	return nil
}
