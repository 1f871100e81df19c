package product

import (
	"net/http"
	"time"

	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/resource"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/route"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// Product is a catalog item: cues, balls, tables and accessories.
type Product struct {
	ID          string    `json:"_id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Category    string    `json:"category" bson:"category"`
	Brand       string    `json:"brand,omitempty" bson:"brand,omitempty"`
	Stock       int       `json:"stock" bson:"stock"`
	Sold        int       `json:"sold" bson:"sold"`
	Images      []string  `json:"images,omitempty" bson:"images,omitempty"`
	Rating      float64   `json:"rating" bson:"rating"`
	NumReviews  int       `json:"numReviews" bson:"numReviews"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Rules validate product writes.
var Rules = resource.NewRules(validator.NewRuleSet("product",
	validator.Field("title").
		Required("Tên sản phẩm là bắt buộc").
		String("Tên sản phẩm phải là chuỗi").
		Length(3, 200, "Tên sản phẩm phải từ 3 đến 200 ký tự"),
	validator.Field("description").
		Optional().
		String("Mô tả phải là chuỗi"),
	validator.Field("price").
		Required("Giá sản phẩm là bắt buộc").
		Float(0, "Giá sản phẩm phải lớn hơn 0"),
	validator.Field("category").
		Required("Danh mục là bắt buộc").
		String("Danh mục phải là chuỗi"),
	validator.Field("brand").
		Optional().
		String("Thương hiệu phải là chuỗi"),
	validator.Field("stock").
		Required("Số lượng tồn kho là bắt buộc").
		Int(0, "Số lượng tồn kho phải là số nguyên không âm"),
	validator.Field("images").
		Optional().
		Array(0, "Hình ảnh phải là một mảng"),
	validator.Field("images.*").
		String("Đường dẫn hình ảnh phải là chuỗi"),
))

// MsgNotFound is the 404 message for unknown products.
const MsgNotFound = "Không tìm thấy sản phẩm"

// Module serves /api/product.
type Module struct {
	res *resource.Resource[Product]
}

// New creates the product module.
func New(products store.Collection[Product]) *Module {
	return &Module{res: &resource.Resource[Product]{
		Store:        products,
		Creatable:    Rules.Create.Fields(),
		Writable:     Rules.Update.Fields(),
		QueryFilters: []string{"category", "brand"},
		NotFound:     MsgNotFound,
	}}
}

// Routes returns the /api/product group.
func (m *Module) Routes() route.Group {
	return route.Group{
		Prefix: "/api/product",
		Routes: []route.Route{
			{Method: http.MethodGet, Path: "/", Tier: rbac.Public, Handler: m.res.List()},
			{Method: http.MethodGet, Path: "/{id}", Tier: rbac.Public, Handler: m.res.Get()},
			{Method: http.MethodPost, Path: "/", Tier: rbac.Admin, Rules: &Rules.Create, FieldErrors: true, Handler: m.res.Create()},
			{Method: http.MethodPut, Path: "/{id}", Tier: rbac.Admin, Rules: &Rules.Update, FieldErrors: true, Handler: m.res.Update()},
			{Method: http.MethodDelete, Path: "/{id}", Tier: rbac.Admin, Handler: m.res.Delete()},
		},
	}
}
