package cart

import (
	"time"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// Item is one cart line.
type Item struct {
	Product string `json:"product" bson:"product"`
	Count   int    `json:"count" bson:"count"`
}

// Cart is a user's cart. Each user has at most one.
type Cart struct {
	ID        string    `json:"_id" bson:"_id"`
	User      string    `json:"user" bson:"user"`
	Items     []Item    `json:"items" bson:"items"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Line is a cart item priced from the catalog.
type Line struct {
	Product  string  `json:"product"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Count    int     `json:"count"`
	Stock    int     `json:"stock"`
	Subtotal float64 `json:"subtotal"`
}

// View is the cart as returned to its owner.
type View struct {
	Items []Line  `json:"items"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// AddRules validate adding a product to the cart.
var AddRules = validator.NewRuleSet("cart add",
	validator.Field("product").
		Required("Mã sản phẩm là bắt buộc").
		ObjectID("Mã sản phẩm không hợp lệ"),
	validator.Field("count").
		Required("Số lượng là bắt buộc").
		Int(1, "Số lượng phải là số nguyên lớn hơn 0"),
)

// QuantityRules validate changing the quantity of a cart line. The product
// comes from the route.
var QuantityRules = validator.NewRuleSet("cart quantity",
	validator.Field("product").
		ObjectID("Mã sản phẩm không hợp lệ"),
	validator.Field("count").
		Required("Số lượng là bắt buộc").
		Int(1, "Số lượng phải là số nguyên lớn hơn 0"),
)
