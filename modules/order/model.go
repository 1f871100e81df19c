package order

import (
	"fmt"
	"time"

	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/resource"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// Order statuses.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// Statuses lists every order status in lifecycle order.
var Statuses = []string{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// PaymentMethods lists the accepted payment methods.
var PaymentMethods = []string{"COD", "BANKING", "MOMO", "VNPAY"}

// Item is one order line.
type Item struct {
	Product string  `json:"product" bson:"product"`
	Count   int     `json:"count" bson:"count"`
	Price   float64 `json:"price" bson:"price"`
}

// Order is a placed order.
type Order struct {
	ID            string    `json:"_id" bson:"_id"`
	User          string    `json:"user" bson:"user"`
	Products      []Item    `json:"products" bson:"products"`
	Address       string    `json:"address" bson:"address"`
	PaymentMethod string    `json:"paymentMethod" bson:"paymentMethod"`
	TotalPrice    float64   `json:"totalPrice" bson:"totalPrice"`
	Coupon        string    `json:"coupon,omitempty" bson:"coupon,omitempty"`
	Discount      float64   `json:"discount,omitempty" bson:"discount,omitempty"`
	Note          string    `json:"note,omitempty" bson:"note,omitempty"`
	Status        string    `json:"status" bson:"status"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Rules validate order creation. Orders are never edited by their owner, so
// only Rules.Create is routed.
var Rules = resource.NewRules(validator.NewRuleSet("order",
	validator.Field("products").
		Required("Đơn hàng phải có ít nhất một sản phẩm").
		Array(1, "Đơn hàng phải có ít nhất một sản phẩm").
		Custom(uniqueProducts, "Mỗi sản phẩm chỉ được xuất hiện một lần trong đơn hàng"),
	validator.Field("products.*.product").
		Required("Mã sản phẩm là bắt buộc").
		ObjectID("Mã sản phẩm không hợp lệ"),
	validator.Field("products.*.count").
		Required("Số lượng là bắt buộc").
		Int(1, "Số lượng phải là số nguyên lớn hơn 0"),
	validator.Field("address").
		Required("Địa chỉ giao hàng là bắt buộc").
		String("Địa chỉ giao hàng phải là chuỗi"),
	validator.Field("paymentMethod").
		Required("Phương thức thanh toán là bắt buộc").
		OneOf(PaymentMethods, "Phương thức thanh toán không hợp lệ"),
	validator.Field("totalPrice").
		Required("Tổng tiền là bắt buộc").
		Float(0, "Tổng tiền phải lớn hơn 0"),
	validator.Field("coupon").
		Optional().
		ObjectID("Mã giảm giá không hợp lệ"),
	validator.Field("note").
		Optional().
		String("Ghi chú phải là chuỗi").
		Length(0, 500, "Ghi chú tối đa 500 ký tự"),
))

// StatusRules validate an admin status change.
var StatusRules = validator.NewRuleSet("order status",
	validator.Field("status").
		Required("Trạng thái là bắt buộc").
		OneOf(Statuses, "Trạng thái đơn hàng không hợp lệ"),
)

func uniqueProducts(v validator.Value, _ validator.Document) error {
	seen := make(map[string]bool)
	for _, item := range v.Array() {
		id := item.Get("product").String()
		if id == "" {
			continue
		}
		if seen[id] {
			return fmt.Errorf("duplicate product %s", id)
		}
		seen[id] = true
	}
	return nil
}
