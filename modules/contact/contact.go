// Package contact stores messages sent through the shop's contact form.
package contact

import (
	"net/http"
	"time"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/resource"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/route"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/sanitizer"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// Contact is one contact form submission.
type Contact struct {
	ID        string    `json:"_id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty" bson:"subject,omitempty"`
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Rules validate contact submissions.
var Rules = resource.NewRules(validator.NewRuleSet("contact",
	validator.Field("name").
		Required("Họ tên là bắt buộc").
		String("Họ tên phải là chuỗi").
		Length(2, 100, "Họ tên phải từ 2 đến 100 ký tự"),
	validator.Field("email").
		Required("Email là bắt buộc").
		Email("Email không hợp lệ"),
	validator.Field("phone").
		Optional().
		Phone("Số điện thoại không hợp lệ"),
	validator.Field("subject").
		Optional().
		String("Tiêu đề phải là chuỗi").
		Length(0, 200, "Tiêu đề tối đa 200 ký tự"),
	validator.Field("message").
		Required("Nội dung là bắt buộc").
		String("Nội dung phải là chuỗi").
		Length(10, 2000, "Nội dung phải từ 10 đến 2000 ký tự"),
))

func clean(_ handler.Context, c *Contact) error {
	c.Name = sanitizer.Line(c.Name)
	c.Email = sanitizer.Email(c.Email)
	c.Phone = sanitizer.Phone(c.Phone)
	c.Subject = sanitizer.Line(c.Subject)
	c.Message = sanitizer.Text(c.Message)
	return nil
}

// Routes returns the /api/contact group.
func Routes(contacts store.Collection[Contact]) route.Group {
	res := &resource.Resource[Contact]{
		Store:        contacts,
		Creatable:    Rules.Create.Fields(),
		Prepare:      clean,
		QueryFilters: []string{"email"},
		NotFound:     "Không tìm thấy liên hệ",
	}
	return route.Group{
		Prefix: "/api/contact",
		Routes: []route.Route{
			{Method: http.MethodPost, Path: "/", Tier: rbac.Public, Rules: &Rules.Create, FieldErrors: true, Throttled: true, Handler: res.Create()},
			{Method: http.MethodGet, Path: "/", Tier: rbac.Admin, Handler: res.List()},
			{Method: http.MethodDelete, Path: "/{id}", Tier: rbac.Admin, Handler: res.Delete()},
		},
	}
}
