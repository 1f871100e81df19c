package user

import (
	"time"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// User is a shop account.
type User struct {
	ID           string    `json:"_id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Avatar       string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Role         string    `json:"role" bson:"role"`
	PasswordHash string    `json:"passwordHash,omitempty" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Public returns the user without credentials, for responses.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// Rule sets of the user routes.
var (
	RegisterRules = validator.NewRuleSet("user.register",
		validator.Field("name").
			Required("Họ tên là bắt buộc").
			String("Họ tên phải là chuỗi").
			Length(2, 50, "Họ tên phải từ 2 đến 50 ký tự"),
		validator.Field("email").
			Required("Email là bắt buộc").
			Email("Email không hợp lệ"),
		validator.Field("password").
			Required("Mật khẩu là bắt buộc").
			Length(6, 100, "Mật khẩu phải có ít nhất 6 ký tự"),
		validator.Field("phone").
			Optional().
			Phone("Số điện thoại không hợp lệ"),
	)

	LoginRules = validator.NewRuleSet("user.login",
		validator.Field("email").
			Required("Email là bắt buộc").
			Email("Email không hợp lệ"),
		validator.Field("password").
			Required("Mật khẩu là bắt buộc").
			String("Mật khẩu phải là chuỗi"),
	)

	ProfileRules = validator.NewRuleSet("user.profile",
		validator.Field("name").
			String("Họ tên phải là chuỗi").
			Length(2, 50, "Họ tên phải từ 2 đến 50 ký tự"),
		validator.Field("phone").
			Phone("Số điện thoại không hợp lệ"),
		validator.Field("avatar").
			String("Ảnh đại diện phải là chuỗi"),
		validator.Field("password").
			Length(6, 100, "Mật khẩu phải có ít nhất 6 ký tự"),
	).Partial()

	RoleRules = validator.NewRuleSet("user.role",
		validator.Field("role").
			Required("Vai trò là bắt buộc").
			OneOf(Roles, "Vai trò không hợp lệ"),
	)
)
