package user

import (
	"net/http"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
)

var (
	ErrEmailTaken         = handler.NewHTTPError(http.StatusConflict, "Email đã được sử dụng")
	ErrInvalidCredentials = handler.NewHTTPError(http.StatusUnauthorized, "Email hoặc mật khẩu không đúng")
	ErrNotFound           = handler.NewHTTPError(http.StatusNotFound, "Không tìm thấy người dùng")
	ErrSelfModification   = handler.NewHTTPError(http.StatusBadRequest, "Không thể thay đổi tài khoản của chính mình")
)
