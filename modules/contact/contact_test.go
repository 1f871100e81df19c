package contact_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/contact"
	rt "github.com/jonh-steve/RunOut-Biliard-sub002/modules/resource/resourcetest"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
)

func TestContact(t *testing.T) {
	t.Parallel()
	h := rt.Router(contact.Routes(store.NewMemory[contact.Contact]()))

	rec := rt.Do(h, http.MethodPost, "/api/contact", `{"name":"An","email":"an@example.com","message":"ngắn"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := rt.Decode(t, rec, nil)
	assert.Equal(t, "Nội dung phải từ 10 đến 2000 ký tự", env.Message)
	assert.Len(t, env.Errors, 1)

	rec = rt.Do(h, http.MethodPost, "/api/contact", `{"name":"An","email":"an@example.com","message":"Shop có bán bàn bi-a lỗ không?"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var c contact.Contact
	rt.Decode(t, rec, &c)

	assert.Equal(t, http.StatusUnauthorized, rt.Do(h, http.MethodGet, "/api/contact", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, rt.Do(h, http.MethodGet, "/api/contact", "", rt.User).Code)

	var list []contact.Contact
	rt.Decode(t, rt.Do(h, http.MethodGet, "/api/contact", "", rt.Admin), &list)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)

	assert.Equal(t, http.StatusOK, rt.Do(h, http.MethodDelete, "/api/contact/"+c.ID, "", rt.Admin).Code)
	assert.Equal(t, http.StatusNotFound, rt.Do(h, http.MethodDelete, "/api/contact/"+c.ID, "", rt.Admin).Code)
}

func TestContact_SanitizesInput(t *testing.T) {
	t.Parallel()
	h := rt.Router(contact.Routes(store.NewMemory[contact.Contact]()))

	rec := rt.Do(h, http.MethodPost, "/api/contact",
		`{"name":"  <b>Lê   Văn C</b> ","email":"Le.Van..C@Shop.VN","subject":"Hỏi\ngiá","message":"<p>Bàn Aileex còn hàng không?</p>\r\n\r\n\r\nCảm ơn."}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var c contact.Contact
	rt.Decode(t, rec, &c)

	assert.Equal(t, "Lê Văn C", c.Name)
	assert.Equal(t, "le.van.c@shop.vn", c.Email)
	assert.Equal(t, "Hỏi giá", c.Subject)
	assert.Equal(t, "Bàn Aileex còn hàng không?\n\nCảm ơn.", c.Message)
}
