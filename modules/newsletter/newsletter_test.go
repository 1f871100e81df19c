package newsletter_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/newsletter"
	rt "github.com/jonh-steve/RunOut-Biliard-sub002/modules/resource/resourcetest"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
)

func setup(t *testing.T) http.Handler {
	t.Helper()
	return rt.Router(newsletter.New(store.NewMemory[newsletter.Subscriber](store.WithUniqueFields("email"))).Routes())
}

func TestSubscribeUnsubscribe(t *testing.T) {
	t.Parallel()
	h := setup(t)

	rec := rt.Do(h, http.MethodPost, "/api/newsletter/subscribe", `{"email":"An@Example.com"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var s newsletter.Subscriber
	env := rt.Decode(t, rec, &s)
	assert.Equal(t, newsletter.MsgSubscribed, env.Message)
	assert.Equal(t, "an@example.com", s.Email)
	assert.True(t, s.Active)
	require.NoError(t, uuid.Validate(s.Token))

	rec = rt.Do(h, http.MethodPost, "/api/newsletter/subscribe", `{"email":"an@example.com"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = rt.Do(h, http.MethodPost, "/api/newsletter/unsubscribe", fmt.Sprintf(`{"token":%q}`, s.Token), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, newsletter.MsgUnsubscribed, rt.Decode(t, rec, nil).Message)

	rec = rt.Do(h, http.MethodPost, "/api/newsletter/subscribe", `{"email":"an@example.com"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var again newsletter.Subscriber
	rt.Decode(t, rec, &again)
	assert.Equal(t, s.ID, again.ID)
	assert.NotEqual(t, s.Token, again.Token)

	var list []newsletter.Subscriber
	rt.Decode(t, rt.Do(h, http.MethodGet, "/api/newsletter", "", rt.Admin), &list)
	assert.Len(t, list, 1)
}

func TestUnsubscribe_Rejections(t *testing.T) {
	t.Parallel()
	h := setup(t)

	rec := rt.Do(h, http.MethodPost, "/api/newsletter/unsubscribe", `{"token":"abc"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Mã hủy đăng ký không hợp lệ", rt.Decode(t, rec, nil).Message)

	rec = rt.Do(h, http.MethodPost, "/api/newsletter/unsubscribe", fmt.Sprintf(`{"token":%q}`, uuid.NewString()), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = rt.Do(h, http.MethodPost, "/api/newsletter/subscribe", `{"email":"not-an-email"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, rt.Do(h, http.MethodGet, "/api/newsletter", "", nil).Code)
}
