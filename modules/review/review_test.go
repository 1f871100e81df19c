package review_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/product"
	rt "github.com/jonh-steve/RunOut-Biliard-sub002/modules/resource/resourcetest"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/review"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
)

type fixture struct {
	h        http.Handler
	products *store.Memory[product.Product]
	cue      product.Product
}

func setup(t *testing.T) fixture {
	t.Helper()
	products := store.NewMemory[product.Product]()
	cue := rt.Seed(t, products, product.Product{Title: "Cơ Mit", Price: 1500000, Category: "cue", Stock: 3})[0]
	reviews := store.NewMemory[review.Review]()
	return fixture{
		h:        rt.Router(review.New(reviews, products, nil).Routes()),
		products: products,
		cue:      cue,
	}
}

func (f fixture) post(t *testing.T, rating int, id *rbac.Identity) review.Review {
	t.Helper()
	body := fmt.Sprintf(`{"product":%q,"rating":%d,"comment":"Cơ đánh rất đầm tay"}`, f.cue.ID, rating)
	rec := rt.Do(f.h, http.MethodPost, "/api/review", body, id)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var r review.Review
	rt.Decode(t, rec, &r)
	return r
}

func TestCreate_UpdatesRating(t *testing.T) {
	t.Parallel()
	f := setup(t)

	r := f.post(t, 5, rt.User)
	assert.Equal(t, rt.User.SubjectID, r.User)
	f.post(t, 4, rt.Other)

	p, err := f.products.Get(t.Context(), f.cue.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, p.Rating)
	assert.Equal(t, 2, p.NumReviews)

	var list []review.Review
	rt.Decode(t, rt.Do(f.h, http.MethodGet, "/api/review/product/"+f.cue.ID, "", nil), &list)
	assert.Len(t, list, 2)
}

func TestCreate_Rejections(t *testing.T) {
	t.Parallel()
	f := setup(t)

	rec := rt.Do(f.h, http.MethodPost, "/api/review", fmt.Sprintf(`{"product":%q,"rating":6,"comment":"x"}`, f.cue.ID), rt.User)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Điểm đánh giá phải là số nguyên từ 1 đến 5", rt.Decode(t, rec, nil).Message)

	rec = rt.Do(f.h, http.MethodPost, "/api/review", fmt.Sprintf(`{"product":%q,"rating":3,"comment":"x"}`, store.NewID()), rt.User)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	f.post(t, 5, rt.User)
	rec = rt.Do(f.h, http.MethodPost, "/api/review", fmt.Sprintf(`{"product":%q,"rating":3,"comment":"x"}`, f.cue.ID), rt.User)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, review.MsgDuplicate, rt.Decode(t, rec, nil).Message)
}

func TestUpdateDelete_Ownership(t *testing.T) {
	t.Parallel()
	f := setup(t)
	r := f.post(t, 2, rt.User)
	path := "/api/review/" + r.ID

	assert.Equal(t, http.StatusForbidden, rt.Do(f.h, http.MethodPut, path, `{"rating":5}`, rt.Other).Code)
	assert.Equal(t, http.StatusForbidden, rt.Do(f.h, http.MethodPut, path, `{"rating":5}`, rt.Admin).Code)

	rec := rt.Do(f.h, http.MethodPut, path, `{"rating":4,"product":"64b7f0c2a1b2c3d4e5f60799"}`, rt.User)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got review.Review
	rt.Decode(t, rec, &got)
	assert.Equal(t, 4, got.Rating)
	assert.Equal(t, f.cue.ID, got.Product)

	p, err := f.products.Get(t.Context(), f.cue.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, p.Rating)

	assert.Equal(t, http.StatusForbidden, rt.Do(f.h, http.MethodDelete, path, "", rt.Other).Code)
	assert.Equal(t, http.StatusOK, rt.Do(f.h, http.MethodDelete, path, "", rt.Admin).Code)

	p, err = f.products.Get(t.Context(), f.cue.ID)
	require.NoError(t, err)
	assert.Zero(t, p.Rating)
	assert.Zero(t, p.NumReviews)
}
