package store_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
)

var (
	_ store.Collection[item] = (*store.Memory[item])(nil)
	_ store.Collection[item] = (*store.Mongo[item])(nil)
)

type item struct {
	ID        string    `json:"_id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Brand     string    `json:"brand" bson:"brand"`
	Price     float64   `json:"price" bson:"price"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func seed(t *testing.T, m *store.Memory[item], items ...item) []item {
	t.Helper()
	out := make([]item, 0, len(items))
	for _, it := range items {
		saved, err := m.Insert(context.Background(), it)
		require.NoError(t, err)
		out = append(out, saved)
	}
	return out
}

func TestMemory_InsertGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := store.NewMemory[item]()

	saved, err := m.Insert(ctx, item{Name: "Cơ Mit", Price: 1200000})
	require.NoError(t, err)
	assert.True(t, store.ValidID(saved.ID))
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)

	got, err := m.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	_, err = m.Get(ctx, store.NewID())
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = m.Get(ctx, "42")
	assert.ErrorIs(t, err, store.ErrInvalidID)
}

func TestMemory_Unique(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := store.NewMemory[item](store.WithUniqueFields("name"))

	a := seed(t, m, item{Name: "a"}, item{Name: "b"})

	_, err := m.Insert(ctx, item{Name: "a"})
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = m.Update(ctx, a[1].ID, map[string]any{"name": "a"})
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = m.Update(ctx, a[0].ID, map[string]any{"name": "a", "price": 10})
	assert.NoError(t, err, "a document never conflicts with itself")
}

func TestMemory_Find(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := store.NewMemory[item]()
	seed(t, m,
		item{Name: "cue-1", Brand: "mit", Price: 300},
		item{Name: "cue-2", Brand: "fury", Price: 100},
		item{Name: "cue-3", Brand: "mit", Price: 200},
	)

	t.Run("filter", func(t *testing.T) {
		res, err := m.Find(ctx, store.Filter{"brand": "mit"}, store.Page{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, res.Total)
		require.Len(t, res.Items, 2)
		assert.Equal(t, "cue-3", res.Items[0].Name, "newest first by default")
	})

	t.Run("sort ascending by price", func(t *testing.T) {
		res, err := m.Find(ctx, nil, store.Page{Sort: "price"})
		require.NoError(t, err)
		names := []string{res.Items[0].Name, res.Items[1].Name, res.Items[2].Name}
		assert.Equal(t, []string{"cue-2", "cue-3", "cue-1"}, names)
	})

	t.Run("paginate", func(t *testing.T) {
		res, err := m.Find(ctx, nil, store.Page{Page: 2, Limit: 2, Sort: "-price"})
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.Total)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "cue-2", res.Items[0].Name)
		assert.Equal(t, map[string]any{"page": 2, "limit": 2, "total": int64(3), "pages": int64(2)}, res.Meta())
	})

	t.Run("page beyond range", func(t *testing.T) {
		res, err := m.Find(ctx, nil, store.Page{Page: 9})
		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.NotNil(t, res.Items)
	})

	t.Run("find one", func(t *testing.T) {
		got, err := m.FindOne(ctx, store.Filter{"name": "cue-2"})
		require.NoError(t, err)
		assert.Equal(t, 100.0, got.Price)

		_, err = m.FindOne(ctx, store.Filter{"name": "cue-9"})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestMemory_UpdateDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := store.NewMemory[item](store.WithMemoryClock(func() time.Time { return clock }))
	saved := seed(t, m, item{Name: "cue", Brand: "mit", Price: 100})[0]

	clock = clock.Add(time.Hour)
	updated, err := m.Update(ctx, saved.ID, map[string]any{
		"price":     150,
		"_id":       "ignored",
		"createdAt": "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, 150.0, updated.Price)
	assert.Equal(t, "mit", updated.Brand)
	assert.Equal(t, saved.CreatedAt, updated.CreatedAt)
	assert.Equal(t, clock, updated.UpdatedAt)

	_, err = m.Update(ctx, store.NewID(), map[string]any{"price": 1})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, m.Delete(ctx, saved.ID))
	assert.ErrorIs(t, m.Delete(ctx, saved.ID), store.ErrNotFound)
	assert.ErrorIs(t, m.Delete(ctx, "nope"), store.ErrInvalidID)
}

func TestPage_Normalize(t *testing.T) {
	t.Parallel()

	p := store.Page{Page: -1, Limit: 1000}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, store.MaxLimit, p.Limit)
	assert.Equal(t, "-createdAt", p.Sort)
	assert.Equal(t, 0, p.Skip())

	p = store.Page{Page: 3, Limit: 10, Sort: "price"}.Normalize()
	assert.Equal(t, 20, p.Skip())
	assert.Equal(t, "price", p.Sort)

	p = store.Page{Page: math.MaxInt / 50, Limit: 100}.Normalize()
	assert.Positive(t, p.Skip())
	assert.LessOrEqual(t, p.Skip(), math.MaxInt32)
}

func TestMemory_FindPastLastPage(t *testing.T) {
	t.Parallel()

	m := store.NewMemory[item]()
	seed(t, m, item{Name: "Cơ Mit M1"})

	res, err := m.Find(context.Background(), nil, store.Page{Page: 4611686018427387904, Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.EqualValues(t, 1, res.Total)
}

func TestPick(t *testing.T) {
	t.Parallel()

	it := item{ID: "x", Name: "cue", Price: 99}
	assert.Equal(t, map[string]any{"name": "cue", "price": 99.0}, store.Pick(&it, "name", "price", "unknown"))
	assert.Empty(t, store.Pick(42, "name"))
	assert.Empty(t, store.Pick((*item)(nil), "name"))
}
