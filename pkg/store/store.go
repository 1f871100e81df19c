package store

import (
	"context"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Reserved document keys maintained by every Collection.
const (
	KeyID        = "_id"
	KeyCreatedAt = "createdAt"
	KeyUpdatedAt = "updatedAt"
)

// Pagination limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Filter selects documents by equality on top-level fields.
type Filter map[string]any

// Page is a pagination and ordering request. Sort names a field, optionally
// prefixed with "-" for descending order; it defaults to newest first.
type Page struct {
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
	Sort  string `query:"sort"`
}

// Normalize clamps the page to valid bounds. Page is capped so that Skip
// never overflows.
func (p Page) Normalize() Page {
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if maxPage := math.MaxInt32 / p.Limit; p.Page > maxPage {
		p.Page = maxPage
	}
	if strings.TrimLeft(p.Sort, "-") == "" {
		p.Sort = "-" + KeyCreatedAt
	}
	return p
}

// Skip returns the number of documents before the page.
func (p Page) Skip() int {
	return (p.Page - 1) * p.Limit
}

// sortKey splits Sort into the field and the direction (1 or -1).
func (p Page) sortKey() (string, int) {
	if field, ok := strings.CutPrefix(p.Sort, "-"); ok {
		return field, -1
	}
	return p.Sort, 1
}

// Result is one page of documents and the total number of matches.
type Result[T any] struct {
	Items []T
	Total int64
	Page  Page
}

// Meta returns pagination metadata for the response envelope.
func (r Result[T]) Meta() map[string]any {
	pages := (r.Total + int64(r.Page.Limit) - 1) / int64(max(r.Page.Limit, 1))
	return map[string]any{
		"page":  r.Page.Page,
		"limit": r.Page.Limit,
		"total": r.Total,
		"pages": pages,
	}
}

// Collection stores documents of type T. T is encoded through its json tags
// by Memory and its bson tags by Mongo; both must name fields identically.
// Every document gets a 24-hex _id and createdAt/updatedAt timestamps.
type Collection[T any] interface {
	Insert(ctx context.Context, doc T) (T, error)
	Get(ctx context.Context, id string) (T, error)
	FindOne(ctx context.Context, filter Filter) (T, error)
	Find(ctx context.Context, filter Filter, page Page) (Result[T], error)
	// Update sets the patch fields on the document and returns the result.
	Update(ctx context.Context, id string, patch map[string]any) (T, error)
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh document id.
func NewID() string {
	return bson.NewObjectID().Hex()
}

// ValidID reports whether id is a 24-hex ObjectID.
func ValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}

// cleanPatch drops the keys a caller may not overwrite.
func cleanPatch(patch map[string]any) map[string]any {
	out := make(map[string]any, len(patch))
	for k, v := range patch {
		switch k {
		case KeyID, KeyCreatedAt, KeyUpdatedAt:
			continue
		}
		out[k] = v
	}
	return out
}
