package review

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/product"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/resource"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/logger"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/route"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/sanitizer"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// Review is a user's rating of a product.
type Review struct {
	ID        string    `json:"_id" bson:"_id"`
	User      string    `json:"user" bson:"user"`
	Product   string    `json:"product" bson:"product"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func ratingField() *validator.FieldRule {
	return validator.Field("rating").
		Required("Điểm đánh giá là bắt buộc").
		Int(1, "Điểm đánh giá phải là số nguyên từ 1 đến 5").
		Range(1, 5, "Điểm đánh giá phải là số nguyên từ 1 đến 5")
}

func commentField() *validator.FieldRule {
	return validator.Field("comment").
		Required("Nội dung đánh giá là bắt buộc").
		String("Nội dung đánh giá phải là chuỗi").
		Length(1, 1000, "Nội dung đánh giá tối đa 1000 ký tự")
}

// Rules validate review writes. The product of a review never changes.
var Rules = resource.Rules{
	Create: validator.NewRuleSet("review",
		validator.Field("product").
			Required("Mã sản phẩm là bắt buộc").
			ObjectID("Mã sản phẩm không hợp lệ"),
		ratingField(),
		commentField(),
	),
	Update: validator.NewRuleSet("review", ratingField(), commentField()).Partial(),
}

// Failure messages.
const (
	MsgNotFound  = "Không tìm thấy đánh giá"
	MsgDuplicate = "Bạn đã đánh giá sản phẩm này"
)

// Module serves /api/review and keeps product ratings current.
type Module struct {
	reviews  store.Collection[Review]
	products store.Collection[product.Product]
	res      *resource.Resource[Review]
	edit     *resource.Resource[Review]
	log      *slog.Logger
}

// New creates the review module.
func New(reviews store.Collection[Review], products store.Collection[product.Product], log *slog.Logger) *Module {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	m := &Module{
		reviews:  reviews,
		products: products,
		log:      log.With(logger.Component("review")),
	}
	owner := func(r Review) string { return r.User }
	m.res = &resource.Resource[Review]{
		Store:     reviews,
		Creatable: Rules.Create.Fields(),
		Prepare:   m.prepare,
		Access:    resource.OwnerOrAdmin(owner),
		OnChange:  m.refresh,
		NotFound:  MsgNotFound,
	}
	m.edit = &resource.Resource[Review]{
		Store:    reviews,
		Writable: Rules.Update.Fields(),
		Access:   resource.OwnerOnly(owner),
		BeforeUpdate: func(_ handler.Context, r *Review, keys []string) ([]string, error) {
			r.Comment = sanitizer.Text(r.Comment)
			return keys, nil
		},
		OnChange: m.refresh,
		NotFound: MsgNotFound,
	}
	return m
}

// Routes returns the /api/review group.
func (m *Module) Routes() route.Group {
	return route.Group{
		Prefix: "/api/review",
		Routes: []route.Route{
			{Method: http.MethodGet, Path: "/product/{product}", Tier: rbac.Public, Handler: m.res.ListBy("product", "product")},
			{Method: http.MethodPost, Path: "/", Tier: rbac.Authenticated, Rules: &Rules.Create, Handler: m.res.Create()},
			{Method: http.MethodPut, Path: "/{id}", Tier: rbac.Authenticated, Rules: &Rules.Update, Handler: m.edit.Update()},
			{Method: http.MethodDelete, Path: "/{id}", Tier: rbac.Authenticated, Handler: m.res.Delete()},
		},
	}
}

func (m *Module) prepare(ctx handler.Context, r *Review) error {
	id, ok := ctx.Identity()
	if !ok {
		return handler.ErrUnauthorized
	}
	r.User = id.SubjectID
	r.Comment = sanitizer.Text(r.Comment)

	if _, err := m.products.Get(ctx, r.Product); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return handler.NewHTTPError(http.StatusNotFound, product.MsgNotFound)
		}
		return err
	}
	_, err := m.reviews.FindOne(ctx, store.Filter{"user": r.User, "product": r.Product})
	switch {
	case err == nil:
		return handler.NewHTTPError(http.StatusConflict, MsgDuplicate)
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return err
	}
}

// refresh recomputes the rating summary of the review's product.
func (m *Module) refresh(ctx context.Context, r Review) {
	sum, n := 0, 0
	page := store.Page{Page: 1, Limit: store.MaxLimit}
	for {
		res, err := m.reviews.Find(ctx, store.Filter{"product": r.Product}, page)
		if err != nil {
			m.log.ErrorContext(ctx, "rating refresh failed", slog.String("product", r.Product), logger.Error(err))
			return
		}
		for _, it := range res.Items {
			sum += it.Rating
			n++
		}
		if len(res.Items) < page.Limit {
			break
		}
		page.Page++
	}

	rating := 0.0
	if n > 0 {
		rating = math.Round(float64(sum)/float64(n)*10) / 10
	}
	if _, err := m.products.Update(ctx, r.Product, map[string]any{"rating": rating, "numReviews": n}); err != nil {
		m.log.WarnContext(ctx, "rating not stored", slog.String("product", r.Product), logger.Error(err))
	}
}
