package blog

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/resource"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/binder"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/route"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/slug"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// Post is a blog article.
type Post struct {
	ID        string    `json:"_id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Slug      string    `json:"slug" bson:"slug"`
	Excerpt   string    `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	Content   string    `json:"content" bson:"content"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
	Tags      []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	Author    string    `json:"author" bson:"author"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Rules validate post writes.
var Rules = resource.NewRules(validator.NewRuleSet("blog",
	validator.Field("title").
		Required("Tiêu đề là bắt buộc").
		String("Tiêu đề phải là chuỗi").
		Length(5, 200, "Tiêu đề phải từ 5 đến 200 ký tự"),
	validator.Field("excerpt").
		Optional().
		String("Tóm tắt phải là chuỗi").
		Length(0, 500, "Tóm tắt tối đa 500 ký tự"),
	validator.Field("content").
		Required("Nội dung là bắt buộc").
		String("Nội dung phải là chuỗi"),
	validator.Field("image").
		Optional().
		String("Ảnh bìa phải là chuỗi"),
	validator.Field("tags").
		Optional().
		Array(0, "Thẻ phải là một mảng"),
	validator.Field("tags.*").
		String("Thẻ phải là chuỗi"),
))

// MsgNotFound is the 404 message for unknown posts.
const MsgNotFound = "Không tìm thấy bài viết"

// Module serves /api/blog.
type Module struct {
	posts store.Collection[Post]
	res   *resource.Resource[Post]
}

// New creates the blog module. posts should be unique on "slug".
func New(posts store.Collection[Post]) *Module {
	m := &Module{posts: posts}
	m.res = &resource.Resource[Post]{
		Store:        posts,
		Creatable:    Rules.Create.Fields(),
		Writable:     Rules.Update.Fields(),
		Prepare:      m.prepare,
		BeforeUpdate: m.beforeUpdate,
		QueryFilters: []string{"author"},
		NotFound:     MsgNotFound,
	}
	return m
}

// Routes returns the /api/blog group. GET /{id} also accepts a slug.
func (m *Module) Routes() route.Group {
	return route.Group{
		Prefix: "/api/blog",
		Routes: []route.Route{
			{Method: http.MethodGet, Path: "/", Tier: rbac.Public, Handler: m.res.List()},
			{
				Method: http.MethodGet, Path: "/{id}", Tier: rbac.Public,
				Handler: handler.Wrap(m.get, handler.WithBinders[handler.Context, resource.IDRequest](binder.Path())),
			},
			{Method: http.MethodPost, Path: "/", Tier: rbac.Admin, Rules: &Rules.Create, FieldErrors: true, Handler: m.res.Create()},
			{Method: http.MethodPut, Path: "/{id}", Tier: rbac.Admin, Rules: &Rules.Update, FieldErrors: true, Handler: m.res.Update()},
			{Method: http.MethodDelete, Path: "/{id}", Tier: rbac.Admin, Handler: m.res.Delete()},
		},
	}
}

func (m *Module) get(ctx handler.Context, req resource.IDRequest) handler.Response {
	if store.ValidID(req.ID) {
		p, err := m.res.Fetch(ctx, req.ID)
		if err != nil {
			return handler.Error(err)
		}
		return handler.JSON(p)
	}
	p, err := m.posts.FindOne(ctx, store.Filter{"slug": req.ID})
	if errors.Is(err, store.ErrNotFound) {
		return handler.Error(handler.NewHTTPError(http.StatusNotFound, MsgNotFound))
	}
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(p)
}

func (m *Module) prepare(ctx handler.Context, p *Post) error {
	if id, ok := ctx.Identity(); ok {
		p.Author = id.SubjectID
	}
	s, err := m.uniqueSlug(ctx, p.Title, "")
	p.Slug = s
	return err
}

func (m *Module) beforeUpdate(ctx handler.Context, p *Post, keys []string) ([]string, error) {
	if !slices.Contains(keys, "title") {
		return keys, nil
	}
	s, err := m.uniqueSlug(ctx, p.Title, p.ID)
	if err != nil {
		return keys, err
	}
	p.Slug = s
	return append(keys, "slug"), nil
}

// uniqueSlug derives a slug from title, adding a random suffix when another
// post already uses it.
func (m *Module) uniqueSlug(ctx context.Context, title, self string) (string, error) {
	s := slug.Make(title, slug.MaxLength(80))
	other, err := m.posts.FindOne(ctx, store.Filter{"slug": s})
	switch {
	case errors.Is(err, store.ErrNotFound), err == nil && other.ID == self:
		return s, nil
	case err != nil:
		return "", err
	default:
		return slug.Make(title, slug.MaxLength(80), slug.WithSuffix(6)), nil
	}
}
