package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/binder"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// Default failure messages.
const (
	MsgNotFound  = "Không tìm thấy dữ liệu"
	MsgForbidden = "Bạn không có quyền thực hiện thao tác này"
	MsgInvalidID = "ID không hợp lệ"
	MsgConflict  = "Dữ liệu đã tồn tại"
	MsgInvalid   = "Dữ liệu không hợp lệ"
)

// Access decides whether the caller may read or change doc.
type Access[T any] func(ctx context.Context, doc T) bool

// OwnerOrAdmin grants access to the document owner and to admins.
func OwnerOrAdmin[T any](owner func(T) string) Access[T] {
	return func(ctx context.Context, doc T) bool {
		return rbac.IsOwnerOrAdmin(ctx, owner(doc))
	}
}

// OwnerOnly grants access to the document owner alone.
func OwnerOnly[T any](owner func(T) string) Access[T] {
	return func(ctx context.Context, doc T) bool {
		id, ok := rbac.FromContext(ctx)
		return ok && id.SubjectID != "" && id.SubjectID == owner(doc)
	}
}

// Resource provides the CRUD handlers shared by the resource modules.
type Resource[T any] struct {
	// Store persists the documents.
	Store store.Collection[T]
	// Creatable lists the body fields a create may set, usually
	// Rules.Create.Fields().
	Creatable []string
	// Writable lists the body fields an update may change, usually
	// Rules.Update.Fields().
	Writable []string
	// Prepare runs on a bound document before it is inserted.
	Prepare func(ctx handler.Context, doc *T) error
	// BeforeUpdate runs on the merged document before the patch is stored.
	// It may change fields, which must then be added to the returned keys.
	BeforeUpdate func(ctx handler.Context, doc *T, keys []string) ([]string, error)
	// Access guards Get, Update and Delete. Nil allows every caller the
	// route tier admits.
	Access Access[T]
	// OwnerKey is the store field holding the owner's subject id. Mine
	// scopes its listing with it.
	OwnerKey string
	// OnChange runs after a document was created, updated or deleted.
	OnChange func(ctx context.Context, doc T)
	// QueryFilters names query parameters List turns into equality filters.
	QueryFilters []string
	// NotFound replaces MsgNotFound.
	NotFound string
	// Conflict replaces MsgConflict.
	Conflict string
}

// IDRequest binds the {id} route parameter.
type IDRequest struct {
	ID string `path:"id"`
}

// Create decodes the Creatable body fields into T, runs Prepare and
// inserts the document.
func (res *Resource[T]) Create() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, body map[string]any) handler.Response {
		var doc T
		if err := decodeFields(body, res.Creatable, &doc); err != nil {
			return handler.Error(err)
		}
		if res.Prepare != nil {
			if err := res.Prepare(ctx, &doc); err != nil {
				return handler.Error(err)
			}
		}
		saved, err := res.Store.Insert(ctx, doc)
		if err != nil {
			return handler.Error(res.mapError(err))
		}
		res.changed(ctx, saved)
		return handler.Created(saved)
	}, handler.WithBinders[handler.Context, map[string]any](binder.JSON()))
}

// Get returns one document.
func (res *Resource[T]) Get() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, req IDRequest) handler.Response {
		doc, err := res.Fetch(ctx, req.ID)
		if err != nil {
			return handler.Error(err)
		}
		return handler.JSON(doc)
	}, handler.WithBinders[handler.Context, IDRequest](binder.Path()))
}

// List returns one page of documents, filtered by QueryFilters.
func (res *Resource[T]) List() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, page store.Page) handler.Response {
		return res.page(ctx, res.queryFilter(ctx.Request()), page)
	}, handler.WithBinders[handler.Context, store.Page](binder.Query()))
}

// Mine returns one page of the caller's own documents.
func (res *Resource[T]) Mine() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, page store.Page) handler.Response {
		id, ok := ctx.Identity()
		if !ok {
			return handler.Error(handler.ErrUnauthorized)
		}
		filter := res.queryFilter(ctx.Request())
		filter[res.OwnerKey] = id.SubjectID
		return res.page(ctx, filter, page)
	}, handler.WithBinders[handler.Context, store.Page](binder.Query()))
}

// ListBy returns one page of documents whose key equals the route
// parameter param.
func (res *Resource[T]) ListBy(param, key string) http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, page store.Page) handler.Response {
		filter := res.queryFilter(ctx.Request())
		filter[key] = chi.URLParam(ctx.Request(), param)
		return res.page(ctx, filter, page)
	}, handler.WithBinders[handler.Context, store.Page](binder.Query()))
}

// Update applies the whitelisted body fields to the document.
// An update with no writable fields returns the document unchanged.
func (res *Resource[T]) Update() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, body map[string]any) handler.Response {
		doc, err := res.Patch(ctx, chi.URLParam(ctx.Request(), "id"), body)
		if err != nil {
			return handler.Error(err)
		}
		return handler.JSON(doc)
	}, handler.WithBinders[handler.Context, map[string]any](binder.JSON()))
}

// Delete removes the document.
func (res *Resource[T]) Delete() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, req IDRequest) handler.Response {
		doc, err := res.Fetch(ctx, req.ID)
		if err != nil {
			return handler.Error(err)
		}
		if err := res.Store.Delete(ctx, req.ID); err != nil {
			return handler.Error(res.mapError(err))
		}
		res.changed(ctx, doc)
		return handler.JSON(nil, handler.WithJSONMessage("Đã xóa thành công"))
	}, handler.WithBinders[handler.Context, IDRequest](binder.Path()))
}

// Fetch loads a document and applies Access.
func (res *Resource[T]) Fetch(ctx context.Context, id string) (T, error) {
	doc, err := res.Store.Get(ctx, id)
	if err != nil {
		return doc, res.mapError(err)
	}
	if res.Access != nil && !res.Access(ctx, doc) {
		var zero T
		return zero, handler.NewHTTPError(http.StatusForbidden, MsgForbidden)
	}
	return doc, nil
}

// Patch merges the writable keys of body into the document with id and
// stores them.
func (res *Resource[T]) Patch(ctx handler.Context, id string, body map[string]any) (T, error) {
	doc, err := res.Fetch(ctx, id)
	if err != nil {
		return doc, err
	}

	keys := make([]string, 0, len(body))
	for k := range body {
		if slices.Contains(res.Writable, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	if err := decodeFields(body, keys, &doc); err != nil {
		return doc, err
	}

	if res.BeforeUpdate != nil {
		if keys, err = res.BeforeUpdate(ctx, &doc, keys); err != nil {
			return doc, err
		}
	}
	if len(keys) == 0 {
		return doc, nil
	}

	updated, err := res.Store.Update(ctx, id, store.Pick(doc, keys...))
	if err != nil {
		return updated, res.mapError(err)
	}
	res.changed(ctx, updated)
	return updated, nil
}

func (res *Resource[T]) changed(ctx context.Context, doc T) {
	if res.OnChange != nil {
		res.OnChange(ctx, doc)
	}
}

// decodeFields overlays the listed keys of body onto dst. Top-level strings
// are trimmed.
func decodeFields(body map[string]any, keys []string, dst any) error {
	allowed := make(map[string]any, len(keys))
	for _, k := range keys {
		v, ok := body[k]
		if !ok {
			continue
		}
		if s, isString := v.(string); isString {
			v = strings.TrimSpace(s)
		}
		allowed[k] = v
	}
	raw, err := json.Marshal(allowed)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// The decoder's text stays in the log; clients get the fixed message.
		return fmt.Errorf("%w: %w", handler.NewHTTPError(http.StatusBadRequest, MsgInvalid), err)
	}
	return nil
}

func (res *Resource[T]) page(ctx context.Context, filter store.Filter, page store.Page) handler.Response {
	result, err := res.Store.Find(ctx, filter, page)
	if err != nil {
		return handler.Error(res.mapError(err))
	}
	return handler.JSON(result.Items, handler.WithJSONMeta(result.Meta()))
}

func (res *Resource[T]) queryFilter(r *http.Request) store.Filter {
	filter := store.Filter{}
	query := r.URL.Query()
	for _, key := range res.QueryFilters {
		if v := query.Get(key); v != "" {
			filter[key] = v
		}
	}
	return filter
}

func (res *Resource[T]) mapError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		msg := res.NotFound
		if msg == "" {
			msg = MsgNotFound
		}
		return handler.NewHTTPError(http.StatusNotFound, msg)
	case errors.Is(err, store.ErrInvalidID):
		return handler.NewHTTPError(http.StatusBadRequest, MsgInvalidID)
	case errors.Is(err, store.ErrConflict):
		msg := res.Conflict
		if msg == "" {
			msg = MsgConflict
		}
		return handler.NewHTTPError(http.StatusConflict, msg)
	default:
		return err
	}
}

// Rules pairs the create and update rule sets of a resource.
type Rules struct {
	Create validator.RuleSet
	Update validator.RuleSet
}

// NewRules derives the update rule set from create.
func NewRules(create validator.RuleSet) Rules {
	return Rules{Create: create, Update: create.Partial()}
}
