package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Collection. Documents are kept as their JSON
// object form, so reads never alias caller memory.
type Memory[T any] struct {
	mu     sync.RWMutex
	docs   map[string]map[string]any
	seq    map[string]int
	next   int
	unique [][]string
	now    func() time.Time
}

// MemoryOption configures a Memory collection.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	unique [][]string
	now    func() time.Time
}

// WithUniqueFields rejects writes that duplicate the combined values of
// fields with ErrConflict.
func WithUniqueFields(fields ...string) MemoryOption {
	return func(c *memoryConfig) {
		if len(fields) > 0 {
			c.unique = append(c.unique, fields)
		}
	}
}

// WithMemoryClock overrides the timestamp source.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(c *memoryConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// NewMemory creates an empty in-process collection.
func NewMemory[T any](opts ...MemoryOption) *Memory[T] {
	cfg := &memoryConfig{now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Memory[T]{
		docs:   make(map[string]map[string]any),
		seq:    make(map[string]int),
		unique: cfg.unique,
		now:    cfg.now,
	}
}

func (m *Memory[T]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	obj, err := toObject(doc)
	if err != nil {
		return zero, err
	}

	id, _ := obj[KeyID].(string)
	if id == "" {
		id = NewID()
	}
	now := m.now().UTC()
	obj[KeyID] = id
	obj[KeyCreatedAt] = now.Format(time.RFC3339Nano)
	obj[KeyUpdatedAt] = now.Format(time.RFC3339Nano)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.docs[id]; exists {
		return zero, fmt.Errorf("%w: _id %s", ErrConflict, id)
	}
	if err := m.checkUnique(id, obj); err != nil {
		return zero, err
	}

	m.docs[id] = obj
	m.seq[id] = m.next
	m.next++
	return fromObject[T](obj)
}

func (m *Memory[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if !ValidID(id) {
		return zero, ErrInvalidID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.docs[id]
	if !ok {
		return zero, ErrNotFound
	}
	return fromObject[T](obj)
}

func (m *Memory[T]) FindOne(ctx context.Context, filter Filter) (T, error) {
	var zero T
	res, err := m.Find(ctx, filter, Page{Page: 1, Limit: 1, Sort: KeyCreatedAt})
	if err != nil {
		return zero, err
	}
	if len(res.Items) == 0 {
		return zero, ErrNotFound
	}
	return res.Items[0], nil
}

func (m *Memory[T]) Find(ctx context.Context, filter Filter, page Page) (Result[T], error) {
	page = page.Normalize()
	res := Result[T]{Items: []T{}, Page: page}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	want, err := toObject(filter)
	if err != nil {
		return res, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]string, 0, len(m.docs))
	for id, obj := range m.docs {
		if matches(obj, want) {
			matched = append(matched, id)
		}
	}

	field, dir := page.sortKey()
	slices.SortStableFunc(matched, func(a, b string) int {
		c := 0
		if field != KeyCreatedAt {
			c = compareValues(m.docs[a][field], m.docs[b][field])
		}
		if c == 0 {
			c = m.seq[a] - m.seq[b]
		}
		return c * dir
	})

	res.Total = int64(len(matched))
	start := min(page.Skip(), len(matched))
	end := min(start+page.Limit, len(matched))
	for _, id := range matched[start:end] {
		item, err := fromObject[T](m.docs[id])
		if err != nil {
			return res, err
		}
		res.Items = append(res.Items, item)
	}
	return res, nil
}

func (m *Memory[T]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if !ValidID(id) {
		return zero, ErrInvalidID
	}

	set, err := toObject(cleanPatch(patch))
	if err != nil {
		return zero, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.docs[id]
	if !ok {
		return zero, ErrNotFound
	}

	updated := make(map[string]any, len(current)+len(set))
	for k, v := range current {
		updated[k] = v
	}
	for k, v := range set {
		updated[k] = v
	}
	updated[KeyUpdatedAt] = m.now().UTC().Format(time.RFC3339Nano)

	if err := m.checkUnique(id, updated); err != nil {
		return zero, err
	}

	m.docs[id] = updated
	return fromObject[T](updated)
}

func (m *Memory[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidID(id) {
		return ErrInvalidID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	delete(m.seq, id)
	return nil
}

// checkUnique must be called with the write lock held.
func (m *Memory[T]) checkUnique(id string, obj map[string]any) error {
	for _, fields := range m.unique {
		for otherID, other := range m.docs {
			if otherID == id {
				continue
			}
			same := true
			for _, f := range fields {
				if !reflect.DeepEqual(obj[f], other[f]) {
					same = false
					break
				}
			}
			if same {
				return fmt.Errorf("%w: %s", ErrConflict, strings.Join(fields, ", "))
			}
		}
	}
	return nil
}

func toObject(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("store: encode document: %w", err)
	}
	obj := map[string]any{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("store: document must encode to a JSON object: %w", err)
	}
	return obj, nil
}

func fromObject[T any](obj map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(obj)
	if err != nil {
		return out, fmt.Errorf("store: encode document: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("store: decode document: %w", err)
	}
	return out, nil
}

func matches(obj, filter map[string]any) bool {
	for k, want := range filter {
		if !reflect.DeepEqual(obj[k], want) {
			return false
		}
	}
	return true
}

// compareValues orders JSON scalars: numbers numerically, everything else by
// its string form. Missing values sort first.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	fa, okA := a.(float64)
	fb, okB := b.(float64)
	if okA && okB {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
