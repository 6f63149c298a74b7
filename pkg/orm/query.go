// Package orm adds pagination and read-through caching on top of GORM.
package orm

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/pkg/cache"
)

const maxPerPage = 100

// Pagination is the metadata returned alongside a page of results.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Query wraps a *gorm.DB scoped to one model.
type Query struct {
	db *gorm.DB
}

// New starts a query on db.
func New(db *gorm.DB) *Query { return &Query{db: db} }

// DB exposes the underlying statement for clauses Query does not wrap.
func (q *Query) DB() *gorm.DB { return q.db }

func (q *Query) Model(v any) *Query { return &Query{db: q.db.Model(v)} }

func (q *Query) Where(query any, args ...any) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(v any) *Query { return &Query{db: q.db.Order(v)} }

func (q *Query) Preload(assoc string, args ...any) *Query {
	return &Query{db: q.db.Preload(assoc, args...)}
}

// Scopes applies GORM scopes such as filter builders.
func (q *Query) Scopes(fns ...func(*gorm.DB) *gorm.DB) *Query {
	return &Query{db: q.db.Scopes(fns...)}
}

func (q *Query) Get(dest any) error { return q.db.Find(dest).Error }

func (q *Query) First(dest any) error { return q.db.First(dest).Error }

// Paginate loads one page into dest. page and perPage are clamped to
// sensible bounds.
func (q *Query) Paginate(page, perPage int, dest any) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 12
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	var total int64
	if err := q.db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}
	if err := q.db.Offset((page - 1) * perPage).Limit(perPage).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(perPage))),
	}, nil
}

// Cache serves dest from the cache under key, loading with Find on a miss.
func (q *Query) Cache(ctx context.Context, key string, ttl time.Duration, dest any) error {
	if cache.Get(ctx, key, dest) {
		return nil
	}
	if err := q.db.Find(dest).Error; err != nil {
		return err
	}
	cache.Set(ctx, key, dest, ttl) //nolint:errcheck
	return nil
}
