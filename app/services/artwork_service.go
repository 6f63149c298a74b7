package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/config"
	"github.com/inkwell-studio/atelier/pkg/cache"
	"github.com/inkwell-studio/atelier/pkg/logger"
	"github.com/inkwell-studio/atelier/pkg/orm"
	"github.com/inkwell-studio/atelier/pkg/storage"
)

const artworkCachePrefix = "artworks:"

// Accepted upload types and the extension each is stored under.
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type ArtworkService struct {
	db      *gorm.DB
	pricing Pricing
}

func NewArtworkService(db *gorm.DB) *ArtworkService {
	return &ArtworkService{db: db, pricing: PricingFromConfig()}
}

// ArtworkFilter mirrors the gallery query string.
type ArtworkFilter struct {
	Category string
	Search   string
	Status   string
	Featured bool
	SortBy   string
}

func (f ArtworkFilter) cacheKey() string {
	v := url.Values{}
	v.Set("category", strings.ToLower(f.Category))
	v.Set("search", strings.ToLower(f.Search))
	v.Set("status", strings.ToUpper(f.Status))
	v.Set("featured", fmt.Sprint(f.Featured))
	v.Set("sort", f.SortBy)
	return artworkCachePrefix + "list:" + v.Encode()
}

func (f ArtworkFilter) scope(db *gorm.DB) *gorm.DB {
	if c := strings.TrimSpace(f.Category); c != "" && !strings.EqualFold(c, "all") {
		db = db.Where("category = ?", c)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := likePattern(s)
		db = db.Where(
			db.Session(&gorm.Session{NewDB: true}).
				Where("LOWER(title) LIKE ?", p).
				Or("LOWER(description) LIKE ?", p).
				Or("LOWER(medium) LIKE ?", p).
				Or(jsonArrayContains(db, "tags", s)),
		)
	}
	if status, ok := enumFilter(f.Status); ok {
		db = db.Where("status = ?", status)
	}
	if f.Featured {
		db = db.Where("featured = ?", true)
	}

	switch f.SortBy {
	case "price-low":
		return db.Order("price ASC")
	case "price-high":
		return db.Order("price DESC")
	case "title":
		return db.Order("title ASC")
	case "year":
		return db.Order("year DESC")
	default:
		return db.Order("created_at DESC")
	}
}

// List returns every artwork matching f, cached per filter set.
func (s *ArtworkService) List(ctx context.Context, f ArtworkFilter) ([]models.Artwork, error) {
	key := f.cacheKey()
	var artworks []models.Artwork
	if cache.Get(ctx, key, &artworks) {
		return artworks, nil
	}

	db := s.db.WithContext(ctx)
	if err := orm.New(db).Model(&models.Artwork{}).Scopes(f.scope).Get(&artworks); err != nil {
		return nil, fmt.Errorf("artworks: list: %w", err)
	}
	if err := s.withCounts(db, artworks); err != nil {
		return nil, err
	}
	if err := cache.Set(ctx, key, artworks, config.CacheTTL()); err != nil {
		logger.WithCtx(ctx).Warn("artworks: cache set", "error", err)
	}
	return artworks, nil
}

// Page returns one page of artworks matching f.
func (s *ArtworkService) Page(ctx context.Context, f ArtworkFilter, page, perPage int) ([]models.Artwork, orm.Pagination, error) {
	var artworks []models.Artwork
	db := s.db.WithContext(ctx)
	p, err := orm.New(db).Model(&models.Artwork{}).Scopes(f.scope).Paginate(page, perPage, &artworks)
	if err != nil {
		return nil, orm.Pagination{}, fmt.Errorf("artworks: page: %w", err)
	}
	return artworks, p, s.withCounts(db, artworks)
}

func (s *ArtworkService) withCounts(db *gorm.DB, artworks []models.Artwork) error {
	ids := make([]uint, len(artworks))
	for i := range artworks {
		ids[i] = artworks[i].ID
	}
	counts, err := countBy(db, &models.OrderItem{}, "artwork_id", ids, nil)
	if err != nil {
		return fmt.Errorf("artworks: count order items: %w", err)
	}
	for i := range artworks {
		artworks[i].OrderItemsCount = counts[artworks[i].ID]
	}
	return nil
}

func (s *ArtworkService) Get(ctx context.Context, id uint) (models.Artwork, error) {
	var a models.Artwork
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return a, notFoundAs(err, "Artwork not found")
	}
	return a, nil
}

// ArtworkInput is shared by create and partial update; nil fields are
// left untouched on update.
type ArtworkInput struct {
	Title       *string   `json:"title" validate:"max=255"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price" validate:"gte=0"`
	Category    *string   `json:"category" validate:"max=100"`
	Medium      *string   `json:"medium" validate:"max=100"`
	Dimensions  *string   `json:"dimensions" validate:"max=100"`
	Year        *int      `json:"year" validate:"gte=0,lte=9999"`
	Images      *[]string `json:"images"`
	Status      *string   `json:"status" validate:"in=AVAILABLE|SOLD|RESERVED|NOT_FOR_SALE"`
	Featured    *bool     `json:"featured"`
	Tags        *[]string `json:"tags"`
}

// CreateErrors reports the fields a new artwork cannot do without.
func (in ArtworkInput) CreateErrors() map[string]string {
	errs := map[string]string{}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		errs["title"] = "The title field is required."
	}
	if in.Price == nil {
		errs["price"] = "The price field is required."
	}
	return errs
}

func (in ArtworkInput) changes() map[string]any {
	m := map[string]any{}
	if in.Title != nil {
		m["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		m["description"] = *in.Description
	}
	if in.Price != nil {
		m["price"] = *in.Price
	}
	if in.Category != nil {
		m["category"] = *in.Category
	}
	if in.Medium != nil {
		m["medium"] = *in.Medium
	}
	if in.Dimensions != nil {
		m["dimensions"] = *in.Dimensions
	}
	if in.Year != nil {
		m["year"] = *in.Year
	}
	if in.Images != nil {
		m["images"] = datatypes.JSONSlice[string](nonNil(*in.Images))
	}
	if in.Status != nil {
		m["status"] = strings.ToUpper(*in.Status)
	}
	if in.Featured != nil {
		m["featured"] = *in.Featured
	}
	if in.Tags != nil {
		m["tags"] = datatypes.JSONSlice[string](nonNil(*in.Tags))
	}
	return m
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (s *ArtworkService) Create(ctx context.Context, in ArtworkInput) (models.Artwork, error) {
	a := models.Artwork{
		Title:       strings.TrimSpace(deref(in.Title)),
		Description: deref(in.Description),
		Price:       deref(in.Price),
		Category:    deref(in.Category),
		Medium:      deref(in.Medium),
		Dimensions:  deref(in.Dimensions),
		Year:        in.Year,
		Images:      nonNil(deref(in.Images)),
		Status:      models.ArtworkAvailable,
		Featured:    deref(in.Featured),
		Tags:        nonNil(deref(in.Tags)),
	}
	if in.Status != nil && *in.Status != "" {
		a.Status = strings.ToUpper(*in.Status)
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return a, fmt.Errorf("artworks: create: %w", err)
	}
	s.forget(ctx)
	return a, nil
}

func (s *ArtworkService) Update(ctx context.Context, id uint, in ArtworkInput) (models.Artwork, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return a, err
	}
	if changes := in.changes(); len(changes) > 0 {
		if err := s.db.WithContext(ctx).Model(&a).Updates(changes).Error; err != nil {
			return a, fmt.Errorf("artworks: update: %w", err)
		}
	}
	s.forget(ctx)
	return s.Get(ctx, id)
}

// Delete removes an artwork. Pending carts lose the item and are
// repriced; artworks that belong to placed orders are kept.
func (s *ArtworkService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Artwork
		if err := tx.First(&a, id).Error; err != nil {
			return notFoundAs(err, "Artwork not found")
		}

		var placed int64
		err := tx.Model(&models.OrderItem{}).
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("order_items.artwork_id = ? AND orders.status <> ?", id, models.OrderPending).
			Count(&placed).Error
		if err != nil {
			return err
		}
		if placed > 0 {
			return Conflict("Artwork is part of an order and cannot be deleted")
		}

		var carts []uint
		if err := tx.Model(&models.OrderItem{}).Where("artwork_id = ?", id).Pluck("order_id", &carts).Error; err != nil {
			return err
		}
		if err := tx.Where("artwork_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		for _, orderID := range carts {
			if _, err := refreshCart(tx, s.pricing, orderID); err != nil {
				return err
			}
		}
		return tx.Delete(&a).Error
	})
	if err != nil {
		return err
	}
	s.forget(ctx)
	return nil
}

func (s *ArtworkService) forget(ctx context.Context) {
	if err := cache.Forget(ctx, artworkCachePrefix); err != nil {
		logger.WithCtx(ctx).Warn("artworks: cache forget", "error", err)
	}
}

// Upload stores images on disk under artworks/<uuid><ext> and returns
// their public URLs. The type is sniffed from content, not trusted from
// the client.
func (s *ArtworkService) Upload(ctx context.Context, disk storage.Disk, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		u, err := storeImage(ctx, disk, fh)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

func storeImage(ctx context.Context, disk storage.Disk, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("artworks: open upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("artworks: read upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	ext, ok := imageTypes[contentType]
	if !ok {
		return "", BadRequest(fmt.Sprintf("%s is not a supported image (jpeg, png, webp or gif)", path.Base(fh.Filename)))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("artworks: rewind upload: %w", err)
	}

	return disk.Put(ctx, "artworks/"+uuid.NewString()+ext, f, contentType)
}
