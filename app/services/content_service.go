package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
)

// ContentService manages blog posts and testimonials.
type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService { return &ContentService{db: db} }

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its words with dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func (s *ContentService) Posts(ctx context.Context, category string) ([]models.Post, error) {
	q := s.db.WithContext(ctx).Where("published = ?", true).Order("published_at DESC").Order("created_at DESC")
	if c := strings.TrimSpace(category); c != "" && !strings.EqualFold(c, "all") {
		q = q.Where("category = ?", c)
	}
	posts := []models.Post{}
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("posts: list: %w", err)
	}
	return posts, nil
}

// PostBySlug returns a published post.
func (s *ContentService) PostBySlug(ctx context.Context, slug string) (models.Post, error) {
	var p models.Post
	err := s.db.WithContext(ctx).Where("slug = ? AND published = ?", slug, true).First(&p).Error
	return p, notFoundAs(err, "Post not found")
}

type PostInput struct {
	Title      *string   `json:"title" validate:"max=255"`
	Slug       *string   `json:"slug" validate:"slug,max=255"`
	Excerpt    *string   `json:"excerpt" validate:"max=500"`
	Content    *string   `json:"content"`
	CoverImage *string   `json:"coverImage" validate:"max=500"`
	Category   *string   `json:"category" validate:"max=100"`
	Tags       *[]string `json:"tags"`
	Published  *bool     `json:"published"`
}

func (in PostInput) CreateErrors() map[string]string {
	errs := map[string]string{}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		errs["title"] = "The title field is required."
	}
	if in.Content == nil || strings.TrimSpace(*in.Content) == "" {
		errs["content"] = "The content field is required."
	}
	return errs
}

func (s *ContentService) CreatePost(ctx context.Context, in PostInput) (models.Post, error) {
	p := models.Post{
		Title:      strings.TrimSpace(deref(in.Title)),
		Slug:       deref(in.Slug),
		Excerpt:    deref(in.Excerpt),
		Content:    deref(in.Content),
		CoverImage: deref(in.CoverImage),
		Category:   deref(in.Category),
		Tags:       nonNil(deref(in.Tags)),
		Published:  deref(in.Published),
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.Published {
		now := time.Now()
		p.PublishedAt = &now
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return p, Conflict("A post with this slug already exists")
		}
		return p, fmt.Errorf("posts: create: %w", err)
	}
	return p, nil
}

func (s *ContentService) UpdatePost(ctx context.Context, id uint, in PostInput) (models.Post, error) {
	db := s.db.WithContext(ctx)
	var p models.Post
	if err := db.First(&p, id).Error; err != nil {
		return p, notFoundAs(err, "Post not found")
	}

	changes := map[string]any{}
	if in.Title != nil {
		changes["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		changes["slug"] = *in.Slug
	}
	if in.Excerpt != nil {
		changes["excerpt"] = *in.Excerpt
	}
	if in.Content != nil {
		changes["content"] = *in.Content
	}
	if in.CoverImage != nil {
		changes["cover_image"] = *in.CoverImage
	}
	if in.Category != nil {
		changes["category"] = *in.Category
	}
	if in.Tags != nil {
		changes["tags"] = datatypes.JSONSlice[string](nonNil(*in.Tags))
	}
	if in.Published != nil {
		changes["published"] = *in.Published
		if *in.Published && p.PublishedAt == nil {
			changes["published_at"] = time.Now()
		}
	}
	if len(changes) > 0 {
		if err := db.Model(&p).Updates(changes).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return p, Conflict("A post with this slug already exists")
			}
			return p, fmt.Errorf("posts: update: %w", err)
		}
	}
	err := db.First(&p, id).Error
	return p, err
}

func (s *ContentService) DeletePost(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return fmt.Errorf("posts: delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("Post not found")
	}
	return nil
}

func (s *ContentService) Testimonials(ctx context.Context, featuredOnly bool) ([]models.Testimonial, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if featuredOnly {
		q = q.Where("featured = ?", true)
	}
	out := []models.Testimonial{}
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("testimonials: list: %w", err)
	}
	return out, nil
}

type TestimonialInput struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Role     string  `json:"role" validate:"max=255"`
	Content  string  `json:"content" validate:"required,max=2000"`
	Rating   int     `json:"rating" validate:"required,gte=1,lte=5"`
	Avatar   *string `json:"avatar" validate:"max=500"`
	Featured bool    `json:"featured"`
}

func (s *ContentService) CreateTestimonial(ctx context.Context, in TestimonialInput) (models.Testimonial, error) {
	t := models.Testimonial{
		Name:     strings.TrimSpace(in.Name),
		Role:     strings.TrimSpace(in.Role),
		Content:  strings.TrimSpace(in.Content),
		Rating:   in.Rating,
		Avatar:   in.Avatar,
		Featured: in.Featured,
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return t, fmt.Errorf("testimonials: create: %w", err)
	}
	return t, nil
}

func (s *ContentService) DeleteTestimonial(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Testimonial{}, id)
	if res.Error != nil {
		return fmt.Errorf("testimonials: delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("Testimonial not found")
	}
	return nil
}
