package seeders

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/app/services"
	"github.com/inkwell-studio/atelier/config"
)

func init() {
	Register("admin", Admin)
	Register("artworks", Artworks)
	Register("classes", Classes)
	Register("posts", Posts)
	Register("testimonials", Testimonials)
}

// Admin ensures ADMIN_EMAIL can sign in with ADMIN_PASSWORD.
func Admin(ctx context.Context, db *gorm.DB) error {
	_, err := services.NewAuthService(db).EnsureAdmin(ctx,
		config.AdminEmail(),
		config.Get("ADMIN_NAME", "Studio Admin"),
		config.Get("ADMIN_PASSWORD", "change-me-now"),
	)
	return err
}

func list(v ...string) datatypes.JSONSlice[string] {
	if v == nil {
		v = []string{}
	}
	return datatypes.JSONSlice[string](v)
}

func year(y int) *int { return &y }

func Artworks(ctx context.Context, db *gorm.DB) error {
	if ok, err := empty(ctx, db, &models.Artwork{}); err != nil || !ok {
		return err
	}
	artworks := []models.Artwork{
		{
			Title: "Morning Tide", Description: "Layered washes of indigo over cold-pressed paper.",
			Price: 420, Category: "painting", Medium: "Watercolor", Dimensions: "40 x 50 cm", Year: year(2024),
			Images: list("/storage/samples/morning-tide.jpg"), Tags: list("sea", "blue", "landscape"),
			Status: models.ArtworkAvailable, Featured: true,
		},
		{
			Title: "Stoneware Moon Jar", Description: "Wheel-thrown in two halves and joined at the belly.",
			Price: 680, Category: "ceramics", Medium: "Stoneware", Dimensions: "32 cm tall", Year: year(2023),
			Images: list("/storage/samples/moon-jar.jpg"), Tags: list("vessel", "white"),
			Status: models.ArtworkAvailable, Featured: true,
		},
		{
			Title: "Quiet Orchard", Description: "Oil on linen.",
			Price: 1250, Category: "painting", Medium: "Oil", Dimensions: "80 x 100 cm", Year: year(2022),
			Images: list("/storage/samples/quiet-orchard.jpg"), Tags: list("trees", "green"),
			Status: models.ArtworkSold,
		},
		{
			Title: "Heron Study", Description: "Ink sketch from the river walk series.",
			Price: 95, Category: "drawing", Medium: "Ink", Dimensions: "21 x 30 cm", Year: year(2024),
			Images: list("/storage/samples/heron.jpg"), Tags: list("bird", "ink"),
			Status: models.ArtworkAvailable,
		},
	}
	return db.WithContext(ctx).Create(&artworks).Error
}

func Classes(ctx context.Context, db *gorm.DB) error {
	if ok, err := empty(ctx, db, &models.Class{}); err != nil || !ok {
		return err
	}
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 14).Add(10 * time.Hour)
	classes := []models.Class{
		{
			Title: "Beginner Wheel Throwing", Description: "Centre, open and pull your first cylinders.",
			Level: models.LevelBeginner, Duration: "3 hours", Sessions: 4, Price: 240, MaxStudents: 8,
			Schedule: "Saturdays 10:00-13:00", StartDate: start, EndDate: start.AddDate(0, 0, 21).Add(3 * time.Hour),
			Location: "Studio A", Category: "ceramics",
			Materials: list("Clay", "Glazes", "Apron"), Highlights: list("Small group", "Kiln firing included"),
			Curriculum: list("Wedging", "Centering", "Pulling walls", "Trimming"),
			Requirements: list("Short nails"), Included: list("5 kg clay", "Two firings"),
			Images: list(), Status: models.ClassActive,
		},
		{
			Title: "Watercolor Landscapes", Description: "Wet-in-wet skies and layered foregrounds.",
			Level: models.LevelIntermediate, Duration: "2 hours", Sessions: 6, Price: 180, MaxStudents: 12,
			Schedule: "Wednesdays 18:00-20:00", StartDate: start.AddDate(0, 0, 3), EndDate: start.AddDate(0, 0, 38),
			Location: "Studio B", Category: "painting",
			Materials: list("Paper", "Brushes"), Highlights: list("Plein-air session"),
			Curriculum: list("Washes", "Glazing", "Composition"),
			Requirements: list(), Included: list("Paper pad"),
			Images: list(), Status: models.ClassActive,
		},
	}
	return db.WithContext(ctx).Create(&classes).Error
}

func Posts(ctx context.Context, db *gorm.DB) error {
	if ok, err := empty(ctx, db, &models.Post{}); err != nil || !ok {
		return err
	}
	now := time.Now().UTC()
	posts := []models.Post{
		{
			Title: "Opening the Spring Kiln", Slug: "opening-the-spring-kiln",
			Excerpt: "What came out of the first firing of the year.",
			Content: "The first firing of the year is always a gamble.", Category: "studio",
			Tags: list("ceramics", "kiln"), Published: true, PublishedAt: &now,
		},
		{
			Title: "Notes on Indigo", Slug: "notes-on-indigo",
			Excerpt: "Draft", Content: "Work in progress.", Category: "process",
			Tags: list("watercolor"),
		},
	}
	return db.WithContext(ctx).Create(&posts).Error
}

func Testimonials(ctx context.Context, db *gorm.DB) error {
	if ok, err := empty(ctx, db, &models.Testimonial{}); err != nil || !ok {
		return err
	}
	items := []models.Testimonial{
		{Name: "Priya S.", Role: "Student", Content: "I left with three bowls and a new obsession.", Rating: 5, Featured: true},
		{Name: "Tom R.", Role: "Collector", Content: "The moon jar is even better in person.", Rating: 5, Featured: true},
		{Name: "Lena K.", Role: "Student", Content: "Patient teaching and a lovely space.", Rating: 4},
	}
	return db.WithContext(ctx).Create(&items).Error
}
