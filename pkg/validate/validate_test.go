package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-studio/atelier/pkg/validate"
)

type artworkInput struct {
	Title  string   `json:"title"  validate:"required,max=20"`
	Price  float64  `json:"price"  validate:"gte=0"`
	Status *string  `json:"status" validate:"in=AVAILABLE|SOLD|RESERVED|NOT_FOR_SALE"`
	Year   *int     `json:"year"   validate:"gte=1900,lte=2100"`
	Tags   []string `json:"tags"   validate:"max=3"`
	Link   string   `json:"link"   validate:"nullable,url"`
}

func ptr[T any](v T) *T { return &v }

func TestValidArtwork(t *testing.T) {
	errs := validate.Struct(artworkInput{
		Title:  "Harbour at Dusk",
		Price:  450,
		Status: ptr("available"),
		Year:   ptr(2024),
		Tags:   []string{"oil", "seascape"},
	})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredField(t *testing.T) {
	errs := validate.Struct(&artworkInput{})
	assert.Equal(t, "The title field is required.", errs["title"])
	assert.Len(t, errs, 1)
}

func TestNilPointerIsAbsent(t *testing.T) {
	errs := validate.Struct(artworkInput{Title: "x"})
	assert.NotContains(t, errs, "status")
	assert.NotContains(t, errs, "year")
}

func TestInRule(t *testing.T) {
	errs := validate.Struct(artworkInput{Title: "x", Status: ptr("LOST")})
	assert.Equal(t, "The selected status is invalid.", errs["status"])
}

func TestNumericBounds(t *testing.T) {
	errs := validate.Struct(artworkInput{Title: "x", Price: -1, Year: ptr(1200)})
	assert.Contains(t, errs["price"], "greater than or equal to 0")
	assert.Contains(t, errs["year"], "greater than or equal to 1900")
}

func TestLengthRules(t *testing.T) {
	errs := validate.Struct(artworkInput{
		Title: "A title that is far too long",
		Tags:  []string{"a", "b", "c", "d"},
	})
	assert.Equal(t, "The title may not be greater than 20 characters.", errs["title"])
	assert.Equal(t, "The tags may not be greater than 3 items.", errs["tags"])
}

func TestNullableURL(t *testing.T) {
	assert.NotContains(t, validate.Struct(artworkInput{Title: "x"}), "link")
	assert.Contains(t, validate.Struct(artworkInput{Title: "x", Link: "ftp://nope"}), "link")
	assert.NotContains(t, validate.Struct(artworkInput{Title: "x", Link: "https://cdn.example.com/a.jpg"}), "link")
}

func TestEmailAndSlug(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
		Slug  string `json:"slug"  validate:"slug"`
	}
	errs := validate.Struct(in{Email: "not-an-email", Slug: "Bad Slug"})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "slug")

	errs = validate.Struct(in{Email: "artist@example.com", Slug: "spring-watercolour-class"})
	assert.Empty(t, errs)
}

func TestDateRule(t *testing.T) {
	type in struct {
		StartDate string `json:"startDate" validate:"required,date"`
	}
	assert.Empty(t, validate.Struct(in{StartDate: "2026-03-01"}))
	assert.Empty(t, validate.Struct(in{StartDate: "2026-03-01T10:00:00Z"}))
	assert.Contains(t, validate.Struct(in{StartDate: "March first"}), "startDate")
}

func TestNonStructIsIgnored(t *testing.T) {
	assert.Empty(t, validate.Struct("hello"))
	assert.Empty(t, validate.Struct((*artworkInput)(nil)))
}
