package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-studio/atelier/app/services"
)

func TestSlugify(t *testing.T) {
	for in, want := range map[string]string{
		"Studio Notes: Spring!":  "studio-notes-spring",
		"  Ink & Wash  ":         "ink-wash",
		"2026 Open Studio Dates": "2026-open-studio-dates",
		"---":                    "",
	} {
		assert.Equal(t, want, services.Slugify(in), in)
	}
}

func TestPostsShowPublishedOnly(t *testing.T) {
	svc := services.NewContentService(newDB(t))
	ctx := context.Background()

	live, err := svc.CreatePost(ctx, services.PostInput{
		Title:     ptr("Studio Notes: Spring!"),
		Content:   ptr("New paper arrived."),
		Category:  ptr("news"),
		Published: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "studio-notes-spring", live.Slug)
	require.NotNil(t, live.PublishedAt)
	assert.NotNil(t, live.Tags)

	draft, err := svc.CreatePost(ctx, services.PostInput{
		Title:   ptr("Kiln Schedule"),
		Slug:    ptr("kiln-schedule"),
		Content: ptr("Draft."),
	})
	require.NoError(t, err)
	assert.Nil(t, draft.PublishedAt)

	posts, err := svc.Posts(ctx, "")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, live.ID, posts[0].ID)

	posts, err = svc.Posts(ctx, "process")
	require.NoError(t, err)
	assert.Empty(t, posts)

	got, err := svc.PostBySlug(ctx, "studio-notes-spring")
	require.NoError(t, err)
	assert.Equal(t, "New paper arrived.", got.Content)

	_, err = svc.PostBySlug(ctx, "kiln-schedule")
	se := serviceError(t, err)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "Post not found", se.Message)

	updated, err := svc.UpdatePost(ctx, draft.ID, services.PostInput{Published: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Published)
	assert.NotNil(t, updated.PublishedAt)
	assert.Equal(t, "Kiln Schedule", updated.Title)
}

func TestPostSlugsAreUnique(t *testing.T) {
	svc := services.NewContentService(newDB(t))
	ctx := context.Background()

	first, err := svc.CreatePost(ctx, services.PostInput{Title: ptr("Open Studio"), Content: ptr("Saturday.")})
	require.NoError(t, err)

	_, err = svc.CreatePost(ctx, services.PostInput{Title: ptr("Open studio!"), Content: ptr("Sunday.")})
	se := serviceError(t, err)
	assert.Equal(t, http.StatusConflict, se.Code)
	assert.Equal(t, "A post with this slug already exists", se.Message)

	other, err := svc.CreatePost(ctx, services.PostInput{Title: ptr("Sunday"), Content: ptr("Sunday.")})
	require.NoError(t, err)
	_, err = svc.UpdatePost(ctx, other.ID, services.PostInput{Slug: ptr(first.Slug)})
	assert.Equal(t, http.StatusConflict, serviceError(t, err).Code)

	assert.Equal(t, http.StatusNotFound, serviceError(t, svc.DeletePost(ctx, 9999)).Code)
	require.NoError(t, svc.DeletePost(ctx, first.ID))
}

func TestTestimonialsFeatured(t *testing.T) {
	svc := services.NewContentService(newDB(t))
	ctx := context.Background()

	_, err := svc.CreateTestimonial(ctx, services.TestimonialInput{Name: " Mara ", Content: "Lovely class.", Rating: 5, Featured: true})
	require.NoError(t, err)
	plain, err := svc.CreateTestimonial(ctx, services.TestimonialInput{Name: "Joss", Content: "Good.", Rating: 4})
	require.NoError(t, err)

	featured, err := svc.Testimonials(ctx, true)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Mara", featured[0].Name)

	all, err := svc.Testimonials(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.DeleteTestimonial(ctx, plain.ID))
	assert.Equal(t, "Testimonial not found", serviceError(t, svc.DeleteTestimonial(ctx, plain.ID)).Message)
}
