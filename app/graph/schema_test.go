package graph_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/inkwell-studio/atelier/app/graph"
	"github.com/inkwell-studio/atelier/app/models"
	gql "github.com/inkwell-studio/atelier/pkg/graphql"
	"github.com/inkwell-studio/atelier/pkg/testkit"
)

type result struct {
	Data struct {
		Artworks []struct {
			ID    int      `json:"id"`
			Title string   `json:"title"`
			Tags  []string `json:"tags"`
		} `json:"artworks"`
		Testimonials []struct {
			Name   string `json:"name"`
			Rating int    `json:"rating"`
		} `json:"testimonials"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func query(t *testing.T, h http.Handler, q string) result {
	t.Helper()
	body, err := json.Marshal(gql.Request{Query: q})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/graphql", strings.NewReader(string(body))))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestCatalogQueries(t *testing.T) {
	db := testkit.SQLite(t, models.All()...)
	require.NoError(t, db.Create(&models.Artwork{Title: "Blue Heron", Price: 120, Featured: true, Tags: datatypes.JSONSlice[string]{"ink"}}).Error)
	require.NoError(t, db.Create(&models.Artwork{Title: "Study", Price: 40}).Error)
	require.NoError(t, db.Create(&models.Testimonial{Name: "Mia", Content: "Lovely class", Rating: 5, Featured: true}).Error)

	schema, err := graph.NewSchema(db)
	require.NoError(t, err)
	h := gql.Handler(schema)

	res := query(t, h, `{ artworks(featured: true) { id title tags } testimonials { name rating } }`)
	require.Empty(t, res.Errors)
	require.Len(t, res.Data.Artworks, 1)
	assert.Equal(t, "Blue Heron", res.Data.Artworks[0].Title)
	assert.Equal(t, []string{"ink"}, res.Data.Artworks[0].Tags)
	require.Len(t, res.Data.Testimonials, 1)
	assert.Equal(t, 5, res.Data.Testimonials[0].Rating)
}

func TestUnknownArtworkIsAnError(t *testing.T) {
	db := testkit.SQLite(t, models.All()...)
	schema, err := graph.NewSchema(db)
	require.NoError(t, err)

	res := query(t, gql.Handler(schema), `{ artwork(id: 42) { title } }`)
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, "Artwork not found", res.Errors[0].Message)
}
