package ctx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-studio/atelier/pkg/auth"
	appctx "github.com/inkwell-studio/atelier/pkg/ctx"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.Success(map[string]any{"id": 1})
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 200, body["status"])
	assert.Equal(t, map[string]any{"id": float64(1)}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.NotFound("Artwork not found")
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Artwork not found", decode(t, rec)["error"])
}

func TestEmptySliceIsKept(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.Success([]string{})
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.JSONEq(t, `{"status":200,"data":[]}`, rec.Body.String())
}

func TestBindJSON(t *testing.T) {
	type input struct {
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	cases := []struct {
		name   string
		body   string
		ok     bool
		status int
	}{
		{"valid", `{"email":"a@example.com","password":"secret1"}`, true, 0},
		{"malformed", `{"email":`, false, http.StatusBadRequest},
		{"empty", ``, false, http.StatusBadRequest},
		{"invalid", `{"email":"nope","password":"x"}`, false, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))

			var got bool
			appctx.Wrap(func(c *appctx.Context) {
				var in input
				got = c.BindJSON(&in)
			})(rec, req)

			assert.Equal(t, tc.ok, got)
			if !tc.ok {
				assert.Equal(t, tc.status, rec.Code)
			}
		})
	}
}

func TestValidationErrorCarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.ValidationError(map[string]string{"title": "The title field is required."})
	})(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	body := decode(t, rec)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Equal(t, map[string]any{"title": "The title field is required."}, body["errors"])
}

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	var id uint
	var ok bool
	r.Get("/artworks/{id}", appctx.Wrap(func(c *appctx.Context) {
		id, ok = c.ParamUint("id")
		c.Success(nil)
	}))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/artworks/17", nil))
	assert.True(t, ok)
	assert.Equal(t, uint(17), id)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/artworks/abc", nil))
	assert.False(t, ok)
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?featured=true&page=3&perPage=-2", nil)
	appctx.Wrap(func(c *appctx.Context) {
		assert.True(t, c.QueryBool("featured"))
		assert.False(t, c.QueryBool("upcoming"))
		assert.Equal(t, 3, c.QueryInt("page", 1))
		assert.Equal(t, 12, c.QueryInt("perPage", 12))
	})(httptest.NewRecorder(), req)
}

func TestUserIDFromClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{UserID: 5}))

	appctx.Wrap(func(c *appctx.Context) {
		assert.Equal(t, uint(5), c.UserID())
	})(httptest.NewRecorder(), req)

	appctx.Wrap(func(c *appctx.Context) {
		assert.Zero(t, c.UserID())
	})(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
