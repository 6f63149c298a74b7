// Package testkit drives HTTP handlers in tests: it fires requests with an
// optional session token, decodes the JSON envelope and runs tables of
// request/expectation scenarios.
//
//	db := testkit.SQLite(t, models.All()...)
//	r := router.New()
//	routes.RegisterAPI(r, routes.Deps{DB: db, Hub: ws.NewHub()})
//	h := r.Handler()
//	testkit.Run(t, h, []testkit.Scenario{
//	    {Name: "anonymous", Method: "GET", URL: "/api/cart", ExpectedCode: 401},
//	})
package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/pkg/auth"
	"github.com/inkwell-studio/atelier/pkg/database"
)

// SQLite opens a private in-memory database and migrates models into it.
func SQLite(t *testing.T, models ...any) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) }) //nolint:errcheck
	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}
	return db
}

// Token signs a session token for a user.
func Token(t *testing.T, userID uint, email, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, email, role)
	require.NoError(t, err)
	return tok
}

// Request is one call against a handler. Body is JSON-encoded unless it is
// already a string, []byte or io.Reader.
type Request struct {
	Method  string
	URL     string
	Body    any
	Token   string
	Headers map[string]string
}

type Response struct {
	Code   int
	Header http.Header
	Body   []byte
}

// Envelope is the decoded API response body.
type Envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

// Do fires req at h. The token travels in the auth-token cookie.
func Do(t *testing.T, h http.Handler, req Request) *Response {
	t.Helper()

	var body io.Reader
	switch b := req.Body.(type) {
	case nil:
	case string:
		body = strings.NewReader(b)
	case []byte:
		body = bytes.NewReader(b)
	case io.Reader:
		body = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	r := httptest.NewRequest(method, req.URL, body)
	if body != nil && r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		r.Header.Set(k, v)
	}
	if req.Token != "" {
		r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: req.Token})
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return &Response{Code: rec.Code, Header: rec.Header(), Body: rec.Body.Bytes()}
}

// Envelope decodes the response body.
func (r *Response) Envelope(t *testing.T) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(r.Body, &env), "body: %s", r.Body)
	return env
}

// Data decodes the envelope's data field into dest.
func (r *Response) Data(t *testing.T, dest any) {
	t.Helper()
	env := r.Envelope(t)
	require.NotEmpty(t, env.Data, "response has no data: %s", r.Body)
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

// Scenario is one table-driven request and its expected outcome.
type Scenario struct {
	Name    string
	Method  string
	URL     string
	Body    any
	Token   string
	Headers map[string]string

	ExpectedCode  int
	ExpectedError string // compared with the envelope's error field when set
	ExpectedJSON  string // compared with the whole body, ignoring key order
}

// Run executes scenarios as subtests.
func Run(t *testing.T, h http.Handler, scenarios []Scenario) {
	t.Helper()
	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			resp := Do(t, h, Request{Method: s.Method, URL: s.URL, Body: s.Body, Token: s.Token, Headers: s.Headers})
			assert.Equal(t, s.ExpectedCode, resp.Code, "[%s] status code mismatch, body: %s", s.Name, resp.Body)
			if s.ExpectedError != "" {
				assert.Equal(t, s.ExpectedError, resp.Envelope(t).Error, "[%s] error mismatch", s.Name)
			}
			if s.ExpectedJSON != "" {
				AssertJSONEqual(t, []byte(s.ExpectedJSON), resp.Body)
			}
		})
	}
}

// AssertJSONEqual compares two JSON documents after decoding, so key order
// and whitespace never matter.
func AssertJSONEqual(t *testing.T, expected, actual []byte) {
	t.Helper()
	var exp, act any
	require.NoError(t, json.Unmarshal(expected, &exp), "expected is not valid JSON")
	if !assert.NoError(t, json.Unmarshal(actual, &act), "actual is not valid JSON: %s", actual) {
		return
	}
	assert.Equal(t, exp, act)
}
