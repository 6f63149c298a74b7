package reqid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-studio/atelier/pkg/reqid"
)

func TestMiddlewareGeneratesID(t *testing.T) {
	var seen string
	h := reqid.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, seen, 32)
	assert.Equal(t, seen, rec.Header().Get(reqid.Header))
}

func TestMiddlewareHonoursUpstreamID(t *testing.T) {
	var seen string
	h := reqid.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(reqid.Header, "edge-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "edge-42", seen)
}

func TestMiddlewareRejectsOversizedID(t *testing.T) {
	var seen string
	h := reqid.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(reqid.Header, strings.Repeat("x", 200))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Len(t, seen, 32)
}

func TestMiddlewareReplacesUnsafeID(t *testing.T) {
	var seen string
	h := reqid.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(reqid.Header, "abc\" injected=1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Len(t, seen, 32)
}

func TestSetForwardsID(t *testing.T) {
	out := httptest.NewRequest(http.MethodPost, "https://hooks.slack.example/x", nil)
	reqid.Set(reqid.WithValue(context.Background(), "edge-42"), out)
	assert.Equal(t, "edge-42", out.Header.Get(reqid.Header))

	bare := httptest.NewRequest(http.MethodPost, "https://hooks.slack.example/x", nil)
	reqid.Set(context.Background(), bare)
	assert.Empty(t, bare.Header.Get(reqid.Header))
}
