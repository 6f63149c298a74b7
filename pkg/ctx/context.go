// Package ctx gives handlers a single *Context instead of the
// (http.ResponseWriter, *http.Request) pair:
//
//	router.Get("/artworks/{id}", "artworks.show", ctx.Wrap(func(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    ...
//	    c.Success(artwork)
//	}))
package ctx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-studio/atelier/pkg/auth"
	"github.com/inkwell-studio/atelier/pkg/bind"
	"github.com/inkwell-studio/atelier/pkg/middleware"
	"github.com/inkwell-studio/atelier/pkg/orm"
	"github.com/inkwell-studio/atelier/pkg/response"
	"github.com/inkwell-studio/atelier/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc to http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps one request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{New: func() any { return &Context{} }}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W, c.R, c.status = w, r, 0
	return c
}

func release(c *Context) {
	c.W, c.R = nil, nil
	pool.Put(c)
}

// ─── Request ──────────────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string { return chi.URLParam(c.R, key) }

// ParamUint parses a numeric path parameter such as {id}.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// Query returns a query-string value, or "".
func (c *Context) Query(key string) string {
	return strings.TrimSpace(c.R.URL.Query().Get(key))
}

// QueryInt returns a positive integer query value, or def.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// QueryBool reports whether the query value is "true" or "1".
func (c *Context) QueryBool(key string) bool {
	v := strings.ToLower(c.Query(key))
	return v == "true" || v == "1"
}

func (c *Context) Header(key string) string { return c.R.Header.Get(key) }

// Context returns the request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ClientIP returns the client address, preferring X-Forwarded-For.
func (c *Context) ClientIP() string { return middleware.ClientIP(c.R) }

// ─── Identity ─────────────────────────────────────────────────────────────────

// Claims returns the verified token claims, when the request carried one.
func (c *Context) Claims() (*auth.Claims, bool) { return auth.FromContext(c.Context()) }

// UserID returns the authenticated user's ID, or 0.
func (c *Context) UserID() uint {
	if claims, ok := c.Claims(); ok {
		return claims.UserID
	}
	return 0
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes and validates the body into dest. On failure it writes
// a 400 (malformed) or 422 (invalid) response and returns false.
//
//	var in AddToCartInput
//	if !c.BindJSON(&in) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response ─────────────────────────────────────────────────────────────────

// Envelope is the JSON body every API response uses.
type Envelope = response.Envelope

func (c *Context) SetHeader(key, value string) { c.W.Header().Set(key, value) }

// JSON writes v with the given status.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, Envelope{Status: http.StatusOK, Data: data})
}

func (c *Context) Created(data any) {
	c.JSON(http.StatusCreated, Envelope{Status: http.StatusCreated, Data: data})
}

// Paginated sends {items, pagination}.
func (c *Context) Paginated(items any, p orm.Pagination) {
	c.status = http.StatusOK
	response.Paginated(c.W, items, p)
}

// Message sends a 200 whose data is {"message": msg}.
func (c *Context) Message(msg string) {
	c.Success(map[string]string{"message": msg})
}

// Error sends {"status": code, "error": message}.
func (c *Context) Error(code int, message string) {
	c.JSON(code, Envelope{Status: code, Error: message})
}

// Errorf is Error with formatting.
func (c *Context) Errorf(code int, format string, args ...any) {
	c.Error(code, fmt.Sprintf(format, args...))
}

// ValidationError sends a 422 with field-level messages.
func (c *Context) ValidationError(errs map[string]string) {
	c.status = http.StatusUnprocessableEntity
	response.ValidationError(c.W, errs)
}

func (c *Context) Unauthorized(message ...string) { c.Error(http.StatusUnauthorized, first(message, "Unauthorized")) }
func (c *Context) Forbidden(message ...string)    { c.Error(http.StatusForbidden, first(message, "Forbidden")) }
func (c *Context) NotFound(message ...string)     { c.Error(http.StatusNotFound, first(message, "Not found")) }

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }

func first(msgs []string, def string) string {
	if len(msgs) > 0 && msgs[0] != "" {
		return msgs[0]
	}
	return def
}
