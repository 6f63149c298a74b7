// Package router is a thin named-route layer over chi.
package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Middleware func(http.Handler) http.Handler

// RouteInfo describes one registered route, as printed by route:list.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

type Router struct {
	mux chi.Router

	mu     sync.RWMutex
	named  map[string]string
	routes []RouteInfo
}

// Group shares a path prefix and middleware stack between routes.
type Group struct {
	router      *Router
	prefix      string
	middlewares []Middleware
}

func New() *Router {
	return &Router{
		mux:   chi.NewRouter(),
		named: make(map[string]string),
	}
}

func (r *Router) Handler() http.Handler { return r.mux }

// Use appends global middleware. It must be called before any route is added.
func (r *Router) Use(middlewares ...Middleware) {
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

func (r *Router) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      r,
		prefix:      joinPath(prefix),
		middlewares: append([]Middleware(nil), middlewares...),
	}
}

func (r *Router) Get(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.add(http.MethodGet, joinPath(path), name, h, mw)
}

func (r *Router) Post(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.add(http.MethodPost, joinPath(path), name, h, mw)
}

func (r *Router) Put(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.add(http.MethodPut, joinPath(path), name, h, mw)
}

func (r *Router) Patch(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.add(http.MethodPatch, joinPath(path), name, h, mw)
}

func (r *Router) Delete(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.add(http.MethodDelete, joinPath(path), name, h, mw)
}

// Handle mounts an arbitrary handler for every method on path (used for
// /metrics and the websocket feed).
func (r *Router) Handle(path, name string, h http.Handler, mw ...Middleware) {
	r.add("*", joinPath(path), name, h, mw)
}

// Path returns the pattern registered under name.
func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.named[name]
	return p, ok
}

// URL fills the {params} of a named route.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	path, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("router: route %q not found", name)
	}
	for k, v := range params {
		path = strings.ReplaceAll(path, "{"+k+"}", v)
	}
	if strings.Contains(path, "{") {
		return "", fmt.Errorf("router: missing parameters for route %q", name)
	}
	return path, nil
}

// Routes returns every registered route sorted by path, then method.
func (r *Router) Routes() []RouteInfo {
	r.mu.RLock()
	out := append([]RouteInfo(nil), r.routes...)
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func (r *Router) add(method, path, name string, h http.Handler, mw []Middleware) {
	handler := chain(h, mw)
	if method == "*" {
		r.mux.Handle(path, handler)
	} else {
		r.mux.Method(method, path, handler)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, RouteInfo{Method: method, Path: path, Name: name})
	if name != "" {
		r.named[name] = path
	}
}

// ─── Groups ───────────────────────────────────────────────────────────────────

func (g *Group) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      g.router,
		prefix:      joinPath(g.prefix, prefix),
		middlewares: g.with(middlewares),
	}
}

func (g *Group) Get(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.router.add(http.MethodGet, joinPath(g.prefix, path), name, h, g.with(mw))
}

func (g *Group) Post(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.router.add(http.MethodPost, joinPath(g.prefix, path), name, h, g.with(mw))
}

func (g *Group) Put(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.router.add(http.MethodPut, joinPath(g.prefix, path), name, h, g.with(mw))
}

func (g *Group) Patch(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.router.add(http.MethodPatch, joinPath(g.prefix, path), name, h, g.with(mw))
}

func (g *Group) Delete(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.router.add(http.MethodDelete, joinPath(g.prefix, path), name, h, g.with(mw))
}

func (g *Group) Handle(path, name string, h http.Handler, mw ...Middleware) {
	g.router.add("*", joinPath(g.prefix, path), name, h, g.with(mw))
}

func (g *Group) with(extra []Middleware) []Middleware {
	return append(append([]Middleware(nil), g.middlewares...), extra...)
}

func chain(h http.Handler, mw []Middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

func joinPath(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.Trim(part, "/"); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return "/" + strings.Join(segments, "/")
}
