// Package kernel assembles the HTTP handler: the global middleware stack,
// operational endpoints and the /api routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/routes"
	"github.com/inkwell-studio/atelier/config"
	"github.com/inkwell-studio/atelier/pkg/database"
	"github.com/inkwell-studio/atelier/pkg/metrics"
	"github.com/inkwell-studio/atelier/pkg/middleware"
	"github.com/inkwell-studio/atelier/pkg/reqid"
	"github.com/inkwell-studio/atelier/pkg/response"
	"github.com/inkwell-studio/atelier/pkg/router"
	"github.com/inkwell-studio/atelier/pkg/ws"
)

type HTTPKernel struct {
	Router  *router.Router
	limiter *middleware.RateLimiter
}

// New builds the kernel for db. hub may be nil for tooling that only
// inspects routes; a fresh hub is used then.
func New(db *gorm.DB, hub *ws.Hub) (*HTTPKernel, error) {
	if hub == nil {
		hub = ws.NewHub()
	}
	k := &HTTPKernel{
		Router:  router.New(),
		limiter: middleware.NewRateLimiter(config.RateLimitRPS(), config.RateLimitBurst()),
	}
	r := k.Router

	// outermost first
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.CORSOptionsFromConfig()))
	r.Use(k.limiter.Handler)

	r.Handle("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", healthz(db))
	r.Handle("/storage/*", "storage", http.StripPrefix("/storage/",
		http.FileServer(http.Dir(config.Get("STORAGE_LOCAL_ROOT", "storage")))))

	if err := routes.RegisterAPI(r, routes.Deps{DB: db, Hub: hub}); err != nil {
		return nil, err
	}
	return k, nil
}

func (k *HTTPKernel) Handler() http.Handler { return k.Router.Handler() }

// Start runs background upkeep until ctx ends.
func (k *HTTPKernel) Start(ctx context.Context) {
	k.limiter.StartCleanup(time.Minute, ctx.Done())
}

func healthz(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		response.Success(w, map[string]string{"status": "ok"})
	}
}
