package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/services"
	"github.com/inkwell-studio/atelier/pkg/ctx"
	"github.com/inkwell-studio/atelier/pkg/logger"
	"github.com/inkwell-studio/atelier/pkg/sse"
	"github.com/inkwell-studio/atelier/pkg/ws"
)

// KeepAlive is how often an idle event stream gets a comment line.
var KeepAlive = 25 * time.Second

type AdminController struct {
	stats *services.StatsService
	hub   *ws.Hub
}

func NewAdminController(db *gorm.DB, hub *ws.Hub) *AdminController {
	return &AdminController{stats: services.NewStatsService(db), hub: hub}
}

func (a *AdminController) Stats(c *ctx.Context) {
	s, err := a.stats.Stats(c.Context())
	if err != nil {
		fail(c, err, "load stats")
		return
	}
	c.Success(s)
}

// Live upgrades to the dashboard websocket feed.
func (a *AdminController) Live(c *ctx.Context) {
	a.hub.Serve(c.W, c.R)
}

// Events streams the same feed as Live over server-sent events.
func (a *AdminController) Events(c *ctx.Context) {
	stream, err := sse.New(c.W)
	if err != nil {
		c.Error(http.StatusInternalServerError, "Streaming unsupported")
		return
	}
	feed, unsubscribe := a.hub.Subscribe()
	defer unsubscribe()

	ticker := time.NewTicker(KeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-c.Context().Done():
			return
		case <-ticker.C:
			if err := stream.Comment("keepalive"); err != nil {
				return
			}
		case raw, ok := <-feed:
			if !ok {
				return
			}
			var head struct {
				Type string `json:"type"`
			}
			json.Unmarshal(raw, &head) //nolint:errcheck
			if err := stream.Send(head.Type, raw); err != nil {
				logger.WithCtx(c.Context()).Debug("admin events: client gone", "error", err)
				return
			}
		}
	}
}
