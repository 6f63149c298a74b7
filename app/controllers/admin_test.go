package controllers_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/app/routes"
	"github.com/inkwell-studio/atelier/pkg/auth"
	"github.com/inkwell-studio/atelier/pkg/router"
	"github.com/inkwell-studio/atelier/pkg/testkit"
	"github.com/inkwell-studio/atelier/pkg/ws"
)

func TestAdminStats(t *testing.T) {
	h, db := newAPI(t)
	_, admin := member(t, db, "admin@example.com", models.RoleAdmin)
	artwork(t, db, "Heron", 100, models.ArtworkAvailable)
	class(t, db, "Ink Wash Intro", 4)

	resp := testkit.Do(t, h, testkit.Request{Method: http.MethodGet, URL: "/api/admin/stats", Token: admin})
	require.Equal(t, http.StatusOK, resp.Code, string(resp.Body))
	var stats map[string]any
	resp.Data(t, &stats)
	assert.NotEmpty(t, stats)
}

func TestAdminEventStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db := testkit.SQLite(t, models.All()...)
	hub := ws.NewHub()
	go hub.Run(ctx)

	r := router.New()
	require.NoError(t, routes.RegisterAPI(r, routes.Deps{DB: db, Hub: hub}))
	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/admin/events", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: testkit.Token(t, 1, "admin@example.com", models.RoleAdmin)})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)
	hub.Publish("order.placed", map[string]string{"orderNumber": "ORD-20261019-0000BEEF"})

	lines := make(chan string, 16)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	deadline := time.After(3 * time.Second)
	var got []string
	for len(got) < 2 {
		select {
		case l, ok := <-lines:
			require.True(t, ok, "stream closed early")
			if l != "" {
				got = append(got, l)
			}
		case <-deadline:
			t.Fatalf("timed out, got %v", got)
		}
	}
	assert.Equal(t, "event: order.placed", got[0])
	assert.True(t, strings.HasPrefix(got[1], "data: "))
	assert.Contains(t, got[1], "ORD-20261019-0000BEEF")
}
