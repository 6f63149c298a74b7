// Package server boots the process-wide services and runs the HTTP and
// gRPC listeners until shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/jobs"
	"github.com/inkwell-studio/atelier/app/listeners"
	"github.com/inkwell-studio/atelier/config"
	"github.com/inkwell-studio/atelier/internal/kernel"
	"github.com/inkwell-studio/atelier/pkg/cache"
	"github.com/inkwell-studio/atelier/pkg/database"
	"github.com/inkwell-studio/atelier/pkg/event"
	"github.com/inkwell-studio/atelier/pkg/grpc"
	"github.com/inkwell-studio/atelier/pkg/logger"
	"github.com/inkwell-studio/atelier/pkg/notification"
	"github.com/inkwell-studio/atelier/pkg/queue"
	"github.com/inkwell-studio/atelier/pkg/storage"
	"github.com/inkwell-studio/atelier/pkg/workerpool"
	"github.com/inkwell-studio/atelier/pkg/ws"
)

const shutdownTimeout = 10 * time.Second

// BootDB loads configuration and logging and connects the database.
func BootDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := logger.Setup(); err != nil {
		logger.Warn("mongo log sink disabled", "error", err)
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}
	return database.DB, nil
}

// Boot is BootDB plus the cache, storage disks and the job queue.
func Boot(ctx context.Context) (*gorm.DB, error) {
	db, err := BootDB()
	if err != nil {
		return nil, err
	}
	if err := cache.Connect(ctx); err != nil {
		logger.Warn("cache disabled", "error", err)
	}
	if err := storage.Connect(ctx); err != nil {
		return nil, err
	}

	if config.QueueDriver() == "redis" {
		if !cache.Available() {
			return nil, errors.New("queue: QUEUE_DRIVER=redis but redis is unreachable")
		}
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseFailureStore(queue.DBFailureStore{DB: db})
	jobs.Register(db, notification.New())
	return db, nil
}

// Serve runs the API until ctx is cancelled, then drains connections for
// up to 10 seconds.
func Serve(ctx context.Context) error {
	db, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer cache.Close()      //nolint:errcheck
	defer database.Close(db) //nolint:errcheck
	defer logger.Close()

	pool := workerpool.New(config.Int("EVENT_WORKERS", 8))
	defer pool.Shutdown()
	event.UsePool(pool)

	hub := ws.NewHub()
	go hub.Run(ctx)
	listeners.Register(event.Default(), hub, queue.Default())

	// the memory driver only exists in this process
	if config.QueueDriver() == "memory" || config.Get("QUEUE_IN_PROCESS", "") == "true" {
		queue.StartWorkers(ctx, config.Int("QUEUE_WORKERS", 4))
	}

	k, err := kernel.New(db, hub)
	if err != nil {
		return err
	}
	k.Start(ctx)

	if port := config.GRPCPort(); port != "" {
		srv, _, err := grpc.Start(port, func(ctx context.Context) error { return database.Ping(ctx, db) })
		if err != nil {
			return err
		}
		defer grpc.Stop(srv)
	}

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", shutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http: shutdown: %w", err)
	}
	return nil
}
