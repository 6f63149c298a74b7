// Package logger provides the application's structured logger built on log/slog.
//
// Handlers and services should log through WithCtx so each line carries the
// request_id injected by the HTTP middleware:
//
//	logger.WithCtx(r.Context()).Error("cart: add item", "error", err)
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/inkwell-studio/atelier/config"
)

var L *slog.Logger

// sink holds the optional MongoDB handler so Close can flush it.
var sink *MongoHandler

func init() {
	L = slog.New(consoleHandler())
	slog.SetDefault(L)
}

func consoleHandler() slog.Handler {
	if config.IsProduction() {
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Setup attaches the MongoDB sink when MONGO_LOG_URI is configured.
// Console output is always kept.
func Setup() error {
	uri := config.MongoLogURI()
	if uri == "" {
		return nil
	}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(config.Get("MONGO_LOG_LEVEL", "info"))); err != nil {
		return fmt.Errorf("logger: MONGO_LOG_LEVEL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	h, err := NewMongoHandler(ctx, MongoOptions{
		URI:        uri,
		Database:   config.MongoLogDB(),
		Collection: "logs",
		Env:        config.AppEnv(),
		Level:      level,
		Retention:  30 * 24 * time.Hour,
	})
	if err != nil {
		return err
	}
	sink = h
	L = slog.New(Tee(consoleHandler(), h))
	slog.SetDefault(L)
	return nil
}

// Close flushes and disconnects the MongoDB sink if one is attached.
func Close() {
	if sink != nil {
		sink.Close()
		sink = nil
	}
}

type ctxKey struct{}

// WithCtx returns the per-request logger stored by InjectLogger, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx for WithCtx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
