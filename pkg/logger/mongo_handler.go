package logger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOptions configures the MongoDB log sink.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	Env        string
	Level      slog.Level
	Retention  time.Duration // TTL on stored lines; 0 keeps them forever
}

// doc is one stored log line. request_id, user_id and error are lifted out
// of the attributes so the dashboard can index them.
type doc struct {
	Time      time.Time `bson:"time"`
	Env       string    `bson:"env,omitempty"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	UserID    any       `bson:"user_id,omitempty"`
	Err       string    `bson:"error,omitempty"`
	Fields    bson.M    `bson:"fields,omitempty"`
}

// mongoCore is shared by every handler derived through WithAttrs/WithGroup.
type mongoCore struct {
	client  *mongo.Client
	col     *mongo.Collection
	env     string
	level   slog.Level
	lines   chan doc
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

// MongoHandler is a slog.Handler that batches lines into MongoDB from a
// background goroutine. When the buffer is full lines are dropped.
type MongoHandler struct {
	core   *mongoCore
	attrs  []slog.Attr
	prefix string
}

const (
	mongoBuffer = 4096
	mongoBatch  = 64
	mongoFlush  = 2 * time.Second
)

// NewMongoHandler dials MongoDB, ensures the TTL index and starts the writer.
func NewMongoHandler(ctx context.Context, o MongoOptions) (*MongoHandler, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(o.URI).
		SetAppName("atelier").
		SetServerSelectionTimeout(5*time.Second).
		SetMaxPoolSize(4))
	if err != nil {
		return nil, fmt.Errorf("logger: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background()) //nolint:errcheck
		return nil, fmt.Errorf("logger: mongo ping: %w", err)
	}

	col := client.Database(o.Database).Collection(o.Collection)
	if o.Retention > 0 {
		_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "time", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(o.Retention / time.Second)),
		})
		if err != nil {
			client.Disconnect(context.Background()) //nolint:errcheck
			return nil, fmt.Errorf("logger: mongo ttl index: %w", err)
		}
	}

	core := &mongoCore{
		client:  client,
		col:     col,
		env:     o.Env,
		level:   o.Level,
		lines:   make(chan doc, mongoBuffer),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go core.run()
	return &MongoHandler{core: core}, nil
}

func (h *MongoHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.core.level }

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	d := h.build(r)
	select {
	case h.core.lines <- d:
	default:
		h.core.dropped.Add(1)
	}
	return nil
}

func (h *MongoHandler) build(r slog.Record) doc {
	d := doc{Time: r.Time.UTC(), Env: h.core.env, Level: r.Level.String(), Msg: r.Message}
	add := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			d.RequestID = a.Value.String()
		case "user_id":
			d.UserID = a.Value.Resolve().Any()
		case "error":
			d.Err = a.Value.String()
		default:
			if d.Fields == nil {
				d.Fields = bson.M{}
			}
			d.Fields[h.prefix+a.Key] = a.Value.Resolve().Any()
		}
		return true
	}
	for _, a := range h.attrs {
		add(a)
	}
	r.Attrs(add)
	return d
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MongoHandler{core: h.core, attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...), prefix: h.prefix}
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	return &MongoHandler{core: h.core, attrs: h.attrs, prefix: h.prefix + name + "."}
}

// Dropped counts lines lost to a full buffer.
func (h *MongoHandler) Dropped() int64 { return h.core.dropped.Load() }

func (c *mongoCore) run() {
	defer close(c.stopped)
	tick := time.NewTicker(mongoFlush)
	defer tick.Stop()

	pending := make([]any, 0, mongoBatch)
	write := func() {
		if len(pending) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		c.col.InsertMany(ctx, pending) //nolint:errcheck
		cancel()
		pending = pending[:0]
	}

	for {
		select {
		case d := <-c.lines:
			if pending = append(pending, d); len(pending) == mongoBatch {
				write()
			}
		case <-tick.C:
			write()
		case <-c.stop:
			for {
				select {
				case d := <-c.lines:
					pending = append(pending, d)
				default:
					write()
					return
				}
			}
		}
	}
}

// Close writes what is buffered and disconnects. Later calls are no-ops.
func (h *MongoHandler) Close() {
	h.core.once.Do(func() {
		close(h.core.stop)
		<-h.core.stopped
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.core.client.Disconnect(ctx) //nolint:errcheck
	})
}

type tee []slog.Handler

// Tee sends each record to every handler that accepts its level.
func Tee(handlers ...slog.Handler) slog.Handler { return tee(handlers) }

func (t tee) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (t tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t tee) WithGroup(name string) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
