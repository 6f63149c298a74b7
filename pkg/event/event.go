// Package event decouples services from their side effects. Services Fire
// named events; listeners registered at boot send mail, push to the admin
// live feed or bump counters.
package event

import (
	"context"
	"errors"
	"sync"

	"github.com/inkwell-studio/atelier/pkg/logger"
	"github.com/inkwell-studio/atelier/pkg/workerpool"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any)

// Bus maps event names to listeners.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	pool     *workerpool.Pool
}

func NewBus() *Bus { return &Bus{handlers: map[string][]Handler{}} }

var std = NewBus()

// Default returns the process-wide bus.
func Default() *Bus { return std }

func Listen(name string, h Handler) { std.Listen(name, h) }
func Fire(ctx context.Context, name string, payload any) { std.Fire(ctx, name, payload) }
func FireAsync(ctx context.Context, name string, payload any) { std.FireAsync(ctx, name, payload) }
func UsePool(p *workerpool.Pool) { std.UsePool(p) }
func Flush() { std.Flush() }

func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	b.handlers[name] = append(b.handlers[name], h)
	b.mu.Unlock()
}

// UsePool runs FireAsync listeners on p instead of bare goroutines.
func (b *Bus) UsePool(p *workerpool.Pool) {
	b.mu.Lock()
	b.pool = p
	b.mu.Unlock()
}

func (b *Bus) listeners(name string) ([]Handler, *workerpool.Pool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.handlers[name]...), b.pool
}

// Fire calls every listener in registration order before returning.
func (b *Bus) Fire(ctx context.Context, name string, payload any) {
	hs, _ := b.listeners(name)
	for _, h := range hs {
		h(ctx, payload)
	}
}

// FireAsync runs listeners in the background, detached from ctx
// cancellation so a finished request does not abort them.
func (b *Bus) FireAsync(ctx context.Context, name string, payload any) {
	hs, pool := b.listeners(name)
	bg := context.WithoutCancel(ctx)
	for _, h := range hs {
		h := h
		task := func() { h(bg, payload) }
		if pool == nil {
			go task()
			continue
		}
		if err := pool.Submit(task); err != nil {
			if !errors.Is(err, workerpool.ErrPoolFull) {
				logger.WithCtx(ctx).Warn("event: dropped listener", "event", name, "error", err)
				continue
			}
			// saturated: run inline rather than lose the side effect
			task()
		}
	}
}

// Flush removes every listener.
func (b *Bus) Flush() {
	b.mu.Lock()
	b.handlers = map[string][]Handler{}
	b.mu.Unlock()
}
