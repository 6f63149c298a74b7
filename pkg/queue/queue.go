// Package queue runs background jobs (confirmation mails, notifications)
// with retries. Jobs are JSON-encoded so the Redis driver can hand them to
// a separate `atelier queue:work` process.
//
//	queue.Register(func() queue.Job { return &jobs.SendBookingConfirmation{} })
//	queue.Dispatch(ctx, &jobs.SendBookingConfirmation{BookingID: b.ID})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/inkwell-studio/atelier/pkg/logger"
	"github.com/inkwell-studio/atelier/pkg/metrics"
)

// Job is one unit of background work.
type Job interface {
	// Name identifies the job type on the wire.
	Name() string
	Handle(ctx context.Context) error
}

// Driver stores encoded jobs until a worker pops them.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	// Pop blocks until a payload is ready. It may return (nil, nil) on an
	// idle timeout.
	Pop(ctx context.Context) ([]byte, error)
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Queued  time.Time       `json:"queuedAt"`
}

// Manager owns a driver, the job registry and the retry policy.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failures FailureStore

	MaxRetry int
	Backoff  time.Duration // attempt n waits n*Backoff

	wg sync.WaitGroup
}

// NewManager returns a manager with 3 attempts and 1s linear backoff.
func NewManager(d Driver) *Manager {
	return &Manager{
		driver:   d,
		registry: map[string]func() Job{},
		MaxRetry: 3,
		Backoff:  time.Second,
	}
}

var std = NewManager(NewMemoryDriver(1000))

// Default returns the process-wide manager.
func Default() *Manager { return std }

func SetDriver(d Driver) { std.SetDriver(d) }
func UseFailureStore(s FailureStore) { std.UseFailureStore(s) }
func Register(factory func() Job) { std.Register(factory) }
func Dispatch(ctx context.Context, j Job) error { return std.Dispatch(ctx, j) }
func StartWorkers(ctx context.Context, n int) { std.StartWorkers(ctx, n) }

func (m *Manager) SetDriver(d Driver) {
	m.mu.Lock()
	m.driver = d
	m.mu.Unlock()
}

// UseFailureStore records jobs that exhaust their retries.
func (m *Manager) UseFailureStore(s FailureStore) {
	m.mu.Lock()
	m.failures = s
	m.mu.Unlock()
}

// Register makes a job type decodable by workers.
func (m *Manager) Register(factory func() Job) {
	name := factory().Name()
	m.mu.Lock()
	m.registry[name] = factory
	m.mu.Unlock()
}

// Dispatch encodes j and pushes it onto the driver.
func (m *Manager) Dispatch(ctx context.Context, j Job) error {
	payload, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("queue: marshal %s: %w", j.Name(), err)
	}
	raw, err := json.Marshal(envelope{Type: j.Name(), Payload: payload, Queued: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()
	if err := d.Push(ctx, raw); err != nil {
		return fmt.Errorf("queue: push %s: %w", j.Name(), err)
	}
	return nil
}

// StartWorkers launches n workers that run until ctx is cancelled.
func (m *Manager) StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n)
}

// Wait blocks until every worker has returned.
func (m *Manager) Wait() { m.wg.Wait() }

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		m.mu.RLock()
		d := m.driver
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw != nil {
			m.process(ctx, raw)
		}
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: decode payload", "type", env.Type, "error", err)
		return
	}
	m.run(ctx, job, env.Payload)
}

func (m *Manager) run(ctx context.Context, job Job, payload []byte) {
	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= m.MaxRetry; attempt++ {
		if lastErr = job.Handle(ctx); lastErr == nil {
			metrics.RecordQueueJob(job.Name(), "success", start)
			return
		}
		logger.Warn("queue: job failed", "type", job.Name(), "attempt", attempt, "error", lastErr)
		if attempt < m.MaxRetry && !sleep(ctx, time.Duration(attempt)*m.Backoff) {
			break
		}
	}

	metrics.RecordQueueJob(job.Name(), "failed", start)
	logger.Error("queue: job exhausted retries", "type", job.Name(), "error", lastErr)

	m.mu.RLock()
	store := m.failures
	m.mu.RUnlock()
	if store == nil {
		return
	}
	if err := store.Record(ctx, Failure{
		JobType:  job.Name(),
		Payload:  string(payload),
		Error:    lastErr.Error(),
		Attempts: m.MaxRetry,
	}); err != nil {
		logger.Error("queue: persist failed job", "type", job.Name(), "error", err)
	}
}

// sleep waits d or until ctx is done; it reports whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
