// Package schedule runs recurring maintenance tasks on cron expressions.
//
//	s := schedule.New()
//	s.Add("bookings:complete", "@hourly", completeBookings)
//	s.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/inkwell-studio/atelier/pkg/logger"
)

// Task is one scheduled run. Its context is cancelled when the scheduler stops.
type Task func(ctx context.Context) error

// Entry describes a registered task.
type Entry struct {
	Name string
	Spec string
	Next time.Time
}

// Scheduler wraps a cron runner. Overlapping runs of one task are skipped
// and panics are recovered.
type Scheduler struct {
	cron *cron.Cron

	mu     sync.Mutex
	ids    map[string]cron.EntryID
	specs  map[string]string
	tasks  map[string]Task
	ctx    context.Context
	cancel context.CancelFunc
}

func New() *Scheduler {
	log := cronLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithLogger(log), cron.WithChain(
			cron.Recover(log),
			cron.SkipIfStillRunning(log),
		)),
		ids:    map[string]cron.EntryID{},
		specs:  map[string]string{},
		tasks:  map[string]Task{},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers task under name. spec is a standard 5-field expression or
// a descriptor such as "@hourly" or "@every 30m".
func (s *Scheduler) Add(name, spec string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.ids[name]; dup {
		return fmt.Errorf("schedule: task %q already registered", name)
	}
	id, err := s.cron.AddFunc(spec, func() { s.invoke(name, task) })
	if err != nil {
		return fmt.Errorf("schedule: %s: %w", name, err)
	}
	s.ids[name] = id
	s.specs[name] = spec
	s.tasks[name] = task
	return nil
}

func (s *Scheduler) invoke(name string, task Task) {
	start := time.Now()
	log := logger.L.With("task", name)
	if err := task(s.ctx); err != nil {
		log.Error("schedule: task failed", "error", err, "duration", time.Since(start).String())
		return
	}
	log.Info("schedule: task done", "duration", time.Since(start).String())
}

// RunNow executes the named task synchronously.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	task, ok := s.tasks[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("schedule: unknown task %q", name)
	}
	return task(ctx)
}

// Start runs the scheduler until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	logger.Info("schedule: started", "tasks", len(s.Entries()))
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop cancels running tasks and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// Entries lists tasks sorted by name.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.ids))
	for name, id := range s.ids {
		out = append(out, Entry{Name: name, Spec: s.specs[name], Next: s.cron.Entry(id).Next})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...any) { logger.L.Debug("cron: "+msg, kv...) }
func (cronLogger) Error(err error, msg string, kv ...any) {
	logger.L.Error("cron: "+msg, append(kv, "error", err)...)
}
