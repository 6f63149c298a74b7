package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-studio/atelier/pkg/queue"
)

var greeted sync.Map

type greetJob struct {
	Email string `json:"email"`
}

func (greetJob) Name() string { return "test.greet" }
func (j *greetJob) Handle(context.Context) error {
	greeted.Store(j.Email, true)
	return nil
}

var flakyCalls atomic.Int32

type flakyJob struct{}

func (flakyJob) Name() string { return "test.flaky" }
func (*flakyJob) Handle(context.Context) error {
	flakyCalls.Add(1)
	return errors.New("smtp down")
}

type memStore struct {
	mu  sync.Mutex
	got []queue.Failure
}

func (s *memStore) Record(_ context.Context, f queue.Failure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, f)
	return nil
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

func TestDispatchIsProcessed(t *testing.T) {
	m := queue.NewManager(queue.NewMemoryDriver(10))
	m.Register(func() queue.Job { return &greetJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	m.StartWorkers(ctx, 2)
	defer func() { cancel(); m.Wait() }()

	require.NoError(t, m.Dispatch(ctx, &greetJob{Email: "ana@example.com"}))
	assert.Eventually(t, func() bool {
		_, ok := greeted.Load("ana@example.com")
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestExhaustedJobIsRecorded(t *testing.T) {
	m := queue.NewManager(queue.NewMemoryDriver(10))
	m.Backoff = time.Millisecond
	store := &memStore{}
	m.UseFailureStore(store)
	m.Register(func() queue.Job { return &flakyJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	m.StartWorkers(ctx, 1)
	defer func() { cancel(); m.Wait() }()

	require.NoError(t, m.Dispatch(ctx, &flakyJob{}))
	assert.Eventually(t, func() bool { return store.len() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(3), flakyCalls.Load())
	assert.Equal(t, "test.flaky", store.got[0].JobType)
	assert.Equal(t, "smtp down", store.got[0].Error)
}

func TestMemoryDriverFull(t *testing.T) {
	d := queue.NewMemoryDriver(1)
	ctx := context.Background()
	require.NoError(t, d.Push(ctx, []byte("a")))
	assert.ErrorIs(t, d.Push(ctx, []byte("b")), queue.ErrQueueFull)
	assert.Equal(t, 1, d.Len())
}
