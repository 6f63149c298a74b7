package event_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-studio/atelier/pkg/event"
	"github.com/inkwell-studio/atelier/pkg/workerpool"
)

func TestFireRunsListenersInOrder(t *testing.T) {
	b := event.NewBus()
	var got []string
	b.Listen("order.placed", func(_ context.Context, p any) { got = append(got, "mail:"+p.(string)) })
	b.Listen("order.placed", func(_ context.Context, p any) { got = append(got, "feed:"+p.(string)) })
	b.Listen("inquiry.created", func(context.Context, any) { got = append(got, "wrong") })

	b.Fire(context.Background(), "order.placed", "ORD-1")
	assert.Equal(t, []string{"mail:ORD-1", "feed:ORD-1"}, got)
}

func TestFireAsyncOnPoolSurvivesCancel(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Shutdown()

	b := event.NewBus()
	b.UsePool(pool)

	var wg sync.WaitGroup
	wg.Add(1)
	var ctxErr error
	b.Listen("booking.created", func(ctx context.Context, _ any) {
		defer wg.Done()
		time.Sleep(10 * time.Millisecond)
		ctxErr = ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	b.FireAsync(ctx, "booking.created", nil)
	cancel()
	wg.Wait()
	assert.NoError(t, ctxErr)
}

func TestFlush(t *testing.T) {
	b := event.NewBus()
	called := false
	b.Listen("x", func(context.Context, any) { called = true })
	b.Flush()
	b.Fire(context.Background(), "x", nil)
	assert.False(t, called)
}
