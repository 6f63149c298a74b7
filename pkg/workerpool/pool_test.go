package workerpool_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-studio/atelier/pkg/workerpool"
)

func TestSubmitWaitRunsEverything(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(100)
	for i := 0; i < 100; i++ {
		require.NoError(t, pool.SubmitWait(func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int64(100), count.Load())
}

func TestSubmitReportsFull(t *testing.T) {
	pool := workerpool.New(1)
	release := make(chan struct{})
	started := make(chan struct{})
	defer func() { close(release); pool.Shutdown() }()

	require.NoError(t, pool.SubmitWait(func() {
		close(started)
		<-release
	}))
	<-started

	// worker busy, buffer of two
	require.NoError(t, pool.Submit(func() {}))
	require.NoError(t, pool.Submit(func() {}))
	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolFull)
}

func TestShutdownDrainsAndCloses(t *testing.T) {
	pool := workerpool.New(2)
	var ran atomic.Int32
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.SubmitWait(func() { ran.Add(1) }))
	}
	pool.Shutdown()
	pool.Shutdown()

	assert.Equal(t, int32(4), ran.Load())
	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolClosed)
	assert.ErrorIs(t, pool.SubmitWait(func() {}), workerpool.ErrPoolClosed)
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	done := make(chan struct{})
	require.NoError(t, pool.SubmitWait(func() { panic("listener bug") }))
	require.NoError(t, pool.SubmitWait(func() { close(done) }))
	<-done
}
