package queue

import (
	"context"
	"errors"
)

var ErrQueueFull = errors.New("queue: memory driver is full")

// MemoryDriver is an in-process buffered channel. Jobs are lost on restart.
type MemoryDriver struct {
	ch chan []byte
}

func NewMemoryDriver(size int) *MemoryDriver {
	return &MemoryDriver{ch: make(chan []byte, size)}
}

// Push never blocks; a full buffer is an error.
func (d *MemoryDriver) Push(_ context.Context, payload []byte) error {
	select {
	case d.ch <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case p := <-d.ch:
		return p, nil
	}
}

// Len is the number of buffered jobs.
func (d *MemoryDriver) Len() int { return len(d.ch) }
