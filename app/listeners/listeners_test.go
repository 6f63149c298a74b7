package listeners_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-studio/atelier/app/jobs"
	"github.com/inkwell-studio/atelier/app/listeners"
	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/app/services"
	"github.com/inkwell-studio/atelier/pkg/event"
	"github.com/inkwell-studio/atelier/pkg/queue"
)

type recorder struct {
	mu        sync.Mutex
	published []string
	queued    []queue.Job
}

func (r *recorder) Publish(eventType string, _ any) {
	r.mu.Lock()
	r.published = append(r.published, eventType)
	r.mu.Unlock()
}

func (r *recorder) Dispatch(_ context.Context, j queue.Job) error {
	r.mu.Lock()
	r.queued = append(r.queued, j)
	r.mu.Unlock()
	return nil
}

func TestBookingIsPublishedAndQueued(t *testing.T) {
	bus := event.NewBus()
	rec := &recorder{}
	listeners.Register(bus, rec, rec)

	b := models.Booking{UserID: 1, ClassID: 2}
	b.ID = 7
	bus.Fire(context.Background(), services.EventBookingCreated, b)

	assert.Equal(t, []string{services.EventBookingCreated}, rec.published)
	require.Len(t, rec.queued, 1)
	assert.Equal(t, &jobs.SendBookingConfirmation{BookingID: 7}, rec.queued[0])
}

func TestPasswordResetIsNotBroadcast(t *testing.T) {
	bus := event.NewBus()
	rec := &recorder{}
	listeners.Register(bus, rec, rec)

	bus.Fire(context.Background(), services.EventPasswordReset, services.PasswordResetRequested{Email: "a@example.com", Token: "t"})

	assert.Empty(t, rec.published)
	require.Len(t, rec.queued, 1)
	assert.Equal(t, "mail.password-reset", rec.queued[0].Name())
}

func TestWrongPayloadIsIgnored(t *testing.T) {
	bus := event.NewBus()
	rec := &recorder{}
	listeners.Register(bus, rec, rec)

	bus.Fire(context.Background(), services.EventOrderPlaced, "not an order")
	assert.Empty(t, rec.published)
	assert.Empty(t, rec.queued)
}
