package mail_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-studio/atelier/pkg/mail"
)

func TestBuilderSendsThroughDefault(t *testing.T) {
	rec := &mail.Recorder{}
	mail.Use(rec)
	t.Cleanup(func() { mail.Use(nil) })

	err := mail.To("ana@example.com").Subject("Booking confirmed").HTML("<p>See you</p>").Send(context.Background())
	require.NoError(t, err)

	sent := rec.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"ana@example.com"}, sent[0].To)
	assert.Equal(t, "Booking confirmed", sent[0].Subject)
	assert.True(t, sent[0].HTML)
}

func TestBuildHeaders(t *testing.T) {
	msg := mail.To("a@example.com", "b@example.com").Subject("Hi\r\nBcc: x@evil").Text("body").Message()
	raw := string(mail.Build("Studio", "studio@example.com", msg, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)))

	assert.Contains(t, raw, "From: Studio <studio@example.com>\r\n")
	assert.Contains(t, raw, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, raw, "Subject: HiBcc: x@evil\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain")
	assert.Contains(t, raw, "\r\n\r\nbody")
}

func TestDefaultWithoutHostLogs(t *testing.T) {
	mail.Use(nil)
	assert.IsType(t, mail.LogMailer{}, mail.Default())
}
