package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-studio/atelier/pkg/httpclient"
	"github.com/inkwell-studio/atelier/pkg/mail"
	"github.com/inkwell-studio/atelier/pkg/notification"
)

type newInquiry struct{ subject string }

func (newInquiry) Via() []string { return []string{notification.ChannelMail, notification.ChannelSlack} }
func (n newInquiry) ToMail() notification.MailData {
	return notification.MailData{Subject: "New inquiry: " + n.subject, HTML: "<p>" + n.subject + "</p>"}
}
func (n newInquiry) ToSlack() notification.SlackData {
	return notification.SlackData{Text: "New inquiry: " + n.subject}
}

type bareNotice struct{}

func (bareNotice) Via() []string { return []string{notification.ChannelSlack} }

func TestSendMailAndSlack(t *testing.T) {
	var slack notification.SlackData
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&slack)
	}))
	defer srv.Close()

	rec := &mail.Recorder{}
	n := &notification.Notifier{Mailer: rec, HTTP: httpclient.New(), SlackWebhook: srv.URL}

	require.NoError(t, n.Send(context.Background(), "studio@example.com", newInquiry{subject: "Commission"}))

	sent := rec.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"studio@example.com"}, sent[0].To)
	assert.Equal(t, "New inquiry: Commission", sent[0].Subject)
	assert.Equal(t, "New inquiry: Commission", slack.Text)
}

func TestSlackSkippedWithoutWebhook(t *testing.T) {
	rec := &mail.Recorder{}
	n := &notification.Notifier{Mailer: rec, HTTP: httpclient.New()}
	assert.NoError(t, n.Send(context.Background(), "a@example.com", newInquiry{subject: "x"}))
	assert.Len(t, rec.Sent(), 1)
}

func TestUnsupportedChannel(t *testing.T) {
	n := &notification.Notifier{Mailer: &mail.Recorder{}, HTTP: httpclient.New(), SlackWebhook: "http://unused"}
	assert.ErrorContains(t, n.Send(context.Background(), "a@example.com", bareNotice{}), "not Slackable")
}
