// Package notification fans a message out to the channels it supports.
//
//	type InquiryReceived struct{ Inquiry models.Inquiry }
//	func (n InquiryReceived) Via() []string { return []string{"mail", "slack"} }
//	func (n InquiryReceived) ToMail() notification.MailData  { ... }
//	func (n InquiryReceived) ToSlack() notification.SlackData { ... }
//
//	notifier.Send(ctx, config.AdminEmail(), InquiryReceived{Inquiry: inq})
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkwell-studio/atelier/config"
	"github.com/inkwell-studio/atelier/pkg/httpclient"
	"github.com/inkwell-studio/atelier/pkg/logger"
	"github.com/inkwell-studio/atelier/pkg/mail"
)

const (
	ChannelMail    = "mail"
	ChannelSlack   = "slack"
	ChannelWebhook = "webhook"
)

type MailData struct {
	To      string // overrides the notifiable address
	Subject string
	HTML    string
}

type SlackData struct {
	Text   string            `json:"text"`
	Blocks []SlackAttachment `json:"attachments,omitempty"`
}

type SlackAttachment struct {
	Color string `json:"color,omitempty"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
}

type WebhookData struct {
	URL     string
	Payload any
	Headers map[string]string
}

// Notification names its channels.
type Notification interface {
	Via() []string
}

type Mailable interface{ ToMail() MailData }
type Slackable interface{ ToSlack() SlackData }
type Webhookable interface{ ToWebhook() WebhookData }

// Notifier delivers notifications.
type Notifier struct {
	Mailer       mail.Mailer
	HTTP         *httpclient.Client
	SlackWebhook string
}

// New wires the default mailer and SLACK_WEBHOOK_URL.
func New() *Notifier {
	return &Notifier{
		Mailer:       mail.Default(),
		HTTP:         httpclient.New(),
		SlackWebhook: config.SlackWebhook(),
	}
}

// Send delivers n on every channel and joins the failures.
func (s *Notifier) Send(ctx context.Context, address string, n Notification) error {
	var errs []error
	for _, ch := range n.Via() {
		if err := s.deliver(ctx, address, ch, n); err != nil {
			logger.WithCtx(ctx).Error("notification: channel failed", "channel", ch, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", ch, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Notifier) deliver(ctx context.Context, address, channel string, n Notification) error {
	switch channel {
	case ChannelMail:
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T is not Mailable", n)
		}
		d := m.ToMail()
		to := d.To
		if to == "" {
			to = address
		}
		return s.Mailer.Send(ctx, mail.To(to).Subject(d.Subject).HTML(d.HTML).Message())

	case ChannelSlack:
		sl, ok := n.(Slackable)
		if !ok {
			return fmt.Errorf("notification: %T is not Slackable", n)
		}
		if s.SlackWebhook == "" {
			// optional channel
			return nil
		}
		return s.post(ctx, s.SlackWebhook, sl.ToSlack(), nil)

	case ChannelWebhook:
		wh, ok := n.(Webhookable)
		if !ok {
			return fmt.Errorf("notification: %T is not Webhookable", n)
		}
		d := wh.ToWebhook()
		if d.URL == "" {
			return errors.New("notification: webhook URL is empty")
		}
		return s.post(ctx, d.URL, d.Payload, d.Headers)
	}
	return fmt.Errorf("notification: unknown channel %q", channel)
}

func (s *Notifier) post(ctx context.Context, url string, body any, headers map[string]string) error {
	resp, err := s.HTTP.PostJSON(ctx, url, body, headers)
	if err != nil {
		return err
	}
	return resp.Err()
}
