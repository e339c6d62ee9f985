package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

// Mailgun delivers email through the Mailgun HTTP API. It is both the direct
// Notifier and the worker's Deliverer.
type Mailgun struct {
	Sender string
	Tag    string
	client *mg.MailgunImpl
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Sender: sender, Tag: "verification", client: mg.NewMailgun(domain, apiKey)}
}

// Deliver sends one message. text or html may be empty, not both.
func (m *Mailgun) Deliver(ctx context.Context, to, subject, text, html string) error {
	if text == "" && html == "" {
		return errors.New("mailgun: empty body")
	}
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	if m.Tag != "" {
		if err := msg.AddTag(m.Tag); err != nil {
			return err
		}
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}

// Send is the synchronous Notifier.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	return m.Deliver(ctx, to, subject, text, html)
}
