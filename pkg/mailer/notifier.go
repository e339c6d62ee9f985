package mailer

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Notifier dispatches a single email with an HTML body and a plain-text fallback.
// Errors are returned to the caller.
type Notifier interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Publisher is the slice of the RabbitMQ publisher QueueNotifier needs.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier hands the email to the worker through RabbitMQ.
type QueueNotifier struct {
	Pub Publisher
}

func NewQueueNotifier(pub Publisher) *QueueNotifier {
	return &QueueNotifier{Pub: pub}
}

func (q *QueueNotifier) Send(ctx context.Context, to, subject, text, html string) error {
	if q.Pub == nil {
		return errors.New("email queue not configured")
	}
	job := EmailJob{To: to, Subject: subject, Text: text, HTML: html}
	if !job.Valid() {
		return errors.New("invalid email job")
	}
	return q.Pub.PublishJSON(ctx, job)
}

// LogNotifier only logs the message; used when sending is disabled.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (l LogNotifier) Send(_ context.Context, to, subject, text, html string) error {
	if l.Logger != nil {
		l.Logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Debug(text)
		l.Logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("email sending disabled; message logged")
	}
	return nil
}
