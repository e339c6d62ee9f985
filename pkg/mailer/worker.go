package mailer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// Deliverer sends one rendered email.
type Deliverer interface {
	Deliver(ctx context.Context, to, subject, text, html string) error
}

// Outcome tells the consumer how to settle a queue message.
type Outcome int

const (
	Ack Outcome = iota
	Requeue
	Drop
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	default:
		return "drop"
	}
}

// Worker turns queued EmailJobs into deliveries.
type Worker struct {
	Mail        Deliverer
	Logger      *logrus.Logger
	SendTimeout time.Duration

	// RetryDelay is waited before a failed job goes back on the queue.
	RetryDelay time.Duration
}

// Handle decodes one message body and delivers it. Malformed jobs are dropped.
// A failed delivery is requeued once; if the redelivered copy fails too it is dropped.
func (w *Worker) Handle(ctx context.Context, body []byte, redelivered bool) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil || !job.Valid() {
		w.logger().WithError(err).Warn("dropping malformed email job")
		return Drop
	}
	timeout := w.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Mail.Deliver(c, job.To, job.Subject, job.Text, job.HTML); err != nil {
		entry := w.logger().WithError(err).WithField("subject", job.Subject)
		if redelivered {
			entry.Error("email send failed again; dropping")
			return Drop
		}
		entry.Warn("email send failed; requeueing")
		w.backoff(ctx)
		return Requeue
	}
	return Ack
}

func (w *Worker) backoff(ctx context.Context) {
	if w.RetryDelay <= 0 {
		return
	}
	t := time.NewTimer(w.RetryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (w *Worker) logger() *logrus.Logger {
	if w.Logger == nil {
		return logrus.StandardLogger()
	}
	return w.Logger
}
