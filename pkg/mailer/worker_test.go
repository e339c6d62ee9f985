package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

type fakeDeliverer struct {
	err  error
	sent []string
}

func (f *fakeDeliverer) Deliver(_ context.Context, to, _, _, _ string) error {
	f.sent = append(f.sent, to)
	return f.err
}

func TestWorker_Handle(t *testing.T) {
	logger, hook := test.NewNullLogger()
	d := &fakeDeliverer{}
	w := &Worker{Mail: d, Logger: logger}

	ok := []byte(`{"to":"jane@usiu.ac.ke","subject":"Verify","html":"<p>hi</p>"}`)
	assert.Equal(t, Ack, w.Handle(context.Background(), ok, false))
	assert.Equal(t, []string{"jane@usiu.ac.ke"}, d.sent)

	assert.Equal(t, Drop, w.Handle(context.Background(), []byte(`{not json`), false))
	assert.Equal(t, Drop, w.Handle(context.Background(), []byte(`{"to":"x@usiu.ac.ke"}`), false))
	assert.Len(t, d.sent, 1, "malformed jobs never reach the mailer")

	d.err = errors.New("mailgun 502")
	assert.Equal(t, Requeue, w.Handle(context.Background(), ok, false))
	assert.Equal(t, "email send failed; requeueing", hook.LastEntry().Message)
}

func TestWorker_DropsRepeatedFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	d := &fakeDeliverer{err: errors.New("mailgun 400")}
	w := &Worker{Mail: d, Logger: logger}
	job := []byte(`{"to":"jane@usiu.ac.ke","subject":"Verify","text":"hi"}`)

	assert.Equal(t, Requeue, w.Handle(context.Background(), job, false))
	assert.Equal(t, Drop, w.Handle(context.Background(), job, true))
	assert.Len(t, d.sent, 2)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "email send failed again; dropping", hook.LastEntry().Message)
}

func TestWorker_RetryDelayStopsOnCancel(t *testing.T) {
	d := &fakeDeliverer{err: errors.New("mailgun 502")}
	w := &Worker{Mail: d, RetryDelay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	assert.Equal(t, Requeue, w.Handle(ctx, []byte(`{"to":"jane@usiu.ac.ke","subject":"Verify","text":"hi"}`), false))
	assert.Less(t, time.Since(start), time.Second)
}
