package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	got []any
	err error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.got = append(f.got, body)
	return f.err
}

func TestQueueNotifier_PublishesJob(t *testing.T) {
	pub := &fakePublisher{}
	n := NewQueueNotifier(pub)

	require.NoError(t, n.Send(context.Background(), "jane@usiu.ac.ke", "Verify", "hi", "<p>hi</p>"))
	require.Len(t, pub.got, 1)
	assert.Equal(t, EmailJob{To: "jane@usiu.ac.ke", Subject: "Verify", Text: "hi", HTML: "<p>hi</p>"}, pub.got[0])
}

func TestQueueNotifier_SurfacesPublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	err := NewQueueNotifier(pub).Send(context.Background(), "a@usiu.ac.ke", "s", "x", "<p>x</p>")
	assert.EqualError(t, err, "channel closed")
}

func TestQueueNotifier_RejectsIncompleteJob(t *testing.T) {
	pub := &fakePublisher{}
	err := NewQueueNotifier(pub).Send(context.Background(), "", "s", "x", "<p>x</p>")
	assert.Error(t, err)
	assert.Empty(t, pub.got)
}

func TestLogNotifier_NeverFails(t *testing.T) {
	assert.NoError(t, LogNotifier{}.Send(context.Background(), "a@usiu.ac.ke", "s", "b", "<p>b</p>"))
}
