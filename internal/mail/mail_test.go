package mail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workconnect/internal/metrics"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func TestVerificationEmailEscapesName(t *testing.T) {
	t.Parallel()

	msg, err := VerificationEmail("juan@email.com", "<b>Juan</b>", "https://app.test/verify?token=abc")
	require.NoError(t, err)

	assert.Equal(t, "juan@email.com", msg.To)
	assert.Equal(t, "verify_email", msg.Kind)
	assert.Contains(t, msg.HTML, "&lt;b&gt;Juan&lt;/b&gt;")
	assert.Contains(t, msg.HTML, "https://app.test/verify?token=abc")
	assert.Contains(t, msg.Text, "https://app.test/verify?token=abc")
}

func TestPasswordResetEmail(t *testing.T) {
	t.Parallel()

	msg, err := PasswordResetEmail("maria@email.com", "Maria", "https://app.test/reset?token=ff")
	require.NoError(t, err)
	assert.Equal(t, "password_reset", msg.Kind)
	assert.Contains(t, msg.Subject, "Reset")
}

func TestThrottledForwardsAndPropagatesErrors(t *testing.T) {
	t.Parallel()

	next := &recordingSender{}
	throttled := NewThrottled(next, 0, metrics.New())

	require.NoError(t, throttled.Send(context.Background(), Message{To: "a@b.c", Kind: "verify_email"}))

	next.err = errors.New("smtp down")
	assert.ErrorContains(t, throttled.Send(context.Background(), Message{To: "a@b.c", Kind: "verify_email"}), "smtp down")
	assert.Len(t, next.sent, 2)
}

func TestThrottledHonoursContext(t *testing.T) {
	t.Parallel()

	next := &recordingSender{}
	throttled := NewThrottled(next, 0.001, nil)

	require.NoError(t, throttled.Send(context.Background(), Message{Kind: "x"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := throttled.Send(ctx, Message{Kind: "x"})
	require.Error(t, err)
	assert.Len(t, next.sent, 1)
}

func TestLogSenderNeverFails(t *testing.T) {
	t.Parallel()
	assert.NoError(t, NewLogSender(nil).Send(context.Background(), Message{Kind: "x"}))
}
