package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulvo/backend/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent   []Message
	ctxErr error
	err    error
}

func (f *fakeSender) Send(ctx context.Context, msg Message) error {
	f.ctxErr = ctx.Err()
	f.sent = append(f.sent, msg)
	return f.err
}

func TestVerificationMessageEscapesName(t *testing.T) {
	msg, err := VerificationMessage("a@b.com", "<script>", "123456", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "Verificá tu cuenta de Fulvo", msg.Subject)
	assert.Contains(t, msg.HTML, "123456")
	assert.Contains(t, msg.HTML, "15 minutos")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.Text, "123456")
}

func TestSendVerificationCodeSurvivesCancelledCaller(t *testing.T) {
	f := &fakeSender{}
	m := metrics.NewMock()
	mailer := NewVerificationMailer(f, m, 15*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, mailer.SendVerificationCode(ctx, "a@b.com", "Ana", "654321"))

	require.Len(t, f.sent, 1)
	assert.NoError(t, f.ctxErr)
	assert.Equal(t, "a@b.com", f.sent[0].To)
	assert.Equal(t, 1, m.Emails(true))
}

func TestSendVerificationCodeCountsFailures(t *testing.T) {
	f := &fakeSender{err: errors.New("throttled")}
	m := metrics.NewMock()
	mailer := NewVerificationMailer(f, m, 15*time.Minute)

	assert.Error(t, mailer.SendVerificationCode(context.Background(), "a@b.com", "Ana", "654321"))
	assert.Equal(t, 1, m.Emails(false))
}

func TestNewSESClientRequiresCredentials(t *testing.T) {
	_, err := NewSESClient(context.Background(), "", "", "us-east-1", "x@y.com", zeroLogger())
	assert.Error(t, err)
	_, err = NewSESClient(context.Background(), "id", "secret", "us-east-1", "", zeroLogger())
	assert.Error(t, err)
}

func zeroLogger() zerolog.Logger { return zerolog.Nop() }
