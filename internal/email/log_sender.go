package email

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes emails to the log instead of delivering them. It is used
// when SES is not configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Str("text", msg.Text).Msg("email not sent: delivery disabled")
	return nil
}
