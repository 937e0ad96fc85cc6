package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"fulvo/backend/internal/metrics"
)

const sendTimeout = 10 * time.Second

var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; background-color: #111827; color: #ffffff; padding: 40px 20px; margin: 0;">
  <div style="max-width: 400px; margin: 0 auto; background-color: #1f2937; border-radius: 16px; padding: 32px; text-align: center;">
    <h1 style="color: #38bdf8; margin-bottom: 8px; font-size: 28px;">Fulvo</h1>
    <p style="color: #9ca3af; margin-bottom: 32px;">Fútbol 7 en Argentina</p>
    <p style="color: #e5e7eb; font-size: 16px; margin-bottom: 24px;">¡Hola <strong>{{.Name}}</strong>!</p>
    <p style="color: #9ca3af; font-size: 14px; margin-bottom: 16px;">Tu código de verificación es:</p>
    <div style="background-color: #374151; border-radius: 12px; padding: 20px; margin-bottom: 24px;">
      <span style="font-size: 36px; font-weight: bold; letter-spacing: 8px; color: #38bdf8;">{{.Code}}</span>
    </div>
    <p style="color: #9ca3af; font-size: 12px; margin-bottom: 0;">Este código expira en <strong>{{.Minutes}} minutos</strong>.</p>
    <p style="color: #6b7280; font-size: 12px;">Si no solicitaste este código, podés ignorar este email.</p>
  </div>
</body>
</html>`))

// VerificationMailer sends account verification codes.
type VerificationMailer struct {
	sender  EmailSender
	metrics metrics.Metrics
	ttl     time.Duration
}

func NewVerificationMailer(sender EmailSender, m metrics.Metrics, ttl time.Duration) *VerificationMailer {
	return &VerificationMailer{sender: sender, metrics: m, ttl: ttl}
}

// VerificationMessage renders the email carrying code.
func VerificationMessage(to, name, code string, ttl time.Duration) (Message, error) {
	var buf bytes.Buffer
	data := struct {
		Name    string
		Code    string
		Minutes int
	}{name, code, int(ttl.Minutes())}
	if err := verificationTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render verification email: %w", err)
	}
	return Message{
		To:      to,
		Subject: "Verificá tu cuenta de Fulvo",
		HTML:    buf.String(),
		Text:    fmt.Sprintf("Hola %s, tu código de verificación de Fulvo es %s. Expira en %d minutos.", name, code, data.Minutes),
	}, nil
}

// SendVerificationCode renders and sends the code, bounded by a timeout that
// survives the caller's cancellation.
func (m *VerificationMailer) SendVerificationCode(ctx context.Context, to, name, code string) error {
	msg, err := VerificationMessage(to, name, code, m.ttl)
	if err != nil {
		return err
	}
	sendCtx, cancel := newEmailContext(ctx, sendTimeout)
	defer cancel()
	err = m.sender.Send(sendCtx, msg)
	m.metrics.IncEmails(err == nil)
	return err
}
