package app

import (
	"context"
	"fmt"

	"fulvo/backend/internal/ai"
	"fulvo/backend/internal/config"
	"fulvo/backend/internal/email"
	"fulvo/backend/internal/metrics"
	"fulvo/backend/internal/payments"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// DepsFromConfig picks the real adapters for every integration that has
// credentials configured and the disabled ones for the rest.
func DepsFromConfig(ctx context.Context, cfg *config.Config, db *gorm.DB, m metrics.Metrics, log zerolog.Logger) (Deps, error) {
	d := Deps{
		DB:        db,
		Log:       log,
		Clock:     clockwork.NewRealClock(),
		Location:  cfg.Location(),
		Metrics:   m,
		JWTSecret: cfg.JWTSecret,
		JWTTTL:    cfg.JWTTTL,
		URLs:      payments.URLs{Frontend: cfg.FrontendURL, Webhook: cfg.WebhookURL},
	}

	if cfg.EmailEnabled() {
		ses, err := email.NewSESClient(ctx, cfg.SESAccessKeyID, cfg.SESSecretAccessKey, cfg.SESRegion, cfg.EmailFrom, log)
		if err != nil {
			return Deps{}, fmt.Errorf("ses: %w", err)
		}
		d.Mail = ses
	} else {
		log.Warn().Msg("SES not configured, verification codes will only be logged")
		d.Mail = email.NewLogSender(log)
	}

	if cfg.PaymentsEnabled() {
		mp, err := payments.NewMercadoPago(cfg.MercadoPagoToken)
		if err != nil {
			return Deps{}, fmt.Errorf("mercadopago: %w", err)
		}
		d.Gateway = mp
	} else {
		log.Warn().Msg("MP_ACCESS_TOKEN not set, payments disabled")
		d.Gateway = payments.DisabledGateway{}
	}

	if cfg.AIEnabled() {
		d.LLM = ai.NewOpenAIClient(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, cfg.DeepSeekModel)
	} else {
		log.Warn().Msg("DEEPSEEK_API_KEY not set, AI features disabled")
		d.LLM = ai.Disabled{}
	}
	return d, nil
}
