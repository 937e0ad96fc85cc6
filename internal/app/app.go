// Package app wires the services, handlers and router from their adapters.
// cmd/server and cmd/fulvoctl build on it, as do the end-to-end tests.
package app

import (
	"net/http"
	"time"

	"fulvo/backend/internal/ai"
	"fulvo/backend/internal/auth"
	"fulvo/backend/internal/email"
	"fulvo/backend/internal/friends"
	"fulvo/backend/internal/handler"
	"fulvo/backend/internal/hub"
	"fulvo/backend/internal/league"
	"fulvo/backend/internal/match"
	"fulvo/backend/internal/metrics"
	"fulvo/backend/internal/owners"
	"fulvo/backend/internal/payments"
	"fulvo/backend/internal/repository"
	"fulvo/backend/internal/server"
	"fulvo/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps are the adapters the application is assembled from.
type Deps struct {
	DB       *gorm.DB
	Log      zerolog.Logger
	Clock    clockwork.Clock
	Location *time.Location
	Metrics  metrics.Metrics

	JWTSecret string
	JWTTTL    time.Duration

	Mail    email.EmailSender
	Gateway payments.Gateway
	LLM     ai.LLM
	URLs    payments.URLs
	Rules   match.Rules
}

// App holds the constructed services.
type App struct {
	Log     zerolog.Logger
	Clock   clockwork.Clock
	Store   *repository.Store
	Hub     *hub.Hub
	Metrics metrics.Metrics
	Tokens  *jwt.Manager

	Auth      *auth.Service
	Matches   *match.Service
	Leagues   *league.Service
	Friends   *friends.Service
	Owners    *owners.Service
	Payments  *payments.Service
	Validator *ai.Validator
	Assistant *ai.Assistant
}

// New builds every service. Missing optional adapters fall back to their
// disabled variants.
func New(d Deps) *App {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewMock()
	}
	if d.Mail == nil {
		d.Mail = email.NewLogSender(d.Log)
	}
	if d.Gateway == nil {
		d.Gateway = payments.DisabledGateway{}
	}
	if d.LLM == nil {
		d.LLM = ai.Disabled{}
	}
	if d.Rules == (match.Rules{}) {
		d.Rules = match.DefaultRules()
	}

	store := repository.New(d.DB)
	events := hub.NewHub(d.Log.With().Str("component", "hub").Logger())
	tokens := jwt.NewManager(d.JWTSecret, d.JWTTTL, d.Clock)
	leagues := league.NewService(store, d.Clock, d.Location, d.Metrics, d.Log)
	mailer := email.NewVerificationMailer(d.Mail, d.Metrics, auth.CodeTTL)

	return &App{
		Log:     d.Log,
		Clock:   d.Clock,
		Store:   store,
		Hub:     events,
		Metrics: d.Metrics,
		Tokens:  tokens,

		Auth:    auth.NewService(store, tokens, mailer, d.Clock, d.Log),
		Leagues: leagues,
		Matches: match.NewService(match.Deps{
			Store:    store,
			Seasons:  leagues,
			Clock:    d.Clock,
			Location: d.Location,
			Rules:    d.Rules,
			Events:   events,
			Metrics:  d.Metrics,
			Log:      d.Log,
		}),
		Friends:   friends.NewService(store),
		Owners:    owners.NewService(store, d.Clock, d.Location),
		Payments:  payments.NewService(store, d.Gateway, d.Clock, d.URLs, d.Metrics, d.Log),
		Validator: ai.NewValidator(d.LLM, d.Clock, d.Location, d.Log),
		Assistant: ai.NewAssistant(d.LLM, store, d.Log),
	}
}

// Handlers builds the HTTP handlers over the services.
func (a *App) Handlers() server.Handlers {
	return server.Handlers{
		Auth:     handler.NewAuthHandler(a.Auth),
		Matches:  handler.NewMatchHandler(a.Matches, a.Hub),
		Venues:   handler.NewVenueHandler(a.Store),
		Players:  handler.NewPlayerHandler(a.Store, a.Clock),
		Rankings: handler.NewRankingHandler(a.Store),
		Leagues:  handler.NewLeagueHandler(a.Leagues),
		Friends:  handler.NewFriendHandler(a.Friends),
		Owners:   handler.NewOwnerHandler(a.Owners),
		Payments: handler.NewPaymentHandler(a.Payments),
		AI:       handler.NewAIHandler(a.Validator, a.Assistant),
		Waitlist: handler.NewWaitlistHandler(a.Store),
		Health:   handler.NewHealthHandler(a.Store, a.Clock),
	}
}

// Router builds the gin engine. metricsHandler may be nil.
func (a *App) Router(metricsHandler http.Handler, swagger bool) *gin.Engine {
	return server.NewRouter(a.Handlers(), server.Options{
		Log:            a.Log,
		Tokens:         a.Tokens,
		Metrics:        a.Metrics,
		MetricsHandler: metricsHandler,
		Swagger:        swagger,
	})
}
