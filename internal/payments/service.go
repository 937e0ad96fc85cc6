package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fulvo/backend/internal/apperr"
	"fulvo/backend/internal/metrics"
	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Kind is the subscription being bought.
type Kind string

const (
	KindOwner   Kind = "dueno"
	KindPremium Kind = "premium"
)

// Period is how long one payment keeps a subscription active.
const Period = 30 * 24 * time.Hour

// Prices in ARS per month.
var Prices = map[Kind]int{
	KindOwner:   10000,
	KindPremium: 4000,
}

var (
	ErrInvalidKind     = apperr.Invalid(`Tipo debe ser "dueno" o "premium"`)
	ErrUserNotFound    = apperr.NotFound("Usuario no encontrado")
	ErrCheckoutFailed  = apperr.Unavailable("Error al crear preferencia de pago")
	ErrInvalidUserKind = apperr.Invalid("Tipo de usuario no válido")
)

// URLs are the redirect and notification targets sent to the gateway.
type URLs struct {
	Frontend string
	Webhook  string
}

// Service sells subscriptions and applies gateway notifications.
type Service struct {
	store   *repository.Store
	gateway Gateway
	clock   clockwork.Clock
	urls    URLs
	metrics metrics.Metrics
	log     zerolog.Logger
}

func NewService(store *repository.Store, gateway Gateway, clock clockwork.Clock, urls URLs, m metrics.Metrics, log zerolog.Logger) *Service {
	return &Service{store: store, gateway: gateway, clock: clock, urls: urls, metrics: m, log: log}
}

// Checkout is a created payment preference.
type Checkout struct {
	Preference *Preference
	Price      int
	Kind       Kind
}

type externalRef struct {
	UserID uint `json:"user_id"`
	Kind   Kind `json:"tipo"`
}

// CreateSubscription opens a checkout for kind on behalf of userID.
func (s *Service) CreateSubscription(ctx context.Context, userID uint, kind Kind) (*Checkout, error) {
	price, ok := Prices[kind]
	if !ok {
		return nil, ErrInvalidKind
	}
	user, err := s.store.Users.ByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	ref, err := json.Marshal(externalRef{UserID: userID, Kind: kind})
	if err != nil {
		return nil, err
	}

	title, desc := "Plan Premium Jugador - Fulvo", "Suscripción mensual premium para jugadores"
	if kind == KindOwner {
		title, desc = "Suscripción Dueño de Cancha - Fulvo", "Suscripción mensual para dueños de canchas"
	}

	in := PreferenceInput{
		Item: Item{
			ID:          fmt.Sprintf("sub_%s_%d", kind, userID),
			Title:       title,
			Description: desc,
			Price:       price,
		},
		PayerName:         user.Name,
		PayerEmail:        user.Email,
		ExternalReference: string(ref),
		NotificationURL:   s.urls.Webhook,
	}
	if base := strings.TrimRight(s.urls.Frontend, "/"); base != "" {
		in.SuccessURL = base + "/pago/exito"
		in.FailureURL = base + "/pago/error"
		in.PendingURL = base + "/pago/pendiente"
	}

	pref, err := s.gateway.CreatePreference(ctx, in)
	if err != nil {
		s.log.Error().Err(err).Uint("user_id", userID).Str("kind", string(kind)).Msg("create preference failed")
		return nil, ErrCheckoutFailed
	}
	s.log.Info().Str("preference_id", pref.ID).Uint("user_id", userID).Msg("preference created")
	return &Checkout{Preference: pref, Price: price, Kind: kind}, nil
}

// HandleNotification processes a gateway webhook. Only approved payments
// change state; other notification types are ignored.
func (s *Service) HandleNotification(ctx context.Context, topic, dataID string) error {
	if topic != "payment" {
		return nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(dataID), 10, 64)
	if err != nil {
		return fmt.Errorf("payment id %q: %w", dataID, err)
	}

	info, err := s.gateway.Payment(ctx, id)
	if err != nil {
		return err
	}
	s.log.Info().Int64("payment_id", id).Str("status", info.Status).Msg("payment notification")
	if info.Status != StatusApproved {
		return nil
	}

	var ref externalRef
	if err := json.Unmarshal([]byte(info.ExternalReference), &ref); err != nil {
		return fmt.Errorf("external reference %q: %w", info.ExternalReference, err)
	}
	return s.Activate(ctx, ref.UserID, ref.Kind, strconv.FormatInt(id, 10))
}

// Activate starts or extends a subscription for Period.
func (s *Service) Activate(ctx context.Context, userID uint, kind Kind, ref string) error {
	expires := s.clock.Now().UTC().Add(Period)
	var fields map[string]any
	switch kind {
	case KindOwner:
		fields = map[string]any{
			"subscription_active":     true,
			"subscription_expires_at": expires,
			"subscription_ref":        ref,
		}
	case KindPremium:
		fields = map[string]any{
			"plan":                    models.PlanPremium,
			"subscription_expires_at": expires,
			"subscription_ref":        ref,
			"blocked":                 false,
		}
	default:
		return ErrInvalidKind
	}

	if err := s.store.Users.Updates(ctx, userID, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.metrics.IncSubscriptionsActivated(string(kind))
	s.log.Info().Uint("user_id", userID).Str("kind", string(kind)).Time("expires_at", expires).Msg("subscription activated")
	return nil
}

// KindFor is the subscription a user of role buys.
func KindFor(role models.Role) (Kind, error) {
	switch role {
	case models.RoleOwner:
		return KindOwner, nil
	case models.RolePlayer:
		return KindPremium, nil
	default:
		return "", ErrInvalidUserKind
	}
}

// Deactivate clears the subscription of userID.
func (s *Service) Deactivate(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.store.Users.ByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"subscription_expires_at": nil, "subscription_ref": nil}
	switch user.Role {
	case models.RoleOwner:
		fields["subscription_active"] = false
	case models.RolePlayer:
		fields["plan"] = models.PlanFree
	default:
		return nil, ErrInvalidUserKind
	}
	if err := s.store.Users.Updates(ctx, userID, fields); err != nil {
		return nil, err
	}
	return user, nil
}

// Status is the caller's subscription state.
type Status struct {
	Active          bool
	ExpiresAt       *time.Time
	Plan            models.Plan
	Role            models.Role
	HasSubscription bool
}

func (s *Service) Status(ctx context.Context, userID uint) (*Status, error) {
	user, err := s.store.Users.ByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	current := user.SubscriptionExpiresAt != nil && user.SubscriptionExpiresAt.After(now)
	return &Status{
		Active:          user.SubscriptionActive && current,
		ExpiresAt:       user.SubscriptionExpiresAt,
		Plan:            user.Plan,
		Role:            user.Role,
		HasSubscription: user.SubscriptionRef != nil,
	}, nil
}

// ExpireSubscriptions lapses subscriptions whose period has ended.
func (s *Service) ExpireSubscriptions(ctx context.Context) (int64, error) {
	n, err := s.store.Users.ExpireSubscriptions(ctx, s.clock.Now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info().Int64("users", n).Msg("subscriptions expired")
	}
	return n, nil
}
