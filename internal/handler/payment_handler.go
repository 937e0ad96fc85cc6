package handler

import (
	"net/http"
	"time"

	"fulvo/backend/internal/logging"
	"fulvo/backend/internal/models"
	"fulvo/backend/internal/payments"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// SubscriptionInput selects what to buy.
type SubscriptionInput struct {
	Kind string `json:"tipo" example:"premium"`
}

// CheckoutResponse points the client to the payment page.
type CheckoutResponse struct {
	Message          string `json:"message" example:"Preferencia de pago creada"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
	PreferenceID     string `json:"preference_id"`
	Price            int    `json:"precio" example:"4000"`
	Kind             string `json:"tipo" example:"premium"`
}

// WebhookInput is the gateway notification body.
type WebhookInput struct {
	Type string `json:"type" example:"payment"`
	Data struct {
		ID string `json:"id" example:"123456789"`
	} `json:"data"`
}

// SubscriptionStatusResponse is the caller's subscription state.
type SubscriptionStatusResponse struct {
	Active          bool        `json:"suscripcion_activa"`
	ExpiresAt       *time.Time  `json:"suscripcion_vence"`
	Plan            models.Plan `json:"plan"`
	Role            models.Role `json:"tipo"`
	HasSubscription bool        `json:"tiene_suscripcion"`
}

// endregion

// PaymentHandler sells subscriptions.
type PaymentHandler struct {
	payments *payments.Service
}

func NewPaymentHandler(svc *payments.Service) *PaymentHandler {
	return &PaymentHandler{payments: svc}
}

// CreateSubscription godoc
// @Summary      Start a subscription checkout
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      SubscriptionInput  true  "Subscription kind (dueno or premium)"
// @Success      200    {object}  CheckoutResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      503    {object}  ErrorResponse "Gateway unavailable"
// @Router       /payments/create-subscription [post]
func (h *PaymentHandler) CreateSubscription(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var input SubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, payments.ErrInvalidKind)
		return
	}
	checkout, err := h.payments.CreateSubscription(c.Request.Context(), id, payments.Kind(input.Kind))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CheckoutResponse{
		Message:          "Preferencia de pago creada",
		InitPoint:        checkout.Preference.InitPoint,
		SandboxInitPoint: checkout.Preference.SandboxInitPoint,
		PreferenceID:     checkout.Preference.ID,
		Price:            checkout.Price,
		Kind:             string(checkout.Kind),
	})
}

// Webhook godoc
// @Summary      Receive gateway notifications
// @Description  Always answers 200 so the gateway does not retry; failures are logged.
// @Tags         payments
// @Accept       json
// @Produce      plain
// @Param        notification  body  WebhookInput  true  "Notification"
// @Success      200  {string}  string  "OK"
// @Router       /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var input WebhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logging.FromContext(c).Debug().Err(err).Msg("payment notification without JSON body")
	}
	// Some notifications only carry the query string.
	if input.Type == "" {
		input.Type = c.Query("type")
	}
	if input.Data.ID == "" {
		input.Data.ID = c.Query("data.id")
	}
	if err := h.payments.HandleNotification(c.Request.Context(), input.Type, input.Data.ID); err != nil {
		logging.FromContext(c).Error().Err(err).Str("type", input.Type).Str("data_id", input.Data.ID).Msg("payment notification failed")
	}
	c.String(http.StatusOK, "OK")
}

// Status godoc
// @Summary      Get my subscription status
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  SubscriptionStatusResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /payments/status/check [get]
func (h *PaymentHandler) Status(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	st, err := h.payments.Status(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SubscriptionStatusResponse{
		Active:          st.Active,
		ExpiresAt:       st.ExpiresAt,
		Plan:            st.Plan,
		Role:            st.Role,
		HasSubscription: st.HasSubscription,
	})
}
