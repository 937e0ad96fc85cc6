package handler

import (
	"errors"
	"net/http"
	"strings"

	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// WaitlistInput is a pre-launch sign-up.
type WaitlistInput struct {
	Email  string `json:"email" example:"hincha@example.com"`
	Source string `json:"source" example:"landing"`
}

// WaitlistResponse reports whether the email was new.
type WaitlistResponse struct {
	Message       string                `json:"message"`
	AlreadyExists bool                  `json:"alreadyExists"`
	Data          *models.WaitlistEntry `json:"data,omitempty"`
}

// CountResponse is a plain counter.
type CountResponse struct {
	Count int `json:"count" example:"128"`
}

type emailCheck struct {
	Email string `binding:"email"`
}

// WaitlistHandler collects pre-launch sign-ups.
type WaitlistHandler struct {
	store *repository.Store
}

func NewWaitlistHandler(store *repository.Store) *WaitlistHandler {
	return &WaitlistHandler{store: store}
}

// Join godoc
// @Summary      Join the waitlist
// @Tags         waitlist
// @Accept       json
// @Produce      json
// @Param        input  body      WaitlistInput  true  "Email"
// @Success      201    {object}  WaitlistResponse "Added"
// @Success      200    {object}  WaitlistResponse "Already on the list"
// @Failure      400    {object}  ErrorResponse
// @Router       /waitlist [post]
func (h *WaitlistHandler) Join(c *gin.Context) {
	var input WaitlistInput
	_ = c.ShouldBindJSON(&input)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		badRequest(c, "Email requerido")
		return
	}
	if err := binding.Validator.ValidateStruct(emailCheck{Email: email}); err != nil {
		badRequest(c, "Formato de email inválido")
		return
	}

	entry := &models.WaitlistEntry{Email: email, Source: strings.TrimSpace(input.Source)}
	if entry.Source == "" {
		entry.Source = "landing"
	}
	err := h.store.Waitlist.Add(c.Request.Context(), entry)
	if errors.Is(err, repository.ErrDuplicate) {
		c.JSON(http.StatusOK, WaitlistResponse{Message: "¡Ya estás en la lista!", AlreadyExists: true})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, WaitlistResponse{Message: "¡Te sumaste a la lista de espera!", Data: entry})
}

// Count godoc
// @Summary      Count waitlist sign-ups
// @Tags         waitlist
// @Produce      json
// @Success      200  {object}  CountResponse
// @Router       /waitlist/count [get]
func (h *WaitlistHandler) Count(c *gin.Context) {
	n, err := h.store.Waitlist.Count(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: n})
}
