package handler

import (
	"net/http"

	"fulvo/backend/internal/ai"

	"github.com/gin-gonic/gin"
)

// ValidateInput asks for a review of a match or venue form.
type ValidateInput struct {
	Type string         `json:"type" example:"match"`
	Data map[string]any `json:"data"`
}

// ChatInput is a message for the owner assistant.
type ChatInput struct {
	Message string `json:"mensaje" example:"¿Cuántos jugadores tuve este mes?"`
}

// ChatResponse is the assistant's answer.
type ChatResponse struct {
	Answer string `json:"respuesta"`
}

// AIHandler serves the LLM-backed helpers.
type AIHandler struct {
	validator *ai.Validator
	assistant *ai.Assistant
}

func NewAIHandler(validator *ai.Validator, assistant *ai.Assistant) *AIHandler {
	return &AIHandler{validator: validator, assistant: assistant}
}

// Validate godoc
// @Summary      Review a match or venue before publishing
// @Description  Dates are checked locally; everything else is reviewed by the model. Model failures are reported as valid.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        input  body      ValidateInput  true  "Form data"
// @Success      200    {object}  ai.Verdict
// @Failure      400    {object}  ErrorResponse
// @Router       /ai/validate [post]
func (h *AIHandler) Validate(c *gin.Context) {
	var input ValidateInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Type == "" || input.Data == nil {
		respondError(c, ai.ErrMissingInput)
		return
	}
	verdict, err := h.validator.Validate(c.Request.Context(), ai.Kind(input.Type), input.Data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, verdict)
}

// Chat godoc
// @Summary      Ask the owner assistant
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      ChatInput  true  "Message"
// @Success      200    {object}  ChatResponse
// @Failure      400    {object}  ErrorResponse "Empty message"
// @Failure      503    {object}  ErrorResponse "Assistant unavailable"
// @Router       /chat/owner [post]
func (h *AIHandler) Chat(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, ai.ErrEmptyMessage)
		return
	}
	answer, err := h.assistant.Ask(c.Request.Context(), id, input.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ChatResponse{Answer: answer})
}
