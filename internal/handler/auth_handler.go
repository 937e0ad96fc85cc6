package handler

import (
	"net/http"

	"fulvo/backend/internal/auth"
	"fulvo/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Name     string  `json:"nombre" example:"Lionel"`
	Email    string  `json:"email" example:"lio@example.com"`
	Password string  `json:"password" example:"password123"`
	Role     string  `json:"tipo" example:"jugador"`
	Position *string `json:"posicion" example:"delantero"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" example:"lio@example.com"`
	Password string `json:"password" example:"password123"`
}

// VerifyInput carries the code mailed at registration.
type VerifyInput struct {
	Email string `json:"email" example:"lio@example.com"`
	Code  string `json:"codigo" example:"123456"`
}

// ResendInput asks for a new verification code.
type ResendInput struct {
	Email string `json:"email" example:"lio@example.com"`
}

// UserResponse is the account returned by the auth endpoints.
type UserResponse struct {
	ID            uint        `json:"id" example:"1"`
	Name          string      `json:"nombre" example:"Lionel"`
	Email         string      `json:"email" example:"lio@example.com"`
	Role          models.Role `json:"tipo" example:"jugador"`
	Position      *string     `json:"posicion"`
	Ranking       int         `json:"ranking" example:"50"`
	Plan          models.Plan `json:"plan" example:"free"`
	EmailVerified bool        `json:"email_verificado"`
}

// SessionResponse is returned after a successful login or verification.
type SessionResponse struct {
	Message string       `json:"message" example:"Login exitoso"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// RegisterResponse is returned after creating an account.
type RegisterResponse struct {
	Message string       `json:"message" example:"Usuario registrado exitosamente"`
	User    UserResponse `json:"user"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		Position:      u.Position,
		Ranking:       u.Ranking,
		Plan:          u.Plan,
		EmailVerified: u.EmailVerified,
	}
}

// endregion

// AuthHandler serves registration, login and email verification.
type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: svc}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an unverified player or owner account and mails a six-digit verification code.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user  body      RegisterInput  true  "User registration info"
// @Success      201   {object}  RegisterResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Todos los campos son requeridos")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), auth.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     models.Role(input.Role),
		Position: input.Position,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, RegisterResponse{
		Message: "Usuario registrado exitosamente. Revisá tu email para verificar la cuenta.",
		User:    newUserResponse(user),
	})
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticates a verified user and returns a JWT valid for seven days.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      LoginInput  true  "User login credentials"
// @Success      200          {object}  SessionResponse
// @Failure      400          {object}  ErrorResponse
// @Failure      401          {object}  ErrorResponse "Invalid credentials"
// @Failure      403          {object}  ErrorResponse "Email not verified"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Email y contraseña son requeridos")
		return
	}

	session, err := h.auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{
		Message: "Login exitoso",
		Token:   session.Token,
		User:    newUserResponse(session.User),
	})
}

// VerifyCode godoc
// @Summary      Verify an email address
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      VerifyInput  true  "Email and code"
// @Success      200    {object}  SessionResponse
// @Failure      400    {object}  ErrorResponse "Invalid or expired code"
// @Failure      404    {object}  ErrorResponse
// @Router       /auth/verificar-codigo [post]
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var input VerifyInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Code == "" {
		badRequest(c, "Email y código son requeridos")
		return
	}

	session, err := h.auth.VerifyCode(c.Request.Context(), input.Email, input.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{
		Message: "Email verificado exitosamente",
		Token:   session.Token,
		User:    newUserResponse(session.User),
	})
}

// ResendCode godoc
// @Summary      Resend the verification code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      ResendInput  true  "Email"
// @Success      200    {object}  MessageResponse
// @Failure      400    {object}  ErrorResponse "Already verified"
// @Failure      404    {object}  ErrorResponse
// @Failure      503    {object}  ErrorResponse "Mail delivery failed"
// @Router       /auth/reenviar-codigo [post]
func (h *AuthHandler) ResendCode(c *gin.Context) {
	var input ResendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Email requerido")
		return
	}
	if err := h.auth.ResendCode(c.Request.Context(), input.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Te enviamos un nuevo código"})
}
