// Package auth registers users, issues tokens and guards routes.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"fulvo/backend/internal/apperr"
	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// CodeTTL is how long a verification code stays valid.
const CodeTTL = 15 * time.Minute

var (
	ErrMissingFields      = apperr.Invalid("Todos los campos son requeridos")
	ErrInvalidRole        = apperr.Invalid("Tipo de usuario inválido")
	ErrEmailTaken         = apperr.Invalid("El email ya está registrado")
	ErrMissingCredentials = apperr.Invalid("Email y contraseña son requeridos")
	ErrInvalidCredentials = apperr.Unauthorized("Credenciales inválidas")
	ErrNotVerified        = apperr.Forbidden("Tenés que verificar tu email antes de iniciar sesión")
	ErrUserNotFound       = apperr.NotFound("Usuario no encontrado")
	ErrAlreadyVerified    = apperr.Invalid("El email ya está verificado")
	ErrInvalidCode        = apperr.Invalid("Código inválido o expirado")
	ErrMissingEmail       = apperr.Invalid("El email es requerido")
	ErrMailUnavailable    = apperr.Unavailable("No se pudo enviar el email de verificación")
)

// Mailer delivers verification codes.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, name, code string) error
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateToken(userID uint, email, role string) (string, error)
}

// Service implements the account lifecycle: register, verify, login.
type Service struct {
	store  *repository.Store
	tokens TokenIssuer
	mailer Mailer
	clock  clockwork.Clock
	log    zerolog.Logger
}

func NewService(store *repository.Store, tokens TokenIssuer, mailer Mailer, clock clockwork.Clock, log zerolog.Logger) *Service {
	return &Service{store: store, tokens: tokens, mailer: mailer, clock: clock, log: log}
}

// RegisterInput is a new account request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
	Position *string
}

// Session is an authenticated user with a fresh token.
type Session struct {
	Token string
	User  *models.User
}

// Register creates an unverified account and mails it a verification code.
// A failed delivery is logged; the user can ask for a new code.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, ErrMissingFields
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}

	if _, err := s.store.Users.ByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	code, err := newCode()
	if err != nil {
		return nil, err
	}
	expires := s.clock.Now().UTC().Add(CodeTTL)

	user := &models.User{
		Name:                  in.Name,
		Email:                 in.Email,
		PasswordHash:          string(hash),
		Role:                  in.Role,
		VerificationCode:      &code,
		VerificationExpiresAt: &expires,
	}
	if in.Role == models.RolePlayer {
		user.Position = in.Position
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if err := s.mailer.SendVerificationCode(ctx, user.Email, user.Name, code); err != nil {
		s.log.Warn().Err(err).Uint("user_id", user.ID).Msg("verification email failed")
	}
	return user, nil
}

// Login checks credentials and returns a token for verified accounts.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.store.Users.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, ErrNotVerified.With("requiere_verificacion", true).With("email", user.Email)
	}
	return s.session(user)
}

// VerifyCode marks the account verified and logs it in.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (*Session, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, ErrMissingFields
	}

	user, err := s.lookup(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.EmailVerified {
		return nil, ErrAlreadyVerified
	}
	if user.VerificationCode == nil || user.VerificationExpiresAt == nil ||
		!s.clock.Now().Before(*user.VerificationExpiresAt) ||
		subtle.ConstantTimeCompare([]byte(*user.VerificationCode), []byte(code)) != 1 {
		return nil, ErrInvalidCode
	}

	if err := s.store.Users.Updates(ctx, user.ID, map[string]any{
		"email_verified":          true,
		"verification_code":       nil,
		"verification_expires_at": nil,
	}); err != nil {
		return nil, err
	}
	user.EmailVerified = true
	user.VerificationCode = nil
	user.VerificationExpiresAt = nil
	return s.session(user)
}

// ResendCode replaces the pending code and mails the new one.
func (s *Service) ResendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrMissingEmail
	}

	user, err := s.lookup(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	code, err := newCode()
	if err != nil {
		return err
	}
	if err := s.store.Users.Updates(ctx, user.ID, map[string]any{
		"verification_code":       code,
		"verification_expires_at": s.clock.Now().UTC().Add(CodeTTL),
	}); err != nil {
		return err
	}

	if err := s.mailer.SendVerificationCode(ctx, user.Email, user.Name, code); err != nil {
		s.log.Error().Err(err).Uint("user_id", user.ID).Msg("verification email failed")
		return ErrMailUnavailable
	}
	return nil
}

func (s *Service) lookup(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.Users.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *Service) session(user *models.User) (*Session, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newCode returns a random six digit code.
func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
