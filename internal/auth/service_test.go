package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fulvo/backend/internal/apperr"
	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"
	"fulvo/backend/internal/testutil"
	"fulvo/backend/pkg/jwt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mailbox struct {
	mu    sync.Mutex
	codes map[string]string
	fail  error
}

func (m *mailbox) SendVerificationCode(_ context.Context, to, _ string, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	if m.codes == nil {
		m.codes = map[string]string{}
	}
	m.codes[to] = code
	return nil
}

func (m *mailbox) code(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[to]
}

type authFixture struct {
	svc    *Service
	store  *repository.Store
	clock  *clockwork.FakeClock
	mail   *mailbox
	tokens *jwt.Manager
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	store := testutil.NewStore(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC))
	tokens := jwt.NewManager("test-secret", 7*24*time.Hour, clock)
	mail := &mailbox{}
	return &authFixture{
		svc:    NewService(store, tokens, mail, clock, zerolog.Nop()),
		store:  store,
		clock:  clock,
		mail:   mail,
		tokens: tokens,
	}
}

func (f *authFixture) register(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	pos := "Delantero"
	u, err := f.svc.Register(context.Background(), RegisterInput{
		Name: "Lio", Email: email, Password: "secreto123", Role: role, Position: &pos,
	})
	require.NoError(t, err)
	return u
}

func TestRegisterCreatesUnverifiedUser(t *testing.T) {
	f := newAuthFixture(t)
	u := f.register(t, " Lio@Example.com ", models.RolePlayer)

	assert.Equal(t, "lio@example.com", u.Email)
	assert.False(t, u.EmailVerified)
	require.NotNil(t, u.Position)
	assert.Equal(t, "Delantero", *u.Position)
	assert.NotEqual(t, "secreto123", u.PasswordHash)
	assert.Len(t, f.mail.code("lio@example.com"), 6)

	stored, err := f.store.Users.ByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRanking, stored.Ranking)
}

func TestRegisterOwnerDropsPosition(t *testing.T) {
	f := newAuthFixture(t)
	u := f.register(t, "dueno@example.com", models.RoleOwner)
	assert.Nil(t, u.Position)
}

func TestRegisterValidation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "x", Role: models.RolePlayer})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.com", Password: "x", Role: "admin"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	f.register(t, "dup@example.com", models.RolePlayer)
	_, err = f.svc.Register(ctx, RegisterInput{Name: "B", Email: "DUP@example.com", Password: "x", Role: models.RolePlayer})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.mail.fail = errors.New("ses down")
	u := f.register(t, "x@example.com", models.RolePlayer)
	assert.NotZero(t, u.ID)
}

func TestLoginRequiresVerification(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "lio@example.com", models.RolePlayer)

	_, err := f.svc.Login(context.Background(), "lio@example.com", "secreto123")
	require.ErrorIs(t, err, ErrNotVerified)
	ae := apperr.As(err)
	assert.Equal(t, 403, apperr.Status(err))
	assert.Equal(t, true, ae.Extra["requiere_verificacion"])
}

func TestLoginBadCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "lio@example.com", models.RolePlayer)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, "lio@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "nobody@example.com", "secreto123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "", "secreto123")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestVerifyThenLogin(t *testing.T) {
	f := newAuthFixture(t)
	u := f.register(t, "lio@example.com", models.RolePlayer)
	ctx := context.Background()

	_, err := f.svc.VerifyCode(ctx, "lio@example.com", "000000x")
	assert.ErrorIs(t, err, ErrInvalidCode)

	sess, err := f.svc.VerifyCode(ctx, "lio@example.com", f.mail.code("lio@example.com"))
	require.NoError(t, err)
	assert.True(t, sess.User.EmailVerified)

	claims, err := f.tokens.ParseToken(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "jugador", claims.Role)

	stored, err := f.store.Users.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)
	assert.Nil(t, stored.VerificationCode)

	sess, err = f.svc.Login(ctx, "lio@example.com", "secreto123")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	_, err = f.svc.VerifyCode(ctx, "lio@example.com", "123456")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerifyCodeExpires(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "lio@example.com", models.RolePlayer)
	code := f.mail.code("lio@example.com")

	f.clock.Advance(CodeTTL + time.Second)
	_, err := f.svc.VerifyCode(context.Background(), "lio@example.com", code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestResendCode(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "lio@example.com", models.RolePlayer)
	ctx := context.Background()

	f.clock.Advance(CodeTTL + time.Second)
	require.NoError(t, f.svc.ResendCode(ctx, "lio@example.com"))

	_, err := f.svc.VerifyCode(ctx, "lio@example.com", f.mail.code("lio@example.com"))
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.ResendCode(ctx, "lio@example.com"), ErrAlreadyVerified)
	assert.ErrorIs(t, f.svc.ResendCode(ctx, "ghost@example.com"), ErrUserNotFound)
}

func TestResendCodeReportsMailFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "lio@example.com", models.RolePlayer)
	f.mail.fail = errors.New("throttled")

	err := f.svc.ResendCode(context.Background(), "lio@example.com")
	assert.ErrorIs(t, err, ErrMailUnavailable)
	assert.Equal(t, 503, apperr.Status(err))
}
