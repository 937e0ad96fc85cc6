package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fulvo/backend/internal/models"
	"fulvo/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens *jwt.Manager) *gin.Engine {
	r := gin.New()
	identity := func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": CurrentRole(c)})
	}
	r.GET("/private", AuthMiddleware(tokens), identity)
	r.GET("/owners", AuthMiddleware(tokens), RequireRole(models.RoleOwner), identity)
	r.GET("/players", AuthMiddleware(tokens), RequireRole(models.RolePlayer), identity)
	r.GET("/public", OptionalAuthMiddleware(tokens), identity)
	return r
}

func do(r *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tokens := jwt.NewManager("secret", time.Hour, clock)
	r := newRouter(tokens)

	token, err := tokens.GenerateToken(7, "o@example.com", "dueno")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, "Token no proporcionado"},
		{"one part", token, http.StatusUnauthorized, "Token mal formado"},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized, "Token mal formado"},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, "Token inválido o expirado"},
		{"valid", "Bearer " + token, http.StatusOK, `"id":7`},
		{"lowercase scheme", "bearer " + token, http.StatusOK, `"role":"dueno"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, "/private", tt.header)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestAuthMiddlewareExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tokens := jwt.NewManager("secret", time.Hour, clock)
	r := newRouter(tokens)

	token, err := tokens.GenerateToken(7, "o@example.com", "dueno")
	require.NoError(t, err)
	clock.Advance(2 * time.Hour)

	w := do(r, "/private", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token inválido o expirado")
}

func TestRequireRole(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Hour, clockwork.NewFakeClock())
	r := newRouter(tokens)

	owner, err := tokens.GenerateToken(1, "o@example.com", "dueno")
	require.NoError(t, err)
	player, err := tokens.GenerateToken(2, "p@example.com", "jugador")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, do(r, "/owners", "Bearer "+owner).Code)
	w := do(r, "/owners", "Bearer "+player)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Acceso solo para dueños de cancha")

	assert.Equal(t, http.StatusOK, do(r, "/players", "Bearer "+player).Code)
	w = do(r, "/players", "Bearer "+owner)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Acceso solo para jugadores")
}

func TestOptionalAuthMiddleware(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Hour, clockwork.NewFakeClock())
	r := newRouter(tokens)
	token, err := tokens.GenerateToken(9, "p@example.com", "jugador")
	require.NoError(t, err)

	w := do(r, "/public", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":0`)

	w = do(r, "/public", "Bearer broken")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":0`)

	w = do(r, "/public", "Bearer "+token)
	assert.Contains(t, w.Body.String(), `"id":9`)
}
