package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"fulvo/backend/internal/apperr"
	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

// RecentMatches is how many played matches a public profile shows.
const RecentMatches = 5

// region --- DTOs ---

// ProfileResponse is the authenticated user's own profile.
type ProfileResponse struct {
	ID            uint        `json:"id" example:"1"`
	Name          string      `json:"nombre" example:"Lionel"`
	Email         string      `json:"email" example:"lio@example.com"`
	Role          models.Role `json:"tipo" example:"jugador"`
	Position      *string     `json:"posicion"`
	Ranking       int         `json:"ranking" example:"50"`
	MatchesPlayed int         `json:"partidos_jugados" example:"0"`
	MatchesWon    int         `json:"partidos_ganados" example:"0"`
	Plan          models.Plan `json:"plan" example:"free"`
	CreatedAt     time.Time   `json:"created_at"`
}

// UpdateProfileInput changes the editable profile fields.
type UpdateProfileInput struct {
	Name     *string `json:"nombre" example:"Lionel"`
	Position *string `json:"posicion" example:"arquero"`
}

// UpdateProfileResponse is returned after editing the profile.
type UpdateProfileResponse struct {
	Message string          `json:"message" example:"Perfil actualizado"`
	User    ProfileResponse `json:"user"`
}

// PlayerMatchResponse is one match the caller is enrolled in.
type PlayerMatchResponse struct {
	ID             uint      `json:"id"`
	Date           string    `json:"fecha"`
	StartTime      string    `json:"hora_inicio"`
	EndTime        string    `json:"hora_fin"`
	MaxPlayers     int       `json:"max_jugadores"`
	PricePerPlayer int       `json:"precio_por_jugador"`
	Description    *string   `json:"descripcion"`
	VenueName      string    `json:"cancha_nombre"`
	Address        string    `json:"direccion"`
	Zone           string    `json:"zona"`
	EnrolledAt     time.Time `json:"fecha_inscripcion"`
	// Timing is "pasado" once kickoff passed, otherwise "futuro".
	Timing   string `json:"estado" example:"futuro"`
	Enrolled int    `json:"jugadores_anotados"`
}

// RecentMatchResponse is a played match on a public profile.
type RecentMatchResponse struct {
	ID        uint         `json:"id"`
	Date      string       `json:"fecha"`
	HomeScore *int         `json:"resultado_local"`
	AwayScore *int         `json:"resultado_visitante"`
	VenueName string       `json:"cancha_nombre"`
	Zone      string       `json:"zona"`
	Team      *models.Team `json:"equipo"`
	Outcome   string       `json:"resultado" example:"victoria"`
}

// PublicPlayerResponse is a player's public profile.
type PublicPlayerResponse struct {
	ID            uint                  `json:"id"`
	Name          string                `json:"nombre"`
	Position      *string               `json:"posicion"`
	Ranking       int                   `json:"ranking"`
	MatchesPlayed int                   `json:"partidos_jugados"`
	MatchesWon    int                   `json:"partidos_ganados"`
	WinPercentage int                   `json:"porcentaje_victorias"`
	CreatedAt     time.Time             `json:"created_at"`
	RecentMatches []RecentMatchResponse `json:"ultimos_partidos"`
}

func newProfileResponse(u *models.User) ProfileResponse {
	return ProfileResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		Position:      u.Position,
		Ranking:       u.Ranking,
		MatchesPlayed: u.MatchesPlayed,
		MatchesWon:    u.MatchesWon,
		Plan:          u.Plan,
		CreatedAt:     u.CreatedAt,
	}
}

// entryOutcome labels a roster entry from the player's side. A player
// without a team on a decisive match counts as a loss.
func entryOutcome(mp *models.MatchPlayer) string {
	m := mp.Match
	if m == nil || m.HomeScore == nil || m.AwayScore == nil {
		return "pendiente"
	}
	home, away := *m.HomeScore, *m.AwayScore
	switch {
	case home == away:
		return "empate"
	case mp.Team == nil:
		return "derrota"
	case *mp.Team == models.TeamLocal && home > away,
		*mp.Team == models.TeamVisitor && away > home:
		return "victoria"
	default:
		return "derrota"
	}
}

// endregion

var errPlayerNotFound = apperr.NotFound("Jugador no encontrado")

// PlayerHandler serves player profiles and enrollments.
type PlayerHandler struct {
	store *repository.Store
	clock clockwork.Clock
}

func NewPlayerHandler(store *repository.Store, clock clockwork.Clock) *PlayerHandler {
	return &PlayerHandler{store: store, clock: clock}
}

// Profile godoc
// @Summary      Get my profile
// @Tags         players
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /players/profile [get]
func (h *PlayerHandler) Profile(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.store.Users.ByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, translateUserLookup(err))
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(u))
}

// UpdateProfile godoc
// @Summary      Update my profile
// @Tags         players
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        profile  body      UpdateProfileInput  true  "Fields to change"
// @Success      200      {object}  UpdateProfileResponse
// @Failure      400      {object}  ErrorResponse
// @Router       /players/profile [put]
func (h *PlayerHandler) UpdateProfile(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}

	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			badRequest(c, "El nombre no puede estar vacío")
			return
		}
		fields["name"] = name
	}
	if input.Position != nil {
		fields["position"] = input.Position
	}

	ctx := c.Request.Context()
	if len(fields) > 0 {
		if err := h.store.Users.Updates(ctx, id, fields); err != nil {
			respondError(c, err)
			return
		}
	}
	u, err := h.store.Users.ByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UpdateProfileResponse{Message: "Perfil actualizado", User: newProfileResponse(u)})
}

// Matches godoc
// @Summary      List my matches
// @Tags         players
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  PlayerMatchResponse
// @Router       /players/matches [get]
func (h *PlayerHandler) Matches(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	entries, err := h.store.Matches.PlayerEntries(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	now := h.clock.Now()
	out := make([]PlayerMatchResponse, 0, len(entries))
	for _, e := range entries {
		m := e.Match
		if m == nil {
			continue
		}
		timing := "futuro"
		if m.KickoffAt.Before(now) {
			timing = "pasado"
		}
		out = append(out, PlayerMatchResponse{
			ID:             m.ID,
			Date:           m.Date,
			StartTime:      m.StartTime,
			EndTime:        m.EndTime,
			MaxPlayers:     m.MaxPlayers,
			PricePerPlayer: m.PricePerPlayer,
			Description:    m.Description,
			VenueName:      m.Venue.Name,
			Address:        m.Venue.Address,
			Zone:           m.Venue.Zone,
			EnrolledAt:     e.CreatedAt,
			Timing:         timing,
			Enrolled:       m.Enrolled,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Get godoc
// @Summary      Get a player's public profile
// @Tags         players
// @Produce      json
// @Param        id   path      int  true  "Player ID"
// @Success      200  {object}  PublicPlayerResponse
// @Failure      404  {object}  ErrorResponse "Player not found"
// @Router       /players/{id} [get]
func (h *PlayerHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	u, err := h.store.Users.ByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && u.Role != models.RolePlayer) {
		respondError(c, errPlayerNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	played, err := h.store.Matches.PlayedEntries(ctx, id, RecentMatches)
	if err != nil {
		respondError(c, err)
		return
	}
	recent := make([]RecentMatchResponse, 0, len(played))
	for i := range played {
		e := &played[i]
		if e.Match == nil {
			continue
		}
		recent = append(recent, RecentMatchResponse{
			ID:        e.Match.ID,
			Date:      e.Match.Date,
			HomeScore: e.Match.HomeScore,
			AwayScore: e.Match.AwayScore,
			VenueName: e.Match.Venue.Name,
			Zone:      e.Match.Venue.Zone,
			Team:      e.Team,
			Outcome:   entryOutcome(e),
		})
	}

	c.JSON(http.StatusOK, PublicPlayerResponse{
		ID:            u.ID,
		Name:          u.Name,
		Position:      u.Position,
		Ranking:       u.Ranking,
		MatchesPlayed: u.MatchesPlayed,
		MatchesWon:    u.MatchesWon,
		WinPercentage: models.WinPercentage(u.MatchesPlayed, u.MatchesWon),
		CreatedAt:     u.CreatedAt,
		RecentMatches: recent,
	})
}
