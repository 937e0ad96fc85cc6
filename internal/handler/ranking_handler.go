package handler

import (
	"net/http"

	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// RankingSize is how many players the global ranking lists.
const RankingSize = 50

// RankingEntryResponse is a player's place in the global ranking.
type RankingEntryResponse struct {
	Position      int     `json:"posicion_ranking" example:"1"`
	ID            uint    `json:"id"`
	Name          string  `json:"nombre"`
	PlayerRole    *string `json:"posicion"`
	Ranking       int     `json:"ranking"`
	MatchesPlayed int     `json:"partidos_jugados"`
	MatchesWon    int     `json:"partidos_ganados"`
	WinPercentage int     `json:"porcentaje_victorias"`
}

func newRankingEntry(u *models.User, position int) RankingEntryResponse {
	return RankingEntryResponse{
		Position:      position,
		ID:            u.ID,
		Name:          u.Name,
		PlayerRole:    u.Position,
		Ranking:       u.Ranking,
		MatchesPlayed: u.MatchesPlayed,
		MatchesWon:    u.MatchesWon,
		WinPercentage: models.WinPercentage(u.MatchesPlayed, u.MatchesWon),
	}
}

// RankingHandler serves the all-time player ranking.
type RankingHandler struct {
	store *repository.Store
}

func NewRankingHandler(store *repository.Store) *RankingHandler {
	return &RankingHandler{store: store}
}

// List godoc
// @Summary      Get the global ranking
// @Description  Top players by ranking, then wins.
// @Tags         rankings
// @Produce      json
// @Success      200  {array}  RankingEntryResponse
// @Router       /rankings [get]
func (h *RankingHandler) List(c *gin.Context) {
	users, err := h.store.Users.TopPlayers(c.Request.Context(), RankingSize)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]RankingEntryResponse, 0, len(users))
	for i := range users {
		out = append(out, newRankingEntry(&users[i], i+1))
	}
	c.JSON(http.StatusOK, out)
}

// Me godoc
// @Summary      Get my ranking position
// @Tags         rankings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  RankingEntryResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /rankings/me [get]
func (h *RankingHandler) Me(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	u, err := h.store.Users.ByID(ctx, id)
	if err != nil {
		respondError(c, translateUserLookup(err))
		return
	}
	position, err := h.store.Users.RankPosition(ctx, u.Ranking)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRankingEntry(u, position))
}
