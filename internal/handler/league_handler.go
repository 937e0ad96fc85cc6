package handler

import (
	"net/http"

	"fulvo/backend/internal/league"
	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RangeResponse is the ranking band of a league. Max is null for diamond.
type RangeResponse struct {
	Min int  `json:"min" example:"900"`
	Max *int `json:"max" example:"999"`
}

// PrizeResponse is the end-of-season bonus of a league.
type PrizeResponse struct {
	Bonus       int    `json:"bonus" example:"20"`
	Description string `json:"descripcion" example:"+20 puntos bonus"`
}

// SeasonResponse is a season with the days left.
type SeasonResponse struct {
	ID            uint                `json:"id"`
	Name          string              `json:"nombre" example:"Temporada Octubre 2026"`
	StartsOn      string              `json:"fecha_inicio,omitempty" example:"2026-10-01"`
	EndsOn        string              `json:"fecha_fin,omitempty" example:"2026-11-01"`
	Status        models.SeasonStatus `json:"estado,omitempty" example:"activa"`
	DaysRemaining *int                `json:"dias_restantes,omitempty" example:"14"`
}

// MyLeagueResponse is the caller's league standing.
type MyLeagueResponse struct {
	League        models.League   `json:"liga" example:"plata"`
	Icon          string          `json:"icono"`
	Ranking       int             `json:"ranking"`
	SeasonPoints  int             `json:"puntos_temporada"`
	SeasonMatches int             `json:"partidos_temporada"`
	SeasonWins    int             `json:"victorias_temporada"`
	Position      *int            `json:"posicion"`
	Total         int             `json:"total_jugadores"`
	Prize         PrizeResponse   `json:"premio"`
	Range         RangeResponse   `json:"rangos"`
	Season        *SeasonResponse `json:"temporada"`
}

// StandingResponse is one row of a league table.
type StandingResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"nombre"`
	Ranking  int    `json:"ranking"`
	Points   int    `json:"puntos_temporada"`
	Matches  int    `json:"partidos_temporada"`
	Wins     int    `json:"victorias_temporada"`
	Position int    `json:"posicion"`
}

// StandingsResponse is a league table.
type StandingsResponse struct {
	League    models.League      `json:"liga"`
	Icon      string             `json:"icono"`
	Range     RangeResponse      `json:"rangos"`
	Prize     PrizeResponse      `json:"premio"`
	Standings []StandingResponse `json:"standings"`
}

// TopDiamondResponse is the diamond podium of the active season.
type TopDiamondResponse struct {
	Season *SeasonResponse    `json:"temporada"`
	Prize  PrizeResponse      `json:"premio"`
	Icon   string             `json:"icono"`
	Top    []StandingResponse `json:"top"`
}

// LeagueInfoResponse describes one league.
type LeagueInfoResponse struct {
	Name  models.League `json:"nombre"`
	Icon  string        `json:"icono"`
	Range RangeResponse `json:"rangos"`
	Prize PrizeResponse `json:"premio"`
}

func newRange(t league.Tier) RangeResponse {
	return RangeResponse{Min: t.Min, Max: t.Max}
}

func newPrize(t league.Tier) PrizeResponse {
	return PrizeResponse{Bonus: t.Prize, Description: t.PrizeDescription}
}

func newSeasonResponse(s *models.Season) *SeasonResponse {
	if s == nil {
		return nil
	}
	return &SeasonResponse{ID: s.ID, Name: s.Name, StartsOn: s.StartsOn, EndsOn: s.EndsOn, Status: s.Status}
}

func newStandings(rows []repository.Standing) []StandingResponse {
	out := make([]StandingResponse, 0, len(rows))
	for i, r := range rows {
		out = append(out, StandingResponse{
			ID:       r.PlayerID,
			Name:     r.Name,
			Ranking:  r.Ranking,
			Points:   r.Points,
			Matches:  r.Matches,
			Wins:     r.Wins,
			Position: i + 1,
		})
	}
	return out
}

// endregion

// LeagueHandler serves seasons and league tables.
type LeagueHandler struct {
	leagues *league.Service
}

func NewLeagueHandler(leagues *league.Service) *LeagueHandler {
	return &LeagueHandler{leagues: leagues}
}

// CurrentSeason godoc
// @Summary      Get the active season
// @Tags         leagues
// @Produce      json
// @Success      200  {object}  SeasonResponse
// @Failure      404  {object}  ErrorResponse "No active season"
// @Router       /leagues/current-season [get]
func (h *LeagueHandler) CurrentSeason(c *gin.Context) {
	view, err := h.leagues.CurrentSeason(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := newSeasonResponse(&view.Season)
	resp.DaysRemaining = &view.DaysRemaining
	c.JSON(http.StatusOK, resp)
}

// MyLeague godoc
// @Summary      Get my league
// @Description  Registers the caller in the active season on first access.
// @Tags         leagues
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MyLeagueResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /leagues/my-league [get]
func (h *LeagueHandler) MyLeague(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	my, err := h.leagues.MyLeague(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := MyLeagueResponse{
		League:  my.Tier.League,
		Icon:    my.Tier.Icon,
		Ranking: my.Ranking,
		Total:   my.Total,
		Prize:   newPrize(my.Tier),
		Range:   newRange(my.Tier),
	}
	if my.Entry != nil {
		resp.SeasonPoints = my.Entry.Points
		resp.SeasonMatches = my.Entry.Matches
		resp.SeasonWins = my.Entry.Wins
		resp.Position = &my.Position
	}
	if my.Season != nil {
		resp.Season = &SeasonResponse{ID: my.Season.Season.ID, Name: my.Season.Season.Name, DaysRemaining: &my.Season.DaysRemaining}
	}
	c.JSON(http.StatusOK, resp)
}

// Standings godoc
// @Summary      Get a league table
// @Tags         leagues
// @Produce      json
// @Param        liga  path      string  true  "League" Enums(bronce, plata, oro, platino, diamante)
// @Success      200   {object}  StandingsResponse
// @Failure      400   {object}  ErrorResponse "Invalid league"
// @Router       /leagues/{liga}/standings [get]
func (h *LeagueHandler) Standings(c *gin.Context) {
	view, err := h.leagues.Standings(c.Request.Context(), models.League(c.Param("liga")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandingsResponse{
		League:    view.Tier.League,
		Icon:      view.Tier.Icon,
		Range:     newRange(view.Tier),
		Prize:     newPrize(view.Tier),
		Standings: newStandings(view.Rows),
	})
}

// TopDiamond godoc
// @Summary      Get the diamond top ten
// @Tags         leagues
// @Produce      json
// @Success      200  {object}  TopDiamondResponse
// @Router       /leagues/top-diamond [get]
func (h *LeagueHandler) TopDiamond(c *gin.Context) {
	view, err := h.leagues.TopDiamond(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TopDiamondResponse{
		Season: newSeasonResponse(view.Season),
		Prize:  newPrize(view.Tier),
		Icon:   view.Tier.Icon,
		Top:    newStandings(view.Rows),
	})
}

// Info godoc
// @Summary      Describe every league
// @Tags         leagues
// @Produce      json
// @Success      200  {array}  LeagueInfoResponse
// @Router       /leagues/info [get]
func (h *LeagueHandler) Info(c *gin.Context) {
	tiers := league.Tiers()
	out := make([]LeagueInfoResponse, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, LeagueInfoResponse{Name: t.League, Icon: t.Icon, Range: newRange(t), Prize: newPrize(t)})
	}
	c.JSON(http.StatusOK, out)
}
