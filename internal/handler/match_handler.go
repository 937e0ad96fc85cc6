package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"fulvo/backend/internal/auth"
	"fulvo/backend/internal/hub"
	"fulvo/backend/internal/match"
	"fulvo/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// MatchResponse is a match with its venue summary.
type MatchResponse struct {
	ID             uint               `json:"id" example:"1"`
	VenueID        uint               `json:"cancha_id" example:"1"`
	OrganizerID    uint               `json:"organizador_id" example:"2"`
	Date           string             `json:"fecha" example:"2026-10-20"`
	StartTime      string             `json:"hora_inicio" example:"20:00"`
	EndTime        string             `json:"hora_fin" example:"21:00"`
	MaxPlayers     int                `json:"max_jugadores" example:"14"`
	PricePerPlayer int                `json:"precio_por_jugador" example:"5000"`
	Description    *string            `json:"descripcion"`
	Status         models.MatchStatus `json:"estado" example:"pendiente"`
	CurrentStatus  models.MatchStatus `json:"estado_actual,omitempty" example:"pendiente"`
	HomeScore      *int               `json:"resultado_local"`
	AwayScore      *int               `json:"resultado_visitante"`
	Enrolled       int                `json:"jugadores_anotados" example:"6"`
	VenueName      string             `json:"cancha_nombre" example:"Cancha Palermo"`
	Address        string             `json:"direccion" example:"Av. Siempreviva 742"`
	Zone           string             `json:"zona" example:"Palermo"`
}

// RosterPlayerResponse is one enrolled player.
type RosterPlayerResponse struct {
	ID               uint         `json:"id"`
	Name             string       `json:"nombre"`
	Position         *string      `json:"posicion"`
	Ranking          int          `json:"ranking"`
	Team             *models.Team `json:"equipo"`
	PaymentConfirmed bool         `json:"pago_confirmado"`
}

// MatchDetailResponse adds pricing, organizer and roster to a match.
type MatchDetailResponse struct {
	MatchResponse
	HourlyPrice   *int                   `json:"precio_hora"`
	OrganizerName string                 `json:"organizador_nombre"`
	Players       []RosterPlayerResponse `json:"jugadores"`
	// Joined is only set for authenticated callers.
	Joined *bool `json:"inscripto,omitempty"`
}

// CreateMatchInput defines a new match.
type CreateMatchInput struct {
	VenueID        uint    `json:"cancha_id" example:"1"`
	Date           string  `json:"fecha" example:"2026-10-20"`
	StartTime      string  `json:"hora_inicio" example:"20:00"`
	EndTime        string  `json:"hora_fin" example:"21:00"`
	MaxPlayers     *int    `json:"max_jugadores" example:"14"`
	PricePerPlayer int     `json:"precio_por_jugador" example:"5000"`
	Description    *string `json:"descripcion"`
}

// CreateMatchResponse is returned after creating a match.
type CreateMatchResponse struct {
	Message string        `json:"message" example:"Partido creado exitosamente"`
	Match   MatchResponse `json:"partido"`
}

// JoinResponse reports the roster after joining.
type JoinResponse struct {
	Message       string `json:"message" example:"Te anotaste al partido exitosamente"`
	Enrolled      int    `json:"jugadores_anotados" example:"7"`
	MaxPlayers    int    `json:"max_jugadores" example:"14"`
	FreeJoinsLeft *int   `json:"partidos_gratis_restantes,omitempty" example:"1"`
}

// LeaveResponse reports the side effects of leaving.
type LeaveResponse struct {
	Message        string `json:"message"`
	Penalized      bool   `json:"penalizacion"`
	PointsDeducted int    `json:"puntosDescontados"`
	TeamsReset     bool   `json:"equiposReseteados"`
}

// TeamPlayerResponse is a drafted player.
type TeamPlayerResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"nombre"`
	Position *string `json:"posicion"`
	Ranking  int     `json:"ranking"`
}

// TeamResponse is one side of a draft.
type TeamResponse struct {
	Players        []TeamPlayerResponse `json:"jugadores"`
	AverageRanking float64              `json:"rankingPromedio"`
}

// TeamsResponse is the outcome of a draft.
type TeamsResponse struct {
	Message string `json:"message" example:"Equipos asignados exitosamente"`
	Teams   struct {
		Local   TeamResponse `json:"local"`
		Visitor TeamResponse `json:"visitante"`
	} `json:"equipos"`
	Spread float64 `json:"diferencia"`
}

// ResultInput is a final score.
type ResultInput struct {
	Home *int `json:"resultado_local" example:"3"`
	Away *int `json:"resultado_visitante" example:"1"`
}

// ResultResponse is returned after recording a score.
type ResultResponse struct {
	Message      string        `json:"message"`
	Match        MatchResponse `json:"partido"`
	StatsUpdated bool          `json:"statsActualizadas"`
	Winner       *models.Team  `json:"ganador"`
}

// PaymentInput toggles a player's payment flag.
type PaymentInput struct {
	Confirmed *bool `json:"pago_confirmado" example:"true"`
}

func newMatchResponse(m *models.Match) MatchResponse {
	return MatchResponse{
		ID:             m.ID,
		VenueID:        m.VenueID,
		OrganizerID:    m.OrganizerID,
		Date:           m.Date,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		MaxPlayers:     m.MaxPlayers,
		PricePerPlayer: m.PricePerPlayer,
		Description:    m.Description,
		Status:         m.Status,
		HomeScore:      m.HomeScore,
		AwayScore:      m.AwayScore,
		Enrolled:       m.Enrolled,
		VenueName:      m.Venue.Name,
		Address:        m.Venue.Address,
		Zone:           m.Venue.Zone,
	}
}

func newTeamResponse(picks []match.Pick, avg float64) TeamResponse {
	players := make([]TeamPlayerResponse, 0, len(picks))
	for _, p := range picks {
		players = append(players, TeamPlayerResponse{ID: p.PlayerID, Name: p.Name, Position: p.Position, Ranking: p.Ranking})
	}
	return TeamResponse{Players: players, AverageRanking: avg}
}

// endregion

// MatchWatcher lets clients follow live match events.
type MatchWatcher interface {
	Subscribe(matchID uint) hub.Client
	Unsubscribe(matchID uint, client hub.Client)
}

// MatchHandler serves the match lifecycle.
type MatchHandler struct {
	matches   *match.Service
	watchers  MatchWatcher
	keepAlive time.Duration
}

func NewMatchHandler(matches *match.Service, watchers MatchWatcher) *MatchHandler {
	return &MatchHandler{matches: matches, watchers: watchers, keepAlive: 25 * time.Second}
}

// List godoc
// @Summary      List upcoming matches
// @Tags         matches
// @Produce      json
// @Param        fecha  query     string  false  "Day (YYYY-MM-DD)"
// @Param        zona   query     string  false  "Venue zone (substring)"
// @Success      200    {array}   MatchResponse
// @Router       /matches [get]
func (h *MatchHandler) List(c *gin.Context) {
	matches, err := h.matches.List(c.Request.Context(), c.Query("fecha"), c.Query("zona"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]MatchResponse, 0, len(matches))
	for i := range matches {
		out = append(out, newMatchResponse(&matches[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Mine godoc
// @Summary      List the caller's organized matches
// @Description  Includes the derived state (jugado, pasado or pendiente).
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   MatchResponse
// @Failure      403  {object}  ErrorResponse "Owner access required"
// @Router       /matches/mine [get]
func (h *MatchHandler) Mine(c *gin.Context) {
	ownerID, ok := userID(c)
	if !ok {
		return
	}
	matches, err := h.matches.Mine(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	now := h.matches.Now()
	out := make([]MatchResponse, 0, len(matches))
	for i := range matches {
		r := newMatchResponse(&matches[i])
		r.CurrentStatus = matches[i].DerivedStatus(now)
		out = append(out, r)
	}
	c.JSON(http.StatusOK, out)
}

// Get godoc
// @Summary      Get match details
// @Tags         matches
// @Produce      json
// @Param        id   path      int  true  "Match ID"
// @Success      200  {object}  MatchDetailResponse
// @Failure      404  {object}  ErrorResponse "Match not found"
// @Router       /matches/{id} [get]
func (h *MatchHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	m, err := h.matches.Detail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := MatchDetailResponse{
		MatchResponse: newMatchResponse(m),
		HourlyPrice:   m.Venue.HourlyPrice,
		OrganizerName: m.Organizer.Name,
		Players:       make([]RosterPlayerResponse, 0, len(m.Players)),
	}
	resp.CurrentStatus = m.DerivedStatus(h.matches.Now())
	for _, p := range m.Players {
		resp.Players = append(resp.Players, RosterPlayerResponse{
			ID:               p.PlayerID,
			Name:             p.Player.Name,
			Position:         p.Player.Position,
			Ranking:          p.Player.Ranking,
			Team:             p.Team,
			PaymentConfirmed: p.PaymentConfirmed,
		})
	}
	if viewer, ok := auth.CurrentUserID(c); ok {
		joined := false
		for _, p := range m.Players {
			if p.PlayerID == viewer {
				joined = true
				break
			}
		}
		resp.Joined = &joined
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary      Create a match
// @Description  Requires an active owner subscription and a venue owned by the caller.
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        match  body      CreateMatchInput  true  "Match data"
// @Success      201    {object}  CreateMatchResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      403    {object}  ErrorResponse "Inactive subscription or venue not owned"
// @Router       /matches [post]
func (h *MatchHandler) Create(c *gin.Context) {
	ownerID, ok := userID(c)
	if !ok {
		return
	}
	var input CreateMatchInput
	if err := c.ShouldBindJSON(&input); err != nil || input.VenueID == 0 || input.Date == "" || input.StartTime == "" {
		badRequest(c, "Cancha, fecha y hora de inicio son requeridas")
		return
	}

	m, err := h.matches.Create(c.Request.Context(), ownerID, match.CreateInput{
		VenueID:        input.VenueID,
		Date:           input.Date,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		MaxPlayers:     input.MaxPlayers,
		PricePerPlayer: input.PricePerPlayer,
		Description:    input.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CreateMatchResponse{Message: "Partido creado exitosamente", Match: newMatchResponse(m)})
}

// Delete godoc
// @Summary      Cancel a match
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Match ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse "Match not found or not organized by the caller"
// @Router       /matches/{id} [delete]
func (h *MatchHandler) Delete(c *gin.Context) {
	ownerID, ok := userID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.matches.Delete(c.Request.Context(), id, ownerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Partido cancelado exitosamente"})
}

// Join godoc
// @Summary      Join a match
// @Description  Free players may join a limited number of matches per month.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Match ID"
// @Success      200  {object}  JoinResponse
// @Failure      400  {object}  ErrorResponse "Match full or already joined"
// @Failure      403  {object}  ErrorResponse "Blocked account or monthly quota reached"
// @Failure      404  {object}  ErrorResponse "Match not found"
// @Router       /matches/{id}/join [post]
func (h *MatchHandler) Join(c *gin.Context) {
	playerID, ok := userID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res, err := h.matches.Join(c.Request.Context(), id, playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, JoinResponse{
		Message:       "Te anotaste al partido exitosamente",
		Enrolled:      res.Enrolled,
		MaxPlayers:    res.MaxPlayers,
		FreeJoinsLeft: res.FreeJoinsLeft,
	})
}

// Leave godoc
// @Summary      Leave a match
// @Description  Leaving shortly before kickoff costs ranking points. Drafted teams are reset.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Match ID"
// @Success      200  {object}  LeaveResponse
// @Failure      400  {object}  ErrorResponse "Not enrolled or match already played"
// @Failure      404  {object}  ErrorResponse "Match not found"
// @Router       /matches/{id}/leave [delete]
func (h *MatchHandler) Leave(c *gin.Context) {
	playerID, ok := userID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res, err := h.matches.Leave(c.Request.Context(), id, playerID)
	if err != nil {
		respondError(c, err)
		return
	}

	msg := "Saliste del partido exitosamente"
	if res.Penalized {
		msg = fmt.Sprintf("Saliste del partido. Se te descontaron %d puntos por salir con menos de %d horas de anticipación.",
			res.PointsDeducted, int(h.matches.Rules().LeaveWindow.Hours()))
	}
	c.JSON(http.StatusOK, LeaveResponse{
		Message:        msg,
		Penalized:      res.Penalized,
		PointsDeducted: res.PointsDeducted,
		TeamsReset:     res.TeamsReset,
	})
}

// AssignTeams godoc
// @Summary      Draft balanced teams
// @Description  Runs a snake draft over the roster ordered by ranking.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Match ID"
// @Success      200  {object}  TeamsResponse
// @Failure      400  {object}  ErrorResponse "Too few players or match already played"
// @Failure      403  {object}  ErrorResponse "Not the organizer"
// @Failure      404  {object}  ErrorResponse "Match not found"
// @Router       /matches/{id}/assign-teams [post]
func (h *MatchHandler) AssignTeams(c *gin.Context) {
	ownerID, ok := userID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	draft, err := h.matches.AssignTeams(c.Request.Context(), id, ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := TeamsResponse{Message: "Equipos asignados exitosamente", Spread: draft.Spread}
	resp.Teams.Local = newTeamResponse(draft.Local, draft.LocalAverage)
	resp.Teams.Visitor = newTeamResponse(draft.Visitor, draft.VisitorAverage)
	c.JSON(http.StatusOK, resp)
}

// SubmitResult godoc
// @Summary      Record the final score
// @Description  Updates rankings and season points when teams were drafted.
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int          true  "Match ID"
// @Param        result  body      ResultInput  true  "Score"
// @Success      200     {object}  ResultResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse "Not the organizer"
// @Failure      404     {object}  ErrorResponse "Match not found"
// @Router       /matches/{id}/result [put]
func (h *MatchHandler) SubmitResult(c *gin.Context) {
	ownerID, ok := userID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input ResultInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Home == nil || input.Away == nil {
		respondError(c, match.ErrInvalidScore)
		return
	}

	out, err := h.matches.SubmitResult(c.Request.Context(), id, ownerID, *input.Home, *input.Away)
	if err != nil {
		respondError(c, err)
		return
	}
	msg := "Resultado guardado y rankings actualizados"
	if !out.StatsUpdated {
		msg = "Resultado guardado. No se actualizaron rankings porque no había equipos asignados"
	}
	c.JSON(http.StatusOK, ResultResponse{
		Message:      msg,
		Match:        newMatchResponse(out.Match),
		StatsUpdated: out.StatsUpdated,
		Winner:       out.Winner,
	})
}

// ConfirmPayment godoc
// @Summary      Mark a player's payment
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int           true  "Match ID"
// @Param        playerId  path      int           true  "Player ID"
// @Param        payment   body      PaymentInput  true  "Payment flag"
// @Success      200       {object}  MessageResponse
// @Failure      403       {object}  ErrorResponse "Not the organizer"
// @Failure      404       {object}  ErrorResponse "Match or roster entry not found"
// @Router       /matches/{id}/players/{playerId}/payment [put]
func (h *MatchHandler) ConfirmPayment(c *gin.Context) {
	ownerID, ok := userID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	playerID, ok := idParam(c, "playerId")
	if !ok {
		return
	}
	var input PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Confirmed == nil {
		badRequest(c, "Debe enviar pago_confirmado")
		return
	}
	if err := h.matches.ConfirmPayment(c.Request.Context(), id, ownerID, playerID, *input.Confirmed); err != nil {
		respondError(c, err)
		return
	}
	msg := "Pago marcado como pendiente"
	if *input.Confirmed {
		msg = "Pago confirmado"
	}
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// Events godoc
// @Summary      Follow a match live
// @Description  Server-sent events for joins, leaves, drafts, results and cancellation.
// @Tags         matches
// @Produce      text/event-stream
// @Param        id   path  int  true  "Match ID"
// @Success      200
// @Failure      404  {object}  ErrorResponse "Match not found"
// @Router       /matches/{id}/events [get]
func (h *MatchHandler) Events(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.matches.Detail(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	client := h.watchers.Subscribe(id)
	defer h.watchers.Unsubscribe(id, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-ticker.C:
			c.SSEvent("ping", "")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
