package handler

import (
	"net/http"

	"fulvo/backend/internal/owners"

	"github.com/gin-gonic/gin"
)

// TopMatchResponse is the owner's best-earning match.
type TopMatchResponse struct {
	ID          uint   `json:"id"`
	Date        string `json:"fecha"`
	VenueName   string `json:"cancha_nombre"`
	Revenue     int    `json:"recaudacion"`
	PaidPlayers int    `json:"jugadores_pagaron"`
}

// OwnerStatsResponse is the owner dashboard.
type OwnerStatsResponse struct {
	TotalRevenue  int               `json:"total_recaudado"`
	MonthRevenue  int               `json:"recaudado_mes"`
	TotalMatches  int               `json:"partidos_total"`
	MonthMatches  int               `json:"partidos_mes"`
	UniquePlayers int               `json:"jugadores_unicos"`
	PaidPlayers   int               `json:"jugadores_pagaron"`
	AverageRoster float64           `json:"promedio_jugadores"`
	TopMatch      *TopMatchResponse `json:"partido_top"`
}

// MonthRevenueResponse is one month of confirmed revenue.
type MonthRevenueResponse struct {
	Month   string `json:"mes" example:"Oct"`
	Revenue int    `json:"ingresos"`
}

// OwnerHandler serves the owner dashboard.
type OwnerHandler struct {
	owners *owners.Service
}

func NewOwnerHandler(svc *owners.Service) *OwnerHandler {
	return &OwnerHandler{owners: svc}
}

// Stats godoc
// @Summary      Get my revenue dashboard
// @Tags         owners
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  OwnerStatsResponse
// @Failure      403  {object}  ErrorResponse "Owner access required"
// @Router       /owners/stats [get]
func (h *OwnerHandler) Stats(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	st, err := h.owners.Stats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := OwnerStatsResponse{
		TotalRevenue:  st.TotalRevenue,
		MonthRevenue:  st.MonthRevenue,
		TotalMatches:  st.TotalMatches,
		MonthMatches:  st.MonthMatches,
		UniquePlayers: st.UniquePlayers,
		PaidPlayers:   st.PaidPlayers,
		AverageRoster: st.AverageRoster,
	}
	if t := st.TopMatch; t != nil {
		resp.TopMatch = &TopMatchResponse{ID: t.MatchID, Date: t.Date, VenueName: t.VenueName, Revenue: t.Revenue, PaidPlayers: t.PaidPlayers}
	}
	c.JSON(http.StatusOK, resp)
}

// Monthly godoc
// @Summary      Get my revenue for the last six months
// @Tags         owners
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   MonthRevenueResponse
// @Failure      403  {object}  ErrorResponse "Owner access required"
// @Router       /owners/stats/monthly [get]
func (h *OwnerHandler) Monthly(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	points, err := h.owners.Monthly(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]MonthRevenueResponse, 0, len(points))
	for _, p := range points {
		out = append(out, MonthRevenueResponse{Month: p.Label, Revenue: p.Revenue})
	}
	c.JSON(http.StatusOK, out)
}
