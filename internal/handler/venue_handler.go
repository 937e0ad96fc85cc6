package handler

import (
	"errors"
	"net/http"
	"strings"

	"fulvo/backend/internal/apperr"
	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// VenueInput defines the fields of a venue. On update every field is
// optional and only the ones sent change.
type VenueInput struct {
	Name        *string `json:"nombre" example:"Cancha Palermo"`
	Address     *string `json:"direccion" example:"Av. Siempreviva 742"`
	Zone        *string `json:"zona" example:"Palermo"`
	Phone       *string `json:"telefono" example:"11-5555-5555"`
	HourlyPrice *int    `json:"precio_hora" example:"40000"`
	Description *string `json:"descripcion"`
	Amenities   *string `json:"servicios" example:"vestuarios, parrilla"`
	Active      *bool   `json:"activa"`
}

// VenueResponse is a venue as shown to clients.
type VenueResponse struct {
	ID          uint    `json:"id" example:"1"`
	OwnerID     uint    `json:"dueno_id" example:"2"`
	OwnerName   string  `json:"dueno_nombre,omitempty" example:"Carlos"`
	Name        string  `json:"nombre" example:"Cancha Palermo"`
	Address     string  `json:"direccion" example:"Av. Siempreviva 742"`
	Zone        string  `json:"zona" example:"Palermo"`
	Phone       *string `json:"telefono"`
	HourlyPrice *int    `json:"precio_hora"`
	Description *string `json:"descripcion"`
	Amenities   *string `json:"servicios"`
	Active      bool    `json:"activa"`
}

// VenueMutationResponse is returned after creating or updating a venue.
type VenueMutationResponse struct {
	Message string        `json:"message"`
	Venue   VenueResponse `json:"cancha"`
}

func newVenueResponse(v *models.Venue) VenueResponse {
	return VenueResponse{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		OwnerName:   v.Owner.Name,
		Name:        v.Name,
		Address:     v.Address,
		Zone:        v.Zone,
		Phone:       v.Phone,
		HourlyPrice: v.HourlyPrice,
		Description: v.Description,
		Amenities:   v.Amenities,
		Active:      v.Active,
	}
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// endregion

var (
	errVenueNotFound = apperr.NotFound("Cancha no encontrada")
	errVenueNotOwned = apperr.NotFound("Cancha no encontrada o no tenés permiso")
)

// VenueHandler serves venue listings and owner CRUD.
type VenueHandler struct {
	store *repository.Store
}

func NewVenueHandler(store *repository.Store) *VenueHandler {
	return &VenueHandler{store: store}
}

// List godoc
// @Summary      List active venues
// @Tags         venues
// @Produce      json
// @Param        zona  query     string  false  "Zone (substring)"
// @Success      200   {array}   VenueResponse
// @Router       /venues [get]
func (h *VenueHandler) List(c *gin.Context) {
	venues, err := h.store.Venues.ListActive(c.Request.Context(), c.Query("zona"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]VenueResponse, 0, len(venues))
	for i := range venues {
		out = append(out, newVenueResponse(&venues[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Mine godoc
// @Summary      List the caller's venues
// @Tags         venues
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   VenueResponse
// @Failure      403  {object}  ErrorResponse "Owner access required"
// @Router       /venues/my [get]
func (h *VenueHandler) Mine(c *gin.Context) {
	ownerID, ok := userID(c)
	if !ok {
		return
	}
	venues, err := h.store.Venues.ByOwner(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]VenueResponse, 0, len(venues))
	for i := range venues {
		out = append(out, newVenueResponse(&venues[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Zones godoc
// @Summary      List venue zones
// @Tags         venues
// @Produce      json
// @Success      200  {array}  string
// @Router       /venues/zones [get]
func (h *VenueHandler) Zones(c *gin.Context) {
	zones, err := h.store.Venues.Zones(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if zones == nil {
		zones = []string{}
	}
	c.JSON(http.StatusOK, zones)
}

// Get godoc
// @Summary      Get a venue
// @Tags         venues
// @Produce      json
// @Param        id   path      int  true  "Venue ID"
// @Success      200  {object}  VenueResponse
// @Failure      404  {object}  ErrorResponse "Venue not found"
// @Router       /venues/{id} [get]
func (h *VenueHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	v, err := h.store.Venues.ByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, errVenueNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newVenueResponse(v))
}

// Create godoc
// @Summary      Create a venue
// @Tags         venues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        venue  body      VenueInput  true  "Venue data"
// @Success      201    {object}  VenueMutationResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      403    {object}  ErrorResponse "Owner access required"
// @Router       /venues [post]
func (h *VenueHandler) Create(c *gin.Context) {
	ownerID, ok := userID(c)
	if !ok {
		return
	}
	var input VenueInput
	if err := c.ShouldBindJSON(&input); err != nil || trimmed(input.Name) == "" || trimmed(input.Address) == "" || trimmed(input.Zone) == "" {
		badRequest(c, "Nombre, dirección y zona son requeridos")
		return
	}

	v := &models.Venue{
		OwnerID:     ownerID,
		Name:        trimmed(input.Name),
		Address:     trimmed(input.Address),
		Zone:        trimmed(input.Zone),
		Phone:       input.Phone,
		HourlyPrice: input.HourlyPrice,
		Description: input.Description,
		Amenities:   input.Amenities,
		Active:      true,
	}
	if err := h.store.Venues.Create(c.Request.Context(), v); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, VenueMutationResponse{Message: "Cancha creada exitosamente", Venue: newVenueResponse(v)})
}

// Update godoc
// @Summary      Update a venue
// @Description  Only the fields present in the body change.
// @Tags         venues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int         true  "Venue ID"
// @Param        venue  body      VenueInput  true  "Fields to change"
// @Success      200    {object}  VenueMutationResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse "Venue not found or not owned"
// @Router       /venues/{id} [put]
func (h *VenueHandler) Update(c *gin.Context) {
	ownerID, ok := userID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input VenueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}

	ctx := c.Request.Context()
	v, err := h.store.Venues.OwnedBy(ctx, id, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, errVenueNotOwned)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if s := trimmed(input.Name); s != "" {
		v.Name = s
	}
	if s := trimmed(input.Address); s != "" {
		v.Address = s
	}
	if s := trimmed(input.Zone); s != "" {
		v.Zone = s
	}
	if input.Phone != nil {
		v.Phone = input.Phone
	}
	if input.HourlyPrice != nil {
		v.HourlyPrice = input.HourlyPrice
	}
	if input.Description != nil {
		v.Description = input.Description
	}
	if input.Amenities != nil {
		v.Amenities = input.Amenities
	}
	if input.Active != nil {
		v.Active = *input.Active
	}

	if err := h.store.Venues.Save(ctx, v); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, VenueMutationResponse{Message: "Cancha actualizada", Venue: newVenueResponse(v)})
}

// Delete godoc
// @Summary      Delete a venue
// @Tags         venues
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Venue ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse "Venue not found or not owned"
// @Router       /venues/{id} [delete]
func (h *VenueHandler) Delete(c *gin.Context) {
	ownerID, ok := userID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	err := h.store.Venues.Delete(c.Request.Context(), id, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, errVenueNotOwned)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Cancha eliminada exitosamente"})
}
