package handler

import (
	"fmt"
	"net/http"
	"time"

	"fulvo/backend/internal/friends"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// FriendResponse is an accepted friend.
type FriendResponse struct {
	FriendshipID  uint      `json:"amistad_id"`
	ID            uint      `json:"id"`
	Name          string    `json:"nombre"`
	Position      *string   `json:"posicion"`
	Ranking       int       `json:"ranking"`
	MatchesPlayed int       `json:"partidos_jugados"`
	MatchesWon    int       `json:"partidos_ganados"`
	FriendsSince  time.Time `json:"amigos_desde"`
}

// FriendRequestResponse is a pending request, received or sent.
type FriendRequestResponse struct {
	FriendshipID uint      `json:"amistad_id"`
	ID           uint      `json:"id"`
	Name         string    `json:"nombre"`
	Position     *string   `json:"posicion"`
	Ranking      int       `json:"ranking"`
	SentAt       time.Time `json:"enviada_el"`
}

// PlayerSearchResponse is a search hit with its relation to the caller.
type PlayerSearchResponse struct {
	ID       uint             `json:"id"`
	Name     string           `json:"nombre"`
	Position *string          `json:"posicion"`
	Ranking  int              `json:"ranking"`
	Relation friends.Relation `json:"relacion" example:"ninguna"`
}

// RelationResponse is the relation between the caller and another user.
type RelationResponse struct {
	Relation     friends.Relation `json:"relacion" example:"amigo"`
	FriendshipID *uint            `json:"amistad_id"`
}

// FriendRequestCreatedResponse is returned after sending a request.
type FriendRequestCreatedResponse struct {
	Message      string `json:"message"`
	FriendshipID uint   `json:"amistad_id"`
}

func newRequestResponses(rows []friends.Friend) []FriendRequestResponse {
	out := make([]FriendRequestResponse, 0, len(rows))
	for _, f := range rows {
		out = append(out, FriendRequestResponse{
			FriendshipID: f.Friendship.ID,
			ID:           f.User.ID,
			Name:         f.User.Name,
			Position:     f.User.Position,
			Ranking:      f.User.Ranking,
			SentAt:       f.Friendship.CreatedAt,
		})
	}
	return out
}

// endregion

// FriendHandler serves the friend graph.
type FriendHandler struct {
	friends *friends.Service
}

func NewFriendHandler(svc *friends.Service) *FriendHandler {
	return &FriendHandler{friends: svc}
}

// List godoc
// @Summary      List my friends
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   FriendResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /friends [get]
func (h *FriendHandler) List(c *gin.Context) {
	me, ok := userID(c)
	if !ok {
		return
	}
	rows, err := h.friends.Friends(c.Request.Context(), me)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]FriendResponse, 0, len(rows))
	for _, f := range rows {
		out = append(out, FriendResponse{
			FriendshipID:  f.Friendship.ID,
			ID:            f.User.ID,
			Name:          f.User.Name,
			Position:      f.User.Position,
			Ranking:       f.User.Ranking,
			MatchesPlayed: f.User.MatchesPlayed,
			MatchesWon:    f.User.MatchesWon,
			FriendsSince:  f.Friendship.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Pending godoc
// @Summary      List requests I received
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  FriendRequestResponse
// @Router       /friends/pending [get]
func (h *FriendHandler) Pending(c *gin.Context) {
	me, ok := userID(c)
	if !ok {
		return
	}
	rows, err := h.friends.Pending(c.Request.Context(), me)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRequestResponses(rows))
}

// Sent godoc
// @Summary      List requests I sent
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  FriendRequestResponse
// @Router       /friends/sent [get]
func (h *FriendHandler) Sent(c *gin.Context) {
	me, ok := userID(c)
	if !ok {
		return
	}
	rows, err := h.friends.Sent(c.Request.Context(), me)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRequestResponses(rows))
}

// Search godoc
// @Summary      Search players
// @Description  Queries shorter than two characters return an empty list.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Name fragment"
// @Success      200  {array}   PlayerSearchResponse
// @Router       /friends/search [get]
func (h *FriendHandler) Search(c *gin.Context) {
	me, ok := userID(c)
	if !ok {
		return
	}
	results, err := h.friends.Search(c.Request.Context(), me, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]PlayerSearchResponse, 0, len(results))
	for _, r := range results {
		out = append(out, PlayerSearchResponse{
			ID:       r.User.ID,
			Name:     r.User.Name,
			Position: r.User.Position,
			Ranking:  r.User.Ranking,
			Relation: r.Relation,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Status godoc
// @Summary      Get my relation with a user
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID"
// @Success      200     {object}  RelationResponse
// @Router       /friends/status/{userId} [get]
func (h *FriendHandler) Status(c *gin.Context) {
	me, ok := userID(c)
	if !ok {
		return
	}
	other, ok := idParam(c, "userId")
	if !ok {
		return
	}
	rel, friendshipID, err := h.friends.Status(c.Request.Context(), me, other)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RelationResponse{Relation: rel, FriendshipID: friendshipID})
}

// Request godoc
// @Summary      Send a friend request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "Addressee ID"
// @Success      201     {object}  FriendRequestCreatedResponse
// @Failure      400     {object}  ErrorResponse "Self request, already friends or pending"
// @Failure      404     {object}  ErrorResponse "User not found"
// @Router       /friends/request/{userId} [post]
func (h *FriendHandler) Request(c *gin.Context) {
	me, ok := userID(c)
	if !ok {
		return
	}
	other, ok := idParam(c, "userId")
	if !ok {
		return
	}
	f, target, err := h.friends.Request(c.Request.Context(), me, other)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, FriendRequestCreatedResponse{
		Message:      fmt.Sprintf("Solicitud de amistad enviada a %s", target.Name),
		FriendshipID: f.ID,
	})
}

// Accept godoc
// @Summary      Accept a friend request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Friendship ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse "Request not found or already processed"
// @Router       /friends/accept/{id} [put]
func (h *FriendHandler) Accept(c *gin.Context) {
	me, ok := userID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	requester, err := h.friends.Accept(c.Request.Context(), me, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Ahora sos amigo de %s", requester.Name)})
}

// Remove godoc
// @Summary      Reject a request or remove a friend
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Friendship ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse "Friendship not found"
// @Router       /friends/{id} [delete]
func (h *FriendHandler) Remove(c *gin.Context) {
	me, ok := userID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	wasPending, err := h.friends.Remove(c.Request.Context(), me, id)
	if err != nil {
		respondError(c, err)
		return
	}
	msg := "Amigo eliminado"
	if wasPending {
		msg = "Solicitud rechazada"
	}
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}
