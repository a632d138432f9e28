package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"evalease-backend/internal/models"
	"evalease-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Type aliases so swag can resolve models in annotations.
type (
	Jury        = models.Jury
	Team        = models.Team
	TeamMember  = models.TeamMember
	Participant = models.Participant
	Mark        = models.Mark
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Event types broadcast over the session websocket.
const (
	eventSessionStarted = "session.started"
	eventSessionEnded   = "session.ended"
	eventMarkSubmitted  = "mark.submitted"
	eventMarkUpdated    = "mark.updated"
	eventMarkLocked     = "mark.locked"
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrRelation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrDuplicateMark),
		errors.Is(err, services.ErrLocked),
		errors.Is(err, services.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func parseQueryID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
