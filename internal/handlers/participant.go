package handlers

import (
	"net/http"

	"evalease-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ParticipantHandler struct {
	participantService *services.ParticipantService
}

func NewParticipantHandler(participantService *services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

type ParticipantRequest struct {
	Name        string `json:"name" binding:"required" example:"Ada Lovelace"`
	Email       string `json:"email" binding:"required,email" example:"ada@example.edu"`
	Institution string `json:"institution" example:"Analytical Engine Institute"`
	Phone       string `json:"phone" example:"+1-555-0102"`
}

type UpdateParticipantRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Institution string `json:"institution"`
	Phone       string `json:"phone"`
}

// CreateParticipant godoc
// @Summary      Register a participant
// @Tags         participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ParticipantRequest true "Participant data"
// @Success      201 {object} Participant
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/participants [post]
func (h *ParticipantHandler) CreateParticipant(c *gin.Context) {
	var req ParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	participant, err := h.participantService.CreateParticipant(req.Name, req.Email, req.Institution, req.Phone)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, participant)
}

// ListParticipants godoc
// @Summary      List participants
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Participant
// @Router       /api/v1/participants [get]
func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	participants, err := h.participantService.ListParticipants()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// GetParticipant godoc
// @Summary      Get a participant
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Participant ID"
// @Success      200 {object} Participant
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/participants/{id} [get]
func (h *ParticipantHandler) GetParticipant(c *gin.Context) {
	participantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	participant, err := h.participantService.GetParticipant(participantID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, participant)
}

// UpdateParticipant godoc
// @Summary      Update a participant
// @Tags         participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Participant ID"
// @Param        request body UpdateParticipantRequest true "Fields to update"
// @Success      200 {object} Participant
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/participants/{id} [put]
func (h *ParticipantHandler) UpdateParticipant(c *gin.Context) {
	participantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	participant, err := h.participantService.UpdateParticipant(participantID, req.Name, req.Email, req.Institution, req.Phone)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, participant)
}

// DeleteParticipant godoc
// @Summary      Delete a participant
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Participant ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/participants/{id} [delete]
func (h *ParticipantHandler) DeleteParticipant(c *gin.Context) {
	participantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.participantService.DeleteParticipant(participantID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "participant deleted"})
}
