package handlers

import (
	"net/http"

	"evalease-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type JuryHandler struct {
	juryService *services.JuryService
	assignment  *services.AssignmentService
	lookup      *services.LookupService
}

func NewJuryHandler(juryService *services.JuryService, assignment *services.AssignmentService, lookup *services.LookupService) *JuryHandler {
	return &JuryHandler{juryService: juryService, assignment: assignment, lookup: lookup}
}

type JuryRequest struct {
	Name  string `json:"name" binding:"required" example:"Dr. Rao"`
	Email string `json:"email" binding:"required,email" example:"rao@example.edu"`
	Phone string `json:"phone" example:"+1-555-0101"`
}

type UpdateJuryRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateJury godoc
// @Summary      Create a jury member
// @Tags         juries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body JuryRequest true "Jury data"
// @Success      201 {object} Jury
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/juries [post]
func (h *JuryHandler) CreateJury(c *gin.Context) {
	var req JuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	jury, err := h.juryService.CreateJury(req.Name, req.Email, req.Phone)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.lookup.Invalidate()
	c.JSON(http.StatusCreated, jury)
}

// ListJuries godoc
// @Summary      List jury members
// @Description  All juries, or only free ones with ?free=true
// @Tags         juries
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Jury
// @Router       /api/v1/juries [get]
func (h *JuryHandler) ListJuries(c *gin.Context) {
	var (
		juries interface{}
		err    error
	)
	if c.Query("free") == "true" {
		juries, err = h.juryService.FreeJuries()
	} else {
		juries, err = h.juryService.ListJuries()
	}
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, juries)
}

// GetJury godoc
// @Summary      Get a jury member
// @Tags         juries
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Jury ID"
// @Success      200 {object} Jury
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/juries/{id} [get]
func (h *JuryHandler) GetJury(c *gin.Context) {
	juryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	jury, err := h.juryService.GetJury(juryID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, jury)
}

// UpdateJury godoc
// @Summary      Update a jury member
// @Tags         juries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Jury ID"
// @Param        request body UpdateJuryRequest true "Fields to update"
// @Success      200 {object} Jury
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/juries/{id} [put]
func (h *JuryHandler) UpdateJury(c *gin.Context) {
	juryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateJuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	jury, err := h.juryService.UpdateJury(juryID, req.Name, req.Email, req.Phone)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.lookup.Invalidate()
	c.JSON(http.StatusOK, jury)
}

// DeleteJury godoc
// @Summary      Delete a jury member
// @Tags         juries
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Jury ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/juries/{id} [delete]
func (h *JuryHandler) DeleteJury(c *gin.Context) {
	juryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.juryService.DeleteJury(juryID); err != nil {
		abortWithError(c, err)
		return
	}

	h.lookup.Invalidate()
	c.JSON(http.StatusOK, MessageResponse{Message: "jury deleted"})
}

// AssignToSession godoc
// @Summary      Assign a jury member to a session
// @Description  Idempotent membership add
// @Tags         juries
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Jury ID"
// @Param        session_id path int true "Session ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/juries/{id}/sessions/{session_id} [post]
func (h *JuryHandler) AssignToSession(c *gin.Context) {
	juryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(c, "session_id")
	if !ok {
		return
	}

	if err := h.assignment.AssignJuryToSession(juryID, sessionID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "jury assigned"})
}

// RemoveFromSession godoc
// @Summary      Remove a jury member from a session
// @Description  Idempotent membership removal; existing marks are untouched
// @Tags         juries
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Jury ID"
// @Param        session_id path int true "Session ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/juries/{id}/sessions/{session_id} [delete]
func (h *JuryHandler) RemoveFromSession(c *gin.Context) {
	juryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(c, "session_id")
	if !ok {
		return
	}

	if err := h.assignment.RemoveJuryFromSession(juryID, sessionID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "jury removed"})
}

// JuryOptions godoc
// @Summary      Jury dropdown options
// @Tags         lookups
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.Option
// @Router       /api/v1/lookups/juries [get]
func (h *JuryHandler) JuryOptions(c *gin.Context) {
	options, err := h.lookup.JuryOptions()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}
