package handlers

import (
	"net/http"

	"evalease-backend/internal/services"
	"evalease-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type MarkHandler struct {
	marking     *services.MarkingService
	bulkLock    *services.BulkLockService
	teamService *services.TeamService
	hub         *ws.Hub
}

func NewMarkHandler(marking *services.MarkingService, bulkLock *services.BulkLockService, teamService *services.TeamService, hub *ws.Hub) *MarkHandler {
	return &MarkHandler{marking: marking, bulkLock: bulkLock, teamService: teamService, hub: hub}
}

type SubmitMarkRequest struct {
	TeamID    uint            `json:"team_id" binding:"required" example:"7"`
	SessionID uint            `json:"session_id" binding:"required" example:"1"`
	Scores    services.Scores `json:"scores"`
}

type UpdateMarkRequest struct {
	Scores services.Scores `json:"scores"`
}

type SubmitAllRequest struct {
	SessionID uint   `json:"session_id" binding:"required" example:"1"`
	TeamIDs   []uint `json:"team_ids" binding:"required"`
}

// SubmitMark godoc
// @Summary      Submit a mark for a team
// @Description  Creates the mark for the (team, jury, session) triple and frees the team for reassignment. Re-submission of an existing triple is rejected.
// @Tags         marks
// @Accept       json
// @Produce      json
// @Param        request body SubmitMarkRequest true "Mark data"
// @Success      201 {object} Mark
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/marks [post]
func (h *MarkHandler) SubmitMark(c *gin.Context) {
	juryID := c.GetUint("jury_id")

	var req SubmitMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	mark, err := h.marking.SubmitMark(req.TeamID, juryID, req.SessionID, req.Scores)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.hub.Broadcast(req.SessionID, ws.Event{Type: eventMarkSubmitted, Data: mark})
	c.JSON(http.StatusCreated, mark)
}

// UpdateMark godoc
// @Summary      Update an unlocked mark
// @Tags         marks
// @Accept       json
// @Produce      json
// @Param        id path int true "Mark ID"
// @Param        request body UpdateMarkRequest true "New scores"
// @Success      200 {object} Mark
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/marks/{id} [put]
func (h *MarkHandler) UpdateMark(c *gin.Context) {
	markID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	mark, err := h.marking.UpdateMark(markID, req.Scores)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.hub.Broadcast(mark.SessionID, ws.Event{Type: eventMarkUpdated, Data: mark})
	c.JSON(http.StatusOK, mark)
}

// LockMark godoc
// @Summary      Lock a mark
// @Description  Forward-only; locking a locked mark is a no-op
// @Tags         marks
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Mark ID"
// @Success      200 {object} Mark
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/marks/{id}/lock [post]
func (h *MarkHandler) LockMark(c *gin.Context) {
	markID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	mark, err := h.marking.LockMark(markID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.hub.Broadcast(mark.SessionID, ws.Event{Type: eventMarkLocked, Data: mark})
	c.JSON(http.StatusOK, mark)
}

// GetMark godoc
// @Summary      Look up a mark by triple
// @Description  404 means the team has not been marked by this jury in this session
// @Tags         marks
// @Produce      json
// @Param        team_id query int true "Team ID"
// @Param        jury_id query int true "Jury ID"
// @Param        session_id query int true "Session ID"
// @Success      200 {object} Mark
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/marks [get]
func (h *MarkHandler) GetMark(c *gin.Context) {
	teamID, ok := parseQueryID(c, "team_id")
	if !ok {
		return
	}
	juryID, ok := parseQueryID(c, "jury_id")
	if !ok {
		return
	}
	sessionID, ok := parseQueryID(c, "session_id")
	if !ok {
		return
	}

	mark, err := h.marking.GetMark(teamID, juryID, sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if mark == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "mark not found"})
		return
	}
	c.JSON(http.StatusOK, mark)
}

// GetMarkByID godoc
// @Summary      Get a mark by id
// @Tags         marks
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Mark ID"
// @Success      200 {object} Mark
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/marks/{id} [get]
func (h *MarkHandler) GetMarkByID(c *gin.Context) {
	markID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	mark, err := h.marking.MarkByID(markID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, mark)
}

// ListSessionMarks godoc
// @Summary      List all marks of a session
// @Tags         marks
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {array} Mark
// @Router       /api/v1/sessions/{id}/marks [get]
func (h *MarkHandler) ListSessionMarks(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	marks, err := h.marking.SessionMarks(sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, marks)
}

// LockSessionMarks godoc
// @Summary      Lock every mark in a session
// @Description  Admin bulk lock; per-mark failures are reported in the summary, not fatal
// @Tags         marks
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} services.BulkLockSummary
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/marks/lock [post]
func (h *MarkHandler) LockSessionMarks(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.bulkLock.LockSessionMarks(sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.hub.Broadcast(sessionID, ws.Event{Type: eventMarkLocked, Data: summary})
	c.JSON(http.StatusOK, summary)
}

// SubmitAllMarks godoc
// @Summary      Submit and lock all of a jury's marks for a session
// @Description  Irreversible: teams without a mark get a zero-score locked mark; unlocked marks are locked with their scores preserved
// @Tags         marks
// @Accept       json
// @Produce      json
// @Param        request body SubmitAllRequest true "Session and team scope"
// @Success      200 {object} services.BulkLockSummary
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/marks/submit-all [post]
func (h *MarkHandler) SubmitAllMarks(c *gin.Context) {
	juryID := c.GetUint("jury_id")

	var req SubmitAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	summary, err := h.bulkLock.LockJuryMarks(juryID, req.SessionID, req.TeamIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.hub.Broadcast(req.SessionID, ws.Event{Type: eventMarkLocked, Data: summary})
	c.JSON(http.StatusOK, summary)
}

// MyTeams godoc
// @Summary      Teams assigned to the authenticated jury
// @Tags         marks
// @Produce      json
// @Success      200 {array} Team
// @Router       /api/v1/marks/my-teams [get]
func (h *MarkHandler) MyTeams(c *gin.Context) {
	juryID := c.GetUint("jury_id")

	teams, err := h.teamService.TeamsForJury(juryID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}
