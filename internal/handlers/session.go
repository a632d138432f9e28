package handlers

import (
	"net/http"

	"evalease-backend/internal/services"
	"evalease-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	lifecycle  *services.LifecycleService
	assignment *services.AssignmentService
	hub        *ws.Hub
}

func NewSessionHandler(lifecycle *services.LifecycleService, assignment *services.AssignmentService, hub *ws.Hub) *SessionHandler {
	return &SessionHandler{lifecycle: lifecycle, assignment: assignment, hub: hub}
}

type CreateSessionRequest struct {
	Name  string `json:"name" binding:"required" example:"Final Round"`
	Draft bool   `json:"draft" example:"true"`
}

// CreateSession godoc
// @Summary      Create an evaluation session
// @Description  Create a session, either as an editable draft or published immediately
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateSessionRequest true "Session data"
// @Success      201 {object} services.SessionView
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.lifecycle.CreateSession(req.Name, req.Draft)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, services.NewSessionView(session))
}

// ListSessions godoc
// @Summary      List sessions
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.SessionView
// @Router       /api/v1/sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.lifecycle.ListSessions()
	if err != nil {
		abortWithError(c, err)
		return
	}

	views := make([]services.SessionView, len(sessions))
	for i := range sessions {
		views[i] = services.NewSessionView(&sessions[i])
	}
	c.JSON(http.StatusOK, views)
}

// GetSession godoc
// @Summary      Get a session
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} services.SessionView
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.lifecycle.GetSession(sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.NewSessionView(session))
}

// StartSession godoc
// @Summary      Start a session
// @Description  Move a pending session to active
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} services.SessionView
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/start [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.lifecycle.Start(sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	view := services.NewSessionView(session)
	h.hub.Broadcast(sessionID, ws.Event{Type: eventSessionStarted, Data: view})
	c.JSON(http.StatusOK, view)
}

type EndSessionResponse struct {
	Session services.SessionView     `json:"session"`
	Locks   services.BulkLockSummary `json:"locks"`
}

// EndSession godoc
// @Summary      End a session
// @Description  Lock all marks, set the end timestamp and free the assigned juries. Lock failures are reported, not fatal.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} EndSessionResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/end [post]
func (h *SessionHandler) EndSession(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, summary, err := h.lifecycle.End(sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := EndSessionResponse{Session: services.NewSessionView(session), Locks: *summary}
	h.hub.Broadcast(sessionID, ws.Event{Type: eventSessionEnded, Data: resp})
	c.JSON(http.StatusOK, resp)
}

// SaveDraft godoc
// @Summary      Autosave a draft session
// @Description  Upsert the draft configuration; the latest snapshot wins
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft session ID"
// @Param        request body services.DraftConfig true "Draft configuration"
// @Success      200 {object} services.SessionView
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/draft [put]
func (h *SessionHandler) SaveDraft(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var cfg services.DraftConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.lifecycle.SaveDraft(sessionID, cfg)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.NewSessionView(session))
}

// PublishSession godoc
// @Summary      Publish a draft session
// @Description  Flip the draft flag and apply the saved jury and team assignments atomically
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft session ID"
// @Success      200 {object} services.SessionView
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/publish [post]
func (h *SessionHandler) PublishSession(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.lifecycle.Publish(sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.NewSessionView(session))
}

// DeleteSession godoc
// @Summary      Delete a session
// @Description  Remove the session together with its marks and memberships
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.lifecycle.DeleteSession(sessionID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "session deleted"})
}

// ListSessionJuries godoc
// @Summary      List juries assigned to a session
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {array} Jury
// @Router       /api/v1/sessions/{id}/juries [get]
func (h *SessionHandler) ListSessionJuries(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	juries, err := h.assignment.SessionJuries(sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, juries)
}
