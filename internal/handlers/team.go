package handlers

import (
	"net/http"

	"evalease-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	teamService *services.TeamService
	assignment  *services.AssignmentService
	lookup      *services.LookupService
}

func NewTeamHandler(teamService *services.TeamService, assignment *services.AssignmentService, lookup *services.LookupService) *TeamHandler {
	return &TeamHandler{teamService: teamService, assignment: assignment, lookup: lookup}
}

type TeamRequest struct {
	Name     string `json:"name" binding:"required" example:"Team Rocket"`
	LeaderID uint   `json:"leader_id" binding:"required" example:"1"`
	Venue    string `json:"venue" example:"Hall B"`
}

type UpdateTeamRequest struct {
	Name  string `json:"name"`
	Venue string `json:"venue"`
}

type AddMemberRequest struct {
	ParticipantID uint `json:"participant_id" binding:"required" example:"2"`
}

type DistributeRequest struct {
	TeamIDs []uint `json:"team_ids" binding:"required"`
	JuryIDs []uint `json:"jury_ids" binding:"required"`
	Shuffle bool   `json:"shuffle"`
	Apply   bool   `json:"apply"`
}

type ReassignRequest struct {
	Assignments []services.TeamAssignment `json:"assignments" binding:"required"`
}

// CreateTeam godoc
// @Summary      Create a team
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body TeamRequest true "Team data"
// @Success      201 {object} Team
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	team, err := h.teamService.CreateTeam(req.Name, req.LeaderID, req.Venue)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.lookup.Invalidate()
	c.JSON(http.StatusCreated, team)
}

// ListTeams godoc
// @Summary      List teams
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Team
// @Router       /api/v1/teams [get]
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamService.ListTeams()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// GetTeam godoc
// @Summary      Get a team with its roster
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Team ID"
// @Success      200 {object} Team
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/teams/{id} [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(teamID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// UpdateTeam godoc
// @Summary      Update a team
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Team ID"
// @Param        request body UpdateTeamRequest true "Fields to update"
// @Success      200 {object} Team
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/teams/{id} [put]
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	team, err := h.teamService.UpdateTeam(teamID, req.Name, req.Venue)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.lookup.Invalidate()
	c.JSON(http.StatusOK, team)
}

// DeleteTeam godoc
// @Summary      Delete a team
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Team ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/teams/{id} [delete]
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.teamService.DeleteTeam(teamID); err != nil {
		abortWithError(c, err)
		return
	}

	h.lookup.Invalidate()
	c.JSON(http.StatusOK, MessageResponse{Message: "team deleted"})
}

// AddMember godoc
// @Summary      Add a participant to a team
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Team ID"
// @Param        request body AddMemberRequest true "Member data"
// @Success      201 {object} TeamMember
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/teams/{id}/members [post]
func (h *TeamHandler) AddMember(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	member, err := h.teamService.AddMember(teamID, req.ParticipantID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// RemoveMember godoc
// @Summary      Remove a participant from a team
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Team ID"
// @Param        participant_id path int true "Participant ID"
// @Success      200 {object} MessageResponse
// @Router       /api/v1/teams/{id}/members/{participant_id} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	participantID, ok := parseIDParam(c, "participant_id")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(teamID, participantID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "member removed"})
}

// Distribute godoc
// @Summary      Distribute teams among juries
// @Description  Round-robin distribution; shuffle randomizes the team order first, apply persists the result
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body DistributeRequest true "Distribution input"
// @Success      200 {object} map[uint]uint
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/teams/distribute [post]
func (h *TeamHandler) Distribute(c *gin.Context) {
	var req DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	teamIDs := req.TeamIDs
	if req.Shuffle {
		teamIDs = h.assignment.ShuffleTeams(teamIDs)
	}

	mapping, err := h.assignment.DistributeTeams(teamIDs, req.JuryIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if req.Apply {
		assignments := make([]services.TeamAssignment, 0, len(mapping))
		for teamID, juryID := range mapping {
			assignments = append(assignments, services.TeamAssignment{TeamID: teamID, JuryID: juryID})
		}
		if err := h.assignment.ReassignTeams(assignments); err != nil {
			abortWithError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, mapping)
}

// Reassign godoc
// @Summary      Apply a batch of team reassignments
// @Description  Each pair is validated; the batch is applied all-or-nothing
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ReassignRequest true "Reassignments"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/teams/reassign [post]
func (h *TeamHandler) Reassign(c *gin.Context) {
	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.assignment.ReassignTeams(req.Assignments); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "teams reassigned"})
}

// TeamOptions godoc
// @Summary      Team dropdown options
// @Tags         lookups
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.Option
// @Router       /api/v1/lookups/teams [get]
func (h *TeamHandler) TeamOptions(c *gin.Context) {
	options, err := h.lookup.TeamOptions()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}
