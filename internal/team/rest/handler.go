package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vikrambadhan/HGNRest/internal/response"
	"github.com/vikrambadhan/HGNRest/internal/team/service"
	"github.com/vikrambadhan/HGNRest/internal/types/domain"
	"github.com/vikrambadhan/HGNRest/internal/types/dto"
)

type Team interface {
	ListTeams(ctx context.Context) ([]dto.GetTeam, error)
	GetTeam(ctx context.Context, teamID uuid.UUID) (dto.GetTeam, error)
	CreateTeam(ctx context.Context, requestor domain.Requestor, teamName string, isActive bool) (dto.GetTeam, error)
	UpdateTeam(ctx context.Context, requestor domain.Requestor, teamID uuid.UUID, teamName string, isActive bool, teamCode string) (string, error)
	DeleteTeam(ctx context.Context, requestor domain.Requestor, teamID uuid.UUID) error
	AssignOrUnassignMember(ctx context.Context, requestor domain.Requestor, teamID, userID uuid.UUID, operation string) (*dto.Membership, error)
	GetTeamMembership(ctx context.Context, teamID uuid.UUID) ([]dto.MemberProfile, error)
	UpdateTeamVisibility(ctx context.Context, teamID, userID uuid.UUID, visibility bool) error
}

type Validator interface {
	Validate(i interface{}) error
}

type TeamHandler struct {
	team      Team
	validator Validator
}

func NewTeamHandler(team Team, validator Validator) *TeamHandler {
	return &TeamHandler{team: team, validator: validator}
}

func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.team.ListTeams(c.Request.Context())
	if err != nil {
		log.Logger.Error().Err(err).Msg("failed to list teams")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		response.BadRequest(c, "invalid 'teamId' path parameter")
		return
	}

	team, err := h.team.GetTeam(c.Request.Context(), teamID)
	if err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			response.NotFound(c)
			return
		}
		log.Logger.Error().Err(err).Str("team_id", teamID.String()).Msg("failed to get team")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req dto.CreateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to bind create team json")
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		log.Logger.Warn().Err(err).Msg("validation error")
		response.BadRequest(c, fmt.Sprintf("validation error: %s", err.Error()))
		return
	}

	team, err := h.team.CreateTeam(c.Request.Context(), toRequestor(req.Requestor), req.TeamName, req.IsActive)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			response.Forbidden(c, "you are not authorized to create teams")
			return
		}
		if errors.Is(err, domain.ErrTeamExists) {
			response.Conflict(c, "TEAM_EXISTS", fmt.Sprintf("team name %q already exists", req.TeamName))
			return
		}
		log.Logger.Error().Err(err).Str("team_name", req.TeamName).Msg("failed to create team")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"team": team})
}

func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		response.BadRequest(c, "invalid 'teamId' path parameter")
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to bind update team json")
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		log.Logger.Warn().Err(err).Msg("validation error")
		response.BadRequest(c, fmt.Sprintf("validation error: %s", err.Error()))
		return
	}

	updatedID, err := h.team.UpdateTeam(c.Request.Context(), toRequestor(req.Requestor), teamID, req.TeamName, req.IsActive, req.TeamCode)
	if err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			response.NotFound(c)
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			response.Forbidden(c, "you are not authorized to make changes in the teams")
			return
		}
		if errors.Is(err, domain.ErrTeamExists) {
			response.Conflict(c, "TEAM_EXISTS", fmt.Sprintf("team name %q already exists", req.TeamName))
			return
		}
		log.Logger.Error().Err(err).Str("team_id", teamID.String()).Any("req", req).Msg("failed to update team")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teamId": updatedID})
}

func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		response.BadRequest(c, "invalid 'teamId' path parameter")
		return
	}

	var req dto.DeleteTeamRequest
	if err := c.BindJSON(&req); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to bind delete team json")
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		log.Logger.Warn().Err(err).Msg("validation error")
		response.BadRequest(c, fmt.Sprintf("validation error: %s", err.Error()))
		return
	}

	if err := h.team.DeleteTeam(c.Request.Context(), toRequestor(req.Requestor), teamID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			response.Forbidden(c, "you are not authorized to delete teams")
			return
		}
		if errors.Is(err, domain.ErrTeamNotFound) {
			response.NotFound(c)
			return
		}
		log.Logger.Error().Err(err).Str("team_id", teamID.String()).Msg("failed to delete team")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "team successfully deleted and user profiles updated"})
}

func (h *TeamHandler) AssignOrUnassignMember(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		response.BadRequest(c, "invalid 'teamId' path parameter")
		return
	}

	var req dto.MemberOperationRequest
	if err := c.BindJSON(&req); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to bind member operation json")
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		log.Logger.Warn().Err(err).Msg("validation error")
		response.BadRequest(c, fmt.Sprintf("validation error: %s", err.Error()))
		return
	}

	userID := uuid.MustParse(req.UserID)

	member, err := h.team.AssignOrUnassignMember(c.Request.Context(), toRequestor(req.Requestor), teamID, userID, req.Operation)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			response.Forbidden(c, "you are not authorized to perform this operation")
			return
		}
		if errors.Is(err, domain.ErrTeamNotFound) || errors.Is(err, domain.ErrUserProfileNotFound) {
			response.NotFound(c)
			return
		}
		log.Logger.Error().Err(err).
			Str("team_id", teamID.String()).
			Str("user_id", req.UserID).
			Str("operation", req.Operation).
			Msg("failed to apply member operation")
		response.InternalServerError(c)
		return
	}

	if req.Operation == service.OperationAssign {
		c.JSON(http.StatusOK, gin.H{"newMember": member})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "Delete Success"})
}

func (h *TeamHandler) GetTeamMembership(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		response.BadRequest(c, "invalid 'teamId' path parameter")
		return
	}

	members, err := h.team.GetTeamMembership(c.Request.Context(), teamID)
	if err != nil {
		log.Logger.Error().Err(err).Str("team_id", teamID.String()).Msg("failed to get team membership")
		response.InternalServerError(c)
		return
	}

	if members == nil {
		members = []dto.MemberProfile{}
	}
	c.JSON(http.StatusOK, members)
}

func (h *TeamHandler) UpdateTeamVisibility(c *gin.Context) {
	var req dto.UpdateVisibilityRequest
	if err := c.BindJSON(&req); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to bind visibility json")
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		log.Logger.Warn().Err(err).Msg("validation error")
		response.BadRequest(c, fmt.Sprintf("validation error: %s", err.Error()))
		return
	}

	teamID := uuid.MustParse(req.TeamID)
	userID := uuid.MustParse(req.UserID)

	if err := h.team.UpdateTeamVisibility(c.Request.Context(), teamID, userID, *req.Visibility); err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			response.NotFound(c)
			return
		}
		if errors.Is(err, domain.ErrMemberNotFound) {
			response.NotFound(c)
			return
		}
		log.Logger.Error().Err(err).Any("req", req).Msg("failed to update team visibility")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "Done"})
}

func toRequestor(r dto.Requestor) domain.Requestor {
	return domain.Requestor{
		UserID:      uuid.MustParse(r.UserID),
		Role:        r.Role,
		Permissions: r.Permissions,
	}
}
