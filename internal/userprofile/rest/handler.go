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
	"github.com/vikrambadhan/HGNRest/internal/types/domain"
	"github.com/vikrambadhan/HGNRest/internal/types/dto"
)

type UserProfile interface {
	GetUserProfiles(ctx context.Context) ([]dto.GetUserProfile, error)
	GetUserProfile(ctx context.Context, ID uuid.UUID) (dto.GetUserProfile, error)
	UpdateUserProfile(ctx context.Context, requestor domain.Requestor, ID uuid.UUID, req dto.UpdateUserProfileRequest) (dto.GetUserProfile, error)
	GetTeamMembersOfUser(ctx context.Context, userID uuid.UUID) ([]dto.GetUserProfile, error)
}

type Validator interface {
	Validate(i interface{}) error
}

type UserProfileHandler struct {
	profile   UserProfile
	validator Validator
}

func NewUserProfileHandler(profile UserProfile, validator Validator) *UserProfileHandler {
	return &UserProfileHandler{profile: profile, validator: validator}
}

func (h *UserProfileHandler) GetUserProfiles(c *gin.Context) {
	profiles, err := h.profile.GetUserProfiles(c.Request.Context())
	if err != nil {
		log.Logger.Error().Err(err).Msg("failed to list user profiles")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"userProfiles": profiles})
}

func (h *UserProfileHandler) GetUserProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid 'userId' path parameter")
		return
	}

	profile, err := h.profile.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserProfileNotFound) {
			response.NotFound(c)
			return
		}
		log.Logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get user profile")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserProfileHandler) UpdateUserProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid 'userId' path parameter")
		return
	}

	var req dto.UpdateUserProfileRequest
	if err := c.BindJSON(&req); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to bind update profile json")
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		log.Logger.Warn().Err(err).Msg("validation error")
		response.BadRequest(c, fmt.Sprintf("validation error: %s", err.Error()))
		return
	}

	requestor := domain.Requestor{
		UserID:      uuid.MustParse(req.Requestor.UserID),
		Role:        req.Requestor.Role,
		Permissions: req.Requestor.Permissions,
	}

	profile, err := h.profile.UpdateUserProfile(c.Request.Context(), requestor, userID, req)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			response.Forbidden(c, "you are not authorized to update this profile")
			return
		}
		if errors.Is(err, domain.ErrUserProfileNotFound) {
			response.NotFound(c)
			return
		}
		log.Logger.Error().Err(err).Str("user_id", userID.String()).Any("req", req).Msg("failed to update user profile")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"userProfile": profile})
}

func (h *UserProfileHandler) GetTeamMembersOfUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid 'userId' path parameter")
		return
	}

	profiles, err := h.profile.GetTeamMembersOfUser(c.Request.Context(), userID)
	if err != nil {
		log.Logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get team members of user")
		response.InternalServerError(c)
		return
	}

	if profiles == nil {
		profiles = []dto.GetUserProfile{}
	}
	c.JSON(http.StatusOK, profiles)
}
