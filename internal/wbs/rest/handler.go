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

type WBS interface {
	GetAllWBS(ctx context.Context, projectID uuid.UUID) ([]dto.GetWBS, error)
	CreateWBS(ctx context.Context, requestor domain.Requestor, projectID uuid.UUID, wbsName string, isActive bool) (dto.GetWBS, error)
	DeleteWBS(ctx context.Context, requestor domain.Requestor, ID uuid.UUID) error
}

type Validator interface {
	Validate(i interface{}) error
}

type WBSHandler struct {
	wbs       WBS
	validator Validator
}

func NewWBSHandler(wbs WBS, validator Validator) *WBSHandler {
	return &WBSHandler{wbs: wbs, validator: validator}
}

func (h *WBSHandler) GetAllWBS(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		response.BadRequest(c, "invalid 'projectId' path parameter")
		return
	}

	items, err := h.wbs.GetAllWBS(c.Request.Context(), projectID)
	if err != nil {
		log.Logger.Error().Err(err).Str("project_id", projectID.String()).Msg("failed to list wbs")
		response.InternalServerError(c)
		return
	}

	if items == nil {
		items = []dto.GetWBS{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *WBSHandler) CreateWBS(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		response.BadRequest(c, "invalid 'projectId' path parameter")
		return
	}

	var req dto.CreateWBSRequest
	if err := c.BindJSON(&req); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to bind create wbs json")
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

	w, err := h.wbs.CreateWBS(c.Request.Context(), requestor, projectID, req.WBSName, *req.IsActive)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			response.Forbidden(c, "you are not authorized to create new WBS")
			return
		}
		log.Logger.Error().Err(err).Str("project_id", projectID.String()).Any("req", req).Msg("failed to create wbs")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"wbs": w})
}

func (h *WBSHandler) DeleteWBS(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid 'id' path parameter")
		return
	}

	var req dto.DeleteWBSRequest
	if err := c.BindJSON(&req); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to bind delete wbs json")
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

	if err := h.wbs.DeleteWBS(c.Request.Context(), requestor, id); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			response.Forbidden(c, "you are not authorized to delete WBS")
			return
		}
		if errors.Is(err, domain.ErrWBSNotFound) {
			response.NotFound(c)
			return
		}
		log.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to delete wbs")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "WBS successfully deleted"})
}
