package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vikrambadhan/HGNRest/internal/permissions"
	"github.com/vikrambadhan/HGNRest/internal/types/domain"
	"github.com/vikrambadhan/HGNRest/internal/types/dto"
	"github.com/vikrambadhan/HGNRest/internal/wbs/repo"
	"github.com/vikrambadhan/HGNRest/pkg/errutils"
)

type WBSRepo interface {
	GetAllWBS(ctx context.Context, projectID uuid.UUID) ([]domain.WBS, error)
	CreateWBS(ctx context.Context, w domain.WBS) (domain.WBS, error)
	DeleteWBS(ctx context.Context, ID uuid.UUID) error
}

type PermissionChecker interface {
	Check(ctx context.Context, requestor domain.Requestor, action string) (bool, error)
}

type WBS struct {
	wbsRepo WBSRepo
	perms   PermissionChecker
}

func NewWBS(wbsRepo WBSRepo, perms PermissionChecker) *WBS {
	return &WBS{wbsRepo: wbsRepo, perms: perms}
}

func (s *WBS) GetAllWBS(ctx context.Context, projectID uuid.UUID) ([]dto.GetWBS, error) {
	const op = "service.wbs.List"

	items, err := s.wbsRepo.GetAllWBS(ctx, projectID)
	if err != nil {
		return nil, errutils.Wrap(op, err)
	}

	result := make([]dto.GetWBS, len(items))
	for i, w := range items {
		result[i] = dto.GetWBS{
			ID:               w.ID.String(),
			ProjectID:        w.ProjectID.String(),
			WBSName:          w.WBSName,
			IsActive:         w.IsActive,
			ModifiedDatetime: w.ModifiedDatetime,
		}
	}

	return result, nil
}

func (s *WBS) CreateWBS(ctx context.Context, requestor domain.Requestor, projectID uuid.UUID, wbsName string, isActive bool) (dto.GetWBS, error) {
	const op = "service.wbs.Create"

	allowed, err := s.perms.Check(ctx, requestor, permissions.ActionPostWBS)
	if err != nil {
		return dto.GetWBS{}, errutils.Wrap(op, err)
	}
	if !allowed {
		return dto.GetWBS{}, errutils.Wrap(op, domain.ErrForbidden)
	}

	w, err := s.wbsRepo.CreateWBS(ctx, domain.WBS{
		ID:        uuid.New(),
		ProjectID: projectID,
		WBSName:   wbsName,
		IsActive:  isActive,
	})
	if err != nil {
		return dto.GetWBS{}, errutils.Wrap(op, err)
	}

	return dto.GetWBS{
		ID:               w.ID.String(),
		ProjectID:        w.ProjectID.String(),
		WBSName:          w.WBSName,
		IsActive:         w.IsActive,
		ModifiedDatetime: w.ModifiedDatetime,
	}, nil
}

func (s *WBS) DeleteWBS(ctx context.Context, requestor domain.Requestor, ID uuid.UUID) error {
	const op = "service.wbs.Delete"

	allowed, err := s.perms.Check(ctx, requestor, permissions.ActionDeleteWBS)
	if err != nil {
		return errutils.Wrap(op, err)
	}
	if !allowed {
		return errutils.Wrap(op, domain.ErrForbidden)
	}

	if err := s.wbsRepo.DeleteWBS(ctx, ID); err != nil {
		if errors.Is(err, repo.ErrWBSNotFound) {
			return errutils.Wrap(op, domain.ErrWBSNotFound)
		}
		return errutils.Wrap(op, err)
	}

	return nil
}
