package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vikrambadhan/HGNRest/internal/permissions"
	"github.com/vikrambadhan/HGNRest/internal/types/domain"
	"github.com/vikrambadhan/HGNRest/internal/types/dto"
	"github.com/vikrambadhan/HGNRest/internal/userprofile/repo"
	"github.com/vikrambadhan/HGNRest/pkg/errutils"
)

type UserProfileRepo interface {
	GetUserProfiles(ctx context.Context) ([]domain.UserProfile, error)
	GetUserProfileByID(ctx context.Context, ID uuid.UUID) (domain.UserProfile, error)
	UpdateUserProfile(ctx context.Context, ID uuid.UUID, firstName, lastName, email string, isActive bool) error
	GetTeamMembersOfUser(ctx context.Context, userID uuid.UUID) ([]domain.UserProfile, error)
}

type ProfileCache interface {
	Get(ctx context.Context, userID uuid.UUID) (dto.GetUserProfile, bool)
	Set(ctx context.Context, userID uuid.UUID, profile dto.GetUserProfile)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type PermissionChecker interface {
	Check(ctx context.Context, requestor domain.Requestor, action string) (bool, error)
}

type UserProfile struct {
	profileRepo UserProfileRepo
	perms       PermissionChecker
	cache       ProfileCache
}

func NewUserProfile(profileRepo UserProfileRepo, perms PermissionChecker, cache ProfileCache) *UserProfile {
	return &UserProfile{profileRepo: profileRepo, perms: perms, cache: cache}
}

func (u *UserProfile) GetUserProfiles(ctx context.Context) ([]dto.GetUserProfile, error) {
	const op = "service.userprofile.List"

	profiles, err := u.profileRepo.GetUserProfiles(ctx)
	if err != nil {
		return nil, errutils.Wrap(op, err)
	}

	result := make([]dto.GetUserProfile, len(profiles))
	for i, p := range profiles {
		result[i] = toGetUserProfile(p)
	}

	return result, nil
}

func (u *UserProfile) GetUserProfile(ctx context.Context, ID uuid.UUID) (dto.GetUserProfile, error) {
	const op = "service.userprofile.Get"

	if cached, ok := u.cache.Get(ctx, ID); ok {
		return cached, nil
	}

	profile, err := u.profileRepo.GetUserProfileByID(ctx, ID)
	if err != nil {
		if errors.Is(err, repo.ErrUserProfileNotFound) {
			return dto.GetUserProfile{}, errutils.Wrap(op, domain.ErrUserProfileNotFound)
		}
		return dto.GetUserProfile{}, errutils.Wrap(op, err)
	}

	result := toGetUserProfile(profile)
	u.cache.Set(ctx, ID, result)

	return result, nil
}

func (u *UserProfile) UpdateUserProfile(ctx context.Context, requestor domain.Requestor, ID uuid.UUID, req dto.UpdateUserProfileRequest) (dto.GetUserProfile, error) {
	const op = "service.userprofile.Update"

	allowed, err := u.perms.Check(ctx, requestor, permissions.ActionPutUserProfile)
	if err != nil {
		return dto.GetUserProfile{}, errutils.Wrap(op, err)
	}
	// Users may always edit their own profile.
	if !allowed && requestor.UserID != ID {
		return dto.GetUserProfile{}, errutils.Wrap(op, domain.ErrForbidden)
	}

	if err := u.profileRepo.UpdateUserProfile(ctx, ID, req.FirstName, req.LastName, req.Email, *req.IsActive); err != nil {
		if errors.Is(err, repo.ErrUserProfileNotFound) {
			return dto.GetUserProfile{}, errutils.Wrap(op, domain.ErrUserProfileNotFound)
		}
		return dto.GetUserProfile{}, errutils.Wrap(op, err)
	}

	// The stored profile changed, so any cached copy is stale.
	u.cache.Invalidate(ctx, ID)

	profile, err := u.profileRepo.GetUserProfileByID(ctx, ID)
	if err != nil {
		return dto.GetUserProfile{}, errutils.Wrap(op, err)
	}

	return toGetUserProfile(profile), nil
}

func (u *UserProfile) GetTeamMembersOfUser(ctx context.Context, userID uuid.UUID) ([]dto.GetUserProfile, error) {
	const op = "service.userprofile.GetTeamMembers"

	profiles, err := u.profileRepo.GetTeamMembersOfUser(ctx, userID)
	if err != nil {
		return nil, errutils.Wrap(op, err)
	}

	result := make([]dto.GetUserProfile, len(profiles))
	for i, p := range profiles {
		result[i] = toGetUserProfile(p)
	}

	return result, nil
}

func toGetUserProfile(p domain.UserProfile) dto.GetUserProfile {
	teams := make([]string, len(p.Teams))
	for i, t := range p.Teams {
		teams[i] = t.String()
	}

	return dto.GetUserProfile{
		ID:        p.ID.String(),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Role:      p.Role,
		IsActive:  p.IsActive,
		Teams:     teams,
	}
}
