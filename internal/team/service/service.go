package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vikrambadhan/HGNRest/internal/metrics"
	"github.com/vikrambadhan/HGNRest/internal/permissions"
	"github.com/vikrambadhan/HGNRest/internal/team/repo"
	"github.com/vikrambadhan/HGNRest/internal/types/domain"
	"github.com/vikrambadhan/HGNRest/internal/types/dto"
	profilerepo "github.com/vikrambadhan/HGNRest/internal/userprofile/repo"
	"github.com/vikrambadhan/HGNRest/pkg/errutils"
	"golang.org/x/sync/errgroup"
)

const (
	OperationAssign   = "Assign"
	OperationUnassign = "Unassign"
)

type TeamRepo interface {
	ListTeams(ctx context.Context) ([]domain.Team, error)
	GetTeamByID(ctx context.Context, ID uuid.UUID) (domain.Team, error)
	TeamExistsByName(ctx context.Context, name string) (bool, error)
	CreateTeam(ctx context.Context, team domain.Team) (domain.Team, error)
	UpdateTeam(ctx context.Context, ID uuid.UUID, teamName string, isActive bool, teamCode string) error
	DeleteTeam(ctx context.Context, ID uuid.UUID) error
	AddMember(ctx context.Context, teamID, userID uuid.UUID) (domain.Membership, error)
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
	SetMemberVisibility(ctx context.Context, teamID, userID uuid.UUID, visible bool) error
	GetTeamMembership(ctx context.Context, teamID uuid.UUID) ([]domain.MemberProfile, error)
}

type UserProfileRepo interface {
	AddTeamToProfile(ctx context.Context, userID, teamID uuid.UUID) error
	RemoveTeamFromProfile(ctx context.Context, userID, teamID uuid.UUID) error
	AddTeamToProfiles(ctx context.Context, userIDs []uuid.UUID, teamID uuid.UUID) error
	RemoveTeamFromProfiles(ctx context.Context, userIDs []uuid.UUID, teamID uuid.UUID) error
	RemoveTeamFromAllProfiles(ctx context.Context, teamID uuid.UUID) error
}

type PermissionChecker interface {
	Check(ctx context.Context, requestor domain.Requestor, action string) (bool, error)
}

type MembershipEvents interface {
	MembershipChanged(ctx context.Context, userID uuid.UUID)
}

// Team owns team lifecycle and the membership mutation protocol. Team
// documents and user profiles live in independent stores: the paired
// writes below are launched concurrently and awaited, which shortens
// latency but does not make them atomic. Drift after a partial failure
// is healed by the reconciliation job.
type Team struct {
	teamRepo    TeamRepo
	profileRepo UserProfileRepo
	perms       PermissionChecker
	events      MembershipEvents
}

func NewTeam(teamRepo TeamRepo, profileRepo UserProfileRepo, perms PermissionChecker, events MembershipEvents) *Team {
	return &Team{teamRepo: teamRepo, profileRepo: profileRepo, perms: perms, events: events}
}

func (t *Team) ListTeams(ctx context.Context) ([]dto.GetTeam, error) {
	const op = "service.team.List"

	teams, err := t.teamRepo.ListTeams(ctx)
	if err != nil {
		return nil, errutils.Wrap(op, err)
	}

	result := make([]dto.GetTeam, len(teams))
	for i, team := range teams {
		result[i] = toGetTeam(team)
	}

	return result, nil
}

func (t *Team) GetTeam(ctx context.Context, teamID uuid.UUID) (dto.GetTeam, error) {
	const op = "service.team.Get"

	team, err := t.teamRepo.GetTeamByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repo.ErrTeamNotFound) {
			return dto.GetTeam{}, errutils.Wrap(op, domain.ErrTeamNotFound)
		}
		return dto.GetTeam{}, errutils.Wrap(op, err)
	}

	return toGetTeam(team), nil
}

func (t *Team) CreateTeam(ctx context.Context, requestor domain.Requestor, teamName string, isActive bool) (dto.GetTeam, error) {
	const op = "service.team.Create"

	allowed, err := t.perms.Check(ctx, requestor, permissions.ActionPostTeam)
	if err != nil {
		return dto.GetTeam{}, errutils.Wrap(op, err)
	}
	if !allowed {
		return dto.GetTeam{}, errutils.Wrap(op, domain.ErrForbidden)
	}

	exists, err := t.teamRepo.TeamExistsByName(ctx, teamName)
	if err != nil {
		return dto.GetTeam{}, errutils.Wrap(op, err)
	}
	if exists {
		return dto.GetTeam{}, errutils.Wrap(op, domain.ErrTeamExists)
	}

	// The pre-check above races against concurrent creators; the unique
	// index on team_name is what actually guarantees uniqueness.
	team, err := t.teamRepo.CreateTeam(ctx, domain.Team{
		ID:       uuid.New(),
		TeamName: teamName,
		IsActive: isActive,
	})
	if err != nil {
		if errors.Is(err, repo.ErrTeamExists) {
			return dto.GetTeam{}, errutils.Wrap(op, domain.ErrTeamExists)
		}
		return dto.GetTeam{}, errutils.Wrap(op, err)
	}

	return toGetTeam(team), nil
}

func (t *Team) UpdateTeam(ctx context.Context, requestor domain.Requestor, teamID uuid.UUID, teamName string, isActive bool, teamCode string) (string, error) {
	const op = "service.team.Update"

	if _, err := t.teamRepo.GetTeamByID(ctx, teamID); err != nil {
		if errors.Is(err, repo.ErrTeamNotFound) {
			return "", errutils.Wrap(op, domain.ErrTeamNotFound)
		}
		return "", errutils.Wrap(op, err)
	}

	allowed, err := t.perms.Check(ctx, requestor, permissions.ActionPutTeam)
	if err != nil {
		return "", errutils.Wrap(op, err)
	}
	canEditTeamCode := requestor.Role == permissions.RoleOwner ||
		requestor.HasCapability(permissions.ActionEditTeamCode)
	if !allowed || !canEditTeamCode {
		return "", errutils.Wrap(op, domain.ErrForbidden)
	}

	if err := t.teamRepo.UpdateTeam(ctx, teamID, teamName, isActive, teamCode); err != nil {
		switch {
		case errors.Is(err, repo.ErrTeamNotFound):
			return "", errutils.Wrap(op, domain.ErrTeamNotFound)
		case errors.Is(err, repo.ErrTeamExists):
			return "", errutils.Wrap(op, domain.ErrTeamExists)
		}
		return "", errutils.Wrap(op, err)
	}

	return teamID.String(), nil
}

// DeleteTeam removes the team and concurrently pulls its id out of
// every profile team set. If either half fails the error is surfaced
// and state is left for reconciliation; there is no rollback across
// the two stores.
func (t *Team) DeleteTeam(ctx context.Context, requestor domain.Requestor, teamID uuid.UUID) (err error) {
	const op = "service.team.Delete"
	defer func() { metrics.ObserveMembershipOp("delete_team", err) }()

	allowed, err := t.perms.Check(ctx, requestor, permissions.ActionDeleteTeam)
	if err != nil {
		return errutils.Wrap(op, err)
	}
	if !allowed {
		return errutils.Wrap(op, domain.ErrForbidden)
	}

	if _, err := t.teamRepo.GetTeamByID(ctx, teamID); err != nil {
		if errors.Is(err, repo.ErrTeamNotFound) {
			return errutils.Wrap(op, domain.ErrTeamNotFound)
		}
		return errutils.Wrap(op, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return t.profileRepo.RemoveTeamFromAllProfiles(gctx, teamID)
	})
	g.Go(func() error {
		return t.teamRepo.DeleteTeam(gctx, teamID)
	})

	if err := g.Wait(); err != nil {
		return errutils.Wrap(op, err)
	}

	return nil
}

// AssignOrUnassignMember applies a single membership mutation to both
// stores. Assign has set semantics; Unassign on a non-member is a
// successful no-op.
func (t *Team) AssignOrUnassignMember(ctx context.Context, requestor domain.Requestor, teamID, userID uuid.UUID, operation string) (m *dto.Membership, err error) {
	const op = "service.team.AssignOrUnassignMember"
	defer func() { metrics.ObserveMembershipOp(operation, err) }()

	allowed, err := t.perms.Check(ctx, requestor, permissions.ActionAssignTeamToUsers)
	if err != nil {
		return nil, errutils.Wrap(op, err)
	}
	if !allowed {
		return nil, errutils.Wrap(op, domain.ErrForbidden)
	}

	if _, err := t.teamRepo.GetTeamByID(ctx, teamID); err != nil {
		if errors.Is(err, repo.ErrTeamNotFound) {
			return nil, errutils.Wrap(op, domain.ErrTeamNotFound)
		}
		return nil, errutils.Wrap(op, err)
	}

	// Listeners (the profile cache) drop any cached copy so the next
	// read reflects the new membership instead of a stale entry.
	t.events.MembershipChanged(ctx, userID)

	g, gctx := errgroup.WithContext(ctx)

	if operation == OperationAssign {
		var membership domain.Membership
		g.Go(func() error {
			var addErr error
			membership, addErr = t.teamRepo.AddMember(gctx, teamID, userID)
			return addErr
		})
		g.Go(func() error {
			return t.profileRepo.AddTeamToProfile(gctx, userID, teamID)
		})

		if err := g.Wait(); err != nil {
			if errors.Is(err, profilerepo.ErrUserProfileNotFound) {
				return nil, errutils.Wrap(op, domain.ErrUserProfileNotFound)
			}
			return nil, errutils.Wrap(op, err)
		}

		return &dto.Membership{
			UserID:      membership.UserID.String(),
			AddDateTime: membership.AddDateTime,
			Visible:     membership.Visible,
		}, nil
	}

	g.Go(func() error {
		return t.teamRepo.RemoveMember(gctx, teamID, userID)
	})
	g.Go(func() error {
		return t.profileRepo.RemoveTeamFromProfile(gctx, userID, teamID)
	})

	if err := g.Wait(); err != nil {
		return nil, errutils.Wrap(op, err)
	}

	return nil, nil
}

func (t *Team) GetTeamMembership(ctx context.Context, teamID uuid.UUID) ([]dto.MemberProfile, error) {
	const op = "service.team.GetMembership"

	members, err := t.teamRepo.GetTeamMembership(ctx, teamID)
	if err != nil {
		return nil, errutils.Wrap(op, err)
	}

	result := make([]dto.MemberProfile, len(members))
	for i, m := range members {
		result[i] = dto.MemberProfile{
			UserID:      m.UserID.String(),
			AddDateTime: m.AddDateTime,
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			Email:       m.Email,
			Role:        m.Role,
			IsActive:    m.IsActive,
		}
	}

	return result, nil
}

// UpdateTeamVisibility toggles one member's visibility flag and then
// mirrors the new value onto every OTHER member's profile team set:
// visible=true adds the team to all other members' sets, visible=false
// removes it. The toggling user's own set is left untouched. This
// mirrors-to-everyone behavior is deliberate and load-bearing; see
// DESIGN.md before changing it.
func (t *Team) UpdateTeamVisibility(ctx context.Context, teamID, userID uuid.UUID, visibility bool) (err error) {
	const op = "service.team.UpdateVisibility"
	defer func() { metrics.ObserveMembershipOp("visibility", err) }()

	team, err := t.teamRepo.GetTeamByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repo.ErrTeamNotFound) {
			return errutils.Wrap(op, domain.ErrTeamNotFound)
		}
		return errutils.Wrap(op, err)
	}

	found := false
	for _, m := range team.Members {
		if m.UserID == userID {
			found = true
			break
		}
	}
	if !found {
		return errutils.Wrap(op, domain.ErrMemberNotFound)
	}

	if err := t.teamRepo.SetMemberVisibility(ctx, teamID, userID, visibility); err != nil {
		if errors.Is(err, repo.ErrMemberNotFound) {
			return errutils.Wrap(op, domain.ErrMemberNotFound)
		}
		return errutils.Wrap(op, err)
	}

	var assignList, unassignList []uuid.UUID
	for _, m := range team.Members {
		if m.UserID == userID {
			continue
		}
		if visibility {
			assignList = append(assignList, m.UserID)
		} else {
			unassignList = append(unassignList, m.UserID)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return t.profileRepo.AddTeamToProfiles(gctx, assignList, teamID)
	})
	g.Go(func() error {
		return t.profileRepo.RemoveTeamFromProfiles(gctx, unassignList, teamID)
	})

	if err := g.Wait(); err != nil {
		return errutils.Wrap(op, err)
	}

	return nil
}

func toGetTeam(team domain.Team) dto.GetTeam {
	members := make([]dto.Membership, len(team.Members))
	for i, m := range team.Members {
		members[i] = dto.Membership{
			UserID:      m.UserID.String(),
			AddDateTime: m.AddDateTime,
			Visible:     m.Visible,
		}
	}

	return dto.GetTeam{
		ID:               team.ID.String(),
		TeamName:         team.TeamName,
		IsActive:         team.IsActive,
		TeamCode:         team.TeamCode,
		Members:          members,
		CreatedDatetime:  team.CreatedDatetime,
		ModifiedDatetime: team.ModifiedDatetime,
	}
}
