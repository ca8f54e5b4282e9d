package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikrambadhan/HGNRest/internal/team/repo"
	"github.com/vikrambadhan/HGNRest/internal/types/domain"
)

type fakeTeamRepo struct {
	mu sync.Mutex

	teams      map[uuid.UUID]domain.Team
	namesTaken map[string]bool

	addMemberCalls  []uuid.UUID
	removedMembers  []uuid.UUID
	visibilityCalls []bool
	deletedTeams    []uuid.UUID

	failAddMember bool
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:      map[uuid.UUID]domain.Team{},
		namesTaken: map[string]bool{},
	}
}

func (f *fakeTeamRepo) ListTeams(context.Context) ([]domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var teams []domain.Team
	for _, t := range f.teams {
		teams = append(teams, t)
	}
	return teams, nil
}

func (f *fakeTeamRepo) GetTeamByID(_ context.Context, ID uuid.UUID) (domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[ID]
	if !ok {
		return domain.Team{}, repo.ErrTeamNotFound
	}
	return t, nil
}

func (f *fakeTeamRepo) TeamExistsByName(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.namesTaken[name], nil
}

func (f *fakeTeamRepo) CreateTeam(_ context.Context, team domain.Team) (domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.namesTaken[team.TeamName] {
		return domain.Team{}, repo.ErrTeamExists
	}
	f.namesTaken[team.TeamName] = true
	team.CreatedDatetime = time.Now()
	team.ModifiedDatetime = team.CreatedDatetime
	f.teams[team.ID] = team
	return team, nil
}

func (f *fakeTeamRepo) UpdateTeam(_ context.Context, ID uuid.UUID, teamName string, isActive bool, teamCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[ID]
	if !ok {
		return repo.ErrTeamNotFound
	}
	t.TeamName = teamName
	t.IsActive = isActive
	t.TeamCode = teamCode
	t.ModifiedDatetime = time.Now()
	f.teams[ID] = t
	return nil
}

func (f *fakeTeamRepo) DeleteTeam(_ context.Context, ID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.teams[ID]; !ok {
		return repo.ErrTeamNotFound
	}
	delete(f.teams, ID)
	f.deletedTeams = append(f.deletedTeams, ID)
	return nil
}

func (f *fakeTeamRepo) AddMember(_ context.Context, teamID, userID uuid.UUID) (domain.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAddMember {
		return domain.Membership{}, errors.New("store unavailable")
	}
	f.addMemberCalls = append(f.addMemberCalls, userID)
	t := f.teams[teamID]
	for _, m := range t.Members {
		if m.UserID == userID {
			return m, nil
		}
	}
	m := domain.Membership{UserID: userID, AddDateTime: time.Now(), Visible: true}
	t.Members = append(t.Members, m)
	f.teams[teamID] = t
	return m, nil
}

func (f *fakeTeamRepo) RemoveMember(_ context.Context, teamID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removedMembers = append(f.removedMembers, userID)
	t := f.teams[teamID]
	var kept []domain.Membership
	for _, m := range t.Members {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	t.Members = kept
	f.teams[teamID] = t
	return nil
}

func (f *fakeTeamRepo) SetMemberVisibility(_ context.Context, teamID, userID uuid.UUID, visible bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.teams[teamID]
	for i, m := range t.Members {
		if m.UserID == userID {
			t.Members[i].Visible = visible
			f.teams[teamID] = t
			f.visibilityCalls = append(f.visibilityCalls, visible)
			return nil
		}
	}
	return repo.ErrMemberNotFound
}

func (f *fakeTeamRepo) GetTeamMembership(context.Context, uuid.UUID) ([]domain.MemberProfile, error) {
	return nil, nil
}

type fakeProfileRepo struct {
	mu sync.Mutex

	added        []uuid.UUID
	removed      []uuid.UUID
	bulkAdded    [][]uuid.UUID
	bulkRemoved  [][]uuid.UUID
	clearedTeams []uuid.UUID
}

func (f *fakeProfileRepo) AddTeamToProfile(_ context.Context, userID, _ uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, userID)
	return nil
}

func (f *fakeProfileRepo) RemoveTeamFromProfile(_ context.Context, userID, _ uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, userID)
	return nil
}

func (f *fakeProfileRepo) AddTeamToProfiles(_ context.Context, userIDs []uuid.UUID, _ uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkAdded = append(f.bulkAdded, userIDs)
	return nil
}

func (f *fakeProfileRepo) RemoveTeamFromProfiles(_ context.Context, userIDs []uuid.UUID, _ uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkRemoved = append(f.bulkRemoved, userIDs)
	return nil
}

func (f *fakeProfileRepo) RemoveTeamFromAllProfiles(_ context.Context, teamID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearedTeams = append(f.clearedTeams, teamID)
	return nil
}

type fakePerms struct {
	allow bool
}

func (f fakePerms) Check(context.Context, domain.Requestor, string) (bool, error) {
	return f.allow, nil
}

type fakeEvents struct {
	mu       sync.Mutex
	notified []uuid.UUID
}

func (f *fakeEvents) MembershipChanged(_ context.Context, userID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, userID)
}

func setup(allow bool) (*Team, *fakeTeamRepo, *fakeProfileRepo, *fakeEvents) {
	teamRepo := newFakeTeamRepo()
	profileRepo := &fakeProfileRepo{}
	ev := &fakeEvents{}
	return NewTeam(teamRepo, profileRepo, fakePerms{allow: allow}, ev), teamRepo, profileRepo, ev
}

func seedTeam(f *fakeTeamRepo, members ...uuid.UUID) uuid.UUID {
	teamID := uuid.New()
	t := domain.Team{ID: teamID, TeamName: "seeded", IsActive: true}
	for _, m := range members {
		t.Members = append(t.Members, domain.Membership{UserID: m, AddDateTime: time.Now(), Visible: true})
	}
	f.teams[teamID] = t
	f.namesTaken[t.TeamName] = true
	return teamID
}

var owner = domain.Requestor{UserID: uuid.New(), Role: "Owner"}

func TestCreateTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate name yields exactly one success and one conflict", func(t *testing.T) {
		svc, _, _, _ := setup(true)

		created, err := svc.CreateTeam(ctx, owner, "Alpha", true)
		require.NoError(t, err)
		assert.Equal(t, "Alpha", created.TeamName)

		_, err = svc.CreateTeam(ctx, owner, "Alpha", true)
		require.ErrorIs(t, err, domain.ErrTeamExists)
	})

	t.Run("forbidden without permission", func(t *testing.T) {
		svc, teamRepo, _, _ := setup(false)

		_, err := svc.CreateTeam(ctx, domain.Requestor{Role: "Volunteer"}, "Beta", true)
		require.ErrorIs(t, err, domain.ErrForbidden)
		assert.Empty(t, teamRepo.teams, "no team should be persisted")
	})
}

func TestUpdateTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("not found before authorization", func(t *testing.T) {
		svc, _, _, _ := setup(true)

		_, err := svc.UpdateTeam(ctx, owner, uuid.New(), "Gamma", true, "X-123")
		require.ErrorIs(t, err, domain.ErrTeamNotFound)
	})

	t.Run("requires owner role or editTeamCode capability", func(t *testing.T) {
		svc, teamRepo, _, _ := setup(true)
		teamID := seedTeam(teamRepo)

		_, err := svc.UpdateTeam(ctx, domain.Requestor{Role: "Manager"}, teamID, "Gamma", true, "X-123")
		require.ErrorIs(t, err, domain.ErrForbidden)

		capable := domain.Requestor{Role: "Manager", Permissions: []string{"editTeamCode"}}
		id, err := svc.UpdateTeam(ctx, capable, teamID, "Gamma", true, "X-123")
		require.NoError(t, err)
		assert.Equal(t, teamID.String(), id)
		assert.Equal(t, "X-123", teamRepo.teams[teamID].TeamCode)
	})
}

func TestDeleteTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("removes team and pulls it from all profiles", func(t *testing.T) {
		svc, teamRepo, profileRepo, _ := setup(true)
		teamID := seedTeam(teamRepo, uuid.New(), uuid.New())

		require.NoError(t, svc.DeleteTeam(ctx, owner, teamID))

		assert.Equal(t, []uuid.UUID{teamID}, teamRepo.deletedTeams)
		assert.Equal(t, []uuid.UUID{teamID}, profileRepo.clearedTeams)

		_, err := svc.GetTeam(ctx, teamID)
		require.ErrorIs(t, err, domain.ErrTeamNotFound)
	})

	t.Run("forbidden leaves state untouched", func(t *testing.T) {
		svc, teamRepo, profileRepo, _ := setup(false)
		teamID := seedTeam(teamRepo)

		err := svc.DeleteTeam(ctx, domain.Requestor{Role: "Volunteer"}, teamID)
		require.ErrorIs(t, err, domain.ErrForbidden)
		assert.Empty(t, teamRepo.deletedTeams)
		assert.Empty(t, profileRepo.clearedTeams)
	})
}

func TestAssignOrUnassignMember(t *testing.T) {
	ctx := context.Background()

	t.Run("assign writes both stores and notifies listeners", func(t *testing.T) {
		svc, teamRepo, profileRepo, ev := setup(true)
		teamID := seedTeam(teamRepo)
		userID := uuid.New()

		member, err := svc.AssignOrUnassignMember(ctx, owner, teamID, userID, OperationAssign)
		require.NoError(t, err)
		require.NotNil(t, member)
		assert.Equal(t, userID.String(), member.UserID)
		assert.True(t, member.Visible)

		assert.Equal(t, []uuid.UUID{userID}, teamRepo.addMemberCalls)
		assert.Equal(t, []uuid.UUID{userID}, profileRepo.added)
		assert.Equal(t, []uuid.UUID{userID}, ev.notified)
	})

	t.Run("assign twice keeps set semantics", func(t *testing.T) {
		svc, teamRepo, _, _ := setup(true)
		teamID := seedTeam(teamRepo)
		userID := uuid.New()

		_, err := svc.AssignOrUnassignMember(ctx, owner, teamID, userID, OperationAssign)
		require.NoError(t, err)
		_, err = svc.AssignOrUnassignMember(ctx, owner, teamID, userID, OperationAssign)
		require.NoError(t, err)

		assert.Len(t, teamRepo.teams[teamID].Members, 1)
	})

	t.Run("unassign of non-member succeeds and changes nothing", func(t *testing.T) {
		svc, teamRepo, profileRepo, _ := setup(true)
		member := uuid.New()
		teamID := seedTeam(teamRepo, member)
		stranger := uuid.New()

		result, err := svc.AssignOrUnassignMember(ctx, owner, teamID, stranger, OperationUnassign)
		require.NoError(t, err)
		assert.Nil(t, result)

		assert.Len(t, teamRepo.teams[teamID].Members, 1)
		assert.Equal(t, []uuid.UUID{stranger}, profileRepo.removed)
	})

	t.Run("nonexistent team fails before any mutation", func(t *testing.T) {
		svc, teamRepo, profileRepo, ev := setup(true)

		_, err := svc.AssignOrUnassignMember(ctx, owner, uuid.New(), uuid.New(), OperationAssign)
		require.ErrorIs(t, err, domain.ErrTeamNotFound)

		assert.Empty(t, teamRepo.addMemberCalls)
		assert.Empty(t, profileRepo.added)
		assert.Empty(t, ev.notified)
	})

	t.Run("team store failure surfaces after the profile write", func(t *testing.T) {
		// The two writes are independent; the profile side may land even
		// though the team side fails. Reconciliation heals the drift.
		svc, teamRepo, _, _ := setup(true)
		teamID := seedTeam(teamRepo)
		teamRepo.failAddMember = true

		_, err := svc.AssignOrUnassignMember(ctx, owner, teamID, uuid.New(), OperationAssign)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrTeamNotFound)
	})

	t.Run("forbidden before any mutation", func(t *testing.T) {
		svc, teamRepo, profileRepo, _ := setup(false)
		teamID := seedTeam(teamRepo)

		_, err := svc.AssignOrUnassignMember(ctx, domain.Requestor{Role: "Volunteer"}, teamID, uuid.New(), OperationAssign)
		require.ErrorIs(t, err, domain.ErrForbidden)
		assert.Empty(t, teamRepo.addMemberCalls)
		assert.Empty(t, profileRepo.added)
	})
}

func TestUpdateTeamVisibility(t *testing.T) {
	ctx := context.Background()

	t.Run("cascade mirrors visibility to every other member", func(t *testing.T) {
		svc, teamRepo, profileRepo, _ := setup(true)
		a, b, c := uuid.New(), uuid.New(), uuid.New()
		teamID := seedTeam(teamRepo, a, b, c)

		require.NoError(t, svc.UpdateTeamVisibility(ctx, teamID, a, true))

		require.Len(t, profileRepo.bulkAdded, 1)
		assert.ElementsMatch(t, []uuid.UUID{b, c}, profileRepo.bulkAdded[0])
		assert.NotContains(t, profileRepo.bulkAdded[0], a, "toggling user is excluded from the cascade")

		require.Len(t, profileRepo.bulkRemoved, 1)
		assert.Empty(t, profileRepo.bulkRemoved[0])
	})

	t.Run("visibility false unassigns the others", func(t *testing.T) {
		svc, teamRepo, profileRepo, _ := setup(true)
		a, b := uuid.New(), uuid.New()
		teamID := seedTeam(teamRepo, a, b)

		require.NoError(t, svc.UpdateTeamVisibility(ctx, teamID, a, false))

		assert.Equal(t, []bool{false}, teamRepo.visibilityCalls)
		require.Len(t, profileRepo.bulkRemoved, 1)
		assert.ElementsMatch(t, []uuid.UUID{b}, profileRepo.bulkRemoved[0])
		require.Len(t, profileRepo.bulkAdded, 1)
		assert.Empty(t, profileRepo.bulkAdded[0])
	})

	t.Run("member not in team", func(t *testing.T) {
		svc, teamRepo, profileRepo, _ := setup(true)
		teamID := seedTeam(teamRepo, uuid.New())

		err := svc.UpdateTeamVisibility(ctx, teamID, uuid.New(), true)
		require.ErrorIs(t, err, domain.ErrMemberNotFound)
		assert.Empty(t, teamRepo.visibilityCalls)
		assert.Empty(t, profileRepo.bulkAdded)
	})

	t.Run("team not found", func(t *testing.T) {
		svc, _, _, _ := setup(true)

		err := svc.UpdateTeamVisibility(ctx, uuid.New(), uuid.New(), true)
		require.ErrorIs(t, err, domain.ErrTeamNotFound)
	})
}
