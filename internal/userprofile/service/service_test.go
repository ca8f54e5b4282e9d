package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikrambadhan/HGNRest/internal/types/domain"
	"github.com/vikrambadhan/HGNRest/internal/types/dto"
	"github.com/vikrambadhan/HGNRest/internal/userprofile/repo"
)

var admin = domain.Requestor{UserID: uuid.New(), Role: "Administrator"}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]domain.UserProfile
}

func (f *fakeProfileRepo) GetUserProfiles(context.Context) ([]domain.UserProfile, error) {
	var result []domain.UserProfile
	for _, p := range f.profiles {
		result = append(result, p)
	}
	return result, nil
}

func (f *fakeProfileRepo) GetUserProfileByID(_ context.Context, ID uuid.UUID) (domain.UserProfile, error) {
	p, ok := f.profiles[ID]
	if !ok {
		return domain.UserProfile{}, repo.ErrUserProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) UpdateUserProfile(_ context.Context, ID uuid.UUID, firstName, lastName, email string, isActive bool) error {
	p, ok := f.profiles[ID]
	if !ok {
		return repo.ErrUserProfileNotFound
	}
	p.FirstName = firstName
	p.LastName = lastName
	p.Email = email
	p.IsActive = isActive
	f.profiles[ID] = p
	return nil
}

func (f *fakeProfileRepo) GetTeamMembersOfUser(context.Context, uuid.UUID) ([]domain.UserProfile, error) {
	return nil, nil
}

type fakePerms struct {
	allow bool
}

func (f fakePerms) Check(context.Context, domain.Requestor, string) (bool, error) {
	return f.allow, nil
}

type fakeCache struct {
	entries     map[uuid.UUID]dto.GetUserProfile
	invalidated []uuid.UUID
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[uuid.UUID]dto.GetUserProfile{}}
}

func (f *fakeCache) Get(_ context.Context, userID uuid.UUID) (dto.GetUserProfile, bool) {
	p, ok := f.entries[userID]
	return p, ok
}

func (f *fakeCache) Set(_ context.Context, userID uuid.UUID, profile dto.GetUserProfile) {
	f.entries[userID] = profile
}

func (f *fakeCache) Invalidate(_ context.Context, userID uuid.UUID) {
	delete(f.entries, userID)
	f.invalidated = append(f.invalidated, userID)
}

func TestUpdateUserProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	teamID := uuid.New()

	repoFake := &fakeProfileRepo{profiles: map[uuid.UUID]domain.UserProfile{
		userID: {ID: userID, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org", Teams: []uuid.UUID{teamID}},
	}}
	cacheFake := newFakeCache()
	svc := NewUserProfile(repoFake, fakePerms{allow: true}, cacheFake)

	active := true
	updated, err := svc.UpdateUserProfile(ctx, admin, userID, dto.UpdateUserProfileRequest{
		FirstName: "Ada",
		LastName:  "King",
		Email:     "ada@example.org",
		IsActive:  &active,
	})
	require.NoError(t, err)

	assert.Equal(t, "King", updated.LastName)
	assert.Equal(t, []string{teamID.String()}, updated.Teams)
	assert.Equal(t, []uuid.UUID{userID}, cacheFake.invalidated, "stale cache entry must be dropped")
}

func TestUpdateUserProfileAuthorization(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	newRepo := func() *fakeProfileRepo {
		return &fakeProfileRepo{profiles: map[uuid.UUID]domain.UserProfile{
			userID: {ID: userID, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org"},
		}}
	}
	active := true
	req := dto.UpdateUserProfileRequest{
		FirstName: "Ada",
		LastName:  "King",
		Email:     "ada@example.org",
		IsActive:  &active,
	}

	t.Run("unauthorized requestor is rejected", func(t *testing.T) {
		repoFake := newRepo()
		svc := NewUserProfile(repoFake, fakePerms{allow: false}, newFakeCache())

		_, err := svc.UpdateUserProfile(ctx, domain.Requestor{UserID: uuid.New(), Role: "Volunteer"}, userID, req)
		require.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, "Lovelace", repoFake.profiles[userID].LastName)
	})

	t.Run("self edit is allowed without the capability", func(t *testing.T) {
		repoFake := newRepo()
		svc := NewUserProfile(repoFake, fakePerms{allow: false}, newFakeCache())

		updated, err := svc.UpdateUserProfile(ctx, domain.Requestor{UserID: userID, Role: "Volunteer"}, userID, req)
		require.NoError(t, err)
		assert.Equal(t, "King", updated.LastName)
	})
}

func TestUpdateUserProfileNotFound(t *testing.T) {
	ctx := context.Background()
	repoFake := &fakeProfileRepo{profiles: map[uuid.UUID]domain.UserProfile{}}
	cacheFake := newFakeCache()
	svc := NewUserProfile(repoFake, fakePerms{allow: true}, cacheFake)

	active := false
	_, err := svc.UpdateUserProfile(ctx, admin, uuid.New(), dto.UpdateUserProfileRequest{
		FirstName: "No",
		LastName:  "One",
		Email:     "noone@example.org",
		IsActive:  &active,
	})
	require.ErrorIs(t, err, domain.ErrUserProfileNotFound)
	assert.Empty(t, cacheFake.invalidated)
}

func TestGetUserProfileNotFound(t *testing.T) {
	svc := NewUserProfile(&fakeProfileRepo{profiles: map[uuid.UUID]domain.UserProfile{}}, fakePerms{allow: true}, newFakeCache())

	_, err := svc.GetUserProfile(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrUserProfileNotFound)
}

func TestGetUserProfileServesFromCache(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repoFake := &fakeProfileRepo{profiles: map[uuid.UUID]domain.UserProfile{
		userID: {ID: userID, FirstName: "Grace", LastName: "Hopper", Email: "grace@example.org"},
	}}
	cacheFake := newFakeCache()
	svc := NewUserProfile(repoFake, fakePerms{allow: true}, cacheFake)

	first, err := svc.GetUserProfile(ctx, userID)
	require.NoError(t, err)
	assert.Contains(t, cacheFake.entries, userID, "read must populate the cache")

	// a repo change is invisible until the entry is invalidated
	p := repoFake.profiles[userID]
	p.LastName = "Changed"
	repoFake.profiles[userID] = p

	second, err := svc.GetUserProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	cacheFake.Invalidate(ctx, userID)
	third, err := svc.GetUserProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", third.LastName)
}
