package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikrambadhan/HGNRest/internal/types/domain"
	"github.com/vikrambadhan/HGNRest/internal/wbs/repo"
)

type fakeWBSRepo struct {
	items map[uuid.UUID]domain.WBS
}

func newFakeWBSRepo() *fakeWBSRepo {
	return &fakeWBSRepo{items: map[uuid.UUID]domain.WBS{}}
}

func (f *fakeWBSRepo) GetAllWBS(_ context.Context, projectID uuid.UUID) ([]domain.WBS, error) {
	var result []domain.WBS
	for _, w := range f.items {
		if w.ProjectID == projectID {
			result = append(result, w)
		}
	}
	return result, nil
}

func (f *fakeWBSRepo) CreateWBS(_ context.Context, w domain.WBS) (domain.WBS, error) {
	f.items[w.ID] = w
	return w, nil
}

func (f *fakeWBSRepo) DeleteWBS(_ context.Context, ID uuid.UUID) error {
	if _, ok := f.items[ID]; !ok {
		return repo.ErrWBSNotFound
	}
	delete(f.items, ID)
	return nil
}

type fakePerms struct {
	allow bool
}

func (f fakePerms) Check(context.Context, domain.Requestor, string) (bool, error) {
	return f.allow, nil
}

func TestCreateWBS(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	t.Run("created", func(t *testing.T) {
		repoFake := newFakeWBSRepo()
		svc := NewWBS(repoFake, fakePerms{allow: true})

		w, err := svc.CreateWBS(ctx, domain.Requestor{Role: "Owner"}, projectID, "Phase 1", true)
		require.NoError(t, err)
		assert.Equal(t, "Phase 1", w.WBSName)
		assert.Len(t, repoFake.items, 1)
	})

	t.Run("forbidden leaves store untouched", func(t *testing.T) {
		repoFake := newFakeWBSRepo()
		svc := NewWBS(repoFake, fakePerms{allow: false})

		_, err := svc.CreateWBS(ctx, domain.Requestor{Role: "Volunteer"}, projectID, "Phase 1", true)
		require.ErrorIs(t, err, domain.ErrForbidden)
		assert.Empty(t, repoFake.items)
	})
}

func TestDeleteWBS(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		repoFake := newFakeWBSRepo()
		id := uuid.New()
		repoFake.items[id] = domain.WBS{ID: id, ProjectID: uuid.New(), WBSName: "Phase 1"}
		svc := NewWBS(repoFake, fakePerms{allow: true})

		require.NoError(t, svc.DeleteWBS(ctx, domain.Requestor{Role: "Owner"}, id))
		assert.Empty(t, repoFake.items)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewWBS(newFakeWBSRepo(), fakePerms{allow: true})

		err := svc.DeleteWBS(ctx, domain.Requestor{Role: "Owner"}, uuid.New())
		require.ErrorIs(t, err, domain.ErrWBSNotFound)
	})
}
