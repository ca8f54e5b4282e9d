package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vikrambadhan/HGNRest/internal/types/domain"
	"github.com/vikrambadhan/HGNRest/pkg/errutils"
)

type WBSRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *WBSRepo {
	return &WBSRepo{db: db}
}

var (
	ErrWBSNotFound = errors.New("wbs not found")
)

func (r *WBSRepo) GetAllWBS(ctx context.Context, projectID uuid.UUID) ([]domain.WBS, error) {
	query := `
		SELECT id, project_id, wbs_name, is_active, modified_at
		FROM wbs
		WHERE project_id = $1
		ORDER BY modified_at DESC;
	`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, errutils.Wrap("failed to query wbs", err)
	}
	defer rows.Close()

	var items []domain.WBS
	for rows.Next() {
		var w domain.WBS
		if err := rows.Scan(&w.ID, &w.ProjectID, &w.WBSName, &w.IsActive, &w.ModifiedDatetime); err != nil {
			return nil, errutils.Wrap("failed to scan wbs", err)
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, errutils.Wrap("rows iteration error", err)
	}

	return items, nil
}

func (r *WBSRepo) CreateWBS(ctx context.Context, w domain.WBS) (domain.WBS, error) {
	query := `
		INSERT INTO wbs (id, project_id, wbs_name, is_active, created_at, modified_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, modified_at;
	`

	if err := r.db.QueryRow(ctx, query, w.ID, w.ProjectID, w.WBSName, w.IsActive).
		Scan(&w.CreatedDatetime, &w.ModifiedDatetime); err != nil {
		return domain.WBS{}, errutils.Wrap("failed to create wbs", err)
	}

	return w, nil
}

func (r *WBSRepo) DeleteWBS(ctx context.Context, ID uuid.UUID) error {
	query := `DELETE FROM wbs WHERE id = $1;`

	res, err := r.db.Exec(ctx, query, ID)
	if err != nil {
		return errutils.Wrap("failed to delete wbs", err)
	}
	if res.RowsAffected() == 0 {
		return ErrWBSNotFound
	}

	return nil
}
