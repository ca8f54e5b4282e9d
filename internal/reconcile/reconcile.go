package reconcile

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/vikrambadhan/HGNRest/internal/metrics"
	"github.com/vikrambadhan/HGNRest/pkg/errutils"
)

// Reconciler recomputes the user_profile_teams mirror from the
// authoritative team_members visibility flags. Membership writes go to
// the team store and the profile store as independent calls, so a
// partial failure can leave the two out of sync; this job heals that
// drift. Both statements are idempotent, so overlapping or repeated
// runs are harmless.
type Reconciler struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Reconciler {
	return &Reconciler{db: db}
}

// Run performs a single reconciliation pass and returns the number of
// inserted and deleted mirror entries.
func (r *Reconciler) Run(ctx context.Context) (added int64, removed int64, err error) {
	query := `
		INSERT INTO user_profile_teams (user_id, team_id)
		SELECT m.user_id, m.team_id
		FROM team_members m
		JOIN user_profiles p ON p.id = m.user_id
		WHERE m.visible = TRUE
		ON CONFLICT (user_id, team_id) DO NOTHING;
	`
	res, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, 0, errutils.Wrap("failed to insert missing profile teams", err)
	}
	added = res.RowsAffected()

	query = `
		DELETE FROM user_profile_teams upt
		WHERE NOT EXISTS (
			SELECT 1
			FROM team_members m
			WHERE m.team_id = upt.team_id
			  AND m.user_id = upt.user_id
			  AND m.visible = TRUE
		);
	`
	res, err = r.db.Exec(ctx, query)
	if err != nil {
		return added, 0, errutils.Wrap("failed to delete stale profile teams", err)
	}
	removed = res.RowsAffected()

	metrics.AddReconcileRepairs("added", added)
	metrics.AddReconcileRepairs("removed", removed)

	return added, removed, nil
}

// Start runs the job on the given interval until ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			added, removed, err := r.Run(ctx)
			if err != nil {
				log.Logger.Error().Err(err).Msg("membership reconciliation failed")
				continue
			}
			if added > 0 || removed > 0 {
				log.Logger.Info().
					Int64("added", added).
					Int64("removed", removed).
					Msg("membership reconciliation repaired drift")
			}
		}
	}
}
