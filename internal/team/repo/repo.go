package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vikrambadhan/HGNRest/internal/types/domain"
	"github.com/vikrambadhan/HGNRest/pkg/errutils"
)

type TeamRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *TeamRepo {
	return &TeamRepo{db: db}
}

var (
	ErrTeamExists     = errors.New("team exists")
	ErrTeamNotFound   = errors.New("team not found")
	ErrMemberNotFound = errors.New("member not found")
)

func (r *TeamRepo) ListTeams(ctx context.Context) ([]domain.Team, error) {
	query := `
		SELECT id, team_name, is_active, team_code, created_at, modified_at
		FROM teams
		ORDER BY team_name ASC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, errutils.Wrap("failed to query teams", err)
	}
	defer rows.Close()

	var teams []domain.Team
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.TeamName, &t.IsActive, &t.TeamCode, &t.CreatedDatetime, &t.ModifiedDatetime); err != nil {
			return nil, errutils.Wrap("failed to scan team", err)
		}
		index[t.ID] = len(teams)
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errutils.Wrap("rows iteration error", err)
	}

	query = `
		SELECT team_id, user_id, added_at, visible
		FROM team_members;
	`
	memberRows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, errutils.Wrap("failed to query team members", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var teamID uuid.UUID
		var m domain.Membership
		if err := memberRows.Scan(&teamID, &m.UserID, &m.AddDateTime, &m.Visible); err != nil {
			return nil, errutils.Wrap("failed to scan membership", err)
		}
		if i, ok := index[teamID]; ok {
			teams[i].Members = append(teams[i].Members, m)
		}
	}
	if err := memberRows.Err(); err != nil {
		return nil, errutils.Wrap("rows iteration error", err)
	}

	return teams, nil
}

func (r *TeamRepo) GetTeamByID(ctx context.Context, ID uuid.UUID) (domain.Team, error) {
	query := `
		SELECT id, team_name, is_active, team_code, created_at, modified_at
		FROM teams
		WHERE id = $1;
	`

	var t domain.Team
	if err := r.db.QueryRow(ctx, query, ID).Scan(
		&t.ID,
		&t.TeamName,
		&t.IsActive,
		&t.TeamCode,
		&t.CreatedDatetime,
		&t.ModifiedDatetime,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Team{}, ErrTeamNotFound
		}
		return domain.Team{}, errutils.Wrap("failed to get team", err)
	}

	query = `
		SELECT user_id, added_at, visible
		FROM team_members
		WHERE team_id = $1;
	`
	rows, err := r.db.Query(ctx, query, ID)
	if err != nil {
		return domain.Team{}, errutils.Wrap("failed to query team members", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.UserID, &m.AddDateTime, &m.Visible); err != nil {
			return domain.Team{}, errutils.Wrap("failed to scan membership", err)
		}
		t.Members = append(t.Members, m)
	}
	if err := rows.Err(); err != nil {
		return domain.Team{}, errutils.Wrap("rows iteration error", err)
	}

	return t, nil
}

func (r *TeamRepo) TeamExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM teams WHERE team_name = $1)`
	var exists bool

	if err := r.db.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, errutils.Wrap("failed to check existing team", err)
	}

	return exists, nil
}

func (r *TeamRepo) CreateTeam(ctx context.Context, team domain.Team) (domain.Team, error) {
	query := `
		INSERT INTO teams (id, team_name, is_active, team_code, created_at, modified_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, modified_at;
	`

	if err := r.db.QueryRow(ctx, query, team.ID, team.TeamName, team.IsActive, team.TeamCode).
		Scan(&team.CreatedDatetime, &team.ModifiedDatetime); err != nil {
		if isUniqueViolation(err) {
			return domain.Team{}, ErrTeamExists
		}
		return domain.Team{}, errutils.Wrap("failed to create team", err)
	}

	return team, nil
}

func (r *TeamRepo) UpdateTeam(ctx context.Context, ID uuid.UUID, teamName string, isActive bool, teamCode string) error {
	query := `
		UPDATE teams
		SET team_name = $1,
		    is_active = $2,
		    team_code = $3,
		    modified_at = NOW()
		WHERE id = $4;
	`

	res, err := r.db.Exec(ctx, query, teamName, isActive, teamCode, ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTeamExists
		}
		return errutils.Wrap("failed to update team", err)
	}
	if res.RowsAffected() == 0 {
		return ErrTeamNotFound
	}

	return nil
}

func (r *TeamRepo) DeleteTeam(ctx context.Context, ID uuid.UUID) error {
	// team_members rows go with the team via ON DELETE CASCADE
	query := `DELETE FROM teams WHERE id = $1;`

	res, err := r.db.Exec(ctx, query, ID)
	if err != nil {
		return errutils.Wrap("failed to delete team", err)
	}
	if res.RowsAffected() == 0 {
		return ErrTeamNotFound
	}

	return nil
}

// AddMember adds the user to the team with set semantics: adding an
// existing member returns the existing record unchanged.
func (r *TeamRepo) AddMember(ctx context.Context, teamID, userID uuid.UUID) (domain.Membership, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Membership{}, errutils.Wrap("failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		INSERT INTO team_members (team_id, user_id, added_at, visible)
		VALUES ($1, $2, NOW(), TRUE)
		ON CONFLICT (team_id, user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, added_at, visible;
	`

	var m domain.Membership
	if err := tx.QueryRow(ctx, query, teamID, userID).Scan(&m.UserID, &m.AddDateTime, &m.Visible); err != nil {
		return domain.Membership{}, errutils.Wrap("failed to add member", err)
	}

	query = `UPDATE teams SET modified_at = NOW() WHERE id = $1;`
	if _, err := tx.Exec(ctx, query, teamID); err != nil {
		return domain.Membership{}, errutils.Wrap("failed to touch team", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Membership{}, errutils.Wrap("failed to commit transaction", err)
	}

	return m, nil
}

// RemoveMember is idempotent: removing a user who is not a member is a
// no-op, not an error.
func (r *TeamRepo) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errutils.Wrap("failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2;`
	if _, err := tx.Exec(ctx, query, teamID, userID); err != nil {
		return errutils.Wrap("failed to remove member", err)
	}

	query = `UPDATE teams SET modified_at = NOW() WHERE id = $1;`
	if _, err := tx.Exec(ctx, query, teamID); err != nil {
		return errutils.Wrap("failed to touch team", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errutils.Wrap("failed to commit transaction", err)
	}

	return nil
}

func (r *TeamRepo) SetMemberVisibility(ctx context.Context, teamID, userID uuid.UUID, visible bool) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errutils.Wrap("failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		UPDATE team_members
		SET visible = $1
		WHERE team_id = $2 AND user_id = $3;
	`
	res, err := tx.Exec(ctx, query, visible, teamID, userID)
	if err != nil {
		return errutils.Wrap("failed to set member visibility", err)
	}
	if res.RowsAffected() == 0 {
		return ErrMemberNotFound
	}

	query = `UPDATE teams SET modified_at = NOW() WHERE id = $1;`
	if _, err := tx.Exec(ctx, query, teamID); err != nil {
		return errutils.Wrap("failed to touch team", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errutils.Wrap("failed to commit transaction", err)
	}

	return nil
}

// GetTeamMembership joins each membership against user_profiles,
// producing one composite record per member. Row order follows the
// storage join and is not guaranteed.
func (r *TeamRepo) GetTeamMembership(ctx context.Context, teamID uuid.UUID) ([]domain.MemberProfile, error) {
	query := `
		SELECT m.user_id, m.added_at, p.first_name, p.last_name, p.email, p.role, p.is_active
		FROM team_members m
		JOIN user_profiles p ON p.id = m.user_id
		WHERE m.team_id = $1;
	`

	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, errutils.Wrap("failed to query team membership", err)
	}
	defer rows.Close()

	var members []domain.MemberProfile
	for rows.Next() {
		var m domain.MemberProfile
		if err := rows.Scan(&m.UserID, &m.AddDateTime, &m.FirstName, &m.LastName, &m.Email, &m.Role, &m.IsActive); err != nil {
			return nil, errutils.Wrap("failed to scan member profile", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errutils.Wrap("rows iteration error", err)
	}

	return members, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
