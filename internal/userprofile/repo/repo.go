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

type UserProfileRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *UserProfileRepo {
	return &UserProfileRepo{db: db}
}

var (
	ErrUserProfileNotFound = errors.New("user profile not found")
)

func (r *UserProfileRepo) GetUserProfiles(ctx context.Context) ([]domain.UserProfile, error) {
	query := `
		SELECT id, first_name, last_name, email, role, is_active
		FROM user_profiles
		ORDER BY last_name, first_name;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, errutils.Wrap("failed to query user profiles", err)
	}
	defer rows.Close()

	var profiles []domain.UserProfile
	for rows.Next() {
		var p domain.UserProfile
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Role, &p.IsActive); err != nil {
			return nil, errutils.Wrap("failed to scan user profile", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errutils.Wrap("rows iteration error", err)
	}

	return profiles, nil
}

func (r *UserProfileRepo) GetUserProfileByID(ctx context.Context, ID uuid.UUID) (domain.UserProfile, error) {
	query := `
		SELECT id, first_name, last_name, email, role, permissions, is_active, created_at, updated_at
		FROM user_profiles
		WHERE id = $1;
	`

	var p domain.UserProfile
	if err := r.db.QueryRow(ctx, query, ID).Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.Role,
		&p.Permissions,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserProfile{}, ErrUserProfileNotFound
		}
		return domain.UserProfile{}, errutils.Wrap("failed to get user profile", err)
	}

	query = `SELECT team_id FROM user_profile_teams WHERE user_id = $1;`
	rows, err := r.db.Query(ctx, query, ID)
	if err != nil {
		return domain.UserProfile{}, errutils.Wrap("failed to query profile teams", err)
	}
	defer rows.Close()

	for rows.Next() {
		var teamID uuid.UUID
		if err := rows.Scan(&teamID); err != nil {
			return domain.UserProfile{}, errutils.Wrap("failed to scan profile team", err)
		}
		p.Teams = append(p.Teams, teamID)
	}
	if err := rows.Err(); err != nil {
		return domain.UserProfile{}, errutils.Wrap("rows iteration error", err)
	}

	return p, nil
}

func (r *UserProfileRepo) UpdateUserProfile(ctx context.Context, ID uuid.UUID, firstName, lastName, email string, isActive bool) error {
	query := `
		UPDATE user_profiles
		SET first_name = $1,
		    last_name = $2,
		    email = $3,
		    is_active = $4,
		    updated_at = NOW()
		WHERE id = $5;
	`

	res, err := r.db.Exec(ctx, query, firstName, lastName, email, isActive, ID)
	if err != nil {
		return errutils.Wrap("failed to update user profile", err)
	}
	if res.RowsAffected() == 0 {
		return ErrUserProfileNotFound
	}

	return nil
}

// AddTeamToProfile mirrors a membership into the profile's team set.
// Adding an already-present team is a no-op.
func (r *UserProfileRepo) AddTeamToProfile(ctx context.Context, userID, teamID uuid.UUID) error {
	query := `
		INSERT INTO user_profile_teams (user_id, team_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, team_id) DO NOTHING;
	`

	if _, err := r.db.Exec(ctx, query, userID, teamID); err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserProfileNotFound
		}
		return errutils.Wrap("failed to add team to profile", err)
	}

	return nil
}

func (r *UserProfileRepo) RemoveTeamFromProfile(ctx context.Context, userID, teamID uuid.UUID) error {
	query := `DELETE FROM user_profile_teams WHERE user_id = $1 AND team_id = $2;`

	if _, err := r.db.Exec(ctx, query, userID, teamID); err != nil {
		return errutils.Wrap("failed to remove team from profile", err)
	}

	return nil
}

func (r *UserProfileRepo) AddTeamToProfiles(ctx context.Context, userIDs []uuid.UUID, teamID uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO user_profile_teams (user_id, team_id)
		SELECT unnest($1::uuid[]), $2
		ON CONFLICT (user_id, team_id) DO NOTHING;
	`

	if _, err := r.db.Exec(ctx, query, userIDs, teamID); err != nil {
		return errutils.Wrap("failed to add team to profiles", err)
	}

	return nil
}

func (r *UserProfileRepo) RemoveTeamFromProfiles(ctx context.Context, userIDs []uuid.UUID, teamID uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}

	query := `DELETE FROM user_profile_teams WHERE user_id = ANY($1) AND team_id = $2;`

	if _, err := r.db.Exec(ctx, query, userIDs, teamID); err != nil {
		return errutils.Wrap("failed to remove team from profiles", err)
	}

	return nil
}

// RemoveTeamFromAllProfiles pulls a deleted team out of every profile
// team set that references it.
func (r *UserProfileRepo) RemoveTeamFromAllProfiles(ctx context.Context, teamID uuid.UUID) error {
	query := `DELETE FROM user_profile_teams WHERE team_id = $1;`

	if _, err := r.db.Exec(ctx, query, teamID); err != nil {
		return errutils.Wrap("failed to remove team from profiles", err)
	}

	return nil
}

func (r *UserProfileRepo) GetTeamMembersOfUser(ctx context.Context, userID uuid.UUID) ([]domain.UserProfile, error) {
	query := `
		SELECT DISTINCT p.id, p.first_name, p.last_name, p.email, p.role, p.is_active
		FROM user_profiles p
		JOIN user_profile_teams upt ON upt.user_id = p.id
		WHERE upt.team_id IN (SELECT team_id FROM user_profile_teams WHERE user_id = $1)
		  AND p.id != $1;
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, errutils.Wrap("failed to query team members of user", err)
	}
	defer rows.Close()

	var profiles []domain.UserProfile
	for rows.Next() {
		var p domain.UserProfile
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Role, &p.IsActive); err != nil {
			return nil, errutils.Wrap("failed to scan user profile", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errutils.Wrap("rows iteration error", err)
	}

	return profiles, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
