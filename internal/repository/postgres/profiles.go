package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
	"github.com/db-y99/workhub-api/internal/repository"
)

// ProfileRepository implements port.ProfileRepository over PostgreSQL.
type ProfileRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewProfileRepository constructs a profile repository instance.
func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a non-deleted profile by identity subject id.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	stmt, args, err := r.builder.Select("id", "department_id", "role_id", "status").
		From(table("profiles")).
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select profile sql: %w", err)
	}

	row := r.db.QueryRow(ctx, stmt, args...)

	var (
		profile      domain.Profile
		departmentID sql.NullString
		roleID       sql.NullString
	)

	if err := row.Scan(&profile.ID, &departmentID, &roleID, &profile.Status); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	if departmentID.Valid {
		profile.DepartmentID = &departmentID.String
	}
	if roleID.Valid {
		profile.RoleID = &roleID.String
	}

	return &profile, nil
}

var _ port.ProfileRepository = (*ProfileRepository)(nil)
