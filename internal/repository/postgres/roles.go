package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
	"github.com/db-y99/workhub-api/internal/repository"
)

// RoleRepository implements role persistence operations.
type RoleRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewRoleRepository constructs a PostgreSQL-backed role repository.
func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new role row.
func (r *RoleRepository) Create(ctx context.Context, role domain.Role) error {
	stmt, args, err := r.builder.Insert(table("roles")).
		Columns("id", "code", "name", "sort_order").
		Values(role.ID, role.Code, role.Name, role.SortOrder).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role sql: %w", err)
	}

	if _, err := r.db.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert role: %w", err)
	}

	return nil
}

// List retrieves all non-deleted roles ordered by sort order, then code.
func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	stmt, args, err := r.builder.Select("id", "code", "name", "sort_order").
		From(table("roles")).
		Where("deleted_at IS NULL").
		OrderBy("sort_order ASC", "code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roles sql: %w", err)
	}

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Code, &role.Name, &role.SortOrder); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	return roles, nil
}

// GetByID retrieves a non-deleted role by id.
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByCode retrieves a non-deleted role by its unique code.
func (r *RoleRepository) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	return r.getBy(ctx, squirrel.Eq{"code": code})
}

func (r *RoleRepository) getBy(ctx context.Context, cond squirrel.Eq) (*domain.Role, error) {
	stmt, args, err := r.builder.Select("id", "code", "name", "sort_order").
		From(table("roles")).
		Where(cond).
		Where("deleted_at IS NULL").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role sql: %w", err)
	}

	row := r.db.QueryRow(ctx, stmt, args...)

	var role domain.Role
	if err := row.Scan(&role.ID, &role.Code, &role.Name, &role.SortOrder); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan role: %w", err)
	}

	return &role, nil
}

// SoftDelete marks the role deleted at the provided instant.
func (r *RoleRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update(table("roles")).
		Set("deleted_at", at).
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete role sql: %w", err)
	}

	tag, err := r.db.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// CountProfiles returns how many non-deleted profiles reference the role.
func (r *RoleRepository) CountProfiles(ctx context.Context, roleID string) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From(table("profiles")).
		Where(squirrel.Eq{"role_id": roleID}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count profiles sql: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count profiles by role: %w", err)
	}

	return count, nil
}

// AssignPermissions links the role to each permission id.
func (r *RoleRepository) AssignPermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	builder := r.builder.Insert(table("role_permissions")).
		Columns("role_id", "permission_id")
	for _, permissionID := range permissionIDs {
		builder = builder.Values(roleID, permissionID)
	}

	stmt, args, err := builder.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("build assign permissions sql: %w", err)
	}

	if _, err := r.db.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("assign permissions: %w", err)
	}

	return nil
}

var _ port.RoleRepository = (*RoleRepository)(nil)
