package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
	"github.com/db-y99/workhub-api/internal/repository"
)

// PermissionRepository implements port.PermissionRepository over PostgreSQL.
type PermissionRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewPermissionRepository constructs a permission repository instance.
func NewPermissionRepository(db DB) *PermissionRepository {
	return &PermissionRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new permission row.
func (r *PermissionRepository) Create(ctx context.Context, permission domain.Permission) error {
	stmt, args, err := r.builder.Insert(table("permissions")).
		Columns("id", "code", "name", "sort_order").
		Values(permission.ID, permission.Code, permission.Name, permission.SortOrder).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert permission sql: %w", err)
	}

	if _, err := r.db.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert permission: %w", err)
	}

	return nil
}

// GetByCode retrieves a non-deleted permission by its unique code.
func (r *PermissionRepository) GetByCode(ctx context.Context, code string) (*domain.Permission, error) {
	stmt, args, err := r.builder.Select("id", "code", "name", "sort_order").
		From(table("permissions")).
		Where(squirrel.Eq{"code": code}).
		Where("deleted_at IS NULL").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select permission by code sql: %w", err)
	}

	row := r.db.QueryRow(ctx, stmt, args...)

	var permission domain.Permission
	if err := row.Scan(&permission.ID, &permission.Code, &permission.Name, &permission.SortOrder); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan permission by code: %w", err)
	}

	return &permission, nil
}

// List returns all non-deleted permissions ordered by sort order, then code.
func (r *PermissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	stmt, args, err := r.builder.Select("id", "code", "name", "sort_order").
		From(table("permissions")).
		Where("deleted_at IS NULL").
		OrderBy("sort_order ASC", "code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list permissions sql: %w", err)
	}

	return r.queryPermissions(ctx, stmt, args)
}

// ListByRole returns non-deleted permissions mapped to a role via
// role_permissions.
func (r *PermissionRepository) ListByRole(ctx context.Context, roleID string) ([]domain.Permission, error) {
	stmt, args, err := r.builder.Select("p.id", "p.code", "p.name", "p.sort_order").
		From(table("permissions") + " p").
		Join(table("role_permissions") + " rp ON rp.permission_id = p.id").
		Where(squirrel.Eq{"rp.role_id": roleID}).
		Where("p.deleted_at IS NULL").
		OrderBy("p.sort_order ASC", "p.code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build permissions by role sql: %w", err)
	}

	return r.queryPermissions(ctx, stmt, args)
}

func (r *PermissionRepository) queryPermissions(ctx context.Context, stmt string, args []any) ([]domain.Permission, error) {
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	defer rows.Close()

	var permissions []domain.Permission
	for rows.Next() {
		var permission domain.Permission
		if err := rows.Scan(&permission.ID, &permission.Code, &permission.Name, &permission.SortOrder); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		permissions = append(permissions, permission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}

	return permissions, nil
}

var _ port.PermissionRepository = (*PermissionRepository)(nil)
