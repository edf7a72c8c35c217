package port

import (
	"context"

	"github.com/db-y99/workhub-api/internal/core/domain"
)

// PermissionRepository exposes permission persistence operations. Every read
// is filtered to non-deleted rows.
type PermissionRepository interface {
	Create(ctx context.Context, permission domain.Permission) error
	GetByCode(ctx context.Context, code string) (*domain.Permission, error)
	List(ctx context.Context) ([]domain.Permission, error)
	// ListByRole returns the permissions granted to a role through
	// role_permissions.
	ListByRole(ctx context.Context, roleID string) ([]domain.Permission, error)
}
