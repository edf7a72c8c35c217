package port

import (
	"context"
	"time"

	"github.com/db-y99/workhub-api/internal/core/domain"
)

// RoleRepository exposes role persistence operations.
type RoleRepository interface {
	List(ctx context.Context) ([]domain.Role, error)
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByCode(ctx context.Context, code string) (*domain.Role, error)
	Create(ctx context.Context, role domain.Role) error
	// SoftDelete marks the role deleted; reads exclude it from then on.
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// CountProfiles returns how many non-deleted profiles reference the role.
	CountProfiles(ctx context.Context, roleID string) (int, error)
	AssignPermissions(ctx context.Context, roleID string, permissionIDs []string) error
}
