package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	uuid "github.com/google/uuid"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
	"github.com/db-y99/workhub-api/internal/repository"
)

// CreatePermissionInput captures the payload for creating a permission.
type CreatePermissionInput struct {
	Code      string
	Name      string
	SortOrder int
}

// PermissionService manages the permission catalog.
type PermissionService struct {
	permissions port.PermissionRepository
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(permissions port.PermissionRepository) *PermissionService {
	return &PermissionService{permissions: permissions}
}

// CreatePermission provisions a new permission. Codes follow the
// "<page>:<action>" convention with a known action verb.
func (s *PermissionService) CreatePermission(ctx context.Context, input CreatePermissionInput) (*domain.Permission, error) {
	code := strings.TrimSpace(input.Code)
	if err := ValidatePermissionCode(code); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: permission name is required", ErrBadRequest)
	}

	if existing, err := s.permissions.GetByCode(ctx, code); err == nil && existing != nil {
		return nil, ErrPermissionExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup permission by code: %w", err)
	}

	permission := domain.Permission{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		SortOrder: input.SortOrder,
	}

	if err := s.permissions.Create(ctx, permission); err != nil {
		return nil, fmt.Errorf("create permission: %w", err)
	}

	return &permission, nil
}

// ListPermissions returns the whole catalog in display order.
func (s *PermissionService) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	permissions, err := s.permissions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return permissions, nil
}

// ValidatePermissionCode checks the "<page>:<action>" shape and that the
// action is one of the known verbs.
func ValidatePermissionCode(code string) error {
	page, action, found := strings.Cut(code, ":")
	if !found || page == "" || action == "" {
		return fmt.Errorf("%w: %q is not of the form page:action", ErrInvalidPermissionCode, code)
	}
	if strings.ContainsAny(page, " :") {
		return fmt.Errorf("%w: page %q contains invalid characters", ErrInvalidPermissionCode, page)
	}
	for _, known := range domain.PermissionActions {
		if action == known {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown action %q", ErrInvalidPermissionCode, action)
}
