package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
	"github.com/db-y99/workhub-api/internal/repository"
)

// CreateRoleInput captures the payload for creating a role.
type CreateRoleInput struct {
	Code            string
	Name            string
	SortOrder       int
	PermissionCodes []string
}

// RoleService manages roles and their permission assignments.
type RoleService struct {
	roles       port.RoleRepository
	permissions port.PermissionRepository
	events      port.EventPublisher
}

// NewRoleService constructs a RoleService.
func NewRoleService(roles port.RoleRepository, permissions port.PermissionRepository, events port.EventPublisher) *RoleService {
	return &RoleService{roles: roles, permissions: permissions, events: events}
}

// ListRoles returns all live roles in display order.
func (s *RoleService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// CreateRole provisions a role and assigns the named permissions to it.
func (s *RoleService) CreateRole(ctx context.Context, input CreateRoleInput) (*domain.Role, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: role code is required", ErrBadRequest)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrBadRequest)
	}

	if existing, err := s.roles.GetByCode(ctx, code); err == nil && existing != nil {
		return nil, ErrRoleExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup role by code: %w", err)
	}

	permissionIDs := make([]string, 0, len(input.PermissionCodes))
	for _, permissionCode := range input.PermissionCodes {
		permission, err := s.permissions.GetByCode(ctx, strings.TrimSpace(permissionCode))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown permission %q", ErrBadRequest, permissionCode)
			}
			return nil, fmt.Errorf("lookup permission by code: %w", err)
		}
		permissionIDs = append(permissionIDs, permission.ID)
	}

	role := domain.Role{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		SortOrder: input.SortOrder,
	}

	if err := s.roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}

	if err := s.roles.AssignPermissions(ctx, role.ID, permissionIDs); err != nil {
		return nil, fmt.Errorf("assign permissions: %w", err)
	}

	return &role, nil
}

// DeleteRole soft-deletes a role. Roles still assigned to live profiles are
// refused; the assignment must be cleared first.
func (s *RoleService) DeleteRole(ctx context.Context, actorID, roleID string) error {
	roleID = strings.TrimSpace(roleID)
	if roleID == "" {
		return fmt.Errorf("%w: role id is required", ErrBadRequest)
	}

	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("get role: %w", err)
	}

	count, err := s.roles.CountProfiles(ctx, roleID)
	if err != nil {
		return fmt.Errorf("count role profiles: %w", err)
	}
	if count > 0 {
		return ErrRoleInUse
	}

	if err := s.roles.SoftDelete(ctx, roleID, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("delete role: %w", err)
	}

	event := domain.RoleDeletedEvent{
		EventID:    uuid.NewString(),
		RoleID:     role.ID,
		RoleCode:   role.Code,
		DeletedBy:  actorID,
		OccurredAt: time.Now().UTC(),
	}
	_ = s.events.PublishRoleDeleted(ctx, event)

	return nil
}

// ListRolePermissions returns the permissions currently granted to a role.
func (s *RoleService) ListRolePermissions(ctx context.Context, roleID string) ([]domain.Permission, error) {
	roleID = strings.TrimSpace(roleID)
	if roleID == "" {
		return nil, fmt.Errorf("%w: role id is required", ErrBadRequest)
	}

	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("get role: %w", err)
	}

	permissions, err := s.permissions.ListByRole(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}

	return permissions, nil
}
