package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
	"github.com/db-y99/workhub-api/internal/repository"
)

// PermissionResolver derives the effective permission codes for a subject by
// walking profile -> role -> role_permissions on every call. Results are never
// cached across requests, so a role edit takes effect on the next evaluation.
type PermissionResolver struct {
	profiles    port.ProfileRepository
	permissions port.PermissionRepository
}

// NewPermissionResolver constructs a PermissionResolver.
func NewPermissionResolver(profiles port.ProfileRepository, permissions port.PermissionRepository) *PermissionResolver {
	return &PermissionResolver{profiles: profiles, permissions: permissions}
}

// Resolve returns the permission codes granted to the subject. A subject with
// no profile, an inactive profile, or no role resolves to the empty set; that
// is a valid result, not an error. Directory failures surface as
// ErrDirectoryUnavailable so callers can fail closed.
func (r *PermissionResolver) Resolve(ctx context.Context, subjectID string) ([]string, error) {
	profile, err := r.profiles.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: load profile: %v", ErrDirectoryUnavailable, err)
	}

	if profile.Status != domain.ProfileActive || profile.RoleID == nil {
		return nil, nil
	}

	permissions, err := r.permissions.ListByRole(ctx, *profile.RoleID)
	if err != nil {
		return nil, fmt.Errorf("%w: list role permissions: %v", ErrDirectoryUnavailable, err)
	}

	codes := make([]string, 0, len(permissions))
	for _, permission := range permissions {
		codes = append(codes, permission.Code)
	}

	return codes, nil
}

// Profile returns the subject's directory profile, or nil when the subject
// has none. Directory failures surface as ErrDirectoryUnavailable.
func (r *PermissionResolver) Profile(ctx context.Context, subjectID string) (*domain.Profile, error) {
	profile, err := r.profiles.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: load profile: %v", ErrDirectoryUnavailable, err)
	}
	return profile, nil
}
