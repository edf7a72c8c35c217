package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
	"github.com/db-y99/workhub-api/internal/repository"
)

// OwnershipPolicy decides whether a subject may read a specific bulletin or
// request. Permission codes gate pages; this policy gates individual records.
type OwnershipPolicy struct {
	resolver *PermissionResolver
	roles    port.RoleRepository
}

// NewOwnershipPolicy constructs an OwnershipPolicy.
func NewOwnershipPolicy(resolver *PermissionResolver, roles port.RoleRepository) *OwnershipPolicy {
	return &OwnershipPolicy{resolver: resolver, roles: roles}
}

// CanReadBulletin reports whether the subject may read the bulletin. A
// bulletin with no department targeting is company-wide and readable by any
// subject with a profile; a targeted bulletin requires membership in one of
// the target departments. Admins read everything.
func (p *OwnershipPolicy) CanReadBulletin(ctx context.Context, subjectID string, bulletin *domain.Bulletin) (bool, error) {
	profile, err := p.resolver.Profile(ctx, subjectID)
	if err != nil {
		return false, err
	}
	if profile == nil || profile.Status != domain.ProfileActive {
		return false, nil
	}

	admin, err := p.isAdmin(ctx, profile)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}

	if len(bulletin.DepartmentIDs) == 0 {
		return true, nil
	}

	if profile.DepartmentID == nil {
		return false, nil
	}
	for _, id := range bulletin.DepartmentIDs {
		if id == *profile.DepartmentID {
			return true, nil
		}
	}

	return false, nil
}

// CanReadRequest reports whether the subject may read the request. A profile
// is required even for the author; an unprovisioned or deactivated subject
// reads nothing. With a live profile the author always may; otherwise the
// subject must be an admin or belong to the request's department.
func (p *OwnershipPolicy) CanReadRequest(ctx context.Context, subjectID string, request *domain.Request) (bool, error) {
	profile, err := p.resolver.Profile(ctx, subjectID)
	if err != nil {
		return false, err
	}
	if profile == nil || profile.Status != domain.ProfileActive {
		return false, nil
	}

	if request.RequestedBy == subjectID {
		return true, nil
	}

	admin, err := p.isAdmin(ctx, profile)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}

	return profile.DepartmentID != nil && *profile.DepartmentID == request.DepartmentID, nil
}

func (p *OwnershipPolicy) isAdmin(ctx context.Context, profile *domain.Profile) (bool, error) {
	if profile.RoleID == nil {
		return false, nil
	}

	role, err := p.roles.GetByID(ctx, *profile.RoleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: load role: %v", ErrDirectoryUnavailable, err)
	}

	return role.Code == domain.AdminRoleCode, nil
}
