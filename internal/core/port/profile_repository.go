package port

import (
	"context"

	"github.com/db-y99/workhub-api/internal/core/domain"
)

// ProfileRepository exposes read access to directory-store profiles.
type ProfileRepository interface {
	// GetByID returns the non-deleted profile for the identity subject, or
	// repository.ErrNotFound when absent or soft-deleted.
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
}
