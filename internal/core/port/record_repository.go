package port

import (
	"context"

	"github.com/db-y99/workhub-api/internal/core/domain"
)

// BulletinRepository exposes read access to bulletins. Soft-deleted rows are
// reported as repository.ErrNotFound, indistinguishable from never existing.
type BulletinRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Bulletin, error)
}

// RequestRepository exposes read access to requests with the same soft-delete
// semantics as BulletinRepository.
type RequestRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Request, error)
}
