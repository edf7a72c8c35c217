package port

import (
	"context"

	"github.com/db-y99/workhub-api/internal/core/domain"
)

// SessionVerifier resolves the identity bound to an opaque session token
// issued by the external identity provider. The core never mints or parses
// session material beyond this call.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}
