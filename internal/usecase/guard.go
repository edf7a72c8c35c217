package usecase

import (
	"context"
	"fmt"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
)

// Guard is the single authorization decision point shared by every enforcement
// boundary. It verifies the session, resolves the subject's grants, and
// reports a Decision; it performs no side effects of its own.
type Guard struct {
	sessions port.SessionVerifier
	resolver *PermissionResolver
}

// NewGuard constructs a Guard.
func NewGuard(sessions port.SessionVerifier, resolver *PermissionResolver) *Guard {
	return &Guard{sessions: sessions, resolver: resolver}
}

// Authorize evaluates the session token against the required permission codes.
// An empty required set demands authentication only. The required set is an
// OR set: holding any one of the codes suffices, since some pages are
// reachable through more than one grant. A directory failure yields a denial
// with DenyDirectoryUnavailable rather than an error; the guard always
// answers, and the answer under uncertainty is no.
func (g *Guard) Authorize(ctx context.Context, token string, required ...string) (domain.Decision, *domain.Identity) {
	if token == "" {
		return domain.Decision{Outcome: domain.DecisionUnauthenticated}, nil
	}

	identity, err := g.sessions.Verify(ctx, token)
	if err != nil {
		return domain.Decision{Outcome: domain.DecisionUnauthenticated}, nil
	}

	granted, err := g.resolver.Resolve(ctx, identity.SubjectID)
	if err != nil {
		return domain.Decision{
			Outcome: domain.DecisionDeny,
			Reason:  domain.DenyDirectoryUnavailable,
		}, identity
	}

	if len(required) == 0 {
		return domain.Decision{Outcome: domain.DecisionAllow, Granted: granted}, identity
	}

	grantedSet := make(map[string]struct{}, len(granted))
	for _, code := range granted {
		grantedSet[code] = struct{}{}
	}

	for _, code := range required {
		if _, ok := grantedSet[code]; ok {
			return domain.Decision{Outcome: domain.DecisionAllow, Granted: granted}, identity
		}
	}

	return domain.Decision{
		Outcome: domain.DecisionDeny,
		Reason:  domain.DenyMissingPermission,
		Granted: granted,
	}, identity
}

// RequireSubject verifies the session token and returns the identity without
// any permission requirement. Used by endpoints that gate on ownership rather
// than permission codes.
func (g *Guard) RequireSubject(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	identity, err := g.sessions.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	return identity, nil
}
