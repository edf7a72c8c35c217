package security

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
	"github.com/db-y99/workhub-api/internal/infra/config"
)

// ErrInvalidSession indicates a token that fails signature or claim checks.
var ErrInvalidSession = errors.New("session: invalid token")

// ErrExpiredSession indicates a structurally valid but expired token.
var ErrExpiredSession = errors.New("session: token expired")

// SessionVerifier validates session tokens minted by the external identity
// provider. This service never issues tokens; it only checks them.
type SessionVerifier struct {
	secret []byte
	issuer string
}

// NewSessionVerifier constructs a verifier from session settings.
func NewSessionVerifier(cfg config.SessionSettings) (*SessionVerifier, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("session: secret is required")
	}
	return &SessionVerifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}, nil
}

// Verify checks the token signature, expiry and issuer, and returns the
// bound identity.
func (v *SessionVerifier) Verify(_ context.Context, token string) (*domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidSession
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if !parsed.Valid {
		return nil, ErrInvalidSession
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidSession)
	}

	identity := &domain.Identity{SubjectID: subject}
	if claims.IssuedAt != nil {
		identity.AuthenticatedAt = claims.IssuedAt.Time
	}

	return identity, nil
}

var _ port.SessionVerifier = (*SessionVerifier)(nil)
