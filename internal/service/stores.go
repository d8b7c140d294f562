// Package service composes the credential store, hasher and token
// primitives into the session-lifecycle and auth orchestration flows.
package service

import (
	"context"
	"time"

	"github.com/guildofheroes/goh-api/internal/model"
)

// The service layer depends on narrow store interfaces rather than the
// concrete repositories so tests can substitute in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, username, email string, passwordHash *string, displayName, role string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	PasswordHash(ctx context.Context, id int64) (*string, error)
	VerifyEmail(ctx context.Context, id int64) error
}

type SessionStore interface {
	Create(ctx context.Context, userID int64, refreshToken string, expiresAt time.Time, userAgent, ipAddress *string) (*model.Session, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (*model.Session, error)
	Revoke(ctx context.Context, refreshToken string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
}

type MagicLinkStore interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	FindByToken(ctx context.Context, token string) (*model.MagicLink, error)
	MarkUsed(ctx context.Context, token string) error
}

// AuditLog receives fire-and-forget records of every mutating flow.
type AuditLog interface {
	LogAction(ctx context.Context, actorID *int64, action, resourceType string, resourceID *int64, details map[string]any, correlationID string)
}
