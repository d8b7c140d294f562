package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/guildofheroes/goh-api/internal/apperr"
	"github.com/guildofheroes/goh-api/internal/auth"
	"github.com/guildofheroes/goh-api/internal/model"
	"github.com/guildofheroes/goh-api/internal/observability"
	"github.com/guildofheroes/goh-api/internal/observability/metrics"
	"github.com/guildofheroes/goh-api/internal/repository"
)

// TokenConfig carries the signing secret and lifetimes the orchestrator
// binds at construction. Tests and multi-tenant callers build separate
// services with their own values.
type TokenConfig struct {
	JWTSecret        string
	AccessTTLMinutes int
	RefreshTTLDays   int
	MagicLinkTTLMin  int
	BcryptCost       int
}

// MagicLinkNotifier delivers a freshly minted magic link over a side
// channel (mail queue). Best effort; never part of the flow's contract.
type MagicLinkNotifier interface {
	MagicLinkIssued(ctx context.Context, email, token string, expiresAt time.Time)
}

// AuthService composes the credential store, hasher, token primitives
// and session manager into the user-facing auth flows.
type AuthService struct {
	Users    UserStore
	Links    MagicLinkStore
	Sessions *SessionManager
	Audit    AuditLog
	Metrics  metrics.Recorder
	Notifier MagicLinkNotifier // optional
	Cfg      TokenConfig
}

func NewAuthService(users UserStore, links MagicLinkStore, sessions *SessionManager, audit AuditLog, rec metrics.Recorder, cfg TokenConfig) *AuthService {
	return &AuthService{
		Users:    users,
		Links:    links,
		Sessions: sessions,
		Audit:    audit,
		Metrics:  rec,
		Cfg:      cfg,
	}
}

// AuthResult is the outcome of any flow that establishes a login.
type AuthResult struct {
	User         model.PrivateProfile `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// RefreshResult carries the rotated token pair.
type RefreshResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// MagicLinkResult is returned by CreateMagicLink. The token is also
// handed to the notifier; returning it keeps the CLI/test flows usable
// without a mail channel.
type MagicLinkResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

var atSign = regexp.MustCompile("@")

func validateRegistration(username, email, password string) error {
	if err := validation.Validate(username, validation.Required, validation.Length(3, 0)); err != nil {
		return apperr.Validation("Username must be at least 3 characters")
	}
	if err := validation.Validate(password, validation.Required, validation.Length(8, 0)); err != nil {
		return apperr.Validation("Password must be at least 8 characters")
	}
	if err := validation.Validate(email, validation.Required, validation.Match(atSign)); err != nil {
		return apperr.Validation("Invalid email address")
	}
	return nil
}

// Register creates an account and logs it straight in. Uniqueness is
// pre-checked username first, then email, so the caller learns exactly
// which field collided; the store's unique constraints remain the
// backstop for the check-then-insert race.
func (s *AuthService) Register(ctx context.Context, username, email, password, displayName string) (*AuthResult, error) {
	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	if _, err := s.Users.FindByUsername(ctx, username); err == nil {
		return nil, apperr.Duplicate("User", "username", username)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Users.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Duplicate("User", "email", email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.Cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	if displayName == "" {
		displayName = username
	}
	user, err := s.Users.Create(ctx, username, email, &hash, displayName, model.RolePlayer)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the check-then-insert race. Blame the column the
			// store names; username is the fallback, matching the
			// pre-check order.
			field, value := "username", username
			var de *repository.DuplicateError
			if errors.As(err, &de) && de.Field == "email" {
				field, value = "email", email
			}
			return nil, apperr.Duplicate("User", field, value)
		}
		return nil, err
	}

	result, err := s.issueTokens(ctx, user, nil, nil)
	if err != nil {
		return nil, err
	}

	s.Audit.LogAction(ctx, &user.ID, "register", "user", &user.ID, nil, observability.CorrelationID(ctx))
	s.Metrics.Increment("auth.register.success", 1)
	slog.Info("user registered", "user_id", user.ID, "username", username)
	return result, nil
}

// LoginPassword authenticates with username + password. Unknown user,
// passwordless account and wrong password all collapse to the identical
// InvalidCredentials error so usernames cannot be enumerated.
func (s *AuthService) LoginPassword(ctx context.Context, username, password string, userAgent, ipAddress *string) (*AuthResult, error) {
	user, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.Metrics.Increment("auth.login.failure", 1)
			return nil, apperr.InvalidCredentials()
		}
		return nil, err
	}

	hash, err := s.Users.PasswordHash(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if hash == nil || !auth.VerifyPassword(*hash, password) {
		s.Metrics.Increment("auth.login.failure", 1)
		return nil, apperr.InvalidCredentials()
	}

	result, err := s.issueTokens(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	s.Audit.LogAction(ctx, &user.ID, "login_password", "session", nil, nil, observability.CorrelationID(ctx))
	s.Metrics.Increment("auth.login.success", 1)
	slog.Info("password login", "user_id", user.ID)
	return result, nil
}

// CreateMagicLink mints a single-use passwordless login token for the
// account behind email. Unknown emails are reported as NotFound — this
// reveals account existence, unlike LoginPassword; the asymmetry is the
// documented account-recovery behavior.
func (s *AuthService) CreateMagicLink(ctx context.Context, email string) (*MagicLinkResult, error) {
	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User", email)
		}
		return nil, err
	}

	token, err := auth.OpaqueToken(48)
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().UTC().Add(time.Duration(s.Cfg.MagicLinkTTLMin) * time.Minute)
	if err := s.Links.Create(ctx, user.ID, token, expiresAt); err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.MagicLinkIssued(ctx, user.Email, token, expiresAt)
	}
	s.Audit.LogAction(ctx, &user.ID, "create_magic_link", "magic_link", nil, nil, observability.CorrelationID(ctx))
	slog.Info("magic link created", "user_id", user.ID)
	return &MagicLinkResult{Token: token, ExpiresAt: expiresAt}, nil
}

// LoginMagicLink consumes a magic link: exactly one success per token.
// The link is marked used before the session is issued, so a replay
// racing the first verification cannot win. First magic-link login also
// verifies the account's email.
func (s *AuthService) LoginMagicLink(ctx context.Context, token string) (*AuthResult, error) {
	link, err := s.Links.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.Metrics.Increment("auth.magic_link.failure", 1)
			return nil, apperr.InvalidToken()
		}
		return nil, err
	}
	if time.Now().UTC().After(link.ExpiresAt) {
		s.Metrics.Increment("auth.magic_link.failure", 1)
		return nil, apperr.Expired()
	}

	if err := s.Links.MarkUsed(ctx, token); err != nil {
		return nil, err
	}

	user, err := s.Users.FindByID(ctx, link.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User", link.UserID)
		}
		return nil, err
	}

	if !user.EmailVerified {
		if err := s.Users.VerifyEmail(ctx, user.ID); err != nil {
			return nil, err
		}
		user.EmailVerified = true
	}

	result, err := s.issueTokens(ctx, user, nil, nil)
	if err != nil {
		return nil, err
	}

	s.Audit.LogAction(ctx, &user.ID, "login_magic_link", "session", nil, nil, observability.CorrelationID(ctx))
	s.Metrics.Increment("auth.magic_link.success", 1)
	slog.Info("magic link login", "user_id", user.ID)
	return result, nil
}

// Refresh rotates the refresh session and mints a new access token from
// the current user snapshot, so role or username changes take effect on
// the next refresh rather than waiting out the old access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	sess, err := s.Sessions.Rotate(ctx, refreshToken, s.Cfg.RefreshTTLDays)
	if err != nil {
		return nil, err
	}

	user, err := s.Users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User", sess.UserID)
		}
		return nil, err
	}

	access, err := auth.NewAccessToken(s.Cfg.JWTSecret, user, s.Cfg.AccessTTLMinutes)
	if err != nil {
		return nil, err
	}

	s.Metrics.Increment("auth.refresh.success", 1)
	return &RefreshResult{AccessToken: access.Token, RefreshToken: sess.RefreshToken}, nil
}

// Logout revokes the session behind refreshToken. Always succeeds from
// the caller's perspective.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.Sessions.Revoke(ctx, refreshToken); err != nil {
		return err
	}
	slog.Info("logout")
	return nil
}

// WhoAmI returns the private profile for an authenticated user id. The
// id may have been deleted after the access token was minted; stateless
// tokens cannot be recalled, so this surfaces NotFound.
func (s *AuthService) WhoAmI(ctx context.Context, userID int64) (*model.PrivateProfile, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User", userID)
		}
		return nil, err
	}
	p := user.Private()
	return &p, nil
}

// VerifyAccessToken is the stateless verification entry point used by
// the HTTP bearer middleware.
func (s *AuthService) VerifyAccessToken(token string) (auth.Identity, error) {
	return auth.VerifyAccessToken(s.Cfg.JWTSecret, token)
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User, userAgent, ipAddress *string) (*AuthResult, error) {
	access, err := auth.NewAccessToken(s.Cfg.JWTSecret, user, s.Cfg.AccessTTLMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Sessions.Start(ctx, user, s.Cfg.RefreshTTLDays, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User:         user.Private(),
		AccessToken:  access.Token,
		RefreshToken: refresh.Raw,
	}, nil
}
