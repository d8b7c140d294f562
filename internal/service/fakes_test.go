package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/guildofheroes/goh-api/internal/model"
	"github.com/guildofheroes/goh-api/internal/repository"
)

// In-memory store fakes. They mirror the repository contracts including
// the sentinel errors and the revoked/used row filtering.

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*model.User
	hashes map[int64]*string
}

func newMemUsers() *memUsers {
	return &memUsers{nextID: 1, byID: make(map[int64]*model.User), hashes: make(map[int64]*string)}
}

func (s *memUsers) Create(_ context.Context, username, email string, passwordHash *string, displayName, role string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Username == username || u.Email == strings.ToLower(email) {
			return nil, repository.ErrDuplicate
		}
	}
	u := &model.User{
		ID:          s.nextID,
		Username:    username,
		Email:       strings.ToLower(email),
		DisplayName: displayName,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
	}
	s.nextID++
	s.byID[u.ID] = u
	s.hashes[u.ID] = passwordHash
	return u, nil
}

func (s *memUsers) FindByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s *memUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memUsers) PasswordHash(_ context.Context, id int64) (*string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hashes[id], nil
}

func (s *memUsers) VerifyEmail(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		u.EmailVerified = true
	}
	return nil
}

type memSessions struct {
	mu      sync.Mutex
	nextID  int64
	byToken map[string]*model.Session
}

func newMemSessions() *memSessions {
	return &memSessions{nextID: 1, byToken: make(map[string]*model.Session)}
}

func (s *memSessions) Create(_ context.Context, userID int64, refreshToken string, expiresAt time.Time, userAgent, ipAddress *string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &model.Session{
		ID:           s.nextID,
		UserID:       userID,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		UserAgent:    userAgent,
		IPAddress:    ipAddress,
		CreatedAt:    time.Now().UTC(),
	}
	s.nextID++
	s.byToken[refreshToken] = sess
	cp := *sess
	return &cp, nil
}

func (s *memSessions) FindByRefreshToken(_ context.Context, refreshToken string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byToken[refreshToken]
	if !ok || sess.Revoked {
		return nil, repository.ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *memSessions) Revoke(_ context.Context, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.byToken[refreshToken]; ok {
		sess.Revoked = true
	}
	return nil
}

func (s *memSessions) RevokeAllForUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.byToken {
		if sess.UserID == userID {
			sess.Revoked = true
		}
	}
	return nil
}

func (s *memSessions) live(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sess := range s.byToken {
		if sess.UserID == userID && !sess.Revoked {
			n++
		}
	}
	return n
}

type memLinks struct {
	mu      sync.Mutex
	nextID  int64
	byToken map[string]*model.MagicLink
}

func newMemLinks() *memLinks {
	return &memLinks{nextID: 1, byToken: make(map[string]*model.MagicLink)}
}

func (s *memLinks) Create(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[token] = &model.MagicLink{ID: s.nextID, UserID: userID, Token: token, ExpiresAt: expiresAt}
	s.nextID++
	return nil
}

func (s *memLinks) FindByToken(_ context.Context, token string) (*model.MagicLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.byToken[token]
	if !ok || link.Used {
		return nil, repository.ErrNotFound
	}
	cp := *link
	return &cp, nil
}

func (s *memLinks) MarkUsed(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if link, ok := s.byToken[token]; ok {
		link.Used = true
	}
	return nil
}

type auditEntry struct {
	ActorID       *int64
	Action        string
	ResourceType  string
	CorrelationID string
}

type memAudit struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *memAudit) LogAction(_ context.Context, actorID *int64, action, resourceType string, _ *int64, _ map[string]any, correlationID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{
		ActorID:       actorID,
		Action:        action,
		ResourceType:  resourceType,
		CorrelationID: correlationID,
	})
}

func (a *memAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Action
	}
	return out
}

type capturedLink struct {
	Email string
	Token string
}

type memNotifier struct {
	mu    sync.Mutex
	links []capturedLink
}

func (n *memNotifier) MagicLinkIssued(_ context.Context, email, token string, _ time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.links = append(n.links, capturedLink{Email: email, Token: token})
}
