package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

var (
	// ErrExpired is returned by Check when the stored role needs a token the
	// session no longer holds. The session has already been cleared.
	ErrExpired = errors.New("session: expired or invalid login")
	// ErrEmptyToken rejects SetSession calls without a token.
	ErrEmptyToken = errors.New("session: token required")
)

// ExpiredNotice is the one-time message shown when a session is dropped.
const ExpiredNotice = "Session expired or invalid login. Please log in again."

// Snapshot is a point-in-time copy of the session. Renderers take a fresh
// one per render instead of holding on to role or token.
type Snapshot struct {
	Role  Role
	Token string
}

// HasToken reports whether a token is present.
func (s Snapshot) HasToken() bool { return s.Token != "" }

// Session is the single mutable cell holding the current role and token.
type Session struct {
	mu        sync.RWMutex
	role      Role
	token     string
	store     Store
	logger    *logging.Logger
	now       func() time.Time
	observers map[int]func(Snapshot)
	nextObs   int
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the session logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// New loads the session cached in store. A nil store keeps everything in
// memory.
func New(ctx context.Context, store Store, opts ...Option) (*Session, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	s := &Session{
		role:      RoleAnonymous,
		store:     store,
		logger:    logging.Default(),
		now:       time.Now,
		observers: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Component("session")

	role, _, err := store.Get(ctx, KeyRole)
	if err != nil {
		return nil, fmt.Errorf("session: load role: %w", err)
	}
	token, _, err := store.Get(ctx, KeyToken)
	if err != nil {
		return nil, fmt.Errorf("session: load token: %w", err)
	}
	s.role = ParseRole(role)
	s.token = strings.TrimSpace(token)
	return s, nil
}

// Role returns the current role.
func (s *Session) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Token returns the current token, or "" when absent.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Snapshot returns role and token read together.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Role: s.role, Token: s.token}
}

// SetRole changes the role and leaves the token untouched. It never creates
// a token.
func (s *Session) SetRole(ctx context.Context, role Role) error {
	s.mu.Lock()
	s.role = role
	snap := Snapshot{Role: s.role, Token: s.token}
	s.mu.Unlock()

	err := s.store.Set(ctx, KeyRole, string(role))
	s.notify(snap)
	if err != nil {
		s.logger.Warn("persist role failed", "role", role, "error", err)
		return err
	}
	return nil
}

// SetSession establishes an authenticated session. It is the only way a
// token enters the session.
func (s *Session) SetSession(ctx context.Context, role Role, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	s.role = role
	s.token = token
	snap := Snapshot{Role: role, Token: token}
	s.mu.Unlock()

	var errs []error
	if err := s.store.Set(ctx, KeyToken, token); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.Set(ctx, KeyRole, string(role)); err != nil {
		errs = append(errs, err)
	}
	s.notify(snap)
	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("persist session failed", "role", role, "error", err)
		return err
	}
	s.logger.Debug("session established", "role", role)
	return nil
}

// Clear resets the session to anonymous without a token.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.role = RoleAnonymous
	s.token = ""
	s.mu.Unlock()

	err := s.store.Delete(ctx, KeyRole, KeyToken)
	s.notify(Snapshot{Role: RoleAnonymous})
	if err != nil {
		s.logger.Warn("clear session store failed", "error", err)
		return err
	}
	return nil
}

// Check validates the session for one render pass. A role that needs a
// token but has none, or whose JWT has expired, clears the session and
// returns ErrExpired.
func (s *Session) Check(ctx context.Context) (Snapshot, error) {
	snap := s.Snapshot()
	if !snap.Role.RequiresToken() {
		return snap, nil
	}
	if snap.HasToken() && !TokenExpired(snap.Token, s.now()) {
		return snap, nil
	}
	s.logger.Info("dropping invalid session", "role", snap.Role, "has_token", snap.HasToken())
	_ = s.Clear(ctx)
	return Snapshot{Role: RoleAnonymous}, ErrExpired
}

// Subscribe registers fn to receive a fresh snapshot after every mutation.
// The returned func removes the observer.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Session) notify(snap Snapshot) {
	s.mu.RLock()
	fns := make([]func(Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// TokenExpired reports whether token is a JWT whose exp claim is not after
// now. Opaque tokens are never considered expired locally; only the server
// can reject them. The signature is not verified here.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
