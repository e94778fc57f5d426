package services

import (
	"context"
	"log"
	"sync"
	"time"

	"team-match-system/models"
)

// SessionService is the process-wide registry of session guards, keyed by
// access token: one logical actor per user session, no state shared across
// users. It is one of the two singletons that must be fully reset on logout
// (the other is the favorites cache, hooked in below).
type SessionService struct {
	mu     sync.Mutex
	guards map[string]*SessionGuard

	auth      credentialAPI
	directory currentUserAPI
	ttl       time.Duration
	clock     func() time.Time

	onLogout []func(userID string)
}

func NewSessionService(auth credentialAPI, directory currentUserAPI, ttl time.Duration, clock func() time.Time) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &SessionService{
		guards:    make(map[string]*SessionGuard),
		auth:      auth,
		directory: directory,
		ttl:       ttl,
		clock:     clock,
	}
}

// OnLogout registers a per-user cache reset to run when a session ends, so
// one user's cached state never leaks into the next session in this process.
func (s *SessionService) OnLogout(fn func(userID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Bootstrap silently renews a refresh credential into a live guard.
func (s *SessionService) Bootstrap(ctx context.Context, refreshToken string) (*models.Session, error) {
	guard := NewSessionGuard(s.auth, s.directory, s.ttl, s.clock)
	sess, err := guard.Bootstrap(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.guards[sess.Token] = guard
	s.mu.Unlock()
	return sess, nil
}

// Adopt registers a guard for a token issued by an explicit login.
func (s *SessionService) Adopt(token string, user *models.User) *models.Session {
	guard := NewSessionGuard(s.auth, s.directory, s.ttl, s.clock)
	sess := guard.Adopt(token, user)
	s.mu.Lock()
	s.guards[token] = guard
	s.mu.Unlock()
	return sess
}

// Require gates a mutating request by token. Unknown tokens are ANONYMOUS.
func (s *SessionService) Require(token string) (*models.Session, error) {
	guard := s.lookup(token)
	if guard == nil {
		return nil, models.E(models.KindUnauthenticated, "no session for this credential")
	}
	return guard.Require()
}

// Invalidate drops a session after a collaborator 401/403.
func (s *SessionService) Invalidate(token string) {
	if guard := s.lookup(token); guard != nil {
		guard.Invalidate()
	}
	s.mu.Lock()
	delete(s.guards, token)
	s.mu.Unlock()
}

// Logout ends the session server-side first; on network failure the guard
// stays registered and AUTHENTICATED.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	guard := s.lookup(token)
	if guard == nil {
		return models.E(models.KindUnauthenticated, "no session for this credential")
	}

	sess, err := guard.Require()
	if err != nil {
		// Already expired locally; nothing server-side to keep alive.
		s.mu.Lock()
		delete(s.guards, token)
		s.mu.Unlock()
		return nil
	}

	if err := guard.Logout(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.guards, token)
	hooks := make([]func(string), len(s.onLogout))
	copy(hooks, s.onLogout)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(sess.User.ID)
	}
	return nil
}

// Sweep evicts guards whose deadline passed. Run periodically by the
// scheduler so abandoned sessions do not pile up.
func (s *SessionService) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for token, guard := range s.guards {
		if guard.Expired() {
			delete(s.guards, token)
			evicted++
		}
	}
	if evicted > 0 {
		log.Printf("🧹 [SESSIONS] evicted %d expired guard(s), %d live", evicted, len(s.guards))
	}
}

// Active returns the number of live guards (used by the health endpoint).
func (s *SessionService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.guards)
}

func (s *SessionService) lookup(token string) *SessionGuard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guards[token]
}
