package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"team-match-system/models"
)

// GuardState is the session guard's position in its state machine.
type GuardState int

const (
	GuardUnknown GuardState = iota
	GuardAuthenticated
	GuardAnonymous
)

func (s GuardState) String() string {
	switch s {
	case GuardAuthenticated:
		return "AUTHENTICATED"
	case GuardAnonymous:
		return "ANONYMOUS"
	default:
		return "UNKNOWN"
	}
}

// DefaultSessionTTL bounds how long a session stays valid without renewal.
const DefaultSessionTTL = time.Hour

// SessionGuard owns authentication validity for one user session. Every
// mutating dispatch consults it synchronously first; a mutation already in
// flight when the deadline passes is allowed to complete, but nothing may be
// dispatched after. The clock is injected so expiry is testable without real
// timers.
type SessionGuard struct {
	mu sync.Mutex

	state     GuardState
	token     string
	user      *models.User
	expiresAt time.Time

	ttl       time.Duration
	clock     func() time.Time
	auth      credentialAPI
	directory currentUserAPI
}

func NewSessionGuard(auth credentialAPI, directory currentUserAPI, ttl time.Duration, clock func() time.Time) *SessionGuard {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &SessionGuard{
		state:     GuardUnknown,
		ttl:       ttl,
		clock:     clock,
		auth:      auth,
		directory: directory,
	}
}

// Bootstrap performs the single silent renewal attempt that decides between
// AUTHENTICATED and ANONYMOUS. It is not retried; a later explicit login is
// the only other way in.
func (g *SessionGuard) Bootstrap(ctx context.Context, refreshToken string) (*models.Session, error) {
	renewed, err := g.auth.Renew(ctx, refreshToken)
	if err != nil {
		g.mu.Lock()
		g.toAnonymousLocked()
		g.mu.Unlock()
		return nil, models.WrapE(models.KindUnauthenticated, err, "silent renewal failed")
	}

	user, err := g.directory.GetCurrentUser(ctx, renewed.AccessToken)
	if err != nil {
		g.mu.Lock()
		g.toAnonymousLocked()
		g.mu.Unlock()
		return nil, models.WrapE(models.KindUnauthenticated, err, "could not load current user")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.clock()
	g.state = GuardAuthenticated
	g.token = renewed.AccessToken
	g.user = user
	g.expiresAt = sessionDeadline(renewed.AccessToken, now, g.ttl)
	log.Printf("✅ [GUARD] session authenticated for %s, expires %s", user.ID, g.expiresAt.Format(time.RFC3339))
	return g.sessionLocked(), nil
}

// Adopt installs an already-issued token (explicit login path).
func (g *SessionGuard) Adopt(token string, user *models.User) *models.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = GuardAuthenticated
	g.token = token
	g.user = user
	g.expiresAt = sessionDeadline(token, g.clock(), g.ttl)
	return g.sessionLocked()
}

// Require is the synchronous validity gate. It makes no network calls: an
// expired deadline flips the guard to ANONYMOUS on the spot and the caller
// gets Unauthenticated before any mutating dispatch happens.
func (g *SessionGuard) Require() (*models.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case GuardAuthenticated:
		if g.clock().Before(g.expiresAt) {
			return g.sessionLocked(), nil
		}
		log.Printf("⏰ [GUARD] session for %s expired, discarding cached user", g.userIDLocked())
		g.toAnonymousLocked()
		return nil, models.E(models.KindUnauthenticated, "session expired")
	case GuardUnknown:
		return nil, models.E(models.KindUnauthenticated, "session not established")
	default:
		return nil, models.E(models.KindUnauthenticated, "no valid session")
	}
}

// Logout invalidates the server-side session first. A network failure leaves
// the guard AUTHENTICATED: fail-closed, not fail-open.
func (g *SessionGuard) Logout(ctx context.Context) error {
	g.mu.Lock()
	token := g.token
	g.mu.Unlock()

	if err := g.auth.Logout(ctx, token); err != nil && models.IsKind(err, models.KindNetworkFailure) {
		return models.WrapE(models.KindNetworkFailure, err, "server-side logout failed, session kept")
	}

	g.mu.Lock()
	g.toAnonymousLocked()
	g.mu.Unlock()
	return nil
}

// Invalidate is the uniform reaction to a collaborator 401/403.
func (g *SessionGuard) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == GuardAuthenticated {
		log.Printf("🚫 [GUARD] collaborator rejected session for %s, dropping it", g.userIDLocked())
	}
	g.toAnonymousLocked()
}

func (g *SessionGuard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Expired reports whether the guard holds no usable session anymore, without
// mutating state.
func (g *SessionGuard) Expired() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state != GuardAuthenticated || !g.clock().Before(g.expiresAt)
}

func (g *SessionGuard) toAnonymousLocked() {
	g.state = GuardAnonymous
	g.token = ""
	g.user = nil
	g.expiresAt = time.Time{}
}

func (g *SessionGuard) sessionLocked() *models.Session {
	u := *g.user
	return &models.Session{Token: g.token, User: &u, ExpiresAt: g.expiresAt}
}

func (g *SessionGuard) userIDLocked() string {
	if g.user == nil {
		return "?"
	}
	return g.user.ID
}

// sessionDeadline picks the fixed TTL, shortened by the token's own exp claim
// when the issuer handed us a JWT. The claim is read unverified: it only
// schedules local expiry, it never grants authority.
func sessionDeadline(token string, now time.Time, ttl time.Duration) time.Time {
	deadline := now.Add(ttl)
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return deadline
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return deadline
	}
	if exp.Time.After(now) && exp.Time.Before(deadline) {
		return exp.Time
	}
	return deadline
}
