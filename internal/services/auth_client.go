package services

import (
	"context"
	"sync"

	"github.com/silent2803/NurtiDuo/internal/models"
	"github.com/silent2803/NurtiDuo/internal/session"
)

// Session-change event names delivered to subscribers.
const (
	EventSignedIn  = "SIGNED_IN"
	EventSignedOut = "SIGNED_OUT"
)

// subscription is a releasable registration on an AuthClient's event feed.
type subscription struct {
	release func()
	once    sync.Once
}

func (s *subscription) Release() {
	s.once.Do(s.release)
}

// AuthClient is the per-connection authentication collaborator. It owns the
// presented session token (the one the browser persisted, if any), performs
// sign-up/sign-in/sign-out against the shared auth service, and notifies
// subscribed handlers whenever the authentication state transitions.
type AuthClient struct {
	svc *AuthService

	mu       sync.Mutex
	session  *models.Session
	restored string
	probed   bool
	nextID   int
	handlers map[int]session.Handler
}

// NewAuthClient creates an auth client. restoredToken is the token the
// presentation layer kept across reloads; empty means no persisted session.
func NewAuthClient(svc *AuthService, restoredToken string) *AuthClient {
	return &AuthClient{
		svc:      svc,
		restored: restoredToken,
		handlers: make(map[int]session.Handler),
	}
}

// CurrentSession resolves the persisted session, if any. An invalid or expired
// restored token reads as "no session", not as an error.
func (c *AuthClient) CurrentSession(ctx context.Context) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return c.session, nil
	}
	if c.probed || c.restored == "" {
		return nil, nil
	}
	c.probed = true

	userID, err := c.svc.ValidateToken(c.restored)
	if err != nil {
		return nil, nil
	}
	c.session = &models.Session{UserID: userID, Token: c.restored}
	return c.session, nil
}

// OnSessionChange registers a handler for session transitions. The returned
// subscription must be released on teardown to stop deliveries.
func (c *AuthClient) OnSessionChange(handler session.Handler) session.Subscription {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.handlers[id] = handler
	c.mu.Unlock()

	return &subscription{release: func() {
		c.mu.Lock()
		delete(c.handlers, id)
		c.mu.Unlock()
	}}
}

// SignUp delegates registration to the auth service. Sign-up alone does not
// establish a session; the user still signs in afterwards.
func (c *AuthClient) SignUp(ctx context.Context, in models.SignUpInput) (string, error) {
	return c.svc.SignUp(ctx, in)
}

// SignIn authenticates, adopts the new session and notifies subscribers.
func (c *AuthClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	sess, err := c.svc.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()

	c.emit(EventSignedIn, sess)
	return sess, nil
}

// SignOut drops the current session and notifies subscribers. Signing out
// without a session is a no-op.
func (c *AuthClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	had := c.session != nil || (!c.probed && c.restored != "")
	c.session = nil
	c.restored = ""
	c.probed = true
	c.mu.Unlock()

	if had {
		c.emit(EventSignedOut, nil)
	}
	return nil
}

// emit delivers an event to every registered handler. Handlers run outside the
// client lock so they may call back into the client.
func (c *AuthClient) emit(event string, sess *models.Session) {
	c.mu.Lock()
	handlers := make([]session.Handler, 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(event, sess)
	}
}
