package session

import (
	"context"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/silent2803/NurtiDuo/internal/models"

	"github.com/rs/zerolog/log"
)

// Redirect delays after the success notices. Informational only: the notice
// stays on screen for a moment before the step changes.
const (
	registerRedirectDelay = 4 * time.Second
	loginRedirectDelay    = 2 * time.Second
)

// Handler receives session-change notifications from the authentication
// collaborator. The session is nil when the change is a sign-out.
type Handler func(event string, session *models.Session)

// Subscription is a releasable registration on the session-change feed.
type Subscription interface {
	Release()
}

// Authenticator is the authentication collaborator consumed by the controller.
type Authenticator interface {
	CurrentSession(ctx context.Context) (*models.Session, error)
	OnSessionChange(handler Handler) Subscription
	SignUp(ctx context.Context, in models.SignUpInput) (string, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context) error
}

// ProfileStore is the profile persistence collaborator.
type ProfileStore interface {
	Profile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID, username, bio string) error
	UpdateAvatarURL(ctx context.Context, userID, avatarURL string) error
}

// AvatarStore is the binary object collaborator for avatar images.
type AvatarStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) (string, error)
}

// State is the immutable view snapshot handed to the presentation layer.
type State struct {
	Step           models.Step     `json:"step"`
	Identity       *models.Profile `json:"identity,omitempty"`
	EditUsername   string          `json:"edit_username"`
	EditBio        string          `json:"edit_bio"`
	SuccessMessage string          `json:"success_message,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
}

// Listener observes every applied state change.
type Listener func(State)

// Controller maintains the single authoritative view of who is logged in and
// which step the presentation layer should render. Two asynchronous sources
// write to it, the one-shot bootstrap probe and the long-lived session-change
// subscription; every asynchronous write carries a generation and writes older
// than the applied generation are discarded, so a stale bootstrap result can
// never overwrite a newer session-change result.
type Controller struct {
	auth     Authenticator
	profiles ProfileStore
	avatars  AvatarStore
	listener Listener

	registerRedirect time.Duration
	loginRedirect    time.Duration

	gen atomic.Uint64

	mu      sync.Mutex
	state   State
	applied uint64
	sub     Subscription
	timers  []*time.Timer
	closed  bool
}

// NewController creates a controller in the logged-out home state.
func NewController(auth Authenticator, profiles ProfileStore, avatars AvatarStore, listener Listener) *Controller {
	return &Controller{
		auth:             auth,
		profiles:         profiles,
		avatars:          avatars,
		listener:         listener,
		registerRedirect: registerRedirectDelay,
		loginRedirect:    loginRedirectDelay,
		state:            State{Step: models.StepHome},
	}
}

// Start registers the session-change subscription and launches the one-shot
// bootstrap probe. The subscription stays registered until Close.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.sub == nil {
		c.sub = c.auth.OnSessionChange(func(event string, session *models.Session) {
			c.handleSessionChange(ctx, event, session)
		})
	}
	c.mu.Unlock()

	gen := c.nextGen()
	go c.bootstrap(ctx, gen)
}

// Close releases the session-change subscription and stops pending redirects.
// No state is written after Close.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	sub := c.sub
	c.sub = nil
	timers := c.timers
	c.timers = nil
	c.mu.Unlock()

	if sub != nil {
		sub.Release()
	}
	for _, t := range timers {
		t.Stop()
	}
}

// State returns a snapshot of the current view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// bootstrap resolves the persisted session, if any, and seeds identity, edit
// defaults and step from the matching profile. Its generation was taken when
// the probe was issued, so any session change arriving while the probe is in
// flight wins over the probe's result.
func (c *Controller) bootstrap(ctx context.Context, gen uint64) {
	session, err := c.auth.CurrentSession(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Session probe failed")
		c.apply(gen, func(s *State) {})
		return
	}
	if session == nil {
		c.apply(gen, func(s *State) {})
		return
	}

	profile, err := c.profiles.Profile(ctx, session.UserID)
	if err != nil {
		loadErr := &models.ProfileLoadError{UserID: session.UserID, Err: err}
		log.Warn().Err(loadErr).Msg("Session restore could not load profile")
		c.apply(gen, func(s *State) {
			s.ErrorMessage = loadErr.Error()
		})
		return
	}

	c.apply(gen, func(s *State) {
		s.Identity = profile
		s.EditUsername = profile.Username
		s.EditBio = profile.Bio
		s.Step = models.StepDashboard
	})
}

// handleSessionChange is the long-lived source of truth for authentication
// transitions. Generations are taken at arrival, so notifications apply in
// arrival order even when their profile fetches finish out of order.
func (c *Controller) handleSessionChange(ctx context.Context, event string, session *models.Session) {
	gen := c.nextGen()

	if session == nil {
		c.apply(gen, func(s *State) {
			s.Identity = nil
			s.EditUsername = ""
			s.EditBio = ""
			s.Step = models.StepHome
		})
		return
	}

	profile, err := c.profiles.Profile(ctx, session.UserID)
	if err != nil {
		loadErr := &models.ProfileLoadError{UserID: session.UserID, Err: err}
		log.Warn().Err(loadErr).Str("event", event).Msg("Session change could not load profile")
		c.apply(gen, func(s *State) {
			s.ErrorMessage = loadErr.Error()
		})
		return
	}

	c.apply(gen, func(s *State) {
		s.Identity = profile
		s.EditUsername = profile.Username
		s.EditBio = profile.Bio
		s.Step = models.StepDashboard
	})
}

// Register validates the form locally and delegates sign-up to the
// authentication collaborator. Validation failures never reach the network.
func (c *Controller) Register(ctx context.Context, form Registration) error {
	input, err := ValidateRegistration(form, time.Now())
	if err != nil {
		c.applyNow(func(s *State) {
			s.ErrorMessage = err.Error()
			s.SuccessMessage = ""
		})
		return err
	}

	if _, err := c.auth.SignUp(ctx, input); err != nil {
		authErr := asAuthError(err)
		c.applyNow(func(s *State) {
			s.ErrorMessage = authErr.Error()
			s.SuccessMessage = ""
		})
		return authErr
	}

	c.applyNow(func(s *State) {
		s.SuccessMessage = "Registration successful! Check your e-mail for the confirmation link."
		s.ErrorMessage = ""
	})
	c.after(c.registerRedirect, func(s *State) {
		s.Step = models.StepLogin
	})
	return nil
}

// Login signs in and resolves the profile. A sign-in that succeeds but whose
// profile cannot be loaded fails with ProfileLoadError, not as "logged out".
func (c *Controller) Login(ctx context.Context, email, password string) error {
	session, err := c.auth.SignIn(ctx, email, password)
	if err != nil {
		authErr := asAuthError(err)
		c.applyNow(func(s *State) {
			s.ErrorMessage = authErr.Error()
			s.SuccessMessage = ""
		})
		return authErr
	}

	profile, err := c.profiles.Profile(ctx, session.UserID)
	if err != nil {
		loadErr := &models.ProfileLoadError{UserID: session.UserID, Err: err}
		c.applyNow(func(s *State) {
			s.ErrorMessage = loadErr.Error()
			s.SuccessMessage = ""
		})
		return loadErr
	}

	c.applyNow(func(s *State) {
		s.Identity = profile
		s.EditUsername = profile.Username
		s.EditBio = profile.Bio
		s.SuccessMessage = "Signed in!"
		s.ErrorMessage = ""
	})
	c.after(c.loginRedirect, func(s *State) {
		if s.Identity != nil {
			s.Step = models.StepDashboard
		}
	})
	return nil
}

// UpdateProfile persists the two mutable fields and merges them into the
// in-memory identity without a re-fetch.
func (c *Controller) UpdateProfile(ctx context.Context, username, bio string) error {
	identity := c.identity()
	if identity == nil {
		return c.failNotAuthenticated("profile update")
	}

	if err := c.profiles.UpdateProfile(ctx, identity.ID, username, bio); err != nil {
		persistErr := &models.PersistenceError{Err: err}
		c.applyNow(func(s *State) {
			s.ErrorMessage = persistErr.Error()
			s.SuccessMessage = ""
		})
		return persistErr
	}

	c.applyNow(func(s *State) {
		if s.Identity != nil {
			merged := *s.Identity
			merged.Username = username
			merged.Bio = bio
			s.Identity = &merged
		}
		s.EditUsername = username
		s.EditBio = bio
		s.SuccessMessage = "Profile updated!"
		s.ErrorMessage = ""
		s.Step = models.StepProfile
	})
	return nil
}

// UploadAvatar stores the image at {userID}.{ext} with overwrite semantics,
// resolves its public URL and persists it onto the profile. The identity is
// left unmodified when any step fails.
func (c *Controller) UploadAvatar(ctx context.Context, filename string, data []byte, contentType string) error {
	identity := c.identity()
	if identity == nil {
		return c.failNotAuthenticated("avatar upload")
	}
	if len(data) == 0 {
		valErr := &models.ValidationError{Reason: "choose a photo to upload"}
		c.applyNow(func(s *State) {
			s.ErrorMessage = valErr.Reason
			s.SuccessMessage = ""
		})
		return valErr
	}

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if ext == "" {
		ext = "jpg"
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	key := identity.ID + "." + ext

	if err := c.avatars.Upload(ctx, key, data, contentType); err != nil {
		return c.failUpload(err)
	}
	url, err := c.avatars.PublicURL(key)
	if err != nil {
		return c.failUpload(err)
	}
	if err := c.profiles.UpdateAvatarURL(ctx, identity.ID, url); err != nil {
		return c.failUpload(err)
	}

	c.applyNow(func(s *State) {
		if s.Identity != nil {
			merged := *s.Identity
			merged.AvatarURL = url
			s.Identity = &merged
		}
		s.SuccessMessage = "Profile photo updated!"
		s.ErrorMessage = ""
	})
	return nil
}

// Navigate moves to a peer step. Steps that require an identity are refused
// without one.
func (c *Controller) Navigate(step models.Step) error {
	if step.RequiresIdentity() && c.identity() == nil {
		return &models.NotAuthenticatedError{Operation: string(step) + " navigation"}
	}
	c.applyNow(func(s *State) {
		if step.RequiresIdentity() && s.Identity == nil {
			return
		}
		s.Step = step
	})
	return nil
}

// SignOut delegates to the collaborator; the resulting session-change
// notification clears identity and returns the view to home.
func (c *Controller) SignOut(ctx context.Context) error {
	return c.auth.SignOut(ctx)
}

// DismissNotices clears the success and error message slots.
func (c *Controller) DismissNotices() {
	c.applyNow(func(s *State) {
		s.SuccessMessage = ""
		s.ErrorMessage = ""
	})
}

func (c *Controller) identity() *models.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Identity
}

func (c *Controller) failNotAuthenticated(operation string) error {
	err := &models.NotAuthenticatedError{Operation: operation}
	c.applyNow(func(s *State) {
		s.ErrorMessage = err.Error()
		s.SuccessMessage = ""
	})
	return err
}

func (c *Controller) failUpload(cause error) error {
	err := &models.UploadError{Err: cause}
	c.applyNow(func(s *State) {
		s.ErrorMessage = err.Error()
		s.SuccessMessage = ""
	})
	return err
}

func (c *Controller) nextGen() uint64 {
	return c.gen.Add(1)
}

// applyNow applies a write in completion order: the generation is taken at
// apply time, for operations whose result should simply be the latest word.
func (c *Controller) applyNow(mutate func(*State)) {
	c.apply(c.nextGen(), mutate)
}

// apply runs a state mutation unless the controller is closed or a newer
// generation has already been applied. The listener sees a copied snapshot.
func (c *Controller) apply(gen uint64, mutate func(*State)) bool {
	c.mu.Lock()
	if c.closed || gen < c.applied {
		c.mu.Unlock()
		return false
	}
	c.applied = gen
	mutate(&c.state)
	snapshot := c.snapshotLocked()
	listener := c.listener
	c.mu.Unlock()

	if listener != nil {
		listener(snapshot)
	}
	return true
}

// after schedules a delayed mutation, used for the post-notice redirects. The
// generation is taken when the timer fires, so the redirect never rolls back a
// state that changed while the notice was on screen. Close stops the timer.
func (c *Controller) after(d time.Duration, mutate func(*State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	t := time.AfterFunc(d, func() {
		c.apply(c.nextGen(), mutate)
	})
	c.timers = append(c.timers, t)
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	if s.Identity != nil {
		identity := *s.Identity
		s.Identity = &identity
	}
	return s
}

func asAuthError(err error) *models.AuthError {
	if authErr, ok := err.(*models.AuthError); ok {
		return authErr
	}
	return &models.AuthError{Message: err.Error()}
}
