package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/silent2803/NurtiDuo/internal/filter"
	"github.com/silent2803/NurtiDuo/internal/models"
	"github.com/silent2803/NurtiDuo/internal/services"
	"github.com/silent2803/NurtiDuo/internal/session"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for MVP
	},
}

// Intent is a user intent sent by the presentation layer.
type Intent struct {
	Type         string                `json:"type"`
	Step         string                `json:"step,omitempty"`
	Registration *session.Registration `json:"registration,omitempty"`
	Email        string                `json:"email,omitempty"`
	Password     string                `json:"password,omitempty"`
	Username     string                `json:"username,omitempty"`
	Bio          string                `json:"bio,omitempty"`
	Value        int                   `json:"value,omitempty"`
	Gender       string                `json:"gender,omitempty"`
	Included     bool                  `json:"included,omitempty"`
}

// ViewState is the snapshot streamed to the presentation layer after every
// applied change: the controller state plus the filter configuration and the
// candidates visible under it.
type ViewState struct {
	session.State
	Filter     filter.Config      `json:"filter"`
	Candidates []models.Candidate `json:"candidates"`
}

// WebSocketHandler drives one session controller and one filter engine per
// connected presentation client
type WebSocketHandler struct {
	hub            *services.SessionHub
	authService    *services.AuthService
	profileService *services.ProfileService
	avatarService  *services.AvatarService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *services.SessionHub,
	authService *services.AuthService,
	profileService *services.ProfileService,
	avatarService *services.AvatarService,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		authService:    authService,
		profileService: profileService,
		avatarService:  avatarService,
	}
}

// HandleWebSocket handles WebSocket connections. The optional token query
// parameter is the session the browser persisted; the bootstrap probe decides
// whether it still resolves to an identity.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	authClient := services.NewAuthClient(h.authService, token)

	s := &wsSession{
		conn:           conn,
		hub:            h.hub,
		profileService: h.profileService,
		engine:         filter.NewEngine(),
		states:         make(chan session.State, 16),
		done:           make(chan struct{}),
	}
	s.controller = session.NewController(authClient, h.profileService, h.avatarService, s.enqueue)

	go s.pumpStates(ctx)
	s.controller.Start(ctx)
	s.enqueue(s.controller.State())

	log.Info().Msg("WebSocket session established")
	s.readLoop(ctx)

	close(s.done)
	s.controller.Close()
	s.mu.Lock()
	registered := s.registeredID
	s.mu.Unlock()
	if registered != "" {
		s.hub.Unregister(registered, s.controller)
	}
}

// wsSession holds the per-connection state: the controller, the filter engine
// and the cached candidate pool.
type wsSession struct {
	conn           *websocket.Conn
	hub            *services.SessionHub
	profileService *services.ProfileService
	controller     *session.Controller
	engine         *filter.Engine

	states chan session.State
	done   chan struct{}

	mu           sync.Mutex
	pool         []models.Candidate
	registeredID string
}

// enqueue is the controller's listener. It hands the snapshot to the writer
// goroutine; composing the view does I/O and must not run under the
// controller's lock.
func (s *wsSession) enqueue(st session.State) {
	select {
	case s.states <- st:
	case <-s.done:
	}
}

// pumpStates is the single writer: it keeps the hub registration in sync with
// the identity, refreshes the candidate pool when needed and streams the
// composed view state.
func (s *wsSession) pumpStates(ctx context.Context) {
	for {
		select {
		case <-s.done:
			return
		case st := <-s.states:
			s.syncHub(st)
			view := s.compose(ctx, st)
			if err := s.conn.WriteJSON(view); err != nil {
				log.Debug().Err(err).Msg("Failed to write view state")
				return
			}
		}
	}
}

func (s *wsSession) syncHub(st session.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case st.Identity == nil && s.registeredID != "":
		s.hub.Unregister(s.registeredID, s.controller)
		s.registeredID = ""
		s.pool = nil
	case st.Identity != nil && s.registeredID != st.Identity.ID:
		if s.registeredID != "" {
			s.hub.Unregister(s.registeredID, s.controller)
		}
		s.hub.Register(st.Identity.ID, s.controller)
		s.registeredID = st.Identity.ID
		s.pool = nil
	}
}

// compose builds the streamed snapshot. Candidates are only surfaced for an
// authenticated identity; the filter configuration itself is always visible.
func (s *wsSession) compose(ctx context.Context, st session.State) ViewState {
	s.mu.Lock()
	cfg := s.engine.Config()
	pool := s.pool
	s.mu.Unlock()

	if st.Identity != nil && pool == nil {
		fetched, err := s.profileService.Candidates(ctx, st.Identity.ID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", st.Identity.ID).Msg("Failed to load candidate pool")
		} else {
			s.mu.Lock()
			s.pool = fetched
			s.mu.Unlock()
			pool = fetched
		}
	}

	var visible []models.Candidate
	if st.Identity != nil {
		visible = filter.Apply(cfg, pool)
	}

	return ViewState{State: st, Filter: cfg, Candidates: visible}
}

func (s *wsSession) readLoop(ctx context.Context) {
	for {
		_, messageBytes, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Msg("WebSocket error")
			}
			return
		}

		var intent Intent
		if err := json.Unmarshal(messageBytes, &intent); err != nil {
			log.Warn().Err(err).Msg("Failed to parse intent")
			continue
		}

		s.handleIntent(ctx, intent)
	}
}

// handleIntent dispatches one user intent. Operation failures surface through
// the controller's error message slot, so they are logged here but not
// re-reported.
func (s *wsSession) handleIntent(ctx context.Context, intent Intent) {
	var err error

	switch intent.Type {
	case "navigate":
		err = s.controller.Navigate(models.Step(intent.Step))
	case "register":
		if intent.Registration == nil {
			log.Warn().Msg("register intent without form")
			return
		}
		err = s.controller.Register(ctx, *intent.Registration)
	case "login":
		err = s.controller.Login(ctx, intent.Email, intent.Password)
	case "sign_out":
		err = s.controller.SignOut(ctx)
	case "edit_profile":
		err = s.controller.UpdateProfile(ctx, intent.Username, intent.Bio)
	case "dismiss":
		s.controller.DismissNotices()
	case "set_min_age":
		s.mu.Lock()
		s.engine.SetMinAge(intent.Value)
		s.mu.Unlock()
		s.enqueue(s.controller.State())
	case "set_max_age":
		s.mu.Lock()
		s.engine.SetMaxAge(intent.Value)
		s.mu.Unlock()
		s.enqueue(s.controller.State())
	case "set_gender":
		s.mu.Lock()
		s.engine.SetGenderIncluded(models.Gender(intent.Gender), intent.Included)
		s.mu.Unlock()
		s.enqueue(s.controller.State())
	case "refresh_candidates":
		s.mu.Lock()
		s.pool = nil
		s.mu.Unlock()
		s.enqueue(s.controller.State())
	default:
		log.Warn().Str("type", intent.Type).Msg("Unknown intent type")
	}

	if err != nil {
		log.Debug().Err(err).Str("type", intent.Type).Msg("Intent failed")
	}
}
