package services

import (
	"sync"

	"github.com/silent2803/NurtiDuo/internal/session"

	"github.com/rs/zerolog/log"
)

// SessionHub tracks the live session controller for each authenticated user,
// so HTTP routes (the multipart avatar upload) can reach the same controller
// the user's WebSocket connection is driving.
type SessionHub struct {
	mu     sync.RWMutex
	byUser map[string]*session.Controller
}

// NewSessionHub creates a new session hub
func NewSessionHub() *SessionHub {
	return &SessionHub{
		byUser: make(map[string]*session.Controller),
	}
}

// Register associates a user with a controller. A newer connection for the
// same user replaces the old association.
func (h *SessionHub) Register(userID string, c *session.Controller) {
	h.mu.Lock()
	h.byUser[userID] = c
	h.mu.Unlock()

	log.Info().Str("user_id", userID).Msg("Session registered")
}

// Unregister removes a user's association, but only if it still points at the
// given controller; a replaced association is left alone.
func (h *SessionHub) Unregister(userID string, c *session.Controller) {
	h.mu.Lock()
	if current, ok := h.byUser[userID]; ok && current == c {
		delete(h.byUser, userID)
	}
	h.mu.Unlock()

	log.Info().Str("user_id", userID).Msg("Session unregistered")
}

// Controller returns the live controller for a user, if any.
func (h *SessionHub) Controller(userID string) (*session.Controller, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.byUser[userID]
	return c, ok
}
