package services

import (
	"testing"

	"github.com/silent2803/NurtiDuo/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionHub_RegisterAndLookup(t *testing.T) {
	hub := NewSessionHub()
	c := &session.Controller{}

	_, ok := hub.Controller("user-1")
	assert.False(t, ok)

	hub.Register("user-1", c)

	got, ok := hub.Controller("user-1")
	require.True(t, ok)
	assert.Same(t, c, got)
}

func TestSessionHub_NewerConnectionReplacesOlder(t *testing.T) {
	hub := NewSessionHub()
	old := &session.Controller{}
	newer := &session.Controller{}

	hub.Register("user-1", old)
	hub.Register("user-1", newer)

	got, ok := hub.Controller("user-1")
	require.True(t, ok)
	assert.Same(t, newer, got)

	// The old connection tearing down must not evict the newer one.
	hub.Unregister("user-1", old)

	got, ok = hub.Controller("user-1")
	require.True(t, ok)
	assert.Same(t, newer, got)

	hub.Unregister("user-1", newer)
	_, ok = hub.Controller("user-1")
	assert.False(t, ok)
}
