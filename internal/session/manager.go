// Package session maps issued session IDs onto their chat controllers.
package session

import (
	"context"
	"time"

	"EVChatbot_MultimodalProject/internal/chat"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Manager holds one Controller per live login, keyed by session ID. Idle
// sessions expire after the configured TTL; eviction logs them out so their
// conversation state is released. Sessions are fully independent; nothing
// is shared between controllers.
type Manager struct {
	cache         *gocache.Cache
	newController func() *chat.Controller
	log           *zap.SugaredLogger
}

func NewManager(ttl time.Duration, newController func() *chat.Controller, log *zap.SugaredLogger) *Manager {
	c := gocache.New(ttl, ttl/2)
	c.OnEvicted(func(id string, v interface{}) {
		log.Infow("session closed", "session_id", id)
		v.(*chat.Controller).Logout()
	})
	return &Manager{cache: c, newController: newController, log: log}
}

// Create authenticates the user and, on success, registers a fresh session.
func (m *Manager) Create(ctx context.Context, username, password string) (string, *chat.Controller, error) {
	ctrl := m.newController()
	if err := ctrl.Login(ctx, username, password); err != nil {
		return "", nil, err
	}
	id := uuid.NewString()
	m.cache.Set(id, ctrl, gocache.DefaultExpiration)
	m.log.Infow("session created", "session_id", id, "username", username)
	return id, ctrl, nil
}

// Get returns the controller for a live session and slides its expiry.
func (m *Manager) Get(id string) (*chat.Controller, bool) {
	v, ok := m.cache.Get(id)
	if !ok {
		return nil, false
	}
	m.cache.Set(id, v, gocache.DefaultExpiration)
	return v.(*chat.Controller), true
}

// Destroy logs the session out and removes it. go-cache fires OnEvicted on
// Delete, so the controller teardown runs through the same path as expiry.
func (m *Manager) Destroy(id string) {
	m.cache.Delete(id)
}

// Count reports live sessions.
func (m *Manager) Count() int { return m.cache.ItemCount() }
