// Package session holds the client's authentication identity and decides
// whether remote operations are attempted.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/zhaolong57/mood-diary/internal/cache"
	"github.com/zhaolong57/mood-diary/internal/logger"
	"github.com/zhaolong57/mood-diary/internal/model"
)

// Session is the current identity, or anonymous when User is nil.
type Session struct {
	User  *model.PublicUser
	Token string
}

func (s Session) Authenticated() bool { return s.User != nil && s.Token != "" }

// Manager persists and restores the session through the local cache store.
type Manager struct {
	store   *cache.Store
	baseURL string
	current Session
}

func NewManager(store *cache.Store, baseURL string) *Manager {
	return &Manager{store: store, baseURL: baseURL}
}

// Restore loads the persisted identity and token. It never fails: absent or
// corrupt cache entries degrade to an anonymous session.
func (m *Manager) Restore() Session {
	m.current = Session{}

	rawUser, okUser, err := m.store.Get(cache.KeyUser)
	if err != nil {
		logger.Warn("session.restore cache read failed", "err", err)
		return m.current
	}
	token, okToken, err := m.store.Get(cache.KeyToken)
	if err != nil {
		logger.Warn("session.restore cache read failed", "err", err)
		return m.current
	}
	if !okUser || !okToken || token == "" {
		return m.current
	}

	var u model.PublicUser
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil || u.ID == "" {
		logger.Warn("session.restore discarding corrupt identity entry")
		return m.current
	}

	m.current = Session{User: &u, Token: token}
	return m.current
}

// Establish persists the identity and token, then updates the in-memory
// session. Either both cache entries are written or neither is.
func (m *Manager) Establish(user model.PublicUser, token string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := m.store.Put(cache.KeyUser, string(raw)); err != nil {
		return err
	}
	if err := m.store.Put(cache.KeyToken, token); err != nil {
		// Roll the identity entry back so a later Restore stays anonymous
		// instead of finding half a session.
		m.store.Delete(cache.KeyUser)
		return err
	}
	m.current = Session{User: &user, Token: token}
	return nil
}

// Clear removes the persisted identity and resets to anonymous.
func (m *Manager) Clear() error {
	err1 := m.store.Delete(cache.KeyUser)
	err2 := m.store.Delete(cache.KeyToken)
	m.current = Session{}
	if err1 != nil {
		return err1
	}
	return err2
}

func (m *Manager) Current() Session { return m.current }

// RemoteEnabled is true only when a remote endpoint is configured and the
// session is authenticated. Every remote call the sync engine makes is
// gated on this.
func (m *Manager) RemoteEnabled() bool {
	return m.baseURL != "" && m.current.Authenticated()
}
