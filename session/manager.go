// Package session keeps one pipeline per user session. Sessions are
// uuid-keyed and LRU-bounded: when the bound is exceeded (or a session
// is closed) the evicted pipeline's graph is disposed. Graphs share no
// state across sessions, so no cross-session locking is needed.
package session

import (
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/recell/recell/pipeline"
)

// Session is one user's live pipeline.
type Session struct {
	ID        string
	Pipeline  *pipeline.Pipeline
	CreatedAt time.Time
}

// Manager owns the live sessions.
type Manager struct {
	cfg      Config
	sessions *lru.Cache[string, *Session]
}

// NewManager creates a session registry bounded by cfg.MaxSessions.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 128
	}
	cache, err := lru.NewWithEvict(cfg.MaxSessions, func(_ string, s *Session) {
		_ = s.Pipeline.Dispose()
	})
	if err != nil {
		return nil, err
	}
	return &Manager{cfg: cfg, sessions: cache}, nil
}

// Open creates a session with a fresh pipeline seeded with the
// configured default options.
func (m *Manager) Open(opts ...pipeline.Option) (*Session, error) {
	p := pipeline.New(opts...)
	if err := p.SetOptions(m.cfg.DefaultOptions); err != nil {
		return nil, err
	}

	s := &Session{
		ID:        uuid.NewString(),
		Pipeline:  p,
		CreatedAt: time.Now(),
	}
	m.sessions.Add(s.ID, s)
	return s, nil
}

// Get returns the session by id, refreshing its recency.
func (m *Manager) Get(id string) (*Session, bool) {
	return m.sessions.Get(id)
}

// Close ends a session and disposes its pipeline.
func (m *Manager) Close(id string) {
	m.sessions.Remove(id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.sessions.Len()
}

// CloseAll ends every session.
func (m *Manager) CloseAll() {
	m.sessions.Purge()
}
