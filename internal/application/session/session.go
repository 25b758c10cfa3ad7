package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	marketsvc "mandi/internal/application/service/market"
	negotiationsvc "mandi/internal/application/service/negotiation"
	translationsvc "mandi/internal/application/service/translation"
)

// Session is the explicit per-user context: its own rate catalog, translation
// cache and negotiation history. Nothing is shared across sessions.
type Session struct {
	ID          string
	CreatedAt   time.Time
	Rates       *marketsvc.Service
	Translator  *translationsvc.Service
	Negotiation *negotiationsvc.Session

	mu       sync.Mutex
	lastSeen time.Time
}

// Touch refreshes the idle timer.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen reports the most recent activity time.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Factory builds the isolated stores for a new session.
type Factory func() (*marketsvc.Service, *translationsvc.Service, *negotiationsvc.Session)

// Manager creates and resolves sessions and drives the shared background
// tick over every live session's catalog.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	factory Factory
	ttl     time.Duration
	now     func() time.Time
	logger  logrus.FieldLogger
}

func NewManager(factory Factory, ttl time.Duration, logger logrus.FieldLogger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Create builds a fresh isolated session and registers it.
func (m *Manager) Create() *Session {
	rates, translator, negotiation := m.factory()
	now := m.now()
	s := &Session{
		ID:          uuid.NewString(),
		CreatedAt:   now,
		Rates:       rates,
		Translator:  translator,
		Negotiation: negotiation,
		lastSeen:    now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.WithField("session_id", s.ID).Info("session created")
	return s
}

// Get resolves a session by id and refreshes its idle timer.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.Touch(m.now())
	}
	return s, ok
}

// Len reports how many sessions are live.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// TickAll perturbs every live session's catalog and hands each fresh
// snapshot to visit (the broker publisher, when configured).
func (m *Manager) TickAll(ctx context.Context, visit func(s *Session)) {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		if _, err := s.Rates.Tick(ctx); err != nil {
			m.logger.WithField("session_id", s.ID).Errorf("tick failed: %v", err)
			continue
		}
		if visit != nil {
			visit(s)
		}
	}
}

// Sweep drops sessions idle for longer than the TTL. A zero TTL disables
// eviction.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Infof("swept %d idle sessions", removed)
	}
	return removed
}
