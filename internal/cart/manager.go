package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"wardrobewizard/backend/internal/events"
	"wardrobewizard/backend/internal/store"
)

// Manager keeps one live engine per session. Engines are hydrated from the
// repository on first access and evicted oldest-idle-first beyond maxLive;
// an evicted engine loses only its applied coupon, since lines are persisted
// on every mutation.
type Manager struct {
	mu        sync.Mutex
	engines   map[string]*managedEngine
	repo      store.Repository
	publisher events.Publisher
	logger    *zap.Logger
	maxLive   int
}

type managedEngine struct {
	engine   *Engine
	lastUsed time.Time
}

func NewManager(repo store.Repository, publisher events.Publisher, logger *zap.Logger, maxLive int) *Manager {
	if maxLive < 1 {
		maxLive = 1024
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		engines:   make(map[string]*managedEngine),
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		maxLive:   maxLive,
	}
}

// Engine returns the live engine for the session, hydrating one if needed.
func (m *Manager) Engine(ctx context.Context, sessionID string) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if managed, ok := m.engines[sessionID]; ok {
		managed.lastUsed = time.Now()
		return managed.engine
	}

	if len(m.engines) >= m.maxLive {
		m.evictOldestLocked()
	}

	engine := NewEngine(ctx, sessionID, m.repo, m.publisher, m.logger)
	m.engines[sessionID] = &managedEngine{engine: engine, lastUsed: time.Now()}
	return engine
}

// Live reports how many engines are currently resident.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.engines)
}

func (m *Manager) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, managed := range m.engines {
		if oldestID == "" || managed.lastUsed.Before(oldestAt) {
			oldestID = id
			oldestAt = managed.lastUsed
		}
	}
	if oldestID != "" {
		delete(m.engines, oldestID)
		m.logger.Debug("evicted idle cart engine", zap.String("session_id", oldestID))
	}
}
