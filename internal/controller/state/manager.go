package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/consult_scheduler/internal/editor"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

const loadTimeout = 10 * time.Second

// Manager управляет сессиями редактора доступности
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session // consultantID -> Session

	load          Loader
	pixelsPerHour float64
	ttl           time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewManager создаёт новый менеджер сессий
func NewManager(load Loader, pixelsPerHour float64, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		sessions:      make(map[int64]*Session),
		load:          load,
		pixelsPerHour: pixelsPerHour,
		ttl:           ttl,
		logger:        logger,
		now:           time.Now,
	}
}

// Open открывает новую сессию консультанта и запускает загрузку его доступности.
// Предыдущая сессия того же консультанта закрывается.
func (sm *Manager) Open(consultantID int64) *Session {
	now := sm.now()
	s := &Session{
		ID:           uuid.NewString(),
		ConsultantID: consultantID,
		editor:       editor.New(sm.pixelsPerHour),
		lastUsed:     now,
		loaded:       make(chan struct{}),
	}
	token := s.editor.BeginLoad()

	sm.mu.Lock()
	prev := sm.sessions[consultantID]
	sm.sessions[consultantID] = s
	sm.mu.Unlock()

	if prev != nil {
		prev.close()
	}

	go sm.runLoad(s, token)

	sm.logger.Info("Editor session opened",
		zap.Int64("consultant_id", consultantID),
		zap.String("session", s.ID),
	)
	return s
}

func (sm *Manager) runLoad(s *Session, token uint64) {
	defer close(s.loaded)

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	doc, err := sm.load(ctx, s.ConsultantID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.editor.FailLoad(token)
		s.loadErr = fmt.Errorf("load availability: %w: %w", model.ErrPersistence, err)
		sm.logger.Error("Failed to load availability for editor",
			zap.Int64("consultant_id", s.ConsultantID),
			zap.String("session", s.ID),
			zap.Error(err),
		)
		return
	}

	if err := s.editor.FinishLoad(token, doc); err != nil {
		// сессия закрыта до окончания загрузки
		sm.logger.Debug("Editor load result discarded",
			zap.String("session", s.ID),
			zap.Error(err),
		)
	}
}

// Get возвращает открытую сессию консультанта
func (sm *Manager) Get(consultantID int64) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s, ok := sm.sessions[consultantID]
	return s, ok
}

// Close закрывает сессию консультанта
func (sm *Manager) Close(consultantID int64) bool {
	sm.mu.Lock()
	s, ok := sm.sessions[consultantID]
	delete(sm.sessions, consultantID)
	sm.mu.Unlock()

	if !ok {
		return false
	}
	s.close()

	sm.logger.Info("Editor session closed",
		zap.Int64("consultant_id", consultantID),
		zap.String("session", s.ID),
	)
	return true
}

// Sweep закрывает сессии, простаивающие дольше ttl
func (sm *Manager) Sweep(now time.Time) int {
	if sm.ttl <= 0 {
		return 0
	}

	sm.mu.Lock()
	var expired []*Session
	for id, s := range sm.sessions {
		if s.idleSince(now) > sm.ttl {
			expired = append(expired, s)
			delete(sm.sessions, id)
		}
	}
	sm.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	return len(expired)
}

// Len количество открытых сессий
func (sm *Manager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
