package state

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/consult_scheduler/internal/editor"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

// Loader загружает сохранённую доступность консультанта.
// (nil, nil) означает что доступность ещё не задана.
type Loader func(ctx context.Context, consultantID int64) (*model.WeeklyAvailabilityDocument, error)

// Session сессия редактирования доступности одного консультанта
type Session struct {
	ID           string
	ConsultantID int64

	mu       sync.Mutex
	editor   *editor.Editor
	lastUsed time.Time
	loadErr  error
	loaded   chan struct{}
}

// Do выполняет операцию над редактором под блокировкой сессии
func (s *Session) Do(now time.Time, fn func(e *editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = now
	if s.loadErr != nil {
		return s.loadErr
	}
	return fn(s.editor)
}

// State текущее состояние редактора
func (s *Session) State() editor.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.State()
}

// Closed закрыта ли сессия (заменена новой или истекла)
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Closed()
}

// LoadErr ошибка загрузки, если она была
func (s *Session) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Wait ждёт завершения начальной загрузки
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.loaded:
		return s.LoadErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastUsed)
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.Close()
}
