package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/consult_scheduler/internal/auth"
	"github.com/Freeeeeet/consult_scheduler/internal/availability"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

// SaveVersion ревизия редактора, из которого пришло сохранение.
// Пустая сессия означает сохранение без сессии (всегда применяется).
type SaveVersion struct {
	Session  string
	Revision uint64
	// Live сообщает, открыта ли ещё сессия; закрытая сессия не записывает
	Live func() bool
}

type saveState struct {
	mu       sync.Mutex
	session  string
	revision uint64
}

type AvailabilityService struct {
	store  AvailabilityStore
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	states map[int64]*saveState
}

func NewAvailabilityService(store AvailabilityStore, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		store:  store,
		logger: logger,
		now:    time.Now,
		states: make(map[int64]*saveState),
	}
}

// Load возвращает документ консультанта или availability.ErrNoAvailabilitySet
func (s *AvailabilityService) Load(ctx context.Context, consultantID int64) (*model.WeeklyAvailabilityDocument, error) {
	doc, err := s.store.Load(ctx, consultantID)
	if err != nil {
		return nil, storeErr("load availability", err)
	}
	if doc == nil {
		return nil, availability.ErrNoAvailabilitySet
	}
	return doc, nil
}

// AvailableDays дни недели, в которые консультант принимает
func (s *AvailabilityService) AvailableDays(ctx context.Context, consultantID int64) ([]model.WeekDay, error) {
	doc, err := s.Load(ctx, consultantID)
	if err != nil {
		return nil, err
	}
	return availability.AvailableDays(doc), nil
}

// Save проверяет и сохраняет блоки консультанта.
// Сохранения одного консультанта выполняются последовательно; сохранение той же сессии
// с ревизией не новее уже применённой отбрасывается с ErrStaleSave.
func (s *AvailabilityService) Save(ctx context.Context, p auth.Principal, blocks []model.AvailabilityBlock, v SaveVersion) (*model.WeeklyAvailabilityDocument, error) {
	if !p.IsConsultant() {
		return nil, noPermission("edit availability")
	}

	doc, err := availability.NewDocument(p.UserID, blocks, s.now())
	if err != nil {
		return nil, err
	}

	st := s.state(p.UserID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if v.Session != "" && v.Session == st.session && v.Revision <= st.revision {
		s.logger.Info("Stale availability save dropped",
			zap.Int64("consultant_id", p.UserID),
			zap.Uint64("revision", v.Revision),
			zap.Uint64("applied_revision", st.revision),
		)
		return nil, ErrStaleSave
	}
	if v.Live != nil && !v.Live() {
		s.logger.Info("Availability save from a closed session dropped",
			zap.Int64("consultant_id", p.UserID),
			zap.String("session", v.Session),
		)
		return nil, ErrStaleSave
	}

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, storeErr("save availability", err)
	}

	st.session = v.Session
	st.revision = v.Revision

	s.logger.Info("Availability saved",
		zap.Int64("consultant_id", p.UserID),
		zap.Int("blocks", len(doc.Blocks)),
		zap.String("session", v.Session),
		zap.Uint64("revision", v.Revision),
	)

	return doc, nil
}

// SaveDocument сохраняет документ в сохраняемом виде (без сессии редактора)
func (s *AvailabilityService) SaveDocument(ctx context.Context, p auth.Principal, persisted []model.PersistedBlock) (*model.WeeklyAvailabilityDocument, error) {
	blocks, err := availability.Deserialize(persisted, 1)
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, p, blocks, SaveVersion{})
}

// IsNotSet проверяет что ошибка означает отсутствие доступности
func IsNotSet(err error) bool {
	return errors.Is(err, availability.ErrNoAvailabilitySet)
}

func (s *AvailabilityService) state(consultantID int64) *saveState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[consultantID]
	if !ok {
		st = &saveState{}
		s.states[consultantID] = st
	}
	return st
}
