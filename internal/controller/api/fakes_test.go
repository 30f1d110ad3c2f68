package api

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

type memAvailability struct {
	mu   sync.Mutex
	docs map[int64]*model.WeeklyAvailabilityDocument
}

func (m *memAvailability) Load(_ context.Context, id int64) (*model.WeeklyAvailabilityDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	cp := *doc
	return &cp, nil
}

func (m *memAvailability) Save(_ context.Context, doc *model.WeeklyAvailabilityDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *doc
	m.docs[doc.ConsultantID] = &cp
	return nil
}

type memBookings struct {
	mu      sync.Mutex
	records map[uuid.UUID]*model.BookingRecord
}

func (m *memBookings) List(_ context.Context, f model.BookingFilter) ([]*model.BookingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.BookingRecord
	for _, r := range m.records {
		if f.ConsultantID != nil && r.ConsultantID != *f.ConsultantID {
			continue
		}
		if f.ClientID != nil && r.ClientID != *f.ClientID {
			continue
		}
		if f.Date != "" && r.Date != f.Date {
			continue
		}
		if len(f.StatusIn) > 0 && !slices.Contains(f.StatusIn, r.Status) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memBookings) GetByID(_ context.Context, id uuid.UUID) (*model.BookingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memBookings) Create(_ context.Context, b *model.BookingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = uuid.New()
	b.Status = model.BookingStatusPending
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	m.records[b.ID] = &cp
	return nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id uuid.UUID, status model.BookingStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.records[id]
	r.Status = status
	r.UpdatedAt = at
	if status == model.BookingStatusConfirmed {
		r.ConfirmedAt = &at
	}
	return nil
}

func (m *memBookings) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[int64]*model.User
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = int64(len(m.users) + 1)
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) Update(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) ListByRole(_ context.Context, role model.Role) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.User
	for _, u := range m.users {
		if u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}
