package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

type memAvailability struct {
	mu    sync.Mutex
	docs  map[int64]*model.WeeklyAvailabilityDocument
	saves int
	err   error
}

func newMemAvailability() *memAvailability {
	return &memAvailability{docs: make(map[int64]*model.WeeklyAvailabilityDocument)}
}

func (m *memAvailability) Load(_ context.Context, consultantID int64) (*model.WeeklyAvailabilityDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.docs[consultantID]
	if !ok {
		return nil, nil
	}
	cp := *doc
	return &cp, nil
}

func (m *memAvailability) Save(_ context.Context, doc *model.WeeklyAvailabilityDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *doc
	m.docs[doc.ConsultantID] = &cp
	m.saves++
	return nil
}

type memBookings struct {
	mu      sync.Mutex
	records map[uuid.UUID]*model.BookingRecord
	clock   time.Time
}

func newMemBookings() *memBookings {
	return &memBookings{
		records: make(map[uuid.UUID]*model.BookingRecord),
		clock:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
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
		if len(f.StatusIn) > 0 {
			match := false
			for _, s := range f.StatusIn {
				if r.Status == s {
					match = true
				}
			}
			if !match {
				continue
			}
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
	m.clock = m.clock.Add(time.Minute)
	b.ID = uuid.New()
	b.Status = model.BookingStatusPending
	b.CreatedAt = m.clock
	b.UpdatedAt = m.clock
	cp := *b
	m.records[b.ID] = &cp
	return nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id uuid.UUID, status model.BookingStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return model.ErrNotFound
	}
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

func (m *memBookings) put(r model.BookingRecord) *model.BookingRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	m.records[r.ID] = &r
	return &r
}

type memUsers struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64
}

func newMemUsers(users ...*model.User) *memUsers {
	m := &memUsers{users: make(map[int64]*model.User), nextID: 100}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
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
	m.nextID++
	u.ID = m.nextID
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
