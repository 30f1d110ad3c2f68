package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

// AvailabilityStore хранилище недельной доступности. Отсутствующий документ: (nil, nil).
type AvailabilityStore interface {
	Load(ctx context.Context, consultantID int64) (*model.WeeklyAvailabilityDocument, error)
	Save(ctx context.Context, doc *model.WeeklyAvailabilityDocument) error
}

// BookingStore хранилище бронирований. Отсутствующая запись: (nil, nil).
type BookingStore interface {
	List(ctx context.Context, filter model.BookingFilter) ([]*model.BookingRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.BookingRecord, error)
	// Create заполняет ID, Status=pending, CreatedAt и UpdatedAt
	Create(ctx context.Context, booking *model.BookingRecord) error
	// UpdateStatus меняет статус; для confirmed проставляет confirmed_at = at
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserStore хранилище пользователей. Отсутствующая запись: (nil, nil).
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
}
