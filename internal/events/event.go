package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

// Type тип события жизненного цикла бронирования
type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingConfirmed Type = "booking.confirmed"
	BookingDeclined  Type = "booking.declined"
	BookingDeleted   Type = "booking.deleted"
)

// Event событие о бронировании
type Event struct {
	ID         uuid.UUID           `json:"event_id"`
	Type       Type                `json:"event_type"`
	OccurredAt time.Time           `json:"occurred_at"`
	Booking    model.BookingRecord `json:"booking"`
}

// New создаёт событие по копии бронирования
func New(t Type, booking *model.BookingRecord, now time.Time) Event {
	ev := Event{
		ID:         uuid.New(),
		Type:       t,
		OccurredAt: now.UTC(),
	}
	if booking != nil {
		ev.Booking = *booking
	}
	return ev
}
