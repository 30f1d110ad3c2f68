package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // Ожидает решения консультанта
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено
	BookingStatusDeclined  BookingStatus = "declined"  // Отклонено консультантом
)

// IsActive возвращает true для статусов, которые занимают слот
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// IsValid проверяет что статус известен
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusDeclined:
		return true
	}
	return false
}

// BookingRecord запрос клиента на встречу с консультантом в конкретную дату и время.
// StartTime/EndTime хранятся во времени консультанта.
type BookingRecord struct {
	ID           uuid.UUID     `json:"id"`
	ConsultantID int64         `json:"consultant_id"`
	ClientID     int64         `json:"client_id"`
	ClientName   string        `json:"client_name"`
	ClientEmail  string        `json:"client_email"`
	Day          string        `json:"day"`  // Mon, Tue, ... (дублирует Date)
	Date         string        `json:"date"` // YYYY-MM-DD
	StartTime    TimeOfDay     `json:"start_time"`
	EndTime      TimeOfDay     `json:"end_time"`
	Status       BookingStatus `json:"status"`
	Notes        string        `json:"notes"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	ConfirmedAt  *time.Time    `json:"confirmed_at"`
}

// BookingFilter фильтр выборки бронирований; пустые поля не ограничивают выборку
type BookingFilter struct {
	ConsultantID *int64
	ClientID     *int64
	Date         string
	StatusIn     []BookingStatus
}

// BookingsByStatus бронирования, разложенные по статусам
type BookingsByStatus struct {
	Pending   []*BookingRecord `json:"pending"`
	Confirmed []*BookingRecord `json:"confirmed"`
	Declined  []*BookingRecord `json:"declined"`
}
