package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
	"github.com/Freeeeeet/consult_scheduler/internal/repository/base"
)

const bookingColumns = `id, consultant_id, client_id, client_name, client_email, day, date::text,
	start_time, end_time, status, notes, created_at, updated_at, confirmed_at`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт бронирование в статусе pending
func (r *BookingRepository) Create(ctx context.Context, booking *model.BookingRecord) error {
	query := `
		INSERT INTO bookings (consultant_id, client_id, client_name, client_email, day, date, start_time, end_time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9, $10)
		RETURNING id, status, created_at, updated_at
	`

	var status string
	err := r.QueryRow(
		ctx, query,
		booking.ConsultantID,
		booking.ClientID,
		booking.ClientName,
		booking.ClientEmail,
		booking.Day,
		booking.Date,
		float64(booking.StartTime),
		float64(booking.EndTime),
		string(model.BookingStatusPending),
		booking.Notes,
	).Scan(&booking.ID, &status, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return base.Wrap("create booking", err)
	}

	booking.Status = model.BookingStatus(status)
	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BookingRecord, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Wrap("get booking by id", err)
	}
	return booking, nil
}

// List получает бронирования по фильтру, новые сначала
func (r *BookingRepository) List(ctx context.Context, filter model.BookingFilter) ([]*model.BookingRecord, error) {
	query, args := buildBookingListQuery(filter)

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, base.Wrap("list bookings", err)
	}
	defer rows.Close()

	var bookings []*model.BookingRecord
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, base.Wrap("scan booking", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Wrap("iterate bookings", err)
	}

	return bookings, nil
}

// UpdateStatus обновляет статус; при подтверждении проставляет confirmed_at
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus, at time.Time) error {
	query := `
		UPDATE bookings
		SET status = $1,
		    updated_at = $2,
		    confirmed_at = CASE WHEN $1 = 'confirmed' THEN $2 ELSE confirmed_at END
		WHERE id = $3
	`

	affected, err := r.ExecAffected(ctx, query, string(status), at, id)
	if err != nil {
		return base.Wrap("update booking status", err)
	}
	if affected == 0 {
		return fmt.Errorf("update booking status: booking %w", model.ErrNotFound)
	}
	return nil
}

// Delete удаляет бронирование
func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return base.Wrap("delete booking", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete booking: booking %w", model.ErrNotFound)
	}
	return nil
}

func buildBookingListQuery(filter model.BookingFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.ConsultantID != nil {
		args = append(args, *filter.ConsultantID)
		conds = append(conds, fmt.Sprintf("consultant_id = $%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		conds = append(conds, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if filter.Date != "" {
		args = append(args, filter.Date)
		conds = append(conds, fmt.Sprintf("date = $%d::date", len(args)))
	}
	if len(filter.StatusIn) > 0 {
		statuses := make([]string, 0, len(filter.StatusIn))
		for _, s := range filter.StatusIn {
			statuses = append(statuses, string(s))
		}
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	return query, args
}

func scanBooking(row pgx.Row) (*model.BookingRecord, error) {
	var (
		b          model.BookingRecord
		start, end float64
		status     string
	)
	err := row.Scan(
		&b.ID,
		&b.ConsultantID,
		&b.ClientID,
		&b.ClientName,
		&b.ClientEmail,
		&b.Day,
		&b.Date,
		&start,
		&end,
		&status,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.ConfirmedAt,
	)
	if err != nil {
		return nil, err
	}

	b.StartTime = model.TimeOfDay(start)
	b.EndTime = model.TimeOfDay(end)
	b.Status = model.BookingStatus(status)
	return &b, nil
}
