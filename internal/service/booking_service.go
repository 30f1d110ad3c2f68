package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Freeeeeet/consult_scheduler/internal/auth"
	"github.com/Freeeeeet/consult_scheduler/internal/availability"
	"github.com/Freeeeeet/consult_scheduler/internal/events"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

// CreateBookingRequest запрос клиента на бронирование слота
type CreateBookingRequest struct {
	ConsultantID int64
	Date         string // YYYY-MM-DD
	Day          string // день недели, который выбрал клиент; пусто = не проверять
	StartTime    model.TimeOfDay
	EndTime      model.TimeOfDay
	ClientName   string
	ClientEmail  string
	Notes        string
}

type BookingService struct {
	bookings     BookingStore
	availability AvailabilityStore
	users        UserStore
	publisher    events.Publisher
	logger       *zap.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

func NewBookingService(
	bookings BookingStore,
	availabilityStore AvailabilityStore,
	users UserStore,
	publisher events.Publisher,
	logger *zap.Logger,
) *BookingService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &BookingService{
		bookings:     bookings,
		availability: availabilityStore,
		users:        users,
		publisher:    publisher,
		logger:       logger,
		tracer:       otel.Tracer("consult_scheduler/service/booking"),
		now:          time.Now,
	}
}

// WithClock подменяет источник текущего времени
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// checkNotPast отклоняет даты раньше сегодняшней (по UTC)
func (s *BookingService) checkNotPast(date time.Time) error {
	y, m, d := s.now().UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return fmt.Errorf("%w: %s", ErrDateInPast, availability.FormatDate(date))
	}
	return nil
}

// ResolveDate проверяет дату и, если задан, выбранный день недели
func ResolveDate(dateStr, dayName string) (time.Time, error) {
	date, err := availability.ParseDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	if dayName != "" {
		actual, _ := availability.DayName(availability.WeekDayOf(date))
		if actual != dayName {
			return time.Time{}, fmt.Errorf("%w: %s is %s, not %s", ErrDayMismatch, dateStr, actual, dayName)
		}
	}
	return date, nil
}

// Slots возвращает слоты консультанта на дату с отметкой занятости
func (s *BookingService) Slots(ctx context.Context, consultantID int64, date time.Time) ([]availability.ResolvedSlot, error) {
	if err := s.checkNotPast(date); err != nil {
		return nil, err
	}

	doc, err := s.availability.Load(ctx, consultantID)
	if err != nil {
		return nil, storeErr("load availability", err)
	}
	if doc == nil {
		return []availability.ResolvedSlot{}, availability.ErrNoAvailabilitySet
	}

	booked, err := s.bookings.List(ctx, model.BookingFilter{
		ConsultantID: &consultantID,
		Date:         availability.FormatDate(date),
		StatusIn:     []model.BookingStatus{model.BookingStatusPending, model.BookingStatusConfirmed},
	})
	if err != nil {
		return nil, storeErr("list bookings", err)
	}

	return availability.ResolveSlots(doc, date, booked)
}

// Create создаёт запрос на бронирование в статусе pending
func (s *BookingService) Create(ctx context.Context, p auth.Principal, req CreateBookingRequest) (*model.BookingRecord, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Create", trace.WithAttributes(
		attribute.Int64("consultant_id", req.ConsultantID),
		attribute.Int64("client_id", p.UserID),
		attribute.String("date", req.Date),
	))
	defer span.End()

	booking, err := s.create(ctx, p, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("booking_id", booking.ID.String()))
	return booking, nil
}

func (s *BookingService) create(ctx context.Context, p auth.Principal, req CreateBookingRequest) (*model.BookingRecord, error) {
	if p.IsZero() {
		return nil, noPermission("create booking")
	}
	if p.UserID == req.ConsultantID {
		return nil, noPermission("book yourself")
	}

	date, err := ResolveDate(req.Date, req.Day)
	if err != nil {
		return nil, err
	}
	if err := s.checkNotPast(date); err != nil {
		return nil, err
	}

	consultant, err := s.users.GetByID(ctx, req.ConsultantID)
	if err != nil {
		return nil, storeErr("get consultant", err)
	}
	if consultant == nil || !consultant.IsConsultant() {
		return nil, ErrConsultantNotFound
	}

	slots, err := s.Slots(ctx, req.ConsultantID, date)
	if err != nil {
		return nil, err
	}

	slot, ok := availability.FindSlot(slots, req.StartTime, req.EndTime)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrSlotNotOffered, availability.FormatRange(req.StartTime, req.EndTime), req.Date)
	}
	if slot.Booked {
		return nil, ErrSlotBooked
	}

	clientName := strings.TrimSpace(req.ClientName)
	clientEmail := strings.TrimSpace(req.ClientEmail)
	if clientName == "" || clientEmail == "" {
		client, err := s.users.GetByID(ctx, p.UserID)
		if err != nil {
			return nil, storeErr("get client", err)
		}
		if client != nil {
			if clientName == "" {
				clientName = client.DisplayName()
			}
			if clientEmail == "" {
				clientEmail = client.Email
			}
		}
	}

	dayName, _ := availability.DayName(availability.WeekDayOf(date))
	booking := &model.BookingRecord{
		ConsultantID: req.ConsultantID,
		ClientID:     p.UserID,
		ClientName:   clientName,
		ClientEmail:  clientEmail,
		Day:          dayName,
		Date:         availability.FormatDate(date),
		StartTime:    slot.Start,
		EndTime:      slot.End,
		Notes:        strings.TrimSpace(req.Notes),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, storeErr("create booking", err)
	}

	s.logger.Info("Booking requested",
		zap.String("booking_id", booking.ID.String()),
		zap.Int64("consultant_id", booking.ConsultantID),
		zap.Int64("client_id", booking.ClientID),
		zap.String("date", booking.Date),
		zap.String("time", availability.FormatRange(booking.StartTime, booking.EndTime)),
	)

	s.publish(ctx, events.BookingCreated, booking)
	return booking, nil
}

// Confirm подтверждает бронирование; только консультант, только из pending
func (s *BookingService) Confirm(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.BookingRecord, error) {
	return s.decide(ctx, p, id, model.BookingStatusConfirmed)
}

// Decline отклоняет бронирование; слот снова становится свободным
func (s *BookingService) Decline(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.BookingRecord, error) {
	return s.decide(ctx, p, id, model.BookingStatusDeclined)
}

// UpdateStatus переводит бронирование в confirmed или declined
func (s *BookingService) UpdateStatus(ctx context.Context, p auth.Principal, id uuid.UUID, status model.BookingStatus) (*model.BookingRecord, error) {
	switch status {
	case model.BookingStatusConfirmed, model.BookingStatusDeclined:
		return s.decide(ctx, p, id, status)
	default:
		return nil, fmt.Errorf("%w: cannot set status %q", model.ErrInvalidTransition, status)
	}
}

func (s *BookingService) decide(ctx context.Context, p auth.Principal, id uuid.UUID, status model.BookingStatus) (*model.BookingRecord, error) {
	booking, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.ConsultantID != p.UserID {
		return nil, noPermission("change this booking")
	}
	if booking.Status != model.BookingStatusPending {
		return nil, ErrNotPending
	}

	now := s.now().UTC()
	if err := s.bookings.UpdateStatus(ctx, id, status, now); err != nil {
		return nil, storeErr("update booking status", err)
	}

	booking.Status = status
	booking.UpdatedAt = now
	evType := events.BookingDeclined
	if status == model.BookingStatusConfirmed {
		booking.ConfirmedAt = &now
		evType = events.BookingConfirmed
	}

	s.logger.Info("Booking status changed",
		zap.String("booking_id", id.String()),
		zap.Int64("consultant_id", p.UserID),
		zap.String("status", string(status)),
	)

	s.publish(ctx, evType, booking)
	return booking, nil
}

// Delete удаляет бронирование; только клиент-владелец и только пока pending
func (s *BookingService) Delete(ctx context.Context, p auth.Principal, id uuid.UUID) error {
	booking, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if booking.ClientID != p.UserID {
		return noPermission("delete this booking")
	}
	if booking.Status != model.BookingStatusPending {
		return ErrNotPending
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		return storeErr("delete booking", err)
	}

	s.logger.Info("Booking deleted",
		zap.String("booking_id", id.String()),
		zap.Int64("client_id", p.UserID),
	)

	s.publish(ctx, events.BookingDeleted, booking)
	return nil
}

// GetByID возвращает бронирование, видимое только его участникам
func (s *BookingService) GetByID(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.BookingRecord, error) {
	booking, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.ClientID != p.UserID && booking.ConsultantID != p.UserID {
		return nil, noPermission("view this booking")
	}
	return booking, nil
}

// List возвращает бронирования пользователя, разложенные по статусам, новые сначала.
// Консультант видит входящие запросы, клиент свои.
func (s *BookingService) List(ctx context.Context, p auth.Principal) (*model.BookingsByStatus, error) {
	if p.IsZero() {
		return nil, noPermission("list bookings")
	}

	filter := model.BookingFilter{}
	userID := p.UserID
	if p.IsConsultant() {
		filter.ConsultantID = &userID
	} else {
		filter.ClientID = &userID
	}

	records, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, storeErr("list bookings", err)
	}
	return GroupByStatus(records), nil
}

// Pending входящие запросы консультанта, новые сначала
func (s *BookingService) Pending(ctx context.Context, p auth.Principal) ([]*model.BookingRecord, error) {
	if !p.IsConsultant() {
		return nil, noPermission("view booking requests")
	}
	grouped, err := s.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return grouped.Pending, nil
}

// GroupByStatus раскладывает бронирования по статусам, внутри группы по убыванию CreatedAt
func GroupByStatus(records []*model.BookingRecord) *model.BookingsByStatus {
	sorted := make([]*model.BookingRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	grouped := &model.BookingsByStatus{
		Pending:   []*model.BookingRecord{},
		Confirmed: []*model.BookingRecord{},
		Declined:  []*model.BookingRecord{},
	}
	for _, b := range sorted {
		switch b.Status {
		case model.BookingStatusPending:
			grouped.Pending = append(grouped.Pending, b)
		case model.BookingStatusConfirmed:
			grouped.Confirmed = append(grouped.Confirmed, b)
		case model.BookingStatusDeclined:
			grouped.Declined = append(grouped.Declined, b)
		}
	}
	return grouped
}

func (s *BookingService) get(ctx context.Context, id uuid.UUID) (*model.BookingRecord, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get booking", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) publish(ctx context.Context, t events.Type, booking *model.BookingRecord) {
	if err := s.publisher.Publish(ctx, events.New(t, booking, s.now())); err != nil {
		s.logger.Warn("Failed to publish booking event",
			zap.String("event_type", string(t)),
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err),
		)
	}
}
