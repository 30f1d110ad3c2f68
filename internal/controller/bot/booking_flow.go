package bot

import (
	"fmt"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/Freeeeeet/consult_scheduler/internal/availability"
	"github.com/Freeeeeet/consult_scheduler/internal/auth"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
	"github.com/Freeeeeet/consult_scheduler/internal/service"
)

// Запись клиента: консультант -> день недели -> дата -> слот

// onBook показывает дни недели, в которые консультант принимает
func (c *Controller) onBook(cc *callbackContext) error {
	parts, err := callbackArgs(cc.callback.Data, cbBook, 1)
	if err != nil {
		return fmt.Errorf("%w: %w", errBadCallback, err)
	}
	consultantID, err := parseConsultantID(parts[0])
	if err != nil {
		return fmt.Errorf("%w: %w", errBadCallback, err)
	}

	days, err := c.availability.AvailableDays(cc.ctx, consultantID)
	if service.IsNotSet(err) || (err == nil && len(days) == 0) {
		c.edit(cc.ctx, cc.bot, cc.message, userMessage(availability.ErrNoAvailabilitySet), nil)
		return nil
	}
	if err != nil {
		return err
	}

	c.edit(cc.ctx, cc.bot, cc.message, "📅 Выберите день недели:", dayKeyboard(consultantID, days))
	return nil
}

func dayKeyboard(consultantID int64, days []model.WeekDay) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(days))
	for _, d := range days {
		name, ok := availability.DayName(d)
		if !ok {
			continue
		}
		buttons = append(buttons, Button(dayLabel(name), dayData(consultantID, name)))
	}
	return NewBuilder().Grid(4, buttons...).Build()
}

// onDay показывает ближайшие даты выбранного дня недели
func (c *Controller) onDay(cc *callbackContext) error {
	parts, err := callbackArgs(cc.callback.Data, cbDay, 2)
	if err != nil {
		return fmt.Errorf("%w: %w", errBadCallback, err)
	}
	consultantID, err := parseConsultantID(parts[0])
	if err != nil {
		return fmt.Errorf("%w: %w", errBadCallback, err)
	}
	day, ok := availability.DayFromName(parts[1])
	if !ok {
		return fmt.Errorf("%w: unknown day %q", errBadCallback, parts[1])
	}

	dates := availability.UpcomingDates(c.now().UTC(), day, c.weeksAhead)
	kb := NewBuilder()
	for _, d := range dates {
		kb.Row(Button(dateLabel(d), dateData(consultantID, availability.FormatDate(d))))
	}
	kb.Row(Button("⬅️ Назад", bookData(consultantID)))

	c.edit(cc.ctx, cc.bot, cc.message, "📆 Выберите дату:", kb.Build())
	return nil
}

// onDate показывает слоты даты; занятые слоты неактивны
func (c *Controller) onDate(cc *callbackContext) error {
	parts, err := callbackArgs(cc.callback.Data, cbDate, 2)
	if err != nil {
		return fmt.Errorf("%w: %w", errBadCallback, err)
	}
	consultantID, err := parseConsultantID(parts[0])
	if err != nil {
		return fmt.Errorf("%w: %w", errBadCallback, err)
	}
	date, err := availability.ParseDate(parts[1])
	if err != nil {
		return fmt.Errorf("%w: %w", errBadCallback, err)
	}

	slots, err := c.bookings.Slots(cc.ctx, consultantID, date)
	if err != nil {
		return err
	}

	consultant, err := c.users.GetByID(cc.ctx, consultantID)
	if err != nil {
		return err
	}

	dayName, _ := availability.DayName(availability.WeekDayOf(date))
	text := fmt.Sprintf("🕐 %s, свободное время", dateLabel(date))
	if location(consultant) != location(cc.user) {
		text += fmt.Sprintf("\n🌍 Время указано в вашем поясе (%s)", location(cc.user))
	}
	if len(availability.FreeSlots(slots)) == 0 {
		text = fmt.Sprintf("😔 На %s свободных слотов нет.", dateLabel(date))
	}

	kb := slotKeyboard(slots, consultantID, parts[1], date, location(consultant), location(cc.user))
	kb.Row(Button("⬅️ Назад", dayData(consultantID, dayName)))

	c.edit(cc.ctx, cc.bot, cc.message, text, kb.Build())
	return nil
}

func slotKeyboard(slots []availability.ResolvedSlot, consultantID int64, dateStr string, date time.Time, consultantTZ, viewerTZ string) *Builder {
	buttons := make([]models.InlineKeyboardButton, 0, len(slots))
	for _, s := range slots {
		label := slotLabel(s.Start, s.End, date, consultantTZ, viewerTZ)
		if s.Booked {
			buttons = append(buttons, Button("🔒 "+label, cbNoop))
			continue
		}
		buttons = append(buttons, Button(label, slotData(consultantID, dateStr, s.Start)))
	}
	return NewBuilder().Grid(2, buttons...)
}

// onSlot создаёт заявку на выбранный слот
func (c *Controller) onSlot(cc *callbackContext) error {
	sel, err := parseSlotData(cc.callback.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", errBadCallback, err)
	}
	date, err := availability.ParseDate(sel.Date)
	if err != nil {
		return fmt.Errorf("%w: %w", errBadCallback, err)
	}
	dayName, _ := availability.DayName(availability.WeekDayOf(date))

	rec, err := c.bookings.Create(cc.ctx, auth.ForUser(cc.user), service.CreateBookingRequest{
		ConsultantID: sel.ConsultantID,
		Date:         sel.Date,
		Day:          dayName,
		StartTime:    sel.Start,
		EndTime:      sel.Start + availability.SlotDuration,
		ClientName:   cc.user.DisplayName(),
		ClientEmail:  cc.user.Email,
	})
	if err != nil {
		return err
	}

	text := "📨 Заявка отправлена консультанту!\n\n" +
		formatBooking(rec, c.displayName(cc.ctx, rec.ConsultantID)) +
		"\n\nМы сообщим, когда консультант ответит."
	c.edit(cc.ctx, cc.bot, cc.message, text, nil)
	return nil
}
