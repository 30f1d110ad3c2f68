package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/consult_scheduler/internal/availability"
	"github.com/Freeeeeet/consult_scheduler/internal/editor"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
	"github.com/Freeeeeet/consult_scheduler/internal/service"
)

// StatusDisplay emoji и текст статуса бронирования
type StatusDisplay struct {
	Emoji string
	Text  string
}

// bookingStatusDisplay возвращает emoji и текст для статуса бронирования
func bookingStatusDisplay(status model.BookingStatus) StatusDisplay {
	displays := map[model.BookingStatus]StatusDisplay{
		model.BookingStatusPending:   {"⏳", "Ожидает подтверждения"},
		model.BookingStatusConfirmed: {"✅", "Подтверждена"},
		model.BookingStatusDeclined:  {"🚫", "Отклонена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Неизвестно"}
}

var dayNamesRu = map[string]string{
	"Sun": "Вс", "Mon": "Пн", "Tue": "Вт", "Wed": "Ср", "Thu": "Чт", "Fri": "Пт", "Sat": "Сб",
}

func dayLabel(day string) string {
	if ru, ok := dayNamesRu[day]; ok {
		return ru
	}
	return day
}

// dateLabel форматирует дату как "Пн 19.10"
func dateLabel(date time.Time) string {
	day, _ := availability.DayName(availability.WeekDayOf(date))
	return dayLabel(day) + " " + date.Format("02.01")
}

// slotLabel подпись слота; если пояс клиента отличается, время показывается в поясе клиента
func slotLabel(start, end model.TimeOfDay, date time.Time, consultantTZ, viewerTZ string) string {
	label := availability.FormatRange(start, end)
	if consultantTZ == viewerTZ {
		return label
	}

	from := availability.LoadLocation(consultantTZ)
	to := availability.LoadLocation(viewerTZ)
	if from.String() == to.String() {
		return label
	}

	localStart, shift := availability.ConvertTime(start, date, from, to)
	localEnd, _ := availability.ConvertTime(end, date, from, to)
	label = availability.FormatRange(localStart, localEnd)
	switch {
	case shift > 0:
		label += " (+1д)"
	case shift < 0:
		label += " (-1д)"
	}
	return label
}

// formatBooking форматирует бронирование для отображения
func formatBooking(b *model.BookingRecord, counterpart string) string {
	display := bookingStatusDisplay(b.Status)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s, %s\n", display.Emoji, dayLabel(b.Day), b.Date, availability.FormatRange(b.StartTime, b.EndTime))
	if counterpart != "" {
		fmt.Fprintf(&sb, "👤 %s\n", counterpart)
	}
	fmt.Fprintf(&sb, "📊 Статус: %s", display.Text)
	if b.Notes != "" {
		fmt.Fprintf(&sb, "\n📝 %s", b.Notes)
	}
	return sb.String()
}

// formatBlocks список блоков доступности по дням
func formatBlocks(blocks []model.AvailabilityBlock) string {
	if len(blocks) == 0 {
		return "Блоков нет"
	}
	var lines []string
	for _, b := range availability.SortBlocks(blocks) {
		day, _ := availability.DayName(b.Day)
		lines = append(lines, fmt.Sprintf("• %s %s", dayLabel(day), availability.FormatRange(b.Start, b.End)))
	}
	return strings.Join(lines, "\n")
}

// userMessage переводит ошибку сервиса в сообщение для пользователя
func userMessage(err error) string {
	switch {
	case errors.Is(err, availability.ErrNoAvailabilitySet):
		return "📭 Консультант ещё не указал своё расписание."
	case errors.Is(err, service.ErrSlotBooked):
		return "❌ Этот слот уже занят. Выберите другой."
	case errors.Is(err, service.ErrSlotNotOffered):
		return "❌ Консультант не принимает в это время."
	case errors.Is(err, service.ErrDateInPast):
		return "❌ Эта дата уже прошла. Выберите другую."
	case errors.Is(err, service.ErrDayMismatch):
		return "❌ Дата не совпадает с выбранным днём недели."
	case errors.Is(err, service.ErrNotPending):
		return "❌ Заявка уже обработана."
	case errors.Is(err, editor.ErrLoading):
		return "⏳ Расписание ещё загружается."
	case errors.Is(err, model.ErrForbidden):
		return "❌ Недостаточно прав для этого действия."
	case errors.Is(err, model.ErrNotFound):
		return "❌ Не найдено."
	case errors.Is(err, model.ErrValidation):
		return "❌ Некорректные данные."
	case errors.Is(err, model.ErrConflict):
		return "❌ Конфликт: данные уже изменились."
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}
