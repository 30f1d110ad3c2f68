package availability

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

// DateLayout формат даты бронирования
const DateLayout = "2006-01-02"

var dayNames = [model.DaysInWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DayName возвращает трёхбуквенное имя дня недели
func DayName(day model.WeekDay) (string, bool) {
	if day < model.Sunday || day > model.Saturday {
		return "", false
	}
	return dayNames[day], true
}

// DayFromName возвращает индекс дня недели по имени ("Mon" -> 1)
func DayFromName(name string) (model.WeekDay, bool) {
	for i, n := range dayNames {
		if n == name {
			return model.WeekDay(i), true
		}
	}
	return 0, false
}

// WeekDayOf возвращает день недели календарной даты
func WeekDayOf(date time.Time) model.WeekDay {
	return model.WeekDay(date.Weekday())
}

// ParseDate разбирает дату формата YYYY-MM-DD (UTC полночь)
func ParseDate(s string) (time.Time, error) {
	date, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: malformed date %q", model.ErrValidation, s)
	}
	return date, nil
}

// FormatDate форматирует дату в YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// UpcomingDates возвращает n ближайших дат с указанным днём недели, начиная с from (включительно)
func UpcomingDates(from time.Time, day model.WeekDay, n int) []time.Time {
	if n <= 0 {
		return nil
	}

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day) - int(start.Weekday()) + model.DaysInWeek) % model.DaysInWeek
	first := start.AddDate(0, 0, offset)

	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, first.AddDate(0, 0, i*model.DaysInWeek))
	}
	return dates
}

// AvailableDays возвращает дни недели, в которых есть хотя бы один блок (Sun..Sat)
func AvailableDays(doc *model.WeeklyAvailabilityDocument) []model.WeekDay {
	if doc == nil {
		return nil
	}

	var present [model.DaysInWeek]bool
	for _, b := range doc.Blocks {
		if day, ok := DayFromName(b.Day); ok {
			present[day] = true
		}
	}

	var days []model.WeekDay
	for i, ok := range present {
		if ok {
			days = append(days, model.WeekDay(i))
		}
	}
	return days
}
