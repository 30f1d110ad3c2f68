package availability

import (
	"fmt"
	"math"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

const (
	// SnapStep шаг сетки в часах (30 минут)
	SnapStep model.TimeOfDay = 0.5
	// MinBlockDuration минимальная длительность блока
	MinBlockDuration model.TimeOfDay = 0.5

	DayStart model.TimeOfDay = 0
	DayEnd   model.TimeOfDay = 24
)

// Snap округляет время до ближайшего шага сетки
func Snap(t model.TimeOfDay) model.TimeOfDay {
	return model.TimeOfDay(math.Round(float64(t/SnapStep))) * SnapStep
}

// Clamp ограничивает время отрезком [lo, hi]
func Clamp(t, lo, hi model.TimeOfDay) model.TimeOfDay {
	if t < lo {
		return lo
	}
	if t > hi {
		return hi
	}
	return t
}

// TimeFromPointerOffset переводит вертикальное смещение в колонке дня во время.
// Результат округлён до 0.5 и лежит в [0, 24]; через эту функцию проходят все жесты.
func TimeFromPointerOffset(offsetPixels, pixelsPerHour float64) model.TimeOfDay {
	if pixelsPerHour <= 0 || math.IsNaN(offsetPixels) || math.IsNaN(pixelsPerHour) {
		return DayStart
	}
	return Clamp(Snap(model.TimeOfDay(offsetPixels/pixelsPerHour)), DayStart, DayEnd)
}

// Minutes переводит время в целые минуты от начала дня
func Minutes(t model.TimeOfDay) int {
	return int(math.Round(float64(t) * 60))
}

// FromMinutes переводит минуты от начала дня во время
func FromMinutes(m int) model.TimeOfDay {
	return model.TimeOfDay(m) / 60
}

// SameTime сравнивает два времени с точностью до минуты
func SameTime(a, b model.TimeOfDay) bool {
	return Minutes(a) == Minutes(b)
}

// FormatTime24 форматирует время как 09:30
func FormatTime24(t model.TimeOfDay) string {
	total := Minutes(t)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatTime12 форматирует время как 9:30am
func FormatTime12(t model.TimeOfDay) string {
	total := Minutes(t)
	h := (total / 60) % 24
	m := total % 60

	ampm := "am"
	if h >= 12 {
		ampm = "pm"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d%s", h12, m, ampm)
}

// FormatHourLabel форматирует подпись часа сетки: 0 -> 12am, 13 -> 1pm
func FormatHourLabel(hour int) string {
	hour = ((hour % 24) + 24) % 24
	ampm := "am"
	if hour >= 12 {
		ampm = "pm"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d%s", h12, ampm)
}

// FormatRange форматирует интервал как 09:00-10:30
func FormatRange(start, end model.TimeOfDay) string {
	return FormatTime24(start) + "-" + FormatTime24(end)
}
