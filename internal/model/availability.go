package model

import "time"

// WeekDay день недели, 0 = Sunday, 6 = Saturday
type WeekDay int

const (
	Sunday WeekDay = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// DaysInWeek количество дней в неделе
const DaysInWeek = 7

// TimeOfDay время внутри дня в часах: 9.5 = 09:30, 24 = конец дня
type TimeOfDay float64

// AvailabilityBlock непрерывный интервал доступности консультанта в один день недели.
// ID живёт только внутри сессии редактирования и переназначается при каждой загрузке.
type AvailabilityBlock struct {
	ID    int       `json:"id"`
	Day   WeekDay   `json:"day"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Duration длительность блока в часах
func (b AvailabilityBlock) Duration() TimeOfDay {
	return b.End - b.Start
}

// PersistedBlock блок в сохранённом виде (день недели строкой, без ID)
type PersistedBlock struct {
	Day   string    `json:"day"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// WeeklyAvailabilityDocument сохранённая недельная доступность консультанта
type WeeklyAvailabilityDocument struct {
	ConsultantID int64            `json:"consultant_id"`
	Blocks       []PersistedBlock `json:"blocks"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
