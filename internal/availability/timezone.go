package availability

import (
	"time"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

// LoadLocation возвращает часовой пояс по имени IANA; пустое или неизвестное имя даёт UTC
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ConvertTime переводит время консультанта в дату date из пояса from в пояс to.
// Возвращает время в поясе to и сдвиг даты в днях (-1, 0, +1).
func ConvertTime(t model.TimeOfDay, date time.Time, from, to *time.Location) (model.TimeOfDay, int) {
	if from == nil {
		from = time.UTC
	}
	if to == nil {
		to = time.UTC
	}

	local := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, from).
		Add(time.Duration(Minutes(t)) * time.Minute)
	converted := local.In(to)

	origDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	newDay := time.Date(converted.Year(), converted.Month(), converted.Day(), 0, 0, 0, 0, time.UTC)
	shift := int(newDay.Sub(origDay).Hours() / 24)

	return FromMinutes(converted.Hour()*60 + converted.Minute()), shift
}
