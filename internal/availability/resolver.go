package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

// ErrNoAvailabilitySet консультант ещё не сохранил доступность
var ErrNoAvailabilitySet = fmt.Errorf("%w: consultant has not set availability yet", model.ErrNotFound)

// ResolvedSlot слот конкретной даты с признаком занятости
type ResolvedSlot struct {
	Start  model.TimeOfDay `json:"start"`
	End    model.TimeOfDay `json:"end"`
	Booked bool            `json:"booked"`
}

type slotKey struct {
	start, end int
}

// ResolveSlots строит слоты для даты по недельной доступности и существующим бронированиям.
// День недели берётся из date. Блоки одного дня обрабатываются независимо,
// совпадающие слоты из пересекающихся блоков возвращаются один раз.
func ResolveSlots(doc *model.WeeklyAvailabilityDocument, date time.Time, bookings []*model.BookingRecord) ([]ResolvedSlot, error) {
	if doc == nil {
		return []ResolvedSlot{}, ErrNoAvailabilitySet
	}

	weekday := WeekDayOf(date)
	dayName, _ := DayName(weekday)
	dateStr := FormatDate(date)

	booked := make(map[slotKey]bool)
	for _, b := range bookings {
		if b == nil || !b.Status.IsActive() {
			continue
		}
		if b.Date != dateStr || b.Day != dayName {
			continue
		}
		booked[slotKey{Minutes(b.StartTime), Minutes(b.EndTime)}] = true
	}

	seen := make(map[slotKey]bool)
	result := make([]ResolvedSlot, 0)
	for _, pb := range doc.Blocks {
		if pb.Day != dayName {
			continue
		}
		for _, s := range generateSlots(pb.Start, pb.End, SlotDuration) {
			key := slotKey{Minutes(s.Start), Minutes(s.End)}
			if seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, ResolvedSlot{Start: s.Start, End: s.End, Booked: booked[key]})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Start != result[j].Start {
			return result[i].Start < result[j].Start
		}
		return result[i].End < result[j].End
	})

	return result, nil
}

// FindSlot ищет слот с точно совпадающими границами
func FindSlot(slots []ResolvedSlot, start, end model.TimeOfDay) (ResolvedSlot, bool) {
	for _, s := range slots {
		if SameTime(s.Start, start) && SameTime(s.End, end) {
			return s, true
		}
	}
	return ResolvedSlot{}, false
}

// FreeSlots возвращает только свободные слоты
func FreeSlots(slots []ResolvedSlot) []ResolvedSlot {
	var free []ResolvedSlot
	for _, s := range slots {
		if !s.Booked {
			free = append(free, s)
		}
	}
	return free
}
