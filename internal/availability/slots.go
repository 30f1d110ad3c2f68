package availability

import (
	"math"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

// minuteEpsilon поглощает погрешность float при переводе в минуты
const minuteEpsilon = 1e-6

// SlotDuration длительность слота в часах
const SlotDuration model.TimeOfDay = 0.5

// Slot интервал, который клиент может забронировать
type Slot struct {
	Start model.TimeOfDay `json:"start"`
	End   model.TimeOfDay `json:"end"`
}

// GenerateSlotsForDay делит [start, end) блока на последовательные слоты длительностью duration.
// Неполный хвост отбрасывается.
func GenerateSlotsForDay(block model.AvailabilityBlock, duration model.TimeOfDay) []Slot {
	return generateSlots(block.Start, block.End, duration)
}

func generateSlots(start, end, duration model.TimeOfDay) []Slot {
	step := Minutes(duration)
	if step <= 0 {
		return nil
	}

	// Начало округляется вверх, конец вниз: слот не выходит за границы блока
	from := int(math.Ceil(float64(start)*60 - minuteEpsilon))
	to := int(math.Floor(float64(end)*60 + minuteEpsilon))

	var slots []Slot
	for s := from; s+step <= to; s += step {
		slots = append(slots, Slot{Start: FromMinutes(s), End: FromMinutes(s + step)})
	}
	return slots
}
