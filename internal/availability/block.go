package availability

import (
	"fmt"
	"math"
	"sort"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

// ValidateBlock возвращает true если 0 <= start < end <= 24
func ValidateBlock(b model.AvailabilityBlock) bool {
	if math.IsNaN(float64(b.Start)) || math.IsNaN(float64(b.End)) {
		return false
	}
	return b.Start >= DayStart && b.Start < b.End && b.End <= DayEnd
}

// CheckBlock проверяет блок перед фиксацией: день недели, границы и шаг 0.5
func CheckBlock(b model.AvailabilityBlock) error {
	if _, ok := DayName(b.Day); !ok {
		return fmt.Errorf("%w: unknown weekday %d", model.ErrValidation, b.Day)
	}
	if !ValidateBlock(b) {
		return fmt.Errorf("%w: block %s must satisfy 0 <= start < end <= 24",
			model.ErrValidation, FormatRange(b.Start, b.End))
	}
	if Snap(b.Start) != b.Start || Snap(b.End) != b.End {
		return fmt.Errorf("%w: block %s is not aligned to 30 minutes",
			model.ErrValidation, FormatRange(b.Start, b.End))
	}
	return nil
}

// CheckBlocks проверяет список блоков
func CheckBlocks(blocks []model.AvailabilityBlock) error {
	for i, b := range blocks {
		if err := CheckBlock(b); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return nil
}

// DefaultBlock блок, который добавляется кнопкой "добавить": воскресенье 09:00-10:00
func DefaultBlock(id int) model.AvailabilityBlock {
	return model.AvailabilityBlock{ID: id, Day: model.Sunday, Start: 9, End: 10}
}

// SortBlocks возвращает копию, отсортированную по дню и началу
func SortBlocks(blocks []model.AvailabilityBlock) []model.AvailabilityBlock {
	sorted := make([]model.AvailabilityBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Day != sorted[j].Day {
			return sorted[i].Day < sorted[j].Day
		}
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})
	return sorted
}

// BlocksForDay возвращает блоки указанного дня в исходном порядке
func BlocksForDay(blocks []model.AvailabilityBlock, day model.WeekDay) []model.AvailabilityBlock {
	var result []model.AvailabilityBlock
	for _, b := range blocks {
		if b.Day == day {
			result = append(result, b)
		}
	}
	return result
}

// SameBlocks сравнивает списки по (day, start, end), ID не учитываются
func SameBlocks(a, b []model.AvailabilityBlock) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Day != b[i].Day || !SameTime(a[i].Start, b[i].Start) || !SameTime(a[i].End, b[i].End) {
			return false
		}
	}
	return true
}
