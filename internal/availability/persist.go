package availability

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

// Serialize переводит блоки в сохраняемый вид: индекс дня -> имя, ID отбрасывается
func Serialize(blocks []model.AvailabilityBlock) ([]model.PersistedBlock, error) {
	persisted := make([]model.PersistedBlock, 0, len(blocks))
	for _, b := range blocks {
		name, ok := DayName(b.Day)
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %d", model.ErrValidation, b.Day)
		}
		persisted = append(persisted, model.PersistedBlock{Day: name, Start: b.Start, End: b.End})
	}
	return persisted, nil
}

// Deserialize восстанавливает блоки и выдаёт им новые последовательные ID начиная с firstID.
// ID между загрузками не сохраняются.
func Deserialize(persisted []model.PersistedBlock, firstID int) ([]model.AvailabilityBlock, error) {
	blocks := make([]model.AvailabilityBlock, 0, len(persisted))
	for i, p := range persisted {
		day, ok := DayFromName(p.Day)
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", model.ErrValidation, p.Day)
		}
		blocks = append(blocks, model.AvailabilityBlock{
			ID:    firstID + i,
			Day:   day,
			Start: p.Start,
			End:   p.End,
		})
	}
	return blocks, nil
}

// NewDocument собирает документ для сохранения, предварительно проверив блоки
func NewDocument(consultantID int64, blocks []model.AvailabilityBlock, now time.Time) (*model.WeeklyAvailabilityDocument, error) {
	if err := CheckBlocks(blocks); err != nil {
		return nil, err
	}

	persisted, err := Serialize(blocks)
	if err != nil {
		return nil, err
	}

	return &model.WeeklyAvailabilityDocument{
		ConsultantID: consultantID,
		Blocks:       persisted,
		UpdatedAt:    now.UTC(),
	}, nil
}
