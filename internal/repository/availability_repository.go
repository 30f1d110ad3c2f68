package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
	"github.com/Freeeeeet/consult_scheduler/internal/repository/base"
)

type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool)}
}

// Load получает недельную доступность консультанта; nil если не сохранена
func (r *AvailabilityRepository) Load(ctx context.Context, consultantID int64) (*model.WeeklyAvailabilityDocument, error) {
	query := `
		SELECT consultant_id, blocks, updated_at
		FROM availabilities
		WHERE consultant_id = $1
	`

	var (
		doc model.WeeklyAvailabilityDocument
		raw []byte
	)
	err := r.QueryRow(ctx, query, consultantID).Scan(&doc.ConsultantID, &raw, &doc.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Wrap("load availability", err)
	}

	if err := json.Unmarshal(raw, &doc.Blocks); err != nil {
		return nil, fmt.Errorf("decode availability blocks: %w: %w", model.ErrPersistence, err)
	}
	if doc.Blocks == nil {
		doc.Blocks = []model.PersistedBlock{}
	}

	return &doc, nil
}

// Save сохраняет документ целиком (последняя запись побеждает)
func (r *AvailabilityRepository) Save(ctx context.Context, doc *model.WeeklyAvailabilityDocument) error {
	blocks := doc.Blocks
	if blocks == nil {
		blocks = []model.PersistedBlock{}
	}
	raw, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("encode availability blocks: %w", err)
	}

	query := `
		INSERT INTO availabilities (consultant_id, blocks, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (consultant_id) DO UPDATE
		SET blocks = EXCLUDED.blocks, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.ExecAffected(ctx, query, doc.ConsultantID, raw, doc.UpdatedAt); err != nil {
		return base.Wrap("save availability", err)
	}
	return nil
}
