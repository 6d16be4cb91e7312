package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/enquiry-service/internal/domain"
)

// StageHistoryRepository records pipeline transitions for auditing.
type StageHistoryRepository interface {
	Create(ctx context.Context, entry *domain.StageHistory) error
	ListByEnquiry(ctx context.Context, enquiryID string, limit, offset int) ([]domain.StageHistory, error)
}

type stageHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewStageHistoryRepository instantiates repository.
func NewStageHistoryRepository(pool *pgxpool.Pool) StageHistoryRepository {
	return &stageHistoryRepository{pool: pool}
}

func (r *stageHistoryRepository) Create(ctx context.Context, entry *domain.StageHistory) error {
	const query = `
        INSERT INTO stage_history (enquiry_id, changed_by_id, old_stage, new_stage)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.EnquiryID,
		entry.ChangedByID,
		entry.OldStage,
		entry.NewStage,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *stageHistoryRepository) ListByEnquiry(ctx context.Context, enquiryID string, limit, offset int) ([]domain.StageHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, enquiry_id, changed_by_id, old_stage, new_stage, created_at
        FROM stage_history WHERE enquiry_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, enquiryID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StageHistory
	for rows.Next() {
		var entry domain.StageHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.EnquiryID,
			&entry.ChangedByID,
			&entry.OldStage,
			&entry.NewStage,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
