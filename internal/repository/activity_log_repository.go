package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/enquiry-service/internal/domain"
)

// ActivityLogRepository encapsulates activity log persistence.
type ActivityLogRepository interface {
	Create(ctx context.Context, log *domain.ActivityLog) error
	Update(ctx context.Context, log *domain.ActivityLog) error
	GetByID(ctx context.Context, id string) (*domain.ActivityLog, error)
	ListByEnquiry(ctx context.Context, enquiryID string, limit, offset int) ([]domain.ActivityLog, error)
}

type activityLogRepository struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository instantiates repository.
func NewActivityLogRepository(pool *pgxpool.Pool) ActivityLogRepository {
	return &activityLogRepository{pool: pool}
}

func (r *activityLogRepository) Create(ctx context.Context, log *domain.ActivityLog) error {
	const query = `
        INSERT INTO activity_logs (enquiry_id, title, description, author_id, author_role)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		log.EnquiryID,
		log.Title,
		log.Description,
		log.AuthorID,
		log.AuthorRole,
	).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt)
}

func (r *activityLogRepository) Update(ctx context.Context, log *domain.ActivityLog) error {
	const query = `
        UPDATE activity_logs SET title=$1, description=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, log.Title, log.Description, log.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *activityLogRepository) GetByID(ctx context.Context, id string) (*domain.ActivityLog, error) {
	const query = `
        SELECT id, enquiry_id, title, description, author_id, author_role, created_at, updated_at
        FROM activity_logs WHERE id=$1`
	var log domain.ActivityLog
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&log.ID,
		&log.EnquiryID,
		&log.Title,
		&log.Description,
		&log.AuthorID,
		&log.AuthorRole,
		&log.CreatedAt,
		&log.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &log, nil
}

// ListByEnquiry returns logs newest first.
func (r *activityLogRepository) ListByEnquiry(ctx context.Context, enquiryID string, limit, offset int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, enquiry_id, title, description, author_id, author_role, created_at, updated_at
        FROM activity_logs WHERE enquiry_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, enquiryID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActivityLog
	for rows.Next() {
		var log domain.ActivityLog
		if err := rows.Scan(
			&log.ID,
			&log.EnquiryID,
			&log.Title,
			&log.Description,
			&log.AuthorID,
			&log.AuthorRole,
			&log.CreatedAt,
			&log.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, log)
	}
	return result, rows.Err()
}
