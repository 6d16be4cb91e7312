package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/enquiry-service/internal/domain"
)

// BillingRepository encapsulates billing persistence.
type BillingRepository interface {
	Create(ctx context.Context, billing *domain.BillingDetails) error
	Update(ctx context.Context, billing *domain.BillingDetails) error
	GetByEnquiry(ctx context.Context, enquiryID string) (*domain.BillingDetails, error)
}

type billingRepository struct {
	pool *pgxpool.Pool
}

// NewBillingRepository instantiates repository.
func NewBillingRepository(pool *pgxpool.Pool) BillingRepository {
	return &billingRepository{pool: pool}
}

func (r *billingRepository) Create(ctx context.Context, billing *domain.BillingDetails) error {
	const query = `
        INSERT INTO billing_details (enquiry_id, total, paid, discount)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		billing.EnquiryID,
		billing.Total,
		billing.Paid,
		billing.Discount,
	).Scan(&billing.CreatedAt, &billing.UpdatedAt)
}

func (r *billingRepository) Update(ctx context.Context, billing *domain.BillingDetails) error {
	const query = `
        UPDATE billing_details SET total=$1, paid=$2, discount=$3, updated_at=NOW()
        WHERE enquiry_id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		billing.Total,
		billing.Paid,
		billing.Discount,
		billing.EnquiryID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *billingRepository) GetByEnquiry(ctx context.Context, enquiryID string) (*domain.BillingDetails, error) {
	const query = `
        SELECT enquiry_id, total, paid, discount, created_at, updated_at
        FROM billing_details WHERE enquiry_id=$1`
	var billing domain.BillingDetails
	if err := r.pool.QueryRow(ctx, query, enquiryID).Scan(
		&billing.EnquiryID,
		&billing.Total,
		&billing.Paid,
		&billing.Discount,
		&billing.CreatedAt,
		&billing.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &billing, nil
}
