package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/enquiry-service/internal/domain"
)

// EnquiryFilter captures listing parameters for the contacts view.
type EnquiryFilter struct {
	Stages     []domain.Stage
	PackageID  *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// EnquiryRepository encapsulates enquiry persistence.
type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *domain.Enquiry) error
	Update(ctx context.Context, enquiry *domain.Enquiry) error
	UpdateStage(ctx context.Context, id string, stage domain.Stage) error
	GetByID(ctx context.Context, id string) (*domain.Enquiry, error)
	ListWithFilter(ctx context.Context, filter EnquiryFilter) ([]domain.Enquiry, error)
}

type enquiryRepository struct {
	pool *pgxpool.Pool
}

// NewEnquiryRepository instantiates repository.
func NewEnquiryRepository(pool *pgxpool.Pool) EnquiryRepository {
	return &enquiryRepository{pool: pool}
}

const enquiryColumns = `id, name, email, phone, current_location, package_id, subject_ids,
               training_mode, training_time, start_time, profession, qualification,
               experience, referral, consent, candidate_status, demo_status, created_at, updated_at`

func (r *enquiryRepository) Create(ctx context.Context, enquiry *domain.Enquiry) error {
	const query = `
        INSERT INTO enquiries (name, email, phone, current_location, package_id, subject_ids,
            training_mode, training_time, start_time, profession, qualification,
            experience, referral, consent, candidate_status, demo_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		enquiry.Name,
		enquiry.Email,
		enquiry.Phone,
		enquiry.Location,
		enquiry.PackageID,
		enquiry.SubjectIDs,
		enquiry.TrainingMode,
		enquiry.TrainingTime,
		enquiry.StartTime,
		enquiry.Profession,
		enquiry.Qualification,
		enquiry.Experience,
		enquiry.Referral,
		enquiry.Consent,
		enquiry.Stage,
		enquiry.DemoStatus,
	).Scan(&enquiry.ID, &enquiry.CreatedAt, &enquiry.UpdatedAt)
}

func (r *enquiryRepository) Update(ctx context.Context, enquiry *domain.Enquiry) error {
	const query = `
        UPDATE enquiries SET name=$1, email=$2, phone=$3, current_location=$4, package_id=$5,
            subject_ids=$6, training_mode=$7, training_time=$8, start_time=$9, profession=$10,
            qualification=$11, experience=$12, referral=$13, consent=$14, candidate_status=$15,
            demo_status=$16, updated_at=NOW()
        WHERE id=$17`
	cmd, err := r.pool.Exec(ctx, query,
		enquiry.Name,
		enquiry.Email,
		enquiry.Phone,
		enquiry.Location,
		enquiry.PackageID,
		enquiry.SubjectIDs,
		enquiry.TrainingMode,
		enquiry.TrainingTime,
		enquiry.StartTime,
		enquiry.Profession,
		enquiry.Qualification,
		enquiry.Experience,
		enquiry.Referral,
		enquiry.Consent,
		enquiry.Stage,
		enquiry.DemoStatus,
		enquiry.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *enquiryRepository) UpdateStage(ctx context.Context, id string, stage domain.Stage) error {
	const query = `UPDATE enquiries SET candidate_status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, stage, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *enquiryRepository) GetByID(ctx context.Context, id string) (*domain.Enquiry, error) {
	query := `SELECT ` + enquiryColumns + ` FROM enquiries WHERE id=$1`
	var enquiry domain.Enquiry
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&enquiry.ID,
		&enquiry.Name,
		&enquiry.Email,
		&enquiry.Phone,
		&enquiry.Location,
		&enquiry.PackageID,
		&enquiry.SubjectIDs,
		&enquiry.TrainingMode,
		&enquiry.TrainingTime,
		&enquiry.StartTime,
		&enquiry.Profession,
		&enquiry.Qualification,
		&enquiry.Experience,
		&enquiry.Referral,
		&enquiry.Consent,
		&enquiry.Stage,
		&enquiry.DemoStatus,
		&enquiry.CreatedAt,
		&enquiry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &enquiry, nil
}

func (r *enquiryRepository) ListWithFilter(ctx context.Context, filter EnquiryFilter) ([]domain.Enquiry, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Stages) > 0 {
		placeholders := make([]string, len(filter.Stages))
		for i, stage := range filter.Stages {
			args = append(args, stage)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("candidate_status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.PackageID != nil {
		args = append(args, *filter.PackageID)
		clauses = append(clauses, fmt.Sprintf("package_id=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(email) LIKE %s OR phone LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM enquiries WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		enquiryColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEnquiries(rows)
}

func scanEnquiries(rows pgx.Rows) ([]domain.Enquiry, error) {
	var result []domain.Enquiry
	for rows.Next() {
		var enquiry domain.Enquiry
		if err := rows.Scan(
			&enquiry.ID,
			&enquiry.Name,
			&enquiry.Email,
			&enquiry.Phone,
			&enquiry.Location,
			&enquiry.PackageID,
			&enquiry.SubjectIDs,
			&enquiry.TrainingMode,
			&enquiry.TrainingTime,
			&enquiry.StartTime,
			&enquiry.Profession,
			&enquiry.Qualification,
			&enquiry.Experience,
			&enquiry.Referral,
			&enquiry.Consent,
			&enquiry.Stage,
			&enquiry.DemoStatus,
			&enquiry.CreatedAt,
			&enquiry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, enquiry)
	}
	return result, rows.Err()
}
