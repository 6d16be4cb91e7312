package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/enquiry-service/internal/domain"
)

// PackageRepository encapsulates package persistence.
type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.Package) error
	Update(ctx context.Context, pkg *domain.Package) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Package, error)
	List(ctx context.Context) ([]domain.Package, error)
}

// SubjectRepository encapsulates subject persistence.
type SubjectRepository interface {
	Create(ctx context.Context, subject *domain.Subject) error
	Update(ctx context.Context, subject *domain.Subject) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Subject, error)
	List(ctx context.Context) ([]domain.Subject, error)
}

type packageRepository struct {
	pool *pgxpool.Pool
}

// NewPackageRepository instantiates repository.
func NewPackageRepository(pool *pgxpool.Pool) PackageRepository {
	return &packageRepository{pool: pool}
}

func (r *packageRepository) Create(ctx context.Context, pkg *domain.Package) error {
	const query = `
        INSERT INTO packages (name, code, subject_ids)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, pkg.Name, pkg.Code, pkg.SubjectIDs).
		Scan(&pkg.ID, &pkg.CreatedAt, &pkg.UpdatedAt)
}

func (r *packageRepository) Update(ctx context.Context, pkg *domain.Package) error {
	const query = `
        UPDATE packages SET name=$1, code=$2, subject_ids=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, pkg.Name, pkg.Code, pkg.SubjectIDs, pkg.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *packageRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM packages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *packageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	const query = `SELECT id, name, code, subject_ids, created_at, updated_at FROM packages WHERE id=$1`
	var pkg domain.Package
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&pkg.ID, &pkg.Name, &pkg.Code, &pkg.SubjectIDs, &pkg.CreatedAt, &pkg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepository) List(ctx context.Context) ([]domain.Package, error) {
	const query = `SELECT id, name, code, subject_ids, created_at, updated_at FROM packages ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Package
	for rows.Next() {
		var pkg domain.Package
		if err := rows.Scan(&pkg.ID, &pkg.Name, &pkg.Code, &pkg.SubjectIDs, &pkg.CreatedAt, &pkg.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, pkg)
	}
	return result, rows.Err()
}

type subjectRepository struct {
	pool *pgxpool.Pool
}

// NewSubjectRepository instantiates repository.
func NewSubjectRepository(pool *pgxpool.Pool) SubjectRepository {
	return &subjectRepository{pool: pool}
}

func (r *subjectRepository) Create(ctx context.Context, subject *domain.Subject) error {
	const query = `
        INSERT INTO subjects (name, code)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, subject.Name, subject.Code).
		Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt)
}

func (r *subjectRepository) Update(ctx context.Context, subject *domain.Subject) error {
	const query = `UPDATE subjects SET name=$1, code=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, subject.Name, subject.Code, subject.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subjectRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subjectRepository) GetByID(ctx context.Context, id string) (*domain.Subject, error) {
	const query = `SELECT id, name, code, created_at, updated_at FROM subjects WHERE id=$1`
	var subject domain.Subject
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&subject.ID, &subject.Name, &subject.Code, &subject.CreatedAt, &subject.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) List(ctx context.Context) ([]domain.Subject, error) {
	const query = `SELECT id, name, code, created_at, updated_at FROM subjects ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Subject
	for rows.Next() {
		var subject domain.Subject
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.Code, &subject.CreatedAt, &subject.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, subject)
	}
	return result, rows.Err()
}
