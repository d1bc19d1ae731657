package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"job-portal/internal/domain"
	"job-portal/internal/repository"
)

const createJobsTable = `
CREATE TABLE IF NOT EXISTS jobs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	company TEXT NOT NULL,
	location TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	contact TEXT NOT NULL DEFAULT '',
	salary INTEGER NOT NULL,
	owner_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) repository.JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createJobsTable); err != nil {
		return fmt.Errorf("create jobs table: %w", err)
	}
	return nil
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) (int64, error) {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO jobs (title, company, location, description, contact, salary, owner_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.Title,
		job.Company,
		job.Location,
		job.Description,
		job.Contact,
		job.Salary,
		job.OwnerID,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("job last insert id: %w", err)
	}
	job.ID = id
	return id, nil
}

func (r *JobRepository) Update(ctx context.Context, id int64, patch domain.JobPatch) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE jobs
SET title=?, company=?, location=?, description=?, contact=?, salary=?, updated_at=?
WHERE id=?`,
		patch.Title,
		patch.Company,
		patch.Location,
		patch.Description,
		patch.Contact,
		patch.Salary,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("job not found")
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

func (r *JobRepository) Get(ctx context.Context, id int64) (*domain.Job, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, company, location, description, contact, salary, owner_id, created_at, updated_at
FROM jobs
WHERE id = ?`,
		id,
	)
	return scanJob(row)
}

func (r *JobRepository) List(ctx context.Context) ([]domain.Job, error) {
	return r.list(ctx, `
SELECT id, title, company, location, description, contact, salary, owner_id, created_at, updated_at
FROM jobs
ORDER BY created_at DESC`)
}

func (r *JobRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Job, error) {
	return r.list(ctx, `
SELECT id, title, company, location, description, contact, salary, owner_id, created_at, updated_at
FROM jobs
WHERE owner_id = ?
ORDER BY created_at DESC`,
		ownerID,
	)
}

func (r *JobRepository) list(ctx context.Context, query string, args ...any) ([]domain.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

func scanJob(row interface {
	Scan(dest ...any) error
}) (*domain.Job, error) {
	var job domain.Job
	if err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Company,
		&job.Location,
		&job.Description,
		&job.Contact,
		&job.Salary,
		&job.OwnerID,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	return &job, nil
}
