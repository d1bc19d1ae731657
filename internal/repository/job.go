package repository

import (
	"context"

	"job-portal/internal/domain"
)

// JobRepository exposes persistence operations for job postings.
type JobRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, job *domain.Job) (int64, error)
	Update(ctx context.Context, id int64, patch domain.JobPatch) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Job, error)
	List(ctx context.Context) ([]domain.Job, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Job, error)
}
