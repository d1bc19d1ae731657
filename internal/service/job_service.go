package service

import (
	"context"
	"errors"
	"strings"

	"job-portal/internal/auth"
	"job-portal/internal/domain"
	"job-portal/internal/repository"
)

// ErrNotJobOwner is returned when a posting is mutated by anyone other than
// the employer who created it.
var ErrNotJobOwner = errors.New("job belongs to another employer")

// JobService coordinates job-posting operations backed by the job repository.
type JobService interface {
	Create(ctx context.Context, owner *auth.Claims, patch domain.JobPatch) (*domain.Job, error)
	Update(ctx context.Context, id int64, actor *auth.Claims, patch domain.JobPatch) error
	Delete(ctx context.Context, id int64, actor *auth.Claims) error
	Get(ctx context.Context, id int64) (*domain.Job, error)
	List(ctx context.Context) ([]domain.Job, error)
	ListByEmployer(ctx context.Context, employerID int64) ([]domain.Job, error)
}

type jobService struct {
	jobs repository.JobRepository
}

func NewJobService(jobs repository.JobRepository) JobService {
	return &jobService{jobs: jobs}
}

func (s *jobService) Create(ctx context.Context, owner *auth.Claims, patch domain.JobPatch) (*domain.Job, error) {
	if owner == nil || !auth.Can(owner.Role, auth.CapPostJobs) {
		return nil, ErrNotAllowed
	}
	if err := validateJobPatch(patch); err != nil {
		return nil, err
	}

	job := &domain.Job{
		Title:       strings.TrimSpace(patch.Title),
		Company:     strings.TrimSpace(patch.Company),
		Location:    strings.TrimSpace(patch.Location),
		Description: patch.Description,
		Contact:     strings.TrimSpace(patch.Contact),
		Salary:      patch.Salary,
		OwnerID:     owner.UserID,
	}
	if _, err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobService) Update(ctx context.Context, id int64, actor *auth.Claims, patch domain.JobPatch) error {
	if err := s.requireOwner(ctx, id, actor); err != nil {
		return err
	}
	if err := validateJobPatch(patch); err != nil {
		return err
	}
	return s.jobs.Update(ctx, id, patch)
}

func (s *jobService) Delete(ctx context.Context, id int64, actor *auth.Claims) error {
	if err := s.requireOwner(ctx, id, actor); err != nil {
		return err
	}
	return s.jobs.Delete(ctx, id)
}

func (s *jobService) Get(ctx context.Context, id int64) (*domain.Job, error) {
	return s.jobs.Get(ctx, id)
}

func (s *jobService) List(ctx context.Context) ([]domain.Job, error) {
	return s.jobs.List(ctx)
}

func (s *jobService) ListByEmployer(ctx context.Context, employerID int64) ([]domain.Job, error) {
	return s.jobs.ListByOwner(ctx, employerID)
}

func (s *jobService) requireOwner(ctx context.Context, id int64, actor *auth.Claims) error {
	if actor == nil || !auth.Can(actor.Role, auth.CapPostJobs) {
		return ErrNotAllowed
	}
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.OwnerID != actor.UserID {
		return ErrNotJobOwner
	}
	return nil
}

func validateJobPatch(patch domain.JobPatch) error {
	if strings.TrimSpace(patch.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(patch.Company) == "" {
		return errors.New("company is required")
	}
	if strings.TrimSpace(patch.Location) == "" {
		return errors.New("location is required")
	}
	if strings.TrimSpace(patch.Contact) == "" {
		return errors.New("contact is required")
	}
	if patch.Salary <= 0 {
		return errors.New("salary must be a positive number")
	}
	return nil
}
