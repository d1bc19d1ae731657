package repository

import (
	"context"

	"job-portal/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// VerificationRepository stores short-lived email verification and password
// reset codes.
type VerificationRepository interface {
	Init(ctx context.Context) error
	Put(ctx context.Context, email, code string, expiresAt int64) error
	Get(ctx context.Context, email string) (code string, expiresAt int64, err error)
	Delete(ctx context.Context, email string) error
}
