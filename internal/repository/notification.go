package repository

import (
	"context"
	"errors"

	"job-portal/internal/domain"
)

// ErrResponseAlreadySet is returned by SetResponse when the notification has
// already been resolved. The store is the authority for the at-most-one
// response rule; callers treat their own pre-checks as an optimization only.
var ErrResponseAlreadySet = errors.New("response already set")

// NotificationRepository exposes persistence operations for notifications.
type NotificationRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, n *domain.Notification) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Notification, error)
	// ListFor returns notifications sent by or addressed to the subject that
	// are still visible to that party, newest first.
	ListFor(ctx context.Context, subjectID int64) ([]domain.Notification, error)
	// SetResponse records the one-shot employer response. It fails with
	// ErrResponseAlreadySet if a response exists, leaving it unchanged.
	SetResponse(ctx context.Context, id int64, response string) error
	// HideFor clears the viewer's visibility flag and removes the row once
	// neither party can see it.
	HideFor(ctx context.Context, id int64, viewerID int64) error
}
