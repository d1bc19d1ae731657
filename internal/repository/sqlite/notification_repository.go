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

const createNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recipient_id INTEGER NOT NULL,
	sender_id INTEGER NOT NULL,
	type TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	is_match INTEGER NOT NULL DEFAULT 0,
	cv_ref TEXT NOT NULL DEFAULT '',
	cover_letter TEXT NOT NULL DEFAULT '',
	response TEXT NULL,
	visible_to_sender INTEGER NOT NULL DEFAULT 1,
	visible_to_recipient INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL
);
`

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createNotificationsTable); err != nil {
		return fmt.Errorf("create notifications table: %w", err)
	}
	return nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) (int64, error) {
	n.CreatedAt = time.Now().UTC()
	n.VisibleToSender = true
	n.VisibleToRecipient = true

	res, err := r.db.ExecContext(ctx, `
INSERT INTO notifications (recipient_id, sender_id, type, message, is_match, cv_ref, cover_letter, response, visible_to_sender, visible_to_recipient, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, NULL, 1, 1, ?)`,
		n.RecipientID,
		n.SenderID,
		string(n.Type),
		n.Message,
		n.Match,
		n.CVRef,
		n.CoverLetter,
		n.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("notification last insert id: %w", err)
	}
	n.ID = id
	return id, nil
}

func (r *NotificationRepository) Get(ctx context.Context, id int64) (*domain.Notification, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, recipient_id, sender_id, type, message, is_match, cv_ref, cover_letter, response, visible_to_sender, visible_to_recipient, created_at
FROM notifications
WHERE id = ?`,
		id,
	)
	return scanNotification(row)
}

func (r *NotificationRepository) ListFor(ctx context.Context, subjectID int64) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, recipient_id, sender_id, type, message, is_match, cv_ref, cover_letter, response, visible_to_sender, visible_to_recipient, created_at
FROM notifications
WHERE (recipient_id = ? AND visible_to_recipient = 1)
   OR (sender_id = ? AND visible_to_sender = 1)
ORDER BY created_at DESC`,
		subjectID,
		subjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return notifications, nil
}

// SetResponse records the one-shot response. The WHERE clause guards against
// races between two responders; the row is only touched while response is
// still NULL, so a second writer can never overwrite the first.
func (r *NotificationRepository) SetResponse(ctx context.Context, id int64, response string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE notifications SET response = ? WHERE id = ? AND response IS NULL`,
		response,
		id,
	)
	if err != nil {
		return fmt.Errorf("set notification response: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set response rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return repository.ErrResponseAlreadySet
	}
	return nil
}

func (r *NotificationRepository) HideFor(ctx context.Context, id int64, viewerID int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE notifications
SET visible_to_sender = CASE WHEN sender_id = ? THEN 0 ELSE visible_to_sender END,
    visible_to_recipient = CASE WHEN recipient_id = ? THEN 0 ELSE visible_to_recipient END
WHERE id = ? AND (sender_id = ? OR recipient_id = ?)`,
		viewerID,
		viewerID,
		id,
		viewerID,
		viewerID,
	)
	if err != nil {
		return fmt.Errorf("hide notification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("hide notification rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("notification not found")
	}

	if _, err := r.db.ExecContext(ctx, `
DELETE FROM notifications
WHERE id = ? AND visible_to_sender = 0 AND visible_to_recipient = 0`,
		id,
	); err != nil {
		return fmt.Errorf("purge hidden notification: %w", err)
	}
	return nil
}

func scanNotification(row interface {
	Scan(dest ...any) error
}) (*domain.Notification, error) {
	var (
		n        domain.Notification
		ntype    string
		response sql.NullString
	)
	if err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.SenderID,
		&ntype,
		&n.Message,
		&n.Match,
		&n.CVRef,
		&n.CoverLetter,
		&response,
		&n.VisibleToSender,
		&n.VisibleToRecipient,
		&n.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("notification not found")
		}
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	n.Type = domain.NotificationType(ntype)
	if response.Valid {
		n.Response = &response.String
	}
	return &n, nil
}
