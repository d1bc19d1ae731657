package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"job-portal/internal/repository"
)

const createVerificationsTable = `
CREATE TABLE IF NOT EXISTS verification_codes (
	email TEXT PRIMARY KEY,
	code TEXT NOT NULL,
	expires_at INTEGER NOT NULL
);
`

type VerificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) repository.VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createVerificationsTable); err != nil {
		return fmt.Errorf("create verification codes table: %w", err)
	}
	return nil
}

// Put stores the code for the email, replacing any outstanding one. Reissuing
// a code invalidates the previous code.
func (r *VerificationRepository) Put(ctx context.Context, email, code string, expiresAt int64) error {
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO verification_codes (email, code, expires_at)
VALUES (?, ?, ?)
ON CONFLICT(email) DO UPDATE SET code = excluded.code, expires_at = excluded.expires_at`,
		email,
		code,
		expiresAt,
	); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	return nil
}

func (r *VerificationRepository) Get(ctx context.Context, email string) (string, int64, error) {
	var (
		code      string
		expiresAt int64
	)
	err := r.db.QueryRowContext(ctx, `
SELECT code, expires_at FROM verification_codes WHERE email = ?`,
		email,
	).Scan(&code, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, fmt.Errorf("verification code not found")
		}
		return "", 0, fmt.Errorf("get verification code: %w", err)
	}
	return code, expiresAt, nil
}

func (r *VerificationRepository) Delete(ctx context.Context, email string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM verification_codes WHERE email = ?`, email); err != nil {
		return fmt.Errorf("delete verification code: %w", err)
	}
	return nil
}
