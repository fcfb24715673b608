package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MrEthical07/authcore"
)

// Schema is the table the repository expects. Run it once at deploy time (or
// let tests feed it to an embedded server).
const Schema = `
CREATE TABLE IF NOT EXISTS otp_documents (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL,
	first_name TEXT NOT NULL DEFAULT '',
	code       TEXT NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS otp_documents_email_code_idx ON otp_documents (email, code);
CREATE INDEX IF NOT EXISTS otp_documents_expires_at_idx ON otp_documents (expires_at);
`

// OTPRepository is the pgx-backed durable store for issued codes.
type OTPRepository struct {
	pool *pgxpool.Pool
}

// NewOTPRepository wraps an existing pool. The pool's lifecycle stays with
// the caller.
func NewOTPRepository(pool *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{pool: pool}
}

// Connect builds a pool from a connection string and verifies it with a ping.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

// Insert stores one durable document.
func (r *OTPRepository) Insert(ctx context.Context, doc authcore.OTPDocument) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO otp_documents (id, email, first_name, code, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		doc.ID, doc.Email, doc.FirstName, doc.Code, doc.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("otpRepo.Insert: %w", err)
	}
	return nil
}

// FindByEmailAndCode returns the newest live document matching both fields,
// or nil when none exists. Documents past their expiry are invisible here
// even before DeleteExpired reaps them.
func (r *OTPRepository) FindByEmailAndCode(ctx context.Context, email, code string) (*authcore.OTPDocument, error) {
	doc := &authcore.OTPDocument{}
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, first_name, code, expires_at
		 FROM otp_documents
		 WHERE email = $1 AND code = $2 AND expires_at > $3
		 ORDER BY expires_at DESC
		 LIMIT 1`,
		email, code, time.Now().UTC(),
	)
	err := row.Scan(&doc.ID, &doc.Email, &doc.FirstName, &doc.Code, &doc.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("otpRepo.FindByEmailAndCode: %w", err)
	}
	return doc, nil
}

// Delete removes one document by ID. Deleting a missing document is not an
// error.
func (r *OTPRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM otp_documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("otpRepo.Delete: %w", err)
	}
	return nil
}

// DeleteByEmail removes every document for email, used when a code is
// consumed or superseded.
func (r *OTPRepository) DeleteByEmail(ctx context.Context, email string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM otp_documents WHERE email = $1`, email); err != nil {
		return fmt.Errorf("otpRepo.DeleteByEmail: %w", err)
	}
	return nil
}

// DeleteExpired reaps documents past their expiry and reports how many went
// away.
func (r *OTPRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM otp_documents WHERE expires_at <= $1`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("otpRepo.DeleteExpired: %w", err)
	}
	return tag.RowsAffected(), nil
}
