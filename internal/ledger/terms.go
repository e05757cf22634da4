package ledger

import (
	"context"
	"database/sql"
	"fmt"
)

// HaveAcceptedTerms reports whether the terms table contains any row.
func HaveAcceptedTerms(ctx context.Context, db *sql.DB) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM terms").Scan(&count); err != nil {
		return false, fmt.Errorf("ledger: have accepted terms: %w", err)
	}
	return count > 0, nil
}

// AreTermsAccepted reports whether a row with exactly this body exists.
// The match is byte-exact.
func AreTermsAccepted(ctx context.Context, db *sql.DB, body string) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM terms WHERE body = ?", body).Scan(&count); err != nil {
		return false, fmt.Errorf("ledger: are terms accepted: %w", err)
	}
	return count > 0, nil
}

// AcceptTerms idempotently records acceptance of body: if a row with
// this exact body already exists, it is a no-op.
func AcceptTerms(ctx context.Context, db *sql.DB, timestamp int64, body string) error {
	accepted, err := AreTermsAccepted(ctx, db, body)
	if err != nil {
		return err
	}
	if accepted {
		return nil
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO terms (timestamp, body) VALUES (?, ?)", timestamp, body); err != nil {
		return fmt.Errorf("ledger: accept terms: %w", err)
	}
	return nil
}
