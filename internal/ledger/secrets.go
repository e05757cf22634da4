// Package ledger implements the wallet's relational bookkeeping: the
// hdroot/hdchain/hdkey rows behind HD derivation, secret and output
// tracking, and the terms-of-service acceptance record. The
// insert-with-merge and nullable-field handling style here is adapted
// from an earlier HTLC-swap-secrets and multi-chain-UTXO storage
// layer, retargeted to webcash secrets and bearer-token outputs.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
)

// Secret is a row of the secret table: a hex-encoded preimage the wallet
// knows, with its mine/sweep flags.
type Secret struct {
	ID        int64
	Timestamp int64
	Secret    string
	Mine      bool
	Sweep     bool
}

// UpsertSecret inserts a secret row, or merges flags into an existing
// one keyed by the secret's hex text. The merge is asymmetric by
// design: mine can only ever become false, sweep can only ever become
// true. It returns the row id either way.
func UpsertSecret(ctx context.Context, db *sql.DB, timestamp int64, secretHex string, mine, sweep bool) (int64, error) {
	_, err := db.ExecContext(ctx, `
		INSERT INTO secret (timestamp, secret, mine, sweep) VALUES (?, ?, ?, ?)
		ON CONFLICT(secret) DO UPDATE SET
			mine = mine AND excluded.mine,
			sweep = sweep OR excluded.sweep
	`, timestamp, secretHex, mine, sweep)
	if err != nil {
		return 0, fmt.Errorf("ledger: upsert secret: %w", err)
	}

	var id int64
	if err := db.QueryRowContext(ctx, "SELECT id FROM secret WHERE secret = ?", secretHex).Scan(&id); err != nil {
		return 0, fmt.Errorf("ledger: lookup secret id: %w", err)
	}
	return id, nil
}

// GetSecret loads a secret row by its hex text. Returns sql.ErrNoRows if
// absent.
func GetSecret(ctx context.Context, db *sql.DB, secretHex string) (Secret, error) {
	var s Secret
	err := db.QueryRowContext(ctx, `
		SELECT id, timestamp, secret, mine, sweep FROM secret WHERE secret = ?
	`, secretHex).Scan(&s.ID, &s.Timestamp, &s.Secret, &s.Mine, &s.Sweep)
	if err != nil {
		return Secret{}, err
	}
	return s, nil
}

// GetSecretByID loads a secret row by its id.
func GetSecretByID(ctx context.Context, db *sql.DB, id int64) (Secret, error) {
	var s Secret
	err := db.QueryRowContext(ctx, `
		SELECT id, timestamp, secret, mine, sweep FROM secret WHERE id = ?
	`, id).Scan(&s.ID, &s.Timestamp, &s.Secret, &s.Mine, &s.Sweep)
	if err != nil {
		return Secret{}, err
	}
	return s, nil
}
