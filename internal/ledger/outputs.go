package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/webcash-project/walletcore/internal/webcash"
)

// Output is a row of the output table: the public hash of a webcash
// claim token, optionally bound to a secret this wallet holds.
type Output struct {
	ID        int64
	Timestamp int64
	Hash      webcash.Digest
	SecretID  sql.NullInt64
	Amount    webcash.Amount
	Spent     bool
}

// InsertOutput inserts a single output row and returns its id, or an
// error if the insert fails. secretID may be invalid (sql.NullInt64{})
// to bind SQL NULL, for an output tracked without the wallet holding
// its preimage.
func InsertOutput(ctx context.Context, db *sql.DB, timestamp int64, hash webcash.Digest, secretID sql.NullInt64, amount webcash.Amount, spent bool) (int64, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO output (timestamp, hash, secret_id, amount, spent) VALUES (?, ?, ?, ?, ?)
	`, timestamp, hash.Bytes(), secretID, int64(amount), spent)
	if err != nil {
		return 0, fmt.Errorf("ledger: insert output: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ledger: read inserted output id: %w", err)
	}
	return id, nil
}

// MarkOutputSpent sets spent=true for the output with the given id. The
// flag is monotone (false->true only); this never clears it back.
func MarkOutputSpent(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, "UPDATE output SET spent = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("ledger: mark output %d spent: %w", id, err)
	}
	return nil
}

// GetOutput loads an output row by its id.
func GetOutput(ctx context.Context, db *sql.DB, id int64) (Output, error) {
	var o Output
	var hashBytes []byte
	var amount int64
	err := db.QueryRowContext(ctx, `
		SELECT id, timestamp, hash, secret_id, amount, spent FROM output WHERE id = ?
	`, id).Scan(&o.ID, &o.Timestamp, &hashBytes, &o.SecretID, &amount, &o.Spent)
	if err != nil {
		return Output{}, err
	}
	o.Amount = webcash.Amount(amount)
	hash, err := webcash.DigestFromBytes(hashBytes)
	if err != nil {
		return Output{}, fmt.Errorf("ledger: decode output hash: %w", err)
	}
	o.Hash = hash
	return o, nil
}

// ListOutputsBySecretID returns every output bound to secretID, spent or
// not.
func ListOutputsBySecretID(ctx context.Context, db *sql.DB, secretID int64) ([]Output, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, timestamp, hash, secret_id, amount, spent FROM output WHERE secret_id = ?
	`, secretID)
	if err != nil {
		return nil, fmt.Errorf("ledger: list outputs for secret %d: %w", secretID, err)
	}
	defer rows.Close()
	return scanOutputs(rows)
}

// ListOutputs returns every output with the given spent flag.
func ListOutputs(ctx context.Context, db *sql.DB, spent bool) ([]Output, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, timestamp, hash, secret_id, amount, spent FROM output WHERE spent = ?
	`, spent)
	if err != nil {
		return nil, fmt.Errorf("ledger: list outputs spent=%v: %w", spent, err)
	}
	defer rows.Close()
	return scanOutputs(rows)
}

func scanOutputs(rows *sql.Rows) ([]Output, error) {
	var outputs []Output
	for rows.Next() {
		var o Output
		var hashBytes []byte
		var amount int64
		if err := rows.Scan(&o.ID, &o.Timestamp, &hashBytes, &o.SecretID, &amount, &o.Spent); err != nil {
			return nil, fmt.Errorf("ledger: scan output: %w", err)
		}
		o.Amount = webcash.Amount(amount)
		hash, err := webcash.DigestFromBytes(hashBytes)
		if err != nil {
			return nil, fmt.Errorf("ledger: decode output hash: %w", err)
		}
		o.Hash = hash
		outputs = append(outputs, o)
	}
	return outputs, rows.Err()
}
