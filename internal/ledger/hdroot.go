package ledger

import (
	"context"
	"database/sql"
	"fmt"
)

// HDRoot is the wallet's single master-secret row.
// There must never be more than one per wallet file.
type HDRoot struct {
	ID        int64
	Timestamp int64
	Version   int
	Secret    []byte
}

// CountHDRoots reports how many hdroot rows exist, so callers can
// enforce the "at most one" invariant before trusting GetHDRoot.
func CountHDRoots(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hdroot").Scan(&count); err != nil {
		return 0, fmt.Errorf("ledger: count hdroot rows: %w", err)
	}
	return count, nil
}

// GetHDRoot loads the single hdroot row, or sql.ErrNoRows if the wallet
// has none yet.
func GetHDRoot(ctx context.Context, db *sql.DB) (HDRoot, error) {
	var r HDRoot
	err := db.QueryRowContext(ctx, `
		SELECT id, timestamp, version, secret FROM hdroot LIMIT 1
	`).Scan(&r.ID, &r.Timestamp, &r.Version, &r.Secret)
	if err != nil {
		return HDRoot{}, err
	}
	return r, nil
}

// InsertHDRootTx inserts the wallet's one-and-only hdroot row within an
// open transaction and returns its id. Callers must have already
// confirmed (via CountHDRoots) that none exists.
func InsertHDRootTx(ctx context.Context, tx *sql.Tx, timestamp int64, version int, secret []byte) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO hdroot (timestamp, version, secret) VALUES (?, ?, ?)
	`, timestamp, version, secret)
	if err != nil {
		return 0, fmt.Errorf("ledger: insert hdroot (tx): %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ledger: read inserted hdroot id (tx): %w", err)
	}
	return id, nil
}

// HDChain is one derivation chain for a (mine, sweep) category, tracking
// how deep this wallet has derived into it.
type HDChain struct {
	ID        int64
	HDRootID  int64
	Chaincode uint64
	Mine      bool
	Sweep     bool
	MinDepth  uint64
	MaxDepth  uint64
}

// InsertHDChainTx inserts one hdchain row at the given chaincode, with
// mindepth=maxdepth=0, within an open transaction. Root creation inserts exactly four of these,
// one per (mine, sweep) pair.
func InsertHDChainTx(ctx context.Context, tx *sql.Tx, hdrootID int64, chaincode uint64, mine, sweep bool) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO hdchain (hdroot_id, chaincode, mine, sweep, mindepth, maxdepth)
		VALUES (?, ?, ?, ?, 0, 0)
	`, hdrootID, chaincode, mine, sweep)
	if err != nil {
		return 0, fmt.Errorf("ledger: insert hdchain (tx): %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ledger: read inserted hdchain id (tx): %w", err)
	}
	return id, nil
}

// GetHDChain loads the hdchain row for a (hdroot_id, chaincode, mine,
// sweep) tuple.
func GetHDChain(ctx context.Context, db *sql.DB, hdrootID int64, chaincode uint64, mine, sweep bool) (HDChain, error) {
	var c HDChain
	err := db.QueryRowContext(ctx, `
		SELECT id, hdroot_id, chaincode, mine, sweep, mindepth, maxdepth
		FROM hdchain WHERE hdroot_id = ? AND chaincode = ? AND mine = ? AND sweep = ?
	`, hdrootID, chaincode, mine, sweep).Scan(&c.ID, &c.HDRootID, &c.Chaincode, &c.Mine, &c.Sweep, &c.MinDepth, &c.MaxDepth)
	if err != nil {
		return HDChain{}, err
	}
	return c, nil
}

// ListHDChains returns every chain row for a root, used to verify the
// four-chain bootstrap invariant.
func ListHDChains(ctx context.Context, db *sql.DB, hdrootID int64) ([]HDChain, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, hdroot_id, chaincode, mine, sweep, mindepth, maxdepth
		FROM hdchain WHERE hdroot_id = ?
	`, hdrootID)
	if err != nil {
		return nil, fmt.Errorf("ledger: list hdchains: %w", err)
	}
	defer rows.Close()

	var chains []HDChain
	for rows.Next() {
		var c HDChain
		if err := rows.Scan(&c.ID, &c.HDRootID, &c.Chaincode, &c.Mine, &c.Sweep, &c.MinDepth, &c.MaxDepth); err != nil {
			return nil, fmt.Errorf("ledger: scan hdchain: %w", err)
		}
		chains = append(chains, c)
	}
	return chains, rows.Err()
}

// IncrementMaxDepthTx increments an hdchain's maxdepth by one within an
// already-open transaction, so ReserveSecret's read-derive-insert-
// increment sequence is atomic.
func IncrementMaxDepthTx(ctx context.Context, tx *sql.Tx, chainID int64) error {
	if _, err := tx.ExecContext(ctx, "UPDATE hdchain SET maxdepth = maxdepth + 1 WHERE id = ?", chainID); err != nil {
		return fmt.Errorf("ledger: increment hdchain %d maxdepth: %w", chainID, err)
	}
	return nil
}

// UpsertSecretTx is UpsertSecret run against an open transaction, used
// by ReserveSecret's atomic reserve-and-link sequence.
func UpsertSecretTx(ctx context.Context, tx *sql.Tx, timestamp int64, secretHex string, mine, sweep bool) (int64, error) {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO secret (timestamp, secret, mine, sweep) VALUES (?, ?, ?, ?)
		ON CONFLICT(secret) DO UPDATE SET
			mine = mine AND excluded.mine,
			sweep = sweep OR excluded.sweep
	`, timestamp, secretHex, mine, sweep)
	if err != nil {
		return 0, fmt.Errorf("ledger: upsert secret (tx): %w", err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, "SELECT id FROM secret WHERE secret = ?", secretHex).Scan(&id); err != nil {
		return 0, fmt.Errorf("ledger: lookup secret id (tx): %w", err)
	}
	return id, nil
}

// InsertHDKeyTx links a derived secret to its chain and depth within an
// open transaction.
func InsertHDKeyTx(ctx context.Context, tx *sql.Tx, hdchainID int64, depth uint64, secretID int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO hdkey (hdchain_id, depth, secret_id) VALUES (?, ?, ?)
	`, hdchainID, depth, secretID)
	if err != nil {
		return 0, fmt.Errorf("ledger: insert hdkey: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ledger: read inserted hdkey id: %w", err)
	}
	return id, nil
}
