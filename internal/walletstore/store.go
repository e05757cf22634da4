// Package walletstore implements the wallet's durable store lifecycle:
// opening the sibling .db/.bak files, taking the inter-process file
// lock, and running the idempotent schema migration, in the same
// database/sql + mattn/go-sqlite3 pragma style as the wallet's other
// SQLite access, with the file-lock concern wired to
// github.com/gofrs/flock for an exclusive, non-blocking, whole-file lock.
package walletstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"

	"github.com/webcash-project/walletcore/internal/recovery"
	"github.com/webcash-project/walletcore/internal/sqlval"
)

// Store owns the two sibling files a wallet is made of: the relational
// database (P.db, exclusively locked) and the recovery log (P.bak).
type Store struct {
	DB  *sql.DB
	Log recovery.Log

	lock    *flock.Flock
	dbPath  string
	logPath string
}

// Open opens (creating if absent) the database and recovery log at
// basePath+".db"/".bak", takes an exclusive non-blocking lock on the
// database file, and migrates the schema. A lock that cannot be
// acquired is a fatal "wallet is in use" error.
func Open(basePath string) (*Store, error) {
	return open(basePath, nil)
}

// OpenWithLog is Open with an injected recovery.Log, for tests that need
// to assert on logged content or simulate a log write failure via
// recovery.MemLog.
func OpenWithLog(basePath string, log recovery.Log) (*Store, error) {
	return open(basePath, log)
}

func open(basePath string, log recovery.Log) (*Store, error) {
	dbPath := basePath + ".db"
	logPath := basePath + ".bak"

	if f, err := os.OpenFile(dbPath, os.O_CREATE|os.O_RDWR, 0o600); err != nil {
		return nil, fmt.Errorf("walletstore: create database file: %w", err)
	} else {
		f.Close()
	}

	lock := flock.New(dbPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("walletstore: lock database file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("walletstore: wallet is in use")
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("walletstore: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		lock.Unlock()
		return nil, fmt.Errorf("walletstore: ping database: %w", err)
	}
	// SQLite only supports one writer; the wallet mutex above this layer
	// serialises all callers anyway, so a single connection is enough
	// and avoids SQLITE_BUSY churn under WAL.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := UpgradeDatabase(context.Background(), db); err != nil {
		db.Close()
		lock.Unlock()
		return nil, fmt.Errorf("walletstore: upgrade schema: %w", err)
	}

	if log == nil {
		fileLog, err := recovery.OpenFileLog(logPath)
		if err != nil {
			db.Close()
			lock.Unlock()
			return nil, fmt.Errorf("walletstore: open recovery log: %w", err)
		}
		log = fileLog
	}

	return &Store{DB: db, Log: log, lock: lock, dbPath: dbPath, logPath: logPath}, nil
}

// UpgradeDatabase runs the CREATE TABLE IF NOT EXISTS statements for the
// wallet's schema. Safe to call repeatedly.
func UpgradeDatabase(ctx context.Context, db *sql.DB) error {
	if err := sqlval.Exec(ctx, db, schemaScript, nil); err != nil {
		return err
	}
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return fmt.Errorf("walletstore: check schema_version: %w", err)
	}
	if count == 0 {
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
			return fmt.Errorf("walletstore: record schema version: %w", err)
		}
	}
	return nil
}

// Close releases the recovery log file, the database handle, and the
// inter-process lock, in that order.
func (s *Store) Close() error {
	if err := s.Log.Close(); err != nil {
		return fmt.Errorf("walletstore: close recovery log: %w", err)
	}
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("walletstore: close database: %w", err)
	}
	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("walletstore: release lock: %w", err)
	}
	return nil
}
