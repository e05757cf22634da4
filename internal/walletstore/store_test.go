package walletstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenCreatesDBAndLog(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "wallet")

	store, err := Open(base)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(base + ".db"); err != nil {
		t.Errorf("database file missing: %v", err)
	}
	if _, err := os.Stat(base + ".bak"); err != nil {
		t.Errorf("recovery log missing: %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "wallet")

	store, err := Open(base)
	if err != nil {
		t.Fatalf("first Open() error = %v", err)
	}
	store.Close()

	store2, err := Open(base)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer store2.Close()

	var count int
	if err := store2.DB.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("schema_version row count = %d, want 1", count)
	}
}

func TestOpenCreatesAllTables(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "wallet")

	store, err := Open(base)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	for _, table := range []string{"hdroot", "hdchain", "secret", "hdkey", "output", "terms", "schema_version"} {
		var name string
		if err := store.DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name); err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestSecondOpenFailsWhileFirstIsAlive(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "wallet")

	first, err := Open(base)
	if err != nil {
		t.Fatalf("first Open() error = %v", err)
	}
	defer first.Close()

	if _, err := Open(base); err == nil {
		t.Error("second Open() should fail while the first wallet holds the lock")
	}
}
