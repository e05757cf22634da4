package ledger

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/webcash-project/walletcore/internal/walletstore"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	store, err := walletstore.Open(filepath.Join(dir, "wallet"))
	if err != nil {
		t.Fatalf("walletstore.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store.DB
}

func TestUpsertSecretIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().Unix()
	secretHex := "abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789"

	id1, err := UpsertSecret(ctx, db, now, secretHex, true, false)
	if err != nil {
		t.Fatalf("UpsertSecret() error = %v", err)
	}

	id2, err := UpsertSecret(ctx, db, now, secretHex, true, false)
	if err != nil {
		t.Fatalf("UpsertSecret() second call error = %v", err)
	}

	if id1 != id2 {
		t.Errorf("ids differ across idempotent calls: %d != %d", id1, id2)
	}
}

func TestUpsertSecretMergeRulesAreAsymmetric(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().Unix()
	secretHex := "1111111111111111111111111111111111111111111111111111111111111111"

	if _, err := UpsertSecret(ctx, db, now, secretHex, true, false); err != nil {
		t.Fatal(err)
	}

	// mine merges with AND: an incoming mine=false clears it, and a
	// secret once declared not-mine can never become mine again.
	if _, err := UpsertSecret(ctx, db, now, secretHex, false, false); err != nil {
		t.Fatal(err)
	}
	got, err := GetSecret(ctx, db, secretHex)
	if err != nil {
		t.Fatal(err)
	}
	if got.Mine {
		t.Errorf("mine should have become false once merged with an incoming mine=false, got true")
	}

	// A secret once "sweepable" must stay sweepable.
	secretHex2 := "2222222222222222222222222222222222222222222222222222222222222222"
	if _, err := UpsertSecret(ctx, db, now, secretHex2, true, true); err != nil {
		t.Fatal(err)
	}
	if _, err := UpsertSecret(ctx, db, now, secretHex2, true, false); err != nil {
		t.Fatal(err)
	}
	got2, err := GetSecret(ctx, db, secretHex2)
	if err != nil {
		t.Fatal(err)
	}
	if !got2.Sweep {
		t.Errorf("sweep should remain true once set, got false")
	}
}

func TestGetSecretNotFound(t *testing.T) {
	db := openTestDB(t)
	if _, err := GetSecret(context.Background(), db, "0000000000000000000000000000000000000000000000000000000000000000"); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}
