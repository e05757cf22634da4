package ledger

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/webcash-project/walletcore/internal/webcash"
)

func TestInsertAndMarkOutputSpent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().Unix()

	secretID, err := UpsertSecret(ctx, db, now, "aaaa111122223333aaaa111122223333aaaa111122223333aaaa111122223333", true, false)
	if err != nil {
		t.Fatal(err)
	}

	var hash webcash.Digest
	for i := range hash {
		hash[i] = byte(i + 1)
	}

	id, err := InsertOutput(ctx, db, now, hash, sql.NullInt64{Int64: secretID, Valid: true}, 500, false)
	if err != nil {
		t.Fatalf("InsertOutput() error = %v", err)
	}

	got, err := GetOutput(ctx, db, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Spent {
		t.Error("newly inserted output should not be spent")
	}
	if got.Amount != 500 {
		t.Errorf("amount = %d, want 500", got.Amount)
	}

	if err := MarkOutputSpent(ctx, db, id); err != nil {
		t.Fatalf("MarkOutputSpent() error = %v", err)
	}
	got2, err := GetOutput(ctx, db, id)
	if err != nil {
		t.Fatal(err)
	}
	if !got2.Spent {
		t.Error("expected output to be spent after MarkOutputSpent")
	}
}

func TestInsertOutputWithoutSecret(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	var hash webcash.Digest
	hash[0] = 0xff

	id, err := InsertOutput(ctx, db, time.Now().Unix(), hash, sql.NullInt64{}, 10, false)
	if err != nil {
		t.Fatalf("InsertOutput() error = %v", err)
	}
	got, err := GetOutput(ctx, db, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.SecretID.Valid {
		t.Error("expected NULL secret_id")
	}
}

func TestListOutputsBySpent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().Unix()

	var h1, h2 webcash.Digest
	h1[0], h2[0] = 1, 2

	unspentID, err := InsertOutput(ctx, db, now, h1, sql.NullInt64{}, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	_, err = InsertOutput(ctx, db, now, h2, sql.NullInt64{}, 2, true)
	if err != nil {
		t.Fatal(err)
	}

	unspent, err := ListOutputs(ctx, db, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(unspent) != 1 || unspent[0].ID != unspentID {
		t.Errorf("ListOutputs(false) = %+v, want one row with id %d", unspent, unspentID)
	}

	spent, err := ListOutputs(ctx, db, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(spent) != 1 {
		t.Errorf("ListOutputs(true) = %+v, want one row", spent)
	}
}
