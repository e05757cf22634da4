package ledger

import (
	"context"
	"testing"
	"time"
)

func TestAcceptTermsIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	body := "By using this wallet you agree to nothing in particular."

	if have, _ := HaveAcceptedTerms(ctx, db); have {
		t.Fatal("fresh wallet should not have accepted any terms")
	}

	if err := AcceptTerms(ctx, db, time.Now().Unix(), body); err != nil {
		t.Fatalf("AcceptTerms() error = %v", err)
	}
	if err := AcceptTerms(ctx, db, time.Now().Unix(), body); err != nil {
		t.Fatalf("AcceptTerms() second call error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM terms").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("terms row count = %d, want 1", count)
	}

	accepted, err := AreTermsAccepted(ctx, db, body)
	if err != nil {
		t.Fatal(err)
	}
	if !accepted {
		t.Error("expected AreTermsAccepted to report true")
	}

	have, err := HaveAcceptedTerms(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	if !have {
		t.Error("expected HaveAcceptedTerms to report true")
	}
}

func TestAreTermsAcceptedIsByteExact(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := AcceptTerms(ctx, db, time.Now().Unix(), "Terms version 1."); err != nil {
		t.Fatal(err)
	}

	accepted, err := AreTermsAccepted(ctx, db, "Terms version 1")
	if err != nil {
		t.Fatal(err)
	}
	if accepted {
		t.Error("a near-match body (missing trailing period) must not count as accepted")
	}
}
