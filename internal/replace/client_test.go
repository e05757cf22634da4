package replace

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/webcash-project/walletcore/internal/ledger"
	"github.com/webcash-project/walletcore/internal/walletstore"
	"github.com/webcash-project/walletcore/internal/webcash"
)

// fakeTransport replays a scripted (status, body, err) response and
// records the request it was given, so tests can assert on the wire
// shape without a live server.
type fakeTransport struct {
	status  int
	body    []byte
	err     error
	lastReq []byte
}

func (f *fakeTransport) Do(_ context.Context, _, _ string, body []byte, _ string) (int, []byte, error) {
	f.lastReq = body
	if f.err != nil {
		return 0, nil, f.err
	}
	return f.status, f.body, nil
}

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

func seedSpendableInput(t *testing.T, db *sql.DB, secretHex string, amount webcash.Amount) Input {
	t.Helper()
	ctx := context.Background()
	secretID, err := ledger.UpsertSecret(ctx, db, 1000, secretHex, true, false)
	if err != nil {
		t.Fatal(err)
	}
	hash, err := webcash.SecretHash(secretHex)
	if err != nil {
		t.Fatal(err)
	}
	outputID, err := ledger.InsertOutput(ctx, db, 1000, hash, sql.NullInt64{Int64: secretID, Valid: true}, amount, false)
	if err != nil {
		t.Fatal(err)
	}
	return Input{OutputID: outputID, Secret: secretHex, Amount: amount}
}

func TestValidateRejectsConservationFailure(t *testing.T) {
	inputs := []Input{{OutputID: 1, Secret: "11", Amount: 100}}
	outputs := []ReservedOutput{{SecretID: 1, Secret: "22", Amount: 40}}

	if err := Validate(inputs, outputs); err == nil {
		t.Fatal("expected an error for mismatched conservation, got nil")
	}
}

func TestValidateRejectsEmptySets(t *testing.T) {
	if err := Validate(nil, []ReservedOutput{{SecretID: 1, Secret: "22", Amount: 1}}); err == nil {
		t.Error("expected error for empty inputs")
	}
	if err := Validate([]Input{{OutputID: 1, Secret: "11", Amount: 1}}, nil); err == nil {
		t.Error("expected error for empty outputs")
	}
}

func TestExecuteConservationFailureNeverCallsTransport(t *testing.T) {
	db := openTestDB(t)
	transport := &fakeTransport{status: 200}

	inputs := []Input{{OutputID: 1, Secret: "11", Amount: 100}}
	outputs := []ReservedOutput{{SecretID: 1, Secret: "22", Amount: 40}}

	result, err := Execute(context.Background(), transport, db, inputs, outputs, true)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if result.State != StateIdle {
		t.Errorf("state = %v, want StateIdle", result.State)
	}
	if transport.lastReq != nil {
		t.Error("transport must not be called when validation fails")
	}
}

func TestExecuteNetworkError(t *testing.T) {
	db := openTestDB(t)
	secretHex := "1111111111111111111111111111111111111111111111111111111111111111"
	input := seedSpendableInput(t, db, secretHex, 50)
	outputs := []ReservedOutput{{SecretID: 99, Secret: "2222222222222222222222222222222222222222222222222222222222222222", Amount: 50}}

	transport := &fakeTransport{err: errors.New("connection refused")}
	result, err := Execute(context.Background(), transport, db, []Input{input}, outputs, true)
	if err != nil {
		t.Fatalf("Execute() returned an error for a network failure: %v", err)
	}
	if result.State != StateNetworkErr {
		t.Errorf("state = %v, want StateNetworkErr", result.State)
	}

	out, getErr := ledger.GetOutput(context.Background(), db, input.OutputID)
	if getErr != nil {
		t.Fatal(getErr)
	}
	if out.Spent {
		t.Error("a network failure must not mark the input spent")
	}
}

func TestExecuteHTTPError(t *testing.T) {
	db := openTestDB(t)
	secretHex := "3333333333333333333333333333333333333333333333333333333333333333"
	input := seedSpendableInput(t, db, secretHex, 25)
	outputs := []ReservedOutput{{SecretID: 99, Secret: "4444444444444444444444444444444444444444444444444444444444444444", Amount: 25}}

	transport := &fakeTransport{status: 400, body: []byte(`{"error":"webcash already spent"}`)}
	result, err := Execute(context.Background(), transport, db, []Input{input}, outputs, true)
	if err != nil {
		t.Fatalf("Execute() returned an error for an HTTP failure: %v", err)
	}
	if result.State != StateHTTPErr {
		t.Errorf("state = %v, want StateHTTPErr", result.State)
	}
	if result.Message == "" {
		t.Error("expected the server's error body to be surfaced in Message")
	}

	out, getErr := ledger.GetOutput(context.Background(), db, input.OutputID)
	if getErr != nil {
		t.Fatal(getErr)
	}
	if out.Spent {
		t.Error("an HTTP failure must not mark the input spent")
	}
}

func TestExecuteSuccessCommitsSpendAndOutput(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	secretHex := "5555555555555555555555555555555555555555555555555555555555555555"
	input := seedSpendableInput(t, db, secretHex, 75)

	newSecretHex := "6666666666666666666666666666666666666666666666666666666666666666"
	newSecretID, err := ledger.UpsertSecret(ctx, db, 1000, newSecretHex, true, false)
	if err != nil {
		t.Fatal(err)
	}
	outputs := []ReservedOutput{{SecretID: newSecretID, Secret: newSecretHex, Amount: 75}}

	transport := &fakeTransport{status: 200, body: []byte(`{}`)}
	result, err := Execute(ctx, transport, db, []Input{input}, outputs, true)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.State != StateCommitted {
		t.Fatalf("state = %v, want StateCommitted", result.State)
	}
	if len(result.Committed) != 1 {
		t.Fatalf("Committed = %+v, want one entry", result.Committed)
	}

	spentInput, err := ledger.GetOutput(ctx, db, input.OutputID)
	if err != nil {
		t.Fatal(err)
	}
	if !spentInput.Spent {
		t.Error("expected the input output to be marked spent after a successful replace")
	}

	newOutput, err := ledger.GetOutput(ctx, db, result.Committed[0].OutputID)
	if err != nil {
		t.Fatal(err)
	}
	if newOutput.Spent {
		t.Error("a freshly committed output must not start out spent")
	}
	if newOutput.Amount != 75 {
		t.Errorf("new output amount = %d, want 75", newOutput.Amount)
	}

	if transport.lastReq == nil {
		t.Fatal("expected the request body to have been recorded")
	}
}
