package replace

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/webcash-project/walletcore/internal/ledger"
	"github.com/webcash-project/walletcore/internal/webcash"
	"github.com/webcash-project/walletcore/pkg/logging"
)

// Input identifies one wallet-held output being offered to the
// replace call: the ledger row to mark spent on commit, plus the
// secret and amount needed to build the wire request.
type Input struct {
	OutputID int64
	Secret   string // lowercase hex, the preimage this wallet holds
	Amount   webcash.Amount
}

// ReservedOutput is a freshly-derived secret the caller has already
// written to the recovery log (a secret must never be used externally
// before it is durable) and wants credited on a successful replace.
type ReservedOutput struct {
	SecretID int64 // ledger.Secret row id, from ledger.UpsertSecret
	Secret   string
	Amount   webcash.Amount
}

// CommittedOutput is a ReservedOutput after its output row has been
// recorded in the ledger.
type CommittedOutput struct {
	ReservedOutput
	OutputID int64
}

// Result is the outcome of one Execute call.
type Result struct {
	State     State
	Committed []CommittedOutput
	// Message carries the server's response body on HTTP_ERR, or the
	// transport error text on NETWORK_ERR, for diagnostics.
	Message string
}

// Validate checks the preconditions for a replace call: non-empty
// input and output sets, strictly positive amounts, and conservation
// (sum(inputs) == sum(outputs)). It performs no I/O.
func Validate(inputs []Input, outputs []ReservedOutput) error {
	if len(inputs) == 0 {
		return fmt.Errorf("replace: inputs must be non-empty")
	}
	if len(outputs) == 0 {
		return fmt.Errorf("replace: outputs must be non-empty")
	}

	inAmounts := make([]webcash.Amount, len(inputs))
	for i, in := range inputs {
		if in.Amount < 1 {
			return fmt.Errorf("replace: input %d has non-positive amount %d", i, in.Amount)
		}
		inAmounts[i] = in.Amount
	}
	outAmounts := make([]webcash.Amount, len(outputs))
	for i, out := range outputs {
		if out.Amount < 1 {
			return fmt.Errorf("replace: output %d has non-positive amount %d", i, out.Amount)
		}
		outAmounts[i] = out.Amount
	}

	sumIn, err := webcash.Sum(inAmounts)
	if err != nil {
		return fmt.Errorf("replace: summing inputs: %w", err)
	}
	sumOut, err := webcash.Sum(outAmounts)
	if err != nil {
		return fmt.Errorf("replace: summing outputs: %w", err)
	}
	if sumIn != sumOut {
		return fmt.Errorf("replace: conservation violated: inputs sum to %d, outputs sum to %d", sumIn, sumOut)
	}
	return nil
}

// Execute runs one pass of the replace state machine: it validates,
// submits to the server, and on success commits the outcome to the
// ledger. A precondition failure returns the wallet to IDLE with no
// request ever sent. A transport failure returns NETWORK_ERR; a
// response other than exactly HTTP 200 returns HTTP_ERR; both leave the
// ledger untouched.
// Only StateCommitted touches the database, and that commit phase is
// non-atomic: a single row failing to update is logged and does not
// abort the rest.
func Execute(ctx context.Context, transport Transport, db *sql.DB, inputs []Input, outputs []ReservedOutput, termsAccepted bool) (Result, error) {
	if err := Validate(inputs, outputs); err != nil {
		return Result{State: StateIdle}, err
	}

	inStrs := make([]string, len(inputs))
	for i, in := range inputs {
		inStrs[i] = webcash.SecretWebcash{Amount: in.Amount, Secret: in.Secret}.String()
	}
	outStrs := make([]string, len(outputs))
	for i, out := range outputs {
		outStrs[i] = webcash.SecretWebcash{Amount: out.Amount, Secret: out.Secret}.String()
	}

	body, err := marshalRequest(inStrs, outStrs, termsAccepted)
	if err != nil {
		return Result{State: StateIdle}, fmt.Errorf("replace: marshal request: %w", err)
	}

	status, respBody, err := transport.Do(ctx, http.MethodPost, "/api/v1/replace", body, "application/json")
	if err != nil {
		logging.Warnf("replace: transport error: %v", err)
		return Result{State: StateNetworkErr, Message: err.Error()}, nil
	}
	if status != http.StatusOK {
		logging.Warnf("replace: server rejected request: status=%d body=%s", status, respBody)
		return Result{State: StateHTTPErr, Message: string(respBody)}, nil
	}

	committed := commit(ctx, db, inputs, outputs)
	return Result{State: StateCommitted, Committed: committed}, nil
}

// commit applies a successful replace to the ledger: every input
// output is marked spent, every reserved secret is credited an output
// row. Each row is independent; a failure on one is logged and the
// rest still proceed.
func commit(ctx context.Context, db *sql.DB, inputs []Input, outputs []ReservedOutput) []CommittedOutput {
	now := time.Now().Unix()

	for _, in := range inputs {
		if err := ledger.MarkOutputSpent(ctx, db, in.OutputID); err != nil {
			logging.Errorf("replace: commit: mark output %d spent: %v", in.OutputID, err)
		}
	}

	var committed []CommittedOutput
	for _, out := range outputs {
		hash, err := webcash.SecretHash(out.Secret)
		if err != nil {
			logging.Errorf("replace: commit: hash reserved secret %d: %v", out.SecretID, err)
			continue
		}
		secretID := sql.NullInt64{Int64: out.SecretID, Valid: true}
		id, err := ledger.InsertOutput(ctx, db, now, hash, secretID, out.Amount, false)
		if err != nil {
			logging.Errorf("replace: commit: insert output for secret %d: %v", out.SecretID, err)
			continue
		}
		committed = append(committed, CommittedOutput{ReservedOutput: out, OutputID: id})
	}
	return committed
}
