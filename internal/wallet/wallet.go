// Package wallet implements the orchestrating Wallet handle the CLI
// asks the store for: a single process-local handle over one wallet
// file pair. It composes internal/walletstore (lifecycle), internal/hdkey
// (derivation), internal/ledger (bookkeeping), internal/recovery (the
// durable log), and internal/replace (the mint protocol) behind a
// single process-wide mutex, struct-with-mutex-and-cache shaped after
// an earlier derivation-cache guard: that mutex protected a
// key-derivation cache alone, this one guards every public operation
// for the same reason: the underlying SQLite connection is a single
// logical writer.
package wallet

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/webcash-project/walletcore/internal/hdkey"
	"github.com/webcash-project/walletcore/internal/ledger"
	"github.com/webcash-project/walletcore/internal/recovery"
	"github.com/webcash-project/walletcore/internal/replace"
	"github.com/webcash-project/walletcore/internal/walletstore"
	"github.com/webcash-project/walletcore/internal/webcash"
	"github.com/webcash-project/walletcore/pkg/logging"
)

// WalletSecret is a freshly reserved derivation result. ID is filled
// from the inserted secret row.
type WalletSecret struct {
	ID     int64
	Secret string
	Mine   bool
	Sweep  bool
	Depth  uint64
}

// Wallet is the process-local handle over one wallet file pair. All
// public methods serialise through mu; none are safe to call after
// Close.
type Wallet struct {
	mu sync.Mutex

	store     *walletstore.Store
	transport replace.Transport

	root   webcash.Digest
	rootID int64
}

// Open opens (or creates) the wallet at basePath and the HD root it
// contains, wiring an HTTP transport at serverBaseURL for Replace calls.
func Open(basePath, serverBaseURL string) (*Wallet, error) {
	return open(basePath, replace.NewHTTPTransport(serverBaseURL), nil)
}

// OpenWithTransport is Open with an injected Transport, for tests that
// need to mock the mint server.
func OpenWithTransport(basePath string, transport replace.Transport) (*Wallet, error) {
	return open(basePath, transport, nil)
}

// OpenWithTransportAndLog is Open with both an injected Transport and an
// injected recovery.Log, for tests that need to assert on recovery-log
// behavior (e.g. a recovery.MemLog with FailNext set) independently of
// the mint transport.
func OpenWithTransportAndLog(basePath string, transport replace.Transport, log recovery.Log) (*Wallet, error) {
	return open(basePath, transport, log)
}

func open(basePath string, transport replace.Transport, log recovery.Log) (*Wallet, error) {
	var store *walletstore.Store
	var err error
	if log != nil {
		store, err = walletstore.OpenWithLog(basePath, log)
	} else {
		store, err = walletstore.Open(basePath)
	}
	if err != nil {
		return nil, err
	}

	w := &Wallet{store: store, transport: transport}

	root, rootID, err := w.getOrCreateHDRoot(context.Background(), time.Now().Unix())
	if err != nil {
		store.Close()
		return nil, err
	}
	w.root = root
	w.rootID = rootID
	return w, nil
}

// Close zeroises the in-memory HD root and releases the store's
// recovery log, database handle, and file lock, in that order.
func (w *Wallet) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.root.Zero()
	return w.store.Close()
}

// getOrCreateHDRoot loads the wallet's one hdroot row, or creates it
// on first open. On creation, the root's recovery log line is flushed
// before the hdroot row is inserted, and before the four bootstrap
// hdchain rows are inserted, honoring log-precedes-database ordering.
func (w *Wallet) getOrCreateHDRoot(ctx context.Context, timestamp int64) (webcash.Digest, int64, error) {
	count, err := ledger.CountHDRoots(ctx, w.store.DB)
	if err != nil {
		return webcash.Digest{}, 0, fmt.Errorf("wallet: count hdroot rows: %w", err)
	}
	if count > 1 {
		return webcash.Digest{}, 0, fmt.Errorf("wallet: found %d hdroot rows, wallet file is corrupt", count)
	}

	if count == 1 {
		row, err := ledger.GetHDRoot(ctx, w.store.DB)
		if err != nil {
			return webcash.Digest{}, 0, fmt.Errorf("wallet: load hdroot: %w", err)
		}
		root, err := hdkey.DecodeRootSecret(row.Secret, row.Version)
		if err != nil {
			return webcash.Digest{}, 0, fmt.Errorf("wallet: decode hdroot: %w", err)
		}
		return root, row.ID, nil
	}

	root, err := hdkey.RandomRoot()
	if err != nil {
		return webcash.Digest{}, 0, fmt.Errorf("wallet: generate hdroot: %w", err)
	}

	line := recovery.FormatRootLine(timestamp, root.String())
	if err := w.store.Log.AppendLine(line); err != nil {
		return webcash.Digest{}, 0, fmt.Errorf("wallet: write hdroot to recovery log: %w", err)
	}

	secret := append([]byte(nil), root[:]...)

	tx, err := w.store.DB.BeginTx(ctx, nil)
	if err != nil {
		return webcash.Digest{}, 0, fmt.Errorf("wallet: begin hdroot bootstrap transaction: %w", err)
	}
	defer tx.Rollback()

	rootID, err := ledger.InsertHDRootTx(ctx, tx, timestamp, hdkey.RootVersion, secret)
	if err != nil {
		return webcash.Digest{}, 0, fmt.Errorf("wallet: insert hdroot: %w", err)
	}

	for _, pair := range [4][2]bool{{false, false}, {false, true}, {true, false}, {true, true}} {
		mine, sweep := pair[0], pair[1]
		if _, err := ledger.InsertHDChainTx(ctx, tx, rootID, 0, mine, sweep); err != nil {
			return webcash.Digest{}, 0, fmt.Errorf("wallet: create hdchain mine=%v sweep=%v: %w", mine, sweep, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return webcash.Digest{}, 0, fmt.Errorf("wallet: commit hdroot bootstrap transaction: %w", err)
	}

	return root, rootID, nil
}

// ReserveSecret derives the next secret on the (mine, sweep) chain and
// atomically links it into the ledger. The derived secret is not
// written to the recovery log by this call; the caller must log it
// before putting it to any externally-observable use.
func (w *Wallet) ReserveSecret(ctx context.Context, timestamp int64, mine, sweep bool) (WalletSecret, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	chain, err := ledger.GetHDChain(ctx, w.store.DB, w.rootID, 0, mine, sweep)
	if err != nil {
		return WalletSecret{}, fmt.Errorf("wallet: load hdchain mine=%v sweep=%v: %w", mine, sweep, err)
	}

	depth := chain.MaxDepth
	secretHex := hdkey.Derive(w.root, chain.Chaincode, mine, sweep, depth)

	tx, err := w.store.DB.BeginTx(ctx, nil)
	if err != nil {
		return WalletSecret{}, fmt.Errorf("wallet: begin reserve transaction: %w", err)
	}
	defer tx.Rollback()

	secretID, err := ledger.UpsertSecretTx(ctx, tx, timestamp, secretHex, mine, sweep)
	if err != nil {
		return WalletSecret{}, fmt.Errorf("wallet: reserve secret: %w", err)
	}
	if _, err := ledger.InsertHDKeyTx(ctx, tx, chain.ID, depth, secretID); err != nil {
		return WalletSecret{}, fmt.Errorf("wallet: link reserved secret: %w", err)
	}
	if err := ledger.IncrementMaxDepthTx(ctx, tx, chain.ID); err != nil {
		return WalletSecret{}, fmt.Errorf("wallet: advance chain depth: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return WalletSecret{}, fmt.Errorf("wallet: commit reserve transaction: %w", err)
	}

	return WalletSecret{ID: secretID, Secret: secretHex, Mine: mine, Sweep: sweep, Depth: depth}, nil
}

// AddSecretToWallet records an externally-obtained secret: the
// recovery log line is appended and flushed first; a failure there is
// logged loudly but does not abort, since the database insert that
// follows is the operational source of truth for current wallet
// state. An intentional trade of durability for liveness.
func (w *Wallet) AddSecretToWallet(ctx context.Context, timestamp int64, sk webcash.SecretWebcash, mine, sweep bool) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	category := hdkey.CategoryOf(mine, sweep)
	line := recovery.FormatLine(timestamp, category.LogEvent(), sk.String())
	if err := w.store.Log.AppendLine(line); err != nil {
		logging.Errorf("wallet: BACKUP THIS KEY NOW: recovery log append failed (%v), continuing to database write: %s", err, line)
	}

	id, err := ledger.UpsertSecret(ctx, w.store.DB, timestamp, sk.Secret, mine, sweep)
	if err != nil {
		return 0, fmt.Errorf("wallet: add secret: %w", err)
	}
	return id, nil
}

// AddOutputToWallet inserts a tracked output row. secretID may be
// sql.NullInt64{} to bind SQL NULL, for an output tracked without the
// wallet holding its preimage.
func (w *Wallet) AddOutputToWallet(ctx context.Context, timestamp int64, pk webcash.PublicWebcash, secretID sql.NullInt64, spent bool) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id, err := ledger.InsertOutput(ctx, w.store.DB, timestamp, pk.Hash, secretID, pk.Amount, spent)
	if err != nil {
		return 0, fmt.Errorf("wallet: add output: %w", err)
	}
	return id, nil
}

// Replace runs one replace-protocol exchange. The terms-accepted flag
// sent to the server reflects whether this wallet has ever recorded
// an accepted terms body.
func (w *Wallet) Replace(ctx context.Context, inputs []replace.Input, outputs []replace.ReservedOutput) (replace.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	accepted, err := ledger.HaveAcceptedTerms(ctx, w.store.DB)
	if err != nil {
		return replace.Result{}, fmt.Errorf("wallet: check terms acceptance: %w", err)
	}
	return replace.Execute(ctx, w.transport, w.store.DB, inputs, outputs, accepted)
}

// Balances reports aggregate amounts grouped by category and spent
// state.
func (w *Wallet) Balances(ctx context.Context) ([]ledger.Balance, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ledger.Balances(ctx, w.store.DB)
}

// AcceptTerms idempotently records acceptance of a terms body.
func (w *Wallet) AcceptTerms(ctx context.Context, timestamp int64, body string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ledger.AcceptTerms(ctx, w.store.DB, timestamp, body)
}

// HaveAcceptedTerms reports whether any terms body has ever been accepted.
func (w *Wallet) HaveAcceptedTerms(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ledger.HaveAcceptedTerms(ctx, w.store.DB)
}

// MnemonicHint renders this wallet's HD root as a 24-word BIP-39
// backup phrase for off-line display. It is a display convenience
// only; the wallet never stores or derives from the mnemonic form.
func (w *Wallet) MnemonicHint() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return webcash.MnemonicHint(w.root)
}
